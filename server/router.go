package server

import (
	"net/http"
	"time"

	httpHandler "channel-insights/interfaces/http"
	"channel-insights/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var defaultOrigins = []string{"http://localhost:8501", "http://127.0.0.1:8501"}

func InitiateRouter(
	dashboardHandler httpHandler.IDashboardHandler,
	secretKey string,
	allowOrigins []string,
) *gin.Engine {
	if len(allowOrigins) == 0 {
		allowOrigins = defaultOrigins
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	page := router.Group("/")
	page.Use(middleware.Auth(secretKey))
	page.GET("/", dashboardHandler.Page)

	api := router.Group("/api/dashboard")
	api.Use(middleware.Auth(secretKey))
	{
		api.GET("/summary", dashboardHandler.Summary)
		api.GET("/sample", dashboardHandler.Sample)
		api.GET("/monthly-views", dashboardHandler.MonthlyViews)
		api.GET("/engagement", dashboardHandler.Engagement)
		api.GET("/recency", dashboardHandler.Recency)
		api.GET("/scatter", dashboardHandler.Scatter)
	}

	return router
}
