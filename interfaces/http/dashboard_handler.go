package http

import (
	"embed"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"strconv"

	"channel-insights/domain/dto"
	"channel-insights/infrastructure/logger"
	"channel-insights/usecase"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/google/go-querystring/query"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.New("dashboard.html").Funcs(template.FuncMap{
	"comma":   comma,
	"percent": percent,
}).ParseFS(templateFS, "templates/dashboard.html"))

// IDashboardHandler defines the dashboard HTTP handlers
type IDashboardHandler interface {
	Page(ctx *gin.Context)
	Summary(ctx *gin.Context)
	Sample(ctx *gin.Context)
	MonthlyViews(ctx *gin.Context)
	Engagement(ctx *gin.Context)
	Recency(ctx *gin.Context)
	Scatter(ctx *gin.Context)
}

// DashboardQuery is the query string understood by the HTML page
type DashboardQuery struct {
	Sample bool   `url:"sample,int,omitempty" form:"sample"`
	Bucket string `url:"bucket,omitempty" form:"bucket"`
	Token  string `url:"token,omitempty" form:"token"`
}

type bucketLink struct {
	Name     string
	URL      string
	Selected bool
}

type dashboardPage struct {
	Title           string
	Summary         dto.DashboardSummary
	ShowSample      bool
	SampleToggleURL string
	Sample          []dto.DashboardSampleRow
	Monthly         []dto.MonthlyViews
	Engagement      []dto.EngagementEntry
	BucketLinks     []bucketLink
	BucketVideos    []dto.RecencyVideo
	Scatter         []dto.ScatterPoint
}

type DashboardHandler struct {
	dashboardUsecase usecase.IDashboardUsecase
}

func NewDashboardHandler(dashboardUsecase usecase.IDashboardUsecase) IDashboardHandler {
	return &DashboardHandler{dashboardUsecase: dashboardUsecase}
}

// Page handles GET /
func (h *DashboardHandler) Page(ctx *gin.Context) {
	var q DashboardQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query", "message": err.Error()})
		return
	}
	if q.Bucket == "" {
		q.Bucket = usecase.BucketLast3Months
	}

	bucketVideos, err := h.dashboardUsecase.TopByViewsInBucket(q.Bucket, usecase.DefaultEngagementSize)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bucket", "message": err.Error()})
		return
	}

	summary := h.dashboardUsecase.Summary()
	page := dashboardPage{
		Title:        "Channel performance",
		Summary:      summary,
		ShowSample:   q.Sample,
		Monthly:      h.dashboardUsecase.MonthlyViews(),
		Engagement:   h.dashboardUsecase.TopEngagement(usecase.DefaultEngagementSize),
		BucketVideos: bucketVideos,
		Scatter:      h.dashboardUsecase.Scatter(),
	}
	if summary.ChannelName != "" {
		page.Title = fmt.Sprintf("Channel performance: %s", summary.ChannelName)
	}
	if q.Sample {
		page.Sample = h.dashboardUsecase.Sample(usecase.DefaultSampleSize)
	}

	toggle := q
	toggle.Sample = !q.Sample
	page.SampleToggleURL = pageURL(toggle)
	for _, b := range usecase.Buckets {
		link := q
		link.Bucket = b
		page.BucketLinks = append(page.BucketLinks, bucketLink{Name: b, URL: pageURL(link), Selected: b == q.Bucket})
	}

	ctx.Render(http.StatusOK, render.HTML{Template: dashboardTemplate, Name: "dashboard.html", Data: page})
}

// Summary handles GET /api/dashboard/summary
func (h *DashboardHandler) Summary(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": h.dashboardUsecase.Summary()})
}

// Sample handles GET /api/dashboard/sample
func (h *DashboardHandler) Sample(ctx *gin.Context) {
	n, ok := limitParam(ctx, usecase.DefaultSampleSize)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": h.dashboardUsecase.Sample(n)})
}

// MonthlyViews handles GET /api/dashboard/monthly-views
func (h *DashboardHandler) MonthlyViews(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": h.dashboardUsecase.MonthlyViews()})
}

// Engagement handles GET /api/dashboard/engagement
func (h *DashboardHandler) Engagement(ctx *gin.Context) {
	n, ok := limitParam(ctx, usecase.DefaultEngagementSize)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": h.dashboardUsecase.TopEngagement(n)})
}

// Recency handles GET /api/dashboard/recency?bucket=
func (h *DashboardHandler) Recency(ctx *gin.Context) {
	n, ok := limitParam(ctx, usecase.DefaultEngagementSize)
	if !ok {
		return
	}
	bucket := ctx.DefaultQuery("bucket", usecase.BucketLast3Months)
	videos, err := h.dashboardUsecase.TopByViewsInBucket(bucket, n)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid bucket",
			"message": err.Error(),
			"buckets": usecase.Buckets,
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "bucket": bucket, "data": videos})
}

// Scatter handles GET /api/dashboard/scatter
func (h *DashboardHandler) Scatter(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": h.dashboardUsecase.Scatter()})
}

func limitParam(ctx *gin.Context, def int) (int, bool) {
	raw := ctx.Query("n")
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "n must be a positive integer"})
		return 0, false
	}
	return n, true
}

func pageURL(q DashboardQuery) string {
	v, err := query.Values(q)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Failed to encode dashboard query")
		return "/"
	}
	if len(v) == 0 {
		return "/"
	}
	return "/?" + v.Encode()
}

func comma(v interface{}) string {
	switch n := v.(type) {
	case int32:
		return humanize.Comma(int64(n))
	case int64:
		return humanize.Comma(n)
	case int:
		return humanize.Comma(int64(n))
	default:
		return fmt.Sprint(v)
	}
}

// percent scales a ratio to a bar width
func percent(ratio float64) string {
	return strconv.FormatFloat(math.Min(ratio*100, 100), 'f', 2, 64)
}
