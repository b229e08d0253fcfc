package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"channel-insights/domain/repository"
	"channel-insights/infrastructure/cache"
	youtubeclient "channel-insights/infrastructure/clients/youtube"
	"channel-insights/infrastructure/configuration"
	"channel-insights/infrastructure/filecsv"
	"channel-insights/infrastructure/logger"
	"channel-insights/infrastructure/persistence"
	"channel-insights/infrastructure/pubsub"
	"channel-insights/infrastructure/servicebus"
	"channel-insights/infrastructure/storage"
	"channel-insights/infrastructure/throttle"
	"channel-insights/infrastructure/utils"
	httpHandler "channel-insights/interfaces/http"
	"channel-insights/server"
	"channel-insights/usecase"

	"golang.org/x/sync/errgroup"
)

const usage = "usage: channel-insights <collect|serve|token [viewer]>"

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
		os.Exit(2)
	}
}

func main() {
	defer recoverPanic()

	mode := "serve"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var err error
	switch mode {
	case "collect":
		err = runCollect(ctx)
	case "serve":
		err = runServe(ctx)
	case "token":
		viewer := "viewer"
		if len(os.Args) > 2 {
			viewer = os.Args[2]
		}
		err = printToken(viewer)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"mode": mode, "error": err}).Error("Run failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}

func runCollect(ctx context.Context) error {
	youtubeConfig, err := configuration.GetYouTubeConfig()
	if err != nil {
		return err
	}

	client, err := youtubeclient.NewYouTubeClient(ctx, &youtubeclient.Config{
		APIKey:         youtubeConfig.APIKey,
		ChannelID:      youtubeConfig.ChannelID,
		Endpoint:       youtubeConfig.Endpoint,
		RequestTimeout: youtubeConfig.RequestTimeout,
	})
	if err != nil {
		return err
	}

	c := configuration.C
	policy, err := usecase.ParseItemFailurePolicy(c.Collector.ItemFailurePolicy)
	if err != nil {
		return err
	}
	pacing := throttle.NewInterval(c.Collector.PageInterval())
	collector := usecase.NewCollector(usecase.CollectorConfig{
		ChannelID:  youtubeConfig.ChannelID,
		MaxPages:   c.Collector.MaxPages,
		ItemPolicy: policy,
		StatsTTL:   c.RedisClient.StatsTTL(),
	}, client, pacing)
	logger.GetLogger().WithFields(map[string]interface{}{
		"channelId":    youtubeConfig.ChannelID,
		"pageInterval": pacing.MinInterval().String(),
		"itemPolicy":   c.Collector.ItemFailurePolicy,
	}).Info("Starting collection")

	if c.RedisClient.Host != "" {
		redisClient, err := cache.NewCache(ctx,
			fmt.Sprintf("%s:%s", c.RedisClient.Host, c.RedisClient.Port),
			c.RedisClient.Username,
			c.RedisClient.Password,
			c.RedisClient.DB,
		)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Redis not available - collecting without stats cache")
		} else {
			defer redisClient.Close()
			collector = collector.WithCache(cache.NewStatsCache(redisClient))
			logger.GetLogger().Info("Redis stats cache enabled")
		}
	}

	store := storage.NewDatasetFileStore(c.Dataset.Path)
	etl := usecase.NewETLUsecase(usecase.ETLConfig{FailOnPartial: c.Collector.FailOnPartial}, collector, store)

	sinks, closeSinks := initiateSinks(ctx, c)
	defer closeSinks()
	etl.WithSinks(sinks...)
	publishers, closePublishers := initiatePublishers(ctx, c)
	defer closePublishers()
	etl.WithPublishers(publishers...)

	report, err := etl.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Data saved to %s (%d videos, %d pages, run %s)\n", report.Path, report.Rows, report.Pages, report.RunID)
	if report.Partial {
		fmt.Println("Warning: collection ended early, the dataset is partial")
	}
	return nil
}

// initiateSinks opens the optional export targets; unavailable ones are skipped
func initiateSinks(ctx context.Context, c configuration.Config) ([]repository.IVideoSink, func()) {
	var sinks []repository.IVideoSink
	var closers []func()
	log := logger.GetLogger()

	switch c.Export.SQLVendor {
	case "":
	case "postgres":
		db, err := persistence.NewPostgreSQLDB(c.Database.Psql)
		if err == nil {
			err = persistence.EnsureVideoStatsSchema(db)
		}
		if err != nil {
			log.WithField("error", err).Warn("PostgreSQL not available - skipping SQL export")
			break
		}
		closers = append(closers, func() { _ = db.Close() })
		sinks = append(sinks, persistence.NewVideoStatsRepository(db))
	case "mssql":
		db, err := persistence.NewMSSQLDB(c.Database.Mssql)
		if err == nil {
			err = persistence.EnsureVideoStatsSchemaMSSQL(db)
		}
		if err != nil {
			log.WithField("error", err).Warn("MSSQL not available - skipping SQL export")
			break
		}
		closers = append(closers, func() { _ = db.Close() })
		sinks = append(sinks, persistence.NewVideoStatsRepositoryMSSQL(db))
	case "mysql":
		db, err := persistence.NewRepositories(c.Database.MySql)
		if err == nil {
			err = persistence.EnsureVideoStatsSchemaMySQL(db)
		}
		if err != nil {
			log.WithField("error", err).Warn("MySQL not available - skipping SQL export")
			break
		}
		if sqlDB, err := db.DB(); err == nil {
			closers = append(closers, func() { _ = sqlDB.Close() })
		}
		sinks = append(sinks, persistence.NewVideoStatsRepositoryMySQL(db))
	default:
		log.WithField("vendor", c.Export.SQLVendor).Warn("Unknown export SQL vendor - skipping SQL export")
	}

	if c.Export.Mongo {
		client, err := persistence.NewMongoDb(ctx, c.Database.Mongo)
		if err != nil {
			log.WithField("error", err).Warn("MongoDB not available - skipping Mongo export")
		} else {
			closers = append(closers, func() { _ = client.Disconnect(context.Background()) })
			sinks = append(sinks, persistence.NewVideoStatsRepositoryMongo(client, c.Database.Mongo.Name))
		}
	}

	if c.Export.CSVPath != "" {
		sinks = append(sinks, filecsv.NewVideoCSV(c.Export.CSVPath))
	}

	return sinks, func() {
		for _, closeFn := range closers {
			closeFn()
		}
	}
}

// initiatePublishers opens the optional completion event targets
func initiatePublishers(ctx context.Context, c configuration.Config) ([]repository.IEventPublisher, func()) {
	var publishers []repository.IEventPublisher
	var closers []func()
	log := logger.GetLogger()

	if c.Pubsub.ProjectID != "" {
		client, err := pubsub.NewPubSub(ctx, c.Pubsub.ProjectID)
		if err != nil {
			log.WithField("error", err).Warn("PubSub not available - skipping completion event")
		} else {
			closers = append(closers, func() { _ = client.Close() })
			publishers = append(publishers, pubsub.NewDatasetPubSub(client, c.Pubsub.Topic))
		}
	}

	if c.ServiceBus.Namespace != "" {
		client, err := servicebus.NewServiceBus(ctx, c.ServiceBus.Namespace)
		if err != nil {
			log.WithField("error", err).Warn("Azure Service Bus not available - skipping completion event")
		} else {
			closers = append(closers, func() { _ = client.Close(context.Background()) })
			publishers = append(publishers, servicebus.NewDatasetServiceBus(client, c.ServiceBus.Queue))
		}
	}

	return publishers, func() {
		for _, closeFn := range closers {
			closeFn()
		}
	}
}

func runServe(ctx context.Context) error {
	c := configuration.C
	store := storage.NewDatasetFileStore(c.Dataset.Path)
	dashboardUsecase, err := usecase.LoadDashboard(ctx, store, c.Dashboard.ChannelName)
	if err != nil {
		return fmt.Errorf("load dataset (run collect first): %w", err)
	}

	dashboardHandler := httpHandler.NewDashboardHandler(dashboardUsecase)
	router := server.InitiateRouter(dashboardHandler, c.App.SecretKey, c.App.AllowOrigins)
	if c.App.SecretKey == "" {
		logger.GetLogger().Warn("SECRET_KEY not set - dashboard is open to anyone who can reach it")
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", c.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.GetLogger().WithField("port", c.App.Port).Info("Starting dashboard")
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.GetLogger().Info("Application shutdown requested")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func printToken(viewer string) error {
	secret := configuration.C.App.SecretKey
	if secret == "" {
		return errors.New("SECRET_KEY is not set")
	}
	token, err := utils.GenerateViewerToken(viewer, secret, 30*24*time.Hour)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
