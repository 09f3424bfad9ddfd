package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"nova-studio/domain/model"
	"nova-studio/domain/repository"
	"nova-studio/infrastructure/cache"
	"nova-studio/infrastructure/clients/analysis"
	"nova-studio/infrastructure/clients/identity"
	"nova-studio/infrastructure/clients/meta"
	"nova-studio/infrastructure/clients/youtube"
	"nova-studio/infrastructure/configuration"
	"nova-studio/infrastructure/logger"
	"nova-studio/infrastructure/persistence"
	"nova-studio/infrastructure/pubsub"
	"nova-studio/infrastructure/realtime"
	"nova-studio/infrastructure/servicebus"
	httpHandler "nova-studio/interfaces/http"
	"nova-studio/server"
	"nova-studio/usecase"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

// schemaEnsurer is implemented by the SQL-backed stores.
type schemaEnsurer interface {
	EnsureSchema(ctx context.Context) error
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	conf := configuration.C
	app := conf.App
	clock := clockwork.NewRealClock()
	feedbackTTL := conf.Feedback.Duration()

	kv, driver, closeStorage := InitiateStorage(ctx, conf)
	defer closeStorage()
	identities := persistence.NewIdentityRepository(kv)
	connections := persistence.NewConnectionRepository(kv)

	events, closeEvents := InitiateEvents(ctx, conf)
	defer closeEvents()

	hub := realtime.NewStateHub()
	sessions := usecase.NewSessionStore(ctx, identities, connections, hub.BroadcastState)

	graph := meta.NewGraphClient(conf.OAuth.Meta.GraphEndpoint, 10*time.Second)
	defer func() { _ = graph.Close() }()
	channels := youtube.NewChannelVerifier("")

	analysisClient := analysis.NewClient(analysis.Config{
		APIKey:     conf.Analysis.APIKey,
		BaseURL:    conf.Analysis.BaseURL,
		Model:      conf.Analysis.Model,
		MaxRetries: -1,
	})
	if conf.Analysis.APIKey == "" {
		logger.GetLogger().Warn("Analysis API key not set; commands will fall back to the offline reply")
	}

	render := usecase.NewRenderSimulator(clock, conf.Export.TickInterval(), conf.Export.ProgressStep, conf.Export.ShareBaseURL)
	publish := usecase.NewPublishOrchestrator(clock, conf.Export.UploadDelay(), conf.Export.ProcessingDelay()).
		WithVerifier(model.PlatformInstagram, graph).
		WithVerifier(model.PlatformYouTubeShorts, channels).
		WithVerifier(model.PlatformYouTubeLong, channels)
	if events != nil {
		publish = publish.WithEvents(events)
	}

	sessionUsecase := usecase.NewSessionUsecase(
		sessions,
		identity.NewSimulatedProvider(),
		identities,
		connections,
		app.SecretKey,
		time.Duration(app.TokenTTLMin)*time.Minute,
		clock,
		feedbackTTL,
	)
	commandUsecase := usecase.NewCommandUsecase(
		sessions,
		analysis.NewDraftAnalyzer(),
		analysisClient,
		clock,
		time.Duration(conf.Analysis.TimeoutSeconds)*time.Second,
	)
	exportUsecase := usecase.NewExportUsecase(sessions, render, publish, analysisClient, clock, feedbackTTL)
	connectionUsecase := usecase.NewConnectionUsecase(
		sessions,
		connections,
		usecase.MetaOAuth{
			AppID:        conf.OAuth.Meta.AppID,
			RedirectURI:  conf.OAuth.Meta.RedirectURI,
			AuthEndpoint: conf.OAuth.Meta.AuthEndpoint,
			Scopes:       conf.OAuth.Meta.Scopes,
			TokenTTL:     time.Duration(conf.OAuth.Meta.TokenTTLDays) * 24 * time.Hour,
		},
		graph,
		clock,
		feedbackTTL,
	)
	if conf.OAuth.Google.ClientID != "" {
		connectionUsecase = connectionUsecase.WithYouTube(
			youtube.NewOAuthConfig(conf.OAuth.Google.ClientID, conf.OAuth.Google.ClientSecret, conf.OAuth.Google.RedirectURI, conf.OAuth.Google.Scopes),
			channels,
		)
	} else {
		logger.GetLogger().Info("Google OAuth client not configured; YouTube connections disabled")
	}

	router := server.InitiateRouter(server.Handlers{
		Health:     httpHandler.NewHealthHandler(driver),
		Session:    httpHandler.NewSessionHandler(sessionUsecase),
		Studio:     httpHandler.NewStudioHandler(commandUsecase),
		Export:     httpHandler.NewExportHandler(exportUsecase, hub),
		Connection: httpHandler.NewConnectionHandler(connectionUsecase, app.Origin),
	}, conf.Cors.AllowOrigins, app.SecretKey, identities)

	port := app.Port
	logger.GetLogger().WithFields(map[string]interface{}{"port": port, "tls": app.TLSEnabled, "storage": driver}).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
			// No write timeout: the state stream is long-lived.
			ReadHeaderTimeout: 10 * time.Second,
		}
		if app.TLSEnabled && app.TLSCertFile != "" && app.TLSKeyFile != "" {
			logger.GetLogger().WithFields(map[string]interface{}{"cert": app.TLSCertFile, "key": app.TLSKeyFile}).Info("Serving HTTPS")
			if err := httpServer.ListenAndServeTLS(app.TLSCertFile, app.TLSKeyFile); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
		if app.TLSEnabled {
			logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// InitiateStorage opens the configured key-value backend. Any failure falls back to the
// in-memory store so the dashboard stays usable without a database.
func InitiateStorage(ctx context.Context, conf configuration.Config) (repository.IKeyValue, string, func()) {
	noop := func() {}
	table := conf.Storage.Table
	lg := logger.GetLogger().WithField("driver", conf.Storage.Driver)

	kv, closer, err := openStorage(ctx, conf.Storage.Driver, table, conf)
	if err != nil {
		lg.WithField("error", err).Warn("Storage backend unavailable - falling back to memory")
		return cache.NewMemoryKeyValue(), "memory", noop
	}
	if kv == nil {
		return cache.NewMemoryKeyValue(), "memory", noop
	}
	if s, ok := kv.(schemaEnsurer); ok {
		if err := s.EnsureSchema(ctx); err != nil {
			lg.WithField("error", err).Warn("Failed ensuring storage schema - falling back to memory")
			closer()
			return cache.NewMemoryKeyValue(), "memory", noop
		}
	}
	lg.Info("Storage backend connected")
	return kv, conf.Storage.Driver, closer
}

func openStorage(ctx context.Context, driver, table string, conf configuration.Config) (repository.IKeyValue, func(), error) {
	switch driver {
	case "postgres":
		db, err := persistence.NewPostgreSQLDB(conf.Database.Psql)
		if err != nil {
			return nil, nil, err
		}
		kv, err := persistence.NewPostgresKeyValue(db, table)
		return kv, func() { _ = db.Close() }, err
	case "mssql":
		db, err := persistence.NewMSSQLDB(conf.Database.Mssql)
		if err != nil {
			return nil, nil, err
		}
		kv, err := persistence.NewMSSQLKeyValue(db, table)
		return kv, func() { _ = db.Close() }, err
	case "mysql":
		gdb, err := persistence.NewMySQLGorm(conf.Database.MySql)
		if err != nil {
			return nil, nil, err
		}
		closer := func() {
			if sqlDB, err := gdb.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		kv, err := persistence.NewMySQLKeyValue(gdb, table)
		return kv, closer, err
	case "mongo":
		client, err := persistence.NewMongoDb(ctx, conf.Database.Mongo)
		if err != nil {
			return nil, nil, err
		}
		closer := func() { _ = client.Disconnect(context.Background()) }
		return persistence.NewMongoKeyValue(client, conf.Database.Mongo.Name, table), closer, nil
	case "redis":
		db, _ := strconv.Atoi(conf.RedisClient.DatabaseName)
		client, err := cache.NewRedisClient(
			ctx,
			fmt.Sprintf("%s:%s", conf.RedisClient.Host, conf.RedisClient.Port),
			conf.RedisClient.Username,
			conf.RedisClient.Password,
			db,
		)
		if err != nil {
			return nil, nil, err
		}
		return cache.NewRedisKeyValue(client, "nova:"), func() { _ = client.Close() }, nil
	case "memory", "":
		return nil, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

// InitiateEvents opens the configured sink for terminal publish events. A nil publisher
// means events are not forwarded.
func InitiateEvents(ctx context.Context, conf configuration.Config) (repository.IEventPublisher, func()) {
	noop := func() {}
	lg := logger.GetLogger().WithField("sink", conf.Events.Sink)

	switch conf.Events.Sink {
	case "pubsub":
		client, err := pubsub.NewClient(ctx, conf.Pubsub.ProjectID)
		if err != nil {
			lg.WithField("error", err).Warn("Pub/Sub not available - continuing without publish events")
			return nil, noop
		}
		publisher := pubsub.NewEventPublisher(client, conf.Pubsub.TopicID)
		lg.Info("Publish events go to Pub/Sub")
		return publisher, func() {
			publisher.Stop()
			_ = client.Close()
		}
	case "servicebus":
		client, err := servicebus.NewClient(conf.ServiceBus.Namespace)
		if err != nil {
			lg.WithField("error", err).Warn("Azure Service Bus not available - continuing without publish events")
			return nil, noop
		}
		publisher, err := servicebus.NewEventPublisher(client, conf.ServiceBus.QueueName)
		if err != nil {
			lg.WithField("error", err).Warn("Azure Service Bus sender failed - continuing without publish events")
			_ = client.Close(context.Background())
			return nil, noop
		}
		lg.Info("Publish events go to Azure Service Bus")
		return publisher, func() {
			_ = publisher.Close(context.Background())
			_ = client.Close(context.Background())
		}
	default:
		return nil, noop
	}
}
