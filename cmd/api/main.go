package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/labstack/echo/v4"
	_ "github.com/lib/pq"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/HackYourFuture/dojo/config"
	interactionrepo "github.com/HackYourFuture/dojo/internal/repositories/interaction"
	strikerepo "github.com/HackYourFuture/dojo/internal/repositories/strike"
	testrepo "github.com/HackYourFuture/dojo/internal/repositories/testrecord"
	traineerepo "github.com/HackYourFuture/dojo/internal/repositories/trainee"
	"github.com/HackYourFuture/dojo/pkg/events"
	"github.com/HackYourFuture/dojo/pkg/httpclient"
	"github.com/HackYourFuture/dojo/pkg/kafka"
	"github.com/HackYourFuture/dojo/pkg/letters"
	"github.com/HackYourFuture/dojo/pkg/notify"
	"github.com/HackYourFuture/dojo/pkg/platform/database"
	"github.com/HackYourFuture/dojo/pkg/platform/middleware"
	"github.com/HackYourFuture/dojo/pkg/platform/startup"
	"github.com/HackYourFuture/dojo/pkg/platform/tracing"
	"github.com/HackYourFuture/dojo/pkg/platform/tracing/exporters"
	"github.com/HackYourFuture/dojo/pkg/redis"
	healthroute "github.com/HackYourFuture/dojo/pkg/routes/health"
	interactionroute "github.com/HackYourFuture/dojo/pkg/routes/interaction"
	letterroute "github.com/HackYourFuture/dojo/pkg/routes/letter"
	strikeroute "github.com/HackYourFuture/dojo/pkg/routes/strike"
	testroute "github.com/HackYourFuture/dojo/pkg/routes/testrecord"
	traineeroute "github.com/HackYourFuture/dojo/pkg/routes/trainee"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Error("Service exited with error")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger ectologger.Logger) error {
	if cfg.TracingEnabled {
		shutdown, err := setupTracing(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to set up tracing: %w", err)
		}
		defer shutdown(context.Background())
	}

	var db database.DB
	var redisClient *redis.Client

	boot := startup.NewStartup(logger, cfg.StartupMaxAttempts)

	boot.AddDependency(&dependency{
		name: "database",
		start: func(ctx context.Context) error {
			var err error
			db, err = database.Connect(ctx, database.ConnectConfig{
				Driver:          cfg.DatabaseDriver,
				Host:            cfg.DatabaseHost,
				Port:            cfg.DatabasePort,
				User:            cfg.DatabaseUserName,
				Password:        cfg.DatabasePassword,
				Name:            cfg.DatabaseName,
				SSLMode:         cfg.DatabaseSSLMode,
				MaxOpenConns:    cfg.DatabaseMaxOpenConns,
				MaxIdleConns:    cfg.DatabaseMaxIdleConns,
				ConnMaxLifetime: cfg.DatabaseConnMaxLifetime,
			}, logger)
			return err
		},
		stop: func(ctx context.Context) error {
			if db == nil {
				return nil
			}
			return db.Close()
		},
	})

	boot.AddDependency(&dependency{
		name: "migrations",
		deps: []string{"database"},
		start: func(ctx context.Context) error {
			instance, ok := db.(*database.DatabaseInstance)
			if !ok {
				return fmt.Errorf("unexpected database instance type %T", db)
			}
			driver, err := migratepg.WithInstance(instance.DB.DB, &migratepg.Config{})
			if err != nil {
				return err
			}
			ms := database.NewMigrationService(logger, &database.MigrationConfig{
				MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
				Version:             uint(cfg.DatabaseMigrationVersion),
				Force:               cfg.DatabaseMigrationForce,
			})
			return ms.Migrate(cfg.DatabaseName, driver)
		},
		stop: func(ctx context.Context) error { return nil },
	})

	if cfg.RedisEnabled {
		boot.AddDependency(&dependency{
			name: "redis",
			start: func(ctx context.Context) error {
				var err error
				redisClient, err = redis.NewClient(redis.Config{
					Host:     cfg.RedisHost,
					Port:     cfg.RedisPort,
					Password: cfg.RedisPassword,
					DB:       cfg.RedisDB,
				}, logger)
				return err
			},
			stop: func(ctx context.Context) error {
				if redisClient == nil {
					return nil
				}
				return redisClient.Close()
			},
		})
	}

	if err := boot.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer stopCancel()
		if err := boot.Stop(stopCtx); err != nil {
			logger.WithError(err).Error("Failed to stop dependencies cleanly")
		}
	}()

	// Side-effect plumbing
	var dlq *redis.DeadLetterQueue
	if redisClient != nil {
		dlq = redis.NewDeadLetterQueue(redisClient, cfg.DLQStream, logger)
	}
	sink := notify.NewFailureSink(dlq, logger)

	var sender notify.Sender = notify.NopSender{}
	if cfg.NotifyWebhookURL != "" {
		clientCfg := httpclient.DefaultConfig()
		clientCfg.Timeout = time.Duration(cfg.NotifyTimeoutSeconds) * time.Second
		sender = notify.NewWebhookSender(httpclient.NewClient(clientCfg, logger), cfg.NotifyWebhookURL, logger)
	}
	dispatcher := notify.NewDispatcher(sender, sink, logger)

	var emitter *events.Emitter
	var producer *kafka.Producer
	if cfg.KafkaEnabled {
		producer = kafka.NewProducer(kafka.ProducerConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaOutputTopic,
			BatchSize:    cfg.KafkaBatchSize,
			BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
			RequiredAcks: cfg.KafkaRequiredAcks,
			Compression:  cfg.KafkaCompression,
		}, logger)
		defer producer.Close()
		emitter = events.NewEmitter(producer, logger)
	}

	// Repositories
	trainees := traineerepo.NewRepository(db, logger)
	tests := testrepo.NewRepository(db, logger)
	interactions := interactionrepo.NewRepository(db, logger)
	strikes := strikerepo.NewRepository(db, logger)

	// HTTP server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))
	if cfg.TracingEnabled {
		e.Use(otelecho.Middleware(cfg.AppName))
	}
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))
	e.HTTPErrorHandler = middleware.Error(logger)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	var redisPinger healthroute.Pinger
	if redisClient != nil {
		redisPinger = redisClient
	}
	checker := healthroute.NewChecker(db, redisPinger, version)
	checker.RegisterRoutes(e)

	api := e.Group("/api/v1")

	traineeroute.NewHandler(trainees, tests, interactions, strikes, emitter, logger).
		RegisterRoutes(api.Group("/trainees"))
	testroute.NewHandler(trainees, tests, dispatcher, emitter, logger).
		RegisterRoutes(api.Group("/trainees/:traineeId/tests"))
	interactionroute.NewHandler(trainees, interactions, dispatcher, emitter, logger).
		RegisterRoutes(api.Group("/trainees/:traineeId/interactions"))
	strikeroute.NewHandler(trainees, strikes, dispatcher, emitter, logger).
		RegisterRoutes(api.Group("/trainees/:traineeId/strikes"))
	letterroute.NewHandler(trainees, letters.NewGenerator(logger), logger).
		RegisterRoutes(api.Group("/trainees/:traineeId/letters"))

	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("Starting %s on port %d", cfg.AppName, cfg.Port)
		if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	checker.SetReady(true)

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	checker.SetReady(false)
	logger.Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	return e.Shutdown(shutdownCtx)
}

// dependency adapts start/stop closures to the startup graph.
type dependency struct {
	name  string
	deps  []string
	start func(ctx context.Context) error
	stop  func(ctx context.Context) error
}

func (d *dependency) GetName() string { return d.name }

func (d *dependency) DependsOn() []string { return d.deps }

func (d *dependency) Start(ctx context.Context) error { return d.start(ctx) }

func (d *dependency) Stop(ctx context.Context) error { return d.stop(ctx) }

func newLogger(cfg config.Config) (ectologger.Logger, error) {
	var zapCfg zap.Config
	if cfg.PrettyLogs {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	zapLogger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}

	return zapadapter.NewZapEctoLogger(zapLogger, nil), nil
}

func setupTracing(ctx context.Context, cfg config.Config) (func(context.Context) error, error) {
	exporter, err := exporters.NewOTLPExporter(ctx, exporters.OTLPConfig{
		Endpoint: cfg.TracingEndpoint,
		Protocol: cfg.TracingProtocol,
		Insecure: true,
		Timeout:  10 * time.Second,
	})
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(provider)
	tracing.SetTracer(provider.Tracer(cfg.AppName))

	return provider.Shutdown, nil
}
