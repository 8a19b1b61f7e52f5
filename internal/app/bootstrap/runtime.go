package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/adapters/cache"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/adapters/csvsource"
	eventadapter "github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/adapters/events"
	grpcadapter "github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/adapters/grpc"
	httpadapter "github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/adapters/http"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/adapters/memory"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/adapters/postgres"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/adapters/render"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/adapters/security"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/application"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/ports"
	"google.golang.org/grpc"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	service    *application.Service
	httpServer *http.Server
	grpcServer *grpc.Server
	grpcLis    net.Listener
	outbox     *eventadapter.OutboxWorker
	consumer   *eventadapter.ConsumerWorker
	cleanupFn  func(context.Context)
}

type storage struct {
	datasets    ports.DatasetRepository
	exports     ports.ExportRepository
	idempotency ports.IdempotencyRepository
	eventDedup  ports.EventDedupRepository
	outbox      ports.OutboxRepository
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})).With("service", cfg.ServiceID)
	slog.SetDefault(logger)

	var closers []io.Closer
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i].Close()
		}
	}

	store, err := openStorage(ctx, cfg, logger, &closers)
	if err != nil {
		closeAll()
		return nil, err
	}

	cacheStore := ports.Cache(memory.NewCache())
	if cfg.RedisURL != "" {
		redisClient, redisErr := cache.Connect(ctx, cfg.RedisURL)
		if redisErr != nil {
			closeAll()
			return nil, redisErr
		}
		closers = append(closers, redisClient)
		cacheStore = cache.NewRedisCache(redisClient, cfg.CachePrefix)
	}

	var verifier ports.TokenVerifier
	if cfg.JWTSecret != "" {
		hmacVerifier, verErr := security.NewHMACTokenVerifier(cfg.JWTSecret, cfg.JWTIssuer)
		if verErr != nil {
			closeAll()
			return nil, verErr
		}
		verifier = hmacVerifier
	} else {
		logger.WarnContext(ctx, "JWT_SECRET not set, bearer tokens are taken as subject ids")
	}

	loggingPublisher := eventadapter.NewLoggingPublisher(logger)
	publisher := ports.EventPublisher(loggingPublisher)
	dlq := ports.DLQPublisher(loggingPublisher)
	consumerRoutes := map[string]string{cfg.KafkaTopicDatasetUploaded: domain.EventDatasetUploaded}
	consumerAdapter := eventadapter.Consumer(eventadapter.NewMemoryConsumer(consumerRoutes))
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, pubErr := eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, map[string]string{
			domain.EventDatasetLoaded:   cfg.KafkaTopicDatasetLoaded,
			domain.EventExportCompleted: cfg.KafkaTopicExportCompleted,
		}, cfg.KafkaTopicDLQ)
		if pubErr != nil {
			logger.WarnContext(ctx, "kafka publisher disabled, using logging publisher", "error", pubErr)
		} else {
			publisher = kafkaPublisher
			dlq = kafkaPublisher
			closers = append(closers, kafkaPublisher)
		}

		kafkaConsumer, conErr := eventadapter.NewKafkaConsumer(
			cfg.KafkaBrokers,
			cfg.KafkaConsumerGroup,
			consumerRoutes,
		)
		if conErr != nil {
			logger.WarnContext(ctx, "kafka consumer disabled, using memory consumer", "error", conErr)
		} else {
			consumerAdapter = kafkaConsumer
			closers = append(closers, kafkaConsumer)
		}
	}

	service := application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName:        cfg.ServiceID,
			SurveyLocations:    cfg.SurveyLocations,
			ExecutiveLocations: cfg.ExecutiveLocations,
			AllowedHosts:       cfg.AllowedHosts,
			AutoLoad:           cfg.AutoLoad,
			CacheTTL:           cfg.CacheTTL,
			IdempotencyTTL:     cfg.IdempotencyTTL,
			EventDedupTTL:      cfg.EventDedupTTL,
			ExportBaseURL:      cfg.ExportBaseURL,
			MaxPageSize:        cfg.MaxPageSize,
			Profile:            cfg.Profile,
		},
		Datasets:    store.datasets,
		Exports:     store.exports,
		Idempotency: store.idempotency,
		EventDedup:  store.eventDedup,
		Outbox:      store.outbox,
		Cache:       cacheStore,
		Source:      csvsource.NewLoader(logger, cfg.DataDir, cfg.FetchTimeout),
		Charts:      render.NewBarChartRenderer(),
		Encoder:     render.NewTableEncoder(),
		DLQ:         dlq,
		Logger:      logger,
	})

	handler := httpadapter.NewHandler(service, verifier)
	router := httpadapter.NewRouter(handler, logger)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer()
	grpcadapter.Register(grpcServer, grpcadapter.NewHealthServer(service))
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		closeAll()
		return nil, err
	}

	outbox := eventadapter.NewOutboxWorker(logger, store.outbox, publisher, eventadapter.OutboxOptions{
		EventTypes: []string{domain.EventDatasetLoaded, domain.EventExportCompleted},
		Interval:   cfg.OutboxPollInterval,
		BatchSize:  cfg.OutboxBatchSize,
		Retention:  cfg.OutboxRetention,
	})
	consumer := eventadapter.NewConsumerWorker(logger, consumerAdapter, service, dlq, cfg.ConsumerPollInterval, cfg.EventPurgeInterval)

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		service:    service,
		httpServer: httpServer,
		grpcServer: grpcServer,
		grpcLis:    lis,
		outbox:     outbox,
		consumer:   consumer,
		cleanupFn: func(context.Context) {
			_ = lis.Close()
			closeAll()
		},
	}, nil
}

// openStorage uses postgres when DB_URL is set and in-memory repositories
// otherwise.
func openStorage(ctx context.Context, cfg Config, logger *slog.Logger, closers *[]io.Closer) (storage, error) {
	if cfg.DatabaseURL == "" {
		logger.InfoContext(ctx, "DB_URL not set, using in-memory repositories")
		repos := memory.NewRepositories()
		return storage{
			datasets:    repos.Datasets,
			exports:     repos.Exports,
			idempotency: repos.Idempotency,
			eventDedup:  repos.EventDedup,
			outbox:      repos.Outbox,
		}, nil
	}

	db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
	if err != nil {
		return storage{}, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return storage{}, err
	}
	*closers = append(*closers, sqlDB)
	if err := postgres.RunMigrations(ctx, db); err != nil {
		return storage{}, err
	}
	repos := postgres.NewRepositories(db)
	return storage{
		datasets:    repos.Datasets,
		exports:     repos.Exports,
		idempotency: repos.Idempotency,
		eventDedup:  repos.EventDedup,
		outbox:      repos.Outbox,
	}, nil
}

func Build(ctx context.Context, configPath string) (*Runtime, error) {
	return NewRuntime(ctx, configPath)
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 3)

	if r.cfg.LoadOnStart {
		go r.loadOnStart(ctx)
	}
	go func() {
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		if err := r.grpcServer.Serve(r.grpcLis); err != nil {
			errCh <- err
		}
	}()
	go func() {
		if err := r.outbox.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	r.logger.InfoContext(ctx, "api started", "http_port", r.cfg.HTTPPort, "grpc_port", r.cfg.GRPCPort)
	select {
	case <-ctx.Done():
	case err := <-errCh:
		r.logger.ErrorContext(ctx, "runtime failure", "error", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.grpcServer.GracefulStop()
	r.cleanupFn(shutdownCtx)
	return nil
}

func (r *Runtime) RunWorker(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 2)

	go func() {
		if err := r.outbox.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()
	go func() {
		if err := r.consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		r.cleanupFn(context.Background())
		return nil
	case err := <-errCh:
		r.cleanupFn(context.Background())
		return err
	}
}

// loadOnStart failures are not fatal; reads retry lazily when AutoLoad is on.
func (r *Runtime) loadOnStart(ctx context.Context) {
	status, err := r.service.LoadDataset(ctx, application.LoadInput{Trigger: "startup"})
	if err != nil {
		r.logger.WarnContext(ctx, "initial dataset load failed",
			"module", "bootstrap",
			"operation", "load_on_start",
			"outcome", "failure",
			"error", err,
		)
		return
	}
	r.logger.InfoContext(ctx, "initial dataset loaded",
		"module", "bootstrap",
		"operation", "load_on_start",
		"outcome", "success",
		"version", status.Version,
		"valid_rows", status.ValidRows,
	)
}
