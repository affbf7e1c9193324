package cmd

import (
	"fmt"

	"gabinete-digital/config"
	"gabinete-digital/generator"
	"gabinete-digital/logger"
	"gabinete-digital/metrics"
	"gabinete-digital/repositories"
	"gabinete-digital/services"
	"gabinete-digital/store"

	"github.com/bwmarrin/snowflake"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// app is everything the commands share: configuration, the record store and
// the services built on it.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	store    store.Store

	authService     services.AuthService
	proposalService services.ProposalService
	ideaService     services.IdeaService
	boardService    services.BoardService
}

func loadConfig() (*config.Config, error) {
	if envFile != "" {
		return config.Load(envFile)
	}
	return config.Load()
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	zapLogger, err := logger.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(registry)

	backend, err := openStore(cfg)
	if err != nil {
		zapLogger.Sync()
		return nil, err
	}
	recordStore := store.NewInstrumentedStore(backend, m, zapLogger)

	node, err := snowflake.NewNode(1)
	if err != nil {
		recordStore.Close()
		return nil, err
	}

	completer := generator.NewGroqCompleter(cfg.Generator.BaseURL, cfg.Generator.APIKey, cfg.Generator.Timeout)
	gen := generator.NewClient(generator.Config{
		APIKey:              cfg.Generator.APIKey,
		Model:               cfg.Generator.Model,
		DraftTemperature:    cfg.Generator.DraftTemperature,
		RevisionTemperature: cfg.Generator.RevisionTemperature,
		Municipality:        cfg.Generator.Municipality,
	}, completer, m, zapLogger)

	return &app{
		cfg:      cfg,
		logger:   zapLogger,
		registry: registry,
		metrics:  m,
		store:    recordStore,

		authService:     services.NewAuthService(repositories.NewUserRepository(recordStore)),
		proposalService: services.NewProposalService(repositories.NewProposalRepository(recordStore), gen, node, m, zapLogger),
		ideaService:     services.NewIdeaService(repositories.NewIdeaRepository(recordStore), m, zapLogger),
		boardService:    services.NewBoardService(repositories.NewPostRepository(recordStore), m, zapLogger),
	}, nil
}

func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		db, err := config.InitDB(cfg.Database)
		if err != nil {
			return nil, err
		}
		return store.NewGormStore(db)
	default:
		return store.NewFileStore(cfg.DataDir)
	}
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close record store", zap.Error(err))
	}
	_ = a.logger.Sync()
}
