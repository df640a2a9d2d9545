package app

import (
	"context"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/league-season/external/jobqueue"
	"github.com/riskibarqy/league-season/external/matchengine"
	"github.com/riskibarqy/league-season/internal/config"
	"github.com/riskibarqy/league-season/internal/domain/jobscheduler"
	domainoutcome "github.com/riskibarqy/league-season/internal/domain/outcome"
	"github.com/riskibarqy/league-season/internal/domain/playerstats"
	"github.com/riskibarqy/league-season/internal/domain/season"
	"github.com/riskibarqy/league-season/internal/infrastructure/outcome"
	cacherepo "github.com/riskibarqy/league-season/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/league-season/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/league-season/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/league-season/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/league-season/internal/platform/cache"
	idgen "github.com/riskibarqy/league-season/internal/platform/id"
	"github.com/riskibarqy/league-season/internal/platform/logging"
	"github.com/riskibarqy/league-season/internal/platform/resilience"
	"github.com/riskibarqy/league-season/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

type repositories struct {
	seasons  season.Repository
	stats    playerstats.Repository
	dispatch jobscheduler.Repository
	close    func() error
}

// NewHTTPServer wires the service graph. The returned cleanup closes the
// database pool and must run after the server has shut down.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return nil, nil, errors.New("http server addr cannot be empty")
	}

	competitions, squads, err := loadCatalog(cfg)
	if err != nil {
		return nil, nil, err
	}
	catalog, err := usecase.NewCompetitionCatalog(competitions)
	if err != nil {
		return nil, nil, errors.Wrap(err, "build competition catalog")
	}

	repos, err := newRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	queue := newJobQueue(cfg, logger)
	events := usecase.NewQueueEventPublisher(queue, cfg.SeasonEventsPath)
	orchestrator := usecase.NewJobOrchestratorService(
		queue,
		repos.dispatch,
		usecase.JobOrchestratorConfig{SimulationDelay: cfg.SimulationDelay},
		logger,
	)

	// Season and transition services share one lock set so a rollover never
	// interleaves with a matchday write on the same competition.
	locks := &resilience.KeyedMutex{}
	seasonSvc := usecase.NewSeasonService(
		catalog,
		repos.seasons,
		repos.stats,
		newProducer(cfg, squads, logger),
		orchestrator,
		events,
		locks,
		usecase.SeasonServiceConfig{SimulationWorkers: cfg.SimulationWorkers},
		logger,
	)
	standingSvc := usecase.NewStandingService(catalog, repos.seasons, logger)
	statsSvc := usecase.NewPlayerStatsService(catalog, repos.seasons, repos.stats)
	transitionSvc := usecase.NewTransitionService(
		catalog,
		repos.seasons,
		repos.stats,
		events,
		orchestrator,
		locks,
		usecase.TransitionServiceConfig{ResetWorkers: cfg.TransitionResetWorkers},
		logger,
	)

	if cfg.BootstrapSeasons {
		started, err := seasonSvc.Bootstrap(ctx)
		if err != nil {
			_ = repos.close()
			return nil, nil, errors.Wrap(err, "bootstrap seasons")
		}
		logger.Info("seasons bootstrapped", "count", len(started))
	}

	handler := httpapi.NewHandler(catalog, seasonSvc, standingSvc, statsSvc, transitionSvc, orchestrator, logger)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
		RequestIDs:         idgen.NewRandomGenerator("req"),
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, repos.close, nil
}

func loadCatalog(cfg config.Config) ([]season.Competition, map[string][]string, error) {
	path := strings.TrimSpace(cfg.CompetitionsFile)
	if path == "" {
		return memory.SeedCompetitions(), memory.SeedSquads(), nil
	}

	loaded, err := config.LoadCompetitions(path)
	if err != nil {
		return nil, nil, err
	}
	return loaded.Items, loaded.Squads, nil
}

func newRepositories(cfg config.Config, logger *logging.Logger) (repositories, error) {
	var repos repositories

	switch cfg.Storage {
	case config.StoragePostgres:
		db, err := openDB(cfg)
		if err != nil {
			return repositories{}, err
		}
		repos = repositories{
			seasons:  postgres.NewSeasonRepository(db),
			stats:    postgres.NewPlayerStatsRepository(db),
			dispatch: postgres.NewJobDispatchRepository(db),
			close:    db.Close,
		}
		logger.Info("storage ready", "backend", config.StoragePostgres, "db_name", dbNameFromURL(cfg.DBURL))
	default:
		repos = repositories{
			seasons:  memory.NewSeasonRepository(),
			stats:    memory.NewPlayerStatsRepository(),
			dispatch: memory.NewJobDispatchRepository(),
			close:    func() error { return nil },
		}
		logger.Info("storage ready", "backend", config.StorageMemory)
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.seasons = cacherepo.NewSeasonRepository(repos.seasons, store)
		repos.stats = cacherepo.NewPlayerStatsRepository(repos.stats, store)
	}

	return repos, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open(
		"postgres",
		normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxOpenConns)

	return db, nil
}

func newProducer(cfg config.Config, squads map[string][]string, logger *logging.Logger) domainoutcome.Producer {
	var producer domainoutcome.Producer
	switch cfg.OutcomeProducer {
	case config.OutcomeRemote:
		producer = matchengine.NewClient(matchengine.ClientConfig{
			BaseURL:    cfg.MatchEngineBaseURL,
			Token:      cfg.MatchEngineToken,
			Timeout:    cfg.MatchEngineTimeout,
			MaxRetries: cfg.MatchEngineMaxRetries,
			Logger:     logger.Named("external.matchengine"),
		})
	default:
		producer = outcome.NewSimulated(outcome.SimulatedConfig{
			Seed:   cfg.SimulationSeed,
			Squads: squads,
		})
	}

	breaker := resilience.NewCircuitBreakerFromConfig(resilience.CircuitBreakerConfig{
		Enabled:          cfg.OutcomeCircuitEnabled,
		FailureThreshold: cfg.OutcomeCircuitFailureCount,
		OpenTimeout:      cfg.OutcomeCircuitOpenTimeout,
		HalfOpenMaxReq:   cfg.OutcomeCircuitHalfOpenMaxReq,
	})
	return outcome.NewGuarded(producer, breaker, cfg.OutcomeTimeout, logger)
}

func newJobQueue(cfg config.Config, logger *logging.Logger) usecase.JobQueue {
	if !cfg.QStashEnabled {
		logger.Info("job queue disabled", "reason", "QSTASH_ENABLED=false")
		return usecase.NewNoopJobQueue()
	}

	return jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
		BaseURL:          cfg.QStashBaseURL,
		Token:            cfg.QStashToken,
		TargetBaseURL:    cfg.QStashTargetBaseURL,
		Retries:          cfg.QStashRetries,
		InternalJobToken: cfg.InternalJobToken,
		Timeout:          cfg.QStashTimeout,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.QStashCircuitEnabled,
			FailureThreshold: cfg.QStashCircuitFailureCount,
			OpenTimeout:      cfg.QStashCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.QStashCircuitHalfOpenMaxReq,
		},
	}, logger.Named("external.qstash"))
}
