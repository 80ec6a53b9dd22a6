package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-slates/internal/config"
	"github.com/riskibarqy/fantasy-slates/internal/domain/entry"
	"github.com/riskibarqy/fantasy-slates/internal/domain/fixture"
	"github.com/riskibarqy/fantasy-slates/internal/domain/jobscheduler"
	"github.com/riskibarqy/fantasy-slates/internal/domain/lineup"
	"github.com/riskibarqy/fantasy-slates/internal/domain/player"
	"github.com/riskibarqy/fantasy-slates/internal/domain/playerstats"
	"github.com/riskibarqy/fantasy-slates/internal/domain/points"
	"github.com/riskibarqy/fantasy-slates/internal/domain/slate"
	"github.com/riskibarqy/fantasy-slates/internal/domain/team"
	"github.com/riskibarqy/fantasy-slates/internal/infrastructure/account/anubis"
	"github.com/riskibarqy/fantasy-slates/internal/infrastructure/jobqueue"
	cacherepo "github.com/riskibarqy/fantasy-slates/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/fantasy-slates/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-slates/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fantasy-slates/internal/infrastructure/statsfeed"
	"github.com/riskibarqy/fantasy-slates/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/fantasy-slates/internal/platform/cache"
	idgen "github.com/riskibarqy/fantasy-slates/internal/platform/id"
	"github.com/riskibarqy/fantasy-slates/internal/platform/logging"
	"github.com/riskibarqy/fantasy-slates/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-slates/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

type repositories struct {
	teams       team.Repository
	players     player.Repository
	fixtures    fixture.Repository
	slates      slate.Repository
	entries     entry.Repository
	lineups     lineup.Repository
	playerStats playerstats.Repository
	points      points.Repository
	jobDispatch jobscheduler.Repository
}

// NewHTTPServer wires the whole application and returns the server
// plus a shutdown hook that stops background jobs and closes the
// database pool.
func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, func(context.Context) error, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var store *basecache.Store
	if cfg.CacheEnabled {
		store = basecache.NewStore(cfg.CacheTTL)
	}

	repos, db, err := buildRepositories(cfg, logger, store)
	if err != nil {
		return nil, nil, err
	}

	lifecycleSvc := usecase.NewLifecycleService(repos.slates, repos.fixtures)
	bootstrapSvc := usecase.NewBootstrapService(repos.teams, repos.players, repos.fixtures, repos.slates, store)
	slateSvc := usecase.NewSlateService(repos.slates, repos.fixtures)
	lineupSvc := usecase.NewLineupService(
		repos.slates,
		repos.fixtures,
		repos.players,
		repos.entries,
		repos.lineups,
		idgen.NewPrefixedGenerator("en"),
		idgen.NewPrefixedGenerator("ln"),
	)
	leaderboardSvc := usecase.NewLeaderboardService(repos.entries, repos.slates, repos.points)
	settlementSvc := usecase.NewSettlementService(
		lifecycleSvc,
		repos.slates,
		repos.lineups,
		repos.players,
		repos.entries,
		repos.playerStats,
		repos.points,
		logging.Default(),
	)

	var feed usecase.StatsFeed
	if cfg.StatsFeedEnabled {
		feed = statsfeed.NewClient(statsfeed.ClientConfig{
			BaseURL:    cfg.StatsFeedBaseURL,
			Token:      cfg.StatsFeedToken,
			Timeout:    cfg.StatsFeedTimeout,
			MaxRetries: cfg.StatsFeedMaxRetries,
			Logger:     logging.Default(),
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.StatsFeedCircuitEnabled,
				FailureThreshold: cfg.StatsFeedCircuitFailureCount,
				OpenTimeout:      cfg.StatsFeedCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.StatsFeedCircuitHalfOpenMaxReq,
			},
		})
	}
	ingestionSvc := usecase.NewIngestionService(repos.fixtures, repos.playerStats, repos.slates, feed, logging.Default())

	anubisClient := anubis.NewClient(
		&http.Client{Timeout: cfg.AnubisTimeout},
		cfg.AnubisBaseURL,
		cfg.AnubisIntrospectURL,
		cfg.AnubisAdminKey,
		resilience.CircuitBreakerConfig{
			Enabled:          cfg.AnubisCircuitEnabled,
			FailureThreshold: cfg.AnubisCircuitFailureCount,
			OpenTimeout:      cfg.AnubisCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AnubisCircuitHalfOpenMaxReq,
		},
		logger,
	)

	handler := httpapi.NewHandler(
		bootstrapSvc,
		slateSvc,
		lineupSvc,
		leaderboardSvc,
		settlementSvc,
		ingestionSvc,
		repos.jobDispatch,
		logger,
	)
	router := httpapi.NewRouter(
		handler,
		anubisClient,
		logger,
		cfg.SwaggerEnabled,
		cfg.CORSAllowedOrigins,
		cfg.InternalJobToken,
	)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	stopScheduler := startJobScheduler(cfg, logger)

	shutdown := func(ctx context.Context) error {
		stopScheduler()
		if db != nil {
			return db.Close()
		}
		return nil
	}

	return server, shutdown, nil
}

func buildRepositories(cfg config.Config, logger *slog.Logger, store *basecache.Store) (repositories, *sqlx.DB, error) {
	if strings.TrimSpace(cfg.DBURL) == "" {
		return memoryRepositories(store), nil, nil
	}

	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("connect database: %w", err)
	}

	seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := postgres.BootstrapSeed(seedCtx, db); err != nil {
		logger.Warn("bootstrap seed skipped", "error", err)
	}

	repos := repositories{
		teams:       postgres.NewTeamRepository(db),
		players:     postgres.NewPlayerRepository(db),
		fixtures:    postgres.NewFixtureRepository(db),
		slates:      postgres.NewSlateRepository(db),
		entries:     postgres.NewEntryRepository(db),
		lineups:     postgres.NewLineupRepository(db),
		playerStats: postgres.NewPlayerStatsRepository(db),
		points:      postgres.NewPointsRepository(db),
		jobDispatch: postgres.NewJobDispatchRepository(db),
	}
	applyCacheDecorators(&repos, store)
	return repos, db, nil
}

func memoryRepositories(store *basecache.Store) repositories {
	seed := memory.DefaultSeed(time.Now().UTC())
	slateRepo := memory.NewSlateRepository(seed.Slates)
	lineupRepo := memory.NewLineupRepository()
	lineupRepo.GuardReplace(openSlateGuard(slateRepo))
	repos := repositories{
		teams:       memory.NewTeamRepository(seed.Teams),
		players:     memory.NewPlayerRepository(seed.Players),
		fixtures:    memory.NewFixtureRepository(seed.Fixtures),
		slates:      slateRepo,
		entries:     memory.NewEntryRepository(),
		lineups:     lineupRepo,
		playerStats: memory.NewPlayerStatsRepository(),
		points:      memory.NewPointsRepository(),
	}
	applyCacheDecorators(&repos, store)
	return repos
}

func openSlateGuard(slates slate.Repository) func(ctx context.Context, slateID string) error {
	return func(ctx context.Context, slateID string) error {
		target, exists, err := slates.GetByID(ctx, slateID)
		if err != nil {
			return err
		}
		if !exists || target.Status != slate.StatusOpen || !time.Now().Before(target.LockAt) {
			return lineup.ErrSlateNotOpen
		}
		return nil
	}
}

func applyCacheDecorators(repos *repositories, store *basecache.Store) {
	if store == nil {
		return
	}
	repos.teams = cacherepo.NewTeamRepository(repos.teams, store)
	repos.players = cacherepo.NewPlayerRepository(repos.players, store)
	repos.fixtures = cacherepo.NewFixtureRepository(repos.fixtures, store)
	repos.slates = cacherepo.NewSlateRepository(repos.slates, store)
	repos.lineups = cacherepo.NewLineupRepository(repos.lineups, store)
}

// startJobScheduler enqueues the recurring internal jobs through
// QStash. Returns a stop function; a no-op when publishing is
// disabled.
func startJobScheduler(cfg config.Config, logger *slog.Logger) func() {
	if !cfg.QStashEnabled || cfg.JobSettlementInterval <= 0 {
		return func() {}
	}

	publisher := jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
		BaseURL:          cfg.QStashBaseURL,
		Token:            cfg.QStashToken,
		TargetBaseURL:    cfg.QStashTargetBaseURL,
		Retries:          cfg.QStashRetries,
		InternalJobToken: cfg.InternalJobToken,
	}, logger)

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(cfg.JobSettlementInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case now := <-ticker.C:
				enqueueScheduledJobs(publisher, logger, now)
			}
		}
	}()

	return func() { close(done) }
}

func enqueueScheduledJobs(publisher *jobqueue.QStashPublisher, logger *slog.Logger, now time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	window := now.UTC().Format("200601021504")
	jobs := []struct {
		path    string
		dedupID string
	}{
		{path: "/v1/internal/jobs/feed-sync", dedupID: "feed-sync-" + window},
		{path: "/v1/internal/jobs/settlement", dedupID: "settlement-" + window},
	}
	for _, job := range jobs {
		payload := map[string]any{"scheduled_at": now.UTC().Format(time.RFC3339)}
		if err := publisher.Enqueue(ctx, job.path, payload, 0, job.dedupID); err != nil {
			logger.Warn("enqueue scheduled job failed", "path", job.path, "error", err)
		}
	}
}
