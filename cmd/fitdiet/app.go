package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/2beens/fitdiet/internal/backup"
	"github.com/2beens/fitdiet/internal/catalog"
	"github.com/2beens/fitdiet/internal/config"
	"github.com/2beens/fitdiet/internal/db"
	"github.com/2beens/fitdiet/internal/dietplan"
	"github.com/2beens/fitdiet/internal/generation"
	"github.com/2beens/fitdiet/internal/kvstore"
	"github.com/2beens/fitdiet/internal/ledger"
	"github.com/2beens/fitdiet/internal/logging"
	"github.com/2beens/fitdiet/internal/profile"
	"github.com/2beens/fitdiet/internal/telemetry/metrics"
	"github.com/2beens/fitdiet/internal/telemetry/tracing"
	"github.com/2beens/fitdiet/internal/tracker"
	"github.com/2beens/fitdiet/pkg"

	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

const serviceName = "fitdiet"

// app holds everything a single CLI run needs.
type app struct {
	cfg            *config.Config
	kv             kvstore.Store
	rdb            *redis.Client
	registry       *prometheus.Registry
	metricsManager *metrics.Manager

	profiles *profile.Store
	foods    *ledger.FoodLedger
	workouts *ledger.WorkoutLedger
	plans    *dietplan.Store
	tracker  *tracker.Tracker
	catalog  *catalog.Catalog

	// run in reverse order by close
	closers []func() error
}

func newApp(ctx context.Context, env, configPath string) (_ *app, err error) {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	a := &app{
		cfg:     cfg,
		catalog: catalog.Default(),
	}
	defer func() {
		if err != nil {
			if closeErr := a.closeAll(); closeErr != nil {
				log.Errorf("close after failed init: %s", closeErr)
			}
		}
	}()

	logCloser := logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStderr:      cfg.LogToStderr,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        cfg.Secrets.SentryDSN,
		SentryServerName: serviceName,
	})
	a.closers = append(a.closers, logCloser.Close)

	var extraCollectors []prometheus.Collector
	switch cfg.Store {
	case config.StoreSQLite:
		dir := filepath.Dir(cfg.SQLitePath)
		if err := pkg.EnsureDir(dir); err != nil {
			return nil, fmt.Errorf("create sqlite dir %s: %w", dir, err)
		}
		sqliteStore, err := kvstore.NewSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.kv = sqliteStore
	case config.StoreRedis:
		a.rdb = kvstore.NewRedisClient(kvstore.RedisParams{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.Secrets.RedisPassword,
		})
		a.kv = kvstore.NewRedisStore(a.rdb, cfg.RedisKeyPrefix)
	case config.StorePostgres:
		pool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         cfg.PostgresUser,
			DBPassword:     cfg.Secrets.PostgresPassword,
			MaxConns:       4,
			TracingEnabled: cfg.HoneycombEnabled,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error {
			pool.Close()
			return nil
		})
		psqlStore := kvstore.NewPsqlStore(pool)
		if err := psqlStore.Init(ctx); err != nil {
			return nil, err
		}
		a.kv = psqlStore
		extraCollectors = append(extraCollectors, metrics.NewPgxPoolCollector(pool, cfg.PostgresDBName))
	case config.StoreMemory:
		log.Warnln("using in-memory store, nothing will be saved")
		a.kv = kvstore.NewMemoryStore()
	}
	a.closers = append(a.closers, a.kv.Close)

	otelShutdown, err := tracing.HoneycombSetup(cfg.HoneycombEnabled, serviceName, a.rdb)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() error {
		otelShutdown()
		return nil
	})

	a.registry = metrics.SetupPrometheus(extraCollectors...)
	a.metricsManager = metrics.NewManager(serviceName, "cli", a.registry)

	a.profiles = profile.NewStore(a.kv)
	a.foods = ledger.NewFoodLedger(a.kv)
	a.workouts = ledger.NewWorkoutLedger(a.kv)
	a.plans = dietplan.NewStore(a.kv, a.metricsManager)
	if err := a.plans.Load(ctx); err != nil {
		return nil, err
	}
	a.tracker = tracker.New(tracker.Params{
		Profiles:       a.profiles,
		Foods:          a.foods,
		Workouts:       a.workouts,
		MetricsManager: a.metricsManager,
		CalorieTarget:  cfg.DailyCalorieTarget,
		Location:       cfg.Location(),
	})

	log.Debugf("fitdiet [%s] ready, store: %s", cfg.Environment, cfg.Store)
	return a, nil
}

// generationClient is built on demand, only commands that call the API need a key.
func (a *app) generationClient() (*generation.Client, error) {
	var limiter generation.RequestRateLimiter
	if a.rdb != nil && a.cfg.GenerationRatePerMinute > 0 {
		limiter = redis_rate.NewLimiter(a.rdb)
	}

	return generation.NewClient(generation.ClientParams{
		APIURL:          a.cfg.GenerationAPIURL,
		APIKey:          a.cfg.Secrets.GeminiAPIKey,
		Timeout:         a.cfg.GenerationTimeout.Duration,
		CacheSizeMB:     a.cfg.NutritionCacheSizeMB,
		CacheTTLSeconds: a.cfg.NutritionCacheTTLSeconds,
		RateLimiter:     limiter,
		RatePerMinute:   a.cfg.GenerationRatePerMinute,
		MetricsManager:  a.metricsManager,
	})
}

func (a *app) dietPlanService() (*dietplan.Service, error) {
	client, err := a.generationClient()
	if err != nil {
		return nil, err
	}
	return dietplan.NewService(a.plans, client, a.profiles), nil
}

func (a *app) driveUploader(ctx context.Context) (*backup.GoogleDriveUploader, error) {
	creds := strings.TrimSpace(a.cfg.Secrets.GDriveCredentials)
	credentialsJSON := []byte(creds)
	// the env var holds either the JSON itself or a path to it
	if creds != "" && !strings.HasPrefix(creds, "{") {
		fileBytes, err := os.ReadFile(creds)
		if err != nil {
			return nil, fmt.Errorf("read google drive credentials: %w", err)
		}
		credentialsJSON = fileBytes
	}
	return backup.NewGoogleDriveUploader(ctx, credentialsJSON, a.cfg.GDriveFolderName, a.cfg.GDriveShareWith)
}

// close pushes the run metrics (if a pushgateway is configured) and releases resources.
func (a *app) close(ctx context.Context) error {
	if a.cfg.PushgatewayURL != "" && a.registry != nil {
		hostname, _ := os.Hostname()
		if err := metrics.Push(ctx, a.cfg.PushgatewayURL, hostname, a.registry); err != nil {
			log.Errorf("push metrics: %s", err)
		}
	}
	return a.closeAll()
}

func (a *app) closeAll() error {
	var err error
	for i := len(a.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, a.closers[i]())
	}
	a.closers = nil
	return err
}
