package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	accountmodels "zoopito/internal/account/models"
	"zoopito/internal/app"
	jwttoken "zoopito/internal/jwt_token"
	"zoopito/internal/platform/config"
	"zoopito/internal/platform/httpserver"
	"zoopito/internal/platform/logger"
	"zoopito/internal/platform/metrics"
	"zoopito/internal/platform/postgres"
	"zoopito/internal/platform/redis"
	"zoopito/internal/reminder"
	httptransport "zoopito/internal/transport/http"
	"zoopito/internal/vaccination/store/statscache"
	id "zoopito/pkg/domain"
)

const shutdownTimeout = 10 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("zoopito stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("zoopito stopped")
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checks := map[string]httptransport.HealthCheck{}
	var redisClient *goredis.Client

	stores := app.MemoryStores(cfg.Redis.StatsTTL)
	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		if cfg.Postgres.ApplySchema {
			if err := postgres.ApplySchema(ctx, db); err != nil {
				return err
			}
		}
		stores = app.PostgresStores(db)
		checks["postgres"] = db.PingContext
		log.Info("using postgres stores")
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	cache, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if cache != nil {
		defer cache.Close()
		redisClient = cache.Client
		stores.StatsCache = statscache.NewRedis(cache.Client, cfg.Redis.StatsTTL)
		checks["redis"] = cache.Health
	}

	services, err := app.NewServices(stores, app.Options{
		Logger:      log,
		Registerer:  reg,
		AuditBuffer: cfg.Server.AuditBuffer,
	})
	if err != nil {
		return err
	}
	defer services.Close()

	if err := bootstrapAdmin(ctx, cfg.Server.BootstrapAdmin, services, log); err != nil {
		return err
	}

	tokens := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer)
	router := httptransport.NewRouter(httptransport.Deps{
		Logger:         log,
		Tokens:         jwttoken.NewJWTServiceAdapter(tokens),
		Accounts:       services.Accounts,
		Metrics:        metrics.NewWithRegistry(reg),
		Gatherer:       reg,
		RequestTimeout: cfg.Server.RequestTimeout,
		HealthChecks:   checks,
		RateLimit:      app.NewRateLimit(cfg.Limits, redisClient, log, reg),
	}, services.Handlers(log))
	srv := httpserver.New(cfg.Server, router)

	publisher, closePublisher, err := reminderPublisher(ctx, cfg.Kafka, log)
	if err != nil {
		return err
	}
	defer closePublisher()

	worker, err := reminder.NewWorker(services.Vaccinations, publisher, cfg.Reminder.Interval, cfg.Reminder.Lookahead,
		reminder.WithLogger(log),
		reminder.WithMetrics(services.Metrics),
	)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting zoopito", "addr", cfg.Server.Addr, "env", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.Reminder.Enabled {
		g.Go(func() error {
			return worker.Run(gctx)
		})
	}
	return g.Wait()
}

// reminderPublisher selects Kafka when brokers are configured and the log publisher otherwise.
func reminderPublisher(ctx context.Context, cfg config.KafkaConfig, log *slog.Logger) (reminder.Publisher, func(), error) {
	if len(cfg.Brokers) == 0 {
		return reminder.NewLogPublisher(log), func() {}, nil
	}
	kp, err := reminder.NewKafkaPublisher(ctx, cfg.Brokers, cfg.ReminderTopic, cfg.Partitions)
	if err != nil {
		return nil, nil, err
	}
	log.Info("publishing reminders to kafka", "topic", cfg.ReminderTopic, "brokers", cfg.Brokers)
	return kp, func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := kp.Close(closeCtx); err != nil {
			log.Error("failed to flush reminder publisher", "error", err)
		}
	}, nil
}

func bootstrapAdmin(ctx context.Context, email string, services *app.Services, log *slog.Logger) error {
	if email == "" {
		return nil
	}
	created, isNew, err := services.Accounts.FindOrCreate(ctx, accountmodels.CreateUserRequest{
		Name:  "Administrator",
		Email: email,
		Role:  id.RoleAdmin,
	})
	if err != nil {
		return err
	}
	if isNew {
		log.Info("bootstrap admin created", "user_id", created.ID, "email", created.Email)
		return nil
	}
	log.Info("bootstrap admin present", "user_id", created.ID)
	return nil
}
