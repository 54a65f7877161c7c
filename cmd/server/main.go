package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"donorhub/internal/application"
	applicationmetrics "donorhub/internal/application/metrics"
	applicationservice "donorhub/internal/application/service"
	applicationstore "donorhub/internal/application/store"
	"donorhub/internal/appointment"
	"donorhub/internal/draw"
	drawadapters "donorhub/internal/draw/adapters"
	drawmetrics "donorhub/internal/draw/metrics"
	drawservice "donorhub/internal/draw/service"
	drawstore "donorhub/internal/draw/store"
	"donorhub/internal/identifier"
	identifiermetrics "donorhub/internal/identifier/metrics"
	identifierservice "donorhub/internal/identifier/service"
	identifierstore "donorhub/internal/identifier/store"
	"donorhub/internal/incentive"
	incentivemetrics "donorhub/internal/incentive/metrics"
	incentiveservice "donorhub/internal/incentive/service"
	"donorhub/internal/incentive/store/ledger"
	"donorhub/internal/incentive/store/shortage"
	jwttoken "donorhub/internal/jwt_token"
	"donorhub/internal/lockout"
	lockoutmetrics "donorhub/internal/lockout/metrics"
	lockoutservice "donorhub/internal/lockout/service"
	lockoutstore "donorhub/internal/lockout/store"
	"donorhub/internal/platform/config"
	"donorhub/internal/platform/httpserver"
	"donorhub/internal/platform/kafka"
	"donorhub/internal/platform/logger"
	"donorhub/internal/platform/postgres"
	"donorhub/internal/platform/redis"
	httptransport "donorhub/internal/transport/http"
	"donorhub/pkg/platform/audit"
	auditpublisher "donorhub/pkg/platform/audit/publisher"
	auditmemory "donorhub/pkg/platform/audit/store/memory"
	auditpostgres "donorhub/pkg/platform/audit/store/postgres"
	"donorhub/pkg/platform/audit/worker"
	adminmw "donorhub/pkg/platform/middleware/admin"
	authmw "donorhub/pkg/platform/middleware/auth"
)

const sessionAudience = "donorhub-sessions"

func main() {
	if err := run(); err != nil {
		slog.Error("donorhub exited", "error", err)
		os.Exit(1)
	}
}

type infra struct {
	db       *sql.DB
	redis    *redis.Client
	producer *kafka.Producer
}

func (i infra) close() {
	if i.producer != nil {
		i.producer.Close()
	}
	if i.redis != nil {
		_ = i.redis.Close()
	}
	if i.db != nil {
		_ = i.db.Close()
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log.Level)
	slog.SetDefault(log)
	if cfg.UsesDevSigningKey() {
		log.Warn("using the development JWT signing key; set DONORHUB_SERVER_JWT_SIGNING_KEY")
	}
	if cfg.Server.AdminToken == "" {
		log.Warn("no admin token configured; staff routes will reject every request")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	auditStore, outbox := auditStores(deps)
	publisher := auditpublisher.NewPublisher(auditStore, auditpublisher.WithAsyncBuffer(1024), auditpublisher.WithLogger(log))
	defer publisher.Close()

	identifiers := identifier.NewService(identifierStore(deps), log, identifiermetrics.NewWith(reg))
	selector := appointment.NewSelector(log)

	jwtService := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer, sessionAudience)
	appStore := applicationStore(deps)
	applications := application.NewService(appStore, identifiers, selector, jwtService, cfg.Server.SessionTTL,
		publisher, log, applicationmetrics.NewWith(reg))
	donors := application.NewDonorDirectory(appStore)
	logins := lockout.NewService(lockoutStore(deps), lockout.Policy{
		Attempts:     cfg.Lockout.Attempts,
		Window:       cfg.Lockout.Window,
		LockDuration: cfg.Lockout.LockDuration,
	}, publisher, log, lockoutmetrics.NewWith(reg))

	ledgerStore, board := incentiveStores(deps)
	incentives := incentive.NewService(ledgerStore, board, donors, publisher, log, incentivemetrics.NewWith(reg))
	seeds, err := cfg.ShortageSeeds()
	if err != nil {
		return err
	}
	if err := incentives.SeedShortages(ctx, seeds); err != nil {
		return err
	}

	draws, err := draw.NewService(drawStore(deps), drawadapters.NewLedgerAdapter(incentives), donors, publisher,
		cfg.Draw.Period, cfg.Draw.Threshold, log, drawmetrics.NewWith(reg))
	if err != nil {
		return err
	}
	drawScheduler, err := draw.NewScheduler(cfg.Draw.CheckSchedule, draws, log)
	if err != nil {
		return err
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:         log,
		Applications:   application.NewHandler(applications, logins, log),
		Incentives:     incentive.NewHandler(incentives, log),
		Draw:           draw.NewHandler(draws, log),
		Appointments:   appointment.NewHandler(selector, log),
		RequireAdmin:   adminmw.RequireAdminToken(cfg.Server.AdminToken, log),
		RequireSession: authmw.RequireSession(jwttoken.NewJWTServiceAdapter(jwtService), log),
		Gatherer:       reg,
		HealthChecks:   healthChecks(deps),
	})
	srv := httpserver.New(cfg.Server.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpserver.Run(gctx, srv, cfg.Server.ShutdownTimeout, log)
	})
	g.Go(func() error {
		return drawScheduler.Run(gctx)
	})
	if outbox != nil && deps.producer != nil {
		relay := worker.NewRelay(outbox, deps.producer, log, worker.WithInterval(cfg.Kafka.OutboxInterval))
		g.Go(func() error {
			return relay.Run(gctx)
		})
	} else if deps.producer != nil {
		log.Warn("kafka configured without a database; audit events are not relayed")
	}

	log.Info("donorhub started",
		"addr", cfg.Server.Addr,
		"postgres", deps.db != nil,
		"redis", deps.redis != nil,
		"kafka", deps.producer != nil,
	)
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("donorhub stopped")
	return nil
}

func connect(ctx context.Context, cfg config.Config, log *slog.Logger) (infra, error) {
	var deps infra
	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return deps, err
	}
	deps.db = db
	if db != nil {
		if err := postgres.Migrate(ctx, db); err != nil {
			deps.close()
			return infra{}, err
		}
	}

	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		deps.close()
		return infra{}, err
	}
	deps.redis = rdb

	producer, err := kafka.NewProducer(ctx, cfg.Kafka, log)
	if err != nil {
		deps.close()
		return infra{}, err
	}
	deps.producer = producer
	if producer != nil {
		if err := producer.EnsureTopic(ctx, cfg.Kafka.Partitions, cfg.Kafka.ReplicationFactor); err != nil {
			deps.close()
			return infra{}, err
		}
	}
	return deps, nil
}

// auditStores picks the outbox-backed store when Postgres is available.
func auditStores(deps infra) (audit.Store, worker.Outbox) {
	if deps.db != nil {
		s := auditpostgres.New(deps.db)
		return s, s
	}
	return auditmemory.NewInMemoryStore(), nil
}

// identifierStore keeps issued identifiers next to the applications that carry
// them whenever Postgres is configured. Redis only serves database-less runs.
func identifierStore(deps infra) identifierservice.Store {
	switch {
	case deps.db != nil:
		return identifierstore.NewPostgres(deps.db)
	case deps.redis != nil:
		return identifierstore.NewRedis(deps.redis.Client)
	default:
		return identifierstore.NewInMemory()
	}
}

func applicationStore(deps infra) applicationservice.Store {
	if deps.db != nil {
		return applicationstore.NewPostgres(deps.db)
	}
	return applicationstore.NewInMemory()
}

// lockoutStore shares failed-login counts across replicas when Redis is configured.
func lockoutStore(deps infra) lockoutservice.Store {
	if deps.redis != nil {
		return lockoutstore.NewRedis(deps.redis.Client)
	}
	return lockoutstore.NewInMemory()
}

// incentiveStores keeps the ledger in Postgres and shares the shortage board
// through Redis when it is configured.
func incentiveStores(deps infra) (incentiveservice.LedgerStore, incentiveservice.ShortageBoard) {
	var ledgerStore incentiveservice.LedgerStore = ledger.NewInMemory()
	if deps.db != nil {
		ledgerStore = ledger.NewPostgres(deps.db)
	}
	switch {
	case deps.redis != nil:
		return ledgerStore, shortage.NewRedis(deps.redis.Client)
	case deps.db != nil:
		return ledgerStore, shortage.NewPostgres(deps.db)
	default:
		return ledgerStore, shortage.NewInMemory()
	}
}

func drawStore(deps infra) drawservice.Store {
	if deps.db != nil {
		return drawstore.NewPostgres(deps.db)
	}
	return drawstore.NewInMemory()
}

func healthChecks(deps infra) []httptransport.HealthCheck {
	var checks []httptransport.HealthCheck
	if deps.db != nil {
		checks = append(checks, httptransport.HealthCheck{Name: "postgres", Check: deps.db.PingContext})
	}
	if deps.redis != nil {
		checks = append(checks, httptransport.HealthCheck{Name: "redis", Check: deps.redis.Health})
	}
	if deps.producer != nil {
		checks = append(checks, httptransport.HealthCheck{Name: "kafka", Check: deps.producer.Health})
	}
	return checks
}
