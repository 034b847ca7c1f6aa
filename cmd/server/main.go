package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	authhandler "antygravity/internal/auth/handler"
	authmodels "antygravity/internal/auth/models"
	authservice "antygravity/internal/auth/service"
	"antygravity/internal/auth/social"
	"antygravity/internal/auth/store/revocation"
	socialstore "antygravity/internal/auth/store/social"
	userstore "antygravity/internal/auth/store/user"
	familyhandler "antygravity/internal/family/handler"
	familyservice "antygravity/internal/family/service"
	childstore "antygravity/internal/family/store/child"
	rulestore "antygravity/internal/family/store/rule"
	violationstore "antygravity/internal/family/store/violation"
	"antygravity/internal/jwttoken"
	netwatchhandler "antygravity/internal/netwatch/handler"
	netwatchmetrics "antygravity/internal/netwatch/metrics"
	"antygravity/internal/netwatch/registry"
	netwatchservice "antygravity/internal/netwatch/service"
	devicestore "antygravity/internal/netwatch/store/device"
	scanlogstore "antygravity/internal/netwatch/store/scanlog"
	"antygravity/internal/platform/config"
	"antygravity/internal/platform/httpserver"
	"antygravity/internal/platform/logger"
	"antygravity/internal/platform/metrics"
	"antygravity/internal/platform/postgres"
	platformredis "antygravity/internal/platform/redis"
	privacyhandler "antygravity/internal/privacy/handler"
	privacymetrics "antygravity/internal/privacy/metrics"
	privacyservice "antygravity/internal/privacy/service"
	checkstore "antygravity/internal/privacy/store/check"
	httptransport "antygravity/internal/transport/http"
	"antygravity/pkg/platform/audit"
	"antygravity/pkg/platform/audit/publisher"
	auditmemory "antygravity/pkg/platform/audit/store/memory"
	auditpostgres "antygravity/pkg/platform/audit/store/postgres"
	auditworker "antygravity/pkg/platform/audit/worker"
)

const (
	auditBuffer     = 256
	shutdownTimeout = 10 * time.Second
)

// main wires configuration, storage backends, services, and the HTTP server.
// Postgres, Redis, and Kafka are all optional; missing backends fall back to
// in-memory stores so the server runs standalone in development.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(cfg.PostgresURL)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	m := metrics.New()
	tokens := jwttoken.NewService(cfg.JWT)
	validator := jwttoken.NewMiddlewareAdapter(tokens)

	// Audit pipeline: handlers emit, the worker persists, and when both
	// Postgres and Kafka are configured the publisher drains the outbox.
	emitter := audit.NewEmitter(auditBuffer, log)
	var auditStore audit.Store
	var outboxStore *auditpostgres.Store
	if db != nil {
		outboxStore = auditpostgres.New(db)
		auditStore = outboxStore
	} else {
		auditStore = auditmemory.NewInMemoryStore()
	}
	worker := auditworker.New(auditStore, emitter.Inbox(), log)

	kafkaPublisher, err := publisher.New(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic, outboxStore, log)
	if err != nil {
		return err
	}

	authSvc := buildAuthService(cfg, db, redisClient, tokens, emitter, m, log)
	familySvc := buildFamilyService(db, log)
	privacySvc := privacyservice.NewService(privacyCheckStore(db), log,
		privacyservice.WithMetrics(privacymetrics.New()),
		privacyservice.WithAuditor(emitter),
	)
	netwatchSvc := buildNetwatchService(db, emitter, log)

	router := httptransport.NewRouter(
		authhandler.New(authSvc, log, m, validator),
		familyhandler.New(familySvc, log, m, validator),
		privacyhandler.New(privacySvc, log, m, validator),
		netwatchhandler.New(netwatchSvc, log, m, validator),
	)
	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return worker.Run(ctx)
	})
	if kafkaPublisher != nil {
		g.Go(func() error {
			return kafkaPublisher.Run(ctx)
		})
	}
	g.Go(func() error {
		log.Info("starting antygravity server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("server stopped")
	return nil
}

func buildAuthService(
	cfg config.Config,
	db *sql.DB,
	redisClient *platformredis.Client,
	tokens *jwttoken.Service,
	emitter *audit.Emitter,
	m *metrics.Metrics,
	log *slog.Logger,
) *authservice.Service {
	opts := []authservice.Option{
		authservice.WithAuditor(emitter),
		authservice.WithMetrics(m),
	}
	if cfg.GoogleClientID != "" {
		opts = append(opts, authservice.WithVerifier(authmodels.ProviderGoogle, social.NewGoogleVerifier(cfg.GoogleClientID)))
	}
	if cfg.AppleClientID != "" {
		opts = append(opts, authservice.WithVerifier(authmodels.ProviderApple, social.NewAppleVerifier(cfg.AppleClientID)))
	}

	var users authservice.UserStore = userstore.NewInMemoryStore()
	var socials authservice.SocialStore = socialstore.NewInMemoryStore()
	var revocations authservice.RevocationList = revocation.NewInMemoryList()
	if db != nil {
		users = userstore.NewPostgresStore(db)
		socials = socialstore.NewPostgresStore(db)
	}
	if redisClient != nil {
		revocations = revocation.NewRedisList(redisClient.Client)
	}

	return authservice.NewService(users, socials, revocations, tokens, log, opts...)
}

func buildFamilyService(db *sql.DB, log *slog.Logger) *familyservice.Service {
	if db == nil {
		return familyservice.NewService(
			childstore.NewInMemoryStore(),
			rulestore.NewInMemoryStore(),
			violationstore.NewInMemoryStore(),
			log,
		)
	}
	return familyservice.NewService(
		childstore.NewPostgresStore(db),
		rulestore.NewPostgresStore(db),
		violationstore.NewPostgresStore(db),
		log,
	)
}

func buildNetwatchService(db *sql.DB, emitter *audit.Emitter, log *slog.Logger) *netwatchservice.Service {
	nwMetrics := netwatchmetrics.New()

	var devices netwatchservice.DeviceStore = devicestore.NewInMemoryStore()
	var scans netwatchservice.ScanStore = scanlogstore.NewInMemoryStore()
	if db != nil {
		devices = devicestore.NewPostgresStore(db)
		scans = scanlogstore.NewPostgresStore(db)
	}

	reconciler := registry.NewReconciler(devices, log, nwMetrics)
	return netwatchservice.NewService(devices, scans, reconciler, log, netwatchservice.WithAuditor(emitter))
}

func privacyCheckStore(db *sql.DB) privacyservice.Store {
	if db == nil {
		return checkstore.NewInMemoryStore()
	}
	return checkstore.NewPostgresStore(db)
}
