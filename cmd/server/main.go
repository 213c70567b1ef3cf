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

	consentmetrics "credvault/internal/consent/metrics"
	consentservice "credvault/internal/consent/service"
	consentstore "credvault/internal/consent/store"
	"credvault/internal/events/outbox"
	outboxmetrics "credvault/internal/events/outbox/metrics"
	outboxpg "credvault/internal/events/outbox/store/postgres"
	"credvault/internal/events/outbox/worker"
	issuermetrics "credvault/internal/issuer/metrics"
	issuerservice "credvault/internal/issuer/service"
	issuerstore "credvault/internal/issuer/store"
	ledgermetrics "credvault/internal/ledger/metrics"
	ledgerservice "credvault/internal/ledger/service"
	ledgerstore "credvault/internal/ledger/store"
	"credvault/internal/platform/config"
	"credvault/internal/platform/database"
	"credvault/internal/platform/health"
	"credvault/internal/platform/kafka"
	"credvault/internal/platform/kafka/producer"
	"credvault/internal/platform/logger"
	platformredis "credvault/internal/platform/redis"
	"credvault/internal/platform/token"
	httptransport "credvault/internal/transport/http"
	verificationmetrics "credvault/internal/verification/metrics"
	verificationservice "credvault/internal/verification/service"
	"credvault/internal/verification/tracer"
	"credvault/internal/zkp"
	id "credvault/pkg/domain"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	admin, err := id.ParsePrincipalID(cfg.AdminPrincipal)
	if err != nil {
		log.Error("invalid admin principal", "error", err)
		os.Exit(1)
	}

	environment := os.Getenv("CREDVAULT_ENV")
	if environment == "" {
		environment = "development"
	}

	log.Info("initializing credvault",
		"addr", cfg.Addr,
		"environment", environment,
		"postgres", cfg.Database.URL != "",
		"redis", cfg.Redis.URL != "",
		"kafka", cfg.Kafka.Brokers != "",
	)

	pool, err := database.New(database.Config{
		URL:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}

	vk, err := zkp.LoadVerifyingKey(cfg.ZKP.VerifyingKeyPath)
	if err != nil {
		log.Error("verifying key load failed",
			"path", cfg.ZKP.VerifyingKeyPath,
			"error", err,
		)
		os.Exit(1)
	}
	proofs := zkp.NewVerifier(vk, log)

	healthHandler := health.New(environment)

	// Event log shared by every context; Postgres deployments get the durable
	// outbox, in-memory deployments a process-local one.
	var eventLog outbox.Store
	if pool != nil {
		eventLog = outboxpg.New(pool.DB())
		healthHandler.RegisterCheck("database", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			return pool.Health(ctx)
		})
	} else {
		eventLog = outbox.NewInMemoryStore()
	}

	var issuerSvc *issuerservice.Service
	var ledgerSvc *ledgerservice.Service
	if pool != nil {
		issuers := issuerstore.NewPostgres(pool.DB())
		issuerSvc = issuerservice.NewService(admin, newIssuerPostgresTx(pool.DB()), issuers, log,
			issuerservice.WithMetrics(issuermetrics.New()))

		credentials := ledgerstore.NewPostgres(pool.DB())
		ledgerSvc = ledgerservice.NewService(issuerSvc, newLedgerPostgresTx(pool.DB()), credentials, log,
			ledgerservice.WithMetrics(ledgermetrics.New()))
	} else {
		issuers := issuerstore.New()
		issuerSvc = issuerservice.NewService(admin, issuerservice.NewMemoryTx(issuers, eventLog), issuers, log,
			issuerservice.WithMetrics(issuermetrics.New()))

		credentials := ledgerstore.New()
		ledgerSvc = ledgerservice.NewService(issuerSvc, ledgerservice.NewMemoryTx(credentials, eventLog), credentials, log,
			ledgerservice.WithMetrics(ledgermetrics.New()))
	}

	consentSvc, err := buildConsentService(cfg, pool, redisClient, eventLog, ledgerSvc, log)
	if err != nil {
		log.Error("consent backend init failed", "backend", cfg.ConsentBackend, "error", err)
		os.Exit(1)
	}

	verifySvc := verificationservice.NewService(ledgerSvc, issuerSvc, consentSvc, proofs, log,
		verificationservice.WithMetrics(verificationmetrics.New()),
		verificationservice.WithTracer(tracer.NewOTel()))

	if redisClient != nil {
		healthHandler.RegisterCheck("redis", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			return redisClient.Health(ctx)
		})
		go recordRedisStats(redisClient)
	}

	var outboxWorker *worker.Worker
	if cfg.Kafka.Brokers != "" {
		prod, err := producer.New(producer.Config{
			Brokers:         cfg.Kafka.Brokers,
			Acks:            "all",
			Retries:         3,
			DeliveryTimeout: 10 * time.Second,
		}, log)
		if err != nil {
			log.Error("kafka producer init failed", "error", err)
			os.Exit(1)
		}
		defer prod.Close()

		outboxWorker = worker.New(eventLog, prod,
			worker.WithTopic(cfg.Kafka.Topic),
			worker.WithMetrics(outboxmetrics.New()),
			worker.WithLogger(log),
		)
		outboxWorker.Start()

		kafkaCheck := kafka.NewHealthChecker(cfg.Kafka.Brokers)
		healthHandler.RegisterCheck("kafka", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			return kafkaCheck.Check(ctx)
		})
	}

	tokens := token.NewManager(cfg.JWTSigningKey)
	router := httptransport.NewRouter(httptransport.RouterConfig{
		Issuers:      httptransport.NewIssuerHandler(issuerSvc, log),
		Credentials:  httptransport.NewCredentialHandler(ledgerSvc, log),
		Consents:     httptransport.NewConsentHandler(consentSvc, log),
		Verification: httptransport.NewVerifyHandler(verifySvc, log),
		Health:       healthHandler,
		Auth:         tokens,
	}, log)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info("starting http server", "addr", cfg.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	if outboxWorker != nil {
		outboxWorker.Stop()
	}
	if redisClient != nil {
		redisClient.Close() //nolint:errcheck // process is exiting
	}
	if pool != nil {
		pool.Close() //nolint:errcheck // process is exiting
	}

	log.Info("server stopped")
}

var (
	errRedisNotConfigured    = errors.New("consent backend is redis but REDIS_URL is not set")
	errPostgresNotConfigured = errors.New("consent backend is postgres but DATABASE_URL is not set")
	errUnknownConsentBackend = errors.New("unknown consent backend")
)

// buildConsentService selects the consent store backend. "auto" prefers Redis
// when configured, then Postgres, then memory.
func buildConsentService(cfg config.Server, pool *database.Pool, redisClient *platformredis.Client, eventLog outbox.Store, ledgerSvc *ledgerservice.Service, log *slog.Logger) (*consentservice.Service, error) {
	metrics := consentservice.WithMetrics(consentmetrics.New())

	backend := cfg.ConsentBackend
	if backend == "auto" {
		switch {
		case redisClient != nil:
			backend = "redis"
		case pool != nil:
			backend = "postgres"
		default:
			backend = "memory"
		}
	}

	switch backend {
	case "redis":
		if redisClient == nil {
			return nil, errRedisNotConfigured
		}
		store := consentstore.NewRedis(redisClient.Client)
		return consentservice.NewService(ledgerSvc, consentservice.NewMemoryTx(store, eventLog), store, log, metrics), nil
	case "postgres":
		if pool == nil {
			return nil, errPostgresNotConfigured
		}
		store := consentstore.NewPostgres(pool.DB())
		return consentservice.NewService(ledgerSvc, newConsentPostgresTx(pool.DB()), store, log, metrics), nil
	case "memory":
		store := consentstore.New()
		return consentservice.NewService(ledgerSvc, consentservice.NewMemoryTx(store, eventLog), store, log, metrics), nil
	default:
		return nil, errUnknownConsentBackend
	}
}

func recordRedisStats(client *platformredis.Client) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		client.RecordPoolStats()
	}
}
