package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	accesscontrol "ledgervote/contexts/governance/access-control"
	accesspostgres "ledgervote/contexts/governance/access-control/adapters/postgres"
	electionengine "ledgervote/contexts/governance/election-engine"
	"ledgervote/contexts/governance/election-engine/adapters/ethereum"
	enginepostgres "ledgervote/contexts/governance/election-engine/adapters/postgres"
	electionmirror "ledgervote/contexts/governance/election-mirror"
	mirrormongo "ledgervote/contexts/governance/election-mirror/adapters/mongo"
	"ledgervote/internal/platform/config"
	"ledgervote/internal/platform/db"
	"ledgervote/internal/platform/docstore"
	"ledgervote/internal/platform/httpserver"
	"ledgervote/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

const idempotencyTTL = 7 * 24 * time.Hour

// runtime holds the wired modules shared by both processes.
type runtime struct {
	access    accesscontrol.Module
	elections electionengine.Module
	mirror    electionmirror.Module
	bus       *messaging.Kafka
	postgres  *db.Postgres
	mongo     *docstore.Mongo
	logger    *slog.Logger
}

type APIApp struct {
	server *httpserver.Server
	// embedded runs the relays and the projector in-process. It is set for
	// the memory driver, where no other process can see the stores.
	embedded *WorkerApp
	runtime  *runtime
	logger   *slog.Logger
}

type WorkerApp struct {
	runtime      *runtime
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI(ctx context.Context, cfg config.Config, logger *slog.Logger) (*APIApp, error) {
	logger = resolveLogger(logger).With("service", cfg.ServiceName, "process", "api")
	rt, err := buildRuntime(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	app := &APIApp{
		server:  httpserver.New(rt.access, rt.elections, rt.mirror, logger, normalizeAddr(cfg.HTTPPort)),
		runtime: rt,
		logger:  logger,
	}
	if cfg.StorageDriver == config.StorageMemory {
		app.embedded = &WorkerApp{runtime: rt, pollInterval: cfg.OutboxPollInterval, logger: logger}
	}
	return app, nil
}

func BuildWorker(ctx context.Context, cfg config.Config, logger *slog.Logger) (*WorkerApp, error) {
	logger = resolveLogger(logger).With("service", cfg.ServiceName, "process", "worker")
	if cfg.StorageDriver == config.StorageMemory {
		return nil, errors.New("worker process requires STORAGE_DRIVER=postgres; the api runs workers in-process for the memory driver")
	}
	rt, err := buildRuntime(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &WorkerApp{runtime: rt, pollInterval: cfg.OutboxPollInterval, logger: logger}, nil
}

func buildRuntime(ctx context.Context, cfg config.Config, logger *slog.Logger) (*runtime, error) {
	bus, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}
	addresses, err := ethereum.NewAddressDeriver(cfg.FactoryAddress)
	if err != nil {
		return nil, fmt.Errorf("factory address: %w", err)
	}

	rt := &runtime{bus: bus, logger: logger}
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		if err := rt.wirePostgres(ctx, cfg, addresses); err != nil {
			_ = rt.close(context.Background())
			return nil, err
		}
	default:
		rt.access = accesscontrol.NewInMemoryModule(bus, logger)
		rt.elections = electionengine.NewInMemoryModule(electionengine.InMemoryOptions{
			Roles:                electionRoleDirectory{roles: rt.access.Roles},
			Addresses:            addresses,
			Publisher:            bus,
			AuthorityCanValidate: cfg.ElectionAuthorityCanValidate,
			Logger:               logger,
		})
	}

	if err := rt.wireMirror(ctx, cfg); err != nil {
		_ = rt.close(context.Background())
		return nil, err
	}

	if admin := strings.TrimSpace(cfg.BootstrapSuperAdmin); admin != "" {
		if _, err := rt.access.Bootstrap.Execute(ctx, admin); err != nil {
			_ = rt.close(context.Background())
			return nil, fmt.Errorf("bootstrap super admin: %w", err)
		}
	}
	return rt, nil
}

func (rt *runtime) wirePostgres(ctx context.Context, cfg config.Config, addresses ethereum.AddressDeriver) error {
	pg, err := db.Connect(cfg.PostgresDSN, rt.logger)
	if err != nil {
		return err
	}
	rt.postgres = pg

	accessRepo := accesspostgres.NewRepository(pg.DB, rt.logger)
	if err := accessRepo.Migrate(ctx); err != nil {
		return err
	}
	rt.access = accesscontrol.NewModule(accesscontrol.Dependencies{
		Repository: accessRepo,
		Outbox:     accessRepo,
		Publisher:  rt.bus,
		Clock:      accessRepo,
		IDGen:      accessRepo,
		Logger:     rt.logger,
	})

	electionRepo := enginepostgres.NewRepository(pg.DB, rt.logger)
	if err := electionRepo.Migrate(ctx); err != nil {
		return err
	}
	rt.elections = electionengine.NewModule(electionengine.Dependencies{
		Repository:           electionRepo,
		Outbox:               electionRepo,
		Idempotency:          electionRepo,
		Roles:                electionRoleDirectory{roles: rt.access.Roles},
		Addresses:            addresses,
		Publisher:            rt.bus,
		Clock:                electionRepo,
		IDGen:                electionRepo,
		AuthorityCanValidate: cfg.ElectionAuthorityCanValidate,
		IdempotencyTTL:       idempotencyTTL,
		Logger:               rt.logger,
	})
	return nil
}

func (rt *runtime) wireMirror(ctx context.Context, cfg config.Config) error {
	elections := mirrorElectionSource{elections: rt.elections.Queries}
	roles := mirrorRoleSource{roles: rt.access.Roles}

	if strings.TrimSpace(cfg.MongoURI) == "" {
		rt.mirror = electionmirror.NewInMemoryModule(electionmirror.InMemoryOptions{
			Subscriber: rt.bus,
			Elections:  elections,
			Roles:      roles,
			Disabled:   !cfg.EnableMirrorConsumer,
			Logger:     rt.logger,
		})
		return nil
	}

	mongo, err := docstore.Connect(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return err
	}
	rt.mongo = mongo
	store := mirrormongo.NewStore(mongo.Database, rt.logger)
	if err := store.EnsureIndexes(ctx); err != nil {
		return err
	}
	rt.mirror = electionmirror.NewModule(electionmirror.Dependencies{
		Store:      store,
		Dedup:      store,
		Subscriber: rt.bus,
		Elections:  elections,
		Roles:      roles,
		DedupTTL:   idempotencyTTL,
		Disabled:   !cfg.EnableMirrorConsumer,
		Logger:     rt.logger,
	})
	return nil
}

func (rt *runtime) close(ctx context.Context) error {
	var errs []error
	if rt.mongo != nil {
		errs = append(errs, rt.mongo.Close(ctx))
	}
	if rt.postgres != nil {
		errs = append(errs, rt.postgres.Close())
	}
	return errors.Join(errs...)
}

// Run serves HTTP until ctx is cancelled, then shuts the server down.
func (a *APIApp) Run(ctx context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"embedded_workers", a.embedded != nil,
	)

	errCh := make(chan error, 2)
	if a.embedded != nil {
		go func() { errCh <- a.embedded.Run(ctx) }()
	}
	go func() { errCh <- a.server.Start() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (a *APIApp) Server() *httpserver.Server {
	return a.server
}

func (a *APIApp) Close() error {
	return a.runtime.close(context.Background())
}

// Run starts the mirror projector and drains both outboxes on every tick.
func (w *WorkerApp) Run(ctx context.Context) error {
	if err := w.runtime.mirror.Projector.Start(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.RunOnce(ctx); err != nil && ctx.Err() == nil {
			w.logger.Error("outbox relay pass failed",
				"event", "bootstrap_worker_relay_failed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"error", err.Error(),
			)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce publishes one batch from each outbox. Registry events go first so
// role changes reach consumers before elections that depend on them.
func (w *WorkerApp) RunOnce(ctx context.Context) error {
	if err := w.runtime.access.Relay.RunOnce(ctx); err != nil {
		return err
	}
	return w.runtime.elections.Relay.RunOnce(ctx)
}

func (w *WorkerApp) Close() error {
	return w.runtime.close(context.Background())
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
