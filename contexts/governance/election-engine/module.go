package electionengine

import (
	"log/slog"
	"time"

	httpadapter "ledgervote/contexts/governance/election-engine/adapters/http"
	"ledgervote/contexts/governance/election-engine/adapters/memory"
	"ledgervote/contexts/governance/election-engine/application/commands"
	"ledgervote/contexts/governance/election-engine/application/queries"
	"ledgervote/contexts/governance/election-engine/application/workers"
	"ledgervote/contexts/governance/election-engine/domain/services"
	"ledgervote/contexts/governance/election-engine/ports"
)

type Module struct {
	Handler  httpadapter.Handler
	Commands commands.ElectionUseCase
	Queries  queries.ElectionQueries
	Relay    workers.OutboxRelay
	Store    *memory.Store
}

type Dependencies struct {
	Repository           ports.Repository
	Outbox               ports.OutboxRepository
	Idempotency          ports.IdempotencyStore
	Roles                ports.RoleDirectory
	Addresses            ports.AddressDeriver
	Publisher            ports.EventPublisher
	Clock                ports.Clock
	IDGen                ports.IDGenerator
	AuthorityCanValidate bool
	IdempotencyTTL       time.Duration
	Logger               *slog.Logger
}

func NewModule(deps Dependencies) Module {
	useCase := commands.ElectionUseCase{
		Elections:      deps.Repository,
		Roles:          deps.Roles,
		Addresses:      deps.Addresses,
		Idempotency:    deps.Idempotency,
		Capabilities:   services.DefaultCapabilities(deps.AuthorityCanValidate),
		Clock:          deps.Clock,
		IDGen:          deps.IDGen,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}
	electionQueries := queries.ElectionQueries{
		Elections: deps.Repository,
		Roles:     deps.Roles,
	}
	return Module{
		Handler: httpadapter.Handler{
			Elections: useCase,
			Queries:   electionQueries,
			Logger:    deps.Logger,
		},
		Commands: useCase,
		Queries:  electionQueries,
		Relay: workers.OutboxRelay{
			Outbox:    deps.Outbox,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			BatchSize: 100,
			Logger:    deps.Logger,
		},
	}
}

// InMemoryOptions configures NewInMemoryModule.
type InMemoryOptions struct {
	Roles                ports.RoleDirectory
	Addresses            ports.AddressDeriver
	Publisher            ports.EventPublisher
	Clock                ports.Clock
	AuthorityCanValidate bool
	Logger               *slog.Logger
}

func NewInMemoryModule(opts InMemoryOptions) Module {
	store := memory.NewStore()
	var clock ports.Clock = store
	if opts.Clock != nil {
		clock = opts.Clock
	}
	module := NewModule(Dependencies{
		Repository:           store,
		Outbox:               store,
		Idempotency:          store,
		Roles:                opts.Roles,
		Addresses:            opts.Addresses,
		Publisher:            opts.Publisher,
		Clock:                clock,
		IDGen:                store,
		AuthorityCanValidate: opts.AuthorityCanValidate,
		Logger:               opts.Logger,
	})
	module.Store = store
	return module
}
