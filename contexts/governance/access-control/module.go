package accesscontrol

import (
	"log/slog"

	httpadapter "ledgervote/contexts/governance/access-control/adapters/http"
	"ledgervote/contexts/governance/access-control/adapters/memory"
	"ledgervote/contexts/governance/access-control/application/commands"
	"ledgervote/contexts/governance/access-control/application/queries"
	"ledgervote/contexts/governance/access-control/application/workers"
	"ledgervote/contexts/governance/access-control/ports"
)

type Module struct {
	Handler   httpadapter.Handler
	Bootstrap commands.BootstrapUseCase
	Roles     queries.RoleQueries
	Relay     workers.OutboxRelay
	Store     *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Outbox     ports.OutboxRepository
	Publisher  ports.EventPublisher
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	roles := queries.RoleQueries{Repository: deps.Repository}
	return Module{
		Handler: httpadapter.Handler{
			Grants: commands.GrantRoleUseCase{
				Repository: deps.Repository,
				Clock:      deps.Clock,
				IDGen:      deps.IDGen,
				Logger:     deps.Logger,
			},
			Revokes: commands.RevokeRoleUseCase{
				Repository: deps.Repository,
				Clock:      deps.Clock,
				IDGen:      deps.IDGen,
				Logger:     deps.Logger,
			},
			Roles:  roles,
			Logger: deps.Logger,
		},
		Bootstrap: commands.BootstrapUseCase{
			Repository: deps.Repository,
			Clock:      deps.Clock,
			IDGen:      deps.IDGen,
			Logger:     deps.Logger,
		},
		Roles: roles,
		Relay: workers.OutboxRelay{
			Outbox:    deps.Outbox,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			BatchSize: 100,
			Logger:    deps.Logger,
		},
	}
}

func NewInMemoryModule(publisher ports.EventPublisher, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Outbox:     store,
		Publisher:  publisher,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
