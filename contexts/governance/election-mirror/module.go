package electionmirror

import (
	"log/slog"
	"time"

	httpadapter "ledgervote/contexts/governance/election-mirror/adapters/http"
	"ledgervote/contexts/governance/election-mirror/adapters/memory"
	"ledgervote/contexts/governance/election-mirror/application/queries"
	"ledgervote/contexts/governance/election-mirror/application/workers"
	"ledgervote/contexts/governance/election-mirror/ports"
)

type Module struct {
	Handler   httpadapter.Handler
	Queries   queries.MirrorQueries
	Projector *workers.Projector
	Store     *memory.Store
}

type Dependencies struct {
	Store         ports.ReadModelStore
	Dedup         ports.EventDedupStore
	Subscriber    ports.EventSubscriber
	Elections     ports.ElectionSource
	Roles         ports.RoleSource
	Clock         ports.Clock
	ConsumerGroup string
	DedupTTL      time.Duration
	Disabled      bool
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	mirrorQueries := queries.MirrorQueries{Store: deps.Store}
	return Module{
		Handler: httpadapter.Handler{
			Queries: mirrorQueries,
			Logger:  deps.Logger,
		},
		Queries: mirrorQueries,
		Projector: &workers.Projector{
			Subscriber:    deps.Subscriber,
			Dedup:         deps.Dedup,
			Store:         deps.Store,
			Elections:     deps.Elections,
			Roles:         deps.Roles,
			Clock:         deps.Clock,
			ConsumerGroup: deps.ConsumerGroup,
			DedupTTL:      deps.DedupTTL,
			Disabled:      deps.Disabled,
			Logger:        deps.Logger,
		},
	}
}

type InMemoryOptions struct {
	Subscriber ports.EventSubscriber
	Elections  ports.ElectionSource
	Roles      ports.RoleSource
	Disabled   bool
	Logger     *slog.Logger
}

func NewInMemoryModule(opts InMemoryOptions) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Store:      store,
		Dedup:      store,
		Subscriber: opts.Subscriber,
		Elections:  opts.Elections,
		Roles:      opts.Roles,
		Clock:      store,
		Disabled:   opts.Disabled,
		Logger:     opts.Logger,
	})
	module.Store = store
	return module
}
