package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelfscout/shelfscout/internal/config"
	"github.com/shelfscout/shelfscout/internal/logger"
	"github.com/shelfscout/shelfscout/internal/session"
	"github.com/shelfscout/shelfscout/internal/sse"
)

// ProvideSessionManager provides the search session manager.
func ProvideSessionManager(i do.Injector) (*session.Manager, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	catalogHandle := do.MustInvoke[*CatalogHandle](i)

	manager := session.NewManager(catalogHandle, session.Config{
		TTL:         cfg.Search.SessionTTL,
		Debounce:    cfg.Search.Debounce,
		MaxSessions: cfg.Search.MaxSessions,
	}, log.Logger)

	log.Info("Session manager initialized",
		"ttl", manager.TTL(),
		"max_sessions", manager.MaxSessions(),
		"debounce", cfg.Search.Debounce,
	)

	return manager, nil
}

// ProvideSSEManager provides the server-sent events manager.
func ProvideSSEManager(i do.Injector) (*sse.Manager, error) {
	log := do.MustInvoke[*logger.Logger](i)

	manager := sse.NewManager(log.Logger)
	log.Info("SSE manager started", "heartbeat", manager.HeartbeatInterval())

	return manager, nil
}
