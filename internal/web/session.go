package web

import (
	"fmt"
	"net"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/yukikurage/event-dashboard-api/internal/config"
	"github.com/yukikurage/event-dashboard-api/internal/constants"
)

// NewSessionStore builds the dashboard session store selected by
// SESSION_STORE. secure marks cookies HTTPS-only.
func NewSessionStore(cfg config.SessionConfig, secure bool) (sessions.Store, error) {
	var store sessions.Store

	switch cfg.Store {
	case "redis":
		redisAddr := net.JoinHostPort(cfg.RedisHost, cfg.RedisPort)
		rs, err := redisStore.NewStore(
			10,        // Redis pool size
			"tcp",     // network type
			redisAddr, // Redis address from config
			"",        // password (empty = no password)
			[]byte(cfg.Secret),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis session store: %w", err)
		}
		store = rs
	case "cookie", "":
		store = cookie.NewStore([]byte(cfg.Secret))
	default:
		return nil, fmt.Errorf("unsupported session store %q", cfg.Store)
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   constants.SessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}
