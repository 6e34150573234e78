package server

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"contract-scanner/internal/shared/metrics"
	"contract-scanner/internal/shared/server/middleware"
	"contract-scanner/internal/shared/server/respond"
	"contract-scanner/internal/shared/storage/db"
	"contract-scanner/internal/templates"
	"contract-scanner/internal/users"
)

const healthTimeout = 2 * time.Second

// Pinger is a dependency /health can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps are the wired services the router mounts.
type RouterDeps struct {
	Users          *users.Service
	Templates      *templates.Handler
	DB             *sql.DB
	Cache          Pinger
	AllowedOrigins []string
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	var authenticator middleware.TokenAuthenticator
	if deps.Users != nil {
		authenticator = deps.Users
	}

	r.Use(
		middleware.RequestID(),
		metrics.Middleware(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.AllowedOrigins),
		middleware.Auth(authenticator),
	)

	r.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "Not Found")
	})

	r.GET("/health", healthHandler(deps))
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	if deps.Users != nil {
		users.NewHandler(deps.Users).RegisterRoutes(api.Group("/users"))
	}
	if deps.Templates != nil {
		deps.Templates.RegisterRoutes(api.Group("/templates"))
	}

	return r
}

func healthHandler(deps RouterDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := gin.H{}
		healthy := true
		if deps.DB != nil {
			if err := db.Ping(c.Request.Context(), deps.DB, healthTimeout); err != nil {
				checks["database"] = err.Error()
				healthy = false
			} else {
				checks["database"] = "ok"
			}
		}
		if deps.Cache != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
			err := deps.Cache.Ping(ctx)
			cancel()
			if err != nil {
				checks["cache"] = err.Error()
				healthy = false
			} else {
				checks["cache"] = "ok"
			}
		}
		if !healthy {
			respond.JSON(c, http.StatusServiceUnavailable, gin.H{"ok": false, "checks": checks})
			return
		}
		respond.JSON(c, http.StatusOK, gin.H{"ok": true, "checks": checks})
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":5000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
