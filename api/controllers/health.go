package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/tokoluma/luma-backend/api/responses"
	"github.com/tokoluma/luma-backend/pkg/config"
	pkgerrors "github.com/tokoluma/luma-backend/pkg/errors"
	"github.com/tokoluma/luma-backend/pkg/logger"
)

const readinessTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Luma-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports whether the API can reach its datastores.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Luma-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				checks["database"] = "unreachable"
				healthy = false
				if logg != nil {
					logg.Error(ctx, "readiness: database ping failed", err)
				}
			} else {
				checks["database"] = "ok"
			}
		}
		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				checks["redis"] = "unreachable"
				healthy = false
				if logg != nil {
					logg.Error(ctx, "readiness: redis ping failed", err)
				}
			} else {
				checks["redis"] = "ok"
			}
		}

		if !healthy {
			responses.WriteError(r.Context(), nil, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
