package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/meradukaan/meradukaan-backend/api/responses"
	"github.com/meradukaan/meradukaan-backend/pkg/config"
	pkgerrors "github.com/meradukaan/meradukaan-backend/pkg/errors"
	"github.com/meradukaan/meradukaan-backend/pkg/logger"
)

const readinessTimeout = 2 * time.Second

const envHeader = "X-MeraDukaan-Env"

// Pinger is any dependency that can report its own health.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, http.StatusOK, map[string]string{"status": "live"}, "ok")
	}
}

// HealthReady pings Postgres and Redis. Nil dependencies are skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbPinger, redisPinger Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]Pinger{"postgres": dbPinger, "redis": redisPinger}
		status := map[string]string{}
		for name, pinger := range checks {
			if pinger == nil {
				continue
			}
			if err := pinger.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable").
					WithDetails(map[string]string{"dependency": name}))
				return
			}
			status[name] = "ok"
		}
		status["status"] = "ready"
		responses.WriteSuccess(w, http.StatusOK, status, "ok")
	}
}
