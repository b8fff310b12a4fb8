package controllers

import (
	"context"
	"net/http"

	"github.com/sushka2023/sushka-shop-backend/api/responses"
	"github.com/sushka2023/sushka-shop-backend/pkg/config"
	pkgerrors "github.com/sushka2023/sushka-shop-backend/pkg/errors"
	"github.com/sushka2023/sushka-shop-backend/pkg/logger"
)

// Pinger is anything whose backing connection can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthLive reports plain process liveness.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"status": "ok",
			"env":    cfg.App.Env,
		})
	}
}

// HealthReady verifies the backing stores answer.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok", "env": cfg.App.Env}
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				status[name] = err.Error()
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
			status[name] = "ok"
		}
		responses.WriteSuccess(w, status)
	}
}
