package controllers

import (
	"context"
	"net/http"

	"github.com/hospicare/hospicare-backend/api/responses"
	"github.com/hospicare/hospicare-backend/pkg/config"
	"github.com/hospicare/hospicare-backend/pkg/db"
	pkgerrors "github.com/hospicare/hospicare-backend/pkg/errors"
	"github.com/hospicare/hospicare-backend/pkg/logger"
	"github.com/hospicare/hospicare-backend/pkg/redis"
)

const envHeader = "X-HospiCare-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		checks := map[string]string{}
		probe := func(name string, ping func(context.Context) error) error {
			if ping == nil {
				return nil
			}
			if err := ping(r.Context()); err != nil {
				checks[name] = "down"
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable").WithDetails(checks)
			}
			checks[name] = "up"
			return nil
		}

		if dbP != nil {
			if err := probe("database", dbP.Ping); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		if redisP != nil {
			if err := probe("redis", redisP.Ping); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
