package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/trndfy/samplevault-backend/api/responses"
	"github.com/trndfy/samplevault-backend/pkg/config"
	"github.com/trndfy/samplevault-backend/pkg/db"
	"github.com/trndfy/samplevault-backend/pkg/logger"
	"github.com/trndfy/samplevault-backend/pkg/redis"
	"github.com/trndfy/samplevault-backend/pkg/storage/gcs"
)

const envHeader = "X-SampleVault-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes each dependency; a single failure flips the whole
// endpoint to 503 so the load balancer stops routing here.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger, gcsP gcs.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		deps := []struct {
			name string
			ping func(context.Context) error
		}{
			{"database", pingFn(dbP)},
			{"redis", pingFn(redisP)},
			{"storage", pingFn(gcsP)},
		}

		checks := map[string]string{}
		healthy := true
		for _, dep := range deps {
			if dep.ping == nil {
				continue
			}
			if err := dep.ping(ctx); err != nil {
				healthy = false
				checks[dep.name] = "down"
				if logg != nil {
					logg.Error(logg.WithField(ctx, "dependency", dep.name), "readiness probe failed", err)
				}
				continue
			}
			checks[dep.name] = "up"
		}

		status := http.StatusOK
		state := "ready"
		if !healthy {
			status = http.StatusServiceUnavailable
			state = "degraded"
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"status": state,
			"checks": checks,
		})
	}
}

func pingFn(p interface{ Ping(context.Context) error }) func(context.Context) error {
	if p == nil {
		return nil
	}
	return p.Ping
}
