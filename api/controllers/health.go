package controllers

import (
	"net/http"

	"github.com/agropazar/agropazar-backend/api/responses"
	"github.com/agropazar/agropazar-backend/pkg/config"
	"github.com/agropazar/agropazar-backend/pkg/db"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Agropazar-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, database db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Agropazar-Env", cfg.App.Env)
		if database != nil {
			if err := database.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), nil, w, err)
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
