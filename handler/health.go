package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/contalink/erp-sync-service/common/db"
	"github.com/contalink/erp-sync-service/common/legacy"
	"github.com/contalink/erp-sync-service/common/registry"
	"github.com/contalink/erp-sync-service/common/services"
	"github.com/contalink/erp-sync-service/common/utils"
)

type HealthHandler struct {
	db             *db.DB
	gateway        legacy.Gateway
	registryCfg    services.RegistryConfigService
	registryClient registry.Client
	router         *chi.Mux
}

func NewHealthHandler(db *db.DB, gateway legacy.Gateway, registryCfg services.RegistryConfigService, registryClient registry.Client) *HealthHandler {
	h := &HealthHandler{
		db:             db,
		gateway:        gateway,
		registryCfg:    registryCfg,
		registryClient: registryClient,
	}

	r := chi.NewRouter()
	r.Get("/", h.handleHealthCheck)
	r.Get("/database", h.handleDatabaseHealth)
	r.Get("/legacy", h.handleLegacyHealth)
	r.Get("/registry", h.handleRegistryHealth)

	h.router = r
	return h
}

func (h *HealthHandler) Router() *chi.Mux {
	return h.router
}

func (h *HealthHandler) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "erp-sync-service",
	}

	utils.WriteJSON(w, http.StatusOK, response)
}

func (h *HealthHandler) handleDatabaseHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	stat := h.db.Pool.Stat()
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"database": map[string]interface{}{
			"status":            "healthy",
			"total_conns":       stat.TotalConns(),
			"idle_conns":        stat.IdleConns(),
			"acquired_conns":    stat.AcquiredConns(),
			"max_conns":         stat.MaxConns(),
			"new_conns_count":   stat.NewConnsCount(),
			"acquire_count":     stat.AcquireCount(),
			"canceled_acquires": stat.CanceledAcquireCount(),
		},
	}

	if err := h.db.Ping(ctx); err != nil {
		response["status"] = "unhealthy"
		response["database"].(map[string]interface{})["status"] = "unhealthy"
		response["database"].(map[string]interface{})["error"] = err.Error()
		utils.WriteJSON(w, http.StatusServiceUnavailable, response)
		return
	}

	utils.WriteJSON(w, http.StatusOK, response)
}

func (h *HealthHandler) handleLegacyHealth(w http.ResponseWriter, r *http.Request) {
	result := h.gateway.TestConnection(r.Context(), nil)

	status := http.StatusOK
	if !result.Success {
		status = http.StatusServiceUnavailable
	}
	utils.WriteJSON(w, status, result)
}

func (h *HealthHandler) handleRegistryHealth(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.registryCfg.GetActive(r.Context())
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to load the registry configuration")
		return
	}
	if cfg == nil {
		utils.WriteError(w, http.StatusPreconditionFailed, "No registry configuration saved")
		return
	}

	result := h.registryClient.TestConnection(r.Context(), cfg.BaseURL, cfg.ApiKey)

	status := http.StatusOK
	if !result.Success {
		status = http.StatusServiceUnavailable
	}
	utils.WriteJSON(w, status, result)
}
