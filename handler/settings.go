package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/contalink/erp-sync-service/common/legacy"
	"github.com/contalink/erp-sync-service/common/registry"
	"github.com/contalink/erp-sync-service/common/services"
	"github.com/contalink/erp-sync-service/common/utils"
)

type SettingsHandler struct {
	connections    services.ConnectionConfigService
	registryCfg    services.RegistryConfigService
	gateway        legacy.Gateway
	registryClient registry.Client
	router         *chi.Mux
}

func NewSettingsHandler(connections services.ConnectionConfigService, registryCfg services.RegistryConfigService, gateway legacy.Gateway, registryClient registry.Client) *SettingsHandler {
	h := &SettingsHandler{
		connections:    connections,
		registryCfg:    registryCfg,
		gateway:        gateway,
		registryClient: registryClient,
	}

	r := chi.NewRouter()
	r.Get("/connection", h.handleGetConnection)
	r.Put("/connection", h.handleSaveConnection)
	r.Post("/connection/test", h.handleTestConnection)
	r.Get("/registry", h.handleGetRegistry)
	r.Put("/registry", h.handleSaveRegistry)
	r.Post("/registry/test", h.handleTestRegistry)

	h.router = r
	return h
}

func (h *SettingsHandler) Router() *chi.Mux {
	return h.router
}

type connectionPayload struct {
	DataSourceName string `json:"data_source_name" validate:"required"`
	UserID         string `json:"user_id"`
	Password       string `json:"password"`
	Driver         string `json:"driver"`
}

type connectionResponse struct {
	DataSourceName string `json:"data_source_name"`
	UserID         string `json:"user_id"`
	Password       string `json:"password"`
	Driver         string `json:"driver,omitempty"`
}

func maskedConnection(d legacy.Descriptor) connectionResponse {
	resp := connectionResponse{
		DataSourceName: d.DSN,
		UserID:         d.UserID.OrElse(""),
		Driver:         d.Driver.OrElse(""),
	}
	if secret, ok := d.Secret.Get(); ok && secret != "" {
		resp.Password = legacy.SecretMask
	}
	return resp
}

func (h *SettingsHandler) handleGetConnection(w http.ResponseWriter, r *http.Request) {
	active, err := h.connections.ActiveDescriptor(r.Context())
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to load the connection configuration")
		return
	}
	if active == nil {
		utils.WriteError(w, http.StatusNotFound, "No connection configuration saved")
		return
	}

	utils.WriteJSON(w, http.StatusOK, maskedConnection(*active))
}

func (h *SettingsHandler) handleSaveConnection(w http.ResponseWriter, r *http.Request) {
	var p connectionPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	validate := validator.New()
	if err := validate.Struct(p); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	descriptor, err := h.resolveSubmitted(r, p)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to load the stored connection configuration")
		return
	}

	if err := h.connections.Save(r.Context(), descriptor); err != nil {
		log.Error().Err(err).Msg("Failed to save connection configuration")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to save the connection configuration")
		return
	}

	utils.WriteJSON(w, http.StatusOK, maskedConnection(descriptor))
}

func (h *SettingsHandler) handleTestConnection(w http.ResponseWriter, r *http.Request) {
	// An empty body tests the saved configuration; a payload tests the
	// submitted credentials without saving them.
	var p connectionPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.DataSourceName == "" {
		result := h.gateway.TestConnection(r.Context(), nil)
		utils.WriteJSON(w, http.StatusOK, result)
		return
	}
	defer r.Body.Close()

	descriptor, err := h.resolveSubmitted(r, p)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to load the stored connection configuration")
		return
	}

	result := h.gateway.TestConnection(r.Context(), &descriptor)
	utils.WriteJSON(w, http.StatusOK, result)
}

// resolveSubmitted turns a payload into a descriptor, substituting the stored
// secret when the client echoed the mask back.
func (h *SettingsHandler) resolveSubmitted(r *http.Request, p connectionPayload) (legacy.Descriptor, error) {
	submitted := legacy.NewDescriptor(p.DataSourceName, p.UserID, p.Password, p.Driver)

	stored, err := h.connections.ActiveDescriptor(r.Context())
	if err != nil {
		return legacy.Descriptor{}, err
	}
	return legacy.ResolveSecret(submitted, stored), nil
}

type registryPayload struct {
	BaseURL string `json:"base_url" validate:"required,url"`
	ApiKey  string `json:"api_key" validate:"required"`
}

type registryResponse struct {
	BaseURL string `json:"base_url"`
	ApiKey  string `json:"api_key"`
	Active  bool   `json:"active"`
}

func (h *SettingsHandler) handleGetRegistry(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.registryCfg.GetActive(r.Context())
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to load the registry configuration")
		return
	}
	if cfg == nil {
		utils.WriteError(w, http.StatusNotFound, "No registry configuration saved")
		return
	}

	utils.WriteJSON(w, http.StatusOK, registryResponse{
		BaseURL: cfg.BaseURL,
		ApiKey:  legacy.SecretMask,
		Active:  cfg.Active,
	})
}

func (h *SettingsHandler) handleSaveRegistry(w http.ResponseWriter, r *http.Request) {
	var p registryPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	validate := validator.New()
	if err := validate.Struct(p); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	apiKey := p.ApiKey
	if apiKey == legacy.SecretMask {
		stored, err := h.registryCfg.GetActive(r.Context())
		if err != nil {
			utils.WriteError(w, http.StatusInternalServerError, "Failed to load the stored registry configuration")
			return
		}
		if stored != nil && stored.BaseURL == p.BaseURL {
			apiKey = stored.ApiKey
		}
	}

	saved, err := h.registryCfg.Save(r.Context(), p.BaseURL, apiKey)
	if err != nil {
		log.Error().Err(err).Msg("Failed to save registry configuration")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to save the registry configuration")
		return
	}

	utils.WriteJSON(w, http.StatusOK, registryResponse{
		BaseURL: saved.BaseURL,
		ApiKey:  legacy.SecretMask,
		Active:  saved.Active,
	})
}

func (h *SettingsHandler) handleTestRegistry(w http.ResponseWriter, r *http.Request) {
	// An empty body tests the saved configuration; a payload tests the
	// submitted values without saving them.
	var p registryPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.BaseURL == "" {
		cfg, err := h.registryCfg.GetActive(r.Context())
		if err != nil {
			utils.WriteError(w, http.StatusInternalServerError, "Failed to load the registry configuration")
			return
		}
		if cfg == nil {
			utils.WriteError(w, http.StatusPreconditionFailed, "No registry configuration saved")
			return
		}

		// A failed probe is a valid answer, not a handler error.
		result := h.registryClient.TestConnection(r.Context(), cfg.BaseURL, cfg.ApiKey)
		utils.WriteJSON(w, http.StatusOK, result)
		return
	}
	defer r.Body.Close()

	// The mask substitutes the stored key only against the stored base URL.
	// Against any other URL it is taken literally, same as on save.
	apiKey := p.ApiKey
	if apiKey == legacy.SecretMask {
		stored, err := h.registryCfg.GetActive(r.Context())
		if err != nil {
			utils.WriteError(w, http.StatusInternalServerError, "Failed to load the stored registry configuration")
			return
		}
		if stored != nil && stored.BaseURL == p.BaseURL {
			apiKey = stored.ApiKey
		}
	}

	result := h.registryClient.TestConnection(r.Context(), p.BaseURL, apiKey)
	utils.WriteJSON(w, http.StatusOK, result)
}
