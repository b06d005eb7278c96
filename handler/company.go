package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/contalink/erp-sync-service/common/legacy"
	"github.com/contalink/erp-sync-service/common/services"
	"github.com/contalink/erp-sync-service/common/syncer"
	"github.com/contalink/erp-sync-service/common/utils"
	"github.com/contalink/erp-sync-service/common/work"
)

const (
	defaultPerPage = 25
	maxPerPage     = 200
)

type CompanyHandler struct {
	catalog      *syncer.Catalog
	flags        services.CompanyFlagService
	orchestrator *syncer.Orchestrator
	router       *chi.Mux
}

func NewCompanyHandler(catalog *syncer.Catalog, flags services.CompanyFlagService, orchestrator *syncer.Orchestrator) *CompanyHandler {
	h := &CompanyHandler{
		catalog:      catalog,
		flags:        flags,
		orchestrator: orchestrator,
	}

	r := chi.NewRouter()
	r.Get("/", h.handleListCompanies)
	r.Get("/{code}", h.handleGetCompany)
	r.Put("/{code}/sync-flag", h.handleToggleSyncFlag)
	r.Get("/{code}/suppliers", h.handleListSuppliers)
	r.Get("/{code}/customers", h.handleListCustomers)
	r.Get("/{code}/accumulators", h.handleListAccumulators)
	r.Get("/{code}/sync", h.handleSyncStatus)
	r.Post("/{code}/sync", h.handleStartSync)

	h.router = r
	return h
}

func (h *CompanyHandler) Router() *chi.Mux {
	return h.router
}

func companyCode(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "code"))
}

func (h *CompanyHandler) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	page, perPage := utils.Pagination(r, defaultPerPage, maxPerPage)

	filter := syncer.CompanyListFilter{
		Code:         utils.QueryInt(r, "code", 0),
		NameContains: r.URL.Query().Get("name"),
		TaxID:        r.URL.Query().Get("tax_id"),
	}
	switch r.URL.Query().Get("sync") {
	case "enabled":
		filter.Sync = syncer.SyncFilterEnabled
	case "disabled":
		filter.Sync = syncer.SyncFilterDisabled
	case "":
	default:
		utils.WriteError(w, http.StatusBadRequest, "sync filter must be enabled or disabled")
		return
	}

	companies, total, err := h.catalog.ListCompanies(r.Context(), filter, page, perPage)
	if err != nil {
		writeLegacyError(w, err, "Failed to list companies")
		return
	}

	utils.WritePagination(w, http.StatusOK, companies, page, perPage, total)
}

func (h *CompanyHandler) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	code, err := companyCode(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Company code must be an integer")
		return
	}

	company, err := h.catalog.GetCompany(r.Context(), code)
	if err != nil {
		writeLegacyError(w, err, "Failed to load the company")
		return
	}
	if company == nil {
		utils.WriteError(w, http.StatusNotFound, "Company not found")
		return
	}

	utils.WriteJSON(w, http.StatusOK, company)
}

type syncFlagPayload struct {
	Enabled bool `json:"enabled"`
}

func (h *CompanyHandler) handleToggleSyncFlag(w http.ResponseWriter, r *http.Request) {
	code, err := companyCode(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Company code must be an integer")
		return
	}

	var p syncFlagPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	flag, created, err := h.flags.Toggle(r.Context(), code, p.Enabled)
	if err != nil {
		log.Error().Err(err).Int("companyCode", code).Msg("Failed to toggle sync flag")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to toggle the sync flag")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	utils.WriteJSON(w, status, flag)
}

func (h *CompanyHandler) handleListSuppliers(w http.ResponseWriter, r *http.Request) {
	code, err := companyCode(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Company code must be an integer")
		return
	}

	page, perPage := utils.Pagination(r, defaultPerPage, maxPerPage)
	filter := legacy.SupplierFilter{
		Code:         r.URL.Query().Get("code"),
		NameContains: r.URL.Query().Get("name"),
		TaxID:        r.URL.Query().Get("tax_id"),
	}

	suppliers, total, err := h.catalog.ListSuppliers(r.Context(), code, filter, page, perPage)
	if err != nil {
		writeLegacyError(w, err, "Failed to list suppliers")
		return
	}

	utils.WritePagination(w, http.StatusOK, suppliers, page, perPage, total)
}

func (h *CompanyHandler) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	code, err := companyCode(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Company code must be an integer")
		return
	}

	page, perPage := utils.Pagination(r, defaultPerPage, maxPerPage)

	customers, total, err := h.catalog.ListCustomers(r.Context(), code, page, perPage)
	if err != nil {
		writeLegacyError(w, err, "Failed to list customers")
		return
	}

	utils.WritePagination(w, http.StatusOK, customers, page, perPage, total)
}

func (h *CompanyHandler) handleListAccumulators(w http.ResponseWriter, r *http.Request) {
	code, err := companyCode(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Company code must be an integer")
		return
	}

	page, perPage := utils.Pagination(r, defaultPerPage, maxPerPage)

	accumulators, total, err := h.catalog.ListAccumulators(r.Context(), code, page, perPage)
	if err != nil {
		writeLegacyError(w, err, "Failed to list accumulators")
		return
	}

	utils.WritePagination(w, http.StatusOK, accumulators, page, perPage, total)
}

func (h *CompanyHandler) handleStartSync(w http.ResponseWriter, r *http.Request) {
	code, err := companyCode(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Company code must be an integer")
		return
	}

	result, err := h.orchestrator.EnqueueEligibleSuppliers(r.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, syncer.ErrRegistryNotConfigured), errors.Is(err, syncer.ErrSyncDisabled):
			utils.WriteError(w, http.StatusPreconditionFailed, err.Error())
		case errors.Is(err, syncer.ErrCompanyNotFound):
			utils.WriteError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, work.ErrBatchAlreadyRunning):
			utils.WriteError(w, http.StatusConflict, err.Error())
		default:
			log.Error().Err(err).Int("companyCode", code).Msg("Batch enqueue failed")
			writeLegacyError(w, err, "Failed to start the supplier sync batch")
		}
		return
	}

	utils.WriteJSON(w, http.StatusAccepted, result)
}

func (h *CompanyHandler) handleSyncStatus(w http.ResponseWriter, r *http.Request) {
	code, err := companyCode(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Company code must be an integer")
		return
	}

	running, err := h.orchestrator.BatchRunning(r.Context(), code)
	if err != nil {
		log.Error().Err(err).Int("companyCode", code).Msg("Batch status check failed")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to check the batch status")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]bool{"running": running})
}

// writeLegacyError maps legacy-store failures onto HTTP statuses: missing
// configuration is a precondition problem, driver trouble is a bad gateway.
func writeLegacyError(w http.ResponseWriter, err error, fallback string) {
	var drvErr *legacy.DriverError
	switch {
	case errors.Is(err, legacy.ErrNoActiveConnection), errors.Is(err, legacy.ErrEmptyDataSourceName):
		utils.WriteError(w, http.StatusPreconditionFailed, err.Error())
	case errors.As(err, &drvErr):
		utils.WriteError(w, http.StatusBadGateway, drvErr.Error())
	default:
		utils.WriteError(w, http.StatusInternalServerError, fallback)
	}
}
