package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/contalink/erp-sync-service/common/syncer"
	"github.com/contalink/erp-sync-service/common/utils"
)

type AccountHandler struct {
	catalog *syncer.Catalog
	router  *chi.Mux
}

func NewAccountHandler(catalog *syncer.Catalog) *AccountHandler {
	h := &AccountHandler{
		catalog: catalog,
	}

	r := chi.NewRouter()
	r.Get("/", h.handleListAccounts)

	h.router = r
	return h
}

func (h *AccountHandler) Router() *chi.Mux {
	return h.router
}

func (h *AccountHandler) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	page, perPage := utils.Pagination(r, defaultPerPage, maxPerPage)

	accounts, total, err := h.catalog.ListLedgerAccounts(r.Context(), r.URL.Query().Get("name"), page, perPage)
	if err != nil {
		writeLegacyError(w, err, "Failed to list ledger accounts")
		return
	}

	utils.WritePagination(w, http.StatusOK, accounts, page, perPage, total)
}
