package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/contalink/erp-sync-service/common/services"
	"github.com/contalink/erp-sync-service/common/utils"
)

const maxLogRows = 500

type LogHandler struct {
	logs   services.SyncLogService
	router *chi.Mux
}

func NewLogHandler(logs services.SyncLogService) *LogHandler {
	h := &LogHandler{
		logs: logs,
	}

	r := chi.NewRouter()
	r.Get("/", h.handleRecentLogs)

	h.router = r
	return h
}

func (h *LogHandler) Router() *chi.Mux {
	return h.router
}

func (h *LogHandler) handleRecentLogs(w http.ResponseWriter, r *http.Request) {
	limit := utils.QueryInt(r, "limit", 100)
	if limit < 1 {
		limit = 100
	}
	if limit > maxLogRows {
		limit = maxLogRows
	}

	rows, err := h.logs.Recent(r.Context(), limit)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to load logs")
		return
	}

	utils.WriteJSON(w, http.StatusOK, rows)
}
