package http

import (
	"net/http"
	"strings"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/application"
)

func (h *Handler) getManagerReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	report, err := h.service.GetManagerReport(r.Context(), application.ManagerReportInput{
		Category:    strings.TrimSpace(q.Get("category")),
		FilterType:  strings.TrimSpace(q.Get("filter_type")),
		FilterValue: strings.TrimSpace(q.Get("filter_value")),
		RosterOnly:  queryBool(q.Get("roster_only")),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", report)
}

func (h *Handler) listExecutives(w http.ResponseWriter, r *http.Request) {
	executives, err := h.service.ListExecutives(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", executives)
}

func (h *Handler) getExecutiveStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetExecutiveStats(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", stats)
}

func (h *Handler) checkExecutive(w http.ResponseWriter, r *http.Request) {
	match, err := h.service.CheckExecutive(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", match)
}
