package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/application"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/contracts"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) requestExport(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	var req contracts.ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	job, err := h.service.RequestExport(r.Context(), actor, application.ExportInput{
		ReportType: req.ReportType,
		Format:     req.Format,
		Filters:    req.Filters,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusAccepted, "Export ready", job)
}

func (h *Handler) getExport(w http.ResponseWriter, r *http.Request) {
	job, err := h.service.GetExport(r.Context(), actorFromContext(r.Context()), chi.URLParam(r, "exportID"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", job)
}

func (h *Handler) downloadExport(w http.ResponseWriter, r *http.Request) {
	job, err := h.service.DownloadExport(r.Context(), actorFromContext(r.Context()), chi.URLParam(r, "exportID"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", job.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", job.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(job.Content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(job.Content)
}
