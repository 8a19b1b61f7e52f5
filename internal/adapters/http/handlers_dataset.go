package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/application"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/contracts"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"
)

func (h *Handler) readiness(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.GetDatasetStatus(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if !status.Loaded {
		writeError(w, http.StatusServiceUnavailable, "dataset_not_loaded", domain.ErrDatasetNotLoaded.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "ready", nil)
}

func (h *Handler) getDatasetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.GetDatasetStatus(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", status)
}

func (h *Handler) reloadDataset(w http.ResponseWriter, r *http.Request) {
	var req contracts.ReloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	status, err := h.service.LoadDataset(r.Context(), application.LoadInput{
		Locations: req.Locations,
		Trigger:   "api",
		TraceID:   requestIDFromContext(r.Context()),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Dataset reloaded", status)
}

func (h *Handler) listRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := queryInt(q.Get("limit"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	offset, err := queryInt(q.Get("offset"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	page, err := h.service.ListRecords(r.Context(), application.RecordQuery{
		Segment: strings.TrimSpace(q.Get("segment")),
		Ciudad:  strings.TrimSpace(q.Get("ciudad")),
		Agencia: strings.TrimSpace(q.Get("agencia")),
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", page)
}

func (h *Handler) listQuestions(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, "", h.service.ListQuestions())
}

func (h *Handler) getTechnicalInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.GetTechnicalInfo(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", info)
}

func queryInt(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, domain.ErrInvalidInput
	}
	return value, nil
}

func queryBool(raw string) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && value
}
