package http

import (
	"net/http"
	"strings"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/application"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) getKPIs(w http.ResponseWriter, r *http.Request) {
	kpis, err := h.service.GetKPIData(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", kpis)
}

func (h *Handler) getOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.GetOverview(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", overview)
}

func (h *Handler) getCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.service.GetCityData(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", cities)
}

func (h *Handler) getNPS(w http.ResponseWriter, r *http.Request) {
	nps, err := h.service.GetNPS(r.Context(), strings.TrimSpace(r.URL.Query().Get("segment")))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", nps)
}

func (h *Handler) getDistribution(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	points, err := h.service.GetRatingDistribution(r.Context(), strings.TrimSpace(q.Get("metric")), strings.TrimSpace(q.Get("segment")))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", points)
}

func (h *Handler) getDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.service.GetDepartmentPerformance(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", departments)
}

func (h *Handler) getMonthlyTrend(w http.ResponseWriter, r *http.Request) {
	trend, err := h.service.GetMonthlyTrend(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", trend)
}

func (h *Handler) getSegmentAnalysis(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.service.GetSegmentAnalysis(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", analysis)
}

func (h *Handler) getUnifiedMetrics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	metrics, err := h.service.GetUnifiedMetrics(r.Context(), application.FilterInput{
		FilterType:  strings.TrimSpace(q.Get("filter_type")),
		FilterValue: strings.TrimSpace(q.Get("filter_value")),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", metrics)
}

func (h *Handler) getFilterStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetFilterStats(r.Context(), chi.URLParam(r, "filterType"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", stats)
}

func (h *Handler) getChart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind := strings.TrimSuffix(chi.URLParam(r, "kind"), ".png")
	png, err := h.service.RenderChart(r.Context(), application.ChartInput{
		Kind:    kind,
		Metric:  strings.TrimSpace(q.Get("metric")),
		Segment: strings.TrimSpace(q.Get("segment")),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h *Handler) getSuggestionSummary(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, "", h.service.GetSuggestionSummary())
}

func (h *Handler) listSuggestionCategories(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, "", h.service.ListSuggestionCategories())
}

func (h *Handler) analyzeSuggestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	analysis, err := h.service.AnalyzeSuggestions(r.Context(), strings.TrimSpace(q.Get("segment")), queryBool(q.Get("include_items")))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", analysis)
}
