package http

import (
	"log/slog"
	"net/http"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/application"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/ports"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service  *application.Service
	verifier ports.TokenVerifier
}

// NewHandler builds the handler. verifier may be nil for local use.
func NewHandler(service *application.Service, verifier ports.TokenVerifier) *Handler {
	return &Handler{service: service, verifier: verifier}
}

func NewRouter(handler *Handler, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware(logger))
	r.Use(loggingMiddleware(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeSuccess(w, http.StatusOK, "ok", nil) })
	r.Get("/readyz", handler.readiness)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/dataset", handler.getDatasetStatus)
		r.Get("/records", handler.listRecords)
		r.Get("/questions", handler.listQuestions)
		r.Get("/technical-info", handler.getTechnicalInfo)

		r.Get("/kpis", handler.getKPIs)
		r.Get("/overview", handler.getOverview)
		r.Get("/cities", handler.getCities)
		r.Get("/nps", handler.getNPS)
		r.Get("/distribution", handler.getDistribution)
		r.Get("/departments", handler.getDepartments)
		r.Get("/trends/monthly", handler.getMonthlyTrend)
		r.Get("/segments/analysis", handler.getSegmentAnalysis)
		r.Get("/metrics/unified", handler.getUnifiedMetrics)
		r.Get("/filters/{filterType}/stats", handler.getFilterStats)
		r.Get("/charts/{kind}", handler.getChart)

		r.Get("/managers/report", handler.getManagerReport)
		r.Get("/executives", handler.listExecutives)
		r.Get("/executives/stats", handler.getExecutiveStats)
		r.Get("/executives/check", handler.checkExecutive)

		r.Get("/suggestions/summary", handler.getSuggestionSummary)
		r.Get("/suggestions/categories", handler.listSuggestionCategories)
		r.Get("/suggestions/analysis", handler.analyzeSuggestions)

		r.Group(func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Post("/exports", handler.requestExport)
			r.Get("/exports/{exportID}", handler.getExport)
			r.Get("/exports/{exportID}/download", handler.downloadExport)
			r.With(requireAdmin).Post("/dataset/reload", handler.reloadDataset)
		})
	})
	return r
}
