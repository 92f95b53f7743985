package reportshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrmflow/internal/domain/auth"
	"hrmflow/internal/domain/reports"
	"hrmflow/internal/transport/http/api"
	"hrmflow/internal/transport/http/middleware"
)

type Handler struct {
	Service *reports.Service
}

func NewHandler(svc *reports.Service) *Handler {
	return &Handler{Service: svc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireCapability(auth.CapReportsRead)).Get("/reports/dashboard", h.handleDashboard)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.Service.BuildDashboard(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "dashboard_failed", "failed to build dashboard", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, dashboard, middleware.GetRequestID(r.Context()))
}
