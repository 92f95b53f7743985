package auditloghandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrmflow/internal/domain/audit"
	"hrmflow/internal/domain/auth"
	"hrmflow/internal/transport/http/api"
	"hrmflow/internal/transport/http/middleware"
	"hrmflow/internal/transport/http/shared"
)

type Handler struct {
	Service *audit.Service
}

func NewHandler(svc *audit.Service) *Handler {
	return &Handler{Service: svc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireCapability(auth.CapAuditRead)).Get("/audit/events", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 100, 500)
	filter := audit.Filter{
		Action:     r.URL.Query().Get("action"),
		EntityType: r.URL.Query().Get("entityType"),
		ActorID:    r.URL.Query().Get("actorId"),
	}
	events, err := h.Service.List(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to list audit events", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, events, middleware.GetRequestID(r.Context()))
}
