package leavehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrmflow/internal/domain/audit"
	"hrmflow/internal/domain/auth"
	"hrmflow/internal/domain/leave"
	"hrmflow/internal/domain/notifications"
	"hrmflow/internal/domain/workflow"
	"hrmflow/internal/transport/http/api"
	"hrmflow/internal/transport/http/middleware"
	"hrmflow/internal/transport/http/shared"
)

type Handler struct {
	Service  *leave.Service
	Audit    *audit.Service
	Notifier *notifications.Service
}

func NewHandler(svc *leave.Service, auditSvc *audit.Service, notifier *notifications.Service) *Handler {
	return &Handler{Service: svc, Audit: auditSvc, Notifier: notifier}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireCapability(auth.CapLeaveWrite)).Post("/leave", h.handleCreate)
	r.With(middleware.RequireCapability(auth.CapLeaveRead)).Get("/leave", h.handleList)
	r.With(middleware.RequireCapability(auth.CapLeaveWrite)).Post("/leave/{leaveID}/status", h.handleTransition)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload struct {
		LeaveType string `json:"leaveType"`
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
		StartHalf bool   `json:"startHalf"`
		EndHalf   bool   `json:"endHalf"`
		Reason    string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("leaveType", payload.LeaveType, "leave type is required")
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	v.DateOrder("startDate", start, "endDate", end)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	record, err := h.Service.Create(r.Context(), user, payload.LeaveType, start, end, payload.StartHalf, payload.EndHalf, payload.Reason)
	if err != nil {
		h.writeError(w, r, err, "leave_create_failed", "failed to create leave request")
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "leave.create", "leave_request", record.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit leave.create failed", "err", err)
	}
	api.Created(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	requests, err := h.Service.List(r.Context(), user, r.URL.Query().Get("status"), page.Limit, page.Offset)
	if err != nil {
		h.writeError(w, r, err, "leave_list_failed", "failed to list leave requests")
		return
	}
	api.Success(w, requests, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTransition(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	leaveID := chi.URLParam(r, "leaveID")

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("status", payload.Status, "status is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	record, err := h.Service.Transition(r.Context(), user, leaveID, workflow.Status(payload.Status))
	if err != nil {
		h.writeError(w, r, err, "leave_transition_failed", "failed to transition leave request")
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "leave.status", "leave_request", leaveID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit leave.status failed", "err", err)
	}
	if record.Status == workflow.StatusApproved || record.Status == workflow.StatusRejected {
		if err := h.Notifier.NotifyEmployee(r.Context(), record.EmployeeID, notifications.TypeLeaveReviewed,
			"Leave request reviewed", "Your leave request is now "+string(record.Status)+"."); err != nil {
			slog.Warn("notify leave.status failed", "err", err)
		}
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, leave.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", requestID)
	case errors.Is(err, leave.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed for this leave request", requestID)
	case errors.Is(err, leave.ErrInvalidType):
		api.Fail(w, http.StatusBadRequest, "invalid_leave_type", "unknown leave type", requestID)
	case errors.Is(err, leave.ErrInvalidRange):
		api.Fail(w, http.StatusBadRequest, "invalid_range", "leave date range is not valid", requestID)
	case errors.Is(err, workflow.ErrInvalidTransition):
		api.Fail(w, http.StatusBadRequest, "invalid_transition", "transition not allowed from the current status", requestID)
	case errors.Is(err, workflow.ErrVersionConflict):
		api.Fail(w, http.StatusConflict, "version_conflict", "leave request changed concurrently, reload and retry", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}
