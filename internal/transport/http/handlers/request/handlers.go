package requesthandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrmflow/internal/domain/audit"
	"hrmflow/internal/domain/auth"
	"hrmflow/internal/domain/notifications"
	"hrmflow/internal/domain/request"
	"hrmflow/internal/domain/workflow"
	"hrmflow/internal/transport/http/api"
	"hrmflow/internal/transport/http/middleware"
	"hrmflow/internal/transport/http/shared"
)

type Handler struct {
	Service  *request.Service
	Audit    *audit.Service
	Notifier *notifications.Service
}

func NewHandler(svc *request.Service, auditSvc *audit.Service, notifier *notifications.Service) *Handler {
	return &Handler{Service: svc, Audit: auditSvc, Notifier: notifier}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireCapability(auth.CapRequestsRead)).Get("/requests", h.handleList)
	r.With(middleware.RequireCapability(auth.CapRequestsWrite)).Post("/requests", h.handleCreate)
	r.With(middleware.RequireCapability(auth.CapRequestsRead)).Get("/requests/{requestID}", h.handleGet)
	r.With(middleware.RequireCapability(auth.CapRequestsWrite)).Put("/requests/{requestID}", h.handleEdit)
	r.With(middleware.RequireCapability(auth.CapRequestsAssign)).Post("/requests/{requestID}/assign", h.handleAssign)
	r.With(middleware.RequireCapability(auth.CapRequestsWrite)).Post("/requests/{requestID}/comments", h.handleComment)
	r.With(middleware.RequireCapability(auth.CapRequestsRead)).Get("/requests/{requestID}/comments", h.handleComments)
	r.With(middleware.RequireCapability(auth.CapRequestsRead)).Get("/requests/{requestID}/transitions", h.handleTransitions)
	r.With(middleware.RequireCapability(auth.CapRequestsWrite)).Post("/requests/{requestID}/status", h.handleTransition)
}

type createPayload struct {
	Category string `json:"category"`
	Priority string `json:"priority"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload createPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("subject", payload.Subject, "subject is required")
	v.Required("category", payload.Category, "category is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Service.Create(r.Context(), user, payload.Category, payload.Priority, payload.Subject, payload.Body)
	if err != nil {
		h.writeError(w, r, err, "request_create_failed", "failed to create request")
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "request.create", "employee_request", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit request.create failed", "err", err)
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 50, 200)
	status := r.URL.Query().Get("status")

	requests, err := h.Service.List(r.Context(), user, status, page.Limit, page.Offset)
	if err != nil {
		h.writeError(w, r, err, "requests_list_failed", "failed to list requests")
		return
	}
	api.Success(w, requests, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	record, err := h.Service.Get(r.Context(), user, chi.URLParam(r, "requestID"))
	if err != nil {
		h.writeError(w, r, err, "request_get_failed", "failed to load request")
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := chi.URLParam(r, "requestID")

	var payload createPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("subject", payload.Subject, "subject is required")
	v.Required("category", payload.Category, "category is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	record, err := h.Service.Edit(r.Context(), user, requestID, payload.Category, payload.Priority, payload.Subject, payload.Body)
	if err != nil {
		h.writeError(w, r, err, "request_edit_failed", "failed to edit request")
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "request.edit", "employee_request", requestID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit request.edit failed", "err", err)
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := chi.URLParam(r, "requestID")

	var payload struct {
		AssigneeID string `json:"assigneeId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("assigneeId", payload.AssigneeID, "assignee id is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	record, err := h.Service.Assign(r.Context(), user, requestID, payload.AssigneeID)
	if err != nil {
		h.writeError(w, r, err, "request_assign_failed", "failed to assign request")
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "request.assign", "employee_request", requestID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit request.assign failed", "err", err)
	}
	if err := h.Notifier.NotifyEmployee(r.Context(), payload.AssigneeID, notifications.TypeRequestAssigned,
		"Request assigned to you", "Request "+requestID+" has been assigned to you."); err != nil {
		slog.Warn("notify request.assign failed", "err", err)
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleComment(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := chi.URLParam(r, "requestID")

	var payload struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("body", payload.Body, "comment body is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	commentID, err := h.Service.Comment(r.Context(), user, requestID, payload.Body)
	if err != nil {
		h.writeError(w, r, err, "request_comment_failed", "failed to add comment")
		return
	}
	api.Created(w, map[string]string{"id": commentID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleComments(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	comments, err := h.Service.Comments(r.Context(), user, chi.URLParam(r, "requestID"))
	if err != nil {
		h.writeError(w, r, err, "request_comments_failed", "failed to list comments")
		return
	}
	api.Success(w, comments, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTransitions(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	next, err := h.Service.ValidNextStatuses(r.Context(), user, chi.URLParam(r, "requestID"))
	if err != nil {
		h.writeError(w, r, err, "request_transitions_failed", "failed to list transitions")
		return
	}
	api.Success(w, map[string]any{"transitions": next}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTransition(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := chi.URLParam(r, "requestID")

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

	record, err := h.Service.Transition(r.Context(), user, requestID, workflow.Status(payload.Status))
	if err != nil {
		h.writeError(w, r, err, "request_transition_failed", "failed to transition request")
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "request.status", "employee_request", requestID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit request.status failed", "err", err)
	}
	if record.EmployeeID != user.EmployeeID {
		if err := h.Notifier.NotifyEmployee(r.Context(), record.EmployeeID, notifications.TypeRequestStatus,
			"Request status changed", "Request "+requestID+" moved to "+string(record.Status)+"."); err != nil {
			slog.Warn("notify request.status failed", "err", err)
		}
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, request.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "request not found", requestID)
	case errors.Is(err, request.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed for this request", requestID)
	case errors.Is(err, request.ErrInvalidCategory):
		api.Fail(w, http.StatusBadRequest, "invalid_category", "unknown request category", requestID)
	case errors.Is(err, request.ErrInvalidPriority):
		api.Fail(w, http.StatusBadRequest, "invalid_priority", "unknown request priority", requestID)
	case errors.Is(err, workflow.ErrInvalidTransition):
		api.Fail(w, http.StatusBadRequest, "invalid_transition", "transition not allowed from the current status", requestID)
	case errors.Is(err, workflow.ErrVersionConflict):
		api.Fail(w, http.StatusConflict, "version_conflict", "request changed concurrently, reload and retry", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}
