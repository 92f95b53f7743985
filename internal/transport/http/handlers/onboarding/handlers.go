package onboardinghandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrmflow/internal/domain/audit"
	"hrmflow/internal/domain/auth"
	"hrmflow/internal/domain/notifications"
	"hrmflow/internal/domain/onboarding"
	"hrmflow/internal/domain/workflow"
	"hrmflow/internal/transport/http/api"
	"hrmflow/internal/transport/http/middleware"
	"hrmflow/internal/transport/http/shared"
)

type Handler struct {
	Service  *onboarding.Service
	Audit    *audit.Service
	Notifier *notifications.Service
}

func NewHandler(svc *onboarding.Service, auditSvc *audit.Service, notifier *notifications.Service) *Handler {
	return &Handler{Service: svc, Audit: auditSvc, Notifier: notifier}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireCapability(auth.CapOnboardingReview)).Post("/onboarding/submissions", h.handleCreate)
	r.With(middleware.RequireCapability(auth.CapOnboardingRead)).Get("/onboarding/submissions", h.handleList)
	r.With(middleware.RequireCapability(auth.CapOnboardingRead)).Get("/onboarding/submissions/{submissionID}", h.handleGet)
	r.With(middleware.RequireCapability(auth.CapOnboardingWrite)).Post("/onboarding/steps/{stepID}/submit", h.handleSubmitStep)
	r.With(middleware.RequireCapability(auth.CapOnboardingReview)).Post("/onboarding/steps/{stepID}/review", h.handleReviewStep)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload struct {
		EmployeeID string   `json:"employeeId"`
		StepTitles []string `json:"stepTitles"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employee id is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	sub, err := h.Service.CreateSubmission(r.Context(), payload.EmployeeID, payload.StepTitles)
	if errors.Is(err, onboarding.ErrAlreadyExists) {
		api.Fail(w, http.StatusConflict, "already_exists", "employee already has an onboarding submission", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		h.writeError(w, r, err, "onboarding_create_failed", "failed to create submission")
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "onboarding.create", "onboarding_submission", sub.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit onboarding.create failed", "err", err)
	}
	api.Created(w, sub, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	subs, err := h.Service.ListSubmissions(r.Context(), user, r.URL.Query().Get("status"), page.Limit, page.Offset)
	if err != nil {
		h.writeError(w, r, err, "onboarding_list_failed", "failed to list submissions")
		return
	}
	api.Success(w, subs, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	sub, err := h.Service.GetSubmission(r.Context(), user, chi.URLParam(r, "submissionID"))
	if err != nil {
		h.writeError(w, r, err, "onboarding_get_failed", "failed to load submission")
		return
	}
	api.Success(w, sub, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSubmitStep(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	stepID := chi.URLParam(r, "stepID")

	var payload struct {
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	step, err := h.Service.SubmitStep(r.Context(), user, stepID, string(payload.Payload))
	if err != nil {
		h.writeError(w, r, err, "onboarding_submit_failed", "failed to submit step")
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "onboarding.submit", "onboarding_step", stepID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]string{"status": string(step.Status)}); err != nil {
		slog.Warn("audit onboarding.submit failed", "err", err)
	}
	api.Success(w, step, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReviewStep(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	stepID := chi.URLParam(r, "stepID")

	var payload struct {
		Approve bool   `json:"approve"`
		Note    string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	step, err := h.Service.ReviewStep(r.Context(), user, stepID, payload.Approve, payload.Note)
	if err != nil {
		h.writeError(w, r, err, "onboarding_review_failed", "failed to review step")
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "onboarding.review", "onboarding_step", stepID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit onboarding.review failed", "err", err)
	}
	if sub, err := h.Service.Store.GetSubmission(r.Context(), step.SubmissionID); err == nil {
		if err := h.Notifier.NotifyEmployee(r.Context(), sub.EmployeeID, notifications.TypeStepReviewed,
			"Onboarding step reviewed", "Step \""+step.Title+"\" is now "+string(step.Status)+"."); err != nil {
			slog.Warn("notify onboarding.review failed", "err", err)
		}
	}
	api.Success(w, step, middleware.GetRequestID(r.Context()))
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, onboarding.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "onboarding record not found", requestID)
	case errors.Is(err, onboarding.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed for this submission", requestID)
	case errors.Is(err, onboarding.ErrStepApproved):
		api.Fail(w, http.StatusConflict, "step_approved", "approved steps cannot be edited", requestID)
	case errors.Is(err, workflow.ErrInvalidTransition):
		api.Fail(w, http.StatusBadRequest, "invalid_transition", "transition not allowed from the current status", requestID)
	case errors.Is(err, workflow.ErrVersionConflict):
		api.Fail(w, http.StatusConflict, "version_conflict", "step changed concurrently, reload and retry", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}
