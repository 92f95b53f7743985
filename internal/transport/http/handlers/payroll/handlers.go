package payrollhandler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrmflow/internal/domain/audit"
	"hrmflow/internal/domain/auth"
	"hrmflow/internal/domain/notifications"
	"hrmflow/internal/domain/payroll"
	"hrmflow/internal/domain/workflow"
	"hrmflow/internal/transport/http/api"
	"hrmflow/internal/transport/http/middleware"
	"hrmflow/internal/transport/http/shared"
)

type Handler struct {
	Service     *payroll.Service
	Audit       *audit.Service
	Notifier    *notifications.Service
	Idempotency *middleware.IdempotencyStore
}

func NewHandler(svc *payroll.Service, auditSvc *audit.Service, notifier *notifications.Service, idem *middleware.IdempotencyStore) *Handler {
	return &Handler{Service: svc, Audit: auditSvc, Notifier: notifier, Idempotency: idem}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireCapability(auth.CapPayrollApprove)).Post("/payroll/records", h.handleCreateRecord)
	r.With(middleware.RequireCapability(auth.CapPayrollRead)).Get("/payroll/records", h.handleListRecords)
	r.With(middleware.RequireCapability(auth.CapPayrollRead)).Get("/payroll/records/{recordID}", h.handleGetRecord)
	r.With(middleware.RequireCapability(auth.CapPayrollApprove)).Post("/payroll/records/{recordID}/status", h.handleTransitionRecord)
	r.With(middleware.RequireCapability(auth.CapPayrollRead)).Get("/payroll/records/{recordID}/payslip", h.handlePayslip)

	r.With(middleware.RequireCapability(auth.CapPayrollWrite)).Post("/payroll/variable-pay", h.handleCreateVariablePay)
	r.With(middleware.RequireCapability(auth.CapPayrollRead)).Get("/payroll/variable-pay", h.handleListVariablePay)
	r.With(middleware.RequireCapability(auth.CapPayrollApprove)).Post("/payroll/variable-pay/{entryID}/review", h.handleReviewVariablePay)

	r.With(middleware.RequireCapability(auth.CapPayrollWrite)).Post("/payroll/corrections", h.handleCreateCorrection)
	r.With(middleware.RequireCapability(auth.CapPayrollRead)).Get("/payroll/corrections", h.handleListCorrections)
	r.With(middleware.RequireCapability(auth.CapPayrollApprove)).Post("/payroll/corrections/{correctionID}/review", h.handleReviewCorrection)
}

func (h *Handler) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var in payroll.RecordInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("employeeId", in.EmployeeID, "employee id is required")
	v.Required("period", in.Period, "period is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	record, err := h.Service.CreateRecord(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err, "payroll_create_failed", "failed to create payroll record")
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.create", "payroll_record", record.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, in); err != nil {
		slog.Warn("audit payroll.create failed", "err", err)
	}
	api.Created(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	records, err := h.Service.ListRecords(r.Context(), user, r.URL.Query().Get("period"), page.Limit, page.Offset)
	if err != nil {
		h.writeError(w, r, err, "payroll_list_failed", "failed to list payroll records")
		return
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	record, err := h.Service.GetRecord(r.Context(), user, chi.URLParam(r, "recordID"))
	if err != nil {
		h.writeError(w, r, err, "payroll_get_failed", "failed to load payroll record")
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

// handleTransitionRecord honors Idempotency-Key so a retried PAID move does
// not double-apply after a network timeout.
func (h *Handler) handleTransitionRecord(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	recordID := chi.URLParam(r, "recordID")
	requestID := middleware.GetRequestID(r.Context())

	body, err := io.ReadAll(r.Body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	v := shared.NewValidator()
	v.Required("status", payload.Status, "status is required")
	if v.Reject(w, requestID) {
		return
	}

	endpoint := "payroll.records.status:" + recordID
	idemKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	hash := middleware.RequestHash(body)
	if idemKey != "" {
		stored, found, err := h.Idempotency.Check(r.Context(), user.UserID, endpoint, idemKey, hash)
		if errors.Is(err, middleware.ErrIdempotencyConflict) {
			api.Fail(w, http.StatusConflict, "idempotency_conflict", "idempotency key reused with a different payload", requestID)
			return
		}
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "idempotency_check_failed", "failed to check idempotency key", requestID)
			return
		}
		if found {
			var record payroll.Record
			if err := json.Unmarshal(stored, &record); err == nil {
				api.Success(w, record, requestID)
				return
			}
		}
	}

	record, err := h.Service.TransitionRecord(r.Context(), user, recordID, workflow.Status(payload.Status))
	if err != nil {
		h.writeError(w, r, err, "payroll_transition_failed", "failed to transition payroll record")
		return
	}
	if idemKey != "" {
		if stored, err := json.Marshal(record); err == nil {
			if err := h.Idempotency.Save(r.Context(), user.UserID, endpoint, idemKey, hash, stored); err != nil {
				slog.Warn("idempotency save failed", "err", err)
			}
		}
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.status", "payroll_record", recordID, requestID, shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit payroll.status failed", "err", err)
	}
	api.Success(w, record, requestID)
}

// handlePayslip renders the frozen breakdown as a structured document. PDF
// output is intentionally out of scope; clients render from this JSON.
func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	record, err := h.Service.GetRecord(r.Context(), user, chi.URLParam(r, "recordID"))
	if err != nil {
		h.writeError(w, r, err, "payslip_failed", "failed to load payslip")
		return
	}
	payslip := map[string]any{
		"recordId":   record.ID,
		"employeeId": record.EmployeeID,
		"period":     record.Period,
		"status":     record.Status,
		"earnings": map[string]int64{
			"baseSalaryCents":  record.Breakdown.BaseSalaryCents,
			"hraCents":         record.Breakdown.HRACents,
			"variablePayCents": record.Breakdown.VariablePayCents,
			"overtimeCents":    record.Breakdown.OvertimeCents,
			"bonusCents":       record.Breakdown.BonusCents,
			"allowancesCents":  record.Breakdown.AllowancesCents,
			"totalCents":       record.Breakdown.TotalEarningsCents,
		},
		"deductions": map[string]int64{
			"pfCents":             record.Breakdown.PFCents,
			"esiCents":            record.Breakdown.ESICents,
			"taxCents":            record.Breakdown.TaxCents,
			"insuranceCents":      record.Breakdown.InsuranceCents,
			"leaveDeductionCents": record.Breakdown.LeaveDeductionCents,
			"otherDeductionCents": record.Breakdown.OtherDeductionCents,
			"totalCents":          record.Breakdown.TotalDeductionsCents,
		},
		"netSalaryCents": record.Breakdown.NetSalaryCents,
	}
	api.Success(w, payslip, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateVariablePay(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload struct {
		EmployeeID  string `json:"employeeId"`
		Period      string `json:"period"`
		AmountCents int64  `json:"amountCents"`
		Reason      string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employee id is required")
	v.Required("period", payload.Period, "period is required")
	v.Required("reason", payload.Reason, "reason is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Service.CreateVariablePay(r.Context(), user, payload.EmployeeID, payload.Period, payload.AmountCents, payload.Reason)
	if err != nil {
		h.writeError(w, r, err, "variable_pay_create_failed", "failed to create variable pay entry")
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "variable_pay.create", "variable_pay_entry", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit variable_pay.create failed", "err", err)
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListVariablePay(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	entries, err := h.Service.ListVariablePay(r.Context(), user, r.URL.Query().Get("period"), r.URL.Query().Get("status"), page.Limit, page.Offset)
	if err != nil {
		h.writeError(w, r, err, "variable_pay_list_failed", "failed to list variable pay entries")
		return
	}
	api.Success(w, entries, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReviewVariablePay(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	entryID := chi.URLParam(r, "entryID")

	var payload struct {
		Approve bool `json:"approve"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	entry, err := h.Service.ReviewVariablePay(r.Context(), user, entryID, payload.Approve)
	if err != nil {
		h.writeError(w, r, err, "variable_pay_review_failed", "failed to review variable pay entry")
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "variable_pay.review", "variable_pay_entry", entryID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit variable_pay.review failed", "err", err)
	}
	if err := h.Notifier.NotifyEmployee(r.Context(), entry.EmployeeID, notifications.TypeVariablePayReview,
		"Variable pay reviewed", "Your variable pay entry for "+entry.Period+" is now "+string(entry.Status)+"."); err != nil {
		slog.Warn("notify variable_pay.review failed", "err", err)
	}
	api.Success(w, entry, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateCorrection(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload struct {
		RecordID    string `json:"recordId"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("recordId", payload.RecordID, "record id is required")
	v.Required("description", payload.Description, "description is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Service.CreateCorrection(r.Context(), user, payload.RecordID, payload.Description)
	if err != nil {
		h.writeError(w, r, err, "correction_create_failed", "failed to create correction request")
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "correction.create", "payroll_correction", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit correction.create failed", "err", err)
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListCorrections(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	corrections, err := h.Service.ListCorrections(r.Context(), user, r.URL.Query().Get("status"), page.Limit, page.Offset)
	if err != nil {
		h.writeError(w, r, err, "corrections_list_failed", "failed to list correction requests")
		return
	}
	api.Success(w, corrections, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReviewCorrection(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	correctionID := chi.URLParam(r, "correctionID")

	var payload struct {
		Status     string `json:"status"`
		Resolution string `json:"resolution"`
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

	correction, err := h.Service.ReviewCorrection(r.Context(), user, correctionID, workflow.Status(payload.Status), payload.Resolution)
	if err != nil {
		h.writeError(w, r, err, "correction_review_failed", "failed to review correction request")
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "correction.review", "payroll_correction", correctionID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit correction.review failed", "err", err)
	}
	if err := h.Notifier.NotifyEmployee(r.Context(), correction.EmployeeID, notifications.TypeCorrectionReviewed,
		"Payroll correction reviewed", "Your correction request is now "+string(correction.Status)+"."); err != nil {
		slog.Warn("notify correction.review failed", "err", err)
	}
	api.Success(w, correction, middleware.GetRequestID(r.Context()))
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, payroll.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "payroll record not found", requestID)
	case errors.Is(err, payroll.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed for this record", requestID)
	case errors.Is(err, payroll.ErrDuplicate):
		api.Fail(w, http.StatusConflict, "duplicate_period", "a payroll record already exists for this employee and period", requestID)
	case errors.Is(err, payroll.ErrInvalidPeriod):
		api.Fail(w, http.StatusBadRequest, "invalid_period", "period must be in YYYY-MM format", requestID)
	case errors.Is(err, payroll.ErrInvalidSalary):
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_salary", "base salary must be positive", requestID)
	case errors.Is(err, payroll.ErrInvalidAmount):
		api.Fail(w, http.StatusBadRequest, "invalid_amount", "amount must be positive", requestID)
	case errors.Is(err, payroll.ErrEmptyReason):
		api.Fail(w, http.StatusBadRequest, "empty_reason", "a reason is required", requestID)
	case errors.Is(err, workflow.ErrInvalidTransition):
		api.Fail(w, http.StatusBadRequest, "invalid_transition", "transition not allowed from the current status", requestID)
	case errors.Is(err, workflow.ErrVersionConflict):
		api.Fail(w, http.StatusConflict, "version_conflict", "record changed concurrently, reload and retry", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}
