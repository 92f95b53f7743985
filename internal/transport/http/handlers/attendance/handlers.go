package attendancehandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrmflow/internal/domain/attendance"
	"hrmflow/internal/domain/auth"
	"hrmflow/internal/domain/payroll"
	"hrmflow/internal/transport/http/api"
	"hrmflow/internal/transport/http/middleware"
	"hrmflow/internal/transport/http/shared"
)

type Handler struct {
	Store *attendance.Store
}

func NewHandler(store *attendance.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireCapability(auth.CapAttendanceWrite)).Post("/attendance/clock-in", h.handleClockIn)
	r.With(middleware.RequireCapability(auth.CapAttendanceWrite)).Post("/attendance/clock-out", h.handleClockOut)
	r.With(middleware.RequireCapability(auth.CapAttendanceRead)).Get("/attendance", h.handleList)
	r.With(middleware.RequireCapability(auth.CapAttendanceRead)).Get("/attendance/summary", h.handleSummary)
}

func (h *Handler) handleClockIn(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	if user.EmployeeID == "" {
		api.Fail(w, http.StatusForbidden, "forbidden", "no employee record for this account", middleware.GetRequestID(r.Context()))
		return
	}
	entry, err := h.Store.ClockIn(r.Context(), user.EmployeeID)
	if errors.Is(err, attendance.ErrAlreadyClockedIn) {
		api.Fail(w, http.StatusConflict, "already_clocked_in", "an open attendance entry already exists", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "clock_in_failed", "failed to clock in", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, entry, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleClockOut(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	if user.EmployeeID == "" {
		api.Fail(w, http.StatusForbidden, "forbidden", "no employee record for this account", middleware.GetRequestID(r.Context()))
		return
	}
	entry, err := h.Store.ClockOut(r.Context(), user.EmployeeID)
	if errors.Is(err, attendance.ErrNotClockedIn) {
		api.Fail(w, http.StatusConflict, "not_clocked_in", "no open attendance entry to close", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "clock_out_failed", "failed to clock out", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, entry, middleware.GetRequestID(r.Context()))
}

// targetEmployee resolves which employee's attendance is being read. Employees
// see only themselves; managers and admins may pass employeeId.
func targetEmployee(r *http.Request, user auth.UserContext) (string, bool) {
	requested := r.URL.Query().Get("employeeId")
	if requested == "" || requested == user.EmployeeID {
		return user.EmployeeID, user.EmployeeID != ""
	}
	if !user.IsManagerOrAdmin() {
		return "", false
	}
	return requested, true
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	employeeID, ok := targetEmployee(r, user)
	if !ok {
		api.Fail(w, http.StatusForbidden, "forbidden", "own attendance only", middleware.GetRequestID(r.Context()))
		return
	}
	page := shared.ParsePagination(r, 50, 200)
	entries, err := h.Store.List(r.Context(), employeeID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_list_failed", "failed to list attendance entries", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, entries, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	employeeID, ok := targetEmployee(r, user)
	if !ok {
		api.Fail(w, http.StatusForbidden, "forbidden", "own attendance only", middleware.GetRequestID(r.Context()))
		return
	}
	period := r.URL.Query().Get("period")
	if !payroll.ValidPeriod(period) {
		api.Fail(w, http.StatusBadRequest, "invalid_period", "period must be in YYYY-MM format", middleware.GetRequestID(r.Context()))
		return
	}
	summary, err := h.Store.Summarize(r.Context(), employeeID, period)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_summary_failed", "failed to summarize attendance", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}
