package http

import (
	"net/http"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/timeclock"
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/user"
	"github.com/cmlabs-hris/shift-planner-go/internal/handler/http/response"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type TimeClockHandler interface {
	// Clock actions of the authenticated employee
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	Training(w http.ResponseWriter, r *http.Request)
	StartBreak(w http.ResponseWriter, r *http.Request)
	EndBreak(w http.ResponseWriter, r *http.Request)
	Current(w http.ResponseWriter, r *http.Request)

	// Reporting
	Entries(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)

	// Administration
	CorrectSession(w http.ResponseWriter, r *http.Request)
}

type timeClockHandlerImpl struct {
	timeClockService timeclock.TimeClockService
}

func NewTimeClockHandler(timeClockService timeclock.TimeClockService) TimeClockHandler {
	return &timeClockHandlerImpl{
		timeClockService: timeClockService,
	}
}

// ClockIn implements TimeClockHandler.
func (h *timeClockHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req timeclock.ClockInRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EmployeeID = p.EmployeeID

	s, err := h.timeClockService.ClockIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clocked in", s)
}

// ClockOut implements TimeClockHandler.
func (h *timeClockHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req timeclock.ClockOutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	s, err := h.timeClockService.ClockOut(r.Context(), p.EmployeeID, req.Comment)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clocked out", s)
}

// Training implements TimeClockHandler.
func (h *timeClockHandlerImpl) Training(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req timeclock.TrainingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	s, err := h.timeClockService.ClockTraining(r.Context(), p.EmployeeID, req.Comment)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Training day recorded", s)
}

// StartBreak implements TimeClockHandler.
func (h *timeClockHandlerImpl) StartBreak(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req timeclock.StartBreakRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	s, err := h.timeClockService.StartBreak(r.Context(), p.EmployeeID, req.Reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Break started", s)
}

// EndBreak implements TimeClockHandler.
func (h *timeClockHandlerImpl) EndBreak(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	s, err := h.timeClockService.EndBreak(r.Context(), p.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Break ended", s)
}

// Current implements TimeClockHandler.
func (h *timeClockHandlerImpl) Current(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	s, err := h.timeClockService.GetCurrentSession(r.Context(), p.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, s)
}

// Entries implements TimeClockHandler.
func (h *timeClockHandlerImpl) Entries(w http.ResponseWriter, r *http.Request) {
	entries, ok := h.entries(w, r)
	if !ok {
		return
	}

	response.Success(w, timeclock.TimeEntriesResponse{
		Entries: entries,
		Stats:   h.timeClockService.ComputeStats(entries),
	})
}

// Stats implements TimeClockHandler.
func (h *timeClockHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	entries, ok := h.entries(w, r)
	if !ok {
		return
	}

	response.Success(w, h.timeClockService.ComputeStats(entries))
}

func (h *timeClockHandlerImpl) entries(w http.ResponseWriter, r *http.Request) ([]timeclock.Session, bool) {
	p, ok := principal(w, r)
	if !ok {
		return nil, false
	}

	var errs validator.ValidationErrors
	dates := queryDates(r, &errs, "start_date", "end_date")
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return nil, false
	}

	filter := timeclock.Filter{StartDate: dates[0], EndDate: dates[1]}
	filter.EmployeeID, ok = scopeEmployee(w, p, queryString(r, "employee_id"), user.PermissionTimeClockViewAll)
	if !ok {
		return nil, false
	}

	entries, err := h.timeClockService.GetTimeEntries(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return nil, false
	}
	if entries == nil {
		entries = []timeclock.Session{}
	}
	return entries, true
}

// CorrectSession implements TimeClockHandler.
func (h *timeClockHandlerImpl) CorrectSession(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req timeclock.CorrectSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	s, err := h.timeClockService.CorrectSession(r.Context(), chi.URLParam(r, "id"), req, p.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Session corrected", s)
}
