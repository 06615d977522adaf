package http

import (
	"net/http"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/absence"
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/user"
	"github.com/cmlabs-hris/shift-planner-go/internal/handler/http/response"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type AbsenceHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Request(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
	RetryCascade(w http.ResponseWriter, r *http.Request)
}

type absenceHandlerImpl struct {
	absenceService absence.AbsenceService
}

func NewAbsenceHandler(absenceService absence.AbsenceService) AbsenceHandler {
	return &absenceHandlerImpl{
		absenceService: absenceService,
	}
}

// List implements AbsenceHandler. Employees only see their own absences.
func (h *absenceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var errs validator.ValidationErrors
	dates := queryDates(r, &errs, "start_date", "end_date")
	filter := absence.Filter{
		StartDate: dates[0],
		EndDate:   dates[1],
	}
	for _, st := range queryList(r, "status") {
		if !validator.IsInSlice(st, absence.StatusValues) {
			errs.Add("status", "status must be one of pending, approved, rejected")
			break
		}
		filter.Statuses = append(filter.Statuses, absence.Status(st))
	}
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	filter.EmployeeID, ok = scopeEmployee(w, p, queryString(r, "employee_id"), user.PermissionAbsenceViewAll)
	if !ok {
		return
	}

	absences, err := h.absenceService.ListAbsences(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, absences)
}

// Get implements AbsenceHandler.
func (h *absenceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	a, err := h.absenceService.GetAbsence(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !user.HasPermission(p.Role, user.PermissionAbsenceViewAll) && a.EmployeeID != p.EmployeeID {
		response.HandleError(w, user.ErrOtherEmployee)
		return
	}

	response.Success(w, a)
}

// Request implements AbsenceHandler. Managers may file on behalf of an employee;
// everyone else files for themselves.
func (h *absenceHandlerImpl) Request(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req absence.RequestAbsenceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.EmployeeID == "" {
		req.EmployeeID = p.EmployeeID
	}
	if !p.CanActFor(req.EmployeeID) {
		response.HandleError(w, user.ErrOtherEmployee)
		return
	}
	req.RequestedBy = p.EmployeeID

	a, err := h.absenceService.RequestAbsence(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Absence requested successfully", a)
}

// Decide implements AbsenceHandler.
func (h *absenceHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req absence.DecideAbsenceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	a, err := h.absenceService.DecideAbsence(r.Context(), chi.URLParam(r, "id"), req, p.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absence "+string(a.Status), a)
}

// RetryCascade implements AbsenceHandler.
func (h *absenceHandlerImpl) RetryCascade(w http.ResponseWriter, r *http.Request) {
	if err := h.absenceService.RetryCascade(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overlapping shifts removed", nil)
}
