package http

import (
	"net/http"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-planner-go/internal/handler/http/response"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type ShiftHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Duplicate(w http.ResponseWriter, r *http.Request)
	CheckConflicts(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	shiftService shift.ShiftService
}

func NewShiftHandler(shiftService shift.ShiftService) ShiftHandler {
	return &shiftHandlerImpl{
		shiftService: shiftService,
	}
}

// List implements ShiftHandler.
func (h *shiftHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	var errs validator.ValidationErrors
	dates := queryDates(r, &errs, "date", "start_date", "end_date")

	filter := shift.Filter{
		EmployeeID:  queryString(r, "employee_id"),
		EmployeeIDs: queryList(r, "employee_ids"),
	}
	if !dates[0].IsZero() {
		filter.Date = &dates[0]
	}
	if !dates[1].IsZero() {
		filter.StartDate = &dates[1]
	}
	if !dates[2].IsZero() {
		filter.EndDate = &dates[2]
	}
	for _, st := range queryList(r, "status") {
		if !validator.IsInSlice(st, shift.StatusValues) {
			errs.Add("status", "status is not a valid shift status")
			break
		}
		filter.Statuses = append(filter.Statuses, shift.Status(st))
	}
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	shifts, err := h.shiftService.GetShifts(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, shifts)
}

// Get implements ShiftHandler.
func (h *shiftHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.shiftService.GetShift(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, s)
}

// Create implements ShiftHandler.
func (h *shiftHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req shift.CreateShiftRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.CreatedBy = p.EmployeeID

	s, err := h.shiftService.CreateShift(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift created successfully", s)
}

// Update implements ShiftHandler.
func (h *shiftHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req shift.UpdateShiftRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ModifiedBy = p.EmployeeID

	s, err := h.shiftService.UpdateShift(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift updated successfully", s)
}

// Delete implements ShiftHandler.
func (h *shiftHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.shiftService.DeleteShift(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift deleted successfully", nil)
}

// Duplicate implements ShiftHandler.
func (h *shiftHandlerImpl) Duplicate(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req shift.DuplicateShiftsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.CreatedBy = p.EmployeeID

	result, err := h.shiftService.DuplicateShifts(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Week duplicated", result)
}

// CheckConflicts implements ShiftHandler. It previews the conflicts a shift would
// raise without writing anything.
func (h *shiftHandlerImpl) CheckConflicts(w http.ResponseWriter, r *http.Request) {
	var req shift.CheckConflictsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	candidate := req.ToEntity()
	conflicts, err := h.shiftService.CheckConflicts(r.Context(), candidate, req.ExcludingShiftID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if conflicts == nil {
		conflicts = []shift.Conflict{}
	}

	response.Success(w, shift.CheckConflictsResponse{
		Conflicts:  conflicts,
		TotalHours: candidate.TotalHours,
	})
}
