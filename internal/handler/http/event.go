package http

import (
	"net/http"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/event"
	"github.com/cmlabs-hris/shift-planner-go/internal/handler/http/response"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type EventHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type eventHandlerImpl struct {
	eventService event.EventService
}

func NewEventHandler(eventService event.EventService) EventHandler {
	return &eventHandlerImpl{
		eventService: eventService,
	}
}

// List implements EventHandler.
func (h *eventHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	var errs validator.ValidationErrors
	dates := queryDates(r, &errs, "start_date", "end_date")

	filter := event.Filter{
		StartDate: dates[0],
		EndDate:   dates[1],
		Attendee:  queryString(r, "attendee"),
	}
	if t := queryString(r, "type"); t != nil {
		if !validator.IsInSlice(*t, event.TypeValues) {
			errs.Add("type", "type must be one of meeting, training, maintenance, holiday, other")
		}
		typ := event.Type(*t)
		filter.Type = &typ
	}
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	events, err := h.eventService.ListEvents(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, events)
}

// Get implements EventHandler.
func (h *eventHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.eventService.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, e)
}

// Create implements EventHandler.
func (h *eventHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req event.CreateEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.CreatedBy = p.EmployeeID

	e, err := h.eventService.CreateEvent(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Event created successfully", e)
}

// Update implements EventHandler.
func (h *eventHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req event.UpdateEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ModifiedBy = p.EmployeeID

	e, err := h.eventService.UpdateEvent(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Event updated successfully", e)
}

// Delete implements EventHandler.
func (h *eventHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.eventService.DeleteEvent(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Event deleted successfully", nil)
}
