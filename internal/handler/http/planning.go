package http

import (
	"net/http"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/planning"
	"github.com/cmlabs-hris/shift-planner-go/internal/handler/http/response"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/clock"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/validator"
)

type PlanningHandler interface {
	Week(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
}

type planningHandlerImpl struct {
	planningService planning.PlanningService
	clock           clock.Clock
}

func NewPlanningHandler(planningService planning.PlanningService, clk clock.Clock) PlanningHandler {
	return &planningHandlerImpl{
		planningService: planningService,
		clock:           clk,
	}
}

// Week implements PlanningHandler. Without a date it shows the current week.
func (h *planningHandlerImpl) Week(w http.ResponseWriter, r *http.Request) {
	var errs validator.ValidationErrors
	date := queryDates(r, &errs, "date")[0]
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}
	if date.IsZero() {
		date = clock.Today(h.clock)
	}

	view, err := h.planningService.GetWeekView(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, view)
}

// Stats implements PlanningHandler.
func (h *planningHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	var errs validator.ValidationErrors
	dates := queryDates(r, &errs, "start_date", "end_date")
	if dates[0].IsZero() && r.URL.Query().Get("start_date") == "" {
		errs.Add("start_date", "start_date is required")
	}
	if dates[1].IsZero() && r.URL.Query().Get("end_date") == "" {
		errs.Add("end_date", "end_date is required")
	}
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	stats, err := h.planningService.GetPlanningStats(r.Context(), dates[0], dates[1])
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}
