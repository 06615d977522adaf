package planning

import (
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/absence"
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/event"
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/clock"
)

// DayView holds everything planned on one calendar day.
type DayView struct {
	Date     clock.Date        `json:"date"`
	Weekday  string            `json:"weekday"`
	Shifts   []shift.Shift     `json:"shifts"`
	Events   []event.Event     `json:"events"`
	Absences []absence.Absence `json:"absences"`
}

// WeekView is the Monday to Sunday projection of a week.
type WeekView struct {
	WeekStart clock.Date `json:"week_start"`
	WeekEnd   clock.Date `json:"week_end"`
	Days      []DayView  `json:"days"`
}

type PlanningStats struct {
	StartDate       clock.Date         `json:"start_date"`
	EndDate         clock.Date         `json:"end_date"`
	TotalShifts     int                `json:"total_shifts"`
	TotalHours      float64            `json:"total_hours"`
	HoursByEmployee map[string]float64 `json:"hours_by_employee"`
	HoursByPosition map[string]float64 `json:"hours_by_position"`
}

// UnassignedPosition keys hours of shifts without a position.
const UnassignedPosition = "unassigned"
