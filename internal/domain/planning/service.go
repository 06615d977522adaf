package planning

import (
	"context"

	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/clock"
)

type PlanningService interface {
	GetWeekView(ctx context.Context, anyDate clock.Date) (WeekView, error)
	GetPlanningStats(ctx context.Context, start, end clock.Date) (PlanningStats, error)
}
