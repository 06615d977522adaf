package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/event"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/clock"
	"github.com/cmlabs-hris/shift-planner-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEventService() (event.EventService, *clock.Manual) {
	clk := clock.NewManual(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC))
	return NewEventService(memory.NewEventRepository(), clk), clk
}

func TestCreateEvent(t *testing.T) {
	svc, clk := newEventService()

	e, err := svc.CreateEvent(context.Background(), event.CreateEventRequest{
		Title:     "Inventory",
		StartDate: "2024-03-05",
		StartTime: ptr("10:00"),
		EndTime:   ptr("12:00"),
		Type:      "maintenance",
		Attendees: []string{"E1", "E2", "E1"},
		CreatedBy: "manager-1",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, e.StartDate, e.EndDate, "a missing end date defaults to the start date")
	assert.Equal(t, event.TypeMaintenance, e.Type)
	assert.Equal(t, event.PriorityNormal, e.Priority)
	assert.Equal(t, []string{"E1", "E2"}, e.Attendees)
	assert.Equal(t, clk.Now(), e.CreatedAt)
	require.NotNil(t, e.StartTime)
	assert.Equal(t, "10:00", e.StartTime.String())
}

func TestCreateEvent_Validation(t *testing.T) {
	svc, _ := newEventService()

	tests := []struct {
		name string
		req  event.CreateEventRequest
	}{
		{"missing title", event.CreateEventRequest{StartDate: "2024-03-05"}},
		{"end before start", event.CreateEventRequest{Title: "x", StartDate: "2024-03-05", EndDate: "2024-03-04"}},
		{"end time before start time", event.CreateEventRequest{Title: "x", StartDate: "2024-03-05", StartTime: ptr("12:00"), EndTime: ptr("10:00")}},
		{"unknown type", event.CreateEventRequest{Title: "x", StartDate: "2024-03-05", Type: "party"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateEvent(context.Background(), tt.req)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}
}

func TestUpdateEvent(t *testing.T) {
	svc, clk := newEventService()
	ctx := context.Background()

	e, err := svc.CreateEvent(ctx, event.CreateEventRequest{
		Title:     "Team meeting",
		StartDate: "2024-03-05",
		StartTime: ptr("10:00"),
		EndTime:   ptr("11:00"),
	})
	require.NoError(t, err)

	clk.Advance(time.Hour)
	updated, err := svc.UpdateEvent(ctx, e.ID, event.UpdateEventRequest{
		AllDay:     ptr(true),
		EndDate:    ptr("2024-03-06"),
		ModifiedBy: "manager-1",
	})
	require.NoError(t, err)

	assert.True(t, updated.AllDay)
	assert.Nil(t, updated.StartTime)
	assert.Nil(t, updated.EndTime)
	assert.Equal(t, clock.MustParseDate("2024-03-06"), updated.EndDate)
	require.NotNil(t, updated.ModifiedBy)
	assert.Equal(t, "manager-1", *updated.ModifiedBy)

	_, err = svc.UpdateEvent(ctx, e.ID, event.UpdateEventRequest{EndDate: ptr("2024-03-01")})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.UpdateEvent(ctx, "missing", event.UpdateEventRequest{Title: ptr("x")})
	assert.ErrorIs(t, err, event.ErrEventNotFound)
}

func TestListEvents(t *testing.T) {
	svc, _ := newEventService()
	ctx := context.Background()

	for _, req := range []event.CreateEventRequest{
		{Title: "Before", StartDate: "2024-02-26", EndDate: "2024-03-03", AllDay: true},
		{Title: "Inside", StartDate: "2024-03-05", AllDay: true, Attendees: []string{"E1"}},
		{Title: "After", StartDate: "2024-03-20", AllDay: true},
	} {
		_, err := svc.CreateEvent(ctx, req)
		require.NoError(t, err)
	}

	week, err := svc.ListEvents(ctx, event.Filter{
		StartDate: clock.MustParseDate("2024-03-03"),
		EndDate:   clock.MustParseDate("2024-03-09"),
	})
	require.NoError(t, err)
	require.Len(t, week, 2)
	assert.Equal(t, "Before", week[0].Title)
	assert.Equal(t, "Inside", week[1].Title)

	mine, err := svc.ListEvents(ctx, event.Filter{Attendee: ptr("E1")})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Inside", mine[0].Title)
}

func TestDeleteEvent(t *testing.T) {
	svc, _ := newEventService()
	ctx := context.Background()

	e, err := svc.CreateEvent(ctx, event.CreateEventRequest{Title: "Audit", StartDate: "2024-03-05", AllDay: true})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEvent(ctx, e.ID))
	_, err = svc.GetEvent(ctx, e.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteEvent(ctx, e.ID), apperror.ErrNotFound)
}
