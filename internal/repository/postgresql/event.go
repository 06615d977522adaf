package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/event"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const eventColumns = `id, title, description, start_date, end_date, all_day, start_time, end_time,
	type, priority, attendees, created_by, created_at, modified_by, modified_at`

type eventRepositoryImpl struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) event.EventRepository {
	return &eventRepositoryImpl{db: db}
}

// Create implements event.EventRepository.
func (r *eventRepositoryImpl) Create(ctx context.Context, e event.Event) (event.Event, error) {
	q := GetQuerier(ctx, r.db)

	e.ID = newID()
	if e.Attendees == nil {
		e.Attendees = []string{}
	}
	query := `
		INSERT INTO events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := q.Exec(ctx, query,
		e.ID, e.Title, e.Description, dateArg(e.StartDate), dateArg(e.EndDate), e.AllDay,
		optionalTimeArg(e.StartTime), optionalTimeArg(e.EndTime),
		e.Type, e.Priority, e.Attendees, e.CreatedBy, e.CreatedAt, e.ModifiedBy, e.ModifiedAt,
	)
	if err != nil {
		return event.Event{}, fmt.Errorf("insert event: %w", err)
	}
	return e, nil
}

// GetByID implements event.EventRepository.
func (r *eventRepositoryImpl) GetByID(ctx context.Context, id string) (event.Event, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanEvent(q.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return event.Event{}, event.ErrEventNotFound
		}
		return event.Event{}, err
	}
	return e, nil
}

// Update implements event.EventRepository.
func (r *eventRepositoryImpl) Update(ctx context.Context, e event.Event) (event.Event, error) {
	q := GetQuerier(ctx, r.db)

	if e.Attendees == nil {
		e.Attendees = []string{}
	}
	query := `
		UPDATE events SET
			title = $2, description = $3, start_date = $4, end_date = $5, all_day = $6,
			start_time = $7, end_time = $8, type = $9, priority = $10, attendees = $11,
			modified_by = $12, modified_at = $13
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query,
		e.ID, e.Title, e.Description, dateArg(e.StartDate), dateArg(e.EndDate), e.AllDay,
		optionalTimeArg(e.StartTime), optionalTimeArg(e.EndTime), e.Type, e.Priority, e.Attendees,
		e.ModifiedBy, e.ModifiedAt,
	)
	if err != nil {
		return event.Event{}, fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return event.Event{}, event.ErrEventNotFound
	}
	return e, nil
}

// Delete implements event.EventRepository.
func (r *eventRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return event.ErrEventNotFound
	}
	return nil
}

// List implements event.EventRepository.
func (r *eventRepositoryImpl) List(ctx context.Context, filter event.Filter) ([]event.Event, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIdx := 1

	if !filter.StartDate.IsZero() {
		conditions = append(conditions, fmt.Sprintf("end_date >= $%d", argIdx))
		args = append(args, dateArg(filter.StartDate))
		argIdx++
	}
	if !filter.EndDate.IsZero() {
		conditions = append(conditions, fmt.Sprintf("start_date <= $%d", argIdx))
		args = append(args, dateArg(filter.EndDate))
		argIdx++
	}
	if filter.Attendee != nil {
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(attendees)", argIdx))
		args = append(args, *filter.Attendee)
		argIdx++
	}
	if filter.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argIdx))
		args = append(args, string(*filter.Type))
	}

	query := `SELECT ` + eventColumns + ` FROM events`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY start_date, start_time NULLS FIRST, id"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := make([]event.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func scanEvent(row pgx.Row) (event.Event, error) {
	var e event.Event
	var start, end pgtype.Date
	var startTime, endTime pgtype.Time
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &start, &end, &e.AllDay, &startTime, &endTime,
		&e.Type, &e.Priority, &e.Attendees, &e.CreatedBy, &e.CreatedAt, &e.ModifiedBy, &e.ModifiedAt,
	)
	if err != nil {
		return event.Event{}, err
	}
	e.StartDate = dateValue(start)
	e.EndDate = dateValue(end)
	e.StartTime = optionalTimeValue(startTime)
	e.EndTime = optionalTimeValue(endTime)
	return e, nil
}
