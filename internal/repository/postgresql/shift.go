package postgresql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const shiftColumns = `id, employee_id, date, start_time, end_time, break_minutes, position, status,
	total_hours, notes, source_shift_id, created_by, created_at, modified_by, modified_at`

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}

// WithPlacementLock implements shift.ShiftRepository. Each key takes a transaction-scoped
// advisory lock, so API replicas sharing the database serialize on the same
// employee and day. The locks are released on commit or rollback.
func (r *shiftRepositoryImpl) WithPlacementLock(ctx context.Context, keys []string, fn func(ctx context.Context) error) error {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)

	return WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		for _, key := range sorted {
			if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
				return fmt.Errorf("lock placement %s: %w", key, err)
			}
		}
		return fn(ctx)
	})
}

// Create implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	s.ID = newID()
	query := `
		INSERT INTO shifts (` + shiftColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := q.Exec(ctx, query,
		s.ID, s.EmployeeID, dateArg(s.Date), timeArg(s.StartTime), timeArg(s.EndTime), s.BreakMinutes, s.Position, s.Status,
		s.TotalHours, s.Notes, s.SourceShiftID, s.CreatedBy, s.CreatedAt, s.ModifiedBy, s.ModifiedAt,
	)
	if err != nil {
		return shift.Shift{}, fmt.Errorf("insert shift: %w", err)
	}
	return s, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1`
	s, err := scanShift(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, err
	}
	return s, nil
}

// Update implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Update(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shifts SET
			employee_id = $2, date = $3, start_time = $4, end_time = $5, break_minutes = $6,
			position = $7, status = $8, total_hours = $9, notes = $10,
			modified_by = $11, modified_at = $12
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query,
		s.ID, s.EmployeeID, dateArg(s.Date), timeArg(s.StartTime), timeArg(s.EndTime), s.BreakMinutes,
		s.Position, s.Status, s.TotalHours, s.Notes,
		s.ModifiedBy, s.ModifiedAt,
	)
	if err != nil {
		return shift.Shift{}, fmt.Errorf("update shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return s, nil
}

// Delete implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM shifts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}

// List implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) List(ctx context.Context, filter shift.Filter) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIdx := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if len(filter.EmployeeIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("employee_id = ANY($%d)", argIdx))
		args = append(args, filter.EmployeeIDs)
		argIdx++
	}
	if filter.Date != nil {
		conditions = append(conditions, fmt.Sprintf("date = $%d", argIdx))
		args = append(args, dateArg(*filter.Date))
		argIdx++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", argIdx))
		args = append(args, dateArg(*filter.StartDate))
		argIdx++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", argIdx))
		args = append(args, dateArg(*filter.EndDate))
		argIdx++
	}
	if len(filter.Statuses) > 0 {
		conditions = append(conditions, fmt.Sprintf("status = ANY($%d)", argIdx))
		args = append(args, toStrings(filter.Statuses))
	}

	query := `SELECT ` + shiftColumns + ` FROM shifts`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date, start_time, id"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	defer rows.Close()

	shifts := make([]shift.Shift, 0)
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

func scanShift(row pgx.Row) (shift.Shift, error) {
	var s shift.Shift
	var date pgtype.Date
	var start, end pgtype.Time
	err := row.Scan(
		&s.ID, &s.EmployeeID, &date, &start, &end, &s.BreakMinutes, &s.Position, &s.Status,
		&s.TotalHours, &s.Notes, &s.SourceShiftID, &s.CreatedBy, &s.CreatedAt, &s.ModifiedBy, &s.ModifiedAt,
	)
	if err != nil {
		return shift.Shift{}, err
	}
	s.Date = dateValue(date)
	s.StartTime = timeValue(start)
	s.EndTime = timeValue(end)
	return s, nil
}
