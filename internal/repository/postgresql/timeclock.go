package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/timeclock"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const sessionColumns = `id, employee_id, date, clock_in, clock_out, breaks, is_remote, is_training, location,
	clock_in_comment, clock_out_comment, total_work_time, total_break_time, late_minutes, corrected_by, corrected_at`

type sessionRepositoryImpl struct {
	db *database.DB
}

// NewSessionRepository returns a session store whose partial unique index on open
// sessions backs the one-open-session rule.
func NewSessionRepository(db *database.DB) timeclock.SessionRepository {
	return &sessionRepositoryImpl{db: db}
}

// Create implements timeclock.SessionRepository.
func (r *sessionRepositoryImpl) Create(ctx context.Context, s timeclock.Session) (timeclock.Session, error) {
	q := GetQuerier(ctx, r.db)

	s.ID = newID()
	if s.Breaks == nil {
		s.Breaks = []timeclock.Break{}
	}
	query := `
		INSERT INTO timeclock_sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := q.Exec(ctx, query,
		s.ID, s.EmployeeID, dateArg(s.Date), s.ClockIn, s.ClockOut, s.Breaks, s.IsRemote, s.IsTraining, s.Location,
		s.ClockInComment, s.ClockOutComment, s.TotalWorkTime, s.TotalBreakTime, s.LateMinutes, s.CorrectedBy, s.CorrectedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return timeclock.Session{}, timeclock.ErrAlreadyClockedIn
		}
		return timeclock.Session{}, fmt.Errorf("insert session: %w", err)
	}
	return s, nil
}

// GetByID implements timeclock.SessionRepository.
func (r *sessionRepositoryImpl) GetByID(ctx context.Context, id string) (timeclock.Session, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanSession(q.QueryRow(ctx, `SELECT `+sessionColumns+` FROM timeclock_sessions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeclock.Session{}, timeclock.ErrSessionNotFound
		}
		return timeclock.Session{}, err
	}
	return s, nil
}

// GetOpen implements timeclock.SessionRepository.
func (r *sessionRepositoryImpl) GetOpen(ctx context.Context, employeeID string) (timeclock.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + sessionColumns + ` FROM timeclock_sessions WHERE employee_id = $1 AND clock_out IS NULL`
	s, err := scanSession(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeclock.Session{}, timeclock.ErrNotClockedIn
		}
		return timeclock.Session{}, err
	}
	return s, nil
}

// Update implements timeclock.SessionRepository.
func (r *sessionRepositoryImpl) Update(ctx context.Context, s timeclock.Session) (timeclock.Session, error) {
	q := GetQuerier(ctx, r.db)

	if s.Breaks == nil {
		s.Breaks = []timeclock.Break{}
	}
	query := `
		UPDATE timeclock_sessions SET
			date = $2, clock_in = $3, clock_out = $4, breaks = $5, is_remote = $6, location = $7,
			clock_in_comment = $8, clock_out_comment = $9, total_work_time = $10, total_break_time = $11,
			late_minutes = $12, corrected_by = $13, corrected_at = $14
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query,
		s.ID, dateArg(s.Date), s.ClockIn, s.ClockOut, s.Breaks, s.IsRemote, s.Location,
		s.ClockInComment, s.ClockOutComment, s.TotalWorkTime, s.TotalBreakTime,
		s.LateMinutes, s.CorrectedBy, s.CorrectedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return timeclock.Session{}, timeclock.ErrAlreadyClockedIn
		}
		return timeclock.Session{}, fmt.Errorf("update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timeclock.Session{}, timeclock.ErrSessionNotFound
	}
	return s, nil
}

// List implements timeclock.SessionRepository.
func (r *sessionRepositoryImpl) List(ctx context.Context, filter timeclock.Filter) ([]timeclock.Session, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIdx := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if !filter.StartDate.IsZero() {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", argIdx))
		args = append(args, dateArg(filter.StartDate))
		argIdx++
	}
	if !filter.EndDate.IsZero() {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", argIdx))
		args = append(args, dateArg(filter.EndDate))
		argIdx++
	}
	if filter.OpenOnly {
		conditions = append(conditions, "clock_out IS NULL")
	}
	if filter.ClockInBefore != nil {
		conditions = append(conditions, fmt.Sprintf("clock_in < $%d", argIdx))
		args = append(args, *filter.ClockInBefore)
	}

	query := `SELECT ` + sessionColumns + ` FROM timeclock_sessions`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY clock_in DESC, id"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]timeclock.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func scanSession(row pgx.Row) (timeclock.Session, error) {
	var s timeclock.Session
	var date pgtype.Date
	err := row.Scan(
		&s.ID, &s.EmployeeID, &date, &s.ClockIn, &s.ClockOut, &s.Breaks, &s.IsRemote, &s.IsTraining, &s.Location,
		&s.ClockInComment, &s.ClockOutComment, &s.TotalWorkTime, &s.TotalBreakTime, &s.LateMinutes, &s.CorrectedBy, &s.CorrectedAt,
	)
	if err != nil {
		return timeclock.Session{}, err
	}
	s.Date = dateValue(date)
	if s.Breaks == nil {
		s.Breaks = []timeclock.Break{}
	}
	return s, nil
}
