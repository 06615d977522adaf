package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/absence"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const absenceColumns = `id, employee_id, start_date, end_date, type, reason, status, total_days,
	requested_by, requested_at, approved_by, approved_at, decision_notes`

type absenceRepositoryImpl struct {
	db *database.DB
}

func NewAbsenceRepository(db *database.DB) absence.AbsenceRepository {
	return &absenceRepositoryImpl{db: db}
}

// Create implements absence.AbsenceRepository.
func (r *absenceRepositoryImpl) Create(ctx context.Context, a absence.Absence) (absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	a.ID = newID()
	query := `
		INSERT INTO absences (` + absenceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := q.Exec(ctx, query,
		a.ID, a.EmployeeID, dateArg(a.StartDate), dateArg(a.EndDate), a.Type, a.Reason, a.Status, a.TotalDays,
		a.RequestedBy, a.RequestedAt, a.ApprovedBy, a.ApprovedAt, a.DecisionNotes,
	)
	if err != nil {
		return absence.Absence{}, fmt.Errorf("insert absence: %w", err)
	}
	return a, nil
}

// GetByID implements absence.AbsenceRepository.
func (r *absenceRepositoryImpl) GetByID(ctx context.Context, id string) (absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAbsence(q.QueryRow(ctx, `SELECT `+absenceColumns+` FROM absences WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return absence.Absence{}, absence.ErrAbsenceNotFound
		}
		return absence.Absence{}, err
	}
	return a, nil
}

// Update implements absence.AbsenceRepository.
func (r *absenceRepositoryImpl) Update(ctx context.Context, a absence.Absence) (absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE absences SET
			start_date = $2, end_date = $3, type = $4, reason = $5, status = $6, total_days = $7,
			approved_by = $8, approved_at = $9, decision_notes = $10
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query,
		a.ID, dateArg(a.StartDate), dateArg(a.EndDate), a.Type, a.Reason, a.Status, a.TotalDays,
		a.ApprovedBy, a.ApprovedAt, a.DecisionNotes,
	)
	if err != nil {
		return absence.Absence{}, fmt.Errorf("update absence: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return absence.Absence{}, absence.ErrAbsenceNotFound
	}
	return a, nil
}

// Delete implements absence.AbsenceRepository.
func (r *absenceRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM absences WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete absence: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return absence.ErrAbsenceNotFound
	}
	return nil
}

// List implements absence.AbsenceRepository.
func (r *absenceRepositoryImpl) List(ctx context.Context, filter absence.Filter) ([]absence.Absence, error) {
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
		conditions = append(conditions, fmt.Sprintf("end_date >= $%d", argIdx))
		args = append(args, dateArg(filter.StartDate))
		argIdx++
	}
	if !filter.EndDate.IsZero() {
		conditions = append(conditions, fmt.Sprintf("start_date <= $%d", argIdx))
		args = append(args, dateArg(filter.EndDate))
		argIdx++
	}
	if len(filter.Statuses) > 0 {
		conditions = append(conditions, fmt.Sprintf("status = ANY($%d)", argIdx))
		args = append(args, toStrings(filter.Statuses))
	}

	query := `SELECT ` + absenceColumns + ` FROM absences`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY start_date, requested_at, id"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list absences: %w", err)
	}
	defer rows.Close()

	absences := make([]absence.Absence, 0)
	for rows.Next() {
		a, err := scanAbsence(rows)
		if err != nil {
			return nil, err
		}
		absences = append(absences, a)
	}
	return absences, rows.Err()
}

func scanAbsence(row pgx.Row) (absence.Absence, error) {
	var a absence.Absence
	var start, end pgtype.Date
	err := row.Scan(
		&a.ID, &a.EmployeeID, &start, &end, &a.Type, &a.Reason, &a.Status, &a.TotalDays,
		&a.RequestedBy, &a.RequestedAt, &a.ApprovedBy, &a.ApprovedAt, &a.DecisionNotes,
	)
	if err != nil {
		return absence.Absence{}, err
	}
	a.StartDate = dateValue(start)
	a.EndDate = dateValue(end)
	return a, nil
}
