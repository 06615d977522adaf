package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS shifts (
		id              TEXT PRIMARY KEY,
		employee_id     TEXT NOT NULL,
		date            DATE NOT NULL,
		start_time      TIME NOT NULL,
		end_time        TIME NOT NULL,
		break_minutes   INTEGER NOT NULL DEFAULT 0,
		position        TEXT,
		status          TEXT NOT NULL,
		total_hours     DOUBLE PRECISION NOT NULL,
		notes           TEXT NOT NULL DEFAULT '',
		source_shift_id TEXT,
		created_by      TEXT NOT NULL DEFAULT '',
		created_at      TIMESTAMPTZ NOT NULL,
		modified_by     TEXT,
		modified_at     TIMESTAMPTZ,
		CHECK (end_time > start_time),
		CHECK (break_minutes >= 0)
	)`,
	`CREATE INDEX IF NOT EXISTS shifts_employee_date_idx ON shifts (employee_id, date)`,
	`CREATE INDEX IF NOT EXISTS shifts_date_idx ON shifts (date)`,

	`CREATE TABLE IF NOT EXISTS events (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		start_date  DATE NOT NULL,
		end_date    DATE NOT NULL,
		all_day     BOOLEAN NOT NULL DEFAULT FALSE,
		start_time  TIME,
		end_time    TIME,
		type        TEXT NOT NULL,
		priority    TEXT NOT NULL,
		attendees   TEXT[] NOT NULL DEFAULT '{}',
		created_by  TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL,
		modified_by TEXT,
		modified_at TIMESTAMPTZ,
		CHECK (end_date >= start_date)
	)`,
	`CREATE INDEX IF NOT EXISTS events_range_idx ON events (start_date, end_date)`,

	`CREATE TABLE IF NOT EXISTS absences (
		id             TEXT PRIMARY KEY,
		employee_id    TEXT NOT NULL,
		start_date     DATE NOT NULL,
		end_date       DATE NOT NULL,
		type           TEXT NOT NULL,
		reason         TEXT NOT NULL DEFAULT '',
		status         TEXT NOT NULL,
		total_days     INTEGER NOT NULL,
		requested_by   TEXT NOT NULL,
		requested_at   TIMESTAMPTZ NOT NULL,
		approved_by    TEXT,
		approved_at    TIMESTAMPTZ,
		decision_notes TEXT NOT NULL DEFAULT '',
		CHECK (end_date >= start_date)
	)`,
	`CREATE INDEX IF NOT EXISTS absences_employee_range_idx ON absences (employee_id, start_date, end_date)`,

	`CREATE TABLE IF NOT EXISTS timeclock_sessions (
		id                TEXT PRIMARY KEY,
		employee_id       TEXT NOT NULL,
		date              DATE NOT NULL,
		clock_in          TIMESTAMPTZ NOT NULL,
		clock_out         TIMESTAMPTZ,
		breaks            JSONB NOT NULL DEFAULT '[]',
		is_remote         BOOLEAN NOT NULL DEFAULT FALSE,
		is_training       BOOLEAN NOT NULL DEFAULT FALSE,
		location          TEXT NOT NULL DEFAULT '',
		clock_in_comment  TEXT NOT NULL DEFAULT '',
		clock_out_comment TEXT NOT NULL DEFAULT '',
		total_work_time   INTEGER NOT NULL DEFAULT 0,
		total_break_time  INTEGER NOT NULL DEFAULT 0,
		late_minutes      INTEGER NOT NULL DEFAULT 0,
		corrected_by      TEXT,
		corrected_at      TIMESTAMPTZ
	)`,
	// At most one open session per employee.
	`CREATE UNIQUE INDEX IF NOT EXISTS timeclock_sessions_open_idx
		ON timeclock_sessions (employee_id) WHERE clock_out IS NULL`,
	`CREATE INDEX IF NOT EXISTS timeclock_sessions_employee_date_idx ON timeclock_sessions (employee_id, date)`,
}

// Migrate creates the planning tables when they do not exist yet.
func Migrate(ctx context.Context, db *database.DB) error {
	return WithTransaction(ctx, db, func(ctx context.Context, tx pgx.Tx) error {
		for i, stmt := range schemaStatements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("migration statement %d: %w", i, err)
			}
		}
		return nil
	})
}
