package postgresql

import (
	"errors"
	"time"

	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/clock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

const uniqueViolation = "23505"

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func dateArg(d clock.Date) pgtype.Date {
	if d.IsZero() {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: d.Time(), Valid: true}
}

func dateValue(d pgtype.Date) clock.Date {
	if !d.Valid {
		return clock.Date{}
	}
	return clock.DateOf(d.Time)
}

func timeArg(t clock.TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: int64(t.Minutes()) * int64(time.Minute/time.Microsecond), Valid: true}
}

func optionalTimeArg(t *clock.TimeOfDay) pgtype.Time {
	if t == nil {
		return pgtype.Time{}
	}
	return timeArg(*t)
}

func timeValue(t pgtype.Time) clock.TimeOfDay {
	return clock.TimeOfDay(t.Microseconds / int64(time.Minute/time.Microsecond))
}

func optionalTimeValue(t pgtype.Time) *clock.TimeOfDay {
	if !t.Valid {
		return nil
	}
	v := timeValue(t)
	return &v
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func toStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
