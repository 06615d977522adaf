package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/absence"
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/validator"
)

// CascadeFailure is the body returned when an approval could not remove every shift.
type CascadeFailure struct {
	AbsenceID string   `json:"absence_id"`
	Remaining []string `json:"remaining_shift_ids"`
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var conflictErr *shift.ConflictError
	if errors.As(err, &conflictErr) {
		ConflictWithData(w, "Shift conflicts detected", conflictErr.Conflicts)
		return
	}

	var cascadeErr *absence.CascadeError
	if errors.As(err, &cascadeErr) {
		slog.Error("absence cascade incomplete", "absence_id", cascadeErr.AbsenceID, "remaining", cascadeErr.Remaining, "error", cascadeErr.Err)
		ServiceUnavailable(w, "Absence approved but some shifts could not be removed", CascadeFailure{
			AbsenceID: cascadeErr.AbsenceID,
			Remaining: cascadeErr.Remaining,
		})
		return
	}

	kind, ok := apperror.KindOf(err)
	if !ok {
		slog.Error("unclassified error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
		return
	}

	switch kind {
	case apperror.KindValidation:
		ValidationError(w, map[string]string{"request": err.Error()})
	case apperror.KindConflict, apperror.KindState:
		Conflict(w, err.Error())
	case apperror.KindNotFound:
		NotFound(w, err.Error())
	case apperror.KindForbidden:
		Forbidden(w, err.Error())
	case apperror.KindRepository:
		slog.Error("repository failure", "error", err)
		ServiceUnavailable(w, "Storage temporarily unavailable, retry the request", nil)
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
