package absence

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/apperror"
)

var (
	ErrAbsenceNotFound = apperror.NotFound("absence not found")
	ErrAlreadyDecided  = apperror.State("absence has already been decided")
	ErrNotApproved     = apperror.State("absence is not approved")
	ErrOverlapping     = apperror.State("employee already has a pending or approved absence in this period")
)

// CascadeError reports shifts that could not be removed after an approval. The
// absence stays approved; RetryCascade repeats the cleanup.
type CascadeError struct {
	AbsenceID string
	Remaining []string
	Err       error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("absence %s approved but %d shift(s) were not removed [%s]: %v",
		e.AbsenceID, len(e.Remaining), strings.Join(e.Remaining, ", "), e.Err)
}

func (e *CascadeError) Unwrap() error {
	return e.Err
}

func (e *CascadeError) Is(target error) bool {
	return target == apperror.ErrRepository
}
