package shift

import "github.com/cmlabs-hris/shift-planner-go/internal/pkg/apperror"

var (
	ErrShiftNotFound = apperror.NotFound("shift not found")

	ErrEmployeeIDRequired = apperror.Validation("employee ID is required")
	ErrInvalidInterval    = apperror.Validation("end time must be after start time")
)
