package event

import "github.com/cmlabs-hris/shift-planner-go/internal/pkg/apperror"

var (
	ErrEventNotFound = apperror.NotFound("event not found")
)
