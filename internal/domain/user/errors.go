package user

import (
	"errors"

	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/apperror"
)

var (
	ErrInvalidToken            = errors.New("invalid or expired token")
	ErrManagerAccessRequired   = apperror.Forbidden("manager access required")
	ErrInsufficientPermissions = apperror.Forbidden("insufficient permissions")
	ErrOtherEmployee           = apperror.Forbidden("cannot act on another employee's records")
)
