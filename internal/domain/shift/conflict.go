package shift

import (
	"strings"

	"github.com/cmlabs-hris/shift-planner-go/internal/pkg/apperror"
)

type ConflictKind string

const (
	ConflictOverlap    ConflictKind = "overlap"
	ConflictAbsence    ConflictKind = "absence"
	ConflictLegalLimit ConflictKind = "legal_limit"
)

// Conflict is an incompatibility between a candidate shift and an existing shift,
// an approved absence, or the legal daily limit.
type Conflict struct {
	Kind     ConflictKind `json:"kind"`
	Reason   string       `json:"reason"`
	EntityID string       `json:"entity_id,omitempty"`
}

// ConflictError carries the conflicts that blocked a write. Callers resolve them or
// resubmit with an override.
type ConflictError struct {
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	reasons := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		reasons = append(reasons, c.Reason)
	}
	return "shift conflicts: " + strings.Join(reasons, "; ")
}

func (e *ConflictError) Is(target error) bool {
	return target == apperror.ErrConflict
}

// HasKind reports whether any conflict is of kind k.
func HasKind(conflicts []Conflict, k ConflictKind) bool {
	for _, c := range conflicts {
		if c.Kind == k {
			return true
		}
	}
	return false
}
