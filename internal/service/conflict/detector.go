package conflict

import (
	"fmt"

	"github.com/cmlabs-hris/shift-planner-go/internal/domain/absence"
	"github.com/cmlabs-hris/shift-planner-go/internal/domain/shift"
)

const DefaultLegalDailyHours = 10.0

// Detector finds conflicts between a candidate shift and the shifts and absences
// supplied by the caller. It performs no I/O.
type Detector struct {
	LegalDailyHours float64
}

func NewDetector(legalDailyHours float64) Detector {
	if legalDailyHours <= 0 {
		legalDailyHours = DefaultLegalDailyHours
	}
	return Detector{LegalDailyHours: legalDailyHours}
}

// Check returns every conflict of candidate. The shift with id excludingID is skipped
// so an update is never compared with itself.
func (d Detector) Check(candidate shift.Shift, excludingID string, existing []shift.Shift, absences []absence.Absence) []shift.Conflict {
	var conflicts []shift.Conflict

	for _, other := range existing {
		if skip(candidate, other, excludingID) || !candidate.Overlaps(other) {
			continue
		}
		conflicts = append(conflicts, shift.Conflict{
			Kind:     shift.ConflictOverlap,
			Reason:   fmt.Sprintf("overlaps shift %s-%s on %s", other.StartTime, other.EndTime, other.Date),
			EntityID: other.ID,
		})
	}

	for _, a := range absences {
		if a.EmployeeID != candidate.EmployeeID || !a.IsApproved() || !a.Covers(candidate.Date) {
			continue
		}
		conflicts = append(conflicts, shift.Conflict{
			Kind:     shift.ConflictAbsence,
			Reason:   fmt.Sprintf("employee has an approved %s absence from %s to %s", a.Type, a.StartDate, a.EndDate),
			EntityID: a.ID,
		})
	}

	limit := d.LegalDailyHours
	if limit <= 0 {
		limit = DefaultLegalDailyHours
	}
	hours := shift.ComputeHours(candidate.StartTime, candidate.EndTime, candidate.BreakMinutes)
	if hours > limit {
		conflicts = append(conflicts, shift.Conflict{
			Kind:     shift.ConflictLegalLimit,
			Reason:   fmt.Sprintf("shift of %.2f hours exceeds the %.2f hour daily limit", hours, limit),
			EntityID: candidate.EmployeeID,
		})
	}

	return conflicts
}

func skip(candidate, other shift.Shift, excludingID string) bool {
	if other.IsCancelled() {
		return true
	}
	if excludingID != "" && other.ID == excludingID {
		return true
	}
	return candidate.ID != "" && other.ID == candidate.ID
}
