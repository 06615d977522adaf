package absence

import (
	"context"
)

type AbsenceService interface {
	RequestAbsence(ctx context.Context, req RequestAbsenceRequest) (Absence, error)
	DecideAbsence(ctx context.Context, id string, req DecideAbsenceRequest, actor string) (Absence, error)
	RetryCascade(ctx context.Context, id string) error
	GetAbsence(ctx context.Context, id string) (Absence, error)
	ListAbsences(ctx context.Context, filter Filter) ([]Absence, error)
}
