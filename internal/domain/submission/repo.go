package submission

import (
	"context"

	"github.com/google/uuid"

	"github.com/clearclaim/clearclaim/internal/platform/x12"
)

type Repository interface {
	Create(ctx context.Context, s *Submission) error
	GetByID(ctx context.Context, id uuid.UUID) (*Submission, error)
	ListByClaimID(ctx context.Context, claimID string, limit, offset int) ([]*Submission, int, error)
	List(ctx context.Context, limit, offset int) ([]*Submission, int, error)
}

// SequencerStateRepository persists the control-number counters so they
// survive restarts. The generator core deliberately does not own this;
// it only exposes State/Initialize.
type SequencerStateRepository interface {
	Load(ctx context.Context) (x12.SequencerState, error)
	Save(ctx context.Context, state x12.SequencerState) error
}
