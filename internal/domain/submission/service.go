package submission

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clearclaim/clearclaim/internal/platform/x12"
)

// Service coordinates claim validation, interchange generation and
// persistence of the resulting submissions.
type Service struct {
	submissions Repository
	states      SequencerStateRepository
	seq         *x12.Sequencer
	gen         *x12.Generator
	identity    InterchangeIdentity
	log         zerolog.Logger

	// Serializes generate-then-save so persisted counters never lag a
	// submission that already consumed them.
	mu sync.Mutex
}

func NewService(subs Repository, states SequencerStateRepository, seq *x12.Sequencer, gen *x12.Generator, identity InterchangeIdentity, log zerolog.Logger) *Service {
	return &Service{
		submissions: subs,
		states:      states,
		seq:         seq,
		gen:         gen,
		identity:    identity,
		log:         log.With().Str("component", "submission").Logger(),
	}
}

// Start restores the control number counters from storage. Call once
// before serving requests.
func (s *Service) Start(ctx context.Context) error {
	state, err := s.states.Load(ctx)
	if err != nil {
		return err
	}
	s.seq.Initialize(state.ISA, state.GS, state.ST)
	s.log.Info().
		Int64("isa", state.ISA).
		Int64("gs", state.GS).
		Int64("st", state.ST).
		Msg("sequencer state restored")
	return nil
}

// Submit validates the claim, generates an interchange and records the
// outcome. A claim that fails validation is recorded with status
// "rejected" and consumes no control numbers.
func (s *Service) Submit(ctx context.Context, req *ClaimRequest) (*Submission, error) {
	if req.Claim.ClaimID == "" {
		return nil, fmt.Errorf("claim.claimId is required")
	}

	s.mu.Lock()
	result := s.gen.Generate(req.ToInput(s.identity))
	if result.Success {
		if err := s.states.Save(ctx, s.seq.State()); err != nil {
			s.mu.Unlock()
			return nil, fmt.Errorf("persist sequencer state: %w", err)
		}
	}
	s.mu.Unlock()

	sub := &Submission{
		ClaimID:  req.Claim.ClaimID,
		PayerID:  req.Payer.PayerID,
		Findings: result.Errors,
	}
	if result.Success {
		sub.Status = StatusGenerated
		sub.EDIContent = result.EDIContent
		sub.ISAControlNumber = result.ControlNumbers.ISA
		sub.GSControlNumber = result.ControlNumbers.GS
		sub.STControlNumber = result.ControlNumbers.ST
		sub.SegmentCount = result.SegmentCount
	} else {
		sub.Status = StatusRejected
	}

	if err := s.submissions.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("persist submission: %w", err)
	}

	s.log.Info().
		Str("submission_id", sub.ID.String()).
		Str("claim_id", sub.ClaimID).
		Str("status", sub.Status).
		Int("findings", len(sub.Findings)).
		Msg("submission recorded")

	return sub, nil
}

// Validate runs claim validation without generating an interchange or
// touching storage.
func (s *Service) Validate(req *ClaimRequest) []x12.ValidationError {
	findings := x12.ValidateClaim(req.ToInput(s.identity))
	if findings == nil {
		findings = []x12.ValidationError{}
	}
	return findings
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Submission, error) {
	return s.submissions.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, claimID string, limit, offset int) ([]*Submission, int, error) {
	if claimID != "" {
		return s.submissions.ListByClaimID(ctx, claimID, limit, offset)
	}
	return s.submissions.List(ctx, limit, offset)
}
