package submission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clearclaim/clearclaim/internal/platform/x12"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const subCols = `id, claim_id, payer_id, status, edi_content,
	isa_control_number, gs_control_number, st_control_number,
	segment_count, findings, created_at`

func scanSubmission(row pgx.Row) (*Submission, error) {
	var s Submission
	var findings []byte
	err := row.Scan(&s.ID, &s.ClaimID, &s.PayerID, &s.Status, &s.EDIContent,
		&s.ISAControlNumber, &s.GSControlNumber, &s.STControlNumber,
		&s.SegmentCount, &findings, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(findings) > 0 {
		if err := json.Unmarshal(findings, &s.Findings); err != nil {
			return nil, fmt.Errorf("decode findings: %w", err)
		}
	}
	return &s, nil
}

func (r *repoPG) Create(ctx context.Context, s *Submission) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	findings, err := json.Marshal(s.Findings)
	if err != nil {
		return fmt.Errorf("encode findings: %w", err)
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO submissions (id, claim_id, payer_id, status, edi_content,
			isa_control_number, gs_control_number, st_control_number,
			segment_count, findings)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at`,
		s.ID, s.ClaimID, s.PayerID, s.Status, s.EDIContent,
		s.ISAControlNumber, s.GSControlNumber, s.STControlNumber,
		s.SegmentCount, findings)
	return row.Scan(&s.CreatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Submission, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+subCols+` FROM submissions WHERE id = $1`, id)
	return scanSubmission(row)
}

func (r *repoPG) ListByClaimID(ctx context.Context, claimID string, limit, offset int) ([]*Submission, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM submissions WHERE claim_id = $1`, claimID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+subCols+` FROM submissions WHERE claim_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, claimID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	subs, err := collectSubmissions(rows)
	return subs, total, err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Submission, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM submissions`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+subCols+` FROM submissions
		 ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	subs, err := collectSubmissions(rows)
	return subs, total, err
}

func collectSubmissions(rows pgx.Rows) ([]*Submission, error) {
	var subs []*Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// =========== Sequencer State Repository ===========

// sequencerStateRepoPG keeps the three counters in a single-row table.
type sequencerStateRepoPG struct{ pool *pgxpool.Pool }

func NewSequencerStateRepoPG(pool *pgxpool.Pool) SequencerStateRepository {
	return &sequencerStateRepoPG{pool: pool}
}

func (r *sequencerStateRepoPG) Load(ctx context.Context) (x12.SequencerState, error) {
	var state x12.SequencerState
	err := r.pool.QueryRow(ctx,
		`SELECT isa_counter, gs_counter, st_counter FROM sequencer_state WHERE id`).
		Scan(&state.ISA, &state.GS, &state.ST)
	if errors.Is(err, pgx.ErrNoRows) {
		// First boot: counters start at zero.
		return x12.SequencerState{}, nil
	}
	if err != nil {
		return x12.SequencerState{}, fmt.Errorf("load sequencer state: %w", err)
	}
	return state, nil
}

func (r *sequencerStateRepoPG) Save(ctx context.Context, state x12.SequencerState) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sequencer_state (id, isa_counter, gs_counter, st_counter)
		VALUES (TRUE, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET isa_counter = EXCLUDED.isa_counter,
		    gs_counter = EXCLUDED.gs_counter,
		    st_counter = EXCLUDED.st_counter,
		    updated_at = NOW()`,
		state.ISA, state.GS, state.ST)
	if err != nil {
		return fmt.Errorf("save sequencer state: %w", err)
	}
	return nil
}
