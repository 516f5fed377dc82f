package submission

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clearclaim/clearclaim/internal/platform/x12"
)

// ===================== Fakes =====================

type fakeRepo struct {
	subs      []*Submission
	createErr error
}

func (f *fakeRepo) Create(_ context.Context, s *Submission) error {
	if f.createErr != nil {
		return f.createErr
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	f.subs = append(f.subs, s)
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Submission, error) {
	for _, s := range f.subs {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeRepo) ListByClaimID(_ context.Context, claimID string, limit, offset int) ([]*Submission, int, error) {
	var out []*Submission
	for _, s := range f.subs {
		if s.ClaimID == claimID {
			out = append(out, s)
		}
	}
	return page(out, limit, offset), len(out), nil
}

func (f *fakeRepo) List(_ context.Context, limit, offset int) ([]*Submission, int, error) {
	return page(f.subs, limit, offset), len(f.subs), nil
}

func page(subs []*Submission, limit, offset int) []*Submission {
	if offset >= len(subs) {
		return nil
	}
	end := offset + limit
	if end > len(subs) {
		end = len(subs)
	}
	return subs[offset:end]
}

type fakeStateRepo struct {
	state   x12.SequencerState
	saves   int
	saveErr error
}

func (f *fakeStateRepo) Load(_ context.Context) (x12.SequencerState, error) {
	return f.state, nil
}

func (f *fakeStateRepo) Save(_ context.Context, state x12.SequencerState) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.state = state
	f.saves++
	return nil
}

// ===================== Fixtures =====================

func testIdentity() InterchangeIdentity {
	return InterchangeIdentity{
		SubmitterID:    "SUB123",
		SubmitterName:  "ACME BILLING SERVICE",
		ReceiverID:     "RCV456",
		ReceiverName:   "STATE MEDICAID",
		UsageIndicator: "P",
	}
}

func validRequest() *ClaimRequest {
	return &ClaimRequest{
		BillingProvider: x12.BillingProvider{
			NPI:      "1234567890",
			TaxID:    "123456789",
			Taxonomy: "225100000X",
			OrgName:  "RIVERSIDE THERAPY GROUP",
			Address: x12.Address{
				Line1: "100 MAIN ST",
				City:  "SPRINGFIELD",
				State: "IL",
				Zip:   "62701",
			},
			ContactName:  "JANE ADMIN",
			ContactPhone: "2175551234",
		},
		Subscriber: x12.Subscriber{
			MemberID:  "MCD12345678",
			FirstName: "John",
			LastName:  "Doe",
			DOB:       "1980-05-15",
			Gender:    "M",
			Address: x12.Address{
				Line1: "42 OAK AVE",
				City:  "SPRINGFIELD",
				State: "IL",
				Zip:   "62702",
			},
		},
		Payer: x12.Payer{
			PayerID:         "77777",
			Name:            "STATE MEDICAID",
			ClaimFilingCode: "MC",
		},
		Claim: x12.ClaimInfo{
			ClaimID:           "CLM-1001",
			TotalChargesCents: 10000,
			PlaceOfService:    "11",
			DiagnosisCodes:    []string{"M54.5"},
		},
		ServiceLines: []x12.ServiceLine{
			{
				LineNumber:        1,
				CPTCode:           "97110",
				ChargeCents:       10000,
				Units:             2,
				DiagnosisPointers: []int{1},
				ServiceDate:       "2024-03-10",
			},
		},
	}
}

func newTestService(repo *fakeRepo, states *fakeStateRepo) *Service {
	seq := x12.NewSequencer()
	gen := x12.NewGenerator(seq)
	return NewService(repo, states, seq, gen, testIdentity(), zerolog.Nop())
}

// ===================== Tests =====================

func TestService_SubmitSuccess(t *testing.T) {
	repo := &fakeRepo{}
	states := &fakeStateRepo{}
	svc := newTestService(repo, states)

	sub, err := svc.Submit(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sub.Status != StatusGenerated {
		t.Fatalf("status = %q, want %q", sub.Status, StatusGenerated)
	}
	if sub.ID == uuid.Nil {
		t.Error("submission should get an id")
	}
	if !strings.HasPrefix(sub.EDIContent, "ISA*") {
		t.Error("generated content should start with ISA")
	}
	if sub.ISAControlNumber != "000000001" {
		t.Errorf("isa control = %q, want 000000001", sub.ISAControlNumber)
	}
	if sub.PayerID != "77777" {
		t.Errorf("payer id = %q", sub.PayerID)
	}
	if states.saves != 1 {
		t.Errorf("sequencer state saves = %d, want 1", states.saves)
	}
	if states.state.ISA != 1 || states.state.GS != 1 || states.state.ST != 1 {
		t.Errorf("persisted state = %+v, want all counters at 1", states.state)
	}
	if len(repo.subs) != 1 {
		t.Fatalf("persisted submissions = %d, want 1", len(repo.subs))
	}
}

func TestService_SubmitRejected(t *testing.T) {
	repo := &fakeRepo{}
	states := &fakeStateRepo{}
	svc := newTestService(repo, states)

	req := validRequest()
	req.BillingProvider.NPI = ""

	sub, err := svc.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sub.Status != StatusRejected {
		t.Fatalf("status = %q, want %q", sub.Status, StatusRejected)
	}
	if sub.EDIContent != "" {
		t.Error("rejected submission must not carry content")
	}
	if sub.ISAControlNumber != "" {
		t.Error("rejected submission must not carry control numbers")
	}
	if len(sub.Findings) == 0 {
		t.Error("rejected submission should record findings")
	}
	if states.saves != 0 {
		t.Errorf("sequencer state saves = %d, want 0 on rejection", states.saves)
	}
	if len(repo.subs) != 1 {
		t.Fatal("rejected submission should still be persisted")
	}
}

func TestService_SubmitRequiresClaimID(t *testing.T) {
	svc := newTestService(&fakeRepo{}, &fakeStateRepo{})
	req := validRequest()
	req.Claim.ClaimID = ""

	if _, err := svc.Submit(context.Background(), req); err == nil {
		t.Fatal("expected error for missing claim id")
	}
}

func TestService_SubmitStateSaveFailure(t *testing.T) {
	repo := &fakeRepo{}
	states := &fakeStateRepo{saveErr: errors.New("db down")}
	svc := newTestService(repo, states)

	if _, err := svc.Submit(context.Background(), validRequest()); err == nil {
		t.Fatal("expected error when sequencer state cannot be saved")
	}
	if len(repo.subs) != 0 {
		t.Error("submission must not be persisted when state save fails")
	}
}

func TestService_StartRestoresCounters(t *testing.T) {
	repo := &fakeRepo{}
	states := &fakeStateRepo{state: x12.SequencerState{ISA: 41, GS: 41, ST: 41}}
	svc := newTestService(repo, states)

	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	sub, err := svc.Submit(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sub.ISAControlNumber != "000000042" {
		t.Errorf("isa control = %q, want 000000042", sub.ISAControlNumber)
	}
	if sub.GSControlNumber != "000042" {
		t.Errorf("gs control = %q, want 000042", sub.GSControlNumber)
	}
	if sub.STControlNumber != "0042" {
		t.Errorf("st control = %q, want 0042", sub.STControlNumber)
	}
}

func TestService_Validate(t *testing.T) {
	svc := newTestService(&fakeRepo{}, &fakeStateRepo{})

	if findings := svc.Validate(validRequest()); len(findings) != 0 {
		t.Errorf("valid request produced findings: %+v", findings)
	}

	req := validRequest()
	req.Subscriber.MemberID = ""
	findings := svc.Validate(req)
	if !x12.HasErrors(findings) {
		t.Error("missing member id should produce an error finding")
	}
}

func TestService_ListFiltersByClaimID(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeStateRepo{})

	first := validRequest()
	second := validRequest()
	second.Claim.ClaimID = "CLM-2002"
	for _, req := range []*ClaimRequest{first, second} {
		if _, err := svc.Submit(context.Background(), req); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}

	subs, total, err := svc.List(context.Background(), "CLM-2002", 20, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(subs) != 1 {
		t.Fatalf("filtered list = %d/%d, want 1/1", len(subs), total)
	}
	if subs[0].ClaimID != "CLM-2002" {
		t.Errorf("claim id = %q", subs[0].ClaimID)
	}

	_, total, err = svc.List(context.Background(), "", 20, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 {
		t.Errorf("unfiltered total = %d, want 2", total)
	}
}
