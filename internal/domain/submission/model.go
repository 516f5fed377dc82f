package submission

import (
	"time"

	"github.com/google/uuid"

	"github.com/clearclaim/clearclaim/internal/platform/x12"
)

// Submission statuses. A rejected submission keeps its validator
// findings but never carries EDI content or control numbers.
const (
	StatusGenerated = "generated"
	StatusRejected  = "rejected"
)

// Submission records one generation attempt for a claim: the rendered
// interchange on success, or the blocking findings on rejection.
type Submission struct {
	ID               uuid.UUID             `db:"id" json:"id"`
	ClaimID          string                `db:"claim_id" json:"claim_id"`
	PayerID          string                `db:"payer_id" json:"payer_id"`
	Status           string                `db:"status" json:"status"`
	EDIContent       string                `db:"edi_content" json:"edi_content,omitempty"`
	ISAControlNumber string                `db:"isa_control_number" json:"isa_control_number,omitempty"`
	GSControlNumber  string                `db:"gs_control_number" json:"gs_control_number,omitempty"`
	STControlNumber  string                `db:"st_control_number" json:"st_control_number,omitempty"`
	SegmentCount     int                   `db:"segment_count" json:"segment_count"`
	Findings         []x12.ValidationError `db:"findings" json:"findings"`
	CreatedAt        time.Time             `db:"created_at" json:"created_at"`
}

// InterchangeIdentity is the trading-partner identity stamped on every
// generated interchange. It comes from service configuration, not from
// the caller: a claim submitter cannot impersonate another trading
// partner.
type InterchangeIdentity struct {
	SubmitterID    string
	SubmitterName  string
	ReceiverID     string
	ReceiverName   string
	UsageIndicator string
}

// ClaimRequest is the submission payload: everything about one claim
// except the interchange identity.
type ClaimRequest struct {
	BillingProvider   x12.BillingProvider    `json:"billing_provider"`
	RenderingProvider *x12.RenderingProvider `json:"rendering_provider,omitempty"`
	ReferringProvider *x12.ReferringProvider `json:"referring_provider,omitempty"`
	Subscriber        x12.Subscriber         `json:"subscriber"`
	Patient           *x12.Patient           `json:"patient,omitempty"`
	Payer             x12.Payer              `json:"payer"`
	Claim             x12.ClaimInfo          `json:"claim"`
	ServiceLines      []x12.ServiceLine      `json:"service_lines"`
}

// ToInput combines the request with the configured trading-partner
// identity into a complete generator input.
func (r *ClaimRequest) ToInput(id InterchangeIdentity) *x12.Claim837PInput {
	return &x12.Claim837PInput{
		SubmitterID:       id.SubmitterID,
		SubmitterName:     id.SubmitterName,
		ReceiverID:        id.ReceiverID,
		ReceiverName:      id.ReceiverName,
		UsageIndicator:    id.UsageIndicator,
		BillingProvider:   r.BillingProvider,
		RenderingProvider: r.RenderingProvider,
		ReferringProvider: r.ReferringProvider,
		Subscriber:        r.Subscriber,
		Patient:           r.Patient,
		Payer:             r.Payer,
		Claim:             r.Claim,
		ServiceLines:      r.ServiceLines,
	}
}
