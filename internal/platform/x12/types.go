package x12

import "strings"

// X12 005010X222A1 delimiter set. Data values must never contain these;
// Clean strips them before a value enters a segment.
const (
	ElementSeparator    = "*"
	SegmentTerminator   = "~"
	ComponentSeparator  = ":"
	RepetitionSeparator = "^"
)

// Interchange constants for the 837P transaction set.
const (
	VersionCode            = "005010X222A1"
	TransactionSetCode     = "837"
	FunctionalIDCode       = "HC"
	ISAVersion             = "00501"
	DefaultGSControlWidth  = 6
	MaxDiagnosisCodes      = 12
	MaxServiceLineModifier = 4
)

// Address is a US postal address as carried in N3/N4 segments.
type Address struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2,omitempty"`
	City  string `json:"city"`
	State string `json:"state"`
	Zip   string `json:"zip"`
}

// BillingProvider is the legal billing entity (Loop 2010AA).
type BillingProvider struct {
	NPI          string  `json:"npi"`
	TaxID        string  `json:"tax_id"`
	Taxonomy     string  `json:"taxonomy"`
	OrgName      string  `json:"org_name"`
	Address      Address `json:"address"`
	ContactName  string  `json:"contact_name"`
	ContactPhone string  `json:"contact_phone"`
	ContactEmail string  `json:"contact_email,omitempty"`
}

// RenderingProvider is the individual clinician who performed the
// service (Loop 2310B).
type RenderingProvider struct {
	NPI       string `json:"npi"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Taxonomy  string `json:"taxonomy,omitempty"`
}

// ReferringProvider is the ordering/referring physician (Loop 2310A).
type ReferringProvider struct {
	NPI       string `json:"npi"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Subscriber is the insurance policyholder (Loop 2000B/2010BA).
type Subscriber struct {
	MemberID    string  `json:"member_id"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	DOB         string  `json:"dob"` // YYYY-MM-DD
	Gender      string  `json:"gender"`
	Address     Address `json:"address"`
	GroupNumber string  `json:"group_number,omitempty"`
}

// Patient describes the patient when the patient is not the subscriber
// (Loop 2000C/2010CA). When the patient is the subscriber this struct is
// omitted entirely and the subscriber carries the demographics.
type Patient struct {
	FirstName                string  `json:"first_name"`
	LastName                 string  `json:"last_name"`
	DOB                      string  `json:"dob"`
	Gender                   string  `json:"gender"`
	Address                  Address `json:"address"`
	RelationshipToSubscriber string  `json:"relationship_to_subscriber"`
}

// Payer identifies the destination payer (Loop 2010BB).
type Payer struct {
	PayerID         string   `json:"payer_id"`
	Name            string   `json:"name"`
	Address         *Address `json:"address,omitempty"`
	ClaimFilingCode string   `json:"claim_filing_code"` // MC, BL, CI, ...
}

// ClaimInfo is the claim header (Loop 2300). All monetary amounts are
// integer cents; they are converted to dollar strings only at segment
// construction time.
type ClaimInfo struct {
	ClaimID              string   `json:"claim_id"`
	TotalChargesCents    int64    `json:"total_charges_cents"`
	PlaceOfService       string   `json:"place_of_service"`
	DiagnosisCodes       []string `json:"diagnosis_codes"` // first is principal
	PriorAuthNumber      string   `json:"prior_auth_number,omitempty"`
	ReferralNumber       string   `json:"referral_number,omitempty"`
	OnsetDate            string   `json:"onset_date,omitempty"`
	InitialTreatmentDate string   `json:"initial_treatment_date,omitempty"`
	LastSeenDate         string   `json:"last_seen_date,omitempty"`
	Note                 string   `json:"note,omitempty"`
}

// ServiceLine is one billed service (Loop 2400).
type ServiceLine struct {
	LineNumber        int      `json:"line_number"`
	CPTCode           string   `json:"cpt_code"`
	Modifiers         []string `json:"modifiers,omitempty"`
	ChargeCents       int64    `json:"charge_cents"`
	Units             float64  `json:"units"`
	DiagnosisPointers []int    `json:"diagnosis_pointers"` // 1-based into ClaimInfo.DiagnosisCodes
	ServiceDate       string   `json:"service_date"`
	ServiceDateEnd    string   `json:"service_date_end,omitempty"`
	PriorAuthNumber   string   `json:"prior_auth_number,omitempty"`
}

// Claim837PInput is the complete description of one professional claim
// to be rendered as an X12 837P interchange.
type Claim837PInput struct {
	SubmitterID    string `json:"submitter_id"`
	SubmitterName  string `json:"submitter_name"`
	ReceiverID     string `json:"receiver_id"`
	ReceiverName   string `json:"receiver_name"`
	UsageIndicator string `json:"usage_indicator"` // P production, T test

	BillingProvider   BillingProvider    `json:"billing_provider"`
	RenderingProvider *RenderingProvider `json:"rendering_provider,omitempty"`
	ReferringProvider *ReferringProvider `json:"referring_provider,omitempty"`
	Subscriber        Subscriber         `json:"subscriber"`
	Patient           *Patient           `json:"patient,omitempty"`
	Payer             Payer              `json:"payer"`
	Claim             ClaimInfo          `json:"claim"`
	ServiceLines      []ServiceLine      `json:"service_lines"`
}

// Severity levels for validation findings.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidationError is a single field-scoped validation finding. Findings
// with SeverityError block generation; warnings do not.
type ValidationError struct {
	Field    string `json:"field"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// ControlNumbers holds the three envelope control numbers assigned to a
// single generated interchange.
type ControlNumbers struct {
	ISA string `json:"isa_control_number"` // 9 digits, ISA13/IEA02
	GS  string `json:"gs_control_number"`  // GS06/GE02
	ST  string `json:"st_control_number"`  // 4 digits, ST02/SE02
}

// GenerationResult is the outcome of one generation call. EDIContent is
// populated only when Success is true; Errors always carries the full
// validator output, warnings included.
type GenerationResult struct {
	Success        bool              `json:"success"`
	EDIContent     string            `json:"edi_content,omitempty"`
	Errors         []ValidationError `json:"errors"`
	ControlNumbers ControlNumbers    `json:"control_numbers"`
	SegmentCount   int               `json:"segment_count"`
}

// WireFormat returns the interchange with newlines stripped. EDIContent
// keeps segments newline-joined for readability and diffing; the wire
// format recognized by clearinghouses uses the segment terminator alone.
func (r *GenerationResult) WireFormat() string {
	return Wire(r.EDIContent)
}

// Wire strips newlines from a stored interchange.
func Wire(content string) string {
	return strings.ReplaceAll(content, "\n", "")
}
