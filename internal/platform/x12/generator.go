package x12

import (
	"strconv"
	"strings"
	"time"
)

// Generator renders a validated Claim837PInput as a complete 837P
// interchange (005010X222A1). It draws fresh control numbers from its
// sequencer on every successful generation; a claim that fails
// validation consumes none, since control numbers are a scarce
// sequential resource.
type Generator struct {
	seq *Sequencer
	now func() time.Time
}

// NewGenerator creates a generator bound to the given sequencer.
func NewGenerator(seq *Sequencer) *Generator {
	return &Generator{seq: seq, now: time.Now}
}

// Generate validates the claim and, when no blocking finding exists,
// builds the full ISA..IEA interchange. Warnings are returned alongside
// successful output. The returned content is newline-joined; use
// GenerationResult.WireFormat for transmission.
func (g *Generator) Generate(input *Claim837PInput) *GenerationResult {
	findings := ValidateClaim(input)
	if HasErrors(findings) {
		return &GenerationResult{
			Success: false,
			Errors:  findings,
		}
	}

	ctrl := ControlNumbers{
		ISA: g.seq.NextISA(),
		GS:  g.seq.NextGS(),
		ST:  g.seq.NextST(),
	}

	now := g.now().UTC()
	tx := g.buildTransactionSet(input, ctrl.ST, now)
	envelope := g.wrapEnvelope(input, tx, ctrl, now)

	return &GenerationResult{
		Success:        true,
		EDIContent:     strings.Join(envelope, "\n"),
		Errors:         findings,
		ControlNumbers: ctrl,
		SegmentCount:   len(tx),
	}
}

// buildTransactionSet emits every segment from ST through SE in the
// fixed 837P order. SE01 counts all transaction-set segments including
// SE itself.
func (g *Generator) buildTransactionSet(input *Claim837PInput, stControl string, now time.Time) []string {
	// Presence of a distinct patient is the single structural switch:
	// it decides the subscriber HL child code, whether SBR02 carries
	// '18' (Self), and whether Loop 2000C appears at all.
	hasPatientLevel := input.Patient != nil

	var segs []string

	segs = append(segs, Segment("ST", TransactionSetCode, stControl, VersionCode))
	segs = append(segs, Segment("BHT", "0019", "00", Clean(input.Claim.ClaimID), EDIDateTime(now), EDITime(now), "CH"))

	// Loop 1000A submitter, 1000B receiver
	segs = append(segs, Segment("NM1", "41", "2", Clean(input.SubmitterName), "", "", "", "", "46", Clean(input.SubmitterID)))
	segs = append(segs, g.submitterContact(&input.BillingProvider))
	segs = append(segs, Segment("NM1", "40", "2", Clean(input.ReceiverName), "", "", "", "", "46", Clean(input.ReceiverID)))

	// Loop 2000A/2010AA billing provider
	bp := &input.BillingProvider
	segs = append(segs, Segment("HL", "1", "", "20", "1"))
	segs = append(segs, Segment("PRV", "BI", "PXC", Clean(bp.Taxonomy)))
	segs = append(segs, Segment("NM1", "85", "2", Clean(bp.OrgName), "", "", "", "", "XX", FormatNPI(bp.NPI)))
	segs = append(segs, addressSegments(&bp.Address)...)
	segs = append(segs, Segment("REF", "EI", FormatTaxID(bp.TaxID)))

	// Loop 2000B/2010BA subscriber
	sub := &input.Subscriber
	childCode := "0"
	relationship := "18" // Self when no separate patient level
	if hasPatientLevel {
		childCode = "1"
		relationship = "" // carried on PAT at the patient level instead
	}
	segs = append(segs, Segment("HL", "2", "1", "22", childCode))
	segs = append(segs, Segment("SBR", "P", relationship, Clean(sub.GroupNumber), "", "", "", "", "", input.Payer.ClaimFilingCode))
	segs = append(segs, Segment("NM1", "IL", "1", Clean(sub.LastName), Clean(sub.FirstName), "", "", "", "MI", Clean(sub.MemberID)))
	segs = append(segs, addressSegments(&sub.Address)...)
	segs = append(segs, Segment("DMG", "D8", EDIDate(sub.DOB), sub.Gender))

	// Loop 2010BB payer
	segs = append(segs, Segment("NM1", "PR", "2", Clean(input.Payer.Name), "", "", "", "", "PI", Clean(input.Payer.PayerID)))
	if input.Payer.Address != nil {
		segs = append(segs, addressSegments(input.Payer.Address)...)
	}

	// Loop 2000C/2010CA patient, only when patient != subscriber
	if hasPatientLevel {
		pat := input.Patient
		segs = append(segs, Segment("HL", "3", "2", "23", "0"))
		segs = append(segs, Segment("PAT", pat.RelationshipToSubscriber))
		segs = append(segs, Segment("NM1", "QC", "1", Clean(pat.LastName), Clean(pat.FirstName)))
		segs = append(segs, addressSegments(&pat.Address)...)
		segs = append(segs, Segment("DMG", "D8", EDIDate(pat.DOB), pat.Gender))
	}

	segs = append(segs, g.claimSegments(&input.Claim)...)

	if rp := input.ReferringProvider; rp != nil {
		segs = append(segs, Segment("NM1", "DN", "1", Clean(rp.LastName), Clean(rp.FirstName), "", "", "", "XX", FormatNPI(rp.NPI)))
	}
	if rp := input.RenderingProvider; rp != nil {
		segs = append(segs, Segment("NM1", "82", "1", Clean(rp.LastName), Clean(rp.FirstName), "", "", "", "XX", FormatNPI(rp.NPI)))
		if rp.Taxonomy != "" {
			segs = append(segs, Segment("PRV", "PE", "PXC", Clean(rp.Taxonomy)))
		}
	}

	for _, line := range input.ServiceLines {
		segs = append(segs, serviceLineSegments(&line)...)
	}

	// SE counts itself, hence the +1.
	segs = append(segs, Segment("SE", strconv.Itoa(len(segs)+1), stControl))
	return segs
}

// claimSegments emits Loop 2300: CLM, conditional date and reference
// segments, the HI diagnosis list, and the optional claim note.
func (g *Generator) claimSegments(cl *ClaimInfo) []string {
	var segs []string

	facilityCode := Composite(Clean(cl.PlaceOfService), "B", "1")
	segs = append(segs, Segment("CLM", Clean(cl.ClaimID), Amount(cl.TotalChargesCents), "", "", facilityCode, "Y", "A", "Y", "Y"))

	if cl.OnsetDate != "" {
		segs = append(segs, Segment("DTP", "431", "D8", EDIDate(cl.OnsetDate)))
	}
	if cl.InitialTreatmentDate != "" {
		segs = append(segs, Segment("DTP", "454", "D8", EDIDate(cl.InitialTreatmentDate)))
	}
	if cl.LastSeenDate != "" {
		segs = append(segs, Segment("DTP", "304", "D8", EDIDate(cl.LastSeenDate)))
	}
	if cl.PriorAuthNumber != "" {
		segs = append(segs, Segment("REF", "G1", Clean(cl.PriorAuthNumber)))
	}
	if cl.ReferralNumber != "" {
		segs = append(segs, Segment("REF", "9F", Clean(cl.ReferralNumber)))
	}

	// HI: first code is principal (ABK), the rest other (ABF). ICD-10
	// codes travel undotted on the wire.
	hi := make([]string, 0, len(cl.DiagnosisCodes))
	for i, code := range cl.DiagnosisCodes {
		qualifier := "ABF"
		if i == 0 {
			qualifier = "ABK"
		}
		undotted := strings.ReplaceAll(Clean(code), ".", "")
		hi = append(hi, Composite(qualifier, undotted))
	}
	segs = append(segs, Segment("HI", hi...))

	if cl.Note != "" {
		segs = append(segs, Segment("NTE", "ADD", Clean(cl.Note)))
	}
	return segs
}

// serviceLineSegments emits Loop 2400 for one service line: LX, SV1,
// the service date, and any line-level prior authorization.
func serviceLineSegments(line *ServiceLine) []string {
	var segs []string

	segs = append(segs, Segment("LX", strconv.Itoa(line.LineNumber)))

	procedure := make([]string, 0, 2+len(line.Modifiers))
	procedure = append(procedure, "HC", Clean(line.CPTCode))
	for _, mod := range line.Modifiers {
		procedure = append(procedure, Clean(mod))
	}
	pointers := make([]string, 0, len(line.DiagnosisPointers))
	for _, ptr := range line.DiagnosisPointers {
		pointers = append(pointers, strconv.Itoa(ptr))
	}
	segs = append(segs, Segment("SV1",
		Composite(procedure...),
		Amount(line.ChargeCents),
		"UN",
		Units(line.Units),
		"", "",
		Composite(pointers...)))

	if line.ServiceDateEnd != "" {
		segs = append(segs, Segment("DTP", "472", "RD8", EDIDate(line.ServiceDate)+"-"+EDIDate(line.ServiceDateEnd)))
	} else {
		segs = append(segs, Segment("DTP", "472", "D8", EDIDate(line.ServiceDate)))
	}
	if line.PriorAuthNumber != "" {
		segs = append(segs, Segment("REF", "G1", Clean(line.PriorAuthNumber)))
	}
	return segs
}

// wrapEnvelope surrounds the transaction set with ISA/GS headers and
// GE/IEA trailers. GE01 and IEA01 are always "1": exactly one group
// holding exactly one transaction set per interchange. ISA13/IEA02 and
// GS06/GE02 are pairwise identical; a mismatch makes the receiver
// reject the whole interchange.
func (g *Generator) wrapEnvelope(input *Claim837PInput, tx []string, ctrl ControlNumbers, now time.Time) []string {
	isa := Segment("ISA",
		"00", FixedWidth("", 10),
		"00", FixedWidth("", 10),
		"ZZ", FixedWidth(Clean(input.SubmitterID), 15),
		"ZZ", FixedWidth(Clean(input.ReceiverID), 15),
		now.Format("060102"), EDITime(now),
		RepetitionSeparator,
		ISAVersion,
		ctrl.ISA,
		"0",
		input.UsageIndicator,
		ComponentSeparator)

	gs := Segment("GS",
		FunctionalIDCode,
		Clean(input.SubmitterID), Clean(input.ReceiverID),
		EDIDateTime(now), EDITime(now),
		ctrl.GS,
		"X",
		VersionCode)

	envelope := make([]string, 0, len(tx)+4)
	envelope = append(envelope, isa, gs)
	envelope = append(envelope, tx...)
	envelope = append(envelope, Segment("GE", "1", ctrl.GS))
	envelope = append(envelope, Segment("IEA", "1", ctrl.ISA))
	return envelope
}

func (g *Generator) submitterContact(bp *BillingProvider) string {
	elements := []string{"IC", Clean(bp.ContactName), "TE", Clean(bp.ContactPhone)}
	if bp.ContactEmail != "" {
		elements = append(elements, "EM", Clean(bp.ContactEmail))
	}
	return Segment("PER", elements...)
}

// addressSegments emits the N3 street and N4 geographic segments shared
// by every name loop.
func addressSegments(a *Address) []string {
	n3 := Segment("N3", Clean(a.Line1))
	if a.Line2 != "" {
		n3 = Segment("N3", Clean(a.Line1), Clean(a.Line2))
	}
	return []string{
		n3,
		Segment("N4", Clean(a.City), a.State, Clean(a.Zip)),
	}
}
