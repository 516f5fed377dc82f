package x12

import (
	"fmt"
	"regexp"
)

var (
	npiPattern      = regexp.MustCompile(`^[0-9]{10}$`)
	taxIDPattern    = regexp.MustCompile(`^[0-9]{9}$`)
	isoDatePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	statePattern    = regexp.MustCompile(`^[A-Z]{2}$`)
	cptPattern      = regexp.MustCompile(`^[0-9A-Z]{5}$`)
	modifierPattern = regexp.MustCompile(`^[A-Z0-9]{2}$`)
)

// ValidateClaim checks a claim input against the 837P submission rules
// and returns every finding. It is pure: no I/O, deterministic, and it
// never mutates the input. Callers gate generation on HasErrors.
func ValidateClaim(input *Claim837PInput) []ValidationError {
	var errs []ValidationError

	addError := func(field, message string) {
		errs = append(errs, ValidationError{Field: field, Message: message, Severity: SeverityError})
	}
	addWarning := func(field, message string) {
		errs = append(errs, ValidationError{Field: field, Message: message, Severity: SeverityWarning})
	}
	require := func(field, value string) {
		if value == "" {
			addError(field, "is required")
		}
	}

	require("submitterId", input.SubmitterID)
	require("submitterName", input.SubmitterName)
	require("receiverId", input.ReceiverID)
	require("receiverName", input.ReceiverName)
	if input.UsageIndicator != "P" && input.UsageIndicator != "T" {
		addError("usageIndicator", "must be 'P' (production) or 'T' (test)")
	}

	// Billing provider (Loop 2010AA)
	bp := &input.BillingProvider
	if !npiPattern.MatchString(bp.NPI) {
		addError("billingProvider.npi", "must be exactly 10 digits")
	}
	if !taxIDPattern.MatchString(bp.TaxID) {
		addError("billingProvider.taxId", "must be exactly 9 digits")
	}
	require("billingProvider.orgName", bp.OrgName)
	require("billingProvider.taxonomy", bp.Taxonomy)
	require("billingProvider.contactName", bp.ContactName)
	require("billingProvider.contactPhone", bp.ContactPhone)
	validateAddress(&errs, "billingProvider.address", &bp.Address, false)

	// Rendering provider (Loop 2310B), optional
	if rp := input.RenderingProvider; rp != nil {
		if !npiPattern.MatchString(rp.NPI) {
			addError("renderingProvider.npi", "must be exactly 10 digits")
		}
		require("renderingProvider.lastName", rp.LastName)
	}

	// Referring provider (Loop 2310A), optional
	if rp := input.ReferringProvider; rp != nil {
		if !npiPattern.MatchString(rp.NPI) {
			addError("referringProvider.npi", "must be exactly 10 digits")
		}
		require("referringProvider.lastName", rp.LastName)
	}

	// Subscriber (Loop 2010BA)
	sub := &input.Subscriber
	require("subscriber.memberId", sub.MemberID)
	require("subscriber.firstName", sub.FirstName)
	require("subscriber.lastName", sub.LastName)
	if !isoDatePattern.MatchString(sub.DOB) {
		addError("subscriber.dob", "must be in YYYY-MM-DD format")
	}
	if !validGender(sub.Gender) {
		addError("subscriber.gender", "must be one of M, F, U")
	}
	validateAddress(&errs, "subscriber.address", &sub.Address, false)

	// Patient (Loop 2010CA), present only when patient != subscriber
	if pat := input.Patient; pat != nil {
		require("patient.firstName", pat.FirstName)
		require("patient.lastName", pat.LastName)
		if !isoDatePattern.MatchString(pat.DOB) {
			addError("patient.dob", "must be in YYYY-MM-DD format")
		}
		if !validGender(pat.Gender) {
			addError("patient.gender", "must be one of M, F, U")
		}
		require("patient.relationshipToSubscriber", pat.RelationshipToSubscriber)
		if pat.RelationshipToSubscriber == "18" {
			addWarning("patient.relationshipToSubscriber",
				"relationship '18' (Self) should be modeled by omitting the patient and using the subscriber only")
		}
		validateAddress(&errs, "patient.address", &pat.Address, false)
	}

	// Payer (Loop 2010BB)
	require("payer.payerId", input.Payer.PayerID)
	require("payer.name", input.Payer.Name)
	require("payer.claimFilingCode", input.Payer.ClaimFilingCode)
	if input.Payer.Address != nil {
		validateAddress(&errs, "payer.address", input.Payer.Address, true)
	}

	// Claim header (Loop 2300)
	cl := &input.Claim
	require("claim.claimId", cl.ClaimID)
	require("claim.placeOfService", cl.PlaceOfService)
	if cl.TotalChargesCents <= 0 {
		addError("claim.totalChargesCents", "must be a positive integer (cents)")
	}
	if len(cl.DiagnosisCodes) == 0 {
		addError("claim.diagnosisCodes", "at least one diagnosis code is required")
	} else if len(cl.DiagnosisCodes) > MaxDiagnosisCodes {
		addError("claim.diagnosisCodes", fmt.Sprintf("at most %d diagnosis codes are allowed", MaxDiagnosisCodes))
	}
	for _, field := range []struct{ name, value string }{
		{"claim.onsetDate", cl.OnsetDate},
		{"claim.initialTreatmentDate", cl.InitialTreatmentDate},
		{"claim.lastSeenDate", cl.LastSeenDate},
	} {
		if field.value != "" && !isoDatePattern.MatchString(field.value) {
			addError(field.name, "must be in YYYY-MM-DD format")
		}
	}

	// Service lines (Loop 2400)
	if len(input.ServiceLines) == 0 {
		addError("serviceLines", "at least one service line is required")
	}
	var lineTotal int64
	for i, line := range input.ServiceLines {
		prefix := fmt.Sprintf("serviceLines[%d]", i)
		if !cptPattern.MatchString(line.CPTCode) {
			addError(prefix+".cptCode", "must be a 5-character CPT/HCPCS code")
		}
		if line.ChargeCents <= 0 {
			addError(prefix+".chargeCents", "must be a positive integer (cents)")
		}
		if line.Units <= 0 {
			addError(prefix+".units", "must be a positive number")
		}
		if len(line.DiagnosisPointers) < 1 || len(line.DiagnosisPointers) > 4 {
			addError(prefix+".diagnosisPointers", "must contain 1 to 4 pointers")
		}
		for _, ptr := range line.DiagnosisPointers {
			if ptr < 1 || ptr > len(cl.DiagnosisCodes) {
				addError(prefix+".diagnosisPointers",
					fmt.Sprintf("pointer %d does not reference an existing diagnosis code", ptr))
			}
		}
		if len(line.Modifiers) > MaxServiceLineModifier {
			addError(prefix+".modifiers", fmt.Sprintf("at most %d modifiers are allowed", MaxServiceLineModifier))
		}
		for _, mod := range line.Modifiers {
			if !modifierPattern.MatchString(mod) {
				addError(prefix+".modifiers", fmt.Sprintf("modifier %q must be 2 characters (A-Z, 0-9)", mod))
			}
		}
		if !isoDatePattern.MatchString(line.ServiceDate) {
			addError(prefix+".serviceDate", "must be in YYYY-MM-DD format")
		}
		if line.ServiceDateEnd != "" && !isoDatePattern.MatchString(line.ServiceDateEnd) {
			addError(prefix+".serviceDateEnd", "must be in YYYY-MM-DD format")
		}
		lineTotal += line.ChargeCents
	}

	// Line totals may legitimately differ from the claim total (bundled
	// pricing, line-item rounding), so a mismatch is surfaced but never
	// blocks generation.
	if len(input.ServiceLines) > 0 && cl.TotalChargesCents > 0 && lineTotal != cl.TotalChargesCents {
		addWarning("claim.totalChargesCents",
			fmt.Sprintf("service line charges (%s) do not sum to the claim total (%s)",
				Amount(lineTotal), Amount(cl.TotalChargesCents)))
	}

	return errs
}

// HasErrors reports whether any finding has error severity. This is the
// sole gate the generator uses to decide whether to proceed.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

func validGender(g string) bool {
	return g == "M" || g == "F" || g == "U"
}

func validateAddress(errs *[]ValidationError, prefix string, a *Address, optional bool) {
	if optional && a.Line1 == "" && a.City == "" && a.State == "" && a.Zip == "" {
		return
	}
	if a.Line1 == "" {
		*errs = append(*errs, ValidationError{Field: prefix + ".line1", Message: "is required", Severity: SeverityError})
	}
	if a.City == "" {
		*errs = append(*errs, ValidationError{Field: prefix + ".city", Message: "is required", Severity: SeverityError})
	}
	if !statePattern.MatchString(a.State) {
		*errs = append(*errs, ValidationError{Field: prefix + ".state", Message: "must be a 2-letter state code", Severity: SeverityError})
	}
	if a.Zip == "" {
		*errs = append(*errs, ValidationError{Field: prefix + ".zip", Message: "is required", Severity: SeverityError})
	}
}
