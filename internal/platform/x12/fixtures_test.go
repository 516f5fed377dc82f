package x12

// Shared claim fixtures for validator and generator tests. adultClaim is
// a subscriber-is-patient Medicaid claim with four service lines summing
// to the claim total; pediatricClaim adds a dependent patient level.

func adultClaim() *Claim837PInput {
	return &Claim837PInput{
		SubmitterID:    "SUB123",
		SubmitterName:  "ACME BILLING SERVICE",
		ReceiverID:     "RCV456",
		ReceiverName:   "STATE MEDICAID",
		UsageIndicator: "P",
		BillingProvider: BillingProvider{
			NPI:          "1234567890",
			TaxID:        "123456789",
			Taxonomy:     "225100000X",
			OrgName:      "RIVERSIDE THERAPY GROUP",
			Address:      Address{Line1: "100 Main St", City: "Springfield", State: "IL", Zip: "62701"},
			ContactName:  "Jane Biller",
			ContactPhone: "5551234567",
			ContactEmail: "billing@riverside.example",
		},
		RenderingProvider: &RenderingProvider{
			NPI:       "9876543210",
			FirstName: "Robert",
			LastName:  "Smith",
			Taxonomy:  "225100000X",
		},
		Subscriber: Subscriber{
			MemberID:  "MCD12345678",
			FirstName: "John",
			LastName:  "Doe",
			DOB:       "1980-05-15",
			Gender:    "M",
			Address:   Address{Line1: "200 Oak Ave", City: "Springfield", State: "IL", Zip: "62702"},
		},
		Payer: Payer{
			PayerID:         "77777",
			Name:            "STATE MEDICAID",
			ClaimFilingCode: "MC",
		},
		Claim: ClaimInfo{
			ClaimID:           "CLM-1001",
			TotalChargesCents: 35000,
			PlaceOfService:    "11",
			DiagnosisCodes:    []string{"M54.5", "M25.561"},
		},
		ServiceLines: []ServiceLine{
			{LineNumber: 1, CPTCode: "97110", Modifiers: []string{"GP"}, ChargeCents: 10000, Units: 2, DiagnosisPointers: []int{1}, ServiceDate: "2024-03-10"},
			{LineNumber: 2, CPTCode: "97112", Modifiers: []string{"GP"}, ChargeCents: 10000, Units: 2, DiagnosisPointers: []int{1, 2}, ServiceDate: "2024-03-10"},
			{LineNumber: 3, CPTCode: "97140", Modifiers: []string{"GP"}, ChargeCents: 7500, Units: 1, DiagnosisPointers: []int{2}, ServiceDate: "2024-03-10"},
			{LineNumber: 4, CPTCode: "97530", Modifiers: []string{"GP"}, ChargeCents: 7500, Units: 1, DiagnosisPointers: []int{1}, ServiceDate: "2024-03-10"},
		},
	}
}

func pediatricClaim() *Claim837PInput {
	input := adultClaim()
	input.Patient = &Patient{
		FirstName:                "Emma",
		LastName:                 "Doe",
		DOB:                      "2015-09-01",
		Gender:                   "F",
		Address:                  Address{Line1: "200 Oak Ave", City: "Springfield", State: "IL", Zip: "62702"},
		RelationshipToSubscriber: "19",
	}
	return input
}
