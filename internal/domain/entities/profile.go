package entities

// Demographics is the caller-supplied demographic record used during
// profile aggregation. Zero values are treated as unknown.
type Demographics struct {
	Age      int    `json:"age"`
	Sex      string `json:"sex"`
	Location string `json:"location"`
}

// PatientProfile is the business-ready aggregate produced from one
// document's extracted entities plus demographics (the gold layer).
//
// A profile is a pure function of its inputs: aggregating the same
// entities and demographics twice yields identical profiles. Aggregating
// again for the same patient replaces any previously stored profile; it
// never merges. Callers that aggregate concurrently for one patient must
// serialize those calls themselves if last-write-wins is not acceptable.
type PatientProfile struct {
	PatientID               string            `json:"patient_id"`
	AgeYears                int               `json:"age_years"`
	Sex                     string            `json:"sex"`
	PrimaryConditions       []string          `json:"primary_conditions"`
	Comorbidities           []string          `json:"comorbidities"`
	CurrentMedications      []string          `json:"current_medications"`
	Contraindications       []string          `json:"contraindications"`
	GeographicLocation      string            `json:"geographic_location"`
	TrialEligibilityFactors map[string]string `json:"trial_eligibility_factors"`
	BusinessValue           float64           `json:"business_value"`
}
