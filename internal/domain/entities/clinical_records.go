package entities

// Structured clinical records used where richer shapes than the flat
// ClinicalEntity are modeled: the synthetic derived-facts dataset and the
// per-kind quality scorers. Optional fields are empty strings when the
// source document did not carry them.

// LabResult is a structured laboratory result.
type LabResult struct {
	TestName       string  `json:"test_name"`
	Value          float64 `json:"value"`
	Unit           string  `json:"unit,omitempty"`
	ReferenceRange string  `json:"reference_range,omitempty"`
	AbnormalFlag   string  `json:"abnormal_flag,omitempty"`
	LoincCode      string  `json:"loinc_code,omitempty"`
	TestDate       string  `json:"test_date,omitempty"`
	QualityScore   float64 `json:"quality_score"`
}

// MedicationDetail is a structured medication order.
type MedicationDetail struct {
	Name         string  `json:"name"`
	Dosage       string  `json:"dosage,omitempty"`
	Frequency    string  `json:"frequency,omitempty"`
	Route        string  `json:"route,omitempty"`
	StartDate    string  `json:"start_date,omitempty"`
	EndDate      string  `json:"end_date,omitempty"`
	RxNormCode   string  `json:"rxnorm_code,omitempty"`
	QualityScore float64 `json:"quality_score"`
}

// DiagnosisDetail is a structured coded diagnosis.
type DiagnosisDetail struct {
	Text            string  `json:"text"`
	ICD10Code       string  `json:"icd10_code,omitempty"`
	DiagnosisDate   string  `json:"diagnosis_date,omitempty"`
	DiagnosisType   string  `json:"diagnosis_type"`
	ConfidenceScore float64 `json:"confidence_score"`
	QualityScore    float64 `json:"quality_score"`
}

// DerivedFacts is the curated clinical summary generated alongside the
// synthetic dataset, one per patient.
type DerivedFacts struct {
	PatientID   string             `json:"patient_id"`
	AgeYears    int                `json:"age_years"`
	Sex         string             `json:"sex"`
	Diagnoses   []DiagnosisDetail  `json:"diagnoses"`
	Medications []MedicationDetail `json:"medications"`
	KeyLabs     []LabResult        `json:"key_labs"`
	Exclusions  []string           `json:"exclusions"`
	Location    string             `json:"location"`
	ExtractedAt string             `json:"extracted_at"`
}
