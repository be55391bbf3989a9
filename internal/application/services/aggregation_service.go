package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/zatekoja/ehr-document-pipeline/internal/domain/entities"
)

// Assessment values for trial eligibility factors.
const (
	assessmentUnknown = "unknown"

	primaryConditionLimit = 3
)

var (
	decimalPattern = regexp.MustCompile(`(\d+\.?\d*)`)
	integerPattern = regexp.MustCompile(`(\d+)`)
)

// AggregationService builds business-ready patient profiles from
// extracted entities plus caller-supplied demographics (the gold
// layer). Aggregate is a pure function: the same inputs always produce
// the same profile, and a new profile replaces rather than merges with
// any prior one for the patient.
type AggregationService struct{}

// NewAggregationService creates an aggregation service.
func NewAggregationService() *AggregationService {
	return &AggregationService{}
}

// Aggregate partitions a document's entities by kind, derives condition
// lists and trial eligibility factors, and scores the profile's
// business value. It never fails: missing demographics default to zero
// or "unknown" and unparsable lab values degrade assessments to
// "unknown".
func (s *AggregationService) Aggregate(patientID string, extracted []entities.ClinicalEntity, demographics entities.Demographics) *entities.PatientProfile {
	medications := []string{}
	diagnoses := []string{}
	contraindications := []string{}
	for _, e := range extracted {
		switch e.Kind {
		case entities.EntityKindMedication:
			medications = append(medications, e.Value)
		case entities.EntityKindDiagnosis:
			diagnoses = append(diagnoses, e.Value)
		case entities.EntityKindContraindication:
			contraindications = append(contraindications, e.Value)
		}
	}

	// First three diagnoses in discovery order become primary
	// conditions, the rest comorbidities.
	split := len(diagnoses)
	if split > primaryConditionLimit {
		split = primaryConditionLimit
	}
	primaryConditions := diagnoses[:split]
	comorbidities := diagnoses[split:]

	sex := demographics.Sex
	if sex == "" {
		sex = assessmentUnknown
	}
	location := demographics.Location
	if location == "" {
		location = assessmentUnknown
	}

	profile := &entities.PatientProfile{
		PatientID:          patientID,
		AgeYears:           demographics.Age,
		Sex:                sex,
		PrimaryConditions:  primaryConditions,
		Comorbidities:      comorbidities,
		CurrentMedications: medications,
		Contraindications:  contraindications,
		GeographicLocation: location,
		TrialEligibilityFactors: map[string]string{
			"diabetes_controlled": assessDiabetesControl(extracted),
			"renal_function":      assessRenalFunction(extracted),
			"cardiac_risk":        assessCardiacRisk(extracted),
		},
	}
	profile.BusinessValue = businessValue(profile)
	return profile
}

// assessDiabetesControl categorizes glycemic control from the first
// A1C lab entity.
func assessDiabetesControl(extracted []entities.ClinicalEntity) string {
	value, ok := firstLabValue(extracted, "hemoglobin_a1c", decimalPattern)
	if !ok {
		return assessmentUnknown
	}
	switch {
	case value < 7.0:
		return "well_controlled"
	case value < 8.0:
		return "moderately_controlled"
	default:
		return "poorly_controlled"
	}
}

// assessRenalFunction categorizes kidney function from the first eGFR
// lab entity.
func assessRenalFunction(extracted []entities.ClinicalEntity) string {
	value, ok := firstLabValue(extracted, "egfr", integerPattern)
	if !ok {
		return assessmentUnknown
	}
	switch {
	case value >= 90:
		return "normal"
	case value >= 60:
		return "mild_impairment"
	case value >= 30:
		return "moderate_impairment"
	default:
		return "severe_impairment"
	}
}

// assessCardiacRisk counts distinct cardiovascular risk factors among
// the diagnosis entities.
func assessCardiacRisk(extracted []entities.ClinicalEntity) string {
	riskFactors := 0
	for _, factor := range []string{"hypertension", "hyperlipidemia", "diabetes"} {
		for _, e := range extracted {
			if e.Kind == entities.EntityKindDiagnosis && strings.Contains(strings.ToLower(e.Value), factor) {
				riskFactors++
				break
			}
		}
	}
	switch {
	case riskFactors >= 3:
		return "high"
	case riskFactors == 2:
		return "moderate"
	case riskFactors == 1:
		return "low"
	default:
		return "minimal"
	}
}

// firstLabValue finds the first lab entity whose value mentions the
// given measurement and parses its numeric reading.
func firstLabValue(extracted []entities.ClinicalEntity, measurement string, numberPattern *regexp.Regexp) (float64, bool) {
	for _, e := range extracted {
		if e.Kind != entities.EntityKindLabValue || !strings.Contains(e.Value, measurement) {
			continue
		}
		// The measurement label can itself contain digits (a1c), so
		// only the text after the label holds the reading.
		reading := e.Value[strings.Index(e.Value, measurement)+len(measurement):]
		match := numberPattern.FindString(reading)
		if match == "" {
			return 0, false
		}
		value, err := strconv.ParseFloat(match, 64)
		if err != nil {
			return 0, false
		}
		return value, true
	}
	return 0, false
}

// businessValue scores how ready a profile is for trial matching,
// weighting field completeness over list richness.
func businessValue(p *entities.PatientProfile) float64 {
	present := 0
	if len(p.PrimaryConditions) > 0 {
		present++
	}
	if len(p.CurrentMedications) > 0 {
		present++
	}
	if p.GeographicLocation != "" && p.GeographicLocation != assessmentUnknown {
		present++
	}
	if p.AgeYears > 0 {
		present++
	}
	if p.Sex != "" && p.Sex != assessmentUnknown {
		present++
	}
	completeness := float64(present) / 5

	richness := 0.2*float64(len(p.PrimaryConditions)) +
		0.1*float64(len(p.Comorbidities)) +
		0.1*float64(len(p.CurrentMedications))
	if richness > 1.0 {
		richness = 1.0
	}

	return 0.7*completeness + 0.3*richness
}
