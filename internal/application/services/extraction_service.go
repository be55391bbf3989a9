package services

import (
	"regexp"
	"strings"

	"github.com/zatekoja/ehr-document-pipeline/internal/domain/codes"
	"github.com/zatekoja/ehr-document-pipeline/internal/domain/entities"
)

// Fixed per-rule confidence scores.
const (
	medicationConfidence = 0.9
	diagnosisConfidence  = 0.95
	labValueConfidence   = 0.85
)

// medicationRule matches one medication name with an optional dosage
// token.
type medicationRule struct {
	pattern *regexp.Regexp
}

// diagnosisRule matches a free-text synonym and maps every match to one
// canonical name and ICD-10 code.
type diagnosisRule struct {
	pattern       *regexp.Regexp
	icd10Code     string
	canonicalName string
}

// labRule matches a lab label followed by a numeric value.
type labRule struct {
	pattern *regexp.Regexp
	labName string
}

func newMedicationRule(name string) medicationRule {
	return medicationRule{
		pattern: regexp.MustCompile(`(` + name + `)(?:\s+(\d+\s*mg))?`),
	}
}

// ExtractionService turns raw document text into structured clinical
// entities by scanning fixed rule tables (the silver layer). Rules run
// in declaration order, medications first, then diagnoses, then lab
// values; within a rule matches are emitted left to right. That
// discovery order is preserved all the way into profile aggregation.
type ExtractionService struct {
	medicationRules []medicationRule
	diagnosisRules  []diagnosisRule
	labRules        []labRule
}

// NewExtractionService creates an extraction service with its rule
// tables compiled.
func NewExtractionService() *ExtractionService {
	return &ExtractionService{
		medicationRules: []medicationRule{
			newMedicationRule("metformin"),
			newMedicationRule("lisinopril"),
			newMedicationRule("atorvastatin"),
			newMedicationRule("amlodipine"),
			newMedicationRule("glipizide"),
			newMedicationRule("losartan"),
			newMedicationRule("semaglutide"),
		},
		diagnosisRules: []diagnosisRule{
			{regexp.MustCompile(`type\s+2\s+diabetes`), "E11.9", "Type 2 Diabetes"},
			{regexp.MustCompile(`hypertension`), "I10", "Essential Hypertension"},
			{regexp.MustCompile(`hyperlipidemia`), "E78.5", "Hyperlipidemia"},
			{regexp.MustCompile(`chronic\s+kidney\s+disease`), "N18.3", "Chronic kidney disease"},
			{regexp.MustCompile(`obesity`), "E66.9", "Obesity"},
		},
		labRules: []labRule{
			{regexp.MustCompile(`a1c:?\s*(\d+\.?\d*)\s*%`), "hemoglobin_a1c"},
			{regexp.MustCompile(`glucose:?\s*(\d+)\s*mg/dl`), "glucose"},
			{regexp.MustCompile(`creatinine:?\s*(\d+\.?\d*)\s*mg/dl`), "creatinine"},
			{regexp.MustCompile(`egfr:?\s*(\d+)`), "egfr"},
			{regexp.MustCompile(`ldl:?\s*(\d+)`), "ldl_cholesterol"},
			{regexp.MustCompile(`hdl:?\s*(\d+)`), "hdl_cholesterol"},
		},
	}
}

// Extract scans raw text against all rule tables and returns the
// matched entities in discovery order. Unrecognized or empty text
// yields an empty slice, never an error.
func (s *ExtractionService) Extract(rawText string) []entities.ClinicalEntity {
	text := strings.ToLower(rawText)

	result := []entities.ClinicalEntity{}
	result = append(result, s.extractMedications(text)...)
	result = append(result, s.extractDiagnoses(text)...)
	result = append(result, s.extractLabValues(text)...)
	return result
}

func (s *ExtractionService) extractMedications(text string) []entities.ClinicalEntity {
	var result []entities.ClinicalEntity
	for _, rule := range s.medicationRules {
		for _, match := range rule.pattern.FindAllStringSubmatch(text, -1) {
			name := match[1]
			dosage := match[2]

			value := name
			if dosage != "" {
				value = name + " " + dosage
			}
			code, _ := codes.RxNorm(name)

			entity := entities.ClinicalEntity{
				Kind:            entities.EntityKindMedication,
				Value:           value,
				ConfidenceScore: medicationConfidence,
				ExtractedFrom:   match[0],
				NormalizedCode:  code,
			}
			entity.QualityScore = ScoreClinicalEntity(entity)
			result = append(result, entity)
		}
	}
	return result
}

func (s *ExtractionService) extractDiagnoses(text string) []entities.ClinicalEntity {
	var result []entities.ClinicalEntity
	for _, rule := range s.diagnosisRules {
		for _, match := range rule.pattern.FindAllString(text, -1) {
			entity := entities.ClinicalEntity{
				Kind:            entities.EntityKindDiagnosis,
				Value:           rule.canonicalName,
				ConfidenceScore: diagnosisConfidence,
				ExtractedFrom:   match,
				NormalizedCode:  rule.icd10Code,
			}
			entity.QualityScore = ScoreClinicalEntity(entity)
			result = append(result, entity)
		}
	}
	return result
}

func (s *ExtractionService) extractLabValues(text string) []entities.ClinicalEntity {
	var result []entities.ClinicalEntity
	for _, rule := range s.labRules {
		for _, match := range rule.pattern.FindAllStringSubmatch(text, -1) {
			value := match[1]
			code, _ := codes.LOINC(rule.labName)

			entity := entities.ClinicalEntity{
				Kind:            entities.EntityKindLabValue,
				Value:           rule.labName + ": " + value,
				ConfidenceScore: labValueConfidence,
				ExtractedFrom:   match[0],
				NormalizedCode:  code,
			}
			entity.QualityScore = ScoreClinicalEntity(entity)
			result = append(result, entity)
		}
	}
	return result
}
