package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zatekoja/ehr-document-pipeline/internal/domain/entities"
)

func TestGenerateDataset_Counts(t *testing.T) {
	gen := NewGeneratorServiceWithSeed(42)

	dataset := gen.GenerateDataset(5, 3, 6)

	assert.Len(t, dataset.Patients, 5)
	assert.Len(t, dataset.DerivedFacts, 5)
	assert.GreaterOrEqual(t, len(dataset.Resources), 5*3)
	assert.LessOrEqual(t, len(dataset.Resources), 5*6)
}

func TestGenerateDataset_Deterministic(t *testing.T) {
	first := NewGeneratorServiceWithSeed(7).GenerateDataset(3, 3, 6)
	second := NewGeneratorServiceWithSeed(7).GenerateDataset(3, 3, 6)

	assert.Equal(t, len(first.Resources), len(second.Resources))
	for i := range first.Patients {
		assert.Equal(t, first.Patients[i].Name, second.Patients[i].Name)
	}
}

func TestGenerateDataset_PatientShape(t *testing.T) {
	gen := NewGeneratorServiceWithSeed(1)
	dataset := gen.GenerateDataset(3, 3, 6)

	for i, patient := range dataset.Patients {
		assert.NotEmpty(t, patient.ID)
		assert.True(t, patient.ConsentGiven)
		assert.NotNil(t, patient.Preferences)
		assert.NotEmpty(t, patient.Preferences.PreferredLocation)
		assert.NotEmpty(t, patient.Preferences.ConditionFocus)
		assert.NotEmpty(t, patient.Preferences.TrialPhasePreference)
		if i == 0 {
			assert.Equal(t, "P001", patient.ID)
		}
	}
}

func TestGenerateDataset_ResourceMetadata(t *testing.T) {
	gen := NewGeneratorServiceWithSeed(9)
	dataset := gen.GenerateDataset(4, 3, 6)

	for _, resource := range dataset.Resources {
		assert.NotEmpty(t, resource.Metadata.Identifier.Key)
		assert.NotEmpty(t, resource.Metadata.Identifier.PatientID)
		assert.NotEmpty(t, resource.Metadata.ResourceType)
		assert.NotEmpty(t, resource.HumanReadableStr)
		assert.False(t, resource.Metadata.FetchTime.Before(resource.Metadata.CreatedTime))

		if resource.Metadata.State == entities.ProcessingStateCompleted {
			assert.NotNil(t, resource.Metadata.ProcessedTime)
			assert.NotEmpty(t, resource.AISummary)
		} else {
			assert.Nil(t, resource.Metadata.ProcessedTime)
			assert.Empty(t, resource.AISummary)
		}
	}
}

func TestGenerateDataset_DerivedFactsScored(t *testing.T) {
	gen := NewGeneratorServiceWithSeed(3)
	dataset := gen.GenerateDataset(5, 3, 6)

	for _, facts := range dataset.DerivedFacts {
		assert.NotEmpty(t, facts.Diagnoses)
		assert.NotEmpty(t, facts.Medications)
		assert.NotEmpty(t, facts.KeyLabs)
		assert.Greater(t, facts.AgeYears, 0)

		for _, dx := range facts.Diagnoses {
			assert.Greater(t, dx.QualityScore, 0.0)
			assert.LessOrEqual(t, dx.QualityScore, 1.0)
			assert.NotEmpty(t, dx.ICD10Code)
		}
		for _, med := range facts.Medications {
			assert.Greater(t, med.QualityScore, 0.0)
			assert.LessOrEqual(t, med.QualityScore, 1.0)
		}
		for _, lab := range facts.KeyLabs {
			assert.GreaterOrEqual(t, lab.QualityScore, 0.6)
			assert.LessOrEqual(t, lab.QualityScore, 1.0)
		}
	}
}

func TestGeneratedLabReport_FeedsExtractor(t *testing.T) {
	gen := NewGeneratorServiceWithSeed(11)
	extraction := NewExtractionService()

	// Lab reports mention A1C and eGFR in a form the lab rules match.
	arch := patientArchetypes[0]
	report := gen.labReport(arch)
	extracted := extraction.Extract(report)

	labs := findByKind(extracted, entities.EntityKindLabValue)
	assert.NotEmpty(t, labs)

	hasA1C := false
	for _, lab := range labs {
		if lab.NormalizedCode == "4548-4" {
			hasA1C = true
		}
	}
	assert.True(t, hasA1C)
}

func TestGeneratedClinicalNote_FeedsExtractor(t *testing.T) {
	gen := NewGeneratorServiceWithSeed(13)
	extraction := NewExtractionService()

	arch := patientArchetypes[1]
	note := gen.clinicalNote(arch)
	extracted := extraction.Extract(note)

	assert.NotEmpty(t, findByKind(extracted, entities.EntityKindMedication))
	assert.NotEmpty(t, findByKind(extracted, entities.EntityKindDiagnosis))
}
