package services

import (
	"github.com/zatekoja/ehr-document-pipeline/internal/domain/entities"
)

// Quality scoring for extracted and structured clinical records. Each
// record shape has its own scoring function, selected by an explicit
// switch where a mixed batch is scored. Scores are computed once at
// construction time and never re-evaluated.

// clampScore bounds a score to [0, 1].
func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// ScoreClinicalEntity scores a flat extracted entity. The base is the
// extractor's confidence, with bonuses for a normalized code and
// temporal information.
func ScoreClinicalEntity(e entities.ClinicalEntity) float64 {
	score := e.ConfidenceScore
	if e.NormalizedCode != "" {
		score += 0.2
	}
	if e.TemporalInfo != "" {
		score += 0.1
	}
	return clampScore(score)
}

// ScoreLabResult scores a structured lab result by field completeness.
func ScoreLabResult(lab entities.LabResult) float64 {
	score := 0.6
	if lab.Unit != "" {
		score += 0.1
	}
	if lab.ReferenceRange != "" {
		score += 0.1
	}
	if lab.AbnormalFlag != "" {
		score += 0.1
	}
	if lab.LoincCode != "" {
		score += 0.2
	}
	return clampScore(score)
}

// ScoreMedicationDetail scores a structured medication order. The core
// fields carry most of the weight, supporting fields add a tenth each.
func ScoreMedicationDetail(med entities.MedicationDetail) float64 {
	core := 0
	if med.Name != "" {
		core++
	}
	if med.Dosage != "" {
		core++
	}
	if med.Frequency != "" {
		core++
	}
	supporting := 0
	if med.Route != "" {
		supporting++
	}
	if med.StartDate != "" {
		supporting++
	}
	if med.RxNormCode != "" {
		supporting++
	}
	return clampScore(0.7*float64(core)/3 + 0.1*float64(supporting))
}

// ScoreDiagnosisDetail scores a structured coded diagnosis.
func ScoreDiagnosisDetail(dx entities.DiagnosisDetail) float64 {
	score := 0.6 * dx.ConfidenceScore
	if dx.ICD10Code != "" {
		score += 0.3
	}
	if dx.DiagnosisDate != "" {
		score += 0.1
	}
	return clampScore(score)
}
