package services

import (
	"sync"
	"time"

	"github.com/zatekoja/ehr-document-pipeline/internal/domain/entities"
)

// TransformationLog is the append-only audit trail of completed
// pipeline stages. It is the only mutable state shared across pipeline
// calls, so appends and reads are serialized with a mutex. Entry order
// across unrelated calls is observational only.
type TransformationLog struct {
	mu      sync.Mutex
	records []entities.TransformationRecord
}

// NewTransformationLog creates an empty transformation log.
func NewTransformationLog() *TransformationLog {
	return &TransformationLog{}
}

// Append records a completed stage with its stage-specific metric.
func (l *TransformationLog) Append(stage, subjectID string, metric float64) {
	record := entities.TransformationRecord{
		Timestamp: time.Now().UTC(),
		Stage:     stage,
		SubjectID: subjectID,
		Metric:    metric,
	}
	l.mu.Lock()
	l.records = append(l.records, record)
	l.mu.Unlock()
}

// Stats summarizes the log. An empty log yields a zero-value summary,
// not an error.
func (l *TransformationLog) Stats() entities.PipelineStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	stats := entities.PipelineStats{
		TotalTransformations: len(l.records),
		Stages:               make(map[string]int),
	}
	for _, record := range l.records {
		stats.Stages[record.Stage]++
	}
	if len(l.records) > 0 {
		last := l.records[len(l.records)-1].Timestamp
		stats.LastTransformation = &last
	}
	return stats
}
