package services

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zatekoja/ehr-document-pipeline/internal/domain/entities"
)

func TestTransformationLog_EmptyStats(t *testing.T) {
	log := NewTransformationLog()

	stats := log.Stats()
	assert.Equal(t, 0, stats.TotalTransformations)
	assert.Empty(t, stats.Stages)
	assert.Nil(t, stats.LastTransformation)
}

func TestTransformationLog_AppendAndStats(t *testing.T) {
	log := NewTransformationLog()

	log.Append(entities.StageBronzeToSilver, "DOC001", 6)
	log.Append(entities.StageBronzeToSilver, "DOC002", 3)
	log.Append(entities.StageSilverToGold, "PT001", 0.79)

	stats := log.Stats()
	assert.Equal(t, 3, stats.TotalTransformations)
	assert.Equal(t, 2, stats.Stages[entities.StageBronzeToSilver])
	assert.Equal(t, 1, stats.Stages[entities.StageSilverToGold])
	assert.NotNil(t, stats.LastTransformation)
}

func TestTransformationLog_ConcurrentAppends(t *testing.T) {
	log := NewTransformationLog()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			log.Append(entities.StageBronzeToSilver, fmt.Sprintf("DOC%03d", n), 1)
		}(i)
	}
	wg.Wait()

	stats := log.Stats()
	assert.Equal(t, 100, stats.TotalTransformations)
	assert.Equal(t, 100, stats.Stages[entities.StageBronzeToSilver])
}
