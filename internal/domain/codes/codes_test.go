package codes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRxNorm(t *testing.T) {
	code, ok := RxNorm("metformin")
	assert.True(t, ok)
	assert.Equal(t, "6809", code)

	code, ok = RxNorm("aspirin")
	assert.False(t, ok)
	assert.Empty(t, code)
}

func TestLOINC(t *testing.T) {
	code, ok := LOINC("hemoglobin_a1c")
	assert.True(t, ok)
	assert.Equal(t, "4548-4", code)

	code, ok = LOINC("egfr")
	assert.True(t, ok)
	assert.Equal(t, "33914-3", code)

	_, ok = LOINC("troponin")
	assert.False(t, ok)
}
