package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSessionID_Format(t *testing.T) {
	id := GenerateSessionID("simulate", "seed 42")

	assert.Regexp(t, regexp.MustCompile(`^simulate-seed-42-[0-9a-f]{8}$`), id)
	assert.NotEqual(t, id, GenerateSessionID("simulate", "seed 42"))
}

func TestGenerateSessionID_EmptyLabelIsLive(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^daemon-live-[0-9a-f]{8}$`), GenerateSessionID("daemon", " / "))
}

func TestMath(t *testing.T) {
	assert.Equal(t, 2, Min(2, 5))
	assert.Equal(t, 5, Max(2, 5))
	assert.Equal(t, 1.0, ClampFloat(1.7, 0, 1))
	assert.Equal(t, 0.0, ClampFloat(-0.2, 0, 1))
	assert.Equal(t, 0.5, ClampFloat(0.5, 0, 1))
}
