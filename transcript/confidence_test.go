package transcript

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateConfidence(t *testing.T) {
	block := func(role Role, conf ...float64) ClassifiedBlock {
		return ClassifiedBlock{TextBlock: TextBlock{ElementConfidences: conf}, Role: role}
	}
	tests := []struct {
		name     string
		blocks   []ClassifiedBlock
		expected float64
	}{
		{"no blocks", nil, 0.5},
		{"no elements", []ClassifiedBlock{block(RoleMessage)}, 0.5},
		{"average over elements", []ClassifiedBlock{block(RoleMessage, 0.9), block(RoleNameCandidate, 0.8, 0.7)}, 0.8},
		{"noise is ignored", []ClassifiedBlock{block(RoleMessage, 1.0), block(RoleNoise, 0.0, 0.0)}, 1.0},
		{"only noise", []ClassifiedBlock{block(RoleNoise, 0.2)}, 0.5},
		{"clamped and NaN skipped", []ClassifiedBlock{block(RoleMessage, 1.5, -1, math.NaN())}, 0.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, EstimateConfidence(tc.blocks, 0.5), 1e-9)
		})
	}
}
