package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveDiscStyles(t *testing.T) {
	tests := []struct {
		name                                                string
		dominance, influence, steadiness, conscientiousness int
		wantPrimary, wantSecondary                          string
	}{
		{"conscientious dominant", 65, 45, 30, 80, "C", "D"},
		{"influence leads", 10, 90, 50, 20, "I", "S"},
		{"tie resolves in D I S C order", 50, 50, 50, 50, "D", "I"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary, secondary := deriveDiscStyles(tt.dominance, tt.influence, tt.steadiness, tt.conscientiousness)
			assert.Equal(t, tt.wantPrimary, primary)
			assert.Equal(t, tt.wantSecondary, secondary)
		})
	}
}

func TestMentalHealthRiskTier(t *testing.T) {
	tests := []struct {
		name                string
		phq9, gad7, burnout int
		want                string
	}{
		{"all mild", 8, 6, 45, "low"},
		{"moderate depression", 10, 6, 45, "moderate"},
		{"severe anxiety", 8, 15, 45, "high"},
		{"high burnout", 8, 6, 70, "high"},
		{"everything zero", 0, 0, 0, "low"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mentalHealthRiskTier(tt.phq9, tt.gad7, tt.burnout))
		})
	}
}

func TestDiscInsights(t *testing.T) {
	for _, style := range []string{"D", "I", "S", "C"} {
		assert.NotEmpty(t, discInsights(style), "style %s should produce insights", style)
	}
	// Unset primary style yields none
	assert.Empty(t, discInsights(""))
}
