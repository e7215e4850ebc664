package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"already two places", 5000.00, 5000},
		{"half rounds up", 2.345, 2.35},
		{"half away from zero on negatives", -2.345, -2.35},
		{"binary-inexact half", 1.005, 1.01},
		{"truncates below half", 4166.6666666, 4166.67},
		{"below half", 10.004, 10},
		{"zero", 0, 0},
		{"large amount", 123456789.125, 123456789.13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Round2(tt.in))
		})
	}
}

func TestRound2Idempotent(t *testing.T) {
	for _, x := range []float64{0, 0.005, 1.005, 2.675, 99.999, 115000.0000001, 5000 / 3.0, -7.125, 1e9 / 7} {
		once := Round2(x)
		assert.Equal(t, once, Round2(once), "x=%v", x)
	}
}

func TestRound2NonFinite(t *testing.T) {
	assert.True(t, math.IsNaN(Round2(math.NaN())))
	assert.True(t, math.IsInf(Round2(math.Inf(1)), 1))
	assert.True(t, math.IsInf(Round2(math.Inf(-1)), -1))
}
