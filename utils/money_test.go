package utils_test

import (
	"testing"

	"encomiendas-backend/utils"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{10.1, 10.1},
		{4.848, 4.85},
		{0.125, 0.13},   // exact binary half, rounds away from zero
		{-0.125, -0.13}, // same, negative side
		{-1.234, -1.23},
		{1.005, 1.0}, // stored just below 1.005, rounds down
		{2.675, 2.67},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, utils.Round2(tc.in), "Round2(%v)", tc.in)
	}
}
