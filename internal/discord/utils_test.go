package discord

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1500000, "1,500,000"},
		{5400000000, "5,400,000,000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatNumber(tt.in))
	}
}

func TestTernary(t *testing.T) {
	assert.Equal(t, "a", ternary(true, "a", "b"))
	assert.Equal(t, "b", ternary(false, "a", "b"))
	assert.Equal(t, 2, ternary(false, 1, 2))
}
