package chrony_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aimana007/ChronyTop/internal/chrony"
)

func TestReachRoundTrip(t *testing.T) {
	for r := 0; r <= 255; r++ {
		bits := chrony.DecodeReach(r)
		assert.Equal(t, r, chrony.EncodeReach(bits))
	}
}

func TestDecodeReachBitOrder(t *testing.T) {
	// Bit 0 is the most recent poll.
	bits := chrony.DecodeReach(0b00000001)
	assert.True(t, bits[0])
	for i := 1; i < 8; i++ {
		assert.False(t, bits[i])
	}

	bits = chrony.DecodeReach(0b10000000)
	assert.True(t, bits[7])
	assert.False(t, bits[0])
}

func TestReachDots(t *testing.T) {
	assert.Equal(t, "????????", chrony.ReachDots(nil))

	full := 0o377
	assert.Equal(t, "●●●●●●●●", chrony.ReachDots(&full))

	one := 1
	dots := []rune(chrony.ReachDots(&one))
	require.Len(t, dots, 8)
	assert.Equal(t, '●', dots[0], "newest poll renders leftmost")
	assert.Equal(t, '○', dots[7])
}

func TestIsErrorOutput(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want bool
	}{
		{"empty", "", true},
		{"whitespace", "  \n ", true},
		{"daemon down", "506 Cannot talk to daemon", true},
		{"socket missing", "Could not open command socket", true},
		{"refused", "Connection refused", true},
		{"permission", "Operation not permitted", true},
		{"valid", "Reference ID : C0A80101", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chrony.IsErrorOutput(tt.out))
		})
	}
}
