package aggregator

import (
	"errors"
	"math/big"
	"testing"

	"github.com/jobverify/jobverify/common"
)

func TestCoerceTrustScore(t *testing.T) {
	oversized, _ := big.NewInt(0).SetString("340282366920938463463374607431768211455", 10)

	tests := []struct {
		name     string
		input    interface{}
		want     int64
		overflow bool
	}{
		{"nil", nil, 0, false},
		{"big int in range", big.NewInt(85), 85, false},
		{"big int above cap clamps", big.NewInt(250), 100, false},
		{"big int oversized", oversized, 0, true},
		{"native int", 42, 42, false},
		{"int64", int64(99), 99, false},
		{"uint8", uint8(7), 7, false},
		{"uint64 oversized", uint64(1) << 40, 0, true},
		{"numeric string", "73", 73, false},
		{"numeric string with spaces", "  12 ", 12, false},
		{"oversized string", "99999999999999999999", 0, true},
		{"junk string", "not a number", 0, false},
		{"negative clamps to zero", big.NewInt(-5), 0, false},
		{"unknown type", struct{}{}, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := coerceTrustScore(tc.input)
			if tc.overflow {
				var overflowErr *common.NumericOverflowError
				if !errors.As(err, &overflowErr) {
					t.Fatalf("expected a NumericOverflowError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status uint8
		want   string
	}{
		{0, StatusActive},
		{1, StatusClosed},
		{2, StatusFilled},
		{3, StatusCancelled},
		{200, StatusCancelled},
	}
	for _, tc := range tests {
		if got := statusString(tc.status); got != tc.want {
			t.Errorf("statusString(%d) = %q, want %q", tc.status, got, tc.want)
		}
	}
}
