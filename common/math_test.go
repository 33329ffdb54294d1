package common

import (
	"errors"
	"math"
	"math/big"
	"testing"
)

func TestBigToBoundedInt64(t *testing.T) {
	huge, _ := big.NewInt(0).SetString("115792089237316195423570985008687907853269984665640564039457", 10)

	tests := []struct {
		name     string
		in       *big.Int
		want     int64
		overflow bool
	}{
		{"nil", nil, 0, false},
		{"zero", big.NewInt(0), 0, false},
		{"typical score", big.NewInt(70), 70, false},
		{"int32 max", big.NewInt(math.MaxInt32), math.MaxInt32, false},
		{"int32 max plus one", big.NewInt(math.MaxInt32 + 1), 0, true},
		{"negative in range", big.NewInt(-5), -5, false},
		{"int32 min minus one", big.NewInt(math.MinInt32 - 1), 0, true},
		{"uint256 sized", huge, 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := BigToBoundedInt64(tc.in)
			if tc.overflow {
				var overflowErr *NumericOverflowError
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

func TestGweiToWei(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1, "1000000000"},
		{1.5, "1500000000"},
		{0, "0"},
	}
	for _, tc := range tests {
		if got := GweiToWei(tc.in).String(); got != tc.want {
			t.Errorf("GweiToWei(%v) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestShortAddress(t *testing.T) {
	got := ShortAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	if got != "0x5FbD...0aa3" {
		t.Errorf("got %q", got)
	}
	if ShortAddress("0x1234") != "0x1234" {
		t.Error("short input should pass through unchanged")
	}
}
