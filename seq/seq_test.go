package seq

import (
	"math"
	"testing"
)

func TestGT(t *testing.T) {
	cases := []struct {
		a, b     uint32
		expected bool
	}{
		{1, 0, true},
		{0, 1, false},
		{0, 0, false},
		{5, 5, false},
		// wrap-around: a just after the uint32 boundary is newer than b
		// just before it.
		{0, math.MaxUint32, true},
		{math.MaxUint32, 0, false},
		{math.MaxUint32, math.MaxUint32 - 1, true},
	}
	for _, c := range cases {
		if got := GT(c.a, c.b); got != c.expected {
			t.Errorf("GT(%d, %d) = %v, want %v", c.a, c.b, got, c.expected)
		}
	}
}

func TestLTAndBoundaries(t *testing.T) {
	if !LT(5, 6) {
		t.Error("expected 5 < 6")
	}
	if LT(6, 5) {
		t.Error("expected 6 not< 5")
	}
	if !GE(5, 5) || !GE(6, 5) || GE(4, 5) {
		t.Error("GE boundary case failed")
	}
	if !LE(5, 5) || !LE(4, 5) || LE(6, 5) {
		t.Error("LE boundary case failed")
	}
}
