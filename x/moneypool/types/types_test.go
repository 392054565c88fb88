package types

import (
	"testing"

	"cosmossdk.io/math"
)

func TestStateAt(t *testing.T) {
	mp := NewMoneyPool(1, "owner", 1000)
	mp.Duration = 100

	testCases := []struct {
		name     string
		now      int64
		expected PoolState
	}{
		{name: "before start", now: 999, expected: StateUpcoming},
		{name: "at start", now: 1000, expected: StateActive},
		{name: "at end", now: 1100, expected: StateActive},
		{name: "past end", now: 1101, expected: StateRedistributing},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := mp.StateAt(tc.now); got != tc.expected {
				t.Errorf("expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestCloneFrom(t *testing.T) {
	base := NewMoneyPool(3, "owner", 1000)
	base.WantDenom = "usus"
	base.Target = math.NewInt(500)
	base.Duration = 100
	base.Total = math.NewInt(700)
	base.Tapped = math.NewInt(200)
	base.Sustainments["alice"] = math.NewInt(700)
	base.Redistributed["alice"] = true

	mp := CloneFrom(base, 4, 1100)

	if mp.ID != 4 || mp.PreviousID != 3 {
		t.Errorf("expected id 4 linked after 3, got %d after %d", mp.ID, mp.PreviousID)
	}
	if mp.WantDenom != "usus" || !mp.Target.Equal(base.Target) || mp.Duration != base.Duration {
		t.Error("expected configured terms copied")
	}
	if !mp.Total.IsZero() || !mp.Tapped.IsZero() {
		t.Error("expected ledger totals zeroed")
	}
	if len(mp.Sustainments) != 0 || len(mp.Redistributed) != 0 {
		t.Error("expected ledger maps empty")
	}
}

func TestTrackedShareModes(t *testing.T) {
	testCases := []struct {
		name        string
		target      int64
		total       int64
		sustainment int64
		mode        string
		expected    int64
	}{
		{
			// floor(500*1000/1500) = 333; 500*333/1000 = 166
			name:        "legacy third of surplus",
			target:      1000,
			total:       1500,
			sustainment: 500,
			mode:        RedistributionModeLegacy,
			expected:    166,
		},
		{
			name:        "corrected third of surplus",
			target:      1000,
			total:       1500,
			sustainment: 500,
			mode:        RedistributionModeCorrected,
			expected:    166,
		},
		{
			// 5/20000 is under one per-mille: legacy truncates to nothing
			name:        "legacy sub-permille truncates to zero",
			target:      10000,
			total:       20000,
			sustainment: 5,
			mode:        RedistributionModeLegacy,
			expected:    0,
		},
		{
			name:        "corrected sub-permille keeps dust",
			target:      10000,
			total:       20000,
			sustainment: 5,
			mode:        RedistributionModeCorrected,
			expected:    2,
		},
		{
			name:        "no surplus no share",
			target:      1000,
			total:       1000,
			sustainment: 1000,
			mode:        RedistributionModeLegacy,
			expected:    0,
		},
		{
			name:        "sole sustainer takes full surplus",
			target:      1000,
			total:       1500,
			sustainment: 1500,
			mode:        RedistributionModeLegacy,
			expected:    500,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mp := NewMoneyPool(1, "owner", 0)
			mp.Target = math.NewInt(tc.target)
			mp.Total = math.NewInt(tc.total)
			mp.Sustainments["alice"] = math.NewInt(tc.sustainment)

			if got := mp.TrackedShare("alice", tc.mode); !got.Equal(math.NewInt(tc.expected)) {
				t.Errorf("expected share %d, got %s", tc.expected, got.String())
			}
		})
	}
}

func TestTappableCapsAtTarget(t *testing.T) {
	mp := NewMoneyPool(1, "owner", 0)
	mp.Target = math.NewInt(1000)
	mp.Total = math.NewInt(1500)
	mp.Tapped = math.NewInt(400)

	if got := mp.Tappable(); !got.Equal(math.NewInt(600)) {
		t.Errorf("expected tappable 600, got %s", got.String())
	}
	if got := mp.Surplus(); !got.Equal(math.NewInt(500)) {
		t.Errorf("expected surplus 500, got %s", got.String())
	}
}
