package keeper

import (
	"errors"
	"testing"
	"time"

	"cosmossdk.io/math"

	"github.com/sustainers/sustain-chain/x/moneypool/types"
)

func TestConfigureValidation(t *testing.T) {
	testCases := []struct {
		name     string
		target   math.Int
		duration int64
		denom    string
		expected error
	}{
		{
			name:     "zero target",
			target:   math.ZeroInt(),
			duration: 3600,
			denom:    "usus",
			expected: types.ErrInvalidTarget,
		},
		{
			name:     "negative target",
			target:   math.NewInt(-5),
			duration: 3600,
			denom:    "usus",
			expected: types.ErrInvalidTarget,
		},
		{
			name:     "zero duration",
			target:   math.NewInt(1000),
			duration: 0,
			denom:    "usus",
			expected: types.ErrInvalidDuration,
		},
		{
			name:     "bad denom",
			target:   math.NewInt(1000),
			duration: 3600,
			denom:    "",
			expected: types.ErrInvalidDenom,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			k, ctx, _ := setupKeeper(t)
			if _, err := k.Configure(ctx, testOwner, tc.target, tc.duration, tc.denom); !errors.Is(err, tc.expected) {
				t.Errorf("expected %v, got %v", tc.expected, err)
			}
			// Nothing allocated on a failed configure
			if count := k.PoolCount(ctx); count != 0 {
				t.Errorf("expected no pools allocated, got %d", count)
			}
		})
	}
}

func TestConfigureFirstPool(t *testing.T) {
	k, ctx, _ := setupKeeper(t)

	id, err := k.Configure(ctx, testOwner, math.NewInt(1000), 3600, "usus")
	if err != nil {
		t.Fatalf("configure failed: %v", err)
	}
	if id != 1 {
		t.Errorf("expected pool id 1, got %d", id)
	}

	mp := k.GetPool(ctx, id)
	if mp == nil {
		t.Fatal("expected pool to exist")
	}
	if mp.Owner != testOwner {
		t.Errorf("expected owner %s, got %s", testOwner, mp.Owner)
	}
	if !mp.Target.Equal(math.NewInt(1000)) {
		t.Errorf("expected target 1000, got %s", mp.Target.String())
	}
	if mp.Start != testGenesisTime.Unix() {
		t.Errorf("expected start %d, got %d", testGenesisTime.Unix(), mp.Start)
	}
	if !mp.Total.IsZero() || !mp.Tapped.IsZero() {
		t.Errorf("expected zeroed ledgers, got total %s tapped %s", mp.Total.String(), mp.Tapped.String())
	}
}

func TestConfigureReusesUnfundedActivePool(t *testing.T) {
	k, ctx, _ := setupKeeper(t)

	first := configurePool(t, k, ctx, testOwner, 1000, 3600)

	// Nothing contributed yet, terms may still change in place
	second := configurePool(t, k, ctx, testOwner, 2500, 7200)
	if second != first {
		t.Fatalf("expected configure to reuse pool %d, got %d", first, second)
	}

	mp := k.GetPool(ctx, first)
	if !mp.Target.Equal(math.NewInt(2500)) {
		t.Errorf("expected updated target 2500, got %s", mp.Target.String())
	}
	if mp.Duration != 7200 {
		t.Errorf("expected updated duration 7200, got %d", mp.Duration)
	}
}

func TestConfigureRedirectsAwayFromFundedPool(t *testing.T) {
	// Scenario: owner reconfigures with a new target before expiry. The
	// funded pool is untouched; a fresh pool carries the new terms.
	k, ctx, _ := setupKeeper(t)

	first := configurePool(t, k, ctx, testOwner, 1000, 3600)
	if _, err := k.Sustain(ctx, testSustainer, testOwner, math.NewInt(400), testSustainer); err != nil {
		t.Fatalf("sustain failed: %v", err)
	}

	second := configurePool(t, k, ctx, testOwner, 9999, 3600)
	if second == first {
		t.Fatal("expected configure to redirect away from the funded pool")
	}

	funded := k.GetPool(ctx, first)
	if !funded.Target.Equal(math.NewInt(1000)) {
		t.Errorf("expected funded pool target unchanged at 1000, got %s", funded.Target.String())
	}
	if !funded.Total.Equal(math.NewInt(400)) {
		t.Errorf("expected funded pool total unchanged at 400, got %s", funded.Total.String())
	}

	queued := k.GetPool(ctx, second)
	if !queued.Target.Equal(math.NewInt(9999)) {
		t.Errorf("expected queued pool target 9999, got %s", queued.Target.String())
	}
	if queued.PreviousID != first {
		t.Errorf("expected queued pool linked after %d, got %d", first, queued.PreviousID)
	}
	if len(queued.Sustainments) != 0 {
		t.Errorf("expected queued pool to start with empty sustainments, got %d entries", len(queued.Sustainments))
	}
}

func TestReconfigureQueuesBehindFundedPool(t *testing.T) {
	// Reconfiguring a funded pool mid-window must not open a second live
	// window: the replacement queues as Upcoming until the current one
	// closes.
	k, ctx, _ := setupKeeper(t)

	first := configurePool(t, k, ctx, testOwner, 1000, 3600)
	if _, err := k.Sustain(ctx, testSustainer, testOwner, math.NewInt(1000), testSustainer); err != nil {
		t.Fatalf("sustain failed: %v", err)
	}
	second := configurePool(t, k, ctx, testOwner, 2000, 3600)

	if state, err := k.PoolState(ctx, first); err != nil || state != types.StateActive {
		t.Errorf("expected funded pool %d to stay active, got %v (%v)", first, state, err)
	}
	if state, err := k.PoolState(ctx, second); err != nil || state != types.StateUpcoming {
		t.Errorf("expected replacement pool %d to be upcoming, got %v (%v)", second, state, err)
	}

	// Exactly one live window per owner
	active := 0
	now := ctx.BlockTime().Unix()
	for _, mp := range k.GetAllPools(ctx) {
		if mp.Owner == testOwner && mp.StateAt(now) == types.StateActive {
			active++
		}
	}
	if active != 1 {
		t.Errorf("expected exactly one active pool, got %d", active)
	}

	// The queued window opens where the live one ends
	live := k.GetPool(ctx, first)
	if queued := k.GetPool(ctx, second); queued.Start != live.Start+live.Duration {
		t.Errorf("expected queued start %d, got %d", live.Start+live.Duration, queued.Start)
	}
}

func TestConfigureTermsFrozenOnceFunded(t *testing.T) {
	k, ctx, _ := setupKeeper(t)

	id := configurePool(t, k, ctx, testOwner, 1000, 3600)
	if _, err := k.Sustain(ctx, testSustainer, testOwner, math.NewInt(1), testSustainer); err != nil {
		t.Fatalf("sustain failed: %v", err)
	}

	mpBefore := k.GetPool(ctx, id)

	// Every later configure lands elsewhere
	for i := 0; i < 3; i++ {
		configurePool(t, k, ctx, testOwner, 7777, 60)
	}

	mpAfter := k.GetPool(ctx, id)
	if !mpAfter.Target.Equal(mpBefore.Target) || mpAfter.Duration != mpBefore.Duration || mpAfter.WantDenom != mpBefore.WantDenom {
		t.Error("expected funded pool terms to be frozen")
	}
}

func TestConfigureClonesAfterExpiry(t *testing.T) {
	k, ctx, _ := setupKeeper(t)

	first := configurePool(t, k, ctx, testOwner, 1000, 3600)
	if _, err := k.Sustain(ctx, testSustainer, testOwner, math.NewInt(50), testSustainer); err != nil {
		t.Fatalf("sustain failed: %v", err)
	}

	// Past expiry there is nothing active or upcoming; the prior pool is
	// cloned with start = now.
	ctx = advance(ctx, 2*time.Hour)
	second := configurePool(t, k, ctx, testOwner, 1200, 3600)
	if second == first {
		t.Fatal("expected a new pool entity after expiry")
	}

	mp := k.GetPool(ctx, second)
	if mp.Start != ctx.BlockTime().Unix() {
		t.Errorf("expected start %d, got %d", ctx.BlockTime().Unix(), mp.Start)
	}
	if mp.PreviousID != first {
		t.Errorf("expected previous %d, got %d", first, mp.PreviousID)
	}
}
