package keeper

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/sustainers/sustain-chain/x/moneypool/types"
)

func TestSustainValidation(t *testing.T) {
	testCases := []struct {
		name     string
		amount   math.Int
		expected error
	}{
		{name: "zero amount", amount: math.ZeroInt(), expected: types.ErrInvalidAmount},
		{name: "negative amount", amount: math.NewInt(-10), expected: types.ErrInvalidAmount},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			k, ctx, _ := setupKeeper(t)
			configurePool(t, k, ctx, testOwner, 1000, 3600)
			if _, err := k.Sustain(ctx, testSustainer, testOwner, tc.amount, testSustainer); !errors.Is(err, tc.expected) {
				t.Errorf("expected %v, got %v", tc.expected, err)
			}
		})
	}
}

func TestSustainRequiresConfiguredOwner(t *testing.T) {
	k, ctx, _ := setupKeeper(t)

	// A contribution can never create an owner's first pool
	if _, err := k.Sustain(ctx, testSustainer, testOwner, math.NewInt(100), testSustainer); !errors.Is(err, types.ErrPoolNotFound) {
		t.Errorf("expected ErrPoolNotFound, got %v", err)
	}
}

func TestSustainAccumulates(t *testing.T) {
	// Two sustainers funding the same pool; the second credits a separate
	// beneficiary.
	k, ctx, bank := setupKeeper(t)

	id := configurePool(t, k, ctx, testOwner, 1000, 3600)

	if _, err := k.Sustain(ctx, testSustainer, testOwner, math.NewInt(300), testSustainer); err != nil {
		t.Fatalf("sustain failed: %v", err)
	}
	if _, err := k.Sustain(ctx, testSustainer, testOwner, math.NewInt(200), testSustainer); err != nil {
		t.Fatalf("sustain failed: %v", err)
	}
	if _, err := k.Sustain(ctx, testSustainerTwo, testOwner, math.NewInt(400), testSustainer); err != nil {
		t.Fatalf("sustain failed: %v", err)
	}

	mp := k.GetPool(ctx, id)
	if !mp.Total.Equal(math.NewInt(900)) {
		t.Errorf("expected total 900, got %s", mp.Total.String())
	}
	// All three contributions landed on the same beneficiary ledger entry
	if got := mp.SustainmentOf(testSustainer); !got.Equal(math.NewInt(900)) {
		t.Errorf("expected beneficiary sustainment 900, got %s", got.String())
	}
	if got := mp.SustainmentOf(testSustainerTwo); !got.IsZero() {
		t.Errorf("expected no sustainment for payer, got %s", got.String())
	}

	if len(bank.inCalls) != 3 {
		t.Fatalf("expected 3 inbound transfers, got %d", len(bank.inCalls))
	}
	want := sdk.NewCoins(sdk.NewCoin("usus", math.NewInt(400)))
	if !bank.inCalls[2].amount.Equal(want) {
		t.Errorf("expected last transfer %s, got %s", want, bank.inCalls[2].amount)
	}
}

func TestSustainFirstFundingActivates(t *testing.T) {
	k, ctx, _ := setupKeeper(t)

	id := configurePool(t, k, ctx, testOwner, 1000, 3600)

	if _, err := k.Sustain(ctx, testSustainer, testOwner, math.NewInt(10), testSustainer); err != nil {
		t.Fatalf("sustain failed: %v", err)
	}
	if _, err := k.Sustain(ctx, testSustainer, testOwner, math.NewInt(10), testSustainer); err != nil {
		t.Fatalf("sustain failed: %v", err)
	}

	activations := 0
	for _, ev := range ctx.EventManager().Events() {
		if ev.Type == "moneypool_activated" {
			activations++
		}
	}
	if activations != 1 {
		t.Errorf("expected exactly one activation event, got %d", activations)
	}

	if !k.GetPool(ctx, id).IsFunded() {
		t.Error("expected pool to be funded")
	}
}

func TestSustainTransferFailureLeavesNoTrace(t *testing.T) {
	k, ctx, bank := setupKeeper(t)

	id := configurePool(t, k, ctx, testOwner, 1000, 3600)
	bank.failIn = fmt.Errorf("insufficient funds")

	if _, err := k.Sustain(ctx, testSustainer, testOwner, math.NewInt(100), testSustainer); err == nil {
		t.Fatal("expected transfer failure to propagate")
	}

	mp := k.GetPool(ctx, id)
	if !mp.Total.IsZero() {
		t.Errorf("expected total unchanged, got %s", mp.Total.String())
	}
	if len(mp.Sustainments) != 0 {
		t.Errorf("expected no sustainment entries, got %d", len(mp.Sustainments))
	}
	if owners := k.GetSustainedOwners(ctx, testSustainer); len(owners) != 0 {
		t.Errorf("expected no sustained owners recorded, got %v", owners)
	}
}

func TestSustainStaysOnActiveAfterReconfigure(t *testing.T) {
	// Reconfiguring mid-window queues the new terms; contributions keep
	// landing on the live pool until its window closes, then move to the
	// replacement.
	k, ctx, _ := setupKeeper(t)

	first := configurePool(t, k, ctx, testOwner, 1000, 3600)
	if _, err := k.Sustain(ctx, testSustainer, testOwner, math.NewInt(100), testSustainer); err != nil {
		t.Fatalf("sustain failed: %v", err)
	}
	second := configurePool(t, k, ctx, testOwner, 2000, 3600)

	landed, err := k.Sustain(ctx, testSustainerTwo, testOwner, math.NewInt(50), testSustainerTwo)
	if err != nil {
		t.Fatalf("sustain failed: %v", err)
	}
	if landed != first {
		t.Errorf("expected mid-window contribution on pool %d, got %d", first, landed)
	}
	if !k.GetPool(ctx, first).Total.Equal(math.NewInt(150)) {
		t.Errorf("expected live pool total 150, got %s", k.GetPool(ctx, first).Total.String())
	}

	// Handover: the queued pool opens when the live window closes
	ctx = advance(ctx, 2*time.Hour)
	landed, err = k.Sustain(ctx, testSustainer, testOwner, math.NewInt(25), testSustainer)
	if err != nil {
		t.Fatalf("sustain failed: %v", err)
	}
	if landed != second {
		t.Errorf("expected post-handover contribution on pool %d, got %d", second, landed)
	}
	if !k.GetPool(ctx, first).Total.Equal(math.NewInt(150)) {
		t.Error("expected closed pool total unchanged")
	}
}

func TestSustainClonesWithAlignedStart(t *testing.T) {
	const duration = int64(3600)

	testCases := []struct {
		name string
		// seconds past the first window's end at contribution time
		pastEnd int64
		// expected start, as seconds past the first window's end
		expectedStart int64
	}{
		{
			name:          "within one cycle of the end",
			pastEnd:       1800,
			expectedStart: 0,
		},
		{
			name:          "several cycles later",
			pastEnd:       3*duration + 100,
			expectedStart: 3 * duration,
		},
		{
			name:          "exactly on a cycle boundary",
			pastEnd:       2 * duration,
			expectedStart: 2 * duration,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			k, ctx, _ := setupKeeper(t)

			first := configurePool(t, k, ctx, testOwner, 1000, duration)
			if _, err := k.Sustain(ctx, testSustainer, testOwner, math.NewInt(100), testSustainer); err != nil {
				t.Fatalf("sustain failed: %v", err)
			}
			end := k.GetPool(ctx, first).Start + duration

			ctx = advance(ctx, time.Duration(duration+tc.pastEnd)*time.Second)
			landed, err := k.Sustain(ctx, testSustainerTwo, testOwner, math.NewInt(25), testSustainerTwo)
			if err != nil {
				t.Fatalf("sustain failed: %v", err)
			}
			if landed == first {
				t.Fatal("expected contribution to land on a fresh pool")
			}

			mp := k.GetPool(ctx, landed)
			if mp.Start != end+tc.expectedStart {
				t.Errorf("expected start %d past end, got %d", tc.expectedStart, mp.Start-end)
			}
			if mp.PreviousID != first {
				t.Errorf("expected previous %d, got %d", first, mp.PreviousID)
			}
			// Cloned terms carry over
			if !mp.Target.Equal(math.NewInt(1000)) || mp.Duration != duration {
				t.Errorf("expected cloned terms 1000/%d, got %s/%d", duration, mp.Target.String(), mp.Duration)
			}
		})
	}
}
