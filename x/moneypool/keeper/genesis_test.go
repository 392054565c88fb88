package keeper

import (
	"testing"
	"time"

	"cosmossdk.io/math"

	"github.com/sustainers/sustain-chain/x/moneypool/types"
)

func TestGenesisRoundtrip(t *testing.T) {
	k, ctx, _ := setupKeeper(t)

	// Two owners, one of them with a two-pool chain
	first := configurePool(t, k, ctx, testOwner, 1000, 3600)
	if _, err := k.Sustain(ctx, testSustainer, testOwner, math.NewInt(1500), testSustainer); err != nil {
		t.Fatalf("sustain failed: %v", err)
	}
	second := configurePool(t, k, ctx, testOwner, 2000, 3600)
	configurePool(t, k, ctx, testOwnerTwo, 500, 7200)
	if err := k.SetRedistributionMode(ctx, types.RedistributionModeCorrected); err != nil {
		t.Fatalf("set mode failed: %v", err)
	}

	gs := k.ExportGenesis(ctx)
	if err := gs.Validate(); err != nil {
		t.Fatalf("exported genesis invalid: %v", err)
	}

	// Restore into a fresh keeper and check the derived state was rebuilt
	k2, ctx2, _ := setupKeeper(t)
	if err := k2.InitGenesis(ctx2, gs); err != nil {
		t.Fatalf("init genesis failed: %v", err)
	}

	if mode := k2.RedistributionMode(ctx2); mode != types.RedistributionModeCorrected {
		t.Errorf("expected corrected mode restored, got %s", mode)
	}
	if count := k2.PoolCount(ctx2); count != k.PoolCount(ctx) {
		t.Errorf("expected %d pools, got %d", k.PoolCount(ctx), count)
	}
	if latest := k2.LatestPoolID(ctx2, testOwner); latest != second {
		t.Errorf("expected latest %d rebuilt, got %d", second, latest)
	}
	if prev := k2.PreviousPoolID(ctx2, second); prev != first {
		t.Errorf("expected chain link %d rebuilt, got %d", first, prev)
	}
	if owners := k2.GetSustainedOwners(ctx2, testSustainer); len(owners) != 1 || owners[0] != testOwner {
		t.Errorf("expected sustainer index rebuilt, got %v", owners)
	}

	mp := k2.GetPool(ctx2, first)
	if mp == nil {
		t.Fatal("expected pool restored")
	}
	if !mp.Total.Equal(math.NewInt(1500)) {
		t.Errorf("expected total 1500 restored, got %s", mp.Total.String())
	}
	if got := mp.SustainmentOf(testSustainer); !got.Equal(math.NewInt(1500)) {
		t.Errorf("expected sustainment 1500 restored, got %s", got.String())
	}
}

func TestGenesisSequenceContinues(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	configurePool(t, k, ctx, testOwner, 1000, 3600)
	if _, err := k.Sustain(ctx, testSustainer, testOwner, math.NewInt(100), testSustainer); err != nil {
		t.Fatalf("sustain failed: %v", err)
	}
	configurePool(t, k, ctx, testOwner, 2000, 3600)

	k2, ctx2, _ := setupKeeper(t)
	if err := k2.InitGenesis(ctx2, k.ExportGenesis(ctx)); err != nil {
		t.Fatalf("init genesis failed: %v", err)
	}

	// New allocations continue past the highest restored id
	next := configurePool(t, k2, ctx2, testOwnerTwo, 300, 3600)
	if next != 3 {
		t.Errorf("expected next pool id 3, got %d", next)
	}
}

func TestGenesisSettlementSurvivesRestart(t *testing.T) {
	// Redistribution flags are part of the pool record, so a restart never
	// reopens settled shares.
	k, ctx, _ := setupKeeper(t)
	overflowedPool(t, k, ctx, testOwner)

	ctx = advance(ctx, 2*time.Hour)
	if _, err := k.CollectRedistributions(ctx, testSustainer); err != nil {
		t.Fatalf("collect failed: %v", err)
	}

	k2, ctx2, bank2 := setupKeeper(t)
	if err := k2.InitGenesis(ctx2, k.ExportGenesis(ctx)); err != nil {
		t.Fatalf("init genesis failed: %v", err)
	}
	ctx2 = advance(ctx2, 2*time.Hour)

	amount, err := k2.CollectRedistributions(ctx2, testSustainer)
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	if !amount.IsZero() {
		t.Errorf("expected nothing left to collect after restart, got %s", amount.String())
	}
	if len(bank2.outCalls) != 0 {
		t.Errorf("expected no transfer, got %d", len(bank2.outCalls))
	}

	// The other sustainer's share is still open
	amount, err = k2.CollectRedistributions(ctx2, testSustainerTwo)
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	if !amount.Equal(math.NewInt(333)) {
		t.Errorf("expected 333 for the unsettled sustainer, got %s", amount.String())
	}
}

func TestGenesisPoolsOutOfOrder(t *testing.T) {
	// Chain heads come from the maximum id per owner, not file order.
	k, ctx, _ := setupKeeper(t)

	newPool := func(id, prev uint64, owner string) *types.MoneyPool {
		mp := types.NewMoneyPool(id, owner, testGenesisTime.Unix())
		mp.WantDenom = "usus"
		mp.Target = math.NewInt(1000)
		mp.Duration = 3600
		mp.PreviousID = prev
		return mp
	}

	gs := &types.GenesisState{
		RedistributionMode: types.RedistributionModeLegacy,
		Pools: []*types.MoneyPool{
			newPool(3, 1, testOwner),
			newPool(2, 0, testOwnerTwo),
			newPool(1, 0, testOwner),
		},
	}
	if err := k.InitGenesis(ctx, gs); err != nil {
		t.Fatalf("init genesis failed: %v", err)
	}

	if latest := k.LatestPoolID(ctx, testOwner); latest != 3 {
		t.Errorf("expected latest 3 for first owner, got %d", latest)
	}
	if latest := k.LatestPoolID(ctx, testOwnerTwo); latest != 2 {
		t.Errorf("expected latest 2 for second owner, got %d", latest)
	}
	if count := k.PoolCount(ctx); count != 3 {
		t.Errorf("expected sequence at 3, got %d", count)
	}
}

func TestGenesisValidateRejectsBadState(t *testing.T) {
	testCases := []struct {
		name string
		gs   *types.GenesisState
	}{
		{
			name: "unknown mode",
			gs: &types.GenesisState{
				RedistributionMode: "half-up",
			},
		},
		{
			name: "pool with zero id",
			gs: &types.GenesisState{
				RedistributionMode: types.RedistributionModeLegacy,
				Pools: []*types.MoneyPool{
					types.NewMoneyPool(0, testOwner, 0),
				},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.gs.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
