package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/sustainers/sustain-chain/x/moneypool/types"
)

// blockNow returns the injected clock reading for lifecycle decisions.
// Block time, never wall time, so state resolution is deterministic and
// replayable.
func blockNow(ctx sdk.Context) int64 {
	return ctx.BlockTime().Unix()
}

// PoolState resolves the lifecycle state of a pool at the current block
// time. Fails with ErrPoolNotFound for id 0, ids beyond the allocated
// range, or missing entities.
func (k *Keeper) PoolState(ctx sdk.Context, id uint64) (types.PoolState, error) {
	if id == types.NoPool || id > k.PoolCount(ctx) {
		return 0, types.ErrPoolNotFound
	}
	mp := k.GetPool(ctx, id)
	if mp == nil {
		return 0, types.ErrPoolNotFound
	}
	return mp.StateAt(blockNow(ctx)), nil
}

// ActivePoolID locates the owner's Active pool, 0 if none. An Active pool,
// if any, is always one of the two most recent entities in the owner's
// chain, so the lookup walks at most one step back from latest.
func (k *Keeper) ActivePoolID(ctx sdk.Context, owner string) uint64 {
	id := k.LatestPoolID(ctx, owner)
	if id == types.NoPool {
		return types.NoPool
	}
	if state, err := k.PoolState(ctx, id); err == nil && state == types.StateActive {
		return id
	}
	prev := k.PreviousPoolID(ctx, id)
	if prev == types.NoPool {
		return types.NoPool
	}
	if state, err := k.PoolState(ctx, prev); err == nil && state == types.StateActive {
		return prev
	}
	return types.NoPool
}

// UpcomingPoolID locates the owner's Upcoming pool, 0 if none. Only the
// latest pool in a chain can be Upcoming.
func (k *Keeper) UpcomingPoolID(ctx sdk.Context, owner string) uint64 {
	id := k.LatestPoolID(ctx, owner)
	if id == types.NoPool {
		return types.NoPool
	}
	if state, err := k.PoolState(ctx, id); err == nil && state == types.StateUpcoming {
		return id
	}
	return types.NoPool
}
