package keeper

import (
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/sustainers/sustain-chain/x/moneypool/types"
)

// poolToConfigure decides which pool entity a configuration edit applies
// to. Configuration never touches a pool that has received funds: any such
// attempt lands on the owner's queued pool, creating one behind the live
// window if none exists yet.
func (k *Keeper) poolToConfigure(ctx sdk.Context, owner string) *types.MoneyPool {
	// An Active pool with nothing contributed yet may still change terms.
	if id := k.ActivePoolID(ctx, owner); id != types.NoPool {
		mp := k.GetPool(ctx, id)
		if !mp.IsFunded() {
			return mp
		}
		if up := k.UpcomingPoolID(ctx, owner); up != types.NoPool {
			return k.GetPool(ctx, up)
		}
		// Queue the replacement to open the moment the live window
		// closes, keeping the funded pool the only Active one.
		return k.clonePool(ctx, mp, mp.Start+mp.Duration)
	}
	if id := k.UpcomingPoolID(ctx, owner); id != types.NoPool {
		return k.GetPool(ctx, id)
	}
	if latest := k.LatestPoolID(ctx, owner); latest != types.NoPool {
		return k.clonePool(ctx, k.GetPool(ctx, latest), blockNow(ctx))
	}
	return k.allocatePool(ctx, owner, blockNow(ctx))
}

// Configure declares or updates the terms of the owner's queued pool and
// returns the pool id the edit landed on.
func (k *Keeper) Configure(ctx sdk.Context, owner string, target math.Int, duration int64, wantDenom string) (uint64, error) {
	if target.IsNil() || !target.IsPositive() {
		return types.NoPool, types.ErrInvalidTarget
	}
	if duration < 1 {
		return types.NoPool, types.ErrInvalidDuration
	}
	if err := sdk.ValidateDenom(wantDenom); err != nil {
		return types.NoPool, types.ErrInvalidDenom.Wrap(err.Error())
	}

	initialized := k.LatestPoolID(ctx, owner) == types.NoPool

	mp := k.poolToConfigure(ctx, owner)
	mp.Target = target
	mp.Duration = duration
	mp.WantDenom = wantDenom
	k.SetPool(ctx, mp)

	if initialized {
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				"moneypool_initialized",
				sdk.NewAttribute("owner", owner),
				sdk.NewAttribute("pool_id", strconv.FormatUint(mp.ID, 10)),
			),
		)
	}
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"moneypool_configured",
			sdk.NewAttribute("pool_id", strconv.FormatUint(mp.ID, 10)),
			sdk.NewAttribute("owner", owner),
			sdk.NewAttribute("target", target.String()),
			sdk.NewAttribute("duration", strconv.FormatInt(duration, 10)),
			sdk.NewAttribute("want_denom", wantDenom),
		),
	)

	k.logger.Info("Money pool configured",
		"pool_id", mp.ID,
		"owner", owner,
		"target", target.String(),
		"duration", duration,
		"want_denom", wantDenom,
	)

	return mp.ID, nil
}

// poolToSustain decides which pool entity a new contribution applies to.
// Fails if the owner has never configured a pool: a contribution cannot
// create an owner's first pool.
func (k *Keeper) poolToSustain(ctx sdk.Context, owner string) (*types.MoneyPool, error) {
	if id := k.ActivePoolID(ctx, owner); id != types.NoPool {
		return k.GetPool(ctx, id), nil
	}
	if id := k.UpcomingPoolID(ctx, owner); id != types.NoPool {
		return k.GetPool(ctx, id), nil
	}
	latest := k.LatestPoolID(ctx, owner)
	if latest == types.NoPool {
		return nil, types.ErrPoolNotFound
	}
	prev := k.GetPool(ctx, latest)
	return k.clonePool(ctx, prev, alignedStart(prev, blockNow(ctx))), nil
}

// alignedStart computes the epoch-aligned start for a replacement pool: the
// start that would have resulted had the owner's pool been mechanically
// re-created every duration interval since it last ended, without
// materializing the intermediate empty cycles.
func alignedStart(prev *types.MoneyPool, now int64) int64 {
	end := prev.Start + prev.Duration
	if now < end+prev.Duration {
		// The owner never queued a replacement and has not yet missed a
		// full cycle; the new window starts where the old one ended.
		return end
	}
	offset := (now - end) % prev.Duration
	return now - offset
}
