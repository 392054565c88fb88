package keeper

import (
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/sustainers/sustain-chain/x/moneypool/types"
)

// TrackedShare returns the sustainer's share of the pool's surplus under
// the configured arithmetic mode, zero if the pool does not exist or did
// not overflow its target.
func (k *Keeper) TrackedShare(ctx sdk.Context, id uint64, sustainer string) math.Int {
	mp := k.GetPool(ctx, id)
	if mp == nil {
		return math.ZeroInt()
	}
	return mp.TrackedShare(sustainer, k.RedistributionMode(ctx))
}

// settleOwner walks the owner's chain newest-first, settling the
// sustainer's share of every redistributing pool not yet flagged and
// accumulating it in each pool's own denom. The walk stops at the first
// already-flagged pool: settlement always proceeds strictly backward from
// the newest redistributing pool, so everything earlier is guaranteed
// settled. Active and Upcoming pools are skipped without flag mutation and
// revisited once they transition.
func (k *Keeper) settleOwner(ctx sdk.Context, sustainer, owner string) sdk.Coins {
	settled := sdk.NewCoins()
	mode := k.RedistributionMode(ctx)
	now := blockNow(ctx)

	for id := k.LatestPoolID(ctx, owner); id != types.NoPool; {
		mp := k.GetPool(ctx, id)
		if mp == nil {
			break
		}
		if mp.Redistributed[sustainer] {
			break
		}
		if mp.StateAt(now) == types.StateRedistributing {
			if share := mp.TrackedShare(sustainer, mode); share.IsPositive() {
				settled = settled.Add(sdk.NewCoin(mp.WantDenom, share))
			}
			mp.Redistributed[sustainer] = true
			k.SetPool(ctx, mp)
		}
		id = mp.PreviousID
	}
	return settled
}

// CollectRedistributions settles the sustainer's surplus shares across
// every owner they have ever sustained and pays out the sum.
func (k *Keeper) CollectRedistributions(ctx sdk.Context, sustainer string) (math.Int, error) {
	return k.collectRedistributions(ctx, sustainer, k.GetSustainedOwners(ctx, sustainer))
}

// CollectRedistributionsFrom settles against a single owner's history.
func (k *Keeper) CollectRedistributionsFrom(ctx sdk.Context, sustainer, owner string) (math.Int, error) {
	return k.collectRedistributions(ctx, sustainer, []string{owner})
}

// CollectRedistributionsFromMany settles against a set of owners.
func (k *Keeper) CollectRedistributionsFromMany(ctx sdk.Context, sustainer string, owners []string) (math.Int, error) {
	return k.collectRedistributions(ctx, sustainer, owners)
}

func (k *Keeper) collectRedistributions(ctx sdk.Context, sustainer string, owners []string) (math.Int, error) {
	if err := k.collectGuard.enter(); err != nil {
		return math.ZeroInt(), err
	}
	defer k.collectGuard.exit()

	sustainerAddr, err := sdk.AccAddressFromBech32(sustainer)
	if err != nil {
		return math.ZeroInt(), err
	}

	// Each pool settles in its own denom; the payout moves every denom
	// the walk collected in a single transfer.
	payout := sdk.NewCoins()
	for _, owner := range owners {
		payout = payout.Add(k.settleOwner(ctx, sustainer, owner)...)
	}

	amount := math.ZeroInt()
	for _, coin := range payout {
		amount = amount.Add(coin.Amount)
	}

	if !payout.IsZero() {
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, sustainerAddr, payout); err != nil {
			return math.ZeroInt(), err
		}
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"moneypool_redistribution_collected",
			sdk.NewAttribute("sustainer", sustainer),
			sdk.NewAttribute("amount", amount.String()),
			sdk.NewAttribute("owners", strconv.Itoa(len(owners))),
		),
	)

	k.logger.Info("Redistributions collected",
		"sustainer", sustainer,
		"amount", amount.String(),
		"owners", len(owners),
	)

	return amount, nil
}
