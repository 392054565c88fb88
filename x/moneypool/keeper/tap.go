package keeper

import (
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/sustainers/sustain-chain/x/moneypool/types"
)

// Tappable returns how much the pool's owner may still withdraw:
// min(total, target) - tapped. Surplus beyond the target is reserved for
// redistribution and is never tappable.
func (k *Keeper) Tappable(ctx sdk.Context, id uint64) (math.Int, error) {
	mp := k.GetPool(ctx, id)
	if mp == nil {
		return math.ZeroInt(), types.ErrPoolNotFound
	}
	return mp.Tappable(), nil
}

// CollectSustainment withdraws collected sustainment funds to the pool
// owner. The caller-identity check happens at the message boundary; here
// the owner argument is trusted to be the verified signer.
func (k *Keeper) CollectSustainment(ctx sdk.Context, owner string, id uint64, amount math.Int) error {
	if err := k.tapGuard.enter(); err != nil {
		return err
	}
	defer k.tapGuard.exit()

	if amount.IsNil() || !amount.IsPositive() {
		return types.ErrInvalidAmount
	}

	mp := k.GetPool(ctx, id)
	if mp == nil {
		return types.ErrPoolNotFound
	}
	if mp.Owner != owner {
		return types.ErrNotPoolOwner
	}
	if amount.GT(mp.Tappable()) {
		return types.ErrInsufficientTappable
	}

	ownerAddr, err := sdk.AccAddressFromBech32(owner)
	if err != nil {
		return err
	}

	mp.Tapped = mp.Tapped.Add(amount)
	k.SetPool(ctx, mp)

	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, ownerAddr, poolCoins(mp, amount)); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"moneypool_sustainment_collected",
			sdk.NewAttribute("pool_id", strconv.FormatUint(mp.ID, 10)),
			sdk.NewAttribute("owner", owner),
			sdk.NewAttribute("amount", amount.String()),
			sdk.NewAttribute("tapped", mp.Tapped.String()),
		),
	)

	k.logger.Info("Sustainment collected",
		"pool_id", mp.ID,
		"owner", owner,
		"amount", amount.String(),
		"tapped", mp.Tapped.String(),
	)

	return nil
}
