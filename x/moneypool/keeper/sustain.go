package keeper

import (
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/sustainers/sustain-chain/x/moneypool/types"
)

// Sustain records a contribution from the sustainer to the owner's
// currently open pool, credited to the beneficiary, and returns the pool id
// it landed on.
//
// The bank transfer runs before any ledger mutation because it may itself
// call back into this module; a transfer failure therefore aborts with zero
// observable effect.
func (k *Keeper) Sustain(ctx sdk.Context, sustainer, owner string, amount math.Int, beneficiary string) (uint64, error) {
	if err := k.sustainGuard.enter(); err != nil {
		return types.NoPool, err
	}
	defer k.sustainGuard.exit()

	if amount.IsNil() || !amount.IsPositive() {
		return types.NoPool, types.ErrInvalidAmount
	}

	mp, err := k.poolToSustain(ctx, owner)
	if err != nil {
		return types.NoPool, err
	}

	sustainerAddr, err := sdk.AccAddressFromBech32(sustainer)
	if err != nil {
		return types.NoPool, err
	}
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, sustainerAddr, types.ModuleName, poolCoins(mp, amount)); err != nil {
		return types.NoPool, err
	}

	// Reload: the transfer may have re-entered other operation classes.
	mp = k.GetPool(ctx, mp.ID)

	firstFunding := !mp.IsFunded()

	mp.Sustainments[beneficiary] = mp.SustainmentOf(beneficiary).Add(amount)
	mp.Total = mp.Total.Add(amount)
	k.SetPool(ctx, mp)

	k.addSustainedOwner(ctx, beneficiary, owner)

	if firstFunding {
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				"moneypool_activated",
				sdk.NewAttribute("pool_id", strconv.FormatUint(mp.ID, 10)),
				sdk.NewAttribute("owner", owner),
			),
		)
	}
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"moneypool_sustained",
			sdk.NewAttribute("pool_id", strconv.FormatUint(mp.ID, 10)),
			sdk.NewAttribute("owner", owner),
			sdk.NewAttribute("sustainer", sustainer),
			sdk.NewAttribute("beneficiary", beneficiary),
			sdk.NewAttribute("amount", amount.String()),
			sdk.NewAttribute("total", mp.Total.String()),
		),
	)

	k.logger.Info("Sustainment recorded",
		"pool_id", mp.ID,
		"owner", owner,
		"sustainer", sustainer,
		"beneficiary", beneficiary,
		"amount", amount.String(),
		"total", mp.Total.String(),
	)

	return mp.ID, nil
}
