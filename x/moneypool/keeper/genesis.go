package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/sustainers/sustain-chain/x/moneypool/types"
)

// InitGenesis writes the genesis pool set and rebuilds the derived state:
// owner chain heads, the id sequence and the sustainer index. Pool order
// in the file does not matter; heads and the sequence take the maximum id.
func (k *Keeper) InitGenesis(ctx sdk.Context, gs *types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return err
	}
	if err := k.SetRedistributionMode(ctx, gs.RedistributionMode); err != nil {
		return err
	}

	store := k.GetStore(ctx)
	latest := make(map[string]uint64)
	maxID := uint64(0)
	for _, mp := range gs.Pools {
		k.SetPool(ctx, mp)
		if mp.ID > latest[mp.Owner] {
			latest[mp.Owner] = mp.ID
		}
		if mp.ID > maxID {
			maxID = mp.ID
		}
		for sustainer := range mp.Sustainments {
			k.addSustainedOwner(ctx, sustainer, mp.Owner)
		}
	}
	for owner, id := range latest {
		store.Set(latestPoolKey(owner), sdk.Uint64ToBigEndian(id))
	}
	if maxID > 0 {
		store.Set(PoolSequenceKey, sdk.Uint64ToBigEndian(maxID))
	}
	return nil
}

// ExportGenesis reads the full pool set out of the store
func (k *Keeper) ExportGenesis(ctx sdk.Context) *types.GenesisState {
	return &types.GenesisState{
		RedistributionMode: k.RedistributionMode(ctx),
		Pools:              k.GetAllPools(ctx),
	}
}
