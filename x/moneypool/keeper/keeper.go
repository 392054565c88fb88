package keeper

import (
	"context"
	"encoding/json"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/sustainers/sustain-chain/x/moneypool/types"
)

// Store key prefixes
var (
	PoolKeyPrefix            = []byte{0x01}
	PoolSequenceKey          = []byte{0x02}
	LatestPoolKeyPrefix      = []byte{0x03}
	SustainedOwnersKeyPrefix = []byte{0x04}
	RedistributionModeKey    = []byte{0x05}
)

// BankKeeper defines the expected interface for the bank module. It is the
// asset-transfer collaborator: both calls may re-enter this module before
// returning, and a failed transfer aborts the calling operation with no
// ledger mutation.
type BankKeeper interface {
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
}

// Keeper manages the moneypool module state: the pool arena, the per-owner
// chain pointers and the sustainer index.
type Keeper struct {
	cdc        codec.BinaryCodec
	storeKey   storetypes.StoreKey
	bankKeeper BankKeeper
	logger     log.Logger
	authority  string

	// One guard per operation class; each rejects reentry into its own
	// class while an instance is mid-flight. Cross-class reentrancy is
	// not governed here.
	sustainGuard opGuard
	collectGuard opGuard
	tapGuard     opGuard
}

// NewKeeper creates a new moneypool keeper
func NewKeeper(
	cdc codec.BinaryCodec,
	storeKey storetypes.StoreKey,
	bankKeeper BankKeeper,
	authority string,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		cdc:        cdc,
		storeKey:   storeKey,
		bankKeeper: bankKeeper,
		authority:  authority,
		logger:     logger.With("module", "x/"+types.ModuleName),
	}
}

// Logger returns the module logger
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetAuthority returns the governance authority address
func (k *Keeper) GetAuthority() string {
	return k.authority
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

// ============ Pool arena ============

func poolKey(id uint64) []byte {
	return append(PoolKeyPrefix, sdk.Uint64ToBigEndian(id)...)
}

// SetPool saves a pool to the store
func (k *Keeper) SetPool(ctx sdk.Context, mp *types.MoneyPool) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(mp)
	store.Set(poolKey(mp.ID), bz)
}

// GetPool retrieves a pool from the store. Id 0 short-circuits to nil
// without touching storage.
func (k *Keeper) GetPool(ctx sdk.Context, id uint64) *types.MoneyPool {
	if id == types.NoPool {
		return nil
	}
	store := k.GetStore(ctx)
	bz := store.Get(poolKey(id))
	if bz == nil {
		return nil
	}
	var mp types.MoneyPool
	if err := json.Unmarshal(bz, &mp); err != nil {
		return nil
	}
	return &mp
}

// PoolExists reports whether an entity has been allocated under the id.
func (k *Keeper) PoolExists(ctx sdk.Context, id uint64) bool {
	if id == types.NoPool {
		return false
	}
	return k.GetStore(ctx).Has(poolKey(id))
}

// GetAllPools returns all pools in id order
func (k *Keeper) GetAllPools(ctx sdk.Context) []*types.MoneyPool {
	store := k.GetStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, PoolKeyPrefix)
	defer iterator.Close()

	var pools []*types.MoneyPool
	for ; iterator.Valid(); iterator.Next() {
		var mp types.MoneyPool
		if err := json.Unmarshal(iterator.Value(), &mp); err != nil {
			continue
		}
		pools = append(pools, &mp)
	}
	return pools
}

// nextPoolID allocates the next id in the strictly increasing sequence,
// starting at 1. Ids are never reused.
func (k *Keeper) nextPoolID(ctx sdk.Context) uint64 {
	store := k.GetStore(ctx)
	id := uint64(1)
	if bz := store.Get(PoolSequenceKey); bz != nil {
		id = sdk.BigEndianToUint64(bz) + 1
	}
	store.Set(PoolSequenceKey, sdk.Uint64ToBigEndian(id))
	return id
}

// PoolCount returns the number of allocated pools
func (k *Keeper) PoolCount(ctx sdk.Context) uint64 {
	if bz := k.GetStore(ctx).Get(PoolSequenceKey); bz != nil {
		return sdk.BigEndianToUint64(bz)
	}
	return 0
}

// ============ Owner chain ============

func latestPoolKey(owner string) []byte {
	return append(LatestPoolKeyPrefix, []byte(owner)...)
}

// LatestPoolID returns the most recently created pool id for an owner,
// 0 if the owner has no pool. Absence is not an error.
func (k *Keeper) LatestPoolID(ctx sdk.Context, owner string) uint64 {
	bz := k.GetStore(ctx).Get(latestPoolKey(owner))
	if bz == nil {
		return types.NoPool
	}
	return sdk.BigEndianToUint64(bz)
}

// PreviousPoolID returns the pool created immediately before the given one
// for the same owner, 0 for an owner's first pool.
func (k *Keeper) PreviousPoolID(ctx sdk.Context, id uint64) uint64 {
	mp := k.GetPool(ctx, id)
	if mp == nil {
		return types.NoPool
	}
	return mp.PreviousID
}

// allocatePool creates a new pool entity for the owner, links it after the
// owner's previous latest and returns it. The chain pointer is written once
// and never mutated afterwards.
func (k *Keeper) allocatePool(ctx sdk.Context, owner string, start int64) *types.MoneyPool {
	id := k.nextPoolID(ctx)
	mp := types.NewMoneyPool(id, owner, start)
	mp.PreviousID = k.LatestPoolID(ctx, owner)
	k.SetPool(ctx, mp)
	k.GetStore(ctx).Set(latestPoolKey(owner), sdk.Uint64ToBigEndian(id))
	return mp
}

// clonePool creates a new pool carrying the base pool's terms with a fresh
// start and zeroed ledgers, linked at the head of the owner's chain.
func (k *Keeper) clonePool(ctx sdk.Context, base *types.MoneyPool, start int64) *types.MoneyPool {
	id := k.nextPoolID(ctx)
	mp := types.CloneFrom(base, id, start)
	k.SetPool(ctx, mp)
	k.GetStore(ctx).Set(latestPoolKey(mp.Owner), sdk.Uint64ToBigEndian(id))
	return mp
}

// ============ Sustainer index ============

func sustainedOwnersKey(sustainer string) []byte {
	return append(SustainedOwnersKeyPrefix, []byte(sustainer)...)
}

// GetSustainedOwners returns the distinct owners the sustainer has ever
// sustained, in first-sustained order.
func (k *Keeper) GetSustainedOwners(ctx sdk.Context, sustainer string) []string {
	bz := k.GetStore(ctx).Get(sustainedOwnersKey(sustainer))
	if bz == nil {
		return nil
	}
	var owners []string
	if err := json.Unmarshal(bz, &owners); err != nil {
		return nil
	}
	return owners
}

// addSustainedOwner records the owner in the sustainer's owner set. The set
// enforces uniqueness: an owner is recorded at most once regardless of how
// many contributions the sustainer makes.
func (k *Keeper) addSustainedOwner(ctx sdk.Context, sustainer, owner string) {
	owners := k.GetSustainedOwners(ctx, sustainer)
	for _, o := range owners {
		if o == owner {
			return
		}
	}
	owners = append(owners, owner)
	bz, _ := json.Marshal(owners)
	k.GetStore(ctx).Set(sustainedOwnersKey(sustainer), bz)
}

// ============ Redistribution mode ============

// RedistributionMode returns the configured share arithmetic mode,
// defaulting to the legacy truncating behavior.
func (k *Keeper) RedistributionMode(ctx sdk.Context) string {
	bz := k.GetStore(ctx).Get(RedistributionModeKey)
	if bz == nil {
		return types.RedistributionModeLegacy
	}
	return string(bz)
}

// SetRedistributionMode sets the share arithmetic mode
func (k *Keeper) SetRedistributionMode(ctx sdk.Context, mode string) error {
	if mode != types.RedistributionModeLegacy && mode != types.RedistributionModeCorrected {
		return types.ErrInvalidMode
	}
	k.GetStore(ctx).Set(RedistributionModeKey, []byte(mode))
	return nil
}

// poolCoins builds the single-denom coin set moved by a pool operation.
func poolCoins(mp *types.MoneyPool, amount math.Int) sdk.Coins {
	return sdk.NewCoins(sdk.NewCoin(mp.WantDenom, amount))
}
