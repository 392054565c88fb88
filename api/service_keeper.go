package api

import (
	"fmt"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/sustainers/sustain-chain/api/types"
	"github.com/sustainers/sustain-chain/x/moneypool/keeper"
	moneypooltypes "github.com/sustainers/sustain-chain/x/moneypool/types"
)

// KeeperService implements PoolService by reading directly from a
// moneypool Keeper. The context provider lets the server refresh the
// query context as blocks are committed.
type KeeperService struct {
	keeper *keeper.Keeper
	ctxFn  func() sdk.Context
	mu     sync.RWMutex
}

// NewKeeperService wraps an existing keeper with a context provider
func NewKeeperService(k *keeper.Keeper, ctxFn func() sdk.Context) *KeeperService {
	return &KeeperService{keeper: k, ctxFn: ctxFn}
}

// NewStandaloneKeeperService creates a KeeperService backed by an
// in-memory store. Used for local development and handler tests.
func NewStandaloneKeeperService() *KeeperService {
	interfaceRegistry := codectypes.NewInterfaceRegistry()
	cdc := codec.NewProtoCodec(interfaceRegistry)

	storeKey := storetypes.NewKVStoreKey(moneypooltypes.StoreKey)
	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	if err := stateStore.LoadLatestVersion(); err != nil {
		panic(fmt.Sprintf("failed to load store: %v", err))
	}

	ctx := sdk.NewContext(stateStore, cmtproto.Header{
		Time:   time.Now().UTC(),
		Height: 1,
	}, false, log.NewNopLogger())

	k := keeper.NewKeeper(
		cdc,
		storeKey,
		nil,
		"",
		log.NewNopLogger(),
	)

	return &KeeperService{
		keeper: k,
		ctxFn:  func() sdk.Context { return ctx },
	}
}

// toPoolResponse converts a pool entity to its REST projection
func toPoolResponse(ctx sdk.Context, mp *moneypooltypes.MoneyPool) *types.PoolResponse {
	return &types.PoolResponse{
		ID:         mp.ID,
		Owner:      mp.Owner,
		WantDenom:  mp.WantDenom,
		Target:     mp.Target.String(),
		Duration:   mp.Duration,
		Total:      mp.Total.String(),
		Tapped:     mp.Tapped.String(),
		Start:      mp.Start,
		PreviousID: mp.PreviousID,
		State:      mp.StateAt(ctx.BlockTime().Unix()).String(),
	}
}

// GetPool returns a pool by id
func (s *KeeperService) GetPool(id uint64) (*types.PoolResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := s.ctxFn()
	mp := s.keeper.GetPool(ctx, id)
	if mp == nil {
		return nil, nil
	}
	return toPoolResponse(ctx, mp), nil
}

// GetPools returns all pools
func (s *KeeperService) GetPools() ([]*types.PoolResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := s.ctxFn()
	pools := s.keeper.GetAllPools(ctx)
	out := make([]*types.PoolResponse, 0, len(pools))
	for _, mp := range pools {
		out = append(out, toPoolResponse(ctx, mp))
	}
	return out, nil
}

// GetOwnerPools walks the owner's chain newest-first
func (s *KeeperService) GetOwnerPools(owner string) ([]*types.PoolResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := s.ctxFn()
	out := make([]*types.PoolResponse, 0)
	for id := s.keeper.LatestPoolID(ctx, owner); id != moneypooltypes.NoPool; {
		mp := s.keeper.GetPool(ctx, id)
		if mp == nil {
			break
		}
		out = append(out, toPoolResponse(ctx, mp))
		id = mp.PreviousID
	}
	return out, nil
}

// GetActivePool returns the owner's currently active pool, nil if none
func (s *KeeperService) GetActivePool(owner string) (*types.PoolResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := s.ctxFn()
	id := s.keeper.ActivePoolID(ctx, owner)
	if id == moneypooltypes.NoPool {
		return nil, nil
	}
	mp := s.keeper.GetPool(ctx, id)
	if mp == nil {
		return nil, nil
	}
	return toPoolResponse(ctx, mp), nil
}

// GetUpcomingPool returns the owner's queued pool, nil if none
func (s *KeeperService) GetUpcomingPool(owner string) (*types.PoolResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := s.ctxFn()
	id := s.keeper.UpcomingPoolID(ctx, owner)
	if id == moneypooltypes.NoPool {
		return nil, nil
	}
	mp := s.keeper.GetPool(ctx, id)
	if mp == nil {
		return nil, nil
	}
	return toPoolResponse(ctx, mp), nil
}

// GetShare reports a sustainer's stake and surplus share in a pool
func (s *KeeperService) GetShare(id uint64, sustainer string) (*types.ShareResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := s.ctxFn()
	mp := s.keeper.GetPool(ctx, id)
	if mp == nil {
		return nil, nil
	}

	return &types.ShareResponse{
		PoolID:       id,
		Sustainer:    sustainer,
		Sustainment:  mp.SustainmentOf(sustainer).String(),
		TrackedShare: s.keeper.TrackedShare(ctx, id, sustainer).String(),
		Collected:    mp.Redistributed[sustainer],
	}, nil
}

// GetTappable reports the owner-withdrawable amount of a pool
func (s *KeeperService) GetTappable(id uint64) (*types.TappableResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := s.ctxFn()
	mp := s.keeper.GetPool(ctx, id)
	if mp == nil {
		return nil, nil
	}

	return &types.TappableResponse{
		PoolID:   id,
		Tappable: mp.Tappable().String(),
	}, nil
}

// GetSustainedOwners returns the owners a sustainer has contributed to
func (s *KeeperService) GetSustainedOwners(sustainer string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := s.ctxFn()
	return s.keeper.GetSustainedOwners(ctx, sustainer), nil
}

// Keeper returns the underlying keeper for direct access in tests
func (s *KeeperService) Keeper() *keeper.Keeper {
	return s.keeper
}

// Context returns the current query context
func (s *KeeperService) Context() sdk.Context {
	return s.ctxFn()
}
