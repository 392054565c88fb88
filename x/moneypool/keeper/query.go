package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/sustainers/sustain-chain/x/moneypool/types"
)

// QueryServer defines the moneypool QueryServer
type QueryServer struct {
	keeper *Keeper
}

// NewQueryServerImpl creates a new QueryServer instance
func NewQueryServerImpl(keeper *Keeper) *QueryServer {
	return &QueryServer{keeper: keeper}
}

// Pool returns a pool's read-only projection by id
func (q *QueryServer) Pool(ctx context.Context, id uint64) (*types.PoolInfo, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	mp := q.keeper.GetPool(sdkCtx, id)
	if mp == nil {
		return nil, types.ErrPoolNotFound
	}
	info := mp.Info()
	return &info, nil
}

// UpcomingPool returns the owner's Upcoming pool
func (q *QueryServer) UpcomingPool(ctx context.Context, owner string) (*types.PoolInfo, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	id := q.keeper.UpcomingPoolID(sdkCtx, owner)
	if id == types.NoPool {
		return nil, types.ErrPoolNotFound
	}
	return q.Pool(ctx, id)
}

// ActivePool returns the owner's Active pool
func (q *QueryServer) ActivePool(ctx context.Context, owner string) (*types.PoolInfo, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	id := q.keeper.ActivePoolID(sdkCtx, owner)
	if id == types.NoPool {
		return nil, types.ErrPoolNotFound
	}
	return q.Pool(ctx, id)
}

// SustainmentBalance returns a pool's cumulative contributions
func (q *QueryServer) SustainmentBalance(ctx context.Context, id uint64) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	mp := q.keeper.GetPool(sdkCtx, id)
	if mp == nil {
		return math.ZeroInt(), types.ErrPoolNotFound
	}
	return mp.Total, nil
}

// Sustainment returns the amount a sustainer has contributed to a pool
func (q *QueryServer) Sustainment(ctx context.Context, id uint64, sustainer string) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	mp := q.keeper.GetPool(sdkCtx, id)
	if mp == nil {
		return math.ZeroInt(), types.ErrPoolNotFound
	}
	return mp.SustainmentOf(sustainer), nil
}

// TrackedShare returns the sustainer's share of a pool's surplus
func (q *QueryServer) TrackedShare(ctx context.Context, id uint64, sustainer string) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if !q.keeper.PoolExists(sdkCtx, id) {
		return math.ZeroInt(), types.ErrPoolNotFound
	}
	return q.keeper.TrackedShare(sdkCtx, id, sustainer), nil
}

// Pools returns all pools with pagination
func (q *QueryServer) Pools(ctx context.Context, offset, limit uint64) ([]*types.MoneyPool, uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	allPools := q.keeper.GetAllPools(sdkCtx)

	total := uint64(len(allPools))

	// Apply pagination
	if offset >= total {
		return []*types.MoneyPool{}, total, nil
	}

	end := offset + limit
	if end > total || limit == 0 {
		end = total
	}

	return allPools[offset:end], total, nil
}

// OwnerPools walks the owner's chain newest-first and returns its pools
func (q *QueryServer) OwnerPools(ctx context.Context, owner string) ([]*types.MoneyPool, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	var pools []*types.MoneyPool
	for id := q.keeper.LatestPoolID(sdkCtx, owner); id != types.NoPool; {
		mp := q.keeper.GetPool(sdkCtx, id)
		if mp == nil {
			break
		}
		pools = append(pools, mp)
		id = mp.PreviousID
	}
	return pools, nil
}

// SustainedOwners returns the distinct owners a sustainer has ever sustained
func (q *QueryServer) SustainedOwners(ctx context.Context, sustainer string) ([]string, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return q.keeper.GetSustainedOwners(sdkCtx, sustainer), nil
}
