package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/sustainers/sustain-chain/metrics"
	"github.com/sustainers/sustain-chain/x/moneypool/types"
)

// MsgServer defines the moneypool MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// Configure handles MsgConfigure
func (m *MsgServer) Configure(ctx context.Context, msg *types.MsgConfigure) (*types.MsgConfigureResponse, error) {
	target, ok := math.NewIntFromString(msg.Target)
	if !ok {
		return nil, types.ErrInvalidTarget
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	poolID, err := m.keeper.Configure(sdkCtx, msg.Owner, target, msg.Duration, msg.WantDenom)
	if err != nil {
		return nil, err
	}

	metrics.GetCollector().RecordConfigure(msg.WantDenom)
	return &types.MsgConfigureResponse{PoolID: poolID}, nil
}

// Sustain handles MsgSustain
func (m *MsgServer) Sustain(ctx context.Context, msg *types.MsgSustain) (*types.MsgSustainResponse, error) {
	amount, ok := math.NewIntFromString(msg.Amount)
	if !ok {
		return nil, types.ErrInvalidAmount
	}

	beneficiary := msg.Beneficiary
	if beneficiary == "" {
		beneficiary = msg.Sustainer
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	poolID, err := m.keeper.Sustain(sdkCtx, msg.Sustainer, msg.Owner, amount, beneficiary)
	if err != nil {
		return nil, err
	}

	if mp := m.keeper.GetPool(sdkCtx, poolID); mp != nil && amount.IsInt64() {
		metrics.GetCollector().RecordSustainment(mp.WantDenom, float64(amount.Int64()))
	}
	return &types.MsgSustainResponse{PoolID: poolID}, nil
}

// CollectRedistributions handles MsgCollectRedistributions
func (m *MsgServer) CollectRedistributions(ctx context.Context, msg *types.MsgCollectRedistributions) (*types.MsgCollectRedistributionsResponse, error) {
	timer := metrics.NewTimer()

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	amount, err := m.keeper.CollectRedistributions(sdkCtx, msg.Sustainer)
	if err != nil {
		return nil, err
	}

	m.recordRedistribution(sdkCtx, msg.Sustainer, amount, timer)
	return &types.MsgCollectRedistributionsResponse{Amount: amount.String()}, nil
}

// CollectRedistributionsFrom handles MsgCollectRedistributionsFrom
func (m *MsgServer) CollectRedistributionsFrom(ctx context.Context, msg *types.MsgCollectRedistributionsFrom) (*types.MsgCollectRedistributionsResponse, error) {
	timer := metrics.NewTimer()

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	amount, err := m.keeper.CollectRedistributionsFrom(sdkCtx, msg.Sustainer, msg.Owner)
	if err != nil {
		return nil, err
	}

	m.recordRedistribution(sdkCtx, msg.Sustainer, amount, timer)
	return &types.MsgCollectRedistributionsResponse{Amount: amount.String()}, nil
}

// CollectRedistributionsFromMany handles MsgCollectRedistributionsFromMany
func (m *MsgServer) CollectRedistributionsFromMany(ctx context.Context, msg *types.MsgCollectRedistributionsFromMany) (*types.MsgCollectRedistributionsResponse, error) {
	timer := metrics.NewTimer()

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	amount, err := m.keeper.CollectRedistributionsFromMany(sdkCtx, msg.Sustainer, msg.Owners)
	if err != nil {
		return nil, err
	}

	m.recordRedistribution(sdkCtx, msg.Sustainer, amount, timer)
	return &types.MsgCollectRedistributionsResponse{Amount: amount.String()}, nil
}

// CollectSustainment handles MsgCollectSustainment
func (m *MsgServer) CollectSustainment(ctx context.Context, msg *types.MsgCollectSustainment) (*types.MsgCollectSustainmentResponse, error) {
	amount, ok := math.NewIntFromString(msg.Amount)
	if !ok {
		return nil, types.ErrInvalidAmount
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := m.keeper.CollectSustainment(sdkCtx, msg.Owner, msg.PoolID, amount); err != nil {
		return nil, err
	}

	if mp := m.keeper.GetPool(sdkCtx, msg.PoolID); mp != nil && amount.IsInt64() {
		metrics.GetCollector().RecordTap(mp.WantDenom, float64(amount.Int64()))
	}
	return &types.MsgCollectSustainmentResponse{Collected: true}, nil
}

// recordRedistribution emits payout telemetry. The denom label comes from
// the first sustained owner's latest pool; a mixed-denom collect shares
// one label, the transfer itself moves every denom.
func (m *MsgServer) recordRedistribution(ctx sdk.Context, sustainer string, amount math.Int, timer *metrics.Timer) {
	if amount.IsZero() || !amount.IsInt64() {
		return
	}
	denom := ""
	for _, owner := range m.keeper.GetSustainedOwners(ctx, sustainer) {
		if mp := m.keeper.GetPool(ctx, m.keeper.LatestPoolID(ctx, owner)); mp != nil {
			denom = mp.WantDenom
			break
		}
	}
	metrics.GetCollector().RecordRedistribution(denom, float64(amount.Int64()), timer.ElapsedMs())
}
