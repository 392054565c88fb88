package keeper

import (
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/sustainers/sustain-chain/metrics"
	"github.com/sustainers/sustain-chain/x/moneypool/types"
)

// EndBlocker scans pool state at the end of each block and emits telemetry.
// Lifecycle state stays lazily computed from block time, so no pool is
// mutated here; this pass only observes.
func (k *Keeper) EndBlocker(ctx sdk.Context) error {
	start := time.Now()
	now := blockNow(ctx)

	var upcoming, active, redistributing int
	pools := k.GetAllPools(ctx)
	for _, mp := range pools {
		switch mp.StateAt(now) {
		case types.StateUpcoming:
			upcoming++
		case types.StateActive:
			active++
		case types.StateRedistributing:
			redistributing++
		}
	}

	metrics.GetCollector().RecordPoolStates(upcoming, active, redistributing)
	metrics.GetCollector().UpdateBlockHeight(ctx.BlockHeight())

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"moneypool_endblock",
			sdk.NewAttribute("block_height", math.NewInt(ctx.BlockHeight()).String()),
			sdk.NewAttribute("pools", math.NewInt(int64(len(pools))).String()),
			sdk.NewAttribute("active", math.NewInt(int64(active)).String()),
			sdk.NewAttribute("redistributing", math.NewInt(int64(redistributing)).String()),
		),
	)

	k.logger.Debug("MoneyPool EndBlocker completed",
		"block", ctx.BlockHeight(),
		"total_ms", time.Since(start).Milliseconds(),
		"pools", len(pools),
		"upcoming", upcoming,
		"active", active,
		"redistributing", redistributing,
	)

	return nil
}
