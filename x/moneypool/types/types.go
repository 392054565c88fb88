package types

import (
	"cosmossdk.io/math"
)

// Module name and store key
const (
	ModuleName = "moneypool"
	StoreKey   = ModuleName
)

// NoPool is the id sentinel meaning "no pool".
const NoPool = uint64(0)

// PoolState describes where a pool sits in its time window.
type PoolState int

const (
	StateUpcoming PoolState = iota
	StateActive
	StateRedistributing
)

// String returns the state name
func (s PoolState) String() string {
	switch s {
	case StateUpcoming:
		return "upcoming"
	case StateActive:
		return "active"
	case StateRedistributing:
		return "redistributing"
	}
	return "unknown"
}

// Redistribution share arithmetic modes
const (
	// RedistributionModeLegacy truncates the sustainer's proportion of the
	// pool (per-mille) before multiplying by the surplus. Contributions
	// below one per-mille of the pool total round to a zero share.
	RedistributionModeLegacy = "legacy"
	// RedistributionModeCorrected multiplies before dividing, keeping full
	// integer precision up to the final truncation.
	RedistributionModeCorrected = "corrected"
)

// ProportionScale is the fixed-point base used by the legacy share mode.
var ProportionScale = math.NewInt(1000)

// MoneyPool is one funding round for one owner. Pools are addressed by
// monotonically increasing integer ids and are never deleted; once expired
// the only mutation path is lazy redistribution settlement.
type MoneyPool struct {
	ID         uint64   `json:"id"`
	Owner      string   `json:"owner"`
	WantDenom  string   `json:"want_denom"`
	Target     math.Int `json:"target"`
	Duration   int64    `json:"duration"` // seconds
	Total      math.Int `json:"total"`
	Tapped     math.Int `json:"tapped"`
	Start      int64    `json:"start"` // unix seconds
	PreviousID uint64   `json:"previous_id"`

	// Per-pool contributor ledgers. A clone starts with empty maps.
	Sustainments  map[string]math.Int `json:"sustainments"`
	Redistributed map[string]bool     `json:"redistributed"`
}

// NewMoneyPool creates a fresh pool for an owner
func NewMoneyPool(id uint64, owner string, start int64) *MoneyPool {
	return &MoneyPool{
		ID:            id,
		Owner:         owner,
		Target:        math.ZeroInt(),
		Tapped:        math.ZeroInt(),
		Total:         math.ZeroInt(),
		Start:         start,
		Sustainments:  make(map[string]math.Int),
		Redistributed: make(map[string]bool),
	}
}

// CloneFrom copies the configurable fields of a base pool into a new entity
// with the given id and start. Ledger fields start zeroed.
func CloneFrom(base *MoneyPool, id uint64, start int64) *MoneyPool {
	mp := NewMoneyPool(id, base.Owner, start)
	mp.WantDenom = base.WantDenom
	mp.Target = base.Target
	mp.Duration = base.Duration
	mp.PreviousID = base.ID
	return mp
}

// StateAt resolves the pool's lifecycle state at the given unix time.
// now > start+duration wins over now >= start.
func (mp *MoneyPool) StateAt(now int64) PoolState {
	if now > mp.Start+mp.Duration {
		return StateRedistributing
	}
	if now >= mp.Start {
		return StateActive
	}
	return StateUpcoming
}

// IsFunded reports whether the pool has received any contribution. Once
// funded, {target, duration, wantDenom} are frozen.
func (mp *MoneyPool) IsFunded() bool {
	return mp.Total.IsPositive()
}

// SustainmentOf returns the cumulative contribution recorded for a sustainer.
func (mp *MoneyPool) SustainmentOf(sustainer string) math.Int {
	if amt, ok := mp.Sustainments[sustainer]; ok {
		return amt
	}
	return math.ZeroInt()
}

// Tappable returns the amount the owner may still withdraw:
// min(total, target) - tapped.
func (mp *MoneyPool) Tappable() math.Int {
	return math.MinInt(mp.Total, mp.Target).Sub(mp.Tapped)
}

// Surplus returns the amount collected beyond the target, zero if the pool
// did not overflow.
func (mp *MoneyPool) Surplus() math.Int {
	if mp.Target.GTE(mp.Total) {
		return math.ZeroInt()
	}
	return mp.Total.Sub(mp.Target)
}

// TrackedShare computes the sustainer's proportional share of the pool
// surplus under the given arithmetic mode.
//
// The legacy mode reproduces the truncating-division-then-multiply behavior
// of the original ledger: the proportion is truncated at per-mille scale
// before the surplus multiply, so a sustainment below total/1000 yields a
// zero share even though nonzero funds were given. The corrected mode
// multiplies first.
func (mp *MoneyPool) TrackedShare(sustainer, mode string) math.Int {
	surplus := mp.Surplus()
	if surplus.IsZero() {
		return math.ZeroInt()
	}
	sustainment := mp.SustainmentOf(sustainer)
	if sustainment.IsZero() {
		return math.ZeroInt()
	}
	if mode == RedistributionModeCorrected {
		return surplus.Mul(sustainment).Quo(mp.Total)
	}
	proportion := sustainment.Mul(ProportionScale).Quo(mp.Total)
	return surplus.Mul(proportion).Quo(ProportionScale)
}

// PoolInfo is the read-only projection returned by queries.
type PoolInfo struct {
	ID        uint64   `json:"id"`
	WantDenom string   `json:"want_denom"`
	Target    math.Int `json:"target"`
	Start     int64    `json:"start"`
	Duration  int64    `json:"duration"`
	Total     math.Int `json:"total"`
}

// Info returns the pool's query projection.
func (mp *MoneyPool) Info() PoolInfo {
	return PoolInfo{
		ID:        mp.ID,
		WantDenom: mp.WantDenom,
		Target:    mp.Target,
		Start:     mp.Start,
		Duration:  mp.Duration,
		Total:     mp.Total,
	}
}

// GenesisState holds the exported module state. Chain pointers, the id
// sequence and the sustainer index are all derivable from the pool set.
type GenesisState struct {
	RedistributionMode string       `json:"redistribution_mode"`
	Pools              []*MoneyPool `json:"pools"`
}

// DefaultGenesisState returns an empty genesis with the legacy share mode.
func DefaultGenesisState() *GenesisState {
	return &GenesisState{RedistributionMode: RedistributionModeLegacy}
}

// Validate checks genesis invariants: ids positive and unique, targets
// positive, durations at least one second, tapped within bounds.
func (gs *GenesisState) Validate() error {
	if gs.RedistributionMode != RedistributionModeLegacy && gs.RedistributionMode != RedistributionModeCorrected {
		return ErrInvalidMode
	}
	seen := make(map[uint64]bool, len(gs.Pools))
	for _, mp := range gs.Pools {
		if mp.ID == NoPool || seen[mp.ID] {
			return ErrPoolNotFound
		}
		seen[mp.ID] = true
		if !mp.Target.IsPositive() {
			return ErrInvalidTarget
		}
		if mp.Duration < 1 {
			return ErrInvalidDuration
		}
		if mp.Tapped.GT(math.MinInt(mp.Total, mp.Target)) {
			return ErrInsufficientTappable
		}
	}
	return nil
}
