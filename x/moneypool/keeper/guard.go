package keeper

import (
	"sync/atomic"

	"github.com/sustainers/sustain-chain/x/moneypool/types"
)

// opGuard is the scoped mutual-exclusion primitive for one operation class.
// It is acquired on entry and released on every exit path of that class, so
// a bank-transfer callback re-entering the same class mid-flight fails
// instead of interleaving. A mutex would deadlock here: the reentrant call
// arrives on the same goroutine.
type opGuard struct {
	held atomic.Bool
}

// enter acquires the guard, failing if an instance of the class is already
// mid-flight.
func (g *opGuard) enter() error {
	if !g.held.CompareAndSwap(false, true) {
		return types.ErrReentrantCall
	}
	return nil
}

// exit releases the guard. Callers defer this immediately after enter.
func (g *opGuard) exit() {
	g.held.Store(false)
}
