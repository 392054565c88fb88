package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrInvalidTarget        = errors.Register(ModuleName, 1, "target must be positive")
	ErrInvalidDuration      = errors.Register(ModuleName, 2, "duration must be at least one second")
	ErrInvalidAmount        = errors.Register(ModuleName, 3, "amount must be positive")
	ErrPoolNotFound         = errors.Register(ModuleName, 4, "money pool not found")
	ErrNotPoolOwner         = errors.Register(ModuleName, 5, "sender is not the pool owner")
	ErrReentrantCall        = errors.Register(ModuleName, 6, "reentrant call into guarded operation")
	ErrInsufficientTappable = errors.Register(ModuleName, 7, "amount exceeds tappable sustainment")
	ErrInvalidDenom         = errors.Register(ModuleName, 8, "invalid want denom")
	ErrInvalidMode          = errors.Register(ModuleName, 9, "unknown redistribution mode")
)
