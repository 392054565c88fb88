package types

// PoolResponse is the REST projection of a money pool
type PoolResponse struct {
	ID         uint64 `json:"id"`
	Owner      string `json:"owner"`
	WantDenom  string `json:"want_denom"`
	Target     string `json:"target"`
	Duration   int64  `json:"duration"`
	Total      string `json:"total"`
	Tapped     string `json:"tapped"`
	Start      int64  `json:"start"`
	PreviousID uint64 `json:"previous_id"`
	State      string `json:"state"`
}

// ShareResponse reports a sustainer's stake in a pool
type ShareResponse struct {
	PoolID       uint64 `json:"pool_id"`
	Sustainer    string `json:"sustainer"`
	Sustainment  string `json:"sustainment"`
	TrackedShare string `json:"tracked_share"`
	Collected    bool   `json:"collected"`
}

// SustainedOwnersResponse lists the owners a sustainer has contributed to
type SustainedOwnersResponse struct {
	Sustainer string   `json:"sustainer"`
	Owners    []string `json:"owners"`
}

// TappableResponse reports how much a pool owner may still withdraw
type TappableResponse struct {
	PoolID   uint64 `json:"pool_id"`
	Tappable string `json:"tappable"`
}

// BroadcastRequest carries a signed transaction for submission
type BroadcastRequest struct {
	TxBytes string `json:"tx_bytes"` // base64
	Mode    string `json:"mode"`     // "sync" or "async"
}

// BroadcastResponse reports the submission result
type BroadcastResponse struct {
	TxHash string `json:"tx_hash"`
	Code   uint32 `json:"code"`
	RawLog string `json:"raw_log,omitempty"`
}

// ErrorResponse is the common error envelope
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// PoolService provides read access to money pool state
type PoolService interface {
	// GetPool returns a pool by id, nil if it does not exist
	GetPool(id uint64) (*PoolResponse, error)

	// GetPools returns all pools
	GetPools() ([]*PoolResponse, error)

	// GetOwnerPools returns an owner's pool chain, newest first
	GetOwnerPools(owner string) ([]*PoolResponse, error)

	// GetActivePool returns the owner's currently active pool, nil if none
	GetActivePool(owner string) (*PoolResponse, error)

	// GetUpcomingPool returns the owner's queued pool, nil if none
	GetUpcomingPool(owner string) (*PoolResponse, error)

	// GetShare returns the sustainer's stake in a pool
	GetShare(id uint64, sustainer string) (*ShareResponse, error)

	// GetTappable returns the owner-withdrawable amount of a pool
	GetTappable(id uint64) (*TappableResponse, error)

	// GetSustainedOwners returns the owners a sustainer has contributed to
	GetSustainedOwners(sustainer string) ([]string, error)
}
