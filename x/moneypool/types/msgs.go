package types

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message types
const (
	TypeMsgConfigure                      = "configure"
	TypeMsgSustain                        = "sustain"
	TypeMsgCollectRedistributions         = "collect_redistributions"
	TypeMsgCollectRedistributionsFrom     = "collect_redistributions_from"
	TypeMsgCollectRedistributionsFromMany = "collect_redistributions_from_many"
	TypeMsgCollectSustainment             = "collect_sustainment"
)

// MsgConfigure defines the Configure message. It declares or updates the
// owner's queued money pool terms.
type MsgConfigure struct {
	Owner     string `json:"owner"`
	Target    string `json:"target"`
	Duration  int64  `json:"duration"`
	WantDenom string `json:"want_denom"`
}

// Route implements sdk.Msg
func (msg MsgConfigure) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgConfigure) Type() string { return TypeMsgConfigure }

// ValidateBasic implements sdk.Msg
func (msg MsgConfigure) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return err
	}
	target, ok := math.NewIntFromString(msg.Target)
	if !ok || !target.IsPositive() {
		return ErrInvalidTarget
	}
	if msg.Duration < 1 {
		return ErrInvalidDuration
	}
	if err := sdk.ValidateDenom(msg.WantDenom); err != nil {
		return ErrInvalidDenom.Wrap(err.Error())
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgConfigure) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Owner)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgConfigure) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgConfigure) Reset() { *msg = MsgConfigure{} }

// String implements proto.Message
func (msg MsgConfigure) String() string {
	return fmt.Sprintf("MsgConfigure{Owner: %s, Target: %s, Duration: %d, WantDenom: %s}",
		msg.Owner, msg.Target, msg.Duration, msg.WantDenom)
}

// MsgConfigureResponse defines the Configure response
type MsgConfigureResponse struct {
	PoolID uint64 `json:"pool_id"`
}

// MsgSustain defines the Sustain message. The amount is contributed to the
// owner's currently open pool, credited to the beneficiary.
type MsgSustain struct {
	Sustainer   string `json:"sustainer"`
	Owner       string `json:"owner"`
	Amount      string `json:"amount"`
	Beneficiary string `json:"beneficiary"`
}

// Route implements sdk.Msg
func (msg MsgSustain) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgSustain) Type() string { return TypeMsgSustain }

// ValidateBasic implements sdk.Msg
func (msg MsgSustain) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Sustainer); err != nil {
		return err
	}
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return err
	}
	if _, err := sdk.AccAddressFromBech32(msg.Beneficiary); err != nil {
		return err
	}
	amount, ok := math.NewIntFromString(msg.Amount)
	if !ok || !amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgSustain) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Sustainer)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgSustain) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgSustain) Reset() { *msg = MsgSustain{} }

// String implements proto.Message
func (msg MsgSustain) String() string {
	return fmt.Sprintf("MsgSustain{Sustainer: %s, Owner: %s, Amount: %s, Beneficiary: %s}",
		msg.Sustainer, msg.Owner, msg.Amount, msg.Beneficiary)
}

// MsgSustainResponse defines the Sustain response
type MsgSustainResponse struct {
	PoolID uint64 `json:"pool_id"`
}

// MsgCollectRedistributions defines the CollectRedistributions message. It
// settles the sustainer's surplus shares across every owner they have ever
// sustained.
type MsgCollectRedistributions struct {
	Sustainer string `json:"sustainer"`
}

// Route implements sdk.Msg
func (msg MsgCollectRedistributions) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgCollectRedistributions) Type() string { return TypeMsgCollectRedistributions }

// ValidateBasic implements sdk.Msg
func (msg MsgCollectRedistributions) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Sustainer); err != nil {
		return err
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgCollectRedistributions) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Sustainer)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgCollectRedistributions) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgCollectRedistributions) Reset() { *msg = MsgCollectRedistributions{} }

// String implements proto.Message
func (msg MsgCollectRedistributions) String() string {
	return fmt.Sprintf("MsgCollectRedistributions{Sustainer: %s}", msg.Sustainer)
}

// MsgCollectRedistributionsFrom defines the CollectRedistributionsFrom
// message, limiting settlement to a single owner's pool history.
type MsgCollectRedistributionsFrom struct {
	Sustainer string `json:"sustainer"`
	Owner     string `json:"owner"`
}

// Route implements sdk.Msg
func (msg MsgCollectRedistributionsFrom) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgCollectRedistributionsFrom) Type() string { return TypeMsgCollectRedistributionsFrom }

// ValidateBasic implements sdk.Msg
func (msg MsgCollectRedistributionsFrom) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Sustainer); err != nil {
		return err
	}
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return err
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgCollectRedistributionsFrom) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Sustainer)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgCollectRedistributionsFrom) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgCollectRedistributionsFrom) Reset() { *msg = MsgCollectRedistributionsFrom{} }

// String implements proto.Message
func (msg MsgCollectRedistributionsFrom) String() string {
	return fmt.Sprintf("MsgCollectRedistributionsFrom{Sustainer: %s, Owner: %s}", msg.Sustainer, msg.Owner)
}

// MsgCollectRedistributionsFromMany defines the batched variant over a set
// of owners.
type MsgCollectRedistributionsFromMany struct {
	Sustainer string   `json:"sustainer"`
	Owners    []string `json:"owners"`
}

// Route implements sdk.Msg
func (msg MsgCollectRedistributionsFromMany) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgCollectRedistributionsFromMany) Type() string {
	return TypeMsgCollectRedistributionsFromMany
}

// ValidateBasic implements sdk.Msg
func (msg MsgCollectRedistributionsFromMany) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Sustainer); err != nil {
		return err
	}
	for _, owner := range msg.Owners {
		if _, err := sdk.AccAddressFromBech32(owner); err != nil {
			return err
		}
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgCollectRedistributionsFromMany) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Sustainer)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgCollectRedistributionsFromMany) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgCollectRedistributionsFromMany) Reset() { *msg = MsgCollectRedistributionsFromMany{} }

// String implements proto.Message
func (msg MsgCollectRedistributionsFromMany) String() string {
	return fmt.Sprintf("MsgCollectRedistributionsFromMany{Sustainer: %s, Owners: %d}",
		msg.Sustainer, len(msg.Owners))
}

// MsgCollectRedistributionsResponse is shared by the three collect variants
type MsgCollectRedistributionsResponse struct {
	Amount string `json:"amount"`
}

// MsgCollectSustainment defines the CollectSustainment message. The owner
// withdraws collected sustainment funds up to the pool target.
type MsgCollectSustainment struct {
	Owner  string `json:"owner"`
	PoolID uint64 `json:"pool_id"`
	Amount string `json:"amount"`
}

// Route implements sdk.Msg
func (msg MsgCollectSustainment) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgCollectSustainment) Type() string { return TypeMsgCollectSustainment }

// ValidateBasic implements sdk.Msg
func (msg MsgCollectSustainment) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return err
	}
	if msg.PoolID == NoPool {
		return ErrPoolNotFound
	}
	amount, ok := math.NewIntFromString(msg.Amount)
	if !ok || !amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgCollectSustainment) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Owner)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgCollectSustainment) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgCollectSustainment) Reset() { *msg = MsgCollectSustainment{} }

// String implements proto.Message
func (msg MsgCollectSustainment) String() string {
	return fmt.Sprintf("MsgCollectSustainment{Owner: %s, PoolID: %d, Amount: %s}",
		msg.Owner, msg.PoolID, msg.Amount)
}

// MsgCollectSustainmentResponse defines the CollectSustainment response
type MsgCollectSustainmentResponse struct {
	Collected bool `json:"collected"`
}

// Ensure all messages implement sdk.Msg interface
var (
	_ sdk.Msg = &MsgConfigure{}
	_ sdk.Msg = &MsgSustain{}
	_ sdk.Msg = &MsgCollectRedistributions{}
	_ sdk.Msg = &MsgCollectRedistributionsFrom{}
	_ sdk.Msg = &MsgCollectRedistributionsFromMany{}
	_ sdk.Msg = &MsgCollectSustainment{}
)
