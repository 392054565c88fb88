package types

import (
	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// RegisterInterfaces registers the module's message types
func RegisterInterfaces(registry cdctypes.InterfaceRegistry) {
	registry.RegisterImplementations((*sdk.Msg)(nil),
		&MsgConfigure{},
		&MsgSustain{},
		&MsgCollectRedistributions{},
		&MsgCollectRedistributionsFrom{},
		&MsgCollectRedistributionsFromMany{},
		&MsgCollectSustainment{},
	)
}
