package types

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

var (
	testAddr    = sdk.AccAddress([]byte("addr________________")).String()
	testAddrTwo = sdk.AccAddress([]byte("addr_two____________")).String()
)

func TestMsgConfigureValidateBasic(t *testing.T) {
	testCases := []struct {
		name    string
		msg     MsgConfigure
		wantErr bool
	}{
		{
			name: "valid",
			msg:  MsgConfigure{Owner: testAddr, Target: "1000", Duration: 3600, WantDenom: "usus"},
		},
		{
			name:    "bad owner",
			msg:     MsgConfigure{Owner: "not-bech32", Target: "1000", Duration: 3600, WantDenom: "usus"},
			wantErr: true,
		},
		{
			name:    "non-numeric target",
			msg:     MsgConfigure{Owner: testAddr, Target: "a lot", Duration: 3600, WantDenom: "usus"},
			wantErr: true,
		},
		{
			name:    "zero target",
			msg:     MsgConfigure{Owner: testAddr, Target: "0", Duration: 3600, WantDenom: "usus"},
			wantErr: true,
		},
		{
			name:    "zero duration",
			msg:     MsgConfigure{Owner: testAddr, Target: "1000", Duration: 0, WantDenom: "usus"},
			wantErr: true,
		},
		{
			name:    "empty denom",
			msg:     MsgConfigure{Owner: testAddr, Target: "1000", Duration: 3600},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.msg.ValidateBasic()
			if tc.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestMsgSustainValidateBasic(t *testing.T) {
	testCases := []struct {
		name    string
		msg     MsgSustain
		wantErr bool
	}{
		{
			name: "valid",
			msg:  MsgSustain{Sustainer: testAddr, Owner: testAddrTwo, Amount: "100", Beneficiary: testAddr},
		},
		{
			name:    "bad beneficiary",
			msg:     MsgSustain{Sustainer: testAddr, Owner: testAddrTwo, Amount: "100", Beneficiary: "nobody"},
			wantErr: true,
		},
		{
			name:    "negative amount",
			msg:     MsgSustain{Sustainer: testAddr, Owner: testAddrTwo, Amount: "-100", Beneficiary: testAddr},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.msg.ValidateBasic()
			if tc.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestMsgCollectSustainmentValidateBasic(t *testing.T) {
	valid := MsgCollectSustainment{Owner: testAddr, PoolID: 1, Amount: "50"}
	if err := valid.ValidateBasic(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	noPool := MsgCollectSustainment{Owner: testAddr, PoolID: 0, Amount: "50"}
	if err := noPool.ValidateBasic(); err == nil {
		t.Error("expected error for zero pool id")
	}
}

func TestMsgSigners(t *testing.T) {
	msgs := []sdk.Msg{
		&MsgConfigure{Owner: testAddr},
		&MsgSustain{Sustainer: testAddr},
		&MsgCollectRedistributions{Sustainer: testAddr},
		&MsgCollectRedistributionsFrom{Sustainer: testAddr},
		&MsgCollectRedistributionsFromMany{Sustainer: testAddr},
		&MsgCollectSustainment{Owner: testAddr},
	}

	type signers interface {
		GetSigners() []sdk.AccAddress
	}
	for _, msg := range msgs {
		got := msg.(signers).GetSigners()
		if len(got) != 1 || got[0].String() != testAddr {
			t.Errorf("%T: expected signer %s, got %v", msg, testAddr, got)
		}
	}
}
