package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"

	"github.com/sustainers/sustain-chain/x/moneypool/types"
)

const flagBeneficiary = "beneficiary"

// GetTxCmd returns the transaction commands for the moneypool module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "moneypool",
		Short:                      "Money pool transaction commands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdConfigure(),
		CmdSustain(),
		CmdCollectRedistributions(),
		CmdCollectRedistributionsFrom(),
		CmdCollectSustainment(),
	)

	return cmd
}

// CmdConfigure returns the command to declare or update pool terms
func CmdConfigure() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configure [target] [duration-seconds] [denom]",
		Short: "Declare or update the terms of your queued money pool",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			if _, ok := math.NewIntFromString(args[0]); !ok {
				return fmt.Errorf("invalid target: %s", args[0])
			}
			duration, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid duration: %v", err)
			}

			msg := &types.MsgConfigure{
				Owner:     clientCtx.GetFromAddress().String(),
				Target:    args[0],
				Duration:  duration,
				WantDenom: args[2],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSustain returns the command to contribute to an owner's pool
func CmdSustain() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sustain [owner] [amount]",
		Short: "Contribute to an owner's currently open money pool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			if _, ok := math.NewIntFromString(args[1]); !ok {
				return fmt.Errorf("invalid amount: %s", args[1])
			}

			beneficiary, err := cmd.Flags().GetString(flagBeneficiary)
			if err != nil {
				return err
			}
			if beneficiary == "" {
				beneficiary = clientCtx.GetFromAddress().String()
			}

			msg := &types.MsgSustain{
				Sustainer:   clientCtx.GetFromAddress().String(),
				Owner:       args[0],
				Amount:      args[1],
				Beneficiary: beneficiary,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	cmd.Flags().String(flagBeneficiary, "", "Credit the contribution to this address instead of the sender")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdCollectRedistributions returns the command to collect surplus shares
// across all sustained owners
func CmdCollectRedistributions() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect-redistributions",
		Short: "Collect your surplus shares across every owner you have sustained",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgCollectRedistributions{
				Sustainer: clientCtx.GetFromAddress().String(),
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdCollectRedistributionsFrom returns the command to collect surplus shares
// from the named owners only
func CmdCollectRedistributionsFrom() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect-redistributions-from [owner] [owner...]",
		Short: "Collect your surplus shares from the named owners",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			sustainer := clientCtx.GetFromAddress().String()
			if len(args) == 1 {
				msg := &types.MsgCollectRedistributionsFrom{
					Sustainer: sustainer,
					Owner:     args[0],
				}
				return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
			}

			msg := &types.MsgCollectRedistributionsFromMany{
				Sustainer: sustainer,
				Owners:    args,
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdCollectSustainment returns the command for an owner to withdraw
// collected funds from one of their pools
func CmdCollectSustainment() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect-sustainment [pool-id] [amount]",
		Short: "Withdraw collected sustainment funds from one of your pools",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			poolID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid pool id: %v", err)
			}
			if _, ok := math.NewIntFromString(args[1]); !ok {
				return fmt.Errorf("invalid amount: %s", args[1])
			}

			msg := &types.MsgCollectSustainment{
				Owner:  clientCtx.GetFromAddress().String(),
				PoolID: poolID,
				Amount: args[1],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}
