package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
)

// GetQueryCmd returns the cli query commands for the moneypool module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "moneypool",
		Short:                      "Querying commands for the moneypool module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdQueryPool(),
		CmdQueryActivePool(),
		CmdQueryUpcomingPool(),
		CmdQueryTrackedShare(),
	)

	return cmd
}

// CmdQueryPool returns the command to query a pool by id
func CmdQueryPool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool [pool-id]",
		Short: "Query a money pool by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Pool query requires running node connection")
			fmt.Printf("Use REST API: GET /v1/pools/%s\n", args[0])
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryActivePool returns the command to query an owner's active pool
func CmdQueryActivePool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "active-pool [owner]",
		Short: "Query an owner's currently active money pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Active pool query requires running node connection")
			fmt.Printf("Use REST API: GET /v1/owners/%s/active\n", args[0])
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryUpcomingPool returns the command to query an owner's upcoming pool
func CmdQueryUpcomingPool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upcoming-pool [owner]",
		Short: "Query an owner's queued money pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Upcoming pool query requires running node connection")
			fmt.Printf("Use REST API: GET /v1/owners/%s/upcoming\n", args[0])
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryTrackedShare returns the command to query a sustainer's surplus share
func CmdQueryTrackedShare() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tracked-share [pool-id] [sustainer]",
		Short: "Query a sustainer's share of a pool's surplus",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Tracked share query requires running node connection")
			fmt.Printf("Use REST API: GET /v1/pools/%s/share/%s\n", args[0], args[1])
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}
