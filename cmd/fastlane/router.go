package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/synnergy-labs/fastlane-engine/internal/engine"
	"github.com/synnergy-labs/fastlane-engine/internal/engine/ids"
)

func routerCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "router", Short: "Manage router endpoints"}

	var chain uint16
	var domain uint32
	var address, mintRecipient string

	addCctp := &cobra.Command{
		Use:   "add-cctp",
		Short: "Register a remote chain reachable through the CCTP transport",
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := callerAddress()
			if err != nil {
				return err
			}
			addr, err := ids.ParseAddress(address)
			if err != nil {
				return fmt.Errorf("address: %w", err)
			}
			mint, err := ids.ParseAddress(mintRecipient)
			if err != nil {
				return fmt.Errorf("mint-recipient: %w", err)
			}
			sharedCtx.Caller = caller
			ep := engine.RouterEndpoint{Chain: chain, Kind: engine.EndpointKindCctp, Address: addr, MintRecipient: mint, Domain: domain}
			if err := engine.AddCctpRouterEndpoint(sharedCtx, ep); err != nil {
				return err
			}
			cmd.Println("cctp endpoint registered")
			return nil
		},
	}
	addCctp.Flags().Uint16Var(&chain, "chain", 0, "remote chain id")
	addCctp.Flags().Uint32Var(&domain, "domain", 0, "cctp domain id")
	addCctp.Flags().StringVar(&address, "address", "", "attested-message emitter on the remote chain")
	addCctp.Flags().StringVar(&mintRecipient, "mint-recipient", "", "mint recipient on the remote chain")

	addLocal := &cobra.Command{
		Use:   "add-local",
		Short: "Register a chain settled directly by this engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := callerAddress()
			if err != nil {
				return err
			}
			addr, err := ids.ParseAddress(address)
			if err != nil {
				return fmt.Errorf("address: %w", err)
			}
			sharedCtx.Caller = caller
			if err := engine.AddLocalRouterEndpoint(sharedCtx, chain, addr); err != nil {
				return err
			}
			cmd.Println("local endpoint registered")
			return nil
		},
	}
	addLocal.Flags().Uint16Var(&chain, "chain", 0, "local chain id")
	addLocal.Flags().StringVar(&address, "address", "", "order emitter address")

	disable := &cobra.Command{
		Use:   "disable",
		Short: "Disable a registered router endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := callerAddress()
			if err != nil {
				return err
			}
			sharedCtx.Caller = caller
			if err := engine.DisableRouterEndpoint(sharedCtx, chain); err != nil {
				return err
			}
			cmd.Println("endpoint disabled")
			return nil
		},
	}
	disable.Flags().Uint16Var(&chain, "chain", 0, "chain id to disable")

	cmd.AddCommand(addCctp, addLocal, disable)
	return cmd
}
