package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/synnergy-labs/fastlane-engine/internal/engine"
	"github.com/synnergy-labs/fastlane-engine/internal/engine/ids"
)

func custodianCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "custodian", Short: "Manage the engine's singleton custodian account"}

	var feeRecipient, custodyAccount string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the custodian account",
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := callerAddress()
			if err != nil {
				return err
			}
			fee, err := ids.ParseAddress(feeRecipient)
			if err != nil {
				return fmt.Errorf("fee-recipient: %w", err)
			}
			custody, err := ids.ParseAddress(custodyAccount)
			if err != nil {
				return fmt.Errorf("custody-account: %w", err)
			}
			sharedCtx.Caller = caller
			if err := engine.InitializeCustodian(sharedCtx, caller, fee, custody); err != nil {
				return err
			}
			cmd.Println("custodian initialized")
			return nil
		},
	}
	initCmd.Flags().StringVar(&feeRecipient, "fee-recipient", "", "address receiving auction fees")
	initCmd.Flags().StringVar(&custodyAccount, "custody-account", "", "address of the custody token account")
	_ = initCmd.MarkFlagRequired("fee-recipient")
	_ = initCmd.MarkFlagRequired("custody-account")

	var paused bool
	pauseCmd := &cobra.Command{
		Use:   "pause",
		Short: "Toggle the custodian's pause flag",
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := callerAddress()
			if err != nil {
				return err
			}
			sharedCtx.Caller = caller
			if err := engine.SetPause(sharedCtx, paused); err != nil {
				return err
			}
			cmd.Printf("paused=%v\n", paused)
			return nil
		},
	}
	pauseCmd.Flags().BoolVar(&paused, "value", true, "pause state to set")

	cmd.AddCommand(initCmd, pauseCmd)
	return cmd
}
