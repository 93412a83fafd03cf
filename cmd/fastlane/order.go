package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/synnergy-labs/fastlane-engine/internal/engine"
	"github.com/synnergy-labs/fastlane-engine/internal/engine/ids"
)

func buildOrderFromFlags(amountIn, minAmountOut, maxFee, initAuctionFee uint64, targetChain uint16, redeemer, sender, refund, closeRecipient string, vaaSequence uint64, vaaTimestamp uint32, emitterChain uint16, emitterAddress string) (engine.FastMarketOrderRecord, error) {
	var rec engine.FastMarketOrderRecord
	var err error
	if rec.Redeemer, err = ids.ParseAddress(redeemer); err != nil {
		return rec, fmt.Errorf("redeemer: %w", err)
	}
	if rec.Sender, err = ids.ParseAddress(sender); err != nil {
		return rec, fmt.Errorf("sender: %w", err)
	}
	if rec.RefundAddress, err = ids.ParseAddress(refund); err != nil {
		return rec, fmt.Errorf("refund: %w", err)
	}
	if rec.CloseAccountRefundRecipient, err = ids.ParseAddress(closeRecipient); err != nil {
		return rec, fmt.Errorf("close-recipient: %w", err)
	}
	if rec.VAAEmitterAddress, err = ids.ParseAddress(emitterAddress); err != nil {
		return rec, fmt.Errorf("emitter-address: %w", err)
	}
	rec.AmountIn = amountIn
	rec.MinAmountOut = minAmountOut
	rec.MaxFee = maxFee
	rec.InitAuctionFee = initAuctionFee
	rec.TargetChain = targetChain
	rec.VAASequence = vaaSequence
	rec.VAATimestamp = vaaTimestamp
	rec.VAAEmitterChain = emitterChain
	return rec, nil
}

func orderCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "order", Short: "Manage fast market order records"}

	var (
		amountIn, minAmountOut, maxFee, initAuctionFee, vaaSequence uint64
		targetChain, emitterChain                                   uint16
		vaaTimestamp                                                uint32
		redeemer, sender, refund, closeRecipient, emitterAddress    string
		guardianSetBump                                             uint8
	)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a fast market order record",
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := callerAddress()
			if err != nil {
				return err
			}
			rec, err := buildOrderFromFlags(amountIn, minAmountOut, maxFee, initAuctionFee, targetChain, redeemer, sender, refund, closeRecipient, vaaSequence, vaaTimestamp, emitterChain, emitterAddress)
			if err != nil {
				return err
			}
			sharedCtx.Caller = caller
			digest, err := engine.InitializeFastMarketOrder(sharedCtx, rec, guardianSetBump)
			if err != nil {
				return err
			}
			cmd.Println("digest:", digest.String())
			return nil
		},
	}
	initCmd.Flags().Uint64Var(&amountIn, "amount-in", 0, "bridged principal amount")
	initCmd.Flags().Uint64Var(&minAmountOut, "min-amount-out", 0, "minimum acceptable payout")
	initCmd.Flags().Uint64Var(&maxFee, "max-fee", 0, "maximum fee a solver may charge")
	initCmd.Flags().Uint64Var(&initAuctionFee, "init-auction-fee", 0, "fee owed to whoever opens the auction")
	initCmd.Flags().Uint16Var(&targetChain, "target-chain", 0, "destination chain id")
	initCmd.Flags().StringVar(&redeemer, "redeemer", "", "redeemer address on the target chain")
	initCmd.Flags().StringVar(&sender, "sender", "", "sender address on the source chain")
	initCmd.Flags().StringVar(&refund, "refund", "", "refund address on the source chain")
	initCmd.Flags().StringVar(&closeRecipient, "close-recipient", "", "address permitted to close this record")
	initCmd.Flags().Uint64Var(&vaaSequence, "vaa-sequence", 0, "source attested message sequence")
	initCmd.Flags().Uint32Var(&vaaTimestamp, "vaa-timestamp", 0, "source attested message unix timestamp")
	initCmd.Flags().Uint16Var(&emitterChain, "emitter-chain", 0, "source chain id")
	initCmd.Flags().StringVar(&emitterAddress, "emitter-address", "", "source emitter address")
	initCmd.Flags().Uint8Var(&guardianSetBump, "guardian-set-bump", 0, "guardian set bump the digest was attested under")

	var digestHex, closeRecipientClose string
	closeCmd := &cobra.Command{
		Use:   "close",
		Short: "Close a fast market order record",
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := callerAddress()
			if err != nil {
				return err
			}
			digest, err := parseHash(digestHex)
			if err != nil {
				return err
			}
			closeAddr, err := ids.ParseAddress(closeRecipientClose)
			if err != nil {
				return fmt.Errorf("close-recipient: %w", err)
			}
			sharedCtx.Caller = caller
			if err := engine.CloseFastMarketOrder(sharedCtx, digest, closeAddr); err != nil {
				return err
			}
			cmd.Println("order closed")
			return nil
		},
	}
	closeCmd.Flags().StringVar(&digestHex, "digest", "", "hex-encoded order digest")
	closeCmd.Flags().StringVar(&closeRecipientClose, "close-recipient", "", "address permitted to close this record")

	cmd.AddCommand(initCmd, closeCmd)
	return cmd
}
