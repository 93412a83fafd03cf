package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/synnergy-labs/fastlane-engine/internal/engine"
	"github.com/synnergy-labs/fastlane-engine/internal/engine/ids"
)

func auctionCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "auction", Short: "Bid on and execute fast market orders"}

	var (
		amountIn, minAmountOut, maxFee, initAuctionFee, vaaSequence uint64
		targetChain, emitterChain                                   uint16
		vaaTimestamp                                                 uint32
		redeemer, sender, refund, closeRecipient, emitterAddress     string
		offerPrice                                                   uint64
		bidderToken                                                  string
		configID                                                     uint32
	)

	registerOrderFlags := func(fs *cobra.Command) {
		fs.Flags().Uint64Var(&amountIn, "amount-in", 0, "bridged principal amount")
		fs.Flags().Uint64Var(&minAmountOut, "min-amount-out", 0, "minimum acceptable payout")
		fs.Flags().Uint64Var(&maxFee, "max-fee", 0, "maximum fee a solver may charge")
		fs.Flags().Uint64Var(&initAuctionFee, "init-auction-fee", 0, "fee owed to whoever opens the auction")
		fs.Flags().Uint16Var(&targetChain, "target-chain", 0, "destination chain id")
		fs.Flags().StringVar(&redeemer, "redeemer", "", "redeemer address on the target chain")
		fs.Flags().StringVar(&sender, "sender", "", "sender address on the source chain")
		fs.Flags().StringVar(&refund, "refund", "", "refund address on the source chain")
		fs.Flags().StringVar(&closeRecipient, "close-recipient", "", "address permitted to close this record")
		fs.Flags().Uint64Var(&vaaSequence, "vaa-sequence", 0, "source attested message sequence")
		fs.Flags().Uint32Var(&vaaTimestamp, "vaa-timestamp", 0, "source attested message unix timestamp")
		fs.Flags().Uint16Var(&emitterChain, "emitter-chain", 0, "source chain id")
		fs.Flags().StringVar(&emitterAddress, "emitter-address", "", "source emitter address")
	}

	offerCmd := &cobra.Command{
		Use:   "offer",
		Short: "Place the initial offer on a fast market order",
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := callerAddress()
			if err != nil {
				return err
			}
			rec, err := buildOrderFromFlags(amountIn, minAmountOut, maxFee, initAuctionFee, targetChain, redeemer, sender, refund, closeRecipient, vaaSequence, vaaTimestamp, emitterChain, emitterAddress)
			if err != nil {
				return err
			}
			bidder, err := ids.ParseAddress(bidderToken)
			if err != nil {
				return fmt.Errorf("bidder-token: %w", err)
			}
			sharedCtx.Caller = caller
			digest, err := engine.PlaceInitialOffer(sharedCtx, rec, configID, offerPrice, bidder)
			if err != nil {
				return err
			}
			cmd.Println("digest:", digest.String())
			return nil
		},
	}
	registerOrderFlags(offerCmd)
	offerCmd.Flags().Uint32Var(&configID, "config-id", 0, "auction config id to bid under")
	offerCmd.Flags().Uint64Var(&offerPrice, "offer-price", 0, "fee the bidder is charging")
	offerCmd.Flags().StringVar(&bidderToken, "bidder-token", "", "bidder's token account address")

	var digestHex string
	improveCmd := &cobra.Command{
		Use:   "improve",
		Short: "Improve the best offer on an active auction",
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := callerAddress()
			if err != nil {
				return err
			}
			digest, err := parseHash(digestHex)
			if err != nil {
				return err
			}
			bidder, err := ids.ParseAddress(bidderToken)
			if err != nil {
				return fmt.Errorf("bidder-token: %w", err)
			}
			sharedCtx.Caller = caller
			if err := engine.ImproveOffer(sharedCtx, digest, offerPrice, bidder); err != nil {
				return err
			}
			cmd.Println("offer improved")
			return nil
		},
	}
	improveCmd.Flags().StringVar(&digestHex, "digest", "", "hex-encoded order digest")
	improveCmd.Flags().Uint64Var(&offerPrice, "offer-price", 0, "new fee the bidder is charging")
	improveCmd.Flags().StringVar(&bidderToken, "bidder-token", "", "bidder's token account address")

	var executorToken string
	executeCmd := &cobra.Command{
		Use:   "execute",
		Short: "Execute an order whose bidding window has closed",
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := callerAddress()
			if err != nil {
				return err
			}
			rec, err := buildOrderFromFlags(amountIn, minAmountOut, maxFee, initAuctionFee, targetChain, redeemer, sender, refund, closeRecipient, vaaSequence, vaaTimestamp, emitterChain, emitterAddress)
			if err != nil {
				return err
			}
			executor, err := ids.ParseAddress(executorToken)
			if err != nil {
				return fmt.Errorf("executor-token: %w", err)
			}
			sharedCtx.Caller = caller
			fill, err := engine.ExecuteOrder(sharedCtx, rec, executor)
			if err != nil {
				return err
			}
			cmd.Printf("executed, fill redeemer=%s\n", fill.Redeemer.String())
			return nil
		},
	}
	registerOrderFlags(executeCmd)
	executeCmd.Flags().StringVar(&executorToken, "executor-token", "", "executor's token account address")

	cmd.AddCommand(offerCmd, improveCmd, executeCmd)
	return cmd
}
