package engine

import (
	"github.com/synnergy-labs/fastlane-engine/internal/engine/codec"
	"github.com/synnergy-labs/fastlane-engine/internal/engine/ids"
)

// ExecuteOrder is C6: it closes an auction's bidding phase and distributes
// its per-auction custody — the redeemer's fast fill, the initial bidder's
// fee, the best offer's reimbursed escrow, and any residual left over to
// the executor — then closes the custody account, per spec.md §4.5's
// Distribution of custody. Routing of the redeemer's fill is local if the
// target chain is handled by this engine, or through the external
// burn/message transports otherwise.
//
// Only the best offer's own authority may execute during the grace period
// that follows the bidding window; after that, anyone may execute on the
// best offer's behalf, at the cost of the best offer forfeiting a growing
// share of its security deposit, per ComputeDepositPenalty.
func ExecuteOrder(ctx *Context, order FastMarketOrderRecord, executorToken ids.Address) (codec.Fill, error) {
	var fill codec.Fill

	digest, err := order.Digest()
	if err != nil {
		return fill, err
	}

	key := string(auctionKey(digest))
	err = ctx.Locks.WithLocks([]string{key}, func() error {
		cust, err := GetCustodian(ctx.Store)
		if err != nil {
			return err
		}
		if err := requireNotPaused(cust); err != nil {
			return err
		}
		a, err := GetAuction(ctx.Store, digest)
		if err != nil {
			return err
		}
		if a.Status != AuctionStatusActive {
			return ErrAuctionNotActive
		}
		params, err := GetAuctionConfig(ctx.Store, a.Info.ConfigID)
		if err != nil {
			return err
		}
		target, err := GetRouterEndpoint(ctx.Store, a.Info.TargetChain)
		if err != nil {
			return err
		}
		if target.Disabled {
			return ErrEndpointDisabled
		}

		currentSlot := ctx.Clock.Slot()
		durationEnd := a.Info.StartSlot + params.DurationSlots
		if currentSlot <= durationEnd {
			return ErrAuctionPeriodNotExpired
		}

		graceSlots := params.GracePeriodSlots
		if target.Kind == EndpointKindLocal {
			graceSlots += EExecuteFastOrderLocalAdditionalGracePeriod
		}
		graceEnd := durationEnd + graceSlots

		isBest := ctx.Caller == a.Info.BestOfferAuthority
		if currentSlot <= graceEnd && !isBest {
			return ErrAuctionPeriodNotExpired
		}

		// The penalty curve starts after the same grace period the executor
		// gate above uses, including the Local additional grace.
		penaltyParams := *params
		penaltyParams.GracePeriodSlots = graceSlots
		penalty, err := ComputeDepositPenalty(penaltyParams, a.Info.StartSlot, currentSlot, a.Info.SecurityDeposit)
		if err != nil {
			return err
		}
		// The penalty is only ever forfeited when the executor isn't the
		// best offer itself; a reward share still flows to the user
		// regardless of who executes, per spec.md §4.5 steps 1-2.
		bestIsExecutor := executorToken == a.Info.BestOfferToken

		custodyAddr := a.Info.CustodyTokenAccount
		escrow, ok := addU64(a.Info.AmountIn, a.Info.SecurityDeposit)
		if !ok {
			return ErrU64Overflow
		}
		remaining := escrow

		// 1. user_amount = amount_in - offer_price - init_auction_fee + reward
		userAmount := satSubU64(a.Info.AmountIn, a.Info.OfferPrice)
		userAmount = satSubU64(userAmount, a.Info.InitAuctionFee)
		userAmount, ok = addU64(userAmount, penalty.UserReward)
		if !ok {
			return ErrU64Overflow
		}

		// 2. deposit_and_fee = offer_price + security_deposit - reward - (penalty if executor != best else 0)
		depositAndFee, ok := addU64(a.Info.OfferPrice, a.Info.SecurityDeposit)
		if !ok {
			return ErrU64Overflow
		}
		depositAndFee = satSubU64(depositAndFee, penalty.UserReward)
		if !bestIsExecutor {
			depositAndFee = satSubU64(depositAndFee, penalty.Penalty)
			if penalty.Penalty > 0 && ctx.Metrics != nil {
				ctx.Metrics.ExecutionPenalties.Inc()
			}
		}

		// 3. init_auction_fee: pay the initial bidder directly if they're
		// still a valid, distinct USDC account; fold it into deposit_and_fee
		// if they are the winner; otherwise it's forfeited to the executor.
		initialAcc, err := checkedUSDCAccount(ctx.Store, a.Info.InitialOfferToken)
		if err != nil {
			return err
		}
		switch {
		case initialAcc != nil && a.Info.InitialOfferToken != a.Info.BestOfferToken:
			if a.Info.InitAuctionFee > 0 {
				if err := transferAsCustodian(ctx.Store, custodyAddr, a.Info.InitialOfferToken, a.Info.InitAuctionFee); err != nil {
					return err
				}
			}
			remaining = satSubU64(remaining, a.Info.InitAuctionFee)
		case initialAcc != nil:
			depositAndFee, ok = addU64(depositAndFee, a.Info.InitAuctionFee)
			if !ok {
				return ErrU64Overflow
			}
		}

		// 4. Pay the best offer its deposit_and_fee, unless it is itself the
		// executor, in which case it collects the whole remainder in the
		// final sweep below instead.
		if !bestIsExecutor {
			bestAcc, err := checkedUSDCAccount(ctx.Store, a.Info.BestOfferToken)
			if err != nil {
				return err
			}
			if bestAcc != nil {
				if depositAndFee > 0 {
					if err := transferAsCustodian(ctx.Store, custodyAddr, a.Info.BestOfferToken, depositAndFee); err != nil {
						return err
					}
				}
				remaining = satSubU64(remaining, depositAndFee)
			}
		}

		fill = codec.Fill{
			SourceChain:     a.Info.SourceChain,
			OrderSender:     order.Sender,
			Redeemer:        order.Redeemer,
			RedeemerMessage: order.RedeemerMessage,
		}

		if target.Kind == EndpointKindLocal {
			if err := transferAsCustodian(ctx.Store, custodyAddr, order.Redeemer, userAmount); err != nil {
				return err
			}
		} else {
			payload := fill.Encode()
			// C8 and C9 are invoked back to back inside the same locked
			// section as the custody distribution above: either both land
			// or the whole ExecuteOrder aborts, per spec.md §4.7.
			_, err := ctx.Burn.DepositForBurnWithCaller(BurnRequest{
				AuctionKey:        ids.Address(digest),
				BurnSource:        custodyAddr,
				Amount:            userAmount,
				DestinationDomain: target.Domain,
				DestinationCaller: target.Address,
				MintRecipient:     target.MintRecipient,
				Payload:           payload,
			})
			if err != nil {
				return err
			}
			if ctx.Message != nil {
				if _, err := ctx.Message.PostMessage(MessageRequest{
					Emitter: cust.CustodyAccount,
					Payload: payload,
				}); err != nil {
					return err
				}
			}
		}
		remaining = satSubU64(remaining, userAmount)

		// 5. Whatever is left in custody — the best offer's own deposit_and_fee
		// when it is the executor, or any forfeited/orphaned leftovers
		// otherwise — goes to the executor.
		if remaining > 0 {
			if err := transferAsCustodian(ctx.Store, custodyAddr, executorToken, remaining); err != nil {
				return err
			}
		}

		if err := closeAuctionCustodyAccount(ctx.Store, custodyAddr); err != nil {
			return err
		}

		a.Status = AuctionStatusCompleted
		if err := putAuction(ctx.Store, *a); err != nil {
			return err
		}
		ctx.log().WithField("digest", digest.String()).Info("order executed")
		if ctx.Metrics != nil {
			ctx.Metrics.AuctionsExecuted.Inc()
			ctx.Metrics.ActiveAuctions.Dec()
		}
		return nil
	})
	return fill, err
}
