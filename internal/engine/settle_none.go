package engine

import "github.com/synnergy-labs/fastlane-engine/internal/engine/codec"

// SettleAuctionNoneCctpShim delivers a fast-transfer order whose slow,
// bridged principal arrived without ever completing a fast-path execution:
// either no solver ever placed an offer (a is nil), or an auction exists
// and is still Active because ExecuteOrder never ran; the auction's slot
// windows are not checked. Supplements the distilled
// auction lifecycle with this unattended-settlement path, grounded on the
// same CCTP shim naming the original contract uses for its no-auction
// finalize instruction.
func SettleAuctionNoneCctpShim(ctx *Context, order FastMarketOrderRecord, a *Auction, arrivedAmount, baseFee uint64, target *RouterEndpoint) error {
	cust, err := GetCustodian(ctx.Store)
	if err != nil {
		return err
	}

	if a != nil {
		if a.Status != AuctionStatusActive {
			return ErrAuctionNotActive
		}
		// The auction's own escrow (amount_in + security_deposit) still
		// sits in its per-auction custody account; refund it there and
		// close the account, the same way ExecuteOrder would have.
		refund, ok := addU64(a.Info.AmountIn, a.Info.SecurityDeposit)
		if !ok {
			return ErrU64Overflow
		}
		if err := transferAsCustodian(ctx.Store, a.Info.CustodyTokenAccount, a.Info.BestOfferToken, refund); err != nil {
			return err
		}
		if err := closeAuctionCustodyAccount(ctx.Store, a.Info.CustodyTokenAccount); err != nil {
			return err
		}
		if err := ctx.Store.Delete(auctionKey(a.Digest)); err != nil {
			return err
		}
	}

	net, ok := subU64(arrivedAmount, baseFee)
	if !ok {
		net = 0
		baseFee = arrivedAmount
	}
	if baseFee > 0 {
		if err := transferAsCustodian(ctx.Store, cust.CustodyAccount, cust.FeeRecipient, baseFee); err != nil {
			return err
		}
	}

	if net == 0 {
		ctx.log().Info("settled unattended order with zero net payout after fee")
		return nil
	}

	if target.Kind == EndpointKindLocal {
		if err := transferAsCustodian(ctx.Store, cust.CustodyAccount, order.Redeemer, net); err != nil {
			return err
		}
	} else {
		fill := codec.Fill{
			SourceChain:     order.VAAEmitterChain,
			OrderSender:     order.Sender,
			Redeemer:        order.Redeemer,
			RedeemerMessage: order.RedeemerMessage,
		}
		payload := fill.Encode()
		_, err := ctx.Burn.DepositForBurnWithCaller(BurnRequest{
			BurnSource:        cust.CustodyAccount,
			Amount:            net,
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

	ctx.log().Info("settled unattended order via cctp shim")
	if ctx.Metrics != nil {
		ctx.Metrics.AuctionsSettled.Inc()
	}
	return nil
}
