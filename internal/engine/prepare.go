package engine

import "github.com/synnergy-labs/fastlane-engine/internal/engine/codec"

// PrepareOrderResponse is C7: it verifies the finalized/slow attested
// message that carries the order's bridged principal, redeems the
// accompanying CCTP transfer into custody, and settles the order —
// reimbursing a fast-path executor if one already ran (SettleAuctionComplete)
// or delivering the funds directly if none ever did (SettleAuctionNoneCctpShim).
//
// The finalized VAA's sequence must immediately precede the fast order's own
// sequence (finalizedSequence == order.VAASequence - 1); this pins the two
// attested messages as a matched pair emitted back-to-back by the same
// source-chain transaction, per spec.md §9's resolved open question.
func PrepareOrderResponse(ctx *Context, order FastMarketOrderRecord, finalizedHeader codec.Header, deposit codec.Deposit, encodedCctpMessage, attestation []byte, guardianSetBump uint8) error {
	digest, err := order.Digest()
	if err != nil {
		return err
	}

	if order.VAASequence == 0 || finalizedHeader.Sequence != order.VAASequence-1 {
		return ErrSequenceMismatch
	}

	finalizedDigest := codec.FinalizedDigest(finalizedHeader, deposit)
	if err := ctx.Guardian.VerifyHash(guardianSetBump, finalizedDigest); err != nil {
		if ctx.Metrics != nil {
			ctx.Metrics.DigestFailures.Inc()
		}
		return err
	}

	target, err := GetRouterEndpoint(ctx.Store, order.TargetChain)
	if err != nil {
		return err
	}
	if target.Disabled {
		return ErrEndpointDisabled
	}

	received, err := ctx.Burn.ReceiveMessage(encodedCctpMessage, attestation)
	if err != nil {
		return err
	}

	cust, err := GetCustodian(ctx.Store)
	if err != nil {
		return err
	}
	if received.MintRecipient != cust.CustodyAccount {
		return ErrInvalidMint
	}

	key := string(auctionKey(digest))
	return ctx.Locks.WithLocks([]string{key}, func() error {
		a, err := GetAuction(ctx.Store, digest)
		if err == ErrAccountNotInitialized {
			return SettleAuctionNoneCctpShim(ctx, order, nil, received.Amount, deposit.BaseFee, target)
		}
		if err != nil {
			return err
		}
		if a.Status == AuctionStatusCompleted {
			return SettleAuctionComplete(ctx, a, received.Amount, deposit.BaseFee)
		}
		return SettleAuctionNoneCctpShim(ctx, order, a, received.Amount, deposit.BaseFee, target)
	})
}
