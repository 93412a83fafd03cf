package engine

// SettleAuctionComplete reimburses the winning bidder once the order's slow,
// bridged principal has actually landed in custody, and pays the
// custodian's base fee to its fee recipient out of that same arrival.
// Supplements the distilled auction lifecycle with the two-phase
// fast/slow settlement the underlying protocol depends on: ExecuteOrder
// fronts the redeemer immediately from the bidder's own escrow, and this
// function only runs later, once PrepareOrderResponse has verified and
// collected the corresponding CCTP transfer.
func SettleAuctionComplete(ctx *Context, a *Auction, arrivedAmount, baseFee uint64) error {
	cust, err := GetCustodian(ctx.Store)
	if err != nil {
		return err
	}
	if a.Status != AuctionStatusCompleted {
		return ErrAuctionNotActive
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
	if net > 0 {
		if err := transferAsCustodian(ctx.Store, cust.CustodyAccount, a.Info.BestOfferToken, net); err != nil {
			return err
		}
	}

	if err := ctx.Store.Delete(auctionKey(a.Digest)); err != nil {
		return err
	}
	ctx.log().WithField("digest", a.Digest.String()).Info("auction settled")
	if ctx.Metrics != nil {
		ctx.Metrics.AuctionsSettled.Inc()
	}
	return nil
}
