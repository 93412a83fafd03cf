package engine

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/synnergy-labs/fastlane-engine/internal/engine/ids"
	"github.com/synnergy-labs/fastlane-engine/internal/engine/store"
)

// AuctionStatus tags the lifecycle stage of an Auction, per spec.md §4.5.
type AuctionStatus uint8

const (
	AuctionStatusActive AuctionStatus = iota
	AuctionStatusCompleted
)

// AuctionInfo carries the mutable bidding state of an inverse Dutch auction:
// the current best offer, who holds it, and the slot the auction started at
// (the sole clock an Auction is judged against).
type AuctionInfo struct {
	ConfigID           uint32      `json:"config_id"`
	StartSlot          uint64      `json:"start_slot"`
	BestOfferToken     ids.Address `json:"best_offer_token"`
	BestOfferAuthority ids.Address `json:"best_offer_authority"`
	// InitialOfferToken/Authority pin whoever placed the very first offer,
	// separately from BestOfferToken: ImproveOffer may outbid them, but the
	// order's init_auction_fee is still owed to the participant who
	// originally discovered and opened the auction, per spec.md §4.5.
	InitialOfferToken     ids.Address `json:"initial_offer_token"`
	InitialOfferAuthority ids.Address `json:"initial_offer_authority"`
	OfferPrice            uint64      `json:"offer_price"`
	InitialOfferPrice     uint64      `json:"initial_offer_price"`
	SecurityDeposit       uint64      `json:"security_deposit"`
	AmountIn              uint64      `json:"amount_in"`
	InitAuctionFee        uint64      `json:"init_auction_fee"`
	Redeemer              ids.Address `json:"redeemer"`
	SourceChain           uint16      `json:"source_chain"`
	TargetChain           uint16      `json:"target_chain"`
	// CustodyTokenAccount is the per-auction custody ATA at
	// PDA("auction-custody", auction_pk): it alone holds this auction's
	// amount_in + security_deposit while Active, keeping concurrent
	// auctions' escrow from commingling in the pooled custodian account.
	// Created in PlaceInitialOffer, closed in ExecuteOrder/
	// SettleAuctionNoneCctpShim, per spec.md §3 and §4.5.
	CustodyTokenAccount ids.Address `json:"custody_token_account"`
}

// auctionCustodyAddress derives the deterministic per-auction custody
// address PDA("auction-custody", digest) stands in for: a keccak digest of
// the domain tag and the auction's own content address, so two auctions
// never collide and the address is reproducible from the digest alone.
func auctionCustodyAddress(digest ids.Hash) ids.Address {
	sum := crypto.Keccak256([]byte("auction-custody"), digest[:])
	var addr ids.Address
	copy(addr[:], sum)
	return addr
}

// openAuctionCustodyAccount creates the per-auction custody token account
// for digest. Failing if one already exists guards against the (should be
// impossible, since auction digests are unique) case of a collision.
func openAuctionCustodyAccount(s store.KVStore, digest ids.Hash) (ids.Address, error) {
	addr := auctionCustodyAddress(digest)
	exists, err := s.Has(tokenKey(addr))
	if err != nil {
		return ids.Address{}, err
	}
	if exists {
		return ids.Address{}, ErrAccountInUse
	}
	acc := TokenAccount{Address: addr, Authority: addr, Mint: USDCMint}
	if err := PutTokenAccount(s, acc); err != nil {
		return ids.Address{}, err
	}
	return addr, nil
}

// closeAuctionCustodyAccount removes the per-auction custody token account,
// the engine's stand-in for transferring its authority to the Custodian and
// closing it once its balance has been fully distributed.
func closeAuctionCustodyAccount(s store.KVStore, addr ids.Address) error {
	return deleteTokenAccount(s, addr)
}

// Auction is the per-fast-order record the state machine mutates as offers
// come in and, eventually, as ExecuteOrder and settlement close it out.
type Auction struct {
	Digest ids.Hash      `json:"digest"`
	Status AuctionStatus `json:"status"`
	Info   AuctionInfo   `json:"info"`
}

func auctionKey(digest ids.Hash) []byte {
	return append([]byte("auction:"), digest[:]...)
}

func putAuction(s store.KVStore, a Auction) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return s.Set(auctionKey(a.Digest), raw)
}

// GetAuction loads the auction keyed by digest.
func GetAuction(s store.KVStore, digest ids.Hash) (*Auction, error) {
	raw, err := s.Get(auctionKey(digest))
	if err == store.ErrNotFound {
		return nil, ErrAccountNotInitialized
	}
	if err != nil {
		return nil, err
	}
	var a Auction
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// PlaceInitialOffer opens an auction for a fast market order: it validates
// the order hasn't expired, that source and target endpoints are active and
// distinct, charges amount_in plus the security deposit (max_fee plus the
// notional deposit) from the bidder's token account into the auction's own
// custody account, and records the bidder as the current best offer. Per spec.md §4.5, offerPrice must not exceed the
// order's max_fee.
func PlaceInitialOffer(ctx *Context, order FastMarketOrderRecord, configID uint32, offerPrice uint64, bidderToken ids.Address) (ids.Hash, error) {
	cust, err := GetCustodian(ctx.Store)
	if err != nil {
		return ids.Hash{}, err
	}
	if err := requireNotPaused(cust); err != nil {
		return ids.Hash{}, err
	}

	digest, err := order.Digest()
	if err != nil {
		return ids.Hash{}, err
	}

	if offerPrice > order.MaxFee {
		return ids.Hash{}, ErrOfferPriceTooHigh
	}

	deadline := order.Deadline
	if deadline == 0 {
		deadline = order.VAATimestamp + uint32(VAAAuctionExpirationTime/1e9)
	}
	if uint32(ctx.Clock.UnixTime()) > deadline {
		return ids.Hash{}, ErrFastMarketOrderExpired
	}

	source, target, err := requireActiveEndpoints(ctx.Store, order.VAAEmitterChain, order.TargetChain)
	if err != nil {
		return ids.Hash{}, err
	}
	if source.Address != order.VAAEmitterAddress {
		return ids.Hash{}, ErrInvalidSourceRouter
	}
	if target.Chain != order.TargetChain {
		return ids.Hash{}, ErrInvalidTargetRouter
	}

	params, err := GetAuctionConfig(ctx.Store, configID)
	if err != nil {
		return ids.Hash{}, err
	}
	notional, err := params.NotionalSecurityDeposit(order.AmountIn)
	if err != nil {
		return ids.Hash{}, err
	}
	deposit, ok := addU64(order.MaxFee, notional)
	if !ok {
		return ids.Hash{}, ErrU64Overflow
	}
	// The bidder fronts the redeemer's eventual fast fill themselves:
	// the auction's entire amount_in plus their collateral, regardless of
	// the fee (offerPrice) they're charging. offerPrice only determines
	// how custody is split back out at ExecuteOrder; the escrow itself is
	// fixed at amount_in + security_deposit per spec.md §4.5 step 4.
	totalCharge, ok := addU64(order.AmountIn, deposit)
	if !ok {
		return ids.Hash{}, ErrU64Overflow
	}

	key := string(auctionKey(digest))
	err = ctx.Locks.WithLocks([]string{key}, func() error {
		exists, err := ctx.Store.Has(auctionKey(digest))
		if err != nil {
			return err
		}
		if exists {
			return ErrAccountInUse
		}
		custodyAddr, err := openAuctionCustodyAccount(ctx.Store, digest)
		if err != nil {
			return err
		}
		if err := transferTokens(ctx.Store, bidderToken, custodyAddr, totalCharge, ctx.Caller); err != nil {
			return err
		}
		a := Auction{
			Digest: digest,
			Status: AuctionStatusActive,
			Info: AuctionInfo{
				ConfigID:              configID,
				StartSlot:             ctx.Clock.Slot(),
				BestOfferToken:        bidderToken,
				BestOfferAuthority:    ctx.Caller,
				InitialOfferToken:     bidderToken,
				InitialOfferAuthority: ctx.Caller,
				OfferPrice:            offerPrice,
				InitialOfferPrice:     offerPrice,
				SecurityDeposit:       deposit,
				AmountIn:              order.AmountIn,
				InitAuctionFee:        order.InitAuctionFee,
				Redeemer:              order.Redeemer,
				SourceChain:           order.VAAEmitterChain,
				TargetChain:           order.TargetChain,
				CustodyTokenAccount:   custodyAddr,
			},
		}
		return putAuction(ctx.Store, a)
	})
	if err != nil {
		return ids.Hash{}, err
	}
	ctx.log().WithField("digest", digest.String()).Info("auction started")
	if ctx.Metrics != nil {
		ctx.Metrics.AuctionsStarted.Inc()
		ctx.Metrics.ActiveAuctions.Inc()
	}
	return digest, nil
}

// ImproveOffer lets a new bidder underbid the current best offer, moving the
// descending-price auction forward. The improvement must clear
// MinOfferDelta (the anti-carping floor); the outgoing bidder's charge is
// refunded in full before the new bidder's charge is collected.
func ImproveOffer(ctx *Context, digest ids.Hash, newOfferPrice uint64, bidderToken ids.Address) error {
	key := string(auctionKey(digest))
	return ctx.Locks.WithLocks([]string{key}, func() error {
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
		if ctx.Clock.Slot() > a.Info.StartSlot+params.DurationSlots {
			return ErrAuctionNotActive
		}
		minDelta, err := params.MinOfferDelta(a.Info.OfferPrice)
		if err != nil {
			return err
		}
		if newOfferPrice+minDelta > a.Info.OfferPrice {
			return ErrCarpingNotAllowed
		}

		// Both the refund and the new charge are amount_in + security_deposit:
		// the escrow doesn't depend on offer_price, which only decides how
		// custody is split back out at ExecuteOrder (spec.md §4.5).
		refund, ok := addU64(a.Info.AmountIn, a.Info.SecurityDeposit)
		if !ok {
			return ErrU64Overflow
		}
		if err := transferAsCustodian(ctx.Store, a.Info.CustodyTokenAccount, a.Info.BestOfferToken, refund); err != nil {
			return err
		}
		charge := refund
		if err := transferTokens(ctx.Store, bidderToken, a.Info.CustodyTokenAccount, charge, ctx.Caller); err != nil {
			return err
		}

		a.Info.BestOfferToken = bidderToken
		a.Info.BestOfferAuthority = ctx.Caller
		a.Info.OfferPrice = newOfferPrice
		if err := putAuction(ctx.Store, *a); err != nil {
			return err
		}
		ctx.log().WithField("digest", digest.String()).WithField("offer_price", newOfferPrice).Info("offer improved")
		if ctx.Metrics != nil {
			ctx.Metrics.AuctionsImproved.Inc()
		}
		return nil
	})
}
