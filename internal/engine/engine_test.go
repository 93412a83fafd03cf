package engine

import (
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/sirupsen/logrus"

	"github.com/synnergy-labs/fastlane-engine/internal/engine/codec"
	"github.com/synnergy-labs/fastlane-engine/internal/engine/ids"
	"github.com/synnergy-labs/fastlane-engine/internal/engine/store"
	"github.com/synnergy-labs/fastlane-engine/internal/engine/transport"
	"github.com/synnergy-labs/fastlane-engine/internal/guardian"
)

const guardianSetBump uint8 = 1

type harness struct {
	ctx      *Context
	verifier *guardian.MockVerifier
	burn     *transport.MockBurn
	message  *transport.MockMessage
	clock    *ManualClock
	owner    ids.Address
	feeRecip ids.Address
	custody  ids.Address
}

func addressFrom(b byte) ids.Address {
	var a ids.Address
	a[0] = b
	return a
}

func mustAttest(t *testing.T, v *guardian.MockVerifier, digest ids.Hash) {
	t.Helper()
	priv, err := guardian.GenerateGuardian()
	if err != nil {
		t.Fatalf("generate guardian: %v", err)
	}
	v.RegisterGuardianSet(guardianSetBump, guardian.GuardianSet{
		Threshold:  1,
		PublicKeys: []*secp256k1.PublicKey{priv.PubKey()},
	})
	sig := guardian.SignDigest(priv, digest)
	if err := v.Attest(guardianSetBump, digest, []guardian.Signature{{GuardianIndex: 0, Sig: sig}}); err != nil {
		t.Fatalf("attest: %v", err)
	}
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	h := &harness{
		verifier: guardian.NewMockVerifier(),
		burn:     transport.NewMockBurn(),
		message:  transport.NewMockMessage(),
		clock:    NewManualClock(0, 1_700_000_000),
		owner:    addressFrom(1),
		feeRecip: addressFrom(2),
		custody:  addressFrom(3),
	}
	h.ctx = &Context{
		Store:    store.NewMemory(),
		Locks:    store.NewKeyLocks(),
		Caller:   h.owner,
		Clock:    h.clock,
		Logger:   logger,
		Guardian: h.verifier,
		Burn:     h.burn,
		Message:  h.message,
	}

	if err := InitializeCustodian(h.ctx, h.owner, h.feeRecip, h.custody); err != nil {
		t.Fatalf("initialize custodian: %v", err)
	}
	custodyAcc := TokenAccount{Address: h.custody, Authority: h.custody, Mint: USDCMint}
	if err := PutTokenAccount(h.ctx.Store, custodyAcc); err != nil {
		t.Fatalf("seed custody account: %v", err)
	}
	feeAcc := TokenAccount{Address: h.feeRecip, Authority: h.feeRecip, Mint: USDCMint}
	if err := PutTokenAccount(h.ctx.Store, feeAcc); err != nil {
		t.Fatalf("seed fee account: %v", err)
	}
	return h
}

func (h *harness) fundedTokenAccount(t *testing.T, owner ids.Address, balance uint64) ids.Address {
	t.Helper()
	acc := TokenAccount{Address: owner, Authority: owner, Mint: USDCMint, Balance: balance}
	if err := PutTokenAccount(h.ctx.Store, acc); err != nil {
		t.Fatalf("fund account: %v", err)
	}
	return owner
}

func (h *harness) balance(t *testing.T, addr ids.Address) uint64 {
	t.Helper()
	acc, err := GetTokenAccount(h.ctx.Store, addr)
	if err != nil {
		t.Fatalf("get token account: %v", err)
	}
	if acc == nil {
		return 0
	}
	return acc.Balance
}

func buildOrder(t *testing.T, h *harness, amountIn, maxFee uint64, targetChain, sourceChain uint16, emitter, redeemer ids.Address) FastMarketOrderRecord {
	t.Helper()
	return FastMarketOrderRecord{
		AmountIn:                    amountIn,
		MinAmountOut:                amountIn - maxFee,
		MaxFee:                      maxFee,
		TargetChain:                 targetChain,
		Redeemer:                    redeemer,
		Sender:                      addressFrom(9),
		RefundAddress:               addressFrom(10),
		CloseAccountRefundRecipient: addressFrom(11),
		VAASequence:                 5,
		VAATimestamp:                uint32(h.clock.UnixTime()),
		VAAEmitterChain:             sourceChain,
		VAAEmitterAddress:           emitter,
	}
}

func TestFullLocalAuctionLifecycle(t *testing.T) {
	h := newHarness(t)
	emitter := addressFrom(20)
	redeemer := addressFrom(21)

	if err := AddLocalRouterEndpoint(h.ctx, 1, emitter); err != nil {
		t.Fatalf("add source endpoint: %v", err)
	}
	if err := AddLocalRouterEndpoint(h.ctx, 2, addressFrom(22)); err != nil {
		t.Fatalf("add target endpoint: %v", err)
	}

	configID, err := ProposeAuctionConfig(h.ctx, AuctionParameters{
		DurationSlots: 2, GracePeriodSlots: 5, PenaltyPeriodSlots: 10,
		InitialPenaltyBps: 100_000, UserPenaltyRewardBps: 200_000, MinOfferDeltaBps: 5_000,
		SecurityDepositBps: 50_000,
	})
	if err != nil {
		t.Fatalf("propose auction config: %v", err)
	}

	order := buildOrder(t, h, 1_000_000, 50_000, 2, 1, emitter, redeemer)
	digest, err := order.Digest()
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	mustAttest(t, h.verifier, digest)

	created, err := InitializeFastMarketOrder(h.ctx, order, guardianSetBump)
	if err != nil {
		t.Fatalf("initialize fast market order: %v", err)
	}
	if created != digest {
		t.Fatalf("created digest mismatch")
	}

	bidder := h.fundedTokenAccount(t, addressFrom(30), 2_000_000)
	offerPrice := uint64(40_000)
	h.ctx.Caller = addressFrom(30)
	if _, err := PlaceInitialOffer(h.ctx, order, configID, offerPrice, bidder); err != nil {
		t.Fatalf("place initial offer: %v", err)
	}

	h.clock.AdvanceSlots(10)
	h.ctx.Caller = h.owner
	PutTokenAccount(h.ctx.Store, TokenAccount{Address: redeemer, Authority: redeemer, Mint: USDCMint})

	h.ctx.Caller = addressFrom(30)
	if _, err := ExecuteOrder(h.ctx, order, bidder); err != nil {
		t.Fatalf("execute order: %v", err)
	}

	redeemerAmount := order.AmountIn - offerPrice
	if got := h.balance(t, redeemer); got != redeemerAmount {
		t.Fatalf("redeemer balance = %d, want %d", got, redeemerAmount)
	}

	auction, err := GetAuction(h.ctx.Store, digest)
	if err != nil {
		t.Fatalf("get auction: %v", err)
	}
	if auction.Status != AuctionStatusCompleted {
		t.Fatalf("expected auction to be completed")
	}
}

func TestExecuteOrderRejectsBeforeAuctionPeriodExpires(t *testing.T) {
	h := newHarness(t)
	emitter := addressFrom(20)
	redeemer := addressFrom(21)
	if err := AddLocalRouterEndpoint(h.ctx, 1, emitter); err != nil {
		t.Fatalf("add source endpoint: %v", err)
	}
	if err := AddLocalRouterEndpoint(h.ctx, 2, addressFrom(22)); err != nil {
		t.Fatalf("add target endpoint: %v", err)
	}
	configID, err := ProposeAuctionConfig(h.ctx, AuctionParameters{DurationSlots: 5, GracePeriodSlots: 5, PenaltyPeriodSlots: 10, SecurityDepositBps: 10_000})
	if err != nil {
		t.Fatalf("propose config: %v", err)
	}
	order := buildOrder(t, h, 1_000_000, 50_000, 2, 1, emitter, redeemer)
	digest, err := order.Digest()
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	mustAttest(t, h.verifier, digest)
	if _, err := InitializeFastMarketOrder(h.ctx, order, guardianSetBump); err != nil {
		t.Fatalf("initialize order: %v", err)
	}
	bidder := h.fundedTokenAccount(t, addressFrom(30), 2_000_000)
	h.ctx.Caller = addressFrom(30)
	if _, err := PlaceInitialOffer(h.ctx, order, configID, 40_000, bidder); err != nil {
		t.Fatalf("place offer: %v", err)
	}
	h.ctx.Caller = addressFrom(30)
	if _, err := ExecuteOrder(h.ctx, order, bidder); err != ErrAuctionPeriodNotExpired {
		t.Fatalf("got %v, want ErrAuctionPeriodNotExpired", err)
	}
}

func TestPlaceInitialOfferRejectsOfferAboveMaxFee(t *testing.T) {
	h := newHarness(t)
	emitter := addressFrom(20)
	if err := AddLocalRouterEndpoint(h.ctx, 1, emitter); err != nil {
		t.Fatalf("add source endpoint: %v", err)
	}
	if err := AddLocalRouterEndpoint(h.ctx, 2, addressFrom(22)); err != nil {
		t.Fatalf("add target endpoint: %v", err)
	}
	configID, err := ProposeAuctionConfig(h.ctx, AuctionParameters{DurationSlots: 2, GracePeriodSlots: 5, PenaltyPeriodSlots: 10, SecurityDepositBps: 10_000})
	if err != nil {
		t.Fatalf("propose config: %v", err)
	}
	order := buildOrder(t, h, 1_000_000, 50_000, 2, 1, emitter, addressFrom(21))
	bidder := h.fundedTokenAccount(t, addressFrom(30), 2_000_000)
	if _, err := PlaceInitialOffer(h.ctx, order, configID, 60_000, bidder); err != ErrOfferPriceTooHigh {
		t.Fatalf("got %v, want ErrOfferPriceTooHigh", err)
	}
}

func TestImproveOfferRejectsInsufficientImprovement(t *testing.T) {
	h := newHarness(t)
	emitter := addressFrom(20)
	if err := AddLocalRouterEndpoint(h.ctx, 1, emitter); err != nil {
		t.Fatalf("add source endpoint: %v", err)
	}
	if err := AddLocalRouterEndpoint(h.ctx, 2, addressFrom(22)); err != nil {
		t.Fatalf("add target endpoint: %v", err)
	}
	configID, err := ProposeAuctionConfig(h.ctx, AuctionParameters{DurationSlots: 5, GracePeriodSlots: 5, PenaltyPeriodSlots: 10, MinOfferDeltaBps: 100_000, SecurityDepositBps: 10_000})
	if err != nil {
		t.Fatalf("propose config: %v", err)
	}
	order := buildOrder(t, h, 1_000_000, 100_000, 2, 1, emitter, addressFrom(21))
	digest, err := order.Digest()
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	mustAttest(t, h.verifier, digest)
	if _, err := InitializeFastMarketOrder(h.ctx, order, guardianSetBump); err != nil {
		t.Fatalf("init order: %v", err)
	}
	bidder1 := h.fundedTokenAccount(t, addressFrom(30), 2_000_000)
	h.ctx.Caller = addressFrom(30)
	if _, err := PlaceInitialOffer(h.ctx, order, configID, 80_000, bidder1); err != nil {
		t.Fatalf("place offer: %v", err)
	}
	bidder2 := h.fundedTokenAccount(t, addressFrom(31), 2_000_000)
	h.ctx.Caller = addressFrom(31)
	// 10% min delta of 80,000 is 8,000; improving by only 1,000 must fail.
	if err := ImproveOffer(h.ctx, digest, 79_000, bidder2); err != ErrCarpingNotAllowed {
		t.Fatalf("got %v, want ErrCarpingNotAllowed", err)
	}
}

func TestSettleAuctionNoneRefundsBidderWhenUnexecuted(t *testing.T) {
	h := newHarness(t)
	emitter := addressFrom(20)
	redeemer := addressFrom(21)
	if err := AddLocalRouterEndpoint(h.ctx, 1, emitter); err != nil {
		t.Fatalf("add source endpoint: %v", err)
	}
	target, err := func() (*RouterEndpoint, error) {
		if err := AddLocalRouterEndpoint(h.ctx, 2, addressFrom(22)); err != nil {
			return nil, err
		}
		return GetRouterEndpoint(h.ctx.Store, 2)
	}()
	if err != nil {
		t.Fatalf("add target endpoint: %v", err)
	}
	configID, err := ProposeAuctionConfig(h.ctx, AuctionParameters{DurationSlots: 2, GracePeriodSlots: 1, PenaltyPeriodSlots: 1, SecurityDepositBps: 10_000})
	if err != nil {
		t.Fatalf("propose config: %v", err)
	}
	order := buildOrder(t, h, 1_000_000, 100_000, 2, 1, emitter, redeemer)
	bidder := h.fundedTokenAccount(t, addressFrom(30), 2_000_000)
	h.ctx.Caller = addressFrom(30)
	if _, err := PlaceInitialOffer(h.ctx, order, configID, 80_000, bidder); err != nil {
		t.Fatalf("place offer: %v", err)
	}
	digest, _ := order.Digest()
	a, err := GetAuction(h.ctx.Store, digest)
	if err != nil {
		t.Fatalf("get auction: %v", err)
	}
	before := h.balance(t, bidder)

	// The slow path's principal has landed in the pooled custody account,
	// and the redeemer holds a USDC account to receive it.
	h.fundedTokenAccount(t, h.custody, order.AmountIn)
	h.fundedTokenAccount(t, redeemer, 0)

	if err := SettleAuctionNoneCctpShim(h.ctx, order, a, order.AmountIn, 0, target); err != nil {
		t.Fatalf("settle none: %v", err)
	}

	securityDeposit := a.Info.SecurityDeposit
	after := h.balance(t, bidder)
	if after-before != order.AmountIn+securityDeposit {
		t.Fatalf("bidder refund = %d, want %d", after-before, order.AmountIn+securityDeposit)
	}
	if got := h.balance(t, redeemer); got != order.AmountIn {
		t.Fatalf("redeemer balance = %d, want %d", got, order.AmountIn)
	}
	if _, err := GetAuction(h.ctx.Store, digest); err != ErrAccountNotInitialized {
		t.Fatalf("expected auction to be removed, got err=%v", err)
	}
}

func TestCloseFastMarketOrderRequiresRecordedRecipient(t *testing.T) {
	h := newHarness(t)
	order := buildOrder(t, h, 100, 10, 2, 1, addressFrom(20), addressFrom(21))
	digest, err := order.Digest()
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	mustAttest(t, h.verifier, digest)
	if _, err := InitializeFastMarketOrder(h.ctx, order, guardianSetBump); err != nil {
		t.Fatalf("init order: %v", err)
	}
	h.ctx.Caller = addressFrom(99)
	if err := CloseFastMarketOrder(h.ctx, digest, order.CloseAccountRefundRecipient); err != ErrMismatchingCloseRefundRecipient {
		t.Fatalf("got %v, want ErrMismatchingCloseRefundRecipient", err)
	}
	h.ctx.Caller = order.CloseAccountRefundRecipient
	if err := CloseFastMarketOrder(h.ctx, digest, order.CloseAccountRefundRecipient); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := CloseFastMarketOrder(h.ctx, digest, order.CloseAccountRefundRecipient); err != ErrAccountDiscriminatorNotFound {
		t.Fatalf("got %v, want ErrAccountDiscriminatorNotFound", err)
	}
}

var _ = codec.FastOrderPayloadTag
