package engine

import "time"

// Bps is a basis-point fraction measured out of BpsScale (1e6 == 100%, the
// resolution spec.md uses for penalty and fee curves).
type Bps = uint32

// BpsScale is the denominator basis-point fractions are measured against.
const BpsScale uint64 = 1_000_000

// VAAAuctionExpirationTime bounds how long after a fast market order's
// attested timestamp an initial offer may still be placed, when the order
// itself carries no explicit deadline. spec.md §9 leaves this value as an
// open question for implementers to pin; 180 seconds is chosen here as a
// conservative window comparable to Solana's own commitment-finality
// horizon, and is recorded as a resolved open question in DESIGN.md.
const VAAAuctionExpirationTime = 180 * time.Second

// EExecuteFastOrderLocalAdditionalGracePeriod extends the grace period for
// orders routed to a Local (same-chain) destination: reserving a sequence
// number for the resulting fast fill typically requires an additional
// transaction, so the best-offer participant is given extra slots to
// complete it without risking being slashed by another executor.
const EExecuteFastOrderLocalAdditionalGracePeriod uint64 = 10

// AuctionParameters bounds the timing and economics of the Dutch auction,
// per spec.md §4.4.
type AuctionParameters struct {
	DurationSlots       uint64
	GracePeriodSlots    uint64
	PenaltyPeriodSlots  uint64
	InitialPenaltyBps   Bps
	UserPenaltyRewardBps Bps
	MinOfferDeltaBps    Bps
	SecurityDepositBase uint64
	SecurityDepositBps  Bps
}

// NotionalSecurityDeposit computes the notional portion of the security deposit
// (the additive+multiplicative floor added to max_fee at auction creation):
// security_deposit_base + amount_in * security_deposit_bps / 1e6.
func (p AuctionParameters) NotionalSecurityDeposit(amountIn uint64) (uint64, error) {
	notional, err := mulDivU64(amountIn, uint64(p.SecurityDepositBps), BpsScale)
	if err != nil {
		return 0, err
	}
	total, ok := addU64(p.SecurityDepositBase, notional)
	if !ok {
		return 0, ErrU64Overflow
	}
	return total, nil
}

// MinOfferDelta returns the minimum improvement ImproveOffer must make on a
// previous offer price: max(1, prev * min_offer_delta_bps / 1e6).
func (p AuctionParameters) MinOfferDelta(prevPrice uint64) (uint64, error) {
	delta, err := mulDivU64(prevPrice, uint64(p.MinOfferDeltaBps), BpsScale)
	if err != nil {
		return 0, err
	}
	if delta < 1 {
		delta = 1
	}
	return delta, nil
}

func mulDivU64(a, b, d uint64) (uint64, error) {
	hi, lo := bitsMul64(a, b)
	if hi != 0 {
		// Overflow of a*b beyond 64 bits would require 128-bit division;
		// spec.md's parameter ranges never approach this, so treat it as
		// the same overflow condition the rest of the engine reports.
		return 0, ErrU64Overflow
	}
	if d == 0 {
		return 0, ErrU64Overflow
	}
	return lo / d, nil
}

// bitsMul64 returns the 128-bit product of a and b as (hi, lo).
func bitsMul64(a, b uint64) (hi, lo uint64) {
	const mask32 = 1<<32 - 1
	aLo, aHi := a&mask32, a>>32
	bLo, bHi := b&mask32, b>>32

	t := aLo * bLo
	w0 := t & mask32
	k := t >> 32

	t = aHi*bLo + k
	w1 := t & mask32
	w2 := t >> 32

	t = aLo*bHi + w1
	k = t >> 32

	hi = aHi*bHi + w2 + k
	lo = (t << 32) + w0
	return hi, lo
}

func addU64(a, b uint64) (uint64, bool) {
	sum := a + b
	return sum, sum >= a
}

func subU64(a, b uint64) (uint64, bool) {
	if b > a {
		return 0, false
	}
	return a - b, true
}

// satSubU64 is a - b, clamped to 0 on underflow rather than erroring —
// Rust's saturating_sub, used where spec.md's distribution formulas must
// not abort the whole ExecuteOrder just because a fee exceeds a shrunken
// remainder.
func satSubU64(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
