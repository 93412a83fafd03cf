package engine

import "errors"

// Error taxonomy, per spec.md §7. Each sentinel is the numbered error code
// observable off-chain and asserted by tests; handlers never recover from
// these except for the single "locally recovered behavior" documented next
// to ExecuteOrder (redirecting a payout to the executor when the recorded
// token account no longer exists).
var (
	// Domain / contract violations.
	ErrOfferPriceTooHigh       = errors.New("offer price exceeds max fee")
	ErrCarpingNotAllowed       = errors.New("offer improvement below minimum delta")
	ErrFastMarketOrderExpired  = errors.New("fast market order expired")
	ErrSameEndpoint            = errors.New("source and target endpoint are the same chain")
	ErrInvalidSourceRouter     = errors.New("source router endpoint does not match order emitter")
	ErrInvalidTargetRouter     = errors.New("target router endpoint does not match order target chain")
	ErrInvalidEndpoint         = errors.New("router endpoint is invalid for this operation")
	ErrInvalidCctpEndpoint     = errors.New("router endpoint is not a cctp endpoint")
	ErrEndpointDisabled        = errors.New("router endpoint is disabled")
	ErrInvalidMint             = errors.New("token account mint does not match usdc")
	ErrVaaMismatch             = errors.New("digest does not match auction's recorded digest")
	ErrAuctionConfigMismatch   = errors.New("auction config id does not match active auction config")
	ErrAuctionPeriodNotExpired = errors.New("auction bidding period has not yet expired")
	ErrAuctionNotActive        = errors.New("auction is not active")
	ErrPaused                  = errors.New("custodian is paused")
	ErrUnauthorizedOwner       = errors.New("caller is not the custodian owner or assistant")
	ErrAmountOverflow          = errors.New("inbound amount exceeds 64 bits")
	ErrSequenceMismatch        = errors.New("finalized sequence does not immediately precede fast order sequence")

	// Account discipline.
	ErrAccountNotInitialized         = errors.New("account not initialized")
	ErrAccountDiscriminatorNotFound  = errors.New("account discriminator not found")
	ErrAccountInUse                  = errors.New("account already in use")
	ErrAccountNotWritable            = errors.New("account not writable")
	ErrInvalidPda                    = errors.New("derived account key does not match stored key")
	ErrConstraintOwner               = errors.New("account is not owned by the engine")
	ErrMismatchingCloseRefundRecipient = errors.New("signer does not match close account refund recipient")

	// Arithmetic.
	ErrU64Overflow = errors.New("u64 arithmetic overflow")

	// Internal.
	ErrInternal = errors.New("internal engine error")
	ErrNotFound = errors.New("resource not found")
)
