package engine

import (
	"encoding/json"

	"github.com/synnergy-labs/fastlane-engine/internal/engine/codec"
	"github.com/synnergy-labs/fastlane-engine/internal/engine/ids"
	"github.com/synnergy-labs/fastlane-engine/internal/engine/store"
	"github.com/synnergy-labs/fastlane-engine/internal/guardian"
)

// FastMarketOrderRecord is the pinned, fixed-layout representation of one
// cross-chain fast-transfer intent, per spec.md §3/§4.2. It is created once
// per intent and never mutated; only the recorded
// CloseAccountRefundRecipient may reclaim it.
type FastMarketOrderRecord struct {
	AmountIn                  uint64      `json:"amount_in"`
	MinAmountOut              uint64      `json:"min_amount_out"`
	Deadline                  uint32      `json:"deadline"`
	TargetChain               uint16      `json:"target_chain"`
	Redeemer                  ids.Address `json:"redeemer"`
	Sender                    ids.Address `json:"sender"`
	RefundAddress             ids.Address `json:"refund_address"`
	MaxFee                    uint64      `json:"max_fee"`
	InitAuctionFee            uint64      `json:"init_auction_fee"`
	RedeemerMessageLength     uint16      `json:"redeemer_message_length"`
	RedeemerMessage           []byte      `json:"redeemer_message"` // unpadded, length == RedeemerMessageLength
	CloseAccountRefundRecipient ids.Address `json:"close_account_refund_recipient"`

	// Pinned header fields reconstructed from the source attested message.
	VAASequence         uint64      `json:"vaa_sequence"`
	VAATimestamp        uint32      `json:"vaa_timestamp"`
	VAANonce            uint32      `json:"vaa_nonce"`
	VAAEmitterChain     uint16      `json:"vaa_emitter_chain"`
	VAAEmitterAddress   ids.Address `json:"vaa_emitter_address"`
	VAAConsistencyLevel uint8       `json:"vaa_consistency_level"`
}

// Digest recomputes the record's 32-byte content address per spec.md §4.1.
func (r FastMarketOrderRecord) Digest() (ids.Hash, error) {
	header := codec.Header{
		Timestamp:        r.VAATimestamp,
		Nonce:            0, // nonce is always zero in the on-chain reconstruction
		EmitterChain:     r.VAAEmitterChain,
		EmitterAddress:   r.VAAEmitterAddress,
		Sequence:         r.VAASequence,
		ConsistencyLevel: r.VAAConsistencyLevel,
	}
	order := codec.FastOrder{
		AmountIn:              r.AmountIn,
		MinAmountOut:          r.MinAmountOut,
		TargetChain:           r.TargetChain,
		Redeemer:              r.Redeemer,
		Sender:                r.Sender,
		RefundAddress:         r.RefundAddress,
		MaxFee:                r.MaxFee,
		InitAuctionFee:        r.InitAuctionFee,
		Deadline:              r.Deadline,
		RedeemerMessageLength: r.RedeemerMessageLength,
		RedeemerMessage:       r.RedeemerMessage,
	}
	return codec.FastOrderDigest(header, order)
}

func fastOrderKey(digest ids.Hash, closeRecipient ids.Address) []byte {
	k := append([]byte("fast_market_order:"), digest[:]...)
	return append(k, closeRecipient[:]...)
}

// InitializeFastMarketOrder creates the record, per spec.md §4.2: it first
// asks the external signature-aggregation service to attest the record's
// digest, then allocates the record at its content-addressed key.
// Re-creating a still-open record fails with ErrAccountInUse; re-creating
// after Close is permitted, since the same digest may recycle.
func InitializeFastMarketOrder(ctx *Context, rec FastMarketOrderRecord, guardianSetBump uint8) (ids.Hash, error) {
	if int(rec.RedeemerMessageLength) != len(rec.RedeemerMessage) {
		return ids.Hash{}, ErrInternal
	}
	digest, err := rec.Digest()
	if err != nil {
		return ids.Hash{}, err
	}

	if err := ctx.Guardian.VerifyHash(guardianSetBump, digest); err != nil {
		ctx.log().WithError(err).Warn("fast market order digest failed guardian verification")
		return ids.Hash{}, &guardian.ErrInvalidSignatures{Digest: digest}
	}

	key := fastOrderKey(digest, rec.CloseAccountRefundRecipient)
	var created ids.Hash
	err = ctx.Locks.WithLocks([]string{string(key)}, func() error {
		exists, err := ctx.Store.Has(key)
		if err != nil {
			return err
		}
		if exists {
			return ErrAccountInUse
		}
		raw, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := ctx.Store.Set(key, raw); err != nil {
			return err
		}
		created = digest
		return nil
	})
	if err != nil {
		return ids.Hash{}, err
	}
	ctx.log().WithField("digest", digest.String()).Info("fast market order created")
	if ctx.Metrics != nil {
		ctx.Metrics.FastOrdersCreated.Inc()
	}
	return created, nil
}

// GetFastMarketOrder loads a record by its digest and close-refund
// recipient (together the record's full PDA-equivalent key).
func GetFastMarketOrder(s store.KVStore, digest ids.Hash, closeRecipient ids.Address) (*FastMarketOrderRecord, error) {
	raw, err := s.Get(fastOrderKey(digest, closeRecipient))
	if err == store.ErrNotFound {
		return nil, ErrAccountNotInitialized
	}
	if err != nil {
		return nil, err
	}
	var rec FastMarketOrderRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// CloseFastMarketOrder closes a record. Only the signer recorded as
// CloseAccountRefundRecipient may do so; closing an already-closed record
// fails with ErrAccountDiscriminatorNotFound, mirroring the on-chain
// "discriminator not found" failure a second close would hit.
func CloseFastMarketOrder(ctx *Context, digest ids.Hash, closeRecipient ids.Address) error {
	key := fastOrderKey(digest, closeRecipient)
	return ctx.Locks.WithLocks([]string{string(key)}, func() error {
		raw, err := ctx.Store.Get(key)
		if err == store.ErrNotFound {
			return ErrAccountDiscriminatorNotFound
		}
		if err != nil {
			return err
		}
		var rec FastMarketOrderRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return err
		}
		if ctx.Caller != rec.CloseAccountRefundRecipient {
			return ErrMismatchingCloseRefundRecipient
		}
		if err := ctx.Store.Delete(key); err != nil {
			return err
		}
		ctx.log().WithField("digest", digest.String()).Info("fast market order closed")
		return nil
	})
}
