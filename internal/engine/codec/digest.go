// Package codec implements the deterministic, zero-allocation-friendly wire
// formats the matching engine signs, verifies, and stores: the
// keccak-of-keccak fast-market-order digest, the CCTP-style burn message,
// and the outbound Fill payload. Every encoder here writes big-endian,
// fixed-width fields in the exact order spec'd so independently written
// encoders (this one, the attester, the counterpart on another chain)
// always agree on the bytes being hashed or transmitted.
package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/synnergy-labs/fastlane-engine/internal/engine/ids"
)

// FastOrderPayloadTag identifies the fast-market-order payload variant
// within the attested message body, mirroring the wormhole-style tagged
// payload convention the digest algorithm is built on.
const FastOrderPayloadTag = 0x0B

// MaxRedeemerMessageLen bounds the variable redeemer message embedded in
// both the payload and the fixed-layout on-chain record.
const MaxRedeemerMessageLen = 512

// Header carries the pinned attested-message header fields that get folded
// into the digest alongside the fast-order payload.
type Header struct {
	Timestamp        uint32
	Nonce            uint32 // always zero in the on-chain reconstruction
	EmitterChain     uint16
	EmitterAddress   ids.Address
	Sequence         uint64
	ConsistencyLevel uint8
}

// FastOrder carries the fields serialized into the digest's payload section.
type FastOrder struct {
	AmountIn              uint64
	MinAmountOut          uint64
	TargetChain           uint16
	Redeemer              ids.Address
	Sender                ids.Address
	RefundAddress         ids.Address
	MaxFee                uint64
	InitAuctionFee        uint64
	Deadline              uint32
	RedeemerMessageLength uint16
	RedeemerMessage       []byte // length == RedeemerMessageLength, unpadded
}

// EncodePayload serializes the fast-order payload per spec: amount_in ‖
// min_amount_out ‖ target_chain ‖ redeemer ‖ sender ‖ refund_address ‖
// max_fee ‖ init_auction_fee ‖ deadline ‖ redeemer_message_length ‖
// redeemer_message[..length].
func (o FastOrder) EncodePayload() ([]byte, error) {
	if int(o.RedeemerMessageLength) != len(o.RedeemerMessage) {
		return nil, fmt.Errorf("redeemer message length %d does not match supplied message of %d bytes", o.RedeemerMessageLength, len(o.RedeemerMessage))
	}
	if o.RedeemerMessageLength > MaxRedeemerMessageLen {
		return nil, fmt.Errorf("redeemer message length %d exceeds maximum %d", o.RedeemerMessageLength, MaxRedeemerMessageLen)
	}

	buf := make([]byte, 0, 8+8+2+32+32+32+8+8+4+2+len(o.RedeemerMessage))
	buf = appendU64(buf, o.AmountIn)
	buf = appendU64(buf, o.MinAmountOut)
	buf = appendU16(buf, o.TargetChain)
	buf = append(buf, o.Redeemer[:]...)
	buf = append(buf, o.Sender[:]...)
	buf = append(buf, o.RefundAddress[:]...)
	buf = appendU64(buf, o.MaxFee)
	buf = appendU64(buf, o.InitAuctionFee)
	buf = appendU32(buf, o.Deadline)
	buf = appendU16(buf, o.RedeemerMessageLength)
	buf = append(buf, o.RedeemerMessage...)
	return buf, nil
}

// EncodeHeader serializes the header fields in digest order: timestamp ‖
// nonce ‖ emitter_chain ‖ emitter_address ‖ sequence ‖ consistency_level.
func (h Header) EncodeHeader() []byte {
	buf := make([]byte, 0, 4+4+2+32+8+1)
	buf = appendU32(buf, h.Timestamp)
	buf = appendU32(buf, h.Nonce)
	buf = appendU16(buf, h.EmitterChain)
	buf = append(buf, h.EmitterAddress[:]...)
	buf = appendU64(buf, h.Sequence)
	buf = append(buf, h.ConsistencyLevel)
	return buf
}

// FastOrderDigest computes the 32-byte content address of a fast market
// order: digest = keccak(keccak(header ‖ 0x0B ‖ payload)).
func FastOrderDigest(h Header, o FastOrder) (ids.Hash, error) {
	payload, err := o.EncodePayload()
	if err != nil {
		return ids.Hash{}, err
	}
	body := append(h.EncodeHeader(), FastOrderPayloadTag)
	body = append(body, payload...)
	return doubleKeccak(body), nil
}

func doubleKeccak(body []byte) ids.Hash {
	inner := crypto.Keccak256(body)
	outer := crypto.Keccak256(inner)
	var out ids.Hash
	copy(out[:], outer)
	return out
}

func appendU16(buf []byte, v uint16) []byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return append(buf, b[:]...)
}

func appendU32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

func appendU64(buf []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(buf, b[:]...)
}
