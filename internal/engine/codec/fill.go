package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/synnergy-labs/fastlane-engine/internal/engine/ids"
)

// Fill is the outbound payload posted alongside the CCTP burn: it tells the
// destination chain who sent the order, who should receive it, and what
// redeemer-supplied message to deliver with it.
type Fill struct {
	SourceChain     uint16
	OrderSender     ids.Address
	Redeemer        ids.Address
	RedeemerMessage []byte
}

// Encode serializes a Fill: source_chain ‖ order_sender ‖ redeemer ‖
// redeemer_message_len(u32 be) ‖ redeemer_message.
func (f Fill) Encode() []byte {
	buf := make([]byte, 0, 2+32+32+4+len(f.RedeemerMessage))
	buf = appendU16(buf, f.SourceChain)
	buf = append(buf, f.OrderSender[:]...)
	buf = append(buf, f.Redeemer[:]...)
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(f.RedeemerMessage)))
	buf = append(buf, lenBuf[:]...)
	buf = append(buf, f.RedeemerMessage...)
	return buf
}

// DecodeFill parses a Fill payload previously produced by Encode.
func DecodeFill(b []byte) (Fill, error) {
	if len(b) < 2+32+32+4 {
		return Fill{}, fmt.Errorf("fill payload too short: got %d bytes", len(b))
	}
	var f Fill
	f.SourceChain = binary.BigEndian.Uint16(b[0:2])
	copy(f.OrderSender[:], b[2:34])
	copy(f.Redeemer[:], b[34:66])
	n := binary.BigEndian.Uint32(b[66:70])
	if uint32(len(b)-70) < n {
		return Fill{}, fmt.Errorf("fill payload truncated: declared %d bytes, have %d", n, len(b)-70)
	}
	f.RedeemerMessage = append([]byte(nil), b[70:70+n]...)
	return f, nil
}

// SlowOrderResponsePayloadTag tags the inner payload of a Deposit message
// that carries the auction's base fee for the slow/finalized path.
const SlowOrderResponsePayloadTag = 0x01

// DepositPayloadTag tags a wormhole-CCTP "deposit" message as opposed to
// other message kinds the same transport could in principle carry.
const DepositPayloadTag = 0x01

// Deposit is the payload the finalized/slow VAA carries: a CCTP deposit
// description plus the tagged SlowOrderResponse sub-payload containing the
// base fee charged for that path.
type Deposit struct {
	TokenAddress      ids.Address
	Amount            [32]byte // big-endian u256
	SourceDomain      uint32
	DestinationDomain uint32
	Nonce             uint64
	BurnSource        ids.Address
	MintRecipient     ids.Address
	BaseFee           uint64
}

// EncodePayload serializes the Deposit per the layout used by this engine's
// digest reconstruction: token_address ‖ amount(u256) ‖ source_domain ‖
// destination_domain ‖ nonce ‖ burn_source ‖ mint_recipient ‖
// payload_len(u16) ‖ [tag ‖ base_fee(u64)].
func (d Deposit) EncodePayload() []byte {
	inner := append([]byte{SlowOrderResponsePayloadTag}, encodeU64(d.BaseFee)...)

	buf := make([]byte, 0, 32+32+4+4+8+32+32+2+len(inner))
	buf = append(buf, d.TokenAddress[:]...)
	buf = append(buf, d.Amount[:]...)
	buf = appendU32(buf, d.SourceDomain)
	buf = appendU32(buf, d.DestinationDomain)
	buf = appendU64(buf, d.Nonce)
	buf = append(buf, d.BurnSource[:]...)
	buf = append(buf, d.MintRecipient[:]...)
	buf = appendU16(buf, uint16(len(inner)))
	buf = append(buf, inner...)
	return buf
}

func encodeU64(v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return b[:]
}

// FinalizedDigest computes the keccak-of-keccak digest of a finalized/slow
// VAA carrying a Deposit payload, per spec: keccak(keccak(header ‖
// deposit_payload)).
func FinalizedDigest(h Header, d Deposit) ids.Hash {
	body := append(h.EncodeHeader(), d.EncodePayload()...)
	return doubleKeccak(body)
}
