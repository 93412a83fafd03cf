package codec

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/synnergy-labs/fastlane-engine/internal/engine/ids"
)

// CCTPHeaderLen is the fixed size of a CCTP message-transmitter header.
const CCTPHeaderLen = 116

// CCTPBurnMessageLen is the fixed size of a CCTP token-messenger burn
// message body (the payload that follows the header on the wire).
const CCTPBurnMessageLen = 132

// CCTPHeader is the fixed-layout header prefixing every CCTP message.
type CCTPHeader struct {
	Version             uint32
	SourceDomain        uint32
	DestinationDomain   uint32
	Nonce               uint64
	Sender              ids.Address
	Recipient           ids.Address
	DestinationCaller   ids.Address
}

// CCTPBurnMessage is the fixed-layout token-messenger-minter burn payload.
type CCTPBurnMessage struct {
	Version       uint32
	BurnToken     ids.Address
	MintRecipient ids.Address
	Amount        [32]byte // big-endian u256
	MessageSender ids.Address
}

// AmountUint64 returns the burned amount as a uint64, rejecting any value
// whose high 192 bits are non-zero. The wire format carries a 256-bit
// amount; this engine only ever deals in quantities that fit in 64 bits, so
// any use of the upper limbs is rejected conservatively rather than
// silently truncated.
func (m CCTPBurnMessage) AmountUint64() (uint64, error) {
	for _, b := range m.Amount[:24] {
		if b != 0 {
			return 0, fmt.Errorf("cctp burn amount exceeds 64 bits: %s", new(big.Int).SetBytes(m.Amount[:]).String())
		}
	}
	return binary.BigEndian.Uint64(m.Amount[24:]), nil
}

// EncodeCCTPHeader serializes a CCTPHeader to its fixed 116-byte wire form.
func EncodeCCTPHeader(h CCTPHeader) []byte {
	buf := make([]byte, 0, CCTPHeaderLen)
	buf = appendU32(buf, h.Version)
	buf = appendU32(buf, h.SourceDomain)
	buf = appendU32(buf, h.DestinationDomain)
	buf = appendU64(buf, h.Nonce)
	buf = append(buf, h.Sender[:]...)
	buf = append(buf, h.Recipient[:]...)
	buf = append(buf, h.DestinationCaller[:]...)
	return buf
}

// DecodeCCTPHeader parses a fixed 116-byte CCTP message-transmitter header.
func DecodeCCTPHeader(b []byte) (CCTPHeader, error) {
	if len(b) < CCTPHeaderLen {
		return CCTPHeader{}, fmt.Errorf("cctp header too short: need %d bytes, got %d", CCTPHeaderLen, len(b))
	}
	var h CCTPHeader
	h.Version = binary.BigEndian.Uint32(b[0:4])
	h.SourceDomain = binary.BigEndian.Uint32(b[4:8])
	h.DestinationDomain = binary.BigEndian.Uint32(b[8:12])
	h.Nonce = binary.BigEndian.Uint64(b[12:20])
	copy(h.Sender[:], b[20:52])
	copy(h.Recipient[:], b[52:84])
	copy(h.DestinationCaller[:], b[84:116])
	return h, nil
}

// EncodeCCTPBurnMessage serializes a CCTPBurnMessage to its fixed 132-byte
// wire form.
func EncodeCCTPBurnMessage(m CCTPBurnMessage) []byte {
	buf := make([]byte, 0, CCTPBurnMessageLen)
	buf = appendU32(buf, m.Version)
	buf = append(buf, m.BurnToken[:]...)
	buf = append(buf, m.MintRecipient[:]...)
	buf = append(buf, m.Amount[:]...)
	buf = append(buf, m.MessageSender[:]...)
	return buf
}

// DecodeCCTPBurnMessage parses a fixed 132-byte burn message without
// allocating beyond the returned struct.
func DecodeCCTPBurnMessage(b []byte) (CCTPBurnMessage, error) {
	if len(b) < CCTPBurnMessageLen {
		return CCTPBurnMessage{}, fmt.Errorf("cctp burn message too short: need %d bytes, got %d", CCTPBurnMessageLen, len(b))
	}
	var m CCTPBurnMessage
	m.Version = binary.BigEndian.Uint32(b[0:4])
	copy(m.BurnToken[:], b[4:36])
	copy(m.MintRecipient[:], b[36:68])
	copy(m.Amount[:], b[68:100])
	copy(m.MessageSender[:], b[100:132])
	return m, nil
}

// DecodeInboundMessage splits a full encoded CCTP message into its header
// and burn-message body.
func DecodeInboundMessage(encoded []byte) (CCTPHeader, CCTPBurnMessage, error) {
	if len(encoded) < CCTPHeaderLen+CCTPBurnMessageLen {
		return CCTPHeader{}, CCTPBurnMessage{}, fmt.Errorf(
			"encoded cctp message too short: need %d bytes, got %d",
			CCTPHeaderLen+CCTPBurnMessageLen, len(encoded))
	}
	h, err := DecodeCCTPHeader(encoded[:CCTPHeaderLen])
	if err != nil {
		return CCTPHeader{}, CCTPBurnMessage{}, err
	}
	m, err := DecodeCCTPBurnMessage(encoded[CCTPHeaderLen : CCTPHeaderLen+CCTPBurnMessageLen])
	if err != nil {
		return CCTPHeader{}, CCTPBurnMessage{}, err
	}
	return h, m, nil
}

// U256FromUint64 renders a uint64 as a big-endian 256-bit word, the wire
// width CCTP uses for token amounts.
func U256FromUint64(v uint64) [32]byte {
	var out [32]byte
	binary.BigEndian.PutUint64(out[24:], v)
	return out
}
