package engine

import "github.com/synnergy-labs/fastlane-engine/internal/engine/ids"

// BurnRequest describes a deposit-for-burn-with-caller call to the external
// token-burn/mint transport (external program A, out of scope per
// spec.md §1 — the engine only consumes its API).
type BurnRequest struct {
	// AuctionKey seeds the deterministic message PDA the transport is asked
	// to content-address its attested transfer to, so the produced message
	// can always be traced back to the auction that caused it.
	AuctionKey        ids.Address
	BurnSource        ids.Address
	Amount            uint64
	DestinationDomain uint32
	DestinationCaller ids.Address
	MintRecipient     ids.Address
	Payload           []byte
}

// BurnResult is what the transport hands back once the burn and its
// attested transfer have been published.
type BurnResult struct {
	MessageHash ids.Hash
	Nonce       uint64
}

// BurnTransport is the engine's view of external program A.
type BurnTransport interface {
	DepositForBurnWithCaller(req BurnRequest) (BurnResult, error)
	// ReceiveMessage credits the program-wide CCTP mint recipient with a
	// validated inbound burn, used by PrepareOrderResponse (C7).
	ReceiveMessage(encodedMessage, attestation []byte) (ReceiveResult, error)
}

// ReceiveResult reports what an inbound CCTP message minted and to which
// account.
type ReceiveResult struct {
	MintRecipient ids.Address
	Amount        uint64
}

// MessageRequest describes a post-message call to the external
// attested-message transport (external program B).
type MessageRequest struct {
	Emitter ids.Address
	Payload []byte
}

// MessageResult is what the transport hands back once a message has been
// posted.
type MessageResult struct {
	Sequence    uint64
	MessageHash ids.Hash
}

// MessageTransport is the engine's view of external program B.
type MessageTransport interface {
	PostMessage(req MessageRequest) (MessageResult, error)
}
