// Package transport provides local, in-process stand-ins for the two
// external programs the matching engine depends on but never implements
// itself: a token burn/mint bridge and an attested-message emitter. They
// exist for tests, the CLI's dry-run mode, and the HTTP gateway's
// single-process demo wiring — a production deployment points
// engine.Context.Burn and engine.Context.Message at real clients instead.
package transport

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/synnergy-labs/fastlane-engine/internal/engine"
	"github.com/synnergy-labs/fastlane-engine/internal/engine/ids"
)

// MockBurn implements engine.BurnTransport entirely in memory: burns are
// recorded and immediately "mintable" by ReceiveMessage, since there is no
// real cross-process attestation latency to simulate here.
type MockBurn struct {
	mu      sync.Mutex
	nonce   uint64
	minted  map[ids.Hash]engine.ReceiveResult
	history []engine.BurnRequest
}

// NewMockBurn constructs an empty MockBurn.
func NewMockBurn() *MockBurn {
	return &MockBurn{minted: make(map[ids.Hash]engine.ReceiveResult)}
}

func (b *MockBurn) DepositForBurnWithCaller(req engine.BurnRequest) (engine.BurnResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nonce++
	b.history = append(b.history, req)

	h := sha256.New()
	h.Write(req.AuctionKey[:])
	h.Write(req.BurnSource[:])
	var nb [8]byte
	binary.BigEndian.PutUint64(nb[:], b.nonce)
	h.Write(nb[:])
	var hash ids.Hash
	copy(hash[:], h.Sum(nil))

	b.minted[hash] = engine.ReceiveResult{MintRecipient: req.MintRecipient, Amount: req.Amount}
	return engine.BurnResult{MessageHash: hash, Nonce: b.nonce}, nil
}

// ReceiveMessage looks up a previously recorded burn by its encoded message
// hash. encodedMessage is expected to be the 32 raw hash bytes the mock's
// DepositForBurnWithCaller returned, standing in for a real CCTP
// message-transmitter's attested payload. It reports the recorded burn's
// mint recipient and amount; it credits no engine token account.
func (b *MockBurn) ReceiveMessage(encodedMessage, attestation []byte) (engine.ReceiveResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(attestation) == 0 {
		return engine.ReceiveResult{}, fmt.Errorf("transport: missing attestation")
	}
	if len(encodedMessage) != len(ids.Hash{}) {
		return engine.ReceiveResult{}, fmt.Errorf("transport: malformed encoded message")
	}
	var hash ids.Hash
	copy(hash[:], encodedMessage)
	res, ok := b.minted[hash]
	if !ok {
		return engine.ReceiveResult{}, fmt.Errorf("transport: unknown burn message")
	}
	delete(b.minted, hash)
	return res, nil
}

// History returns every burn request seen so far, for test assertions.
func (b *MockBurn) History() []engine.BurnRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]engine.BurnRequest, len(b.history))
	copy(out, b.history)
	return out
}

// MockMessage implements engine.MessageTransport with a monotonic,
// in-memory sequence counter per emitter.
type MockMessage struct {
	mu       sync.Mutex
	sequence map[ids.Address]uint64
	posted   []engine.MessageRequest
}

// NewMockMessage constructs an empty MockMessage.
func NewMockMessage() *MockMessage {
	return &MockMessage{sequence: make(map[ids.Address]uint64)}
}

func (m *MockMessage) PostMessage(req engine.MessageRequest) (engine.MessageResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seq := m.sequence[req.Emitter]
	m.sequence[req.Emitter] = seq + 1
	m.posted = append(m.posted, req)

	h := sha256.New()
	h.Write(req.Emitter[:])
	var sb [8]byte
	binary.BigEndian.PutUint64(sb[:], seq)
	h.Write(sb[:])
	h.Write(req.Payload)
	var hash ids.Hash
	copy(hash[:], h.Sum(nil))

	return engine.MessageResult{Sequence: seq, MessageHash: hash}, nil
}

// Posted returns every message posted so far, for test assertions.
func (m *MockMessage) Posted() []engine.MessageRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]engine.MessageRequest, len(m.posted))
	copy(out, m.posted)
	return out
}
