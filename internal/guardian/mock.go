package guardian

import (
	"fmt"
	"sync"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/synnergy-labs/fastlane-engine/internal/engine/ids"
)

// GuardianSet pins the public keys and quorum threshold a MockVerifier
// checks attestations against, standing in for the real signature
// aggregation service's on-chain guardian-set account.
type GuardianSet struct {
	Threshold  int
	PublicKeys []*secp256k1.PublicKey
}

// Signature is a single guardian's attestation over a digest.
type Signature struct {
	GuardianIndex int
	Sig           *ecdsa.Signature
}

// MockVerifier is a test/local-development stand-in for the external
// signature-aggregation service: real guardian keys sign real digests with
// real ECDSA signatures, and VerifyHash reports success only once a quorum
// of distinct guardians has attested a given digest under a given
// guardian-set bump. It is used by tests, local CLI dry-runs and the
// fastlaned gateway's single-process wiring, mirroring spec.md's
// statement that the core "does not itself verify attester signatures".
type MockVerifier struct {
	mu       sync.Mutex
	sets     map[uint8]GuardianSet
	attested map[uint8]map[ids.Hash]struct{}
}

// NewMockVerifier constructs an empty MockVerifier.
func NewMockVerifier() *MockVerifier {
	return &MockVerifier{
		sets:     make(map[uint8]GuardianSet),
		attested: make(map[uint8]map[ids.Hash]struct{}),
	}
}

// RegisterGuardianSet pins a guardian set under the given bump.
func (m *MockVerifier) RegisterGuardianSet(bump uint8, set GuardianSet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets[bump] = set
}

// Attest validates a set of per-guardian signatures over digest against the
// guardian set registered under bump, and records the digest as attested
// once distinct valid signers reach quorum.
func (m *MockVerifier) Attest(bump uint8, digest ids.Hash, sigs []Signature) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.sets[bump]
	if !ok {
		return fmt.Errorf("guardian: unknown guardian set bump %d", bump)
	}

	seen := make(map[int]struct{})
	for _, s := range sigs {
		if s.GuardianIndex < 0 || s.GuardianIndex >= len(set.PublicKeys) {
			continue
		}
		if _, dup := seen[s.GuardianIndex]; dup {
			continue
		}
		if s.Sig.Verify(digest[:], set.PublicKeys[s.GuardianIndex]) {
			seen[s.GuardianIndex] = struct{}{}
		}
	}

	if len(seen) < set.Threshold {
		return &ErrInvalidSignatures{Digest: digest}
	}

	if m.attested[bump] == nil {
		m.attested[bump] = make(map[ids.Hash]struct{})
	}
	m.attested[bump][digest] = struct{}{}
	return nil
}

// VerifyHash reports whether digest has already been attested under bump.
func (m *MockVerifier) VerifyHash(bump uint8, digest ids.Hash) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if set, ok := m.attested[bump]; ok {
		if _, ok := set[digest]; ok {
			return nil
		}
	}
	return &ErrInvalidSignatures{Digest: digest}
}

// GenerateGuardian creates a fresh guardian keypair for tests.
func GenerateGuardian() (*secp256k1.PrivateKey, error) {
	return secp256k1.GeneratePrivateKey()
}

// SignDigest produces a guardian's attestation over a digest.
func SignDigest(priv *secp256k1.PrivateKey, digest ids.Hash) *ecdsa.Signature {
	return ecdsa.Sign(priv, digest[:])
}
