// Package guardian models the engine's view of the external
// signature-aggregation service (external program C, spec.md §1): the core
// never verifies attester signatures itself, it only asks this service
// whether a digest is attested by a quorum of a pinned guardian set.
package guardian

import "github.com/synnergy-labs/fastlane-engine/internal/engine/ids"

// Verifier is satisfied by any client of the external signature-aggregation
// service. VerifyHash must return a non-nil error whenever the digest is
// not attested by a quorum of the guardian set identified by
// guardianSetBump. PrepareOrderResponse returns that error unchanged;
// InitializeFastMarketOrder logs it and returns an ErrInvalidSignatures
// for the digest instead.
type Verifier interface {
	VerifyHash(guardianSetBump uint8, digest ids.Hash) error
}

// ErrInvalidSignatures is returned (or wrapped) by a Verifier when a digest
// fails to clear quorum.
type ErrInvalidSignatures struct {
	Digest ids.Hash
}

func (e *ErrInvalidSignatures) Error() string {
	return "guardian: invalid signatures for digest " + e.Digest.String()
}
