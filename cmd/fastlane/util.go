package main

import (
	"encoding/hex"
	"fmt"

	"github.com/synnergy-labs/fastlane-engine/internal/engine/ids"
)

func parseHash(s string) (ids.Hash, error) {
	var h ids.Hash
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("parse digest %q: %w", s, err)
	}
	if len(b) != len(h) {
		return h, fmt.Errorf("parse digest %q: expected %d bytes, got %d", s, len(h), len(b))
	}
	copy(h[:], b)
	return h, nil
}
