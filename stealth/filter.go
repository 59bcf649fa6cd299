// Copyright 2025 The Veil Authors
// This file is part of the Veil library.

package stealth

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
)

// ViewTagFilter bundles the recipient keys needed to screen announcements.
// Every method is a pure function of its arguments plus the two immutable
// keys, so callers scanning many announcements may invoke them from any
// number of goroutines without coordination.
type ViewTagFilter struct {
	viewPrivKey *ecdsa.PrivateKey
	spendPubKey *ecdsa.PublicKey
}

// NewViewTagFilter creates a filter for the given recipient keys.
func NewViewTagFilter(viewPrivKey *ecdsa.PrivateKey, spendPubKey *ecdsa.PublicKey) *ViewTagFilter {
	return &ViewTagFilter{
		viewPrivKey: viewPrivKey,
		spendPubKey: spendPubKey,
	}
}

// CheckViewTag runs only the cheap tag comparison. Roughly 1 in 256 foreign
// announcements pass; Matches settles those.
func (f *ViewTagFilter) CheckViewTag(ephemeralPubKey []byte, viewTag byte) bool {
	ephPub, err := decompressPoint(ephemeralPubKey)
	if err != nil {
		return false
	}
	digest := sharedSecretDigest(f.viewPrivKey.D, ephPub)
	return digest[0] == viewTag
}

// Matches performs the full check: view tag first, then exact address
// comparison. Errors indicate malformed announcements, never "not mine".
func (f *ViewTagFilter) Matches(announced common.Address, ephemeralPubKey []byte, viewTag byte) (bool, error) {
	return CheckStealthAddress(announced, ephemeralPubKey, viewTag, f.viewPrivKey, f.spendPubKey)
}
