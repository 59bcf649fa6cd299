// Copyright 2025 The Veil Authors
// This file is part of the Veil library.

// Package stealth implements the dual-key stealth address protocol over
// secp256k1. A recipient publishes a reusable meta-address (two compressed
// public keys); any sender can derive from it a fresh one-time address that
// only the recipient can recognize and spend from. A 1-byte view tag lets
// the recipient discard foreign announcements without full EC verification.
package stealth

import (
	"crypto/ecdsa"
	"crypto/rand"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/veil-protocol/veil/params"
)

var (
	// ErrMalformedSeed is returned when a seed signature has the wrong
	// length or its segments do not reassemble to the original input
	ErrMalformedSeed = errors.New("malformed seed signature")
	// ErrInvalidViewKey is returned when a view key is invalid
	ErrInvalidViewKey = errors.New("invalid view key")
	// ErrInvalidSpendKey is returned when a spend key is invalid
	ErrInvalidSpendKey = errors.New("invalid spend key")
)

// SeedMessagePrefix is the fixed template prepended to the account address
// when producing the seed signature. The exact bytes are a compatibility
// surface: changing them breaks key regeneration against existing deployments.
const SeedMessagePrefix = "Stealth Signed Message:\n"

// SeedMessage returns the canonical message an account signs to produce the
// seed signature for KeysFromSignature.
func SeedMessage(account common.Address) string {
	return SeedMessagePrefix + account.Hex()
}

// StealthKeyBundle contains the recipient's long-lived spend and view keys.
// Both are derived once and never transmitted.
type StealthKeyBundle struct {
	// SpendKey controls funds sent to stealth addresses
	SpendPrivateKey *ecdsa.PrivateKey
	SpendPublicKey  *ecdsa.PublicKey

	// ViewKey is used to recognize incoming payments
	ViewPrivateKey *ecdsa.PrivateKey
	ViewPublicKey  *ecdsa.PublicKey
}

// KeysFromSignature deterministically derives a stealth key bundle from a
// 65-byte seed signature, hex-encoded with a 0x prefix. The signature is
// split into two 32-byte portions and a trailing byte; each portion is
// hashed to obtain the spend and view private keys. The same signature
// always yields the same bundle, so a recipient can regenerate keys by
// re-signing the canonical seed message instead of storing secrets.
func KeysFromSignature(signature string) (*StealthKeyBundle, error) {
	if len(signature) != 2+2*params.SeedSignatureLength || !strings.HasPrefix(signature, "0x") {
		return nil, ErrMalformedSeed
	}

	segments, ok := segmentHex(signature, 64, 64, 2)
	if !ok {
		return nil, ErrMalformedSeed
	}
	portion1, portion2, lastByte := segments[0], segments[1], segments[2]

	// Reassembling the segments must reproduce the input byte-for-byte;
	// this guards against off-by-one slicing on odd-length input.
	if "0x"+portion1+portion2+lastByte != signature {
		return nil, ErrMalformedSeed
	}

	p1, err := hexutil.Decode("0x" + portion1)
	if err != nil {
		return nil, ErrMalformedSeed
	}
	p2, err := hexutil.Decode("0x" + portion2)
	if err != nil {
		return nil, ErrMalformedSeed
	}
	if _, err := hexutil.Decode("0x" + lastByte); err != nil {
		return nil, ErrMalformedSeed
	}

	spendPriv, err := privateKeyFromDigest(crypto.Keccak256(p1))
	if err != nil {
		return nil, err
	}
	viewPriv, err := privateKeyFromDigest(crypto.Keccak256(p2))
	if err != nil {
		return nil, err
	}

	return &StealthKeyBundle{
		SpendPrivateKey: spendPriv,
		SpendPublicKey:  &spendPriv.PublicKey,
		ViewPrivateKey:  viewPriv,
		ViewPublicKey:   &viewPriv.PublicKey,
	}, nil
}

// GenerateStealthKeyBundle generates a fresh random stealth key bundle.
// Recipients who want signature-derived keys use KeysFromSignature instead.
func GenerateStealthKeyBundle() (*StealthKeyBundle, error) {
	spendPriv, err := ecdsa.GenerateKey(crypto.S256(), rand.Reader)
	if err != nil {
		return nil, err
	}

	viewPriv, err := ecdsa.GenerateKey(crypto.S256(), rand.Reader)
	if err != nil {
		return nil, err
	}

	return &StealthKeyBundle{
		SpendPrivateKey: spendPriv,
		SpendPublicKey:  &spendPriv.PublicKey,
		ViewPrivateKey:  viewPriv,
		ViewPublicKey:   &viewPriv.PublicKey,
	}, nil
}

// FromPrivateKeys creates a StealthKeyBundle from existing hex private keys
func FromPrivateKeys(spendPrivHex, viewPrivHex string) (*StealthKeyBundle, error) {
	spendPriv, err := crypto.HexToECDSA(spendPrivHex)
	if err != nil {
		return nil, ErrInvalidSpendKey
	}

	viewPriv, err := crypto.HexToECDSA(viewPrivHex)
	if err != nil {
		return nil, ErrInvalidViewKey
	}

	return &StealthKeyBundle{
		SpendPrivateKey: spendPriv,
		SpendPublicKey:  &spendPriv.PublicKey,
		ViewPrivateKey:  viewPriv,
		ViewPublicKey:   &viewPriv.PublicKey,
	}, nil
}

// Address returns the chain address of the spend public key. It identifies
// the bundle in the keystore and is never used to receive funds directly.
func (kb *StealthKeyBundle) Address() common.Address {
	return crypto.PubkeyToAddress(*kb.SpendPublicKey)
}
