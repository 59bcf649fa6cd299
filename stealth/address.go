// Copyright 2025 The Veil Authors
// This file is part of the Veil library.

package stealth

import (
	"crypto/ecdsa"
	"crypto/rand"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/veil-protocol/veil/params"
)

// StealthAddress represents a one-time stealth address produced by a sender.
// It is created fresh per payment and scanned once by the recipient; it has
// no lifecycle beyond that.
type StealthAddress struct {
	// Address is the one-time chain address
	Address common.Address
	// EphemeralPubKey is the compressed single-use public key the recipient
	// needs to recognize the payment and derive its private key
	EphemeralPubKey []byte
	// ViewTag is the first byte of the hashed shared secret. It is a
	// scanning hint, not a security boundary; collisions are expected.
	ViewTag byte
}

// GenerateStealthAddress creates a one-time stealth address for a recipient
// meta-address, using the system randomness source for the ephemeral key.
// This is the sender side of the protocol and must run once per payment;
// the ephemeral scalar is never cached or reused.
func GenerateStealthAddress(meta *StealthMetaAddress) (*StealthAddress, error) {
	return GenerateStealthAddressFrom(rand.Reader, meta)
}

// GenerateStealthAddressFrom is GenerateStealthAddress with an explicit
// entropy source. A failing source aborts with ErrInsufficientEntropy;
// generation never falls back to weaker randomness.
func GenerateStealthAddressFrom(entropy io.Reader, meta *StealthMetaAddress) (*StealthAddress, error) {
	spendPub, viewPub, err := meta.Keys()
	if err != nil {
		return nil, err
	}

	e, err := randomScalar(entropy)
	if err != nil {
		return nil, err
	}
	ephemeralPub := scalarBaseMult(e)

	// Shared secret with the recipient's view key: S = e*V
	digest := sharedSecretDigest(e, viewPub)

	stealthAddr, err := deriveStealthAddress(spendPub, digest)
	if err != nil {
		return nil, err
	}

	return &StealthAddress{
		Address:         stealthAddr,
		EphemeralPubKey: crypto.CompressPubkey(ephemeralPub),
		ViewTag:         digest[0],
	}, nil
}

// CheckStealthAddress reports whether an announced stealth address belongs
// to the recipient holding viewPrivKey. The view tag rejects most foreign
// announcements after a single hash comparison; announcements that pass it
// are confirmed by exact address comparison, so the check has no false
// positives and no false negatives. A tag mismatch is the expected outcome
// of scanning and is not an error.
func CheckStealthAddress(announced common.Address, ephemeralPubKey []byte, viewTag byte, viewPrivKey *ecdsa.PrivateKey, spendPubKey *ecdsa.PublicKey) (bool, error) {
	ephPub, err := decompressPoint(ephemeralPubKey)
	if err != nil {
		return false, err
	}

	// S' = v*E, equal to the sender's e*V
	digest := sharedSecretDigest(viewPrivKey.D, ephPub)
	if digest[0] != viewTag {
		return false, nil
	}

	derived, err := deriveStealthAddress(spendPubKey, digest)
	if err != nil {
		return false, err
	}
	return derived == announced, nil
}

// ComputeStealthKey recovers the private key controlling a stealth address
// generated against the bundle's meta-address. The returned scalar is
// 32 bytes, big-endian, zero-padded: (spendPriv + h) mod n, the algebraic
// dual of the sender's spendPub + h*G.
func ComputeStealthKey(kb *StealthKeyBundle, ephemeralPubKey []byte) ([]byte, error) {
	ephPub, err := decompressPoint(ephemeralPubKey)
	if err != nil {
		return nil, err
	}

	digest := sharedSecretDigest(kb.ViewPrivateKey.D, ephPub)
	h, err := hashToScalar(digest)
	if err != nil {
		return nil, err
	}

	d := new(big.Int).Add(kb.SpendPrivateKey.D, h)
	d.Mod(d, crypto.S256().Params().N)

	key := make([]byte, params.PrivateKeyLength)
	d.FillBytes(key)
	return key, nil
}

// StealthPrivateKey is ComputeStealthKey returning a ready-to-use ECDSA key.
func StealthPrivateKey(kb *StealthKeyBundle, ephemeralPubKey []byte) (*ecdsa.PrivateKey, error) {
	raw, err := ComputeStealthKey(kb, ephemeralPubKey)
	if err != nil {
		return nil, err
	}
	return crypto.ToECDSA(raw)
}

// deriveStealthAddress computes the chain address of spendPub + h*G where h
// is the hashed shared secret reduced into [1, n-1].
func deriveStealthAddress(spendPub *ecdsa.PublicKey, digest []byte) (common.Address, error) {
	h, err := hashToScalar(digest)
	if err != nil {
		return common.Address{}, err
	}
	stealthPub := pointAdd(spendPub, scalarBaseMult(h))
	return crypto.PubkeyToAddress(*stealthPub), nil
}
