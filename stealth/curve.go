// Copyright 2025 The Veil Authors
// This file is part of the Veil library.

package stealth

import (
	"crypto/ecdsa"
	"errors"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
)

var (
	// ErrScalarOutOfRange is returned when a derived scalar reduces to zero
	// and therefore cannot serve as a private key or key addend
	ErrScalarOutOfRange = errors.New("derived scalar out of range")
	// ErrInsufficientEntropy is returned when the secure randomness source
	// fails. It is fatal for generation; there is no weaker fallback.
	ErrInsufficientEntropy = errors.New("insufficient entropy for ephemeral key")
	// ErrInvalidPointEncoding is returned when a compressed point does not
	// decode to a curve point
	ErrInvalidPointEncoding = errors.New("invalid compressed point encoding")
)

// All curve operations go through the helpers below so the protocol logic
// stays independent of the primitive provider.

// scalarBaseMult returns k*G as a public key.
func scalarBaseMult(k *big.Int) *ecdsa.PublicKey {
	x, y := crypto.S256().ScalarBaseMult(k.Bytes())
	return &ecdsa.PublicKey{Curve: crypto.S256(), X: x, Y: y}
}

// pointAdd returns a+b.
func pointAdd(a, b *ecdsa.PublicKey) *ecdsa.PublicKey {
	x, y := crypto.S256().Add(a.X, a.Y, b.X, b.Y)
	return &ecdsa.PublicKey{Curve: crypto.S256(), X: x, Y: y}
}

// sharedSecretDigest computes the ECDH point d*pub, serializes its
// compressed form and hashes it with Keccak-256. Both sides of the protocol
// arrive at the same digest: e*V == v*E by Diffie-Hellman symmetry.
func sharedSecretDigest(d *big.Int, pub *ecdsa.PublicKey) []byte {
	x, y := crypto.S256().ScalarMult(pub.X, pub.Y, d.Bytes())
	shared := &ecdsa.PublicKey{Curve: crypto.S256(), X: x, Y: y}
	return crypto.Keccak256(crypto.CompressPubkey(shared))
}

// hashToScalar interprets a 32-byte digest as a scalar mod the curve order.
// The reduction is explicit rather than delegated to the curve library; a
// zero result is structurally negligible but rejected outright.
func hashToScalar(digest []byte) (*big.Int, error) {
	s := new(big.Int).SetBytes(digest)
	s.Mod(s, crypto.S256().Params().N)
	if s.Sign() == 0 {
		return nil, ErrScalarOutOfRange
	}
	return s, nil
}

// privateKeyFromDigest builds a private key from a hash digest, reducing it
// into [1, n-1] first.
func privateKeyFromDigest(digest []byte) (*ecdsa.PrivateKey, error) {
	d, err := hashToScalar(digest)
	if err != nil {
		return nil, err
	}
	priv := new(ecdsa.PrivateKey)
	priv.D = d
	priv.PublicKey.Curve = crypto.S256()
	priv.PublicKey.X, priv.PublicKey.Y = crypto.S256().ScalarBaseMult(d.Bytes())
	return priv, nil
}

// randomScalar samples a uniform scalar in [1, n-1] from the given entropy
// source by rejection. Each rejected draw has probability < 2^-127, so the
// loop terminates almost immediately in practice.
func randomScalar(entropy io.Reader) (*big.Int, error) {
	n := crypto.S256().Params().N
	buf := make([]byte, 32)
	for {
		if _, err := io.ReadFull(entropy, buf); err != nil {
			return nil, ErrInsufficientEntropy
		}
		k := new(big.Int).SetBytes(buf)
		if k.Sign() > 0 && k.Cmp(n) < 0 {
			return k, nil
		}
	}
}

// decompressPoint decodes a 33-byte compressed public key, mapping any
// decode failure to ErrInvalidPointEncoding.
func decompressPoint(compressed []byte) (*ecdsa.PublicKey, error) {
	pub, err := crypto.DecompressPubkey(compressed)
	if err != nil {
		return nil, ErrInvalidPointEncoding
	}
	return pub, nil
}
