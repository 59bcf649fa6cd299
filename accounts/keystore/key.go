// Copyright 2025 The Veil Authors
// This file is part of the Veil library.

// Package keystore provides encrypted at-rest storage for stealth key
// bundles. Key files follow the scrypt/AES-CTR scheme with a Keccak-256
// MAC; the plaintext is the spend private key followed by the view private
// key, so one password unlocks both halves of a bundle.
package keystore

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/veil-protocol/veil/stealth"
)

// Key is a stored stealth key bundle with its identity metadata
type Key struct {
	// ID is a random unique identifier for the key file
	ID uuid.UUID
	// Address is the chain address of the spend public key; it names the
	// bundle on disk and is never a payment destination
	Address common.Address
	// Bundle holds the spend and view key pairs
	Bundle *stealth.StealthKeyBundle
}

// NewKey wraps a bundle with a fresh ID
func NewKey(bundle *stealth.StealthKeyBundle) *Key {
	return &Key{
		ID:      uuid.New(),
		Address: bundle.Address(),
		Bundle:  bundle,
	}
}

type encryptedKeyJSON struct {
	Address string     `json:"address"`
	ID      string     `json:"id"`
	Version int        `json:"version"`
	Crypto  cryptoJSON `json:"crypto"`
}

type cryptoJSON struct {
	Cipher       string                 `json:"cipher"`
	CipherParams cipherparamsJSON       `json:"cipherparams"`
	CipherText   string                 `json:"ciphertext"`
	KDF          string                 `json:"kdf"`
	KDFParams    map[string]interface{} `json:"kdfparams"`
	MAC          string                 `json:"mac"`
}

type cipherparamsJSON struct {
	IV string `json:"iv"`
}
