// Copyright 2025 The Veil Authors
// This file is part of the Veil library.

package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"golang.org/x/crypto/scrypt"

	"github.com/veil-protocol/veil/stealth"
)

const (
	// Standard scrypt parameters
	scryptN     = 262144 // 2^18
	scryptR     = 8
	scryptP     = 1
	scryptDKLen = 32

	// Light scrypt parameters (for faster testing)
	lightScryptN = 4096 // 2^12
	lightScryptR = 8
	lightScryptP = 6

	// Key file version
	keyFileVersion = 1
)

var (
	ErrDecryptFailed = errors.New("could not decrypt key with given password")
	ErrMACMismatch   = errors.New("MAC verification failed")
)

// EncryptKey encrypts a stealth key bundle with a password using scrypt and
// AES-128-CTR. The scrypt cost parameters are recorded in the key file.
func EncryptKey(key *Key, password string, n, p int) (*encryptedKeyJSON, error) {
	salt := make([]byte, 32)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}

	derivedKey, err := scrypt.Key([]byte(password), salt, n, scryptR, p, scryptDKLen)
	if err != nil {
		return nil, err
	}

	// First half of derived key is encryption key
	encryptKey := derivedKey[:16]

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, err
	}

	// Plaintext is spend key followed by view key
	plain := make([]byte, 0, 64)
	plain = append(plain, crypto.FromECDSA(key.Bundle.SpendPrivateKey)...)
	plain = append(plain, crypto.FromECDSA(key.Bundle.ViewPrivateKey)...)

	cipherText, err := aesCTRXOR(encryptKey, plain, iv)
	if err != nil {
		return nil, err
	}

	// MAC: Keccak256(derivedKey[16:32] + cipherText)
	mac := crypto.Keccak256(derivedKey[16:32], cipherText)

	return &encryptedKeyJSON{
		Address: hex.EncodeToString(key.Address[:]),
		ID:      key.ID.String(),
		Version: keyFileVersion,
		Crypto: cryptoJSON{
			Cipher: "aes-128-ctr",
			CipherParams: cipherparamsJSON{
				IV: hex.EncodeToString(iv),
			},
			CipherText: hex.EncodeToString(cipherText),
			KDF:        "scrypt",
			KDFParams: map[string]interface{}{
				"dklen": scryptDKLen,
				"n":     n,
				"p":     p,
				"r":     scryptR,
				"salt":  hex.EncodeToString(salt),
			},
			MAC: hex.EncodeToString(mac),
		},
	}, nil
}

// DecryptKey decrypts an encrypted key file with a password
func DecryptKey(encryptedKey *encryptedKeyJSON, password string) (*Key, error) {
	if encryptedKey.Version != keyFileVersion {
		return nil, fmt.Errorf("unsupported key file version: %d", encryptedKey.Version)
	}

	if encryptedKey.Crypto.Cipher != "aes-128-ctr" {
		return nil, fmt.Errorf("unsupported cipher: %s", encryptedKey.Crypto.Cipher)
	}

	if encryptedKey.Crypto.KDF != "scrypt" {
		return nil, fmt.Errorf("unsupported KDF: %s", encryptedKey.Crypto.KDF)
	}

	kdfParams := encryptedKey.Crypto.KDFParams
	salt, err := hex.DecodeString(kdfParams["salt"].(string))
	if err != nil {
		return nil, err
	}

	n := intParam(kdfParams, "n")
	r := intParam(kdfParams, "r")
	p := intParam(kdfParams, "p")
	dklen := intParam(kdfParams, "dklen")

	derivedKey, err := scrypt.Key([]byte(password), salt, n, r, p, dklen)
	if err != nil {
		return nil, err
	}

	cipherText, err := hex.DecodeString(encryptedKey.Crypto.CipherText)
	if err != nil {
		return nil, err
	}

	mac, err := hex.DecodeString(encryptedKey.Crypto.MAC)
	if err != nil {
		return nil, err
	}

	calculatedMAC := crypto.Keccak256(derivedKey[16:32], cipherText)
	if !equalBytes(mac, calculatedMAC) {
		return nil, ErrMACMismatch
	}

	iv, err := hex.DecodeString(encryptedKey.Crypto.CipherParams.IV)
	if err != nil {
		return nil, err
	}

	plain, err := aesCTRXOR(derivedKey[:16], cipherText, iv)
	if err != nil {
		return nil, err
	}
	if len(plain) != 64 {
		return nil, ErrDecryptFailed
	}

	bundle, err := stealth.FromPrivateKeys(hex.EncodeToString(plain[:32]), hex.EncodeToString(plain[32:]))
	if err != nil {
		return nil, ErrDecryptFailed
	}

	id, err := uuid.Parse(encryptedKey.ID)
	if err != nil {
		return nil, err
	}

	address := common.HexToAddress(encryptedKey.Address)
	if bundle.Address() != address {
		return nil, errors.New("address mismatch")
	}

	return &Key{
		ID:      id,
		Address: address,
		Bundle:  bundle,
	}, nil
}

// intParam reads a numeric KDF parameter that may arrive as float64 (from
// JSON) or int (from EncryptKey output held in memory).
func intParam(params map[string]interface{}, name string) int {
	switch v := params[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// aesCTRXOR performs AES-128-CTR encryption/decryption
func aesCTRXOR(key, input, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	stream := cipher.NewCTR(block, iv)
	output := make([]byte, len(input))
	stream.XORKeyStream(output, input)

	return output, nil
}

// equalBytes performs constant-time byte comparison
func equalBytes(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var result byte
	for i := 0; i < len(a); i++ {
		result |= a[i] ^ b[i]
	}
	return result == 0
}
