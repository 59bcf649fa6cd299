// Copyright 2025 The Veil Authors
// This file is part of the Veil library.

package keystore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/veil-protocol/veil/stealth"
)

var (
	ErrKeyNotFound = errors.New("no key file for this address")
)

// KeyStore manages encrypted key files in a single directory, one file per
// stealth key bundle, named by the spend address.
type KeyStore struct {
	dir string
	mu  sync.Mutex

	scryptN int
	scryptP int
}

// NewKeyStore creates a keystore over the given directory with standard
// scrypt parameters.
func NewKeyStore(dir string) (*KeyStore, error) {
	return newKeyStore(dir, scryptN, scryptP)
}

// NewLightKeyStore creates a keystore with light scrypt parameters.
// Decryption stays compatible; only newly written files are lighter.
func NewLightKeyStore(dir string) (*KeyStore, error) {
	return newKeyStore(dir, lightScryptN, lightScryptP)
}

func newKeyStore(dir string, n, p int) (*KeyStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	return &KeyStore{dir: dir, scryptN: n, scryptP: p}, nil
}

// StoreKey encrypts the bundle under the password and writes its key file,
// replacing any previous file for the same address.
func (ks *KeyStore) StoreKey(bundle *stealth.StealthKeyBundle, password string) (*Key, error) {
	key := NewKey(bundle)

	encrypted, err := EncryptKey(key, password, ks.scryptN, ks.scryptP)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(encrypted, "", "  ")
	if err != nil {
		return nil, err
	}

	ks.mu.Lock()
	defer ks.mu.Unlock()

	path := ks.keyFilePath(key.Address)
	if err := writeFileAtomic(path, data); err != nil {
		return nil, err
	}

	log.Info("Stored stealth key bundle", "address", key.Address.Hex(), "file", path)
	return key, nil
}

// GetKey loads and decrypts the key file for the given address.
func (ks *KeyStore) GetKey(address common.Address, password string) (*Key, error) {
	ks.mu.Lock()
	data, err := os.ReadFile(ks.keyFilePath(address))
	ks.mu.Unlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}

	encrypted := new(encryptedKeyJSON)
	if err := json.Unmarshal(data, encrypted); err != nil {
		return nil, err
	}

	return DecryptKey(encrypted, password)
}

// HasKey reports whether a key file exists for the address.
func (ks *KeyStore) HasKey(address common.Address) bool {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	_, err := os.Stat(ks.keyFilePath(address))
	return err == nil
}

// Addresses lists the addresses of all stored key files.
func (ks *KeyStore) Addresses() ([]common.Address, error) {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	entries, err := os.ReadDir(ks.dir)
	if err != nil {
		return nil, err
	}

	var addresses []common.Address
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		hexAddr := strings.TrimSuffix(name, ".json")
		if !common.IsHexAddress(hexAddr) {
			continue
		}
		addresses = append(addresses, common.HexToAddress(hexAddr))
	}
	return addresses, nil
}

func (ks *KeyStore) keyFilePath(address common.Address) string {
	return filepath.Join(ks.dir, strings.ToLower(address.Hex()[2:])+".json")
}

// writeFileAtomic writes via a temp file and rename so a crash never leaves
// a truncated key file behind.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
