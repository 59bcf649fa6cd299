// Copyright 2025 The Veil Authors
// This file is part of the Veil library.

package stealth

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// A syntactically valid 65-byte seed signature (r || s || v), hex-encoded.
const testSeedSignature = "0x" +
	"8f2a559490d8e9b2a9a1c1f7e9d4c3b2a190e8f7d6c5b4a39281706f5e4d3c2b" +
	"1a0f9e8d7c6b5a493827160f5e4d3c2b1a09f8e7d6c5b4a3928170695847362a" +
	"1b"

func TestKeysFromSignatureDeterminism(t *testing.T) {
	first, err := KeysFromSignature(testSeedSignature)
	if err != nil {
		t.Fatalf("Failed to derive keys: %v", err)
	}
	second, err := KeysFromSignature(testSeedSignature)
	if err != nil {
		t.Fatalf("Failed to derive keys on second call: %v", err)
	}

	if first.SpendPrivateKey.D.Cmp(second.SpendPrivateKey.D) != 0 {
		t.Error("Spend private keys differ between derivations")
	}
	if first.ViewPrivateKey.D.Cmp(second.ViewPrivateKey.D) != 0 {
		t.Error("View private keys differ between derivations")
	}
	if !bytes.Equal(crypto.CompressPubkey(first.SpendPublicKey), crypto.CompressPubkey(second.SpendPublicKey)) {
		t.Error("Spend public keys differ between derivations")
	}
	if !bytes.Equal(crypto.CompressPubkey(first.ViewPublicKey), crypto.CompressPubkey(second.ViewPublicKey)) {
		t.Error("View public keys differ between derivations")
	}
}

func TestKeysFromSignaturePublicMatchesPrivate(t *testing.T) {
	kb, err := KeysFromSignature(testSeedSignature)
	if err != nil {
		t.Fatalf("Failed to derive keys: %v", err)
	}

	spendX, spendY := crypto.S256().ScalarBaseMult(kb.SpendPrivateKey.D.Bytes())
	if spendX.Cmp(kb.SpendPublicKey.X) != 0 || spendY.Cmp(kb.SpendPublicKey.Y) != 0 {
		t.Error("Spend public key does not match spend private key")
	}

	viewX, viewY := crypto.S256().ScalarBaseMult(kb.ViewPrivateKey.D.Bytes())
	if viewX.Cmp(kb.ViewPublicKey.X) != 0 || viewY.Cmp(kb.ViewPublicKey.Y) != 0 {
		t.Error("View public key does not match view private key")
	}
}

func TestKeysFromSignatureSpendAndViewIndependent(t *testing.T) {
	kb, err := KeysFromSignature(testSeedSignature)
	if err != nil {
		t.Fatalf("Failed to derive keys: %v", err)
	}
	if kb.SpendPrivateKey.D.Cmp(kb.ViewPrivateKey.D) == 0 {
		t.Error("Spend and view private keys should differ")
	}
}

func TestKeysFromSignatureMalformed(t *testing.T) {
	valid := testSeedSignature

	cases := []struct {
		name string
		sig  string
	}{
		{"empty", ""},
		{"no prefix", valid[2:]},
		{"wrong prefix", "0y" + valid[2:]},
		{"too short", valid[:len(valid)-2]},
		{"too long", valid + "ab"},
		{"odd length", valid[:len(valid)-1]},
		{"64 bytes", valid[:len(valid)-2]},
		{"non-hex portion", "0x" + strings.Repeat("zz", 65)},
	}

	for _, tc := range cases {
		if _, err := KeysFromSignature(tc.sig); err != ErrMalformedSeed {
			t.Errorf("%s: expected ErrMalformedSeed, got %v", tc.name, err)
		}
	}
}

func TestSeedMessage(t *testing.T) {
	account := common.HexToAddress("0x8ba1f109551bD432803012645Ac136ddd64DBA72")
	msg := SeedMessage(account)

	want := "Stealth Signed Message:\n" + account.Hex()
	if msg != want {
		t.Errorf("Seed message mismatch: got %q, want %q", msg, want)
	}
}

func TestFromPrivateKeys(t *testing.T) {
	kb, err := KeysFromSignature(testSeedSignature)
	if err != nil {
		t.Fatalf("Failed to derive keys: %v", err)
	}

	spendHex := common.Bytes2Hex(crypto.FromECDSA(kb.SpendPrivateKey))
	viewHex := common.Bytes2Hex(crypto.FromECDSA(kb.ViewPrivateKey))

	restored, err := FromPrivateKeys(spendHex, viewHex)
	if err != nil {
		t.Fatalf("Failed to restore bundle: %v", err)
	}
	if restored.Address() != kb.Address() {
		t.Error("Restored bundle has a different spend address")
	}

	if _, err := FromPrivateKeys("not-hex", viewHex); err != ErrInvalidSpendKey {
		t.Errorf("Expected ErrInvalidSpendKey, got %v", err)
	}
	if _, err := FromPrivateKeys(spendHex, "not-hex"); err != ErrInvalidViewKey {
		t.Errorf("Expected ErrInvalidViewKey, got %v", err)
	}
}

func TestGenerateStealthKeyBundle(t *testing.T) {
	kb, err := GenerateStealthKeyBundle()
	if err != nil {
		t.Fatalf("Failed to generate bundle: %v", err)
	}
	if kb.SpendPrivateKey == nil || kb.ViewPrivateKey == nil {
		t.Fatal("Generated bundle has nil private keys")
	}
	if kb.SpendPublicKey == nil || kb.ViewPublicKey == nil {
		t.Fatal("Generated bundle has nil public keys")
	}
}
