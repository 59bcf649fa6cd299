// Copyright 2025 The Veil Authors
// This file is part of the Veil library.

package veildb

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/holiman/uint256"

	"github.com/veil-protocol/veil/stealth"
)

const testSeedSignature = "0x" +
	"8f2a559490d8e9b2a9a1c1f7e9d4c3b2a190e8f7d6c5b4a39281706f5e4d3c2b" +
	"1a0f9e8d7c6b5a493827160f5e4d3c2b1a09f8e7d6c5b4a3928170695847362a" +
	"1b"

func testRecord(t *testing.T) *PaymentRecord {
	t.Helper()
	kb, err := stealth.KeysFromSignature(testSeedSignature)
	if err != nil {
		t.Fatalf("Failed to derive keys: %v", err)
	}
	sa, err := stealth.GenerateStealthAddress(kb.MetaAddress())
	if err != nil {
		t.Fatalf("Failed to generate stealth address: %v", err)
	}
	return &PaymentRecord{
		StealthAddress:  sa.Address,
		EphemeralPubKey: sa.EphemeralPubKey,
		ViewTag:         sa.ViewTag,
		Amount:          uint256.NewInt(1_000_000_000),
		Direction:       Incoming,
	}
}

func TestPutGetRecord(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "records"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	record := testRecord(t)
	if err := db.PutRecord(record); err != nil {
		t.Fatalf("Failed to store record: %v", err)
	}

	if !db.HasRecord(record.StealthAddress) {
		t.Error("HasRecord should report the stored address")
	}

	loaded, err := db.GetRecord(record.StealthAddress)
	if err != nil {
		t.Fatalf("Failed to load record: %v", err)
	}
	if loaded.StealthAddress != record.StealthAddress {
		t.Error("Stealth address mismatch")
	}
	if !bytes.Equal(loaded.EphemeralPubKey, record.EphemeralPubKey) {
		t.Error("Ephemeral public key mismatch")
	}
	if loaded.ViewTag != record.ViewTag {
		t.Error("View tag mismatch")
	}
	if loaded.Amount.Cmp(record.Amount) != 0 {
		t.Error("Amount mismatch")
	}
	if loaded.Direction != Incoming {
		t.Error("Direction mismatch")
	}
}

func TestGetRecordMissing(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "records"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	record := testRecord(t)
	if db.HasRecord(record.StealthAddress) {
		t.Error("Empty database should have no records")
	}
	if _, err := db.GetRecord(record.StealthAddress); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDeleteRecord(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "records"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	record := testRecord(t)
	if err := db.PutRecord(record); err != nil {
		t.Fatalf("Failed to store record: %v", err)
	}
	if err := db.DeleteRecord(record.StealthAddress); err != nil {
		t.Fatalf("Failed to delete record: %v", err)
	}
	if db.HasRecord(record.StealthAddress) {
		t.Error("Record should be gone after delete")
	}
}

func TestKnownSetSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	record := testRecord(t)
	if err := db.PutRecord(record); err != nil {
		t.Fatalf("Failed to store record: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Failed to close database: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	defer reopened.Close()

	if !reopened.HasRecord(record.StealthAddress) {
		t.Error("Known address set not rebuilt on reopen")
	}
}

func TestTotalReceived(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "records"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	in := testRecord(t)
	in.Amount = uint256.NewInt(300)
	out := testRecord(t)
	out.Amount = uint256.NewInt(500)
	out.Direction = Outgoing

	if err := db.PutRecord(in); err != nil {
		t.Fatalf("Failed to store record: %v", err)
	}
	if err := db.PutRecord(out); err != nil {
		t.Fatalf("Failed to store record: %v", err)
	}

	total, err := db.TotalReceived()
	if err != nil {
		t.Fatalf("Failed to sum records: %v", err)
	}
	if total.Uint64() != 300 {
		t.Errorf("Total received should count only incoming records: got %d", total.Uint64())
	}
}
