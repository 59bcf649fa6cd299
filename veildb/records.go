// Copyright 2025 The Veil Authors
// This file is part of the Veil library.

package veildb

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

// Payment directions
const (
	// Outgoing marks an address this wallet generated for someone else
	Outgoing = uint8(iota)
	// Incoming marks a payment this wallet recognized as its own
	Incoming
)

// PaymentRecord is one stealth payment as seen from this wallet.
type PaymentRecord struct {
	// StealthAddress is the one-time address
	StealthAddress common.Address
	// EphemeralPubKey is the announcement's compressed ephemeral key
	EphemeralPubKey []byte
	// ViewTag is the announcement's scanning hint
	ViewTag uint8
	// Amount is the value transferred (in wei)
	Amount *uint256.Int
	// Direction is Outgoing or Incoming
	Direction uint8
}

// PutRecord stores a payment record keyed by its stealth address. Stealth
// addresses are single-use, so one record per address is the invariant.
func (d *Database) PutRecord(record *PaymentRecord) error {
	data, err := rlp.EncodeToBytes(record)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.put(recordKey(record.StealthAddress), data); err != nil {
		return err
	}
	d.known.Add(record.StealthAddress)
	return nil
}

// GetRecord loads the record for a stealth address.
func (d *Database) GetRecord(address common.Address) (*PaymentRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	data, err := d.get(recordKey(address))
	if err != nil {
		return nil, err
	}

	record := new(PaymentRecord)
	if err := rlp.DecodeBytes(data, record); err != nil {
		return nil, err
	}
	return record, nil
}

// HasRecord reports whether a record exists, from memory only.
func (d *Database) HasRecord(address common.Address) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.known.Contains(address)
}

// DeleteRecord removes the record for a stealth address.
func (d *Database) DeleteRecord(address common.Address) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.delete(recordKey(address)); err != nil {
		return err
	}
	d.known.Remove(address)
	return nil
}

// Records returns all stored payment records.
func (d *Database) Records() ([]*PaymentRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var records []*PaymentRecord
	for _, address := range d.known.ToSlice() {
		data, err := d.get(recordKey(address))
		if err != nil {
			return nil, err
		}
		record := new(PaymentRecord)
		if err := rlp.DecodeBytes(data, record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// TotalReceived sums the amounts of all incoming records.
func (d *Database) TotalReceived() (*uint256.Int, error) {
	records, err := d.Records()
	if err != nil {
		return nil, err
	}

	total := uint256.NewInt(0)
	for _, record := range records {
		if record.Direction == Incoming && record.Amount != nil {
			total.Add(total, record.Amount)
		}
	}
	return total, nil
}
