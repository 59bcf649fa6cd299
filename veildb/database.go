// Copyright 2025 The Veil Authors
// This file is part of the Veil library.

// Package veildb keeps a local ledger of stealth payments: addresses a
// sender has generated and payments a recipient has recognized. It is a
// wallet-side record store; nothing here touches a chain.
package veildb

import (
	"errors"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var (
	// recordPrefix + stealth address -> RLP-encoded PaymentRecord
	recordPrefix = []byte("p")
)

var (
	ErrNotFound = errors.New("not found")
)

// Database wraps LevelDB access for payment records. An in-memory set of
// known stealth addresses backs O(1) duplicate checks without touching disk.
type Database struct {
	db   *leveldb.DB
	path string
	mu   sync.RWMutex

	known mapset.Set[common.Address]
}

// Open opens (or creates) the record database at path and loads the known
// address set.
func Open(path string) (*Database, error) {
	opts := &opt.Options{
		OpenFilesCacheCapacity: 64,
		BlockCacheCapacity:     16 * opt.MiB,
		WriteBuffer:            16 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	}

	db, err := leveldb.OpenFile(path, opts)
	if err != nil {
		return nil, err
	}

	d := &Database{
		db:    db,
		path:  path,
		known: mapset.NewThreadUnsafeSet[common.Address](),
	}
	if err := d.loadKnown(); err != nil {
		db.Close()
		return nil, err
	}

	log.Info("Opened payment record database", "path", path, "records", d.known.Cardinality())
	return d, nil
}

// Close closes the database
func (d *Database) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.db.Close()
}

func (d *Database) loadKnown() error {
	it := d.db.NewIterator(util.BytesPrefix(recordPrefix), nil)
	defer it.Release()
	for it.Next() {
		key := it.Key()
		if len(key) != len(recordPrefix)+common.AddressLength {
			continue
		}
		d.known.Add(common.BytesToAddress(key[len(recordPrefix):]))
	}
	return it.Error()
}

func recordKey(address common.Address) []byte {
	return append(append([]byte{}, recordPrefix...), address.Bytes()...)
}

func (d *Database) put(key, value []byte) error {
	return d.db.Put(key, value, nil)
}

func (d *Database) get(key []byte) ([]byte, error) {
	value, err := d.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, ErrNotFound
	}
	return value, err
}

func (d *Database) delete(key []byte) error {
	return d.db.Delete(key, nil)
}
