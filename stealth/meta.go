// Copyright 2025 The Veil Authors
// This file is part of the Veil library.

package stealth

import (
	"crypto/ecdsa"
	"errors"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/veil-protocol/veil/params"
)

var (
	// ErrInvalidMetaAddressLength is returned when a meta-address is not
	// exactly two compressed public keys
	ErrInvalidMetaAddressLength = errors.New("invalid stealth meta-address length")
)

// StealthMetaAddress is the recipient's published, reusable handle. Senders
// derive one-time stealth addresses from it; it reveals nothing about the
// addresses so derived.
type StealthMetaAddress struct {
	// SpendPubKey is the recipient's compressed spend public key
	SpendPubKey []byte
	// ViewPubKey is the recipient's compressed view public key
	ViewPubKey []byte
}

// MetaAddress returns the stealth meta-address for sharing. The serialized
// form is the 33-byte compressed spend key followed by the 33-byte
// compressed view key, no delimiter.
func (kb *StealthKeyBundle) MetaAddress() *StealthMetaAddress {
	return &StealthMetaAddress{
		SpendPubKey: crypto.CompressPubkey(kb.SpendPublicKey),
		ViewPubKey:  crypto.CompressPubkey(kb.ViewPublicKey),
	}
}

// Bytes returns the 66-byte wire form of the meta-address.
func (m *StealthMetaAddress) Bytes() []byte {
	out := make([]byte, 0, params.MetaAddressLength)
	out = append(out, m.SpendPubKey...)
	out = append(out, m.ViewPubKey...)
	return out
}

// String returns the hex form: 0x followed by 132 hex characters.
func (m *StealthMetaAddress) String() string {
	return hexutil.Encode(m.Bytes())
}

// ParseMetaAddress parses a 0x-prefixed hex meta-address string.
func ParseMetaAddress(s string) (*StealthMetaAddress, error) {
	data, err := hexutil.Decode(s)
	if err != nil {
		return nil, ErrInvalidMetaAddressLength
	}
	return DecodeMetaAddress(data)
}

// DecodeMetaAddress decodes the 66-byte wire form. It is the exact inverse
// of Bytes for every valid pair of compressed points.
func DecodeMetaAddress(data []byte) (*StealthMetaAddress, error) {
	if len(data) != params.MetaAddressLength {
		return nil, ErrInvalidMetaAddressLength
	}
	return &StealthMetaAddress{
		SpendPubKey: data[:params.CompressedPubKeyLength],
		ViewPubKey:  data[params.CompressedPubKeyLength:],
	}, nil
}

// Keys decompresses the two public keys. Points that are not on the curve
// surface as ErrInvalidSpendKey or ErrInvalidViewKey.
func (m *StealthMetaAddress) Keys() (spendPub, viewPub *ecdsa.PublicKey, err error) {
	spendPub, err = crypto.DecompressPubkey(m.SpendPubKey)
	if err != nil {
		return nil, nil, ErrInvalidSpendKey
	}
	viewPub, err = crypto.DecompressPubkey(m.ViewPubKey)
	if err != nil {
		return nil, nil, ErrInvalidViewKey
	}
	return spendPub, viewPub, nil
}
