// Copyright 2025 The Veil Authors
// This file is part of the Veil library.

package params

import "fmt"

// Version information
const (
	VersionMajor = 0      // Major version component
	VersionMinor = 2      // Minor version component
	VersionPatch = 0      // Patch version component
	VersionMeta  = "beta" // Version metadata
)

// Version holds the textual version string
var Version = func() string {
	return fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)
}()

// VersionWithMeta holds the textual version string including metadata
var VersionWithMeta = func() string {
	v := Version
	if VersionMeta != "" {
		v += "-" + VersionMeta
	}
	return v
}()

// Protocol constants
const (
	// CompressedPubKeyLength is the length of a compressed secp256k1 point
	CompressedPubKeyLength = 33

	// MetaAddressLength is the wire length of a stealth meta-address:
	// compressed spend key followed by compressed view key
	MetaAddressLength = 2 * CompressedPubKeyLength

	// SeedSignatureLength is the byte length of the seed signature the key
	// derivation consumes: two 32-byte scalars plus a recovery byte
	SeedSignatureLength = 65

	// PrivateKeyLength is the byte length of a secp256k1 private scalar
	PrivateKeyLength = 32
)
