// Copyright 2025 The Veil Authors
// This file is part of Veil.

// veil is the command-line client for the Veil stealth address toolkit.
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/urfave/cli/v2"

	"github.com/veil-protocol/veil/accounts/keystore"
	"github.com/veil-protocol/veil/config"
	veilparams "github.com/veil-protocol/veil/params"
	"github.com/veil-protocol/veil/stealth"
	"github.com/veil-protocol/veil/veildb"
)

var (
	// Git SHA1 commit hash of the release (set via linker flags)
	gitCommit = ""
	gitDate   = ""
)

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "Path to the configuration file",
	}
	signatureFlag = &cli.StringFlag{
		Name:  "signature",
		Usage: "Seed signature (0x + 130 hex characters) to derive the key bundle from",
	}
	passwordFlag = &cli.StringFlag{
		Name:  "password",
		Usage: "Keystore password",
	}
	recordFlag = &cli.BoolFlag{
		Name:  "record",
		Usage: "Store the result in the local payment record database",
	}
	amountFlag = &cli.StringFlag{
		Name:  "amount",
		Usage: "Payment amount in wei, recorded alongside the address",
		Value: "0",
	}
)

func main() {
	app := &cli.App{
		Name:                 "veil",
		Usage:                "the Veil stealth address command line interface",
		Version:              veilparams.VersionWithMeta,
		EnableBashCompletion: true,
		Flags:                []cli.Flag{configFlag},
		Commands: []*cli.Command{
			keysCommand,
			metaCommand,
			addressCommand,
			checkCommand,
			recoverCommand,
			versionCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads the configuration file if given, or the defaults.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	path := ctx.String(configFlag.Name)
	if path == "" {
		cfg := config.DefaultConfig()
		return cfg, cfg.Validate()
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bundleFromContext derives the key bundle from the --signature flag.
func bundleFromContext(ctx *cli.Context) (*stealth.StealthKeyBundle, error) {
	signature := ctx.String(signatureFlag.Name)
	if signature == "" {
		return nil, fmt.Errorf("must provide --signature")
	}
	bundle, err := stealth.KeysFromSignature(signature)
	if err != nil {
		return nil, fmt.Errorf("failed to derive keys: %v", err)
	}
	return bundle, nil
}

// keysCommand manages stealth key bundles
var keysCommand = &cli.Command{
	Name:  "keys",
	Usage: "Manage stealth key bundles",
	Subcommands: []*cli.Command{
		{
			Name:   "derive",
			Usage:  "Derive a key bundle from a seed signature",
			Flags:  []cli.Flag{signatureFlag},
			Action: keysDerive,
		},
		{
			Name:      "message",
			Usage:     "Print the canonical seed message for an account",
			ArgsUsage: "<account-address>",
			Action:    keysMessage,
		},
		{
			Name:   "import",
			Usage:  "Derive a key bundle from a seed signature and store it encrypted",
			Flags:  []cli.Flag{configFlag, signatureFlag, passwordFlag},
			Action: keysImport,
		},
		{
			Name:   "list",
			Usage:  "List stored key bundles",
			Flags:  []cli.Flag{configFlag},
			Action: keysList,
		},
	},
}

func keysDerive(ctx *cli.Context) error {
	bundle, err := bundleFromContext(ctx)
	if err != nil {
		return err
	}

	fmt.Println("=== Stealth Key Bundle Derived ===")
	fmt.Println()
	fmt.Println("KEEP THESE PRIVATE KEYS SECURE!")
	fmt.Println()
	fmt.Printf("Spend Private Key: %s\n", hex.EncodeToString(bundle.SpendPrivateKey.D.Bytes()))
	fmt.Printf("View Private Key:  %s\n", hex.EncodeToString(bundle.ViewPrivateKey.D.Bytes()))
	fmt.Println()
	fmt.Println("=== Public Meta-Address (share this) ===")
	fmt.Println()
	fmt.Printf("Meta-Address: %s\n", bundle.MetaAddress().String())

	return nil
}

func keysMessage(ctx *cli.Context) error {
	account := ctx.Args().First()
	if !common.IsHexAddress(account) {
		return fmt.Errorf("must provide a valid account address")
	}
	fmt.Println(stealth.SeedMessage(common.HexToAddress(account)))
	return nil
}

func keysImport(ctx *cli.Context) error {
	bundle, err := bundleFromContext(ctx)
	if err != nil {
		return err
	}

	password := ctx.String(passwordFlag.Name)
	if password == "" {
		return fmt.Errorf("must provide --password")
	}

	ks, err := openKeyStore(ctx)
	if err != nil {
		return err
	}

	key, err := ks.StoreKey(bundle, password)
	if err != nil {
		return fmt.Errorf("failed to store key bundle: %v", err)
	}

	fmt.Printf("Stored key bundle %s for %s\n", key.ID, key.Address.Hex())
	fmt.Printf("Meta-Address: %s\n", bundle.MetaAddress().String())
	return nil
}

func keysList(ctx *cli.Context) error {
	ks, err := openKeyStore(ctx)
	if err != nil {
		return err
	}

	addresses, err := ks.Addresses()
	if err != nil {
		return fmt.Errorf("failed to list key bundles: %v", err)
	}
	for _, address := range addresses {
		fmt.Println(address.Hex())
	}
	return nil
}

func openKeyStore(ctx *cli.Context) (*keystore.KeyStore, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	dir, err := cfg.GetKeystoreDir()
	if err != nil {
		return nil, err
	}
	return keystore.NewKeyStore(dir)
}

// metaCommand inspects stealth meta-addresses
var metaCommand = &cli.Command{
	Name:      "meta",
	Usage:     "Parse and display a stealth meta-address",
	ArgsUsage: "<meta-address>",
	Action: func(ctx *cli.Context) error {
		metaStr := ctx.Args().First()
		if metaStr == "" {
			return fmt.Errorf("must provide a meta-address")
		}

		meta, err := stealth.ParseMetaAddress(metaStr)
		if err != nil {
			return fmt.Errorf("invalid meta-address: %v", err)
		}
		if _, _, err := meta.Keys(); err != nil {
			return fmt.Errorf("invalid meta-address: %v", err)
		}

		fmt.Printf("Spend Public Key: %s\n", hex.EncodeToString(meta.SpendPubKey))
		fmt.Printf("View Public Key:  %s\n", hex.EncodeToString(meta.ViewPubKey))
		return nil
	},
}

// addressCommand generates one-time stealth addresses
var addressCommand = &cli.Command{
	Name:      "address",
	Usage:     "Generate a one-time stealth address for a recipient",
	ArgsUsage: "<meta-address>",
	Flags:     []cli.Flag{configFlag, recordFlag, amountFlag},
	Action:    addressNew,
}

func addressNew(ctx *cli.Context) error {
	metaStr := ctx.Args().First()
	if metaStr == "" {
		return fmt.Errorf("must provide a meta-address")
	}

	meta, err := stealth.ParseMetaAddress(metaStr)
	if err != nil {
		return fmt.Errorf("invalid meta-address: %v", err)
	}

	sa, err := stealth.GenerateStealthAddress(meta)
	if err != nil {
		return fmt.Errorf("failed to generate stealth address: %v", err)
	}

	fmt.Println("=== Stealth Address Generated ===")
	fmt.Println()
	fmt.Printf("Stealth Address:    %s\n", sa.Address.Hex())
	fmt.Printf("Ephemeral Pub Key:  %s\n", hex.EncodeToString(sa.EphemeralPubKey))
	fmt.Printf("View Tag:           0x%02x\n", sa.ViewTag)
	fmt.Println()
	fmt.Println("Send funds to the Stealth Address.")
	fmt.Println("Announce the Ephemeral Pub Key and View Tag alongside the payment.")

	if ctx.Bool(recordFlag.Name) {
		return storeRecord(ctx, sa, veildb.Outgoing)
	}
	return nil
}

// checkCommand verifies whether an announcement belongs to the caller
var checkCommand = &cli.Command{
	Name:      "check",
	Usage:     "Check whether an announced stealth address is yours",
	ArgsUsage: "<stealth-address> <ephemeral-pub-key> <view-tag>",
	Flags:     []cli.Flag{configFlag, signatureFlag, recordFlag, amountFlag},
	Action:    checkAddress,
}

func checkAddress(ctx *cli.Context) error {
	announced, ephemeral, viewTag, err := announcementArgs(ctx)
	if err != nil {
		return err
	}

	bundle, err := bundleFromContext(ctx)
	if err != nil {
		return err
	}

	ours, err := stealth.CheckStealthAddress(announced, ephemeral, viewTag, bundle.ViewPrivateKey, bundle.SpendPublicKey)
	if err != nil {
		return fmt.Errorf("check failed: %v", err)
	}
	if !ours {
		fmt.Println("Not yours.")
		return nil
	}

	fmt.Println("Yours: this stealth address belongs to your key bundle.")

	if ctx.Bool(recordFlag.Name) {
		sa := &stealth.StealthAddress{Address: announced, EphemeralPubKey: ephemeral, ViewTag: viewTag}
		return storeRecord(ctx, sa, veildb.Incoming)
	}
	return nil
}

// recoverCommand recovers the private key for a stealth address
var recoverCommand = &cli.Command{
	Name:      "recover",
	Usage:     "Recover the private key controlling a stealth address",
	ArgsUsage: "<ephemeral-pub-key>",
	Flags:     []cli.Flag{signatureFlag},
	Action:    recoverKey,
}

func recoverKey(ctx *cli.Context) error {
	ephemeralStr := ctx.Args().First()
	if ephemeralStr == "" {
		return fmt.Errorf("must provide the announcement's ephemeral public key")
	}
	ephemeral, err := hexutil.Decode(ephemeralStr)
	if err != nil {
		return fmt.Errorf("invalid ephemeral public key: %v", err)
	}

	bundle, err := bundleFromContext(ctx)
	if err != nil {
		return err
	}

	key, err := stealth.ComputeStealthKey(bundle, ephemeral)
	if err != nil {
		return fmt.Errorf("failed to recover stealth key: %v", err)
	}

	fmt.Printf("Stealth Private Key: %s\n", hexutil.Encode(key))
	return nil
}

// versionCommand prints version information
var versionCommand = &cli.Command{
	Name:  "version",
	Usage: "Print version numbers",
	Action: func(ctx *cli.Context) error {
		fmt.Println("Veil")
		fmt.Println("Version:", veilparams.VersionWithMeta)
		if gitCommit != "" {
			fmt.Println("Git Commit:", gitCommit)
		}
		if gitDate != "" {
			fmt.Println("Git Commit Date:", gitDate)
		}
		fmt.Println("Architecture:", runtime.GOARCH)
		fmt.Println("Go Version:", runtime.Version())
		fmt.Println("Operating System:", runtime.GOOS)
		return nil
	},
}

// announcementArgs parses the three positional announcement arguments.
func announcementArgs(ctx *cli.Context) (common.Address, []byte, byte, error) {
	if ctx.Args().Len() < 3 {
		return common.Address{}, nil, 0, fmt.Errorf("need <stealth-address> <ephemeral-pub-key> <view-tag>")
	}

	addrStr := ctx.Args().Get(0)
	if !common.IsHexAddress(addrStr) {
		return common.Address{}, nil, 0, fmt.Errorf("invalid stealth address: %s", addrStr)
	}

	ephemeral, err := hexutil.Decode(ctx.Args().Get(1))
	if err != nil {
		return common.Address{}, nil, 0, fmt.Errorf("invalid ephemeral public key: %v", err)
	}

	tagStr := strings.TrimPrefix(ctx.Args().Get(2), "0x")
	tag, err := strconv.ParseUint(tagStr, 16, 8)
	if err != nil {
		return common.Address{}, nil, 0, fmt.Errorf("invalid view tag: %v", err)
	}

	return common.HexToAddress(addrStr), ephemeral, byte(tag), nil
}

// storeRecord writes a payment record to the local database.
func storeRecord(ctx *cli.Context, sa *stealth.StealthAddress, direction uint8) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	dir, err := cfg.GetRecordsDir()
	if err != nil {
		return err
	}

	amount, err := uint256.FromDecimal(ctx.String(amountFlag.Name))
	if err != nil {
		return fmt.Errorf("invalid amount: %v", err)
	}

	db, err := veildb.Open(dir)
	if err != nil {
		return fmt.Errorf("failed to open record database: %v", err)
	}
	defer db.Close()

	record := &veildb.PaymentRecord{
		StealthAddress:  sa.Address,
		EphemeralPubKey: sa.EphemeralPubKey,
		ViewTag:         sa.ViewTag,
		Amount:          amount,
		Direction:       direction,
	}
	if err := db.PutRecord(record); err != nil {
		return fmt.Errorf("failed to store payment record: %v", err)
	}

	fmt.Printf("Recorded payment for %s\n", sa.Address.Hex())
	return nil
}
