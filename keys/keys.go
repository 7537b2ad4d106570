package keys

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	sdktypes "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/go-bip39"

	"github.com/bharath-123/cat-mint/types"
)

const mnemonicEntropySize = 256

// Options selects the BIP-44 path and address encoding of a derived key.
type Options struct {
	CoinType     uint32 // CoinType: SLIP-44 coin type, 330 for Terra
	Account      uint32 // Account: BIP-44 account index
	Index        uint32 // Index: BIP-44 address index
	Path         string // Path: full HD path, overrides CoinType/Account/Index when set
	Bech32Prefix string // Bech32Prefix: account address prefix
	Passphrase   string // Passphrase: optional BIP-39 passphrase
}

func DefaultOptions() Options {
	return Options{
		CoinType:     types.DefaultCoinType,
		Bech32Prefix: types.DefaultBech32Prefix,
	}
}

func (o Options) HDPath() string {
	if o.Path != "" {
		return o.Path
	}
	return hd.CreateHDPath(o.CoinType, o.Account, o.Index).String()
}

// SigningKey is a secp256k1 key held in a keyring under Name.
type SigningKey struct {
	kr      keyring.Keyring
	name    string
	pubKey  cryptotypes.PubKey
	address sdktypes.AccAddress
	bech32  string
	hdPath  string
}

// Derive validates mnemonic and imports the key at opts' HD path into kr under name.
// Every failure is a KeyDerivationError.
func Derive(kr keyring.Keyring, name, mnemonic string, opts Options) (*SigningKey, error) {
	const op = "derive key"
	if kr == nil {
		return nil, types.KeyDerivationError(op, errors.New("keyring is nil"))
	}
	if name == "" {
		return nil, types.KeyDerivationError(op, errors.New("key name is empty"))
	}
	if opts.Bech32Prefix == "" {
		return nil, types.KeyDerivationError(op, errors.New("bech32 prefix is empty"))
	}
	mnemonic = NormalizeMnemonic(mnemonic)
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, types.KeyDerivationError(op, errors.New("invalid mnemonic"))
	}
	hdPath := opts.HDPath()
	if _, err := hd.NewParamsFromPath(hdPath); err != nil {
		return nil, types.KeyDerivationError(op, fmt.Errorf("invalid hd path %q: %w", hdPath, err))
	}

	record, err := kr.NewAccount(name, mnemonic, opts.Passphrase, hdPath, hd.Secp256k1)
	if err != nil {
		return nil, types.KeyDerivationError(op, err)
	}
	pubKey, err := record.GetPubKey()
	if err != nil {
		return nil, types.KeyDerivationError(op, err)
	}
	address, err := record.GetAddress()
	if err != nil {
		return nil, types.KeyDerivationError(op, err)
	}
	bech32, err := sdktypes.Bech32ifyAddressBytes(opts.Bech32Prefix, address)
	if err != nil {
		return nil, types.KeyDerivationError(op, err)
	}

	return &SigningKey{
		kr:      kr,
		name:    name,
		pubKey:  pubKey,
		address: address,
		bech32:  bech32,
		hdPath:  hdPath,
	}, nil
}

func (k *SigningKey) Name() string {
	return k.name
}

func (k *SigningKey) Keyring() keyring.Keyring {
	return k.kr
}

func (k *SigningKey) PubKey() cryptotypes.PubKey {
	return k.pubKey
}

// Address is the bech32 account address.
func (k *SigningKey) Address() string {
	return k.bech32
}

func (k *SigningKey) AccAddress() sdktypes.AccAddress {
	return k.address
}

func (k *SigningKey) HDPath() string {
	return k.hdPath
}

// Close removes the key from its keyring. The SigningKey is unusable afterwards.
func (k *SigningKey) Close() error {
	if k == nil || k.kr == nil {
		return nil
	}
	err := k.kr.Delete(k.name)
	k.kr = nil
	return err
}

func NormalizeMnemonic(mnemonic string) string {
	return strings.Join(strings.Fields(mnemonic), " ")
}

// GenerateMnemonic returns a fresh 24 word mnemonic.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(mnemonicEntropySize)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}
