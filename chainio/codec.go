package chainio

import (
	"fmt"

	"cosmossdk.io/core/address"
	"cosmossdk.io/x/tx/signing"
	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/codec"
	addresscodec "github.com/cosmos/cosmos-sdk/codec/address"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	"github.com/cosmos/cosmos-sdk/std"
	authtx "github.com/cosmos/cosmos-sdk/x/auth/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	vestingtypes "github.com/cosmos/cosmos-sdk/x/auth/vesting/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/cosmos/gogoproto/proto"
)

// EncodingConfig bundles everything needed to encode, decode and sign
// transactions for one bech32 prefix. Nothing here touches sdk.GetConfig().
type EncodingConfig struct {
	InterfaceRegistry     codectypes.InterfaceRegistry
	Codec                 codec.Codec
	Amino                 *codec.LegacyAmino
	TxConfig              client.TxConfig
	AddressCodec          address.Codec
	ValidatorAddressCodec address.Codec
	Bech32Prefix          string
}

func NewEncodingConfig(bech32Prefix string) (EncodingConfig, error) {
	if bech32Prefix == "" {
		return EncodingConfig{}, fmt.Errorf("bech32 prefix is empty")
	}
	addrCodec := addresscodec.NewBech32Codec(bech32Prefix)
	valCodec := addresscodec.NewBech32Codec(bech32Prefix + "valoper")

	interfaceRegistry, err := codectypes.NewInterfaceRegistryWithOptions(codectypes.InterfaceRegistryOptions{
		ProtoFiles: proto.HybridResolver,
		SigningOptions: signing.Options{
			AddressCodec:          addrCodec,
			ValidatorAddressCodec: valCodec,
		},
	})
	if err != nil {
		return EncodingConfig{}, fmt.Errorf("failed to create interface registry: %w", err)
	}
	std.RegisterInterfaces(interfaceRegistry)
	authtypes.RegisterInterfaces(interfaceRegistry)
	vestingtypes.RegisterInterfaces(interfaceRegistry)
	banktypes.RegisterInterfaces(interfaceRegistry)
	wasmtypes.RegisterInterfaces(interfaceRegistry)

	marshaler := codec.NewProtoCodec(interfaceRegistry)

	legacyAmino := codec.NewLegacyAmino()
	std.RegisterLegacyAminoCodec(legacyAmino)
	wasmtypes.RegisterLegacyAminoCodec(legacyAmino)

	return EncodingConfig{
		InterfaceRegistry:     interfaceRegistry,
		Codec:                 marshaler,
		Amino:                 legacyAmino,
		TxConfig:              authtx.NewTxConfig(marshaler, authtx.DefaultSignModes),
		AddressCodec:          addrCodec,
		ValidatorAddressCodec: valCodec,
		Bech32Prefix:          bech32Prefix,
	}, nil
}

// NewClientContext assembles a client.Context that needs no RPC node. Keys live
// in an in-memory keyring and accounts are read through retriever.
func NewClientContext(chainID string, enc EncodingConfig, retriever client.AccountRetriever) client.Context {
	return client.Context{}.
		WithChainID(chainID).
		WithOutputFormat("json").
		WithInterfaceRegistry(enc.InterfaceRegistry).
		WithTxConfig(enc.TxConfig).
		WithCodec(enc.Codec).
		WithLegacyAmino(enc.Amino).
		WithAccountRetriever(retriever).
		WithKeyring(keyring.NewInMemory(enc.Codec)).
		WithBroadcastMode(flags.BroadcastSync)
}
