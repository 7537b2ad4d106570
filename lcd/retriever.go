package lcd

import (
	"context"
	"errors"

	"cosmossdk.io/core/address"
	"github.com/cosmos/cosmos-sdk/client"
	sdktypes "github.com/cosmos/cosmos-sdk/types"
)

// AccountRetriever lets tx.Factory read account number and sequence over REST.
type AccountRetriever struct {
	Client       *Client
	AddressCodec address.Codec
}

var _ client.AccountRetriever = AccountRetriever{}

func (ar AccountRetriever) GetAccount(clientCtx client.Context, addr sdktypes.AccAddress) (client.Account, error) {
	account, _, err := ar.GetAccountWithHeight(clientCtx, addr)
	return account, err
}

func (ar AccountRetriever) GetAccountWithHeight(clientCtx client.Context, addr sdktypes.AccAddress) (client.Account, int64, error) {
	bech32, err := ar.encode(addr)
	if err != nil {
		return nil, 0, err
	}
	account, height, err := ar.Client.Account(cmdContext(clientCtx), bech32)
	if err != nil {
		return nil, 0, err
	}
	return account, height, nil
}

func (ar AccountRetriever) EnsureExists(clientCtx client.Context, addr sdktypes.AccAddress) error {
	_, err := ar.GetAccount(clientCtx, addr)
	return err
}

func (ar AccountRetriever) GetAccountNumberSequence(clientCtx client.Context, addr sdktypes.AccAddress) (uint64, uint64, error) {
	account, err := ar.GetAccount(clientCtx, addr)
	if err != nil {
		return 0, 0, err
	}
	return account.GetAccountNumber(), account.GetSequence(), nil
}

func (ar AccountRetriever) encode(addr sdktypes.AccAddress) (string, error) {
	if ar.Client == nil {
		return "", errors.New("account retriever has no lcd client")
	}
	if ar.AddressCodec == nil {
		return "", errors.New("account retriever has no address codec")
	}
	return ar.AddressCodec.BytesToString(addr)
}

func cmdContext(clientCtx client.Context) context.Context {
	if clientCtx.CmdContext != nil {
		return clientCtx.CmdContext
	}
	return context.Background()
}
