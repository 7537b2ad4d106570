package types

import (
	"testing"

	sdktypes "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/stretchr/testify/assert"
)

func TestDefaultClientConfig(t *testing.T) {
	cfg := DefaultClientConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "https://fcd.terra.dev", cfg.URL)
	assert.Equal(t, "columbus-5", cfg.ChainID)
	assert.Equal(t, "0.350000000000000000uusd", cfg.GasPrices.String())
}

func TestClientConfigValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*ClientConfig)
	}{
		{"empty url", func(c *ClientConfig) { c.URL = "" }},
		{"bad scheme", func(c *ClientConfig) { c.URL = "ftp://fcd.terra.dev" }},
		{"empty chain id", func(c *ClientConfig) { c.ChainID = "" }},
		{"empty prefix", func(c *ClientConfig) { c.Bech32Prefix = "" }},
		{"negative adjustment", func(c *ClientConfig) { c.GasAdjustment = -1 }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultClientConfig()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestBroadcastResult(t *testing.T) {
	ok := NewBroadcastResult(&sdktypes.TxResponse{TxHash: "ABCD", Code: 0})
	assert.True(t, ok.Succeeded())
	assert.NoError(t, ok.Err())

	failed := NewBroadcastResult(&sdktypes.TxResponse{
		TxHash:    "EF01",
		Codespace: sdkerrors.RootCodespace,
		Code:      sdkerrors.ErrInsufficientFunds.ABCICode(),
		RawLog:    "spendable balance 10uluna is smaller than 100000uluna",
	})
	assert.False(t, failed.Succeeded())
	assert.ErrorIs(t, failed.Err(), ErrInsufficientFunds)
	assert.Equal(t, "EF01", failed.Raw.TxHash)

	assert.Nil(t, NewBroadcastResult(nil))
}
