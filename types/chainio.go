package types

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"cosmossdk.io/math"
	sdktypes "github.com/cosmos/cosmos-sdk/types"
)

const (
	DefaultKeyringServiceName = "catmint"
	DefaultBech32Prefix       = "terra"
	DefaultCoinType           = uint32(330)
	DefaultGasAdjustment      = 1.75
	DefaultTimeout            = 30 * time.Second
)

// ClientConfig binds a client to one remote LCD endpoint.
type ClientConfig struct {
	URL           string            // URL: LCD/FCD endpoint, e.g. https://fcd.terra.dev
	ChainID       string            // ChainID: must match the network's id, e.g. columbus-5
	GasPrices     sdktypes.DecCoins // GasPrices: price per gas unit for every fee denom
	GasAdjustment float64           // GasAdjustment: multiplier applied to simulated gas
	Bech32Prefix  string            // Bech32Prefix: account address prefix, e.g. terra
	Timeout       time.Duration     // Timeout: bound on every request to the endpoint
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		URL:           "https://fcd.terra.dev",
		ChainID:       "columbus-5",
		GasPrices:     sdktypes.NewDecCoins(sdktypes.NewDecCoinFromDec("uusd", math.LegacyMustNewDecFromStr("0.35"))),
		GasAdjustment: DefaultGasAdjustment,
		Bech32Prefix:  DefaultBech32Prefix,
		Timeout:       DefaultTimeout,
	}
}

func (c ClientConfig) Validate() error {
	if c.URL == "" {
		return errors.New("endpoint url is empty")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid endpoint url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint url must be http or https, got %q", u.Scheme)
	}
	if c.ChainID == "" {
		return errors.New("chain id is empty")
	}
	if c.Bech32Prefix == "" {
		return errors.New("bech32 prefix is empty")
	}
	if err := c.GasPrices.Validate(); err != nil {
		return fmt.Errorf("invalid gas prices: %w", err)
	}
	if c.GasAdjustment < 0 {
		return fmt.Errorf("gas adjustment must not be negative, got %v", c.GasAdjustment)
	}
	return nil
}

// SignedTx is a signed transaction ready to be broadcast once.
type SignedTx struct {
	Tx      sdktypes.Tx
	TxBytes []byte
	Msgs    []sdktypes.Msg
	Fee     sdktypes.Coins
	Gas     uint64
	Memo    string
}

// BroadcastResult is the node's answer to a submitted transaction.
type BroadcastResult struct {
	TxHash    string
	Code      uint32
	Codespace string
	RawLog    string
	Height    int64
	GasWanted int64
	GasUsed   int64
	Raw       *sdktypes.TxResponse
}

func NewBroadcastResult(resp *sdktypes.TxResponse) *BroadcastResult {
	if resp == nil {
		return nil
	}
	return &BroadcastResult{
		TxHash:    resp.TxHash,
		Code:      resp.Code,
		Codespace: resp.Codespace,
		RawLog:    resp.RawLog,
		Height:    resp.Height,
		GasWanted: resp.GasWanted,
		GasUsed:   resp.GasUsed,
		Raw:       resp,
	}
}

func (r *BroadcastResult) Succeeded() bool {
	return r != nil && r.Code == 0
}

// Err returns the typed error for a non-zero result code, nil otherwise.
func (r *BroadcastResult) Err() error {
	if r == nil {
		return nil
	}
	return FromABCI("broadcast "+r.TxHash, r.Codespace, r.Code, r.RawLog)
}
