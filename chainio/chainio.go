package chainio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cosmos/cosmos-sdk/client"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"

	"github.com/bharath-123/cat-mint/keys"
	"github.com/bharath-123/cat-mint/lcd"
	"github.com/bharath-123/cat-mint/logger"
	"github.com/bharath-123/cat-mint/signer"
	"github.com/bharath-123/cat-mint/types"
	"github.com/bharath-123/cat-mint/wallet"
)

const defaultPollInterval = 3 * time.Second

// ChainIO is the client for one chain reached through its LCD endpoint.
type ChainIO struct {
	cfg          types.ClientConfig
	enc          EncodingConfig
	lcd          *lcd.Client
	clientCtx    client.Context
	log          logger.Logger
	httpClient   *http.Client
	pollInterval time.Duration
}

type Option func(*ChainIO)

func WithLogger(l logger.Logger) Option {
	return func(c *ChainIO) {
		c.log = l
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *ChainIO) {
		c.httpClient = hc
	}
}

// WithPollInterval sets how often WaitForTx looks the transaction up.
func WithPollInterval(d time.Duration) Option {
	return func(c *ChainIO) {
		c.pollInterval = d
	}
}

func NewChainIO(cfg types.ClientConfig, opts ...Option) (*ChainIO, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}
	c := &ChainIO{
		cfg:          cfg,
		log:          logger.NewNopLogger(),
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}

	enc, err := NewEncodingConfig(cfg.Bech32Prefix)
	if err != nil {
		return nil, err
	}
	c.enc = enc

	lcdOpts := []lcd.Option{lcd.WithLogger(c.log)}
	if c.httpClient != nil {
		lcdOpts = append(lcdOpts, lcd.WithHTTPClient(c.httpClient))
	}
	if cfg.Timeout > 0 {
		lcdOpts = append(lcdOpts, lcd.WithTimeout(cfg.Timeout))
	}
	lcdClient, err := lcd.NewClient(cfg.URL, enc.InterfaceRegistry, lcdOpts...)
	if err != nil {
		return nil, err
	}
	c.lcd = lcdClient
	c.clientCtx = NewClientContext(cfg.ChainID, enc, lcd.AccountRetriever{Client: lcdClient, AddressCodec: enc.AddressCodec})
	return c, nil
}

// DeriveKey imports the key for mnemonic into the client's in-memory keyring.
// The caller owns the key and should Close it when done.
func (c *ChainIO) DeriveKey(name, mnemonic string, opts keys.Options) (*keys.SigningKey, error) {
	if opts.Bech32Prefix == "" {
		opts.Bech32Prefix = c.cfg.Bech32Prefix
	}
	if name == "" {
		name = types.DefaultKeyringServiceName
	}
	return keys.Derive(c.clientCtx.Keyring, name, mnemonic, opts)
}

// Wallet binds key to this client. The key must come from a keyring of the
// same bech32 prefix.
func (c *ChainIO) Wallet(key *keys.SigningKey) (*wallet.Wallet, error) {
	if key == nil {
		return nil, types.KeyDerivationError("open wallet", errors.New("signing key is nil"))
	}
	clientCtx := c.clientCtx.
		WithKeyring(key.Keyring()).
		WithFromName(key.Name()).
		WithFromAddress(key.AccAddress())
	return wallet.New(key, signer.NewSigner(clientCtx, c.enc.AddressCodec, c.lcd), signer.TxOptions{
		GasAdjustment: c.cfg.GasAdjustment,
		GasPrices:     c.cfg.GasPrices,
	})
}

// BroadcastTx submits signedTx once in sync mode. The returned result may carry
// a non-zero code; result.Err() turns it into a typed error.
func (c *ChainIO) BroadcastTx(ctx context.Context, signedTx *types.SignedTx) (*types.BroadcastResult, error) {
	if signedTx == nil || len(signedTx.TxBytes) == 0 {
		return nil, types.TransactionRejectedError("broadcast tx", errors.New("transaction is not signed"))
	}
	resp, err := c.lcd.Broadcast(ctx, signedTx.TxBytes, txtypes.BroadcastMode_BROADCAST_MODE_SYNC)
	if err != nil {
		return nil, err
	}
	result := types.NewBroadcastResult(resp)
	c.log.Info("transaction broadcast",
		logger.WithField("tx_hash", result.TxHash),
		logger.WithField("code", result.Code),
		logger.WithField("codespace", result.Codespace))
	return result, nil
}

func (c *ChainIO) QueryTransaction(ctx context.Context, txHash string) (*types.BroadcastResult, error) {
	resp, err := c.lcd.Tx(ctx, txHash)
	if err != nil {
		return nil, err
	}
	return types.NewBroadcastResult(resp), nil
}

// SmartQuery runs a read-only contract query and returns the contract's raw JSON answer.
func (c *ChainIO) SmartQuery(ctx context.Context, contract string, queryMsg []byte) ([]byte, error) {
	return c.lcd.SmartQuery(ctx, contract, queryMsg)
}

func (c *ChainIO) QueryNodeInfo(ctx context.Context) (*lcd.NodeInfo, error) {
	return c.lcd.NodeInfo(ctx)
}
