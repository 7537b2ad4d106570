package signer

import (
	"context"
	"errors"
	"fmt"
	"math"

	"cosmossdk.io/core/address"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/tx"
	sdktypes "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/tx/signing"

	"github.com/bharath-123/cat-mint/types"
)

// Simulator estimates the gas a transaction consumes.
type Simulator interface {
	Simulate(ctx context.Context, txBytes []byte) (*sdktypes.GasInfo, error)
}

// TxOptions controls fee and gas. With Gas unset the transaction is simulated and
// Gas becomes ceil(gasUsed * GasAdjustment). With Fees unset the fee is
// ceil(price * Gas) for every entry in GasPrices that FeeDenoms allows.
type TxOptions struct {
	GasAdjustment float64
	GasPrices     sdktypes.DecCoins
	FeeDenoms     []string
	Gas           uint64
	Fees          sdktypes.Coins
	Memo          string
}

type Signer struct {
	ClientCtx client.Context
	simulator Simulator
	validator MsgValidator
}

// NewSigner signs as clientCtx.FromAddress. addressCodec decodes the bech32
// addresses found in messages.
func NewSigner(clientCtx client.Context, addressCodec address.Codec, simulator Simulator) *Signer {
	return &Signer{
		ClientCtx: clientCtx,
		simulator: simulator,
		validator: &DefaultMsgValidator{
			AddressCodec: addressCodec,
			Signer:       clientCtx.FromAddress,
		},
	}
}

func (s *Signer) BuildAndSignTx(ctx context.Context, opts TxOptions, msgs ...sdktypes.Msg) (*types.SignedTx, error) {
	txBuilder, txf, err := s.BuildUnsignedTx(ctx, opts, msgs...)
	if err != nil {
		return nil, err
	}

	// Sign the transaction
	if err = tx.Sign(ctx, txf, s.ClientCtx.GetFromName(), txBuilder, true); err != nil {
		return nil, types.KeyDerivationError("sign tx", err)
	}

	signedTx := txBuilder.GetTx()
	txBytes, err := s.ClientCtx.TxConfig.TxEncoder()(signedTx)
	if err != nil {
		return nil, types.TransactionRejectedError("encode tx", err)
	}
	return &types.SignedTx{
		Tx:      signedTx,
		TxBytes: txBytes,
		Msgs:    msgs,
		Fee:     signedTx.GetFee(),
		Gas:     signedTx.GetGas(),
		Memo:    signedTx.GetMemo(),
	}, nil
}

func (s *Signer) BuildUnsignedTx(ctx context.Context, opts TxOptions, msgs ...sdktypes.Msg) (client.TxBuilder, tx.Factory, error) {
	if len(msgs) == 0 {
		return nil, tx.Factory{}, types.TransactionRejectedError("build tx", errors.New("no messages"))
	}
	msgs, err := s.CheckMsg(msgs...)
	if err != nil {
		return nil, tx.Factory{}, err
	}
	txf, err := s.setFactory(opts).Prepare(s.ClientCtx.WithCmdContext(ctx))
	if err != nil {
		if types.KindOf(err) == types.KindUnknown {
			err = types.NetworkError("prepare tx", err)
		}
		return nil, tx.Factory{}, err
	}
	// whether to simulate gas calculations
	if txf.SimulateAndExecute() {
		adjusted, err := s.estimateGas(ctx, txf, msgs...)
		if err != nil {
			return nil, tx.Factory{}, err
		}
		txf = txf.WithGas(adjusted)
	}
	// Build an unsigned transaction
	txBuilder, err := txf.BuildUnsignedTx(msgs...)
	if err != nil {
		return nil, tx.Factory{}, types.TransactionRejectedError("build tx", err)
	}
	return txBuilder, txf, nil
}

func (s *Signer) setFactory(opts TxOptions) tx.Factory {
	txf := tx.Factory{}.
		WithChainID(s.ClientCtx.ChainID).                   // Chain the signature is bound to
		WithKeybase(s.ClientCtx.Keyring).                   // Keyring holding the signing key
		WithTxConfig(s.ClientCtx.TxConfig).                 // Tx encoding and sign mode handlers
		WithAccountRetriever(s.ClientCtx.AccountRetriever). // Account number and sequence come from the LCD
		WithSimulateAndExecute(opts.Gas == 0).              // Simulate first when no gas limit is given
		WithSignMode(signing.SignMode_SIGN_MODE_DIRECT).    // Direct sign mode
		WithGas(opts.Gas).                                  // Gas limit, 0 until simulated
		WithGasAdjustment(opts.GasAdjustment).              // Multiplier on simulated gas
		WithFromName(s.ClientCtx.FromName).                 // Key name in the keyring
		WithMemo(opts.Memo)                                 // Tx memo
	// Fixed fees and gas prices are mutually exclusive
	if !opts.Fees.IsZero() {
		return txf.WithFees(opts.Fees.String())
	}
	return txf.WithGasPrices(FilterGasPrices(opts.GasPrices, opts.FeeDenoms).String())
}

func (s *Signer) estimateGas(ctx context.Context, txf tx.Factory, msgs ...sdktypes.Msg) (uint64, error) {
	if s.simulator == nil {
		return 0, types.TransactionRejectedError("simulate tx", errors.New("no gas limit given and no simulator configured"))
	}
	simBytes, err := txf.BuildSimTx(msgs...)
	if err != nil {
		return 0, types.TransactionRejectedError("build simulation tx", err)
	}
	gasInfo, err := s.simulator.Simulate(ctx, simBytes)
	if err != nil {
		return 0, err
	}
	return AdjustGas(gasInfo.GasUsed, txf.GasAdjustment())
}

// AdjustGas returns ceil(gasUsed * adjustment). A non-positive adjustment counts as 1.
func AdjustGas(gasUsed uint64, adjustment float64) (uint64, error) {
	if adjustment <= 0 {
		adjustment = 1
	}
	adjusted := math.Ceil(float64(gasUsed) * adjustment)
	if adjusted >= math.MaxUint64 {
		return 0, types.TransactionRejectedError("adjust gas", fmt.Errorf("adjusted gas overflows: %v * %v", gasUsed, adjustment))
	}
	return uint64(adjusted), nil
}

// FilterGasPrices keeps the prices whose denom is listed. An empty list keeps all.
func FilterGasPrices(prices sdktypes.DecCoins, denoms []string) sdktypes.DecCoins {
	if len(denoms) == 0 {
		return prices
	}
	allowed := make(map[string]struct{}, len(denoms))
	for _, d := range denoms {
		allowed[d] = struct{}{}
	}
	out := sdktypes.DecCoins{}
	for _, p := range prices {
		if _, ok := allowed[p.Denom]; ok {
			out = append(out, p)
		}
	}
	return out
}

// CheckMsg validates the given messages
func (s *Signer) CheckMsg(msgs ...sdktypes.Msg) ([]sdktypes.Msg, error) {
	for _, msg := range msgs {
		if err := s.validator.ValidateMsg(msg); err != nil {
			return nil, types.TransactionRejectedError("validate msg", err)
		}
	}
	return msgs, nil
}
