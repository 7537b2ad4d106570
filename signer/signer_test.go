package signer_test

import (
	"context"
	"errors"
	"testing"

	"cosmossdk.io/math"
	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	"github.com/cosmos/cosmos-sdk/client"
	sdktypes "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/bharath-123/cat-mint/chainio"
	"github.com/bharath-123/cat-mint/keys"
	"github.com/bharath-123/cat-mint/signer"
	"github.com/bharath-123/cat-mint/types"
)

const (
	testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	contractAddr = "terra13jxycsgusne8rgzp4r2ua3n3qg0l5cufcrnxrl"
	chainID      = "columbus-5"
)

type fakeRetriever struct {
	accNum, seq uint64
	calls       int
}

func (f *fakeRetriever) GetAccount(_ client.Context, addr sdktypes.AccAddress) (client.Account, error) {
	f.calls++
	return authtypes.NewBaseAccount(addr, nil, f.accNum, f.seq), nil
}

func (f *fakeRetriever) GetAccountWithHeight(clientCtx client.Context, addr sdktypes.AccAddress) (client.Account, int64, error) {
	acc, err := f.GetAccount(clientCtx, addr)
	return acc, 1, err
}

func (f *fakeRetriever) EnsureExists(clientCtx client.Context, addr sdktypes.AccAddress) error {
	_, err := f.GetAccount(clientCtx, addr)
	return err
}

func (f *fakeRetriever) GetAccountNumberSequence(clientCtx client.Context, addr sdktypes.AccAddress) (uint64, uint64, error) {
	_, err := f.GetAccount(clientCtx, addr)
	return f.accNum, f.seq, err
}

type fakeSimulator struct {
	gasUsed uint64
	err     error
	calls   int
}

func (f *fakeSimulator) Simulate(_ context.Context, txBytes []byte) (*sdktypes.GasInfo, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &sdktypes.GasInfo{GasUsed: f.gasUsed}, nil
}

type signerTestSuite struct {
	suite.Suite
	enc       chainio.EncodingConfig
	clientCtx client.Context
	key       *keys.SigningKey
	retriever *fakeRetriever
	sim       *fakeSimulator
	signer    *signer.Signer
	opts      signer.TxOptions
}

func (s *signerTestSuite) SetupTest() {
	enc, err := chainio.NewEncodingConfig("terra")
	s.Require().NoError(err)
	s.enc = enc
	s.retriever = &fakeRetriever{accNum: 42, seq: 7}
	s.sim = &fakeSimulator{gasUsed: 85000}

	clientCtx := chainio.NewClientContext(chainID, enc, s.retriever)
	key, err := keys.Derive(clientCtx.Keyring, "caller", testMnemonic, keys.DefaultOptions())
	s.Require().NoError(err)
	s.key = key
	s.clientCtx = clientCtx.WithFromName(key.Name()).WithFromAddress(key.AccAddress())
	s.signer = signer.NewSigner(s.clientCtx, enc.AddressCodec, s.sim)
	s.opts = signer.TxOptions{
		GasAdjustment: 1.75,
		GasPrices:     sdktypes.NewDecCoins(sdktypes.NewDecCoinFromDec("uusd", math.LegacyMustNewDecFromStr("0.35"))),
	}
}

func (s *signerTestSuite) mintMsg() *wasmtypes.MsgExecuteContract {
	return &wasmtypes.MsgExecuteContract{
		Sender:   s.key.Address(),
		Contract: contractAddr,
		Msg:      []byte(`{"mint_cat":{}}`),
		Funds:    sdktypes.NewCoins(sdktypes.NewInt64Coin("uluna", 100000)),
	}
}

func (s *signerTestSuite) TestSimulatedFee() {
	signed, err := s.signer.BuildAndSignTx(context.Background(), s.opts, s.mintMsg())
	s.Require().NoError(err)

	s.Equal(1, s.sim.calls)
	s.Equal(uint64(148750), signed.Gas)
	s.Equal("52063uusd", signed.Fee.String())
	s.Require().Len(signed.Msgs, 1)

	decoded, err := s.enc.TxConfig.TxDecoder()(signed.TxBytes)
	s.Require().NoError(err)
	msgs := decoded.GetMsgs()
	s.Require().Len(msgs, 1)
	exec, ok := msgs[0].(*wasmtypes.MsgExecuteContract)
	s.Require().True(ok)
	s.Equal(s.key.Address(), exec.Sender)
	s.Equal(contractAddr, exec.Contract)
	s.JSONEq(`{"mint_cat":{}}`, string(exec.Msg))
	s.Equal("100000uluna", exec.Funds.String())
}

func (s *signerTestSuite) TestSignatureVerifies() {
	signed, err := s.signer.BuildAndSignTx(context.Background(), s.opts, s.mintMsg())
	s.Require().NoError(err)

	var raw txtypes.TxRaw
	s.Require().NoError(raw.Unmarshal(signed.TxBytes))
	s.Require().Len(raw.Signatures, 1)

	signDoc := txtypes.SignDoc{
		BodyBytes:     raw.BodyBytes,
		AuthInfoBytes: raw.AuthInfoBytes,
		ChainId:       chainID,
		AccountNumber: 42,
	}
	bz, err := signDoc.Marshal()
	s.Require().NoError(err)
	s.True(s.key.PubKey().VerifySignature(bz, raw.Signatures[0]))

	var authInfo txtypes.AuthInfo
	s.Require().NoError(authInfo.Unmarshal(raw.AuthInfoBytes))
	s.Equal(uint64(7), authInfo.SignerInfos[0].Sequence)
}

func (s *signerTestSuite) TestFixedGas() {
	opts := s.opts
	opts.Gas = 200000
	signed, err := s.signer.BuildAndSignTx(context.Background(), opts, s.mintMsg())
	s.Require().NoError(err)

	s.Equal(0, s.sim.calls)
	s.Equal(uint64(200000), signed.Gas)
	s.Equal("70000uusd", signed.Fee.String())
}

func (s *signerTestSuite) TestFixedFees() {
	opts := s.opts
	opts.Gas = 300000
	opts.Fees = sdktypes.NewCoins(sdktypes.NewInt64Coin("uluna", 4500))
	signed, err := s.signer.BuildAndSignTx(context.Background(), opts, s.mintMsg())
	s.Require().NoError(err)

	s.Equal(0, s.sim.calls)
	s.Equal("4500uluna", signed.Fee.String())
}

func (s *signerTestSuite) TestFeeDenomsFilter() {
	opts := s.opts
	opts.GasPrices = sdktypes.NewDecCoins(
		sdktypes.NewDecCoinFromDec("uusd", math.LegacyMustNewDecFromStr("0.35")),
		sdktypes.NewDecCoinFromDec("uluna", math.LegacyMustNewDecFromStr("28.325")),
	)
	opts.FeeDenoms = []string{"uusd"}
	signed, err := s.signer.BuildAndSignTx(context.Background(), opts, s.mintMsg())
	s.Require().NoError(err)
	s.Equal("52063uusd", signed.Fee.String())
}

func (s *signerTestSuite) TestSenderMismatchRefused() {
	msg := s.mintMsg()
	other, err := keys.Derive(chainio.NewClientContext(chainID, s.enc, s.retriever).Keyring, "other", mustMnemonic(s.T()), keys.DefaultOptions())
	s.Require().NoError(err)
	msg.Sender = other.Address()

	_, err = s.signer.BuildAndSignTx(context.Background(), s.opts, msg)
	s.ErrorIs(err, types.ErrTransactionRejected)
	s.Equal(0, s.sim.calls)
	s.Equal(0, s.retriever.calls)
}

func (s *signerTestSuite) TestInvalidPayloadRefused() {
	for _, payload := range []string{``, `"mint_cat"`, `{"mint_cat":`, `[1]`} {
		msg := s.mintMsg()
		msg.Msg = []byte(payload)
		_, err := s.signer.BuildAndSignTx(context.Background(), s.opts, msg)
		s.ErrorIs(err, types.ErrTransactionRejected, payload)
	}
	s.Equal(0, s.sim.calls)
}

func (s *signerTestSuite) TestSimulationErrorPropagates() {
	simErr := types.InsufficientFundsError("simulate tx", errors.New("0uluna is smaller than 100000uluna"))
	s.sim.err = simErr

	_, err := s.signer.BuildAndSignTx(context.Background(), s.opts, s.mintMsg())
	s.Same(simErr, err)
}

func (s *signerTestSuite) TestSignFailure() {
	opts := s.opts
	opts.Gas = 200000
	s.Require().NoError(s.key.Close())

	_, err := s.signer.BuildAndSignTx(context.Background(), opts, s.mintMsg())
	s.ErrorIs(err, types.ErrKeyDerivation)
}

func TestSignerSuite(t *testing.T) {
	suite.Run(t, new(signerTestSuite))
}

func mustMnemonic(t *testing.T) string {
	m, err := keys.GenerateMnemonic()
	require.NoError(t, err)
	return m
}

func TestAdjustGas(t *testing.T) {
	testCases := []struct {
		used       uint64
		adjustment float64
		expected   uint64
	}{
		{85000, 1.75, 148750},
		{100001, 1.5, 150002},
		{1000, 0, 1000},
		{0, 1.75, 0},
	}
	for _, tc := range testCases {
		got, err := signer.AdjustGas(tc.used, tc.adjustment)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, got)
	}
}

func TestFilterGasPrices(t *testing.T) {
	prices, err := sdktypes.ParseDecCoins("28.325uluna,0.35uusd")
	require.NoError(t, err)

	assert.Equal(t, prices, signer.FilterGasPrices(prices, nil))
	filtered := signer.FilterGasPrices(prices, []string{"uusd", "ukrw"})
	require.Len(t, filtered, 1)
	assert.Equal(t, "uusd", filtered[0].Denom)
	assert.Empty(t, signer.FilterGasPrices(prices, []string{"ukrw"}))
}
