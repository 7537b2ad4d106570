package cosmwasm

import (
	"encoding/json"
	"errors"
	"fmt"

	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	sdktypes "github.com/cosmos/cosmos-sdk/types"

	"github.com/bharath-123/cat-mint/types"
)

type ExecuteOptions struct {
	ContractAddr  string         // ContractAddr: Address of the smart contract
	ExecuteMsg    []byte         // ExecuteMsg: JSON object sent to the contract's execute entry point
	Funds         sdktypes.Coins // Funds: Coins attached to the call
	Memo          string         // Memo: Transaction memo
	Fees          sdktypes.Coins // Fees: Fixed fee, skips pricing from gas prices when set
	Gas           uint64         // Gas: Gas limit, simulated when zero
	GasAdjustment float64        // GasAdjustment: Multiplier on simulated gas, client default when zero
	FeeDenoms     []string       // FeeDenoms: Restricts the gas prices used for the fee
	err           error
}

func DefaultExecuteOptions() ExecuteOptions {
	return ExecuteOptions{
		Funds: sdktypes.Coins{},
	}
}

func (opts ExecuteOptions) WithContractAddr(contractAddr string) ExecuteOptions {
	opts.ContractAddr = contractAddr
	return opts
}

func (opts ExecuteOptions) WithExecuteMsg(executeMsg any) ExecuteOptions {
	if raw, ok := executeMsg.(json.RawMessage); ok {
		opts.ExecuteMsg = raw
		return opts
	}
	executeMsgBytes, err := json.Marshal(executeMsg)
	if err != nil {
		return opts.withErr(fmt.Errorf("invalid execute msg: %w", err))
	}

	opts.ExecuteMsg = executeMsgBytes
	return opts
}

func (opts ExecuteOptions) WithFunds(funds string) ExecuteOptions {
	coinFunds, err := sdktypes.ParseCoinsNormalized(funds)
	if err != nil {
		return opts.withErr(fmt.Errorf("invalid funds %q: %w", funds, err))
	}

	opts.Funds = coinFunds
	return opts
}

func (opts ExecuteOptions) WithMemo(memo string) ExecuteOptions {
	opts.Memo = memo
	return opts
}

func (opts ExecuteOptions) WithFees(fees string) ExecuteOptions {
	coinFees, err := sdktypes.ParseCoinsNormalized(fees)
	if err != nil {
		return opts.withErr(fmt.Errorf("invalid fees %q: %w", fees, err))
	}

	opts.Fees = coinFees
	return opts
}

func (opts ExecuteOptions) WithGas(gas uint64) ExecuteOptions {
	opts.Gas = gas
	return opts
}

func (opts ExecuteOptions) WithGasAdjustment(gasAdjustment float64) ExecuteOptions {
	opts.GasAdjustment = gasAdjustment
	return opts
}

func (opts ExecuteOptions) WithFeeDenoms(denoms ...string) ExecuteOptions {
	opts.FeeDenoms = denoms
	return opts
}

// Err reports the first invalid value given to a With method.
func (opts ExecuteOptions) Err() error {
	return opts.err
}

func (opts ExecuteOptions) withErr(err error) ExecuteOptions {
	if opts.err == nil {
		opts.err = err
	}
	return opts
}

// Validate checks the options enough to build a message from them.
func (opts ExecuteOptions) Validate() error {
	if opts.err != nil {
		return types.TransactionRejectedError("execute options", opts.err)
	}
	if opts.ContractAddr == "" {
		return types.TransactionRejectedError("execute options", errors.New("contract address is empty"))
	}
	if len(opts.ExecuteMsg) == 0 {
		return types.TransactionRejectedError("execute options", errors.New("execute msg is empty"))
	}
	return nil
}

// NewExecuteContract builds the MsgExecuteContract for sender. Address and
// payload checks happen when the message is signed.
func NewExecuteContract(sender string, opts ExecuteOptions) (*wasmtypes.MsgExecuteContract, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &wasmtypes.MsgExecuteContract{
		Sender:   sender,
		Contract: opts.ContractAddr,
		Msg:      opts.ExecuteMsg,
		Funds:    opts.Funds,
	}, nil
}
