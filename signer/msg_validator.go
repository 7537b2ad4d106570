package signer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"cosmossdk.io/core/address"
	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	sdktypes "github.com/cosmos/cosmos-sdk/types"
)

// MsgValidator defines the interface for message validation
type MsgValidator interface {
	ValidateMsg(msg sdktypes.Msg) error
}

// DefaultMsgValidator checks contract messages before they are signed.
// Signer, when set, must be the sender of every MsgExecuteContract.
type DefaultMsgValidator struct {
	AddressCodec address.Codec
	Signer       sdktypes.AccAddress
}

func (v *DefaultMsgValidator) ValidateMsg(msg sdktypes.Msg) error {
	// Check if message is nil
	if msg == nil {
		return errors.New("nil message")
	}

	switch m := msg.(type) {
	case *wasmtypes.MsgExecuteContract:
		if m == nil {
			return errors.New("nil message")
		}
		if !isJSONObject(m.Msg) {
			return errors.New("execute message must be a JSON object")
		}
		if err := m.Funds.Validate(); err != nil {
			return fmt.Errorf("invalid funds: %w", err)
		}
		if v.AddressCodec == nil {
			return nil
		}
		sender, err := v.AddressCodec.StringToBytes(m.Sender)
		if err != nil {
			return fmt.Errorf("invalid sender address: %w", err)
		}
		if _, err := v.AddressCodec.StringToBytes(m.Contract); err != nil {
			return fmt.Errorf("invalid contract address: %w", err)
		}
		if len(v.Signer) > 0 && !v.Signer.Equals(sdktypes.AccAddress(sender)) {
			return fmt.Errorf("sender %s is not the signing account", m.Sender)
		}
	case *wasmtypes.QuerySmartContractStateRequest:
		if !json.Valid(m.QueryData) {
			return errors.New("invalid JSON in query message")
		}
	}

	return nil
}

func isJSONObject(b []byte) bool {
	trimmed := bytes.TrimSpace(b)
	return len(trimmed) > 0 && trimmed[0] == '{' && json.Valid(trimmed)
}
