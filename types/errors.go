package types

import (
	"errors"
	"fmt"
	"strings"

	errorsmod "cosmossdk.io/errors"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// Kind classifies a failure of the submission flow.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindNetwork
	KindKeyDerivation
	KindInsufficientFunds
	KindTransactionRejected
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network error"
	case KindKeyDerivation:
		return "key derivation error"
	case KindInsufficientFunds:
		return "insufficient funds"
	case KindTransactionRejected:
		return "transaction rejected"
	default:
		return "unknown error"
	}
}

// Error carries the Kind of a failure, the operation that failed and the cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

var (
	ErrNetwork             = &Error{Kind: KindNetwork}
	ErrKeyDerivation       = &Error{Kind: KindKeyDerivation}
	ErrInsufficientFunds   = &Error{Kind: KindInsufficientFunds}
	ErrTransactionRejected = &Error{Kind: KindTransactionRejected}
)

func (e *Error) Error() string {
	switch {
	case e.Err == nil && e.Op == "":
		return e.Kind.String()
	case e.Err == nil:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	case e.Op == "":
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

func newError(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func NetworkError(op string, err error) error {
	return newError(KindNetwork, op, err)
}

func KeyDerivationError(op string, err error) error {
	return newError(KindKeyDerivation, op, err)
}

func InsufficientFundsError(op string, err error) error {
	return newError(KindInsufficientFunds, op, err)
}

func TransactionRejectedError(op string, err error) error {
	return newError(KindTransactionRejected, op, err)
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// FromABCI maps a non-zero node result code back to a typed error.
// Registered SDK codes resolve to their canonical errors so callers can still
// match e.g. sdkerrors.ErrOutOfGas through the returned chain.
func FromABCI(op, codespace string, code uint32, log string) error {
	if code == 0 {
		return nil
	}
	abciErr := errorsmod.ABCIError(codespace, code, log)
	if errors.Is(abciErr, sdkerrors.ErrInsufficientFunds) || errors.Is(abciErr, sdkerrors.ErrInsufficientFee) {
		return InsufficientFundsError(op, abciErr)
	}
	return TransactionRejectedError(op, abciErr)
}

// ClassifyMessage picks a Kind for a node error that only comes with a message,
// which is all the gateway returns for failed simulations.
func ClassifyMessage(msg string) Kind {
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "insufficient funds") || strings.Contains(lower, "insufficient fee") {
		return KindInsufficientFunds
	}
	return KindTransactionRejected
}

func TypedErr(e interface{}) error {
	switch t := e.(type) {
	case error:
		return t
	case string:
		if t == "" {
			return nil
		}
		return errors.New(t)
	default:
		return nil
	}
}

func WrapError(mainErr, subErr interface{}) error {
	main := TypedErr(mainErr)
	sub := TypedErr(subErr)

	switch {
	case main == nil && sub == nil:
		return nil
	case main == nil:
		return sub
	case sub == nil:
		return main
	default:
		return fmt.Errorf("%w: %v", main, sub)
	}
}
