package mint

import (
	"context"
	"time"

	"github.com/bharath-123/cat-mint/metrics"
	"github.com/bharath-123/cat-mint/types"
	"github.com/bharath-123/cat-mint/wallet"
)

type instrumentedAuthor struct {
	TxAuthor
	indicators metrics.Indicators
}

func (a instrumentedAuthor) CreateAndSignTx(ctx context.Context, opts wallet.CreateTxOptions) (*types.SignedTx, error) {
	start := time.Now()
	signedTx, err := a.TxAuthor.CreateAndSignTx(ctx, opts)
	a.indicators.ObserveSignLatencyMs(time.Since(start).Milliseconds())
	if err == nil {
		a.indicators.ObserveGasWanted(signedTx.Gas)
	}
	return signedTx, err
}

type instrumentedBroadcaster struct {
	Broadcaster
	indicators metrics.Indicators
}

func (b instrumentedBroadcaster) BroadcastTx(ctx context.Context, signedTx *types.SignedTx) (*types.BroadcastResult, error) {
	start := time.Now()
	result, err := b.Broadcaster.BroadcastTx(ctx, signedTx)
	b.indicators.ObserveBroadcastLatencyMs(time.Since(start).Milliseconds())
	return result, err
}

func txState(err error) string {
	switch {
	case err == nil:
		return metrics.StateSuccess
	case types.KindOf(err) == types.KindTransactionRejected, types.KindOf(err) == types.KindInsufficientFunds:
		return metrics.StateRejected
	default:
		return metrics.StateError
	}
}
