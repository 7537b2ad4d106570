package chainio

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/bharath-123/cat-mint/lcd"
	"github.com/bharath-123/cat-mint/logger"
	"github.com/bharath-123/cat-mint/types"
)

// WaitForTx polls for txHash until it is included in a block or timeout passes.
// Only lookups are repeated, never the broadcast.
func (c *ChainIO) WaitForTx(ctx context.Context, txHash string, timeout time.Duration) (*types.BroadcastResult, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(c.pollInterval), 1)
	for {
		if err := limiter.Wait(ctx); err != nil {
			return nil, types.NetworkError("wait for tx", fmt.Errorf("transaction %s not confirmed within %s: %w", txHash, timeout, err))
		}

		resp, err := c.lcd.Tx(ctx, txHash)
		if err != nil {
			if lcd.IsNotFound(err) || types.KindOf(err) == types.KindNetwork {
				c.log.Debug("transaction not found yet", logger.WithField("tx_hash", txHash), logger.WithField("error", err))
				continue
			}
			return nil, err
		}

		result := types.NewBroadcastResult(resp)
		if !result.Succeeded() {
			return result, result.Err()
		}
		return result, nil
	}
}
