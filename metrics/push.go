package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/bharath-123/cat-mint/types"
)

// Push sends everything in gatherer to a Pushgateway once. A one-shot run
// lives too short to be scraped.
func Push(ctx context.Context, url, job string, gatherer prometheus.Gatherer) error {
	if err := push.New(url, job).Gatherer(gatherer).PushContext(ctx); err != nil {
		return types.WrapError("prometheus push failed", err)
	}
	return nil
}
