package cosmwasm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bharath-123/cat-mint/types"
)

type SmartQuerier interface {
	SmartQuery(ctx context.Context, contract string, queryMsg []byte) ([]byte, error)
}

func Query[Response interface{}](
	ctx context.Context, querier SmartQuerier, addr string, msg interface{},
) (Response, error) {
	var result Response

	queryBytes, err := json.Marshal(msg)
	if err != nil {
		return result, types.TransactionRejectedError("smart query", fmt.Errorf("invalid query msg: %w", err))
	}

	data, err := querier.SmartQuery(ctx, addr, queryBytes)
	if err != nil {
		return result, err
	}

	if err := json.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("failed to decode query response: %w", err)
	}
	return result, nil
}
