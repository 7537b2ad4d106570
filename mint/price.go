package mint

import (
	"context"
	"time"

	"github.com/bharath-123/cat-mint/catmint"
	"github.com/bharath-123/cat-mint/cosmwasm"
	"github.com/bharath-123/cat-mint/logger"
)

// checkMintFunds logs a warning when opts.Funds would not pass the contract's
// mint_cat checks at the current price. It never stops the submission.
func checkMintFunds(ctx context.Context, querier cosmwasm.SmartQuerier, opts cosmwasm.ExecuteOptions, log logger.Logger) {
	resp, err := cosmwasm.Query[catmint.StateResponse](ctx, querier, opts.ContractAddr, catmint.GetStateQuery())
	if err != nil {
		log.Warn("failed to query mint price", logger.WithField("contract", opts.ContractAddr), logger.WithField("error", err))
		return
	}
	if resp.State == nil {
		log.Warn("contract state is not initialised", logger.WithField("contract", opts.ContractAddr))
		return
	}
	genesis, err := resp.State.GenesisTimestamp.Time()
	if err != nil {
		log.Warn("failed to read genesis timestamp", logger.WithField("error", err))
		return
	}
	price, err := catmint.MintPrice(genesis, time.Now())
	if err != nil {
		log.Warn("failed to compute mint price", logger.WithField("error", err))
		return
	}
	if err := catmint.ValidateMintFunds(opts.Funds, price); err != nil {
		log.Warn("funds do not cover the mint price",
			logger.WithField("funds", opts.Funds.String()),
			logger.WithField("price", price.String()),
			logger.WithField("error", err))
		return
	}
	log.Debug("funds cover the mint price", logger.WithField("price", price.String()))
}
