package token

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"tokenlens/internal/chain"
	"tokenlens/internal/client/okx"
)

// QuoteFetcher is the slice of the OKX client the price adapter needs.
type QuoteFetcher interface {
	GetQuote(ctx context.Context, params okx.QuoteParams) (*okx.Quote, error)
}

// PriceAdapter normalizes the on-chain provider into a PriceQuote. It never
// returns an error: any upstream failure degrades to the neutral quote so a
// broken price provider cannot abort the request.
type PriceAdapter struct {
	Chains *chain.Registry
	Client QuoteFetcher
	Logger *zap.Logger
}

func (a *PriceAdapter) Fetch(ctx context.Context, contractAddress, blockchain string) PriceQuote {
	now := time.Now().UTC()

	info, err := a.Chains.Lookup(blockchain)
	if err != nil {
		a.warn("price adapter: chain lookup failed", contractAddress, blockchain, err)
		return NeutralQuote(now)
	}

	quote, err := a.Client.GetQuote(ctx, okx.QuoteParams{
		ChainID:          info.ChainID,
		FromTokenAddress: contractAddress,
		ToTokenAddress:   info.USDCAddress,
		Amount:           "1",
		Slippage:         "0.5",
	})
	if err != nil {
		a.warn("price adapter: quote fetch failed", contractAddress, blockchain, err)
		return NeutralQuote(now)
	}

	from := quote.FromToken
	if from.TokenUnitPrice == "" {
		a.warn("price adapter: quote carried no unit price", contractAddress, blockchain, nil)
		return NeutralQuote(now)
	}

	result := PriceQuote{
		Price:     from.TokenUnitPrice,
		Timestamp: now,
		Symbol:    from.TokenSymbol,
		LogoURL:   from.LogoURL,
	}
	result.Name = from.TokenName
	if result.Name == "" {
		result.Name = from.TokenSymbol
	}
	if from.Decimal != "" {
		if d, err := strconv.Atoi(from.Decimal); err == nil {
			result.Decimals = &d
		}
	}
	return result
}

func (a *PriceAdapter) warn(msg, address, blockchain string, err error) {
	if a.Logger == nil {
		return
	}
	fields := []zap.Field{
		zap.String("contract_address", address),
		zap.String("blockchain", blockchain),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	a.Logger.Warn(msg, fields...)
}
