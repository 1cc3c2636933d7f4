package token

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Merge combines the two partial provider results into one profile. Each
// field is resolved independently: the on-chain quote is authoritative for
// the tradable price and decimals, the metadata provider for everything
// descriptive.
func Merge(quote PriceQuote, meta TokenMetadata) TokenProfile {
	profile := TokenProfile{
		Price:     mergePrice(quote, meta),
		Timestamp: quote.Timestamp,
		Decimals:  quote.Decimals,

		ID:          meta.ID,
		Platform:    meta.Platform,
		Description: meta.Description,
	}

	profile.Name = firstNonEmpty(meta.Name, quote.Name)
	profile.Symbol = strings.ToUpper(firstNonEmpty(meta.Symbol, quote.Symbol))
	profile.LogoURL = firstNonEmpty(meta.LogoURL, quote.LogoURL)

	// Metadata-only blocks pass through verbatim; a block with every
	// sub-field absent is dropped from the profile entirely.
	if !meta.Links.isEmpty() {
		profile.Links = meta.Links
	}
	if !meta.Image.isEmpty() {
		profile.Image = meta.Image
	}
	profile.Market = meta.Market
	profile.Community = meta.Community
	profile.Developer = meta.Developer

	return profile
}

func mergePrice(quote PriceQuote, meta TokenMetadata) string {
	if quote.Price != "" && quote.Price != "0" {
		return quote.Price
	}
	if meta.Market != nil {
		if usd, ok := meta.Market.CurrentPrice["usd"]; ok {
			return decimal.NewFromFloat(usd).String()
		}
	}
	return "0"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
