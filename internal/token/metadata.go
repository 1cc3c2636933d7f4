package token

import (
	"context"

	"go.uber.org/zap"

	"tokenlens/internal/chain"
	"tokenlens/internal/client/coingecko"
)

// ContractInfoFetcher is the slice of the CoinGecko client the metadata
// adapter needs.
type ContractInfoFetcher interface {
	GetContractInfo(ctx context.Context, platformID, contractAddress string) (*coingecko.CoinData, error)
}

// MetadataAdapter normalizes the market-data provider into a TokenMetadata.
// Any upstream failure degrades to the empty metadata value.
type MetadataAdapter struct {
	Chains *chain.Registry
	Client ContractInfoFetcher
	Logger *zap.Logger
}

func (a *MetadataAdapter) Fetch(ctx context.Context, contractAddress, blockchain string) TokenMetadata {
	info, err := a.Chains.Lookup(blockchain)
	if err != nil {
		a.warn("metadata adapter: chain lookup failed", contractAddress, blockchain, err)
		return TokenMetadata{}
	}

	data, err := a.Client.GetContractInfo(ctx, info.PlatformID, contractAddress)
	if err != nil {
		a.warn("metadata adapter: contract lookup failed", contractAddress, blockchain, err)
		return TokenMetadata{}
	}

	return normalizeCoinData(data)
}

func (a *MetadataAdapter) warn(msg, address, blockchain string, err error) {
	if a.Logger == nil {
		return
	}
	a.Logger.Warn(msg,
		zap.String("contract_address", address),
		zap.String("blockchain", blockchain),
		zap.Error(err),
	)
}

func normalizeCoinData(data *coingecko.CoinData) TokenMetadata {
	if data == nil {
		return TokenMetadata{}
	}

	meta := TokenMetadata{
		ID:          data.ID,
		Platform:    data.AssetPlatformID,
		Description: data.Description["en"],
		Name:        data.Name,
		Symbol:      data.Symbol,
	}

	if data.Links != nil {
		links := &Links{
			Homepage:  dropEmpty(data.Links.Homepage),
			Explorers: dropEmpty(data.Links.BlockchainSite),
			Forum:     dropEmpty(data.Links.OfficialForumURL),
			Chat:      dropEmpty(data.Links.ChatURL),
			Twitter:   data.Links.TwitterScreen,
			Facebook:  data.Links.FacebookUsername,
			Subreddit: data.Links.SubredditURL,
		}
		if data.Links.ReposURL != nil {
			links.GitHub = dropEmpty(data.Links.ReposURL.GitHub)
		}
		if !links.isEmpty() {
			meta.Links = links
		}
	}

	if data.Image != nil {
		img := &Image{
			Thumb: data.Image.Thumb,
			Small: data.Image.Small,
			Large: data.Image.Large,
		}
		if !img.isEmpty() {
			meta.Image = img
		}
		meta.LogoURL = firstNonEmpty(data.Image.Large, data.Image.Small, data.Image.Thumb)
	}

	if md := data.MarketData; md != nil {
		meta.Market = &MarketData{
			CurrentPrice:             md.CurrentPrice,
			MarketCap:                md.MarketCap,
			Rank:                     md.MarketCapRank,
			TotalVolume:              md.TotalVolume,
			High24h:                  md.High24h,
			Low24h:                   md.Low24h,
			PriceChange24hInCurrency: md.PriceChange24hInCurrency,
			PriceChangePct24h:        md.PriceChangePct24h,
			PriceChangePct7d:         md.PriceChangePct7d,
			PriceChangePct14d:        md.PriceChangePct14d,
			PriceChangePct30d:        md.PriceChangePct30d,
			PriceChangePct60d:        md.PriceChangePct60d,
			PriceChangePct200d:       md.PriceChangePct200d,
			PriceChangePct1y:         md.PriceChangePct1y,
			MarketCapChange24h:       md.MarketCapChange24h,
			MarketCapChangePct24h:    md.MarketCapChangePct24h,
			TotalSupply:              md.TotalSupply,
			CirculatingSupply:        md.CirculatingSupply,
			ATH:                      md.ATH,
			ATHChangePct:             md.ATHChangePct,
			ATHDate:                  md.ATHDate,
			ATL:                      md.ATL,
			ATLChangePct:             md.ATLChangePct,
			ATLDate:                  md.ATLDate,
		}
	}

	if cd := data.CommunityData; cd != nil && cd.TelegramChannelUserCount != nil {
		meta.Community = &CommunityData{TelegramMembers: cd.TelegramChannelUserCount}
	}

	if dd := data.DeveloperData; dd != nil {
		dev := &DeveloperData{
			Forks:          dd.Forks,
			Stars:          dd.Stars,
			Subscribers:    dd.Subscribers,
			TotalIssues:    dd.TotalIssues,
			ClosedIssues:   dd.ClosedIssues,
			PRsMerged:      dd.PullRequestsMerged,
			PRContributors: dd.PullRequestContribs,
			Commits4Weeks:  dd.CommitCount4Weeks,
		}
		if *dev != (DeveloperData{}) {
			meta.Developer = dev
		}
	}

	return meta
}

func dropEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
