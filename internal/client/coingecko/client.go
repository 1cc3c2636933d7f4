package coingecko

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"tokenlens/internal/config"
)

type Client struct {
	resty *resty.Client
}

func NewClient(cfg config.CoinGeckoConfig) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = "https://api.coingecko.com/api/v3"
	}
	rc := resty.New().
		SetBaseURL(base).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		rc.SetHeader("x-cg-demo-api-key", cfg.APIKey)
	}
	return &Client{resty: rc}
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("coingecko API error (%d): %s", e.Status, e.Body)
}

// CoinData mirrors the provider's per-contract lookup response. Optional
// numeric fields stay pointers so an absent value is never read as zero.
type CoinData struct {
	ID              string            `json:"id"`
	Symbol          string            `json:"symbol"`
	Name            string            `json:"name"`
	AssetPlatformID string            `json:"asset_platform_id"`
	Description     map[string]string `json:"description"`
	Links           *CoinLinks        `json:"links"`
	Image           *CoinImage        `json:"image"`
	MarketData      *CoinMarketData   `json:"market_data"`
	CommunityData   *CoinCommunity    `json:"community_data"`
	DeveloperData   *CoinDeveloper    `json:"developer_data"`
}

type CoinLinks struct {
	Homepage         []string  `json:"homepage"`
	BlockchainSite   []string  `json:"blockchain_site"`
	OfficialForumURL []string  `json:"official_forum_url"`
	ChatURL          []string  `json:"chat_url"`
	TwitterScreen    string    `json:"twitter_screen_name"`
	FacebookUsername string    `json:"facebook_username"`
	SubredditURL     string    `json:"subreddit_url"`
	ReposURL         *CoinRepo `json:"repos_url"`
}

type CoinRepo struct {
	GitHub []string `json:"github"`
}

type CoinImage struct {
	Thumb string `json:"thumb"`
	Small string `json:"small"`
	Large string `json:"large"`
}

type CoinMarketData struct {
	CurrentPrice             map[string]float64 `json:"current_price"`
	MarketCap                map[string]float64 `json:"market_cap"`
	MarketCapRank            *int               `json:"market_cap_rank"`
	TotalVolume              map[string]float64 `json:"total_volume"`
	High24h                  map[string]float64 `json:"high_24h"`
	Low24h                   map[string]float64 `json:"low_24h"`
	PriceChange24hInCurrency map[string]float64 `json:"price_change_24h_in_currency"`
	PriceChangePct24h        *float64           `json:"price_change_percentage_24h"`
	PriceChangePct7d         *float64           `json:"price_change_percentage_7d"`
	PriceChangePct14d        *float64           `json:"price_change_percentage_14d"`
	PriceChangePct30d        *float64           `json:"price_change_percentage_30d"`
	PriceChangePct60d        *float64           `json:"price_change_percentage_60d"`
	PriceChangePct200d       *float64           `json:"price_change_percentage_200d"`
	PriceChangePct1y         *float64           `json:"price_change_percentage_1y"`
	MarketCapChange24h       *float64           `json:"market_cap_change_24h"`
	MarketCapChangePct24h    *float64           `json:"market_cap_change_percentage_24h"`
	TotalSupply              *float64           `json:"total_supply"`
	CirculatingSupply        *float64           `json:"circulating_supply"`
	ATH                      map[string]float64 `json:"ath"`
	ATHChangePct             map[string]float64 `json:"ath_change_percentage"`
	ATHDate                  map[string]string  `json:"ath_date"`
	ATL                      map[string]float64 `json:"atl"`
	ATLChangePct             map[string]float64 `json:"atl_change_percentage"`
	ATLDate                  map[string]string  `json:"atl_date"`
}

type CoinCommunity struct {
	TelegramChannelUserCount *int64 `json:"telegram_channel_user_count"`
}

type CoinDeveloper struct {
	Forks               *int `json:"forks"`
	Stars               *int `json:"stars"`
	Subscribers         *int `json:"subscribers"`
	TotalIssues         *int `json:"total_issues"`
	ClosedIssues        *int `json:"closed_issues"`
	PullRequestsMerged  *int `json:"pull_requests_merged"`
	PullRequestContribs *int `json:"pull_request_contributors"`
	CommitCount4Weeks   *int `json:"commit_count_4_weeks"`
}

// GetContractInfo runs the canonical per-contract lookup with market,
// community and developer data enabled.
func (c *Client) GetContractInfo(ctx context.Context, platformID, contractAddress string) (*CoinData, error) {
	var data CoinData
	resp, err := c.resty.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"platform": platformID,
			"contract": contractAddress,
		}).
		SetQueryParams(map[string]string{
			"localization":   "false",
			"tickers":        "false",
			"market_data":    "true",
			"community_data": "true",
			"developer_data": "true",
			"sparkline":      "false",
		}).
		SetResult(&data).
		Get("/coins/{platform}/contract/{contract}")
	if err != nil {
		return nil, fmt.Errorf("coingecko request failed: %w", err)
	}
	if resp.IsError() {
		return nil, &APIError{Status: resp.StatusCode(), Body: string(resp.Body())}
	}
	return &data, nil
}
