package token

import (
	"time"
)

// PriceQuote is the on-chain provider's contribution: the implied unit price
// of one token against the chain's reference USDC, read from a swap quote.
// Price "0" is the documented "no quote available" sentinel; it is
// indistinguishable from a genuine zero price by convention.
type PriceQuote struct {
	Price     string    `json:"price"`
	Timestamp time.Time `json:"timestamp"`
	Symbol    string    `json:"symbol,omitempty"`
	Decimals  *int      `json:"decimals,omitempty"`
	Name      string    `json:"name,omitempty"`
	LogoURL   string    `json:"logoUrl,omitempty"`
}

// NeutralQuote is the explicit empty value a failing price adapter degrades
// to: the sentinel price stamped with the current time.
func NeutralQuote(now time.Time) PriceQuote {
	return PriceQuote{Price: "0", Timestamp: now}
}

// TokenMetadata is the market-data provider's contribution. Every field is
// optional; absence means the provider did not return it, never an error.
type TokenMetadata struct {
	ID          string `json:"id,omitempty"`
	Platform    string `json:"platform,omitempty"`
	Description string `json:"description,omitempty"`

	Name    string `json:"name,omitempty"`
	Symbol  string `json:"symbol,omitempty"`
	LogoURL string `json:"logoUrl,omitempty"`

	Links     *Links         `json:"links,omitempty"`
	Image     *Image         `json:"image,omitempty"`
	Market    *MarketData    `json:"market,omitempty"`
	Community *CommunityData `json:"community,omitempty"`
	Developer *DeveloperData `json:"developer,omitempty"`
}

func (m TokenMetadata) IsEmpty() bool {
	return m.ID == "" && m.Platform == "" && m.Description == "" &&
		m.Name == "" && m.Symbol == "" && m.LogoURL == "" &&
		m.Links.isEmpty() && m.Image == nil && m.Market == nil &&
		m.Community == nil && m.Developer == nil
}

type Links struct {
	Homepage  []string `json:"homepage,omitempty"`
	Explorers []string `json:"explorers,omitempty"`
	Forum     []string `json:"forum,omitempty"`
	Chat      []string `json:"chat,omitempty"`
	Twitter   string   `json:"twitter,omitempty"`
	Facebook  string   `json:"facebook,omitempty"`
	Subreddit string   `json:"subreddit,omitempty"`
	GitHub    []string `json:"github,omitempty"`
}

func (l *Links) isEmpty() bool {
	if l == nil {
		return true
	}
	return len(l.Homepage) == 0 && len(l.Explorers) == 0 && len(l.Forum) == 0 &&
		len(l.Chat) == 0 && l.Twitter == "" && l.Facebook == "" &&
		l.Subreddit == "" && len(l.GitHub) == 0
}

type Image struct {
	Thumb string `json:"thumb,omitempty"`
	Small string `json:"small,omitempty"`
	Large string `json:"large,omitempty"`
}

func (i *Image) isEmpty() bool {
	if i == nil {
		return true
	}
	return i.Thumb == "" && i.Small == "" && i.Large == ""
}

// MarketData keeps the provider's multi-currency maps as maps: a currency
// the provider omitted stays absent rather than defaulting to zero.
type MarketData struct {
	CurrentPrice map[string]float64 `json:"current_price,omitempty"`
	MarketCap    map[string]float64 `json:"market_cap,omitempty"`
	Rank         *int               `json:"market_cap_rank,omitempty"`
	TotalVolume  map[string]float64 `json:"total_volume,omitempty"`
	High24h      map[string]float64 `json:"high_24h,omitempty"`
	Low24h       map[string]float64 `json:"low_24h,omitempty"`

	PriceChange24hInCurrency map[string]float64 `json:"price_change_24h_in_currency,omitempty"`
	PriceChangePct24h        *float64           `json:"price_change_percentage_24h,omitempty"`
	PriceChangePct7d         *float64           `json:"price_change_percentage_7d,omitempty"`
	PriceChangePct14d        *float64           `json:"price_change_percentage_14d,omitempty"`
	PriceChangePct30d        *float64           `json:"price_change_percentage_30d,omitempty"`
	PriceChangePct60d        *float64           `json:"price_change_percentage_60d,omitempty"`
	PriceChangePct200d       *float64           `json:"price_change_percentage_200d,omitempty"`
	PriceChangePct1y         *float64           `json:"price_change_percentage_1y,omitempty"`

	MarketCapChange24h    *float64 `json:"market_cap_change_24h,omitempty"`
	MarketCapChangePct24h *float64 `json:"market_cap_change_percentage_24h,omitempty"`

	TotalSupply       *float64 `json:"total_supply,omitempty"`
	CirculatingSupply *float64 `json:"circulating_supply,omitempty"`

	ATH          map[string]float64 `json:"ath,omitempty"`
	ATHChangePct map[string]float64 `json:"ath_change_percentage,omitempty"`
	ATHDate      map[string]string  `json:"ath_date,omitempty"`
	ATL          map[string]float64 `json:"atl,omitempty"`
	ATLChangePct map[string]float64 `json:"atl_change_percentage,omitempty"`
	ATLDate      map[string]string  `json:"atl_date,omitempty"`
}

type CommunityData struct {
	TelegramMembers *int64 `json:"telegram_channel_user_count,omitempty"`
}

type DeveloperData struct {
	Forks          *int `json:"forks,omitempty"`
	Stars          *int `json:"stars,omitempty"`
	Subscribers    *int `json:"subscribers,omitempty"`
	TotalIssues    *int `json:"total_issues,omitempty"`
	ClosedIssues   *int `json:"closed_issues,omitempty"`
	PRsMerged      *int `json:"pull_requests_merged,omitempty"`
	PRContributors *int `json:"pull_request_contributors,omitempty"`
	Commits4Weeks  *int `json:"commit_count_4_weeks,omitempty"`
}

// SocialSignal is the social provider's contribution. Either summary may be
// absent; absence means no matching posts, not an error.
type SocialSignal struct {
	SearchSummary  *string `json:"search_summary,omitempty"`
	AccountSummary *string `json:"account_summary,omitempty"`
}

func (s SocialSignal) IsEmpty() bool {
	return s.SearchSummary == nil && s.AccountSummary == nil
}

// TokenProfile is the merged view exposed to callers. Price is never empty:
// it is "0" exactly when no provider returned a usable price.
type TokenProfile struct {
	Price     string    `json:"price"`
	Timestamp time.Time `json:"timestamp"`
	Symbol    string    `json:"symbol,omitempty"`
	Decimals  *int      `json:"decimals,omitempty"`
	Name      string    `json:"name,omitempty"`
	LogoURL   string    `json:"logoUrl,omitempty"`

	ID          string `json:"id,omitempty"`
	Platform    string `json:"platform,omitempty"`
	Description string `json:"description,omitempty"`

	Links     *Links         `json:"links,omitempty"`
	Image     *Image         `json:"image,omitempty"`
	Market    *MarketData    `json:"market,omitempty"`
	Community *CommunityData `json:"community,omitempty"`
	Developer *DeveloperData `json:"developer,omitempty"`
}

// Meaningful reports whether the profile carries enough data to be worth
// summarizing: either a live price or a metadata identity.
func (p TokenProfile) Meaningful() bool {
	return p.Price != "0" || p.ID != ""
}

// TwitterHandle returns the official account screen name when the metadata
// links carry one.
func (p TokenProfile) TwitterHandle() string {
	if p.Links == nil {
		return ""
	}
	return p.Links.Twitter
}
