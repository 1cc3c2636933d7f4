package coingecko

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tokenlens/internal/config"
)

const coinBody = `{
  "id": "usd-coin",
  "symbol": "usdc",
  "name": "USDC",
  "asset_platform_id": "solana",
  "description": {"en": "Fully backed digital dollar."},
  "links": {
    "homepage": ["https://www.circle.com", ""],
    "blockchain_site": ["https://solscan.io/token/EPjF"],
    "official_forum_url": [],
    "chat_url": ["https://discord.gg/circle"],
    "twitter_screen_name": "circle",
    "facebook_username": "",
    "subreddit_url": "https://www.reddit.com/r/circle",
    "repos_url": {"github": ["https://github.com/circlefin"]}
  },
  "image": {
    "thumb": "https://img/thumb.png",
    "small": "https://img/small.png",
    "large": "https://img/large.png"
  },
  "market_data": {
    "current_price": {"usd": 0.999},
    "market_cap": {"usd": 32000000000},
    "market_cap_rank": 7,
    "total_volume": {"usd": 5400000000},
    "price_change_percentage_24h": -0.01,
    "total_supply": 32100000000,
    "circulating_supply": 32000000000
  },
  "community_data": {"telegram_channel_user_count": 12345},
  "developer_data": {"forks": 120, "stars": 900, "commit_count_4_weeks": 14}
}`

func TestGetContractInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coins/solana/contract/EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v" {
			t.Errorf("path=%s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("market_data") != "true" || q.Get("localization") != "false" {
			t.Errorf("query=%v", q)
		}
		if r.Header.Get("x-cg-demo-api-key") != "demo-key" {
			t.Errorf("api key header=%q", r.Header.Get("x-cg-demo-api-key"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(coinBody))
	}))
	defer srv.Close()

	client := NewClient(config.CoinGeckoConfig{
		BaseURL: srv.URL,
		APIKey:  "demo-key",
		Timeout: 5 * time.Second,
	})
	data, err := client.GetContractInfo(context.Background(), "solana", "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	if err != nil {
		t.Fatalf("GetContractInfo: %v", err)
	}
	if data.ID != "usd-coin" || data.Symbol != "usdc" {
		t.Fatalf("identity=%s/%s", data.ID, data.Symbol)
	}
	if data.Description["en"] != "Fully backed digital dollar." {
		t.Fatalf("description=%v", data.Description)
	}
	if data.Links == nil || data.Links.TwitterScreen != "circle" {
		t.Fatalf("links=%+v", data.Links)
	}
	if data.MarketData == nil || data.MarketData.CurrentPrice["usd"] != 0.999 {
		t.Fatalf("market=%+v", data.MarketData)
	}
	if data.MarketData.MarketCapRank == nil || *data.MarketData.MarketCapRank != 7 {
		t.Fatalf("rank=%v", data.MarketData.MarketCapRank)
	}
	if data.CommunityData == nil || data.CommunityData.TelegramChannelUserCount == nil ||
		*data.CommunityData.TelegramChannelUserCount != 12345 {
		t.Fatalf("community=%+v", data.CommunityData)
	}
	if data.DeveloperData == nil || data.DeveloperData.CommitCount4Weeks == nil ||
		*data.DeveloperData.CommitCount4Weeks != 14 {
		t.Fatalf("developer=%+v", data.DeveloperData)
	}
}

func TestGetContractInfo_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"coin not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(config.CoinGeckoConfig{BaseURL: srv.URL})
	_, err := client.GetContractInfo(context.Background(), "solana", "unknown")
	if err == nil {
		t.Fatalf("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Fatalf("err=%v", err)
	}
}
