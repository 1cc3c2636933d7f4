package twitterapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"tokenlens/internal/config"
)

type Client struct {
	resty *resty.Client
}

func NewClient(cfg config.TwitterConfig) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = "https://" + cfg.Host
	}
	rc := resty.New().
		SetBaseURL(base).
		SetTimeout(cfg.Timeout).
		SetHeader("x-rapidapi-key", cfg.APIKey).
		SetHeader("x-rapidapi-host", cfg.Host)
	return &Client{resty: rc}
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("twitter API error (%d): %s", e.Status, e.Body)
}

type Tweet struct {
	Text      string      `json:"text"`
	CreatedAt string      `json:"created_at"`
	Views     json.Number `json:"views"`
	Favorites int64       `json:"favorites"`
	UserInfo  *User       `json:"user_info"`
}

type User struct {
	Name           string `json:"name"`
	ScreenName     string `json:"screen_name"`
	FollowersCount int64  `json:"followers_count"`
	BlueVerified   bool   `json:"blue_verified"`
	Description    string `json:"desc"`
	SubCount       int64  `json:"sub_count"`
}

type timelineResponse struct {
	Timeline []Tweet `json:"timeline"`
	User     *User   `json:"user"`
}

// Search returns top posts mentioning the query (typically a raw contract
// address).
func (c *Client) Search(ctx context.Context, query string) ([]Tweet, error) {
	var data timelineResponse
	resp, err := c.resty.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":       query,
			"search_type": "Top",
		}).
		SetResult(&data).
		Get("/search.php")
	if err != nil {
		return nil, fmt.Errorf("twitter search failed: %w", err)
	}
	if resp.IsError() {
		return nil, &APIError{Status: resp.StatusCode(), Body: string(resp.Body())}
	}
	return data.Timeline, nil
}

// Timeline returns recent posts from one account.
func (c *Client) Timeline(ctx context.Context, screenName string) ([]Tweet, *User, error) {
	var data timelineResponse
	resp, err := c.resty.R().
		SetContext(ctx).
		SetQueryParam("screenname", screenName).
		SetResult(&data).
		Get("/timeline.php")
	if err != nil {
		return nil, nil, fmt.Errorf("twitter timeline failed: %w", err)
	}
	if resp.IsError() {
		return nil, nil, &APIError{Status: resp.StatusCode(), Body: string(resp.Body())}
	}
	user := data.User
	if user != nil {
		user.ScreenName = screenName
	}
	return data.Timeline, user, nil
}
