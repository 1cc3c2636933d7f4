package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"

	"tokenlens/internal/client/twitterapi"
	"tokenlens/internal/config"
	"tokenlens/internal/token"
)

// Summarization failures are typed so callers branch on the error value, not
// on string prefixes. FailureText renders the legacy user-facing strings.
var (
	ErrMissingAPIKey    = errors.New("ai api key is not configured")
	ErrInsufficientData = errors.New("insufficient token data for summary")
)

type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("ai completion failed: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// FailureText converts a summarization error into the fixed user-facing
// message stored in the ledger and returned to callers.
func FailureText(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingAPIKey):
		return "AI summary not available: API key missing."
	case errors.Is(err, ErrInsufficientData):
		return "Could not retrieve sufficient basic token data to generate AI summary."
	default:
		return "AI summary generation failed: " + err.Error()
	}
}

type Summarizer struct {
	client         *openai.Client
	model          string
	socialModel    string
	maxTokens      int
	profileCharMax int
	hasKey         bool
}

func NewSummarizer(cfg config.AIConfig) *Summarizer {
	cc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		cc.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		cc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	charMax := cfg.ProfileCharMax
	if charMax <= 0 {
		charMax = 15000
	}
	return &Summarizer{
		client:         openai.NewClientWithConfig(cc),
		model:          cfg.Model,
		socialModel:    cfg.SocialModel,
		maxTokens:      cfg.MaxTokens,
		profileCharMax: charMax,
		hasKey:         strings.TrimSpace(cfg.APIKey) != "",
	}
}

const profilePrompt = `
You are a crypto token analyst. Based on the following comprehensive data for a token, provide a concise summary and an assessment.
The data includes real-time market statistics, project information, links, community signals, and developer activity.

Token Data:
` + "```json\n%s\n```" + `

Please structure your response into the following sections:
1.  **Overall Summary:** A brief overview of the token (name, symbol), its primary purpose or utility from its description, and any standout features.
2.  **Market Snapshot:** Briefly comment on its current market cap, 24-hour trading volume. Mention total supply and circulating supply. Note any significant recent price trends if available in the data (e.g., price_change_percentage_24h, price_change_percentage_7d).
3.  **Project & Community Insights:** Highlight key aspects from its description. List its homepage URL. Mention available official community channels/social links (e.g., Telegram, Twitter) and Telegram user count if present.
4.  **Developer Activity Signals:** Briefly comment on any notable developer signals from the developer_data section (e.g., commit activity, GitHub stars).
5.  **Assessment (Data-Driven):** Provide a neutral, data-driven perspective. What does the data suggest about this token? Highlight potential points of interest or caution *based strictly on the provided data*. Do NOT invent information.
6.  **Important Disclaimer:** Remind the user that this analysis is based on provided data, is not financial advice, and they should conduct their own thorough research (DYOR). Explicitly state that detailed on-chain holder analysis and smart contract audit results were not part of the input data for this summary.

Focus on summarizing the provided data. Be factual and objective. Do not make investment recommendations.
Provide the output in well-formatted markdown.
`

// Summarize issues one chat completion over the serialized profile. The
// serialized form is capped at the configured character budget with an
// explicit truncation marker so the model input limit holds.
func (s *Summarizer) Summarize(ctx context.Context, profile token.TokenProfile) (string, error) {
	if !s.hasKey {
		return "", ErrMissingAPIKey
	}

	serialized := s.truncate(profile)
	prompt := fmt.Sprintf(profilePrompt, serialized)

	content, err := s.complete(ctx, s.model, "", prompt, 0)
	if err != nil {
		return "", &UpstreamError{Err: err}
	}
	if content == "" {
		return "AI generated an empty response.", nil
	}
	return content, nil
}

func (s *Summarizer) truncate(profile token.TokenProfile) string {
	raw, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return "{}"
	}
	serialized := string(raw)
	if len(serialized) > s.profileCharMax {
		// Back up to a rune boundary so a multibyte description is never cut
		// mid-sequence.
		cut := s.profileCharMax
		for cut > 0 && !utf8.RuneStart(serialized[cut]) {
			cut--
		}
		serialized = serialized[:cut] + "... (data truncated)"
	}
	return serialized
}

// TweetSummaryKind selects the social summary prompt variant.
type TweetSummaryKind string

const (
	TweetSummarySearch  TweetSummaryKind = "search"
	TweetSummaryAccount TweetSummaryKind = "account"
)

// SummarizeTweets condenses a batch of posts into a short bullet-point brief.
func (s *Summarizer) SummarizeTweets(ctx context.Context, tweets []twitterapi.Tweet, kind TweetSummaryKind, symbol string) (string, error) {
	if !s.hasKey {
		return "", ErrMissingAPIKey
	}

	var prefix, suffix string
	if kind == TweetSummaryAccount {
		prefix = fmt.Sprintf("请总结关于 %s 的账号推文:", symbol)
		suffix = "提供简短的要点总结。保持简洁直接,去除所有不必要的词语。"
	} else {
		prefix = fmt.Sprintf("请总结关于 %s 的搜索推文:", symbol)
		suffix = "提供关于叙事观点和风险内容的极简要点总结。不总结主观价格预测和个人收益的内容。保持简洁直接,去除所有不必要的词语。格式如下：\n- 叙事观点：\n- 风险内容："
	}

	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString("\n\n")
	for i, t := range tweets {
		fmt.Fprintf(&b, "Tweet %d:\nContent: %s\nTime: %s\n", i+1, t.Text, t.CreatedAt)
		if t.UserInfo != nil {
			fmt.Fprintf(&b, "Author: %s (@%s)\nFollowers: %d\n", t.UserInfo.Name, t.UserInfo.ScreenName, t.UserInfo.FollowersCount)
		}
		fmt.Fprintf(&b, "Engagement: %s views / %d likes\n---\n", t.Views.String(), t.Favorites)
	}
	b.WriteString("\n")
	b.WriteString(suffix)

	content, err := s.complete(ctx, s.socialModel,
		"You are a helpful assistant that analyzes cryptocurrency Twitter data.",
		b.String(), 1.0)
	if err != nil {
		return "", &UpstreamError{Err: err}
	}
	if content == "" {
		return "No summary available.", nil
	}
	return content, nil
}

func (s *Summarizer) complete(ctx context.Context, model, system, prompt string, temperature float32) (string, error) {
	var messages []openai.ChatCompletionMessage
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
