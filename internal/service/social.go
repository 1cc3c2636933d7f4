package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"tokenlens/internal/ai"
	"tokenlens/internal/client/twitterapi"
	"tokenlens/internal/token"
)

type TweetSource interface {
	Search(ctx context.Context, query string) ([]twitterapi.Tweet, error)
	Timeline(ctx context.Context, screenName string) ([]twitterapi.Tweet, *twitterapi.User, error)
}

type TweetSummarizer interface {
	SummarizeTweets(ctx context.Context, tweets []twitterapi.Tweet, kind ai.TweetSummaryKind, symbol string) (string, error)
}

// SocialAnalysisService runs the two independent social lookups: the official
// account's timeline (when a handle is known) and a search for the raw
// contract address. Failures and empty result sets both degrade to an absent
// summary field.
type SocialAnalysisService struct {
	Tweets     TweetSource
	Summarizer TweetSummarizer
	Logger     *zap.Logger
}

func (s *SocialAnalysisService) Analyze(ctx context.Context, symbol, contractAddress, handle string) token.SocialSignal {
	var signal token.SocialSignal
	var wg sync.WaitGroup

	if handle != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			signal.AccountSummary = s.accountSummary(ctx, symbol, handle)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		signal.SearchSummary = s.searchSummary(ctx, symbol, contractAddress)
	}()

	wg.Wait()
	return signal
}

func (s *SocialAnalysisService) accountSummary(ctx context.Context, symbol, handle string) *string {
	tweets, _, err := s.Tweets.Timeline(ctx, handle)
	if err != nil {
		s.warn("social: timeline fetch failed", handle, err)
		return nil
	}
	if len(tweets) == 0 {
		return nil
	}
	summary, err := s.Summarizer.SummarizeTweets(ctx, tweets, ai.TweetSummaryAccount, symbol)
	if err != nil {
		s.warn("social: account summary failed", handle, err)
		return nil
	}
	return &summary
}

func (s *SocialAnalysisService) searchSummary(ctx context.Context, symbol, contractAddress string) *string {
	tweets, err := s.Tweets.Search(ctx, contractAddress)
	if err != nil {
		s.warn("social: search failed", contractAddress, err)
		return nil
	}
	if len(tweets) == 0 {
		return nil
	}
	summary, err := s.Summarizer.SummarizeTweets(ctx, tweets, ai.TweetSummarySearch, symbol)
	if err != nil {
		s.warn("social: search summary failed", contractAddress, err)
		return nil
	}
	return &summary
}

func (s *SocialAnalysisService) warn(msg, subject string, err error) {
	if s.Logger == nil {
		return
	}
	s.Logger.Warn(msg, zap.String("subject", subject), zap.Error(err))
}
