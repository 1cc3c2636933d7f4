package service

import (
	"context"
	"errors"
	"testing"

	"tokenlens/internal/ai"
	"tokenlens/internal/client/twitterapi"
)

type stubTweetSource struct {
	searchTweets   []twitterapi.Tweet
	searchErr      error
	timelineTweets []twitterapi.Tweet
	timelineErr    error

	searchCalls   int
	timelineCalls int
	searchedFor   string
	timelineFor   string
}

func (s *stubTweetSource) Search(ctx context.Context, query string) ([]twitterapi.Tweet, error) {
	s.searchCalls++
	s.searchedFor = query
	return s.searchTweets, s.searchErr
}

func (s *stubTweetSource) Timeline(ctx context.Context, screenName string) ([]twitterapi.Tweet, *twitterapi.User, error) {
	s.timelineCalls++
	s.timelineFor = screenName
	return s.timelineTweets, nil, s.timelineErr
}

type stubTweetSummarizer struct {
	summaries map[ai.TweetSummaryKind]string
	err       error
	calls     int
}

func (s *stubTweetSummarizer) SummarizeTweets(ctx context.Context, tweets []twitterapi.Tweet, kind ai.TweetSummaryKind, symbol string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.summaries[kind], nil
}

func someTweets() []twitterapi.Tweet {
	return []twitterapi.Tweet{
		{Text: "New listing", CreatedAt: "Mon Jan 05 10:00:00 +0000 2026", Views: "1200", Favorites: 34},
	}
}

func TestSocialAnalyze_BothSummaries(t *testing.T) {
	source := &stubTweetSource{searchTweets: someTweets(), timelineTweets: someTweets()}
	summarizer := &stubTweetSummarizer{summaries: map[ai.TweetSummaryKind]string{
		ai.TweetSummarySearch:  "search brief",
		ai.TweetSummaryAccount: "account brief",
	}}
	svc := &SocialAnalysisService{Tweets: source, Summarizer: summarizer}

	signal := svc.Analyze(context.Background(), "USDC", "EPjF", "circle")
	if signal.SearchSummary == nil || *signal.SearchSummary != "search brief" {
		t.Fatalf("search=%v", signal.SearchSummary)
	}
	if signal.AccountSummary == nil || *signal.AccountSummary != "account brief" {
		t.Fatalf("account=%v", signal.AccountSummary)
	}
	if source.searchedFor != "EPjF" {
		t.Fatalf("search query=%q want contract address", source.searchedFor)
	}
	if source.timelineFor != "circle" {
		t.Fatalf("timeline=%q", source.timelineFor)
	}
}

func TestSocialAnalyze_NoHandleSkipsTimeline(t *testing.T) {
	source := &stubTweetSource{searchTweets: someTweets()}
	summarizer := &stubTweetSummarizer{summaries: map[ai.TweetSummaryKind]string{
		ai.TweetSummarySearch: "search brief",
	}}
	svc := &SocialAnalysisService{Tweets: source, Summarizer: summarizer}

	signal := svc.Analyze(context.Background(), "USDC", "EPjF", "")
	if source.timelineCalls != 0 {
		t.Fatalf("timeline fetched without a handle")
	}
	if signal.AccountSummary != nil {
		t.Fatalf("account=%v", signal.AccountSummary)
	}
	if signal.SearchSummary == nil {
		t.Fatalf("search summary missing")
	}
}

func TestSocialAnalyze_FetchFailureDegrades(t *testing.T) {
	source := &stubTweetSource{
		searchErr:   errors.New("rate limited"),
		timelineErr: errors.New("rate limited"),
	}
	svc := &SocialAnalysisService{Tweets: source, Summarizer: &stubTweetSummarizer{}}

	signal := svc.Analyze(context.Background(), "USDC", "EPjF", "circle")
	if !signal.IsEmpty() {
		t.Fatalf("signal=%+v want empty", signal)
	}
}

func TestSocialAnalyze_EmptyTimelineSkipsSummarizer(t *testing.T) {
	source := &stubTweetSource{timelineTweets: nil, searchTweets: nil}
	summarizer := &stubTweetSummarizer{}
	svc := &SocialAnalysisService{Tweets: source, Summarizer: summarizer}

	signal := svc.Analyze(context.Background(), "USDC", "EPjF", "circle")
	if summarizer.calls != 0 {
		t.Fatalf("summarizer called on empty batches")
	}
	if !signal.IsEmpty() {
		t.Fatalf("signal=%+v", signal)
	}
}

func TestSocialAnalyze_SummarizerFailureDegrades(t *testing.T) {
	source := &stubTweetSource{searchTweets: someTweets()}
	summarizer := &stubTweetSummarizer{err: errors.New("model offline")}
	svc := &SocialAnalysisService{Tweets: source, Summarizer: summarizer}

	signal := svc.Analyze(context.Background(), "USDC", "EPjF", "")
	if !signal.IsEmpty() {
		t.Fatalf("signal=%+v want empty", signal)
	}
}
