package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"tokenlens/internal/models"
	"tokenlens/internal/repository"
	"tokenlens/internal/token"
)

type stubPriceSource struct {
	quote token.PriceQuote
	calls int
}

func (s *stubPriceSource) Fetch(ctx context.Context, contractAddress, blockchain string) token.PriceQuote {
	s.calls++
	return s.quote
}

type stubMetadataSource struct {
	meta  token.TokenMetadata
	calls int
}

func (s *stubMetadataSource) Fetch(ctx context.Context, contractAddress, blockchain string) token.TokenMetadata {
	s.calls++
	return s.meta
}

type stubProfileSummarizer struct {
	text  string
	err   error
	calls int
}

func (s *stubProfileSummarizer) Summarize(ctx context.Context, profile token.TokenProfile) (string, error) {
	s.calls++
	return s.text, s.err
}

type stubSocialAnalyzer struct {
	signal token.SocialSignal
	calls  int
}

func (s *stubSocialAnalyzer) Analyze(ctx context.Context, symbol, contractAddress, handle string) token.SocialSignal {
	s.calls++
	return s.signal
}

type stubRepo struct {
	queryErr  error
	recordErr error

	queries []models.TokenQuery
	records []models.AnalysisRecord
}

func (s *stubRepo) CreateTokenQuery(ctx context.Context, item *models.TokenQuery) error {
	if s.queryErr != nil {
		return s.queryErr
	}
	item.ID = uint64(len(s.queries) + 1)
	s.queries = append(s.queries, *item)
	return nil
}

func (s *stubRepo) CreateAnalysisRecord(ctx context.Context, item *models.AnalysisRecord) error {
	if s.recordErr != nil {
		return s.recordErr
	}
	s.records = append(s.records, *item)
	return nil
}

func (s *stubRepo) ListTokenQueries(ctx context.Context, params repository.ListTokenQueriesParams) ([]models.TokenQuery, error) {
	return s.queries, nil
}

func (s *stubRepo) CountTokenQueries(ctx context.Context, params repository.ListTokenQueriesParams) (int64, error) {
	return int64(len(s.queries)), nil
}

func (s *stubRepo) ListAnalysisRecordsByQueryIDs(ctx context.Context, queryIDs []uint64) ([]models.AnalysisRecord, error) {
	return s.records, nil
}

func (s *stubRepo) DeleteAnalysisRecordsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (s *stubRepo) DeleteTokenQueriesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func strPtr(s string) *string { return &s }

func usdcMeta() token.TokenMetadata {
	return token.TokenMetadata{
		ID:       "usd-coin",
		Platform: "solana",
		Name:     "USDC",
		Symbol:   "usdc",
	}
}

func TestAnalyze_Basic(t *testing.T) {
	repo := &stubRepo{}
	svc := &AnalysisService{
		Price:    &stubPriceSource{quote: token.PriceQuote{Price: "23.45", Symbol: "USDC", Timestamp: time.Now()}},
		Metadata: &stubMetadataSource{meta: usdcMeta()},
		Repo:     repo,
	}

	result, err := svc.Analyze(context.Background(), AnalysisRequest{
		ContractAddress: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		Blockchain:      "SOL",
		AnalysisType:    AnalysisTypeBasic,
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if result.Profile.Price != "23.45" {
		t.Fatalf("price=%q", result.Profile.Price)
	}
	if result.Profile.Symbol != "USDC" {
		t.Fatalf("symbol=%q", result.Profile.Symbol)
	}
	if result.AISummary != nil || result.Social != nil {
		t.Fatalf("basic analysis produced AI fields: %+v", result)
	}
	if result.ProcessError != nil {
		t.Fatalf("process error=%q", *result.ProcessError)
	}

	if len(repo.queries) != 1 {
		t.Fatalf("queries=%d", len(repo.queries))
	}
	q := repo.queries[0]
	if q.Blockchain != "SOL" || q.AnalysisType != "basic" {
		t.Fatalf("query=%+v", q)
	}
	if len(repo.records) != 1 {
		t.Fatalf("records=%d", len(repo.records))
	}
	r := repo.records[0]
	if r.QueryID != q.ID {
		t.Fatalf("record query id=%d want %d", r.QueryID, q.ID)
	}
	var stored token.TokenProfile
	if err := json.Unmarshal(r.BasicMetrics, &stored); err != nil {
		t.Fatalf("stored metrics: %v", err)
	}
	if stored.Price != "23.45" {
		t.Fatalf("stored price=%q", stored.Price)
	}
}

func TestAnalyze_QueryLogFailureIsFatal(t *testing.T) {
	repo := &stubRepo{queryErr: errors.New("db down")}
	svc := &AnalysisService{
		Price:    &stubPriceSource{quote: token.PriceQuote{Price: "1"}},
		Metadata: &stubMetadataSource{},
		Repo:     repo,
	}

	_, err := svc.Analyze(context.Background(), AnalysisRequest{
		ContractAddress: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
		Blockchain:      "BASE",
		AnalysisType:    AnalysisTypeBasic,
	})
	if !errors.Is(err, ErrQueryLogFailed) {
		t.Fatalf("err=%v want ErrQueryLogFailed", err)
	}
	if len(repo.records) != 0 {
		t.Fatalf("record written after fatal query failure")
	}
}

func TestAnalyze_RecordWriteFailureIsSwallowed(t *testing.T) {
	repo := &stubRepo{recordErr: errors.New("db hiccup")}
	svc := &AnalysisService{
		Price:    &stubPriceSource{quote: token.PriceQuote{Price: "1"}},
		Metadata: &stubMetadataSource{},
		Repo:     repo,
	}

	result, err := svc.Analyze(context.Background(), AnalysisRequest{
		ContractAddress: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
		Blockchain:      "BASE",
		AnalysisType:    AnalysisTypeBasic,
	})
	if err != nil {
		t.Fatalf("record failure must not abort: %v", err)
	}
	if result.Profile.Price != "1" {
		t.Fatalf("price=%q", result.Profile.Price)
	}
}

func TestAnalyze_NoMeaningfulData(t *testing.T) {
	repo := &stubRepo{}
	svc := &AnalysisService{
		Price:    &stubPriceSource{quote: token.NeutralQuote(time.Now())},
		Metadata: &stubMetadataSource{},
		Repo:     repo,
	}

	result, err := svc.Analyze(context.Background(), AnalysisRequest{
		ContractAddress: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
		Blockchain:      "BASE",
		AnalysisType:    AnalysisTypeBasic,
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if result.ProcessError == nil || *result.ProcessError != "Failed to fetch basic token information." {
		t.Fatalf("process error=%v", result.ProcessError)
	}
	if len(repo.records) != 1 || repo.records[0].ProcessError == nil {
		t.Fatalf("process error not persisted")
	}
}

func TestAnalyze_AI(t *testing.T) {
	repo := &stubRepo{}
	summarizer := &stubProfileSummarizer{text: "Solid stablecoin."}
	social := &stubSocialAnalyzer{signal: token.SocialSignal{SearchSummary: strPtr("Mostly neutral chatter.")}}
	svc := &AnalysisService{
		Price:      &stubPriceSource{quote: token.PriceQuote{Price: "0.999", Symbol: "USDC"}},
		Metadata:   &stubMetadataSource{meta: usdcMeta()},
		Summarizer: summarizer,
		Social:     social,
		Repo:       repo,
	}

	result, err := svc.Analyze(context.Background(), AnalysisRequest{
		ContractAddress: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		Blockchain:      "SOL",
		AnalysisType:    AnalysisTypeAI,
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if result.AISummary == nil || *result.AISummary != "Solid stablecoin." {
		t.Fatalf("summary=%v", result.AISummary)
	}
	if result.Social == nil || result.Social.SearchSummary == nil {
		t.Fatalf("social=%+v", result.Social)
	}
	if summarizer.calls != 1 || social.calls != 1 {
		t.Fatalf("calls summarizer=%d social=%d", summarizer.calls, social.calls)
	}
	if len(repo.records) != 1 || repo.records[0].TwitterAnalysis == nil {
		t.Fatalf("social signal not persisted")
	}
}

func TestAnalyze_AISummarizerFailureStoredAsText(t *testing.T) {
	repo := &stubRepo{}
	summarizer := &stubProfileSummarizer{err: errors.New("model offline")}
	svc := &AnalysisService{
		Price:      &stubPriceSource{quote: token.PriceQuote{Price: "0.999", Symbol: "USDC"}},
		Metadata:   &stubMetadataSource{meta: usdcMeta()},
		Summarizer: summarizer,
		Social:     &stubSocialAnalyzer{},
		Repo:       repo,
	}

	result, err := svc.Analyze(context.Background(), AnalysisRequest{
		ContractAddress: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		Blockchain:      "SOL",
		AnalysisType:    AnalysisTypeAI,
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if result.AISummary == nil || !strings.HasPrefix(*result.AISummary, "AI summary generation failed:") {
		t.Fatalf("summary=%v", result.AISummary)
	}
	if result.Social != nil {
		t.Fatalf("empty social signal should stay nil")
	}
}

func TestAnalyze_AINoMeaningfulDataSkipsSummarizer(t *testing.T) {
	repo := &stubRepo{}
	summarizer := &stubProfileSummarizer{text: "should not be called"}
	svc := &AnalysisService{
		Price:      &stubPriceSource{quote: token.NeutralQuote(time.Now())},
		Metadata:   &stubMetadataSource{},
		Summarizer: summarizer,
		Social:     &stubSocialAnalyzer{},
		Repo:       repo,
	}

	result, err := svc.Analyze(context.Background(), AnalysisRequest{
		ContractAddress: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		Blockchain:      "SOL",
		AnalysisType:    AnalysisTypeAI,
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if summarizer.calls != 0 {
		t.Fatalf("summarizer called on hollow profile")
	}
	if result.AISummary == nil || *result.AISummary != "Could not retrieve sufficient basic token data to generate AI summary." {
		t.Fatalf("summary=%v", result.AISummary)
	}
	if result.ProcessError == nil || *result.ProcessError != "Failed to fetch meaningful basic data for AI summary." {
		t.Fatalf("process error=%v", result.ProcessError)
	}
}
