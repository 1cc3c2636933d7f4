package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"tokenlens/internal/ai"
	"tokenlens/internal/models"
	"tokenlens/internal/repository"
	"tokenlens/internal/token"
)

const (
	AnalysisTypeBasic = "basic"
	AnalysisTypeAI    = "ai"
)

// ErrQueryLogFailed marks a failed first-phase ledger write. It is the only
// persistence failure that aborts the request: without the query id there is
// nothing to key the result row to.
var ErrQueryLogFailed = fmt.Errorf("failed to log query, cannot store results")

type PriceSource interface {
	Fetch(ctx context.Context, contractAddress, blockchain string) token.PriceQuote
}

type MetadataSource interface {
	Fetch(ctx context.Context, contractAddress, blockchain string) token.TokenMetadata
}

type ProfileSummarizer interface {
	Summarize(ctx context.Context, profile token.TokenProfile) (string, error)
}

type SocialAnalyzer interface {
	Analyze(ctx context.Context, symbol, contractAddress, handle string) token.SocialSignal
}

type AnalysisService struct {
	Price      PriceSource
	Metadata   MetadataSource
	Summarizer ProfileSummarizer
	Social     SocialAnalyzer
	Repo       repository.Repository
	Logger     *zap.Logger
}

type AnalysisRequest struct {
	ContractAddress string
	Blockchain      string
	AnalysisType    string
}

type AnalysisResult struct {
	Profile      token.TokenProfile
	AISummary    *string
	Social       *token.SocialSignal
	ProcessError *string
}

// Analyze runs one aggregation end to end: both data-source fetches in
// parallel, merge, then (for AI requests) narrative summarization and the
// social fetch in parallel, and finally the two-phase ledger write.
func (s *AnalysisService) Analyze(ctx context.Context, req AnalysisRequest) (AnalysisResult, error) {
	var (
		quote token.PriceQuote
		meta  token.TokenMetadata
		wg    sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		quote = s.Price.Fetch(ctx, req.ContractAddress, req.Blockchain)
	}()
	go func() {
		defer wg.Done()
		meta = s.Metadata.Fetch(ctx, req.ContractAddress, req.Blockchain)
	}()
	wg.Wait()

	result := AnalysisResult{Profile: token.Merge(quote, meta)}

	if !result.Profile.Meaningful() {
		msg := "Failed to fetch basic token information."
		if req.AnalysisType == AnalysisTypeAI {
			msg = "Failed to fetch meaningful basic data for AI summary."
		}
		result.ProcessError = &msg
	}

	if req.AnalysisType == AnalysisTypeAI {
		s.runAIAnalysis(ctx, req, &result)
	}

	if err := s.persist(ctx, req, result); err != nil {
		return AnalysisResult{}, err
	}
	return result, nil
}

func (s *AnalysisService) runAIAnalysis(ctx context.Context, req AnalysisRequest, result *AnalysisResult) {
	symbol := result.Profile.Symbol
	if symbol == "" {
		addr := req.ContractAddress
		if len(addr) > 8 {
			addr = addr[:8]
		}
		symbol = addr
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var summary string
		if result.Profile.Meaningful() {
			text, err := s.Summarizer.Summarize(ctx, result.Profile)
			if err != nil {
				s.warnErr("ai summary failed", req, err)
				text = ai.FailureText(err)
			}
			summary = text
		} else {
			summary = ai.FailureText(ai.ErrInsufficientData)
		}
		result.AISummary = &summary
	}()

	go func() {
		defer wg.Done()
		signal := s.Social.Analyze(ctx, symbol, req.ContractAddress, result.Profile.TwitterHandle())
		if !signal.IsEmpty() {
			result.Social = &signal
		}
	}()

	wg.Wait()
}

// persist writes the two ledger rows as independent phases: the query row
// failure is fatal, the record row failure is logged and swallowed.
func (s *AnalysisService) persist(ctx context.Context, req AnalysisRequest, result AnalysisResult) error {
	query := &models.TokenQuery{
		ContractAddress: req.ContractAddress,
		Blockchain:      req.Blockchain,
		AnalysisType:    req.AnalysisType,
		QueriedAt:       time.Now().UTC(),
	}
	if err := s.Repo.CreateTokenQuery(ctx, query); err != nil {
		s.warnErr("query ledger write failed", req, err)
		return fmt.Errorf("%w: %v", ErrQueryLogFailed, err)
	}

	record := &models.AnalysisRecord{
		QueryID:      query.ID,
		AnalysisType: req.AnalysisType,
		AISummary:    result.AISummary,
		ProcessError: result.ProcessError,
		CompletedAt:  time.Now().UTC(),
	}
	if result.Social != nil {
		if raw, err := json.Marshal(result.Social); err == nil {
			record.TwitterAnalysis = datatypes.JSON(raw)
		}
	}
	if raw, err := json.Marshal(result.Profile); err == nil {
		record.BasicMetrics = datatypes.JSON(raw)
	}

	if err := s.Repo.CreateAnalysisRecord(ctx, record); err != nil {
		s.warnErr("analysis record write failed", req, err)
	}
	return nil
}

func (s *AnalysisService) warnErr(msg string, req AnalysisRequest, err error) {
	if s.Logger == nil {
		return
	}
	s.Logger.Warn(msg,
		zap.String("contract_address", req.ContractAddress),
		zap.String("blockchain", req.Blockchain),
		zap.Error(err),
	)
}
