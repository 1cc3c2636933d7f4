package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"tokenlens/internal/repository"
)

// RetentionService prunes ledger rows past the configured age. The request
// path only ever appends; pruning is an operator concern and is disabled by
// default.
type RetentionService struct {
	Repo   repository.Repository
	Logger *zap.Logger
	MaxAge time.Duration
}

func (s *RetentionService) Prune(ctx context.Context) error {
	if s == nil || s.Repo == nil || s.MaxAge <= 0 {
		return nil
	}
	cutoff := time.Now().UTC().Add(-s.MaxAge)

	// Records first so no record ever outlives its query row.
	records, err := s.Repo.DeleteAnalysisRecordsBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	queries, err := s.Repo.DeleteTokenQueriesBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if s.Logger != nil && (records > 0 || queries > 0) {
		s.Logger.Info("ledger retention pruned",
			zap.Int64("analysis_records", records),
			zap.Int64("token_queries", queries),
			zap.Time("cutoff", cutoff),
		)
	}
	return nil
}
