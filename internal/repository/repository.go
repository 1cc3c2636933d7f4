package repository

import (
	"context"
	"time"

	"tokenlens/internal/models"
)

type ListTokenQueriesParams struct {
	Limit           int
	Offset          int
	Blockchain      *string
	ContractAddress *string
	Since           *time.Time
	Until           *time.Time
}

// Repository is the ledger: an append-only log of queries and their results.
type Repository interface {
	// CreateTokenQuery inserts the query row and fills its id. A failure here
	// is fatal for the request: the id is the foreign key for the result row.
	CreateTokenQuery(ctx context.Context, item *models.TokenQuery) error

	// CreateAnalysisRecord inserts the result row. Best-effort: callers log
	// a failure and still return the aggregation to the user.
	CreateAnalysisRecord(ctx context.Context, item *models.AnalysisRecord) error

	ListTokenQueries(ctx context.Context, params ListTokenQueriesParams) ([]models.TokenQuery, error)
	CountTokenQueries(ctx context.Context, params ListTokenQueriesParams) (int64, error)
	ListAnalysisRecordsByQueryIDs(ctx context.Context, queryIDs []uint64) ([]models.AnalysisRecord, error)

	DeleteAnalysisRecordsBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteTokenQueriesBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
