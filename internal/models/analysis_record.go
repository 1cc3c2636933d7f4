package models

import (
	"time"

	"gorm.io/datatypes"
)

// AnalysisRecord is the second ledger row, keyed to a TokenQuery. The insert
// is best-effort: losing this row is acceptable, losing the query row is not.
type AnalysisRecord struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	QueryID      uint64 `gorm:"not null;index" json:"query_id"`
	AnalysisType string `gorm:"type:varchar(10);not null" json:"analysis_type"`

	AISummary       *string        `gorm:"type:text" json:"ai_summary,omitempty"`
	TwitterAnalysis datatypes.JSON `gorm:"type:jsonb" json:"twitter_analysis,omitempty"`
	BasicMetrics    datatypes.JSON `gorm:"type:jsonb" json:"basic_metrics,omitempty"`
	ProcessError    *string        `gorm:"type:text" json:"process_error,omitempty"`

	CompletedAt time.Time `gorm:"type:timestamptz;not null" json:"completed_at"`
	CreatedAt   time.Time `gorm:"type:timestamptz;autoCreateTime;index" json:"created_at"`
}

func (AnalysisRecord) TableName() string {
	return "analysis_records"
}
