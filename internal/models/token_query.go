package models

import (
	"time"
)

// TokenQuery is the first ledger row: one per inbound request, written once
// and never updated.
type TokenQuery struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	ContractAddress string `gorm:"type:varchar(100);not null;index" json:"contract_address"`
	Blockchain      string `gorm:"type:varchar(10);not null;index" json:"blockchain"`
	AnalysisType    string `gorm:"type:varchar(10);not null" json:"analysis_type"`

	QueriedAt time.Time `gorm:"type:timestamptz;not null" json:"queried_at"`
	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index" json:"created_at"`
}

func (TokenQuery) TableName() string {
	return "token_queries"
}
