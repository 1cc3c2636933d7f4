package gormrepository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"tokenlens/internal/models"
	"tokenlens/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateTokenQuery(ctx context.Context, item *models.TokenQuery) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) CreateAnalysisRecord(ctx context.Context, item *models.AnalysisRecord) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListTokenQueries(ctx context.Context, params repository.ListTokenQueriesParams) ([]models.TokenQuery, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.applyQueryFilters(s.db.WithContext(ctx).Model(&models.TokenQuery{}), params)
	limit := normalizeLimit(params.Limit, 50)
	offset := normalizeOffset(params.Offset)
	var items []models.TokenQuery
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountTokenQueries(ctx context.Context, params repository.ListTokenQueriesParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	query := s.applyQueryFilters(s.db.WithContext(ctx).Model(&models.TokenQuery{}), params)
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) applyQueryFilters(query *gorm.DB, params repository.ListTokenQueriesParams) *gorm.DB {
	if params.Blockchain != nil && strings.TrimSpace(*params.Blockchain) != "" {
		query = query.Where("blockchain = ?", strings.ToUpper(strings.TrimSpace(*params.Blockchain)))
	}
	if params.ContractAddress != nil && strings.TrimSpace(*params.ContractAddress) != "" {
		query = query.Where("contract_address = ?", strings.TrimSpace(*params.ContractAddress))
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("created_at >= ?", *params.Since)
	}
	if params.Until != nil && !params.Until.IsZero() {
		query = query.Where("created_at < ?", *params.Until)
	}
	return query
}

func (s *Store) ListAnalysisRecordsByQueryIDs(ctx context.Context, queryIDs []uint64) ([]models.AnalysisRecord, error) {
	if s == nil || s.db == nil || len(queryIDs) == 0 {
		return nil, nil
	}
	var items []models.AnalysisRecord
	if err := s.db.WithContext(ctx).
		Where("query_id IN ?", queryIDs).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) DeleteAnalysisRecordsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.AnalysisRecord{})
	return res.RowsAffected, res.Error
}

func (s *Store) DeleteTokenQueriesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.TokenQuery{})
	return res.RowsAffected, res.Error
}

func normalizeLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
