package repository

import (
	"context"
	"fmt"

	"rentals/internal/model"

	"gorm.io/gorm"
)

type StatisticsRepository interface {
	CountAll(ctx context.Context, table interface{}) (int64, error)
	CountByState(ctx context.Context, table interface{}) ([]model.StateCount, error)
}

type statisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

// CountAll counts the rows of the table backing the given model pointer, e.g. &model.Asset{}.
func (r *statisticsRepository) CountAll(ctx context.Context, table interface{}) (int64, error) {
	var total int64
	if err := GetDB(ctx, r.db).Model(table).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return total, nil
}

// CountByState groups the rows of a model with a state column by that state.
func (r *statisticsRepository) CountByState(ctx context.Context, table interface{}) ([]model.StateCount, error) {
	var counts []model.StateCount
	if err := GetDB(ctx, r.db).Model(table).
		Select("state, COUNT(*) AS count").
		Group("state").
		Order("state").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to count rows by state: %w", err)
	}
	return counts, nil
}
