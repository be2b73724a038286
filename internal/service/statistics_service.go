package service

import (
	"context"

	"rentals/internal/model"
	"rentals/internal/repository"
)

type StatisticsService interface {
	GetDashboardStats(ctx context.Context) (*model.DashboardStats, error)
}

type statisticsService struct {
	repo repository.StatisticsRepository
}

func NewStatisticsService(repo repository.StatisticsRepository) StatisticsService {
	return &statisticsService{repo: repo}
}

// GetDashboardStats aggregates record totals and per-state breakdowns for the overview cards
func (s *statisticsService) GetDashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	var stats model.DashboardStats

	totals := []struct {
		table interface{}
		dst   *int64
	}{
		{&model.Entity{}, &stats.Entities},
		{&model.Contact{}, &stats.Contacts},
		{&model.Asset{}, &stats.Assets},
		{&model.Contract{}, &stats.Contracts},
		{&model.Invoice{}, &stats.Invoices},
	}
	for _, t := range totals {
		n, err := s.repo.CountAll(ctx, t.table)
		if err != nil {
			return nil, dbError(err, "statistics")
		}
		*t.dst = n
	}

	var err error
	if stats.AssetsByState, err = s.repo.CountByState(ctx, &model.Asset{}); err != nil {
		return nil, dbError(err, "statistics")
	}
	if stats.ContractsByState, err = s.repo.CountByState(ctx, &model.Contract{}); err != nil {
		return nil, dbError(err, "statistics")
	}
	if stats.InvoicesByState, err = s.repo.CountByState(ctx, &model.Invoice{}); err != nil {
		return nil, dbError(err, "statistics")
	}
	return &stats, nil
}
