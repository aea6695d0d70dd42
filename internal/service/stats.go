package service

import (
	"context"

	"tourguard/internal/domain"
)

type statsService struct {
	stats     StatsRepository
	incidents IncidentRepository
}

func NewStatsService(stats StatsRepository, incidents IncidentRepository) StatsService {
	return &statsService{stats: stats, incidents: incidents}
}

// Overview runs its aggregates as independent reads against the same store.
// No isolation is assumed across them; slight skew under concurrent writes is
// accepted.
func (s *statsService) Overview(ctx context.Context) (*domain.StatsOverview, error) {
	overview, err := s.stats.Overview(ctx)
	if err != nil {
		return nil, err
	}

	types, err := s.stats.TypeBreakdown(ctx)
	if err != nil {
		return nil, err
	}
	if types == nil {
		types = []domain.TypeCount{}
	}

	recent, err := s.incidents.Recent(ctx, 5)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []domain.Incident{}
	}

	return &domain.StatsOverview{
		Overview:        overview,
		TypeBreakdown:   types,
		RecentIncidents: recent,
	}, nil
}

func (s *statsService) LocationStats(ctx context.Context) (*domain.LocationStats, error) {
	locations, err := s.stats.LocationStats(ctx)
	if err != nil {
		return nil, err
	}
	if locations == nil {
		locations = []domain.LocationStat{}
	}

	types, err := s.stats.LocationTypeStats(ctx)
	if err != nil {
		return nil, err
	}
	if types == nil {
		types = []domain.LocationTypeStat{}
	}

	return &domain.LocationStats{Locations: locations, TypeBreakdown: types}, nil
}
