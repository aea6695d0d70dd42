package service

import (
	"context"

	"tourguard/internal/domain"
)

type locationService struct {
	repo LocationRepository
}

func NewLocationService(repo LocationRepository) LocationService {
	return &locationService{repo: repo}
}

func (s *locationService) List(ctx context.Context, f domain.LocationFilter) ([]domain.Location, error) {
	locations, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if locations == nil {
		locations = []domain.Location{}
	}
	return locations, nil
}

func (s *locationService) Get(ctx context.Context, id int64) (*domain.Location, error) {
	return s.repo.Get(ctx, id)
}
