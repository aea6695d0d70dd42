package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"tourguard/internal/domain"
	"tourguard/pkg/e"
	"tourguard/pkg/validator"
)

const defaultSOSLimit = 20

type sosService struct {
	repo   SOSRepository
	queue  NotifyQueue
	logger *slog.Logger
}

func NewSOSService(repo SOSRepository, queue NotifyQueue, logger *slog.Logger) SOSService {
	return &sosService{repo: repo, queue: queue, logger: logger}
}

func (s *sosService) Create(ctx context.Context, req domain.CreateSOSRequest, touristID int64) (int64, error) {
	if err := validator.ValidateStruct(&req); err != nil {
		return 0, err
	}

	ev := &domain.SOSEvent{
		TouristID: touristID,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Location:  req.Location,
		Status:    domain.SOSActive,
	}

	id, err := s.repo.Create(ctx, ev)
	if err != nil {
		return 0, err
	}

	s.logger.Info("sos received",
		slog.Int64("id", id),
		slog.Int64("tourist_id", touristID),
		slog.Float64("lat", ev.Latitude),
		slog.Float64("lng", ev.Longitude),
	)

	// delivery is best-effort: the SOS row is already durable
	if s.queue != nil {
		payload := domain.SOSNotification{
			EventID:   uuid.New(),
			SOSID:     id,
			TouristID: touristID,
			Latitude:  ev.Latitude,
			Longitude: ev.Longitude,
			Location:  ev.Location,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.queue.Enqueue(ctx, payload); err != nil {
			s.logger.Warn("sos notification enqueue failed", slog.Int64("sos_id", id), slog.Any("error", err))
		}
	}

	return id, nil
}

func (s *sosService) ListLatest(ctx context.Context, limit int) ([]domain.SOSEvent, error) {
	if limit <= 0 {
		limit = defaultSOSLimit
	}
	events, err := s.repo.Latest(ctx, limit)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []domain.SOSEvent{}
	}
	return events, nil
}

// UpdateStatus accepts any of the three values in any order and does not
// check ownership; any authenticated caller may change any event.
func (s *sosService) UpdateStatus(ctx context.Context, id int64, status domain.SOSStatus) error {
	if !status.Valid() {
		return e.Invalid("status must be one of [active acknowledged resolved]")
	}
	return s.repo.UpdateStatus(ctx, id, status)
}
