package service

import (
	"context"
	"log/slog"
	"time"

	"tourguard/internal/domain"
	"tourguard/pkg/e"
	"tourguard/pkg/validator"
)

type alertService struct {
	repo      AlertRepository
	locations LocationRepository
	incidents IncidentRepository
	sos       SOSRepository
	refs      ReferenceRepository
	logger    *slog.Logger
}

func NewAlertService(
	repo AlertRepository,
	locations LocationRepository,
	incidents IncidentRepository,
	sos SOSRepository,
	refs ReferenceRepository,
	logger *slog.Logger,
) AlertService {
	return &alertService{
		repo:      repo,
		locations: locations,
		incidents: incidents,
		sos:       sos,
		refs:      refs,
		logger:    logger,
	}
}

func (s *alertService) Create(ctx context.Context, req domain.CreateAlertRequest, creatorID int64) (int64, error) {
	if err := validator.ValidateStruct(&req); err != nil {
		return 0, err
	}

	// unlike incidents, alert location references must resolve
	if req.LocationID != nil {
		found, err := s.locations.Exists(ctx, *req.LocationID)
		if err != nil {
			return 0, err
		}
		if !found {
			return 0, e.Invalid("invalid locationId: location does not exist")
		}
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	a := &domain.SafetyAlert{
		Title:      req.Title,
		Message:    req.Message,
		AlertType:  req.AlertType,
		Severity:   req.Severity,
		LocationID: req.LocationID,
		IsActive:   isActive,
		ExpiresAt:  normalizeExpiry(req.ExpiresAt),
		CreatedBy:  creatorID,
	}

	id, err := s.repo.Create(ctx, a)
	if err != nil {
		return 0, err
	}

	s.logger.Info("safety alert created",
		slog.Int64("id", id),
		slog.String("type", string(req.AlertType)),
		slog.String("severity", string(req.Severity)),
	)
	return id, nil
}

// normalizeExpiry pins expiry timestamps to UTC at second precision before
// they reach storage.
func normalizeExpiry(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	n := t.UTC().Truncate(time.Second)
	return &n
}

func (s *alertService) List(ctx context.Context, f domain.AlertFilter) ([]domain.SafetyAlert, error) {
	alerts, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if alerts == nil {
		alerts = []domain.SafetyAlert{}
	}
	return alerts, nil
}

func (s *alertService) Get(ctx context.Context, id int64) (*domain.SafetyAlert, error) {
	return s.repo.Get(ctx, id)
}

func (s *alertService) Update(ctx context.Context, id int64, req domain.UpdateAlertRequest) error {
	if req.Empty() {
		return e.Invalid("no valid fields to update")
	}
	if err := validator.ValidateStruct(&req); err != nil {
		return err
	}

	return s.repo.Update(ctx, id, domain.AlertUpdate{
		Title:      req.Title,
		Message:    req.Message,
		AlertType:  req.AlertType,
		Severity:   req.Severity,
		LocationID: req.LocationID,
		IsActive:   req.IsActive,
		ExpiresAt:  normalizeExpiry(req.ExpiresAt),
	})
}

func (s *alertService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Feed returns the combined recent-activity view. A failing SOS read degrades
// to an empty list instead of failing the whole feed.
func (s *alertService) Feed(ctx context.Context) (*domain.AlertFeed, error) {
	incidents, err := s.incidents.Recent(ctx, 20)
	if err != nil {
		return nil, err
	}
	if incidents == nil {
		incidents = []domain.Incident{}
	}

	sos, err := s.sos.Latest(ctx, 20)
	if err != nil {
		s.logger.Warn("sos feed unavailable, returning empty list", slog.Any("error", err))
		sos = nil
	}
	if sos == nil {
		sos = []domain.SOSEvent{}
	}

	return &domain.AlertFeed{Incidents: incidents, SOS: sos}, nil
}

func (s *alertService) EmergencyInfo(ctx context.Context) (*domain.EmergencyInfo, error) {
	contacts, err := s.refs.Contacts(ctx)
	if err != nil {
		return nil, err
	}
	tips, err := s.refs.Tips(ctx)
	if err != nil {
		return nil, err
	}
	if contacts == nil {
		contacts = []domain.EmergencyContact{}
	}
	if tips == nil {
		tips = []domain.SafetyTip{}
	}
	return &domain.EmergencyInfo{Contacts: contacts, Tips: tips}, nil
}
