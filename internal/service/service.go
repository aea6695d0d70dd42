package service

import (
	"context"

	"tourguard/internal/domain"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go

// Repositories the use-case services consume. Implemented by
// internal/storage/postgres.
type IncidentRepository interface {
	Create(ctx context.Context, inc *domain.Incident) (int64, error)
	CreateAttachment(ctx context.Context, att *domain.Attachment) error
	List(ctx context.Context, q domain.IncidentQuery) ([]domain.Incident, int64, error)
	Get(ctx context.Context, id int64) (*domain.Incident, error)
	Update(ctx context.Context, id int64, upd domain.IncidentUpdate) error
	Recent(ctx context.Context, limit int) ([]domain.Incident, error)
}

type AlertRepository interface {
	Create(ctx context.Context, a *domain.SafetyAlert) (int64, error)
	List(ctx context.Context, f domain.AlertFilter) ([]domain.SafetyAlert, error)
	Get(ctx context.Context, id int64) (*domain.SafetyAlert, error)
	Update(ctx context.Context, id int64, upd domain.AlertUpdate) error
	Delete(ctx context.Context, id int64) error
}

type SOSRepository interface {
	Create(ctx context.Context, ev *domain.SOSEvent) (int64, error)
	Latest(ctx context.Context, limit int) ([]domain.SOSEvent, error)
	UpdateStatus(ctx context.Context, id int64, status domain.SOSStatus) error
}

type LocationRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, f domain.LocationFilter) ([]domain.Location, error)
	Get(ctx context.Context, id int64) (*domain.Location, error)
}

type StatsRepository interface {
	Overview(ctx context.Context) (domain.IncidentOverview, error)
	TypeBreakdown(ctx context.Context) ([]domain.TypeCount, error)
	LocationStats(ctx context.Context) ([]domain.LocationStat, error)
	LocationTypeStats(ctx context.Context) ([]domain.LocationTypeStat, error)
}

type ReferenceRepository interface {
	Contacts(ctx context.Context) ([]domain.EmergencyContact, error)
	Tips(ctx context.Context) ([]domain.SafetyTip, error)
}

// NotifyQueue receives SOS notifications for out-of-request delivery.
type NotifyQueue interface {
	Enqueue(ctx context.Context, payload domain.SOSNotification) error
}

// Use-case interfaces consumed by the HTTP layer.
type IncidentService interface {
	Create(ctx context.Context, req domain.CreateIncidentRequest, reporterID int64) (int64, error)
	CreateSimple(ctx context.Context, req domain.CreateSimpleIncidentRequest, reporterID int64) (int64, error)
	List(ctx context.Context, caller domain.Identity, req domain.ListIncidentsRequest) (*domain.ListIncidentsResponse, error)
	Get(ctx context.Context, caller domain.Identity, id int64) (*domain.Incident, error)
	Update(ctx context.Context, caller domain.Identity, id int64, req domain.UpdateIncidentRequest) error
}

type AlertService interface {
	Create(ctx context.Context, req domain.CreateAlertRequest, creatorID int64) (int64, error)
	List(ctx context.Context, f domain.AlertFilter) ([]domain.SafetyAlert, error)
	Get(ctx context.Context, id int64) (*domain.SafetyAlert, error)
	Update(ctx context.Context, id int64, req domain.UpdateAlertRequest) error
	Delete(ctx context.Context, id int64) error
	Feed(ctx context.Context) (*domain.AlertFeed, error)
	EmergencyInfo(ctx context.Context) (*domain.EmergencyInfo, error)
}

type SOSService interface {
	Create(ctx context.Context, req domain.CreateSOSRequest, touristID int64) (int64, error)
	ListLatest(ctx context.Context, limit int) ([]domain.SOSEvent, error)
	UpdateStatus(ctx context.Context, id int64, status domain.SOSStatus) error
}

type StatsService interface {
	Overview(ctx context.Context) (*domain.StatsOverview, error)
	LocationStats(ctx context.Context) (*domain.LocationStats, error)
}

type LocationService interface {
	List(ctx context.Context, f domain.LocationFilter) ([]domain.Location, error)
	Get(ctx context.Context, id int64) (*domain.Location, error)
}

type Service struct {
	Incidents IncidentService
	Alerts    AlertService
	SOS       SOSService
	Stats     StatsService
	Locations LocationService
}

func NewService(
	incidents IncidentService,
	alerts AlertService,
	sos SOSService,
	stats StatsService,
	locations LocationService,
) *Service {
	return &Service{
		Incidents: incidents,
		Alerts:    alerts,
		SOS:       sos,
		Stats:     stats,
		Locations: locations,
	}
}
