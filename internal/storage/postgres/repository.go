package postgres

import (
	"context"

	"tourguard/internal/domain"
)

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

func (p *Postgres) Incidents() IncidentRepository  { return p.Incident }
func (p *Postgres) Alerts() AlertRepository        { return p.Alert }
func (p *Postgres) SOSEvents() SOSRepository       { return p.SOS }
func (p *Postgres) Locations() LocationRepository  { return p.Location }
func (p *Postgres) Stats() StatsRepository         { return p.Stat }
func (p *Postgres) References() ReferenceRepository { return p.Reference }
