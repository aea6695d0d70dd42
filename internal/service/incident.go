package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"tourguard/internal/domain"
	"tourguard/pkg/e"
	"tourguard/pkg/validator"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

type incidentService struct {
	repo   IncidentRepository
	policy domain.TransitionPolicy
	logger *slog.Logger
}

func NewIncidentService(repo IncidentRepository, policy domain.TransitionPolicy, logger *slog.Logger) IncidentService {
	if policy == nil {
		policy = domain.FreeTransitions{}
	}
	return &incidentService{repo: repo, policy: policy, logger: logger}
}

func (s *incidentService) Create(ctx context.Context, req domain.CreateIncidentRequest, reporterID int64) (int64, error) {
	if err := validator.ValidateStruct(&req); err != nil {
		return 0, err
	}

	inc := &domain.Incident{
		Title:        req.Title,
		Description:  req.Description,
		IncidentType: req.IncidentType,
		Severity:     req.Severity,
		Status:       domain.StatusReported,
		LocationID:   req.LocationID,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		ReporterID:   reporterID,
	}

	id, err := s.repo.Create(ctx, inc)
	if err != nil {
		return 0, err
	}

	s.logger.Info("incident created",
		slog.Int64("id", id),
		slog.String("type", string(req.IncidentType)),
		slog.String("severity", string(req.Severity)),
	)
	return id, nil
}

// CreateSimple is the lightweight reporting path: severity forced to low,
// title derived from the category. The attachment insert after the incident
// row commits is best-effort; its failure is logged and swallowed.
func (s *incidentService) CreateSimple(ctx context.Context, req domain.CreateSimpleIncidentRequest, reporterID int64) (int64, error) {
	if err := validator.ValidateStruct(&req); err != nil {
		return 0, err
	}

	inc := &domain.Incident{
		Title:        strings.ToUpper(string(req.Category)),
		Description:  req.Description,
		IncidentType: req.Category,
		Severity:     domain.SeverityLow,
		Status:       domain.StatusReported,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		ReporterID:   reporterID,
	}

	id, err := s.repo.Create(ctx, inc)
	if err != nil {
		return 0, err
	}

	if req.PhotoBase64 != "" {
		if err := s.saveAttachment(ctx, id, reporterID, req); err != nil {
			s.logger.Warn("photo not saved, continuing without attachment",
				slog.Int64("incident_id", id),
				slog.Any("error", err),
			)
		}
	}

	return id, nil
}

func (s *incidentService) saveAttachment(ctx context.Context, incidentID, uploaderID int64, req domain.CreateSimpleIncidentRequest) error {
	data, err := base64.StdEncoding.DecodeString(req.PhotoBase64)
	if err != nil {
		return err
	}

	fileType := req.PhotoType
	if fileType == "" {
		fileType = "image/jpeg"
	}
	ext := "jpg"
	if fileType == "image/png" {
		ext = "png"
	}

	name := fmt.Sprintf("incident_%d.%s", incidentID, ext)
	return s.repo.CreateAttachment(ctx, &domain.Attachment{
		IncidentID: incidentID,
		FileName:   name,
		FilePath:   "inline:" + name,
		FileType:   fileType,
		FileSize:   int64(len(data)),
		UploadedBy: uploaderID,
	})
}

func (s *incidentService) List(ctx context.Context, caller domain.Identity, req domain.ListIncidentsRequest) (*domain.ListIncidentsResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	q := domain.IncidentQuery{
		Filter: req.Filter,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	if caller.Role == domain.RoleTourist {
		uid := caller.UserID
		q.VisibleTo = &uid
	}

	incidents, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	if incidents == nil {
		incidents = []domain.Incident{}
	}

	return &domain.ListIncidentsResponse{
		Incidents: incidents,
		Page: domain.PaginationInfo{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: int((total + int64(limit) - 1) / int64(limit)),
		},
	}, nil
}

func (s *incidentService) Get(ctx context.Context, caller domain.Identity, id int64) (*domain.Incident, error) {
	inc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canViewIncident(caller, inc) {
		return nil, fmt.Errorf("incident %d: %w", id, e.ErrForbidden)
	}
	return inc, nil
}

func (s *incidentService) Update(ctx context.Context, caller domain.Identity, id int64, req domain.UpdateIncidentRequest) error {
	if !caller.Role.Elevated() {
		return fmt.Errorf("incident update: %w", e.ErrForbidden)
	}
	if req.Empty() {
		return e.Invalid("no valid fields to update")
	}
	if err := validator.ValidateStruct(&req); err != nil {
		return err
	}

	cur, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	stamp := false
	if req.Status != nil {
		if !s.policy.Allowed(cur.Status, *req.Status) {
			return e.Invalid(fmt.Sprintf("status transition %s -> %s not allowed", cur.Status, *req.Status))
		}
		// resolved_at is re-stamped every time a resolving status is written,
		// even if it was already set
		stamp = req.Status.Resolving()
	}

	return s.repo.Update(ctx, id, domain.IncidentUpdate{
		Status:            req.Status,
		AssignedOfficerID: req.AssignedOfficerID,
		Description:       req.Description,
		StampResolved:     stamp,
	})
}
