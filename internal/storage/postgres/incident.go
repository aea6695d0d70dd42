package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tourguard/internal/domain"
	"tourguard/pkg/e"
)

type IncidentRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewIncidentRepo(pool *pgxpool.Pool, logger *slog.Logger) *IncidentRepo {
	return &IncidentRepo{pool: pool, logger: logger}
}

const incidentJoinedColumns = `
		i.id, i.title, i.description, i.incident_type, i.severity, i.status,
		i.location_id, i.latitude, i.longitude,
		i.reporter_id, i.assigned_officer_id, i.created_at, i.resolved_at,
		l.name AS location_name,
		u.first_name || ' ' || u.last_name AS reporter_name,
		o.first_name || ' ' || o.last_name AS assigned_officer_name`

const incidentJoins = `
	FROM incidents i
	LEFT JOIN locations l ON l.id = i.location_id
	LEFT JOIN users u ON u.id = i.reporter_id
	LEFT JOIN users o ON o.id = i.assigned_officer_id`

func (p *IncidentRepo) Create(ctx context.Context, inc *domain.Incident) (int64, error) {
	const op = "postgres.Incident.Create"

	const query = `
		INSERT INTO incidents
			(title, description, incident_type, severity, status, location_id,
			 latitude, longitude, reporter_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	if inc.Status == "" {
		inc.Status = domain.StatusReported
	}

	err := p.pool.QueryRow(ctx, query,
		inc.Title,
		inc.Description,
		inc.IncidentType,
		inc.Severity,
		inc.Status,
		inc.LocationID,
		inc.Latitude,
		inc.Longitude,
		inc.ReporterID,
	).Scan(&inc.ID, &inc.CreatedAt)
	if err != nil {
		p.logger.Error("db insert failed", slog.String("op", op), slog.Any("error", err))
		return 0, e.WrapError(ctx, op, err)
	}

	return inc.ID, nil
}

func (p *IncidentRepo) CreateAttachment(ctx context.Context, att *domain.Attachment) error {
	const op = "postgres.Incident.CreateAttachment"

	const query = `
		INSERT INTO incident_attachments
			(incident_id, file_name, file_path, file_type, file_size, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, uploaded_at
	`

	err := p.pool.QueryRow(ctx, query,
		att.IncidentID,
		att.FileName,
		att.FilePath,
		att.FileType,
		att.FileSize,
		att.UploadedBy,
	).Scan(&att.ID, &att.UploadedAt)
	if err != nil {
		p.logger.Error("db insert failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}

	return nil
}

// whereClause builds the shared predicate for List and its count so the two
// can never disagree.
func whereClause(q domain.IncidentQuery) (string, []any) {
	var b strings.Builder
	b.WriteString(" WHERE 1=1")
	args := make([]any, 0, 5)

	add := func(cond string, val any) {
		args = append(args, val)
		fmt.Fprintf(&b, " AND %s = $%d", cond, len(args))
	}

	if q.Filter.Status != "" {
		add("i.status", q.Filter.Status)
	}
	if q.Filter.Severity != "" {
		add("i.severity", q.Filter.Severity)
	}
	if q.Filter.Type != "" {
		add("i.incident_type", q.Filter.Type)
	}
	if q.Filter.LocationID != nil {
		add("i.location_id", *q.Filter.LocationID)
	}
	if q.VisibleTo != nil {
		args = append(args, *q.VisibleTo)
		fmt.Fprintf(&b, " AND (i.reporter_id = $%d OR i.status = 'resolved')", len(args))
	}

	return b.String(), args
}

func (p *IncidentRepo) List(ctx context.Context, q domain.IncidentQuery) ([]domain.Incident, int64, error) {
	const op = "postgres.Incident.List"

	where, args := whereClause(q)

	countQuery := "SELECT COUNT(*) FROM incidents i" + where
	var total int64
	if err := p.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		p.logger.Error("db count failed", slog.String("op", op), slog.Any("error", err))
		return nil, 0, e.WrapError(ctx, op, err)
	}

	listQuery := "SELECT" + incidentJoinedColumns + incidentJoins + where +
		fmt.Sprintf(" ORDER BY i.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, q.Limit, q.Offset)

	rows, err := p.pool.Query(ctx, listQuery, args...)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, 0, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	incidents, err := scanIncidents(rows)
	if err != nil {
		p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
		return nil, 0, e.WrapError(ctx, op, err)
	}

	return incidents, total, nil
}

func (p *IncidentRepo) Get(ctx context.Context, id int64) (*domain.Incident, error) {
	const op = "postgres.Incident.Get"

	query := "SELECT" + incidentJoinedColumns + incidentJoins + " WHERE i.id = $1"

	var inc domain.Incident
	err := p.pool.QueryRow(ctx, query, id).Scan(
		&inc.ID, &inc.Title, &inc.Description, &inc.IncidentType, &inc.Severity, &inc.Status,
		&inc.LocationID, &inc.Latitude, &inc.Longitude,
		&inc.ReporterID, &inc.AssignedOfficerID, &inc.CreatedAt, &inc.ResolvedAt,
		&inc.LocationName, &inc.ReporterName, &inc.AssignedOfficerName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.Int64("id", id))
		return nil, e.WrapError(ctx, op, err)
	}

	return &inc, nil
}

func (p *IncidentRepo) Update(ctx context.Context, id int64, upd domain.IncidentUpdate) error {
	const op = "postgres.Incident.Update"

	sets := make([]string, 0, 4)
	args := make([]any, 0, 4)

	set := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if upd.Status != nil {
		set("status", *upd.Status)
	}
	if upd.AssignedOfficerID != nil {
		set("assigned_officer_id", *upd.AssignedOfficerID)
	}
	if upd.Description != nil {
		set("description", *upd.Description)
	}
	if upd.StampResolved {
		sets = append(sets, "resolved_at = NOW()")
	}
	if len(sets) == 0 {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE incidents SET %s WHERE id = $%d",
		strings.Join(sets, ", "), len(args))

	cmd, err := p.pool.Exec(ctx, query, args...)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.Int64("id", id))
		return e.WrapError(ctx, op, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}

	return nil
}

func (p *IncidentRepo) Recent(ctx context.Context, limit int) ([]domain.Incident, error) {
	const op = "postgres.Incident.Recent"

	query := "SELECT" + incidentJoinedColumns + incidentJoins +
		" ORDER BY i.created_at DESC LIMIT $1"

	rows, err := p.pool.Query(ctx, query, limit)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	incidents, err := scanIncidents(rows)
	if err != nil {
		p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return incidents, nil
}

func scanIncidents(rows pgx.Rows) ([]domain.Incident, error) {
	var incidents []domain.Incident
	for rows.Next() {
		var inc domain.Incident
		if err := rows.Scan(
			&inc.ID, &inc.Title, &inc.Description, &inc.IncidentType, &inc.Severity, &inc.Status,
			&inc.LocationID, &inc.Latitude, &inc.Longitude,
			&inc.ReporterID, &inc.AssignedOfficerID, &inc.CreatedAt, &inc.ResolvedAt,
			&inc.LocationName, &inc.ReporterName, &inc.AssignedOfficerName,
		); err != nil {
			return nil, err
		}
		incidents = append(incidents, inc)
	}
	return incidents, rows.Err()
}
