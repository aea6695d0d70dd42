package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"tourguard/internal/domain"
	"tourguard/pkg/e"
)

type StatsRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewStatsRepo(pool *pgxpool.Pool, logger *slog.Logger) *StatsRepo {
	return &StatsRepo{pool: pool, logger: logger}
}

// The CASE expressions below are rendered from the shared ordinal tables in
// domain so the aggregation scales stay in one place.
var (
	severityCase    = weightCase("i.severity", severityPairs())
	safetyLevelCase = weightCase("safety_level", safetyLevelPairs())
)

type weightPair struct {
	value  string
	weight int
}

func severityPairs() []weightPair {
	order := []domain.IncidentSeverity{
		domain.SeverityCritical, domain.SeverityHigh, domain.SeverityMedium, domain.SeverityLow,
	}
	pairs := make([]weightPair, 0, len(order))
	for _, s := range order {
		pairs = append(pairs, weightPair{string(s), domain.SeverityWeights[s]})
	}
	return pairs
}

func safetyLevelPairs() []weightPair {
	order := []domain.SafetyLevel{domain.SafetyHigh, domain.SafetyMedium, domain.SafetyLow}
	pairs := make([]weightPair, 0, len(order))
	for _, s := range order {
		pairs = append(pairs, weightPair{string(s), domain.SafetyLevelWeights[s]})
	}
	return pairs
}

func weightCase(column string, pairs []weightPair) string {
	var b strings.Builder
	b.WriteString("CASE")
	for _, p := range pairs {
		fmt.Fprintf(&b, " WHEN %s = '%s' THEN %d", column, p.value, p.weight)
	}
	b.WriteString(" ELSE 0 END")
	return b.String()
}

func (p *StatsRepo) Overview(ctx context.Context) (domain.IncidentOverview, error) {
	const op = "postgres.Stats.Overview"

	const query = `
		SELECT
			COUNT(*) AS total_incidents,
			COUNT(*) FILTER (WHERE status = 'reported') AS reported,
			COUNT(*) FILTER (WHERE status = 'investigating') AS investigating,
			COUNT(*) FILTER (WHERE status = 'resolved') AS resolved,
			COUNT(*) FILTER (WHERE status = 'closed') AS closed,
			COUNT(*) FILTER (WHERE severity = 'critical') AS critical,
			COUNT(*) FILTER (WHERE severity = 'high') AS high,
			COUNT(*) FILTER (WHERE severity = 'medium') AS medium,
			COUNT(*) FILTER (WHERE severity = 'low') AS low
		FROM incidents
	`

	var ov domain.IncidentOverview
	err := p.pool.QueryRow(ctx, query).Scan(
		&ov.TotalIncidents,
		&ov.Reported, &ov.Investigating, &ov.Resolved, &ov.Closed,
		&ov.Critical, &ov.High, &ov.Medium, &ov.Low,
	)
	if err != nil {
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err))
		return domain.IncidentOverview{}, e.WrapError(ctx, op, err)
	}

	return ov, nil
}

func (p *StatsRepo) TypeBreakdown(ctx context.Context) ([]domain.TypeCount, error) {
	const op = "postgres.Stats.TypeBreakdown"

	const query = `
		SELECT incident_type, COUNT(*) AS count
		FROM incidents
		GROUP BY incident_type
		ORDER BY count DESC
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	var counts []domain.TypeCount
	for rows.Next() {
		var tc domain.TypeCount
		if err := rows.Scan(&tc.IncidentType, &tc.Count); err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		counts = append(counts, tc)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return counts, nil
}

func (p *StatsRepo) LocationStats(ctx context.Context) ([]domain.LocationStat, error) {
	const op = "postgres.Stats.LocationStats"

	query := fmt.Sprintf(`
		SELECT
			l.id, l.name, l.location_type, l.safety_level,
			COUNT(i.id) AS incident_count,
			AVG(%s) AS avg_severity
		FROM locations l
		LEFT JOIN incidents i ON i.location_id = l.id
		WHERE l.is_active = TRUE
		GROUP BY l.id, l.name, l.location_type, l.safety_level
		ORDER BY incident_count DESC
	`, severityCase)

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	var stats []domain.LocationStat
	for rows.Next() {
		var ls domain.LocationStat
		if err := rows.Scan(&ls.ID, &ls.Name, &ls.LocationType, &ls.SafetyLevel,
			&ls.IncidentCount, &ls.AvgSeverity); err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		stats = append(stats, ls)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return stats, nil
}

func (p *StatsRepo) LocationTypeStats(ctx context.Context) ([]domain.LocationTypeStat, error) {
	const op = "postgres.Stats.LocationTypeStats"

	query := fmt.Sprintf(`
		SELECT location_type, COUNT(*) AS count, AVG(%s) AS avg_safety_level
		FROM locations
		WHERE is_active = TRUE
		GROUP BY location_type
	`, safetyLevelCase)

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	var stats []domain.LocationTypeStat
	for rows.Next() {
		var ts domain.LocationTypeStat
		if err := rows.Scan(&ts.LocationType, &ts.Count, &ts.AvgSafetyLevel); err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		stats = append(stats, ts)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return stats, nil
}
