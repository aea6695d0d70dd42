//go:build integration

package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"tourguard/internal/domain"
	"tourguard/pkg/e"
	"tourguard/pkg/logger"
)

var (
	testPool *pgxpool.Pool
	tc       testcontainers.Container
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	user := "postgres"
	pass := "postgres"
	db := "postgres"

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     user,
			"POSTGRES_PASSWORD": pass,
			"POSTGRES_DB":       db,
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(90 * time.Second),
	}

	var err error
	tc, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		fmt.Println("cannot start container:", err)
		os.Exit(1)
	}

	host, _ := tc.Host(ctx)
	mappedPort, _ := tc.MappedPort(ctx, "5432/tcp")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, pass, host, mappedPort.Port(), db)

	testPool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		fmt.Println("pgxpool.New:", err)
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	if err := testPool.Ping(ctx); err != nil {
		fmt.Println("pool.Ping:", err)
		testPool.Close()
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	if err := setupSchema(ctx, testPool); err != nil {
		fmt.Println("setupSchema:", err)
		testPool.Close()
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	code := m.Run()

	testPool.Close()
	_ = tc.Terminate(ctx)
	os.Exit(code)
}

func setupSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id bigint PRIMARY KEY,
			first_name text NOT NULL,
			last_name text NOT NULL,
			role text NOT NULL
		);

		CREATE TABLE IF NOT EXISTS locations (
			id bigserial PRIMARY KEY,
			name text NOT NULL,
			address text NOT NULL DEFAULT '',
			latitude double precision,
			longitude double precision,
			location_type text NOT NULL,
			safety_level text NOT NULL,
			description text,
			is_active boolean NOT NULL DEFAULT TRUE,
			created_at timestamptz NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS incidents (
			id bigserial PRIMARY KEY,
			title text NOT NULL,
			description text NOT NULL,
			incident_type text NOT NULL,
			severity text NOT NULL,
			status text NOT NULL DEFAULT 'reported',
			location_id bigint REFERENCES locations(id),
			latitude double precision,
			longitude double precision,
			reporter_id bigint NOT NULL,
			assigned_officer_id bigint,
			created_at timestamptz NOT NULL DEFAULT NOW(),
			resolved_at timestamptz
		);

		CREATE TABLE IF NOT EXISTS incident_attachments (
			id bigserial PRIMARY KEY,
			incident_id bigint NOT NULL REFERENCES incidents(id),
			file_name text NOT NULL,
			file_path text NOT NULL,
			file_type text NOT NULL,
			file_size bigint NOT NULL,
			uploaded_by bigint NOT NULL,
			uploaded_at timestamptz NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS safety_alerts (
			id bigserial PRIMARY KEY,
			title text NOT NULL,
			message text NOT NULL,
			alert_type text NOT NULL,
			severity text NOT NULL,
			location_id bigint REFERENCES locations(id),
			is_active boolean NOT NULL DEFAULT TRUE,
			expires_at timestamptz,
			created_by bigint NOT NULL,
			created_at timestamptz NOT NULL DEFAULT NOW(),
			updated_at timestamptz NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS sos_alerts (
			id bigserial PRIMARY KEY,
			tourist_id bigint NOT NULL,
			latitude double precision NOT NULL,
			longitude double precision NOT NULL,
			location text,
			status text NOT NULL DEFAULT 'active',
			timestamp timestamptz NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS emergency_contacts (
			id bigserial PRIMARY KEY,
			name text NOT NULL,
			phone text NOT NULL,
			email text,
			department text,
			location_id bigint,
			is_active boolean NOT NULL DEFAULT TRUE
		);

		CREATE TABLE IF NOT EXISTS safety_tips (
			id bigserial PRIMARY KEY,
			title text NOT NULL,
			content text NOT NULL,
			category text NOT NULL,
			is_active boolean NOT NULL DEFAULT TRUE
		);

		INSERT INTO users (id, first_name, last_name, role) VALUES
			(1, 'Asha', 'Rao', 'tourist'),
			(2, 'Ravi', 'Menon', 'safety_officer'),
			(3, 'Lena', 'Fischer', 'tourist')
		ON CONFLICT DO NOTHING;
	`)
	return err
}

func truncateAll(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(), `
		TRUNCATE TABLE incident_attachments, incidents, safety_alerts, sos_alerts,
			emergency_contacts, safety_tips RESTART IDENTITY;
		DELETE FROM locations;
	`)
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
}

func seedLocation(t *testing.T, name string, locType domain.LocationType, safety domain.SafetyLevel) int64 {
	t.Helper()
	var id int64
	err := testPool.QueryRow(context.Background(), `
		INSERT INTO locations (name, location_type, safety_level) VALUES ($1, $2, $3) RETURNING id
	`, name, locType, safety).Scan(&id)
	if err != nil {
		t.Fatalf("seed location: %v", err)
	}
	return id
}

func seedIncident(t *testing.T, repo *IncidentRepo, reporterID int64, severity domain.IncidentSeverity, locationID *int64) int64 {
	t.Helper()
	id, err := repo.Create(context.Background(), &domain.Incident{
		Title:        "SEED INCIDENT",
		Description:  "seeded incident row for repository tests",
		IncidentType: domain.IncidentTheft,
		Severity:     severity,
		Status:       domain.StatusReported,
		ReporterID:   reporterID,
		LocationID:   locationID,
	})
	if err != nil {
		t.Fatalf("seed incident: %v", err)
	}
	return id
}

func TestIncidentRepo_Create_Defaults(t *testing.T) {
	truncateAll(t)

	repo := NewIncidentRepo(testPool, logger.Discard())

	inc := &domain.Incident{
		Title:        "Bag snatched at station",
		Description:  "Backpack taken from the platform bench.",
		IncidentType: domain.IncidentTheft,
		Severity:     domain.SeverityMedium,
		ReporterID:   1,
	}

	id, err := repo.Create(context.Background(), inc)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected positive id, got %d", id)
	}
	if inc.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt set from RETURNING")
	}

	got, err := repo.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != domain.StatusReported {
		t.Fatalf("status = %s, want reported", got.Status)
	}
	if got.ResolvedAt != nil {
		t.Fatal("resolved_at must be null on create")
	}
	if got.ReporterName == nil || *got.ReporterName != "Asha Rao" {
		t.Fatalf("reporter_name = %v", got.ReporterName)
	}
}

func TestIncidentRepo_Get_NotFound(t *testing.T) {
	truncateAll(t)

	repo := NewIncidentRepo(testPool, logger.Discard())

	_, err := repo.Get(context.Background(), 99999)
	if !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestIncidentRepo_Update_StampsResolvedAt(t *testing.T) {
	truncateAll(t)

	repo := NewIncidentRepo(testPool, logger.Discard())
	id := seedIncident(t, repo, 1, domain.SeverityHigh, nil)

	resolved := domain.StatusResolved
	err := repo.Update(context.Background(), id, domain.IncidentUpdate{
		Status:        &resolved,
		StampResolved: true,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != domain.StatusResolved {
		t.Fatalf("status = %s, want resolved", got.Status)
	}
	if got.ResolvedAt == nil {
		t.Fatal("resolved_at must be stamped")
	}

	// status-only update without a resolving status keeps resolved_at intact
	investigating := domain.StatusInvestigating
	if err := repo.Update(context.Background(), id, domain.IncidentUpdate{Status: &investigating}); err != nil {
		t.Fatalf("Update back: %v", err)
	}
	got2, _ := repo.Get(context.Background(), id)
	if got2.ResolvedAt == nil {
		t.Fatal("resolved_at must survive a non-resolving update")
	}
}

func TestIncidentRepo_Update_NotFound(t *testing.T) {
	truncateAll(t)

	repo := NewIncidentRepo(testPool, logger.Discard())

	desc := "updated description for a missing row"
	err := repo.Update(context.Background(), 12345, domain.IncidentUpdate{Description: &desc})
	if !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestIncidentRepo_List_TouristVisibility(t *testing.T) {
	truncateAll(t)

	repo := NewIncidentRepo(testPool, logger.Discard())

	own := seedIncident(t, repo, 1, domain.SeverityLow, nil)
	foreign := seedIncident(t, repo, 3, domain.SeverityLow, nil)
	foreignResolved := seedIncident(t, repo, 3, domain.SeverityLow, nil)

	resolved := domain.StatusResolved
	if err := repo.Update(context.Background(), foreignResolved, domain.IncidentUpdate{
		Status: &resolved, StampResolved: true,
	}); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	caller := int64(1)
	list, total, err := repo.List(context.Background(), domain.IncidentQuery{
		VisibleTo: &caller,
		Limit:     10,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 {
		t.Fatalf("total = %d, want 2 (own + foreign resolved)", total)
	}

	seen := map[int64]bool{}
	for _, inc := range list {
		seen[inc.ID] = true
	}
	if !seen[own] || !seen[foreignResolved] {
		t.Fatalf("visible set = %v, want own %d and resolved %d", seen, own, foreignResolved)
	}
	if seen[foreign] {
		t.Fatal("foreign unresolved incident must be hidden from tourists")
	}
}

func TestIncidentRepo_List_FiltersAndCount(t *testing.T) {
	truncateAll(t)

	repo := NewIncidentRepo(testPool, logger.Discard())

	seedIncident(t, repo, 1, domain.SeverityLow, nil)
	seedIncident(t, repo, 1, domain.SeverityHigh, nil)
	seedIncident(t, repo, 1, domain.SeverityHigh, nil)

	list, total, err := repo.List(context.Background(), domain.IncidentQuery{
		Filter: domain.IncidentFilter{Severity: domain.SeverityHigh},
		Limit:  1,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}
	if len(list) != 1 {
		t.Fatalf("len = %d, want 1 (limit applies to rows, not count)", len(list))
	}
}

func TestAlertRepo_Delete_Idempotent(t *testing.T) {
	truncateAll(t)

	repo := NewAlertRepo(testPool, logger.Discard())

	id, err := repo.Create(context.Background(), &domain.SafetyAlert{
		Title:     "Road closure downtown",
		Message:   "Main bridge closed for the marathon until evening.",
		AlertType: domain.AlertTraffic,
		Severity:  domain.AlertInfo,
		IsActive:  true,
		CreatedBy: 2,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.Delete(context.Background(), id); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := repo.Delete(context.Background(), id); err != nil {
		t.Fatalf("second delete must be a no-op: %v", err)
	}

	if _, err := repo.Get(context.Background(), id); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound after delete", err)
	}
}

func TestAlertRepo_Update_TouchesUpdatedAt(t *testing.T) {
	truncateAll(t)

	repo := NewAlertRepo(testPool, logger.Discard())

	a := &domain.SafetyAlert{
		Title:     "Pickpocket activity",
		Message:   "Increased reports around the night market.",
		AlertType: domain.AlertSecurity,
		Severity:  domain.AlertWarning,
		IsActive:  true,
		CreatedBy: 2,
	}
	id, err := repo.Create(context.Background(), a)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	time.Sleep(50 * time.Millisecond)

	newTitle := "Pickpocket activity (update)"
	if err := repo.Update(context.Background(), id, domain.AlertUpdate{Title: &newTitle}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != newTitle {
		t.Fatalf("title = %q", got.Title)
	}
	if !got.UpdatedAt.After(a.UpdatedAt) {
		t.Fatal("updated_at must advance on update")
	}
}

func TestAlertRepo_Update_NotFound(t *testing.T) {
	truncateAll(t)

	repo := NewAlertRepo(testPool, logger.Discard())

	title := "does not matter"
	err := repo.Update(context.Background(), 54321, domain.AlertUpdate{Title: &title})
	if !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSOSRepo_CreateAndLatest(t *testing.T) {
	truncateAll(t)

	repo := NewSOSRepo(testPool, logger.Discard())

	for i := 0; i < 3; i++ {
		_, err := repo.Create(context.Background(), &domain.SOSEvent{
			TouristID: 1,
			Latitude:  12.97 + float64(i)*0.01,
			Longitude: 77.59,
			Status:    domain.SOSActive,
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	events, err := repo.Latest(context.Background(), 2)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2", len(events))
	}
	if events[0].TouristName == nil || *events[0].TouristName != "Asha Rao" {
		t.Fatalf("tourist_name = %v", events[0].TouristName)
	}
	if events[0].ID < events[1].ID {
		t.Fatal("latest must come first")
	}
}

func TestSOSRepo_UpdateStatus_NotFound(t *testing.T) {
	truncateAll(t)

	repo := NewSOSRepo(testPool, logger.Discard())

	err := repo.UpdateStatus(context.Background(), 777, domain.SOSResolved)
	if !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestLocationRepo_ExistsAndList(t *testing.T) {
	truncateAll(t)

	repo := NewLocationRepo(testPool, logger.Discard())
	id := seedLocation(t, "Harbour Walk", domain.LocationBeach, domain.SafetyMedium)

	found, err := repo.Exists(context.Background(), id)
	if err != nil || !found {
		t.Fatalf("Exists = %v, %v", found, err)
	}
	found, err = repo.Exists(context.Background(), id+1000)
	if err != nil || found {
		t.Fatalf("Exists for missing id = %v, %v", found, err)
	}

	list, err := repo.List(context.Background(), domain.LocationFilter{Type: domain.LocationBeach})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Harbour Walk" {
		t.Fatalf("list = %+v", list)
	}
}

func TestStatsRepo_Overview_Sums(t *testing.T) {
	truncateAll(t)

	incRepo := NewIncidentRepo(testPool, logger.Discard())
	statsRepo := NewStatsRepo(testPool, logger.Discard())

	seedIncident(t, incRepo, 1, domain.SeverityLow, nil)
	seedIncident(t, incRepo, 1, domain.SeverityHigh, nil)
	id := seedIncident(t, incRepo, 3, domain.SeverityCritical, nil)

	resolved := domain.StatusResolved
	if err := incRepo.Update(context.Background(), id, domain.IncidentUpdate{
		Status: &resolved, StampResolved: true,
	}); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	ov, err := statsRepo.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if ov.TotalIncidents != 3 {
		t.Fatalf("total = %d, want 3", ov.TotalIncidents)
	}
	if ov.Reported+ov.Investigating+ov.Resolved+ov.Closed != ov.TotalIncidents {
		t.Fatal("status counts must sum to total")
	}
	if ov.Critical+ov.High+ov.Medium+ov.Low != ov.TotalIncidents {
		t.Fatal("severity counts must sum to total")
	}
	if ov.Resolved != 1 || ov.Critical != 1 {
		t.Fatalf("overview = %+v", ov)
	}
}

func TestStatsRepo_LocationStats_AverageSeverity(t *testing.T) {
	truncateAll(t)

	incRepo := NewIncidentRepo(testPool, logger.Discard())
	statsRepo := NewStatsRepo(testPool, logger.Discard())

	busy := seedLocation(t, "Old Town", domain.LocationCity, domain.SafetyLow)
	quiet := seedLocation(t, "Hill Park", domain.LocationPark, domain.SafetyHigh)

	// critical=4, critical=4, low=1 -> avg 3.0
	seedIncident(t, incRepo, 1, domain.SeverityCritical, &busy)
	seedIncident(t, incRepo, 1, domain.SeverityCritical, &busy)
	seedIncident(t, incRepo, 1, domain.SeverityLow, &busy)

	stats, err := statsRepo.LocationStats(context.Background())
	if err != nil {
		t.Fatalf("LocationStats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("len = %d, want 2", len(stats))
	}

	byID := map[int64]domain.LocationStat{}
	for _, s := range stats {
		byID[s.ID] = s
	}
	if got := byID[busy]; got.IncidentCount != 3 || got.AvgSeverity != 3.0 {
		t.Fatalf("busy = %+v, want count 3 avg 3.0", got)
	}
	if got := byID[quiet]; got.IncidentCount != 0 || got.AvgSeverity != 0 {
		t.Fatalf("quiet = %+v, want count 0 avg 0", got)
	}
	if stats[0].ID != busy {
		t.Fatal("locations must be ordered by incident_count desc")
	}
}

func TestReferenceRepo_ActiveOnly(t *testing.T) {
	truncateAll(t)

	_, err := testPool.Exec(context.Background(), `
		INSERT INTO emergency_contacts (name, phone, is_active) VALUES
			('Tourist Police', '1363', TRUE),
			('Old Hotline', '0000', FALSE);
		INSERT INTO safety_tips (title, content, category, is_active) VALUES
			('Keep copies of documents', 'Store digital copies of your passport.', 'general', TRUE),
			('Retired tip', 'n/a', 'general', FALSE);
	`)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	repo := NewReferenceRepo(testPool, logger.Discard())

	contacts, err := repo.Contacts(context.Background())
	if err != nil {
		t.Fatalf("Contacts: %v", err)
	}
	if len(contacts) != 1 || contacts[0].Name != "Tourist Police" {
		t.Fatalf("contacts = %+v", contacts)
	}

	tips, err := repo.Tips(context.Background())
	if err != nil {
		t.Fatalf("Tips: %v", err)
	}
	if len(tips) != 1 || tips[0].Title != "Keep copies of documents" {
		t.Fatalf("tips = %+v", tips)
	}
}
