package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"

	"tourguard/internal/domain"
	"tourguard/internal/service"
	mock_service "tourguard/internal/service/mocks"
	"tourguard/pkg/e"
	"tourguard/pkg/logger"
)

func f64ptr(v float64) *float64                             { return &v }
func i64ptr(v int64) *int64                                 { return &v }
func strPtr(s string) *string                               { return &s }
func statusPtr(s domain.IncidentStatus) *domain.IncidentStatus { return &s }

func tourist(id int64) domain.Identity {
	return domain.Identity{UserID: id, Role: domain.RoleTourist}
}

func officer(id int64) domain.Identity {
	return domain.Identity{UserID: id, Role: domain.RoleSafetyOfficer}
}

func validCreateReq() domain.CreateIncidentRequest {
	return domain.CreateIncidentRequest{
		Title:        "Pickpocketing near the main square",
		Description:  "Wallet stolen while waiting for the tram, two suspects.",
		IncidentType: domain.IncidentTheft,
		Severity:     domain.SeverityMedium,
		Latitude:     f64ptr(12.9716),
		Longitude:    f64ptr(77.5946),
	}
}

func TestIncidentService_Create_Defaults(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockIncidentRepository(ctrl)

	var got *domain.Incident
	repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inc *domain.Incident) (int64, error) {
			got = inc
			return 42, nil
		})

	svc := service.NewIncidentService(repo, nil, logger.Discard())

	id, err := svc.Create(context.Background(), validCreateReq(), 7)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != 42 {
		t.Fatalf("id = %d, want 42", id)
	}
	if got.Status != domain.StatusReported {
		t.Errorf("status = %s, want reported", got.Status)
	}
	if got.ReporterID != 7 {
		t.Errorf("reporter_id = %d, want 7", got.ReporterID)
	}
}

func TestIncidentService_Create_Validation(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockIncidentRepository(ctrl)
	svc := service.NewIncidentService(repo, nil, logger.Discard())

	cases := []struct {
		name   string
		mutate func(*domain.CreateIncidentRequest)
	}{
		{"short title", func(r *domain.CreateIncidentRequest) { r.Title = "Hey" }},
		{"short description", func(r *domain.CreateIncidentRequest) { r.Description = "too short" }},
		{"bad type", func(r *domain.CreateIncidentRequest) { r.IncidentType = "vandalism" }},
		{"bad severity", func(r *domain.CreateIncidentRequest) { r.Severity = "extreme" }},
		{"lat out of range", func(r *domain.CreateIncidentRequest) { r.Latitude = f64ptr(95) }},
		{"lng out of range", func(r *domain.CreateIncidentRequest) { r.Longitude = f64ptr(-200) }},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := validCreateReq()
			tc.mutate(&req)

			_, err := svc.Create(context.Background(), req, 1)
			if !errors.Is(err, e.ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestIncidentService_CreateSimple_ForcesLowSeverityAndTitle(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockIncidentRepository(ctrl)

	var got *domain.Incident
	repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inc *domain.Incident) (int64, error) {
			got = inc
			return 5, nil
		})

	svc := service.NewIncidentService(repo, nil, logger.Discard())

	req := domain.CreateSimpleIncidentRequest{
		Category:    domain.IncidentLostPerson,
		Description: "Child separated from tour group at the viewpoint.",
	}
	if _, err := svc.CreateSimple(context.Background(), req, 3); err != nil {
		t.Fatalf("CreateSimple: %v", err)
	}

	if got.Severity != domain.SeverityLow {
		t.Errorf("severity = %s, want low", got.Severity)
	}
	if got.Title != strings.ToUpper(string(domain.IncidentLostPerson)) {
		t.Errorf("title = %q, want upper-cased category", got.Title)
	}
}

func TestIncidentService_CreateSimple_AttachmentFailureTolerated(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockIncidentRepository(ctrl)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(int64(9), nil)

	var att *domain.Attachment
	repo.EXPECT().
		CreateAttachment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a *domain.Attachment) error {
			att = a
			return errors.New("disk full")
		})

	svc := service.NewIncidentService(repo, nil, logger.Discard())

	req := domain.CreateSimpleIncidentRequest{
		Category:    domain.IncidentAccident,
		Description: "Scooter collision at the harbour promenade.",
		PhotoBase64: "aGVsbG8gd29ybGQ=",
		PhotoType:   "image/png",
	}

	id, err := svc.CreateSimple(context.Background(), req, 3)
	if err != nil {
		t.Fatalf("attachment failure must not fail the create: %v", err)
	}
	if id != 9 {
		t.Fatalf("id = %d, want 9", id)
	}
	if att.FileName != "incident_9.png" {
		t.Errorf("file_name = %q, want incident_9.png", att.FileName)
	}
	if att.FilePath != "inline:incident_9.png" {
		t.Errorf("file_path = %q", att.FilePath)
	}
	if att.FileSize != int64(len("hello world")) {
		t.Errorf("file_size = %d, want decoded length", att.FileSize)
	}
}

func TestIncidentService_List_ClampsPagination(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockIncidentRepository(ctrl)
	repo.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q domain.IncidentQuery) ([]domain.Incident, int64, error) {
			if q.Limit != 100 {
				t.Errorf("limit = %d, want clamped to 100", q.Limit)
			}
			if q.Offset != 0 {
				t.Errorf("offset = %d, want 0 for page 1", q.Offset)
			}
			return nil, 250, nil
		})

	svc := service.NewIncidentService(repo, nil, logger.Discard())

	resp, err := svc.List(context.Background(), officer(1), domain.ListIncidentsRequest{Page: -3, Limit: 5000})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if resp.Page.Page != 1 || resp.Page.Limit != 100 {
		t.Errorf("pagination = %+v", resp.Page)
	}
	if resp.Page.Pages != 3 {
		t.Errorf("pages = %d, want ceil(250/100)=3", resp.Page.Pages)
	}
	if resp.Incidents == nil {
		t.Error("incidents must be an empty slice, not nil")
	}
}

func TestIncidentService_List_TouristScoped(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockIncidentRepository(ctrl)
	repo.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q domain.IncidentQuery) ([]domain.Incident, int64, error) {
			if q.VisibleTo == nil || *q.VisibleTo != 7 {
				t.Errorf("VisibleTo = %v, want caller id 7", q.VisibleTo)
			}
			return []domain.Incident{}, 0, nil
		})

	svc := service.NewIncidentService(repo, nil, logger.Discard())

	if _, err := svc.List(context.Background(), tourist(7), domain.ListIncidentsRequest{}); err != nil {
		t.Fatalf("List: %v", err)
	}
}

func TestIncidentService_List_OfficerUnrestricted(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockIncidentRepository(ctrl)
	repo.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q domain.IncidentQuery) ([]domain.Incident, int64, error) {
			if q.VisibleTo != nil {
				t.Error("elevated roles must not be visibility-scoped")
			}
			return []domain.Incident{}, 0, nil
		})

	svc := service.NewIncidentService(repo, nil, logger.Discard())

	if _, err := svc.List(context.Background(), officer(2), domain.ListIncidentsRequest{}); err != nil {
		t.Fatalf("List: %v", err)
	}
}

func TestIncidentService_Get_Visibility(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		caller  domain.Identity
		inc     domain.Incident
		wantErr error
	}{
		{"own report", tourist(7), domain.Incident{ID: 1, ReporterID: 7, Status: domain.StatusReported}, nil},
		{"foreign unresolved", tourist(7), domain.Incident{ID: 1, ReporterID: 9, Status: domain.StatusInvestigating}, e.ErrForbidden},
		{"foreign resolved", tourist(7), domain.Incident{ID: 1, ReporterID: 9, Status: domain.StatusResolved}, nil},
		{"foreign closed", tourist(7), domain.Incident{ID: 1, ReporterID: 9, Status: domain.StatusClosed}, e.ErrForbidden},
		{"officer sees all", officer(2), domain.Incident{ID: 1, ReporterID: 9, Status: domain.StatusReported}, nil},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mock_service.NewMockIncidentRepository(ctrl)
			inc := tc.inc
			repo.EXPECT().Get(gomock.Any(), int64(1)).Return(&inc, nil)

			svc := service.NewIncidentService(repo, nil, logger.Discard())

			_, err := svc.Get(context.Background(), tc.caller, 1)
			if tc.wantErr == nil && err != nil {
				t.Fatalf("Get: %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestIncidentService_Update_TouristForbidden(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockIncidentRepository(ctrl)
	svc := service.NewIncidentService(repo, nil, logger.Discard())

	err := svc.Update(context.Background(), tourist(7), 1, domain.UpdateIncidentRequest{
		Status: statusPtr(domain.StatusResolved),
	})
	if !errors.Is(err, e.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestIncidentService_Update_EmptyRequest(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockIncidentRepository(ctrl)
	svc := service.NewIncidentService(repo, nil, logger.Discard())

	err := svc.Update(context.Background(), officer(2), 1, domain.UpdateIncidentRequest{})
	if !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestIncidentService_Update_StampsResolvedAt(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status    domain.IncidentStatus
		wantStamp bool
	}{
		{domain.StatusInvestigating, false},
		{domain.StatusResolved, true},
		{domain.StatusClosed, true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(string(tc.status), func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mock_service.NewMockIncidentRepository(ctrl)
			repo.EXPECT().Get(gomock.Any(), int64(1)).
				Return(&domain.Incident{ID: 1, Status: domain.StatusReported}, nil)
			repo.EXPECT().
				Update(gomock.Any(), int64(1), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ int64, upd domain.IncidentUpdate) error {
					if upd.StampResolved != tc.wantStamp {
						t.Errorf("StampResolved = %v, want %v for %s", upd.StampResolved, tc.wantStamp, tc.status)
					}
					return nil
				})

			svc := service.NewIncidentService(repo, nil, logger.Discard())

			err := svc.Update(context.Background(), officer(2), 1, domain.UpdateIncidentRequest{
				Status: statusPtr(tc.status),
			})
			if err != nil {
				t.Fatalf("Update: %v", err)
			}
		})
	}
}

func TestIncidentService_Update_StrictPolicyBlocksBackwards(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockIncidentRepository(ctrl)
	repo.EXPECT().Get(gomock.Any(), int64(1)).
		Return(&domain.Incident{ID: 1, Status: domain.StatusClosed}, nil)

	svc := service.NewIncidentService(repo, domain.StrictTransitions{}, logger.Discard())

	err := svc.Update(context.Background(), officer(2), 1, domain.UpdateIncidentRequest{
		Status: statusPtr(domain.StatusReported),
	})
	if !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput for closed -> reported", err)
	}
}

func TestIncidentService_Update_NonStatusFieldsSkipPolicy(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockIncidentRepository(ctrl)
	repo.EXPECT().Get(gomock.Any(), int64(1)).
		Return(&domain.Incident{ID: 1, Status: domain.StatusClosed}, nil)
	repo.EXPECT().
		Update(gomock.Any(), int64(1), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, upd domain.IncidentUpdate) error {
			if upd.StampResolved {
				t.Error("no status change must not stamp resolved_at")
			}
			return nil
		})

	svc := service.NewIncidentService(repo, domain.StrictTransitions{}, logger.Discard())

	err := svc.Update(context.Background(), officer(2), 1, domain.UpdateIncidentRequest{
		AssignedOfficerID: i64ptr(11),
		Description:       strPtr("Reassigned after the night shift handover."),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
}
