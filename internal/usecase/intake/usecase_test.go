package intake

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"gorm.io/datatypes"

	"driver-license-portal/internal/domain/application"
	"driver-license-portal/internal/domain/citizen"
	"driver-license-portal/internal/domain/errs"
	"driver-license-portal/internal/domain/uow"
	"driver-license-portal/internal/infrastructure/logger"
	"driver-license-portal/internal/infrastructure/storage"
	"driver-license-portal/internal/testutil/applicationmock"
	"driver-license-portal/internal/testutil/uowmock"
)

type stubResolver struct {
	c   *citizen.Citizen
	err error
}

func (s stubResolver) Resolve(context.Context, string, string) (*citizen.Citizen, error) {
	return s.c, s.err
}

type failingStore struct{}

func (failingStore) Save(context.Context, string, string, string, io.Reader) (string, int64, error) {
	return "", 0, errors.New("disk full")
}

func newUC(apps *applicationmock.Repo, files FileStore, res CitizenResolver) *Usecase {
	u := NewUsecase(uowmock.Passthrough(uow.Repos{Applications: apps}), apps, res, files, 1024, logger.Discard())
	u.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	return u
}

func TestSubmitPersonalInfo_CreatesDraft(t *testing.T) {
	var created *application.Application
	apps := &applicationmock.Repo{
		CreateFn: func(_ context.Context, a *application.Application) error { created = a; return nil },
	}
	u := newUC(apps, nil, stubResolver{c: &citizen.Citizen{ID: "c-1"}})

	got, err := u.SubmitPersonalInfo(context.Background(), PersonalInfoInput{
		NationalID: "1234567890123", LicenseType: "car",
		PersonalInfo: application.PersonalInfo{FullName: "Jean Ndayishimiye"},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if created == nil || got != created {
		t.Fatal("application not created")
	}
	if got.Status != application.StatusDraft || got.CitizenID != "c-1" {
		t.Fatalf("status=%s citizen=%s", got.Status, got.CitizenID)
	}
	if !strings.HasPrefix(got.ID, "LIC-") {
		t.Fatalf("id = %q", got.ID)
	}
}

func TestSubmitPersonalInfo_UpdatesExistingInPlace(t *testing.T) {
	existing := &application.Application{ID: "LIC-1", CitizenID: "c-1", Status: application.StatusPending, LicenseType: "car"}
	var cols []string
	apps := &applicationmock.Repo{
		GetActiveByCitizenIDFn: func(context.Context, string) (*application.Application, error) { return existing, nil },
		CreateFn: func(context.Context, *application.Application) error {
			t.Fatal("must not create a second application")
			return nil
		},
		UpdateStageFn: func(_ context.Context, _ *application.Application, c ...string) (int64, error) {
			cols = c
			return 1, nil
		},
	}
	u := newUC(apps, nil, stubResolver{c: &citizen.Citizen{ID: "c-1"}})

	got, err := u.SubmitPersonalInfo(context.Background(), PersonalInfoInput{
		NationalID: "1234567890123", LicenseType: "motorcycle",
		EmergencyContact: &application.EmergencyContact{Name: "Aline"},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if strings.Join(cols, ",") != "license_type,personal_info,emergency_contact" {
		t.Fatalf("updated columns = %v", cols)
	}
	if got.ID != "LIC-1" || got.LicenseType != "motorcycle" || got.Status != application.StatusPending {
		t.Fatalf("got %+v", got)
	}
	if got.EmergencyContact.Data().Name != "Aline" {
		t.Fatal("emergency contact not merged")
	}
}

func TestSubmitPersonalInfo_CitizenNotFound(t *testing.T) {
	u := newUC(&applicationmock.Repo{}, nil, stubResolver{err: citizen.ErrNotFound})
	_, err := u.SubmitPersonalInfo(context.Background(), PersonalInfoInput{NationalID: "x"})
	if errs.KindOf(err) != errs.KindNotFound {
		t.Fatalf("err = %v", err)
	}
}

func TestSubmitDocuments_RequiresApplication(t *testing.T) {
	u := newUC(&applicationmock.Repo{}, storage.NewDiskStore(afero.NewMemMapFs(), "/up"), stubResolver{c: &citizen.Citizen{ID: "c-1"}})
	_, err := u.SubmitDocuments(context.Background(), UploadInput{
		NationalID: "1234567890123",
		Files:      []Upload{{Kind: "idCard", FileName: "id.pdf", Size: 3, Body: strings.NewReader("pdf")}},
	})
	if !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSubmitDocuments_StoresAndKeepsStatus(t *testing.T) {
	fs := afero.NewMemMapFs()
	a := &application.Application{ID: "LIC-1", CitizenID: "c-1", Status: application.StatusDraft,
		Documents: datatypes.NewJSONType(application.FileSet{"medical": {FileName: "old.pdf"}})}
	apps := &applicationmock.Repo{
		GetActiveByCitizenIDFn: func(context.Context, string) (*application.Application, error) { return a, nil },
	}
	u := newUC(apps, storage.NewDiskStore(fs, "/up"), stubResolver{c: &citizen.Citizen{ID: "c-1"}})

	res, err := u.SubmitDocuments(context.Background(), UploadInput{
		NationalID: "1234567890123",
		Files:      []Upload{{Kind: "idCard", FileName: "ID.PDF", Size: 3, Body: strings.NewReader("pdf")}},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Status != application.StatusDraft {
		t.Fatalf("documents stage changed status to %s", res.Status)
	}
	rec, ok := res.Files["idCard"]
	if !ok || rec.FileSize != 3 {
		t.Fatalf("files = %+v", res.Files)
	}
	if rec.FilePath != "/up/documents/idCard/c-1_1772355600000.pdf" {
		t.Fatalf("path = %q", rec.FilePath)
	}
	if _, ok := res.Files["medical"]; !ok {
		t.Fatal("existing document dropped on merge")
	}
	if ok, _ := afero.Exists(fs, rec.FilePath); !ok {
		t.Fatal("file not written")
	}
}

func TestSubmitDocuments_WriteFailureNamesType(t *testing.T) {
	a := &application.Application{ID: "LIC-1", CitizenID: "c-1", Status: application.StatusDraft}
	apps := &applicationmock.Repo{
		GetActiveByCitizenIDFn: func(context.Context, string) (*application.Application, error) { return a, nil },
	}
	u := newUC(apps, failingStore{}, stubResolver{c: &citizen.Citizen{ID: "c-1"}})
	_, err := u.SubmitDocuments(context.Background(), UploadInput{
		Files: []Upload{{Kind: "medical", FileName: "m.pdf", Size: 1, Body: strings.NewReader("x")}},
	})
	e, ok := errs.As(err)
	if !ok || e.Kind != errs.KindInternal || e.Message != "Failed to upload medical" {
		t.Fatalf("err = %v", err)
	}
}

func TestSubmitDocuments_TooLarge(t *testing.T) {
	u := newUC(&applicationmock.Repo{}, failingStore{}, stubResolver{c: &citizen.Citizen{ID: "c-1"}})
	_, err := u.SubmitDocuments(context.Background(), UploadInput{
		Files: []Upload{{Kind: "idCard", FileName: "big.pdf", Size: 4096, Body: strings.NewReader("")}},
	})
	if errs.KindOf(err) != errs.KindValidation {
		t.Fatalf("err = %v", err)
	}
}

func TestSubmitPhotos_MovesDraftToPending(t *testing.T) {
	a := &application.Application{ID: "LIC-1", CitizenID: "c-1", Status: application.StatusDraft}
	apps := &applicationmock.Repo{
		GetActiveByCitizenIDFn: func(context.Context, string) (*application.Application, error) { return a, nil },
	}
	u := newUC(apps, storage.NewDiskStore(afero.NewMemMapFs(), "/up"), stubResolver{c: &citizen.Citizen{ID: "c-1"}})

	res, err := u.SubmitPhotos(context.Background(), UploadInput{Files: []Upload{
		{Kind: "profilePhoto", FileName: "me.jpg", Size: 2, Body: strings.NewReader("jp")},
		{Kind: "signature", FileName: "sig.png", Size: 2, Body: strings.NewReader("pn")},
	}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Status != application.StatusPending || a.SubmittedAt == nil {
		t.Fatalf("status=%s submitted_at=%v", res.Status, a.SubmittedAt)
	}
	if len(res.Files) != 2 {
		t.Fatalf("photos = %+v", res.Files)
	}
}

func TestSubmitPhotos_RequiresBoth(t *testing.T) {
	u := newUC(&applicationmock.Repo{}, nil, stubResolver{c: &citizen.Citizen{ID: "c-1"}})
	_, err := u.SubmitPhotos(context.Background(), UploadInput{Files: []Upload{
		{Kind: "profilePhoto", FileName: "me.jpg", Size: 2, Body: strings.NewReader("jp")},
	}})
	e, ok := errs.As(err)
	if !ok || e.Kind != errs.KindValidation || !strings.Contains(e.Message, "signature") {
		t.Fatalf("err = %v", err)
	}
}

func TestSubmitDocuments_RejectsPathLikeKind(t *testing.T) {
	fs := afero.NewMemMapFs()
	a := &application.Application{ID: "LIC-1", CitizenID: "c-1", Status: application.StatusDraft}
	apps := &applicationmock.Repo{
		GetActiveByCitizenIDFn: func(context.Context, string) (*application.Application, error) { return a, nil },
	}
	u := newUC(apps, storage.NewDiskStore(fs, "/srv/uploads"), stubResolver{c: &citizen.Citizen{ID: "c-1"}})

	for _, kind := range []string{"../../../etc/cron.d", "a/b", "..", ""} {
		_, err := u.SubmitDocuments(context.Background(), UploadInput{
			NationalID: "1234567890123",
			Files:      []Upload{{Kind: kind, FileName: "x.sh", Size: 1, Body: strings.NewReader("x")}},
		})
		if errs.KindOf(err) != errs.KindValidation {
			t.Fatalf("kind %q: err = %v, want validation error", kind, err)
		}
	}
	if ok, _ := afero.DirExists(fs, "/etc"); ok {
		t.Fatal("file written outside the upload root")
	}
}

func TestSubmitPhotos_DecisionWinsOverLateUpload(t *testing.T) {
	a := &application.Application{ID: "LIC-1", CitizenID: "c-1", Status: application.StatusPending}
	var cols []string
	apps := &applicationmock.Repo{
		GetActiveByCitizenIDFn: func(context.Context, string) (*application.Application, error) { return a, nil },
		UpdateStageFn: func(_ context.Context, _ *application.Application, c ...string) (int64, error) {
			cols = c
			return 0, nil
		},
		GetByIDFn: func(context.Context, string) (*application.Application, error) {
			return &application.Application{ID: "LIC-1", Status: application.StatusApproved}, nil
		},
	}
	u := newUC(apps, storage.NewDiskStore(afero.NewMemMapFs(), "/up"), stubResolver{c: &citizen.Citizen{ID: "c-1"}})

	_, err := u.SubmitPhotos(context.Background(), UploadInput{Files: []Upload{
		{Kind: "profilePhoto", FileName: "me.jpg", Size: 2, Body: strings.NewReader("jp")},
		{Kind: "signature", FileName: "sig.png", Size: 2, Body: strings.NewReader("pn")},
	}})
	e, ok := errs.As(err)
	if !ok || e.Kind != errs.KindState || e.Message != "Application already APPROVED" {
		t.Fatalf("err = %v", err)
	}
	if strings.Join(cols, ",") != "photos,status,submitted_at" {
		t.Fatalf("updated columns = %v", cols)
	}
}
