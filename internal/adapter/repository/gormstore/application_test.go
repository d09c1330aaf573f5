package gormstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	appDomain "driver-license-portal/internal/domain/application"
	citizenDomain "driver-license-portal/internal/domain/citizen"
	"driver-license-portal/internal/testutil/testdb"
	"driver-license-portal/pkg/id"
)

func seedCitizen(t *testing.T, db *gorm.DB, nationalID string) *citizenDomain.Citizen {
	t.Helper()
	c := &citizenDomain.Citizen{
		ID:          id.NewUUID(),
		NationalID:  nationalID,
		FullName:    "Test Citizen",
		Email:       nationalID + "@mail.bi",
		PhoneNumber: "+25779000000",
		Status:      citizenDomain.StatusActive,
	}
	if err := NewCitizenRepository(db).Create(context.Background(), c); err != nil {
		t.Fatalf("seed citizen: %v", err)
	}
	return c
}

func makeApplication(citizenID string, status appDomain.Status, nationalID string) *appDomain.Application {
	return &appDomain.Application{
		ID:           id.NewApplicationID(time.Now()),
		CitizenID:    citizenID,
		LicenseType:  "car",
		Status:       status,
		PersonalInfo: appDomain.PersonalInfo{FullName: "Test Citizen", NationalID: nationalID},
		Documents:    datatypes.NewJSONType(appDomain.FileSet{}),
		Photos:       datatypes.NewJSONType(appDomain.FileSet{}),
	}
}

func TestApplicationRepository_CreateAndGet_RoundTripsJSON(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	c := seedCitizen(t, db, "1234567890123")
	repo := NewApplicationRepository(db)

	a := makeApplication(c.ID, appDomain.StatusDraft, c.NationalID)
	a.Documents = datatypes.NewJSONType(appDomain.FileSet{
		"idCard": {FileName: "id.pdf", FilePath: "/u/id.pdf", FileSize: 12, UploadedAt: time.Now().UTC()},
	})
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.PersonalInfo.NationalID != c.NationalID {
		t.Fatalf("personal_info not round-tripped: %+v", got.PersonalInfo)
	}
	if doc := got.Documents.Data()["idCard"]; doc.FileName != "id.pdf" || doc.FileSize != 12 {
		t.Fatalf("documents not round-tripped: %+v", got.Documents.Data())
	}

	if _, err := repo.GetByID(ctx, "LIC-MISSING"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("missing id err = %v, want ErrRecordNotFound", err)
	}
}

func TestApplicationRepository_GetActiveByCitizenID_SkipsTerminal(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	c := seedCitizen(t, db, "1234567890123")
	repo := NewApplicationRepository(db)

	old := makeApplication(c.ID, appDomain.StatusRejected, c.NationalID)
	if err := repo.Create(ctx, old); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.GetActiveByCitizenID(ctx, c.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("terminal application returned as active: %v", err)
	}

	active := makeApplication(c.ID, appDomain.StatusPending, c.NationalID)
	if err := repo.Create(ctx, active); err != nil {
		t.Fatal(err)
	}
	got, err := repo.GetActiveByCitizenID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetActiveByCitizenID: %v", err)
	}
	if got.ID != active.ID {
		t.Fatalf("got %s, want %s", got.ID, active.ID)
	}
}

func TestApplicationRepository_ApplyDecision_IsConditional(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	c := seedCitizen(t, db, "1234567890123")
	repo := NewApplicationRepository(db)

	a := makeApplication(c.ID, appDomain.StatusPending, c.NationalID)
	if err := repo.Create(ctx, a); err != nil {
		t.Fatal(err)
	}

	notes := "documents verified"
	now := time.Now().UTC().Truncate(time.Second)
	n, err := repo.ApplyDecision(ctx, []string{a.ID}, appDomain.Decision{Status: appDomain.StatusApproved, Notes: &notes, AdminID: "admin-1", DecidedAt: now})
	if err != nil || n != 1 {
		t.Fatalf("first decision n=%d err=%v", n, err)
	}

	other := "second opinion"
	n, err = repo.ApplyDecision(ctx, []string{a.ID}, appDomain.Decision{Status: appDomain.StatusRejected, Notes: &other, AdminID: "admin-2", DecidedAt: now.Add(time.Hour)})
	if err != nil || n != 0 {
		t.Fatalf("second decision must not apply: n=%d err=%v", n, err)
	}

	got, _ := repo.GetByID(ctx, a.ID)
	if got.Status != appDomain.StatusApproved {
		t.Fatalf("status = %s", got.Status)
	}
	if got.ReviewNotes == nil || *got.ReviewNotes != notes {
		t.Fatalf("review notes overwritten: %v", got.ReviewNotes)
	}
	if got.ApprovedAt == nil || got.RejectedAt != nil {
		t.Fatalf("approved_at=%v rejected_at=%v", got.ApprovedAt, got.RejectedAt)
	}
}

func TestApplicationRepository_MarkPickedUp_Once(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	c := seedCitizen(t, db, "1234567890123")
	repo := NewApplicationRepository(db)

	a := makeApplication(c.ID, appDomain.StatusApproved, c.NationalID)
	if err := repo.Create(ctx, a); err != nil {
		t.Fatal(err)
	}
	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	if n, err := repo.MarkPickedUp(ctx, a.ID, at); err != nil || n != 1 {
		t.Fatalf("first pickup n=%d err=%v", n, err)
	}
	if n, err := repo.MarkPickedUp(ctx, a.ID, at.Add(time.Hour)); err != nil || n != 0 {
		t.Fatalf("second pickup n=%d err=%v", n, err)
	}
	got, _ := repo.GetByID(ctx, a.ID)
	if !got.PickedUp || got.PickupTime == nil || !got.PickupTime.Equal(at) {
		t.Fatalf("picked_up=%v pickup_time=%v", got.PickedUp, got.PickupTime)
	}
}

func TestApplicationRepository_SetLicenseNumber_OnlyWhenEmpty(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	c := seedCitizen(t, db, "1234567890123")
	repo := NewApplicationRepository(db)

	a := makeApplication(c.ID, appDomain.StatusApproved, c.NationalID)
	if err := repo.Create(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := repo.SetLicenseNumber(ctx, a.ID, "CAR-1-AAAAAA"); err != nil {
		t.Fatal(err)
	}
	if err := repo.SetLicenseNumber(ctx, a.ID, "CAR-2-BBBBBB"); err != nil {
		t.Fatal(err)
	}
	got, _ := repo.GetByID(ctx, a.ID)
	if got.LicenseNumber == nil || *got.LicenseNumber != "CAR-1-AAAAAA" {
		t.Fatalf("license_number = %v", got.LicenseNumber)
	}
}

func TestApplicationRepository_List_FiltersByJSONNationalID(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	c1 := seedCitizen(t, db, "1111111111111")
	c2 := seedCitizen(t, db, "2222222222222")
	repo := NewApplicationRepository(db)

	if err := repo.Create(ctx, makeApplication(c1.ID, appDomain.StatusPending, c1.NationalID)); err != nil {
		t.Fatal(err)
	}
	if err := repo.Create(ctx, makeApplication(c2.ID, appDomain.StatusDraft, c2.NationalID)); err != nil {
		t.Fatal(err)
	}

	got, err := repo.List(ctx, appDomain.Filter{NationalID: "2222222222222"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].CitizenID != c2.ID {
		t.Fatalf("json filter returned %+v", got)
	}

	got, err = repo.List(ctx, appDomain.Filter{Status: appDomain.StatusPending})
	if err != nil || len(got) != 1 || got[0].CitizenID != c1.ID {
		t.Fatalf("status filter returned %+v err=%v", got, err)
	}
}

func TestApplicationRepository_ListByIDsInStatus(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	c := seedCitizen(t, db, "1234567890123")
	repo := NewApplicationRepository(db)

	pending := makeApplication(c.ID, appDomain.StatusPending, c.NationalID)
	approved := makeApplication(c.ID, appDomain.StatusApproved, c.NationalID)
	for _, a := range []*appDomain.Application{pending, approved} {
		if err := repo.Create(ctx, a); err != nil {
			t.Fatal(err)
		}
	}
	got, err := repo.ListByIDsInStatus(ctx, []string{pending.ID, approved.ID, "LIC-NOPE"}, appDomain.ReviewableStatuses)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != pending.ID {
		t.Fatalf("got %+v", got)
	}
}

func TestApplicationRepository_UpdateStage_OnlyWhileReviewable(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	c := seedCitizen(t, db, "1234567890123")
	repo := NewApplicationRepository(db)

	a := makeApplication(c.ID, appDomain.StatusDraft, c.NationalID)
	if err := repo.Create(ctx, a); err != nil {
		t.Fatal(err)
	}

	stale, _ := repo.GetByID(ctx, a.ID)
	stale.LicenseType = "motorcycle"
	stale.Status = appDomain.StatusRejected
	n, err := repo.UpdateStage(ctx, stale, "license_type")
	if err != nil || n != 1 {
		t.Fatalf("UpdateStage n=%d err=%v", n, err)
	}
	got, _ := repo.GetByID(ctx, a.ID)
	if got.LicenseType != "motorcycle" || got.Status != appDomain.StatusDraft {
		t.Fatalf("license_type=%s status=%s, want only license_type written", got.LicenseType, got.Status)
	}

	notes := "ok"
	if _, err := repo.ApplyDecision(ctx, []string{a.ID}, appDomain.Decision{Status: appDomain.StatusApproved, Notes: &notes, AdminID: "admin-1", DecidedAt: time.Now().UTC()}); err != nil {
		t.Fatal(err)
	}
	stale.Status = appDomain.StatusPending
	now := time.Now().UTC()
	stale.SubmittedAt = &now
	n, err = repo.UpdateStage(ctx, stale, "photos", "status", "submitted_at")
	if err != nil || n != 0 {
		t.Fatalf("late stage write applied: n=%d err=%v", n, err)
	}
	got, _ = repo.GetByID(ctx, a.ID)
	if got.Status != appDomain.StatusApproved {
		t.Fatalf("status = %s, decision overwritten", got.Status)
	}
}
