package gormstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/datatypes"

	appDomain "driver-license-portal/internal/domain/application"
	auditDomain "driver-license-portal/internal/domain/audit"
	sessionDomain "driver-license-portal/internal/domain/authsession"
	citizenDomain "driver-license-portal/internal/domain/citizen"
	paymentDomain "driver-license-portal/internal/domain/payment"
	qrDomain "driver-license-portal/internal/domain/qrcode"
	"driver-license-portal/internal/domain/uow"
	"driver-license-portal/internal/testutil/testdb"
	"driver-license-portal/pkg/id"
)

func TestCitizenRepository_Lookups(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	c := seedCitizen(t, db, "1234567890123")
	repo := NewCitizenRepository(db)

	if got, err := repo.GetByNationalID(ctx, " 1234567890123 "); err != nil || got.ID != c.ID {
		t.Fatalf("by national id: %v %v", got, err)
	}
	if got, err := repo.GetByEmail(ctx, "1234567890123@MAIL.bi"); err != nil || got.ID != c.ID {
		t.Fatalf("by email (case-insensitive): %v %v", got, err)
	}
	if _, err := repo.GetByEmailAndNationalID(ctx, c.Email, "9999999999999"); err == nil {
		t.Fatal("mismatched pair must not match")
	}
	if got, err := repo.GetByIDForUpdate(ctx, c.ID); err != nil || got.ID != c.ID {
		t.Fatalf("for update: %v %v", got, err)
	}
}

func TestUserRepository_EmailOrPhoneAndExists(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	u := &citizenDomain.User{
		ID: id.NewUUID(), FullName: "A", Email: "a@mail.bi", PhoneNumber: "+25779111111",
		NationalID: "1234567890123", Role: citizenDomain.RoleUser, PasswordHash: "x",
	}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"A@mail.bi", "+25779111111"} {
		got, err := repo.GetByEmailOrPhone(ctx, key)
		if err != nil || got.ID != u.ID {
			t.Fatalf("GetByEmailOrPhone(%q) = %v, %v", key, got, err)
		}
	}
	exists, err := repo.ExistsByEmailOrNationalID(ctx, "other@mail.bi", "1234567890123")
	if err != nil || !exists {
		t.Fatalf("exists=%v err=%v", exists, err)
	}
	exists, _ = repo.ExistsByEmailOrNationalID(ctx, "other@mail.bi", "9999999999999")
	if exists {
		t.Fatal("unexpected duplicate")
	}
}

func TestPermissionRepository_Upsert(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	repo := NewPermissionRepository(db)

	if err := repo.Upsert(ctx, &citizenDomain.Permission{CitizenID: "c-1", Email: true}); err != nil {
		t.Fatal(err)
	}
	loaded, err := repo.GetByCitizenID(ctx, "c-1")
	if err != nil {
		t.Fatal(err)
	}
	loaded.Email, loaded.Name, loaded.IsVerified = false, true, true
	if err := repo.Upsert(ctx, loaded); err != nil {
		t.Fatalf("upsert of a loaded row: %v", err)
	}
	var count int64
	db.Model(&citizenDomain.Permission{}).Where("citizen_id = ?", "c-1").Count(&count)
	if count != 1 {
		t.Fatalf("rows = %d, want 1", count)
	}
	got, err := repo.GetByCitizenID(ctx, "c-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Email || !got.Name || !got.IsVerified {
		t.Fatalf("flags not overwritten: %+v", got)
	}
}

func TestQRCodeRepository_UniquePerApplication(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	repo := NewQRCodeRepository(db)

	q := &qrDomain.QRCode{
		ApplicationID: "LIC-1", LicenseNumber: "CAR-1-AAAAAA", Image: "data:image/png;base64,AA",
		Data: datatypes.NewJSONType(qrDomain.Payload{LicenseNumber: "CAR-1-AAAAAA", ExpiryDate: "2031-01-01"}),
	}
	if err := repo.Create(ctx, q); err != nil {
		t.Fatal(err)
	}
	dup := &qrDomain.QRCode{ApplicationID: "LIC-1", LicenseNumber: "CAR-2-BBBBBB", Image: "x"}
	if err := repo.Create(ctx, dup); err == nil {
		t.Fatal("second qr row for the same application must violate the unique index")
	}

	got, err := repo.GetByLicenseNumber(ctx, "CAR-1-AAAAAA")
	if err != nil || got.Data.Data().ExpiryDate != "2031-01-01" {
		t.Fatalf("GetByLicenseNumber: %+v %v", got, err)
	}
	if n, err := repo.DeleteByApplicationID(ctx, "LIC-1"); err != nil || n != 1 {
		t.Fatalf("delete n=%d err=%v", n, err)
	}
	if _, err := repo.GetByApplicationID(ctx, "LIC-1"); err == nil {
		t.Fatal("row still present after delete")
	}
}

func TestPaymentRepository_AppendOnly(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	repo := NewPaymentRepository(db)

	for _, st := range []string{paymentDomain.StatusFailed, paymentDomain.StatusCompleted} {
		p := &paymentDomain.Payment{
			ApplicationID: "LIC-1", Status: st, Amount: 50000, Currency: paymentDomain.Currency,
			Method: string(paymentDomain.MethodCard), PaymentInfo: datatypes.JSON(`{"method":"card"}`),
		}
		if err := repo.Create(ctx, p); err != nil {
			t.Fatal(err)
		}
	}
	got, err := repo.ListByApplicationID(ctx, "LIC-1")
	if err != nil || len(got) != 2 {
		t.Fatalf("payments = %d err=%v", len(got), err)
	}
	if got[0].Status != paymentDomain.StatusFailed || got[1].Status != paymentDomain.StatusCompleted {
		t.Fatalf("order = %s, %s", got[0].Status, got[1].Status)
	}
}

func TestAuthSessionRepository_SaveUpdates(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	repo := NewAuthSessionRepository(db)

	s := &sessionDomain.Session{
		CitizenID: "c-1", TransactionID: "tx-1", OTPCode: "123456",
		OTPExpiresAt: time.Now().Add(10 * time.Minute), Status: sessionDomain.StatusPending,
	}
	if err := repo.Create(ctx, s); err != nil {
		t.Fatal(err)
	}
	s.Attempts = 2
	s.Status = sessionDomain.StatusFailed
	if err := repo.Save(ctx, s); err != nil {
		t.Fatal(err)
	}
	got, err := repo.GetByTransactionID(ctx, "tx-1")
	if err != nil || got.Attempts != 2 || got.Status != sessionDomain.StatusFailed {
		t.Fatalf("got %+v err=%v", got, err)
	}
}

func TestGormUoW_WithinCitizenTx_RollsBack(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	c := seedCitizen(t, db, "1234567890123")
	u := NewGormUoW(db)

	boom := errors.New("boom")
	var created string
	err := u.WithinCitizenTx(ctx, c.ID, func(r uow.Repos, locked *citizenDomain.Citizen) error {
		if locked.ID != c.ID {
			t.Fatalf("locked citizen = %s", locked.ID)
		}
		a := makeApplication(c.ID, appDomain.StatusDraft, c.NationalID)
		created = a.ID
		if err := r.Applications.Create(ctx, a); err != nil {
			return err
		}
		if err := r.Audit.Create(ctx, &auditDomain.Action{AdminID: "a", ActionType: "X", ApplicationID: a.ID}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if _, err := NewApplicationRepository(db).GetByID(ctx, created); err == nil {
		t.Fatal("application persisted despite rollback")
	}

	if err := u.WithinCitizenTx(ctx, "missing", func(uow.Repos, *citizenDomain.Citizen) error { return nil }); err == nil {
		t.Fatal("expected not-found for unknown citizen")
	}
}
