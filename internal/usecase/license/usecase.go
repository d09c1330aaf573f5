package license

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"driver-license-portal/internal/domain/application"
	"driver-license-portal/internal/domain/audit"
	"driver-license-portal/internal/domain/errs"
	"driver-license-portal/internal/domain/qrcode"
	"driver-license-portal/pkg/id"
)

const dateLayout = "2006-01-02"

// validityYears is the license term per type; anything else gets five years.
var validityYears = map[string]int{
	"car":        5,
	"motorcycle": 5,
	"commercial": 3,
}

func ValidityYears(licenseType string) int {
	if y, ok := validityYears[strings.ToLower(licenseType)]; ok {
		return y
	}
	return 5
}

type Encoder interface {
	Encode(text string) (string, error)
}

type Usecase struct {
	codes  qrcode.Repository
	apps   application.Repository
	audit  audit.Repository
	enc    Encoder
	appURL string
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewUsecase(codes qrcode.Repository, apps application.Repository, auditRepo audit.Repository, enc Encoder, appURL string, log logrus.FieldLogger) *Usecase {
	return &Usecase{
		codes:  codes,
		apps:   apps,
		audit:  auditRepo,
		enc:    enc,
		appURL: strings.TrimRight(appURL, "/"),
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Generate issues the QR code for an application once. Repeated calls
// return the stored code unchanged.
func (u *Usecase) Generate(ctx context.Context, in GenerateInput) (*GenerateResult, error) {
	if strings.TrimSpace(in.ApplicationID) == "" {
		return nil, errs.Validation("applicationId is required").With("field", "applicationId")
	}
	if existing, err := u.codes.GetByApplicationID(ctx, in.ApplicationID); err == nil {
		u.log.WithField("application_id", in.ApplicationID).Debug("qr code already issued")
		return fromStored(existing), nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	a, err := u.apps.GetByID(ctx, in.ApplicationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, application.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	now := u.now()
	number := ""
	if a.LicenseNumber != nil && *a.LicenseNumber != "" {
		number = *a.LicenseNumber
	} else {
		number = id.NewLicenseNumber(a.LicenseType, now)
	}
	holder := a.PersonalInfo.Name()
	if holder == "" {
		holder = strings.TrimSpace(in.HolderName)
	}
	payload := qrcode.Payload{
		LicenseNumber: number,
		ApplicationID: a.ID,
		LicenseType:   a.LicenseType,
		HolderName:    holder,
		NationalID:    a.PersonalInfo.NationalID,
		IssuedDate:    now.Format(dateLayout),
		ExpiryDate:    now.AddDate(ValidityYears(a.LicenseType), 0, 0).Format(dateLayout),
		Status:        string(a.Status),
		GeneratedAt:   now,
	}

	text, err := u.qrText(payload)
	if err != nil {
		return nil, err
	}
	image, err := u.enc.Encode(text)
	if err != nil {
		return nil, err
	}

	row := &qrcode.QRCode{
		ApplicationID: a.ID,
		LicenseNumber: number,
		Data:          datatypes.NewJSONType(payload),
		Image:         image,
	}
	if err := u.codes.Create(ctx, row); err != nil {
		// a concurrent request may have issued it first
		if existing, gerr := u.codes.GetByApplicationID(ctx, a.ID); gerr == nil {
			return fromStored(existing), nil
		}
		return nil, err
	}
	log := u.log.WithFields(logrus.Fields{"application_id": a.ID, "license_number": number})
	log.Info("qr code issued")

	if a.LicenseNumber == nil || *a.LicenseNumber == "" {
		if err := u.apps.SetLicenseNumber(ctx, a.ID, number); err != nil {
			log.WithError(err).Warn("license number backfill failed")
		}
	}

	return &GenerateResult{
		LicenseNumber: number,
		QRCodeImage:   image,
		IssueDate:     payload.IssuedDate,
		ExpiryDate:    payload.ExpiryDate,
		QRData:        payload,
	}, nil
}

// VerificationURL is the public page a scanned code points to.
func VerificationURL(appURL, licenseNumber string) string {
	return strings.TrimRight(appURL, "/") + "/verify?license=" + url.QueryEscape(licenseNumber)
}

// qrText is the JSON string embedded in the image.
func (u *Usecase) qrText(p qrcode.Payload) (string, error) {
	b, err := json.Marshal(struct {
		qrcode.Payload
		VerificationURL string `json:"verification_url"`
	}{p, VerificationURL(u.appURL, p.LicenseNumber)})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func fromStored(q *qrcode.QRCode) *GenerateResult {
	p := q.Data.Data()
	return &GenerateResult{
		LicenseNumber: q.LicenseNumber,
		QRCodeImage:   q.Image,
		IssueDate:     p.IssuedDate,
		ExpiryDate:    p.ExpiryDate,
		QRData:        p,
		Existing:      true,
	}
}

// Verify checks a license number against its stored QR record and the
// current application status.
func (u *Usecase) Verify(ctx context.Context, licenseNumber string) (*VerifyResult, error) {
	licenseNumber = strings.TrimSpace(licenseNumber)
	if licenseNumber == "" {
		return nil, qrcode.ErrMissingLicense
	}
	q, err := u.codes.GetByLicenseNumber(ctx, licenseNumber)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, qrcode.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p := q.Data.Data()

	lic := LicenseDTO{
		LicenseNumber: q.LicenseNumber,
		ApplicationID: q.ApplicationID,
		HolderName:    p.HolderName,
		NationalID:    p.NationalID,
		LicenseType:   p.LicenseType,
		IssuedDate:    p.IssuedDate,
		ExpiryDate:    p.ExpiryDate,
		Status:        p.Status,
	}
	a, err := u.apps.GetByID(ctx, q.ApplicationID)
	switch {
	case err == nil:
		lic.Status = string(a.Status)
		lic.PickedUp = a.PickedUp
	case errors.Is(err, gorm.ErrRecordNotFound):
		u.log.WithField("license_number", licenseNumber).Warn("qr code without application")
		lic.Status = ""
	default:
		return nil, err
	}

	expired := true
	if exp, perr := time.Parse(dateLayout, p.ExpiryDate); perr == nil {
		expired = u.now().After(exp)
	}
	status := strings.ToLower(lic.Status)
	valid := !expired && (status == "approved" || status == "completed")

	res := &VerifyResult{Valid: valid, Expired: expired, License: lic}
	switch {
	case valid:
		res.Message = "License is valid"
	case expired:
		res.Message = "License has expired"
	default:
		res.Message = "License is not valid"
	}
	u.log.WithFields(logrus.Fields{"license_number": licenseNumber, "valid": valid, "expired": expired}).Info("license verified")
	return res, nil
}

// Delete removes an application's QR code so it can be issued again.
func (u *Usecase) Delete(ctx context.Context, applicationID, adminID string) error {
	n, err := u.codes.DeleteByApplicationID(ctx, applicationID)
	if err != nil {
		return err
	}
	if n == 0 {
		return qrcode.ErrNoQRCode
	}
	u.log.WithFields(logrus.Fields{"application_id": applicationID, "admin_id": adminID}).Info("qr code deleted")
	if adminID != "" {
		if err := u.audit.Create(ctx, &audit.Action{AdminID: adminID, ActionType: audit.ActionDeleteQR, ApplicationID: applicationID}); err != nil {
			u.log.WithError(err).Warn("audit insert failed")
		}
	}
	return nil
}
