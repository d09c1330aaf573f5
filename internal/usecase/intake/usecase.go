package intake

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"driver-license-portal/internal/domain/application"
	"driver-license-portal/internal/domain/citizen"
	"driver-license-portal/internal/domain/errs"
	"driver-license-portal/internal/domain/uow"
	"driver-license-portal/pkg/id"
)

const (
	categoryDocuments = "documents"
	categoryPhotos    = "photos"
)

// PhotoKinds must both be present on the photo stage.
var PhotoKinds = []string{"profilePhoto", "signature"}

// reKind bounds upload field names; they become a directory on disk.
var reKind = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidKind reports whether name is usable as a document or photo type.
func ValidKind(name string) bool { return reKind.MatchString(name) }

type CitizenResolver interface {
	Resolve(ctx context.Context, nationalID, email string) (*citizen.Citizen, error)
}

type FileStore interface {
	Save(ctx context.Context, category, kind, name string, r io.Reader) (string, int64, error)
}

type Usecase struct {
	uow       uow.UnitOfWork
	apps      application.Repository
	resolver  CitizenResolver
	files     FileStore
	maxUpload int64
	log       logrus.FieldLogger
	now       func() time.Time
}

func NewUsecase(u uow.UnitOfWork, apps application.Repository, resolver CitizenResolver, files FileStore, maxUpload int64, log logrus.FieldLogger) *Usecase {
	return &Usecase{
		uow:       u,
		apps:      apps,
		resolver:  resolver,
		files:     files,
		maxUpload: maxUpload,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SubmitPersonalInfo creates the citizen's DRAFT application or updates the
// one still in progress.
func (u *Usecase) SubmitPersonalInfo(ctx context.Context, in PersonalInfoInput) (*application.Application, error) {
	c, err := u.resolver.Resolve(ctx, in.NationalID, "")
	if err != nil {
		return nil, err
	}

	var out *application.Application
	err = u.uow.WithinCitizenTx(ctx, c.ID, func(r uow.Repos, c *citizen.Citizen) error {
		existing, err := r.Applications.GetActiveByCitizenID(ctx, c.ID)
		switch {
		case err == nil:
			existing.LicenseType = in.LicenseType
			existing.PersonalInfo = in.PersonalInfo
			if in.EmergencyContact != nil {
				existing.EmergencyContact = datatypes.NewJSONType(*in.EmergencyContact)
			}
			cols := []string{"license_type", "personal_info"}
			if in.EmergencyContact != nil {
				cols = append(cols, "emergency_contact")
			}
			if err := updateStage(ctx, r.Applications, existing, cols...); err != nil {
				return err
			}
			u.log.WithFields(logrus.Fields{"application_id": existing.ID, "citizen_id": c.ID}).Info("personal info updated")
			out = existing
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		a := &application.Application{
			ID:           id.NewApplicationID(u.now()),
			CitizenID:    c.ID,
			LicenseType:  in.LicenseType,
			Status:       application.StatusDraft,
			PersonalInfo: in.PersonalInfo,
			Documents:    datatypes.NewJSONType(application.FileSet{}),
			Photos:       datatypes.NewJSONType(application.FileSet{}),
		}
		if in.EmergencyContact != nil {
			a.EmergencyContact = datatypes.NewJSONType(*in.EmergencyContact)
		}
		if err := r.Applications.Create(ctx, a); err != nil {
			return err
		}
		u.log.WithFields(logrus.Fields{"application_id": a.ID, "citizen_id": c.ID}).Info("application created")
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) SubmitDocuments(ctx context.Context, in UploadInput) (*UploadResult, error) {
	if len(in.Files) == 0 {
		return nil, errs.Validation("No documents provided")
	}
	return u.upload(ctx, categoryDocuments, in)
}

// SubmitPhotos stores the profile photo and signature and moves a DRAFT
// application to PENDING.
func (u *Usecase) SubmitPhotos(ctx context.Context, in UploadInput) (*UploadResult, error) {
	have := map[string]bool{}
	for _, f := range in.Files {
		have[f.Kind] = true
	}
	var missing []string
	for _, k := range PhotoKinds {
		if !have[k] {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, errs.Validation("Missing required photos: %s", strings.Join(missing, ", ")).With("missing", missing)
	}
	return u.upload(ctx, categoryPhotos, in)
}

func (u *Usecase) upload(ctx context.Context, category string, in UploadInput) (*UploadResult, error) {
	for _, f := range in.Files {
		if !ValidKind(f.Kind) {
			return nil, errs.Validation("Invalid file field %q", f.Kind).With("field", f.Kind)
		}
		if u.maxUpload > 0 && f.Size > u.maxUpload {
			return nil, errs.Validation("%s exceeds the maximum file size of %d bytes", f.Kind, u.maxUpload).
				With("field", f.Kind)
		}
	}

	c, err := u.resolver.Resolve(ctx, in.NationalID, "")
	if err != nil {
		return nil, err
	}

	var out *UploadResult
	err = u.uow.WithinCitizenTx(ctx, c.ID, func(r uow.Repos, c *citizen.Citizen) error {
		a, err := r.Applications.GetActiveByCitizenID(ctx, c.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return application.ErrNotFound
		}
		if err != nil {
			return err
		}

		stored := application.FileSet{}
		for _, f := range in.Files {
			now := u.now()
			name := fmt.Sprintf("%s_%d%s", c.ID, now.UnixMilli(), strings.ToLower(filepath.Ext(f.FileName)))
			path, size, err := u.files.Save(ctx, category, f.Kind, name, f.Body)
			if err != nil {
				u.log.WithError(err).WithFields(logrus.Fields{"application_id": a.ID, "kind": f.Kind}).Error("file upload failed")
				return errs.Internal("Failed to upload %s", f.Kind).With("field", f.Kind)
			}
			stored[f.Kind] = application.FileRecord{FileName: f.FileName, FilePath: path, FileSize: size, UploadedAt: now}
		}

		var merged application.FileSet
		var cols []string
		if category == categoryPhotos {
			cols = append(cols, "photos", "status", "submitted_at")
			merged = mergeFiles(a.Photos.Data(), stored)
			a.Photos = datatypes.NewJSONType(merged)
			if a.Status == application.StatusDraft || a.Status == application.StatusPending {
				before := a.Status
				submitted := u.now()
				a.Status = application.StatusPending
				a.SubmittedAt = &submitted
				u.log.WithFields(logrus.Fields{"application_id": a.ID, "from": before, "to": a.Status}).Info("application submitted")
			}
		} else {
			cols = append(cols, "documents")
			merged = mergeFiles(a.Documents.Data(), stored)
			a.Documents = datatypes.NewJSONType(merged)
		}
		if in.LicenseType != "" && a.LicenseType == "" {
			a.LicenseType = in.LicenseType
			cols = append(cols, "license_type")
		}
		if err := updateStage(ctx, r.Applications, a, cols...); err != nil {
			return err
		}
		out = &UploadResult{ApplicationID: a.ID, Files: merged, Status: a.Status}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func mergeFiles(existing, added application.FileSet) application.FileSet {
	out := make(application.FileSet, len(existing)+len(added))
	for k, v := range existing {
		out[k] = v
	}
	for k, v := range added {
		out[k] = v
	}
	return out
}

func (u *Usecase) Get(ctx context.Context, applicationID string) (*application.Application, error) {
	a, err := u.apps.GetByID(ctx, applicationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, application.ErrNotFound
	}
	return a, err
}

// updateStage writes the stage's columns and reports a decision that landed
// after the application was read as the usual "already processed" error.
func updateStage(ctx context.Context, apps application.Repository, a *application.Application, cols ...string) error {
	n, err := apps.UpdateStage(ctx, a, cols...)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	cur, err := apps.GetByID(ctx, a.ID)
	if err != nil {
		return err
	}
	return application.AlreadyProcessed(cur.Status)
}
