package intake

import (
	"io"

	"driver-license-portal/internal/domain/application"
)

type PersonalInfoInput struct {
	NationalID       string
	LicenseType      string
	PersonalInfo     application.PersonalInfo
	EmergencyContact *application.EmergencyContact
}

// Upload is one file from a multipart form, keyed by the form field that
// names its document or photo type.
type Upload struct {
	Kind     string
	FileName string
	Size     int64
	Body     io.Reader
}

type UploadInput struct {
	NationalID  string
	LicenseType string
	Files       []Upload
}

type UploadResult struct {
	ApplicationID string
	Files         application.FileSet
	Status        application.Status
}
