package application

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

type Status string

const (
	StatusDraft       Status = "DRAFT"
	StatusPending     Status = "PENDING"
	StatusUnderReview Status = "UNDER_REVIEW"
	StatusApproved    Status = "APPROVED"
	StatusRejected    Status = "REJECTED"
	StatusCancelled   Status = "CANCELLED"
)

// ReviewableStatuses are the states an admin decision can move out of.
var ReviewableStatuses = []Status{StatusDraft, StatusPending, StatusUnderReview}

// NormalizeStatus maps any casing of a known status onto its constant.
func NormalizeStatus(s string) (Status, error) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusDraft, StatusPending, StatusUnderReview, StatusApproved, StatusRejected, StatusCancelled:
		return st, nil
	}
	return "", ErrInvalidStatus.With("status", s)
}

func (s Status) Reviewable() bool {
	for _, r := range ReviewableStatuses {
		if s == r {
			return true
		}
	}
	return false
}

// ValidLicenseType accepts the fixed types plus any category_<x> variant.
func ValidLicenseType(t string) bool {
	switch t {
	case "car", "motorcycle", "commercial":
		return true
	}
	return strings.HasPrefix(t, "category_") && len(t) > len("category_")
}

func (s Status) Terminal() bool { return s == StatusApproved || s == StatusRejected }

type PersonalInfo struct {
	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
	FullName      string `json:"fullName,omitempty"`
	DateOfBirth   string `json:"dateOfBirth,omitempty"`
	Gender        string `json:"gender,omitempty"`
	Nationality   string `json:"nationality,omitempty"`
	NationalID    string `json:"nationalId,omitempty"`
	Address       string `json:"address,omitempty"`
	City          string `json:"city,omitempty"`
	Province      string `json:"province,omitempty"`
	PhoneNumber   string `json:"phoneNumber,omitempty"`
	Email         string `json:"email,omitempty"`
	BloodType     string `json:"bloodType,omitempty"`
	PlaceOfBirth  string `json:"placeOfBirth,omitempty"`
	Occupation    string `json:"occupation,omitempty"`
	PostalCode    string `json:"postalCode,omitempty"`
	MaritalStatus string `json:"maritalStatus,omitempty"`
}

// Name prefers the explicit full name and falls back to first + last.
func (p PersonalInfo) Name() string {
	if p.FullName != "" {
		return p.FullName
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Value stores personal info as JSON text so JSON-path filters work on every
// dialect, including SQLite builds that read BLOBs as JSONB.
func (p PersonalInfo) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *PersonalInfo) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*p = PersonalInfo{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("personal_info: unsupported scan type %T", value)
	}
	if len(raw) == 0 || string(raw) == "null" {
		*p = PersonalInfo{}
		return nil
	}
	return json.Unmarshal(raw, p)
}

func (PersonalInfo) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "JSONB"
	}
	return "JSON"
}

type EmergencyContact struct {
	Name         string `json:"name,omitempty"`
	Relationship string `json:"relationship,omitempty"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
}

// FileRecord is what the documents and photos columns store per file type.
type FileRecord struct {
	FileName   string    `json:"fileName"`
	FilePath   string    `json:"filePath"`
	FileSize   int64     `json:"fileSize"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type FileSet map[string]FileRecord

// Table: license_applications
type Application struct {
	ID               string                               `gorm:"column:id;primaryKey;size:64" json:"id"`
	CitizenID        string                               `gorm:"column:citizen_id;size:36;not null;index:idx_applications_citizen_status" json:"citizen_id"`
	LicenseType      string                               `gorm:"column:license_type;size:32;not null" json:"license_type"`
	Status           Status                               `gorm:"column:status;size:16;not null;default:DRAFT;index:idx_applications_citizen_status" json:"status"`
	PersonalInfo     PersonalInfo                         `gorm:"column:personal_info" json:"personal_info"`
	Documents        datatypes.JSONType[FileSet]          `gorm:"column:documents" json:"documents"`
	Photos           datatypes.JSONType[FileSet]          `gorm:"column:photos" json:"photos"`
	EmergencyContact datatypes.JSONType[EmergencyContact] `gorm:"column:emergency_contact" json:"emergency_contact"`
	ReviewNotes      *string                              `gorm:"column:review_notes;type:text" json:"review_notes"`
	ReviewedBy       *string                              `gorm:"column:reviewed_by;size:64" json:"reviewed_by"`
	SubmittedAt      *time.Time                           `gorm:"column:submitted_at" json:"submitted_at"`
	ApprovedAt       *time.Time                           `gorm:"column:approved_at" json:"approved_at"`
	RejectedAt       *time.Time                           `gorm:"column:rejected_at" json:"rejected_at"`
	PickedUp         bool                                 `gorm:"column:picked_up;not null;default:false" json:"picked_up"`
	PickupTime       *time.Time                           `gorm:"column:pickup_time" json:"pickup_time"`
	LicenseNumber    *string                              `gorm:"column:license_number;size:64" json:"license_number"`
	CreatedAt        time.Time                            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time                            `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Application) TableName() string { return "license_applications" }

// Decision is an admin review outcome applied through a conditional update.
type Decision struct {
	Status    Status
	Notes     *string
	AdminID   string
	DecidedAt time.Time
}

// Filter narrows admin listings.
type Filter struct {
	Status     Status
	NationalID string
	Limit      int
	Offset     int
}
