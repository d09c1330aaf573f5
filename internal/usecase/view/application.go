package view

import (
	"time"

	"driver-license-portal/internal/domain/application"
)

// ApplicationDTO is the client-facing shape of a license application.
type ApplicationDTO struct {
	ID               string                       `json:"id"`
	CitizenID        string                       `json:"citizenId"`
	ApplicantName    string                       `json:"applicantName"`
	NationalID       string                       `json:"nationalId"`
	LicenseType      string                       `json:"licenseType"`
	Status           string                       `json:"status"`
	PersonalInfo     application.PersonalInfo     `json:"personalInfo"`
	Documents        application.FileSet          `json:"documents"`
	Photos           application.FileSet          `json:"photos"`
	EmergencyContact application.EmergencyContact `json:"emergencyContact"`
	ReviewNotes      *string                      `json:"reviewNotes"`
	ReviewedBy       *string                      `json:"reviewedBy"`
	SubmittedAt      *time.Time                   `json:"submittedAt"`
	ApprovedAt       *time.Time                   `json:"approvedAt"`
	RejectedAt       *time.Time                   `json:"rejectedAt"`
	PickedUp         bool                         `json:"pickedUp"`
	PickupTime       *time.Time                   `json:"pickupTime"`
	LicenseNumber    *string                      `json:"licenseNumber"`
	CreatedAt        time.Time                    `json:"createdAt"`
	UpdatedAt        time.Time                    `json:"updatedAt"`
}

func Application(a *application.Application) ApplicationDTO {
	docs := a.Documents.Data()
	if docs == nil {
		docs = application.FileSet{}
	}
	photos := a.Photos.Data()
	if photos == nil {
		photos = application.FileSet{}
	}
	return ApplicationDTO{
		ID:               a.ID,
		CitizenID:        a.CitizenID,
		ApplicantName:    a.PersonalInfo.Name(),
		NationalID:       a.PersonalInfo.NationalID,
		LicenseType:      a.LicenseType,
		Status:           string(a.Status),
		PersonalInfo:     a.PersonalInfo,
		Documents:        docs,
		Photos:           photos,
		EmergencyContact: a.EmergencyContact.Data(),
		ReviewNotes:      a.ReviewNotes,
		ReviewedBy:       a.ReviewedBy,
		SubmittedAt:      a.SubmittedAt,
		ApprovedAt:       a.ApprovedAt,
		RejectedAt:       a.RejectedAt,
		PickedUp:         a.PickedUp,
		PickupTime:       a.PickupTime,
		LicenseNumber:    a.LicenseNumber,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

func Applications(in []application.Application) []ApplicationDTO {
	out := make([]ApplicationDTO, 0, len(in))
	for i := range in {
		out = append(out, Application(&in[i]))
	}
	return out
}
