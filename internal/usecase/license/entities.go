package license

import "driver-license-portal/internal/domain/qrcode"

type GenerateInput struct {
	ApplicationID string
	// HolderName is used when the application carries no name of its own.
	HolderName string
}

type GenerateResult struct {
	LicenseNumber string         `json:"license_number"`
	QRCodeImage   string         `json:"qr_code_image"`
	IssueDate     string         `json:"issue_date"`
	ExpiryDate    string         `json:"expiry_date"`
	QRData        qrcode.Payload `json:"qr_data"`
	// Existing is true when a previously issued code was returned.
	Existing bool `json:"-"`
}

type LicenseDTO struct {
	LicenseNumber string `json:"license_number"`
	ApplicationID string `json:"application_id"`
	HolderName    string `json:"holder_name"`
	NationalID    string `json:"national_id"`
	LicenseType   string `json:"license_type"`
	IssuedDate    string `json:"issued_date"`
	ExpiryDate    string `json:"expiry_date"`
	Status        string `json:"status"`
	PickedUp      bool   `json:"picked_up"`
}

type VerifyResult struct {
	Valid   bool
	Expired bool
	License LicenseDTO
	Message string
}
