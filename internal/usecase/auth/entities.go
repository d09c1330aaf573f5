package auth

import (
	"time"

	"driver-license-portal/internal/domain/citizen"
)

type Options struct {
	// PermissiveOTP accepts any well-formed code.
	PermissiveOTP bool
	// ExposeOTP returns the issued code to the caller.
	ExposeOTP bool
}

type InitiateResult struct {
	TransactionID string    `json:"transactionId"`
	Message       string    `json:"message"`
	ExpiresAt     time.Time `json:"expiresAt"`
	OTP           string    `json:"otp,omitempty"`
}

type CitizenData struct {
	ID          string              `json:"id"`
	NationalID  string              `json:"nationalId"`
	FullName    string              `json:"fullName"`
	Email       string              `json:"email"`
	PhoneNumber string              `json:"phoneNumber"`
	Status      string              `json:"status"`
	Permissions *citizen.Permission `json:"permissions,omitempty"`
}

type PermissionFlags struct {
	Email       bool `json:"email"`
	Birthdate   bool `json:"birthdate"`
	Gender      bool `json:"gender"`
	Name        bool `json:"name"`
	PhoneNumber bool `json:"phoneNumber"`
	Picture     bool `json:"picture"`
}

type SignupInput struct {
	FullName    string
	Email       string
	NationalID  string
	PhoneNumber string
	Password    string
}

type Session struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type AuthResult struct {
	User    *citizen.User    `json:"user"`
	Profile *citizen.Citizen `json:"profile,omitempty"`
	Session Session          `json:"session"`
}

type ProfileInput struct {
	FullName    *string
	PhoneNumber *string
}
