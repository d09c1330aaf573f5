package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"driver-license-portal/internal/adapter/middleware"
	"driver-license-portal/internal/domain/errs"
	"driver-license-portal/internal/usecase/auth"
)

type AuthHandler struct {
	uc  *auth.Usecase
	log logrus.FieldLogger
}

func NewAuthHandler(uc *auth.Usecase, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{uc: uc, log: log}
}

type initiateReq struct {
	NationalID string `json:"nationalId"`
	Email      string `json:"email" validate:"omitempty,email"`
}

type verifyOTPReq struct {
	NationalID    string `json:"nationalId"`
	OTP           string `json:"otp"           validate:"required"`
	TransactionID string `json:"transactionId" validate:"required"`
}

type permissionsReq struct {
	CitizenID   string               `json:"citizenId"   validate:"required"`
	Permissions auth.PermissionFlags `json:"permissions"`
}

type signupReq struct {
	FullName    string `json:"fullName"    validate:"required"`
	Email       string `json:"email"       validate:"required,email"`
	NationalID  string `json:"nationalId"  validate:"required,nationalid"`
	PhoneNumber string `json:"phoneNumber" validate:"required,phone"`
	Password    string `json:"password"    validate:"required,min=8"`
}

type loginReq struct {
	EmailOrPhone string `json:"emailOrPhone" validate:"required"`
	Password     string `json:"password"     validate:"required"`
}

type profileReq struct {
	FullName    *string `json:"fullName"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,phone"`
}

func (h *AuthHandler) Initiate(c echo.Context) error {
	var req initiateReq
	if err := bindValid(c, &req); err != nil {
		return writeError(c, h.log, err)
	}
	res, err := h.uc.Initiate(c.Request().Context(), req.NationalID, req.Email)
	if err != nil {
		return writeError(c, h.log, err)
	}
	body := map[string]any{
		"success":       true,
		"transactionId": res.TransactionID,
		"message":       res.Message,
		"expiresAt":     res.ExpiresAt,
	}
	if res.OTP != "" {
		body["otp"] = res.OTP
	}
	return c.JSON(http.StatusOK, body)
}

func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req verifyOTPReq
	if err := bindValid(c, &req); err != nil {
		return writeError(c, h.log, err)
	}
	data, err := h.uc.VerifyOTP(c.Request().Context(), req.NationalID, req.OTP, req.TransactionID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "citizenData": data})
}

func (h *AuthHandler) Permissions(c echo.Context) error {
	var req permissionsReq
	if err := bindValid(c, &req); err != nil {
		return writeError(c, h.log, err)
	}
	p, err := h.uc.SetPermissions(c.Request().Context(), req.CitizenID, req.Permissions)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "permissions": p})
}

func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := bindValid(c, &req); err != nil {
		return writeError(c, h.log, err)
	}
	res, err := h.uc.Signup(c.Request().Context(), auth.SignupInput(req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"user":    res.User,
		"profile": res.Profile,
		"session": res.Session,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bindValid(c, &req); err != nil {
		return writeError(c, h.log, err)
	}
	res, err := h.uc.Login(c.Request().Context(), req.EmailOrPhone, req.Password)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"user":    res.User,
		"profile": res.Profile,
		"session": res.Session,
	})
}

func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return writeError(c, h.log, errs.Unauthorized("Missing bearer token"))
	}
	var req profileReq
	if err := bindValid(c, &req); err != nil {
		return writeError(c, h.log, err)
	}
	user, err := h.uc.UpdateProfile(c.Request().Context(), claims.UserID, auth.ProfileInput(req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "user": user})
}
