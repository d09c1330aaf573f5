package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"driver-license-portal/internal/domain/application"
	"driver-license-portal/internal/domain/qrcode"
	"driver-license-portal/internal/usecase/license"
)

type QRCodeHandler struct {
	uc  *license.Usecase
	log logrus.FieldLogger
}

func NewQRCodeHandler(uc *license.Usecase, log logrus.FieldLogger) *QRCodeHandler {
	return &QRCodeHandler{uc: uc, log: log}
}

type generateReq struct {
	ApplicationID string                    `json:"applicationId" validate:"required"`
	PersonalInfo  *application.PersonalInfo `json:"personalInfo"`
}

func (h *QRCodeHandler) Generate(c echo.Context) error {
	var req generateReq
	if err := bindValid(c, &req); err != nil {
		return writeError(c, h.log, err)
	}
	in := license.GenerateInput{ApplicationID: req.ApplicationID}
	if req.PersonalInfo != nil {
		in.HolderName = req.PersonalInfo.Name()
	}
	res, err := h.uc.Generate(c.Request().Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	msg := "QR code generated"
	if res.Existing {
		msg = "QR code already exists"
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": msg, "data": res})
}

func (h *QRCodeHandler) Verify(c echo.Context) error {
	res, err := h.uc.Verify(c.Request().Context(), c.QueryParam("license"))
	if errors.Is(err, qrcode.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]any{
			"success": false,
			"valid":   false,
			"error":   qrcode.ErrNotFound.Message,
			"message": qrcode.ErrNotFound.Message,
		})
	}
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"valid":   res.Valid,
		"expired": res.Expired,
		"license": res.License,
		"message": res.Message,
	})
}

func (h *QRCodeHandler) Delete(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), c.Param("applicationId"), c.QueryParam("adminId")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "QR code deleted"})
}
