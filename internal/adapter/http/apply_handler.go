package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"driver-license-portal/internal/domain/application"
	"driver-license-portal/internal/usecase/intake"
	"driver-license-portal/internal/usecase/view"
)

type ApplyHandler struct {
	uc  *intake.Usecase
	log logrus.FieldLogger
}

func NewApplyHandler(uc *intake.Usecase, log logrus.FieldLogger) *ApplyHandler {
	return &ApplyHandler{uc: uc, log: log}
}

type personalInfoReq struct {
	LicenseType      string                        `json:"licenseType"      validate:"required,licensetype"`
	PersonalInfo     *application.PersonalInfo     `json:"personalInfo"     validate:"required"`
	NationalID       string                        `json:"nationalId"       validate:"required"`
	EmergencyContact *application.EmergencyContact `json:"emergencyContact"`
}

func (h *ApplyHandler) PersonalInfo(c echo.Context) error {
	var req personalInfoReq
	if err := bindValid(c, &req); err != nil {
		return writeError(c, h.log, err)
	}
	app, err := h.uc.SubmitPersonalInfo(c.Request().Context(), intake.PersonalInfoInput{
		NationalID:       req.NationalID,
		LicenseType:      req.LicenseType,
		PersonalInfo:     *req.PersonalInfo,
		EmergencyContact: req.EmergencyContact,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":       true,
		"applicationId": app.ID,
		"data":          view.Application(app),
	})
}

func (h *ApplyHandler) Documents(c echo.Context) error {
	form, err := readUploadForm(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	defer form.Close()

	res, err := h.uc.SubmitDocuments(c.Request().Context(), intake.UploadInput{
		NationalID: form.NationalID, LicenseType: form.LicenseType, Files: form.Files,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":       true,
		"documents":     res.Files,
		"applicationId": res.ApplicationID,
	})
}

func (h *ApplyHandler) Photos(c echo.Context) error {
	form, err := readUploadForm(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	defer form.Close()

	res, err := h.uc.SubmitPhotos(c.Request().Context(), intake.UploadInput{
		NationalID: form.NationalID, LicenseType: form.LicenseType, Files: form.Files,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":       true,
		"photos":        res.Files,
		"applicationId": res.ApplicationID,
		"status":        "submitted",
	})
}

func (h *ApplyHandler) Get(c echo.Context) error {
	app, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": view.Application(app)})
}
