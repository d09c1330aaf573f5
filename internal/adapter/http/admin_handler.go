package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"driver-license-portal/internal/domain/errs"
	"driver-license-portal/internal/usecase/pickup"
	"driver-license-portal/internal/usecase/review"
)

type AdminHandler struct {
	review *review.Usecase
	pickup *pickup.Usecase
	log    logrus.FieldLogger
}

func NewAdminHandler(r *review.Usecase, p *pickup.Usecase, log logrus.FieldLogger) *AdminHandler {
	return &AdminHandler{review: r, pickup: p, log: log}
}

type decisionReq struct {
	ApplicationID string  `json:"applicationId" validate:"required"`
	Action        string  `json:"action"        validate:"required"`
	ReviewNotes   *string `json:"reviewNotes"`
	AdminID       string  `json:"adminId"       validate:"required"`
}

type batchReq struct {
	ApplicationIDs []string `json:"applicationIds" validate:"required,min=1"`
	Action         string   `json:"action"         validate:"required"`
	ReviewNotes    *string  `json:"reviewNotes"`
	AdminID        string   `json:"adminId"        validate:"required"`
}

type pickupReq struct {
	ApplicationID string `json:"applicationId" validate:"required"`
	CitizenID     string `json:"citizenId"     validate:"required"`
	PickupTime    string `json:"pickupTime"    validate:"required"`
	AdminID       string `json:"adminId"`
}

func (h *AdminHandler) Decide(c echo.Context) error {
	var req decisionReq
	if err := bindValid(c, &req); err != nil {
		return writeError(c, h.log, err)
	}
	dto, err := h.review.Decide(c.Request().Context(), review.DecisionInput(req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Application %s successfully", strings.ToLower(dto.Status)),
		"data":    dto,
	})
}

func (h *AdminHandler) DecideBatch(c echo.Context) error {
	var req batchReq
	if err := bindValid(c, &req); err != nil {
		return writeError(c, h.log, err)
	}
	res, err := h.review.DecideBatch(c.Request().Context(), review.BatchInput(req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("%d application(s) %s successfully", res.Summary.Updated, strings.ToLower(strings.TrimSpace(req.Action))),
		"data":    res.Applications,
		"summary": res.Summary,
	})
}

func (h *AdminHandler) List(c echo.Context) error {
	in := review.ListInput{
		Status:     c.QueryParam("status"),
		NationalID: c.QueryParam("nationalId"),
	}
	var err error
	if in.Limit, err = queryInt(c, "limit"); err != nil {
		return writeError(c, h.log, err)
	}
	if in.Offset, err = queryInt(c, "offset"); err != nil {
		return writeError(c, h.log, err)
	}
	rows, err := h.review.List(c.Request().Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": rows, "count": len(rows)})
}

func (h *AdminHandler) ConfirmPickup(c echo.Context) error {
	var req pickupReq
	if err := bindValid(c, &req); err != nil {
		return writeError(c, h.log, err)
	}
	dto, err := h.pickup.Confirm(c.Request().Context(), pickup.Input(req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "License pickup confirmed",
		"data":    dto,
	})
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errs.Validation("%s must be a non-negative integer", name).With("field", name)
	}
	return n, nil
}
