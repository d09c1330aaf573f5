package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"driver-license-portal/internal/usecase/payment"
)

type PaymentHandler struct {
	uc  *payment.Usecase
	log logrus.FieldLogger
}

func NewPaymentHandler(uc *payment.Usecase, log logrus.FieldLogger) *PaymentHandler {
	return &PaymentHandler{uc: uc, log: log}
}

type paymentReq struct {
	ApplicationID string          `json:"applicationId" validate:"required"`
	Amount        any             `json:"amount"        validate:"required"`
	Method        string          `json:"method"        validate:"required"`
	Details       payment.Details `json:"details"`
}

type paymentResp struct {
	Success bool `json:"success"`
	*payment.ResultDTO
}

func (h *PaymentHandler) Pay(c echo.Context) error {
	var req paymentReq
	if err := bindValid(c, &req); err != nil {
		return writeError(c, h.log, err)
	}
	res, err := h.uc.Process(c.Request().Context(), payment.Input(req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, paymentResp{Success: true, ResultDTO: res})
}

func (h *PaymentHandler) History(c echo.Context) error {
	rows, err := h.uc.History(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": rows})
}
