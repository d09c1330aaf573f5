package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"driver-license-portal/internal/domain/errs"
)

var kindStatus = map[errs.Kind]int{
	errs.KindValidation:   http.StatusBadRequest,
	errs.KindNotFound:     http.StatusNotFound,
	errs.KindConflict:     http.StatusConflict,
	errs.KindState:        http.StatusBadRequest,
	errs.KindDeclined:     http.StatusBadRequest,
	errs.KindUnauthorized: http.StatusUnauthorized,
	errs.KindRateLimited:  http.StatusTooManyRequests,
	errs.KindInternal:     http.StatusInternalServerError,
}

// StatusFor maps an error onto its HTTP status code.
func StatusFor(err error) int {
	return kindStatus[errs.KindOf(err)]
}

// writeError shapes err as {success:false, error, details?}. Only messages
// carried by *errs.Error reach the client.
func writeError(c echo.Context, log logrus.FieldLogger, err error) error {
	code := StatusFor(err)
	resp := ErrorResponse{Error: "Internal server error"}

	e, ok := errs.As(err)
	if ok {
		resp.Error = e.Message
		if len(e.Details) > 0 {
			resp.Details = e.Details
		}
		if secs, ok := e.Details["retryAfterSeconds"].(int); ok {
			c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
		}
	}

	entry := log.WithFields(logrus.Fields{
		"status":     code,
		"path":       c.Path(),
		"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
	})
	if code >= http.StatusInternalServerError {
		entry.WithError(err).Error("request failed")
	} else {
		entry.WithError(err).Debug("request rejected")
	}
	return c.JSON(code, resp)
}
