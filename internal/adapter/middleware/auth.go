package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"driver-license-portal/internal/infrastructure/token"
)

const claimsKey = "auth.claims"

type TokenParser interface {
	Parse(raw string) (*token.Claims, error)
}

// RequireBearer rejects requests without a valid session token and stores
// the token's claims on the context.
func RequireBearer(p TokenParser, log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(h, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				return jsonError(c, http.StatusUnauthorized, "Missing bearer token")
			}
			claims, err := p.Parse(strings.TrimSpace(raw))
			if err != nil {
				log.WithError(err).Debug("bearer token rejected")
				return jsonError(c, http.StatusUnauthorized, "Invalid or expired token")
			}
			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

func ClaimsFrom(c echo.Context) (*token.Claims, bool) {
	claims, ok := c.Get(claimsKey).(*token.Claims)
	return claims, ok && claims != nil
}
