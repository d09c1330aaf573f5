package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Routes bundles every handler the API serves. Idempotency and RequireAuth
// may be nil.
type Routes struct {
	Health  *Handler
	Apply   *ApplyHandler
	Payment *PaymentHandler
	Admin   *AdminHandler
	QRCode  *QRCodeHandler
	Auth    *AuthHandler

	Idempotency echo.MiddlewareFunc
	RequireAuth echo.MiddlewareFunc
}

func Register(e *echo.Echo, r Routes) {
	e.GET("/health", r.Health.Health)

	var mw []echo.MiddlewareFunc
	if r.Idempotency != nil {
		mw = append(mw, r.Idempotency)
	}
	api := e.Group("/api", mw...)

	api.POST("/apply/personalInfo", r.Apply.PersonalInfo)
	api.POST("/apply/documents", r.Apply.Documents)
	api.POST("/apply/photos", r.Apply.Photos)
	api.GET("/applications/:id", r.Apply.Get)

	api.POST("/applications/payment", r.Payment.Pay)
	api.GET("/applications/:id/payments", r.Payment.History)

	admin := api.Group("/admin/applications")
	admin.GET("", r.Admin.List)
	admin.POST("/approve", r.Admin.Decide)
	admin.PATCH("/approve", r.Admin.DecideBatch)
	admin.POST("/confirm-pickup", r.Admin.ConfirmPickup)

	api.POST("/qr-codes/generate", r.QRCode.Generate)
	api.GET("/qr-codes/verify", r.QRCode.Verify)
	api.DELETE("/qr-codes/:applicationId", r.QRCode.Delete)

	authGrp := api.Group("/auth")
	authGrp.POST("/initiate", r.Auth.Initiate)
	authGrp.POST("/verifyotp", r.Auth.VerifyOTP)
	authGrp.POST("/permissions", r.Auth.Permissions)
	authGrp.POST("/signup", r.Auth.Signup)
	authGrp.POST("/login", r.Auth.Login)
	var profileMW []echo.MiddlewareFunc
	if r.RequireAuth != nil {
		profileMW = append(profileMW, r.RequireAuth)
	}
	authGrp.PUT("/profile", r.Auth.UpdateProfile, profileMW...)

	e.RouteNotFound("/api/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "Route not found"})
	})
}
