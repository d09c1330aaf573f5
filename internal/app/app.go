package app

import (
	"context"
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"gorm.io/gorm"

	httpadp "driver-license-portal/internal/adapter/http"
	"driver-license-portal/internal/adapter/middleware"
	"driver-license-portal/internal/adapter/repository/gormstore"
	"driver-license-portal/internal/config"
	"driver-license-portal/internal/infrastructure/mailer"
	"driver-license-portal/internal/infrastructure/qrcode"
	"driver-license-portal/internal/infrastructure/ratelimit"
	"driver-license-portal/internal/infrastructure/storage"
	"driver-license-portal/internal/infrastructure/token"
	"driver-license-portal/internal/usecase/auth"
	"driver-license-portal/internal/usecase/identity"
	"driver-license-portal/internal/usecase/intake"
	"driver-license-portal/internal/usecase/license"
	"driver-license-portal/internal/usecase/payment"
	"driver-license-portal/internal/usecase/pickup"
	"driver-license-portal/internal/usecase/review"
	"driver-license-portal/pkg/retry"
)

// Deps are the process-level resources the API is built from.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Files  afero.Fs
	Mail   mailer.Sender
	Log    *logrus.Logger
}

// New wires repositories, usecases and handlers into an echo instance.
func New(d Deps) (*echo.Echo, error) {
	if d.Config == nil || d.DB == nil || d.Redis == nil {
		return nil, errors.New("app: config, db and redis are required")
	}
	cfg, log := d.Config, d.Log
	if d.Files == nil {
		d.Files = afero.NewOsFs()
	}
	if d.Mail == nil {
		d.Mail = mailer.NewLogSender(log)
	}

	citizens := gormstore.NewCitizenRepository(d.DB)
	apps := gormstore.NewApplicationRepository(d.DB)
	auditRepo := gormstore.NewAuditRepository(d.DB)
	tx := gormstore.NewGormUoW(d.DB)

	resolver := identity.NewResolver(citizens, log)
	notifier := mailer.NewNotifier(d.Mail, cfg.AppURL)
	tokens := token.NewIssuer(cfg.JWTSecret, cfg.JWTTTL())

	intakeUC := intake.NewUsecase(tx, apps, resolver, storage.NewDiskStore(d.Files, cfg.UploadDir), cfg.MaxUploadBytes, log)
	paymentUC := payment.NewUsecase(gormstore.NewPaymentRepository(d.DB), payment.MockProcessors(cfg.PaymentLatencyScale), log)
	reviewUC := review.NewUsecase(tx, apps, citizens, auditRepo, notifier, cfg.NotifyInterval, log)
	pickupUC := pickup.NewUsecase(apps, auditRepo, retry.New(pickup.RetryConfig(cfg.PickupRetryBase), log), log)
	licenseUC := license.NewUsecase(gormstore.NewQRCodeRepository(d.DB), apps, auditRepo, qrcode.NewEncoder(), cfg.AppURL, log)
	authUC := auth.NewUsecase(auth.Deps{
		UoW:         tx,
		Sessions:    gormstore.NewAuthSessionRepository(d.DB),
		Citizens:    citizens,
		Users:       gormstore.NewUserRepository(d.DB),
		Permissions: gormstore.NewPermissionRepository(d.DB),
		Resolver:    resolver,
		OTP:         notifier,
		Tokens:      tokens,
		Limiter:     ratelimit.NewFailureCounter(d.Redis, "login", cfg.LoginMaxFailures, cfg.LoginWindow),
	}, auth.Options{PermissiveOTP: cfg.PermissiveOTP, ExposeOTP: cfg.ExposeOTP}, log)

	if cfg.PermissiveOTP {
		log.Warn("PERMISSIVE_OTP is enabled: any 6-digit code is accepted")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Recover(), echomw.RequestID(), middleware.RequestLogger(log))
	e.Use(echomw.BodyLimit(bodyLimit(cfg.MaxUploadBytes)))

	httpadp.Register(e, httpadp.Routes{
		Health: httpadp.NewHandler(map[string]httpadp.Check{
			"db": func(ctx context.Context) error {
				sqlDB, err := d.DB.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
			"redis": func(ctx context.Context) error { return d.Redis.Ping(ctx).Err() },
		}),
		Apply:       httpadp.NewApplyHandler(intakeUC, log),
		Payment:     httpadp.NewPaymentHandler(paymentUC, log),
		Admin:       httpadp.NewAdminHandler(reviewUC, pickupUC, log),
		QRCode:      httpadp.NewQRCodeHandler(licenseUC, log),
		Auth:        httpadp.NewAuthHandler(authUC, log),
		Idempotency: middleware.Idempotency(d.Redis, cfg.IdempotencyTTL(), log),
		RequireAuth: middleware.RequireBearer(tokens, log),
	})
	return e, nil
}

// bodyLimit caps a whole multipart request at eight files of the configured
// size. Per-file limits are enforced by the intake usecase.
func bodyLimit(maxUpload int64) string {
	mb := (8*maxUpload)>>20 + 1
	return strconv.FormatInt(mb, 10) + "M"
}
