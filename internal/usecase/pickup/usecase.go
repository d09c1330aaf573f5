package pickup

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"driver-license-portal/internal/domain/application"
	"driver-license-portal/internal/domain/audit"
	"driver-license-portal/internal/domain/errs"
	"driver-license-portal/internal/usecase/view"
	"driver-license-portal/pkg/retry"
)

type Input struct {
	ApplicationID string
	CitizenID     string
	PickupTime    string
	AdminID       string
}

type Usecase struct {
	apps    application.Repository
	audit   audit.Repository
	retrier *retry.Retrier
	log     logrus.FieldLogger
}

// RetryConfig retries transient store failures only. Domain outcomes and
// missing rows are final on the first attempt.
func RetryConfig(base time.Duration) retry.Config {
	cfg := retry.DefaultConfig()
	cfg.BaseDelay = base
	cfg.Retryable = func(err error) bool {
		if _, ok := errs.As(err); ok {
			return false
		}
		return !errors.Is(err, gorm.ErrRecordNotFound) && !errors.Is(err, context.Canceled)
	}
	return cfg
}

func NewUsecase(apps application.Repository, auditRepo audit.Repository, retrier *retry.Retrier, log logrus.FieldLogger) *Usecase {
	return &Usecase{apps: apps, audit: auditRepo, retrier: retrier, log: log}
}

// Confirm records that the citizen collected an approved license. Only the
// first confirmation wins; later ones report the recorded pickup time.
func (u *Usecase) Confirm(ctx context.Context, in Input) (*view.ApplicationDTO, error) {
	var missing []string
	if strings.TrimSpace(in.ApplicationID) == "" {
		missing = append(missing, "applicationId")
	}
	if strings.TrimSpace(in.CitizenID) == "" {
		missing = append(missing, "citizenId")
	}
	if strings.TrimSpace(in.PickupTime) == "" {
		missing = append(missing, "pickupTime")
	}
	if len(missing) > 0 {
		return nil, errs.Validation("Missing required fields: %s", strings.Join(missing, ", ")).With("missing", missing)
	}
	at, err := time.Parse(time.RFC3339, strings.TrimSpace(in.PickupTime))
	if err != nil {
		return nil, errs.Validation("pickupTime must be an RFC 3339 timestamp").With("field", "pickupTime")
	}
	at = at.UTC()

	a, err := u.load(ctx, in.ApplicationID)
	if err != nil {
		return nil, err
	}
	log := u.log.WithFields(logrus.Fields{"application_id": a.ID, "citizen_id": in.CitizenID, "status": a.Status})
	if a.CitizenID != in.CitizenID {
		log.Info("pickup refused, citizen does not own application")
		return nil, application.ErrNotFound
	}
	if !strings.EqualFold(string(a.Status), string(application.StatusApproved)) {
		return nil, application.ErrNotApproved.With("currentStatus", string(a.Status))
	}
	if a.PickedUp {
		return nil, alreadyPickedUp(a)
	}

	var n int64
	err = u.retrier.Execute(ctx, "pickup.mark", func(ctx context.Context) error {
		var err error
		n, err = u.apps.MarkPickedUp(ctx, a.ID, at)
		return err
	})
	if err != nil {
		return nil, err
	}

	updated, err := u.load(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		log.Warn("pickup already confirmed concurrently")
		return nil, alreadyPickedUp(updated)
	}
	log.WithField("pickup_time", at).Info("license picked up")

	if in.AdminID != "" {
		if err := u.audit.Create(ctx, &audit.Action{AdminID: in.AdminID, ActionType: audit.ActionPickup, ApplicationID: a.ID}); err != nil {
			log.WithError(err).Warn("audit insert failed")
		}
	}
	dto := view.Application(updated)
	return &dto, nil
}

func (u *Usecase) load(ctx context.Context, id string) (*application.Application, error) {
	var a *application.Application
	err := u.retrier.Execute(ctx, "pickup.load", func(ctx context.Context) error {
		var err error
		a, err = u.apps.GetByID(ctx, id)
		return err
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, application.ErrNotFound
	}
	return a, err
}

func alreadyPickedUp(a *application.Application) error {
	e := application.ErrAlreadyPickedUp
	if a.PickupTime != nil {
		return e.With("pickupTime", a.PickupTime.UTC().Format(time.RFC3339))
	}
	return e
}
