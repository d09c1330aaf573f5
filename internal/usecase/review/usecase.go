package review

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"driver-license-portal/internal/domain/application"
	"driver-license-portal/internal/domain/audit"
	"driver-license-portal/internal/domain/citizen"
	"driver-license-portal/internal/domain/errs"
	"driver-license-portal/internal/domain/uow"
	"driver-license-portal/internal/usecase/view"
)

var ErrInvalidAction = errs.Validation("Invalid action. Must be APPROVED or REJECTED")

type Notifier interface {
	NotifyStatus(ctx context.Context, to, name, applicationID, status, notes string) error
}

type Usecase struct {
	uow      uow.UnitOfWork
	apps     application.Repository
	citizens citizen.Repository
	audit    audit.Repository
	notifier Notifier
	interval time.Duration
	log      logrus.FieldLogger
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration)
}

// NewUsecase wires admin review. interval is the pause between batch emails.
func NewUsecase(u uow.UnitOfWork, apps application.Repository, citizens citizen.Repository, auditRepo audit.Repository,
	notifier Notifier, interval time.Duration, log logrus.FieldLogger) *Usecase {
	return &Usecase{
		uow:      u,
		apps:     apps,
		citizens: citizens,
		audit:    auditRepo,
		notifier: notifier,
		interval: interval,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
		sleep:    sleepCtx,
	}
}

func parseAction(action string) (application.Status, error) {
	st, err := application.NormalizeStatus(action)
	if err != nil || (st != application.StatusApproved && st != application.StatusRejected) {
		return "", ErrInvalidAction.With("action", action)
	}
	return st, nil
}

func normalizeNotes(n *string) *string {
	if n == nil {
		return nil
	}
	s := strings.TrimSpace(*n)
	if s == "" {
		return nil
	}
	return &s
}

// Decide approves or rejects one application. The status change is a
// conditional update, so a concurrent decision surfaces as "already
// processed" instead of overwriting the first one.
func (u *Usecase) Decide(ctx context.Context, in DecisionInput) (*view.ApplicationDTO, error) {
	target, err := parseAction(in.Action)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.AdminID) == "" {
		return nil, errs.Validation("adminId is required").With("field", "adminId")
	}

	a, err := u.getApplication(ctx, in.ApplicationID)
	if err != nil {
		return nil, err
	}
	log := u.log.WithFields(logrus.Fields{"application_id": a.ID, "admin_id": in.AdminID, "from": a.Status, "to": target})
	if a.Status.Terminal() {
		log.Info("decision refused, already processed")
		return nil, application.AlreadyProcessed(a.Status)
	}

	notes := normalizeNotes(in.ReviewNotes)
	n, err := u.apps.ApplyDecision(ctx, []string{a.ID}, application.Decision{
		Status: target, Notes: notes, AdminID: in.AdminID, DecidedAt: u.now(),
	})
	if err != nil {
		return nil, err
	}
	updated, err := u.getApplication(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		log.WithField("current", updated.Status).Warn("decision lost race")
		if updated.Status.Terminal() {
			return nil, application.AlreadyProcessed(updated.Status)
		}
		return nil, errs.State("Application is not in a reviewable state").With("currentStatus", string(updated.Status))
	}
	log.Info("application reviewed")

	u.recordAudit(ctx, in.AdminID, actionType(target, false), updated.ID, notes)
	if err := u.notify(ctx, updated); err != nil {
		log.WithError(err).Warn("status email failed")
	}

	dto := view.Application(updated)
	return &dto, nil
}

// DecideBatch applies one decision to every listed application still in a
// reviewable state. Applications already decided are skipped, not reported
// as errors.
func (u *Usecase) DecideBatch(ctx context.Context, in BatchInput) (*BatchResult, error) {
	target, err := parseAction(in.Action)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.AdminID) == "" {
		return nil, errs.Validation("adminId is required").With("field", "adminId")
	}
	ids := dedupe(in.ApplicationIDs)
	if len(ids) == 0 {
		return nil, errs.Validation("applicationIds must be a non-empty array").With("field", "applicationIds")
	}

	notes := normalizeNotes(in.ReviewNotes)
	var updated []application.Application
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		eligible, err := r.Applications.ListByIDsInStatus(ctx, ids, application.ReviewableStatuses)
		if err != nil {
			return err
		}
		if len(eligible) == 0 {
			return application.ErrNothingToProcess
		}
		eligibleIDs := make([]string, 0, len(eligible))
		for _, a := range eligible {
			eligibleIDs = append(eligibleIDs, a.ID)
		}
		if _, err := r.Applications.ApplyDecision(ctx, eligibleIDs, application.Decision{
			Status: target, Notes: notes, AdminID: in.AdminID, DecidedAt: u.now(),
		}); err != nil {
			return err
		}
		updated, err = r.Applications.ListByIDsInStatus(ctx, eligibleIDs, []application.Status{target})
		return err
	})
	if err != nil {
		return nil, err
	}

	sum := Summary{Requested: len(ids), Updated: len(updated), Skipped: len(ids) - len(updated)}
	u.log.WithFields(logrus.Fields{
		"admin_id":  in.AdminID,
		"action":    target,
		"requested": sum.Requested,
		"updated":   sum.Updated,
	}).Info("batch review applied")

	for i := range updated {
		u.recordAudit(ctx, in.AdminID, actionType(target, true), updated[i].ID, notes)
	}
	for i := range updated {
		if i > 0 {
			u.sleep(ctx, u.interval)
		}
		if err := u.notify(ctx, &updated[i]); err != nil {
			sum.EmailsFailed++
			u.log.WithError(err).WithField("application_id", updated[i].ID).Warn("batch status email failed")
			continue
		}
		sum.EmailsSent++
	}

	return &BatchResult{Applications: view.Applications(updated), Summary: sum}, nil
}

func (u *Usecase) List(ctx context.Context, in ListInput) ([]view.ApplicationDTO, error) {
	f := application.Filter{NationalID: strings.TrimSpace(in.NationalID), Limit: in.Limit, Offset: in.Offset}
	if in.Status != "" {
		st, err := application.NormalizeStatus(in.Status)
		if err != nil {
			return nil, err
		}
		f.Status = st
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	apps, err := u.apps.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return view.Applications(apps), nil
}

func (u *Usecase) getApplication(ctx context.Context, id string) (*application.Application, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errs.Validation("applicationId is required").With("field", "applicationId")
	}
	a, err := u.apps.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, application.ErrNotFound
	}
	return a, err
}

func (u *Usecase) recordAudit(ctx context.Context, adminID, action, applicationID string, notes *string) {
	err := u.audit.Create(ctx, &audit.Action{AdminID: adminID, ActionType: action, ApplicationID: applicationID, Notes: notes})
	if err != nil {
		u.log.WithError(err).WithFields(logrus.Fields{"application_id": applicationID, "action": action}).Warn("audit insert failed")
	}
}

// notify emails the applicant, preferring the citizen record's address.
func (u *Usecase) notify(ctx context.Context, a *application.Application) error {
	to, name := a.PersonalInfo.Email, a.PersonalInfo.Name()
	if c, err := u.citizens.GetByID(ctx, a.CitizenID); err == nil {
		if c.Email != "" {
			to = c.Email
		}
		if name == "" {
			name = c.FullName
		}
	}
	if to == "" {
		return errors.New("no email address on file")
	}
	notes := ""
	if a.ReviewNotes != nil {
		notes = *a.ReviewNotes
	}
	return u.notifier.NotifyStatus(ctx, to, name, a.ID, string(a.Status), notes)
}

func actionType(target application.Status, bulk bool) string {
	t := audit.ActionReject
	if target == application.StatusApproved {
		t = audit.ActionApprove
	}
	if bulk {
		t = audit.ActionBulkPrefix + t
	}
	return t
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
