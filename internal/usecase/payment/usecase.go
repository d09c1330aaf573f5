package payment

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"driver-license-portal/internal/domain/errs"
	domain "driver-license-portal/internal/domain/payment"
	"driver-license-portal/pkg/id"
)

const dueIn = 30 * 24 * time.Hour

var txPrefix = map[domain.Method]string{
	domain.MethodCard:   "CARD",
	domain.MethodMobile: "MOBILE",
	domain.MethodBank:   "BANK",
}

type Usecase struct {
	repo       domain.Repository
	processors map[domain.Method]Processor
	log        logrus.FieldLogger
	now        func() time.Time
}

func NewUsecase(repo domain.Repository, processors []Processor, log logrus.FieldLogger) *Usecase {
	m := make(map[domain.Method]Processor, len(processors))
	for _, p := range processors {
		m[p.Method()] = p
	}
	return &Usecase{repo: repo, processors: m, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Process charges the payment through the method's processor and records
// the attempt. A declined or malformed payment still leaves a failed row.
func (u *Usecase) Process(ctx context.Context, in Input) (*ResultDTO, error) {
	if strings.TrimSpace(in.ApplicationID) == "" {
		return nil, errs.Validation("applicationId is required").With("field", "applicationId")
	}
	amount, err := NormalizeAmount(in.Amount)
	if err != nil {
		return nil, err
	}
	method := domain.Method(strings.ToLower(strings.TrimSpace(in.Method)))
	log := u.log.WithFields(logrus.Fields{"application_id": in.ApplicationID, "method": method, "amount": amount})

	proc, ok := u.processors[method]
	if !ok {
		u.recordFailure(ctx, in, method, amount, ErrUnsupportedMethod)
		return nil, ErrUnsupportedMethod.With("method", in.Method)
	}

	out, err := proc.Process(ctx, amount, in.Details)
	if err != nil {
		log.WithError(err).Warn("payment failed")
		u.recordFailure(ctx, in, method, amount, err)
		return nil, err
	}

	now := u.now()
	due := now.Add(dueIn)
	p := &domain.Payment{
		ApplicationID:         in.ApplicationID,
		PaymentInfo:           paymentInfo(method, in.Details),
		Status:                domain.StatusCompleted,
		TransactionID:         id.NewTransactionID(txPrefix[method], now),
		Amount:                amount,
		Currency:              domain.Currency,
		Method:                string(method),
		ProcessingFee:         out.ProcessingFee,
		Provider:              out.Provider,
		ProviderTransactionID: out.ProviderTransactionID,
		DueDate:               &due,
		ProcessedAt:           &now,
	}
	if err := u.repo.Create(ctx, p); err != nil {
		log.WithError(err).Error("payment record insert failed")
		return nil, errs.Internal("Failed to record payment")
	}
	log.WithField("transaction_id", p.TransactionID).Info("payment completed")

	return &ResultDTO{
		TransactionID: p.TransactionID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Method:        p.Method,
		Provider:      p.Provider,
		ProcessingFee: p.ProcessingFee,
		Status:        p.Status,
		DueDate:       due,
		PaymentRecord: p,
	}, nil
}

func (u *Usecase) recordFailure(ctx context.Context, in Input, method domain.Method, amount int64, cause error) {
	reason := cause.Error()
	now := u.now()
	p := &domain.Payment{
		ApplicationID: in.ApplicationID,
		PaymentInfo:   paymentInfo(method, in.Details),
		Status:        domain.StatusFailed,
		TransactionID: id.NewTransactionID(prefixFor(method), now),
		Amount:        amount,
		Currency:      domain.Currency,
		Method:        string(method),
		FailureReason: &reason,
		ProcessedAt:   &now,
	}
	if err := u.repo.Create(ctx, p); err != nil {
		u.log.WithError(err).WithField("application_id", in.ApplicationID).Error("failed payment record insert failed")
	}
}

func (u *Usecase) History(ctx context.Context, applicationID string) ([]domain.Payment, error) {
	return u.repo.ListByApplicationID(ctx, applicationID)
}

func prefixFor(m domain.Method) string {
	if p, ok := txPrefix[m]; ok {
		return p
	}
	return "PAY"
}

// sensitive detail fields never reach the database.
var sensitive = map[string]bool{"cvv": true, "pin": true, "expiryDate": true}

func paymentInfo(method domain.Method, d Details) datatypes.JSON {
	safe := map[string]any{"method": string(method)}
	details := map[string]string{}
	for k := range d {
		if sensitive[k] {
			continue
		}
		v := detail(d, k)
		if k == "cardNumber" || k == "accountNumber" {
			v = mask(digitsOnly(v))
		}
		details[k] = v
	}
	safe["details"] = details
	b, _ := json.Marshal(safe)
	return datatypes.JSON(b)
}

func mask(s string) string {
	if len(s) <= 4 {
		return s
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
