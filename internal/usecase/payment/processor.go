package payment

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"driver-license-portal/internal/domain/errs"
	domain "driver-license-portal/internal/domain/payment"
	"driver-license-portal/pkg/id"
)

// Processor charges one payment method.
type Processor interface {
	Method() domain.Method
	Process(ctx context.Context, amount int64, d Details) (*Outcome, error)
}

var (
	ErrCardDeclined      = errs.Declined("Card declined by bank")
	ErrInsufficientFunds = errs.Declined("Insufficient balance")
	ErrInvalidAccount    = errs.Declined("Invalid account number")
	ErrUnsupportedMethod = errs.Validation("Unsupported payment method")
)

var declinedCards = map[string]bool{
	"4000000000000002": true,
	"4000000000000069": true,
}

// mockProcessor simulates a provider: latency, required fields, a
// deterministic decline rule and a fee rule.
type mockProcessor struct {
	method   domain.Method
	provider string
	latency  time.Duration
	required []string
	decline  func(d Details) error
	fee      func(amount int64) int64
}

func (p *mockProcessor) Method() domain.Method { return p.method }

func (p *mockProcessor) Process(ctx context.Context, amount int64, d Details) (*Outcome, error) {
	var missing []string
	for _, k := range p.required {
		if detail(d, k) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, errs.Validation("Missing %s payment details: %s", p.method, strings.Join(missing, ", ")).
			With("missing", missing)
	}

	if err := wait(ctx, p.latency); err != nil {
		return nil, err
	}
	if err := p.decline(d); err != nil {
		return nil, err
	}
	return &Outcome{
		Provider:              p.provider,
		ProviderTransactionID: id.NewUUID(),
		ProcessingFee:         p.fee(amount),
	}, nil
}

// MockProcessors returns the card, mobile and bank simulators with their
// latency multiplied by scale. A zero scale makes them instant.
func MockProcessors(scale float64) []Processor {
	lat := func(ms int) time.Duration { return time.Duration(float64(ms)*scale) * time.Millisecond }
	return []Processor{
		&mockProcessor{
			method: domain.MethodCard, provider: "CardPay", latency: lat(2000),
			required: []string{"cardNumber", "expiryDate", "cvv", "cardholderName"},
			decline: func(d Details) error {
				if declinedCards[digitsOnly(detail(d, "cardNumber"))] {
					return ErrCardDeclined
				}
				return nil
			},
			fee: func(amount int64) int64 { return int64(math.Round(float64(amount) * 0.029)) },
		},
		&mockProcessor{
			method: domain.MethodMobile, provider: "Lumicash", latency: lat(1500),
			required: []string{"phoneNumber", "pin"},
			decline: func(d Details) error {
				if detail(d, "pin") == "0000" {
					return ErrInsufficientFunds
				}
				return nil
			},
			fee: func(int64) int64 { return 100 },
		},
		&mockProcessor{
			method: domain.MethodBank, provider: "BankTransfer", latency: lat(3000),
			required: []string{"accountNumber", "bankName", "accountHolder"},
			decline: func(d Details) error {
				if detail(d, "accountNumber") == "0000000000" {
					return ErrInvalidAccount
				}
				return nil
			},
			fee: func(int64) int64 { return 0 },
		},
	}
}

func detail(d Details, key string) string {
	v, ok := d[key]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
