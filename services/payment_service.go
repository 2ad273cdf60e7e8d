package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Billing string

const (
	BillingMonthly Billing = "monthly"
	BillingYearly  Billing = "yearly"
)

// Price is the charge in USD for a billing period.
func (b Billing) Price() (float64, error) {
	switch b {
	case BillingMonthly:
		return 9.99, nil
	case BillingYearly:
		return 89.99, nil
	}
	return 0, fmt.Errorf("%w: unknown billing period %q", ErrInvalidInput, b)
}

type Receipt struct {
	ID     string    `json:"id"`
	Amount float64   `json:"amount"`
	PaidAt time.Time `json:"paidAt"`
}

// PaymentProvider charges the user. Any error means the plan must not change.
type PaymentProvider interface {
	Purchase(ctx context.Context, amount float64) (*Receipt, error)
}

// SimulatedPayment approves every positive charge after a fixed delay.
type SimulatedPayment struct {
	Delay time.Duration
}

func NewSimulatedPayment(delay time.Duration) *SimulatedPayment {
	return &SimulatedPayment{Delay: delay}
}

func (p *SimulatedPayment) Purchase(ctx context.Context, amount float64) (*Receipt, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrPaymentDeclined)
	}
	if p.Delay > 0 {
		t := time.NewTimer(p.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrPaymentDeclined, ctx.Err())
		case <-t.C:
		}
	}
	return &Receipt{ID: uuid.NewString(), Amount: amount, PaidAt: time.Now()}, nil
}
