// file: internals/features/payment/charges/model/attempt_model.go

package model

import "time"

type AttemptStatus string

const (
	StatusIdle           AttemptStatus = "idle"
	StatusAwaitingCharge AttemptStatus = "awaiting_charge"
	StatusApproved       AttemptStatus = "approved"
	StatusRejected       AttemptStatus = "rejected"
	StatusError          AttemptStatus = "error"
)

// Allowed moves of the payment state machine.
var transitions = map[AttemptStatus][]AttemptStatus{
	StatusIdle:           {StatusAwaitingCharge},
	StatusAwaitingCharge: {StatusApproved, StatusRejected, StatusError},
	StatusError:          {StatusAwaitingCharge},
}

func (s AttemptStatus) CanTransitionTo(next AttemptStatus) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

func (s AttemptStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ChargeStatus is what the gateway reports for a charge.
type ChargeStatus string

const (
	ChargePending  ChargeStatus = "pending"
	ChargeApproved ChargeStatus = "approved"
	ChargeRejected ChargeStatus = "rejected"
)

// PaymentAttempt lives only in the in-process registry.
type PaymentAttempt struct {
	ID         string        `json:"id"`
	Plan       string        `json:"plan"`
	BaseAmount int64         `json:"base_amount"`
	Discount   int64         `json:"discount"`
	Amount     int64         `json:"amount"`
	Coupon     string        `json:"coupon,omitempty"`
	PayerEmail string        `json:"payer_email,omitempty"`
	Status     AttemptStatus `json:"status"`
	Simulated  bool          `json:"simulated"`
	Consumed   bool          `json:"consumed"`

	ChargeID  string     `json:"charge_id,omitempty"`
	QRImage   string     `json:"qr_image,omitempty"`
	PayString string     `json:"pay_string,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	LastError string     `json:"last_error,omitempty"`

	// simulated attempts approve once now >= ReadyAt
	ReadyAt time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
