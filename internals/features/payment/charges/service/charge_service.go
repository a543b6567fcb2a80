// file: internals/features/payment/charges/service/charge_service.go

package service

import (
	"context"
	"errors"
	"time"

	"parasempre_backend/internals/features/payment/charges/model"
)

var ErrChargeFailed = errors.New("charge request failed")

// Charge is the gateway's answer to CreateCharge.
type Charge struct {
	ChargeID  string
	QRImage   string
	PayString string
	Amount    int64
	ExpiresAt *time.Time
}

// ChargeService creates instant (PIX-style) charges and reports their status.
type ChargeService interface {
	CreateCharge(ctx context.Context, amount int64, description, payerEmail string) (Charge, error)
	GetChargeStatus(ctx context.Context, chargeID string) (model.ChargeStatus, error)
}
