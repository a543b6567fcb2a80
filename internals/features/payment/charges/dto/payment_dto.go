// file: internals/features/payment/charges/dto/payment_dto.go

package dto

import (
	"time"

	"parasempre_backend/internals/features/payment/charges/model"
)

type StartPaymentRequest struct {
	Plan       string `json:"plan" validate:"required,oneof=basic premium forever"`
	Coupon     string `json:"coupon" validate:"omitempty,max=32"`
	PayerEmail string `json:"payer_email" validate:"omitempty,email,max=254"`
}

type ValidateCouponRequest struct {
	Plan   string `json:"plan" validate:"required,oneof=basic premium forever"`
	Coupon string `json:"coupon" validate:"required,max=32"`
}

type CouponResponse struct {
	Valid     bool   `json:"valid"`
	Simulated bool   `json:"simulated"`
	Discount  int64  `json:"discount"`
	Amount    int64  `json:"amount"`
	Message   string `json:"message,omitempty"`
}

// PaymentResponse is what the checkout screen polls.
type PaymentResponse struct {
	ID         string              `json:"id"`
	Plan       string              `json:"plan"`
	Status     model.AttemptStatus `json:"status"`
	// Final means the status will not change again; the client stops polling.
	Final      bool                `json:"final"`
	BaseAmount int64               `json:"base_amount"`
	Discount   int64               `json:"discount"`
	Amount     int64               `json:"amount"`
	Coupon     string              `json:"coupon,omitempty"`
	Simulated  bool                `json:"simulated"`
	Consumed   bool                `json:"consumed"`
	ChargeID   string              `json:"charge_id,omitempty"`
	QRImage    string              `json:"qr_image,omitempty"`
	PayString  string              `json:"pay_string,omitempty"`
	ExpiresAt  *time.Time          `json:"expires_at,omitempty"`
	LastError  string              `json:"last_error,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

func FromModel(a model.PaymentAttempt) PaymentResponse {
	return PaymentResponse{
		ID:         a.ID,
		Plan:       a.Plan,
		Status:     a.Status,
		Final:      a.Status.Terminal(),
		BaseAmount: a.BaseAmount,
		Discount:   a.Discount,
		Amount:     a.Amount,
		Coupon:     a.Coupon,
		Simulated:  a.Simulated,
		Consumed:   a.Consumed,
		ChargeID:   a.ChargeID,
		QRImage:    a.QRImage,
		PayString:  a.PayString,
		ExpiresAt:  a.ExpiresAt,
		LastError:  a.LastError,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// MidtransNotification is the HTTP notification body; extra fields are ignored.
type MidtransNotification struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"`
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
}
