// file: internals/features/payment/charges/service/midtrans_charge.go

package service

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"

	"parasempre_backend/internals/features/payment/charges/model"
)

/* =========================================================
   Midtrans Core API (QRIS)
========================================================= */

const (
	OrderPrefix = "PARASEMPRE-"
	// QRIS charges expire on the gateway side after 15 minutes by default
	qrisDefaultExpiry = 15 * time.Minute
)

// coreAPI is the subset of coreapi.Client used here.
type coreAPI interface {
	ChargeTransaction(req *coreapi.ChargeReq) (*coreapi.ChargeResponse, *midtrans.Error)
	CheckTransaction(param string) (*coreapi.TransactionStatusResponse, *midtrans.Error)
}

type MidtransChargeService struct {
	api           coreAPI
	acquirer      string
	rupiahPerReal int64
	now           func() time.Time
}

// NewMidtransChargeService must be called once at bootstrap.
// useProduction=true for Production, false for Sandbox.
func NewMidtransChargeService(serverKey string, useProduction bool, rupiahPerReal int64) *MidtransChargeService {
	var client coreapi.Client
	if useProduction {
		client.New(serverKey, midtrans.Production)
	} else {
		client.New(serverKey, midtrans.Sandbox)
	}
	svc := newMidtransChargeService(&client)
	if rupiahPerReal > 0 {
		svc.rupiahPerReal = rupiahPerReal
	}
	return svc
}

func newMidtransChargeService(api coreAPI) *MidtransChargeService {
	return &MidtransChargeService{api: api, acquirer: "gopay", rupiahPerReal: 1, now: time.Now}
}

// centavosToRupiah converts a BRL price in centavos into the whole-rupiah
// amount Midtrans charges. IDR has no minor unit; a partial rupiah rounds up.
func centavosToRupiah(centavos, rupiahPerReal int64) int64 {
	return (centavos*rupiahPerReal + 99) / 100
}

// CreateCharge takes amount in centavos; Charge.Amount is echoed back in centavos.
func (m *MidtransChargeService) CreateCharge(ctx context.Context, amount int64, description, payerEmail string) (Charge, error) {
	if amount <= 0 {
		return Charge{}, fmt.Errorf("%w: invalid amount %d", ErrChargeFailed, amount)
	}
	if err := ctx.Err(); err != nil {
		return Charge{}, err
	}

	rupiah := centavosToRupiah(amount, m.rupiahPerReal)
	orderID := OrderPrefix + uuid.NewString()
	req := &coreapi.ChargeReq{
		PaymentType: coreapi.PaymentTypeQris,
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: rupiah,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    orderID,
				Price: rupiah,
				Qty:   1,
				Name:  truncate(defaultString(description, "Para Sempre"), 50),
			},
		},
		Qris: &coreapi.QrisDetails{Acquirer: m.acquirer},
	}
	if payerEmail != "" {
		req.CustomerDetails = &midtrans.CustomerDetails{Email: payerEmail}
	}

	resp, mErr := m.api.ChargeTransaction(req)
	if mErr != nil {
		log.Printf("[MIDTRANS] charge order=%s failed: %s", orderID, mErr.Message)
		return Charge{}, fmt.Errorf("%w: %s", ErrChargeFailed, mErr.Message)
	}
	if resp == nil {
		return Charge{}, fmt.Errorf("%w: empty response", ErrChargeFailed)
	}

	qrImage := ""
	for _, a := range resp.Actions {
		if a.Name == "generate-qr-code" {
			qrImage = a.URL
			break
		}
	}

	expires := m.now().Add(qrisDefaultExpiry)
	return Charge{
		ChargeID:  defaultString(resp.OrderID, orderID),
		QRImage:   qrImage,
		PayString: resp.QRString,
		Amount:    amount,
		ExpiresAt: &expires,
	}, nil
}

func (m *MidtransChargeService) GetChargeStatus(ctx context.Context, chargeID string) (model.ChargeStatus, error) {
	if err := ctx.Err(); err != nil {
		return model.ChargePending, err
	}
	resp, mErr := m.api.CheckTransaction(chargeID)
	if mErr != nil {
		return model.ChargePending, fmt.Errorf("check transaction %s: %s", chargeID, mErr.Message)
	}
	if resp == nil {
		return model.ChargePending, fmt.Errorf("check transaction %s: empty response", chargeID)
	}
	return MapTransactionStatus(resp.TransactionStatus, resp.FraudStatus), nil
}

// MapTransactionStatus maps midtrans transaction_status/fraud_status to a ChargeStatus.
func MapTransactionStatus(transactionStatus, fraudStatus string) model.ChargeStatus {
	switch strings.ToLower(strings.TrimSpace(transactionStatus)) {
	case "capture":
		if strings.EqualFold(fraudStatus, "challenge") {
			return model.ChargePending
		}
		return model.ChargeApproved
	case "settlement":
		return model.ChargeApproved
	case "deny", "cancel", "expire", "failure":
		return model.ChargeRejected
	default:
		return model.ChargePending
	}
}

// VerifySignature checks SHA512(order_id + status_code + gross_amount + ServerKey).
func VerifySignature(serverKey, orderID, statusCode, grossAmount, signature string) bool {
	want := strings.ToLower(strings.TrimSpace(signature))
	if want == "" || serverKey == "" {
		return false
	}
	return sha512sum(orderID+statusCode+grossAmount+serverKey) == want
}

func sha512sum(s string) string {
	h := sha512.Sum512([]byte(s))
	return hex.EncodeToString(h[:])
}

/* =========================================================
   Utils
========================================================= */

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n])
}

func defaultString(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
