// file: internals/features/payment/charges/controller/payment_controller.go

package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"parasempre_backend/internals/constants"
	dto "parasempre_backend/internals/features/payment/charges/dto"
	"parasempre_backend/internals/features/payment/charges/model"
	svc "parasempre_backend/internals/features/payment/charges/service"
	helper "parasempre_backend/internals/helpers"
)

/* =======================================================================
   Controller
======================================================================= */

type PaymentController struct {
	Flow              *svc.Flow
	MidtransServerKey string // verifies webhook signatures
}

func NewPaymentController(flow *svc.Flow, midtransServerKey string) *PaymentController {
	return &PaymentController{
		Flow:              flow,
		MidtransServerKey: midtransServerKey,
	}
}

/* =======================================================================
   Handlers
======================================================================= */

// POST /api/public/payments
func (h *PaymentController) Start(c *fiber.Ctx) error {
	lang := helper.RequestLang(c)

	var req dto.StartPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	req.Plan = strings.ToLower(strings.TrimSpace(req.Plan))
	req.PayerEmail = strings.TrimSpace(req.PayerEmail)
	if err := helper.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, constants.Message(lang, constants.MsgUnknownPlan), err)
	}

	a, err := h.Flow.Start(c.UserContext(), req.Plan, req.Coupon, req.PayerEmail)
	switch {
	case err == nil:
		return helper.JsonCreated(c, "ok", dto.FromModel(a))
	case errors.Is(err, svc.ErrChargeFailed):
		return h.chargeFailed(c, lang, a)
	default:
		return h.flowError(c, lang, err)
	}
}

// GET /api/public/payments/:id
func (h *PaymentController) Get(c *fiber.Ctx) error {
	lang := helper.RequestLang(c)
	a, err := h.Flow.Refresh(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.flowError(c, lang, err)
	}
	c.Set("Cache-Control", "no-store")
	return helper.JsonOK(c, "ok", dto.FromModel(a))
}

// POST /api/public/payments/:id/retry
func (h *PaymentController) Retry(c *fiber.Ctx) error {
	lang := helper.RequestLang(c)
	a, err := h.Flow.Retry(c.UserContext(), c.Params("id"))
	switch {
	case err == nil:
		return helper.JsonOK(c, "ok", dto.FromModel(a))
	case errors.Is(err, svc.ErrChargeFailed):
		return h.chargeFailed(c, lang, a)
	default:
		return h.flowError(c, lang, err)
	}
}

// POST /api/public/coupons/validate
// Unknown coupons are an answer, not an error.
func (h *PaymentController) ValidateCoupon(c *fiber.Ctx) error {
	lang := helper.RequestLang(c)

	var req dto.ValidateCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	req.Plan = strings.ToLower(strings.TrimSpace(req.Plan))
	if err := helper.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, "invalid coupon request", err)
	}

	amount, discount, simulated, err := h.Flow.Quote(req.Plan, req.Coupon)
	if errors.Is(err, svc.ErrUnknownCoupon) {
		return helper.JsonOK(c, "ok", dto.CouponResponse{
			Valid:   false,
			Message: constants.Message(lang, constants.MsgUnknownCoupon),
		})
	}
	if err != nil {
		return h.flowError(c, lang, err)
	}
	return helper.JsonOK(c, "ok", dto.CouponResponse{
		Valid:     true,
		Simulated: simulated,
		Discount:  discount,
		Amount:    amount,
	})
}

/* =======================================================================
   Webhook Midtrans
======================================================================= */

// POST /api/public/payments/midtrans/webhook
func (h *PaymentController) MidtransWebhook(c *fiber.Ctx) error {
	var notif dto.MidtransNotification
	if err := c.BodyParser(&notif); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload: "+err.Error())
	}

	// SHA512(order_id + status_code + gross_amount + ServerKey)
	if !svc.VerifySignature(h.MidtransServerKey, notif.OrderID, notif.StatusCode, notif.GrossAmount, notif.SignatureKey) {
		log.Printf("[MIDTRANS] webhook bad signature order=%s", notif.OrderID)
		return helper.JsonError(c, fiber.StatusForbidden, "invalid signature")
	}

	status := svc.MapTransactionStatus(notif.TransactionStatus, notif.FraudStatus)
	a, err := h.Flow.Notify(notif.OrderID, status)
	if err != nil {
		// 200 so midtrans stops retrying: attempts are in-process and may be gone after a restart
		log.Printf("[MIDTRANS] webhook order=%s status=%s: %v", notif.OrderID, notif.TransactionStatus, err)
		return c.JSON(fiber.Map{"status": "ignored", "reason": "payment not found"})
	}

	return c.JSON(fiber.Map{
		"status":             "ok",
		"payment_id":         a.ID,
		"payment_status":     a.Status,
		"transaction_status": notif.TransactionStatus,
		"fraud_status":       notif.FraudStatus,
	})
}

/* =======================================================================
   Helpers
======================================================================= */

// charge-failure: 502 with the attempt and where to retry it
func (h *PaymentController) chargeFailed(c *fiber.Ctx, lang string, a model.PaymentAttempt) error {
	return helper.JsonErrorWithData(c, fiber.StatusBadGateway, constants.Message(lang, constants.MsgChargeFailed), fiber.Map{
		"retry_url": "/api/public/payments/" + a.ID + "/retry",
		"payment":   dto.FromModel(a),
	})
}

func (h *PaymentController) flowError(c *fiber.Ctx, lang string, err error) error {
	switch {
	case errors.Is(err, svc.ErrAttemptNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, constants.Message(lang, constants.MsgPaymentNotFound))
	case errors.Is(err, svc.ErrUnknownCoupon):
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, constants.Message(lang, constants.MsgUnknownCoupon))
	case errors.Is(err, svc.ErrUnknownPlan):
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, constants.Message(lang, constants.MsgUnknownPlan))
	case errors.Is(err, svc.ErrInvalidTransition):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	default:
		log.Printf("[PAYMENT] unexpected error: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, constants.Message(lang, constants.MsgChargeFailed))
	}
}
