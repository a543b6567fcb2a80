// file: internals/features/payment/charges/service/payment_flow.go

package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"parasempre_backend/internals/features/payment/charges/model"
	planModel "parasempre_backend/internals/features/plans/model"
)

var (
	ErrAttemptNotFound    = errors.New("payment attempt not found")
	ErrInvalidTransition  = errors.New("invalid payment state transition")
	ErrPaymentNotApproved = errors.New("payment not approved")
	ErrAlreadyConsumed    = errors.New("payment already used")
	ErrPlanMismatch       = errors.New("payment was made for another plan")
	ErrUnknownPlan        = errors.New("unknown plan")
)

const SimulatedPrefix = "SIM-"

type FlowConfig struct {
	SimulatedDelay time.Duration
	// unfinished or consumed attempts are evicted after AttemptTTL
	AttemptTTL time.Duration
	// approved attempts nobody consumed yet survive longer
	ApprovedTTL time.Duration
	MinAmount   int64
}

func (c FlowConfig) withDefaults() FlowConfig {
	if c.SimulatedDelay < 0 {
		c.SimulatedDelay = 0
	}
	if c.AttemptTTL <= 0 {
		c.AttemptTTL = 30 * time.Minute
	}
	if c.ApprovedTTL <= 0 {
		c.ApprovedTTL = 24 * time.Hour
	}
	if c.MinAmount <= 0 {
		c.MinAmount = 100
	}
	return c
}

// Flow is the in-process registry of payment attempts.
// The lock is never held across gateway calls.
type Flow struct {
	mu       sync.Mutex
	attempts map[string]*model.PaymentAttempt

	charges ChargeService
	coupons *CouponBook
	cfg     FlowConfig

	now   func() time.Time
	newID func() string
}

func NewFlow(charges ChargeService, coupons *CouponBook, cfg FlowConfig) *Flow {
	if coupons == nil {
		coupons = NewCouponBook("")
	}
	return &Flow{
		attempts: make(map[string]*model.PaymentAttempt),
		charges:  charges,
		coupons:  coupons,
		cfg:      cfg.withDefaults(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// WithClock replaces the clock; used by tests.
func (f *Flow) WithClock(now func() time.Time) *Flow {
	f.now = now
	return f
}

// Quote prices a plan with a coupon without starting anything.
func (f *Flow) Quote(planID, coupon string) (amount, discount int64, simulated bool, err error) {
	plan, ok := planModel.Find(planID)
	if !ok {
		return 0, 0, false, ErrUnknownPlan
	}
	c, err := f.coupons.Lookup(coupon)
	if err != nil {
		return 0, 0, false, err
	}
	amount, discount = Apply(plan.DiscountedPrice, c.Discount, f.cfg.MinAmount)
	return amount, discount, f.coupons.IsTestCoupon(coupon), nil
}

// Start moves a fresh attempt from idle to awaiting_charge and requests the charge.
// On gateway failure the attempt is returned in the error state together with ErrChargeFailed.
func (f *Flow) Start(ctx context.Context, planID, coupon, payerEmail string) (model.PaymentAttempt, error) {
	amount, discount, simulated, err := f.Quote(planID, coupon)
	if err != nil {
		return model.PaymentAttempt{}, err
	}
	plan, _ := planModel.Find(planID)

	now := f.now()
	a := &model.PaymentAttempt{
		ID:         f.newID(),
		Plan:       plan.ID,
		BaseAmount: plan.DiscountedPrice,
		Discount:   discount,
		Amount:     amount,
		Coupon:     NormalizeCoupon(coupon),
		PayerEmail: payerEmail,
		Status:     model.StatusIdle,
		Simulated:  simulated,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := setStatus(a, model.StatusAwaitingCharge, now); err != nil {
		return model.PaymentAttempt{}, err
	}

	if simulated {
		a.ChargeID = SimulatedPrefix + a.ID
		a.PayString = SimulatedPrefix + "PIX-" + a.ID
		a.ReadyAt = now.Add(f.cfg.SimulatedDelay)
		f.mu.Lock()
		f.attempts[a.ID] = a
		snap := *a
		f.mu.Unlock()
		log.Printf("[PAYMENT] simulated attempt=%s plan=%s ready_in=%s", a.ID, a.Plan, f.cfg.SimulatedDelay)
		return snap, nil
	}

	f.mu.Lock()
	f.attempts[a.ID] = a
	f.mu.Unlock()

	return f.requestCharge(ctx, a.ID, fmt.Sprintf("Para Sempre - %s", plan.Title))
}

// requestCharge calls the gateway for an attempt in awaiting_charge.
func (f *Flow) requestCharge(ctx context.Context, id, description string) (model.PaymentAttempt, error) {
	f.mu.Lock()
	a, ok := f.attempts[id]
	if !ok {
		f.mu.Unlock()
		return model.PaymentAttempt{}, ErrAttemptNotFound
	}
	amount, email := a.Amount, a.PayerEmail
	f.mu.Unlock()

	var (
		charge Charge
		err    error
	)
	if f.charges == nil {
		err = fmt.Errorf("%w: no charge service configured", ErrChargeFailed)
	} else {
		charge, err = f.charges.CreateCharge(ctx, amount, description, email)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.now()
	if err != nil {
		a.LastError = err.Error()
		_ = setStatus(a, model.StatusError, now)
		log.Printf("[PAYMENT] charge attempt=%s failed: %v", a.ID, err)
		if !errors.Is(err, ErrChargeFailed) {
			err = fmt.Errorf("%w: %v", ErrChargeFailed, err)
		}
		return *a, err
	}

	a.ChargeID = charge.ChargeID
	a.QRImage = charge.QRImage
	a.PayString = charge.PayString
	a.ExpiresAt = charge.ExpiresAt
	a.LastError = ""
	a.UpdatedAt = now
	log.Printf("[PAYMENT] charge attempt=%s charge=%s amount=%d", a.ID, a.ChargeID, a.Amount)
	return *a, nil
}

// Retry re-enters awaiting_charge from error.
func (f *Flow) Retry(ctx context.Context, id string) (model.PaymentAttempt, error) {
	f.mu.Lock()
	a, ok := f.attempts[id]
	if !ok {
		f.mu.Unlock()
		return model.PaymentAttempt{}, ErrAttemptNotFound
	}
	if err := setStatus(a, model.StatusAwaitingCharge, f.now()); err != nil {
		snap := *a
		f.mu.Unlock()
		return snap, err
	}
	planID := a.Plan
	f.mu.Unlock()

	title := planID
	if p, ok := planModel.Find(planID); ok {
		title = p.Title
	}
	return f.requestCharge(ctx, id, fmt.Sprintf("Para Sempre - %s", title))
}

// Refresh settles simulated attempts whose delay elapsed and polls the gateway for real ones.
// Polling failures keep the attempt awaiting.
func (f *Flow) Refresh(ctx context.Context, id string) (model.PaymentAttempt, error) {
	f.mu.Lock()
	a, ok := f.attempts[id]
	if !ok {
		f.mu.Unlock()
		return model.PaymentAttempt{}, ErrAttemptNotFound
	}
	f.settleSimulated(a)
	if a.Simulated || a.Status != model.StatusAwaitingCharge || a.ChargeID == "" || f.charges == nil {
		snap := *a
		f.mu.Unlock()
		return snap, nil
	}
	chargeID := a.ChargeID
	f.mu.Unlock()

	status, err := f.charges.GetChargeStatus(ctx, chargeID)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		log.Printf("[PAYMENT] status poll attempt=%s failed: %v", id, err)
		return *a, nil
	}
	f.apply(a, status)
	return *a, nil
}

// Notify applies a gateway push notification addressed by charge id.
func (f *Flow) Notify(chargeID string, status model.ChargeStatus) (model.PaymentAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.attempts {
		if a.ChargeID == chargeID && !a.Simulated {
			f.apply(a, status)
			return *a, nil
		}
	}
	return model.PaymentAttempt{}, ErrAttemptNotFound
}

func (f *Flow) Get(id string) (model.PaymentAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.attempts[id]
	if !ok {
		return model.PaymentAttempt{}, ErrAttemptNotFound
	}
	f.settleSimulated(a)
	return *a, nil
}

// Verify reports whether the attempt can pay for planID, without using it.
func (f *Flow) Verify(id, planID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, err := f.usable(id, planID)
	return err
}

// Consume marks an approved attempt as used. Each attempt pays for one page.
func (f *Flow) Consume(id, planID string) (model.PaymentAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, err := f.usable(id, planID)
	if err != nil {
		return model.PaymentAttempt{}, err
	}
	a.Consumed = true
	a.UpdatedAt = f.now()
	return *a, nil
}

// Release undoes Consume when the page could not be saved.
func (f *Flow) Release(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.attempts[id]; ok {
		a.Consumed = false
		a.UpdatedAt = f.now()
	}
}

// Sweep refreshes real attempts still awaiting and evicts expired ones.
func (f *Flow) Sweep(ctx context.Context) (refreshed, evicted int) {
	now := f.now()
	var pending []string

	f.mu.Lock()
	for id, a := range f.attempts {
		if now.Sub(a.CreatedAt) > f.ttl(a) {
			delete(f.attempts, id)
			evicted++
			continue
		}
		if !a.Simulated && a.Status == model.StatusAwaitingCharge && a.ChargeID != "" {
			pending = append(pending, id)
		}
	}
	f.mu.Unlock()

	for _, id := range pending {
		if ctx.Err() != nil {
			break
		}
		if _, err := f.Refresh(ctx, id); err == nil {
			refreshed++
		}
	}
	return refreshed, evicted
}

func (f *Flow) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.attempts)
}

/* =========================================================
   internals (caller holds f.mu)
========================================================= */

func (f *Flow) usable(id, planID string) (*model.PaymentAttempt, error) {
	a, ok := f.attempts[id]
	if !ok {
		return nil, ErrAttemptNotFound
	}
	f.settleSimulated(a)
	if a.Status != model.StatusApproved {
		return nil, ErrPaymentNotApproved
	}
	if a.Consumed {
		return nil, ErrAlreadyConsumed
	}
	if p, ok := planModel.Find(planID); !ok || p.ID != a.Plan {
		return nil, ErrPlanMismatch
	}
	return a, nil
}

func (f *Flow) settleSimulated(a *model.PaymentAttempt) {
	if a.Simulated && a.Status == model.StatusAwaitingCharge && !f.now().Before(a.ReadyAt) {
		_ = setStatus(a, model.StatusApproved, f.now())
	}
}

func (f *Flow) apply(a *model.PaymentAttempt, status model.ChargeStatus) {
	var next model.AttemptStatus
	switch status {
	case model.ChargeApproved:
		next = model.StatusApproved
	case model.ChargeRejected:
		next = model.StatusRejected
	default:
		return
	}
	// duplicate webhook or a poll racing one
	if a.Status.Terminal() {
		return
	}
	if err := setStatus(a, next, f.now()); err != nil {
		log.Printf("[PAYMENT] ignore %s for attempt=%s in %s", status, a.ID, a.Status)
		return
	}
	log.Printf("[PAYMENT] attempt=%s -> %s", a.ID, a.Status)
}

func (f *Flow) ttl(a *model.PaymentAttempt) time.Duration {
	if a.Status == model.StatusApproved && !a.Consumed {
		return f.cfg.ApprovedTTL
	}
	return f.cfg.AttemptTTL
}

func setStatus(a *model.PaymentAttempt, next model.AttemptStatus, now time.Time) error {
	if !a.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, next)
	}
	a.Status = next
	a.UpdatedAt = now
	return nil
}
