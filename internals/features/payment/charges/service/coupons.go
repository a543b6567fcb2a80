// file: internals/features/payment/charges/service/coupons.go

package service

import (
	"errors"
	"strings"
)

var ErrUnknownCoupon = errors.New("unknown coupon")

// Coupon is a fixed-amount discount in centavos.
type Coupon struct {
	Code     string `json:"code"`
	Discount int64  `json:"discount"`
}

// CouponBook is the static allow-list. The test coupon carries no discount;
// it switches the attempt to the simulated branch.
type CouponBook struct {
	coupons    map[string]Coupon
	testCoupon string
}

var defaultCoupons = []Coupon{
	{Code: "AMOR10", Discount: 1000},
	{Code: "PARASEMPRE5", Discount: 500},
}

func NewCouponBook(testCoupon string, coupons ...Coupon) *CouponBook {
	if len(coupons) == 0 {
		coupons = defaultCoupons
	}
	b := &CouponBook{
		coupons:    make(map[string]Coupon, len(coupons)),
		testCoupon: NormalizeCoupon(testCoupon),
	}
	for _, c := range coupons {
		c.Code = NormalizeCoupon(c.Code)
		b.coupons[c.Code] = c
	}
	return b
}

func NormalizeCoupon(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (b *CouponBook) IsTestCoupon(code string) bool {
	code = NormalizeCoupon(code)
	return b.testCoupon != "" && code == b.testCoupon
}

// Lookup returns the coupon for code; an empty code is a zero coupon.
func (b *CouponBook) Lookup(code string) (Coupon, error) {
	code = NormalizeCoupon(code)
	if code == "" {
		return Coupon{}, nil
	}
	if b.IsTestCoupon(code) {
		return Coupon{Code: code}, nil
	}
	c, ok := b.coupons[code]
	if !ok {
		return Coupon{}, ErrUnknownCoupon
	}
	return c, nil
}

// Apply subtracts the discount, never going under minAmount.
func Apply(base, discount, minAmount int64) (amount, applied int64) {
	amount = base - discount
	if amount < minAmount {
		amount = minAmount
	}
	if amount > base {
		amount = base
	}
	return amount, base - amount
}
