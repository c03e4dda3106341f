package booking

import (
	"time"

	"github.com/hotel-yunuen/service-reservation/internal/domain/coupon"
)

// DefaultTaxRatePercent is the VAT applied to the discounted subtotal.
const DefaultTaxRatePercent int64 = 16

// Prices holds the derived monetary fields of a booking, in cents.
type Prices struct {
	SubtotalCents int64
	DiscountCents int64
	TaxCents      int64
	TotalCents    int64
}

// CalculatePrices computes subtotal, discount, tax and total for a stay.
// c may be nil. Tax is rounded half-up to the cent.
func CalculatePrices(pricePerNightCents int64, nights int, c *coupon.Coupon, taxRatePercent int64, now time.Time) Prices {
	subtotal := pricePerNightCents * int64(nights)

	var discount int64
	if c != nil {
		discount = c.CalculateDiscount(subtotal, now)
	}

	taxable := subtotal - discount
	tax := (taxable*taxRatePercent + 50) / 100

	return Prices{
		SubtotalCents: subtotal,
		DiscountCents: discount,
		TaxCents:      tax,
		TotalCents:    taxable + tax,
	}
}
