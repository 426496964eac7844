package parking

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MuhammadRafly8/parkir-ukk/internal/model"
)

// BillableHours rounds the stay up to whole hours, with a minimum of one.
func BillableHours(entry, exit time.Time) int {
	elapsed := exit.Sub(entry)
	if elapsed <= 0 {
		return 1
	}
	hours := int(elapsed / time.Hour)
	if elapsed%time.Hour != 0 {
		hours++
	}
	return hours
}

// Fee is hours times the hourly rate.
func Fee(hours int, rate decimal.Decimal) decimal.Decimal {
	return rate.Mul(decimal.NewFromInt(int64(hours)))
}

// Payment is what the driver hands over at the exit gate.
type Payment struct {
	Method   model.PaymentMethod
	Tendered *decimal.Decimal // cash only
}

// Settlement is the outcome of a successful payment.
type Settlement struct {
	AmountPaid decimal.Decimal
	Change     decimal.Decimal
}

// Settle checks a payment against the fee. Cash must cover the fee and
// returns change; QRIS is charged the exact fee.
func Settle(fee decimal.Decimal, p Payment) (Settlement, error) {
	switch p.Method {
	case model.PaymentCash:
		if p.Tendered == nil {
			return Settlement{}, fmt.Errorf("%w: cash payment requires a tendered amount", ErrValidation)
		}
		if p.Tendered.IsNegative() {
			return Settlement{}, fmt.Errorf("%w: tendered amount is negative", ErrValidation)
		}
		if p.Tendered.LessThan(fee) {
			return Settlement{}, fmt.Errorf("%w: tendered %s, fee %s", ErrInsufficientPayment, p.Tendered.String(), fee.String())
		}
		return Settlement{AmountPaid: *p.Tendered, Change: p.Tendered.Sub(fee)}, nil
	case model.PaymentQRIS:
		return Settlement{AmountPaid: fee, Change: decimal.Zero}, nil
	default:
		return Settlement{}, fmt.Errorf("%w: unsupported payment method %q", ErrValidation, p.Method)
	}
}
