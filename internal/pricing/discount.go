package pricing

import "errors"

// Kind identifies the rule shape used to derive an offer price.
type Kind string

const (
	// KindPercentage takes a percentage off the original price.
	KindPercentage Kind = "percentage"
	// KindFixed takes a fixed amount off the original price, floored at zero.
	KindFixed Kind = "fixed"
)

var (
	ErrInvalidDiscountKind = errors.New("invalid discount kind")
	ErrNegativeValue       = errors.New("discount value cannot be negative")
	ErrUsageCapExceeded    = errors.New("offer usage cap exceeded")
)

// Discount is a closed discount rule: either Percentage or Fixed.
// The zero value is not a valid rule; construct via Percentage, Fixed or New.
type Discount struct {
	kind  Kind
	value float64
}

// Percentage builds a percentage-off rule. Values above 100 are not clamped
// here; the request boundary rejects them.
func Percentage(value float64) Discount {
	return Discount{kind: KindPercentage, value: value}
}

// Fixed builds a fixed-amount-off rule.
func Fixed(value float64) Discount {
	return Discount{kind: KindFixed, value: value}
}

// New builds a Discount from its stored string form, rejecting unknown kinds
// and negative values.
func New(kind string, value float64) (Discount, error) {
	if value < 0 {
		return Discount{}, ErrNegativeValue
	}
	switch Kind(kind) {
	case KindPercentage:
		return Percentage(value), nil
	case KindFixed:
		return Fixed(value), nil
	default:
		return Discount{}, ErrInvalidDiscountKind
	}
}

func (d Discount) Kind() Kind     { return d.kind }
func (d Discount) Value() float64 { return d.value }

// Apply derives the effective sale price from the original price. It is pure:
// the caller re-invokes it on every write that touches the rule or the
// original price and overwrites the stored offer price with the result.
// Fixed-amount results are floored at zero; percentage results are not.
func (d Discount) Apply(originalPrice float64) float64 {
	switch d.kind {
	case KindPercentage:
		return originalPrice - originalPrice*d.value/100
	case KindFixed:
		price := originalPrice - d.value
		if price < 0 {
			return 0
		}
		return price
	default:
		return originalPrice
	}
}
