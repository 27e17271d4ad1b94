package laborder

import (
	"fmt"
	"strings"

	"labconsole/internal/pkg/errs"
)

// PaymentStatus tells whether the order has been paid for.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
)

// ParsePaymentStatus normalizes and validates the wire value.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	status := PaymentStatus(strings.ToLower(strings.TrimSpace(s)))
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}

func (p PaymentStatus) Validate() error {
	if p != PaymentPaid && p != PaymentPending {
		return errs.NewValueIsInvalidErrorWithCause("paymentStatus", fmt.Errorf("%q is not a valid payment status", string(p)))
	}
	return nil
}

func (p PaymentStatus) String() string {
	return string(p)
}
