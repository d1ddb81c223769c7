package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/vaibhav2932000/srijan/internal/orders"
)

// New returns a configured validator with the custom tags registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// "orderstatus" restricts a field to the closed order status set.
	_ = v.RegisterValidation("orderstatus", func(fl validatorv10.FieldLevel) bool {
		return orders.ValidStatus(fl.Field().String())
	})

	return v
}
