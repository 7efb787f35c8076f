// Package validator provides custom validation functions for Gin's binding engine
// and a helper to validate forms before they are sent to the backend.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	apperrors "lumen/internal/errors"
	"lumen/internal/models"
)

var gstinRegex = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

var registerOnce sync.Once

// Register registers all custom validators with the Gin binding engine. It is
// safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		v.RegisterCustomTypeFunc(timeValue, models.Time{})
		_ = v.RegisterValidation("user_type", validateUserType)
		_ = v.RegisterValidation("consumer_payment_method", validateConsumerPaymentMethod)
		_ = v.RegisterValidation("business_payment_method", validateBusinessPaymentMethod)
		_ = v.RegisterValidation("business_transaction_type", validateBusinessTransactionType)
		_ = v.RegisterValidation("gstin", validateGSTIN)
	})
}

// Validate checks obj against its binding tags. Failures are returned as
// ErrInvalidInput with a readable message.
func Validate(obj any) error {
	Register()
	err := binding.Validator.ValidateStruct(obj)
	if err == nil {
		return nil
	}
	return apperrors.WithMessage(apperrors.ErrInvalidInput, describe(err))
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, describeField(fe))
	}
	return strings.Join(parts, "; ")
}

func describeField(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required", "required_if":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "user_type":
		return field + " must be consumer or business"
	case "consumer_payment_method":
		return field + " must be one of cash, card, upi, wallet"
	case "business_payment_method":
		return field + " must be one of cash, card, upi, cheque, netbanking, wallet"
	case "business_transaction_type":
		return field + " must be one of expense, income, purchase, sale"
	case "gstin":
		return field + " must be a valid 15-character GSTIN"
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}

func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

func timeValue(field reflect.Value) any {
	if t, ok := field.Interface().(models.Time); ok {
		if t.IsZero() {
			return ""
		}
		return t.Format(time.RFC3339)
	}
	return nil
}

func validateUserType(fl validator.FieldLevel) bool {
	return models.UserType(fl.Field().String()).Valid()
}

func validateConsumerPaymentMethod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "cash", "card", "upi", "wallet":
		return true
	}
	return false
}

func validateBusinessPaymentMethod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "cash", "card", "upi", "cheque", "netbanking", "wallet":
		return true
	}
	return false
}

func validateBusinessTransactionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "expense", "income", "purchase", "sale":
		return true
	}
	return false
}

func validateGSTIN(fl validator.FieldLevel) bool {
	return gstinRegex.MatchString(strings.ToUpper(fl.Field().String()))
}
