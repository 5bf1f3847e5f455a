package handlers

import (
	"reflect"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RegisterValidators adds the custom binding tags used by request DTOs to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	// Validate decimals by value instead of walking their struct fields.
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	return v.RegisterValidation("decimal_gt0", decimalGreaterThanZero)
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

// decimalGreaterThanZero accepts strictly positive decimals.
func decimalGreaterThanZero(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.String:
		d, err := decimal.NewFromString(field.String())
		return err == nil && d.IsPositive()
	case reflect.Struct:
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.IsPositive()
		}
	}
	return false
}
