// Package validation registers the custom binding tags used by request DTOs.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/ledger"
)

// RegisterGin installs the custom tags on gin's default validator engine.
func RegisterGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return Register(v)
}

// Register installs the custom tags on v:
//
//	money       positive amount, at most two decimal places
//	money_gte0  zero or positive amount, at most two decimal places
//
// decimal.Decimal fields are validated through their string form, and field
// errors are reported under the name the client used (json, form or uri tag).
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"json", "form", "uri"} {
			name := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	if err := v.RegisterValidation("money", moneyValidator(false)); err != nil {
		return err
	}
	return v.RegisterValidation("money_gte0", moneyValidator(true))
}

func moneyValidator(allowZero bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return false
		}
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		if d.IsNegative() || (!allowZero && d.IsZero()) {
			return false
		}
		return d.Equal(ledger.Round(d))
	}
}
