package validate

import (
	"github.com/go-playground/validator/v10"
	"github.com/m-mizutani/goerr/v2"
)

var v = validator.New(validator.WithRequiredStructEnabled())

// Struct validates val against its declared validate tags
func Struct(val any) error {
	if err := v.Struct(val); err != nil {
		return goerr.Wrap(err, "validation failed")
	}
	return nil
}
