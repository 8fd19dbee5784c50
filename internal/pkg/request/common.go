package request

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// apartmentIDPattern matches ids like "1-1001" as well as seeded ids like "A101".
var apartmentIDPattern = regexp.MustCompile(`^[A-Za-z0-9]+(-[A-Za-z0-9]+)*$`)

var registerOnce sync.Once

// RegisterValidators installs the custom binding tags used by request DTOs.
// It is safe to call more than once.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		err = v.RegisterValidation("apartment_id", func(fl validator.FieldLevel) bool {
			return IsApartmentID(fl.Field().String())
		})
	})
	return err
}

// IsApartmentID reports whether s is a syntactically valid apartment id.
func IsApartmentID(s string) bool {
	return len(s) <= 64 && apartmentIDPattern.MatchString(s)
}
