package common

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

var (
	structValidator     *validator.Validate
	structValidatorOnce sync.Once
)

func sharedValidator() *validator.Validate {
	structValidatorOnce.Do(func() {
		structValidator = validator.New()
	})
	return structValidator
}

// ValidateStruct runs the `validate` tags of i outside of a request.
func ValidateStruct(i interface{}) error {
	return sharedValidator().Struct(i)
}

// GenericEchoValidator is shared by every request goroutine and is never
// mutated after construction. A nil Validator uses the package instance.
type GenericEchoValidator struct {
	Validator *validator.Validate
}

func NewGenericEchoValidator() *GenericEchoValidator {
	return &GenericEchoValidator{Validator: validator.New()}
}

func (gv *GenericEchoValidator) Validate(i interface{}) error {
	v := gv.Validator
	if v == nil {
		v = sharedValidator()
	}
	if err := v.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("received invalid request: %v", err))
	}
	return nil
}
