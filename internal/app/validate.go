package app

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	}); err != nil {
		panic(fmt.Sprintf("register finite validation: %v", err))
	}
	return v
}

// validateStruct runs the struct tags of v and returns one error per failed
// field, aggregated into a *multierror.Error.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	var mErr *multierror.Error
	for _, fe := range fieldErrs {
		mErr = multierror.Append(mErr, fieldError(fe))
	}
	return mErr.ErrorOrNil()
}

func fieldError(fe validator.FieldError) error {
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "max":
		return fmt.Errorf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Errorf("%s needs at least %s entries", field, fe.Param())
	case "gt":
		return fmt.Errorf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Errorf("%s must be at least %s", field, fe.Param())
	case "finite":
		return fmt.Errorf("%s must be a finite number", field)
	}
	return fmt.Errorf("%s failed %q", field, fe.Tag())
}

// ValidationMessages flattens a validation error into its field messages.
func ValidationMessages(err error) []string {
	var mErr *multierror.Error
	if !errors.As(err, &mErr) {
		return nil
	}
	out := make([]string, 0, len(mErr.Errors))
	for _, e := range mErr.Errors {
		out = append(out, e.Error())
	}
	return out
}
