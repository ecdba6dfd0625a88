package validator

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator"
)

var (
	global      *validator.Validate
	tshirtRegex = regexp.MustCompile(`^(X*S|M|L|X*L)$`)
	ynRegex     = regexp.MustCompile(`^[YN]$`)
)

const (
	ErrInvalidFormat      = "Invalid format"
	ErrFieldRequired      = "Field is required"
	ErrFieldExceedsMaxLen = "Field exceeds maximum length"
	ErrFieldBelowMinLen   = "Field is below minimum length"
	ErrUnknownValidation  = "Unknown validation error"

	ErrBadReferenceCode = "Invalid reference code. It must be 6 characters."
	ErrBadTshirtSize    = "Invalid T-Shirt size. It must be one of XS, S, M, L, XL, XXL, etc."
	ErrBadYesNo         = "Invalid value for Single or Taken. It must be Y or N."
)

func init() {
	SetValidator(New())
}

func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("refcode", validateReferenceCode)
	_ = v.RegisterValidation("tshirt", validateTshirtSize)
	_ = v.RegisterValidation("yn", validateYesNo)
	return v
}

func SetValidator(v *validator.Validate) {
	global = v
}

func Validator() *validator.Validate {
	return global
}

func validateReferenceCode(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) == 6
}

func validateTshirtSize(fl validator.FieldLevel) bool {
	return tshirtRegex.MatchString(strings.ToUpper(fl.Field().String()))
}

// validateYesNo accepts an empty string so the tag composes with
// optional fields; pair with required when the field is mandatory.
func validateYesNo(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	return ynRegex.MatchString(strings.ToUpper(s))
}

func Validate(ctx context.Context, structure any) error {
	return parseValidationErrors(Validator().StructCtx(ctx, structure))
}

func parseValidationErrors(err error) error {
	if err == nil {
		return nil
	}
	vErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(vErrors) == 0 {
		return nil
	}
	ve := vErrors[0]
	var msg string
	switch ve.Tag() {
	case "required":
		msg = ErrFieldRequired
	case "max":
		msg = ErrFieldExceedsMaxLen
	case "min":
		msg = ErrFieldBelowMinLen
	case "refcode":
		msg = ErrBadReferenceCode
	case "tshirt":
		msg = ErrBadTshirtSize
	case "yn":
		msg = ErrBadYesNo
	default:
		msg = ErrUnknownValidation
	}
	return errors.New(msg)
}
