package validators

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/MKhiriev/go-recipe-keeper/models"
	"github.com/go-playground/validator/v10"
	nonstandard "github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
)

// Custom tags registered on top of the validator/v10 built-ins.
const (
	TagMoney    = "money"
	TagLink     = "link"
	TagNotBlank = "notblank"
)

// StructValidator validates request payloads through their `validate` struct
// tags and uploaded images by decoding them.
type StructValidator struct {
	validate *validator.Validate
}

// NewStructValidator constructs a [Validator] with the money, link and
// notblank tags registered and json field names used in error keys.
func NewStructValidator() Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if p, ok := field.Interface().(models.Price); ok {
			return p.Decimal.String()
		}
		return nil
	}, models.Price{})

	// registration only fails on an empty tag or nil func
	_ = v.RegisterValidation(TagMoney, isMoney)
	_ = v.RegisterValidation(TagLink, isLink)
	_ = v.RegisterValidation(TagNotBlank, nonstandard.NotBlank)

	return &StructValidator{validate: v}
}

// Validate implements [Validator]. Images are checked with validateImage,
// every other struct through its tags. When fields are given, only the named
// struct fields are validated.
func (s *StructValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.ImageUpload:
		return validateImage(value)
	case *models.ImageUpload:
		return validateImage(*value)
	}

	var err error
	if len(fields) > 0 {
		err = s.validate.StructPartialCtx(ctx, obj, fields...)
	} else {
		err = s.validate.StructCtx(ctx, obj)
	}

	return translate(err)
}

func translate(err error) error {
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return fmt.Errorf("%w: %w", ErrUnsupportedType, err)
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fe := FieldErrors{}
	for _, e := range verrs {
		fe.Add(fieldPath(e), message(e))
	}

	return fe
}

// fieldPath drops the top-level struct name from the namespace, so
// "RecipeInput.tags[0].name" becomes "tags[0].name".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case TagNotBlank:
		return "This field may not be blank."
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", e.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", e.Param())
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", e.Param())
	case "lte":
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", e.Param())
	case TagMoney:
		return fmt.Sprintf("Ensure this value is between 0 and %s with no more than %d decimal places.",
			models.MaxPrice.StringFixed(models.PriceScale), models.PriceScale)
	case TagLink:
		return "Enter a valid URL."
	default:
		return fmt.Sprintf("Failed on the '%s' rule.", e.Tag())
	}
}

// isMoney accepts non-negative amounts up to models.MaxPrice with at most
// models.PriceScale decimal places.
func isMoney(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}

	d, err := decimal.NewFromString(field.String())
	if err != nil {
		return false
	}

	if d.IsNegative() || d.GreaterThan(models.MaxPrice) {
		return false
	}

	return d.Equal(d.Round(models.PriceScale))
}

// isLink accepts an empty string or an absolute http(s) URL.
func isLink(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}

	raw := strings.TrimSpace(field.String())
	if raw == "" {
		return true
	}

	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
