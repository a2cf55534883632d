package models

import (
	"net/http"
	"regexp"
	"strings"

	"tourify/utils"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance. Validation is invoked explicitly
// from the write path rather than through model lifecycle hooks.
var validate = newValidator()

var alphaSpace = regexp.MustCompile(`^[a-zA-Z ]+$`)

func newValidator() *validator.Validate {
	v := validator.New()
	// Tour names allow letters and spaces only.
	_ = v.RegisterValidation("alphaspace", func(fl validator.FieldLevel) bool {
		return alphaSpace.MatchString(fl.Field().String())
	})
	return v
}

// validationError converts validator failures into an operational error with
// a client-safe message naming the offending fields.
func validationError(entity string, err error) error {
	if fieldErrs, ok := err.(validator.ValidationErrors); ok {
		fields := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields = append(fields, fe.Field())
		}
		return utils.WrapError(http.StatusBadRequest,
			"Invalid "+entity+" data: "+strings.Join(fields, ", "), err)
	}
	return utils.WrapError(http.StatusBadRequest, "Invalid "+entity+" data", err)
}

// ValidateInput validates an arbitrary tagged request struct, reporting
// failures as an operational error.
func ValidateInput(entity string, v any) error {
	if err := validate.Struct(v); err != nil {
		return validationError(entity, err)
	}
	return nil
}

// Slugify derives a URL-safe slug from a name.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")
	var b strings.Builder
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
