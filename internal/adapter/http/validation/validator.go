package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"authapi/internal/core/model/response"
)

var (
	Validator  *validator.Validate
	Translator ut.Translator
)

func init() {
	Validator = validator.New(validator.WithRequiredStructEnabled())

	english := en.New()
	uni := ut.New(english, english)

	var found bool
	Translator, found = uni.GetTranslator("en")

	if !found {
		panic("translator en not found")
	}

	if err := en_translations.RegisterDefaultTranslations(Validator, Translator); err != nil {
		panic(err)
	}

	if err := Validator.RegisterValidation("maxbytes", maxBytes); err != nil {
		panic(err)
	}

	addCustomTranslations()
}

// maxBytes bounds the encoded length of a string. bcrypt rejects passwords
// over 72 bytes, which max counts in runes.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())

	if err != nil {
		panic(fmt.Sprintf("maxbytes: bad param %q", fl.Param()))
	}

	return len(fl.Field().String()) <= limit
}

func addCustomTranslations() {
	Validator.RegisterTranslation("required", Translator, func(ut ut.Translator) error {
		return ut.Add("required", "{0} is required", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("required", getFieldName(fe.Field()))
		return t
	})

	Validator.RegisterTranslation("min", Translator, func(ut ut.Translator) error {
		return ut.Add("min", "{0} must be at least {1} characters", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("min", getFieldName(fe.Field()), fe.Param())
		return t
	})

	Validator.RegisterTranslation("max", Translator, func(ut ut.Translator) error {
		return ut.Add("max", "{0} must be at most {1} characters", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("max", getFieldName(fe.Field()), fe.Param())
		return t
	})

	Validator.RegisterTranslation("maxbytes", Translator, func(ut ut.Translator) error {
		return ut.Add("maxbytes", "{0} must be at most {1} bytes", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("maxbytes", getFieldName(fe.Field()), fe.Param())
		return t
	})

	Validator.RegisterTranslation("email", Translator, func(ut ut.Translator) error {
		return ut.Add("email", "{0} must be a valid email", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("email", getFieldName(fe.Field()))
		return t
	})
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"Name":     "Name",
		"Email":    "Email",
		"Password": "Password",
	}

	if name, exists := fieldNames[field]; exists {
		return name
	}

	return field
}

func FormatValidationErrors(err error) []response.ValidationError {
	var errs []response.ValidationError

	var validationErrors validator.ValidationErrors

	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			errs = append(errs, response.ValidationError{
				Field:   strings.ToLower(fieldError.Field()),
				Message: fieldError.Translate(Translator),
			})
		}
	}

	return errs
}
