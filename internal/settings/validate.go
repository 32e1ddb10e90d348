package settings

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// Validity is derived from the current records on every read.
type Validity struct {
	App     bool `yaml:"app"`
	Storage bool `yaml:"s3"`
	All     bool `yaml:"all"`
}

var (
	validatorOnce sync.Once
	validate      *validator.Validate
	translator    ut.Translator
)

func schema() (*validator.Validate, ut.Translator) {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Report fields by their settings-file names.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		_ = v.RegisterValidation("numeric_or_empty", numericOrEmpty)

		locale := en.New()
		trans, _ := ut.New(locale, locale).GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(v, trans)
		_ = v.RegisterTranslation("numeric_or_empty", trans,
			func(ut ut.Translator) error {
				return ut.Add("numeric_or_empty", "{0} must be empty or a positive number", true)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				msg, _ := ut.T("numeric_or_empty", fe.Field())
				return msg
			},
		)

		validate, translator = v, trans
	})
	return validate, translator
}

func numericOrEmpty(fl validator.FieldLevel) bool {
	raw := strings.TrimSpace(fl.Field().String())
	if raw == "" {
		return true
	}
	f, ok := NumberOrString(raw).Float()
	return ok && f > 0
}

// ValidateStorage reports whether s passes the storage schema.
func ValidateStorage(s StorageSettings) bool {
	v, _ := schema()
	return v.Struct(s) == nil
}

// ValidatePreferences reports whether p passes the preferences schema.
func ValidatePreferences(p AppPreferences) bool {
	v, _ := schema()
	return v.Struct(p) == nil
}

// ComputeValidity checks both records independently. It never fails.
func ComputeValidity(s StorageSettings, p AppPreferences) Validity {
	app := ValidatePreferences(p)
	storage := ValidateStorage(s)
	return Validity{App: app, Storage: storage, All: app && storage}
}

// FieldErrors returns human-readable messages for every failing field of
// record, keyed by settings-file field name. A valid record yields nil.
func FieldErrors(record any) map[string]string {
	v, trans := schema()

	err := v.Struct(record)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string]string{"": err.Error()}
	}

	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[fe.Field()] = fe.Translate(trans)
	}
	return out
}
