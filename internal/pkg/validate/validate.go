// Package validate wraps go-playground/validator so struct tag failures come
// back as InvalidArgument errors with per-field messages.
package validate

import (
	stderrors "errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// knownEditions are the rules editions a record may be tagged with
var knownEditions = map[string]bool{
	"2014": true,
	"2024": true,
}

func get() *validator.Validate {
	once.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("edition", validateEdition)
		instance = v
	})
	return instance
}

// Struct validates s using its `validate` tags
func Struct(s interface{}) error {
	err := get().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.Wrap(err, "validate")
	}

	vb := errors.NewValidationBuilder()
	for _, fe := range fieldErrs {
		field := fieldPath(fe.Namespace())
		switch fe.Tag() {
		case "required":
			vb.RequiredField(field)
		case "min", "gte":
			vb.Fieldf(field, "must be at least %s", fe.Param())
		case "max", "lte":
			vb.Fieldf(field, "must be at most %s", fe.Param())
		case "ltefield":
			vb.Fieldf(field, "must not exceed %s", fe.Param())
		case "oneof":
			vb.Fieldf(field, "must be one of: %s", fe.Param())
		case "edition":
			vb.InvalidField(field, "unknown edition")
		default:
			vb.Fieldf(field, "failed %s", fe.Tag())
		}
	}
	return vb.Build()
}

// fieldPath drops the root struct name: "Character.HitDice.Current" -> "HitDice.Current"
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func validateEdition(fl validator.FieldLevel) bool {
	edition := fl.Field().String()
	if edition == "" {
		return true
	}
	return knownEditions[edition]
}
