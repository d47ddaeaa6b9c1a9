// Package validation holds the shared go-playground validator instance and
// the custom tags used by the reservation forms:
//
//    roll      exactly seven ASCII digits
//    hall      one of the dining halls
//    mealtype  Lunch or Dinner
//    isodate   a YYYY-MM-DD calendar date
package validation

import (
    "errors"
    "sync"
    "time"

    "github.com/go-playground/validator/v10"

    "github.com/iliyamo/dining-hall-reservation/internal/model"
)

var (
    validate     *validator.Validate
    validateOnce sync.Once
)

// Get returns the singleton validator with the custom tags registered.
func Get() *validator.Validate {
    validateOnce.Do(func() {
        v := validator.New(validator.WithRequiredStructEnabled())
        _ = v.RegisterValidation("roll", func(fl validator.FieldLevel) bool { return IsRoll(fl.Field().String()) })
        _ = v.RegisterValidation("hall", func(fl validator.FieldLevel) bool { return model.IsHall(fl.Field().String()) })
        _ = v.RegisterValidation("mealtype", func(fl validator.FieldLevel) bool { return model.IsMealType(fl.Field().String()) })
        _ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool { return IsDate(fl.Field().String()) })
        validate = v
    })
    return validate
}

// IsRoll reports whether s is exactly seven ASCII digits.
func IsRoll(s string) bool {
    if len(s) != 7 {
        return false
    }
    for i := 0; i < len(s); i++ {
        if s[i] < '0' || s[i] > '9' {
            return false
        }
    }
    return true
}

// IsDate reports whether s is a valid YYYY-MM-DD date.
func IsDate(s string) bool {
    _, err := ParseDate(s, time.UTC)
    return err == nil
}

// ParseDate parses s as midnight of that calendar day in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
    return time.ParseInLocation(model.DateInputLayout, s, loc)
}

// NormalizeDate rewrites a valid date in the zero-padded storage form.
func NormalizeDate(s string) (string, bool) {
    d, err := ParseDate(s, time.UTC)
    if err != nil {
        return "", false
    }
    return d.Format(model.DateLayout), true
}

// Var validates a single value against tag.
func Var(value any, tag string) error {
    return Get().Var(value, tag)
}

// Struct validates s using its `validate` tags.
func Struct(s any) error {
    return Get().Struct(s)
}

// FirstFailure returns the struct field name and tag of the first failed
// rule in err.  ok is false when err is not a validation error.
func FirstFailure(err error) (field, tag string, ok bool) {
    var verrs validator.ValidationErrors
    if !errors.As(err, &verrs) || len(verrs) == 0 {
        return "", "", false
    }
    return verrs[0].Field(), verrs[0].Tag(), true
}
