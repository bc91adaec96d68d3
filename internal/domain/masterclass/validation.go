package masterclass

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^[\d\s\-+()]+$`)

var fieldMessages = map[string]string{
	"fullName":     "Full name is required",
	"email":        "Please use your work email address",
	"phone":        "Please enter a valid phone number",
	"firmName":     "Law firm name is required",
	"practiceArea": "Please select a practice area",
}

type rule struct {
	tag string
	fn  validator.Func
}

func newValidator(blockedDomains []string) (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	err := registerRules(v, []rule{
		{"business_email", func(fl validator.FieldLevel) bool {
			return !isBlockedDomain(fl.Field().String(), blockedDomains)
		}},
		{"phone", func(fl validator.FieldLevel) bool {
			return validPhone(fl.Field().String())
		}},
		{"practice_area", func(fl validator.FieldLevel) bool {
			return slices.Contains(PracticeAreas, fl.Field().String())
		}},
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func registerRules(v *validator.Validate, rules []rule) error {
	var errs []error
	for _, r := range rules {
		if err := v.RegisterValidation(r.tag, r.fn); err != nil {
			errs = append(errs, fmt.Errorf("register %q validation: %w", r.tag, err))
		}
	}
	return errors.Join(errs...)
}

func isBlockedDomain(email string, blocked []string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	return slices.Contains(blocked, strings.ToLower(email[at+1:]))
}

// validPhone accepts digits, spaces, dashes, plus signs and parentheses with at least ten digits.
func validPhone(phone string) bool {
	if !phonePattern.MatchString(phone) {
		return false
	}
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 10
}

func toFieldErrors(err error) FieldErrors {
	var verrs validator.ValidationErrors
	out := FieldErrors{}
	if !errors.As(err, &verrs) {
		return out
	}
	for _, fe := range verrs {
		field := fe.Field()
		if msg, ok := fieldMessages[field]; ok {
			out[field] = msg
			continue
		}
		out[field] = fe.Error()
	}
	return out
}
