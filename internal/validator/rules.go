package validator

import (
	"log"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	uzPhoneRe  = regexp.MustCompile(`^\+998\d{9}$`)
	telegramRe = regexp.MustCompile(`^@[A-Za-z0-9_]{4,32}$`)
)

func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("uz_phone", validateUzPhone)
	mustRegister("telegram", validateTelegram)
	mustRegister("notblank", validateNotBlank)
}

// Empty values pass; pair with 'required' when the field is mandatory.
func validateUzPhone(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || uzPhoneRe.MatchString(value)
}

func validateTelegram(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || telegramRe.MatchString(value)
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
