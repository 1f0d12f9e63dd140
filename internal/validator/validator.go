package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

var (
	ErrInvalidEmail         = errors.New("invalid email")
	ErrInvalidUsername      = errors.New("invalid username")
	ErrInvalidPassword      = errors.New("invalid password")
	ErrInvalidAccountNumber = errors.New("invalid account number")
)

var (
	usernameRegex      = regexp.MustCompile(`^[a-zA-Z0-9_.]{3,30}$`)
	accountNumberRegex = regexp.MustCompile(`^[0-9]{4,12}$`)
	taxIDRegex         = regexp.MustCompile(`^[0-9A-Z][0-9A-Z./-]{4,18}[0-9A-Z]$`)
)

var validate = newValidate()

func newValidate() *playground.Validate {
	v := playground.New(playground.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("account_number", matches(accountNumberRegex))
	_ = v.RegisterValidation("username", matches(usernameRegex))
	_ = v.RegisterValidation("tax_id", matches(taxIDRegex))
	return v
}

func matches(re *regexp.Regexp) playground.Func {
	return func(fl playground.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// Struct validates request payloads and reports the first failing field by its JSON name.
func Struct(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	var fieldErrs playground.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if fe.Tag() == "required" {
			return fmt.Errorf("%s is required", fe.Field())
		}
		return fmt.Errorf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
	return err
}

func ValidateEmail(email string) error {
	if err := validate.Var(email, "email"); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrInvalidPassword
	}
	return nil
}

func ValidateAccountNumber(number string) error {
	if !accountNumberRegex.MatchString(number) {
		return ErrInvalidAccountNumber
	}
	return nil
}
