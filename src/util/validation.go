package util

import (
	"errors"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

func ValidateEmail(email string) bool {
	re := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	return re.MatchString(email)
}

func ValidatePassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLower := regexp.MustCompile("[a-z]").MatchString(password)
	hasUpper := regexp.MustCompile("[A-Z]").MatchString(password)
	hasDigit := regexp.MustCompile("[0-9]").MatchString(password)

	return hasLower && hasUpper && hasDigit
}

func ValidateName(name string) bool {
	return len(name) >= 1 && len(name) <= 50
}

func ValidateState(state string) bool {
	return regexp.MustCompile(`^[A-Z]{2}$`).MatchString(state)
}

func ValidatePostalCode(code string) bool {
	return regexp.MustCompile(`^[0-9]{5}$`).MatchString(code)
}

// ValidateSSN accepts the last four digits, which is what the payment
// processor requires for personal customers.
func ValidateSSN(ssn string) bool {
	return regexp.MustCompile(`^[0-9]{4}$`).MatchString(ssn)
}

func ValidateDateOfBirth(dob string) bool {
	t, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return false
	}
	return t.Before(time.Now())
}

// NormalizeAmount parses a decimal money string, requires a positive value
// with at most two fractional digits, and returns it formatted as "25.00".
func NormalizeAmount(s string) (string, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return "", errors.New("amount is not a valid decimal")
	}
	if !d.IsPositive() {
		return "", errors.New("amount must be positive")
	}
	if d.Exponent() < -2 {
		return "", errors.New("amount has more than two decimal places")
	}
	return d.StringFixed(2), nil
}
