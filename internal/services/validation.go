package services

import (
	"regexp"

	"github.com/you/accountsvc/domain"
)

var (
	usernameRe = regexp.MustCompile(`^[a-z0-9]+$`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe    = regexp.MustCompile(`^[0-9]{10}$`)
)

// fieldRule is one entry of an ordered validation list. Rules run in order and
// short-circuit on the first violation, before any mutation.
type fieldRule struct {
	field   string
	value   string
	check   func(string) bool
	message string
}

func runRules(rules []fieldRule) error {
	for _, r := range rules {
		if !r.check(r.value) {
			return &domain.ValidationError{Field: r.field, Message: r.message}
		}
	}
	return nil
}

func notEmpty(s string) bool      { return s != "" }
func validUsername(s string) bool { return usernameRe.MatchString(s) }
func validEmail(s string) bool    { return emailRe.MatchString(s) }
func validPhone(s string) bool    { return phoneRe.MatchString(s) }
func validPassword(s string) bool { return len(s) >= 6 }

// ValidateRegistration checks the structural shape of a registration request.
func ValidateRegistration(username, name, email, password, phone string) error {
	return runRules([]fieldRule{
		{"username", username, validUsername, "username is required and must be lowercase alphanumeric"},
		{"name", name, notEmpty, "name is required"},
		{"email", email, validEmail, "please include a valid email"},
		{"password", password, validPassword, "password should be 6 or more characters"},
		{"phone", phone, validPhone, "phone number should be 10 digits"},
	})
}

// ValidateProfileUpdate checks only the fields actually supplied.
func ValidateProfileUpdate(update domain.ProfileUpdate) error {
	var rules []fieldRule
	if update.Username != "" {
		rules = append(rules, fieldRule{"username", update.Username, validUsername, "username must be lowercase alphanumeric"})
	}
	if update.Name != "" {
		rules = append(rules, fieldRule{"name", update.Name, notEmpty, "name is required"})
	}
	if update.Email != "" {
		rules = append(rules, fieldRule{"email", update.Email, validEmail, "please include a valid email"})
	}
	if update.Phone != "" {
		rules = append(rules, fieldRule{"phone", update.Phone, validPhone, "phone number should be 10 digits"})
	}
	return runRules(rules)
}

// ValidateLogin checks a login request.
func ValidateLogin(email, password string) error {
	return runRules([]fieldRule{
		{"email", email, validEmail, "please include a valid email"},
		{"password", password, notEmpty, "password is required"},
	})
}

// ValidateNewPassword checks a password supplied to the change/reset paths.
func ValidateNewPassword(password string) error {
	return runRules([]fieldRule{
		{"newPassword", password, validPassword, "password should be 6 or more characters"},
	})
}
