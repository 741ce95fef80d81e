package validation

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/tahirturgut/exchange/internal/api/request"
)

const (
	minUsername = 3
	maxUsername = 30
	minPassword = 6
)

// ValidateRegister validates an account registration request.
func ValidateRegister(req request.RegisterRequest) error {
	errors := make(map[string]string)

	switch n := utf8.RuneCountInString(req.Username); {
	case strings.TrimSpace(req.Username) == "":
		errors["username"] = "username is required"
	case n < minUsername || n > maxUsername:
		errors["username"] = "username must be between 3 and 30 characters"
	}

	if req.Email == "" {
		errors["email"] = "email is required"
	} else if !validEmail(req.Email) {
		errors["email"] = "email is invalid"
	}

	if req.Password == "" {
		errors["password"] = "password is required"
	} else if len(req.Password) < minPassword {
		errors["password"] = "password must be at least 6 characters long"
	}

	return result(errors)
}

// ValidateLogin validates a login request. Either email or username must be set.
func ValidateLogin(req request.LoginRequest) error {
	errors := make(map[string]string)

	if req.Email == "" && req.Username == "" {
		errors["login"] = "email or username is required"
	}
	if req.Password == "" {
		errors["password"] = "password is required"
	}

	return result(errors)
}

// validEmail accepts a bare address with a dotted domain, for example "a@b.co".
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndexByte(email, '@')
	return strings.Contains(email[at+1:], ".")
}
