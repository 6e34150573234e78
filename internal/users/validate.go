package users

import (
	"regexp"
	"sort"
	"strings"
)

// MinPasswordLen is the shortest password accepted at signup.
const MinPasswordLen = 6

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// FieldErrors maps a request field to a human readable problem.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// ValidEmail reports whether email has the basic x@y.z shape.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// ValidateSignup checks signup fields and returns nil when all pass.
func ValidateSignup(name, email, password string) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(name) == "" {
		errs["name"] = "Name is required"
	}
	validateEmail(errs, email)
	if password == "" {
		errs["password"] = "Password is required"
	} else if len([]rune(password)) < MinPasswordLen {
		errs["password"] = "Password must be at least 6 characters"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateLogin checks login fields and returns nil when all pass.
func ValidateLogin(email, password string) FieldErrors {
	errs := FieldErrors{}
	validateEmail(errs, email)
	if password == "" {
		errs["password"] = "Password is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateEmail(errs FieldErrors, email string) {
	switch {
	case strings.TrimSpace(email) == "":
		errs["email"] = "Email is required"
	case !ValidEmail(email):
		errs["email"] = "Email is invalid"
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
