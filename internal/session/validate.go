package session

import "contract-scanner/internal/users"

// FieldErrors maps a form field to the message shown beside it.
type FieldErrors = users.FieldErrors

// SignupForm is what the user types into the signup form.
type SignupForm struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// ValidateSignup applies the server's rules plus the confirmation check.
// It returns nil when the form can be submitted.
func ValidateSignup(f SignupForm) FieldErrors {
	errs := users.ValidateSignup(f.Name, f.Email, f.Password)
	if f.Password != f.ConfirmPassword {
		if errs == nil {
			errs = FieldErrors{}
		}
		errs["confirmPassword"] = "Passwords do not match"
	}
	return errs
}

func ValidateLogin(email, password string) FieldErrors {
	return users.ValidateLogin(email, password)
}
