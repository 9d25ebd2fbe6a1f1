package usecase

import (
	"fmt"
	"regexp"

	"userapi/internal/feature/users/domain"
)

// Validator checks email and password candidates against configured
// patterns. Patterns are runtime configuration, not compiled-in constants,
// so deployments can tune password strength without a rebuild.
type Validator struct {
	email    *regexp.Regexp
	password *regexp.Regexp
}

// NewValidator compiles the configured patterns.
// It returns an error if either pattern is not a valid regular expression.
func NewValidator(emailPattern, passwordPattern string) (*Validator, error) {
	email, err := regexp.Compile(emailPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid email pattern: %w", err)
	}
	password, err := regexp.Compile(passwordPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid password pattern: %w", err)
	}
	return &Validator{email: email, password: password}, nil
}

// ValidateEmail matches the candidate against the email pattern.
// No normalization (trimming, case folding) is performed before matching.
func (v *Validator) ValidateEmail(email string) error {
	if !v.email.MatchString(email) {
		return domain.ErrInvalidEmailFormat
	}
	return nil
}

// ValidatePassword matches the candidate against the password pattern.
func (v *Validator) ValidatePassword(password string) error {
	if !v.password.MatchString(password) {
		return domain.ErrInvalidPasswordFormat
	}
	return nil
}
