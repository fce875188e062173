package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidHolderName = errors.New("invalid holder name")
	ErrInvalidEmail      = errors.New("invalid email format")
	ErrInvalidKind       = errors.New("invalid account kind")
	ErrPasswordTooWeak   = errors.New("password does not meet requirements")
	ErrInvalidUsername   = errors.New("invalid username")
)

// Validation constants
const (
	MaxHolderNameLength = 100
	MaxDescriptionLen   = 255
	MinPasswordLength   = 8
	MaxPasswordLength   = 72 // bcrypt input limit
	MinUsernameLength   = 3
	MaxUsernameLength   = 50

	// MinimumOpeningDeposit is the smallest initial deposit accepted when
	// opening an account, in currency units.
	MinimumOpeningDeposit = "500"

	// MaxOperationAmount bounds a single deposit, withdrawal or transfer.
	MaxOperationAmount = "1000000000000" // 1 trillion
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// ValidateAmount validates a deposit/withdrawal/transfer amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxOperationAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrInvalidAmount, MaxOperationAmount)
	}

	return nil
}

// ValidateOpeningDeposit validates the initial deposit for a new account.
func ValidateOpeningDeposit(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}

	minDeposit, _ := decimal.NewFromString(MinimumOpeningDeposit)
	if amount.LessThan(minDeposit) {
		return fmt.Errorf("%w: minimum opening deposit is %s", ErrInvalidAmount, MinimumOpeningDeposit)
	}

	return nil
}

// ValidateProfile validates the holder identity fields.
func ValidateProfile(p Profile) error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidHolderName)
	}

	if len(name) > MaxHolderNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidHolderName, MaxHolderNameLength)
	}

	if !emailRegex.MatchString(strings.TrimSpace(strings.ToLower(p.Email))) {
		return ErrInvalidEmail
	}

	return nil
}

// ValidateUsername validates a login username.
func ValidateUsername(username string) error {
	if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		return fmt.Errorf("%w: must be %d-%d characters", ErrInvalidUsername, MinUsernameLength, MaxUsernameLength)
	}

	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("%w: contains forbidden characters", ErrInvalidUsername)
	}

	return nil
}

// ValidatePassword validates password strength.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooWeak, MinPasswordLength)
	}

	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrPasswordTooWeak, MaxPasswordLength)
	}

	return nil
}

// TruncateDescription clips a free-text description to the stored length.
func TruncateDescription(s string) string {
	if len(s) > MaxDescriptionLen {
		return s[:MaxDescriptionLen]
	}

	return s
}
