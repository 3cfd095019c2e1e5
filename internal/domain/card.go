package domain

import (
	"fmt"
	"strconv"
)

// ErrCardNumberTooShort signals an invariant violation: the validation
// gate guarantees 14-19 digits, so a shorter value reaching the sanitizer
// means a caller bypassed validation.
var ErrCardNumberTooShort = fmt.Errorf("card number has fewer than 4 digits")

// CardLastFour returns the final four digits of a card number as an
// integer. The integer form forbids leading-zero ambiguity in storage.
// The full number must not be retained past this call.
func CardLastFour(cardNumber string) (int, error) {
	if len(cardNumber) < 4 {
		return 0, ErrCardNumberTooShort
	}

	lastFour, err := strconv.Atoi(cardNumber[len(cardNumber)-4:])
	if err != nil {
		return 0, fmt.Errorf("card number is not numeric: %w", err)
	}

	return lastFour, nil
}

// FormatExpiry renders a card expiry the way the acquiring bank expects
// it: zero-padded two-digit month, slash, four-digit year.
func FormatExpiry(month, year int) string {
	return fmt.Sprintf("%02d/%d", month, year)
}
