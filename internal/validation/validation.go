package validation

import (
	"regexp"

	"github.com/yethikrishna/y0-waitlist-builder/internal/constants"
)

var (
	// Permissive on purpose: anything non-space around an @ and a dot.
	// Deliverability is the mail provider's problem, not ours.
	emailPattern        = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	referralCodePattern = regexp.MustCompile(`^[a-fA-F0-9]{12}$`)
)

// ValidEmail reports whether s looks like an email address. Empty strings
// and anything over 255 characters are rejected.
func ValidEmail(s string) bool {
	if s == "" || len(s) > 255 {
		return false
	}
	return emailPattern.MatchString(s)
}

// ValidReferralCode reports whether s is an acceptable referral code.
// Empty means "no referral" and is valid; otherwise the code must be
// exactly 12 hex characters, case-insensitive.
func ValidReferralCode(s string) bool {
	if s == "" {
		return true
	}
	return referralCodePattern.MatchString(s)
}

// ValidPosition bounds waitlist positions accepted from callers.
func ValidPosition(n int) bool {
	return n > 0 && n <= constants.MaxPosition
}
