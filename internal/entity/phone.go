package entity

import (
	"regexp"
	"strings"
)

var (
	phoneKeepRe   = regexp.MustCompile(`[^\d+]`)
	phoneDigitsRe = regexp.MustCompile(`\D`)
	ieMobileRe    = regexp.MustCompile(`^8\d{8}$`)
)

// NormalizePhone canonicalizes free-form phone input into E.164, best effort.
// Ireland defaults: 08xxxxxxxx -> +3538xxxxxxxx. Idempotent: canonical input
// comes back unchanged.
func NormalizePhone(raw string) string {
	clean := strings.TrimSpace(phoneKeepRe.ReplaceAllString(raw, ""))
	if clean == "" {
		return clean
	}
	if strings.HasPrefix(clean, "+") {
		return "+" + phoneDigitsRe.ReplaceAllString(clean, "")
	}
	clean = phoneDigitsRe.ReplaceAllString(clean, "")
	if clean == "" {
		return clean
	}
	if strings.HasPrefix(clean, "0") {
		return "+353" + clean[1:]
	}
	// Already country-prefixed without +
	if strings.HasPrefix(clean, "353") {
		return "+" + clean
	}
	// Common mobile shorthand users enter: 83xxxxxxx / 87xxxxxxx etc
	if ieMobileRe.MatchString(clean) {
		return "+353" + clean
	}
	return clean
}

// PhoneDigits reduces a phone string to its digit sequence. Match comparisons
// run on PhoneDigits(NormalizePhone(x)) of both sides so punctuation, a
// leading + or a trunk zero never break a match.
func PhoneDigits(phone string) string {
	return phoneDigitsRe.ReplaceAllString(phone, "")
}

// SamePhone reports whether two free-form phone values refer to the same
// number under canonicalization.
func SamePhone(a, b string) bool {
	da := PhoneDigits(NormalizePhone(a))
	db := PhoneDigits(NormalizePhone(b))
	return da != "" && da == db
}
