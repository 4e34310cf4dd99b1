package domain

import "strings"

// NormalizeMSISDN converts a gateway-native phone number to canonical
// international form ("+<cc><nsn>"). Kenyan local prefixes (07xx/01xx)
// are widened to +254; numbers already in international form keep
// their country code. Non-digit separators are dropped.
func NormalizeMSISDN(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}

	switch {
	case strings.HasPrefix(raw, "+"):
		return "+" + digits
	case strings.HasPrefix(digits, "00"):
		return "+" + digits[2:]
	case len(digits) == 10 && (strings.HasPrefix(digits, "07") || strings.HasPrefix(digits, "01")):
		return "+254" + digits[1:]
	case strings.HasPrefix(digits, "254"):
		return "+" + digits
	default:
		return "+" + digits
	}
}
