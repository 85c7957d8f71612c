package validators

import "strings"

// NormalizeBRPhone keeps digits and drops the 55 country prefix, matching how
// customer phones are stored.
func NormalizeBRPhone(phone string) string {
	digits := OnlyDigits(phone)
	if len(digits) > 11 && strings.HasPrefix(digits, "55") {
		return digits[2:]
	}
	return digits
}

// FirstName is the first whitespace-separated token of a display name.
func FirstName(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
