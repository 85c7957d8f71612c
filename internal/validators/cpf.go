package validators

import "strings"

// OnlyDigits strips every non-digit rune.
func OnlyDigits(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidCPF validates a Brazilian CPF using the two mod-11 check digits.
func IsValidCPF(value string) bool {
	cpf := OnlyDigits(value)
	if len(cpf) != 11 {
		return false
	}

	allSame := true
	for i := 1; i < 11; i++ {
		if cpf[i] != cpf[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}

	return checkDigit(cpf[:9]) == int(cpf[9]-'0') &&
		checkDigit(cpf[:10]) == int(cpf[10]-'0')
}

// checkDigit weights the digits from len+1 down to 2.
func checkDigit(digits string) int {
	sum := 0
	weight := len(digits) + 1
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * (weight - i)
	}
	d := 11 - sum%11
	if d >= 10 {
		return 0
	}
	return d
}
