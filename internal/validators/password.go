package validators

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// GenerateNumericPassword returns length independent uniform digits.
func GenerateNumericPassword(length int) (string, error) {
	if length <= 0 {
		length = 8
	}

	ten := big.NewInt(10)
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
