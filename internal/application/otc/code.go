package otc

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// CodeLength is the number of decimal digits in an issued code.
const CodeLength = 6

const codeSpace = 1_000_000 // 10^CodeLength

// RandomSource returns a uniform integer in [0, n).
type RandomSource func(n int64) (int64, error)

// CryptoSource draws from crypto/rand.
func CryptoSource(n int64) (int64, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		return 0, err
	}
	return v.Int64(), nil
}

func newCode(src RandomSource) (string, error) {
	n, err := src(codeSpace)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", CodeLength, n), nil
}

// wellFormed reports whether code could have been issued at all.
func wellFormed(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	return strings.Trim(code, "0123456789") == ""
}
