// Package imei generates Luhn-valid 15-digit device identifiers for phone
// batches entered without real serial numbers.
package imei

import (
	"crypto/rand"
	"errors"
	"fmt"
)

// Length is the fixed identifier length.
const Length = 15

// ErrBatchSize indicates an invalid batch size request.
var ErrBatchSize = errors.New("imei: batch size must be positive")

// Generate returns a 15-digit numeric string whose last digit is the Luhn
// check digit over the first 14.
func Generate() (string, error) {
	buf := make([]byte, Length-1)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("imei: read random: %w", err)
	}
	digits := make([]byte, Length)
	for i, b := range buf {
		digits[i] = '0' + b%10
	}
	digits[Length-1] = '0' + checkDigit(digits[:Length-1])
	return string(digits), nil
}

// GenerateBatch returns n pairwise-distinct identifiers.
func GenerateBatch(n int) ([]string, error) {
	if n <= 0 {
		return nil, ErrBatchSize
	}
	seen := make(map[string]struct{}, n)
	out := make([]string, 0, n)
	for len(out) < n {
		id, err := Generate()
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

// Valid reports whether s is a 15-digit string passing the Luhn checksum.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return checkDigit([]byte(s[:Length-1])) == s[Length-1]-'0'
}

// checkDigit computes the Luhn check digit for a numeric payload. Doubling
// starts from the rightmost payload digit.
func checkDigit(payload []byte) byte {
	sum := 0
	double := true
	for i := len(payload) - 1; i >= 0; i-- {
		d := int(payload[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		double = !double
		sum += d
	}
	return byte((10 - sum%10) % 10)
}
