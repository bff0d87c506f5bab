// Package barcode normalises scanned retail barcodes to GTIN-14.
package barcode

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmpty         = errors.New("barcode is empty")
	ErrInvalidFormat = errors.New("barcode format is not supported")
	ErrCheckDigit    = errors.New("barcode check digit mismatch")
)

const (
	gtinLength = 14
	aiGTIN     = "01"
)

// Normalize accepts EAN-8, UPC-A, EAN-13 and GTIN-14 codes as well as GS1
// element strings that start with AI (01), and returns the zero-padded
// GTIN-14 after verifying its check digit.
func Normalize(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", ErrEmpty
	}

	// GS1 element string: (01) followed by the 14 digit GTIN and optional AIs.
	if len(code) > gtinLength && strings.HasPrefix(code, aiGTIN) {
		if len(code) < len(aiGTIN)+gtinLength {
			return "", fmt.Errorf("%w: truncated AI(01) data", ErrInvalidFormat)
		}
		code = code[len(aiGTIN) : len(aiGTIN)+gtinLength]
	}

	if !isDigits(code) {
		return "", fmt.Errorf("%w: %q contains non-digit characters", ErrInvalidFormat, code)
	}

	switch len(code) {
	case 8, 12, 13, 14:
	default:
		return "", fmt.Errorf("%w: unexpected length %d", ErrInvalidFormat, len(code))
	}

	gtin := strings.Repeat("0", gtinLength-len(code)) + code
	if checkDigit(gtin[:gtinLength-1]) != gtin[gtinLength-1] {
		return "", ErrCheckDigit
	}

	return gtin, nil
}

// checkDigit computes the GS1 mod-10 check digit for the 13 leading digits
// of a GTIN-14.
func checkDigit(body string) byte {
	sum := 0
	for i := range len(body) {
		d := int(body[i] - '0')
		if i%2 == 0 {
			d *= 3
		}
		sum += d
	}
	return byte('0' + (10-sum%10)%10)
}

func isDigits(s string) bool {
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
