// Package coord decodes raw plotter coordinate tokens, shared by the Gerber
// and Excellon parsers. A token is either an explicit decimal number
// ("12.5", "-0.8") or a fixed-point digit string whose split between integer
// and fractional digits comes from the file's format declaration.
package coord

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// InchesToMM is the scale factor from inches to millimeters.
const InchesToMM = 25.4

// Units is the measurement unit declared by the source file.
type Units int

const (
	Millimeters Units = iota
	Inches
)

// Factor returns the multiplier that converts a value in u to millimeters.
func (u Units) Factor() float64 {
	if u == Inches {
		return InchesToMM
	}
	return 1.0
}

func (u Units) String() string {
	if u == Inches {
		return "inch"
	}
	return "mm"
}

// ZeroSuppression says which zeros a fixed-point token may omit.
// 'L' (leading omitted) pads on the left, 'T' (trailing omitted) pads on
// the right, 'D' (none omitted) behaves like 'L' for short tokens.
type ZeroSuppression byte

const (
	LeadingOmitted  ZeroSuppression = 'L'
	TrailingOmitted ZeroSuppression = 'T'
	NoneOmitted     ZeroSuppression = 'D'
)

// FormatSpec is a declared fixed-point coordinate format: how many digits
// belong to the integer and fractional parts, and the zero suppression mode.
type FormatSpec struct {
	IntegerDigits int
	DecimalDigits int
	Suppression   ZeroSuppression
}

// FormatError reports a coordinate that cannot be interpreted because the
// file never declared its coordinate format.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "coordinate format: " + e.Reason
}

// ParseError reports a structurally malformed coordinate token.
type ParseError struct {
	Token string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed coordinate token %q", e.Token)
}

// Resolve decodes one raw coordinate token and converts it to millimeters.
// A token with an explicit decimal point is parsed directly and needs no
// format declaration; fs may then be nil. A plain digit string is decoded
// as fixed point under fs, and a nil fs is a FormatError — guessing a
// format silently produces wrong geometry.
func Resolve(token string, fs *FormatSpec, u Units) (float64, error) {
	if strings.ContainsRune(token, '.') {
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return 0, &ParseError{Token: token}
		}
		return v * u.Factor(), nil
	}

	if fs == nil {
		return 0, &FormatError{Reason: "fixed-point coordinate before any format declaration"}
	}

	v, err := fs.Value(token)
	if err != nil {
		return 0, err
	}
	return v * u.Factor(), nil
}

// Value decodes a fixed-point token into the file's declared unit.
// The token is padded to IntegerDigits+DecimalDigits according to the zero
// suppression mode, or truncated from the left when it is too long, then
// split so that the rightmost DecimalDigits digits form the fraction.
func (fs *FormatSpec) Value(token string) (float64, error) {
	digits := token
	sign := 1.0
	if strings.HasPrefix(digits, "-") {
		sign = -1.0
		digits = digits[1:]
	} else if strings.HasPrefix(digits, "+") {
		digits = digits[1:]
	}

	if digits == "" || !isDigits(digits) {
		return 0, &ParseError{Token: token}
	}

	total := fs.IntegerDigits + fs.DecimalDigits
	switch {
	case len(digits) < total:
		if fs.Suppression == TrailingOmitted {
			digits = digits + strings.Repeat("0", total-len(digits))
		} else {
			digits = strings.Repeat("0", total-len(digits)) + digits
		}
	case len(digits) > total:
		digits = digits[len(digits)-total:]
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, &ParseError{Token: token}
	}
	return sign * float64(n) / math.Pow10(fs.DecimalDigits), nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
