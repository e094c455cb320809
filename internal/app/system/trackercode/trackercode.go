// Package trackercode validates and generates application tracking codes of
// the form MINSU-YYYY-MMDD-NNNNNN.
package trackercode

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"
)

// Prefix is the literal prefix of every tracking code.
const Prefix = "MINSU"

// Pattern is the well-formed tracking code, e.g. MINSU-2025-0614-123456.
const Pattern = `^MINSU-\d{4}-\d{4}-\d{6}$`

var pattern = regexp.MustCompile(Pattern)

// ErrInvalidFormat is returned when a code does not match the tracking code pattern.
var ErrInvalidFormat = errors.New("invalid tracking code format")

// Normalize trims surrounding whitespace and uppercases the code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate normalizes code and checks it against the pattern. It returns the
// normalized code, or ErrInvalidFormat.
func Validate(code string) (string, error) {
	c := Normalize(code)
	if !pattern.MatchString(c) {
		return "", ErrInvalidFormat
	}
	return c, nil
}

// Generate returns a new code for the given submission time with a random
// six-digit sequence. Uniqueness is enforced by the unique index on
// applications.trackerCode; callers retry on a duplicate key.
func Generate(now time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("tracking code sequence: %w", err)
	}
	return Format(now, int(n.Int64())), nil
}

// Format builds a code from a time and a sequence number (mod 1,000,000).
func Format(t time.Time, seq int) string {
	if seq < 0 {
		seq = -seq
	}
	return fmt.Sprintf("%s-%04d-%02d%02d-%06d", Prefix, t.Year(), int(t.Month()), t.Day(), seq%1_000_000)
}
