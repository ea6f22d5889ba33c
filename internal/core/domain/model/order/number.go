package order

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"time"

	"storymap/internal/pkg/errs"
)

// NumberPrefix starts every order number.
const NumberPrefix = "EM"

var numberPattern = regexp.MustCompile(`^EM\d{8}$`)

// Number is the human readable order identifier, e.g. EM48213907.
type Number string

// NewNumber builds a number from the last six digits of the Unix millisecond
// timestamp and a two digit suffix.
func NewNumber(at time.Time, suffix int) Number {
	return Number(fmt.Sprintf("%s%06d%02d", NumberPrefix, at.UnixMilli()%1_000_000, suffix%100))
}

// GenerateNumber builds a number with a random suffix. Callers retry on
// collision; numbers are never reused.
func GenerateNumber(at time.Time) Number {
	return NewNumber(at, rand.IntN(100))
}

// ParseNumber validates a number received from a client or the store.
func ParseNumber(s string) (Number, error) {
	n := Number(s)
	if err := n.Validate(); err != nil {
		return "", err
	}
	return n, nil
}

func (n Number) Validate() error {
	if !numberPattern.MatchString(string(n)) {
		return errs.NewValueIsInvalidErrorWithCause("order number", fmt.Errorf("%q does not match %s", string(n), numberPattern))
	}
	return nil
}

func (n Number) String() string {
	return string(n)
}
