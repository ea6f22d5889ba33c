package geo

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientGeographicData is returned when there is neither a location
	// nor a template region to derive bounds from.
	ErrInsufficientGeographicData = errors.New("insufficient geographic data: at least one location is required")

	// ErrMalformedGeometryInput marks non-finite or out-of-range coordinates. It
	// signals a data-integrity defect, not a user error.
	ErrMalformedGeometryInput = errors.New("malformed geometry input")

	// ErrFeatureSourceUnavailable is the sentinel every FeatureSourceError unwraps to.
	ErrFeatureSourceUnavailable = errors.New("geographic feature source unavailable")
)

// UnavailableReason tells apart the causes of a failed feature fetch. Each
// reason maps to a different remediation.
type UnavailableReason string

const (
	ReasonMissingCredential UnavailableReason = "missing_credential"
	ReasonNoFeatures        UnavailableReason = "no_features"
	ReasonNetwork           UnavailableReason = "network"
)

var userMessages = map[UnavailableReason]string{
	ReasonMissingCredential: "Access to geographic data is not configured. Set up the feature source credential and try again.",
	ReasonNoFeatures:        "We could not find geographic data for this region. Adjust the locations or choose another area.",
	ReasonNetwork:           "The geographic data service could not be reached. Please try again in a few minutes.",
}

// FeatureSourceError reports why geographic features could not be obtained.
type FeatureSourceError struct {
	Reason UnavailableReason
	Cause  error
}

// NewFeatureSourceError creates a FeatureSourceError; cause may be nil.
func NewFeatureSourceError(reason UnavailableReason, cause error) *FeatureSourceError {
	return &FeatureSourceError{Reason: reason, Cause: cause}
}

func (e *FeatureSourceError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrFeatureSourceUnavailable, e.Reason)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

// Unwrap exposes both the sentinel and the cause, so callers can still tell
// a cancelled fetch from a failed one.
func (e *FeatureSourceError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrFeatureSourceUnavailable}
	}
	return []error{ErrFeatureSourceUnavailable, e.Cause}
}

// UserMessage returns the customer-facing explanation for the reason.
func (e *FeatureSourceError) UserMessage() string {
	if msg, ok := userMessages[e.Reason]; ok {
		return msg
	}
	return "Geographic data is unavailable."
}

// FeatureSourceReason extracts the reason from err, if err is a FeatureSourceError.
func FeatureSourceReason(err error) (UnavailableReason, bool) {
	var fsErr *FeatureSourceError
	if errors.As(err, &fsErr) {
		return fsErr.Reason, true
	}
	return "", false
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedGeometryInput, fmt.Sprintf(format, args...))
}
