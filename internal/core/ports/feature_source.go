package ports

import (
	"context"

	"storymap/internal/core/domain/model/geo"
)

// FeatureSource is the external geographic feature provider.
//
// Implementations never cache or approximate results. Every failure is a
// *geo.FeatureSourceError: a missing credential must be reported before any
// request is made, an empty result is ReasonNoFeatures, transport failures
// after the adapter's bounded retries are ReasonNetwork.
type FeatureSource interface {
	Features(ctx context.Context, bounds geo.BoundingBox, categories []geo.FeatureCategory) ([]geo.Feature, error)
}

// CredentialChecker is implemented by feature sources that can tell up front
// whether they are configured, so exports fail before any work is done.
type CredentialChecker interface {
	CheckCredential() error
}
