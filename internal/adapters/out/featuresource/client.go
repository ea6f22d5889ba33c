// Package featuresource fetches geographic features from the external
// feature service over HTTP.
//
// The service answers GET {base}/features?bbox=minLng,minLat,maxLng,maxLat&categories=a,b
// with a GeoJSON FeatureCollection. Results are never cached or approximated.
package featuresource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"storymap/internal/core/domain/model/geo"
	"storymap/internal/core/ports"
)

const (
	defaultTimeout       = 20 * time.Second
	defaultMaxRetries    = 2
	defaultRetryInterval = 500 * time.Millisecond
	maxResponseBytes     = 64 << 20
)

// Client is the HTTP feature source.
type Client struct {
	baseURL       string
	apiKey        string
	httpClient    *http.Client
	maxRetries    uint64
	retryInterval time.Duration
	logger        *slog.Logger
}

var (
	_ ports.FeatureSource     = (*Client)(nil)
	_ ports.CredentialChecker = (*Client)(nil)
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithMaxRetries bounds the retries after the first attempt.
func WithMaxRetries(n uint64) Option {
	return func(c *Client) { c.maxRetries = n }
}

// WithRetryInterval sets the initial backoff interval.
func WithRetryInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.retryInterval = d
		}
	}
}

// WithLogger sets the logger used for retry notices.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a feature source client. An empty apiKey is accepted so the
// service can start; every fetch then fails with a missing credential error.
func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("feature source base url required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse feature source url: %w", err)
	}
	client := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		apiKey:        strings.TrimSpace(apiKey),
		httpClient:    &http.Client{Timeout: defaultTimeout},
		maxRetries:    defaultMaxRetries,
		retryInterval: defaultRetryInterval,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(client)
	}
	client.logger = client.logger.With("component", "featuresource")
	return client, nil
}

// CheckCredential fails with a missing credential error when no API key is configured.
func (c *Client) CheckCredential() error {
	if c.apiKey == "" {
		return geo.NewFeatureSourceError(geo.ReasonMissingCredential, errors.New("feature source api key is not set"))
	}
	return nil
}

// statusError is a non-200 answer.
type statusError struct {
	code    int
	latency time.Duration
}

func (e *statusError) Error() string {
	return fmt.Sprintf("feature source returned %d (latency=%v)", e.code, e.latency)
}

// Features fetches every feature of the requested categories inside bounds.
//
// Transport errors, 429 and 5xx answers are retried with exponential backoff
// up to the configured limit and then reported as ReasonNetwork. 401 and 403
// are ReasonMissingCredential. An empty collection is ReasonNoFeatures.
func (c *Client) Features(ctx context.Context, bounds geo.BoundingBox, categories []geo.FeatureCategory) ([]geo.Feature, error) {
	if err := c.CheckCredential(); err != nil {
		return nil, err
	}
	if err := bounds.Validate(); err != nil {
		return nil, err
	}

	endpoint, err := c.endpoint(bounds, categories)
	if err != nil {
		return nil, err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryInterval
	policy.MaxElapsedTime = 0

	var collection featureCollection
	attempt := 0
	operation := func() error {
		attempt++
		payload, fetchErr := c.fetch(ctx, endpoint)
		if fetchErr != nil {
			return fetchErr
		}
		collection = payload
		return nil
	}
	notify := func(err error, wait time.Duration) {
		c.logger.WarnContext(ctx, "feature source request failed, retrying",
			"attempt", attempt,
			"wait", wait,
			"error", err,
		)
	}

	err = backoff.RetryNotify(operation, backoff.WithContext(backoff.WithMaxRetries(policy, c.maxRetries), ctx), notify)
	if err != nil {
		var fsErr *geo.FeatureSourceError
		if errors.As(err, &fsErr) {
			return nil, fsErr
		}
		return nil, geo.NewFeatureSourceError(geo.ReasonNetwork, err)
	}

	features, err := collection.toFeatures()
	if err != nil {
		return nil, err
	}
	if len(features) == 0 {
		return nil, geo.NewFeatureSourceError(geo.ReasonNoFeatures, nil)
	}

	c.logger.DebugContext(ctx, "features fetched", "count", len(features), "attempts", attempt)
	return features, nil
}

func (c *Client) endpoint(bounds geo.BoundingBox, categories []geo.FeatureCategory) (string, error) {
	endpoint, err := url.Parse(c.baseURL + "/features")
	if err != nil {
		return "", fmt.Errorf("parse feature source url: %w", err)
	}
	names := make([]string, len(categories))
	for i, cat := range categories {
		names[i] = string(cat)
	}
	params := url.Values{}
	params.Set("bbox", strings.Join([]string{
		formatCoord(bounds.MinLng),
		formatCoord(bounds.MinLat),
		formatCoord(bounds.MaxLng),
		formatCoord(bounds.MaxLat),
	}, ","))
	params.Set("categories", strings.Join(names, ","))
	endpoint.RawQuery = params.Encode()
	return endpoint.String(), nil
}

func (c *Client) fetch(ctx context.Context, endpoint string) (featureCollection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return featureCollection{}, backoff.Permanent(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/geo+json, application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return featureCollection{}, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return featureCollection{}, backoff.Permanent(
			geo.NewFeatureSourceError(geo.ReasonMissingCredential, &statusError{code: resp.StatusCode, latency: latency}),
		)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return featureCollection{}, &statusError{code: resp.StatusCode, latency: latency}
	default:
		return featureCollection{}, backoff.Permanent(&statusError{code: resp.StatusCode, latency: latency})
	}

	var payload featureCollection
	if err = json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return featureCollection{}, backoff.Permanent(fmt.Errorf("decode feature collection: %w", err))
	}
	return payload, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
