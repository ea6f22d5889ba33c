package exporter_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storymap/internal/core/application/exporter"
	"storymap/internal/core/domain/model/canvas"
	"storymap/internal/core/domain/model/geo"
	"storymap/internal/core/domain/model/kernel"
	"storymap/internal/core/domain/model/mapdata"
	"storymap/internal/core/domain/model/order"
	"storymap/internal/core/domain/model/production"
	"storymap/internal/pkg/errs"
)

type MockFeatureSource struct{ mock.Mock }

func (m *MockFeatureSource) Features(ctx context.Context, bounds geo.BoundingBox, categories []geo.FeatureCategory) ([]geo.Feature, error) {
	args := m.Called(ctx, bounds, categories)
	features, _ := args.Get(0).([]geo.Feature)
	return features, args.Error(1)
}

type MockCheckedFeatureSource struct {
	MockFeatureSource
}

func (m *MockCheckedFeatureSource) CheckCredential() error {
	args := m.Called()
	return args.Error(0)
}

type MockTemplateCatalog struct{ mock.Mock }

func (m *MockTemplateCatalog) Template(id string) (*mapdata.Template, error) {
	args := m.Called(id)
	tmpl, _ := args.Get(0).(*mapdata.Template)
	return tmpl, args.Error(1)
}

func (m *MockTemplateCatalog) Templates() []mapdata.Template { return nil }

var fixedNow = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func material() production.MaterialSpec {
	return production.MaterialSpec{
		Material:        mapdata.MaterialWood,
		Name:            "Maple plywood",
		ThicknessInches: 0.25,
		Settings: []production.MachineSettings{
			{Operation: production.OperationCut, PowerPercent: 100, SpeedMMPerSec: 8, Passes: 2},
			{Operation: production.OperationDeepEngrave, PowerPercent: 80, SpeedMMPerSec: 150, Passes: 2, DepthInches: 0.06},
			{Operation: production.OperationMediumEngrave, PowerPercent: 60, SpeedMMPerSec: 250, Passes: 1, DepthInches: 0.03},
			{Operation: production.OperationFineEngrave, PowerPercent: 35, SpeedMMPerSec: 400, Passes: 1, DepthInches: 0.01},
		},
	}
}

func newOrder(t *testing.T, snapshot mapdata.MapData) *order.Order {
	t.Helper()
	number := order.NewNumber(fixedNow, 42)
	data, err := production.NewData(snapshot.Export, material(), number.String())
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), number, snapshot, data, "", fixedNow)
	require.NoError(t, err)
	return o
}

func singleLocation() mapdata.MapData {
	return mapdata.MapData{
		Title: "Where we met",
		Locations: []mapdata.Location{{
			ID: "nyc", Name: "Hoboken pier", Position: kernel.GeoPoint{Lat: 40.0, Lng: -74.0},
			Marker: mapdata.Marker{Kind: mapdata.MarkerIcon, Value: "heart"},
		}},
		Style: mapdata.StyleSettings{ShowLabels: true},
		Export: mapdata.ExportSettings{
			Size:        mapdata.Size8x10,
			Orientation: mapdata.Portrait,
			Material:    mapdata.MaterialWood,
			Format:      mapdata.FormatSVG,
		},
	}
}

func coastline() []geo.Feature {
	return []geo.Feature{{
		ID: "c1", Name: "Shore", Type: geo.FeatureCoastline,
		Parts: [][]kernel.GeoPoint{{{Lat: 40.5, Lng: -76}, {Lat: 39.8, Lng: -72}}},
	}}
}

func TestOrchestrator_Export_SingleLocation(t *testing.T) {
	ctx := t.Context()
	source := new(MockFeatureSource)
	source.On("Features", mock.Anything, mock.MatchedBy(func(b geo.BoundingBox) bool {
		return b.LatSpan() >= 1 && b.LngSpan() >= 1 && b.Contains(kernel.GeoPoint{Lat: 40, Lng: -74})
	}), geo.DefaultCategories()).Return(coastline(), nil).Once()

	o, err := exporter.NewOrchestrator(source, nil, discardLogger(), exporter.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	ord := newOrder(t, singleLocation())

	export, err := o.Export(ctx, ord)

	require.NoError(t, err)
	source.AssertExpectations(t)

	assert.Equal(t, exporter.FormatVersion, export.FormatVersion)
	assert.Equal(t, fixedNow, export.ExportedAt)
	assert.Equal(t, 1, export.Features)

	require.Len(t, export.Layers, 4)
	kinds := make([]canvas.LayerKind, 0, 4)
	for _, l := range export.Layers {
		kinds = append(kinds, l.Kind)
	}
	assert.Equal(t, canvas.LayerKinds(), kinds)

	route := export.Layers[2]
	assert.Equal(t, canvas.LayerRoute, route.Kind)
	assert.True(t, route.Layer.IsEmpty())

	prefix := ord.Number().String()
	assert.Equal(t, []string{
		prefix + "-cut.svg", prefix + "-cut.dxf",
		prefix + "-geographic-features.svg", prefix + "-geographic-features.dxf",
		prefix + "-route-path.svg", prefix + "-route-path.dxf",
		prefix + "-text-engrave.svg", prefix + "-text-engrave.dxf",
		prefix + "-combined.svg", prefix + "-combined.dxf",
		prefix + "-material-spec.txt", prefix + "-production-instructions.txt", prefix + "-process-guide.txt",
	}, export.FileNames())

	combined := string(export.CombinedSVG.Content)
	for _, class := range []string{`class="cut"`, `class="geographic"`, `class="route"`, `class="engrave"`} {
		assert.Contains(t, combined, class)
	}
	assert.Contains(t, string(export.CombinedDXF.Content), "GEOGRAPHIC-FEATURES")
	for _, f := range export.Files() {
		assert.NotEmpty(t, f.Content, f.Name)
		assert.NotEmpty(t, f.ContentType, f.Name)
	}
}

func TestOrchestrator_Export_IsReproducible(t *testing.T) {
	ctx := t.Context()
	source := new(MockFeatureSource)
	source.On("Features", mock.Anything, mock.Anything, mock.Anything).Return(coastline(), nil).Twice()
	o, err := exporter.NewOrchestrator(source, nil, discardLogger(), exporter.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	ord := newOrder(t, singleLocation())

	first, err := o.Export(ctx, ord)
	require.NoError(t, err)
	second, err := o.Export(ctx, ord)
	require.NoError(t, err)

	assert.Equal(t, first.Files(), second.Files())
}

func TestOrchestrator_Export_ZeroFeatures(t *testing.T) {
	ctx := t.Context()
	source := new(MockFeatureSource)
	source.On("Features", mock.Anything, mock.Anything, mock.Anything).Return([]geo.Feature{}, nil).Once()
	o, err := exporter.NewOrchestrator(source, nil, discardLogger())
	require.NoError(t, err)

	export, err := o.Export(ctx, newOrder(t, singleLocation()))

	require.ErrorIs(t, err, geo.ErrFeatureSourceUnavailable)
	reason, ok := geo.FeatureSourceReason(err)
	require.True(t, ok)
	assert.Equal(t, geo.ReasonNoFeatures, reason)
	assert.Nil(t, export)
}

func TestOrchestrator_Export_MissingCredential(t *testing.T) {
	ctx := t.Context()
	source := new(MockCheckedFeatureSource)
	source.On("CheckCredential").Return(geo.NewFeatureSourceError(geo.ReasonMissingCredential, nil)).Once()
	o, err := exporter.NewOrchestrator(source, nil, discardLogger())
	require.NoError(t, err)

	export, err := o.Export(ctx, newOrder(t, singleLocation()))

	require.ErrorIs(t, err, geo.ErrFeatureSourceUnavailable)
	reason, _ := geo.FeatureSourceReason(err)
	assert.Equal(t, geo.ReasonMissingCredential, reason)
	assert.Nil(t, export)
	source.AssertNotCalled(t, "Features", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrchestrator_Export_NetworkFailure(t *testing.T) {
	ctx := t.Context()
	source := new(MockFeatureSource)
	source.On("Features", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("connection reset")).Once()
	o, err := exporter.NewOrchestrator(source, nil, discardLogger())
	require.NoError(t, err)

	_, err = o.Export(ctx, newOrder(t, singleLocation()))

	reason, ok := geo.FeatureSourceReason(err)
	require.True(t, ok)
	assert.Equal(t, geo.ReasonNetwork, reason)
	assert.True(t, strings.Contains(err.Error(), "connection reset"))
}

func TestOrchestrator_Export_MalformedSourceGeometry(t *testing.T) {
	ctx := t.Context()
	source := new(MockFeatureSource)
	source.On("Features", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: feature r1: latitude 123.4 out of range", geo.ErrMalformedGeometryInput)).Once()
	o, err := exporter.NewOrchestrator(source, nil, discardLogger())
	require.NoError(t, err)

	export, err := o.Export(ctx, newOrder(t, singleLocation()))

	require.ErrorIs(t, err, geo.ErrMalformedGeometryInput)
	assert.NotErrorIs(t, err, geo.ErrFeatureSourceUnavailable)
	_, isSourceError := geo.FeatureSourceReason(err)
	assert.False(t, isSourceError)
	assert.Nil(t, export)
}

func TestOrchestrator_Export_CancelledFetchKeepsCause(t *testing.T) {
	ctx := t.Context()
	source := new(MockFeatureSource)
	source.On("Features", mock.Anything, mock.Anything, mock.Anything).Return(nil, context.Canceled).Once()
	o, err := exporter.NewOrchestrator(source, nil, discardLogger())
	require.NoError(t, err)

	_, err = o.Export(ctx, newOrder(t, singleLocation()))

	require.ErrorIs(t, err, geo.ErrFeatureSourceUnavailable)
	require.ErrorIs(t, err, context.Canceled)
}

func TestOrchestrator_Export_InsufficientGeographicData(t *testing.T) {
	ctx := t.Context()
	source := new(MockFeatureSource)
	o, err := exporter.NewOrchestrator(source, nil, discardLogger())
	require.NoError(t, err)
	snapshot := singleLocation()
	snapshot.Locations = nil

	_, err = o.Export(ctx, newOrder(t, snapshot))

	require.ErrorIs(t, err, geo.ErrInsufficientGeographicData)
	source.AssertNotCalled(t, "Features", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrchestrator_Export_TemplateFromCatalog(t *testing.T) {
	ctx := t.Context()
	tmpl := &mapdata.Template{
		ID:    "pacific-crest",
		Name:  "Pacific Crest Trail",
		Route: []kernel.GeoPoint{{Lat: 39.5, Lng: -74.6}, {Lat: 40.2, Lng: -74.1}, {Lat: 40.4, Lng: -73.5}},
	}
	catalog := new(MockTemplateCatalog)
	catalog.On("Template", "pacific-crest").Return(tmpl, nil).Once()
	source := new(MockFeatureSource)
	source.On("Features", mock.Anything, mock.Anything, mock.Anything).Return(coastline(), nil).Once()
	o, err := exporter.NewOrchestrator(source, catalog, discardLogger())
	require.NoError(t, err)
	snapshot := singleLocation()
	snapshot.TemplateID = "pacific-crest"

	export, err := o.Export(ctx, newOrder(t, snapshot))

	require.NoError(t, err)
	catalog.AssertExpectations(t)
	route := export.Layers[2].Layer
	require.Len(t, route.Paths, 1)
	assert.Len(t, route.Paths[0].Points, 3)
}

func TestOrchestrator_Export_UnknownTemplate(t *testing.T) {
	ctx := t.Context()
	catalog := new(MockTemplateCatalog)
	catalog.On("Template", "gone").Return(nil, errs.NewObjectNotFoundError("template", "gone")).Once()
	o, err := exporter.NewOrchestrator(new(MockFeatureSource), catalog, discardLogger())
	require.NoError(t, err)
	snapshot := singleLocation()
	snapshot.TemplateID = "gone"

	_, err = o.Export(ctx, newOrder(t, snapshot))

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestNewOrchestrator_RequiresFeatureSource(t *testing.T) {
	_, err := exporter.NewOrchestrator(nil, nil, nil)

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}
