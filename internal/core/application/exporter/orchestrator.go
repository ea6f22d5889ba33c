package exporter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"storymap/internal/core/domain/model/canvas"
	"storymap/internal/core/domain/model/geo"
	"storymap/internal/core/domain/model/mapdata"
	"storymap/internal/core/domain/model/order"
	"storymap/internal/core/domain/model/production"
	"storymap/internal/core/domain/services/documents"
	"storymap/internal/core/domain/services/encoders"
	"storymap/internal/core/domain/services/layers"
	"storymap/internal/core/ports"
	"storymap/internal/pkg/errs"
)

const tracerName = "storymap/internal/core/application/exporter"

// Orchestrator sequences one export. It holds no per-export state, so a
// single Orchestrator serves concurrent exports of different orders.
type Orchestrator struct {
	features  ports.FeatureSource
	templates ports.TemplateCatalog
	logger    *slog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithClock replaces time.Now, for reproducible exports in tests.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithTracer replaces the global tracer.
func WithTracer(t trace.Tracer) Option {
	return func(o *Orchestrator) { o.tracer = t }
}

// NewOrchestrator creates an orchestrator. templates resolves orders whose
// snapshot references a template by id only; it may be nil when every
// snapshot embeds its template.
func NewOrchestrator(
	features ports.FeatureSource,
	templates ports.TemplateCatalog,
	logger *slog.Logger,
	opts ...Option,
) (*Orchestrator, error) {
	if features == nil {
		return nil, errs.NewValueIsRequiredError("features")
	}
	if logger == nil {
		logger = slog.Default()
	}
	o := &Orchestrator{
		features:  features,
		templates: templates,
		logger:    logger.With("component", "exporter"),
		tracer:    otel.Tracer(tracerName),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Export produces the complete manufacturing bundle of an order.
//
// Steps:
//   - check the feature source credential before doing any work
//   - resolve bounds once and build the shared frame
//   - fetch features for those bounds, the only step that suspends
//   - generate cut, geographic, route and text layers and check registration
//   - encode every layer as SVG and DXF, plus combined files
//   - render the material specification, production instructions and process guide
//
// Returns:
//   - geo.ErrInsufficientGeographicData when there is nothing to bound
//   - a *geo.FeatureSourceError when features are unavailable or empty
//   - geo.ErrMalformedGeometryInput for corrupt coordinates
func (o *Orchestrator) Export(ctx context.Context, ord *order.Order) (_ *ManufacturingExport, err error) {
	if err = ord.Validate(); err != nil {
		return nil, err
	}

	ctx, span := o.tracer.Start(ctx, "exporter.Export", trace.WithAttributes(
		attribute.String("order.number", ord.Number().String()),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	logger := o.logger.With("order_number", ord.Number().String())

	if checker, ok := o.features.(ports.CredentialChecker); ok {
		if err = checker.CheckCredential(); err != nil {
			logger.WarnContext(ctx, "feature source is not configured", "error", err)
			return nil, err
		}
	}

	snapshot := ord.MapData()
	data := ord.Production()

	tmpl, err := o.template(snapshot)
	if err != nil {
		return nil, err
	}

	bounds, err := geo.ResolveBounds(snapshot.Positions(), tmpl.RouteBounds())
	if err != nil {
		return nil, err
	}
	layout, err := canvas.NewLayout(data.Dimensions.WidthInches, data.Dimensions.HeightInches)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("dimensions", err)
	}
	frame, err := layers.NewFrame(bounds, layout)
	if err != nil {
		return nil, err
	}

	features, err := o.features.Features(ctx, bounds, geo.DefaultCategories())
	if err != nil {
		logger.ErrorContext(ctx, "failed to fetch geographic features", "error", err)
		return nil, classifyFetchError(err)
	}
	span.SetAttributes(attribute.Int("features", len(features)))

	generated, err := generateLayers(frame, snapshot, tmpl, features)
	if err != nil {
		return nil, err
	}

	exportedAt := o.now().UTC()
	filenames := data.Filenames
	if len(filenames.Layers) == 0 {
		filenames = production.NewFilenames(ord.Number().String())
	}

	export := &ManufacturingExport{
		OrderID:       ord.ID(),
		OrderNumber:   ord.Number().String(),
		ExportedAt:    exportedAt,
		FormatVersion: FormatVersion,
		Features:      len(features),
	}

	style := encoders.SVGStyle{
		Title:       snapshot.Title,
		FontFamily:  snapshot.Style.FontFamily,
		StrokeWidth: snapshot.Style.EffectiveStrokeWidth(),
	}
	for _, l := range generated {
		names := filenames.ForLayer(l.Kind)
		export.Layers = append(export.Layers, LayerExport{
			Kind:  l.Kind,
			Layer: l,
			SVG:   File{Name: names.SVG, ContentType: encoders.SVGContentType, Content: encoders.EncodeSVG(layout, style, l)},
			DXF:   File{Name: names.DXF, ContentType: encoders.DXFContentType, Content: encoders.EncodeDXF(layout, l)},
		})
	}
	export.CombinedSVG = File{Name: filenames.CombinedSVG, ContentType: encoders.SVGContentType, Content: encoders.EncodeSVG(layout, style, generated...)}
	export.CombinedDXF = File{Name: filenames.CombinedDXF, ContentType: encoders.DXFContentType, Content: encoders.EncodeDXF(layout, generated...)}

	export.Documents, err = renderDocuments(documents.Input{
		OrderNumber:   ord.Number().String(),
		Title:         snapshot.Title,
		FormatVersion: FormatVersion,
		ExportedAt:    exportedAt,
		Dimensions:    data.Dimensions,
		Material:      data.Material,
		Filenames:     filenames,
		Layers:        generated,
	}, filenames)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "export generated",
		"features", len(features),
		"files", len(export.Files()),
	)
	return export, nil
}

// classifyFetchError keeps feature source failures and geometry integrity
// errors in their own classes. Anything else is a transport failure.
func classifyFetchError(err error) error {
	var fsErr *geo.FeatureSourceError
	switch {
	case errors.As(err, &fsErr):
		return err
	case errors.Is(err, geo.ErrMalformedGeometryInput), errors.Is(err, geo.ErrInsufficientGeographicData):
		return err
	default:
		return geo.NewFeatureSourceError(geo.ReasonNetwork, err)
	}
}

// template returns the snapshot's template, resolving a bare id through the
// catalog. A nil template is valid.
func (o *Orchestrator) template(snapshot mapdata.MapData) (*mapdata.Template, error) {
	if snapshot.Template != nil || snapshot.TemplateID == "" {
		return snapshot.Template, nil
	}
	if o.templates == nil {
		return nil, errs.NewObjectNotFoundError("template", snapshot.TemplateID)
	}
	return o.templates.Template(snapshot.TemplateID)
}

// generateLayers builds the four layers against one frame, in processing order.
func generateLayers(
	frame layers.Frame,
	snapshot mapdata.MapData,
	tmpl *mapdata.Template,
	features []geo.Feature,
) ([]canvas.Layer, error) {
	cut := layers.Cut(frame)

	geographic, err := layers.Geographic(frame, features)
	if err != nil {
		return nil, err
	}
	route, err := layers.Route(frame, tmpl)
	if err != nil {
		return nil, err
	}
	text, err := layers.Text(frame, snapshot)
	if err != nil {
		return nil, err
	}

	generated := []canvas.Layer{cut, geographic, route, text}
	if err = layers.CheckRegistration(generated...); err != nil {
		return nil, fmt.Errorf("%w: %v", geo.ErrMalformedGeometryInput, err)
	}
	return generated, nil
}

func renderDocuments(in documents.Input, names production.Filenames) ([]File, error) {
	renderers := []struct {
		name   string
		render func(documents.Input) (string, error)
	}{
		{names.MaterialSpec, documents.MaterialSpec},
		{names.Instructions, documents.ProductionInstructions},
		{names.ProcessGuide, documents.ProcessGuide},
	}

	files := make([]File, 0, len(renderers))
	for _, r := range renderers {
		content, err := r.render(in)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", r.name, err)
		}
		files = append(files, File{Name: r.name, ContentType: documents.ContentType, Content: []byte(content)})
	}
	return files, nil
}
