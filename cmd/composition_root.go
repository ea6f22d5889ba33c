package cmd

import (
	"fmt"
	"log/slog"

	httpadapter "storymap/internal/adapters/in/http"
	"storymap/internal/adapters/out/catalog"
	"storymap/internal/adapters/out/featuresource"
	"storymap/internal/adapters/out/filesink"
	"storymap/internal/adapters/out/postgres"
	"storymap/internal/core/application/exporter"
	"storymap/internal/core/application/usecases/commands"
	"storymap/internal/core/application/usecases/queries"
	"storymap/internal/core/domain/model/order"
	"storymap/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	logger     *slog.Logger

	templates    *catalog.Templates
	materials    *catalog.Materials
	features     *featuresource.Client
	sink         *filesink.Sink
	orchestrator *exporter.Orchestrator
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	if logger == nil {
		logger = slog.Default()
	}

	templates, err := LoadTemplates(config)
	if err != nil {
		return nil, err
	}
	materials, err := LoadMaterials(config)
	if err != nil {
		return nil, err
	}

	features, err := featuresource.New(config.FeatureSourceURL, config.FeatureSourceAPIKey,
		featuresource.WithTimeout(config.FeatureSourceTimeout),
		featuresource.WithMaxRetries(config.FeatureSourceMaxRetries),
		featuresource.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("feature source: %w", err)
	}

	sink, err := filesink.New(config.ExportOutputDir)
	if err != nil {
		return nil, err
	}

	orchestrator, err := exporter.NewOrchestrator(features, templates, logger)
	if err != nil {
		return nil, err
	}

	return &CompositionRoot{
		config:       config,
		gormDB:       gormDB,
		uowFactory:   postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:       logger,
		templates:    templates,
		materials:    materials,
		features:     features,
		sink:         sink,
		orchestrator: orchestrator,
	}, nil
}

// LoadTemplates returns the configured template catalog, the embedded one by default.
func LoadTemplates(config Config) (*catalog.Templates, error) {
	if config.TemplateCatalogPath == "" {
		return catalog.DefaultTemplates()
	}
	return catalog.LoadTemplates(config.TemplateCatalogPath)
}

// LoadMaterials returns the configured material catalog, the embedded one by default.
func LoadMaterials(config Config) (*catalog.Materials, error) {
	if config.MaterialCatalogPath == "" {
		return catalog.DefaultMaterials()
	}
	return catalog.LoadMaterials(config.MaterialCatalogPath)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) transitionPolicy() order.TransitionPolicy {
	if c.config.StrictTransitions {
		return order.LifecyclePolicy{}
	}
	return order.PermissivePolicy{}
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() *commands.CreateOrderCommandHandler {
	h := commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.templates, c.materials, nil)
	return &h
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() *commands.ChangeOrderStatusCommandHandler {
	h := commands.NewChangeOrderStatusCommandHandler(c.orderUoWFactory(), c.transitionPolicy(), nil)
	return &h
}

func (c *CompositionRoot) CreateGenerateExportCommandHandler() *commands.GenerateExportCommandHandler {
	h := commands.NewGenerateExportCommandHandler(c.orderUoWFactory(), c.orchestrator, c.sink, c.logger)
	return &h
}

func (c *CompositionRoot) CreateExportNextOrderCommandHandler() commands.ExportNextOrderCommandHandler {
	return commands.NewExportNextOrderCommandHandler(c.orderUoWFactory(), c.CreateGenerateExportCommandHandler())
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrdersByStatusQueryHandler() queries.GetOrdersByStatusQueryHandler {
	return queries.NewGetOrdersByStatusQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateChangeOrderStatusCommandHandler(),
		c.CreateGenerateExportCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetOrdersByStatusQueryHandler(),
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	exportJob := jobs.NewProductionExportJob(c.CreateExportNextOrderCommandHandler(), jobs.ExportJobConfig{
		Schedule:      c.config.ExportJobSchedule,
		Batch:         c.config.ExportJobBatch,
		RetryInterval: c.config.ExportJobRetryInterval,
	}, c.logger)
	return jobs.NewJobManager(exportJob)
}

// Sink returns the directory export bundles are delivered to.
func (c *CompositionRoot) Sink() *filesink.Sink {
	return c.sink
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
