package cmd

import (
	"context"
	"errors"
	"fmt"

	httpin "labconsole/internal/adapters/in/http"
	"labconsole/internal/adapters/out/chart"
	"labconsole/internal/adapters/out/labapi"
	memhistory "labconsole/internal/adapters/out/memory/historystore"
	"labconsole/internal/adapters/out/postgres"
	"labconsole/internal/adapters/out/postgres/orderrepo"
	redishistory "labconsole/internal/adapters/out/redis/historystore"
	"labconsole/internal/core/application/usecases/commands"
	"labconsole/internal/core/application/usecases/queries"
	"labconsole/internal/core/application/workflow"
	"labconsole/internal/core/ports"
	"labconsole/internal/jobs"
	"labconsole/internal/pkg/logging"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type CompositionRoot struct {
	cfg    Config
	logger zerolog.Logger

	lab      *labapi.Client
	registry *workflow.Registry

	closers []func() error
}

// NewCompositionRoot connects the configured adapters and builds the
// workspace registry. Close releases what it opened.
func NewCompositionRoot(ctx context.Context, cfg Config, logger zerolog.Logger) (*CompositionRoot, error) {
	root := &CompositionRoot{cfg: cfg, logger: logger}

	lab, err := labapi.NewClient(cfg.LabAPIBaseURL,
		labapi.WithTimeout(cfg.LabAPITimeout),
		labapi.WithLogger(logging.Component(logger, "lab_api")),
	)
	if err != nil {
		return nil, err
	}
	root.lab = lab

	deps := workflow.Dependencies{
		Orders:  lab,
		Results: lab,
		History: lab,
		Gateway: lab,
	}

	if cfg.OrderSource == OrderSourcePostgres {
		db, err := postgres.Open(ctx, cfg.DBSettings().DSN())
		if err != nil {
			return nil, err
		}
		root.closers = append(root.closers, func() error { return postgres.Close(db) })

		repo := orderrepo.NewGormLabOrderRepository(db)
		deps.Orders, deps.Results, deps.History = repo, repo, repo
	}

	store, err := root.historyStore(ctx)
	if err != nil {
		_ = root.Close()
		return nil, err
	}
	deps.Store = store

	registry, err := workflow.NewRegistry(deps, logging.Component(logger, "workspaces"))
	if err != nil {
		_ = root.Close()
		return nil, err
	}
	root.registry = registry

	logger.Info().
		Str("order_source", cfg.OrderSource).
		Str("history_store", cfg.HistoryStore).
		Str("lab_api", lab.BaseURL()).
		Msg("composition root ready")
	return root, nil
}

func (c *CompositionRoot) historyStore(ctx context.Context) (ports.HistoryStore, error) {
	if c.cfg.HistoryStore != HistoryStoreRedis {
		return memhistory.NewStore(), nil
	}

	rdb, err := redishistory.Connect(ctx, c.cfg.RedisAddr, c.cfg.RedisPassword, c.cfg.RedisDB)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, rdb.Close)
	return redishistory.NewStore(rdb, redishistory.WithTTL(c.cfg.HistoryTTL)), nil
}

// Close closes every workspace and then the connections.
func (c *CompositionRoot) Close() error {
	var errList []error
	if c.registry != nil {
		// A negative idle time makes every workspace stale.
		if _, err := c.registry.Sweep(context.Background(), -1); err != nil {
			errList = append(errList, fmt.Errorf("close workspaces: %w", err))
		}
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errList = append(errList, err)
		}
	}
	c.closers = nil
	return errors.Join(errList...)
}

func (c *CompositionRoot) CreateOpenWorkspaceCommandHandler() commands.OpenWorkspaceCommandHandler {
	return commands.NewOpenWorkspaceCommandHandler(c.registry)
}

func (c *CompositionRoot) CreateCloseWorkspaceCommandHandler() commands.CloseWorkspaceCommandHandler {
	return commands.NewCloseWorkspaceCommandHandler(c.registry)
}

func (c *CompositionRoot) CreateUpdateDraftFieldCommandHandler() commands.UpdateDraftFieldCommandHandler {
	return commands.NewUpdateDraftFieldCommandHandler(c.registry)
}

func (c *CompositionRoot) CreateCommitDraftCommandHandler() commands.CommitDraftCommandHandler {
	return commands.NewCommitDraftCommandHandler(c.registry)
}

func (c *CompositionRoot) CreateInvalidateTestHistoryCommandHandler() commands.InvalidateTestHistoryCommandHandler {
	return commands.NewInvalidateTestHistoryCommandHandler(c.registry)
}

func (c *CompositionRoot) CreateMarkOrderCompleteCommandHandler() commands.MarkOrderCompleteCommandHandler {
	return commands.NewMarkOrderCompleteCommandHandler(c.registry)
}

func (c *CompositionRoot) CreateDeliverReportCommandHandler() commands.DeliverReportCommandHandler {
	return commands.NewDeliverReportCommandHandler(c.registry)
}

func (c *CompositionRoot) CreateUploadScannedDocumentCommandHandler() commands.UploadScannedDocumentCommandHandler {
	return commands.NewUploadScannedDocumentCommandHandler(c.registry)
}

func (c *CompositionRoot) CreateSweepIdleWorkspacesCommandHandler() commands.SweepIdleWorkspacesCommandHandler {
	return commands.NewSweepIdleWorkspacesCommandHandler(c.registry)
}

func (c *CompositionRoot) CreateGetWorkspaceQueryHandler() queries.GetWorkspaceQueryHandler {
	return queries.NewGetWorkspaceQueryHandler(c.registry)
}

func (c *CompositionRoot) CreateGetTestHistoryQueryHandler() queries.GetTestHistoryQueryHandler {
	return queries.NewGetTestHistoryQueryHandler(c.registry)
}

func (c *CompositionRoot) CreateGetTrendChartQueryHandler() queries.GetTrendChartQueryHandler {
	return queries.NewGetTrendChartQueryHandler(c.registry, chart.NewLineRenderer())
}

func (c *CompositionRoot) CreateDownloadReportQueryHandler() queries.DownloadReportQueryHandler {
	return queries.NewDownloadReportQueryHandler(c.registry)
}

func (c *CompositionRoot) CreateGetInvoiceLocationQueryHandler() queries.GetInvoiceLocationQueryHandler {
	return queries.NewGetInvoiceLocationQueryHandler(c.registry)
}

func (c *CompositionRoot) CreateGetNotificationsQueryHandler() queries.GetNotificationsQueryHandler {
	return queries.NewGetNotificationsQueryHandler(c.registry)
}

func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(
		httpin.CommandHandlers{
			OpenWorkspace:         c.CreateOpenWorkspaceCommandHandler(),
			CloseWorkspace:        c.CreateCloseWorkspaceCommandHandler(),
			UpdateDraftField:      c.CreateUpdateDraftFieldCommandHandler(),
			CommitDraft:           c.CreateCommitDraftCommandHandler(),
			InvalidateTestHistory: c.CreateInvalidateTestHistoryCommandHandler(),
			MarkOrderComplete:     c.CreateMarkOrderCompleteCommandHandler(),
			DeliverReport:         c.CreateDeliverReportCommandHandler(),
			UploadScannedDocument: c.CreateUploadScannedDocumentCommandHandler(),
		},
		httpin.QueryHandlers{
			GetWorkspace:       c.CreateGetWorkspaceQueryHandler(),
			GetTestHistory:     c.CreateGetTestHistoryQueryHandler(),
			GetTrendChart:      c.CreateGetTrendChartQueryHandler(),
			DownloadReport:     c.CreateDownloadReportQueryHandler(),
			GetInvoiceLocation: c.CreateGetInvoiceLocationQueryHandler(),
			GetNotifications:   c.CreateGetNotificationsQueryHandler(),
		},
	)
}

func (c *CompositionRoot) CreateRouter(ctx context.Context) (*echo.Echo, error) {
	return httpin.NewRouter(ctx, c.CreateServer(), logging.Component(c.logger, "http"))
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateSweepIdleWorkspacesCommandHandler(),
		c.cfg.WorkspaceSweepSchedule,
		c.cfg.WorkspaceIdleTTL,
		c.logger,
	)
}

// NewReportCoordinator serves the report commands of the CLI, which act on an
// order directly through the lab API without opening a workspace.
func NewReportCoordinator(cfg Config, logger zerolog.Logger) (*workflow.DocumentDeliveryCoordinator, error) {
	lab, err := labapi.NewClient(cfg.LabAPIBaseURL,
		labapi.WithTimeout(cfg.LabAPITimeout),
		labapi.WithLogger(logging.Component(logger, "lab_api")),
	)
	if err != nil {
		return nil, err
	}
	return workflow.NewDocumentDeliveryCoordinator(lab, workflow.NewLogNotifier(logging.Component(logger, "cli"))), nil
}

// NewOrderImporter reads orders from the lab API and writes them to the
// configured database. The returned func closes the database.
func NewOrderImporter(ctx context.Context, cfg Config, logger zerolog.Logger) (commands.ImportLabOrderCommandHandler, func() error, error) {
	lab, err := labapi.NewClient(cfg.LabAPIBaseURL,
		labapi.WithTimeout(cfg.LabAPITimeout),
		labapi.WithLogger(logging.Component(logger, "lab_api")),
	)
	if err != nil {
		return commands.ImportLabOrderCommandHandler{}, nil, err
	}

	db, err := postgres.Open(ctx, cfg.DBSettings().DSN())
	if err != nil {
		return commands.ImportLabOrderCommandHandler{}, nil, err
	}
	closeDB := func() error {
		return postgres.Close(db)
	}
	return commands.NewImportLabOrderCommandHandler(lab, orderrepo.NewGormLabOrderRepository(db)), closeDB, nil
}
