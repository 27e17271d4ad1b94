package queries

import (
	"context"
	"errors"

	"labconsole/internal/core/application/workflow"
	"labconsole/internal/core/domain/model/kernel"
	"labconsole/internal/pkg/guard"
)

var ErrDownloadReportQueryIsNotConstructed = errors.New(
	"DownloadReportQuery must be created via NewDownloadReportQuery constructor",
)

// DownloadReportQuery fetches the rendered report of the workspace's order as
// a document named lab-report-{labOrderId}.pdf.
type DownloadReportQuery struct {
	workspaceID kernel.UUID

	guard guard.ConstructorGuard
}

func NewDownloadReportQuery(workspaceID kernel.UUID) (DownloadReportQuery, error) {
	if err := workspaceID.Validate(); err != nil {
		return DownloadReportQuery{}, err
	}
	return DownloadReportQuery{workspaceID: workspaceID, guard: guard.NewConstructorGuard()}, nil
}

func (q DownloadReportQuery) Validate() error {
	return q.guard.Validate(ErrDownloadReportQueryIsNotConstructed)
}

func (q DownloadReportQuery) WorkspaceID() kernel.UUID {
	return q.workspaceID
}

type DownloadReportQueryHandler struct {
	workspaces WorkspaceReader
}

func NewDownloadReportQueryHandler(workspaces WorkspaceReader) DownloadReportQueryHandler {
	return DownloadReportQueryHandler{workspaces: workspaces}
}

func (h DownloadReportQueryHandler) Handle(ctx context.Context, query DownloadReportQuery) (workflow.Document, error) {
	if err := query.Validate(); err != nil {
		return workflow.Document{}, err
	}

	ws, err := h.workspaces.Get(query.WorkspaceID())
	if err != nil {
		return workflow.Document{}, err
	}
	return ws.DownloadReport(ctx)
}
