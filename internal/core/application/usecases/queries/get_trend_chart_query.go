package queries

import (
	"bytes"
	"context"
	"errors"

	"labconsole/internal/core/domain/model/kernel"
	"labconsole/internal/core/ports"
	"labconsole/internal/pkg/errs"
	"labconsole/internal/pkg/guard"
)

var (
	ErrGetTrendChartQueryIsNotConstructed = errors.New(
		"GetTrendChartQuery must be created via NewGetTrendChartQuery constructor",
	)

	// ErrTrendNotAvailable is returned while the row's history holds fewer
	// than two entries or has not been fetched yet.
	ErrTrendNotAvailable = errors.New("trend needs at least two history entries")
)

// GetTrendChartQuery renders the trend of a row's cached history.
type GetTrendChartQuery struct {
	workspaceID kernel.UUID
	orderTestID int64

	guard guard.ConstructorGuard
}

func NewGetTrendChartQuery(workspaceID kernel.UUID, orderTestID int64) (GetTrendChartQuery, error) {
	if err := errors.Join(workspaceID.Validate(), validateOrderTestID(orderTestID)); err != nil {
		return GetTrendChartQuery{}, err
	}
	return GetTrendChartQuery{
		workspaceID: workspaceID,
		orderTestID: orderTestID,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (q GetTrendChartQuery) Validate() error {
	return q.guard.Validate(ErrGetTrendChartQueryIsNotConstructed)
}

func (q GetTrendChartQuery) WorkspaceID() kernel.UUID {
	return q.workspaceID
}

func (q GetTrendChartQuery) OrderTestID() int64 {
	return q.orderTestID
}

type GetTrendChartQueryResponse struct {
	ContentType string
	Content     []byte
}

type GetTrendChartQueryHandler struct {
	workspaces WorkspaceReader
	renderer   ports.TrendRenderer
}

func NewGetTrendChartQueryHandler(workspaces WorkspaceReader, renderer ports.TrendRenderer) GetTrendChartQueryHandler {
	return GetTrendChartQueryHandler{workspaces: workspaces, renderer: renderer}
}

// Handle does not fetch history; the chart only exists for history that was
// already read through GetTestHistoryQuery.
func (h GetTrendChartQueryHandler) Handle(ctx context.Context, query GetTrendChartQuery) (GetTrendChartQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetTrendChartQueryResponse{}, err
	}

	ws, err := h.workspaces.Get(query.WorkspaceID())
	if err != nil {
		return GetTrendChartQueryResponse{}, err
	}

	row, ok := ws.Order().Test(query.OrderTestID())
	if !ok {
		return GetTrendChartQueryResponse{}, errs.NewObjectNotFoundError("orderTestId", query.OrderTestID())
	}

	trend, ok, err := ws.Trend(ctx, query.OrderTestID())
	if err != nil {
		return GetTrendChartQueryResponse{}, err
	}
	if !ok {
		return GetTrendChartQueryResponse{}, errs.NewObjectNotFoundErrorWithCause(
			"orderTestId", query.OrderTestID(), ErrTrendNotAvailable,
		)
	}

	var buf bytes.Buffer
	if err = h.renderer.RenderTrend(&buf, row.Test().Name+" Trend", trend); err != nil {
		return GetTrendChartQueryResponse{}, err
	}
	return GetTrendChartQueryResponse{ContentType: "text/html; charset=utf-8", Content: buf.Bytes()}, nil
}
