package queries

import (
	"context"
	"errors"
	"time"

	"labconsole/internal/core/domain/model/history"
	"labconsole/internal/core/domain/model/kernel"
	"labconsole/internal/pkg/guard"
)

var ErrGetTestHistoryQueryIsNotConstructed = errors.New(
	"GetTestHistoryQuery must be created via NewGetTestHistoryQuery constructor",
)

// GetTestHistoryQuery reads the patient's earlier results for the test of one
// row. The first read of a row fetches from the backend; later reads are
// served from the workspace's cache.
type GetTestHistoryQuery struct { //nolint:recvcheck //using for validation
	workspaceID kernel.UUID
	orderTestID int64

	guard guard.ConstructorGuard
}

func NewGetTestHistoryQuery(workspaceID kernel.UUID, orderTestID int64) (GetTestHistoryQuery, error) {
	q := GetTestHistoryQuery{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		q.setWorkspaceID(workspaceID),
		q.setOrderTestID(orderTestID),
	); err != nil {
		return GetTestHistoryQuery{}, err
	}
	return q, nil
}

func (q GetTestHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetTestHistoryQueryIsNotConstructed)
}

func (q GetTestHistoryQuery) WorkspaceID() kernel.UUID {
	return q.workspaceID
}

func (q GetTestHistoryQuery) OrderTestID() int64 {
	return q.orderTestID
}

func (q *GetTestHistoryQuery) setWorkspaceID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	q.workspaceID = id
	return nil
}

func (q *GetTestHistoryQuery) setOrderTestID(id int64) error {
	if err := validateOrderTestID(id); err != nil {
		return err
	}
	q.orderTestID = id
	return nil
}

type HistoryEntryResponse struct {
	OrderDate   time.Time
	ResultValue string
	ResultUnit  string
	ResultFlag  string
}

// TrendPointResponse is one point of the chart. Value is nil for results
// without a numeric prefix.
type TrendPointResponse struct {
	Label string
	Value *float64
}

// GetTestHistoryQueryResponse lists the history in the order received.
// Trend is nil when the history has one entry or fewer.
type GetTestHistoryQueryResponse struct {
	OrderTestID int64
	Entries     []HistoryEntryResponse
	Trend       []TrendPointResponse
}

type GetTestHistoryQueryHandler struct {
	workspaces WorkspaceReader
}

func NewGetTestHistoryQueryHandler(workspaces WorkspaceReader) GetTestHistoryQueryHandler {
	return GetTestHistoryQueryHandler{workspaces: workspaces}
}

func (h GetTestHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetTestHistoryQuery,
) (GetTestHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetTestHistoryQueryResponse{}, err
	}

	ws, err := h.workspaces.Get(query.WorkspaceID())
	if err != nil {
		return GetTestHistoryQueryResponse{}, err
	}

	series, err := ws.History(ctx, query.OrderTestID())
	if err != nil {
		return GetTestHistoryQueryResponse{}, err
	}

	resp := GetTestHistoryQueryResponse{
		OrderTestID: query.OrderTestID(),
		Entries:     make([]HistoryEntryResponse, 0, len(series)),
	}
	for _, e := range series {
		resp.Entries = append(resp.Entries, HistoryEntryResponse{
			OrderDate:   e.OrderDate,
			ResultValue: e.ResultValue,
			ResultUnit:  e.ResultUnit,
			ResultFlag:  e.ResultFlag.String(),
		})
	}

	if trend, ok := history.BuildTrend(series); ok {
		resp.Trend = make([]TrendPointResponse, 0, len(trend.Points))
		for _, p := range trend.Points {
			point := TrendPointResponse{Label: p.Label}
			if p.Valid {
				v := p.Value
				point.Value = &v
			}
			resp.Trend = append(resp.Trend, point)
		}
	}
	return resp, nil
}
