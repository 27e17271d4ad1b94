package queries

import (
	"context"
	"time"

	"labconsole/internal/core/application/workflow"
	"labconsole/internal/core/domain/model/laborder"

	"github.com/shopspring/decimal"
)

// PartyResponse is a patient or doctor as shown on the review screen.
type PartyResponse struct {
	ID   int64
	Name string
}

// ResultResponse carries the result fields of a row.
type ResultResponse struct {
	Value string
	Unit  string
	Flag  string
	Notes string
}

// TestRowResponse is one row of the review table. Saved holds what the backend
// returned when the workspace was opened; Draft holds the staff's edits.
type TestRowResponse struct {
	OrderTestID int64
	TestID      int64
	TestName    string
	Saved       ResultResponse
	Draft       ResultResponse
}

type GetWorkspaceQueryResponse struct {
	WorkspaceID string
	OpenedAt    time.Time
	LastUsed    time.Time

	LabOrderID    int64
	Patient       PartyResponse
	Doctor        PartyResponse
	OrderDate     time.Time
	Status        string
	StatusLabel   string
	PaymentStatus string
	FinalAmount   decimal.Decimal

	ReportURL        string
	InvoiceURL       string
	ScannedReportURL string

	Tests []TestRowResponse
}

type GetWorkspaceQueryHandler struct {
	workspaces WorkspaceReader
}

func NewGetWorkspaceQueryHandler(workspaces WorkspaceReader) GetWorkspaceQueryHandler {
	return GetWorkspaceQueryHandler{workspaces: workspaces}
}

func (h GetWorkspaceQueryHandler) Handle(ctx context.Context, query GetWorkspaceQuery) (GetWorkspaceQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetWorkspaceQueryResponse{}, err
	}

	ws, err := h.workspaces.Get(query.WorkspaceID())
	if err != nil {
		return GetWorkspaceQueryResponse{}, err
	}
	return NewWorkspaceResponse(ws), nil
}

// NewWorkspaceResponse projects a workspace onto the review screen. Commands
// that answer with the refreshed screen use it directly.
func NewWorkspaceResponse(ws *workflow.Workspace) GetWorkspaceQueryResponse {
	order := ws.Order()
	drafts := ws.Drafts()

	resp := GetWorkspaceQueryResponse{
		WorkspaceID:      ws.ID().String(),
		OpenedAt:         ws.OpenedAt(),
		LastUsed:         ws.LastUsed(),
		LabOrderID:       order.ID(),
		Patient:          PartyResponse{ID: order.Patient().ID, Name: order.Patient().Name},
		Doctor:           PartyResponse{ID: order.Doctor().ID, Name: order.Doctor().Name},
		OrderDate:        order.OrderDate(),
		Status:           order.Status().String(),
		StatusLabel:      order.Status().Label(),
		PaymentStatus:    order.PaymentStatus().String(),
		FinalAmount:      order.FinalAmount(),
		ReportURL:        ws.ReportLocation(),
		InvoiceURL:       ws.InvoiceLocation(),
		ScannedReportURL: ws.ScannedReportLocation(),
		Tests:            make([]TestRowResponse, 0, len(order.Tests())),
	}

	for _, row := range order.Tests() {
		current := row.Result()
		if d, ok := drafts.Get(row.ID()); ok {
			current = d.Result()
		}
		resp.Tests = append(resp.Tests, TestRowResponse{
			OrderTestID: row.ID(),
			TestID:      row.Test().ID,
			TestName:    row.Test().Name,
			Saved:       newResultResponse(row.Result()),
			Draft:       newResultResponse(current),
		})
	}
	return resp
}

func newResultResponse(r laborder.Result) ResultResponse {
	return ResultResponse{
		Value: r.Value,
		Unit:  r.Unit,
		Flag:  r.Flag.String(),
		Notes: r.Notes,
	}
}
