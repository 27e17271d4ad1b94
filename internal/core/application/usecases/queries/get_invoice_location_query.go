package queries

import (
	"context"
	"errors"

	"labconsole/internal/core/domain/model/kernel"
	"labconsole/internal/pkg/guard"
)

var ErrGetInvoiceLocationQueryIsNotConstructed = errors.New(
	"GetInvoiceLocationQuery must be created via NewGetInvoiceLocationQuery constructor",
)

// GetInvoiceLocationQuery resolves where the invoice of the workspace's order
// can be downloaded. No request is made to the backend.
type GetInvoiceLocationQuery struct {
	workspaceID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetInvoiceLocationQuery(workspaceID kernel.UUID) (GetInvoiceLocationQuery, error) {
	if err := workspaceID.Validate(); err != nil {
		return GetInvoiceLocationQuery{}, err
	}
	return GetInvoiceLocationQuery{workspaceID: workspaceID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetInvoiceLocationQuery) Validate() error {
	return q.guard.Validate(ErrGetInvoiceLocationQueryIsNotConstructed)
}

func (q GetInvoiceLocationQuery) WorkspaceID() kernel.UUID {
	return q.workspaceID
}

type GetInvoiceLocationQueryHandler struct {
	workspaces WorkspaceReader
}

func NewGetInvoiceLocationQueryHandler(workspaces WorkspaceReader) GetInvoiceLocationQueryHandler {
	return GetInvoiceLocationQueryHandler{workspaces: workspaces}
}

func (h GetInvoiceLocationQueryHandler) Handle(_ context.Context, query GetInvoiceLocationQuery) (string, error) {
	if err := query.Validate(); err != nil {
		return "", err
	}

	ws, err := h.workspaces.Get(query.WorkspaceID())
	if err != nil {
		return "", err
	}
	return ws.InvoiceLocation(), nil
}
