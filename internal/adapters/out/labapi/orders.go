package labapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"labconsole/internal/core/domain/model/draft"
	"labconsole/internal/core/domain/model/laborder"
	"labconsole/internal/pkg/errs"
)

// Get loads an order with its patient, doctor and rows. A 404 from the
// backend is reported as errs.ErrObjectNotFound.
func (c *Client) Get(ctx context.Context, labOrderID int64) (*laborder.LabOrder, error) {
	path := fmt.Sprintf("/api/LabOrder/%d", labOrderID)

	var raw json.RawMessage
	if err := c.fetchJSON(ctx, path, &raw); err != nil {
		var remote *errs.RemoteCallError
		if errors.As(err, &remote) && remote.StatusCode == http.StatusNotFound {
			return nil, errs.NewObjectNotFoundErrorWithCause("labOrderId", labOrderID, err)
		}
		return nil, err
	}

	var dto labOrderDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, errs.NewRemoteCallErrorWithCause(http.MethodGet, path, fmt.Errorf("decode response: %w", err))
	}

	order, err := dto.toDomain()
	if err != nil {
		return nil, fmt.Errorf("map lab order %d: %w", labOrderID, err)
	}
	order.AttachSource(raw)
	return order, nil
}

// Update writes the entire order back. An order obtained from Get is sent as
// the document it was fetched as, with only the changed fields replaced.
func (c *Client) Update(ctx context.Context, order *laborder.LabOrder) error {
	if err := order.Validate(); err != nil {
		return err
	}
	path := fmt.Sprintf("/api/LabOrder/%d", order.ID())

	if len(order.Source()) == 0 {
		return c.send(ctx, http.MethodPut, path, labOrderToDTO(order))
	}

	doc, err := overlaySource(order)
	if err != nil {
		return err
	}
	return c.send(ctx, http.MethodPut, path, doc)
}

// UpdateResult saves the result fields of one row.
func (c *Client) UpdateResult(ctx context.Context, d draft.TestDraft) error {
	return c.send(ctx, http.MethodPut, fmt.Sprintf("/api/OrderTest/%d", d.OrderTestID()), testResultToDTO(d))
}
