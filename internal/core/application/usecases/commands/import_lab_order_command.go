package commands

import (
	"context"
	"errors"
	"fmt"

	"labconsole/internal/core/domain/model/laborder"
	"labconsole/internal/core/ports"
	"labconsole/internal/pkg/guard"
)

var ErrImportLabOrderCommandIsNotConstructed = errors.New(
	"ImportLabOrderCommand must be created via NewImportLabOrderCommand constructor",
)

// LabOrderWriter stores orders that do not exist yet.
type LabOrderWriter interface {
	Add(ctx context.Context, order *laborder.LabOrder) error
}

// ImportLabOrderCommand copies one order from the lab backend into the local store.
type ImportLabOrderCommand struct { //nolint:recvcheck //using for validation
	labOrderID int64

	guard guard.ConstructorGuard
}

func NewImportLabOrderCommand(labOrderID int64) (ImportLabOrderCommand, error) {
	if err := validatePositiveID("labOrderId", labOrderID); err != nil {
		return ImportLabOrderCommand{}, err
	}
	return ImportLabOrderCommand{labOrderID: labOrderID, guard: guard.NewConstructorGuard()}, nil
}

func (c ImportLabOrderCommand) Validate() error {
	return c.guard.Validate(ErrImportLabOrderCommandIsNotConstructed)
}

func (c ImportLabOrderCommand) LabOrderID() int64 {
	return c.labOrderID
}

type ImportLabOrderCommandHandler struct {
	source ports.LabOrderRepository
	target LabOrderWriter
}

func NewImportLabOrderCommandHandler(source ports.LabOrderRepository, target LabOrderWriter) ImportLabOrderCommandHandler {
	return ImportLabOrderCommandHandler{source: source, target: target}
}

// Handle returns the imported order. Nothing is written when the source read fails.
func (h ImportLabOrderCommandHandler) Handle(ctx context.Context, cmd ImportLabOrderCommand) (*laborder.LabOrder, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	order, err := h.source.Get(ctx, cmd.LabOrderID())
	if err != nil {
		return nil, err
	}
	if err = h.target.Add(ctx, order); err != nil {
		return nil, fmt.Errorf("import lab order %d: %w", cmd.LabOrderID(), err)
	}
	return order, nil
}
