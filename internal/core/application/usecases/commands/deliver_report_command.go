package commands

import (
	"context"
	"errors"
	"fmt"

	"labconsole/internal/core/domain/model/kernel"
	"labconsole/internal/pkg/errs"
	"labconsole/internal/pkg/guard"
)

// Recipient selects who a finished report is delivered to.
type Recipient string

const (
	RecipientPatient Recipient = "patient"
	RecipientDoctor  Recipient = "doctor"
)

func ParseRecipient(s string) (Recipient, error) {
	switch r := Recipient(s); r {
	case RecipientPatient, RecipientDoctor:
		return r, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("recipient", fmt.Errorf("unknown recipient %q", s))
	}
}

var ErrDeliverReportCommandIsNotConstructed = errors.New(
	"DeliverReportCommand must be created via NewDeliverReportCommand constructor",
)

// DeliverReportCommand asks the lab backend to send the order's report either
// to the patient's email or to the ordering doctor.
type DeliverReportCommand struct { //nolint:recvcheck //using for validation
	workspaceID kernel.UUID
	recipient   Recipient

	guard guard.ConstructorGuard
}

func NewDeliverReportCommand(workspaceID kernel.UUID, recipient Recipient) (DeliverReportCommand, error) {
	cmd := DeliverReportCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setWorkspaceID(workspaceID),
		cmd.setRecipient(recipient),
	); err != nil {
		return DeliverReportCommand{}, err
	}
	return cmd, nil
}

func (c DeliverReportCommand) Validate() error {
	return c.guard.Validate(ErrDeliverReportCommandIsNotConstructed)
}

func (c DeliverReportCommand) WorkspaceID() kernel.UUID {
	return c.workspaceID
}

func (c DeliverReportCommand) Recipient() Recipient {
	return c.recipient
}

func (c *DeliverReportCommand) setWorkspaceID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.workspaceID = id
	return nil
}

func (c *DeliverReportCommand) setRecipient(r Recipient) error {
	parsed, err := ParseRecipient(string(r))
	if err != nil {
		return err
	}
	c.recipient = parsed
	return nil
}

type DeliverReportCommandHandler struct {
	registry WorkspaceRegistry
}

func NewDeliverReportCommandHandler(registry WorkspaceRegistry) DeliverReportCommandHandler {
	return DeliverReportCommandHandler{registry: registry}
}

func (h DeliverReportCommandHandler) Handle(ctx context.Context, cmd DeliverReportCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	ws, err := h.registry.Get(cmd.WorkspaceID())
	if err != nil {
		return err
	}

	if cmd.Recipient() == RecipientDoctor {
		return ws.ForwardToDoctor(ctx)
	}
	return ws.SendReport(ctx)
}
