package commands

import (
	"context"
	"errors"

	"labconsole/internal/core/domain/model/kernel"
	"labconsole/internal/core/ports"
	"labconsole/internal/pkg/errs"
	"labconsole/internal/pkg/guard"
)

var ErrUploadScannedDocumentCommandIsNotConstructed = errors.New(
	"UploadScannedDocumentCommand must be created via NewUploadScannedDocumentCommand constructor",
)

// UploadScannedDocumentCommand attaches a scanned paper report to the order.
// A nil document means the user picked nothing and the command is a no-op.
type UploadScannedDocumentCommand struct {
	workspaceID kernel.UUID
	document    *ports.ScannedDocument

	guard guard.ConstructorGuard
}

func NewUploadScannedDocumentCommand(
	workspaceID kernel.UUID,
	document *ports.ScannedDocument,
) (UploadScannedDocumentCommand, error) {
	if err := workspaceID.Validate(); err != nil {
		return UploadScannedDocumentCommand{}, err
	}
	if document != nil && document.Filename == "" {
		return UploadScannedDocumentCommand{}, errs.NewValueIsRequiredError("filename")
	}

	return UploadScannedDocumentCommand{
		workspaceID: workspaceID,
		document:    document,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c UploadScannedDocumentCommand) Validate() error {
	return c.guard.Validate(ErrUploadScannedDocumentCommandIsNotConstructed)
}

func (c UploadScannedDocumentCommand) WorkspaceID() kernel.UUID {
	return c.workspaceID
}

func (c UploadScannedDocumentCommand) Document() *ports.ScannedDocument {
	return c.document
}

type UploadScannedDocumentCommandHandler struct {
	registry WorkspaceRegistry
}

func NewUploadScannedDocumentCommandHandler(registry WorkspaceRegistry) UploadScannedDocumentCommandHandler {
	return UploadScannedDocumentCommandHandler{registry: registry}
}

// Handle reports whether an upload actually took place.
func (h UploadScannedDocumentCommandHandler) Handle(ctx context.Context, cmd UploadScannedDocumentCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	ws, err := h.registry.Get(cmd.WorkspaceID())
	if err != nil {
		return false, err
	}
	return ws.UploadScannedDocument(ctx, cmd.Document())
}
