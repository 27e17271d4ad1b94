package http

import (
	"fmt"
	"net/http"

	"labconsole/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface lists the operations of openapi.yaml.
type ServerInterface interface {
	// (POST /api/v1/workspaces)
	OpenWorkspace(ctx echo.Context) error
	// (GET /api/v1/workspaces/{workspaceId})
	GetWorkspace(ctx echo.Context, workspaceID kernel.UUID) error
	// (DELETE /api/v1/workspaces/{workspaceId})
	CloseWorkspace(ctx echo.Context, workspaceID kernel.UUID) error
	// (PATCH /api/v1/workspaces/{workspaceId}/drafts/{orderTestId})
	UpdateDraftField(ctx echo.Context, workspaceID kernel.UUID, orderTestID int64) error
	// (POST /api/v1/workspaces/{workspaceId}/drafts/{orderTestId}/commit)
	CommitDraft(ctx echo.Context, workspaceID kernel.UUID, orderTestID int64) error
	// (GET /api/v1/workspaces/{workspaceId}/history/{orderTestId})
	GetTestHistory(ctx echo.Context, workspaceID kernel.UUID, orderTestID int64) error
	// (DELETE /api/v1/workspaces/{workspaceId}/history/{orderTestId})
	InvalidateTestHistory(ctx echo.Context, workspaceID kernel.UUID, orderTestID int64) error
	// (GET /api/v1/workspaces/{workspaceId}/history/{orderTestId}/chart)
	GetTrendChart(ctx echo.Context, workspaceID kernel.UUID, orderTestID int64) error
	// (POST /api/v1/workspaces/{workspaceId}/complete)
	MarkOrderComplete(ctx echo.Context, workspaceID kernel.UUID) error
	// (GET /api/v1/workspaces/{workspaceId}/report)
	DownloadReport(ctx echo.Context, workspaceID kernel.UUID) error
	// (POST /api/v1/workspaces/{workspaceId}/report/send)
	SendReport(ctx echo.Context, workspaceID kernel.UUID) error
	// (POST /api/v1/workspaces/{workspaceId}/forward)
	ForwardToDoctor(ctx echo.Context, workspaceID kernel.UUID) error
	// (GET /api/v1/workspaces/{workspaceId}/invoice)
	GetInvoice(ctx echo.Context, workspaceID kernel.UUID) error
	// (POST /api/v1/workspaces/{workspaceId}/scan)
	UploadScannedReport(ctx echo.Context, workspaceID kernel.UUID) error
	// (GET /api/v1/workspaces/{workspaceId}/notifications)
	GetNotifications(ctx echo.Context, workspaceID kernel.UUID) error
}

// ServerInterfaceWrapper converts echo contexts to typed parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// EchoRouter is satisfied by both *echo.Echo and *echo.Group.
type EchoRouter interface {
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each operation of si to router.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	w := ServerInterfaceWrapper{Handler: si}

	router.POST(baseURL+"/api/v1/workspaces", w.OpenWorkspace)
	router.GET(baseURL+"/api/v1/workspaces/:workspaceId", w.GetWorkspace)
	router.DELETE(baseURL+"/api/v1/workspaces/:workspaceId", w.CloseWorkspace)
	router.PATCH(baseURL+"/api/v1/workspaces/:workspaceId/drafts/:orderTestId", w.UpdateDraftField)
	router.POST(baseURL+"/api/v1/workspaces/:workspaceId/drafts/:orderTestId/commit", w.CommitDraft)
	router.GET(baseURL+"/api/v1/workspaces/:workspaceId/history/:orderTestId", w.GetTestHistory)
	router.DELETE(baseURL+"/api/v1/workspaces/:workspaceId/history/:orderTestId", w.InvalidateTestHistory)
	router.GET(baseURL+"/api/v1/workspaces/:workspaceId/history/:orderTestId/chart", w.GetTrendChart)
	router.POST(baseURL+"/api/v1/workspaces/:workspaceId/complete", w.MarkOrderComplete)
	router.GET(baseURL+"/api/v1/workspaces/:workspaceId/report", w.DownloadReport)
	router.POST(baseURL+"/api/v1/workspaces/:workspaceId/report/send", w.SendReport)
	router.POST(baseURL+"/api/v1/workspaces/:workspaceId/forward", w.ForwardToDoctor)
	router.GET(baseURL+"/api/v1/workspaces/:workspaceId/invoice", w.GetInvoice)
	router.POST(baseURL+"/api/v1/workspaces/:workspaceId/scan", w.UploadScannedReport)
	router.GET(baseURL+"/api/v1/workspaces/:workspaceId/notifications", w.GetNotifications)
}

func (w *ServerInterfaceWrapper) OpenWorkspace(ctx echo.Context) error {
	return w.Handler.OpenWorkspace(ctx)
}

func (w *ServerInterfaceWrapper) GetWorkspace(ctx echo.Context) error {
	workspaceID, err := bindWorkspaceID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetWorkspace(ctx, workspaceID)
}

func (w *ServerInterfaceWrapper) CloseWorkspace(ctx echo.Context) error {
	workspaceID, err := bindWorkspaceID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.CloseWorkspace(ctx, workspaceID)
}

func (w *ServerInterfaceWrapper) UpdateDraftField(ctx echo.Context) error {
	workspaceID, orderTestID, err := bindRowParams(ctx)
	if err != nil {
		return err
	}
	return w.Handler.UpdateDraftField(ctx, workspaceID, orderTestID)
}

func (w *ServerInterfaceWrapper) CommitDraft(ctx echo.Context) error {
	workspaceID, orderTestID, err := bindRowParams(ctx)
	if err != nil {
		return err
	}
	return w.Handler.CommitDraft(ctx, workspaceID, orderTestID)
}

func (w *ServerInterfaceWrapper) GetTestHistory(ctx echo.Context) error {
	workspaceID, orderTestID, err := bindRowParams(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetTestHistory(ctx, workspaceID, orderTestID)
}

func (w *ServerInterfaceWrapper) InvalidateTestHistory(ctx echo.Context) error {
	workspaceID, orderTestID, err := bindRowParams(ctx)
	if err != nil {
		return err
	}
	return w.Handler.InvalidateTestHistory(ctx, workspaceID, orderTestID)
}

func (w *ServerInterfaceWrapper) GetTrendChart(ctx echo.Context) error {
	workspaceID, orderTestID, err := bindRowParams(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetTrendChart(ctx, workspaceID, orderTestID)
}

func (w *ServerInterfaceWrapper) MarkOrderComplete(ctx echo.Context) error {
	workspaceID, err := bindWorkspaceID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.MarkOrderComplete(ctx, workspaceID)
}

func (w *ServerInterfaceWrapper) DownloadReport(ctx echo.Context) error {
	workspaceID, err := bindWorkspaceID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.DownloadReport(ctx, workspaceID)
}

func (w *ServerInterfaceWrapper) SendReport(ctx echo.Context) error {
	workspaceID, err := bindWorkspaceID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.SendReport(ctx, workspaceID)
}

func (w *ServerInterfaceWrapper) ForwardToDoctor(ctx echo.Context) error {
	workspaceID, err := bindWorkspaceID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.ForwardToDoctor(ctx, workspaceID)
}

func (w *ServerInterfaceWrapper) GetInvoice(ctx echo.Context) error {
	workspaceID, err := bindWorkspaceID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetInvoice(ctx, workspaceID)
}

func (w *ServerInterfaceWrapper) UploadScannedReport(ctx echo.Context) error {
	workspaceID, err := bindWorkspaceID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.UploadScannedReport(ctx, workspaceID)
}

func (w *ServerInterfaceWrapper) GetNotifications(ctx echo.Context) error {
	workspaceID, err := bindWorkspaceID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetNotifications(ctx, workspaceID)
}

func bindWorkspaceID(ctx echo.Context) (kernel.UUID, error) {
	var raw string
	err := runtime.BindStyledParameterWithOptions("simple", "workspaceId", ctx.Param("workspaceId"), &raw,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return kernel.UUID{}, invalidParameter("workspaceId", err)
	}

	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, invalidParameter("workspaceId", err)
	}
	return id, nil
}

func bindRowParams(ctx echo.Context) (kernel.UUID, int64, error) {
	workspaceID, err := bindWorkspaceID(ctx)
	if err != nil {
		return kernel.UUID{}, 0, err
	}

	var orderTestID int64
	err = runtime.BindStyledParameterWithOptions("simple", "orderTestId", ctx.Param("orderTestId"), &orderTestID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return kernel.UUID{}, 0, invalidParameter("orderTestId", err)
	}
	return workspaceID, orderTestID, nil
}

func invalidParameter(name string, err error) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
}
