package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"labconsole/internal/core/application/usecases/commands"
	"labconsole/internal/core/application/usecases/queries"
	"labconsole/internal/core/domain/model/kernel"
	"labconsole/internal/core/ports"

	"github.com/labstack/echo/v4"
)

var _ ServerInterface = (*Server)(nil)

type CommandHandlers struct {
	OpenWorkspace         commands.OpenWorkspaceCommandHandler
	CloseWorkspace        commands.CloseWorkspaceCommandHandler
	UpdateDraftField      commands.UpdateDraftFieldCommandHandler
	CommitDraft           commands.CommitDraftCommandHandler
	InvalidateTestHistory commands.InvalidateTestHistoryCommandHandler
	MarkOrderComplete     commands.MarkOrderCompleteCommandHandler
	DeliverReport         commands.DeliverReportCommandHandler
	UploadScannedDocument commands.UploadScannedDocumentCommandHandler
}

type QueryHandlers struct {
	GetWorkspace       queries.GetWorkspaceQueryHandler
	GetTestHistory     queries.GetTestHistoryQueryHandler
	GetTrendChart      queries.GetTrendChartQueryHandler
	DownloadReport     queries.DownloadReportQueryHandler
	GetInvoiceLocation queries.GetInvoiceLocationQueryHandler
	GetNotifications   queries.GetNotificationsQueryHandler
}

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	commands CommandHandlers
	queries  QueryHandlers
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(commandHandlers CommandHandlers, queryHandlers QueryHandlers) *Server {
	return &Server{
		commands: commandHandlers,
		queries:  queryHandlers,
	}
}

// OpenWorkspace handles POST /api/v1/workspaces - loads an order into a new workspace.
func (s *Server) OpenWorkspace(ctx echo.Context) error {
	var request OpenWorkspaceRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	workspaceID := kernel.NewUUID()
	cmd, err := commands.NewOpenWorkspaceCommand(workspaceID, request.LabOrderId)
	if err != nil {
		return errorResponse(ctx, err)
	}
	if err = s.commands.OpenWorkspace.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return s.respondWithWorkspace(ctx, http.StatusCreated, workspaceID)
}

// GetWorkspace handles GET /api/v1/workspaces/{workspaceId} - returns the review screen.
func (s *Server) GetWorkspace(ctx echo.Context, workspaceID kernel.UUID) error {
	return s.respondWithWorkspace(ctx, http.StatusOK, workspaceID)
}

// CloseWorkspace handles DELETE /api/v1/workspaces/{workspaceId}.
func (s *Server) CloseWorkspace(ctx echo.Context, workspaceID kernel.UUID) error {
	cmd, err := commands.NewCloseWorkspaceCommand(workspaceID)
	if err != nil {
		return errorResponse(ctx, err)
	}
	if err = s.commands.CloseWorkspace.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// UpdateDraftField handles PATCH /api/v1/workspaces/{workspaceId}/drafts/{orderTestId}.
func (s *Server) UpdateDraftField(ctx echo.Context, workspaceID kernel.UUID, orderTestID int64) error {
	var request UpdateDraftFieldRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewUpdateDraftFieldCommand(workspaceID, orderTestID, request.Field, request.Value)
	if err != nil {
		return errorResponse(ctx, err)
	}
	if err = s.commands.UpdateDraftField.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return s.respondWithWorkspace(ctx, http.StatusOK, workspaceID)
}

// CommitDraft handles POST /api/v1/workspaces/{workspaceId}/drafts/{orderTestId}/commit.
func (s *Server) CommitDraft(ctx echo.Context, workspaceID kernel.UUID, orderTestID int64) error {
	cmd, err := commands.NewCommitDraftCommand(workspaceID, orderTestID)
	if err != nil {
		return errorResponse(ctx, err)
	}
	if err = s.commands.CommitDraft.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// GetTestHistory handles GET /api/v1/workspaces/{workspaceId}/history/{orderTestId}.
func (s *Server) GetTestHistory(ctx echo.Context, workspaceID kernel.UUID, orderTestID int64) error {
	query, err := queries.NewGetTestHistoryQuery(workspaceID, orderTestID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	result, err := s.queries.GetTestHistory.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := TestHistory{
		OrderTestId: result.OrderTestID,
		Entries:     make([]HistoryEntry, len(result.Entries)),
	}
	for i, e := range result.Entries {
		response.Entries[i] = HistoryEntry{
			OrderDate:   e.OrderDate,
			ResultValue: e.ResultValue,
			ResultUnit:  e.ResultUnit,
			ResultFlag:  e.ResultFlag,
		}
	}
	if result.Trend != nil {
		response.Trend = make([]TrendPoint, len(result.Trend))
		for i, p := range result.Trend {
			response.Trend[i] = TrendPoint{Label: p.Label, Value: p.Value}
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// InvalidateTestHistory handles DELETE /api/v1/workspaces/{workspaceId}/history/{orderTestId}.
func (s *Server) InvalidateTestHistory(ctx echo.Context, workspaceID kernel.UUID, orderTestID int64) error {
	cmd, err := commands.NewInvalidateTestHistoryCommand(workspaceID, orderTestID)
	if err != nil {
		return errorResponse(ctx, err)
	}
	if err = s.commands.InvalidateTestHistory.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// GetTrendChart handles GET /api/v1/workspaces/{workspaceId}/history/{orderTestId}/chart.
func (s *Server) GetTrendChart(ctx echo.Context, workspaceID kernel.UUID, orderTestID int64) error {
	query, err := queries.NewGetTrendChartQuery(workspaceID, orderTestID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	chart, err := s.queries.GetTrendChart.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.Blob(http.StatusOK, chart.ContentType, chart.Content)
}

// MarkOrderComplete handles POST /api/v1/workspaces/{workspaceId}/complete.
func (s *Server) MarkOrderComplete(ctx echo.Context, workspaceID kernel.UUID) error {
	cmd, err := commands.NewMarkOrderCompleteCommand(workspaceID)
	if err != nil {
		return errorResponse(ctx, err)
	}
	if err = s.commands.MarkOrderComplete.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}
	return s.respondWithWorkspace(ctx, http.StatusOK, workspaceID)
}

// DownloadReport handles GET /api/v1/workspaces/{workspaceId}/report.
func (s *Server) DownloadReport(ctx echo.Context, workspaceID kernel.UUID) error {
	query, err := queries.NewDownloadReportQuery(workspaceID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	doc, err := s.queries.DownloadReport.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.Filename))
	return ctx.Blob(http.StatusOK, doc.ContentType, doc.Content)
}

// SendReport handles POST /api/v1/workspaces/{workspaceId}/report/send.
func (s *Server) SendReport(ctx echo.Context, workspaceID kernel.UUID) error {
	return s.deliverReport(ctx, workspaceID, commands.RecipientPatient)
}

// ForwardToDoctor handles POST /api/v1/workspaces/{workspaceId}/forward.
func (s *Server) ForwardToDoctor(ctx echo.Context, workspaceID kernel.UUID) error {
	return s.deliverReport(ctx, workspaceID, commands.RecipientDoctor)
}

func (s *Server) deliverReport(ctx echo.Context, workspaceID kernel.UUID, recipient commands.Recipient) error {
	cmd, err := commands.NewDeliverReportCommand(workspaceID, recipient)
	if err != nil {
		return errorResponse(ctx, err)
	}
	if err = s.commands.DeliverReport.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// GetInvoice handles GET /api/v1/workspaces/{workspaceId}/invoice by
// redirecting to the lab backend. No remote call is made here.
func (s *Server) GetInvoice(ctx echo.Context, workspaceID kernel.UUID) error {
	query, err := queries.NewGetInvoiceLocationQuery(workspaceID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	location, err := s.queries.GetInvoiceLocation.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.Redirect(http.StatusFound, location)
}

// UploadScannedReport handles POST /api/v1/workspaces/{workspaceId}/scan. A
// request without a "file" part is accepted and does nothing.
func (s *Server) UploadScannedReport(ctx echo.Context, workspaceID kernel.UUID) error {
	doc, err := scannedDocument(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid scanned document",
		})
	}

	cmd, err := commands.NewUploadScannedDocumentCommand(workspaceID, doc)
	if err != nil {
		return errorResponse(ctx, err)
	}

	uploaded, err := s.commands.UploadScannedDocument.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := UploadResult{Uploaded: uploaded}
	if uploaded {
		screen, err := s.workspace(ctx, workspaceID)
		if err != nil {
			return errorResponse(ctx, err)
		}
		response.ScannedReportUrl = screen.ScannedReportUrl
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetNotifications handles GET /api/v1/workspaces/{workspaceId}/notifications.
func (s *Server) GetNotifications(ctx echo.Context, workspaceID kernel.UUID) error {
	query, err := queries.NewGetNotificationsQuery(workspaceID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	notifications, err := s.queries.GetNotifications.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := make([]Notification, len(notifications))
	for i, n := range notifications {
		response[i] = Notification{
			Level:   string(n.Level),
			Action:  n.Action,
			Message: n.Message,
			Time:    n.Time,
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

func (s *Server) respondWithWorkspace(ctx echo.Context, code int, workspaceID kernel.UUID) error {
	response, err := s.workspace(ctx, workspaceID)
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(code, response)
}

func (s *Server) workspace(ctx echo.Context, workspaceID kernel.UUID) (Workspace, error) {
	query, err := queries.NewGetWorkspaceQuery(workspaceID)
	if err != nil {
		return Workspace{}, err
	}

	ws, err := s.queries.GetWorkspace.Handle(ctx.Request().Context(), query)
	if err != nil {
		return Workspace{}, err
	}

	response := Workspace{
		WorkspaceId:      ws.WorkspaceID,
		OpenedAt:         ws.OpenedAt,
		LabOrderId:       ws.LabOrderID,
		Patient:          Party{Id: ws.Patient.ID, Name: ws.Patient.Name},
		Doctor:           Party{Id: ws.Doctor.ID, Name: ws.Doctor.Name},
		OrderDate:        ws.OrderDate,
		Status:           ws.Status,
		StatusLabel:      ws.StatusLabel,
		PaymentStatus:    ws.PaymentStatus,
		FinalAmount:      json.Number(ws.FinalAmount.String()),
		ReportUrl:        ws.ReportURL,
		InvoiceUrl:       ws.InvoiceURL,
		ScannedReportUrl: ws.ScannedReportURL,
		Tests:            make([]TestRow, len(ws.Tests)),
	}
	for i, row := range ws.Tests {
		response.Tests[i] = TestRow{
			OrderTestId: row.OrderTestID,
			TestId:      row.TestID,
			TestName:    row.TestName,
			Saved:       toResult(row.Saved),
			Draft:       toResult(row.Draft),
		}
	}
	return response, nil
}

func toResult(r queries.ResultResponse) Result {
	return Result{
		ResultValue: r.Value,
		ResultUnit:  r.Unit,
		ResultFlag:  r.Flag,
		Notes:       r.Notes,
	}
}

func scannedDocument(ctx echo.Context) (*ports.ScannedDocument, error) {
	header, err := ctx.FormFile(UploadField)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &ports.ScannedDocument{
		Filename:    header.Filename,
		ContentType: header.Header.Get(echo.HeaderContentType),
		Content:     content,
	}, nil
}
