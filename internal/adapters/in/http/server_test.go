package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apihttp "labconsole/internal/adapters/in/http"
	"labconsole/internal/adapters/out/chart"
	"labconsole/internal/core/application/usecases/commands"
	"labconsole/internal/core/application/usecases/queries"
	"labconsole/internal/core/application/workflow"
	"labconsole/internal/core/application/workflow/workflowtest"
	"labconsole/internal/core/domain/model/history"
	"labconsole/internal/core/domain/model/kernel"
	"labconsole/internal/core/domain/model/laborder"
	"labconsole/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ServerTestSuite struct {
	suite.Suite

	lab      *workflowtest.Lab
	registry *workflow.Registry
	echo     *echo.Echo
}

func (s *ServerTestSuite) SetupTest() {
	s.lab = workflowtest.NewLab()
	s.lab.AddOrder(workflowtest.GlucoseOrder(s.T(), laborder.Pending, 11, 12))
	s.registry = workflowtest.NewRegistry(s.T(), s.lab)

	server := apihttp.NewServer(
		apihttp.CommandHandlers{
			OpenWorkspace:         commands.NewOpenWorkspaceCommandHandler(s.registry),
			CloseWorkspace:        commands.NewCloseWorkspaceCommandHandler(s.registry),
			UpdateDraftField:      commands.NewUpdateDraftFieldCommandHandler(s.registry),
			CommitDraft:           commands.NewCommitDraftCommandHandler(s.registry),
			InvalidateTestHistory: commands.NewInvalidateTestHistoryCommandHandler(s.registry),
			MarkOrderComplete:     commands.NewMarkOrderCompleteCommandHandler(s.registry),
			DeliverReport:         commands.NewDeliverReportCommandHandler(s.registry),
			UploadScannedDocument: commands.NewUploadScannedDocumentCommandHandler(s.registry),
		},
		apihttp.QueryHandlers{
			GetWorkspace:       queries.NewGetWorkspaceQueryHandler(s.registry),
			GetTestHistory:     queries.NewGetTestHistoryQueryHandler(s.registry),
			GetTrendChart:      queries.NewGetTrendChartQueryHandler(s.registry, chart.NewLineRenderer()),
			DownloadReport:     queries.NewDownloadReportQueryHandler(s.registry),
			GetInvoiceLocation: queries.NewGetInvoiceLocationQueryHandler(s.registry),
			GetNotifications:   queries.NewGetNotificationsQueryHandler(s.registry),
		},
	)

	e, err := apihttp.NewRouter(s.T().Context(), server, zerolog.Nop())
	s.Require().NoError(err)
	s.echo = e
}

func (s *ServerTestSuite) do(method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func (s *ServerTestSuite) doJSON(method, target, body string) *httptest.ResponseRecorder {
	return s.do(method, target, strings.NewReader(body), echo.MIMEApplicationJSON)
}

func (s *ServerTestSuite) open() apihttp.Workspace {
	rec := s.doJSON(http.MethodPost, "/api/v1/workspaces", `{"labOrderId":7}`)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var ws apihttp.Workspace
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &ws))
	return ws
}

func (s *ServerTestSuite) errorOf(rec *httptest.ResponseRecorder) apihttp.Error {
	var body apihttp.Error
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func (s *ServerTestSuite) TestOpenWorkspace() {
	ws := s.open()

	s.NotEmpty(ws.WorkspaceId)
	s.Equal(workflowtest.OrderID, ws.LabOrderId)
	s.Equal("pending", ws.Status)
	s.Equal("Jane Roe", ws.Patient.Name)
	s.Equal("120.5", ws.FinalAmount.String())
	s.Equal(workflowtest.BaseURL+"/api/LabOrder/invoice/7", ws.InvoiceUrl)
	s.Require().Len(ws.Tests, 2)
	s.Equal(int64(11), ws.Tests[0].OrderTestId)
	s.Equal("Glucose", ws.Tests[0].TestName)
}

func (s *ServerTestSuite) TestOpenWorkspaceUnknownOrder() {
	rec := s.doJSON(http.MethodPost, "/api/v1/workspaces", `{"labOrderId":99}`)

	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal(http.StatusNotFound, s.errorOf(rec).Code)
	s.Equal(0, s.registry.Len())
}

func (s *ServerTestSuite) TestOpenWorkspaceRejectsInvalidBody() {
	rec := s.doJSON(http.MethodPost, "/api/v1/workspaces", `{"labOrderId":0}`)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(0, s.lab.Calls(workflowtest.OpGet))
}

func (s *ServerTestSuite) TestGetWorkspace() {
	ws := s.open()

	rec := s.do(http.MethodGet, "/api/v1/workspaces/"+ws.WorkspaceId, nil, "")

	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"labOrderId":7`)
}

func (s *ServerTestSuite) TestGetWorkspaceUnknownOrMalformedID() {
	rec := s.do(http.MethodGet, "/api/v1/workspaces/"+kernel.NewUUID().String(), nil, "")
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/workspaces/not-a-uuid", nil, "")
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(s.errorOf(rec).Message, "workspaceId")
}

func (s *ServerTestSuite) TestCloseWorkspace() {
	ws := s.open()

	rec := s.do(http.MethodDelete, "/api/v1/workspaces/"+ws.WorkspaceId, nil, "")
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/workspaces/"+ws.WorkspaceId, nil, "")
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *ServerTestSuite) TestUpdateAndCommitDraft() {
	ws := s.open()
	base := "/api/v1/workspaces/" + ws.WorkspaceId + "/drafts/11"

	rec := s.doJSON(http.MethodPatch, base, `{"field":"resultValue","value":"5.4"}`)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var updated apihttp.Workspace
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &updated))
	s.Equal("5.4", updated.Tests[0].Draft.ResultValue)
	s.Empty(updated.Tests[0].Saved.ResultValue)

	rec = s.do(http.MethodPost, base+"/commit", nil, "")
	s.Require().Equal(http.StatusNoContent, rec.Code, rec.Body.String())

	results := s.lab.Results()
	s.Require().Len(results, 1)
	s.Equal("5.4", results[0].Result().Value)
}

func (s *ServerTestSuite) TestUpdateDraftRejectsUnknownField() {
	ws := s.open()

	rec := s.doJSON(http.MethodPatch, "/api/v1/workspaces/"+ws.WorkspaceId+"/drafts/11", `{"field":"price","value":"1"}`)

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *ServerTestSuite) TestUpdateDraftUnknownRow() {
	ws := s.open()

	rec := s.doJSON(http.MethodPatch, "/api/v1/workspaces/"+ws.WorkspaceId+"/drafts/99", `{"field":"notes","value":"x"}`)

	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *ServerTestSuite) TestCommitFailureIsBadGateway() {
	ws := s.open()
	s.lab.Fail(workflowtest.OpResult, errs.NewRemoteCallError(http.MethodPut, "/api/OrderTest/11", http.StatusInternalServerError))

	rec := s.do(http.MethodPost, "/api/v1/workspaces/"+ws.WorkspaceId+"/drafts/11/commit", nil, "")

	s.Equal(http.StatusBadGateway, rec.Code)
}

func (s *ServerTestSuite) TestHistoryChartAndInvalidate() {
	s.lab.SetHistory(workflowtest.PatientID, workflowtest.TestID, history.Series{
		{OrderDate: workflowtest.Day("2024-01-05"), ResultValue: "5.1", ResultUnit: "mmol/L"},
		{OrderDate: workflowtest.Day("2024-03-01"), ResultValue: "6.3", ResultUnit: "mmol/L"},
	})
	ws := s.open()
	base := "/api/v1/workspaces/" + ws.WorkspaceId + "/history/11"

	rec := s.do(http.MethodGet, base+"/chart", nil, "")
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, base, nil, "")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var hist apihttp.TestHistory
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &hist))
	s.Len(hist.Entries, 2)
	s.Require().Len(hist.Trend, 2)
	s.InDelta(6.3, *hist.Trend[1].Value, 1e-9)

	rec = s.do(http.MethodGet, base+"/chart", nil, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Header().Get(echo.HeaderContentType), "text/html")
	s.Contains(rec.Body.String(), "Glucose Trend")

	rec = s.do(http.MethodDelete, base, nil, "")
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, base, nil, "")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(2, s.lab.Calls(workflowtest.OpHistory))
}

func (s *ServerTestSuite) TestMarkOrderComplete() {
	ws := s.open()

	rec := s.do(http.MethodPost, "/api/v1/workspaces/"+ws.WorkspaceId+"/complete", nil, "")

	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var updated apihttp.Workspace
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &updated))
	s.Equal("completed", updated.Status)
	s.Equal(laborder.Completed, s.lab.Order(workflowtest.OrderID).Status())
}

func (s *ServerTestSuite) TestDownloadReport() {
	ws := s.open()

	rec := s.do(http.MethodGet, "/api/v1/workspaces/"+ws.WorkspaceId+"/report", nil, "")

	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("application/pdf", rec.Header().Get(echo.HeaderContentType))
	s.Equal(`attachment; filename="lab-report-7.pdf"`, rec.Header().Get(echo.HeaderContentDisposition))
	s.Equal("%PDF report 7", rec.Body.String())
}

func (s *ServerTestSuite) TestSendAndForwardReport() {
	ws := s.open()

	rec := s.do(http.MethodPost, "/api/v1/workspaces/"+ws.WorkspaceId+"/report/send", nil, "")
	s.Equal(http.StatusNoContent, rec.Code)
	rec = s.do(http.MethodPost, "/api/v1/workspaces/"+ws.WorkspaceId+"/forward", nil, "")
	s.Equal(http.StatusNoContent, rec.Code)

	s.Equal(1, s.lab.Calls(workflowtest.OpSend))
	s.Equal(1, s.lab.Calls(workflowtest.OpForward))

	rec = s.do(http.MethodGet, "/api/v1/workspaces/"+ws.WorkspaceId+"/notifications", nil, "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var notifications []apihttp.Notification
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &notifications))
	s.Require().Len(notifications, 2)
	s.Equal("success", notifications[0].Level)
}

func (s *ServerTestSuite) TestInvoiceRedirects() {
	ws := s.open()

	rec := s.do(http.MethodGet, "/api/v1/workspaces/"+ws.WorkspaceId+"/invoice", nil, "")

	s.Equal(http.StatusFound, rec.Code)
	s.Equal(workflowtest.BaseURL+"/api/LabOrder/invoice/7", rec.Header().Get(echo.HeaderLocation))
}

func (s *ServerTestSuite) TestUploadScannedReport() {
	ws := s.open()
	s.lab.SetUploadPath("/uploads/scan-7.pdf")

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(apihttp.UploadField, "scan.pdf")
	s.Require().NoError(err)
	_, err = part.Write([]byte("%PDF scan"))
	s.Require().NoError(err)
	s.Require().NoError(writer.Close())

	rec := s.do(http.MethodPost, "/api/v1/workspaces/"+ws.WorkspaceId+"/scan", &body, writer.FormDataContentType())

	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var result apihttp.UploadResult
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &result))
	s.True(result.Uploaded)
	s.Equal(workflowtest.BaseURL+"/uploads/scan-7.pdf", result.ScannedReportUrl)
}

func (s *ServerTestSuite) TestUploadWithoutFileIsNoOp() {
	ws := s.open()

	rec := s.do(http.MethodPost, "/api/v1/workspaces/"+ws.WorkspaceId+"/scan", nil, "")

	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.JSONEq(`{"uploaded":false}`, rec.Body.String())
	s.Equal(0, s.lab.Calls(workflowtest.OpUpload))
}

func (s *ServerTestSuite) TestServiceEndpoints() {
	rec := s.do(http.MethodGet, "/health", nil, "")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("Healthy", rec.Body.String())

	rec = s.do(http.MethodGet, "/openapi.yaml", nil, "")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "operationId: OpenWorkspace")

	rec = s.do(http.MethodGet, "/api/v1/unknown", nil, "")
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal(http.StatusNotFound, s.errorOf(rec).Code)
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func TestRecoveryTurnsPanicIntoServerError(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = apihttp.NewHTTPErrorHandler(zerolog.Nop())
	e.Use(apihttp.RequestID(), apihttp.Logger(zerolog.Nop()), apihttp.Recovery(zerolog.Nop()))
	e.GET("/boom", func(echo.Context) error {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	require.JSONEq(t, `{"code":500,"message":"internal server error"}`, rec.Body.String())
}
