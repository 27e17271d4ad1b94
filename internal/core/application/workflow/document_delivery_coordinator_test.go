package workflow_test

import (
	"errors"
	"testing"

	"labconsole/internal/core/application/workflow"
	"labconsole/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDocumentDeliveryCoordinator_DownloadReport(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		gateway := new(MockReportingGateway)
		coordinator := workflow.NewDocumentDeliveryCoordinator(gateway, workflow.NewNotificationFeed(0, nil))
		gateway.On("FetchReport", mock.Anything, int64(7)).Return(ports.ReportFile{Content: []byte("%PDF-1.7")}, nil).Once()

		doc, err := coordinator.DownloadReport(t.Context(), 7)

		require.NoError(t, err)
		assert.Equal(t, "lab-report-7.pdf", doc.Filename)
		assert.Equal(t, "application/pdf", doc.ContentType)
		assert.Equal(t, []byte("%PDF-1.7"), doc.Content)
		gateway.AssertExpectations(t)
	})

	t.Run("failure is signalled", func(t *testing.T) {
		gateway := new(MockReportingGateway)
		feed := workflow.NewNotificationFeed(0, nil)
		coordinator := workflow.NewDocumentDeliveryCoordinator(gateway, feed)
		gateway.On("FetchReport", mock.Anything, int64(7)).Return(nil, errors.New("404")).Once()

		_, err := coordinator.DownloadReport(t.Context(), 7)

		require.Error(t, err)
		n := lastNotification(t, feed.List())
		assert.Equal(t, ports.NotificationError, n.Level)
		assert.Equal(t, workflow.ActionDownloadReport, n.Action)
	})
}

func TestDocumentDeliveryCoordinator_SendReport(t *testing.T) {
	gateway := new(MockReportingGateway)
	feed := workflow.NewNotificationFeed(0, nil)
	coordinator := workflow.NewDocumentDeliveryCoordinator(gateway, feed)

	gateway.On("SendReport", mock.Anything, int64(7)).Return(nil).Once()
	gateway.On("SendReport", mock.Anything, int64(7)).Return(errors.New("smtp down")).Once()

	require.NoError(t, coordinator.SendReport(t.Context(), 7))
	assert.Equal(t, "Report sent to patient email", lastNotification(t, feed.List()).Message)

	require.Error(t, coordinator.SendReport(t.Context(), 7))
	assert.Equal(t, ports.NotificationError, lastNotification(t, feed.List()).Level)
	gateway.AssertExpectations(t)
}

func TestDocumentDeliveryCoordinator_ForwardToDoctor(t *testing.T) {
	gateway := new(MockReportingGateway)
	feed := workflow.NewNotificationFeed(0, nil)
	coordinator := workflow.NewDocumentDeliveryCoordinator(gateway, feed)

	gateway.On("ForwardToDoctor", mock.Anything, int64(7)).Return(nil).Once()
	gateway.On("ForwardToDoctor", mock.Anything, int64(7)).Return(errors.New("500")).Once()

	require.NoError(t, coordinator.ForwardToDoctor(t.Context(), 7))
	assert.Equal(t, "Report sent to doctor", lastNotification(t, feed.List()).Message)

	require.Error(t, coordinator.ForwardToDoctor(t.Context(), 7))
	assert.Equal(t, "Failed to send", lastNotification(t, feed.List()).Message)
}

func TestDocumentDeliveryCoordinator_Locations(t *testing.T) {
	gateway := new(MockReportingGateway)
	coordinator := workflow.NewDocumentDeliveryCoordinator(gateway, workflow.NewNotificationFeed(0, nil))

	gateway.On("InvoiceURL", int64(7)).Return("http://lab/api/LabOrder/invoice/7").Once()
	gateway.On("ReportURL", int64(7)).Return("http://lab/api/Report/7").Once()
	gateway.On("AssetURL", "uploads/7.pdf").Return("http://lab/uploads/7.pdf").Once()

	assert.Equal(t, "http://lab/api/LabOrder/invoice/7", coordinator.RequestInvoice(7))
	assert.Equal(t, "http://lab/api/Report/7", coordinator.ReportLocation(7))
	assert.Equal(t, "http://lab/uploads/7.pdf", coordinator.ScannedReportLocation("uploads/7.pdf"))
	assert.Empty(t, coordinator.ScannedReportLocation(""))

	gateway.AssertExpectations(t)
	gateway.AssertNotCalled(t, "FetchReport", mock.Anything, mock.Anything)
}

func TestDocumentDeliveryCoordinator_UploadScannedDocument(t *testing.T) {
	doc := &ports.ScannedDocument{Filename: "scan.pdf", ContentType: "application/pdf", Content: []byte("%PDF")}

	t.Run("no file selected makes no call", func(t *testing.T) {
		gateway := new(MockReportingGateway)
		feed := workflow.NewNotificationFeed(0, nil)
		coordinator := workflow.NewDocumentDeliveryCoordinator(gateway, feed)

		path, uploaded, err := coordinator.UploadScannedDocument(t.Context(), 7, nil)

		require.NoError(t, err)
		assert.False(t, uploaded)
		assert.Empty(t, path)
		assert.Empty(t, gateway.Calls)
		assert.Empty(t, feed.List())
	})

	t.Run("success returns new path", func(t *testing.T) {
		gateway := new(MockReportingGateway)
		feed := workflow.NewNotificationFeed(0, nil)
		coordinator := workflow.NewDocumentDeliveryCoordinator(gateway, feed)
		gateway.On("UploadScannedReport", mock.Anything, int64(7), *doc).Return("uploads/7.pdf", nil).Once()

		path, uploaded, err := coordinator.UploadScannedDocument(t.Context(), 7, doc)

		require.NoError(t, err)
		assert.True(t, uploaded)
		assert.Equal(t, "uploads/7.pdf", path)
		assert.Equal(t, "Scanned report uploaded", lastNotification(t, feed.List()).Message)
	})

	t.Run("failure is signalled", func(t *testing.T) {
		gateway := new(MockReportingGateway)
		feed := workflow.NewNotificationFeed(0, nil)
		coordinator := workflow.NewDocumentDeliveryCoordinator(gateway, feed)
		gateway.On("UploadScannedReport", mock.Anything, int64(7), *doc).Return("", errors.New("413")).Once()

		_, uploaded, err := coordinator.UploadScannedDocument(t.Context(), 7, doc)

		require.Error(t, err)
		assert.False(t, uploaded)
		assert.Equal(t, "Upload failed", lastNotification(t, feed.List()).Message)
	})
}

func TestDocumentDeliveryCoordinator_ActionsAreIndependent(t *testing.T) {
	gateway := new(MockReportingGateway)
	coordinator := workflow.NewDocumentDeliveryCoordinator(gateway, workflow.NewNotificationFeed(0, nil))

	gateway.On("SendReport", mock.Anything, int64(7)).Return(errors.New("down")).Once()
	gateway.On("ForwardToDoctor", mock.Anything, int64(7)).Return(nil).Once()

	require.Error(t, coordinator.SendReport(t.Context(), 7))
	require.NoError(t, coordinator.ForwardToDoctor(t.Context(), 7))
	gateway.AssertExpectations(t)
}
