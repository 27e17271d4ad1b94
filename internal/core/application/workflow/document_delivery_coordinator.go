package workflow

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"labconsole/internal/core/ports"

	"golang.org/x/sync/singleflight"
)

// Document is a downloaded report ready to be saved by the client.
type Document struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ReportFilename returns the name under which the report of an order is saved.
func ReportFilename(labOrderID int64) string {
	return fmt.Sprintf("lab-report-%d.pdf", labOrderID)
}

// DocumentDeliveryCoordinator runs the document actions of an order. Each
// action is a single remote call with no retry and no queuing. Duplicate
// concurrent invocations of the same action for the same order share one call,
// and every caller still gets the outcome and its own notification.
type DocumentDeliveryCoordinator struct {
	gateway  ports.ReportingGateway
	notifier ports.Notifier

	inflight singleflight.Group
}

func NewDocumentDeliveryCoordinator(gateway ports.ReportingGateway, notifier ports.Notifier) *DocumentDeliveryCoordinator {
	return &DocumentDeliveryCoordinator{
		gateway:  gateway,
		notifier: notifier,
	}
}

// DownloadReport fetches the PDF report of an order.
func (c *DocumentDeliveryCoordinator) DownloadReport(ctx context.Context, labOrderID int64) (Document, error) {
	detached := context.WithoutCancel(ctx)
	v, err, _ := c.inflight.Do(actionKey(ActionDownloadReport, labOrderID), func() (any, error) {
		return c.gateway.FetchReport(detached, labOrderID)
	})
	if err != nil {
		notifyFailure(ctx, c.notifier, ActionDownloadReport, msgReportFailed)
		return Document{}, err
	}

	report := v.(ports.ReportFile)
	contentType := report.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}
	return Document{
		Filename:    ReportFilename(labOrderID),
		ContentType: contentType,
		Content:     report.Content,
	}, nil
}

// SendReport asks the backend to email the report to the patient.
func (c *DocumentDeliveryCoordinator) SendReport(ctx context.Context, labOrderID int64) error {
	detached := context.WithoutCancel(ctx)
	_, err, _ := c.inflight.Do(actionKey(ActionSendReport, labOrderID), func() (any, error) {
		return nil, c.gateway.SendReport(detached, labOrderID)
	})
	if err != nil {
		notifyFailure(ctx, c.notifier, ActionSendReport, msgReportSendFailed)
		return err
	}

	notifySuccess(ctx, c.notifier, ActionSendReport, msgReportSent)
	return nil
}

// RequestInvoice returns the location of the invoice as a standalone resource.
// No remote call is made.
func (c *DocumentDeliveryCoordinator) RequestInvoice(labOrderID int64) string {
	return c.gateway.InvoiceURL(labOrderID)
}

// ReportLocation returns where the rendered report can be viewed.
func (c *DocumentDeliveryCoordinator) ReportLocation(labOrderID int64) string {
	return c.gateway.ReportURL(labOrderID)
}

// ScannedReportLocation resolves a scannedReportPath, or returns "" when there is none.
func (c *DocumentDeliveryCoordinator) ScannedReportLocation(path string) string {
	if path == "" {
		return ""
	}
	return c.gateway.AssetURL(path)
}

// ForwardToDoctor asks the backend to send the report to the referring doctor.
func (c *DocumentDeliveryCoordinator) ForwardToDoctor(ctx context.Context, labOrderID int64) error {
	detached := context.WithoutCancel(ctx)
	_, err, _ := c.inflight.Do(actionKey(ActionForwardToDoctor, labOrderID), func() (any, error) {
		return nil, c.gateway.ForwardToDoctor(detached, labOrderID)
	})
	if err != nil {
		notifyFailure(ctx, c.notifier, ActionForwardToDoctor, msgForwardFailed)
		return err
	}

	notifySuccess(ctx, c.notifier, ActionForwardToDoctor, msgForwarded)
	return nil
}

// UploadScannedDocument uploads doc as the order's scanned report and returns
// the new scannedReportPath, which is empty when the backend did not report it.
// A nil doc means no file was selected: nothing is sent and uploaded is false.
func (c *DocumentDeliveryCoordinator) UploadScannedDocument(
	ctx context.Context,
	labOrderID int64,
	doc *ports.ScannedDocument,
) (path string, uploaded bool, err error) {
	if doc == nil {
		return "", false, nil
	}

	detached := context.WithoutCancel(ctx)
	key := actionKey(ActionUploadScan, labOrderID) + ":" + documentDigest(doc)
	v, err, _ := c.inflight.Do(key, func() (any, error) {
		return c.gateway.UploadScannedReport(detached, labOrderID, *doc)
	})
	if err != nil {
		notifyFailure(ctx, c.notifier, ActionUploadScan, msgScanUploadFailed)
		return "", false, err
	}

	notifySuccess(ctx, c.notifier, ActionUploadScan, msgScanUploaded)
	return v.(string), true, nil
}

func actionKey(action string, labOrderID int64) string {
	return fmt.Sprintf("%s:%d", action, labOrderID)
}

func documentDigest(doc *ports.ScannedDocument) string {
	sum := sha256.Sum256(doc.Content)
	return doc.Filename + ":" + hex.EncodeToString(sum[:8])
}
