package ports

import (
	"context"
)

// ReportFile is a generated report as returned by the reporting subsystem.
type ReportFile struct {
	ContentType string
	Content     []byte
}

// ScannedDocument is a file selected for upload as the order's scanned report.
type ScannedDocument struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ReportingGateway triggers document production and delivery for an order.
// Every call is independent; implementations must not queue or retry.
type ReportingGateway interface {
	// FetchReport downloads the rendered PDF report.
	FetchReport(ctx context.Context, labOrderID int64) (ReportFile, error)

	// SendReport asks the backend to email the report to the patient.
	SendReport(ctx context.Context, labOrderID int64) error

	// ForwardToDoctor asks the backend to send the report to the referring doctor.
	ForwardToDoctor(ctx context.Context, labOrderID int64) error

	// UploadScannedReport uploads doc and returns the new scannedReportPath.
	UploadScannedReport(ctx context.Context, labOrderID int64, doc ScannedDocument) (string, error)

	// InvoiceURL returns where the invoice of an order can be retrieved.
	InvoiceURL(labOrderID int64) string

	// ReportURL returns where the rendered report can be viewed.
	ReportURL(labOrderID int64) string

	// AssetURL resolves a backend-relative path such as scannedReportPath.
	AssetURL(path string) string
}
