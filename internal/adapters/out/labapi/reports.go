package labapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"labconsole/internal/core/ports"
	"labconsole/internal/pkg/errs"
)

// UploadField is the multipart field the backend reads the scan from.
const UploadField = "file"

func (c *Client) FetchReport(ctx context.Context, labOrderID int64) (ports.ReportFile, error) {
	path := fmt.Sprintf("/api/Report/%d", labOrderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return ports.ReportFile{}, err
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := c.do(req, path)
	if err != nil {
		return ports.ReportFile{}, err
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return ports.ReportFile{}, errs.NewRemoteCallErrorWithCause(http.MethodGet, path, err)
	}
	return ports.ReportFile{ContentType: resp.Header.Get("Content-Type"), Content: content}, nil
}

func (c *Client) SendReport(ctx context.Context, labOrderID int64) error {
	return c.send(ctx, http.MethodPost, fmt.Sprintf("/api/Report/send/%d", labOrderID), nil)
}

func (c *Client) ForwardToDoctor(ctx context.Context, labOrderID int64) error {
	return c.send(ctx, http.MethodPost, fmt.Sprintf("/api/LabOrder/send-to-doctor/%d", labOrderID), nil)
}

// UploadScannedReport posts doc as multipart/form-data. The returned path is
// empty when the backend answers without one.
func (c *Client) UploadScannedReport(ctx context.Context, labOrderID int64, doc ports.ScannedDocument) (string, error) {
	path := fmt.Sprintf("/api/LabOrder/upload-report/%d", labOrderID)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, UploadField, doc.Filename))
	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}
	header.Set("Content-Type", contentType)

	part, err := form.CreatePart(header)
	if err != nil {
		return "", err
	}
	if _, err = part.Write(doc.Content); err != nil {
		return "", err
	}
	if err = form.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.do(req, path)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn().Err(err).Int64("labOrderId", labOrderID).Msg("read upload response")
		return "", nil
	}
	return uploadedPath(raw), nil
}

func uploadedPath(raw []byte) string {
	var dto uploadResponseDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return ""
	}
	if dto.ScannedReportPath != "" {
		return dto.ScannedReportPath
	}
	return dto.Path
}

// InvoiceURL is the download location of the order's invoice.
func (c *Client) InvoiceURL(labOrderID int64) string {
	return fmt.Sprintf("%s/api/LabOrder/invoice/%d", c.baseURL, labOrderID)
}

// ReportURL is where the rendered report can be opened in a browser.
func (c *Client) ReportURL(labOrderID int64) string {
	return fmt.Sprintf("%s/api/Report/%d", c.baseURL, labOrderID)
}

// AssetURL resolves a backend-relative path such as a scannedReportPath.
func (c *Client) AssetURL(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}
