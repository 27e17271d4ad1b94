package http

import (
	"encoding/json"
	"time"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type OpenWorkspaceRequest struct {
	LabOrderId int64 `json:"labOrderId"`
}

type UpdateDraftFieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type Party struct {
	Id   int64  `json:"id"`
	Name string `json:"name"`
}

type Result struct {
	ResultValue string `json:"resultValue"`
	ResultUnit  string `json:"resultUnit"`
	ResultFlag  string `json:"resultFlag"`
	Notes       string `json:"notes"`
}

type TestRow struct {
	OrderTestId int64  `json:"orderTestId"`
	TestId      int64  `json:"testId"`
	TestName    string `json:"testName"`
	Saved       Result `json:"saved"`
	Draft       Result `json:"draft"`
}

// Workspace is the review screen of an opened order.
type Workspace struct {
	WorkspaceId      string      `json:"workspaceId"`
	OpenedAt         time.Time   `json:"openedAt"`
	LabOrderId       int64       `json:"labOrderId"`
	Patient          Party       `json:"patient"`
	Doctor           Party       `json:"doctor"`
	OrderDate        time.Time   `json:"orderDate"`
	Status           string      `json:"status"`
	StatusLabel      string      `json:"statusLabel"`
	PaymentStatus    string      `json:"paymentStatus"`
	FinalAmount      json.Number `json:"finalAmount"`
	ReportUrl        string      `json:"reportUrl"`
	InvoiceUrl       string      `json:"invoiceUrl"`
	ScannedReportUrl string      `json:"scannedReportUrl,omitempty"`
	Tests            []TestRow   `json:"tests"`
}

type HistoryEntry struct {
	OrderDate   time.Time `json:"orderDate"`
	ResultValue string    `json:"resultValue"`
	ResultUnit  string    `json:"resultUnit"`
	ResultFlag  string    `json:"resultFlag"`
}

type TrendPoint struct {
	Label string   `json:"label"`
	Value *float64 `json:"value"`
}

type TestHistory struct {
	OrderTestId int64          `json:"orderTestId"`
	Entries     []HistoryEntry `json:"entries"`
	Trend       []TrendPoint   `json:"trend"`
}

type UploadResult struct {
	Uploaded         bool   `json:"uploaded"`
	ScannedReportUrl string `json:"scannedReportUrl,omitempty"`
}

type Notification struct {
	Level   string    `json:"level"`
	Action  string    `json:"action"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}
