// Package workflowtest provides an in-memory lab backend for exercising
// workspaces end to end without the network.
package workflowtest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"labconsole/internal/adapters/out/memory/historystore"
	"labconsole/internal/core/application/workflow"
	"labconsole/internal/core/domain/model/draft"
	"labconsole/internal/core/domain/model/history"
	"labconsole/internal/core/domain/model/laborder"
	"labconsole/internal/core/ports"
	"labconsole/internal/pkg/errs"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	OrderID   = int64(7)
	PatientID = int64(10)
	TestID    = int64(3)
	BaseURL   = "http://lab.test"
)

// Operation names accepted by Lab.Fail.
const (
	OpGet     = "get"
	OpUpdate  = "update"
	OpResult  = "result"
	OpHistory = "history"
	OpReport  = "report"
	OpSend    = "send"
	OpForward = "forward"
	OpUpload  = "upload"
)

// Lab is a thread-safe fake of every outbound lab port.
type Lab struct {
	mu        sync.Mutex
	orders    map[int64]*laborder.LabOrder
	histories map[[2]int64]history.Series
	results   []draft.TestDraft
	failures  map[string]error
	calls     map[string]int
	uploadTo  string
}

func NewLab() *Lab {
	return &Lab{
		orders:    make(map[int64]*laborder.LabOrder),
		histories: make(map[[2]int64]history.Series),
		failures:  make(map[string]error),
		calls:     make(map[string]int),
		uploadTo:  "/uploads/scan.pdf",
	}
}

// AddOrder stores a copy of order.
func (l *Lab) AddOrder(order *laborder.LabOrder) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.orders[order.ID()] = order.Clone()
}

// Order returns the stored copy of an order, or nil.
func (l *Lab) Order(id int64) *laborder.LabOrder {
	l.mu.Lock()
	defer l.mu.Unlock()
	if o, ok := l.orders[id]; ok {
		return o.Clone()
	}
	return nil
}

func (l *Lab) SetHistory(patientID, testID int64, series history.Series) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.histories[[2]int64{patientID, testID}] = series.Clone()
}

// SetUploadPath sets the path reported back by UploadScannedReport.
func (l *Lab) SetUploadPath(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.uploadTo = path
}

// Fail makes every later call of op return err. A nil err clears the failure.
func (l *Lab) Fail(op string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err == nil {
		delete(l.failures, op)
		return
	}
	l.failures[op] = err
}

// Calls returns how many times op was invoked.
func (l *Lab) Calls(op string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[op]
}

// Results returns every persisted draft in call order.
func (l *Lab) Results() []draft.TestDraft {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]draft.TestDraft(nil), l.results...)
}

func (l *Lab) enter(op string) error {
	l.calls[op]++
	return l.failures[op]
}

func (l *Lab) Get(_ context.Context, labOrderID int64) (*laborder.LabOrder, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.enter(OpGet); err != nil {
		return nil, err
	}
	o, ok := l.orders[labOrderID]
	if !ok {
		return nil, errs.NewObjectNotFoundError("labOrderId", labOrderID)
	}
	return o.Clone(), nil
}

func (l *Lab) Update(_ context.Context, order *laborder.LabOrder) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.enter(OpUpdate); err != nil {
		return err
	}
	l.orders[order.ID()] = order.Clone()
	return nil
}

func (l *Lab) UpdateResult(_ context.Context, d draft.TestDraft) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.enter(OpResult); err != nil {
		return err
	}
	l.results = append(l.results, d)
	return nil
}

func (l *Lab) TestHistory(_ context.Context, patientID, testID int64) (history.Series, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.enter(OpHistory); err != nil {
		return nil, err
	}
	return l.histories[[2]int64{patientID, testID}].Clone(), nil
}

func (l *Lab) FetchReport(_ context.Context, labOrderID int64) (ports.ReportFile, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.enter(OpReport); err != nil {
		return ports.ReportFile{}, err
	}
	return ports.ReportFile{
		ContentType: "application/pdf",
		Content:     fmt.Appendf(nil, "%%PDF report %d", labOrderID),
	}, nil
}

func (l *Lab) SendReport(_ context.Context, _ int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enter(OpSend)
}

func (l *Lab) ForwardToDoctor(_ context.Context, _ int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enter(OpForward)
}

func (l *Lab) UploadScannedReport(_ context.Context, labOrderID int64, _ ports.ScannedDocument) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.enter(OpUpload); err != nil {
		return "", err
	}
	if o, ok := l.orders[labOrderID]; ok && l.uploadTo != "" {
		_ = o.ReplaceScannedReportPath(l.uploadTo)
	}
	return l.uploadTo, nil
}

func (l *Lab) InvoiceURL(labOrderID int64) string {
	return fmt.Sprintf("%s/api/LabOrder/invoice/%d", BaseURL, labOrderID)
}

func (l *Lab) ReportURL(labOrderID int64) string {
	return fmt.Sprintf("%s/api/Report/%d", BaseURL, labOrderID)
}

func (l *Lab) AssetURL(path string) string {
	return BaseURL + path
}

// NewRegistry wires a registry to lab and an in-memory history store.
func NewRegistry(t *testing.T, lab *Lab, opts ...workflow.RegistryOption) *workflow.Registry {
	t.Helper()

	registry, err := workflow.NewRegistry(workflow.Dependencies{
		Orders:  lab,
		Results: lab,
		History: lab,
		Store:   historystore.NewStore(),
		Gateway: lab,
	}, zerolog.Nop(), opts...)
	require.NoError(t, err)
	return registry
}

// GlucoseOrder builds order OrderID for patient PatientID with one Glucose
// row per orderTestID.
func GlucoseOrder(t *testing.T, status laborder.Status, orderTestIDs ...int64) *laborder.LabOrder {
	t.Helper()

	glucose, err := laborder.NewTestDefinition(TestID, "Glucose")
	require.NoError(t, err)

	rows := make([]laborder.OrderTest, 0, len(orderTestIDs))
	for _, id := range orderTestIDs {
		row, err := laborder.NewOrderTest(id, glucose, laborder.Result{})
		require.NoError(t, err)
		rows = append(rows, row)
	}

	patient, err := laborder.NewParty(PatientID, "Jane Roe")
	require.NoError(t, err)
	doctor, err := laborder.NewParty(2, "Dr. House")
	require.NoError(t, err)

	order, err := laborder.RestoreLabOrder(
		OrderID, patient, doctor,
		time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		status, laborder.PaymentPaid, decimal.RequireFromString("120.50"),
		"", rows,
	)
	require.NoError(t, err)
	return order
}

// Day parses a YYYY-MM-DD date in UTC.
func Day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}
