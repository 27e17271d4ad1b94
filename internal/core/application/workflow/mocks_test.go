package workflow_test

import (
	"context"
	"testing"
	"time"

	"labconsole/internal/core/domain/model/draft"
	"labconsole/internal/core/domain/model/history"
	"labconsole/internal/core/domain/model/laborder"
	"labconsole/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Get(ctx context.Context, labOrderID int64) (*laborder.LabOrder, error) {
	args := m.Called(ctx, labOrderID)
	order, _ := args.Get(0).(*laborder.LabOrder)
	return order, args.Error(1)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *laborder.LabOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

type MockResultRepository struct{ mock.Mock }

func (m *MockResultRepository) UpdateResult(ctx context.Context, d draft.TestDraft) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

type MockHistoryProvider struct{ mock.Mock }

func (m *MockHistoryProvider) TestHistory(ctx context.Context, patientID, testID int64) (history.Series, error) {
	args := m.Called(ctx, patientID, testID)
	series, _ := args.Get(0).(history.Series)
	return series, args.Error(1)
}

type MockReportingGateway struct{ mock.Mock }

func (m *MockReportingGateway) FetchReport(ctx context.Context, labOrderID int64) (ports.ReportFile, error) {
	args := m.Called(ctx, labOrderID)
	report, _ := args.Get(0).(ports.ReportFile)
	return report, args.Error(1)
}

func (m *MockReportingGateway) SendReport(ctx context.Context, labOrderID int64) error {
	return m.Called(ctx, labOrderID).Error(0)
}

func (m *MockReportingGateway) ForwardToDoctor(ctx context.Context, labOrderID int64) error {
	return m.Called(ctx, labOrderID).Error(0)
}

func (m *MockReportingGateway) UploadScannedReport(ctx context.Context, labOrderID int64, doc ports.ScannedDocument) (string, error) {
	args := m.Called(ctx, labOrderID, doc)
	return args.String(0), args.Error(1)
}

func (m *MockReportingGateway) InvoiceURL(labOrderID int64) string {
	return m.Called(labOrderID).String(0)
}

func (m *MockReportingGateway) ReportURL(labOrderID int64) string {
	return m.Called(labOrderID).String(0)
}

func (m *MockReportingGateway) AssetURL(path string) string {
	return m.Called(path).String(0)
}

const (
	testOrderID   = int64(7)
	testPatientID = int64(10)
	testTestID    = int64(3)
)

// newLabOrder builds order 7 for patient 10 with one Glucose row per id.
func newLabOrder(t *testing.T, status laborder.Status, orderTestIDs ...int64) *laborder.LabOrder {
	t.Helper()

	glucose, err := laborder.NewTestDefinition(testTestID, "Glucose")
	require.NoError(t, err)

	rows := make([]laborder.OrderTest, 0, len(orderTestIDs))
	for _, id := range orderTestIDs {
		row, err := laborder.NewOrderTest(id, glucose, laborder.Result{})
		require.NoError(t, err)
		rows = append(rows, row)
	}

	patient, err := laborder.NewParty(testPatientID, "Jane Roe")
	require.NoError(t, err)
	doctor, err := laborder.NewParty(2, "Dr. House")
	require.NoError(t, err)

	order, err := laborder.RestoreLabOrder(
		testOrderID, patient, doctor,
		time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		status, laborder.PaymentPaid, decimal.RequireFromString("120.50"),
		"", rows,
	)
	require.NoError(t, err)
	return order
}

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func lastNotification(t *testing.T, notifications []ports.Notification) ports.Notification {
	t.Helper()
	require.NotEmpty(t, notifications)
	return notifications[len(notifications)-1]
}
