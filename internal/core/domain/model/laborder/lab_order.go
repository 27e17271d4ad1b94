package laborder

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"labconsole/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrLabOrderIsNotConstructed is returned when a LabOrder was not created through
	// NewLabOrder or RestoreLabOrder.
	ErrLabOrderIsNotConstructed = errors.New("LabOrder must be created via NewLabOrder or RestoreLabOrder constructor")
)

// LabOrder is a laboratory order for one patient containing one or more requested tests.
// It is the aggregate root of the review workflow.
//
// LabOrder follows these invariants:
//   - labOrderId is positive
//   - patient and doctor are set
//   - at least one OrderTest is present and orderTestIds are unique
//   - the order of OrderTests is fixed at construction
//
// LabOrder values handed out by the workflow are never mutated in place; Clone
// returns an independent copy that can be changed and persisted.
type LabOrder struct {
	// id is the labOrderId assigned by the lab backend
	id int64

	patient Party
	doctor  Party

	// orderDate is when the order was registered
	orderDate time.Time

	status        Status
	paymentStatus PaymentStatus
	finalAmount   decimal.Decimal

	// scannedReportPath is the backend-relative path of the uploaded scan, empty if none
	scannedReportPath string

	// tests keeps the row order received from the backend
	tests []OrderTest

	// source is the document the order was decoded from. It is opaque to the
	// domain and never modified, so a write-back can keep fields not modelled here.
	source []byte

	isConstructed bool
}

// NewLabOrder creates a pending, unpaid order.
//
// Example:
//
//	glucose, _ := laborder.NewTestDefinition(3, "Glucose")
//	row, _ := laborder.NewOrderTest(1, glucose, laborder.Result{})
//	order, err := laborder.NewLabOrder(7, patient, doctor, time.Now(), decimal.NewFromInt(40), []laborder.OrderTest{row})
func NewLabOrder(
	id int64,
	patient, doctor Party,
	orderDate time.Time,
	finalAmount decimal.Decimal,
	tests []OrderTest,
) (*LabOrder, error) {
	return RestoreLabOrder(id, patient, doctor, orderDate, Pending, PaymentPending, finalAmount, "", tests)
}

// RestoreLabOrder rebuilds an order from persistence or from the lab API with
// full validation of every field.
func RestoreLabOrder(
	id int64,
	patient, doctor Party,
	orderDate time.Time,
	status Status,
	paymentStatus PaymentStatus,
	finalAmount decimal.Decimal,
	scannedReportPath string,
	tests []OrderTest,
) (*LabOrder, error) {
	order := &LabOrder{
		orderDate:         orderDate,
		finalAmount:       finalAmount,
		scannedReportPath: scannedReportPath,
		isConstructed:     true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setParties(patient, doctor),
		order.setStatus(status),
		order.setPaymentStatus(paymentStatus),
		order.setTests(tests),
	); err != nil {
		return nil, err
	}

	return order, nil
}

// Validate ensures the LabOrder instance was properly constructed.
func (o *LabOrder) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrLabOrderIsNotConstructed
	}
	return nil
}

// ID returns the labOrderId.
func (o *LabOrder) ID() int64 {
	return o.id
}

// Patient returns the patient the order belongs to.
func (o *LabOrder) Patient() Party {
	return o.patient
}

// Doctor returns the referring doctor.
func (o *LabOrder) Doctor() Party {
	return o.doctor
}

func (o *LabOrder) OrderDate() time.Time {
	return o.orderDate
}

func (o *LabOrder) Status() Status {
	return o.status
}

func (o *LabOrder) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

func (o *LabOrder) FinalAmount() decimal.Decimal {
	return o.finalAmount
}

// ScannedReportPath returns the path of the uploaded scan, or "" if none was uploaded.
func (o *LabOrder) ScannedReportPath() string {
	return o.scannedReportPath
}

// Tests returns a copy of the order's tests in their stable order.
func (o *LabOrder) Tests() []OrderTest {
	return slices.Clone(o.tests)
}

// Test looks up a row by orderTestId.
func (o *LabOrder) Test(orderTestID int64) (OrderTest, bool) {
	idx := slices.IndexFunc(o.tests, func(t OrderTest) bool { return t.id == orderTestID })
	if idx < 0 {
		return OrderTest{}, false
	}
	return o.tests[idx], true
}

// Clone returns a deep copy that shares no mutable state with o.
func (o *LabOrder) Clone() *LabOrder {
	clone := *o
	clone.tests = slices.Clone(o.tests)
	return &clone
}

// AttachSource records the raw document the order was decoded from.
func (o *LabOrder) AttachSource(raw []byte) {
	o.source = slices.Clone(raw)
}

// Source returns the document recorded by AttachSource, or nil.
func (o *LabOrder) Source() []byte {
	return o.source
}

// MarkComplete finalizes the order. See Status.Finalize for the transition rules.
func (o *LabOrder) MarkComplete() {
	o.status = o.status.Finalize()
}

// ReplaceScannedReportPath records the location of a newly uploaded scan.
func (o *LabOrder) ReplaceScannedReportPath(path string) error {
	if path == "" {
		return errs.NewValueIsRequiredError("scannedReportPath")
	}
	o.scannedReportPath = path
	return nil
}

func (o *LabOrder) setID(id int64) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("labOrderId", fmt.Errorf("%d is not greater than 0", id))
	}
	o.id = id
	return nil
}

func (o *LabOrder) setParties(patient, doctor Party) error {
	if patient.ID <= 0 {
		return errs.NewValueIsRequiredError("patient")
	}
	if doctor.ID <= 0 {
		return errs.NewValueIsRequiredError("doctor")
	}
	o.patient = patient
	o.doctor = doctor
	return nil
}

func (o *LabOrder) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *LabOrder) setPaymentStatus(paymentStatus PaymentStatus) error {
	if err := paymentStatus.Validate(); err != nil {
		return err
	}
	o.paymentStatus = paymentStatus
	return nil
}

// setTests copies the rows and rejects empty or duplicated ids.
func (o *LabOrder) setTests(tests []OrderTest) error {
	if len(tests) == 0 {
		return errs.NewValueIsRequiredError("orderTests")
	}

	seen := make(map[int64]struct{}, len(tests))
	for _, t := range tests {
		if t.id <= 0 {
			return errs.NewValueIsInvalidErrorWithCause("orderTests", errors.New("OrderTest must be created via NewOrderTest"))
		}
		if _, dup := seen[t.id]; dup {
			return errs.NewValueIsInvalidErrorWithCause("orderTests", fmt.Errorf("duplicate orderTestId %d", t.id))
		}
		seen[t.id] = struct{}{}
	}

	o.tests = slices.Clone(tests)
	return nil
}
