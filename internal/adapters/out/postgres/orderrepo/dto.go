// Package orderrepo persists lab orders with gorm. Patients, doctors and the
// test catalog are stored in their own tables; every order row references
// its catalog test.
package orderrepo

import (
	"time"

	"labconsole/internal/core/domain/model/laborder"

	"github.com/shopspring/decimal"
)

type PatientDTO struct {
	ID   int64 `gorm:"primaryKey;autoIncrement:false"`
	Name string
}

func (PatientDTO) TableName() string {
	return "patients"
}

type DoctorDTO struct {
	ID   int64 `gorm:"primaryKey;autoIncrement:false"`
	Name string
}

func (DoctorDTO) TableName() string {
	return "doctors"
}

type TestDTO struct {
	ID   int64 `gorm:"primaryKey;autoIncrement:false"`
	Name string
}

func (TestDTO) TableName() string {
	return "tests"
}

// LabOrderDTO is the header of an order. Status and payment status are stored
// in their wire form.
type LabOrderDTO struct {
	ID                int64 `gorm:"primaryKey;autoIncrement:false"`
	PatientID         int64 `gorm:"index"`
	Patient           PatientDTO
	DoctorID          int64
	Doctor            DoctorDTO
	OrderDate         time.Time       `gorm:"index"`
	Status            string          `gorm:"size:16;not null"`
	PaymentStatus     string          `gorm:"size:16;not null"`
	FinalAmount       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	ScannedReportPath string
	OrderTests        []OrderTestDTO `gorm:"foreignKey:LabOrderID"`
}

func (LabOrderDTO) TableName() string {
	return "lab_orders"
}

// OrderTestDTO is one row of an order with its result fields.
type OrderTestDTO struct {
	ID          int64 `gorm:"primaryKey;autoIncrement:false"`
	LabOrderID  int64 `gorm:"index"`
	TestID      int64 `gorm:"index"`
	Test        TestDTO
	ResultValue string
	ResultUnit  string
	ResultFlag  string `gorm:"size:16"`
	Notes       string
}

func (OrderTestDTO) TableName() string {
	return "order_tests"
}

// Models lists the tables in dependency order.
func Models() []any {
	return []any{&PatientDTO{}, &DoctorDTO{}, &TestDTO{}, &LabOrderDTO{}, &OrderTestDTO{}}
}

func fromDomain(order *laborder.LabOrder) LabOrderDTO {
	dto := LabOrderDTO{
		ID:                order.ID(),
		PatientID:         order.Patient().ID,
		Patient:           PatientDTO{ID: order.Patient().ID, Name: order.Patient().Name},
		DoctorID:          order.Doctor().ID,
		Doctor:            DoctorDTO{ID: order.Doctor().ID, Name: order.Doctor().Name},
		OrderDate:         order.OrderDate(),
		Status:            order.Status().String(),
		PaymentStatus:     order.PaymentStatus().String(),
		FinalAmount:       order.FinalAmount(),
		ScannedReportPath: order.ScannedReportPath(),
	}

	for _, row := range order.Tests() {
		dto.OrderTests = append(dto.OrderTests, orderTestFromDomain(order.ID(), row))
	}
	return dto
}

func orderTestFromDomain(labOrderID int64, row laborder.OrderTest) OrderTestDTO {
	r := row.Result()
	return OrderTestDTO{
		ID:          row.ID(),
		LabOrderID:  labOrderID,
		TestID:      row.Test().ID,
		Test:        TestDTO{ID: row.Test().ID, Name: row.Test().Name},
		ResultValue: r.Value,
		ResultUnit:  r.Unit,
		ResultFlag:  r.Flag.String(),
		Notes:       r.Notes,
	}
}

func toDomain(dto LabOrderDTO) (*laborder.LabOrder, error) {
	patient, err := laborder.NewParty(dto.Patient.ID, dto.Patient.Name)
	if err != nil {
		return nil, err
	}
	doctor, err := laborder.NewParty(dto.Doctor.ID, dto.Doctor.Name)
	if err != nil {
		return nil, err
	}
	status, err := laborder.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := laborder.ParsePaymentStatus(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}

	tests := make([]laborder.OrderTest, 0, len(dto.OrderTests))
	for _, t := range dto.OrderTests {
		definition, err := laborder.NewTestDefinition(t.Test.ID, t.Test.Name)
		if err != nil {
			return nil, err
		}
		row, err := laborder.NewOrderTest(t.ID, definition, laborder.Result{
			Value: t.ResultValue,
			Unit:  t.ResultUnit,
			Flag:  laborder.ResultFlag(t.ResultFlag),
			Notes: t.Notes,
		})
		if err != nil {
			return nil, err
		}
		tests = append(tests, row)
	}

	return laborder.RestoreLabOrder(
		dto.ID,
		patient,
		doctor,
		dto.OrderDate,
		status,
		paymentStatus,
		dto.FinalAmount,
		dto.ScannedReportPath,
		tests,
	)
}
