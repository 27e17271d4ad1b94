package labapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"labconsole/internal/core/domain/model/draft"
	"labconsole/internal/core/domain/model/history"
	"labconsole/internal/core/domain/model/laborder"

	"github.com/shopspring/decimal"
)

// timestamp accepts the date formats the backend emits, with or without a zone.
type timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

func (t *timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unsupported timestamp %q", s)
}

func (t timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// amount is written as a JSON number; decimal.Decimal would quote it.
type amount struct {
	decimal.Decimal
}

func (a amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// nullableString maps JSON null to "" and "" back to null.
type nullableString string

func (s nullableString) MarshalJSON() ([]byte, error) {
	if s == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

func (s *nullableString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = nullableString(v)
	return nil
}

type patientDTO struct {
	PatientID int64          `json:"patientId"`
	Name      nullableString `json:"name"`
}

type doctorDTO struct {
	DoctorID int64          `json:"doctorId"`
	Name     nullableString `json:"name"`
}

type testDTO struct {
	TestID int64          `json:"testId"`
	Name   nullableString `json:"name"`
}

type orderTestDTO struct {
	OrderTestID int64          `json:"orderTestId"`
	Test        testDTO        `json:"test"`
	ResultValue nullableString `json:"resultValue"`
	ResultUnit  nullableString `json:"resultUnit"`
	ResultFlag  nullableString `json:"resultFlag"`
	Notes       nullableString `json:"notes"`
}

type labOrderDTO struct {
	LabOrderID        int64          `json:"labOrderId"`
	Patient           patientDTO     `json:"patient"`
	Doctor            doctorDTO      `json:"doctor"`
	OrderDate         timestamp      `json:"orderDate"`
	Status            string         `json:"status"`
	PaymentStatus     string         `json:"paymentStatus"`
	FinalAmount       amount         `json:"finalAmount"`
	ScannedReportPath nullableString `json:"scannedReportPath"`
	OrderTests        []orderTestDTO `json:"orderTests"`
}

// testResultDTO is the body of PUT /api/OrderTest/{orderTestId}.
type testResultDTO struct {
	OrderTestID int64          `json:"orderTestId"`
	ResultValue nullableString `json:"resultValue"`
	ResultUnit  nullableString `json:"resultUnit"`
	ResultFlag  nullableString `json:"resultFlag"`
	Notes       nullableString `json:"notes"`
}

type historyEntryDTO struct {
	OrderDate   timestamp      `json:"orderDate"`
	ResultValue nullableString `json:"resultValue"`
	ResultUnit  nullableString `json:"resultUnit"`
	ResultFlag  nullableString `json:"resultFlag"`
}

type uploadResponseDTO struct {
	ScannedReportPath string `json:"scannedReportPath"`
	Path              string `json:"path"`
}

func (d labOrderDTO) toDomain() (*laborder.LabOrder, error) {
	patient, err := laborder.NewParty(d.Patient.PatientID, string(d.Patient.Name))
	if err != nil {
		return nil, err
	}
	doctor, err := laborder.NewParty(d.Doctor.DoctorID, string(d.Doctor.Name))
	if err != nil {
		return nil, err
	}
	status, err := laborder.ParseStatus(d.Status)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := laborder.ParsePaymentStatus(d.PaymentStatus)
	if err != nil {
		return nil, err
	}

	tests := make([]laborder.OrderTest, 0, len(d.OrderTests))
	for _, t := range d.OrderTests {
		definition, err := laborder.NewTestDefinition(t.Test.TestID, string(t.Test.Name))
		if err != nil {
			return nil, err
		}
		row, err := laborder.NewOrderTest(t.OrderTestID, definition, laborder.Result{
			Value: string(t.ResultValue),
			Unit:  string(t.ResultUnit),
			Flag:  laborder.ResultFlag(t.ResultFlag),
			Notes: string(t.Notes),
		})
		if err != nil {
			return nil, err
		}
		tests = append(tests, row)
	}

	return laborder.RestoreLabOrder(
		d.LabOrderID,
		patient,
		doctor,
		d.OrderDate.Time,
		status,
		paymentStatus,
		d.FinalAmount.Decimal,
		string(d.ScannedReportPath),
		tests,
	)
}

// overlaySource returns the document the order was fetched as, with status
// and an uploaded scannedReportPath taken from o. Every other field, unknown
// ones and nulls included, goes back exactly as the backend sent it.
func overlaySource(o *laborder.LabOrder) (map[string]json.RawMessage, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(o.Source(), &doc); err != nil {
		return nil, fmt.Errorf("decode lab order %d source: %w", o.ID(), err)
	}
	if doc == nil {
		return nil, fmt.Errorf("lab order %d source is not an object", o.ID())
	}

	status, err := json.Marshal(o.Status().String())
	if err != nil {
		return nil, err
	}
	doc["status"] = status

	if path := o.ScannedReportPath(); path != "" {
		if doc["scannedReportPath"], err = json.Marshal(path); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// labOrderToDTO serializes an order that has no fetched source.
func labOrderToDTO(o *laborder.LabOrder) labOrderDTO {
	dto := labOrderDTO{
		LabOrderID:        o.ID(),
		Patient:           patientDTO{PatientID: o.Patient().ID, Name: nullableString(o.Patient().Name)},
		Doctor:            doctorDTO{DoctorID: o.Doctor().ID, Name: nullableString(o.Doctor().Name)},
		OrderDate:         timestamp{o.OrderDate()},
		Status:            o.Status().String(),
		PaymentStatus:     o.PaymentStatus().String(),
		FinalAmount:       amount{o.FinalAmount()},
		ScannedReportPath: nullableString(o.ScannedReportPath()),
		OrderTests:        make([]orderTestDTO, 0, len(o.Tests())),
	}

	for _, row := range o.Tests() {
		r := row.Result()
		dto.OrderTests = append(dto.OrderTests, orderTestDTO{
			OrderTestID: row.ID(),
			Test:        testDTO{TestID: row.Test().ID, Name: nullableString(row.Test().Name)},
			ResultValue: nullableString(r.Value),
			ResultUnit:  nullableString(r.Unit),
			ResultFlag:  nullableString(r.Flag),
			Notes:       nullableString(r.Notes),
		})
	}
	return dto
}

func testResultToDTO(d draft.TestDraft) testResultDTO {
	r := d.Result()
	return testResultDTO{
		OrderTestID: d.OrderTestID(),
		ResultValue: nullableString(r.Value),
		ResultUnit:  nullableString(r.Unit),
		ResultFlag:  nullableString(r.Flag.String()),
		Notes:       nullableString(r.Notes),
	}
}

func historyToDomain(entries []historyEntryDTO) history.Series {
	series := make(history.Series, 0, len(entries))
	for _, e := range entries {
		series = append(series, history.Entry{
			OrderDate:   e.OrderDate.Time,
			ResultValue: string(e.ResultValue),
			ResultUnit:  string(e.ResultUnit),
			ResultFlag:  laborder.ResultFlag(e.ResultFlag),
		})
	}
	return series
}
