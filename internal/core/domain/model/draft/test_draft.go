package draft

import (
	"fmt"
	"strconv"

	"labconsole/internal/core/domain/model/laborder"
)

// TestDraft is the working copy of one OrderTest's result fields.
type TestDraft struct {
	orderTestID int64
	result      laborder.Result
}

// FromOrderTest copies the result of row. Absent notes already arrive as "".
func FromOrderTest(row laborder.OrderTest) TestDraft {
	return TestDraft{
		orderTestID: row.ID(),
		result:      row.Result(),
	}
}

// OrderTestID returns the row the draft belongs to.
func (d TestDraft) OrderTestID() int64 {
	return d.orderTestID
}

// Result returns the draft's current field values.
func (d TestDraft) Result() laborder.Result {
	return d.result
}

// Value returns a single field.
func (d TestDraft) Value(field Field) (string, error) {
	if err := field.Validate(); err != nil {
		return "", err
	}

	switch field {
	case FieldResultValue:
		return d.result.Value, nil
	case FieldResultUnit:
		return d.result.Unit, nil
	case FieldResultFlag:
		return string(d.result.Flag), nil
	default:
		return d.result.Notes, nil
	}
}

// With returns a copy of d with field set to value. Values are not validated.
func (d TestDraft) With(field Field, value string) (TestDraft, error) {
	if err := field.Validate(); err != nil {
		return TestDraft{}, err
	}

	next := d
	switch field {
	case FieldResultValue:
		next.result.Value = value
	case FieldResultUnit:
		next.result.Unit = value
	case FieldResultFlag:
		next.result.Flag = laborder.ResultFlag(value)
	case FieldNotes:
		next.result.Notes = value
	}
	return next, nil
}

// Fingerprint identifies the draft's exact content. Two drafts with the same
// fingerprint would produce identical persistence calls.
func (d TestDraft) Fingerprint() string {
	return fmt.Sprintf("%d|%s|%s|%s|%s",
		d.orderTestID,
		strconv.Quote(d.result.Value),
		strconv.Quote(d.result.Unit),
		strconv.Quote(string(d.result.Flag)),
		strconv.Quote(d.result.Notes),
	)
}
