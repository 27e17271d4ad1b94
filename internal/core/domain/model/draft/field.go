package draft

import (
	"fmt"

	"labconsole/internal/pkg/errs"
)

// Field names one editable result field of a draft.
type Field string

const (
	FieldResultValue Field = "resultValue"
	FieldResultUnit  Field = "resultUnit"
	FieldResultFlag  Field = "resultFlag"
	FieldNotes       Field = "notes"
)

// Fields lists the editable fields in display order.
func Fields() []Field {
	return []Field{FieldResultValue, FieldResultUnit, FieldResultFlag, FieldNotes}
}

// ParseField accepts the wire names used by the lab API.
func ParseField(s string) (Field, error) {
	f := Field(s)
	if err := f.Validate(); err != nil {
		return "", err
	}
	return f, nil
}

func (f Field) Validate() error {
	switch f {
	case FieldResultValue, FieldResultUnit, FieldResultFlag, FieldNotes:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("field", fmt.Errorf("%q is not an editable field", string(f)))
	}
}

func (f Field) String() string {
	return string(f)
}
