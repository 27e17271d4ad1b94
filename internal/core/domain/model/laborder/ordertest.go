package laborder

import (
	"fmt"

	"labconsole/internal/pkg/errs"
)

// OrderTest is one requested test of a LabOrder together with its recorded result.
// It is owned by the order and never exists on its own.
type OrderTest struct {
	id     int64
	test   TestDefinition
	result Result
}

// NewOrderTest creates an OrderTest. Result fields are taken as-is.
func NewOrderTest(id int64, test TestDefinition, result Result) (OrderTest, error) {
	if id <= 0 {
		return OrderTest{}, errs.NewValueIsInvalidErrorWithCause("orderTestId", fmt.Errorf("%d is not greater than 0", id))
	}
	if test.ID <= 0 {
		return OrderTest{}, errs.NewValueIsRequiredError("test")
	}
	return OrderTest{id: id, test: test, result: result}, nil
}

// ID returns the orderTestId.
func (t OrderTest) ID() int64 {
	return t.id
}

// Test returns the test definition.
func (t OrderTest) Test() TestDefinition {
	return t.test
}

// Result returns the recorded result fields.
func (t OrderTest) Result() Result {
	return t.result
}
