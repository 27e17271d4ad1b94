package laborder

import (
	"fmt"

	"labconsole/internal/pkg/errs"
)

// Party identifies a patient or a referring doctor by backend id and display name.
type Party struct {
	ID   int64
	Name string
}

// NewParty validates that the id is positive.
func NewParty(id int64, name string) (Party, error) {
	if id <= 0 {
		return Party{}, errs.NewValueIsInvalidErrorWithCause("party id", fmt.Errorf("%d is not greater than 0", id))
	}
	return Party{ID: id, Name: name}, nil
}

// TestDefinition is the catalog entry of a lab test.
type TestDefinition struct {
	ID   int64
	Name string
}

// NewTestDefinition validates that the id is positive.
func NewTestDefinition(id int64, name string) (TestDefinition, error) {
	if id <= 0 {
		return TestDefinition{}, errs.NewValueIsInvalidErrorWithCause("test id", fmt.Errorf("%d is not greater than 0", id))
	}
	return TestDefinition{ID: id, Name: name}, nil
}
