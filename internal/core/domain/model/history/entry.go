package history

import (
	"slices"
	"time"

	"labconsole/internal/core/domain/model/laborder"
)

// Entry is one historical result. Entries are read-only and only ever come from the lab backend.
type Entry struct {
	OrderDate   time.Time
	ResultValue string
	ResultUnit  string
	ResultFlag  laborder.ResultFlag
}

// Series is the history of one test row in the order received from the backend.
// It is never re-sorted.
type Series []Entry

// Clone returns a copy that does not share the backing array.
func (s Series) Clone() Series {
	if s == nil {
		return nil
	}
	return slices.Clone(s)
}

// HasTrend reports whether enough entries exist to draw a trend.
func (s Series) HasTrend() bool {
	return len(s) > 1
}
