package laborder

// ResultFlag marks a result against its reference range. The empty flag means
// no flag was recorded.
type ResultFlag string

const (
	FlagNone   ResultFlag = ""
	FlagNormal ResultFlag = "normal"
	FlagHigh   ResultFlag = "high"
	FlagLow    ResultFlag = "low"
)

// IsKnown reports whether the flag is one of the values offered to staff.
// Unknown flags are still accepted everywhere; no boundary validation is applied.
func (f ResultFlag) IsKnown() bool {
	switch f {
	case FlagNone, FlagNormal, FlagHigh, FlagLow:
		return true
	default:
		return false
	}
}

func (f ResultFlag) String() string {
	return string(f)
}

// Result holds the mutable result fields of an OrderTest.
type Result struct {
	Value string
	Unit  string
	Flag  ResultFlag
	Notes string
}

// IsEmpty reports whether nothing has been recorded yet.
func (r Result) IsEmpty() bool {
	return r == Result{}
}
