package history

import (
	"regexp"
	"strconv"
	"strings"
)

// LabelLayout formats orderDate on the trend's label axis.
const LabelLayout = "2006-01-02"

// Point is one sample of a trend. Valid is false when the result value has no
// numeric prefix; such points are rendered as gaps.
type Point struct {
	Label string
	Value float64
	Valid bool
}

// Trend is the numeric view of a Series, in series order.
type Trend struct {
	Points []Point
}

// Labels returns the label axis.
func (t Trend) Labels() []string {
	labels := make([]string, 0, len(t.Points))
	for _, p := range t.Points {
		labels = append(labels, p.Label)
	}
	return labels
}

// BuildTrend derives a Trend from s. It returns false when s has one entry or
// fewer; no trend is produced in that case.
func BuildTrend(s Series) (Trend, bool) {
	if !s.HasTrend() {
		return Trend{}, false
	}

	points := make([]Point, 0, len(s))
	for _, e := range s {
		value, ok := ParseLeadingFloat(e.ResultValue)
		points = append(points, Point{
			Label: e.OrderDate.Format(LabelLayout),
			Value: value,
			Valid: ok,
		})
	}
	return Trend{Points: points}, true
}

var leadingFloat = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// ParseLeadingFloat reads the longest numeric prefix of s, so "5.2 mmol/L"
// yields 5.2 and "<0.5" yields false. Leading whitespace is ignored.
func ParseLeadingFloat(s string) (float64, bool) {
	s = strings.TrimLeft(s, " \t\r\n")
	match := leadingFloat.FindString(s)
	if match == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
