package ports

import (
	"io"

	"labconsole/internal/core/domain/model/history"
)

// TrendRenderer draws a trend as a standalone document.
type TrendRenderer interface {
	RenderTrend(w io.Writer, title string, trend history.Trend) error
}
