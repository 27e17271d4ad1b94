// Package chart renders history trends as standalone HTML line charts.
package chart

import (
	"io"

	"labconsole/internal/core/domain/model/history"
	"labconsole/internal/core/ports"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// gap is the value echarts treats as a missing sample.
const gap = "-"

var _ ports.TrendRenderer = LineRenderer{}

// LineRenderer draws one smoothed line per trend. Points without a numeric
// value are left as gaps in the line.
type LineRenderer struct {
	// Unit is shown as the y-axis name when set.
	Unit string
}

func NewLineRenderer() LineRenderer {
	return LineRenderer{}
}

func (r LineRenderer) RenderTrend(w io.Writer, title string, trend history.Trend) error {
	data := make([]opts.LineData, 0, len(trend.Points))
	for _, p := range trend.Points {
		if p.Valid {
			data = append(data, opts.LineData{Value: p.Value})
			continue
		}
		data = append(data, opts.LineData{Value: gap})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: r.Unit,
		}),
	)

	line.SetXAxis(trend.Labels()).
		AddSeries(title, data).
		SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{
				Smooth:     opts.Bool(true),
				ShowSymbol: opts.Bool(true),
			}),
		)

	return line.Render(w)
}
