package report

import (
	"github.com/Recrutamentebr/recrutamente-sub000/internal/domain/scoring"
)

const (
	chartRowHeight   = 30
	chartBarHeight   = 16
	chartLabelWidth  = 130
	chartValueWidth  = 40
	chartEmptyHeight = 30
)

type chartBar struct {
	Label      string
	Value      int
	Color      string
	Y          float64
	TextY      float64
	TrackX     float64
	TrackWidth float64
	Width      float64
	BarHeight  float64
	ValueX     float64
}

type chartView struct {
	Width  float64
	Height float64
	Bars   []chartBar
}

// newChartView lays out a horizontal bar chart of ds inside width pixels.
func newChartView(ds scoring.ChartDataset, width float64) chartView {
	v := chartView{Width: width, Height: chartEmptyHeight}
	track := width - chartLabelWidth - chartValueWidth
	if track < 0 {
		track = 0
	}
	maxValue := float64(ds.Max)
	if maxValue <= 0 {
		maxValue = 100
	}
	for i, label := range ds.Labels {
		value := 0
		if i < len(ds.Values) {
			value = ds.Values[i]
		}
		y := float64(i*chartRowHeight) + (chartRowHeight-chartBarHeight)/2
		v.Bars = append(v.Bars, chartBar{
			Label:      label,
			Value:      value,
			Color:      barColor(value),
			Y:          y,
			TextY:      y + chartBarHeight - 3,
			TrackX:     chartLabelWidth,
			TrackWidth: track,
			Width:      track * clamp(float64(value)/maxValue),
			BarHeight:  chartBarHeight,
			ValueX:     chartLabelWidth + track + 8,
		})
	}
	if len(v.Bars) > 0 {
		v.Height = float64(len(v.Bars) * chartRowHeight)
	}
	return v
}

func barColor(value int) string {
	switch {
	case value >= scoring.HighlyQualifiedThreshold:
		return "#2f8132"
	case value >= scoring.GoodPotentialThreshold:
		return "#0b5ed7"
	case value >= scoring.PartiallyAlignedThreshold:
		return "#cb6e17"
	default:
		return "#ba2525"
	}
}

func clamp(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
