package report

import (
	"fmt"
	"image/color"
	"io"
	"strconv"

	"github.com/banshee-data/coaster.report/internal/kinematics"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func timeAxis(samples []kinematics.AccelerometerSample) []string {
	x := make([]string, len(samples))
	for i, s := range samples {
		x[i] = strconv.FormatFloat(s.Time, 'f', 2, 64)
	}
	return x
}

func accelerometerChart(samples []kinematics.AccelerometerSample, title string) *charts.Line {
	lat := make([]opts.LineData, len(samples))
	vert := make([]opts.LineData, len(samples))
	long := make([]opts.LineData, len(samples))
	for i, s := range samples {
		lat[i] = opts.LineData{Value: s.Lateral}
		vert[i] = opts.LineData{Value: s.Vertical}
		long[i] = opts.LineData{Value: s.Longitudinal}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("samples=%d duration=%.2fs", len(samples), samples[len(samples)-1].Time)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time (s)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Acceleration (g)", NameLocation: "middle", NameGap: 30}),
	)
	line.SetXAxis(timeAxis(samples)).
		AddSeries("lateral", lat, charts.WithItemStyleOpts(opts.ItemStyle{Color: hexColor(lateralColor)})).
		AddSeries("vertical", vert, charts.WithItemStyleOpts(opts.ItemStyle{Color: hexColor(verticalColor)})).
		AddSeries("longitudinal", long, charts.WithItemStyleOpts(opts.ItemStyle{Color: hexColor(longitudinalColor)}))
	return line
}

func speedChart(res *kinematics.Result) *charts.Line {
	speed := make([]opts.LineData, len(res.Motion.Speed))
	for i, v := range res.Motion.Speed {
		speed[i] = opts.LineData{Value: v}
	}
	subtitle := fmt.Sprintf("model=%s peak=%.1f m/s", res.Model, res.PeakSpeed())
	if res.Stalled {
		subtitle += fmt.Sprintf(" stalled at sample %d", res.StallIndex)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "320px"}),
		charts.WithTitleOpts(opts.Title{Title: "Speed", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time (s)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Speed (m/s)", NameLocation: "middle", NameGap: 30}),
	)
	line.SetXAxis(timeAxis(res.Samples)).AddSeries("speed", speed)
	return line
}

// RenderHTML writes a standalone HTML page with an interactive accelerometer
// chart.
func RenderHTML(w io.Writer, samples []kinematics.AccelerometerSample, title string) error {
	if len(samples) == 0 {
		return ErrNoSamples
	}
	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(accelerometerChart(samples, title))
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render accelerometer chart: %w", err)
	}
	return nil
}

// RenderRideHTML is RenderHTML plus the speed profile of the ride.
func RenderRideHTML(w io.Writer, res *kinematics.Result, title string) error {
	if res == nil || len(res.Samples) == 0 {
		return ErrNoSamples
	}
	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(accelerometerChart(res.Samples, title), speedChart(res))
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render ride charts: %w", err)
	}
	return nil
}
