// Package plot renders the QC timeseries PNGs that accompany each report.
// Reference lines mark the operational comfort bounds so a reviewer can see
// excursions without reading the numbers.
package plot

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/aerosurvey/probe-qc/internal/domain"
)

var (
	refPurple = color.RGBA{R: 128, B: 128, A: 255}
	refRed    = color.RGBA{R: 255, A: 255}
)

// RefLine is a horizontal dashed marker at a fixed channel value.
type RefLine struct {
	Y     float64
	Color color.Color
}

// Timeseries renders one channel against time of day as PNG bytes. NaN
// samples (smoothing warmup) are dropped from the line.
func Timeseries(times []time.Duration, values []float64, title, yLabel string, refs []RefLine) ([]byte, error) {
	if len(times) == 0 || len(times) != len(values) {
		return nil, fmt.Errorf("timeseries %q: %d times vs %d values", title, len(times), len(values))
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time of day (hours)"
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, 0, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		pts = append(pts, plotter.XY{X: times[i].Hours(), Y: v})
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("timeseries %q: no defined samples", title)
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("timeseries %q: %w", title, err)
	}
	line.LineStyle.Width = vg.Points(1)
	line.Color = color.RGBA{B: 255, A: 255}
	p.Add(line)

	xMin := pts[0].X
	xMax := pts[len(pts)-1].X
	for _, ref := range refs {
		rl, err := plotter.NewLine(plotter.XYs{{X: xMin, Y: ref.Y}, {X: xMax, Y: ref.Y}})
		if err != nil {
			return nil, fmt.Errorf("timeseries %q reference line: %w", title, err)
		}
		rl.Color = ref.Color
		rl.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
		p.Add(rl)
	}

	writer, err := p.WriterTo(vg.Points(900), vg.Points(450), "png")
	if err != nil {
		return nil, fmt.Errorf("timeseries %q: %w", title, err)
	}
	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("timeseries %q: %w", title, err)
	}
	return buf.Bytes(), nil
}

// WriteWeatherPlots writes the standard meteorological timeseries PNGs next
// to the report: temperature, wind speed, pressure, humidity, and altitude.
// stem is the report path without extension.
func WriteWeatherPlots(stem string, series domain.Series) error {
	times := series.Times()
	windSpeed := domain.WindSpeed(series.Channel(domain.ChannelUw), series.Channel(domain.ChannelVw))

	charts := []struct {
		suffix string
		values []float64
		yLabel string
		refs   []RefLine
	}{
		{"_temp_timeseries.png", series.Channel(domain.ChannelTemp), "Temperature deg C",
			[]RefLine{{Y: 20, Color: refPurple}}},
		{"_windspeed_timeseries.png", windSpeed, "Wind Speed m/s",
			[]RefLine{{Y: 6.7, Color: refPurple}, {Y: 27, Color: refRed}}},
		{"_pressure_timeseries.png", series.Channel(domain.ChannelPressure), "Pressure (Pa)",
			[]RefLine{{Y: 90000, Color: refPurple}}},
		{"_humidity_timeseries.png", series.Channel(domain.ChannelRH), "Humidity %", nil},
		{"_altitude_timeseries.png", series.Channel(domain.ChannelAltitude), "MSL Altitude", nil},
	}

	for _, c := range charts {
		path := stem + c.suffix
		png, err := Timeseries(times, c.values, filepath.Base(path), c.yLabel, c.refs)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, png, 0o644); err != nil {
			return fmt.Errorf("write plot: %w", err)
		}
	}
	return nil
}

// WriteSolarPlot writes the irradiance timeseries PNG with the 600 micromole
// reference line. stem is the report path without extension.
func WriteSolarPlot(stem string, series domain.SolarSeries) error {
	path := stem + "_solar_timeseries_plot.png"
	png, err := Timeseries(series.Times(), series.Values(), filepath.Base(path),
		"Solar Irradiation", []RefLine{{Y: 600, Color: refPurple}})
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return fmt.Errorf("write plot: %w", err)
	}
	return nil
}
