package restaurante

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	QuantityChartFile = "top_qty_products.png"
	TicketChartFile   = "top_ticket_products.png"

	ChartTopN = 7
	ChartDPI  = 160
)

var (
	chartWidth  = 9 * vg.Inch
	chartHeight = 5 * vg.Inch
	barColor    = color.RGBA{R: 31, G: 119, B: 180, A: 255}
)

// BarSeries is the data of one horizontal bar chart. Index 0 is drawn at the
// bottom of the chart.
type BarSeries struct {
	Title  string
	XLabel string
	Labels []string
	Values []float64
}

// QuantitySeries keeps the n best sellers and reverses them so the largest
// bar ends up on top.
func QuantitySeries(ranking []ProductQuantity, n int) BarSeries {
	top := ranking[:min(n, len(ranking))]
	s := BarSeries{
		Title:  "Top produtos por quantidade (Prato do Dia)",
		XLabel: "Unidades vendidas",
	}
	for i := len(top) - 1; i >= 0; i-- {
		s.Labels = append(s.Labels, top[i].Name)
		s.Values = append(s.Values, float64(top[i].Quantity))
	}
	return s
}

// TicketSeries keeps the n highest average tickets, reversed like
// QuantitySeries.
func TicketSeries(ranking []ProductTicket, n int) BarSeries {
	top := ranking[:min(n, len(ranking))]
	s := BarSeries{
		Title:  "Top produtos por ticket médio (Item Gourmet)",
		XLabel: "Ticket médio por pedido (R$)",
	}
	for i := len(top) - 1; i >= 0; i-- {
		s.Labels = append(s.Labels, top[i].Name)
		s.Values = append(s.Values, top[i].Ticket.InexactFloat64())
	}
	return s
}

// RenderBarChart draws s as a horizontal bar chart and encodes it as PNG.
func RenderBarChart(w io.Writer, s BarSeries) error {
	if len(s.Values) == 0 {
		return errors.New("chart has no bars")
	}

	p := plot.New()
	p.Title.Text = s.Title
	p.X.Label.Text = s.XLabel
	p.X.Min = 0

	bars, err := plotter.NewBarChart(plotter.Values(s.Values), vg.Points(20))
	if err != nil {
		return fmt.Errorf("failed to build bar chart: %w", err)
	}
	bars.Horizontal = true
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalY(s.Labels...)

	c := vgimg.NewWith(vgimg.UseWH(chartWidth, chartHeight), vgimg.UseDPI(ChartDPI))
	p.Draw(draw.New(c))
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// WriteCharts renders both ranking charts into dir and returns their paths.
func WriteCharts(dir string, story *Story) ([]string, error) {
	charts := []struct {
		file   string
		series BarSeries
	}{
		{QuantityChartFile, QuantitySeries(story.Quantities, ChartTopN)},
		{TicketChartFile, TicketSeries(story.Tickets, ChartTopN)},
	}

	paths := make([]string, 0, len(charts))
	for _, ch := range charts {
		path := filepath.Join(dir, ch.file)
		if err := writeChart(path, ch.series); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", ch.file, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeChart(path string, s BarSeries) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := RenderBarChart(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
