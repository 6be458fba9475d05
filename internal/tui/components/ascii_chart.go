package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/rgehrsitz/corpusplan/internal/tui/tuistyles"
)

const yAxisWidth = 10

// DataSeries represents a single line in a chart
type DataSeries struct {
	Name   string
	Points []float64
	Color  lipgloss.Color
}

// ASCIIChart plots one or more series against a shared money axis.
type ASCIIChart struct {
	Title      string
	Series     []*DataSeries
	Labels     []string // X-axis labels
	Width      int
	Height     int
	ShowLegend bool
	XAxisLabel string
}

// NewASCIIChart creates a new ASCII chart
func NewASCIIChart(title string) *ASCIIChart {
	return &ASCIIChart{
		Title:      title,
		Width:      60,
		Height:     15,
		ShowLegend: true,
	}
}

// NewCorpusChart plots the 5th, 50th and 95th percentile corpus of every
// tracked age.
func NewCorpusChart(track *domain.CorpusTrack) *ASCIIChart {
	n := len(track.Snapshots)
	p5 := make([]float64, n)
	p50 := make([]float64, n)
	p95 := make([]float64, n)
	labels := make([]string, n)
	for i, s := range track.Snapshots {
		p5[i], p50[i], p95[i] = s.P5, s.EndCorpus, s.P95
		labels[i] = fmt.Sprintf("%d", s.Age)
	}
	return NewASCIIChart("Corpus by age").
		AddSeries("95th pct", p95, tuistyles.ColorChartLine2).
		AddSeries("median", p50, tuistyles.ColorChartLine1).
		AddSeries("5th pct", p5, tuistyles.ColorChartLine3).
		WithLabels(labels).
		WithXAxisLabel("age")
}

// AddSeries adds a data series to the chart
func (c *ASCIIChart) AddSeries(name string, points []float64, color lipgloss.Color) *ASCIIChart {
	c.Series = append(c.Series, &DataSeries{Name: name, Points: points, Color: color})
	return c
}

// WithLabels sets the X-axis labels
func (c *ASCIIChart) WithLabels(labels []string) *ASCIIChart {
	c.Labels = labels
	return c
}

// WithSize sets the chart dimensions
func (c *ASCIIChart) WithSize(width, height int) *ASCIIChart {
	c.Width = width
	c.Height = height
	return c
}

// WithXAxisLabel sets the caption under the X axis.
func (c *ASCIIChart) WithXAxisLabel(label string) *ASCIIChart {
	c.XAxisLabel = label
	return c
}

// Render returns the styled chart
func (c *ASCIIChart) Render() string {
	if c.empty() {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	var content strings.Builder
	if c.Title != "" {
		content.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(c.Title))
		content.WriteString("\n\n")
	}

	minVal, maxVal := c.bounds()
	content.WriteString(c.renderGrid(minVal, maxVal))

	if c.XAxisLabel != "" {
		content.WriteString("\n")
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Italic(true).Render(c.XAxisLabel))
	}
	if c.ShowLegend && len(c.Series) > 1 {
		content.WriteString("\n\n")
		content.WriteString(c.renderLegend())
	}
	return content.String()
}

func (c *ASCIIChart) empty() bool {
	for _, s := range c.Series {
		if len(s.Points) > 0 {
			return false
		}
	}
	return true
}

// bounds returns the value range of all series. The floor is zero since a
// corpus never goes negative; a flat range is widened so it can be scaled.
func (c *ASCIIChart) bounds() (float64, float64) {
	maxVal := 0.0
	for _, s := range c.Series {
		for _, p := range s.Points {
			maxVal = max(maxVal, p)
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}
	return 0, maxVal * 1.05
}

func (c *ASCIIChart) renderGrid(minVal, maxVal float64) string {
	chartWidth := max(c.Width-yAxisWidth-3, 2)
	height := max(c.Height, 2)

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", chartWidth))
	}

	toCell := func(i, n int, v float64) (int, int) {
		x := 0
		if n > 1 {
			x = int(float64(i) / float64(n-1) * float64(chartWidth-1))
		}
		y := height - 1 - int((v-minVal)/(maxVal-minVal)*float64(height-1))
		return x, y
	}

	for idx, series := range c.Series {
		ch := seriesChar(idx)
		n := len(series.Points)
		for i, point := range series.Points {
			x, y := toCell(i, n, point)
			if i > 0 {
				px, py := toCell(i-1, n, series.Points[i-1])
				drawLine(grid, px, py, x, y, ch)
			}
			if y >= 0 && y < height {
				grid[y][x] = ch
			}
		}
	}

	var out strings.Builder
	axis := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Width(yAxisWidth).Align(lipgloss.Right)
	for i, row := range grid {
		value := maxVal - float64(i)/float64(height-1)*(maxVal-minVal)
		out.WriteString(axis.Render(tuistyles.FormatCompactMoney(value)))
		out.WriteString(" │ ")
		out.WriteString(string(row))
		out.WriteString("\n")
	}
	out.WriteString(strings.Repeat(" ", yAxisWidth))
	out.WriteString(" └")
	out.WriteString(strings.Repeat("─", chartWidth+1))
	out.WriteString("\n")
	if len(c.Labels) > 0 {
		out.WriteString(c.renderXAxisLabels(chartWidth))
	}
	return out.String()
}

func seriesChar(index int) rune {
	chars := []rune{'▲', '●', '■', '♦'}
	return chars[index%len(chars)]
}

// drawLine connects two cells using Bresenham's algorithm without
// overwriting points already plotted.
func drawLine(grid [][]rune, x0, y0, x1, y1 int, ch rune) {
	dx, dy := abs(x1-x0), abs(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	x, y := x0, y0
	for {
		if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) && grid[y][x] == ' ' {
			grid[y][x] = ch
		}
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// renderXAxisLabels places at most five labels under the axis.
func (c *ASCIIChart) renderXAxisLabels(chartWidth int) string {
	const maxLabels = 5
	n := len(c.Labels)
	line := []rune(strings.Repeat(" ", chartWidth+yAxisWidth+3))
	step := max(n/maxLabels, 1)
	for i := 0; i < n; i += step {
		x := yAxisWidth + 3
		if n > 1 {
			x += int(float64(i) / float64(n-1) * float64(chartWidth-1))
		}
		for j, r := range c.Labels[i] {
			if x+j < len(line) {
				line[x+j] = r
			}
		}
	}
	return lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render(strings.TrimRight(string(line), " "))
}

func (c *ASCIIChart) renderLegend() string {
	items := make([]string, 0, len(c.Series))
	for i, s := range c.Series {
		symbol := lipgloss.NewStyle().Foreground(s.Color).Render(string(seriesChar(i)))
		items = append(items, symbol+" "+s.Name)
	}
	return lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render("Legend: " + strings.Join(items, " • "))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
