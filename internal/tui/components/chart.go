package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cashburn/internal/tui/theme"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values. Negative values are
// drawn as the lowest block.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	top := len(sparkBlocks) - 1
	for _, v := range values {
		idx := min(max(int(v/peak*float64(top)), 0), top)
		buf.WriteRune(sparkBlocks[idx])
	}
	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(buf.String())
}

// yScale is the vertical layout of a bar chart.
type yScale struct {
	ceiling    float64
	rows       int
	labelWidth int
	tickByRow  map[int]string
}

func newYScale(peak float64, height int) yScale {
	if peak <= 0 {
		peak = 1
	}
	step := chartTickStep(peak)
	maxIntervals := max(height/2, 2)
	for int(math.Ceil(peak/step)) > maxIntervals {
		step *= 2
	}
	ceiling := math.Ceil(peak/step) * step
	intervals := max(int(math.Round(ceiling/step)), 1)
	rowsPerTick := max(height/intervals, 2)

	s := yScale{
		ceiling:    ceiling,
		rows:       rowsPerTick * intervals,
		labelWidth: max(len(formatChartLabel(ceiling))+1, 4),
		tickByRow:  make(map[int]string, intervals),
	}
	for i := 1; i <= intervals; i++ {
		s.tickByRow[i*rowsPerTick] = formatChartLabel(step * float64(i))
	}
	return s
}

// BarChart renders a vertical bar chart with a labeled Y axis. Series longer
// than the available width are sampled down.
func BarChart(values []float64, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}
	t := theme.Active

	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}
	scale := newYScale(peak, height)
	chartW := max(width-scale.labelWidth-1, 5)

	n := len(values)
	gap := 1
	barW := chartW
	if n > 1 {
		barW = (chartW - (n - 1)) / n
	} else {
		gap = 0
	}
	if barW < 2 && n > 1 {
		values, labels = sampleSeries(values, labels, max((chartW+1)/3, 2))
		n = len(values)
		barW = 2
	}
	barW = min(barW, 6)
	axisLen := n*barW + max(0, n-1)*gap

	blank := lipgloss.NewStyle().Background(t.Surface)
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	partial := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	var b strings.Builder
	for row := scale.rows; row >= 1; row-- {
		rowTop := scale.ceiling * float64(row) / float64(scale.rows)
		rowBottom := scale.ceiling * float64(row-1) / float64(scale.rows)

		barColor := t.Accent
		switch level := float64(row) / float64(scale.rows); {
		case level > 0.8:
			barColor = t.AccentBright
		case level > 0.5:
			barColor = color
		}
		barStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)

		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s│", scale.labelWidth, scale.tickByRow[row])))
		for i, v := range values {
			if i > 0 && gap > 0 {
				b.WriteString(blank.Render(strings.Repeat(" ", gap)))
			}
			switch {
			case v >= rowTop:
				b.WriteString(barStyle.Render(strings.Repeat("█", barW)))
			case v > rowBottom:
				idx := min(max(int((v-rowBottom)/(rowTop-rowBottom)*8), 1), 8)
				b.WriteString(barStyle.Render(strings.Repeat(string(partial[idx]), barW)))
			default:
				b.WriteString(blank.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s└%s", scale.labelWidth, "0", strings.Repeat("─", axisLen))))

	if len(labels) == n {
		b.WriteString("\n")
		b.WriteString(blank.Render(strings.Repeat(" ", scale.labelWidth+1)))
		b.WriteString(axisStyle.Render(xAxisLabels(labels, barW+gap, axisLen)))
	}
	return b.String()
}

// sampleSeries picks n evenly spaced points, keeping both endpoints.
func sampleSeries(values []float64, labels []string, n int) ([]float64, []string) {
	src := len(values)
	out := make([]float64, n)
	var outLabels []string
	if len(labels) == src {
		outLabels = make([]string, n)
	}
	for i := range out {
		j := i * (src - 1) / (n - 1)
		out[i] = values[j]
		if outLabels != nil {
			outLabels[i] = labels[j]
		}
	}
	return out, outLabels
}

// xAxisLabels lays labels under their bars, skipping any that would
// overlap, and always tries to show the last one.
func xAxisLabels(labels []string, stride, axisLen int) string {
	buf := []byte(strings.Repeat(" ", axisLen))
	n := len(labels)
	step := max(1, (n*8)/(axisLen+1))

	lastEnd := -1
	for i := 0; i < n; i += step {
		pos := i * stride
		lbl := labels[i]
		end := pos + len(lbl)
		if pos <= lastEnd {
			continue
		}
		if end > axisLen {
			end = axisLen
			if end-pos < 3 {
				continue
			}
			lbl = lbl[:end-pos]
		}
		copy(buf[pos:end], lbl)
		lastEnd = end + 1
	}
	if n > 1 {
		lbl := labels[n-1]
		pos := (n - 1) * stride
		if pos+len(lbl) > axisLen {
			pos = axisLen - len(lbl)
		}
		if pos >= 0 && pos > lastEnd {
			copy(buf[pos:pos+len(lbl)], lbl)
		}
	}
	return strings.TrimRight(string(buf), " ")
}

// BarItem is one row of a horizontal bar list.
type BarItem struct {
	Label string
	Value float64
	Text  string // right-hand annotation, e.g. a formatted amount
	Color lipgloss.Color
}

// HorizontalBars renders labeled bars scaled to the largest value.
func HorizontalBars(items []BarItem, labelW, width int) string {
	if len(items) == 0 {
		return ""
	}
	t := theme.Active

	peak := 0.0
	textW := 0
	for _, it := range items {
		peak = max(peak, it.Value)
		textW = max(textW, lipgloss.Width(it.Text))
	}
	if peak == 0 {
		peak = 1
	}
	barMax := max(width-labelW-textW-2, 4)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	textStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	lines := make([]string, len(items))
	for i, it := range items {
		color := it.Color
		if color == "" {
			color = t.Accent
		}
		n := max(int(it.Value/peak*float64(barMax)), 0)
		if it.Value > 0 && n == 0 {
			n = 1
		}
		bar := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(strings.Repeat("█", n))
		lines[i] = labelStyle.Render(fmt.Sprintf("%-*s", labelW, truncate(it.Label, labelW))) +
			blank.Render(" ") + bar +
			blank.Render(strings.Repeat(" ", barMax-n+1)) +
			textStyle.Render(fmt.Sprintf("%*s", textW, it.Text))
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(peak float64) float64 {
	if peak <= 0 {
		return 1
	}
	rough := peak / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))
	switch frac := rough / base; {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	unit := func(div float64, suffix string) string {
		if v == math.Trunc(v/div)*div {
			return fmt.Sprintf("%.0f%s", v/div, suffix)
		}
		return fmt.Sprintf("%.1f%s", v/div, suffix)
	}
	switch {
	case v >= 1e9:
		return unit(1e9, "B")
	case v >= 1e6:
		return unit(1e6, "M")
	case v >= 1e3:
		return unit(1e3, "k")
	case v >= 1:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
