package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cashburn/internal/cli"
	"github.com/theirongolddev/cashburn/internal/model"
	"github.com/theirongolddev/cashburn/internal/pipeline"
	"github.com/theirongolddev/cashburn/internal/tui/components"
	"github.com/theirongolddev/cashburn/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderCategoriesCard(cw int) string {
	t := theme.Active
	cats := a.report.Categories
	innerW := components.CardInnerWidth(cw)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	if len(cats) == 0 {
		return components.ContentCard("Categories", mutedStyle.Render("No expenses in this period."), cw)
	}

	var body strings.Builder
	labelW := 16
	if a.isCompactLayout() {
		labelW = 12
	}
	amountStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	const amountW = 14
	barW := max(innerW-labelW-amountW-7, 6)
	for i, c := range cats {
		if i > 0 {
			body.WriteString("\n")
		}
		name := string(c.Category)
		if name == "" {
			name = "uncategorized"
		}
		body.WriteString(components.ShareBar(name, c.Percent/100, labelW, barW))
		body.WriteString(amountStyle.Render(fmt.Sprintf(" %*s", amountW, cli.FormatMoney(c.Total))))
	}
	return components.ContentCard("Categories", body.String(), cw)
}

func (a App) renderWeekdayCard(outerW int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(outerW)
	days := a.report.Temporal.Weekdays

	var peak model.WeekdayBreakdown
	for _, d := range days {
		if d.Total > peak.Total {
			peak = d
		}
	}
	items := make([]components.BarItem, 0, len(days))
	for _, d := range days {
		color := t.Blue
		if d.Total > 0 && d.Weekday == peak.Weekday {
			color = t.Orange
		}
		items = append(items, components.BarItem{
			Label: d.Name,
			Value: d.Total,
			Text:  fmt.Sprintf("%s (%d)", cli.FormatMoney(d.Total), d.Count),
			Color: color,
		})
	}
	return components.ContentCard("By Weekday", components.HorizontalBars(items, 10, innerW), outerW)
}

func (a App) renderPaymentCard(outerW int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(outerW)
	methods := a.report.Temporal.PaymentMethods
	if len(methods) == 0 {
		return components.ContentCard("Payment Methods",
			lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("None"), outerW)
	}
	colors := []lipgloss.Color{t.Cyan, t.Magenta, t.Yellow, t.BlueBright, t.Green, t.Orange, t.TextDim}
	items := make([]components.BarItem, 0, len(methods))
	for i, m := range methods {
		items = append(items, components.BarItem{
			Label: strings.ReplaceAll(string(m.Method), "_", " "),
			Value: m.Total,
			Text:  fmt.Sprintf("%s %5.1f%%", cli.FormatMoney(m.Total), m.Percent),
			Color: colors[i%len(colors)],
		})
	}
	return components.ContentCard("Payment Methods", components.HorizontalBars(items, 14, innerW), outerW)
}

func (a App) renderHourlyCard(cw int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(cw)
	peak := peakHour(a.hourly)
	if peak < 0 {
		return components.ContentCard("By Hour",
			lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("No timed expenses."), cw)
	}

	vals := make([]float64, len(a.hourly))
	labels := make([]string, len(a.hourly))
	for i, h := range a.hourly {
		vals[i] = h.Expenses
		labels[i] = fmt.Sprintf("%02d", h.Hour)
	}
	chartH := 8
	if a.isCompactLayout() {
		chartH = 6
	}
	return components.ContentCard(fmt.Sprintf("By Hour (peak %02d:00)", peak),
		components.BarChart(vals, labels, t.Magenta, innerW, chartH), cw)
}

func (a App) renderBurnCard(cw int) string {
	s := a.report.Summary
	innerW := components.CardInnerWidth(cw)
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	if s.TotalIncome <= 0 {
		return components.ContentCard("Burn Rate",
			muted.Render(fmt.Sprintf("No income this period; %s spent.", cli.FormatMoney(s.TotalExpenses))), cw)
	}
	const labelW = 18
	barW := max(innerW-labelW-6, 6)
	body := components.ShareBar("Expenses / income", s.TotalExpenses/s.TotalIncome, labelW, barW)
	if s.TotalExpenses > s.TotalIncome {
		body += "\n" + lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).
			Render(fmt.Sprintf("Overspent by %s", cli.FormatMoney(s.TotalExpenses-s.TotalIncome)))
	}
	return components.ContentCard("Burn Rate", body, cw)
}

// peakHour returns the hour with the highest expense total, or -1 when no
// timed expense exists.
func peakHour(hours []pipeline.HourlyStats) int {
	peak, best := -1, 0.0
	for _, h := range hours {
		if h.Expenses > best {
			peak, best = h.Hour, h.Expenses
		}
	}
	return peak
}

func (a App) renderBreakdownTab(cw int) string {
	var b strings.Builder
	b.WriteString(a.renderBurnCard(cw))
	b.WriteString("\n")
	b.WriteString(a.renderCategoriesCard(cw))
	b.WriteString("\n")

	halves := components.LayoutRow(cw, 2)
	compact := a.isCompactLayout()
	if compact {
		halves = []int{cw, cw}
	}
	b.WriteString(joinCards(compact, a.renderWeekdayCard(halves[0]), a.renderPaymentCard(halves[1])))
	b.WriteString("\n")
	b.WriteString(a.renderHourlyCard(cw))
	return b.String()
}
