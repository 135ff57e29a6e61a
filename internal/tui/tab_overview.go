package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cashburn/internal/cli"
	"github.com/theirongolddev/cashburn/internal/model"
	"github.com/theirongolddev/cashburn/internal/tui/components"
	"github.com/theirongolddev/cashburn/internal/tui/theme"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	r := a.report
	s := r.Summary
	var b strings.Builder

	// Row 1: headline metrics
	cmp := r.Comparison
	incomeDelta, expenseDelta := "", ""
	if cmp.HasPreviousData {
		incomeDelta = cli.FormatVariation(cmp.IncomePercent) + " vs " + cmp.PreviousPeriod
		expenseDelta = cli.FormatVariation(cmp.ExpensesPercent) + " vs " + cmp.PreviousPeriod
	} else {
		incomeDelta = fmt.Sprintf("%d entries", s.IncomeCount)
		expenseDelta = fmt.Sprintf("%d entries", s.ExpenseCount)
	}

	metrics := []components.Metric{
		{Label: "Income", Value: cli.FormatMoney(s.TotalIncome), Delta: incomeDelta, Tone: t.GreenBright},
		{Label: "Expenses", Value: cli.FormatMoney(s.TotalExpenses), Delta: expenseDelta, Tone: t.Red},
		{Label: "Net", Value: cli.FormatSignedMoney(s.NetBalance), Delta: "savings " + cli.FormatPercent(s.SavingsRate), Tone: t.Money(s.NetBalance)},
	}
	if !r.Period.FullHistory {
		p := r.Projection
		metrics = append(metrics, components.Metric{
			Label: "Month-end Balance",
			Value: cli.FormatMoney(p.FinalBalanceProjection),
			Delta: fmt.Sprintf("%s confidence", p.Confidence),
			Tone:  t.Money(p.FinalBalanceProjection),
		})
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	if s.TransactionCount == 0 {
		muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		b.WriteString(components.ContentCard("No activity",
			muted.Render(fmt.Sprintf("No transactions in %s. Use [ and ] to change month.", r.Period.Label)), cw))
		return b.String()
	}

	// Row 2: daily spending
	if len(a.daily) > 0 {
		vals := make([]float64, len(a.daily))
		for i, d := range a.daily {
			vals[i] = d.Expenses
		}
		chartH := 10
		if a.isCompactLayout() {
			chartH = 7
		}
		b.WriteString(components.ContentCard(
			fmt.Sprintf("Daily Spending (%s)", r.Period.Label),
			components.BarChart(vals, chartDateLabels(a.daily), t.Blue, components.CardInnerWidth(cw), chartH),
			cw,
		))
		b.WriteString("\n")
	}

	// Row 3: top expenses + insights
	halves := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		halves = []int{cw, cw}
	}
	topCard := components.ContentCard("Top Expenses", a.merchantBars(r.TopExpenses, halves[0]), halves[0])
	insightCard := components.ContentCard("Insights", renderInsights(r.Insights, components.CardInnerWidth(halves[1])), halves[1])
	b.WriteString(joinCards(a.isCompactLayout(), topCard, insightCard))
	b.WriteString("\n")

	// Row 4: time of day + accounts
	periodCard := components.ContentCard("Spending by Time of Day", a.periodBars(halves[0]), halves[0])
	accountCard := components.ContentCard("Accounts", a.accountRows(halves[1]), halves[1])
	b.WriteString(joinCards(a.isCompactLayout(), periodCard, accountCard))

	return b.String()
}

// joinCards stacks cards in compact layouts and places them side by side
// otherwise.
func joinCards(compact bool, cards ...string) string {
	if compact {
		return strings.Join(cards, "\n")
	}
	return components.CardRow(cards)
}

func (a App) merchantBars(groups []model.MerchantGroup, outerW int) string {
	t := theme.Active
	if len(groups) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("None")
	}
	innerW := components.CardInnerWidth(outerW)
	items := make([]components.BarItem, 0, len(groups))
	for _, g := range groups {
		color := t.Red
		if g.Aggregated {
			color = t.TextDim
		}
		items = append(items, components.BarItem{
			Label: g.Merchant,
			Value: g.Total,
			Text:  fmt.Sprintf("%s %5.1f%%", cli.FormatMoney(g.Total), g.SharePercent),
			Color: color,
		})
	}
	return components.HorizontalBars(items, max(innerW/3, 10), innerW)
}

func renderInsights(insights []model.Insight, innerW int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	if len(insights) == 0 {
		return muted.Render("Nothing stands out this period.")
	}
	text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(innerW - 2)

	lines := make([]string, 0, len(insights))
	for _, in := range insights {
		bullet := lipgloss.NewStyle().Foreground(t.Confidence(in.Confidence)).Background(t.Surface).Render("● ")
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, bullet, text.Render(in.Text)))
	}
	return strings.Join(lines, "\n")
}

func (a App) periodBars(outerW int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(outerW)
	tp := a.report.Temporal

	colors := map[model.DayPeriod]lipgloss.Color{
		model.PeriodMorning:   t.Green,
		model.PeriodAfternoon: t.Yellow,
		model.PeriodEvening:   t.Orange,
		model.PeriodNight:     t.Magenta,
	}
	items := make([]components.BarItem, 0, len(tp.Periods))
	for _, p := range tp.Periods {
		items = append(items, components.BarItem{
			Label: string(p.Period),
			Value: p.Total,
			Text:  fmt.Sprintf("%s (%d)", cli.FormatMoney(p.Total), p.Count),
			Color: colors[p.Period],
		})
	}
	out := components.HorizontalBars(items, 10, innerW)
	if tp.UntimedCount > 0 {
		out += "\n" + lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
			Render(fmt.Sprintf("%d expenses without a time of day", tp.UntimedCount))
	}

	if peak := peakHour(a.hourly); peak >= 0 {
		hours := make([]float64, len(a.hourly))
		for i, h := range a.hourly {
			hours[i] = h.Expenses
		}
		out += "\n" + components.Sparkline(hours, t.Accent) +
			lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(fmt.Sprintf("  peak %02d:00", peak))
	}
	return out
}

func (a App) accountRows(outerW int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(outerW)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	if len(a.accounts) == 0 {
		return muted.Render("No accounts")
	}

	nameW := max(innerW-3*13, 8)
	header := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	row := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var b strings.Builder
	b.WriteString(header.Render(fmt.Sprintf("%-*s %12s %12s %12s", nameW, "Account", "Income", "Expenses", "Net")))
	for _, acc := range a.accounts {
		name := acc.Account
		if name == "" {
			name = "(top level)"
		}
		b.WriteString("\n")
		b.WriteString(row.Render(fmt.Sprintf("%-*s %12s %12s ", nameW, cli.Truncate(name, nameW),
			cli.FormatMoney(acc.Income), cli.FormatMoney(acc.Expenses))))
		b.WriteString(lipgloss.NewStyle().Foreground(t.Money(acc.Net)).Background(t.Surface).
			Render(fmt.Sprintf("%12s", cli.FormatSignedMoney(acc.Net))))
	}
	return b.String()
}
