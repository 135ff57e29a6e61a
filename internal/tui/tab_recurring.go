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

func (a App) renderRecurringTab(cw int) string {
	t := theme.Active
	r := a.report
	imp := r.RecurringImpact
	var b strings.Builder

	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Recurring Income", Value: cli.FormatMoney(imp.MonthlyIncome) + "/mo", Delta: cli.FormatMoney(imp.YearlyIncome) + "/yr", Tone: t.GreenBright},
		{Label: "Recurring Expenses", Value: cli.FormatMoney(imp.MonthlyExpense) + "/mo", Delta: cli.FormatMoney(imp.YearlyExpense) + "/yr", Tone: t.Red},
		{Label: "Recurring Net", Value: cli.FormatSignedMoney(imp.MonthlyNet) + "/mo", Delta: cli.FormatSignedMoney(imp.YearlyNet) + "/yr", Tone: t.Money(imp.MonthlyNet)},
	}, cw))
	b.WriteString("\n")

	groups := r.RecurringGroups
	innerW := components.CardInnerWidth(cw)
	b.WriteString(components.ContentCard(fmt.Sprintf("Fixed Income (%d)", len(groups.FixedIncome)),
		recurringTable(groups.FixedIncome, innerW), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard(fmt.Sprintf("Fixed Expenses (%d)", len(groups.FixedExpenses)),
		recurringTable(groups.FixedExpenses, innerW), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard(fmt.Sprintf("Variable Expenses (%d)", len(groups.VariableExpenses)),
		recurringTable(groups.VariableExpenses, innerW), cw))

	if len(r.SpendingPatterns) > 0 {
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Spending Habits", patternTable(r.SpendingPatterns, innerW), cw))
	}
	return b.String()
}

func recurringTable(items []model.RecurringTransaction, innerW int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	if len(items) == 0 {
		return muted.Render("None detected.")
	}

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	const amountW, freqW, countW, lastW, confW = 12, 10, 5, 10, 6
	nameW := max(innerW-amountW-freqW-countW-lastW-confW-5, 12)

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %*s %-*s %*s %-*s %-*s",
		nameW, "Merchant", amountW, "Average", freqW, "Every", countW, "Seen", lastW, "Last", confW, "Conf.")))
	for _, rt := range items {
		amount := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
		if rt.IsIncome {
			amount = amount.Foreground(t.GreenBright)
		}
		conf := lipgloss.NewStyle().Foreground(t.Confidence(rt.Confidence)).Background(t.Surface)

		b.WriteString("\n")
		b.WriteString(rowStyle.Render(fmt.Sprintf("%-*s ", nameW, cli.Truncate(rt.Merchant, nameW))))
		b.WriteString(amount.Render(fmt.Sprintf("%*s ", amountW, cli.FormatMoney(rt.AverageAmount))))
		b.WriteString(rowStyle.Render(fmt.Sprintf("%-*s %*d %-*s ",
			freqW, cli.FormatFrequency(rt.FrequencyDays),
			countW, rt.TotalTransactions,
			lastW, rt.LastTransactionDate.Format("2006-01-02"))))
		b.WriteString(conf.Render(fmt.Sprintf("%-*s", confW, rt.Confidence)))
	}
	return b.String()
}

func patternTable(patterns []model.SpendingPattern, innerW int) string {
	t := theme.Active
	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	const catW, freqW, avgW, totalW, trendW = 14, 9, 12, 12, 10
	nameW := max(innerW-catW-freqW-avgW-totalW-trendW-5, 12)

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %-*s %*s %*s %*s %-*s",
		nameW, "Merchant", catW, "Category", freqW, "Per 30d", avgW, "Average", totalW, "Total", trendW, "Trend")))
	for _, p := range patterns {
		trend := muted
		switch p.Trend {
		case model.TrendIncreasing:
			trend = lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		case model.TrendDecreasing:
			trend = lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
		}
		b.WriteString("\n")
		b.WriteString(rowStyle.Render(fmt.Sprintf("%-*s %-*s %*.1f %*s %*s ",
			nameW, cli.Truncate(p.Merchant, nameW),
			catW, p.Category,
			freqW, p.Frequency,
			avgW, cli.FormatMoney(p.AverageAmount),
			totalW, cli.FormatMoney(p.TotalAmount))))
		b.WriteString(trend.Render(fmt.Sprintf("%-*s", trendW, p.Trend)))
	}
	return b.String()
}
