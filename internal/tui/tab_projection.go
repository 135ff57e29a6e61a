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

func (a App) renderProjectionTab(cw int) string {
	t := theme.Active
	p := a.report.Projection
	var b strings.Builder

	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Balance Today", Value: cli.FormatMoney(a.balance), Delta: p.Month.String()},
		{Label: "Smart Projection", Value: cli.FormatMoney(p.FinalBalanceProjection), Delta: fmt.Sprintf("%s (score %+.2f)", p.Confidence, p.ConfidenceScore), Tone: t.Money(p.FinalBalanceProjection)},
		{Label: "Linear Projection", Value: cli.FormatMoney(p.Baseline.FinalBalanceProjection), Delta: fmt.Sprintf("%s confidence", p.Baseline.Confidence), Tone: t.Money(p.Baseline.FinalBalanceProjection)},
		{Label: "Days", Value: fmt.Sprintf("%d / %d", p.DaysElapsed, p.DaysElapsed+p.DaysRemaining), Delta: fmt.Sprintf("%d remaining", p.DaysRemaining)},
	}, cw))
	b.WriteString("\n")

	halves := components.LayoutRow(cw, 2)
	compact := a.isCompactLayout()
	if compact {
		halves = []int{cw, cw}
	}
	rateCard := components.ContentCard("Daily Rates", projectionRates(p), halves[0])
	scenarioCard := components.ContentCard("Scenarios", scenarioRows(p.AlternativeScenarios, components.CardInnerWidth(halves[1])), halves[1])
	b.WriteString(joinCards(compact, rateCard, scenarioCard))
	b.WriteString("\n")

	factorCard := components.ContentCard("Confidence Factors", factorRows(p, components.CardInnerWidth(halves[0])), halves[0])
	reductionCard := components.ContentCard(
		fmt.Sprintf("If You Cut %.0f%%", reductionPercent(p.ReductionImpact)),
		reductionRows(p.ReductionImpact, components.CardInnerWidth(halves[1])),
		halves[1],
	)
	b.WriteString(joinCards(compact, factorCard, reductionCard))
	b.WriteString("\n")

	b.WriteString(components.ContentCard("Historical Patterns", patternRows(p.HistoricalPatterns, components.CardInnerWidth(cw)), cw))
	return b.String()
}

func projectionRates(p model.SmartProjection) string {
	t := theme.Active
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	rows := [][2]string{
		{"Avg daily income", cli.FormatMoney(p.Baseline.AverageDailyIncome)},
		{"Avg daily expense", cli.FormatMoney(p.Baseline.AverageDailyExpense)},
		{"Seasonal factor", fmt.Sprintf("×%.2f (%s)", p.SeasonalAdjustment.Factor, p.SeasonalAdjustment.Month)},
		{"Adjusted daily income", cli.FormatMoney(p.SeasonalAdjustment.AdjustedDailyIncome)},
		{"Adjusted daily expense", cli.FormatMoney(p.SeasonalAdjustment.AdjustedDailyExpense)},
		{"Projected income", cli.FormatMoney(p.ProjectedIncome)},
		{"Projected expense", cli.FormatMoney(p.ProjectedExpense)},
		{"Transactions so far", cli.FormatNumber(int64(p.TransactionCount))},
	}
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = label.Render(fmt.Sprintf("%-24s", r[0])) + value.Render(r[1])
	}
	return strings.Join(lines, "\n")
}

func scenarioRows(scenarios []model.Scenario, innerW int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	if len(scenarios) == 0 {
		return muted.Render("No scenarios for this period.")
	}
	name := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	desc := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Width(innerW)

	var b strings.Builder
	for i, s := range scenarios {
		if i > 0 {
			b.WriteString("\n")
		}
		bal := lipgloss.NewStyle().Foreground(t.Money(s.ProjectedBalance)).Background(t.Surface)
		b.WriteString(name.Render(fmt.Sprintf("%-14s", s.Name)))
		b.WriteString(bal.Render(fmt.Sprintf("%14s", cli.FormatMoney(s.ProjectedBalance))))
		b.WriteString(muted.Render(fmt.Sprintf("  %3.0f%%", s.Probability*100)))
		if s.Description != "" {
			b.WriteString("\n")
			b.WriteString(desc.Render(s.Description))
		}
	}
	return b.String()
}

func factorRows(p model.SmartProjection, innerW int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	// score runs from -1 to 1
	b.WriteString(components.ConfidenceMeter((p.ConfidenceScore+1)/2, max(innerW-7, 4), t.Confidence(p.Confidence)))
	b.WriteString(muted.Render(fmt.Sprintf(" %+.2f", p.ConfidenceScore)))
	for _, f := range p.ConfidenceFactors {
		w := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
		if f.Weight < 0 {
			w = w.Foreground(t.Red)
		}
		b.WriteString("\n")
		b.WriteString(w.Render(fmt.Sprintf("%+5.2f ", f.Weight)))
		b.WriteString(muted.Render(cli.Truncate(f.Description, max(innerW-6, 10))))
	}
	return b.String()
}

func reductionPercent(items []model.ReductionImpact) float64 {
	if len(items) == 0 {
		return 0
	}
	return items[0].ReductionPercent
}

func reductionRows(items []model.ReductionImpact, innerW int) string {
	t := theme.Active
	if len(items) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("No discretionary spending to trim.")
	}
	bars := make([]components.BarItem, len(items))
	for i, it := range items {
		bars[i] = components.BarItem{
			Label: string(it.Category),
			Value: it.ProjectedSavings,
			Text:  "+" + cli.FormatMoney(it.ProjectedSavings),
			Color: t.Green,
		}
	}
	return components.HorizontalBars(bars, 14, innerW)
}

func patternRows(patterns []model.HistoricalPattern, innerW int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	if len(patterns) == 0 {
		return muted.Render("Not enough history to find patterns yet.")
	}
	kind := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface)
	text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	const kindW = 13
	lines := make([]string, 0, len(patterns))
	for _, p := range patterns {
		conf := lipgloss.NewStyle().Foreground(t.Confidence(p.Confidence)).Background(t.Surface)
		line := kind.Render(fmt.Sprintf("%-*s", kindW, p.PatternType)) +
			conf.Render(fmt.Sprintf("%-7s", p.Confidence)) +
			text.Render(cli.Truncate(p.Description, max(innerW-kindW-20, 10)))
		if p.NextExpected != nil {
			line += muted.Render("  next " + p.NextExpected.Format("Jan 02"))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
