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

func (a App) renderAnomaliesTab(cw int) string {
	t := theme.Active
	r := a.report
	var b strings.Builder

	high, medium := 0, 0
	for _, an := range r.Anomalies {
		switch an.Confidence {
		case model.ConfidenceHigh:
			high++
		case model.ConfidenceMedium:
			medium++
		}
	}
	critical := 0
	for _, al := range r.CategoryAlerts {
		if al.Severity == model.SeverityCritical {
			critical++
		}
	}

	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Anomalies", Value: cli.FormatNumber(int64(len(r.Anomalies))), Delta: fmt.Sprintf("%d high · %d medium", high, medium), Tone: toneIf(len(r.Anomalies) > 0, t.Orange)},
		{Label: "Category Alerts", Value: cli.FormatNumber(int64(len(r.CategoryAlerts))), Delta: fmt.Sprintf("%d critical", critical), Tone: toneIf(critical > 0, t.Red)},
		{Label: "Suspicious", Value: cli.FormatNumber(int64(r.Summary.SuspiciousCount)), Delta: "memes, tests, gambling"},
		{Label: "Sign Conflicts", Value: cli.FormatNumber(int64(r.Summary.ConflictCount)), Delta: "sign vs keywords"},
	}, cw))
	b.WriteString("\n")

	b.WriteString(components.ContentCard(
		fmt.Sprintf("Unusual Transactions (%d)", len(r.Anomalies)),
		a.anomalyTable(r.Anomalies, components.CardInnerWidth(cw)),
		cw,
	))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Category Alerts", alertList(r.CategoryAlerts, components.CardInnerWidth(cw)), cw))

	return b.String()
}

func toneIf(cond bool, c lipgloss.Color) lipgloss.Color {
	if cond {
		return c
	}
	return ""
}

func (a App) anomalyTable(anomalies []model.Anomaly, innerW int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	if len(anomalies) == 0 {
		return muted.Render("No unusual transactions.")
	}

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	amountStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)

	const dateW, amountW, confW, kindW = 10, 12, 6, 14
	compact := a.isCompactLayout()
	merchantW := max(innerW-dateW-amountW-confW-kindW-4, 12)
	reasonW := 0
	if !compact {
		merchantW = max(innerW/4, 14)
		reasonW = max(innerW-dateW-amountW-confW-kindW-merchantW-5, 10)
	}

	var b strings.Builder
	head := fmt.Sprintf("%-*s %-*s %*s %-*s %-*s", dateW, "Date", merchantW, "Merchant", amountW, "Amount", confW, "Conf.", kindW, "Kind")
	if reasonW > 0 {
		head += fmt.Sprintf(" %-*s", reasonW, "Reason")
	}
	b.WriteString(headerStyle.Render(head))
	b.WriteString("\n")
	b.WriteString(muted.Render(strings.Repeat("─", innerW)))

	for _, an := range anomalies {
		conf := lipgloss.NewStyle().Foreground(t.Confidence(an.Confidence)).Background(t.Surface)
		b.WriteString("\n")
		b.WriteString(rowStyle.Render(fmt.Sprintf("%-*s %-*s ", dateW, an.Date.Format("2006-01-02"),
			merchantW, cli.Truncate(an.Merchant, merchantW))))
		b.WriteString(amountStyle.Render(fmt.Sprintf("%*s ", amountW, cli.FormatMoney(an.Amount))))
		b.WriteString(conf.Render(fmt.Sprintf("%-*s ", confW, an.Confidence)))
		b.WriteString(muted.Render(fmt.Sprintf("%-*s", kindW, cli.Truncate(an.Kind, kindW))))
		if reasonW > 0 {
			b.WriteString(rowStyle.Render(" " + cli.Truncate(an.Reason, reasonW)))
		}
	}
	return b.String()
}

func alertList(alerts []model.CategoryAlert, innerW int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	if len(alerts) == 0 {
		return muted.Render("No category is growing out of line.")
	}

	label := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(innerW)
	hint := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Width(innerW)

	var b strings.Builder
	for i, al := range alerts {
		if i > 0 {
			b.WriteString("\n\n")
		}
		sev := lipgloss.NewStyle().Foreground(t.Severity(al.Severity)).Background(t.Surface).Bold(true)
		b.WriteString(sev.Render(strings.ToUpper(string(al.Severity))))
		b.WriteString(muted.Render("  "))
		b.WriteString(label.Render(string(al.Category)))
		b.WriteString(muted.Render(fmt.Sprintf("  %s → %s  (%s, freq %s, income %s)",
			cli.FormatMoney(al.PreviousSpending),
			cli.FormatMoney(al.CurrentSpending),
			cli.FormatOptionalPercent(al.IncreasePercent),
			cli.FormatOptionalPercent(al.FrequencyIncreasePercent),
			cli.FormatOptionalPercent(al.IncomeSharePercent))))
		b.WriteString("\n")
		b.WriteString(text.Render(al.Message))
		for _, s := range al.Suggestions {
			b.WriteString("\n")
			b.WriteString(hint.Render("  › " + s))
		}
	}
	return b.String()
}
