package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/theirongolddev/cashburn/internal/cli"
	"github.com/theirongolddev/cashburn/internal/model"
	"github.com/theirongolddev/cashburn/internal/tui/components"
	"github.com/theirongolddev/cashburn/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Transactions view modes; split is the zero value.
const (
	txViewSplit = iota
	txViewDetail
)

// txListOverhead is the card border, header and footer rows around the list.
const txListOverhead = 6

// transactionsState holds the transactions tab state.
type transactionsState struct {
	cursor   int
	offset   int // first visible list row
	viewMode int

	searching   bool
	searchInput textinput.Model
	searchQuery string
}

func (s *transactionsState) clamp(n int) {
	s.cursor = min(s.cursor, n-1)
	s.cursor = max(s.cursor, 0)
	s.offset = min(s.offset, s.cursor)
}

func (s *transactionsState) move(delta, n int) {
	s.cursor += delta
	s.clamp(n)
}

// follow scrolls the list so the cursor stays inside a window of rows lines.
func (s *transactionsState) follow(rows int) {
	if s.cursor < s.offset {
		s.offset = s.cursor
	}
	if s.cursor >= s.offset+rows {
		s.offset = s.cursor - rows + 1
	}
}

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "merchant, category or note"
	ti.Prompt = "/ "
	ti.CharLimit = 64
	ti.Width = 40
	return ti
}

// visibleTransactions returns the period's transactions, newest first,
// narrowed by the active search query.
func (a App) visibleTransactions() []model.ClassifiedTransaction {
	list := filterTransactions(a.report.Transactions, a.txState.searchQuery)
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Date.After(list[j].Date)
	})
	return list
}

// filterTransactions returns a copy of txs whose merchant, category or notes
// contain query, case-insensitively.
func filterTransactions(txs []model.ClassifiedTransaction, query string) []model.ClassifiedTransaction {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.ClassifiedTransaction, 0, len(txs))
	for _, ct := range txs {
		if q == "" ||
			strings.Contains(strings.ToLower(ct.Merchant), q) ||
			strings.Contains(string(ct.ResolvedCategory), q) ||
			strings.Contains(strings.ToLower(ct.Notes), q) {
			out = append(out, ct)
		}
	}
	return out
}

// txListRows is the list height while the tab fills the content area below
// the two header rows and the status bar.
func (a App) txListRows() int {
	return max(a.height-3-txListOverhead, minContentHeight)
}

// updateTransactionsKey handles keys specific to the transactions tab. The
// final result reports whether the key was consumed.
func (a App) updateTransactionsKey(key string) (tea.Model, tea.Cmd, bool) {
	n := len(a.visibleTransactions())
	ts := &a.txState

	switch key {
	case "/":
		ts.searching = true
		ts.searchInput = newSearchInput()
		ts.searchInput.SetValue(ts.searchQuery)
		ts.searchInput.Focus()
		return a, ts.searchInput.Cursor.BlinkCmd(), true
	case "j", "down":
		ts.move(1, n)
	case "k", "up":
		ts.move(-1, n)
	case "ctrl+d":
		ts.move(a.txListRows()/2, n)
	case "ctrl+u":
		ts.move(-a.txListRows()/2, n)
	case "g":
		ts.cursor, ts.offset = 0, 0
	case "G":
		ts.move(n, n)
	case "enter", "f":
		ts.viewMode = txViewDetail
	case "esc":
		switch {
		case ts.viewMode == txViewDetail:
			ts.viewMode = txViewSplit
		case ts.searchQuery != "":
			ts.searchQuery = ""
			ts.cursor, ts.offset = 0, 0
		}
	case "q":
		if ts.viewMode == txViewDetail {
			ts.viewMode = txViewSplit
			return a, nil, true
		}
		return a, tea.Quit, true
	default:
		return a, nil, false
	}
	ts.follow(a.txListRows())
	return a, nil, true
}

func (a App) updateTransactionsSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.txState.searchQuery = strings.TrimSpace(a.txState.searchInput.Value())
		a.txState.searching = false
		a.txState.cursor, a.txState.offset = 0, 0
		return a, nil
	case "esc":
		a.txState.searching = false
		return a, nil
	}

	var cmd tea.Cmd
	a.txState.searchInput, cmd = a.txState.searchInput.Update(msg)
	return a, cmd
}

func (a App) renderTransactionsContent(list []model.ClassifiedTransaction, cw, h int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	if a.txState.searching {
		b.WriteString(components.ContentCard("Search", a.txState.searchInput.View(), cw))
		b.WriteString("\n")
		h -= 3
	}

	if len(list) == 0 {
		msg := fmt.Sprintf("No transactions in %s.", a.report.Period.Label)
		if a.txState.searchQuery != "" {
			msg = fmt.Sprintf("Nothing matches %q. Press Esc to clear the search.", a.txState.searchQuery)
		}
		b.WriteString(components.ContentCard("Transactions", muted.Render(msg), cw))
		return b.String()
	}

	cursor := min(a.txState.cursor, len(list)-1)
	sel := list[cursor]

	if a.txState.viewMode == txViewDetail {
		b.WriteString(components.ContentCard(cli.Truncate(sel.Merchant, cw-8), a.transactionDetail(sel, cw), cw))
		return b.String()
	}

	if a.isCompactLayout() {
		b.WriteString(a.transactionList(list, cursor, cw, h))
		return b.String()
	}

	leftW := max(cw*2/5, 44)
	rightW := cw - leftW
	left := a.transactionList(list, cursor, leftW, h)
	right := components.ContentCard(cli.Truncate(sel.Merchant, rightW-8), a.transactionDetail(sel, rightW), rightW)
	b.WriteString(components.CardRow([]string{left, right}))
	return b.String()
}

func (a App) transactionList(list []model.ClassifiedTransaction, cursor, w, h int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(w)

	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	rows := max(h-txListOverhead, minContentHeight)
	ts := a.txState
	ts.cursor = cursor
	ts.follow(rows)
	end := min(ts.offset+rows, len(list))

	const dateW, amountW = 10, 13
	nameW := max(innerW-dateW-amountW-4, 8)

	var body strings.Builder
	for i := ts.offset; i < end; i++ {
		ct := list[i]
		marker := "  "
		style := rowStyle
		if i == cursor {
			marker = "▸ "
			style = selectedStyle
		}
		amount := lipgloss.NewStyle().Foreground(t.Red).Background(style.GetBackground())
		if ct.Classification.IsIncome {
			amount = amount.Foreground(t.GreenBright)
		}
		body.WriteString(style.Render(fmt.Sprintf("%s%-*s %-*s", marker, dateW, ct.Date.Format("2006-01-02"),
			nameW, cli.Truncate(ct.Merchant, nameW))))
		body.WriteString(amount.Render(fmt.Sprintf(" %*s", amountW, cli.FormatSignedMoney(signedAmount(ct)))))
		body.WriteString("\n")
	}
	body.WriteString(mutedStyle.Render(fmt.Sprintf("%d of %d  [/] search  [Enter] expand", cursor+1, len(list))))

	title := "Transactions"
	if a.txState.searchQuery != "" {
		title = fmt.Sprintf("Transactions matching %q", a.txState.searchQuery)
	}
	return components.AccentCard(title, body.String(), w)
}

// signedAmount is the transaction's magnitude signed by its classification.
func signedAmount(ct model.ClassifiedTransaction) float64 {
	if ct.Classification.IsIncome {
		return ct.Magnitude()
	}
	return -ct.Magnitude()
}

func (a App) transactionDetail(ct model.ClassifiedTransaction, w int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(w)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	wrapStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(innerW)
	confStyle := lipgloss.NewStyle().Foreground(t.Confidence(ct.Classification.Confidence)).Background(t.Surface).Bold(true)

	kind := "Expense"
	if ct.Classification.IsIncome {
		kind = "Income"
	}
	amount := lipgloss.NewStyle().Foreground(t.Money(signedAmount(ct))).Background(t.Surface).Bold(true)

	category := string(ct.ResolvedCategory)
	if category == "" {
		category = "uncategorized"
	}
	if ct.Category != "" && ct.Category != ct.ResolvedCategory {
		category += fmt.Sprintf(" (statement: %s)", ct.Category)
	}

	row := func(b *strings.Builder, label, value string) {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-12s", label)))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}

	var b strings.Builder
	b.WriteString(amount.Render(cli.FormatSignedMoney(signedAmount(ct))))
	b.WriteString(labelStyle.Render("  " + kind))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(strings.Repeat("─", innerW)))
	b.WriteString("\n")

	row(&b, "Date", cli.FormatDate(ct.Date, ct.HasTime))
	row(&b, "Category", category)
	row(&b, "Payment", strings.ReplaceAll(string(ct.PaymentMethod), "_", " "))
	if ct.Type != "" {
		row(&b, "Type", string(ct.Type))
	}
	if ct.SourceFile != "" {
		row(&b, "Source", cli.Truncate(ct.SourceFile, max(innerW-12, 10)))
	}
	if ct.ID != "" {
		row(&b, "ID", cli.Truncate(ct.ID, max(innerW-12, 10)))
	}

	b.WriteString("\n")
	b.WriteString(headerStyle.Render("CLASSIFICATION"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-12s", "Confidence")))
	b.WriteString(confStyle.Render(string(ct.Classification.Confidence)))
	b.WriteString("\n")
	b.WriteString(wrapStyle.Render(ct.Classification.Reason))
	b.WriteString("\n")
	if ct.Classification.Conflict {
		b.WriteString(lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).
			Render("Sign and description disagree"))
		b.WriteString("\n")
	}
	if ct.Suspicious {
		b.WriteString(lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true).
			Render("Flagged as suspicious"))
		b.WriteString("\n")
	}

	if ct.Notes != "" {
		b.WriteString("\n")
		b.WriteString(headerStyle.Render("NOTES"))
		b.WriteString("\n")
		b.WriteString(wrapStyle.Render(ct.Notes))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Render("[j/k] navigate  [Esc] back  [q] quit"))
	return b.String()
}
