// Package tui provides the interactive Bubble Tea dashboard for cashburn.
package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cashburn/internal/analytics"
	"github.com/theirongolddev/cashburn/internal/cli"
	"github.com/theirongolddev/cashburn/internal/config"
	"github.com/theirongolddev/cashburn/internal/model"
	"github.com/theirongolddev/cashburn/internal/pipeline"
	"github.com/theirongolddev/cashburn/internal/store"
	"github.com/theirongolddev/cashburn/internal/tui/components"
	"github.com/theirongolddev/cashburn/internal/tui/theme"
)

// DataLoadedMsg is sent when the data pipeline finishes.
type DataLoadedMsg struct {
	Transactions []model.Transaction
	ParseErrors  int
	FileErrors   int
	LoadTime     time.Duration
	Err          error
}

// ProgressMsg reports file parsing progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// RefreshDataMsg is sent when a background data refresh completes.
type RefreshDataMsg DataLoadedMsg

// Options configures the dashboard.
type Options struct {
	DataDir string
	Account string
	Balance float64
	// Month is the initial period; nil starts on the reference month.
	Month       *model.YearMonth
	FullHistory bool
	// Today pins the reference date; zero follows the wall clock.
	Today     time.Time
	UseCache  bool
	NeedSetup bool
	Config    config.Config
}

// App is the root Bubble Tea model.
type App struct {
	opts   Options
	engine *analytics.Engine

	// Data
	txs         []model.Transaction
	loaded      bool
	loadTime    time.Duration
	loadErr     error
	parseErrors int
	fileErrors  int

	// Period selection
	months      []model.YearMonth
	month       model.YearMonth
	fullHistory bool
	balance     float64

	// Pre-computed for the selected period
	report   model.FinancialReport
	daily    []pipeline.DailyStats
	hourly   []pipeline.HourlyStats
	accounts []pipeline.AccountStats

	// Auto-refresh state
	autoRefresh     bool
	refreshInterval time.Duration
	lastRefresh     time.Time
	refreshing      bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	scroll    int // line offset for the scrollable report tabs

	// Per-tab state
	txState  transactionsState
	settings settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues
	needSetup bool

	// Loading: channel-based progress subscription
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	scrollOverhead    = 6 // header + status bar rows, for half-page scroll
	minHalfPageScroll = 1
	minContentHeight  = 5

	minRefreshInterval = 10 * time.Second
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	engine := newEngine(opts)

	month := model.YearMonthOf(engine.Today())
	if opts.Month != nil {
		month = *opts.Month
	}

	refreshInterval := time.Duration(opts.Config.TUI.RefreshIntervalSec) * time.Second
	if refreshInterval < minRefreshInterval {
		refreshInterval = 60 * time.Second
	}

	setupVals := DefaultSetupValues(opts.Config, opts.DataDir)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		opts:            opts,
		engine:          engine,
		month:           month,
		fullHistory:     opts.FullHistory,
		balance:         opts.Balance,
		autoRefresh:     opts.Config.TUI.AutoRefresh,
		refreshInterval: refreshInterval,
		needSetup:       opts.NeedSetup,
		setupVals:       &setupVals,
		spinner:         sp,
		loadSub:         make(chan tea.Msg, 1),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.opts, a.loadSub),
		a.spinner.Tick,
		tickCmd(),
	)
}

func newEngine(opts Options) *analytics.Engine {
	if opts.Today.IsZero() {
		return analytics.New(opts.Config.Rules())
	}
	return analytics.New(opts.Config.Rules(), analytics.WithToday(opts.Today))
}

// target is the month the report covers, or nil for the full history.
func (a App) target() *model.YearMonth {
	if a.fullHistory {
		return nil
	}
	m := a.month
	return &m
}

func (a *App) recompute() {
	a.report = a.engine.GenerateReport(a.txs, a.balance, a.target())

	p := a.report.Period
	a.daily = pipeline.AggregateDays(a.report.Transactions, p.Start, p.End.AddDate(0, 0, 1))
	a.hourly = pipeline.AggregateHourly(a.report.Transactions)
	a.accounts = pipeline.AggregateAccounts(a.report.Transactions)

	a.scroll = 0
	a.txState.clamp(len(a.visibleTransactions()))
}

// shiftMonth moves the selected period by delta months. Months with data are
// visited in order; outside them the calendar is followed. Leaving the full
// history view lands on the reference month.
func (a *App) shiftMonth(delta int) {
	if a.fullHistory {
		a.fullHistory = false
		a.recompute()
		return
	}

	next := a.month
	idx := -1
	for i, m := range a.months {
		if m == a.month {
			idx = i
			break
		}
	}
	switch {
	case idx >= 0 && idx+delta >= 0 && idx+delta < len(a.months):
		next = a.months[idx+delta]
	case delta < 0:
		next = a.month.Prev()
	case delta > 0:
		next = a.month.Next()
	}
	a.month = next
	a.recompute()
}

func (a *App) applyData(msg DataLoadedMsg) {
	a.loadErr = msg.Err
	if msg.Err != nil {
		return
	}
	a.txs = msg.Transactions
	a.parseErrors = msg.ParseErrors
	a.fileErrors = msg.FileErrors
	a.loadTime = msg.LoadTime
	a.months = pipeline.Months(a.txs)
	a.recompute()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		return a.updateMouse(msg)

	case tea.KeyMsg:
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.loaded = true
		a.lastRefresh = time.Now()
		a.applyData(msg)

		if a.needSetup {
			a.setupForm = NewSetupForm(len(a.txs), a.opts.DataDir, a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.loaded && a.autoRefresh && !a.refreshing && time.Since(a.lastRefresh) >= a.refreshInterval {
			a.refreshing = true
			cmds = append(cmds, refreshDataCmd(a.opts))
		}
		return a, tea.Batch(cmds...)

	case RefreshDataMsg:
		a.refreshing = false
		a.lastRefresh = time.Now()
		a.applyData(DataLoadedMsg(msg))
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !a.loaded || a.showHelp || (a.needSetup && a.setupForm != nil) {
		return a, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if a.activeTab == components.TabTransactions {
			a.txState.move(-1, len(a.visibleTransactions()))
		} else if a.scroll > 0 {
			a.scroll--
		}
	case tea.MouseButtonWheelDown:
		if a.activeTab == components.TabTransactions {
			a.txState.move(1, len(a.visibleTransactions()))
		} else {
			a.scroll++
		}
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.setTab(tab)
			}
		}
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}

	// First-run setup intercepts all keys
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.activeTab == components.TabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}
	if a.activeTab == components.TabTransactions && a.txState.searching {
		return a.updateTransactionsSearch(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch a.activeTab {
	case components.TabTransactions:
		if m, cmd, ok := a.updateTransactionsKey(key); ok {
			return m, cmd
		}
	case components.TabSettings:
		switch key {
		case "j", "down":
			a.settings.cursor = min(a.settings.cursor+1, settingsFieldCount-1)
			return a, nil
		case "k", "up":
			a.settings.cursor = max(a.settings.cursor-1, 0)
			return a, nil
		case "enter":
			return a.settingsStartEdit()
		}
	default:
		if a.updateScroll(key) {
			return a, nil
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, refreshDataCmd(a.opts)
		}
		return a, nil
	case "R":
		a.autoRefresh = !a.autoRefresh
		cfg := loadConfigOrDefault()
		cfg.TUI.AutoRefresh = a.autoRefresh
		_ = config.Save(cfg)
		return a, nil
	case "[":
		a.shiftMonth(-1)
		return a, nil
	case "]":
		a.shiftMonth(1)
		return a, nil
	case "H":
		a.fullHistory = !a.fullHistory
		a.recompute()
		return a, nil
	case "left", "shift+tab":
		a.setTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
		return a, nil
	case "right", "tab":
		a.setTab((a.activeTab + 1) % len(components.Tabs))
		return a, nil
	}

	if runes := []rune(key); len(runes) == 1 {
		if idx := components.TabIdxByKey(runes[0]); idx >= 0 {
			a.setTab(idx)
		}
	}
	return a, nil
}

// updateScroll handles vertical scrolling on the report tabs.
func (a *App) updateScroll(key string) bool {
	halfPage := max((a.height-scrollOverhead)/2, minHalfPageScroll)
	switch key {
	case "j", "down":
		a.scroll++
	case "k", "up":
		a.scroll = max(a.scroll-1, 0)
	case "ctrl+d":
		a.scroll += halfPage
	case "ctrl+u":
		a.scroll = max(a.scroll-halfPage, 0)
	case "g":
		a.scroll = 0
	default:
		return false
	}
	return true
}

func (a *App) setTab(idx int) {
	if idx != a.activeTab {
		a.scroll = 0
	}
	a.activeTab = idx
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.needSetup = false
		a.setupForm = nil
		cfg, err := SaveSetup(*a.setupVals)
		if err != nil {
			a.settings.saveErr = err
			return a, nil
		}
		reload := a.applyConfig(cfg)
		return a, reload
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

// applyConfig adopts a new configuration: rules, balance and data
// directory. Balance and directory only change when the configured value
// did, so command-line overrides survive unrelated edits. A changed
// directory triggers a reload.
func (a *App) applyConfig(cfg config.Config) tea.Cmd {
	prev := a.opts.Config
	a.opts.Config = cfg
	a.engine = newEngine(a.opts)

	prevBalance, hadBalance := config.GetBalance(prev)
	if b, ok := config.GetBalance(cfg); ok && (!hadBalance || b != prevBalance) {
		a.balance = b
	}
	if dir := config.GetDataDir(cfg); dir != config.GetDataDir(prev) && dir != a.opts.DataDir {
		a.opts.DataDir = dir
		a.refreshing = true
		return refreshDataCmd(a.opts)
	}
	a.recompute()
	return nil
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  cashburn needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	countStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ cashburn"))
	b.WriteString(subtitleStyle.Render(" · Transaction Analytics"))
	b.WriteString("\n\n")

	if a.progressMax > 0 {
		barW := max(min(40, a.width-30), 20)
		pct := float64(a.progress) / float64(a.progressMax)
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Parsing statements\n\n"))
		b.WriteString(components.ProgressBar(pct, barW))
		b.WriteString("\n")
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progress))))
		b.WriteString(subtitleStyle.Render(" / "))
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progressMax))))
		b.WriteString(subtitleStyle.Render(" files"))
	} else {
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Scanning statements..."))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	section := func(b *strings.Builder, name string, binds [][2]string) {
		b.WriteString(sectionStyle.Render(name))
		b.WriteString("\n")
		for _, bind := range binds {
			fmt.Fprintf(b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind[0])),
				descStyle.Render(bind[1]))
		}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	section(&b, "Navigation", [][2]string{
		{"o a c p b t x", "Jump to tab"},
		{"← → Tab", "Previous / Next tab"},
		{"[ ]", "Previous / Next month"},
		{"H", "Toggle full history"},
		{"j k", "Scroll / Navigate lists"},
		{"^d ^u", "Half-page scroll"},
	})
	b.WriteString("\n")
	section(&b, "Actions", [][2]string{
		{"/", "Search transactions"},
		{"Enter", "Expand / Edit"},
		{"Esc", "Back / Cancel"},
		{"r", "Reload statements"},
		{"R", "Toggle auto-refresh"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	})
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) periodPill() string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	s := dim.Render(" ◈ ") + accent.Render(a.report.Period.Label)
	s += dim.Render(" │ ") + dim.Render(cli.FormatNumber(int64(a.report.Summary.TransactionCount))+" transactions")
	if a.opts.Account != "" {
		s += dim.Render(" │ ") + accent.Render(a.opts.Account)
	}
	if a.parseErrors > 0 {
		s += dim.Render(" │ ") + lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).
			Render(fmt.Sprintf("%d skipped", a.parseErrors))
	}
	return lipgloss.NewStyle().Background(t.Surface).Width(a.width).Render(s)
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w) + "\n" + a.periodPill()

	statusBar := components.RenderStatusBar(w, components.StatusInfo{
		Period:      a.report.Period.Label,
		Balance:     cli.FormatMoney(a.balance),
		DataAge:     fmt.Sprintf("%.1fs", a.loadTime.Seconds()),
		Refreshing:  a.refreshing,
		AutoRefresh: a.autoRefresh,
	})

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch {
	case a.loadErr != nil:
		content = components.ContentCard("Could not load statements",
			fmt.Sprintf("%s\n\n%s", a.loadErr, "Press r to retry once the directory exists."), cw)
	case a.activeTab == components.TabTransactions:
		content = a.renderTransactionsContent(a.visibleTransactions(), cw, contentH)
	case a.activeTab == components.TabSettings:
		content = a.renderSettingsTab(cw)
	default:
		content = scrollLines(a.renderReportTab(cw), a.scroll, contentH)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderReportTab(cw int) string {
	switch a.activeTab {
	case components.TabAnomalies:
		return a.renderAnomaliesTab(cw)
	case components.TabRecurring:
		return a.renderRecurringTab(cw)
	case components.TabProjection:
		return a.renderProjectionTab(cw)
	case components.TabBreakdown:
		return a.renderBreakdownTab(cw)
	default:
		return a.renderOverviewTab(cw)
	}
}

// ─── Helpers ────────────────────────────────────────────────────

// loadConfigOrDefault loads config, returning defaults on error so the
// dashboard can always start.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadStatements runs the pipeline, through the SQLite cache when enabled.
func loadStatements(opts Options, progressFn pipeline.ProgressFunc) DataLoadedMsg {
	start := time.Now()

	var result *pipeline.LoadResult
	if opts.UseCache {
		if cache, err := store.Open(pipeline.CachePath()); err == nil {
			cr, loadErr := pipeline.LoadWithCache(opts.DataDir, cache, progressFn)
			_ = cache.Close()
			if loadErr == nil {
				result = &cr.LoadResult
			}
		}
	}
	if result == nil {
		r, err := pipeline.Load(opts.DataDir, progressFn)
		if err != nil {
			return DataLoadedMsg{LoadTime: time.Since(start), Err: err}
		}
		result = r
	}

	return DataLoadedMsg{
		Transactions: pipeline.FilterByAccount(result.Transactions, opts.Account),
		ParseErrors:  result.ParseErrors,
		FileErrors:   result.FileErrors,
		LoadTime:     time.Since(start),
	}
}

// loadDataCmd starts the data loading pipeline in a background goroutine.
// It streams ProgressMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(opts Options, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			// Non-blocking send so workers aren't stalled; the next update catches up.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}
			sub <- loadStatements(opts, progressFn)
		}()
		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// refreshDataCmd reloads statements in the background (no progress UI).
func refreshDataCmd(opts Options) tea.Cmd {
	return func() tea.Msg {
		return RefreshDataMsg(loadStatements(opts, nil))
	}
}

// chartDateLabels builds compact X-axis labels for a chronological day
// series: the month abbreviation at the start and at month boundaries, the
// day number elsewhere.
func chartDateLabels(days []pipeline.DailyStats) []string {
	labels := make([]string, len(days))
	prevMonth := time.Month(0)
	for i, d := range days {
		if i == 0 || (d.Date.Month() != prevMonth && i != len(days)-1) {
			labels[i] = d.Date.Format("Jan")
		} else {
			labels[i] = strconv.Itoa(d.Date.Day())
		}
		prevMonth = d.Date.Month()
	}
	return labels
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// scrollLines drops the first offset lines, never scrolling past the point
// where the last line reaches the bottom of an h-line viewport.
func scrollLines(s string, offset, h int) string {
	lines := strings.Split(s, "\n")
	offset = min(offset, max(len(lines)-h, 0))
	if offset <= 0 {
		return s
	}
	return strings.Join(lines[offset:], "\n")
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
