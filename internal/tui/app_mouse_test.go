package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/cashburn/internal/tui/components"
)

func TestTabAtXMatchesTabWidths(t *testing.T) {
	n := len(components.Tabs)
	for active := 0; active < n; active++ {
		a := App{activeTab: active}
		pos := 0

		for i := 0; i < n; i++ {
			w := tabWidthForTest(i, active)
			x := pos + w/2 // midpoint inside this tab
			if got := a.tabAtX(x); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
			pos += w
			if i < n-1 {
				pos++ // separator
			}
		}
		if got := a.tabAtX(pos + 5); got != -1 {
			t.Fatalf("active=%d: x past the last tab -> %d, want -1", active, got)
		}
	}
}

func tabWidthForTest(tabIdx, activeIdx int) int {
	names := []string{"Overview", "Anomalies", "Recurring", "Projection", "Breakdown", "Transactions", "Settings"}

	w := len(names[tabIdx]) + 2 // horizontal padding in tab renderer
	if tabIdx != activeIdx && tabIdx == components.TabSettings {
		w += 3 // inactive Settings adds "[x]"
	}
	return w
}

func TestMouseClickOnTabBarSwitchesTab(t *testing.T) {
	a := loadedApp(t, sampleTransactions())
	x := tabWidthForTest(components.TabOverview, components.TabOverview) + 1 + 2

	m, _ := a.Update(tea.MouseMsg{X: x, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if got := m.(App).activeTab; got != components.TabAnomalies {
		t.Fatalf("activeTab = %d, want %d", got, components.TabAnomalies)
	}
}

func TestMouseWheelMovesTransactionCursor(t *testing.T) {
	a := loadedApp(t, sampleTransactions())
	a.activeTab = components.TabTransactions

	m, _ := a.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	m, _ = m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	if got := m.(App).txState.cursor; got != 2 {
		t.Fatalf("cursor = %d, want 2", got)
	}
	m, _ = m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	if got := m.(App).txState.cursor; got != 1 {
		t.Fatalf("cursor = %d, want 1", got)
	}
}
