package UI

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"quant-dashboard-engine/engine/config"
	"quant-dashboard-engine/engine/internal/health"
	"quant-dashboard-engine/engine/internal/logger"
	"quant-dashboard-engine/engine/internal/marketdata"
	"quant-dashboard-engine/engine/internal/models"
	"quant-dashboard-engine/engine/internal/portfolio"
	"quant-dashboard-engine/engine/internal/risk"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styles
var (
	tabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Bold(true)

	activeTabStyle = tabStyle.Copy().
			Foreground(lipgloss.Color("36")).
			Background(lipgloss.Color("235"))

	inactiveTabStyle = tabStyle.Copy().
				Foreground(lipgloss.Color("240"))

	contentStyle = lipgloss.NewStyle().
			Padding(1, 2)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("230")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("51"))

	onlineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	offlineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	checkingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)
)

const (
	TabPortfolio Tab = iota
	TabMarketData
	TabRisk
	TabLogs
)

var tabNames = []string{"Portfolio", "Market Data", "Risk Analysis", "Logs"}

const (
	modeNormal mode = iota
	modeInsert
)

// InitialModel builds the dashboard model over a fully wired engine
func InitialModel(
	ctx context.Context,
	cfg *config.Config,
	mainLog *logger.Logger,
	pf *portfolio.Portfolio,
	cache *marketdata.Cache,
	orch *marketdata.SyncOrchestrator,
	mon *health.Monitor,
	builder *risk.RequestBuilder,
) tea.Model {
	placeholders := []string{"AAPL", "european|american", "call|put", "100.0", "1.0", "100"}
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 24
		ti.Width = 20
		inputs[i] = ti
	}

	return model{
		activeTab: TabPortfolio,
		mode:      modeNormal,
		inputs:    inputs,
		ctx:       ctx,
		cfg:       cfg,
		mainLog:   mainLog,
		pf:        pf,
		cache:     cache,
		orch:      orch,
		mon:       mon,
		builder:   builder,
	}
}

func (m model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// forceRefreshCmd kicks off a forced market data refresh in the background
func (m model) forceRefreshCmd() tea.Cmd {
	needed := m.pf.NeededAssets()
	orch := m.orch
	ctx := m.ctx
	return func() tea.Msg {
		return refreshDoneMsg{err: orch.ForceRefresh(ctx, needed)}
	}
}

// calculateCmd submits the current portfolio for risk calculation
func (m model) calculateCmd() tea.Cmd {
	instruments := m.pf.Instruments()
	builder := m.builder
	cache := m.cache
	ctx := m.ctx
	return func() tea.Msg {
		metrics, err := builder.Calculate(ctx, instruments, cache)
		return riskResultMsg{metrics: metrics, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		return m, tickCmd()

	case refreshDoneMsg:
		if msg.err != nil {
			// Sync failures are fail-soft: logged, shown in the status line,
			// never raised as an error banner
			m.statusMsg = "Refresh failed: " + msg.err.Error()
		} else {
			m.refreshed = time.Now()
			m.statusMsg = "Market data refreshed"
		}
		return m, nil

	case riskResultMsg:
		m.calculating = false
		if msg.err != nil {
			m.errorMsg = msg.err.Error()
			m.results = nil
		} else {
			m.errorMsg = ""
			m.results = msg.metrics
			m.activeTab = TabRisk
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode == modeInsert {
			return m.updateInsert(msg)
		}
		return m.updateNormal(msg)
	}

	return m, nil
}

// updateNormal handles keys outside the entry form
func (m model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {

	case "ctrl+c", "q":
		return m, tea.Quit

	case "tab":
		m.activeTab = (m.activeTab + 1) % Tab(len(tabNames))
		return m, nil

	case "shift+tab":
		m.activeTab = (m.activeTab + Tab(len(tabNames)) - 1) % Tab(len(tabNames))
		return m, nil

	case "a":
		m.mode = modeInsert
		m.activeTab = TabPortfolio
		m.focusIndex = fieldAssetID
		m.statusMsg = ""
		return m, m.inputs[fieldAssetID].Focus()

	case "d":
		if m.activeTab == TabPortfolio && m.pf.Size() > 0 {
			if err := m.pf.RemoveAt(m.selectedRow); err == nil {
				if m.selectedRow >= m.pf.Size() && m.selectedRow > 0 {
					m.selectedRow--
				}
				m.statusMsg = "Instrument removed"
			}
		}
		return m, nil

	case "up", "k":
		if m.activeTab == TabLogs {
			m.logScrollOffset++
		} else if m.selectedRow > 0 {
			m.selectedRow--
		}
		return m, nil

	case "down", "j":
		if m.activeTab == TabLogs {
			if m.logScrollOffset > 0 {
				m.logScrollOffset--
			}
		} else if m.selectedRow < m.pf.Size()-1 {
			m.selectedRow++
		}
		return m, nil

	case "r":
		// Refresh is a no-op while a prior refresh is still in flight
		if m.orch.IsRefreshing() {
			m.statusMsg = "Refresh already in progress"
			return m, nil
		}
		m.statusMsg = "Refreshing market data..."
		return m, m.forceRefreshCmd()

	case "c":
		if m.calculating {
			return m, nil
		}
		if m.pf.Size() == 0 {
			m.errorMsg = risk.ErrEmptyPortfolio.Error()
			return m, nil
		}
		m.calculating = true
		m.errorMsg = ""
		m.activeTab = TabRisk
		return m, m.calculateCmd()

	case "y":
		return m.copyToClipboard()

	case "esc":
		m.errorMsg = ""
		m.statusMsg = ""
		return m, nil
	}

	return m, nil
}

// updateInsert handles keys while the entry form is focused
func (m model) updateInsert(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {

	case "esc":
		m.mode = modeNormal
		m.inputs[m.focusIndex].Blur()
		return m, nil

	case "enter":
		if m.focusIndex == fieldCount-1 {
			return m.submitForm()
		}
		return m.cycleField(1)

	case "tab", "down":
		return m.cycleField(1)

	case "shift+tab", "up":
		return m.cycleField(-1)
	}

	var cmd tea.Cmd
	m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
	return m, cmd
}

func (m model) cycleField(delta int) (tea.Model, tea.Cmd) {
	m.inputs[m.focusIndex].Blur()
	m.focusIndex = (m.focusIndex + formField(delta) + fieldCount) % fieldCount
	return m, m.inputs[m.focusIndex].Focus()
}

// submitForm validates the inputs and adds the instrument to the portfolio
func (m model) submitForm() (tea.Model, tea.Cmd) {
	strike, err := strconv.ParseFloat(strings.TrimSpace(m.inputs[fieldStrike].Value()), 64)
	if err != nil {
		m.statusMsg = "Strike must be a number"
		return m, nil
	}
	expiry, err := strconv.ParseFloat(strings.TrimSpace(m.inputs[fieldExpiry].Value()), 64)
	if err != nil {
		m.statusMsg = "Expiry must be a number (years)"
		return m, nil
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(m.inputs[fieldQuantity].Value()))
	if err != nil {
		m.statusMsg = "Quantity must be an integer"
		return m, nil
	}

	in := models.Instrument{
		AssetID:  m.inputs[fieldAssetID].Value(),
		Style:    models.OptionStyle(strings.ToLower(strings.TrimSpace(m.inputs[fieldStyle].Value()))),
		Type:     models.OptionType(strings.ToLower(strings.TrimSpace(m.inputs[fieldType].Value()))),
		Strike:   strike,
		Expiry:   expiry,
		Quantity: quantity,
	}

	if err := m.pf.Add(in); err != nil {
		m.statusMsg = err.Error()
		return m, nil
	}

	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.mode = modeNormal
	m.statusMsg = fmt.Sprintf("Added %s", in.AssetID)
	return m, nil
}

// copyToClipboard exports the active tab's content
func (m model) copyToClipboard() (tea.Model, tea.Cmd) {
	var payload string
	switch m.activeTab {
	case TabLogs:
		payload = m.mainLog.ExportToString()
	case TabRisk:
		if m.results != nil {
			payload = m.renderMetricsPlain()
		}
	}
	if payload == "" {
		m.statusMsg = "Nothing to copy"
		return m, nil
	}
	if err := clipboard.WriteAll(payload); err != nil {
		m.statusMsg = "Clipboard unavailable: " + err.Error()
		return m, nil
	}
	m.statusMsg = "Copied to clipboard"
	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	switch m.activeTab {
	case TabPortfolio:
		b.WriteString(contentStyle.Render(m.renderPortfolioTab()))
	case TabMarketData:
		b.WriteString(contentStyle.Render(m.renderMarketDataTab()))
	case TabRisk:
		b.WriteString(contentStyle.Render(m.renderRiskTab()))
	case TabLogs:
		b.WriteString(contentStyle.Render(m.renderLogsTab()))
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m model) renderHeader() string {
	title := headerStyle.Render("Quant Dashboard Engine")

	var indicator string
	snap := m.mon.Snapshot()
	switch m.mon.Status() {
	case health.StatusOnline:
		indicator = onlineStyle.Render("● ONLINE")
		if snap.CachedAssetCount != nil {
			indicator += dimStyle.Render(fmt.Sprintf("  %d cached assets", *snap.CachedAssetCount))
		}
	case health.StatusOffline:
		indicator = offlineStyle.Render("● OFFLINE")
	default:
		indicator = checkingStyle.Render("● CHECKING")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, title, "   ", indicator,
		"   ", dimStyle.Render(m.cfg.API.BaseURL))
}

func (m model) renderTabs() string {
	var tabs []string
	for i, name := range tabNames {
		if Tab(i) == m.activeTab {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m model) renderPortfolioTab() string {
	var b strings.Builder

	instruments := m.pf.Instruments()
	if len(instruments) == 0 && m.mode != modeInsert {
		b.WriteString(dimStyle.Render("Portfolio is empty. Press 'a' to add an instrument.\n"))
	}

	if len(instruments) > 0 {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-8s %-10s %-5s %10s %8s %8s", "ASSET", "STYLE", "TYPE", "STRIKE", "EXPIRY", "QTY")))
		b.WriteString("\n")
		for i, in := range instruments {
			row := fmt.Sprintf("%-8s %-10s %-5s %10.2f %8.2f %8d",
				in.AssetID, in.Style, in.Type, in.Strike, in.Expiry, in.Quantity)
			if i == m.selectedRow && m.mode == modeNormal {
				row = selectedRowStyle.Render(row)
			}
			b.WriteString(row)
			b.WriteString("\n")
		}
	}

	if m.mode == modeInsert {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("New instrument"))
		b.WriteString("\n")
		fieldLabels := []string{"Asset ID", "Style", "Type", "Strike", "Expiry (y)", "Quantity"}
		for i, label := range fieldLabels {
			b.WriteString(fmt.Sprintf("%-11s %s\n", label, m.inputs[i].View()))
		}
		b.WriteString(dimStyle.Render("enter: next/submit  esc: cancel\n"))
	}

	return b.String()
}

func (m model) renderMarketDataTab() string {
	var b strings.Builder

	rows := m.marketDataRows()
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-8s %10s %8s %8s %8s  %s", "ASSET", "SPOT", "RATE", "VOL", "DIV", "UPDATED")))
	b.WriteString("\n")
	for _, row := range rows {
		status := dimStyle.Render("will fetch on calculate")
		if row.Fetched {
			status = timeAgo(row.LastUpdated)
		}
		b.WriteString(fmt.Sprintf("%-8s %10.2f %8.4f %8.4f %8.4f  %s\n",
			row.AssetID, row.Entry.Spot, row.Entry.Rate, row.Entry.Vol, row.Entry.Dividend, status))
	}

	if failed := m.orch.FailedAssets(); len(failed) > 0 {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("Last batch failed for: %s", strings.Join(failed, ", "))))
		b.WriteString("\n")
	}

	if m.orch.IsRefreshing() {
		b.WriteString("\n" + checkingStyle.Render("Refreshing...") + "\n")
	} else {
		hint := "r: force refresh"
		if !m.refreshed.IsZero() {
			hint += "  (last: " + timeAgo(m.refreshed) + ")"
		}
		b.WriteString("\n" + dimStyle.Render(hint) + "\n")
	}

	return b.String()
}

// marketDataRows assembles the panel rows for every needed asset
func (m model) marketDataRows() []MarketDataRow {
	needed := m.pf.NeededAssets()
	rows := make([]MarketDataRow, 0, len(needed))
	for _, id := range needed {
		entry, ok := m.cache.Get(id)
		if !ok {
			entry = m.cache.Template()
		}
		row := MarketDataRow{AssetID: id, Entry: entry}
		if st, ok := m.orch.State(id); ok && st.Fetched {
			row.Fetched = true
			row.LastUpdated = st.LastUpdated
		}
		rows = append(rows, row)
	}
	return rows
}

func (m model) renderRiskTab() string {
	var b strings.Builder

	if m.errorMsg != "" {
		b.WriteString(errorStyle.Render("Error: " + m.errorMsg))
		b.WriteString("\n\n")
	}

	switch {
	case m.calculating:
		b.WriteString(checkingStyle.Render("Calculating risk metrics..."))
		b.WriteString("\n")
	case m.results == nil:
		b.WriteString(dimStyle.Render("No results yet. Press 'c' to calculate portfolio risk."))
		b.WriteString("\n")
	default:
		r := m.results
		b.WriteString(successStyle.Render(fmt.Sprintf("Risk metrics (%d instruments)", r.PortfolioSize)))
		b.WriteString("\n\n")
		b.WriteString(metricLine("Total PV", r.TotalPV))
		b.WriteString(metricLine("Delta", r.TotalDelta))
		b.WriteString(metricLine("Gamma", r.TotalGamma))
		b.WriteString(metricLine("Vega", r.TotalVega))
		b.WriteString(metricLine("Theta", r.TotalTheta))
		b.WriteString(metricLine("VaR 95%", r.ValueAtRisk95))
		if r.ValueAtRisk99 != nil {
			b.WriteString(metricLine("VaR 99%", *r.ValueAtRisk99))
		}
		if r.ExpectedShortfall95 != nil {
			b.WriteString(metricLine("ES 95%", *r.ExpectedShortfall95))
		}
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("y: copy results"))
		b.WriteString("\n")
	}

	return b.String()
}

// renderMetricsPlain is the clipboard export of the last results
func (m model) renderMetricsPlain() string {
	r := m.results
	var b strings.Builder
	fmt.Fprintf(&b, "Total PV: %s\n", formatValue(r.TotalPV, 2))
	fmt.Fprintf(&b, "Delta: %s\n", formatValue(r.TotalDelta, 2))
	fmt.Fprintf(&b, "Gamma: %s\n", formatValue(r.TotalGamma, 4))
	fmt.Fprintf(&b, "Vega: %s\n", formatValue(r.TotalVega, 2))
	fmt.Fprintf(&b, "Theta: %s\n", formatValue(r.TotalTheta, 2))
	fmt.Fprintf(&b, "VaR 95%%: %s\n", formatValue(r.ValueAtRisk95, 2))
	fmt.Fprintf(&b, "Portfolio size: %d\n", r.PortfolioSize)
	return b.String()
}

func (m model) renderLogsTab() string {
	entries := m.mainLog.GetEntries()

	visible := 15
	if m.height > 12 {
		visible = m.height - 9
	}

	end := len(entries) - m.logScrollOffset
	if end > len(entries) {
		end = len(entries)
	}
	if end < 0 {
		end = 0
	}
	start := end - visible
	if start < 0 {
		start = 0
	}

	var b strings.Builder
	for _, entry := range entries[start:end] {
		line := fmt.Sprintf("[%s] %-5s %s",
			entry.Timestamp.Format("15:04:05"), entry.Level, entry.Message)
		switch entry.Level {
		case logger.LevelError:
			line = errorStyle.Render(line)
		case logger.LevelWarn:
			line = checkingStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("\nup/down: scroll  y: copy logs"))
	b.WriteString("\n")
	return b.String()
}

func (m model) renderStatusBar() string {
	msg := m.statusMsg
	if msg == "" {
		msg = "tab: switch  a: add  d: remove  r: refresh  c: calculate  q: quit"
	}
	return statusBarStyle.Render(msg)
}

func metricLine(label string, value float64) string {
	return fmt.Sprintf("%-10s %14s\n", label, formatValue(value, 2))
}

// formatValue renders a metric with fixed decimals, N/A for non-finite input
func formatValue(value float64, decimals int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "N/A"
	}
	return strconv.FormatFloat(value, 'f', decimals, 64)
}

// timeAgo renders a compact freshness marker for the market data panel
func timeAgo(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d >= time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d >= time.Minute:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return "Just now"
	}
}
