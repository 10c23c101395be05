package UI

import (
	"context"
	"time"

	"quant-dashboard-engine/engine/config"
	"quant-dashboard-engine/engine/internal/health"
	"quant-dashboard-engine/engine/internal/logger"
	"quant-dashboard-engine/engine/internal/marketdata"
	"quant-dashboard-engine/engine/internal/models"
	"quant-dashboard-engine/engine/internal/portfolio"
	"quant-dashboard-engine/engine/internal/risk"

	"github.com/charmbracelet/bubbles/textinput"
)

type Tab int

type mode int

type tickMsg time.Time

// refreshDoneMsg reports the outcome of a forced market data refresh
type refreshDoneMsg struct {
	err error
}

// riskResultMsg reports the outcome of a risk calculation
type riskResultMsg struct {
	metrics *models.RiskMetrics
	err     error
}

// formField indexes the instrument entry inputs
type formField int

const (
	fieldAssetID formField = iota
	fieldStyle
	fieldType
	fieldStrike
	fieldExpiry
	fieldQuantity
	fieldCount
)

// MarketDataRow is one line of the market data panel
type MarketDataRow struct {
	AssetID     string
	Entry       models.MarketData
	Fetched     bool
	LastUpdated time.Time
}

type model struct {
	activeTab Tab
	mode      mode
	width     int
	height    int
	statusMsg string
	errorMsg  string

	// Instrument entry form
	inputs     []textinput.Model
	focusIndex formField

	// Portfolio tab selection
	selectedRow int

	// Risk analysis state
	results     *models.RiskMetrics
	calculating bool

	// Logs
	logScrollOffset int

	// Engine
	ctx       context.Context
	cfg       *config.Config
	mainLog   *logger.Logger
	pf        *portfolio.Portfolio
	cache     *marketdata.Cache
	orch      *marketdata.SyncOrchestrator
	mon       *health.Monitor
	builder   *risk.RequestBuilder
	refreshed time.Time
}
