package main

import (
	"context"
	"fmt"
	"os"

	"quant-dashboard-engine/engine/UI"
	"quant-dashboard-engine/engine/config"
	"quant-dashboard-engine/engine/internal/api"
	"quant-dashboard-engine/engine/internal/health"
	"quant-dashboard-engine/engine/internal/logger"
	"quant-dashboard-engine/engine/internal/marketdata"
	"quant-dashboard-engine/engine/internal/models"
	"quant-dashboard-engine/engine/internal/portfolio"
	"quant-dashboard-engine/engine/internal/risk"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	configFile = "config.json"
	logSink    = "engine.log"
)

func main() {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	mainLog, err := logger.NewStructuredLogger(cfg.Log.MaxSize, logger.ParseLevel(cfg.Log.Level), logSink)
	if err != nil {
		fmt.Printf("Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer mainLog.Sync()

	mainLog.Infof("Starting engine against %s", cfg.API.BaseURL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Engine wiring, leaf first
	client := api.NewClient(cfg.API.BaseURL, cfg.API.RequestTimeout, mainLog)

	template := models.MarketData{
		Spot:     cfg.MarketData.DefaultEntry.Spot,
		Rate:     cfg.MarketData.DefaultEntry.Rate,
		Vol:      cfg.MarketData.DefaultEntry.Vol,
		Dividend: cfg.MarketData.DefaultEntry.Dividend,
	}
	cache := marketdata.NewCache(template)

	pf := portfolio.NewPortfolio(cfg.MarketData.DefaultSymbol, mainLog)
	orch := marketdata.NewSyncOrchestrator(client, cache, mainLog)
	mon := health.NewMonitor(client, cfg.API.HealthCheckInterval, mainLog)

	varParams := models.VarParameters{
		Simulations: cfg.Risk.Simulations,
		Confidence:  cfg.Risk.Confidence,
		TimeHorizon: cfg.Risk.TimeHorizon,
	}
	builder := risk.NewRequestBuilder(client, varParams, mainLog)

	// Background loops: health polling and portfolio-change reconciliation
	go mon.Run(ctx)
	go orch.Run(ctx, pf)

	p := tea.NewProgram(
		UI.InitialModel(ctx, cfg, mainLog, pf, cache, orch, mon, builder),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
