package config

import "time"

// Config holds all configuration settings
type Config struct {
	API        APIConfig        `mapstructure:"api"`
	MarketData MarketDataConfig `mapstructure:"market_data"`
	Risk       RiskConfig       `mapstructure:"risk"`
	Log        LogConfig        `mapstructure:"log"`
}

// APIConfig holds connection settings for the remote pricing service
type APIConfig struct {
	BaseURL             string        `mapstructure:"base_url"`
	RequestTimeout      time.Duration `mapstructure:"request_timeout"`
	HealthCheckInterval time.Duration `mapstructure:"health_check_interval"`
}

// MarketDataConfig holds sync defaults for the market data engine
type MarketDataConfig struct {
	// DefaultSymbol is displayed (and synced) when the portfolio is empty
	DefaultSymbol string `mapstructure:"default_symbol"`
	// DefaultEntry seeds every cache record so no field is ever left unset
	DefaultEntry DefaultEntryConfig `mapstructure:"default_entry"`
}

// DefaultEntryConfig is the market data template merged into every cache write
type DefaultEntryConfig struct {
	Spot     float64 `mapstructure:"spot"`
	Rate     float64 `mapstructure:"rate"`
	Vol      float64 `mapstructure:"vol"`
	Dividend float64 `mapstructure:"dividend"`
}

// RiskConfig holds the Monte Carlo VaR parameters attached to risk requests
type RiskConfig struct {
	Simulations int     `mapstructure:"simulations"`
	Confidence  float64 `mapstructure:"confidence"`
	TimeHorizon float64 `mapstructure:"time_horizon"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level   string `mapstructure:"level"`
	MaxSize int    `mapstructure:"max_size"`
}
