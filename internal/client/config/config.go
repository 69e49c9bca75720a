// Package config loads settings for the library CLI: defaults, then an
// optional JSON file (-c/-config), then flags.
package config

import "time"

type Config struct {
	ServerEndpointAddr string
	RequestTimeout     time.Duration
	DownloadDir        string
	MaxPDFSize         int64
}

func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 10 * time.Second
	c.DownloadDir = "downloads"
	c.MaxPDFSize = 10 << 20
}

// LoadConfig applies defaults, JSON and flags. Later sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
