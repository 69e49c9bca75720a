package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/mylibrary/internal/flagx"
	"github.com/dmitrijs2005/mylibrary/internal/timex"
)

// JsonConfig is the on-disk form. Durations accept "10s" or nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
	DownloadDir        string         `json:"download_dir"`
	MaxPDFSize         int64          `json:"max_pdf_size"`
}

// parseJson overlays non-zero values from the file named by -c/-config.
// Read and decode errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.DownloadDir != "" {
		cfg.DownloadDir = jc.DownloadDir
	}
	if jc.MaxPDFSize != 0 {
		cfg.MaxPDFSize = jc.MaxPDFSize
	}
}
