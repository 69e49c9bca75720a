package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/mylibrary/internal/flagx"
	"github.com/dmitrijs2005/mylibrary/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Absent keys
// leave the current value untouched, which is why booleans are pointers.
type JsonConfig struct {
	HTTPAddr       string         `json:"http_addr"`
	GRPCAddr       string         `json:"grpc_addr"`
	DatabaseDSN    string         `json:"database_dsn"`
	SessionSecret  string         `json:"session_secret"`
	SessionTTL     timex.Duration `json:"session_ttl"`
	CookieName     string         `json:"cookie_name"`
	CookieSecure   *bool          `json:"cookie_secure"`
	BootstrapAdmin *bool          `json:"bootstrap_admin"`
	S3RootUser     string         `json:"s3_root_user"`
	S3RootPassword string         `json:"s3_root_password"`
	S3Bucket       string         `json:"s3_bucket"`
	S3Region       string         `json:"s3_region"`
	S3BaseEndpoint string         `json:"s3_base_endpoint"`
	PresignTTL     timex.Duration `json:"presign_ttl"`
	MaxPDFSize     int64          `json:"max_pdf_size"`
	OTLPEndpoint   string         `json:"otlp_endpoint"`
}

// parseJson overlays values from the file given by -c or -config.
// It panics when the file cannot be read or parsed.
func parseJson(config *Config) {
	path := flagx.ConfigPath()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCAddr, c.GRPCAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SessionSecret, c.SessionSecret)
	setString(&config.CookieName, c.CookieName)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.OTLPEndpoint, c.OTLPEndpoint)

	if c.SessionTTL.Duration > 0 {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.PresignTTL.Duration > 0 {
		config.PresignTTL = c.PresignTTL.Duration
	}
	if c.MaxPDFSize > 0 {
		config.MaxPDFSize = c.MaxPDFSize
	}
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
	if c.BootstrapAdmin != nil {
		config.BootstrapAdmin = *c.BootstrapAdmin
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
