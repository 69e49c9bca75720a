package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const envPrefix = "MYLIBRARY_"

// parseEnv overlays MYLIBRARY_* variables. Malformed numeric, boolean or
// duration values panic, same as a broken config file.
func parseEnv(config *Config) {
	envString("HTTP_ADDR", &config.HTTPAddr)
	envString("GRPC_ADDR", &config.GRPCAddr)
	envString("DATABASE_DSN", &config.DatabaseDSN)
	envString("SESSION_SECRET", &config.SessionSecret)
	envDuration("SESSION_TTL", &config.SessionTTL)
	envString("COOKIE_NAME", &config.CookieName)
	envBool("COOKIE_SECURE", &config.CookieSecure)
	envBool("BOOTSTRAP_ADMIN", &config.BootstrapAdmin)
	envString("S3_ROOT_USER", &config.S3RootUser)
	envString("S3_ROOT_PASSWORD", &config.S3RootPassword)
	envString("S3_BUCKET", &config.S3Bucket)
	envString("S3_REGION", &config.S3Region)
	envString("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	envDuration("PRESIGN_TTL", &config.PresignTTL)
	envInt64("MAX_PDF_SIZE", &config.MaxPDFSize)
	envString("OTLP_ENDPOINT", &config.OTLPEndpoint)
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func envString(name string, dst *string) {
	if v, ok := lookup(name); ok {
		*dst = v
	}
}

func envBool(name string, dst *bool) {
	v, ok := lookup(name)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		panic(fmt.Errorf("%s%s: %w", envPrefix, name, err))
	}
	*dst = b
}

func envInt64(name string, dst *int64) {
	v, ok := lookup(name)
	if !ok {
		return
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		panic(fmt.Errorf("%s%s: %w", envPrefix, name, err))
	}
	*dst = n
}

func envDuration(name string, dst *time.Duration) {
	v, ok := lookup(name)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s%s: %w", envPrefix, name, err))
	}
	*dst = d
}
