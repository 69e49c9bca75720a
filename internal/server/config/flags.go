package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/mylibrary/internal/flagx"
)

var serverFlags = []string{
	"-a", "-g", "-d", "-s", "-t", "-cookie-secure", "-bootstrap-admin",
	"-u", "-p", "-b", "-r", "-e", "-otlp",
}

// parseFlags overlays command-line flags.
//
//	-a string     HTTP bind address (":8080")
//	-g string     gRPC bind address (":50051")
//	-d string     PostgreSQL DSN
//	-s string     session signing secret
//	-t duration   session lifetime ("720h")
//	-cookie-secure      mark the session cookie Secure
//	-bootstrap-admin    accept the built-in admin/admin account
//	-u, -p string S3 root user and password
//	-b string     S3 bucket
//	-r string     S3 region
//	-e string     S3 base endpoint
//	-otlp string  OTLP/gRPC collector endpoint
//
// Only the flags above are parsed; everything else on the command line is
// filtered out with flagx.FilterArgs.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "HTTP address and port")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "gRPC address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SessionSecret, "s", config.SessionSecret, "session signing secret")
	fs.DurationVar(&config.SessionTTL, "t", config.SessionTTL, "session lifetime")
	fs.BoolVar(&config.CookieSecure, "cookie-secure", config.CookieSecure, "set Secure on the session cookie")
	fs.BoolVar(&config.BootstrapAdmin, "bootstrap-admin", config.BootstrapAdmin, "accept the built-in admin account")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "r", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.OTLPEndpoint, "otlp", config.OTLPEndpoint, "OTLP collector endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
