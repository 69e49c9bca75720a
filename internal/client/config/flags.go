package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/mylibrary/internal/flagx"
)

// parseFlags reads -a (server address), -t (request timeout in seconds) and
// -o (download directory). Other arguments are ignored.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-o"})
	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.DownloadDir, "o", cfg.DownloadDir, "directory for downloaded PDFs")
	if err := fs.Parse(args); err != nil {
		panic(err)
	}
	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
