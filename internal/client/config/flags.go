package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/admindash/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the authentication service
//	-b string   base URL of the tenant/branch API
//	-l string   dashboard listen address
//	-g string   gRPC health listen address
//	-d string   path of the local SQLite database
//	-t int      remote request timeout in seconds
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-b", "-l", "-g", "-d", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.AuthServiceURL, "a", cfg.AuthServiceURL, "authentication service base URL")
	fs.StringVar(&cfg.APIBaseURL, "b", cfg.APIBaseURL, "tenant/branch API base URL")
	fs.StringVar(&cfg.ListenAddr, "l", cfg.ListenAddr, "dashboard listen address")
	fs.StringVar(&cfg.HealthAddr, "g", cfg.HealthAddr, "gRPC health listen address")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "remote request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
