package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/admindash/internal/buildinfo"
	"github.com/dmitrijs2005/admindash/internal/client/cli"
	"github.com/dmitrijs2005/admindash/internal/client/config"
	"github.com/dmitrijs2005/admindash/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.New(logging.Config{Backend: cfg.LogBackend, Level: cfg.LogLevel}, os.Stderr)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
