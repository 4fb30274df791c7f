package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/admindash/internal/buildinfo"
	"github.com/dmitrijs2005/admindash/internal/client/config"
	"github.com/dmitrijs2005/admindash/internal/client/web"
	"github.com/dmitrijs2005/admindash/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.New(logging.Config{Backend: cfg.LogBackend, Level: cfg.LogLevel}, os.Stdout)

	if cfg.SessionSecret == config.DevSessionSecret {
		logger.Warn(ctx, "using the built-in session secret, set SESSION_SECRET")
	}

	app, err := web.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
