// Package web hosts the AdminDash dashboard: the fasthttp server, the route
// guard and the handlers behind it.
package web

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/admindash/internal/client/client"
	"github.com/dmitrijs2005/admindash/internal/client/config"
	"github.com/dmitrijs2005/admindash/internal/client/services"
	"github.com/dmitrijs2005/admindash/internal/client/session"
	"github.com/dmitrijs2005/admindash/internal/client/token"
	"github.com/dmitrijs2005/admindash/internal/filex"
	"github.com/dmitrijs2005/admindash/internal/health"
	"github.com/dmitrijs2005/admindash/internal/logging"
	"github.com/valyala/fasthttp"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	auth   *services.AuthService
	server *fasthttp.Server
	health *health.Server
}

func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	if err := filex.EnsureParentDir(cfg.DatabasePath); err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	store := session.NewStore(db, cfg.SessionSecret)
	codec := token.NewCodec(logger)

	authClient := client.NewHTTPClient(cfg.AuthServiceURL, cfg.APIBaseURL, cfg.RequestTimeout)
	auth := services.NewAuthService(authClient, store, codec, logger)

	dirClient := client.NewHTTPClient(cfg.AuthServiceURL, cfg.APIBaseURL, cfg.RequestTimeout,
		client.WithTokenSource(auth.Token))
	branches := services.NewBranchService(dirClient)

	handlers := NewHandlers(auth, branches, logger, cfg.RequestTimeout)
	r := NewRouter(handlers, Guard(auth))

	server := &fasthttp.Server{
		Handler:      RequestID(logger)(r.Handler),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  2 * time.Minute,
		Name:         "admindash",
	}

	return &App{
		config: cfg,
		logger: logger,
		db:     db,
		auth:   auth,
		server: server,
		health: health.NewServer(cfg.HealthAddr, auth, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping dashboard server...")
		if err := app.server.Shutdown(); err != nil {
			app.logger.Error(ctx, "dashboard shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting dashboard server", "address", app.config.ListenAddr)

	if err := app.server.ListenAndServe(app.config.ListenAddr); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHealthServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.health.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until a termination signal arrives or a server fails. The
// startup session check runs concurrently; guarded routes answer 503 until
// it resolves.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.auth.Start(ctx)
		app.logger.Info(ctx, "session check complete", "state", app.auth.State().String())
	}()
	go func() {
		defer wg.Done()
		app.startHealthServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
