package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/admindash/internal/client/client"
	"github.com/dmitrijs2005/admindash/internal/client/config"
	"github.com/dmitrijs2005/admindash/internal/client/services"
	"github.com/dmitrijs2005/admindash/internal/client/session"
	"github.com/dmitrijs2005/admindash/internal/client/token"
	"github.com/dmitrijs2005/admindash/internal/filex"
	"github.com/dmitrijs2005/admindash/internal/logging"
)

// authService is the slice of services.AuthService the CLI drives.
type authService interface {
	Start(ctx context.Context)
	Login(ctx context.Context, username, password string) services.Result
	Logout(ctx context.Context)
	ResetPassword(ctx context.Context, username, oldPassword, newPassword string) services.Result
	State() services.State
	CurrentUser() (services.User, bool)
}

type App struct {
	config      *config.Config
	authService authService
	db          *sql.DB
	reader      *bufio.Reader
	out         io.Writer
}

// NewApp opens the session database shared with the dashboard host and
// wires the auth service against the remote authentication endpoint.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := filex.EnsureParentDir(c.DatabasePath); err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	store := session.NewStore(db, c.SessionSecret)
	apiClient := client.NewHTTPClient(c.AuthServiceURL, c.APIBaseURL, c.RequestTimeout)
	as := services.NewAuthService(apiClient, store, token.NewCodec(logger), logger)

	return &App{
		config:      c,
		authService: as,
		db:          db,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}, nil
}

// Run restores the stored session and runs the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	a.authService.Start(ctx)
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	_, ok := a.authService.CurrentUser()
	return ok
}
