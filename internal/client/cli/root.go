package cli

import (
	"bufio"
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	u, ok := a.authService.CurrentUser()
	if !ok {
		return ""
	}
	return fmt.Sprintf("(%s %s) ", u.Name, u.Role)
}

// Root prints the banner and blocks in the REPL until the user exits.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to AdminDash CLI (type 'help' for commands)")
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "No active session, use 'login' to sign in")
	}

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}
