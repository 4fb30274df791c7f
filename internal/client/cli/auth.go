package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/admindash/internal/client/services"
	"github.com/dmitrijs2005/admindash/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) report(res services.Result, success string) {
	if res.Success {
		fmt.Fprintln(a.out, success)
		return
	}
	fmt.Fprintln(a.out, "Error:", res.Error)
}

// Login prompts for credentials and signs in. The password buffer is wiped
// before returning.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res := a.authService.Login(ctx, userName, string(password))
	a.report(res, "Login successful")
	return nil
}

// Logout forgets the stored session.
func (a *App) Logout(ctx context.Context) error {
	a.authService.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Reset prompts for a username and the old and new passwords and asks the
// authentication service to change the password.
func (a *App) Reset(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	oldPassword, err := getPassword(a.out, "Old password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(oldPassword)

	newPassword, err := getPassword(a.out, "New password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(newPassword)

	res := a.authService.ResetPassword(ctx, userName, string(oldPassword), string(newPassword))
	a.report(res, services.ResetSucceeded)
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	u, ok := a.authService.CurrentUser()
	if !ok {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	fmt.Fprintf(a.out, "id:    %s\nemail: %s\nname:  %s\nrole:  %s\n", u.ID, u.Email, u.Name, u.Role)
	return nil
}

func (a *App) Status(ctx context.Context) error {
	fmt.Fprintln(a.out, a.authService.State().String())
	return nil
}
