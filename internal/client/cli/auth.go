package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/mylibrary/internal/client/client"
)

// getSimpleText, getPassword and getMultiline are swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

// Login prompts for an ID and a hidden password and signs in. A failed
// sign-in leaves any previous session untouched.
func (a *App) Login(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter ID", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	resp, err := a.client.SignIn(ctx, id, string(password))
	if err != nil {
		return err
	}

	user := resp.User
	a.user = &user
	a.printf("Welcome, %s (%s). Session valid until %s\n", user.DisplayName, user.Role, resp.ExpiresAt.Local().Format("2006-01-02 15:04"))
	return nil
}

// Logout forgets the session token.
func (a *App) Logout(_ context.Context) error {
	a.client.SignOut()
	a.user = nil
	a.printf("Logged out\n")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	resp, err := a.client.WhoAmI(ctx)
	if err != nil {
		return a.sessionError(err)
	}
	a.printf("%s (%s), role %s\n", resp.User.ID, resp.User.DisplayName, resp.User.Role)
	if resp.ShowAdmin {
		a.printf("Admin commands: writers, addwriter, rmwriter <id>\n")
	}
	return nil
}

// sessionError drops the local user once the server says the session is gone.
func (a *App) sessionError(err error) error {
	if errors.Is(err, client.ErrSessionExpired) || errors.Is(err, client.ErrNotSignedIn) {
		a.user = nil
	}
	return err
}
