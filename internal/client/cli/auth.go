package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/schoolrecords/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// Register prompts for a username and password and creates the account. The
// session is not changed; the user logs in separately.
func (a *App) Register(ctx context.Context, _ []string) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	msg, err := a.session.Register(ctx, username, string(password))
	if err != nil {
		return err
	}

	if msg == "" {
		msg = "Registered."
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

// Login prompts for credentials. A failed attempt leaves the user signed out.
func (a *App) Login(ctx context.Context, _ []string) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Login(ctx, username, string(password)); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", username)
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// WhoAmI prints the signed-in user and when the token expires, if known.
func (a *App) WhoAmI(_ context.Context, _ []string) error {
	user, ok := a.session.User()
	if !ok {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}

	fmt.Fprintf(a.out, "%s (id %d)", user.Username, user.ID)
	if user.Email != "" {
		fmt.Fprintf(a.out, " <%s>", user.Email)
	}
	fmt.Fprintln(a.out)

	if exp, ok := a.session.TokenExpiry(); ok {
		fmt.Fprintf(a.out, "Session expires %s\n", exp.Local().Format(time.DateTime))
	}
	return nil
}
