package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/schoolrecords/internal/client/models"
	"github.com/dmitrijs2005/schoolrecords/internal/common"
)

// Users lists a page of accounts: users [page] [size].
func (a *App) Users(ctx context.Context, args []string) error {
	cur := a.users.Pagination()
	page, size, err := parsePaging(args, 0, cur.Size)
	if err != nil {
		return err
	}

	if err := a.users.List(ctx, page, size); err != nil {
		return err
	}
	printUsers(a.out, a.users.Users(), a.users.Pagination())
	return nil
}

// EditUser updates an account: edituser <id>. Known values are offered as
// defaults; an empty password leaves it unchanged on the server.
func (a *App) EditUser(ctx context.Context, args []string) error {
	id, err := parseID(args, "edituser <id>")
	if err != nil {
		return err
	}

	current, _ := a.users.Get(id)

	username, err := GetWithDefault(a.reader, "Username", current.Username, a.out)
	if err != nil {
		return err
	}
	email, err := GetWithDefault(a.reader, "Email", current.Email, a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.users.Update(ctx, id, models.UserUpdate{Username: username, Password: string(password), Email: email})
	if err != nil {
		return err
	}

	a.reportWrite(res.Message, res.InListing, "users")
	return nil
}

// DeleteUser removes an account: deluser <id>.
func (a *App) DeleteUser(ctx context.Context, args []string) error {
	id, err := parseID(args, "deluser <id>")
	if err != nil {
		return err
	}

	res, err := a.users.Delete(ctx, id)
	if err != nil {
		return err
	}

	a.reportWrite(res.Message, res.InListing, "users")
	return nil
}

// reportWrite prints the server's message and hints at a re-fetch when the
// record was not part of the local page.
func (a *App) reportWrite(msg string, inListing bool, listCmd string) {
	if msg == "" {
		msg = "Done."
	}
	fmt.Fprintln(a.out, msg)
	if !inListing {
		fmt.Fprintf(a.out, "(not in the current page; run '%s' to reload)\n", listCmd)
	}
}
