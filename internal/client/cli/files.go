package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/schoolrecords/internal/client/models"
)

// Files lists a page of files: files [page] [size] [sortBy] [asc|desc].
func (a *App) Files(ctx context.Context, args []string) error {
	q := a.files.Query()

	page, size, err := parsePaging(args, 0, q.Size)
	if err != nil {
		return err
	}
	q.Page, q.Size = page, size

	if len(args) > 2 {
		q.SortBy = args[2]
	}
	if len(args) > 3 {
		dir := strings.ToLower(args[3])
		if dir != "asc" && dir != "desc" {
			return fmt.Errorf("sort direction must be asc or desc, got %q", args[3])
		}
		q.SortDirection = dir
	}

	if err := a.files.List(ctx, q); err != nil {
		return err
	}
	printFiles(a.out, a.files.Files(), a.files.Pagination())
	return nil
}

// Upload sends a local file: upload <path>.
func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: upload <path>")
	}
	path := strings.Join(args, " ")

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	description, err := getSimpleText(a.reader, "Description (optional)", a.out)
	if err != nil {
		return err
	}

	stored, err := a.files.Upload(ctx, filepath.Base(path), f, description)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Uploaded %s (id %d, %s).\n", stored.Name, stored.ID, humanSize(stored.Size))
	return nil
}

// EditFile renames a file or changes its description: editfile <id>.
func (a *App) EditFile(ctx context.Context, args []string) error {
	id, err := parseID(args, "editfile <id>")
	if err != nil {
		return err
	}

	current, _ := a.files.Get(id)

	name, err := GetWithDefault(a.reader, "Name", current.Name, a.out)
	if err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required")
	}
	description, err := GetWithDefault(a.reader, "Description", current.Description, a.out)
	if err != nil {
		return err
	}

	f, inListing, err := a.files.Update(ctx, id, models.FileUpdate{Name: name, Description: description})
	if err != nil {
		return err
	}

	a.reportWrite(fmt.Sprintf("Updated %s.", f.Name), inListing, "files")
	return nil
}

// Download saves a file: download <id> [name]. Without a name the listing's
// name is suggested; the server's own name wins when it sends one.
func (a *App) Download(ctx context.Context, args []string) error {
	id, err := parseID(args, "download <id> [name]")
	if err != nil {
		return err
	}

	suggested := strings.Join(args[1:], " ")
	if suggested == "" {
		if f, ok := a.files.Get(id); ok {
			suggested = f.Name
		}
	}

	d, err := a.files.Download(ctx, id, suggested)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Saved %s to %s (%s).\n", d.Name, d.Location, humanSize(int64(d.Size)))
	return nil
}

func (a *App) DeleteFile(ctx context.Context, args []string) error {
	id, err := parseID(args, "delfile <id>")
	if err != nil {
		return err
	}

	inListing, err := a.files.Delete(ctx, id)
	if err != nil {
		return err
	}

	a.reportWrite("Deleted.", inListing, "files")
	return nil
}
