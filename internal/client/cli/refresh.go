package cli

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Refresh reloads the current page of all three listings concurrently. Each
// request runs to completion on its own, so a failing store neither cancels
// nor rolls back the others. The first error is returned.
func (a *App) Refresh(ctx context.Context, _ []string) error {
	var g errgroup.Group

	g.Go(func() error {
		p := a.users.Pagination()
		return a.users.List(ctx, p.Page, p.Size)
	})
	g.Go(func() error {
		p := a.students.Pagination()
		if q := a.students.Query(); q != "" {
			return a.students.Search(ctx, q, p.Page, p.Size)
		}
		return a.students.List(ctx, p.Page, p.Size)
	})
	g.Go(func() error {
		return a.files.List(ctx, a.files.Query())
	})

	err := g.Wait()

	fmt.Fprintf(a.out, "users: %d of %d, students: %d of %d, files: %d of %d\n",
		len(a.users.Users()), a.users.Pagination().TotalElements,
		len(a.students.Students()), a.students.Pagination().TotalElements,
		len(a.files.Files()), a.files.Pagination().TotalElements)

	return err
}
