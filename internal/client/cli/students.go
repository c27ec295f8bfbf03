package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/schoolrecords/internal/client/models"
)

// Students lists a page of student records: students [page] [size].
func (a *App) Students(ctx context.Context, args []string) error {
	page, size, err := parsePaging(args, 0, a.students.Pagination().Size)
	if err != nil {
		return err
	}

	if err := a.students.List(ctx, page, size); err != nil {
		return err
	}
	printStudents(a.out, a.students.Students(), a.students.Pagination())
	return nil
}

// Search finds students by name: search <name> [page] [size].
func (a *App) Search(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: search <name> [page] [size]")
	}

	page, size, err := parsePaging(args[1:], 0, a.students.Pagination().Size)
	if err != nil {
		return err
	}

	if err := a.students.Search(ctx, args[0], page, size); err != nil {
		return err
	}
	printStudents(a.out, a.students.Students(), a.students.Pagination())
	return nil
}

func (a *App) AddStudent(ctx context.Context, _ []string) error {
	in, err := a.readStudent(models.StudentInput{})
	if err != nil {
		return err
	}

	st, err := a.students.Add(ctx, in)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Added student %s (id %d).\n", st.Name, st.ID)
	return nil
}

// EditStudent updates every field of a record: editstudent <id>.
func (a *App) EditStudent(ctx context.Context, args []string) error {
	id, err := parseID(args, "editstudent <id>")
	if err != nil {
		return err
	}

	var defaults models.StudentInput
	if st, ok := a.students.Get(id); ok {
		defaults = models.StudentInput{
			StudentNumber: st.StudentNumber,
			Name:          st.Name,
			School:        st.School,
			ClassName:     st.ClassName,
			Chinese:       st.Chinese,
			Math:          st.Math,
			English:       st.English,
			Physics:       st.Physics,
			Chemistry:     st.Chemistry,
		}
	}

	in, err := a.readStudent(defaults)
	if err != nil {
		return err
	}

	res, err := a.students.Update(ctx, id, in)
	if err != nil {
		return err
	}

	a.reportWrite(res.Message, res.InListing, "students")
	return nil
}

func (a *App) DeleteStudent(ctx context.Context, args []string) error {
	id, err := parseID(args, "delstudent <id>")
	if err != nil {
		return err
	}

	res, err := a.students.Delete(ctx, id)
	if err != nil {
		return err
	}

	a.reportWrite(res.Message, res.InListing, "students")
	return nil
}

// readStudent prompts for every student field, offering cur as defaults.
func (a *App) readStudent(cur models.StudentInput) (models.StudentInput, error) {
	var (
		in  models.StudentInput
		err error
	)

	text := []struct {
		prompt string
		cur    string
		dst    *string
	}{
		{"Student name", cur.Name, &in.Name},
		{"Student number", cur.StudentNumber, &in.StudentNumber},
		{"School", cur.School, &in.School},
		{"Class", cur.ClassName, &in.ClassName},
	}
	for _, f := range text {
		if *f.dst, err = GetWithDefault(a.reader, f.prompt, f.cur, a.out); err != nil {
			return in, err
		}
	}
	if strings.TrimSpace(in.Name) == "" {
		return in, fmt.Errorf("student name is required")
	}

	scores := []struct {
		subject string
		cur     float64
		dst     *float64
	}{
		{"Chinese", cur.Chinese, &in.Chinese},
		{"Math", cur.Math, &in.Math},
		{"English", cur.English, &in.English},
		{"Physics", cur.Physics, &in.Physics},
		{"Chemistry", cur.Chemistry, &in.Chemistry},
	}
	for _, s := range scores {
		if *s.dst, err = GetScore(a.reader, s.subject, s.cur, a.out); err != nil {
			return in, err
		}
	}

	return in, nil
}
