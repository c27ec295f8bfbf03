package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/schoolrecords/internal/client/models"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printPagination(w io.Writer, p models.Pagination) {
	pages := max(p.TotalPages, 1)
	fmt.Fprintf(w, "page %d of %d, %d total", p.Page+1, pages, p.TotalElements)
	if !p.Last {
		fmt.Fprint(w, " (more)")
	}
	fmt.Fprintln(w)
}

func printUsers(w io.Writer, users []models.User, p models.Pagination) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", u.ID, u.Username, u.Email)
	}
	_ = tw.Flush()
	printPagination(w, p)
}

func score(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func printStudents(w io.Writer, students []models.Student, p models.Pagination) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNUMBER\tNAME\tSCHOOL\tCLASS\tCHI\tMATH\tENG\tPHY\tCHEM\tTOTAL")
	for _, s := range students {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.ID, s.StudentNumber, s.Name, s.School, s.ClassName,
			score(s.Chinese), score(s.Math), score(s.English), score(s.Physics), score(s.Chemistry),
			score(s.Total()))
	}
	_ = tw.Flush()
	printPagination(w, p)
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func printFiles(w io.Writer, files []models.File, p models.Pagination) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tSIZE\tUPLOADED\tDESCRIPTION")
	for _, f := range files {
		uploaded := "-"
		if !f.UploadTime.IsZero() {
			uploaded = f.UploadTime.Format(time.DateTime)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", f.ID, f.Name, humanSize(f.Size), uploaded, f.Description)
	}
	_ = tw.Flush()
	printPagination(w, p)
}
