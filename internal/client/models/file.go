package models

import "github.com/dmitrijs2005/schoolrecords/internal/timex"

// File is an uploaded attachment. Its ID doubles as the download reference.
type File struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Size        int64           `json:"size"`
	UploadTime  timex.LocalTime `json:"uploadTime"`
}

func (f File) GetID() int64 { return f.ID }

// FileUpdate holds the editable file metadata.
type FileUpdate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// FileQuery selects a page of the file listing.
type FileQuery struct {
	Page          int
	Size          int
	SortBy        string
	SortDirection string
}

const (
	DefaultFileSortBy        = "uploadTime"
	DefaultFileSortDirection = "desc"
)

// WithDefaults fills unset fields with the listing defaults.
func (q FileQuery) WithDefaults() FileQuery {
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Size <= 0 {
		q.Size = DefaultPageSize
	}
	if q.SortBy == "" {
		q.SortBy = DefaultFileSortBy
	}
	if q.SortDirection == "" {
		q.SortDirection = DefaultFileSortDirection
	}
	return q
}
