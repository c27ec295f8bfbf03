// Package models defines the records exchanged with the school-records
// backend and the page envelope every listing endpoint returns.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultPageSize is used when a caller asks for a non-positive size.
const DefaultPageSize = 10

// ErrInvalidPage reports a page envelope with missing or inconsistent fields.
var ErrInvalidPage = errors.New("invalid page envelope")

// Identified is implemented by every record kept in a local listing.
type Identified interface {
	GetID() int64
}

// Pagination is the page metadata of a listing. Page is zero-based.
type Pagination struct {
	Page          int
	Size          int
	TotalElements int64
	TotalPages    int
	Last          bool
}

// NewPagination returns the metadata of an empty listing.
func NewPagination(size int) Pagination {
	if size <= 0 {
		size = DefaultPageSize
	}
	return Pagination{Size: size, Last: true}
}

// IsLast reports whether page is the final page out of totalPages. A page
// past the end also counts as last: there is nothing further to fetch.
func IsLast(page, totalPages int) bool {
	return totalPages == 0 || page >= totalPages-1
}

// Page is one page of items plus its metadata.
type Page[T any] struct {
	Items []T
	Pagination
}

// PageEnvelope is the wire shape of a paginated response. Pointer fields
// let Page tell an absent field from a zero one.
type PageEnvelope[T any] struct {
	Content       *[]T   `json:"content"`
	Number        *int   `json:"number"`
	Size          *int   `json:"size"`
	TotalElements *int64 `json:"totalElements"`
	TotalPages    *int   `json:"totalPages"`
	Last          *bool  `json:"last"`
}

// Page validates the envelope and converts it. Last is derived from
// Number and TotalPages; the server's own flag is not trusted.
func (e PageEnvelope[T]) Page() (Page[T], error) {
	var missing []string
	if e.Content == nil {
		missing = append(missing, "content")
	}
	if e.Number == nil {
		missing = append(missing, "number")
	}
	if e.Size == nil {
		missing = append(missing, "size")
	}
	if e.TotalElements == nil {
		missing = append(missing, "totalElements")
	}
	if e.TotalPages == nil {
		missing = append(missing, "totalPages")
	}
	if len(missing) > 0 {
		return Page[T]{}, fmt.Errorf("%w: missing %s", ErrInvalidPage, strings.Join(missing, ", "))
	}

	if *e.Number < 0 || *e.Size < 0 || *e.TotalElements < 0 || *e.TotalPages < 0 {
		return Page[T]{}, fmt.Errorf("%w: negative page metadata", ErrInvalidPage)
	}

	return Page[T]{
		Items: *e.Content,
		Pagination: Pagination{
			Page:          *e.Number,
			Size:          *e.Size,
			TotalElements: *e.TotalElements,
			TotalPages:    *e.TotalPages,
			Last:          IsLast(*e.Number, *e.TotalPages),
		},
	}, nil
}
