package stores

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/schoolrecords/internal/client/api"
	"github.com/dmitrijs2005/schoolrecords/internal/client/models"
)

// Sender is the part of the API client the stores need.
type Sender interface {
	Send(ctx context.Context, method, path string, body any, opts ...api.RequestOption) (*api.Response, error)
}

// Result is the outcome of a write answered with a plain message.
// InListing is false when the record was not in the local page; the server
// write still happened and callers may re-fetch.
type Result struct {
	Message   string
	InListing bool
}

type pageRequest struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

func newPageRequest(page, size int) pageRequest {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = models.DefaultPageSize
	}
	return pageRequest{Page: page, Size: size}
}

type idRequest struct {
	ID int64 `json:"id"`
}

// decodePage validates a page envelope at the boundary.
func decodePage[T any](resp *api.Response) (models.Page[T], error) {
	env, err := api.DecodeJSON[models.PageEnvelope[T]](resp)
	if err != nil {
		return models.Page[T]{}, err
	}

	page, err := env.Page()
	if err != nil {
		return models.Page[T]{}, fmt.Errorf("%w: %w", api.ErrMalformedResponse, err)
	}
	return page, nil
}

// decodeRecord decodes a created or updated record, which must carry an id.
func decodeRecord[T models.Identified](resp *api.Response) (T, error) {
	rec, err := api.DecodeJSON[T](resp)
	if err != nil {
		return rec, err
	}
	if rec.GetID() == 0 {
		var zero T
		return zero, fmt.Errorf("%w: record without id", api.ErrMalformedResponse)
	}
	return rec, nil
}
