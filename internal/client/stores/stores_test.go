package stores

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/schoolrecords/internal/client/api"
	"github.com/dmitrijs2005/schoolrecords/internal/client/fakeapi"
	"github.com/dmitrijs2005/schoolrecords/internal/client/models"
)

type env struct {
	backend *fakeapi.Server
	client  *api.Client
}

// newEnv starts a fake backend and returns a client already carrying a
// valid bearer token.
func newEnv(t *testing.T) *env {
	t.Helper()

	backend := fakeapi.New()
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	client, err := api.New(api.Options{BaseURL: srv.URL + fakeapi.BasePath})
	require.NoError(t, err)

	admin := backend.AddUser("admin", "secret", "admin@example.com")
	client.SetDefaultHeader("Authorization", "Bearer "+backend.IssueToken(admin.ID))

	return &env{backend: backend, client: client}
}

type sendFunc func(ctx context.Context, method, path string, body any, opts ...api.RequestOption) (*api.Response, error)

func (f sendFunc) Send(ctx context.Context, method, path string, body any, opts ...api.RequestOption) (*api.Response, error) {
	return f(ctx, method, path, body, opts...)
}

func respond(body string) sendFunc {
	return func(context.Context, string, string, any, ...api.RequestOption) (*api.Response, error) {
		return &api.Response{StatusCode: http.StatusOK, Header: http.Header{}, Body: []byte(body)}, nil
	}
}

func failWith(err error) sendFunc {
	return func(context.Context, string, string, any, ...api.RequestOption) (*api.Response, error) {
		return nil, err
	}
}

var errDown = errors.New("connection refused")

// blockingSender parks requests until release is closed so tests can look
// at a store while an operation is in flight.
type blockingSender struct {
	entered chan struct{}
	release chan struct{}
	next    Sender
}

func newBlockingSender(next Sender) *blockingSender {
	return &blockingSender{entered: make(chan struct{}, 1), release: make(chan struct{}), next: next}
}

func (b *blockingSender) Send(ctx context.Context, method, path string, body any, opts ...api.RequestOption) (*api.Response, error) {
	b.entered <- struct{}{}
	<-b.release
	return b.next.Send(ctx, method, path, body, opts...)
}

func ids[T models.Identified](items []T) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.GetID())
	}
	return out
}
