package stores

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/schoolrecords/internal/client/models"
	"github.com/dmitrijs2005/schoolrecords/internal/logging"
)

type userUpdateRequest struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// UserStore is the user directory.
type UserStore struct {
	client Sender
	logger logging.Logger
	list   *listing[models.User]
}

func NewUserStore(client Sender, logger logging.Logger) *UserStore {
	if logger == nil {
		logger = logging.Nop()
	}
	return &UserStore{
		client: client,
		logger: logger.With("store", "users"),
		list:   newListing[models.User](models.DefaultPageSize),
	}
}

// List loads one page of users, replacing the local listing.
func (s *UserStore) List(ctx context.Context, page, size int) (err error) {
	s.list.begin()
	defer s.list.end(&err)

	resp, err := s.client.Send(ctx, http.MethodPost, "/user/page", newPageRequest(page, size))
	if err != nil {
		return err
	}

	p, err := decodePage[models.User](resp)
	if err != nil {
		return err
	}

	s.list.replace(p)
	s.logger.Debug(ctx, "users loaded", "page", p.Page, "count", len(p.Items), "total", p.TotalElements)
	return nil
}

// Update sends the full field set. The password is write-only and is never
// kept locally.
func (s *UserStore) Update(ctx context.Context, id int64, upd models.UserUpdate) (res Result, err error) {
	s.list.begin()
	defer s.list.end(&err)

	resp, err := s.client.Send(ctx, http.MethodPost, "/user/update", userUpdateRequest{
		ID:       id,
		Username: upd.Username,
		Password: upd.Password,
		Email:    upd.Email,
	})
	if err != nil {
		return Result{}, err
	}

	res.Message = resp.Message()
	if current, ok := s.list.get(id); ok {
		res.InListing = s.list.set(upd.Apply(current))
	}

	s.logger.Info(ctx, "user updated", "id", id, "in_listing", res.InListing)
	return res, nil
}

func (s *UserStore) Delete(ctx context.Context, id int64) (res Result, err error) {
	s.list.begin()
	defer s.list.end(&err)

	resp, err := s.client.Send(ctx, http.MethodPost, "/user/delete", idRequest{ID: id})
	if err != nil {
		return Result{}, err
	}

	res.Message = resp.Message()
	res.InListing = s.list.remove(id)

	s.logger.Info(ctx, "user deleted", "id", id, "in_listing", res.InListing)
	return res, nil
}

func (s *UserStore) Users() []models.User { return s.list.snapshot() }
func (s *UserStore) Get(id int64) (models.User, bool) { return s.list.get(id) }
func (s *UserStore) Pagination() models.Pagination { return s.list.page() }
func (s *UserStore) Loading() bool { return s.list.isLoading() }

// Err is the failure of the most recent operation, or nil.
func (s *UserStore) Err() error { return s.list.lastErr() }
