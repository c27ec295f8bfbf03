package stores

import (
	"context"
	"net/http"
	"sync"

	"github.com/dmitrijs2005/schoolrecords/internal/client/api"
	"github.com/dmitrijs2005/schoolrecords/internal/client/models"
	"github.com/dmitrijs2005/schoolrecords/internal/logging"
)

type studentUpdateRequest struct {
	ID int64 `json:"id"`
	models.StudentInput
}

type searchRequest struct {
	Name string `json:"name"`
	Page int    `json:"page"`
	Size int    `json:"size"`
}

// StudentStore holds student score records. The listing is either a plain
// page or a page of search results; Query tells which.
type StudentStore struct {
	client Sender
	logger logging.Logger
	list   *listing[models.Student]

	mu    sync.RWMutex
	query string
}

func NewStudentStore(client Sender, logger logging.Logger) *StudentStore {
	if logger == nil {
		logger = logging.Nop()
	}
	return &StudentStore{
		client: client,
		logger: logger.With("store", "students"),
		list:   newListing[models.Student](models.DefaultPageSize),
	}
}

func (s *StudentStore) List(ctx context.Context, page, size int) (err error) {
	s.list.begin()
	defer s.list.end(&err)

	resp, err := s.client.Send(ctx, http.MethodPost, "/student/page", newPageRequest(page, size))
	if err != nil {
		return err
	}
	return s.load(ctx, resp, "")
}

// Search loads one page of students whose name matches name.
func (s *StudentStore) Search(ctx context.Context, name string, page, size int) (err error) {
	s.list.begin()
	defer s.list.end(&err)

	pr := newPageRequest(page, size)
	resp, err := s.client.Send(ctx, http.MethodPost, "/student/search", searchRequest{Name: name, Page: pr.Page, Size: pr.Size})
	if err != nil {
		return err
	}
	return s.load(ctx, resp, name)
}

func (s *StudentStore) load(ctx context.Context, resp *api.Response, query string) error {
	p, err := decodePage[models.Student](resp)
	if err != nil {
		return err
	}

	s.list.replace(p)
	s.mu.Lock()
	s.query = query
	s.mu.Unlock()

	s.logger.Debug(ctx, "students loaded", "query", query, "page", p.Page, "count", len(p.Items))
	return nil
}

// Add creates a record and puts the server's copy first in the listing.
func (s *StudentStore) Add(ctx context.Context, in models.StudentInput) (st models.Student, err error) {
	s.list.begin()
	defer s.list.end(&err)

	resp, err := s.client.Send(ctx, http.MethodPost, "/student/add", in)
	if err != nil {
		return models.Student{}, err
	}

	st, err = decodeRecord[models.Student](resp)
	if err != nil {
		return models.Student{}, err
	}

	s.list.prepend(st)
	s.logger.Info(ctx, "student added", "id", st.ID, "student_number", st.StudentNumber)
	return st, nil
}

// Update replaces every editable field with the values in in.
func (s *StudentStore) Update(ctx context.Context, id int64, in models.StudentInput) (res Result, err error) {
	s.list.begin()
	defer s.list.end(&err)

	resp, err := s.client.Send(ctx, http.MethodPost, "/student/update", studentUpdateRequest{ID: id, StudentInput: in})
	if err != nil {
		return Result{}, err
	}

	res.Message = resp.Message()
	res.InListing = s.list.set(in.Apply(id))

	s.logger.Info(ctx, "student updated", "id", id, "in_listing", res.InListing)
	return res, nil
}

func (s *StudentStore) Delete(ctx context.Context, id int64) (res Result, err error) {
	s.list.begin()
	defer s.list.end(&err)

	resp, err := s.client.Send(ctx, http.MethodPost, "/student/delete", idRequest{ID: id})
	if err != nil {
		return Result{}, err
	}

	res.Message = resp.Message()
	res.InListing = s.list.remove(id)

	s.logger.Info(ctx, "student deleted", "id", id, "in_listing", res.InListing)
	return res, nil
}

// Query is the name filter of the current listing, empty for a plain page.
func (s *StudentStore) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

func (s *StudentStore) Students() []models.Student { return s.list.snapshot() }
func (s *StudentStore) Get(id int64) (models.Student, bool) { return s.list.get(id) }
func (s *StudentStore) Pagination() models.Pagination { return s.list.page() }
func (s *StudentStore) Loading() bool { return s.list.isLoading() }
func (s *StudentStore) Err() error { return s.list.lastErr() }
