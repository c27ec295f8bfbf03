package stores

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"sync"

	"github.com/dmitrijs2005/schoolrecords/internal/client/api"
	"github.com/dmitrijs2005/schoolrecords/internal/client/models"
	"github.com/dmitrijs2005/schoolrecords/internal/client/sink"
	"github.com/dmitrijs2005/schoolrecords/internal/logging"
)

// ErrNoContent is returned by Upload when there is nothing to send.
var ErrNoContent = errors.New("upload content is required")

var dispositionFilename = regexp.MustCompile(`filename\*=UTF-8''(.+?)(;|$)`)

// Download describes a saved download. Name is the file name that was
// derived for it; Location is where the sink put it.
type Download struct {
	ID       int64
	Name     string
	Location string
	Size     int
}

// FileStore holds file attachments.
type FileStore struct {
	client Sender
	sink   sink.Sink
	logger logging.Logger
	list   *listing[models.File]

	mu    sync.RWMutex
	query models.FileQuery
}

func NewFileStore(client Sender, target sink.Sink, logger logging.Logger) *FileStore {
	if logger == nil {
		logger = logging.Nop()
	}
	return &FileStore{
		client: client,
		sink:   target,
		logger: logger.With("store", "files"),
		list:   newListing[models.File](models.DefaultPageSize),
		query:  models.FileQuery{}.WithDefaults(),
	}
}

// List loads one page of files. Unset query fields take the listing
// defaults: page 0, size 10, newest upload first.
func (s *FileStore) List(ctx context.Context, q models.FileQuery) (err error) {
	s.list.begin()
	defer s.list.end(&err)

	q = q.WithDefaults()
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("size", strconv.Itoa(q.Size))
	params.Set("sortBy", q.SortBy)
	params.Set("sortDirection", q.SortDirection)

	resp, err := s.client.Send(ctx, http.MethodGet, "/files", nil, api.WithQuery(params))
	if err != nil {
		return err
	}

	p, err := decodePage[models.File](resp)
	if err != nil {
		return err
	}

	s.list.replace(p)
	s.mu.Lock()
	s.query = q
	s.mu.Unlock()

	s.logger.Debug(ctx, "files loaded", "page", p.Page, "count", len(p.Items), "total", p.TotalElements)
	return nil
}

// Upload sends content as a multipart form and puts the stored file first
// in the listing.
func (s *FileStore) Upload(ctx context.Context, name string, content io.Reader, description string) (f models.File, err error) {
	if content == nil || name == "" {
		return models.File{}, ErrNoContent
	}

	s.list.begin()
	defer s.list.end(&err)

	form := api.NewMultipart().
		File("file", name, content).
		Field("description", description)

	resp, err := s.client.Send(ctx, http.MethodPost, "/files/upload", form)
	if err != nil {
		return models.File{}, err
	}

	f, err = decodeRecord[models.File](resp)
	if err != nil {
		return models.File{}, err
	}

	s.list.prepend(f)
	s.logger.Info(ctx, "file uploaded", "id", f.ID, "name", f.Name, "size", f.Size)
	return f, nil
}

// Update changes a file's name and description. The local entry is replaced
// with the server's copy; the bool reports whether it was in the listing.
func (s *FileStore) Update(ctx context.Context, id int64, upd models.FileUpdate) (f models.File, inListing bool, err error) {
	s.list.begin()
	defer s.list.end(&err)

	resp, err := s.client.Send(ctx, http.MethodPut, "/files/"+strconv.FormatInt(id, 10), upd)
	if err != nil {
		return models.File{}, false, err
	}

	f, err = decodeRecord[models.File](resp)
	if err != nil {
		return models.File{}, false, err
	}
	if f.ID != id {
		return models.File{}, false, fmt.Errorf("%w: updated file %d, got %d", api.ErrMalformedResponse, id, f.ID)
	}

	inListing = s.list.set(f)
	s.logger.Info(ctx, "file updated", "id", id, "in_listing", inListing)
	return f, inListing, nil
}

// Download fetches the payload and hands it to the sink. The save name comes
// from the response's Content-Disposition, then suggested, then file-<id>.
// The listing and the loading flag are left alone.
func (s *FileStore) Download(ctx context.Context, id int64, suggested string) (Download, error) {
	s.list.clearErr()

	d, err := s.download(ctx, id, suggested)
	if err != nil {
		s.list.fail(err)
		s.logger.Warn(ctx, "file download failed", "id", id, "error", err)
		return Download{}, err
	}

	s.logger.Info(ctx, "file downloaded", "id", id, "name", d.Name, "location", d.Location)
	return d, nil
}

func (s *FileStore) download(ctx context.Context, id int64, suggested string) (Download, error) {
	if s.sink == nil {
		return Download{}, errors.New("no download sink configured")
	}

	resp, err := s.client.Send(ctx, http.MethodGet, "/files/download/"+strconv.FormatInt(id, 10), nil, api.AsBlob())
	if err != nil {
		return Download{}, err
	}

	name := DownloadName(resp.Header.Get("Content-Disposition"), suggested, id)

	location, err := s.sink.Save(ctx, name, resp.Body)
	if err != nil {
		return Download{}, fmt.Errorf("save %s: %w", name, err)
	}

	return Download{ID: id, Name: name, Location: location, Size: len(resp.Body)}, nil
}

// DownloadName picks the save name for a download. Candidates are reduced to
// their last path element; one that reduces to nothing usable is skipped.
func DownloadName(disposition, suggested string, id int64) string {
	if name, ok := filenameFromDisposition(disposition); ok {
		return name
	}
	if name, err := sink.CleanName(suggested); suggested != "" && err == nil {
		return name
	}
	return "file-" + strconv.FormatInt(id, 10)
}

// filenameFromDisposition extracts the RFC 5987 UTF-8 filename parameter.
func filenameFromDisposition(header string) (string, bool) {
	m := dispositionFilename.FindStringSubmatch(header)
	if len(m) < 2 || m[1] == "" {
		return "", false
	}

	name, err := url.PathUnescape(m[1])
	if err != nil || name == "" {
		return "", false
	}
	name, err = sink.CleanName(name)
	if err != nil {
		return "", false
	}
	return name, true
}

// Delete removes a file. The total is decremented even when the file was not
// in the local page.
func (s *FileStore) Delete(ctx context.Context, id int64) (inListing bool, err error) {
	s.list.begin()
	defer s.list.end(&err)

	if _, err = s.client.Send(ctx, http.MethodDelete, "/files/"+strconv.FormatInt(id, 10), nil); err != nil {
		return false, err
	}

	inListing = s.list.remove(id)
	s.logger.Info(ctx, "file deleted", "id", id, "in_listing", inListing)
	return inListing, nil
}

// Query is the query of the current listing with defaults applied.
func (s *FileStore) Query() models.FileQuery {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

func (s *FileStore) Files() []models.File { return s.list.snapshot() }
func (s *FileStore) Get(id int64) (models.File, bool) { return s.list.get(id) }
func (s *FileStore) Pagination() models.Pagination { return s.list.page() }
func (s *FileStore) Loading() bool { return s.list.isLoading() }
func (s *FileStore) Err() error { return s.list.lastErr() }
