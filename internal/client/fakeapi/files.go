package fakeapi

import (
	"cmp"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/schoolrecords/internal/client/models"
	"github.com/dmitrijs2005/schoolrecords/internal/timex"
)

const maxUploadMemory = 8 << 20

// AddFile seeds a stored file.
func (s *Server) AddFile(name, description string, content []byte) models.File {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storeFileLocked(name, description, content)
}

// Files returns a snapshot of file metadata in upload order.
func (s *Server) Files() []models.File {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.File, 0, len(s.files))
	for _, f := range s.files {
		out = append(out, f.File)
	}
	return out
}

func (s *Server) storeFileLocked(name, description string, content []byte) models.File {
	f := &file{
		File: models.File{
			ID:          s.id(),
			Name:        name,
			Description: description,
			Size:        int64(len(content)),
			UploadTime:  timex.LocalTime{Time: s.now()},
		},
		Content: content,
	}
	s.files = append(s.files, f)
	return f.File
}

func (s *Server) findFileLocked(r *http.Request) (int, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return -1, false
	}
	for i, f := range s.files {
		if f.ID == id {
			return i, true
		}
	}
	return -1, false
}

func fileLess(sortBy string) func(a, b models.File) int {
	switch sortBy {
	case "name":
		return func(a, b models.File) int { return strings.Compare(a.Name, b.Name) }
	case "size":
		return func(a, b models.File) int { return cmp.Compare(a.Size, b.Size) }
	case "id":
		return func(a, b models.File) int { return cmp.Compare(a.ID, b.ID) }
	default:
		return func(a, b models.File) int { return a.UploadTime.Compare(b.UploadTime.Time) }
	}
}

func (s *Server) filePage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))

	items := s.Files()
	less := fileLess(q.Get("sortBy"))
	if strings.EqualFold(q.Get("sortDirection"), "asc") {
		slices.SortStableFunc(items, less)
	} else {
		slices.SortStableFunc(items, func(a, b models.File) int { return less(b, a) })
	}

	writeJSON(w, http.StatusOK, paginate(items, page, size))
}

func (s *Server) uploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form")
		return
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file part is required")
		return
	}
	defer part.Close()

	content, err := io.ReadAll(part)
	if err != nil || len(content) == 0 {
		writeError(w, http.StatusBadRequest, "uploaded file must not be empty")
		return
	}

	s.mu.Lock()
	f := s.storeFileLocked(header.Filename, r.FormValue("description"), content)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, f)
}

func (s *Server) updateFile(w http.ResponseWriter, r *http.Request) {
	var req models.FileUpdate
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name must not be blank")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.findFileLocked(r)
	if !ok {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	s.files[i].Name = req.Name
	s.files[i].Description = req.Description
	writeJSON(w, http.StatusOK, s.files[i].File)
}

func (s *Server) downloadFile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	i, ok := s.findFileLocked(r)
	var f file
	if ok {
		f = *s.files[i]
	}
	omit := s.omitDisposition
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	if !omit {
		w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(f.Name))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(f.Content)
}

func (s *Server) deleteFile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.findFileLocked(r)
	if !ok {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	s.files = append(s.files[:i], s.files[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}
