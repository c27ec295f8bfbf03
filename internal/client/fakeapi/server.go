// Package fakeapi is an in-memory implementation of the school-records
// backend. It serves the same routes under /api and is used by tests and
// local demos; nothing is persisted.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/schoolrecords/internal/client/models"
)

// BasePath is where the routes are mounted.
const BasePath = "/api"

const tokenTTL = time.Hour

type user struct {
	models.User
	Password string
}

type file struct {
	models.File
	Content []byte
}

type failure struct {
	status  int
	message string
}

// Server holds the backend state. All exported methods are safe for
// concurrent use with request handling.
type Server struct {
	mu       sync.Mutex
	secret   []byte
	now      func() time.Time
	nextID   int64
	tokenSeq int64
	users    []*user
	students []*models.Student
	files    []*file
	tokens   map[string]int64
	failures map[string]failure
	calls    map[string]int

	omitDisposition bool
}

// New returns an empty backend.
func New() *Server {
	start := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	tick := 0
	return &Server{
		secret: []byte("fakeapi-secret"),
		now: func() time.Time {
			tick++
			return start.Add(time.Duration(tick) * time.Minute)
		},
		tokens:   make(map[string]int64),
		failures: make(map[string]failure),
		calls:    make(map[string]int),
	}
}

// Handler returns the router with every route mounted under BasePath.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.record)

	r.Route(BasePath, func(r chi.Router) {
		r.Post("/user/login", s.login)
		r.Post("/user/register", s.register)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Get("/user/profile", s.profile)
			r.Post("/user/page", s.userPage)
			r.Post("/user/update", s.updateUser)
			r.Post("/user/delete", s.deleteUser)

			r.Post("/student/add", s.addStudent)
			r.Post("/student/page", s.studentPage)
			r.Post("/student/search", s.searchStudents)
			r.Post("/student/update", s.updateStudent)
			r.Post("/student/delete", s.deleteStudent)

			r.Get("/files", s.filePage)
			r.Post("/files/upload", s.uploadFile)
			r.Put("/files/{id}", s.updateFile)
			r.Get("/files/download/{id}", s.downloadFile)
			r.Delete("/files/{id}", s.deleteFile)
		})
	})

	return r
}

// record counts calls per route and applies injected failures.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + strings.TrimPrefix(r.URL.Path, BasePath)

		s.mu.Lock()
		s.calls[key]++
		f, failing := s.failures[key]
		s.mu.Unlock()

		if failing {
			writeError(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			writeError(w, http.StatusUnauthorized, "missing token")
			return
		}

		s.mu.Lock()
		_, known := s.tokens[raw]
		s.mu.Unlock()

		if !known {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		_, err := jwt.Parse(raw, func(*jwt.Token) (any, error) { return s.secret, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// FailOn makes every request to route ("POST /user/login") answer with
// status and message until ClearFailures is called.
func (s *Server) FailOn(route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = failure{status: status, message: message}
}

func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.failures)
}

// Calls reports how many requests hit route.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// OmitContentDisposition stops downloads from naming the file.
func (s *Server) OmitContentDisposition(omit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.omitDisposition = omit
}

// IssueToken mints a valid token for userID without a login call.
func (s *Server) IssueToken(userID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueTokenLocked(userID)
}

// RevokeTokens invalidates every issued token.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.tokens)
}

func (s *Server) issueTokenLocked(userID int64) string {
	s.tokenSeq++
	claims := jwt.RegisteredClaims{
		Subject:   fmt.Sprint(userID),
		ID:        fmt.Sprint(s.tokenSeq),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic(fmt.Sprintf("sign token: %v", err))
	}
	s.tokens[signed] = userID
	return signed
}

func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeText mirrors controllers that return a bare String.
func writeText(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "text/plain;charset=UTF-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(msg))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"status":  status,
		"error":   http.StatusText(status),
		"message": msg,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}
