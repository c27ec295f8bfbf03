// Package session owns the authentication token and the current user.
//
// A Store is created once at process start. It rehydrates the token from
// durable storage, keeps the API client's Authorization header in sync with
// it and is the only writer of that header and of the storage entry.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/schoolrecords/internal/client/api"
	"github.com/dmitrijs2005/schoolrecords/internal/client/models"
	"github.com/dmitrijs2005/schoolrecords/internal/common"
	"github.com/dmitrijs2005/schoolrecords/internal/logging"
)

// ErrEmptyCredentials is returned by Login and Register before any request
// is made when the username or password is blank.
var ErrEmptyCredentials = errors.New("username and password are required")

// State is the authentication state of a Store.
type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Storage is the durable key/value store the token lives in.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Client is the part of the API client the session needs.
type Client interface {
	Send(ctx context.Context, method, path string, body any, opts ...api.RequestOption) (*api.Response, error)
	SetDefaultHeader(key, value string)
	DeleteDefaultHeader(key string)
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Store is the session. The zero value is not usable; call New.
type Store struct {
	client  Client
	storage Storage
	logger  logging.Logger

	mu      sync.RWMutex
	state   State
	token   string
	user    *models.User
	loading bool
}

// New restores a previously persisted token, if any, and attaches it to
// client before returning.
func New(ctx context.Context, client Client, storage Storage, logger logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	s := &Store{
		client:  client,
		storage: storage,
		logger:  logger.With("component", "session"),
	}

	raw, err := storage.Get(ctx, common.TokenStorageKey)
	if err != nil {
		return nil, fmt.Errorf("restore session token: %w", err)
	}

	if token := string(raw); token != "" {
		s.token = token
		s.state = Authenticated
		client.SetDefaultHeader(common.AuthorizationHeaderName, common.BearerPrefix+token)
		s.logger.Debug(ctx, "session token restored")
	}

	return s, nil
}

// Login exchanges credentials for a token. Any previous session is dropped
// first; if its stored token cannot be removed, no credentials are sent. On
// failure the store stays anonymous and the error is returned.
func (s *Store) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return ErrEmptyCredentials
	}

	s.mu.Lock()
	s.clearLocked()
	s.state = Authenticating
	s.loading = true
	s.mu.Unlock()

	if err := s.storage.Delete(ctx, common.TokenStorageKey); err != nil {
		s.mu.Lock()
		s.state = Anonymous
		s.loading = false
		s.mu.Unlock()
		return fmt.Errorf("remove previous session token: %w", err)
	}

	result, err := s.login(ctx, username, password)
	if err != nil {
		s.mu.Lock()
		s.state = Anonymous
		s.loading = false
		s.mu.Unlock()
		s.logger.Warn(ctx, "login failed", "username", username, "error", err)
		return err
	}

	if err := s.storage.Set(ctx, common.TokenStorageKey, []byte(result.Token)); err != nil {
		s.mu.Lock()
		s.state = Anonymous
		s.loading = false
		s.mu.Unlock()
		return fmt.Errorf("persist session token: %w", err)
	}

	s.mu.Lock()
	s.token = result.Token
	s.user = result.User
	s.state = Authenticated
	s.loading = false
	s.client.SetDefaultHeader(common.AuthorizationHeaderName, common.BearerPrefix+result.Token)
	s.mu.Unlock()

	s.logger.Info(ctx, "logged in", "username", username)
	return nil
}

func (s *Store) login(ctx context.Context, username, password string) (loginResponse, error) {
	resp, err := s.client.Send(ctx, http.MethodPost, "/user/login", credentials{Username: username, Password: password})
	if err != nil {
		return loginResponse{}, err
	}

	result, err := api.DecodeJSON[loginResponse](resp)
	if err != nil {
		return loginResponse{}, err
	}
	if result.Token == "" {
		return loginResponse{}, fmt.Errorf("%w: login response without token", api.ErrMalformedResponse)
	}

	return result, nil
}

// Register creates an account and returns the server's message. The
// session itself is not touched.
func (s *Store) Register(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", ErrEmptyCredentials
	}

	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.client.Send(ctx, http.MethodPost, "/user/register", credentials{Username: username, Password: password})
	if err != nil {
		return "", err
	}

	return resp.Message(), nil
}

// Logout forgets the session. Memory and the client header are always
// cleared; a storage failure is returned after that.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.clearLocked()
	s.state = Anonymous
	s.mu.Unlock()

	if err := s.storage.Delete(ctx, common.TokenStorageKey); err != nil {
		return fmt.Errorf("remove session token: %w", err)
	}

	s.logger.Info(ctx, "logged out")
	return nil
}

// InitializeAuth loads the profile when a token is known but the user is
// not. A failed profile fetch means the token is no good, so the session is
// logged out; that failure is handled here and not returned.
func (s *Store) InitializeAuth(ctx context.Context) error {
	s.mu.RLock()
	needsProfile := s.token != "" && s.user == nil
	s.mu.RUnlock()

	if !needsProfile {
		return nil
	}

	user, err := s.fetchProfile(ctx)
	if err != nil {
		s.logger.Warn(ctx, "token validation failed, logging out", "error", err)
		return s.Logout(ctx)
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()

	return nil
}

func (s *Store) fetchProfile(ctx context.Context) (models.User, error) {
	resp, err := s.client.Send(ctx, http.MethodGet, "/user/profile", nil)
	if err != nil {
		return models.User{}, err
	}
	return api.DecodeJSON[models.User](resp)
}

func (s *Store) clearLocked() {
	s.token = ""
	s.user = nil
	s.client.DeleteDefaultHeader(common.AuthorizationHeaderName)
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsLoggedIn is true exactly when a token is held.
func (s *Store) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the current user, if known.
func (s *Store) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// UserID is the current user's id, or 0 when unknown.
func (s *Store) UserID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return 0
	}
	return s.user.ID
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// TokenExpiry reads the exp claim when the token is a JWT. The signature is
// not checked; the server remains the authority on validity.
func (s *Store) TokenExpiry() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}

	return exp.Time, true
}
