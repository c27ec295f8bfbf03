package session

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/schoolrecords/internal/client/api"
	"github.com/dmitrijs2005/schoolrecords/internal/client/fakeapi"
	"github.com/dmitrijs2005/schoolrecords/internal/client/localdb"
	"github.com/dmitrijs2005/schoolrecords/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/schoolrecords/internal/common"
	"github.com/dmitrijs2005/schoolrecords/internal/logging"
)

type fixture struct {
	backend *fakeapi.Server
	client  *api.Client
	storage *metadata.SQLiteRepository
	dsn     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	backend := fakeapi.New()
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	client, err := api.New(api.Options{BaseURL: srv.URL + fakeapi.BasePath})
	require.NoError(t, err)

	dsn := filepath.Join(t.TempDir(), "session.db")
	db, err := localdb.Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return &fixture{backend: backend, client: client, storage: metadata.NewSQLiteRepository(db), dsn: dsn}
}

func (f *fixture) session(t *testing.T) *Store {
	t.Helper()
	s, err := New(context.Background(), f.client, f.storage, logging.Nop())
	require.NoError(t, err)
	return s
}

func storedToken(t *testing.T, st Storage) string {
	t.Helper()
	v, err := st.Get(context.Background(), common.TokenStorageKey)
	require.NoError(t, err)
	return string(v)
}

func TestLogin_Scenario(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"t1","user":{"id":7}}`))
	}))
	defer srv.Close()

	client, err := api.New(api.Options{BaseURL: srv.URL + "/api"})
	require.NoError(t, err)
	db, err := localdb.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer db.Close()
	storage := metadata.NewSQLiteRepository(db)

	s, err := New(context.Background(), client, storage, nil)
	require.NoError(t, err)

	require.NoError(t, s.Login(context.Background(), "alice", "pw1"))

	assert.Equal(t, "/api/user/login", gotPath)
	assert.JSONEq(t, `{"username":"alice","password":"pw1"}`, gotBody)
	assert.True(t, s.IsLoggedIn())
	assert.Equal(t, Authenticated, s.State())
	assert.EqualValues(t, 7, s.UserID())
	assert.Equal(t, "t1", storedToken(t, storage))
	assert.Equal(t, "Bearer t1", client.DefaultHeader(common.AuthorizationHeaderName))
	assert.False(t, s.Loading())
}

func TestLogin_SuccessPersistsAcrossRestart(t *testing.T) {
	f := newFixture(t)
	alice := f.backend.AddUser("alice", "pw1", "alice@example.com")

	s := f.session(t)
	require.NoError(t, s.Login(context.Background(), "alice", "pw1"))

	token := s.Token()
	require.NotEmpty(t, token)
	require.Equal(t, token, storedToken(t, f.storage))

	user, ok := s.User()
	require.True(t, ok)
	require.Equal(t, alice, user)

	// a fresh process: new client, same database file
	client, err := api.New(api.Options{BaseURL: f.client.BaseURL()})
	require.NoError(t, err)
	db, err := localdb.Open(context.Background(), f.dsn)
	require.NoError(t, err)
	defer db.Close()

	restored, err := New(context.Background(), client, metadata.NewSQLiteRepository(db), logging.Nop())
	require.NoError(t, err)
	require.True(t, restored.IsLoggedIn())
	require.Equal(t, token, restored.Token())
	require.Equal(t, "Bearer "+token, client.DefaultHeader(common.AuthorizationHeaderName))

	_, ok = restored.User()
	require.False(t, ok)

	require.NoError(t, restored.InitializeAuth(context.Background()))
	user, ok = restored.User()
	require.True(t, ok)
	require.Equal(t, alice, user)
}

func TestLogin_FailureStaysAnonymous(t *testing.T) {
	f := newFixture(t)
	f.backend.AddUser("alice", "pw1", "")

	s := f.session(t)
	err := s.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)
	require.ErrorIs(t, err, api.ErrUnauthorized)

	code, ok := api.StatusCode(err)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, code)

	assert.False(t, s.IsLoggedIn())
	assert.Equal(t, Anonymous, s.State())
	assert.Empty(t, storedToken(t, f.storage))
	assert.Empty(t, f.client.DefaultHeader(common.AuthorizationHeaderName))
	assert.False(t, s.Loading())
}

func TestLogin_ClearsPreviousSession(t *testing.T) {
	f := newFixture(t)
	f.backend.AddUser("alice", "pw1", "")

	s := f.session(t)
	require.NoError(t, s.Login(context.Background(), "alice", "pw1"))
	require.True(t, s.IsLoggedIn())

	require.Error(t, s.Login(context.Background(), "alice", "nope"))
	assert.False(t, s.IsLoggedIn())
	assert.Equal(t, 0, int(s.UserID()))
	assert.Empty(t, storedToken(t, f.storage))
	assert.Empty(t, f.client.DefaultHeader(common.AuthorizationHeaderName))
}

func TestLogin_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := api.New(api.Options{BaseURL: url, Timeout: time.Second})
	require.NoError(t, err)
	storage := newMemStorage()

	s, err := New(context.Background(), client, storage, nil)
	require.NoError(t, err)

	err = s.Login(context.Background(), "alice", "pw1")
	require.ErrorIs(t, err, api.ErrUnavailable)
	require.False(t, s.IsLoggedIn())
	require.Empty(t, storage.data)
}

func TestLogin_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"user":{"id":7}}`))
	}))
	defer srv.Close()

	client, err := api.New(api.Options{BaseURL: srv.URL})
	require.NoError(t, err)
	s, err := New(context.Background(), client, newMemStorage(), nil)
	require.NoError(t, err)

	err = s.Login(context.Background(), "alice", "pw1")
	require.ErrorIs(t, err, api.ErrMalformedResponse)
	require.False(t, s.IsLoggedIn())
}

func TestLogin_StorageFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	f.backend.AddUser("alice", "pw1", "")

	storage := newMemStorage()
	storage.setErr = errors.New("disk full")

	s, err := New(context.Background(), f.client, storage, nil)
	require.NoError(t, err)

	err = s.Login(context.Background(), "alice", "pw1")
	require.ErrorContains(t, err, "disk full")
	require.False(t, s.IsLoggedIn())
	require.Equal(t, Anonymous, s.State())
	require.Empty(t, f.client.DefaultHeader(common.AuthorizationHeaderName))
}

func TestLogin_StaleTokenRemovalFailureSendsNoCredentials(t *testing.T) {
	f := newFixture(t)
	f.backend.AddUser("alice", "pw1", "")

	storage := newMemStorage()
	storage.data[common.TokenStorageKey] = []byte("old")
	storage.deleteErr = errors.New("locked")

	s, err := New(context.Background(), f.client, storage, nil)
	require.NoError(t, err)

	err = s.Login(context.Background(), "alice", "pw1")
	require.ErrorContains(t, err, "locked")
	require.Equal(t, Anonymous, s.State())
	require.False(t, s.Loading())
	require.Empty(t, f.client.DefaultHeader(common.AuthorizationHeaderName))
	require.Zero(t, f.backend.Calls("POST /user/login"))
}

func TestLogin_EmptyCredentials(t *testing.T) {
	f := newFixture(t)
	s := f.session(t)

	require.ErrorIs(t, s.Login(context.Background(), "", "pw"), ErrEmptyCredentials)
	require.ErrorIs(t, s.Login(context.Background(), "alice", ""), ErrEmptyCredentials)
	require.Zero(t, f.backend.Calls("POST /user/login"))
}

func TestLogout_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.backend.AddUser("alice", "pw1", "")

	s := f.session(t)
	require.NoError(t, s.Login(context.Background(), "alice", "pw1"))

	require.NoError(t, s.Logout(context.Background()))
	first := snapshot(s)

	require.NoError(t, s.Logout(context.Background()))
	second := snapshot(s)

	assert.Equal(t, first, second)
	assert.Equal(t, sessionSnapshot{state: Anonymous}, first)
	assert.Empty(t, storedToken(t, f.storage))
	assert.Empty(t, f.client.DefaultHeader(common.AuthorizationHeaderName))
}

func TestLogout_MakesNoRequests(t *testing.T) {
	f := newFixture(t)
	s := f.session(t)
	require.NoError(t, s.Logout(context.Background()))

	for _, route := range []string{"POST /user/login", "GET /user/profile", "POST /user/logout"} {
		assert.Zero(t, f.backend.Calls(route), route)
	}
}

func TestLogout_StorageErrorStillClearsMemory(t *testing.T) {
	f := newFixture(t)
	storage := newMemStorage()
	storage.data[common.TokenStorageKey] = []byte("t1")
	storage.deleteErr = errors.New("locked")

	s, err := New(context.Background(), f.client, storage, nil)
	require.NoError(t, err)
	require.True(t, s.IsLoggedIn())

	require.ErrorContains(t, s.Logout(context.Background()), "locked")
	require.False(t, s.IsLoggedIn())
	require.Empty(t, f.client.DefaultHeader(common.AuthorizationHeaderName))
}

func TestInitializeAuth_PurgesInvalidToken(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.storage.Set(context.Background(), common.TokenStorageKey, []byte("stale")))

	s := f.session(t)
	require.True(t, s.IsLoggedIn())

	require.NoError(t, s.InitializeAuth(context.Background()))
	assert.False(t, s.IsLoggedIn())
	assert.Equal(t, Anonymous, s.State())
	assert.Empty(t, storedToken(t, f.storage))
	assert.Empty(t, f.client.DefaultHeader(common.AuthorizationHeaderName))
	assert.Equal(t, 1, f.backend.Calls("GET /user/profile"))
}

func TestInitializeAuth_RevokedToken(t *testing.T) {
	f := newFixture(t)
	f.backend.AddUser("alice", "pw1", "")

	s := f.session(t)
	require.NoError(t, s.Login(context.Background(), "alice", "pw1"))
	f.backend.RevokeTokens()

	// user is cached, so nothing is fetched
	require.NoError(t, s.InitializeAuth(context.Background()))
	require.True(t, s.IsLoggedIn())
	require.Zero(t, f.backend.Calls("GET /user/profile"))
}

func TestInitializeAuth_NoToken(t *testing.T) {
	f := newFixture(t)
	s := f.session(t)

	require.NoError(t, s.InitializeAuth(context.Background()))
	require.False(t, s.IsLoggedIn())
	require.Zero(t, f.backend.Calls("GET /user/profile"))
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	s := f.session(t)

	msg, err := s.Register(context.Background(), "carol", "pw")
	require.NoError(t, err)
	require.Equal(t, "register success", msg)
	require.False(t, s.IsLoggedIn())
	require.Equal(t, Anonymous, s.State())
	require.False(t, s.Loading())

	_, err = s.Register(context.Background(), "carol", "pw")
	require.ErrorIs(t, err, api.ErrStatus)
	code, _ := api.StatusCode(err)
	require.Equal(t, http.StatusConflict, code)
	require.ErrorContains(t, err, "username already exists")
	require.False(t, s.Loading())
}

func TestTokenExpiry(t *testing.T) {
	f := newFixture(t)
	f.backend.AddUser("alice", "pw1", "")
	s := f.session(t)

	_, ok := s.TokenExpiry()
	require.False(t, ok)

	require.NoError(t, s.Login(context.Background(), "alice", "pw1"))
	exp, ok := s.TokenExpiry()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	opaque := newMemStorage()
	opaque.data[common.TokenStorageKey] = []byte("not-a-jwt")
	s, err := New(context.Background(), f.client, opaque, nil)
	require.NoError(t, err)
	_, ok = s.TokenExpiry()
	require.False(t, ok)
}

func TestTokenExpiry_NoExpClaim(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "7"}).SignedString([]byte("k"))
	require.NoError(t, err)

	storage := newMemStorage()
	storage.data[common.TokenStorageKey] = []byte(signed)
	client, err := api.New(api.Options{BaseURL: "http://localhost"})
	require.NoError(t, err)

	s, err := New(context.Background(), client, storage, nil)
	require.NoError(t, err)
	_, ok := s.TokenExpiry()
	require.False(t, ok)
}

func TestNew_StorageError(t *testing.T) {
	storage := newMemStorage()
	storage.getErr = errors.New("corrupt")
	client, err := api.New(api.Options{BaseURL: "http://localhost"})
	require.NoError(t, err)

	_, err = New(context.Background(), client, storage, nil)
	require.ErrorContains(t, err, "corrupt")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "anonymous", Anonymous.String())
	assert.Equal(t, "authenticating", Authenticating.String())
	assert.Equal(t, "authenticated", Authenticated.String())
	assert.Equal(t, "State(9)", State(9).String())
}

type sessionSnapshot struct {
	state    State
	token    string
	userID   int64
	loggedIn bool
	loading  bool
}

func snapshot(s *Store) sessionSnapshot {
	return sessionSnapshot{
		state:    s.State(),
		token:    s.Token(),
		userID:   s.UserID(),
		loggedIn: s.IsLoggedIn(),
		loading:  s.Loading(),
	}
}

type memStorage struct {
	data      map[string][]byte
	getErr    error
	setErr    error
	deleteErr error
}

func newMemStorage() *memStorage {
	return &memStorage{data: map[string][]byte{}}
}

func (m *memStorage) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.data[key], nil
}

func (m *memStorage) Set(_ context.Context, key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.data, key)
	return nil
}
