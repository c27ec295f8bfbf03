package fakeapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/schoolrecords/internal/client/models"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userUpdate struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type idRequest struct {
	ID int64 `json:"id"`
}

// AddUser seeds an account.
func (s *Server) AddUser(username, password, email string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &user{User: models.User{ID: s.id(), Username: username, Email: email}, Password: password}
	s.users = append(s.users, u)
	return u.User
}

// Users returns a snapshot of all accounts.
func (s *Server) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.User)
	}
	return out
}

func (s *Server) findUserLocked(id int64) int {
	for i, u := range s.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == req.Username && u.Password == req.Password {
			writeJSON(w, http.StatusOK, map[string]any{
				"token": s.issueTokenLocked(u.ID),
				"user":  u.User,
			})
			return
		}
	}
	writeError(w, http.StatusUnauthorized, "invalid username or password")
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == req.Username {
			writeError(w, http.StatusConflict, "username already exists")
			return
		}
	}
	s.users = append(s.users, &user{User: models.User{ID: s.id(), Username: req.Username}, Password: req.Password})
	writeText(w, "register success")
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findUserLocked(s.tokens[raw])
	if i < 0 {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, s.users[i].User)
}

func (s *Server) userPage(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	items := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		items = append(items, u.User)
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, paginate(items, req.Page, req.Size))
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	var req userUpdate
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findUserLocked(req.ID)
	if i < 0 {
		writeError(w, http.StatusNotFound, "user "+strconv.FormatInt(req.ID, 10)+" not found")
		return
	}
	u := s.users[i]
	u.Username = req.Username
	u.Email = req.Email
	if req.Password != "" {
		u.Password = req.Password
	}
	writeText(w, "update success")
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	var req idRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findUserLocked(req.ID)
	if i < 0 {
		writeError(w, http.StatusNotFound, "user "+strconv.FormatInt(req.ID, 10)+" not found")
		return
	}
	s.users = append(s.users[:i], s.users[i+1:]...)
	writeText(w, "delete success")
}
