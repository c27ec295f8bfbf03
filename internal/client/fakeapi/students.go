package fakeapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/schoolrecords/internal/client/models"
)

type studentUpdate struct {
	ID int64 `json:"id"`
	models.StudentInput
}

type searchRequest struct {
	Name string `json:"name"`
	pageRequest
}

// AddStudent seeds a student record.
func (s *Server) AddStudent(in models.StudentInput) models.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := in.Apply(s.id())
	s.students = append(s.students, &st)
	return st
}

// Students returns a snapshot of all student records.
func (s *Server) Students() []models.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Student, 0, len(s.students))
	for _, st := range s.students {
		out = append(out, *st)
	}
	return out
}

func (s *Server) findStudentLocked(id int64) int {
	for i, st := range s.students {
		if st.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) addStudent(w http.ResponseWriter, r *http.Request) {
	var in models.StudentInput
	if !decodeBody(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		writeError(w, http.StatusBadRequest, "studentName is required")
		return
	}

	s.mu.Lock()
	st := in.Apply(s.id())
	s.students = append(s.students, &st)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, st)
}

func (s *Server) studentPage(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, paginate(s.matchStudents(""), req.Page, req.Size))
}

func (s *Server) searchStudents(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, paginate(s.matchStudents(req.Name), req.Page, req.Size))
}

// matchStudents does a case-insensitive substring match on the name.
func (s *Server) matchStudents(name string) []models.Student {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.ToLower(name)
	out := make([]models.Student, 0, len(s.students))
	for _, st := range s.students {
		if strings.Contains(strings.ToLower(st.Name), name) {
			out = append(out, *st)
		}
	}
	return out
}

func (s *Server) updateStudent(w http.ResponseWriter, r *http.Request) {
	var req studentUpdate
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findStudentLocked(req.ID)
	if i < 0 {
		writeError(w, http.StatusNotFound, "student "+strconv.FormatInt(req.ID, 10)+" not found")
		return
	}
	st := req.StudentInput.Apply(req.ID)
	s.students[i] = &st
	writeText(w, "update success")
}

func (s *Server) deleteStudent(w http.ResponseWriter, r *http.Request) {
	var req idRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findStudentLocked(req.ID)
	if i < 0 {
		writeError(w, http.StatusNotFound, "student "+strconv.FormatInt(req.ID, 10)+" not found")
		return
	}
	s.students = append(s.students[:i], s.students[i+1:]...)
	writeText(w, "delete success")
}
