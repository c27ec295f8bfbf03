package stores

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/schoolrecords/internal/client/api"
	"github.com/dmitrijs2005/schoolrecords/internal/client/models"
)

func studentInput(number, name string, score float64) models.StudentInput {
	return models.StudentInput{
		StudentNumber: number,
		Name:          name,
		School:        "No.1 Middle School",
		ClassName:     "Class 3",
		Chinese:       score,
		Math:          score + 1,
		English:       score + 2,
		Physics:       score + 3,
		Chemistry:     score + 4,
	}
}

func TestStudentStore_ListAndSearch(t *testing.T) {
	e := newEnv(t)
	e.backend.AddStudent(studentInput("S001", "Li Lei", 80))
	e.backend.AddStudent(studentInput("S002", "Han Meimei", 90))
	e.backend.AddStudent(studentInput("S003", "Li Ming", 70))

	s := NewStudentStore(e.client, nil)
	require.NoError(t, s.List(context.Background(), 0, 10))
	assert.Len(t, s.Students(), 3)
	assert.Empty(t, s.Query())
	assert.True(t, s.Pagination().Last)

	require.NoError(t, s.Search(context.Background(), "li", 0, 10))
	got := s.Students()
	require.Len(t, got, 2)
	assert.Equal(t, "Li Lei", got[0].Name)
	assert.Equal(t, "Li Ming", got[1].Name)
	assert.Equal(t, "li", s.Query())
	assert.EqualValues(t, 2, s.Pagination().TotalElements)
}

func TestStudentStore_Add(t *testing.T) {
	e := newEnv(t)
	e.backend.AddStudent(studentInput("S001", "Li Lei", 80))

	s := NewStudentStore(e.client, nil)
	require.NoError(t, s.List(context.Background(), 0, 10))
	beforeLen, beforeTotal := len(s.Students()), s.Pagination().TotalElements

	in := studentInput("S010", "Wang Fang", 60)
	st, err := s.Add(context.Background(), in)
	require.NoError(t, err)
	require.NotZero(t, st.ID)
	assert.Equal(t, in.Apply(st.ID), st)

	assert.Len(t, s.Students(), beforeLen+1)
	assert.Equal(t, beforeTotal+1, s.Pagination().TotalElements)
	assert.Equal(t, st, s.Students()[0])
}

func TestStudentStore_AddTrustsServerRecord(t *testing.T) {
	s := NewStudentStore(respond(`{"id":5,"studentId":"X9","studentName":"Canonical","math":99}`), nil)

	st, err := s.Add(context.Background(), studentInput("S1", "typed by user", 1))
	require.NoError(t, err)
	assert.Equal(t, models.Student{ID: 5, StudentNumber: "X9", Name: "Canonical", Math: 99}, st)
	assert.Equal(t, []models.Student{st}, s.Students())
}

func TestStudentStore_AddMalformed(t *testing.T) {
	for name, body := range map[string]string{
		"no id":      `{"studentName":"x"}`,
		"plain text": `ok`,
	} {
		t.Run(name, func(t *testing.T) {
			s := NewStudentStore(respond(body), nil)
			_, err := s.Add(context.Background(), studentInput("S1", "x", 1))
			require.ErrorIs(t, err, api.ErrMalformedResponse)
			assert.Empty(t, s.Students())
			assert.Zero(t, s.Pagination().TotalElements)
		})
	}
}

func TestStudentStore_AddFailure(t *testing.T) {
	e := newEnv(t)
	s := NewStudentStore(e.client, nil)

	_, err := s.Add(context.Background(), models.StudentInput{})
	require.ErrorIs(t, err, api.ErrStatus)
	code, _ := api.StatusCode(err)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Empty(t, s.Students())
	assert.False(t, s.Loading())
}

func TestStudentStore_Update(t *testing.T) {
	e := newEnv(t)
	a := e.backend.AddStudent(studentInput("S001", "Li Lei", 80))
	b := e.backend.AddStudent(studentInput("S002", "Han Meimei", 90))
	c := e.backend.AddStudent(studentInput("S003", "Li Ming", 70))

	s := NewStudentStore(e.client, nil)
	require.NoError(t, s.List(context.Background(), 0, 10))

	in := studentInput("S002", "Han Meimei", 95)
	in.Math = 100
	res, err := s.Update(context.Background(), b.ID, in)
	require.NoError(t, err)
	assert.True(t, res.InListing)
	assert.Equal(t, "update success", res.Message)

	got := s.Students()
	require.Equal(t, []int64{a.ID, b.ID, c.ID}, ids(got))
	assert.Equal(t, a, got[0])
	assert.Equal(t, in.Apply(b.ID), got[1])
	assert.Equal(t, 100.0, got[1].Math)
	assert.Equal(t, c, got[2])

	for _, st := range e.backend.Students() {
		if st.ID == b.ID {
			assert.Equal(t, 100.0, st.Math)
		}
	}
}

func TestStudentStore_UpdateSendsEveryField(t *testing.T) {
	var sent studentUpdateRequest
	var path string
	s := NewStudentStore(sendFunc(func(_ context.Context, _, p string, body any, _ ...api.RequestOption) (*api.Response, error) {
		path = p
		sent = body.(studentUpdateRequest)
		return &api.Response{StatusCode: http.StatusOK, Body: []byte(`"update success"`)}, nil
	}), nil)

	in := studentInput("S7", "Zhang San", 50)
	res, err := s.Update(context.Background(), 7, in)
	require.NoError(t, err)
	assert.False(t, res.InListing)
	assert.Equal(t, "update success", res.Message)
	assert.Equal(t, "/student/update", path)
	assert.Equal(t, studentUpdateRequest{ID: 7, StudentInput: in}, sent)
}

func TestStudentStore_Delete(t *testing.T) {
	e := newEnv(t)
	a := e.backend.AddStudent(studentInput("S001", "Li Lei", 80))
	e.backend.AddStudent(studentInput("S002", "Han Meimei", 90))

	s := NewStudentStore(e.client, nil)
	require.NoError(t, s.List(context.Background(), 0, 10))

	res, err := s.Delete(context.Background(), a.ID)
	require.NoError(t, err)
	assert.True(t, res.InListing)
	assert.NotContains(t, ids(s.Students()), a.ID)
	assert.EqualValues(t, 1, s.Pagination().TotalElements)
}

func TestStudentStore_DeleteNotInListingStillDecrements(t *testing.T) {
	e := newEnv(t)
	e.backend.AddStudent(studentInput("S001", "Li Lei", 80))

	s := NewStudentStore(e.client, nil)
	require.NoError(t, s.List(context.Background(), 0, 10))
	late := e.backend.AddStudent(studentInput("S009", "Late", 10))

	res, err := s.Delete(context.Background(), late.ID)
	require.NoError(t, err)
	assert.False(t, res.InListing)
	assert.Len(t, s.Students(), 1)
	assert.EqualValues(t, 0, s.Pagination().TotalElements)
}
