package stores

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/schoolrecords/internal/client/models"
)

func seeded(users ...models.User) *listing[models.User] {
	l := newListing[models.User](10)
	l.replace(models.Page[models.User]{
		Items:      users,
		Pagination: models.Pagination{Page: 0, Size: 10, TotalElements: int64(len(users)), TotalPages: 1, Last: true},
	})
	return l
}

func TestListing_Empty(t *testing.T) {
	l := newListing[models.User](0)
	assert.Empty(t, l.snapshot())
	assert.Equal(t, models.DefaultPageSize, l.page().Size)
	assert.True(t, l.page().Last)
	assert.False(t, l.isLoading())
	assert.NoError(t, l.lastErr())
}

func TestListing_Prepend(t *testing.T) {
	l := seeded(models.User{ID: 1}, models.User{ID: 2})
	l.prepend(models.User{ID: 9})

	assert.Equal(t, []int64{9, 1, 2}, ids(l.snapshot()))
	assert.EqualValues(t, 3, l.page().TotalElements)
}

func TestListing_SetKeepsPosition(t *testing.T) {
	l := seeded(models.User{ID: 1, Username: "a"}, models.User{ID: 2, Username: "b"}, models.User{ID: 3, Username: "c"})

	require.True(t, l.set(models.User{ID: 2, Username: "B"}))
	assert.Equal(t, []models.User{{ID: 1, Username: "a"}, {ID: 2, Username: "B"}, {ID: 3, Username: "c"}}, l.snapshot())

	require.False(t, l.set(models.User{ID: 42, Username: "x"}))
	assert.Len(t, l.snapshot(), 3)
}

func TestListing_RemoveAlwaysDecrements(t *testing.T) {
	l := seeded(models.User{ID: 1}, models.User{ID: 2})

	require.True(t, l.remove(1))
	assert.Equal(t, []int64{2}, ids(l.snapshot()))
	assert.EqualValues(t, 1, l.page().TotalElements)

	require.False(t, l.remove(77))
	assert.Equal(t, []int64{2}, ids(l.snapshot()))
	assert.EqualValues(t, 0, l.page().TotalElements)
}

func TestListing_BeginEnd(t *testing.T) {
	l := newListing[models.User](10)

	func() {
		var err error
		l.begin()
		defer l.end(&err)
		assert.True(t, l.isLoading())
		err = errors.New("boom")
	}()
	assert.False(t, l.isLoading())
	assert.EqualError(t, l.lastErr(), "boom")

	func() {
		var err error
		l.begin()
		defer l.end(&err)
		assert.NoError(t, l.lastErr())
	}()
	assert.NoError(t, l.lastErr())
}

func TestListing_SnapshotIsACopy(t *testing.T) {
	l := seeded(models.User{ID: 1, Username: "a"})
	snap := l.snapshot()
	snap[0].Username = "mutated"

	got, ok := l.get(1)
	require.True(t, ok)
	assert.Equal(t, "a", got.Username)
}
