package stores

import (
	"slices"
	"sync"

	"github.com/dmitrijs2005/schoolrecords/internal/client/models"
)

// listing is the local copy of one page of T plus the store's loading and
// last-error state.
type listing[T models.Identified] struct {
	mu         sync.RWMutex
	items      []T
	pagination models.Pagination
	loading    bool
	err        error
}

func newListing[T models.Identified](size int) *listing[T] {
	return &listing[T]{items: []T{}, pagination: models.NewPagination(size)}
}

// begin marks an operation as started. Pair it with end via defer.
func (l *listing[T]) begin() {
	l.mu.Lock()
	l.loading = true
	l.err = nil
	l.mu.Unlock()
}

func (l *listing[T]) end(err *error) {
	l.mu.Lock()
	l.loading = false
	if err != nil && *err != nil {
		l.err = *err
	}
	l.mu.Unlock()
}

// fail records err without touching loading. Used by operations that do not
// toggle the flag.
func (l *listing[T]) fail(err error) {
	l.mu.Lock()
	l.err = err
	l.mu.Unlock()
}

func (l *listing[T]) clearErr() {
	l.mu.Lock()
	l.err = nil
	l.mu.Unlock()
}

func (l *listing[T]) replace(p models.Page[T]) {
	items := p.Items
	if items == nil {
		items = []T{}
	}
	l.mu.Lock()
	l.items = items
	l.pagination = p.Pagination
	l.mu.Unlock()
}

func (l *listing[T]) prepend(item T) {
	l.mu.Lock()
	l.items = slices.Insert(l.items, 0, item)
	l.pagination.TotalElements++
	l.mu.Unlock()
}

// set replaces the entry with item's id in place. It reports whether the
// entry was present.
func (l *listing[T]) set(item T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexLocked(item.GetID())
	if i < 0 {
		return false
	}
	l.items[i] = item
	return true
}

// remove drops the entry with id and decrements the total. The total is
// decremented even when id was not in the local page, matching the server
// which has one record fewer either way.
func (l *listing[T]) remove(id int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	before := len(l.items)
	l.items = slices.DeleteFunc(l.items, func(v T) bool { return v.GetID() == id })
	l.pagination.TotalElements--
	return len(l.items) < before
}

func (l *listing[T]) get(id int64) (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i := l.indexLocked(id)
	if i < 0 {
		var zero T
		return zero, false
	}
	return l.items[i], true
}

func (l *listing[T]) indexLocked(id int64) int {
	return slices.IndexFunc(l.items, func(v T) bool { return v.GetID() == id })
}

func (l *listing[T]) snapshot() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.items)
}

func (l *listing[T]) page() models.Pagination {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.pagination
}

func (l *listing[T]) isLoading() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loading
}

func (l *listing[T]) lastErr() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.err
}
