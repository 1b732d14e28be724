package scheduler

import (
	"context"
	"errors"
	"sync"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

// memStore is an in-memory bookmark store for scheduler tests.
type memStore struct {
	mu        sync.Mutex
	nextID    int64
	rows      map[int64]domain.Bookmark
	insertErr error
	getErr    error
}

func newMemStore() *memStore {
	return &memStore{nextID: 1, rows: make(map[int64]domain.Bookmark)}
}

func (s *memStore) ExistsByURL(_ context.Context, url string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.rows {
		if b.URL == url {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) Insert(_ context.Context, nb domain.NewBookmark) (domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return domain.Bookmark{}, s.insertErr
	}
	b := domain.Bookmark{ID: s.nextID, Title: nb.Title, URL: nb.URL, Description: nb.Description, Rating: nb.Rating}
	s.rows[b.ID] = b
	s.nextID++
	return b, nil
}

func (s *memStore) Get(_ context.Context, id int64) (domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return domain.Bookmark{}, s.getErr
	}
	b, ok := s.rows[id]
	if !ok {
		return domain.Bookmark{}, domain.ErrNotFound
	}
	return b, nil
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// memUsage is an in-memory usage counter store.
type memUsage struct {
	counters  map[int64]int64
	statsErr  error
	deleteErr error
}

func (u *memUsage) UsageStats(context.Context) (map[int64]int64, error) {
	if u.statsErr != nil {
		return nil, u.statsErr
	}
	out := make(map[int64]int64, len(u.counters))
	for k, v := range u.counters {
		out[k] = v
	}
	return out, nil
}

func (u *memUsage) DeleteUsage(_ context.Context, id int64) error {
	if u.deleteErr != nil {
		return u.deleteErr
	}
	delete(u.counters, id)
	return nil
}

var errBoom = errors.New("boom")
