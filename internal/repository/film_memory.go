package repository

import (
	"context"
	"strconv"
	"sync"

	"github.com/iliyamo/film-dashboard/internal/model"
)

// MemoryFilmRepo is a process-local store for demos and tests.  Ids are
// "mem-<n>" in insertion order across all collections.
type MemoryFilmRepo struct {
	mu          sync.RWMutex
	seq         int
	collections map[string][]model.Film
}

// NewMemoryFilmRepo returns an empty MemoryFilmRepo.
func NewMemoryFilmRepo() *MemoryFilmRepo {
	return &MemoryFilmRepo{collections: map[string][]model.Film{}}
}

// ListFilms returns a copy of the films of collection.
func (r *MemoryFilmRepo) ListFilms(_ context.Context, collection string) ([]model.Film, error) {
	if collection == "" {
		return nil, ErrEmptyCollection
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]model.Film(nil), r.collections[collection]...), nil
}

// AddFilm appends f to collection under a fresh id.
func (r *MemoryFilmRepo) AddFilm(_ context.Context, collection string, f model.Film) (string, error) {
	if collection == "" {
		return "", ErrEmptyCollection
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	f.ID = "mem-" + strconv.Itoa(r.seq)
	r.collections[collection] = append(r.collections[collection], f)
	return f.ID, nil
}
