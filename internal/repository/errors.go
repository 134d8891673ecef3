// Package repository defines the film stores backing the dashboard and
// the error values they share.  Each store implements catalog.FilmStore
// over one backend: the MongoDB document store, MySQL, or process memory.
package repository

import "errors"

// ErrUnknownBackend is returned when STORE_BACKEND names no known store.
// The process refuses to start in that case.
var ErrUnknownBackend = errors.New("unknown store backend")

// ErrEmptyCollection is returned when a store is asked to act on a
// collection with a blank name.
var ErrEmptyCollection = errors.New("collection name is required")

// Backend names a FilmStore implementation.
type Backend string

const (
	BackendMongo  Backend = "mongo"
	BackendMySQL  Backend = "mysql"
	BackendMemory Backend = "memory"
)

// ParseBackend validates a STORE_BACKEND value.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(s); b {
	case BackendMongo, BackendMySQL, BackendMemory:
		return b, nil
	case "":
		return BackendMongo, nil
	}
	return "", ErrUnknownBackend
}
