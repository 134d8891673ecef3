// Package queue defines message payloads exchanged over the message broker.
package queue

// FilmInsertedQueue is the default durable queue for FilmInsertedEvent.
const FilmInsertedQueue = "film.inserted"

// FilmInsertedEvent is published after a film has been written to the
// store.  It carries the whole record so consumers can log, notify or feed
// analytics without reading the films collection.
type FilmInsertedEvent struct {
	Collection string `json:"collection"`
	FilmID     string `json:"film_id"`
	Name       string `json:"name"`
	Genre      string `json:"genre"`
	Director   string `json:"director"`
	Company    string `json:"company"`
	SessionID  string `json:"session_id,omitempty"`
	InsertedAt string `json:"inserted_at"`
}
