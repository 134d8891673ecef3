package model

// PlaceholderID marks a record that was appended to a local table before
// the backing store reported its identifier.
const PlaceholderID = "pending"

// Film represents one entry of the film catalog.  It corresponds to a
// document in the films collection (`netflix` by default).  The document
// store assigns ID; callers never set it when adding a record.
//
// Fields:
//
//	ID       – opaque identifier assigned by the store.
//	Name     – display name, expected to be unique case-insensitively.
//	Genre    – free-text genre.
//	Director – director name, used by the director filter.
//	Company  – producing company.
type Film struct {
	ID       string `json:"id" bson:"-"`              // store identifier (document id / row id)
	Name     string `json:"name" bson:"name"`         // films.name
	Genre    string `json:"genre" bson:"genre"`       // films.genre
	Director string `json:"director" bson:"director"` // films.director
	Company  string `json:"company" bson:"company"`   // films.company
}

// Persisted reports whether the record carries a store-assigned identifier.
func (f Film) Persisted() bool {
	return f.ID != "" && f.ID != PlaceholderID
}
