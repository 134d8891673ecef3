// Package catalog implements the film catalog accessor: it loads a films
// collection into an in-memory table, answers the dashboard's read-only views
// (full listing, name search, director filter) and appends new films after a
// duplicate check.  Stores, session caches and event notifiers are passed in
// explicitly; the package keeps no global state.
package catalog

import (
	"strings"

	"github.com/iliyamo/film-dashboard/internal/model"
)

// Column names of a loaded table.
const (
	ColumnName     = "name"
	ColumnGenre    = "genre"
	ColumnDirector = "director"
	ColumnCompany  = "company"
	ColumnID       = "id"
)

var filmColumns = []string{ColumnName, ColumnGenre, ColumnDirector, ColumnCompany, ColumnID}

// Table is the in-memory tabular view of a collection.  An empty table has
// no columns, so views that depend on a column must check HasColumn first.
type Table struct {
	Columns []string     `json:"columns"`
	Rows    []model.Film `json:"rows"`
}

// NewTable wraps rows in a Table.  The rows slice is not copied.
func NewTable(rows []model.Film) *Table {
	t := &Table{Columns: []string{}, Rows: rows}
	if t.Rows == nil {
		t.Rows = []model.Film{}
	}
	if len(t.Rows) > 0 {
		t.Columns = append(t.Columns, filmColumns...)
	}
	return t
}

// EmptyTable returns a table with neither rows nor columns.
func EmptyTable() *Table { return NewTable(nil) }

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether the named column is present.
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Directors returns the distinct non-blank directors in first-seen order.
// It populates the director select control.
func (t *Table) Directors() []string {
	if !t.HasColumn(ColumnDirector) {
		return []string{}
	}
	seen := make(map[string]bool, len(t.Rows))
	out := make([]string, 0, len(t.Rows))
	for _, f := range t.Rows {
		if strings.TrimSpace(f.Director) == "" || seen[f.Director] {
			continue
		}
		seen[f.Director] = true
		out = append(out, f.Director)
	}
	return out
}

// Search returns the rows whose name contains q, ignoring case.  A blank
// query performs no filtering: the returned table is nil and the notice
// prompts for a name.
func (t *Table) Search(q string) (*Table, Notice) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, Info("Type a name to search.")
	}
	needle := strings.ToLower(q)
	out := t.filter(ColumnName, func(f model.Film) bool {
		return strings.Contains(strings.ToLower(f.Name), needle)
	})
	return out, Info("Found %d films.", out.Len())
}

// FilterByDirector returns the rows whose director equals d exactly.  A
// blank director is rejected with a prompt and a nil table.
func (t *Table) FilterByDirector(d string) (*Table, Notice) {
	if strings.TrimSpace(d) == "" {
		return nil, Info("Select a director to filter.")
	}
	out := t.filter(ColumnDirector, func(f model.Film) bool { return f.Director == d })
	return out, Info("Found %d films directed by %s.", out.Len(), d)
}

// filter keeps the rows matching keep.  Tables lacking column yield an
// empty result instead of failing.
func (t *Table) filter(column string, keep func(model.Film) bool) *Table {
	if !t.HasColumn(column) {
		return EmptyTable()
	}
	rows := make([]model.Film, 0)
	for _, f := range t.Rows {
		if keep(f) {
			rows = append(rows, f)
		}
	}
	out := NewTable(rows)
	out.Columns = append([]string{}, t.Columns...)
	return out
}

// withRow returns a copy of t with f appended.
func (t *Table) withRow(f model.Film) *Table {
	rows := make([]model.Film, 0, t.Len()+1)
	if t != nil {
		rows = append(rows, t.Rows...)
	}
	return NewTable(append(rows, f))
}

// findDuplicate looks for an existing film whose name collides with name
// under mode.  The check runs against the loaded table, not the store.
func (t *Table) findDuplicate(name string, mode MatchMode) (model.Film, bool) {
	if !t.HasColumn(ColumnName) {
		return model.Film{}, false
	}
	candidate := strings.ToLower(strings.TrimSpace(name))
	for _, f := range t.Rows {
		existing := strings.ToLower(strings.TrimSpace(f.Name))
		if existing == "" {
			continue
		}
		switch mode {
		case MatchExact:
			if existing == candidate {
				return f, true
			}
		case MatchEither:
			if strings.Contains(existing, candidate) || strings.Contains(candidate, existing) {
				return f, true
			}
		default:
			if strings.Contains(existing, candidate) {
				return f, true
			}
		}
	}
	return model.Film{}, false
}
