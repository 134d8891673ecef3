package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/film-dashboard/internal/model"
)

func sampleTable() *Table {
	return NewTable([]model.Film{
		{ID: "1", Name: "The Matrix", Genre: "Sci-Fi", Director: "Lana Wachowski", Company: "Warner Bros."},
		{ID: "2", Name: "Matrix Reloaded", Genre: "Sci-Fi", Director: "Lana Wachowski", Company: "Warner Bros."},
		{ID: "3", Name: "Roma", Genre: "Drama", Director: "Alfonso Cuarón", Company: "Netflix"},
		{ID: "4", Name: "Gravity", Genre: "Sci-Fi", Director: "Alfonso Cuarón", Company: "Warner Bros."},
		{ID: "5", Name: "Untitled", Genre: "Drama", Director: "", Company: "Netflix"},
	})
}

func TestSearchIsCaseInsensitiveSubstring(t *testing.T) {
	out, n := sampleTable().Search("MATRIX")
	require.NotNil(t, out)
	assert.Equal(t, LevelInfo, n.Level)
	assert.Equal(t, "Found 2 films.", n.Text)
	for _, f := range out.Rows {
		assert.Contains(t, []string{"The Matrix", "Matrix Reloaded"}, f.Name)
	}
}

func TestSearchTreatsQueryLiterally(t *testing.T) {
	out, _ := sampleTable().Search("(")
	assert.Equal(t, 0, out.Len())
}

func TestSearchBlankQueryDoesNotFilter(t *testing.T) {
	for _, q := range []string{"", "   "} {
		out, n := sampleTable().Search(q)
		assert.Nil(t, out)
		assert.Equal(t, Info("Type a name to search."), n)
	}
}

func TestSearchOnEmptyTable(t *testing.T) {
	out, n := EmptyTable().Search("roma")
	assert.Equal(t, 0, out.Len())
	assert.Equal(t, "Found 0 films.", n.Text)
}

func TestDirectorsAreDistinctAndSkipBlanks(t *testing.T) {
	assert.Equal(t, []string{"Lana Wachowski", "Alfonso Cuarón"}, sampleTable().Directors())
	assert.Empty(t, EmptyTable().Directors())
}

func TestFilterByDirectorMatchesExactly(t *testing.T) {
	tbl := sampleTable()
	for _, d := range tbl.Directors() {
		out, n := tbl.FilterByDirector(d)
		require.NotNil(t, out)
		assert.Contains(t, n.Text, "directed by "+d)
		for _, f := range out.Rows {
			assert.Equal(t, d, f.Director)
		}
		want := 0
		for _, f := range tbl.Rows {
			if f.Director == d {
				want++
			}
		}
		assert.Equal(t, want, out.Len())
	}

	out, _ := tbl.FilterByDirector("alfonso cuarón")
	assert.Equal(t, 0, out.Len(), "director filter is case-sensitive")
}

func TestFilterByDirectorGuards(t *testing.T) {
	out, n := sampleTable().FilterByDirector("")
	assert.Nil(t, out)
	assert.Equal(t, Info("Select a director to filter."), n)

	out, n = EmptyTable().FilterByDirector("Alfonso Cuarón")
	require.NotNil(t, out)
	assert.Equal(t, 0, out.Len())
	assert.False(t, out.HasColumn(ColumnDirector))
	assert.Equal(t, "Found 0 films directed by Alfonso Cuarón.", n.Text)
}

func TestFindDuplicate(t *testing.T) {
	tbl := NewTable([]model.Film{{Name: "Matrix"}})

	cases := []struct {
		name string
		mode MatchMode
		dup  bool
	}{
		{"Matrix", MatchContains, true},
		{" MATRIX ", MatchContains, true},
		{"trix", MatchContains, true},
		{"the matrix", MatchContains, false},
		{"The Matrix 2", MatchContains, false},
		{"Roma", MatchContains, false},
		{"the matrix", MatchEither, true},
		{"The Matrix 2", MatchEither, true},
		{"trix", MatchEither, true},
		{"Roma", MatchEither, false},
		{"MATRIX", MatchExact, true},
		{"the matrix", MatchExact, false},
	}
	for _, tc := range cases {
		_, got := tbl.findDuplicate(tc.name, tc.mode)
		assert.Equal(t, tc.dup, got, "%s/%s", tc.mode, tc.name)
	}

	short := NewTable([]model.Film{{Name: "Up"}})
	_, got := short.findDuplicate("Superman", MatchContains)
	assert.False(t, got, "a short existing title does not block longer ones")
	_, got = short.findDuplicate("Superman", MatchEither)
	assert.True(t, got)

	_, got = EmptyTable().findDuplicate("Matrix", MatchContains)
	assert.False(t, got)
}

func TestWithRowCopies(t *testing.T) {
	base := EmptyTable()
	next := base.withRow(model.Film{Name: "Roma", Director: "Alfonso Cuarón"})
	assert.Equal(t, 0, base.Len())
	assert.Equal(t, 1, next.Len())
	assert.True(t, next.HasColumn(ColumnDirector))
}

func TestParseOptions(t *testing.T) {
	p, err := ParseCachePolicy(" Recompute ")
	require.NoError(t, err)
	assert.Equal(t, PolicyRecompute, p)

	r, err := ParseRefreshStrategy("")
	require.NoError(t, err)
	assert.Equal(t, RefreshReload, r)

	m, err := ParseMatchMode("either")
	require.NoError(t, err)
	assert.Equal(t, MatchEither, m)

	m, err = ParseMatchMode("exact")
	require.NoError(t, err)
	assert.Equal(t, MatchExact, m)

	_, err = ParseCachePolicy("forever")
	assert.ErrorIs(t, err, ErrUnknownOption)
	_, err = ParseRefreshStrategy("sometimes")
	assert.ErrorIs(t, err, ErrUnknownOption)
	_, err = ParseMatchMode("fuzzy")
	assert.ErrorIs(t, err, ErrUnknownOption)
}
