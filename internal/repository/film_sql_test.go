package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/film-dashboard/internal/model"
)

func newMockRepo(t *testing.T) (*SQLFilmRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLFilmRepo(db), mock
}

func TestSQLFilmRepoListFilms(t *testing.T) {
	repo, mock := newMockRepo(t)
	rows := sqlmock.NewRows([]string{"id", "name", "genre", "director", "company"}).
		AddRow(1, "Roma", "Drama", "Alfonso Cuarón", "Netflix").
		AddRow(2, "Gravity", nil, "Alfonso Cuarón", "Warner Bros.")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, genre, director, company")).
		WithArgs("netflix").
		WillReturnRows(rows)

	films, err := repo.ListFilms(context.Background(), "netflix")
	require.NoError(t, err)
	assert.Equal(t, []model.Film{
		{ID: "1", Name: "Roma", Genre: "Drama", Director: "Alfonso Cuarón", Company: "Netflix"},
		{ID: "2", Name: "Gravity", Genre: "", Director: "Alfonso Cuarón", Company: "Warner Bros."},
	}, films)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLFilmRepoListFilmsError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT id").WillReturnError(errors.New("connection refused"))

	_, err := repo.ListFilms(context.Background(), "netflix")
	assert.EqualError(t, err, "connection refused")
}

func TestSQLFilmRepoAddFilm(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO films (collection, name, genre, director, company)")).
		WithArgs("netflix", "Roma", "Drama", "Alfonso Cuarón", "Netflix").
		WillReturnResult(sqlmock.NewResult(42, 1))

	id, err := repo.AddFilm(context.Background(), "netflix", model.Film{Name: "Roma", Genre: "Drama", Director: "Alfonso Cuarón", Company: "Netflix"})
	require.NoError(t, err)
	assert.Equal(t, "42", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLFilmRepoEnsureSchema(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS films")).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLFilmRepoRejectsBlankCollection(t *testing.T) {
	repo, _ := newMockRepo(t)
	_, err := repo.ListFilms(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyCollection)
	_, err = repo.AddFilm(context.Background(), "", model.Film{})
	assert.ErrorIs(t, err, ErrEmptyCollection)
}
