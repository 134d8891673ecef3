package repository

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/iliyamo/film-dashboard/internal/model"
)

// SQLFilmRepo keeps every collection in one `films` table, partitioned by
// the collection column.  It lets the dashboard run against the MySQL
// instance other services already use.
type SQLFilmRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewSQLFilmRepo constructs a SQLFilmRepo with the provided DB handle.
func NewSQLFilmRepo(db *sql.DB) *SQLFilmRepo {
	return &SQLFilmRepo{db: db}
}

const filmsSchema = `CREATE TABLE IF NOT EXISTS films (
	id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	collection VARCHAR(64) NOT NULL,
	name VARCHAR(255) NULL,
	genre VARCHAR(255) NULL,
	director VARCHAR(255) NULL,
	company VARCHAR(255) NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	KEY idx_films_collection (collection)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// EnsureSchema creates the films table when it does not exist yet.
func (r *SQLFilmRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, filmsSchema)
	return err
}

// ListFilms returns every row of collection ordered by id.  NULL columns
// come back as empty strings.
func (r *SQLFilmRepo) ListFilms(ctx context.Context, collection string) ([]model.Film, error) {
	if collection == "" {
		return nil, ErrEmptyCollection
	}
	const q = `SELECT id, name, genre, director, company
	           FROM films WHERE collection = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Film
	for rows.Next() {
		var (
			id                             uint64
			name, genre, director, company sql.NullString
		)
		if err := rows.Scan(&id, &name, &genre, &director, &company); err != nil {
			return nil, err
		}
		out = append(out, model.Film{
			ID:       strconv.FormatUint(id, 10),
			Name:     name.String,
			Genre:    genre.String,
			Director: director.String,
			Company:  company.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// AddFilm inserts f into collection and returns the auto-increment id.
func (r *SQLFilmRepo) AddFilm(ctx context.Context, collection string, f model.Film) (string, error) {
	if collection == "" {
		return "", ErrEmptyCollection
	}
	const q = "INSERT INTO films (collection, name, genre, director, company) VALUES (?, ?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, collection, f.Name, f.Genre, f.Director, f.Company)
	if err != nil {
		return "", err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(id, 10), nil
}
