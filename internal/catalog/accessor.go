package catalog

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/film-dashboard/internal/model"
)

// DefaultCollection is the collection the dashboard reads and writes.
const DefaultCollection = "netflix"

// FilmStore is the backing document store.  ListFilms streams every
// document of a collection; AddFilm writes one document and returns the
// identifier the store assigned to it.
type FilmStore interface {
	ListFilms(ctx context.Context, collection string) ([]model.Film, error)
	AddFilm(ctx context.Context, collection string, f model.Film) (string, error)
}

// SessionCache keeps one loaded table per session.  Get reports a miss
// with ok == false and a nil error.
type SessionCache interface {
	Get(ctx context.Context, sessionID string) (t *Table, ok bool, err error)
	Put(ctx context.Context, sessionID string, t *Table) error
	Delete(ctx context.Context, sessionID string) error
}

// Notifier is told about every film written by Insert.
type Notifier interface {
	FilmInserted(ctx context.Context, collection, sessionID string, f model.Film) error
}

// Options configures an Accessor.  Zero values select the session policy,
// reload refresh, substring duplicate matching and the netflix collection.
type Options struct {
	Collection string
	Policy     CachePolicy
	Refresh    RefreshStrategy
	Match      MatchMode
	Cache      SessionCache
	Notifier   Notifier
	Logger     *zap.Logger
}

// Accessor is the application state shared by all dashboard handlers.
type Accessor struct {
	store      FilmStore
	collection string
	policy     CachePolicy
	refresh    RefreshStrategy
	match      MatchMode
	cache      SessionCache
	notifier   Notifier
	log        *zap.Logger
}

// NewAccessor builds an Accessor over store and panics if store is nil.
// The session policy silently falls back to recompute when no cache is
// supplied.
func NewAccessor(store FilmStore, opts Options) *Accessor {
	if store == nil {
		panic("nil store passed to NewAccessor")
	}
	a := &Accessor{
		store:      store,
		collection: opts.Collection,
		policy:     opts.Policy,
		refresh:    opts.Refresh,
		match:      opts.Match,
		cache:      opts.Cache,
		notifier:   opts.Notifier,
		log:        opts.Logger,
	}
	if a.collection == "" {
		a.collection = DefaultCollection
	}
	if a.policy == "" {
		a.policy = PolicySession
	}
	if a.refresh == "" {
		a.refresh = RefreshReload
	}
	if a.match == "" {
		a.match = MatchContains
	}
	if a.log == nil {
		a.log = zap.NewNop()
	}
	if a.cache == nil {
		a.policy = PolicyRecompute
	}
	return a
}

// Collection returns the name of the collection the accessor serves.
func (a *Accessor) Collection() string { return a.collection }

// Policy returns the effective cache policy.
func (a *Accessor) Policy() CachePolicy { return a.policy }

// Load fetches the whole collection.  It never fails: on a fetch error the
// returned table is empty and the notice carries the cause.  An empty
// collection is not an error and produces no notice.
func (a *Accessor) Load(ctx context.Context) (*Table, *Notice) {
	films, err := a.store.ListFilms(ctx, a.collection)
	if err != nil {
		a.log.Error("load films failed", zap.String("collection", a.collection), zap.Error(err))
		n := Error("Error loading data: %v", err)
		return EmptyTable(), &n
	}
	a.log.Debug("films loaded", zap.String("collection", a.collection), zap.Int("rows", len(films)))
	return NewTable(films), nil
}

// Current returns the table a request should work on, honouring the cache
// policy.  Under the session policy only successful loads are memoized.
func (a *Accessor) Current(ctx context.Context, sessionID string) (*Table, *Notice) {
	if a.policy != PolicySession || sessionID == "" {
		return a.Load(ctx)
	}
	t, ok, err := a.cache.Get(ctx, sessionID)
	if err != nil {
		a.log.Warn("session cache read failed", zap.String("session", sessionID), zap.Error(err))
	} else if ok {
		return t, nil
	}
	t, n := a.Load(ctx)
	if n == nil {
		a.remember(ctx, sessionID, t)
	}
	return t, n
}

// FilmInput carries the four user-supplied fields of a new film.
type FilmInput struct {
	Name     string `json:"name" form:"name"`
	Genre    string `json:"genre" form:"genre"`
	Director string `json:"director" form:"director"`
	Company  string `json:"company" form:"company"`
}

func (in FilmInput) trimmed() FilmInput {
	return FilmInput{
		Name:     strings.TrimSpace(in.Name),
		Genre:    strings.TrimSpace(in.Genre),
		Director: strings.TrimSpace(in.Director),
		Company:  strings.TrimSpace(in.Company),
	}
}

func (in FilmInput) complete() bool {
	return in.Name != "" && in.Genre != "" && in.Director != "" && in.Company != ""
}

// InsertResult is the outcome of Insert.  Table is always non-nil: the
// refreshed table on success, the unchanged current table otherwise.
type InsertResult struct {
	Table   *Table
	Film    model.Film
	Notices []Notice
}

// Insert validates in, checks it against current for a duplicate name,
// writes it to the store and refreshes the session's table.  Validation
// and duplicate failures return ErrMissingField or ErrDuplicateName and
// write nothing.
func (a *Accessor) Insert(ctx context.Context, sessionID string, current *Table, in FilmInput) (InsertResult, error) {
	if current == nil {
		current = EmptyTable()
	}
	res := InsertResult{Table: current}
	in = in.trimmed()
	if !in.complete() {
		res.Notices = []Notice{Error("Please fill in all the form fields.")}
		return res, ErrMissingField
	}
	if dup, ok := current.findDuplicate(in.Name, a.match); ok {
		res.Notices = []Notice{Warning("The film '%s' already exists in the database.", in.Name)}
		return res, fmt.Errorf("%w: %q collides with %q", ErrDuplicateName, in.Name, dup.Name)
	}

	film := model.Film{Name: in.Name, Genre: in.Genre, Director: in.Director, Company: in.Company}
	id, err := a.store.AddFilm(ctx, a.collection, film)
	if err != nil {
		a.log.Error("add film failed", zap.String("collection", a.collection), zap.String("name", film.Name), zap.Error(err))
		res.Notices = []Notice{Error("Error inserting film: %v", err)}
		return res, fmt.Errorf("add film: %w", err)
	}
	film.ID = id
	res.Notices = []Notice{Success("The film '%s' was inserted successfully!", film.Name)}
	a.log.Info("film inserted", zap.String("collection", a.collection), zap.String("id", id), zap.String("name", film.Name))

	switch a.refresh {
	case RefreshAppend:
		if !film.Persisted() {
			film.ID = model.PlaceholderID
		}
		res.Table = current.withRow(film)
		a.remember(ctx, sessionID, res.Table)
	default:
		t, n := a.Load(ctx)
		res.Table = t
		if n != nil {
			res.Notices = append(res.Notices, *n)
			a.forget(ctx, sessionID)
		} else {
			a.remember(ctx, sessionID, t)
		}
	}
	res.Film = film

	if a.notifier != nil {
		if err := a.notifier.FilmInserted(ctx, a.collection, sessionID, film); err != nil {
			a.log.Warn("film inserted notification failed", zap.String("id", film.ID), zap.Error(err))
		}
	}
	return res, nil
}

func (a *Accessor) remember(ctx context.Context, sessionID string, t *Table) {
	if a.policy != PolicySession || sessionID == "" {
		return
	}
	if err := a.cache.Put(ctx, sessionID, t); err != nil {
		a.log.Warn("session cache write failed", zap.String("session", sessionID), zap.Error(err))
	}
}

func (a *Accessor) forget(ctx context.Context, sessionID string) {
	if a.policy != PolicySession || sessionID == "" {
		return
	}
	if err := a.cache.Delete(ctx, sessionID); err != nil {
		a.log.Warn("session cache invalidation failed", zap.String("session", sessionID), zap.Error(err))
	}
}
