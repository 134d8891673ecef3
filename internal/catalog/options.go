package catalog

import (
	"fmt"
	"strings"
)

// CachePolicy decides how often the films collection is fetched.
type CachePolicy string

const (
	// PolicyRecompute fetches the collection on every request.
	PolicyRecompute CachePolicy = "recompute"
	// PolicySession fetches once per session and keeps the table in the
	// session cache until a successful insert invalidates it.
	PolicySession CachePolicy = "session"
)

// RefreshStrategy decides how the local table is refreshed after an insert.
type RefreshStrategy string

const (
	// RefreshReload re-issues the full load.
	RefreshReload RefreshStrategy = "reload"
	// RefreshAppend appends the new record locally, avoiding a round trip.
	RefreshAppend RefreshStrategy = "append"
)

// MatchMode selects the duplicate-name check used by Insert.
type MatchMode string

const (
	// MatchContains rejects a name that some existing name contains,
	// case-insensitively.  An existing "The Matrix" blocks "matrix", while
	// an existing "Up" does not block "Superman".
	MatchContains MatchMode = "contains"
	// MatchEither also rejects a name that contains an existing name, so
	// "Matrix" blocks "The Matrix 2".
	MatchEither MatchMode = "either"
	// MatchExact rejects only case-insensitive equal names.
	MatchExact MatchMode = "exact"
)

// ParseCachePolicy converts a configuration value into a CachePolicy.
func ParseCachePolicy(s string) (CachePolicy, error) {
	switch p := CachePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyRecompute, PolicySession:
		return p, nil
	case "":
		return PolicySession, nil
	}
	return "", fmt.Errorf("%w: cache policy %q", ErrUnknownOption, s)
}

// ParseRefreshStrategy converts a configuration value into a RefreshStrategy.
func ParseRefreshStrategy(s string) (RefreshStrategy, error) {
	switch r := RefreshStrategy(strings.ToLower(strings.TrimSpace(s))); r {
	case RefreshReload, RefreshAppend:
		return r, nil
	case "":
		return RefreshReload, nil
	}
	return "", fmt.Errorf("%w: refresh strategy %q", ErrUnknownOption, s)
}

// ParseMatchMode converts a configuration value into a MatchMode.
func ParseMatchMode(s string) (MatchMode, error) {
	switch m := MatchMode(strings.ToLower(strings.TrimSpace(s))); m {
	case MatchContains, MatchEither, MatchExact:
		return m, nil
	case "":
		return MatchContains, nil
	}
	return "", fmt.Errorf("%w: duplicate match %q", ErrUnknownOption, s)
}
