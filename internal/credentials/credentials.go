// Package credentials loads the service-account credential used to reach
// the films database.  The credential is either a local file (the
// certificate-style JSON a developer downloads) or the same JSON handed
// over by a secret manager through an environment variable.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
)

// ErrNoSource is returned when neither an inline secret nor a file path is
// configured.
var ErrNoSource = errors.New("no credential source configured")

// Source names where a credential came from.
type Source string

const (
	SourceFile   Source = "file"
	SourceSecret Source = "secret"
)

// ServiceAccount describes how to authenticate against the films database.
// URI, when present, takes precedence over the discrete host fields.
type ServiceAccount struct {
	Type       string `json:"type"`
	ProjectID  string `json:"project_id"`
	URI        string `json:"uri"`
	Host       string `json:"host"`
	Port       string `json:"port"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	Database   string `json:"database"`
	AuthSource string `json:"auth_source"`
	TLSCAFile  string `json:"tls_ca_file"`

	Source Source `json:"-"`
}

// Load picks the credential source: secretJSON wins over path.
func Load(secretJSON, path string) (ServiceAccount, error) {
	if strings.TrimSpace(secretJSON) != "" {
		sa, err := Parse([]byte(secretJSON))
		if err != nil {
			return ServiceAccount{}, fmt.Errorf("secret credential: %w", err)
		}
		sa.Source = SourceSecret
		return sa, nil
	}
	if strings.TrimSpace(path) == "" {
		return ServiceAccount{}, ErrNoSource
	}
	bs, err := os.ReadFile(path)
	if err != nil {
		return ServiceAccount{}, fmt.Errorf("read credential file: %w", err)
	}
	sa, err := Parse(bs)
	if err != nil {
		return ServiceAccount{}, fmt.Errorf("credential file %s: %w", path, err)
	}
	sa.Source = SourceFile
	return sa, nil
}

// Parse decodes a credential document and checks that it names a server.
func Parse(bs []byte) (ServiceAccount, error) {
	var sa ServiceAccount
	if err := json.Unmarshal(bs, &sa); err != nil {
		return ServiceAccount{}, fmt.Errorf("decode: %w", err)
	}
	if sa.URI == "" && sa.Host == "" {
		return ServiceAccount{}, errors.New("credential needs uri or host")
	}
	return sa, nil
}

// MongoURI returns the connection string for the document store.
func (sa ServiceAccount) MongoURI() string {
	if sa.URI != "" {
		return sa.URI
	}
	port := sa.Port
	if port == "" {
		port = "27017"
	}
	return "mongodb://" + net.JoinHostPort(sa.Host, port)
}

// DatabaseName returns the database holding the films collection.  The
// project id doubles as the database name when none is given.
func (sa ServiceAccount) DatabaseName() string {
	if sa.Database != "" {
		return sa.Database
	}
	if sa.ProjectID != "" {
		return sa.ProjectID
	}
	return "films"
}
