// Package credentials keeps API tokens in a netrc file, one machine entry
// per API host. The token lives in the netrc "password" field.
package credentials

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/jdx/go-netrc"
	siteerrors "github.com/siteship/siteship-cli/internal/errors"
)

// Credential is a (login, token) pair scoped to a host.
type Credential struct {
	Host  string
	Login string
	Token string
}

// Store wraps a parsed netrc file.
type Store struct {
	path string
	n    *netrc.Netrc
}

// Open parses the netrc file at path. A missing file yields an empty store.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return &Store{path: path, n: &netrc.Netrc{Path: path}}, nil
		}
		return nil, siteerrors.Wrap(siteerrors.ErrTypeConfig, "failed to stat credential file", err)
	}

	n, err := netrc.Parse(path)
	if err != nil {
		return nil, siteerrors.Wrap(siteerrors.ErrTypeConfig, fmt.Sprintf("failed to parse %s", path), err)
	}
	return &Store{path: path, n: n}, nil
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Get returns the credential stored for host.
func (s *Store) Get(host string) (Credential, bool) {
	m := s.n.Machine(host)
	if m == nil {
		return Credential{}, false
	}
	token := m.Get("password")
	if token == "" {
		return Credential{}, false
	}
	return Credential{Host: host, Login: m.Get("login"), Token: token}, true
}

// Set adds or replaces the credential for host. Call Save to persist.
func (s *Store) Set(host, login, token string) error {
	if m := s.n.Machine(host); m != nil {
		m.Set("login", login)
		m.Set("password", token)
		return s.reload(s.n.Render())
	}

	body := s.n.Render()
	if body != "" && !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	body += fmt.Sprintf("machine %s\n  login %s\n  password %s\n", host, login, token)
	return s.reload(body)
}

// reload re-parses body. Machines added or extended in memory only line up
// with Machine.Get once they have gone through the lexer.
func (s *Store) reload(body string) error {
	n, err := netrc.ParseString(body)
	if err != nil {
		return siteerrors.Wrap(siteerrors.ErrTypeConfig, "failed to update credentials", err)
	}
	n.Path = s.path
	s.n = n
	return nil
}

// Delete removes the credential for host. Call Save to persist.
func (s *Store) Delete(host string) error {
	if s.n.Machine(host) == nil {
		return siteerrors.Wrap(siteerrors.ErrTypeConfig, "not found", fmt.Errorf("no credential for %s", host))
	}
	s.n.RemoveMachine(host)
	return nil
}

// Save writes the whole file back with 0600 permissions.
func (s *Store) Save() error {
	if err := s.n.Save(); err != nil {
		return siteerrors.Wrap(siteerrors.ErrTypeConfig, fmt.Sprintf("failed to write %s", s.path), err)
	}
	if err := os.Chmod(s.path, 0o600); err != nil {
		return siteerrors.Wrap(siteerrors.ErrTypeConfig, fmt.Sprintf("failed to restrict permissions on %s", s.path), err)
	}
	return nil
}

// HostFromURL extracts the lookup key (hostname without port) from the API
// base URL.
func HostFromURL(apiURL string) (string, error) {
	u, err := url.Parse(apiURL)
	if err != nil {
		return "", siteerrors.Wrap(siteerrors.ErrTypeConfig, "invalid API URL", err)
	}
	if u.Hostname() == "" {
		return "", siteerrors.New(siteerrors.ErrTypeConfig, fmt.Sprintf("API URL %q has no host", apiURL))
	}
	return u.Hostname(), nil
}
