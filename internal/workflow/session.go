package workflow

import (
	"github.com/siteship/siteship-cli/internal/credentials"
)

// Session is the authentication state of one invocation: the credential
// store and the API host credentials are looked up under. It is built once
// and passed to every operation.
type Session struct {
	store *credentials.Store
	host  string
}

// NewSession binds store to the host derived from apiURL.
func NewSession(store *credentials.Store, apiURL string) (*Session, error) {
	host, err := credentials.HostFromURL(apiURL)
	if err != nil {
		return nil, err
	}
	return &Session{store: store, host: host}, nil
}

// Host returns the credential lookup key.
func (s *Session) Host() string {
	return s.host
}

// Credential returns the stored credential for the API host.
func (s *Session) Credential() (credentials.Credential, bool) {
	return s.store.Get(s.host)
}

// Save stores login and token for the API host and persists the file.
func (s *Session) Save(login, token string) error {
	if err := s.store.Set(s.host, login, token); err != nil {
		return err
	}
	return s.store.Save()
}

// Clear removes the API host credential and persists the file.
func (s *Session) Clear() error {
	if err := s.store.Delete(s.host); err != nil {
		return err
	}
	return s.store.Save()
}
