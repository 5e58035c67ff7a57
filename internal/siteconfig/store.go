// Package siteconfig reads and writes the per-project site file: an INI
// document with one section per site id and "path" and "domain" keys.
package siteconfig

import (
	"bytes"
	"fmt"
	"os"

	siteerrors "github.com/siteship/siteship-cli/internal/errors"
	"github.com/spf13/afero"
	"gopkg.in/ini.v1"
)

const (
	keyPath   = "path"
	keyDomain = "domain"
)

func init() {
	// "key = value" without column alignment.
	ini.PrettyFormat = false
	ini.PrettyEqual = true
}

// Store holds the parsed site file. Writes rewrite the whole file; they are
// not atomic.
type Store struct {
	fs   afero.Fs
	path string
	file *ini.File
}

// Open parses path on fs. A missing file yields an empty store.
func Open(fs afero.Fs, path string) (*Store, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Store{fs: fs, path: path, file: ini.Empty()}, nil
		}
		return nil, siteerrors.Wrap(siteerrors.ErrTypeConfig, fmt.Sprintf("failed to read %s", path), err)
	}

	file, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, data)
	if err != nil {
		return nil, siteerrors.Wrap(siteerrors.ErrTypeConfig, fmt.Sprintf("failed to parse %s", path), err)
	}
	return &Store{fs: fs, path: path, file: file}, nil
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load returns every site in file order.
func (s *Store) Load() []Site {
	var sites []Site
	for _, sec := range s.file.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		sites = append(sites, Site{
			ID:     sec.Name(),
			Path:   sec.Key(keyPath).String(),
			Domain: sec.Key(keyDomain).String(),
		})
	}
	return sites
}

// First returns the first site. Only one site per project is acted on.
func (s *Store) First() (Site, bool) {
	sites := s.Load()
	if len(sites) == 0 {
		return Site{}, false
	}
	return sites[0], true
}

// Get returns the site recorded under id.
func (s *Store) Get(id string) (Site, bool) {
	if id == "" || id == ini.DefaultSection || !s.file.HasSection(id) {
		return Site{}, false
	}
	sec := s.file.Section(id)
	return Site{ID: id, Path: sec.Key(keyPath).String(), Domain: sec.Key(keyDomain).String()}, true
}

// Upsert writes site into its section and persists the whole file.
func (s *Store) Upsert(site Site) error {
	if !site.Exists() {
		return siteerrors.New(siteerrors.ErrTypeConfig, "cannot store a site without an id")
	}

	sec := s.file.Section(site.ID)
	setOrDelete(sec, keyPath, site.Path)
	setOrDelete(sec, keyDomain, site.Domain)

	return s.persist()
}

func setOrDelete(sec *ini.Section, key, value string) {
	if value == "" {
		sec.DeleteKey(key)
		return
	}
	sec.Key(key).SetValue(value)
}

func (s *Store) persist() error {
	var buf bytes.Buffer
	if _, err := s.file.WriteTo(&buf); err != nil {
		return siteerrors.Wrap(siteerrors.ErrTypeConfig, "failed to render site file", err)
	}
	if err := afero.WriteFile(s.fs, s.path, buf.Bytes(), 0o644); err != nil {
		return siteerrors.Wrap(siteerrors.ErrTypeConfig, fmt.Sprintf("failed to write %s", s.path), err)
	}
	return nil
}
