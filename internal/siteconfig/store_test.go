package siteconfig

import (
	"testing"

	siteerrors "github.com/siteship/siteship-cli/internal/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_MissingFile(t *testing.T) {
	s, err := Open(afero.NewMemMapFs(), ".siteship")
	require.NoError(t, err)

	assert.Empty(t, s.Load())
	_, ok := s.First()
	assert.False(t, ok)
}

func TestOpen_EmptyFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, ".siteship", nil, 0o644))

	s, err := Open(fs, ".siteship")
	require.NoError(t, err)
	assert.Empty(t, s.Load())
}

func TestUpsert_RoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, err := Open(fs, ".siteship")
	require.NoError(t, err)

	site := Site{ID: "abc123", Path: "./dist", Domain: "abc123.siteship.sh"}
	require.NoError(t, s.Upsert(site))

	data, err := afero.ReadFile(fs, ".siteship")
	require.NoError(t, err)
	assert.Contains(t, string(data), "[abc123]")
	assert.Contains(t, string(data), "path = ./dist")
	assert.Contains(t, string(data), "domain = abc123.siteship.sh")

	reopened, err := Open(fs, ".siteship")
	require.NoError(t, err)
	first, ok := reopened.First()
	require.True(t, ok)
	assert.Equal(t, site, first)
}

func TestUpsert_UpdatesInPlaceAndKeepsOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := "[first]\npath = ./public\ndomain = first.siteship.sh\n\n[second]\npath = ./out\n"
	require.NoError(t, afero.WriteFile(fs, ".siteship", []byte(content), 0o644))

	s, err := Open(fs, ".siteship")
	require.NoError(t, err)

	site, ok := s.First()
	require.True(t, ok)
	assert.Equal(t, "first", site.ID)

	site.Merge("", "www.example.com")
	require.NoError(t, s.Upsert(site))

	reopened, err := Open(fs, ".siteship")
	require.NoError(t, err)
	sites := reopened.Load()
	require.Len(t, sites, 2)
	assert.Equal(t, Site{ID: "first", Path: "./public", Domain: "www.example.com"}, sites[0])
	assert.Equal(t, Site{ID: "second", Path: "./out"}, sites[1])
}

func TestGet(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := "[first]\npath = ./a\n\n[second]\npath = ./b\ndomain = b.example.com\n"
	require.NoError(t, afero.WriteFile(fs, ".siteship", []byte(content), 0o644))

	s, err := Open(fs, ".siteship")
	require.NoError(t, err)

	site, ok := s.Get("second")
	require.True(t, ok)
	assert.Equal(t, Site{ID: "second", Path: "./b", Domain: "b.example.com"}, site)

	_, ok = s.Get("missing")
	assert.False(t, ok)
	_, ok = s.Get("")
	assert.False(t, ok)
	assert.Len(t, s.Load(), 2)
}

func TestUpsert_RequiresID(t *testing.T) {
	s, err := Open(afero.NewMemMapFs(), ".siteship")
	require.NoError(t, err)

	err = s.Upsert(Site{Path: "./dist"})
	require.Error(t, err)
	assert.Equal(t, siteerrors.ErrTypeConfig, siteerrors.GetType(err))
}

func TestUpsert_WriteFailure(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	s, err := Open(fs, ".siteship")
	require.NoError(t, err)

	err = s.Upsert(Site{ID: "abc", Path: "./dist"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write .siteship")
}

func TestOpen_ParseError(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, ".siteship", []byte("[unterminated\npath = x\n"), 0o644))

	_, err := Open(fs, ".siteship")
	require.Error(t, err)
}

func TestSite_Merge(t *testing.T) {
	site := Site{ID: "abc", Path: "./dist", Domain: "abc.siteship.sh"}

	assert.False(t, site.Merge("", ""))
	assert.False(t, site.Merge("./dist", ""))
	assert.True(t, site.Merge("./public", ""))
	assert.Equal(t, "./public", site.Path)
	assert.Equal(t, "abc.siteship.sh", site.Domain)

	assert.True(t, site.Merge("", "example.com"))
	assert.Equal(t, "example.com", site.Domain)
	assert.True(t, site.Exists())
	assert.False(t, Site{}.Exists())
}
