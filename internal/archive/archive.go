// Package archive packs a site directory into a zip file inside a private
// temporary directory. The caller owns the result and must Close it.
package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	siteerrors "github.com/siteship/siteship-cli/internal/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// TempPrefix names the per-invocation temporary directories.
const TempPrefix = "siteship-"

// Archive is a zip file on disk together with the directory holding it.
type Archive struct {
	fs   afero.Fs
	Dir  string
	Path string
	Size int64
}

// Open opens the archive for reading.
func (a *Archive) Open() (io.ReadCloser, error) {
	f, err := a.fs.Open(a.Path)
	if err != nil {
		return nil, siteerrors.Wrap(siteerrors.ErrTypeArchive, "failed to open archive", err)
	}
	return f, nil
}

// Close removes the temporary directory. It is safe to call more than once.
// Only directories made by Create are removed.
func (a *Archive) Close() error {
	if a == nil || a.Dir == "" {
		return nil
	}
	if !IsTempDir(a.Dir) {
		return siteerrors.New(siteerrors.ErrTypeArchive, fmt.Sprintf("refusing to remove %s", a.Dir))
	}
	return a.fs.RemoveAll(a.Dir)
}

// Archiver builds archives on a filesystem.
type Archiver struct {
	fs     afero.Fs
	logger *zap.Logger
}

// New returns an Archiver working on fs.
func New(fs afero.Fs, logger *zap.Logger) *Archiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archiver{fs: fs, logger: logger}
}

// Create zips the contents of src. Entry names are relative to src and use
// forward slashes. Symlinks are skipped. On error nothing is left behind.
func (a *Archiver) Create(src string) (_ *Archive, err error) {
	info, err := a.fs.Stat(src)
	if err != nil {
		return nil, siteerrors.Wrap(siteerrors.ErrTypeArchive, fmt.Sprintf("cannot read %s", src), err)
	}
	if !info.IsDir() {
		return nil, siteerrors.New(siteerrors.ErrTypeArchive, fmt.Sprintf("%s is not a directory", src))
	}

	dir, err := afero.TempDir(a.fs, "", TempPrefix)
	if err != nil {
		return nil, siteerrors.Wrap(siteerrors.ErrTypeArchive, "failed to create temporary directory", err)
	}
	arc := &Archive{fs: a.fs, Dir: dir, Path: filepath.Join(dir, "archive.zip")}
	defer func() {
		if err != nil {
			_ = arc.Close()
		}
	}()

	out, err := a.fs.Create(arc.Path)
	if err != nil {
		return nil, siteerrors.Wrap(siteerrors.ErrTypeArchive, "failed to create archive file", err)
	}

	files, err := a.write(out, src)
	if cerr := out.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return nil, siteerrors.Wrap(siteerrors.ErrTypeArchive, fmt.Sprintf("failed to archive %s", src), err)
	}

	st, err := a.fs.Stat(arc.Path)
	if err != nil {
		return nil, siteerrors.Wrap(siteerrors.ErrTypeArchive, "failed to stat archive", err)
	}
	arc.Size = st.Size()

	a.logger.Debug("Archive created",
		zap.String("source", src),
		zap.String("path", arc.Path),
		zap.Int("files", files),
		zap.Int64("size", arc.Size))
	return arc, nil
}

func (a *Archiver) write(w io.Writer, src string) (int, error) {
	zw := zip.NewWriter(w)
	files := 0

	walkErr := afero.Walk(a.fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == src {
			return nil
		}
		if info.Mode()&os.ModeSymlink != 0 {
			a.logger.Debug("Skipping symlink", zap.String("path", path))
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		if info.IsDir() {
			header.Name = name + "/"
			_, err = zw.CreateHeader(header)
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		header.Name = name
		header.Method = zip.Deflate

		entry, err := zw.CreateHeader(header)
		if err != nil {
			return err
		}
		f, err := a.fs.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := io.Copy(entry, f); err != nil {
			return err
		}
		files++
		return nil
	})
	if walkErr != nil {
		_ = zw.Close()
		return files, walkErr
	}
	return files, zw.Close()
}

// IsTempDir reports whether name looks like a directory created by Create.
func IsTempDir(name string) bool {
	return strings.HasPrefix(filepath.Base(name), TempPrefix)
}
