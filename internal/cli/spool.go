package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/vegasq/pandata/format"
)

// Formats such as parquet need random access, so stdin and stdout go through
// a temporary file.

func (a *app) spoolPath() string {
	return filepath.Join(os.TempDir(), "pandata-"+uuid.NewString())
}

// spoolIn copies stdin into a temporary file and returns its path.
func (a *app) spoolIn() (string, error) {
	path := a.spoolPath()
	if err := afero.WriteReader(a.fs, path, a.streams.In); err != nil {
		_ = a.fs.Remove(path)
		return "", format.NewIOError("read", "stdin", err)
	}
	return path, nil
}

// spoolOut copies a finished temporary file to stdout.
func (a *app) spoolOut(path string) error {
	f, err := a.fs.Open(path)
	if err != nil {
		return format.NewIOError("open", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(a.streams.Out, f); err != nil {
		return format.NewIOError("write", "stdout", err)
	}
	return nil
}

func (a *app) remove(path string, logger *zap.Logger) {
	if err := a.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warn("failed to remove temporary file", zap.String("path", path), zap.Error(err))
	}
}
