// Package fileio holds the collaborators shared by the built-in formats: the
// filesystem every Read and Write goes through, the logger, and transparent
// stream compression for the text formats.
package fileio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/vegasq/pandata/format"
)

// CompressionKey is the Args key selecting stream compression.
const CompressionKey = "compression"

// Compression is a stream compression codec for text formats.
type Compression string

const (
	None Compression = "none"
	GZIP Compression = "gzip"
	ZSTD Compression = "zstd"
)

// ParseCompression reads the compression key from args. A missing key means
// None; an unknown codec is an *format.InvalidArgumentError.
func ParseCompression(args format.Args) (Compression, error) {
	s, ok := args.String(CompressionKey)
	if !ok {
		return None, nil
	}
	switch c := Compression(s); c {
	case None, GZIP, ZSTD:
		return c, nil
	case "":
		return None, nil
	default:
		return "", &format.InvalidArgumentError{Key: CompressionKey, Value: s, Err: errors.New("expected one of none, gzip, zstd")}
	}
}

// Env is the filesystem and logger a format works with. The zero value is not
// usable; call New.
type Env struct {
	Fs     afero.Fs
	Logger *zap.Logger
}

// Option configures an Env.
type Option func(*Env)

// WithFs sets the filesystem. Defaults to the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(e *Env) { e.Fs = fs }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Env) { e.Logger = l }
}

// New builds an Env from options.
func New(opts ...Option) Env {
	e := Env{Fs: afero.NewOsFs(), Logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&e)
	}
	if e.Fs == nil {
		e.Fs = afero.NewOsFs()
	}
	if e.Logger == nil {
		e.Logger = zap.NewNop()
	}
	return e
}

// OpenFile opens path for random access and returns its size.
func (e Env) OpenFile(path string) (afero.File, int64, error) {
	f, err := e.Fs.Open(path)
	if err != nil {
		return nil, 0, format.NewIOError("open", path, err)
	}

	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, format.NewIOError("stat", path, err)
	}
	if stat.IsDir() {
		_ = f.Close()
		return nil, 0, format.NewIOError("open", path, errors.New("is a directory"))
	}

	return f, stat.Size(), nil
}

// Open opens path for sequential reading, decompressing with c.
func (e Env) Open(path string, c Compression) (io.ReadCloser, error) {
	f, _, err := e.OpenFile(path)
	if err != nil {
		return nil, err
	}

	switch c {
	case GZIP:
		zr, err := gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, &format.MalformedInputError{Path: path, Err: fmt.Errorf("gzip: %w", err)}
		}
		return &stackedReader{Reader: zr, closers: []io.Closer{zr, f}}, nil
	case ZSTD:
		zr, err := zstd.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, &format.MalformedInputError{Path: path, Err: fmt.Errorf("zstd: %w", err)}
		}
		rc := zr.IOReadCloser()
		return &stackedReader{Reader: rc, closers: []io.Closer{rc, f}}, nil
	default:
		return f, nil
	}
}

// Create creates or truncates path for writing, compressing with c. Closing
// the returned writer flushes the compressor before closing the file.
func (e Env) Create(path string, c Compression) (io.WriteCloser, error) {
	f, err := e.Fs.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, format.NewIOError("create", path, err)
	}

	switch c {
	case GZIP:
		zw := gzip.NewWriter(f)
		return &stackedWriter{Writer: zw, closers: []io.Closer{zw, f}}, nil
	case ZSTD:
		zw, err := zstd.NewWriter(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return &stackedWriter{Writer: zw, closers: []io.Closer{zw, f}}, nil
	default:
		return f, nil
	}
}

// CloseInto closes c and appends its error to *err. Intended for deferred
// calls on write paths, where a failed close means lost data.
func CloseInto(err *error, c io.Closer, path string) {
	if cerr := c.Close(); cerr != nil {
		*err = multierr.Append(*err, format.NewIOError("close", path, cerr))
	}
}

type stackedReader struct {
	io.Reader
	closers []io.Closer
}

func (r *stackedReader) Close() error {
	var err error
	for _, c := range r.closers {
		err = multierr.Append(err, c.Close())
	}
	return err
}

type stackedWriter struct {
	io.Writer
	closers []io.Closer
}

func (w *stackedWriter) Close() error {
	var err error
	for _, c := range w.closers {
		err = multierr.Append(err, c.Close())
	}
	return err
}
