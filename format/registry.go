package format

import (
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vegasq/pandata/frame"
)

// Registry maps canonical format names to Format implementations.
type Registry struct {
	mu      sync.RWMutex
	formats map[string]Format
	logger  *zap.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used for conversion debug events.
func WithLogger(l *zap.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{formats: make(map[string]Format), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add registers f under its canonical name, replacing any format already
// registered under that name.
func (r *Registry) Add(f Format) {
	if f == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formats[f.Name()] = f
}

// Lookup returns the format registered under name. The comparison ignores
// ASCII case, so "CSV" finds "csv".
func (r *Registry) Lookup(name string) (Format, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if f, ok := r.formats[name]; ok {
		return f, true
	}
	f, ok := r.formats[strings.ToLower(name)]
	return f, ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.formats))
}

// Formats returns the registered formats ordered by name.
func (r *Registry) Formats() []Format {
	names := r.Names()
	out := make([]Format, 0, len(names))
	for _, name := range names {
		if f, ok := r.Lookup(name); ok {
			out = append(out, f)
		}
	}
	return out
}

// Endpoint is one side of a conversion.
type Endpoint struct {
	Path   string
	Format string
	Args   Args
}

// Transform rewrites the frame between the read and the write step.
type Transform func(*frame.Frame) *frame.Frame

// Convert reads fromPath as fromFormat and writes it to toPath as toFormat,
// passing each side a fresh empty Args bag.
//
// Both names are resolved before any file is opened; an unknown name fails
// with *UnknownFormatError. Errors from Read and Write are returned unchanged.
func (r *Registry) Convert(fromPath, toPath, fromFormat, toFormat string) error {
	return r.ConvertWith(
		Endpoint{Path: fromPath, Format: fromFormat, Args: NewArgs()},
		Endpoint{Path: toPath, Format: toFormat, Args: NewArgs()},
	)
}

// ConvertWith is Convert with caller supplied Args for each side and optional
// transforms applied to the lazy frame before it is written.
func (r *Registry) ConvertWith(src, dst Endpoint, transforms ...Transform) error {
	reader, ok := r.Lookup(src.Format)
	if !ok {
		return &UnknownFormatError{Side: Source, Name: src.Format}
	}
	writer, ok := r.Lookup(dst.Format)
	if !ok {
		return &UnknownFormatError{Side: Destination, Name: dst.Format}
	}

	log := r.logger.With(zap.String("from", reader.Name()), zap.String("to", writer.Name()))

	start := time.Now()
	log.Debug("reading source", zap.String("path", src.Path), zap.Strings("args", src.Args.Keys()))
	data, err := reader.Read(src.Path, src.Args)
	if err != nil {
		return err
	}

	for _, t := range transforms {
		data = t(data)
	}

	log.Debug("writing destination",
		zap.String("path", dst.Path),
		zap.Strings("args", dst.Args.Keys()),
		zap.String("plan", data.Plan()),
	)
	if err := writer.Write(dst.Path, dst.Args, data); err != nil {
		return err
	}

	log.Debug("conversion finished", zap.Duration("took", time.Since(start)))
	return nil
}
