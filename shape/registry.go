package shape

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// Media types of supported shape documents.
const (
	MimeJSONLD = "application/ld+json"
	MimeTurtle = "text/turtle"
)

// Loader reads one serialization of a shape document into a Graph.
type Loader interface {
	// Load parses content read from name.
	Load(name string, content []byte) (*Graph, error)

	// CanLoad returns true if this loader handles the given MIME type.
	CanLoad(mimeType string) bool

	// MimeType returns the primary MIME type for this loader.
	MimeType() string
}

// Registry manages shape loaders.
type Registry struct {
	mu      sync.RWMutex
	loaders map[string]Loader // keyed by primary MIME type
}

// DefaultRegistry holds the JSON-LD and Turtle loaders.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a registry with the default loaders.
func NewRegistry() *Registry {
	r := &Registry{
		loaders: make(map[string]Loader),
	}
	r.Register(NewJSONLDLoader())
	r.Register(NewTurtleLoader())
	return r
}

// Register adds a loader to the registry.
func (r *Registry) Register(l Loader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders[l.MimeType()] = l
}

// GetByMimeType returns a loader for the given MIME type.
func (r *Registry) GetByMimeType(mimeType string) Loader {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if l, ok := r.loaders[mimeType]; ok {
		return l
	}
	for _, l := range r.loaders {
		if l.CanLoad(mimeType) {
			return l
		}
	}
	return nil
}

// GetByExtension returns a loader for a file based on its extension.
func (r *Registry) GetByExtension(filename string) Loader {
	mimeType := MimeTypeFromExtension(filepath.Ext(filename))
	return r.GetByMimeType(mimeType)
}

// Supports reports whether filename has a loadable extension.
func (r *Registry) Supports(filename string) bool {
	return r.GetByExtension(filename) != nil
}

// LoadBytes parses content using the loader for name's extension and
// validates the shapes it declares. Invalid shapes fail with a
// SchemaViolation.
func (r *Registry) LoadBytes(name string, content []byte) (*Graph, error) {
	l := r.GetByExtension(name)
	if l == nil {
		return nil, NewLoadError(name, fmt.Errorf("no loader for file type: %s", filepath.Ext(name)))
	}
	g, err := l.Load(name, content)
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Load reads and parses a shape file.
func (r *Registry) Load(ctx context.Context, path string) (*Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, NewLoadError(path, err)
	}
	return r.LoadBytes(path, content)
}

// ListMimeTypes returns all registered MIME types, sorted.
func (r *Registry) ListMimeTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.loaders))
	for t := range r.loaders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// MimeTypeFromExtension returns the MIME type for a shape file extension.
func MimeTypeFromExtension(ext string) string {
	switch strings.ToLower(ext) {
	case ".jsonld", ".json":
		return MimeJSONLD
	case ".ttl":
		return MimeTurtle
	default:
		return "application/octet-stream"
	}
}

// Load reads a shape file with the default registry.
func Load(ctx context.Context, path string) (*Graph, error) {
	return DefaultRegistry.Load(ctx, path)
}

// LoadBytes parses shape content with the default registry.
func LoadBytes(name string, content []byte) (*Graph, error) {
	return DefaultRegistry.LoadBytes(name, content)
}

// Expand resolves doublestar patterns into a sorted, de-duplicated list of
// files. A pattern without glob meta characters is returned as given.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, pattern := range patterns {
		var matches []string
		if strings.ContainsAny(pattern, "*?[{") {
			var err error
			matches, err = doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("expand pattern %q: %w", pattern, err)
			}
		} else {
			matches = []string{pattern}
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// FileResult is the outcome of loading one file.
type FileResult struct {
	Path  string
	Graph *Graph
	Err   error
}

// LoadFiles expands patterns and loads each match in sorted order. Files
// without a registered loader are skipped. Per-file failures are reported in
// the results; only pattern errors and context cancellation are returned as
// err.
func (r *Registry) LoadFiles(ctx context.Context, patterns []string) ([]FileResult, error) {
	paths, err := Expand(patterns)
	if err != nil {
		return nil, err
	}
	results := make([]FileResult, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if !r.Supports(path) {
			continue
		}
		g, err := r.Load(ctx, path)
		results = append(results, FileResult{Path: path, Graph: g, Err: err})
	}
	return results, nil
}

// LoadFiles loads pattern matches with the default registry.
func LoadFiles(ctx context.Context, patterns []string) ([]FileResult, error) {
	return DefaultRegistry.LoadFiles(ctx, patterns)
}
