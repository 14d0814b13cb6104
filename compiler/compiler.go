package compiler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/c360studio/semcred/metric"
	"github.com/c360studio/semcred/naming"
	"github.com/c360studio/semcred/shape"
)

// Artifact kinds, also used as metric labels.
const (
	KindContext         = "context"
	KindJSONSchema      = "jsonschema"
	KindSDJWTSchema     = "sdjwt-schema"
	KindDocs            = "docs"
	KindTemplateEmpty   = "template-empty"
	KindTemplateExample = "template-example"
	KindRegistry        = "registry"
)

// RegistryFile is the semantic registry path relative to the output dir.
const RegistryFile = "sdjwt/semantic-registry.json"

// Config controls a compile run.
type Config struct {
	// OutputDir receives the artifact tree.
	OutputDir string

	// SchemaBase prefixes schema $id values.
	SchemaBase string

	// ContextBase prefixes the context URI used in templates.
	ContextBase string

	// Policy decides what happens to unresolved property references.
	Policy shape.UnresolvedPolicy

	// ProfileVersion, when set, must be satisfied by every profile's
	// owl:versionInfo.
	ProfileVersion *semver.Constraints

	// KeepGoing continues past files that fail hard.
	KeepGoing bool
}

// Failure records a file that did not compile.
type Failure struct {
	Path string
	Err  error
}

// Report summarizes a compile run.
type Report struct {
	Shapes     []string
	Artifacts  []string
	Unresolved []shape.UnresolvedReference
	Failures   []Failure
}

// Failed reports whether any file failed.
func (r *Report) Failed() bool {
	return len(r.Failures) > 0
}

// Summary is a one-line description of the run.
func (r *Report) Summary() string {
	return fmt.Sprintf("%d shapes compiled, %d artifacts written, %d unresolved references, %d failures",
		len(r.Shapes), len(r.Artifacts), len(r.Unresolved), len(r.Failures))
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metric.Metrics) Option {
	return func(c *Compiler) {
		c.metrics = m
	}
}

// WithClock sets the clock used for generated timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Compiler) {
		c.now = now
	}
}

// WithLoaders sets the shape loader registry.
func WithLoaders(r *shape.Registry) Option {
	return func(c *Compiler) {
		c.loaders = r
	}
}

// Compiler turns shape files into the artifact tree. It remembers the
// registry entries of each file so single files can be recompiled in watch
// mode without reloading the rest.
type Compiler struct {
	cfg     Config
	loaders *shape.Registry
	logger  *slog.Logger
	metrics *metric.Metrics
	now     func() time.Time

	mu    sync.Mutex
	files map[string][]RegistryEntry
}

// New creates a compiler.
func New(cfg Config, opts ...Option) *Compiler {
	if cfg.Policy == "" {
		cfg.Policy = shape.PolicySkip
	}
	c := &Compiler{
		cfg:     cfg,
		loaders: shape.DefaultRegistry,
		logger:  slog.Default(),
		now:     time.Now,
		files:   make(map[string][]RegistryEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Loaders returns the loader registry, used to filter watched files.
func (c *Compiler) Loaders() *shape.Registry {
	return c.loaders
}

// Compile loads every file matching patterns and writes its artifacts, then
// writes the aggregated semantic registry. Without KeepGoing the first hard
// failure aborts the run; the returned report covers the work done so far.
func (c *Compiler) Compile(ctx context.Context, patterns []string) (*Report, error) {
	start := time.Now()
	defer func() { c.metrics.ObserveCompile(time.Since(start)) }()

	results, err := c.loaders.LoadFiles(ctx, patterns)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.files = make(map[string][]RegistryEntry)
	report := &Report{}
	reg := NewRegistry()

	for _, res := range results {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		err := res.Err
		if err == nil {
			err = c.compileGraph(res.Path, res.Graph, reg, report)
		}
		if err != nil {
			c.fail(report, res.Path, err)
			if !c.cfg.KeepGoing {
				return report, err
			}
		}
	}

	if err := c.writeRegistry(reg, report); err != nil {
		return report, err
	}
	return report, nil
}

// Recompile reloads one file, rewrites its artifacts and rewrites the
// registry from the entries of all known files.
func (c *Compiler) Recompile(ctx context.Context, path string) (*Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	report := &Report{}
	reg, err := c.registryExcept(path)
	if err != nil {
		return report, err
	}
	delete(c.files, path)

	g, err := c.loaders.Load(ctx, path)
	if err == nil {
		err = c.compileGraph(path, g, reg, report)
	}
	if err != nil {
		c.fail(report, path, err)
		return report, err
	}
	return report, c.writeRegistry(reg, report)
}

// Forget drops a deleted file's claims and rewrites the registry. Artifacts
// already written for the file are left in place.
func (c *Compiler) Forget(path string) (*Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	report := &Report{}
	reg, err := c.registryExcept(path)
	if err != nil {
		return report, err
	}
	delete(c.files, path)
	return report, c.writeRegistry(reg, report)
}

func (c *Compiler) registryExcept(path string) (*Registry, error) {
	paths := make([]string, 0, len(c.files))
	for p := range c.files {
		if p != path {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	reg := NewRegistry()
	for _, p := range paths {
		if err := reg.Add(c.files[p]...); err != nil {
			return nil, fmt.Errorf("rebuild registry from %s: %w", p, err)
		}
	}
	return reg, nil
}

func (c *Compiler) fail(report *Report, path string, err error) {
	report.Failures = append(report.Failures, Failure{Path: path, Err: err})
	c.metrics.CompileFailed(failureKind(err))
	c.logger.Error("Compile failed", "file", path, "error", err)
}

func failureKind(err error) string {
	switch {
	case shape.IsParseError(err):
		return "parse"
	case shape.IsSchemaViolation(err):
		return "schema"
	case IsClaimCollision(err):
		return "collision"
	case shape.IsLoadError(err):
		return "load"
	default:
		return "other"
	}
}

// compileGraph emits every shape of one file. Claims are checked against a
// copy of reg first; the file's entries reach reg and c.files only once all
// of its shapes have compiled and been written.
func (c *Compiler) compileGraph(path string, g *shape.Graph, reg *Registry, report *Report) error {
	shapes, err := shape.ResolveAll(g, c.cfg.Policy)
	if err != nil {
		return err
	}
	if len(shapes) == 0 {
		c.logger.Warn("No node shapes found", "file", path)
	}

	type compiled struct {
		rs    *shape.ResolvedShape
		sdjwt *SDJWTSchema
	}
	staged := reg.Clone()
	var (
		out     []compiled
		entries []RegistryEntry
	)
	for _, rs := range shapes {
		if err := c.checkVersion(rs); err != nil {
			return err
		}
		sdjwt, shapeEntries, err := EmitSDJWTSchema(rs)
		if err != nil {
			return err
		}
		if err := staged.Add(shapeEntries...); err != nil {
			return err
		}
		entries = append(entries, shapeEntries...)
		out = append(out, compiled{rs: rs, sdjwt: sdjwt})
	}

	for _, sc := range out {
		if err := c.writeShape(sc.rs, sc.sdjwt, report); err != nil {
			return err
		}
	}

	if err := reg.Add(entries...); err != nil {
		return err
	}
	c.files[path] = entries
	for _, sc := range out {
		rs := sc.rs
		for _, u := range rs.Unresolved {
			c.logger.Warn("Unresolved property reference", "file", path, "shape", u.Shape, "ref", u.Ref)
		}
		c.metrics.UnresolvedReferences(len(rs.Unresolved))
		report.Unresolved = append(report.Unresolved, rs.Unresolved...)
		report.Shapes = append(report.Shapes, rs.Shape.Name)
		c.metrics.ShapeCompiled(rs.Shape.Name)
		c.logger.Info("Compiled shape",
			"file", path,
			"shape", rs.Shape.Name,
			"properties", len(rs.Properties),
			"unresolved", len(rs.Unresolved))
	}
	return nil
}

func (c *Compiler) checkVersion(rs *shape.ResolvedShape) error {
	if c.cfg.ProfileVersion == nil || rs.Profile.Version == nil {
		return nil
	}
	if !c.cfg.ProfileVersion.Check(rs.Profile.Version) {
		return &shape.SchemaViolation{
			Source:  rs.Source,
			Subject: rs.Profile.ID,
			Msg: fmt.Sprintf("profile version %s does not satisfy %s",
				rs.Profile.Version, c.cfg.ProfileVersion),
		}
	}
	return nil
}

func (c *Compiler) writeShape(rs *shape.ResolvedShape, sdjwt *SDJWTSchema, report *Report) error {
	stem := naming.FileStem(rs.Shape.Name)
	now := c.now()
	topts := TemplateOptions{ContextBase: c.cfg.ContextBase, Now: now}

	artifacts := []struct {
		kind string
		rel  string
		data any
	}{
		{KindContext, filepath.Join("contexts", stem+"-context.jsonld"), EmitContext(rs)},
		{KindJSONSchema, filepath.Join("credentials", stem+"-schema.json"), EmitJSONSchema(rs, SchemaOptions{SchemaBase: c.cfg.SchemaBase})},
		{KindSDJWTSchema, filepath.Join("sdjwt", stem+"-schema.json"), sdjwt},
		{KindDocs, filepath.Join("sdjwt", stem+"-docs.md"), RenderDocs(rs, now)},
		{KindTemplateEmpty, filepath.Join("templates", "empty", stem+"-template.jsonld"), RenderTemplate(rs, TemplateEmpty, topts)},
		{KindTemplateExample, filepath.Join("templates", "examples", stem+"-example.jsonld"), RenderTemplate(rs, TemplateExample, topts)},
	}

	for _, a := range artifacts {
		if err := c.write(a.kind, a.rel, a.data, report); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) writeRegistry(reg *Registry, report *Report) error {
	return c.write(KindRegistry, filepath.FromSlash(RegistryFile), reg.Document(), report)
}

func (c *Compiler) write(kind, rel string, data any, report *Report) error {
	var content []byte
	if s, ok := data.(string); ok {
		content = []byte(s)
	} else {
		var err error
		if content, err = MarshalJSON(data); err != nil {
			return fmt.Errorf("marshal %s: %w", rel, err)
		}
	}

	path := filepath.Join(c.cfg.OutputDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}

	report.Artifacts = append(report.Artifacts, path)
	c.metrics.ArtifactWritten(kind)
	c.logger.Debug("Wrote artifact", "kind", kind, "path", path)
	return nil
}

// MarshalJSON renders v as indented JSON without HTML escaping, so
// <<PLACEHOLDER>> values stay readable.
func MarshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseVersionConstraint parses an optional semver constraint. The empty
// string yields nil.
func ParseVersionConstraint(s string) (*semver.Constraints, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	c, err := semver.NewConstraint(s)
	if err != nil {
		return nil, fmt.Errorf("parse profile version constraint %q: %w", s, err)
	}
	return c, nil
}
