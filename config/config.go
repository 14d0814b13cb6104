// Package config provides configuration loading and management for semcred.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/c360studio/semcred/compiler"
	"github.com/c360studio/semcred/credential"
	"github.com/c360studio/semcred/mapper"
	sapapi "github.com/c360studio/semcred/processor/sap-api"
	"github.com/c360studio/semcred/shape"
)

// Config represents the complete semcred configuration
type Config struct {
	Compile CompileConfig `yaml:"compile"`
	Issuer  IssuerConfig  `yaml:"issuer"`
	Mapping MappingConfig `yaml:"mapping"`
	Server  ServerConfig  `yaml:"server"`
	NATS    NATSConfig    `yaml:"nats"`
}

// CompileConfig configures shape compilation
type CompileConfig struct {
	// Inputs are the shape file globs compiled when none are given on the
	// command line
	Inputs []string `yaml:"inputs"`
	// OutputDir receives the artifact tree
	OutputDir string `yaml:"output_dir"`
	// SchemaBase prefixes schema $id values
	SchemaBase string `yaml:"schema_base"`
	// ContextBase prefixes context URIs in templates
	ContextBase string `yaml:"context_base"`
	// UnresolvedPolicy is skip or fail
	UnresolvedPolicy string `yaml:"unresolved_policy"`
	// ProfileVersion is a semver constraint on profile owl:versionInfo
	// (empty = any version)
	ProfileVersion string `yaml:"profile_version"`
	// KeepGoing continues past files that fail hard
	KeepGoing bool `yaml:"keep_going"`
	// Debounce is the watch mode quiet period
	Debounce time.Duration `yaml:"debounce"`
}

// IssuerConfig configures the dual-track issuer
type IssuerConfig struct {
	// DID is the issuer identifier
	DID string `yaml:"did"`
	// SchemaBase prefixes the _semantic_context claim
	SchemaBase string `yaml:"schema_base"`
	// Validity is how long issued credentials stay valid
	Validity time.Duration `yaml:"validity"`
}

// MappingConfig configures the SAP to credential mapper
type MappingConfig struct {
	BaseURL     string `yaml:"base_url"`
	ContextBase string `yaml:"context_base"`
	// LookupPolicy is null or strict
	LookupPolicy string `yaml:"lookup_policy"`
	// CertificateNumber is date or digest
	CertificateNumber string `yaml:"certificate_number"`
}

// ServerConfig configures the SAP simulator
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// DisableMetrics hides /metrics
	DisableMetrics bool `yaml:"disable_metrics"`
}

// NATSConfig configures credential storage
type NATSConfig struct {
	// URL is the NATS server URL (empty = storage disabled)
	URL string `yaml:"url"`
	// Timeout bounds connecting and each storage call
	Timeout time.Duration `yaml:"timeout"`
}

// Certificate numbering names.
const (
	CertificateByDate   = "date"
	CertificateByDigest = "digest"
)

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Compile: CompileConfig{
			Inputs:           []string{"shapes/**/*.ttl", "shapes/**/*.jsonld"},
			OutputDir:        "output",
			SchemaBase:       compiler.DefaultSchemaBase,
			ContextBase:      compiler.DefaultContextBase,
			UnresolvedPolicy: string(shape.PolicySkip),
			Debounce:         200 * time.Millisecond,
		},
		Issuer: IssuerConfig{
			DID:        "did:web:issuer.example.com",
			SchemaBase: compiler.DefaultSchemaBase,
			Validity:   credential.DefaultValidity,
		},
		Mapping: MappingConfig{
			BaseURL:           mapper.DefaultBaseURL,
			ContextBase:       compiler.DefaultContextBase,
			LookupPolicy:      string(mapper.LookupNull),
			CertificateNumber: CertificateByDate,
		},
		Server: ServerConfig{
			Addr: sapapi.DefaultAddr,
		},
		NATS: NATSConfig{
			URL:     "", // Storage disabled
			Timeout: 10 * time.Second,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Compile.OutputDir == "" {
		return fmt.Errorf("compile.output_dir is required")
	}
	if _, err := shape.ParsePolicy(c.Compile.UnresolvedPolicy); err != nil {
		return fmt.Errorf("compile.unresolved_policy: %w", err)
	}
	if c.Compile.ProfileVersion != "" {
		if _, err := semver.NewConstraint(c.Compile.ProfileVersion); err != nil {
			return fmt.Errorf("compile.profile_version: %w", err)
		}
	}
	if c.Compile.Debounce < 0 {
		return fmt.Errorf("compile.debounce must not be negative")
	}
	if !strings.HasPrefix(c.Issuer.DID, "did:") {
		return fmt.Errorf("issuer.did must be a DID, got %q", c.Issuer.DID)
	}
	if c.Issuer.Validity <= 0 {
		return fmt.Errorf("issuer.validity must be positive")
	}
	if _, err := mapper.ParseLookupPolicy(c.Mapping.LookupPolicy); err != nil {
		return fmt.Errorf("mapping.lookup_policy: %w", err)
	}
	if _, err := c.Mapping.Numbering(); err != nil {
		return fmt.Errorf("mapping.certificate_number: %w", err)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Compile
	if len(other.Compile.Inputs) > 0 {
		c.Compile.Inputs = other.Compile.Inputs
	}
	mergeString(&c.Compile.OutputDir, other.Compile.OutputDir)
	mergeString(&c.Compile.SchemaBase, other.Compile.SchemaBase)
	mergeString(&c.Compile.ContextBase, other.Compile.ContextBase)
	mergeString(&c.Compile.UnresolvedPolicy, other.Compile.UnresolvedPolicy)
	mergeString(&c.Compile.ProfileVersion, other.Compile.ProfileVersion)
	if other.Compile.KeepGoing {
		c.Compile.KeepGoing = true
	}
	if other.Compile.Debounce != 0 {
		c.Compile.Debounce = other.Compile.Debounce
	}

	// Issuer
	mergeString(&c.Issuer.DID, other.Issuer.DID)
	mergeString(&c.Issuer.SchemaBase, other.Issuer.SchemaBase)
	if other.Issuer.Validity != 0 {
		c.Issuer.Validity = other.Issuer.Validity
	}

	// Mapping
	mergeString(&c.Mapping.BaseURL, other.Mapping.BaseURL)
	mergeString(&c.Mapping.ContextBase, other.Mapping.ContextBase)
	mergeString(&c.Mapping.LookupPolicy, other.Mapping.LookupPolicy)
	mergeString(&c.Mapping.CertificateNumber, other.Mapping.CertificateNumber)

	// Server
	mergeString(&c.Server.Addr, other.Server.Addr)
	if other.Server.DisableMetrics {
		c.Server.DisableMetrics = true
	}

	// NATS
	mergeString(&c.NATS.URL, other.NATS.URL)
	if other.NATS.Timeout != 0 {
		c.NATS.Timeout = other.NATS.Timeout
	}
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// CompilerConfig converts the compile section for compiler.New.
func (c CompileConfig) CompilerConfig() (compiler.Config, error) {
	policy, err := shape.ParsePolicy(c.UnresolvedPolicy)
	if err != nil {
		return compiler.Config{}, err
	}
	cfg := compiler.Config{
		OutputDir:   c.OutputDir,
		SchemaBase:  c.SchemaBase,
		ContextBase: c.ContextBase,
		Policy:      policy,
		KeepGoing:   c.KeepGoing,
	}
	if c.ProfileVersion != "" {
		cfg.ProfileVersion, err = compiler.ParseVersionConstraint(c.ProfileVersion)
		if err != nil {
			return compiler.Config{}, err
		}
	}
	return cfg, nil
}

// Numbering returns the certificate of origin numbering mode.
func (m MappingConfig) Numbering() (mapper.CertificateNumbering, error) {
	switch m.CertificateNumber {
	case "", CertificateByDate:
		return mapper.CertificateByDate, nil
	case CertificateByDigest:
		return mapper.CertificateByDigest, nil
	}
	return 0, fmt.Errorf("unknown certificate numbering %q (want date or digest)", m.CertificateNumber)
}

// Options converts the mapping section into mapper options.
func (m MappingConfig) Options() ([]mapper.Option, error) {
	policy, err := mapper.ParseLookupPolicy(m.LookupPolicy)
	if err != nil {
		return nil, err
	}
	numbering, err := m.Numbering()
	if err != nil {
		return nil, err
	}
	opts := []mapper.Option{
		mapper.WithLookupPolicy(policy),
		mapper.WithCertificateNumber(numbering),
	}
	if m.BaseURL != "" {
		opts = append(opts, mapper.WithBaseURL(m.BaseURL))
	}
	if m.ContextBase != "" {
		opts = append(opts, mapper.WithContextBase(m.ContextBase))
	}
	return opts, nil
}

// Options converts the issuer section into issuer options.
func (i IssuerConfig) Options() []credential.Option {
	var opts []credential.Option
	if i.Validity > 0 {
		opts = append(opts, credential.WithValidity(i.Validity))
	}
	return opts
}

// SAPAPI converts the server section into the simulator component config.
func (s ServerConfig) SAPAPI() sapapi.Config {
	cfg := sapapi.DefaultConfig()
	if s.Addr != "" {
		cfg.Addr = s.Addr
	}
	cfg.Metrics = !s.DisableMetrics
	return cfg
}
