package compiler

import (
	"sort"
	"sync"
)

// RegistrySchema is the $schema of the semantic registry document.
const RegistrySchema = DefaultSchemaBase + "/schemas/semantic-registry-v1.json"

const registryDescription = "Semantic registry mapping SD-JWT claims to SHACL, OWL and SKOS. " +
	"SD-JWT carries no @context, so this registry keeps each claim traceable " +
	"back through every semantic layer. Resolve claim meaning through it when processing SD-JWT credentials."

// Layers names the five semantic layers a claim is traced through.
var Layers = map[string]string{
	"layer_1": "SKOS (conceptual vocabulary)",
	"layer_2": "OWL (data model)",
	"layer_3": "SHACL (validation constraints)",
	"layer_4": "JSON-LD (@context, absent in SD-JWT)",
	"layer_5": "SD-JWT (IETF, plain JSON)",
}

// RegistryDocument is the serialized semantic registry.
type RegistryDocument struct {
	Schema      string                   `json:"$schema"`
	Description string                   `json:"description"`
	Version     string                   `json:"version"`
	Layers      map[string]string        `json:"layers"`
	Mappings    map[string]RegistryEntry `json:"mappings"`
}

// Registry aggregates claim entries across shapes. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]RegistryEntry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]RegistryEntry)}
}

// Add registers entries atomically: either all are added or, on a
// collision, none are. A claim already held by the same OWL property is left
// as first registered.
func (r *Registry) Add(entries ...RegistryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pending := make(map[string]RegistryEntry, len(entries))
	for _, e := range entries {
		if existing, ok := r.entries[e.SDJWTClaim]; ok && existing.OWLProperty != e.OWLProperty {
			return &ClaimCollisionError{Claim: e.SDJWTClaim, Shape: e.SHACLShape, First: existing.OWLProperty, Second: e.OWLProperty}
		}
		if existing, ok := pending[e.SDJWTClaim]; ok && existing.OWLProperty != e.OWLProperty {
			return &ClaimCollisionError{Claim: e.SDJWTClaim, Shape: e.SHACLShape, First: existing.OWLProperty, Second: e.OWLProperty}
		}
		if _, ok := pending[e.SDJWTClaim]; !ok {
			pending[e.SDJWTClaim] = e
		}
	}
	for claim, e := range pending {
		if _, ok := r.entries[claim]; !ok {
			r.entries[claim] = e
		}
	}
	return nil
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := &Registry{entries: make(map[string]RegistryEntry, len(r.entries))}
	for k, v := range r.entries {
		out.entries[k] = v
	}
	return out
}

// Get returns the entry for a claim.
func (r *Registry) Get(claim string) (RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[claim]
	return e, ok
}

// Len returns the number of claims.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Entries returns all entries sorted by claim.
func (r *Registry) Entries() []RegistryEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]RegistryEntry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SDJWTClaim < out[j].SDJWTClaim })
	return out
}

// Document returns the serializable registry. Mappings marshal in claim
// order.
func (r *Registry) Document() RegistryDocument {
	mappings := make(map[string]RegistryEntry)
	for _, e := range r.Entries() {
		mappings[e.SDJWTClaim] = e
	}
	layers := make(map[string]string, len(Layers))
	for k, v := range Layers {
		layers[k] = v
	}
	return RegistryDocument{
		Schema:      RegistrySchema,
		Description: registryDescription,
		Version:     "1.0.0",
		Layers:      layers,
		Mappings:    mappings,
	}
}
