package credential

import (
	"sort"

	"github.com/c360studio/semcred/naming"
)

// JSONLDTrack is the JSON-LD half of a dual-track credential.
type JSONLDTrack struct {
	Format          string   `json:"format"`
	Specification   string   `json:"specification"`
	SemanticLinking string   `json:"semantic_linking"`
	Credential      Envelope `json:"credential"`
}

// SDJWTTrack is the SD-JWT half of a dual-track credential.
type SDJWTTrack struct {
	Format           string `json:"format"`
	Specification    string `json:"specification"`
	SemanticLinking  string `json:"semantic_linking"`
	SemanticRegistry string `json:"semantic_registry"`
	Credential       SDJWT  `json:"credential"`
}

// Formats holds both tracks.
type Formats struct {
	JSONLD JSONLDTrack `json:"json-ld"`
	SDJWT  SDJWTTrack  `json:"sd-jwt"`
}

// DualTrack carries one record issued in both encodings.
type DualTrack struct {
	Format              string  `json:"format"`
	Source              string  `json:"source"`
	CredentialType      string  `json:"credential_type"`
	Formats             Formats `json:"formats"`
	SemanticEquivalence bool    `json:"semantic_equivalence"`
	Note                string  `json:"note"`
}

// Correspondence maps each JSON-LD subject key to the SD-JWT claim carrying
// the same value. The subject id corresponds to sub.
func Correspondence(dt DualTrack) map[string]string {
	subject := dt.Formats.JSONLD.Credential.CredentialSubject
	claims := dt.Formats.SDJWT.Credential

	out := make(map[string]string, len(subject))
	for key := range subject {
		if key == "id" {
			out[key] = ClaimSubject
			continue
		}
		claim := naming.ToSnake(key)
		if _, ok := claims[claim]; ok {
			out[key] = claim
		}
	}
	return out
}

func sortedKeys(r Record) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
