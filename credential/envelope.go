// Package credential holds the Verifiable Credential value types and the
// dual-track issuer that renders one subject record as both a JSON-LD
// credential and a flat SD-JWT claim set.
package credential

import (
	"encoding/json"
	"time"
)

// TimeFormat is the UTC timestamp layout used in credentials.
const TimeFormat = "2006-01-02T15:04:05Z"

// FormatTime renders t in UTC with a Z suffix.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// Record is a credential subject. Keys marshal in lexical order.
type Record map[string]any

// Clone returns a deep copy of r. Nested maps and slices are copied; other
// values are shared.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Record:
		return t.Clone()
	case map[string]any:
		return map[string]any(Record(t).Clone())
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	case []Record:
		out := make([]Record, len(t))
		for i, item := range t {
			out[i] = item.Clone()
		}
		return out
	case []string:
		return append([]string(nil), t...)
	}
	return v
}

// IssuerRef identifies the credential issuer.
type IssuerRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Type string `json:"type,omitempty"`
}

// Proof is a Data Integrity proof block. semcred never signs: ProofValue is
// a placeholder.
type Proof struct {
	Type               string `json:"type"`
	Cryptosuite        string `json:"cryptosuite,omitempty"`
	Created            string `json:"created"`
	VerificationMethod string `json:"verificationMethod"`
	ProofPurpose       string `json:"proofPurpose"`
	ProofValue         string `json:"proofValue"`
}

// Envelope is a W3C Verifiable Credential. Values are built fresh per call
// and not shared between envelopes.
type Envelope struct {
	Context           []string  `json:"@context"`
	ID                string    `json:"id"`
	Type              []string  `json:"type"`
	Issuer            IssuerRef `json:"issuer"`
	IssuanceDate      string    `json:"issuanceDate"`
	ExpirationDate    string    `json:"expirationDate,omitempty"`
	CredentialSubject Record    `json:"credentialSubject"`
	Proof             *Proof    `json:"proof,omitempty"`
}

// CredentialType returns the most specific type, the last entry of Type.
func (e Envelope) CredentialType() string {
	if len(e.Type) == 0 {
		return ""
	}
	return e.Type[len(e.Type)-1]
}

// Document converts the envelope into a generic JSON value, as needed for
// schema validation and storage.
func (e Envelope) Document() (map[string]any, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
