package credential

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/c360studio/semcred/compiler"
	"github.com/c360studio/semcred/metric"
	"github.com/c360studio/semcred/naming"
	"github.com/c360studio/semcred/vocabulary/shacl"
)

// Track names, also used as metric labels and storage key formats.
const (
	FormatJSONLD = "jsonld"
	FormatSDJWT  = "sdjwt"
)

// DefaultValidity is the lifetime of issued credentials.
const DefaultValidity = 24 * time.Hour

// Claims reserved by the SD-JWT envelope. Subject keys may not map onto them.
const (
	ClaimIssuer           = "iss"
	ClaimSubject          = "sub"
	ClaimIssuedAt         = "iat"
	ClaimExpires          = "exp"
	ClaimType             = "type"
	ClaimSemanticRegistry = "_semantic_registry"
	ClaimSemanticContext  = "_semantic_context"
)

var reservedClaims = map[string]bool{
	ClaimIssuer:           true,
	ClaimSubject:          true,
	ClaimIssuedAt:         true,
	ClaimExpires:          true,
	ClaimType:             true,
	ClaimSemanticRegistry: true,
	ClaimSemanticContext:  true,
}

// SDJWT is a flat SD-JWT claim set. No encoding or disclosures are applied.
type SDJWT map[string]any

// Option configures an Issuer.
type Option func(*Issuer)

// WithClock sets the issuance clock.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		i.now = now
	}
}

// WithIDSource sets the generator of credential and subject ids. The value
// is prefixed with urn:uuid:.
func WithIDSource(next func() string) Option {
	return func(i *Issuer) {
		i.nextID = next
	}
}

// WithValidity sets how long issued credentials stay valid.
func WithValidity(d time.Duration) Option {
	return func(i *Issuer) {
		i.validity = d
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metric.Metrics) Option {
	return func(i *Issuer) {
		i.metrics = m
	}
}

// Issuer issues credentials in both tracks on behalf of one DID.
type Issuer struct {
	did        string
	schemaBase string
	now        func() time.Time
	nextID     func() string
	validity   time.Duration
	metrics    *metric.Metrics
}

// NewIssuer creates an issuer. schemaBaseURI prefixes the _semantic_context
// claim of SD-JWT credentials.
func NewIssuer(did, schemaBaseURI string, opts ...Option) *Issuer {
	i := &Issuer{
		did:        did,
		schemaBase: strings.TrimRight(schemaBaseURI, "/"),
		now:        time.Now,
		nextID:     uuid.NewString,
		validity:   DefaultValidity,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// DID returns the issuer DID.
func (i *Issuer) DID() string {
	return i.did
}

func (i *Issuer) urn() string {
	return "urn:uuid:" + i.nextID()
}

// IssueJSONLD issues a W3C credential whose subject is a copy of subject,
// plus id when subjectID is set.
func (i *Issuer) IssueJSONLD(subject Record, credentialType, contextURI, subjectID string) (Envelope, error) {
	env, err := i.issueJSONLD(i.now(), subject, credentialType, contextURI, subjectID)
	if err != nil {
		return Envelope{}, err
	}
	i.metrics.Issued(FormatJSONLD, credentialType)
	return env, nil
}

func (i *Issuer) issueJSONLD(now time.Time, subject Record, credentialType, contextURI, subjectID string) (Envelope, error) {
	cs := subject.Clone()
	if cs == nil {
		cs = Record{}
	}
	if subjectID != "" {
		cs["id"] = subjectID
	}

	issued := FormatTime(now)
	env := Envelope{
		Context:           []string{shacl.CredentialsV2, contextURI},
		ID:                i.urn(),
		Type:              []string{"VerifiableCredential", credentialType},
		Issuer:            IssuerRef{ID: i.did, Type: "Organization"},
		IssuanceDate:      issued,
		ExpirationDate:    FormatTime(now.Add(i.validity)),
		CredentialSubject: cs,
	}

	value, err := placeholderProofValue(env)
	if err != nil {
		return Envelope{}, fmt.Errorf("digest credential: %w", err)
	}
	env.Proof = &Proof{
		Type:               "DataIntegrityProof",
		Cryptosuite:        "eddsa-rdfc-2022",
		Created:            issued,
		VerificationMethod: i.did + "#key-1",
		ProofPurpose:       "assertionMethod",
		ProofValue:         value,
	}
	return env, nil
}

// placeholderProofValue digests the unsigned credential. It binds the proof
// to the content for diffing, it is not a signature.
func placeholderProofValue(env Envelope) (string, error) {
	env.Proof = nil
	data, err := json.Marshal(env)
	if err != nil {
		return "", err
	}
	sum := blake3.Sum256(data)
	return "z" + hex.EncodeToString(sum[:]) + "PLACEHOLDER", nil
}

// IssueSDJWT issues a flat claim set. Subject keys are snake_cased at the
// top level only; nested objects keep their keys.
func (i *Issuer) IssueSDJWT(subject Record, credentialType, registryURI, subjectID string) (SDJWT, error) {
	claims, err := i.issueSDJWT(i.now(), subject, credentialType, registryURI, subjectID)
	if err != nil {
		return nil, err
	}
	i.metrics.Issued(FormatSDJWT, credentialType)
	return claims, nil
}

func (i *Issuer) issueSDJWT(now time.Time, subject Record, credentialType, registryURI, subjectID string) (SDJWT, error) {
	if subjectID == "" {
		subjectID = i.urn()
	}
	claims := SDJWT{
		ClaimIssuer:           i.did,
		ClaimSubject:          subjectID,
		ClaimIssuedAt:         now.Unix(),
		ClaimExpires:          now.Add(i.validity).Unix(),
		ClaimType:             credentialType,
		ClaimSemanticRegistry: registryURI,
		ClaimSemanticContext:  fmt.Sprintf("%s/context/%s-v1.jsonld", i.schemaBase, strings.ToLower(credentialType)),
	}

	owners := make(map[string]string, len(subject))
	for _, key := range sortedKeys(subject) {
		claim := naming.ToSnake(key)
		if reservedClaims[claim] {
			return nil, &compiler.ClaimCollisionError{Claim: claim, Shape: credentialType, First: "reserved claim", Second: key}
		}
		if prev, taken := owners[claim]; taken {
			return nil, &compiler.ClaimCollisionError{Claim: claim, Shape: credentialType, First: prev, Second: key}
		}
		owners[claim] = key
		claims[claim] = cloneValue(subject[key])
	}
	return claims, nil
}

// IssueDualTrack issues both tracks from one record. The tracks share the
// issuance instant and the subject id. When subjectID is empty the record's
// own id is used, else one is generated for both.
func (i *Issuer) IssueDualTrack(subject Record, credentialType, contextURI, registryURI, subjectID string) (DualTrack, error) {
	now := i.now()
	if subjectID == "" {
		if id, ok := subject["id"].(string); ok && id != "" {
			subjectID = id
		} else {
			subjectID = i.urn()
		}
	}

	vc, err := i.issueJSONLD(now, subject, credentialType, contextURI, subjectID)
	if err != nil {
		return DualTrack{}, err
	}
	// The JSON-LD subject id is not a claim of its own in SD-JWT; it is sub.
	sdSubject := subject.Clone()
	delete(sdSubject, "id")
	sd, err := i.issueSDJWT(now, sdSubject, credentialType, registryURI, subjectID)
	if err != nil {
		return DualTrack{}, err
	}
	i.metrics.Issued(FormatJSONLD, credentialType)
	i.metrics.Issued(FormatSDJWT, credentialType)

	return DualTrack{
		Format:         "dual-track",
		Source:         "SHACL shape",
		CredentialType: credentialType,
		Formats: Formats{
			JSONLD: JSONLDTrack{
				Format:          "W3C Verifiable Credential",
				Specification:   shacl.VCDataModel2,
				SemanticLinking: "automatic via @context",
				Credential:      vc,
			},
			SDJWT: SDJWTTrack{
				Format:           "IETF SD-JWT",
				Specification:    shacl.SDJWTDraft,
				SemanticLinking:  "manual via registry",
				SemanticRegistry: registryURI,
				Credential:       sd,
			},
		},
		SemanticEquivalence: true,
		Note:                "Both credentials carry the same information. JSON-LD has automatic semantic linking; SD-JWT requires registry lookup.",
	}, nil
}
