// Package storage keeps issued credentials in a NATS KV bucket and
// announces them on NATS subjects.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// BucketCredentials is the KV bucket holding issued credentials.
const BucketCredentials = "SEMCRED_CREDENTIALS"

// SubjectPrefix prefixes credential announcement subjects.
const SubjectPrefix = "semcred.credential"

// Key identifies a stored credential.
type Key struct {
	Format string // jsonld or sdjwt
	Type   string // credential type
	ID     string
}

// String returns the KV key: format.type.id, with each part sanitized.
func (k Key) String() string {
	return sanitize(k.Format) + "." + sanitize(k.Type) + "." + sanitize(k.ID)
}

// Subject returns the subject the credential is announced on.
func (k Key) Subject() string {
	return fmt.Sprintf("%s.%s.%s", SubjectPrefix, sanitize(k.Format), sanitize(k.Type))
}

// ParseKey parses the string form of a key. Sanitized parts are returned as
// stored.
func ParseKey(s string) (Key, error) {
	parts := strings.SplitN(s, ".", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Key{}, fmt.Errorf("invalid credential key format: %s", s)
	}
	return Key{Format: parts[0], Type: parts[1], ID: parts[2]}, nil
}

// sanitize maps a key part onto the KV key alphabet. Dots are separators,
// so they are replaced too.
func sanitize(s string) string {
	if s == "" {
		return "_"
	}
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

// Stored is a credential as kept in the bucket.
type Stored struct {
	Key        string          `json:"key"`
	StoredAt   time.Time       `json:"stored_at"`
	Credential json.RawMessage `json:"credential"`
}

// bucket is the part of jetstream.KeyValue the store uses.
type bucket interface {
	Put(ctx context.Context, key string, value []byte) (uint64, error)
	Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error)
	Keys(ctx context.Context, opts ...jetstream.WatchOpt) ([]string, error)
}

// Store provides credential storage backed by NATS KV.
type Store struct {
	kv  bucket
	now func() time.Time
}

// NewStore creates a Store with the given JetStream context, creating the
// bucket if it does not exist.
func NewStore(ctx context.Context, js jetstream.JetStream) (*Store, error) {
	kv, err := getOrCreateBucket(ctx, js, BucketCredentials)
	if err != nil {
		return nil, fmt.Errorf("create credentials bucket: %w", err)
	}
	return &Store{kv: kv, now: time.Now}, nil
}

func getOrCreateBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, nil
	}
	// Bucket doesn't exist, create it
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: "Issued verifiable credentials",
		History:     5, // Keep last 5 revisions
	})
}

// Put stores doc under key and returns the new revision.
func (s *Store) Put(ctx context.Context, key Key, doc any) (uint64, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("marshal credential: %w", err)
	}
	data, err := json.Marshal(Stored{Key: key.String(), StoredAt: s.now().UTC(), Credential: raw})
	if err != nil {
		return 0, fmt.Errorf("marshal credential: %w", err)
	}

	rev, err := s.kv.Put(ctx, key.String(), data)
	if err != nil {
		return 0, fmt.Errorf("store credential %s: %w", key, err)
	}
	return rev, nil
}

// Get retrieves the latest revision of a credential.
func (s *Store) Get(ctx context.Context, key Key) (*Stored, error) {
	entry, err := s.kv.Get(ctx, key.String())
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get credential %s: %w", key, err)
	}

	var st Stored
	if err := json.Unmarshal(entry.Value(), &st); err != nil {
		return nil, fmt.Errorf("unmarshal credential %s: %w", key, err)
	}
	return &st, nil
}

// List returns the keys of all stored credentials in sorted order.
func (s *Store) List(ctx context.Context) ([]Key, error) {
	names, err := s.kv.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("list credential keys: %w", err)
	}
	sort.Strings(names)

	keys := make([]Key, 0, len(names))
	for _, name := range names {
		k, err := ParseKey(name)
		if err != nil {
			continue // Skip keys written by something else
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// Publisher is satisfied by *nats.Conn.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Publish announces doc on the key's subject.
func Publish(ctx context.Context, p Publisher, key Key, doc any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}
	if err := p.Publish(key.Subject(), data); err != nil {
		return fmt.Errorf("publish %s: %w", key.Subject(), err)
	}
	return nil
}
