// Package apikey owns the API key format and lifecycle: issuance,
// verification, listing and revocation. A key's presence in the store is
// the sole source of truth for validity; when the store is unreachable a
// syntactic fallback check is used instead, and the two outcomes are kept
// distinct in the Verification result.
package apikey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/readmeforge/readmeforge/internal/store"
)

const (
	// Prefix distinguishes this system's keys from anything else.
	Prefix = "readme_api_"

	// minFallbackLength is the length a key must exceed for the
	// format-fallback check to accept it.
	minFallbackLength = 20

	// keyTTL is refreshed on every successful verification, so an
	// untouched key expires a year after it was last used.
	keyTTL = 365 * 24 * time.Hour

	recordPrefix = "apikey:"
)

// Trust records how a verification decision was reached.
type Trust string

const (
	// TrustStore means the store confirmed the key exists.
	TrustStore Trust = "store"
	// TrustFormat means the store was unreachable and the key was
	// accepted on its syntactic shape alone. This is a deliberate
	// trust degradation, not a security equivalent of TrustStore.
	TrustFormat Trust = "format-fallback"
)

type Verification struct {
	Valid bool
	Trust Trust
}

// IssueResult distinguishes a persisted key from the fallback variant
// generated while the store is down. A fallback key is never written
// anywhere, so it will fail store-based verification once the store
// recovers; that inconsistency is accepted and documented.
type IssueResult struct {
	Key       string
	Persisted bool
}

// Record is the durable value stored under apikey:<key>.
type Record struct {
	UserID    string     `json:"userId"`
	CreatedAt time.Time  `json:"createdAt"`
	LastUsed  *time.Time `json:"lastUsed"`
}

// KeyInfo is the listable metadata of a key. The plaintext key doubles as
// its identifier because records are keyed by it.
type KeyInfo struct {
	Key       string     `json:"id"`
	CreatedAt time.Time  `json:"createdAt"`
	LastUsed  *time.Time `json:"lastUsed"`
}

type Manager struct {
	store store.Store
}

func NewManager(st store.Store) *Manager {
	return &Manager{store: st}
}

func newKey() string {
	return Prefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// MatchesFormat reports whether key has the syntactic shape of an issued
// key. It backs the format-fallback trust path.
func MatchesFormat(key string) bool {
	return strings.HasPrefix(key, Prefix) && len(key) > minFallbackLength
}

// Issue generates a key for userID and persists its record with a one-year
// expiry. The plaintext key is returned exactly once; only metadata is
// retrievable later. If the store is unavailable the key is returned
// unpersisted with Persisted=false.
func (m *Manager) Issue(ctx context.Context, userID string) (IssueResult, error) {
	key := newKey()
	rec := Record{
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return IssueResult{}, fmt.Errorf("marshal api key record: %w", err)
	}

	if err := m.store.Set(ctx, recordPrefix+key, string(data), keyTTL); err != nil {
		if errors.Is(err, store.ErrUnavailable) {
			logrus.WithError(err).Warn("store unavailable, issuing unpersisted fallback API key")
			return IssueResult{Key: key, Persisted: false}, nil
		}
		return IssueResult{}, fmt.Errorf("persist api key: %w", err)
	}

	return IssueResult{Key: key, Persisted: true}, nil
}

// Verify checks key against the store. A store hit refreshes the one-year
// expiry and advances lastUsed. A clean miss is invalid unconditionally.
// Only when the store call itself fails does the format fallback apply.
func (m *Manager) Verify(ctx context.Context, key string) Verification {
	raw, err := m.store.Get(ctx, recordPrefix+key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Verification{}
		}
		if MatchesFormat(key) {
			logrus.WithError(err).Warn("store unavailable, accepting API key on format fallback")
			return Verification{Valid: true, Trust: TrustFormat}
		}
		return Verification{}
	}

	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		logrus.WithError(err).Error("corrupt API key record")
		return Verification{}
	}

	now := time.Now().UTC()
	rec.LastUsed = &now
	data, err := json.Marshal(rec)
	if err == nil {
		err = m.store.Set(ctx, recordPrefix+key, string(data), keyTTL)
	}
	if err != nil {
		// The store already confirmed the key; a failed lastUsed update
		// does not downgrade the decision.
		logrus.WithError(err).Warn("failed to refresh API key record")
	}

	return Verification{Valid: true, Trust: TrustStore}
}

// Revoke deletes the key's record. The returned error reflects whether the
// store operation succeeded, not whether the key existed.
func (m *Manager) Revoke(ctx context.Context, key string) error {
	if err := m.store.Delete(ctx, recordPrefix+key); err != nil {
		return fmt.Errorf("revoke api key: %w", err)
	}
	return nil
}

// List enumerates all stored keys and filters by owner client-side. Cost
// is proportional to the total number of keys; acceptable at this scale.
func (m *Manager) List(ctx context.Context, userID string) ([]KeyInfo, error) {
	keys, err := m.store.Keys(ctx, recordPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}

	infos := make([]KeyInfo, 0, len(keys))
	for _, storeKey := range keys {
		raw, err := m.store.Get(ctx, storeKey)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Expired between Keys and Get.
				continue
			}
			return nil, fmt.Errorf("list api keys: %w", err)
		}

		var rec Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			logrus.WithField("key", storeKey).WithError(err).Error("corrupt API key record, skipping")
			continue
		}
		if rec.UserID != userID {
			continue
		}

		infos = append(infos, KeyInfo{
			Key:       strings.TrimPrefix(storeKey, recordPrefix),
			CreatedAt: rec.CreatedAt,
			LastUsed:  rec.LastUsed,
		})
	}
	return infos, nil
}
