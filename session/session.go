// Package session keeps the ambient app state that outlives a process: the
// persisted device-session user id and per-user preference blobs. It is
// injected everywhere rather than read from globals so flows stay testable.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/raushankrgupta/vogue-styler/models"
)

// Store is simple keyed string storage. Get returns "" with no error for an
// absent key.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

const (
	sessionKeyPrefix = "vogue:session:"
	dataKeyPrefix    = "vogue:data:"
)

// Manager wraps a Store with the app's key layout.
type Manager struct {
	kv Store
}

func NewManager(kv Store) *Manager {
	return &Manager{kv: kv}
}

// CurrentUser returns the user id persisted for a device, or "".
func (m *Manager) CurrentUser(ctx context.Context, deviceID string) (string, error) {
	return m.kv.Get(ctx, sessionKeyPrefix+deviceID)
}

// SetCurrentUser persists the device session.
func (m *Manager) SetCurrentUser(ctx context.Context, deviceID, userID string) error {
	return m.kv.Set(ctx, sessionKeyPrefix+deviceID, userID)
}

// ClearCurrentUser tears the device session down.
func (m *Manager) ClearCurrentUser(ctx context.Context, deviceID string) error {
	return m.kv.Delete(ctx, sessionKeyPrefix+deviceID)
}

// Preferences returns the user's preference blob, or nil when none was
// saved.
func (m *Manager) Preferences(ctx context.Context, userID string) (*models.Preferences, error) {
	raw, err := m.kv.Get(ctx, dataKeyPrefix+userID)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	var prefs models.Preferences
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		return nil, fmt.Errorf("corrupt preference blob for %s: %w", userID, err)
	}
	return &prefs, nil
}

// SavePreferences persists the user's preference blob.
func (m *Manager) SavePreferences(ctx context.Context, userID string, prefs models.Preferences) error {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return m.kv.Set(ctx, dataKeyPrefix+userID, string(raw))
}
