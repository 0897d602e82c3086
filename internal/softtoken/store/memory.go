package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Memory is an in-process Store used by tests and ephemeral token setups.
type Memory struct {
	mu          sync.RWMutex
	credentials map[string]Credential
}

// NewMemory returns an empty in-memory credential store.
func NewMemory() *Memory {
	return &Memory{credentials: make(map[string]Credential)}
}

// PutCredential stores or replaces a credential record.
func (m *Memory) PutCredential(ctx context.Context, credential Credential) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(credential.ID) == "" {
		return fmt.Errorf("credential id is required")
	}
	if strings.TrimSpace(credential.RPID) == "" {
		return fmt.Errorf("rp id is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.credentials[credential.ID] = cloneCredential(credential)
	return nil
}

// GetCredential fetches a credential by ID.
func (m *Memory) GetCredential(ctx context.Context, credentialID string) (Credential, error) {
	if err := ctx.Err(); err != nil {
		return Credential{}, err
	}
	if strings.TrimSpace(credentialID) == "" {
		return Credential{}, fmt.Errorf("credential id is required")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	credential, ok := m.credentials[credentialID]
	if !ok {
		return Credential{}, ErrNotFound
	}
	return cloneCredential(credential), nil
}

// ListCredentialsByRP returns every credential registered for a relying
// party, ordered by creation time.
func (m *Memory) ListCredentialsByRP(ctx context.Context, rpID string) ([]Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(rpID) == "" {
		return nil, fmt.Errorf("rp id is required")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	var credentials []Credential
	for _, credential := range m.credentials {
		if credential.RPID == rpID {
			credentials = append(credentials, cloneCredential(credential))
		}
	}
	sort.Slice(credentials, func(i, j int) bool {
		return credentials[i].CreatedAt.Before(credentials[j].CreatedAt)
	})
	return credentials, nil
}

// UpdateSignCount persists a new signature counter value.
func (m *Memory) UpdateSignCount(ctx context.Context, credentialID string, signCount uint32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(credentialID) == "" {
		return fmt.Errorf("credential id is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	credential, ok := m.credentials[credentialID]
	if !ok {
		return ErrNotFound
	}
	credential.SignCount = signCount
	credential.UpdatedAt = time.Now().UTC()
	m.credentials[credentialID] = credential
	return nil
}

// UpdateLargeBlob persists a credential's large blob payload.
func (m *Memory) UpdateLargeBlob(ctx context.Context, credentialID string, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(credentialID) == "" {
		return fmt.Errorf("credential id is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	credential, ok := m.credentials[credentialID]
	if !ok {
		return ErrNotFound
	}
	credential.LargeBlob = append([]byte(nil), blob...)
	credential.UpdatedAt = time.Now().UTC()
	m.credentials[credentialID] = credential
	return nil
}

func cloneCredential(credential Credential) Credential {
	credential.KeyDER = append([]byte(nil), credential.KeyDER...)
	if credential.LargeBlob != nil {
		credential.LargeBlob = append([]byte(nil), credential.LargeBlob...)
	}
	return credential
}
