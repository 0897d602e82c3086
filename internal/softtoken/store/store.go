// Package store persists software authenticator credentials.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested credential is missing.
var ErrNotFound = errors.New("credential not found")

// Credential is a resident key held by the software authenticator.
// ID and UserID are base64url strings so they can round-trip through
// WebAuthn JSON without re-encoding; KeyDER is the SEC 1 encoding of the
// P-256 private key.
type Credential struct {
	ID        string
	RPID      string
	UserID    string
	UserName  string
	KeyDER    []byte
	SignCount uint32
	LargeBlob []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store persists authenticator credentials keyed by credential ID.
type Store interface {
	PutCredential(ctx context.Context, credential Credential) error
	GetCredential(ctx context.Context, credentialID string) (Credential, error)
	ListCredentialsByRP(ctx context.Context, rpID string) ([]Credential, error)
	UpdateSignCount(ctx context.Context, credentialID string, signCount uint32) error
	UpdateLargeBlob(ctx context.Context, credentialID string, blob []byte) error
}
