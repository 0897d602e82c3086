package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/passkey-bridge/internal/softtoken/store"
)

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestPutGetCredentialRoundTrip(t *testing.T) {
	st := openTempStore(t)

	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	input := store.Credential{
		ID:        "Y3JlZC1pZA",
		RPID:      "example.com",
		UserID:    "dXNlci1pZA",
		UserName:  "user@example.com",
		KeyDER:    []byte{0x30, 0x77, 0x02, 0x01},
		SignCount: 3,
		LargeBlob: []byte("blob"),
		CreatedAt: created,
		UpdatedAt: created.Add(time.Hour),
	}

	if err := st.PutCredential(context.Background(), input); err != nil {
		t.Fatalf("put credential: %v", err)
	}

	got, err := st.GetCredential(context.Background(), "Y3JlZC1pZA")
	if err != nil {
		t.Fatalf("get credential: %v", err)
	}
	if got.RPID != input.RPID || got.UserID != input.UserID || got.UserName != input.UserName {
		t.Fatalf("unexpected credential: %+v", got)
	}
	if got.SignCount != 3 {
		t.Fatalf("expected sign count 3, got %d", got.SignCount)
	}
	if string(got.KeyDER) != string(input.KeyDER) {
		t.Fatal("expected key bytes to round-trip")
	}
	if string(got.LargeBlob) != "blob" {
		t.Fatalf("expected large blob to round-trip, got %q", got.LargeBlob)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("expected created at %v, got %v", created, got.CreatedAt)
	}
}

func TestPutCredentialRequiresIdentity(t *testing.T) {
	st := openTempStore(t)

	err := st.PutCredential(context.Background(), store.Credential{ID: "  "})
	if err == nil {
		t.Fatal("expected error for empty credential id")
	}

	err = st.PutCredential(context.Background(), store.Credential{ID: "cred", KeyDER: []byte{1}})
	if err == nil {
		t.Fatal("expected error for empty rp id")
	}
}

func TestGetCredentialNotFound(t *testing.T) {
	st := openTempStore(t)

	_, err := st.GetCredential(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPutCredentialUpsertsExisting(t *testing.T) {
	st := openTempStore(t)
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	first := store.Credential{
		ID:        "cred-1",
		RPID:      "example.com",
		UserID:    "dXNlci1pZA",
		KeyDER:    []byte{1},
		CreatedAt: created,
		UpdatedAt: created,
	}
	if err := st.PutCredential(context.Background(), first); err != nil {
		t.Fatalf("put credential: %v", err)
	}

	first.UserName = "renamed@example.com"
	first.SignCount = 9
	first.UpdatedAt = created.Add(time.Minute)
	if err := st.PutCredential(context.Background(), first); err != nil {
		t.Fatalf("re-put credential: %v", err)
	}

	got, err := st.GetCredential(context.Background(), "cred-1")
	if err != nil {
		t.Fatalf("get credential: %v", err)
	}
	if got.UserName != "renamed@example.com" || got.SignCount != 9 {
		t.Fatalf("expected upserted fields, got %+v", got)
	}
}

func TestListCredentialsByRPOrdersByCreation(t *testing.T) {
	st := openTempStore(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	put := func(id, rpID string, createdAt time.Time) {
		t.Helper()
		err := st.PutCredential(context.Background(), store.Credential{
			ID:        id,
			RPID:      rpID,
			UserID:    "dXNlci1pZA",
			KeyDER:    []byte{1},
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		})
		if err != nil {
			t.Fatalf("put credential %s: %v", id, err)
		}
	}

	put("cred-late", "example.com", base.Add(2*time.Minute))
	put("cred-early", "example.com", base)
	put("cred-other", "other.test", base.Add(time.Minute))

	credentials, err := st.ListCredentialsByRP(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("list credentials: %v", err)
	}
	if len(credentials) != 2 {
		t.Fatalf("expected 2 credentials, got %d", len(credentials))
	}
	if credentials[0].ID != "cred-early" || credentials[1].ID != "cred-late" {
		t.Fatalf("expected creation order, got %q then %q", credentials[0].ID, credentials[1].ID)
	}
}

func TestUpdateSignCountPersists(t *testing.T) {
	st := openTempStore(t)
	now := time.Now().UTC()

	err := st.PutCredential(context.Background(), store.Credential{
		ID:        "cred-1",
		RPID:      "example.com",
		UserID:    "dXNlci1pZA",
		KeyDER:    []byte{1},
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("put credential: %v", err)
	}

	if err := st.UpdateSignCount(context.Background(), "cred-1", 42); err != nil {
		t.Fatalf("update sign count: %v", err)
	}

	got, err := st.GetCredential(context.Background(), "cred-1")
	if err != nil {
		t.Fatalf("get credential: %v", err)
	}
	if got.SignCount != 42 {
		t.Fatalf("expected sign count 42, got %d", got.SignCount)
	}

	if err := st.UpdateSignCount(context.Background(), "missing", 1); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing credential, got %v", err)
	}
}

func TestUpdateLargeBlobPersists(t *testing.T) {
	st := openTempStore(t)
	now := time.Now().UTC()

	err := st.PutCredential(context.Background(), store.Credential{
		ID:        "cred-1",
		RPID:      "example.com",
		UserID:    "dXNlci1pZA",
		KeyDER:    []byte{1},
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("put credential: %v", err)
	}

	if err := st.UpdateLargeBlob(context.Background(), "cred-1", []byte("payload")); err != nil {
		t.Fatalf("update large blob: %v", err)
	}

	got, err := st.GetCredential(context.Background(), "cred-1")
	if err != nil {
		t.Fatalf("get credential: %v", err)
	}
	if string(got.LargeBlob) != "payload" {
		t.Fatalf("expected stored blob, got %q", got.LargeBlob)
	}

	if err := st.UpdateLargeBlob(context.Background(), "missing", nil); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing credential, got %v", err)
	}
}

func TestReopenKeepsCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "softtoken.db")
	now := time.Now().UTC()

	first, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	err = first.PutCredential(context.Background(), store.Credential{
		ID:        "cred-1",
		RPID:      "example.com",
		UserID:    "dXNlci1pZA",
		KeyDER:    []byte{1, 2, 3},
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("put credential: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	t.Cleanup(func() {
		if err := second.Close(); err != nil {
			t.Fatalf("close reopened store: %v", err)
		}
	})

	got, err := second.GetCredential(context.Background(), "cred-1")
	if err != nil {
		t.Fatalf("get credential after reopen: %v", err)
	}
	if got.RPID != "example.com" {
		t.Fatalf("expected persisted credential, got %+v", got)
	}
}

func openTempStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "softtoken.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return st
}
