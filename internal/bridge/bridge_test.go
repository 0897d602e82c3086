package bridge

import (
	"context"
	"testing"
	"time"

	"github.com/louisbranch/passkey-bridge/internal/bridge/contract"
)

type fakeAdapter struct {
	creations  int
	assertions int

	startErr     error
	hang         bool
	creationErr  error
	assertionErr error

	creationPending  *Pending[contract.CreationResult]
	assertionPending *Pending[contract.AssertionResult]
}

func (f *fakeAdapter) Platform() string { return "fake" }

func (f *fakeAdapter) StartCreation(_ context.Context, _ *contract.CreationRequest) (*Pending[contract.CreationResult], error) {
	f.creations++
	if f.startErr != nil {
		return nil, f.startErr
	}
	pending := NewPending[contract.CreationResult]()
	if !f.hang {
		if f.creationErr != nil {
			pending.Reject(f.creationErr)
		} else {
			pending.Resolve(&contract.CreationResult{ID: "Y3JlZA", RawID: "Y3JlZA", Type: contract.CredentialTypePublicKey})
		}
	}
	f.creationPending = pending
	return pending, nil
}

func (f *fakeAdapter) StartAssertion(_ context.Context, _ *contract.AssertionRequest) (*Pending[contract.AssertionResult], error) {
	f.assertions++
	if f.startErr != nil {
		return nil, f.startErr
	}
	pending := NewPending[contract.AssertionResult]()
	if !f.hang {
		if f.assertionErr != nil {
			pending.Reject(f.assertionErr)
		} else {
			pending.Resolve(&contract.AssertionResult{ID: "Y3JlZA", RawID: "Y3JlZA", Type: contract.CredentialTypePublicKey})
		}
	}
	f.assertionPending = pending
	return pending, nil
}

func creationRequest() *contract.CreationRequest {
	return &contract.CreationRequest{
		RP:        contract.RelyingParty{ID: "example.com", Name: "Test RP"},
		User:      contract.User{ID: "dXNlci1pZA", Name: "user@example.com", DisplayName: "Test User"},
		Challenge: "Y2hhbGxlbmdl",
		PubKeyCredParams: []contract.CredentialParameter{
			{Type: contract.CredentialTypePublicKey, Alg: contract.AlgES256},
		},
	}
}

func assertionRequest() *contract.AssertionRequest {
	return &contract.AssertionRequest{
		RPID:      "example.com",
		Challenge: "Y2hhbGxlbmdl",
	}
}

func TestCreatePasskey_Success(t *testing.T) {
	adapter := &fakeAdapter{}
	bridge := New(adapter)

	result, err := bridge.CreatePasskey(context.Background(), creationRequest())
	if err != nil {
		t.Fatalf("create passkey: %v", err)
	}
	if result.Type != contract.CredentialTypePublicKey {
		t.Fatalf("expected public-key type, got %q", result.Type)
	}
	if adapter.creations != 1 {
		t.Fatalf("expected one native creation, got %d", adapter.creations)
	}
}

func TestCreatePasskey_InvalidInputStopsBeforeNative(t *testing.T) {
	adapter := &fakeAdapter{}
	bridge := New(adapter)

	req := creationRequest()
	req.User.ID = ""

	_, err := bridge.CreatePasskey(context.Background(), req)
	if !contract.IsCode(err, contract.CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
	if adapter.creations != 0 {
		t.Fatalf("native layer was reached %d times", adapter.creations)
	}
}

func TestCreatePasskey_Timeout(t *testing.T) {
	adapter := &fakeAdapter{hang: true}
	bridge := New(adapter)

	req := creationRequest()
	req.Timeout = 50

	started := time.Now()
	_, err := bridge.CreatePasskey(context.Background(), req)
	elapsed := time.Since(started)

	if !contract.IsCode(err, contract.CodeTimeout) {
		t.Fatalf("expected TIMEOUT, got %v", err)
	}
	if elapsed < 50*time.Millisecond {
		t.Fatalf("timed out before the deadline: %v", elapsed)
	}
	if elapsed > 2*time.Second {
		t.Fatalf("timeout resolved far past the deadline: %v", elapsed)
	}
}

func TestCreatePasskey_LateResultDiscarded(t *testing.T) {
	adapter := &fakeAdapter{hang: true}
	bridge := New(adapter)

	req := creationRequest()
	req.Timeout = 20

	if _, err := bridge.CreatePasskey(context.Background(), req); !contract.IsCode(err, contract.CodeTimeout) {
		t.Fatalf("expected TIMEOUT, got %v", err)
	}

	// The native layer finishing after the race must not block or panic.
	done := make(chan struct{})
	go func() {
		adapter.creationPending.Resolve(&contract.CreationResult{})
		adapter.creationPending.Reject(contract.New(contract.CodeUnknown, "late"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("late resolution blocked")
	}
}

func TestCreatePasskey_StartErrorSkipsTimer(t *testing.T) {
	adapter := &fakeAdapter{startErr: contract.New(contract.CodeRPIDValidation, "domain not associated")}
	bridge := New(adapter)

	started := time.Now()
	_, err := bridge.CreatePasskey(context.Background(), creationRequest())
	if !contract.IsCode(err, contract.CodeRPIDValidation) {
		t.Fatalf("expected RPID_VALIDATION_ERROR, got %v", err)
	}
	if elapsed := time.Since(started); elapsed > time.Second {
		t.Fatalf("start error should return immediately, took %v", elapsed)
	}
}

func TestAuthenticate_Success(t *testing.T) {
	adapter := &fakeAdapter{}
	bridge := New(adapter)

	result, err := bridge.Authenticate(context.Background(), assertionRequest())
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if result.ID == "" {
		t.Fatal("expected credential id")
	}
	if adapter.assertions != 1 {
		t.Fatalf("expected one native assertion, got %d", adapter.assertions)
	}
}

func TestAuthenticate_InvalidInputStopsBeforeNative(t *testing.T) {
	adapter := &fakeAdapter{}
	bridge := New(adapter)

	req := assertionRequest()
	req.Challenge = "!!!invalid!!!"

	_, err := bridge.Authenticate(context.Background(), req)
	if !contract.IsCode(err, contract.CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
	if adapter.assertions != 0 {
		t.Fatalf("native layer was reached %d times", adapter.assertions)
	}
}

func TestAuthenticate_NativeErrorPassedThrough(t *testing.T) {
	adapter := &fakeAdapter{assertionErr: contract.New(contract.CodeNoCredential, "no stored credential matched")}
	bridge := New(adapter)

	_, err := bridge.Authenticate(context.Background(), assertionRequest())
	if !contract.IsCode(err, contract.CodeNoCredential) {
		t.Fatalf("expected NO_CREDENTIAL, got %v", err)
	}
}

func TestAuthenticate_ContextCancelled(t *testing.T) {
	adapter := &fakeAdapter{hang: true}
	bridge := New(adapter)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := bridge.Authenticate(ctx, assertionRequest())
	if !contract.IsCode(err, contract.CodeCancelled) {
		t.Fatalf("expected CANCELLED, got %v", err)
	}
}
