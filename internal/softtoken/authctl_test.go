package softtoken

import (
	"context"
	"testing"

	"github.com/louisbranch/passkey-bridge/internal/bridge"
	"github.com/louisbranch/passkey-bridge/internal/bridge/contract"
	"github.com/louisbranch/passkey-bridge/internal/bridge/ios"
)

func newIOSBridge() (*bridge.Bridge, *Token) {
	token, _ := newTestToken()
	return bridge.New(ios.New(NewAuthorizationController(token))), token
}

func TestIOSEndToEndCreation(t *testing.T) {
	b, _ := newIOSBridge()

	result, err := b.CreatePasskey(context.Background(), creationVector())
	if err != nil {
		t.Fatalf("create passkey: %v", err)
	}
	if result.Type != contract.CredentialTypePublicKey {
		t.Fatalf("expected public-key type, got %q", result.Type)
	}
	if result.AuthenticatorAttachment != contract.AttachmentPlatform {
		t.Fatalf("expected platform attachment, got %q", result.AuthenticatorAttachment)
	}

	parsed, _ := credentialKeyFromResult(t, result)
	if parsed.flags != creationFlags {
		t.Fatalf("expected creation flags %#x, got %#x", creationFlags, parsed.flags)
	}

	clientDataJSON, err := contract.DecodeBase64URL(result.Response.ClientDataJSON)
	if err != nil {
		t.Fatalf("decode client data: %v", err)
	}
	data := decodeClientData(t, clientDataJSON)
	if data.Type != "webauthn.create" || data.Challenge != "Y2hhbGxlbmdl" {
		t.Fatalf("unexpected client data: %+v", data)
	}
	if data.Origin != "https://example.com" {
		t.Fatalf("expected https origin, got %q", data.Origin)
	}
}

func TestIOSEndToEndAssertion(t *testing.T) {
	b, _ := newIOSBridge()
	ctx := context.Background()

	created, err := b.CreatePasskey(ctx, creationVector())
	if err != nil {
		t.Fatalf("create passkey: %v", err)
	}
	_, key := credentialKeyFromResult(t, created)

	result, err := b.Authenticate(ctx, &contract.AssertionRequest{
		RPID:      "example.com",
		Challenge: "YXNzZXJ0LW1l",
		AllowCredentials: []contract.CredentialDescriptor{
			{Type: contract.CredentialTypePublicKey, ID: created.RawID},
		},
	})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if result.ID != created.ID {
		t.Fatal("expected the created credential to serve the assertion")
	}
	if result.Response.UserHandle != "dXNlci1pZA" {
		t.Fatalf("expected user handle to round-trip, got %q", result.Response.UserHandle)
	}

	parsed := verifyAssertionResult(t, key, result)
	if parsed.signCount != 1 {
		t.Fatalf("expected sign count 1, got %d", parsed.signCount)
	}
}

func TestIOSExcludedCredentialIsDOMError(t *testing.T) {
	b, _ := newIOSBridge()
	ctx := context.Background()

	created, err := b.CreatePasskey(ctx, creationVector())
	if err != nil {
		t.Fatalf("create passkey: %v", err)
	}

	req := creationVector()
	req.ExcludeCredentials = []contract.CredentialDescriptor{
		{Type: contract.CredentialTypePublicKey, ID: created.RawID},
	}
	_, err = b.CreatePasskey(ctx, req)
	// The controller reports the collision as error 1006, which the
	// adapter carries as a DOM-level protocol failure.
	if !contract.IsCode(err, contract.CodeDOM) {
		t.Fatalf("expected DOM_ERROR for an excluded credential, got %v", err)
	}
}

func TestIOSSecurityKeyOnlyCreationNotHandled(t *testing.T) {
	b, _ := newIOSBridge()

	req := creationVector()
	req.AuthenticatorSelection = &contract.AuthenticatorSelection{
		AuthenticatorAttachment: contract.AttachmentCrossPlatform,
	}
	_, err := b.CreatePasskey(context.Background(), req)
	// The token has no security-key surface, so a cross-platform ceremony
	// is not handled and surfaces as unsupported.
	if !contract.IsCode(err, contract.CodeUnsupported) {
		t.Fatalf("expected UNSUPPORTED_ERROR, got %v", err)
	}
}

func TestIOSNoCredentialIsCancelled(t *testing.T) {
	b, _ := newIOSBridge()

	_, err := b.Authenticate(context.Background(), &contract.AssertionRequest{
		RPID:      "example.com",
		Challenge: "bm8tY3JlZHM",
	})
	// The framework shows an empty sheet the user dismisses, so a missing
	// credential surfaces as a cancellation rather than NO_CREDENTIAL.
	if !contract.IsCode(err, contract.CodeCancelled) {
		t.Fatalf("expected CANCELLED, got %v", err)
	}
}

func TestAuthorizationControllerRequiresPlatformRequest(t *testing.T) {
	token, _ := newTestToken()
	controller := NewAuthorizationController(token)

	_, err := controller.PerformRegistration(context.Background(), &ios.RegistrationRequests{})
	authErr, ok := err.(*ios.AuthorizationError)
	if !ok || authErr.Code != ios.AuthErrorNotHandled {
		t.Fatalf("expected not-handled authorization error, got %v", err)
	}

	_, err = controller.PerformAssertion(context.Background(), &ios.AssertionRequests{})
	authErr, ok = err.(*ios.AuthorizationError)
	if !ok || authErr.Code != ios.AuthErrorNotHandled {
		t.Fatalf("expected not-handled authorization error, got %v", err)
	}
}
