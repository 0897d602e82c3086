package android

import (
	"context"

	"github.com/louisbranch/passkey-bridge/internal/bridge"
	"github.com/louisbranch/passkey-bridge/internal/bridge/contract"
)

// CreateRequest mirrors CreatePublicKeyCredentialRequest: the W3C creation
// options serialized as JSON, plus the hint that skips the account picker
// when no credential is immediately available.
type CreateRequest struct {
	RequestJSON                           string
	PreferImmediatelyAvailableCredentials bool
}

// GetRequest mirrors GetPublicKeyCredentialOption: the W3C request options
// serialized as JSON.
type GetRequest struct {
	RequestJSON string
}

// CreateResponse carries the registration result exactly as the provider
// produced it.
type CreateResponse struct {
	RegistrationResponseJSON string
}

// GetResponse carries the authentication result exactly as the provider
// produced it.
type GetResponse struct {
	AuthenticationResponseJSON string
}

// CredentialManager is the Credential Manager API as the adapter sees it.
// Both calls block for the duration of the ceremony and fail with an
// Exception for provider-level errors.
type CredentialManager interface {
	CreateCredential(ctx context.Context, req *CreateRequest) (*CreateResponse, error)
	GetCredential(ctx context.Context, req *GetRequest) (*GetResponse, error)
}

// Adapter bridges contract operations onto the Credential Manager.
type Adapter struct {
	manager CredentialManager
}

// New creates an android adapter over the given credential manager.
func New(manager CredentialManager) *Adapter {
	return &Adapter{manager: manager}
}

// Platform identifies this adapter in logs and telemetry.
func (a *Adapter) Platform() string { return "android" }

// StartCreation canonicalizes the request into Credential Manager JSON and
// hands it to the provider. Translation failures surface immediately and
// never reach the native layer.
func (a *Adapter) StartCreation(ctx context.Context, req *contract.CreationRequest) (*bridge.Pending[contract.CreationResult], error) {
	request, err := buildCreateRequest(req)
	if err != nil {
		return nil, err
	}

	pending := bridge.NewPending[contract.CreationResult]()
	go func() {
		response, err := a.manager.CreateCredential(ctx, request)
		if err != nil {
			pending.Reject(mapNativeError(err))
			return
		}
		result, err := normalizeCreation(response)
		if err != nil {
			pending.Reject(err)
			return
		}
		pending.Resolve(result)
	}()
	return pending, nil
}

// StartAssertion canonicalizes the request into Credential Manager JSON and
// hands it to the provider.
func (a *Adapter) StartAssertion(ctx context.Context, req *contract.AssertionRequest) (*bridge.Pending[contract.AssertionResult], error) {
	request, err := buildGetRequest(req)
	if err != nil {
		return nil, err
	}

	pending := bridge.NewPending[contract.AssertionResult]()
	go func() {
		response, err := a.manager.GetCredential(ctx, request)
		if err != nil {
			pending.Reject(mapNativeError(err))
			return
		}
		result, err := normalizeAssertion(response)
		if err != nil {
			pending.Reject(err)
			return
		}
		pending.Resolve(result)
	}()
	return pending, nil
}
