package web

import (
	"context"

	"github.com/go-webauthn/webauthn/protocol"

	"github.com/louisbranch/passkey-bridge/internal/bridge"
	"github.com/louisbranch/passkey-bridge/internal/bridge/contract"
)

// Navigator is the browser credential API as the adapter sees it. Create and
// Get block for the duration of the ceremony, exactly as the native promise
// would, and fail with a DOMException for protocol-level errors.
type Navigator interface {
	Create(ctx context.Context, options *protocol.CredentialCreation) (*protocol.CredentialCreationResponse, error)
	Get(ctx context.Context, options *protocol.CredentialAssertion) (*protocol.CredentialAssertionResponse, error)
}

// Adapter bridges contract operations onto the browser credential API.
type Adapter struct {
	navigator Navigator
}

// New creates a web adapter over the given navigator.
func New(navigator Navigator) *Adapter {
	return &Adapter{navigator: navigator}
}

// Platform identifies this adapter in logs and telemetry.
func (a *Adapter) Platform() string { return "web" }

// StartCreation translates the request into browser creation options and
// hands it to the navigator. The returned pending operation resolves when
// the ceremony completes; translation failures surface immediately and never
// reach the native layer.
func (a *Adapter) StartCreation(ctx context.Context, req *contract.CreationRequest) (*bridge.Pending[contract.CreationResult], error) {
	options, err := buildCreationOptions(req)
	if err != nil {
		return nil, err
	}

	pending := bridge.NewPending[contract.CreationResult]()
	go func() {
		response, err := a.navigator.Create(ctx, options)
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

// StartAssertion translates the request into browser assertion options and
// hands it to the navigator.
func (a *Adapter) StartAssertion(ctx context.Context, req *contract.AssertionRequest) (*bridge.Pending[contract.AssertionResult], error) {
	options, err := buildAssertionOptions(req)
	if err != nil {
		return nil, err
	}

	pending := bridge.NewPending[contract.AssertionResult]()
	go func() {
		response, err := a.navigator.Get(ctx, options)
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
