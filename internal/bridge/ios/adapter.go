package ios

import (
	"context"

	"github.com/louisbranch/passkey-bridge/internal/bridge"
	"github.com/louisbranch/passkey-bridge/internal/bridge/contract"
)

// PlatformRegistrationRequest mirrors the platform-authenticator credential
// registration request. Platform descriptors carry no transport hints.
type PlatformRegistrationRequest struct {
	RelyingPartyID        string
	Challenge             []byte
	UserID                []byte
	Name                  string
	UserVerification      string
	ExcludedCredentialIDs [][]byte
	LargeBlobSupport      string
}

// SecurityKeyDescriptor references a credential on an external security
// key, with the transports the key may be reachable over.
type SecurityKeyDescriptor struct {
	CredentialID []byte
	Transports   []string
}

// SecurityKeyRegistrationRequest mirrors the security-key credential
// registration request.
type SecurityKeyRegistrationRequest struct {
	RelyingPartyID      string
	Challenge           []byte
	UserID              []byte
	Name                string
	DisplayName         string
	Algorithms          []int
	ExcludedCredentials []SecurityKeyDescriptor
	ResidentKey         string
	UserVerification    string
	Attestation         string
}

// RegistrationRequests is the set of native requests one creation ceremony
// hands to the authorization controller. At least one field is non-nil;
// both are when the caller left the attachment open.
type RegistrationRequests struct {
	Platform    *PlatformRegistrationRequest
	SecurityKey *SecurityKeyRegistrationRequest
}

// PlatformAssertionRequest mirrors the platform-authenticator assertion
// request. Large-blob access is only available on the platform surface.
type PlatformAssertionRequest struct {
	RelyingPartyID       string
	Challenge            []byte
	AllowedCredentialIDs [][]byte
	UserVerification     string
	LargeBlobRead        bool
	LargeBlobWrite       []byte
}

// SecurityKeyAssertionRequest mirrors the security-key assertion request.
type SecurityKeyAssertionRequest struct {
	RelyingPartyID     string
	Challenge          []byte
	AllowedCredentials []SecurityKeyDescriptor
	UserVerification   string
}

// AssertionRequests is the set of native requests one assertion ceremony
// hands to the authorization controller. Both surfaces are always offered;
// the OS picks whichever holds a matching credential.
type AssertionRequests struct {
	Platform    *PlatformAssertionRequest
	SecurityKey *SecurityKeyAssertionRequest
}

// Registration is the raw outcome of a successful native registration.
// Attachment reports which surface completed the ceremony.
type Registration struct {
	CredentialID         []byte
	RawAttestationObject []byte
	RawClientDataJSON    []byte
	Attachment           string
	LargeBlobSupported   *bool
}

// Assertion is the raw outcome of a successful native assertion.
type Assertion struct {
	CredentialID         []byte
	RawAuthenticatorData []byte
	RawClientDataJSON    []byte
	Signature            []byte
	UserID               []byte
	Attachment           string
	LargeBlobData        []byte
	LargeBlobWritten     *bool
}

// AuthorizationController is Authentication Services as the adapter sees
// it. Both calls block for the duration of the ceremony and fail with an
// AuthorizationError for framework-level errors.
type AuthorizationController interface {
	PerformRegistration(ctx context.Context, requests *RegistrationRequests) (*Registration, error)
	PerformAssertion(ctx context.Context, requests *AssertionRequests) (*Assertion, error)
}

// Adapter bridges contract operations onto the authorization controller.
type Adapter struct {
	controller AuthorizationController
	domains    []string
}

// New creates an ios adapter over the given controller. associatedDomains
// lists the web-credential domains the host application declared; an empty
// list disables the check, which is the development fallback.
func New(controller AuthorizationController, associatedDomains ...string) *Adapter {
	return &Adapter{controller: controller, domains: associatedDomains}
}

// Platform identifies this adapter in logs and telemetry.
func (a *Adapter) Platform() string { return "ios" }

// StartCreation checks the relying party against the associated domains,
// translates the request into native registration requests, and hands them
// to the controller. Translation failures surface immediately and never
// reach the native layer.
func (a *Adapter) StartCreation(ctx context.Context, req *contract.CreationRequest) (*bridge.Pending[contract.CreationResult], error) {
	if err := a.validateDomain(req.RP.ID); err != nil {
		return nil, err
	}
	requests, err := buildRegistrationRequests(req)
	if err != nil {
		return nil, err
	}

	pending := bridge.NewPending[contract.CreationResult]()
	go func() {
		registration, err := a.controller.PerformRegistration(ctx, requests)
		if err != nil {
			pending.Reject(mapNativeError(err))
			return
		}
		result, err := normalizeRegistration(registration)
		if err != nil {
			pending.Reject(err)
			return
		}
		pending.Resolve(result)
	}()
	return pending, nil
}

// StartAssertion checks the relying party against the associated domains,
// translates the request into native assertion requests, and hands them to
// the controller.
func (a *Adapter) StartAssertion(ctx context.Context, req *contract.AssertionRequest) (*bridge.Pending[contract.AssertionResult], error) {
	if err := a.validateDomain(req.RPID); err != nil {
		return nil, err
	}
	requests, err := buildAssertionRequests(req)
	if err != nil {
		return nil, err
	}

	pending := bridge.NewPending[contract.AssertionResult]()
	go func() {
		assertion, err := a.controller.PerformAssertion(ctx, requests)
		if err != nil {
			pending.Reject(mapNativeError(err))
			return
		}
		result, err := normalizeAssertion(assertion)
		if err != nil {
			pending.Reject(err)
			return
		}
		pending.Resolve(result)
	}()
	return pending, nil
}
