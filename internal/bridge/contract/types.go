package contract

import "time"

// CredentialTypePublicKey is the only credential type the contract carries.
const CredentialTypePublicKey = "public-key"

// Authenticator attachment preferences. An empty attachment means either
// surface may serve the ceremony.
const (
	AttachmentPlatform      = "platform"
	AttachmentCrossPlatform = "cross-platform"
)

// Preference values shared by resident-key, user-verification, and
// large-blob requirements.
const (
	PreferenceDiscouraged = "discouraged"
	PreferencePreferred   = "preferred"
	PreferenceRequired    = "required"
)

// Attestation conveyance preferences.
const (
	AttestationNone       = "none"
	AttestationIndirect   = "indirect"
	AttestationDirect     = "direct"
	AttestationEnterprise = "enterprise"
)

// Transport hints carried on credential descriptors. Adapters filter hints
// their platform cannot express rather than rejecting the request.
const (
	TransportUSB      = "usb"
	TransportNFC      = "nfc"
	TransportBLE      = "ble"
	TransportHybrid   = "hybrid"
	TransportInternal = "internal"
)

// COSE algorithm identifiers commonly requested by relying parties.
const (
	AlgES256 = -7
	AlgRS256 = -257
)

// DefaultTimeoutMillis bounds a ceremony when the request omits a timeout.
const DefaultTimeoutMillis = 60000

// EffectiveTimeout converts a request timeout in milliseconds to a duration,
// applying the default when the caller omitted it.
func EffectiveTimeout(millis int) time.Duration {
	if millis <= 0 {
		millis = DefaultTimeoutMillis
	}
	return time.Duration(millis) * time.Millisecond
}

// RelyingParty identifies the party a credential is created for.
type RelyingParty struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// User identifies the account a credential belongs to. ID is opaque binary,
// base64url-encoded; Name and DisplayName are presentation hints for the
// native picker.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

// CredentialParameter names an acceptable public-key algorithm by its COSE
// identifier.
type CredentialParameter struct {
	Type string `json:"type"`
	Alg  int    `json:"alg"`
}

// CredentialDescriptor references an existing credential, with optional
// transport hints.
type CredentialDescriptor struct {
	Type       string   `json:"type"`
	ID         string   `json:"id"`
	Transports []string `json:"transports,omitempty"`
}

// AuthenticatorSelection narrows which authenticators may serve a creation.
type AuthenticatorSelection struct {
	AuthenticatorAttachment string `json:"authenticatorAttachment,omitempty"`
	ResidentKey             string `json:"residentKey,omitempty"`
	UserVerification        string `json:"userVerification,omitempty"`
}

// LargeBlobCreation requests large-blob storage support on a new credential.
type LargeBlobCreation struct {
	Support string `json:"support,omitempty"`
}

// CreationExtensions carries the extension requests a creation may include.
type CreationExtensions struct {
	LargeBlob *LargeBlobCreation `json:"largeBlob,omitempty"`
}

// LargeBlobAssertion reads or writes a credential's large blob during an
// assertion. Read and Write are mutually exclusive; Write is base64url.
type LargeBlobAssertion struct {
	Read  bool   `json:"read,omitempty"`
	Write string `json:"write,omitempty"`
}

// AssertionExtensions carries the extension requests an assertion may
// include.
type AssertionExtensions struct {
	LargeBlob *LargeBlobAssertion `json:"largeBlob,omitempty"`
}

// CreationRequest asks the platform to create a new credential. Challenge
// and User.ID are base64url; Timeout is milliseconds.
type CreationRequest struct {
	RP                     RelyingParty            `json:"rp"`
	User                   User                    `json:"user"`
	Challenge              string                  `json:"challenge"`
	PubKeyCredParams       []CredentialParameter   `json:"pubKeyCredParams,omitempty"`
	ExcludeCredentials     []CredentialDescriptor  `json:"excludeCredentials,omitempty"`
	AuthenticatorSelection *AuthenticatorSelection `json:"authenticatorSelection,omitempty"`
	Attestation            string                  `json:"attestation,omitempty"`
	Timeout                int                     `json:"timeout,omitempty"`
	Extensions             *CreationExtensions     `json:"extensions,omitempty"`
}

// AssertionRequest asks the platform to produce an assertion from an
// existing credential.
type AssertionRequest struct {
	RPID             string                 `json:"rpId"`
	Challenge        string                 `json:"challenge"`
	AllowCredentials []CredentialDescriptor `json:"allowCredentials,omitempty"`
	UserVerification string                 `json:"userVerification,omitempty"`
	Timeout          int                    `json:"timeout,omitempty"`
	Extensions       *AssertionExtensions   `json:"extensions,omitempty"`
}

// AttestationResponse carries the platform-produced creation artifacts,
// base64url-encoded.
type AttestationResponse struct {
	AttestationObject string `json:"attestationObject"`
	ClientDataJSON    string `json:"clientDataJSON"`
}

// LargeBlobCreationOutput reports whether the new credential supports large
// blobs.
type LargeBlobCreationOutput struct {
	Supported bool `json:"supported"`
}

// CreationExtensionOutputs carries extension results from a creation.
type CreationExtensionOutputs struct {
	LargeBlob *LargeBlobCreationOutput `json:"largeBlob,omitempty"`
}

// CreationResult is the normalized outcome of a successful creation. ID and
// RawID are the same bytes base64url-encoded; Type is always "public-key".
type CreationResult struct {
	ID                      string                    `json:"id"`
	RawID                   string                    `json:"rawId"`
	Type                    string                    `json:"type"`
	AuthenticatorAttachment string                    `json:"authenticatorAttachment,omitempty"`
	Response                AttestationResponse       `json:"response"`
	ClientExtensionResults  *CreationExtensionOutputs `json:"clientExtensionResults,omitempty"`
}

// AssertionResponse carries the platform-produced assertion artifacts,
// base64url-encoded. UserHandle is empty when the authenticator returned
// none.
type AssertionResponse struct {
	AuthenticatorData string `json:"authenticatorData"`
	ClientDataJSON    string `json:"clientDataJSON"`
	Signature         string `json:"signature"`
	UserHandle        string `json:"userHandle,omitempty"`
}

// LargeBlobAssertionOutput carries large-blob read or write results.
type LargeBlobAssertionOutput struct {
	Blob    string `json:"blob,omitempty"`
	Written bool   `json:"written,omitempty"`
}

// AssertionExtensionOutputs carries extension results from an assertion.
type AssertionExtensionOutputs struct {
	LargeBlob *LargeBlobAssertionOutput `json:"largeBlob,omitempty"`
}

// AssertionResult is the normalized outcome of a successful assertion.
type AssertionResult struct {
	ID                      string                     `json:"id"`
	RawID                   string                     `json:"rawId"`
	Type                    string                     `json:"type"`
	AuthenticatorAttachment string                     `json:"authenticatorAttachment,omitempty"`
	Response                AssertionResponse          `json:"response"`
	ClientExtensionResults  *AssertionExtensionOutputs `json:"clientExtensionResults,omitempty"`
}
