package ios

import (
	"github.com/louisbranch/passkey-bridge/internal/bridge/contract"
)

// normalizeRegistration converts the raw native registration into the
// contract shape, encoding every binary field as base64url. A registration
// missing its artifacts is a native contract violation and surfaces as
// UNKNOWN_ERROR.
func normalizeRegistration(registration *Registration) (*contract.CreationResult, error) {
	if registration == nil ||
		len(registration.RawAttestationObject) == 0 ||
		len(registration.RawClientDataJSON) == 0 {
		return nil, contract.New(contract.CodeUnknown, "native creation result is missing its response")
	}
	if len(registration.CredentialID) == 0 {
		return nil, contract.New(contract.CodeUnknown, "native result is missing its credential id")
	}

	id := contract.EncodeBase64URL(registration.CredentialID)
	result := &contract.CreationResult{
		ID:                      id,
		RawID:                   id,
		Type:                    contract.CredentialTypePublicKey,
		AuthenticatorAttachment: registration.Attachment,
		Response: contract.AttestationResponse{
			AttestationObject: contract.EncodeBase64URL(registration.RawAttestationObject),
			ClientDataJSON:    contract.EncodeBase64URL(registration.RawClientDataJSON),
		},
	}
	if registration.LargeBlobSupported != nil {
		result.ClientExtensionResults = &contract.CreationExtensionOutputs{
			LargeBlob: &contract.LargeBlobCreationOutput{Supported: *registration.LargeBlobSupported},
		}
	}
	return result, nil
}

// normalizeAssertion converts the raw native assertion into the contract
// shape.
func normalizeAssertion(assertion *Assertion) (*contract.AssertionResult, error) {
	if assertion == nil ||
		len(assertion.RawAuthenticatorData) == 0 ||
		len(assertion.Signature) == 0 ||
		len(assertion.RawClientDataJSON) == 0 {
		return nil, contract.New(contract.CodeUnknown, "native assertion result is missing its response")
	}
	if len(assertion.CredentialID) == 0 {
		return nil, contract.New(contract.CodeUnknown, "native result is missing its credential id")
	}

	id := contract.EncodeBase64URL(assertion.CredentialID)
	result := &contract.AssertionResult{
		ID:                      id,
		RawID:                   id,
		Type:                    contract.CredentialTypePublicKey,
		AuthenticatorAttachment: assertion.Attachment,
		Response: contract.AssertionResponse{
			AuthenticatorData: contract.EncodeBase64URL(assertion.RawAuthenticatorData),
			ClientDataJSON:    contract.EncodeBase64URL(assertion.RawClientDataJSON),
			Signature:         contract.EncodeBase64URL(assertion.Signature),
		},
	}
	if len(assertion.UserID) > 0 {
		result.Response.UserHandle = contract.EncodeBase64URL(assertion.UserID)
	}
	if len(assertion.LargeBlobData) > 0 || assertion.LargeBlobWritten != nil {
		out := &contract.LargeBlobAssertionOutput{}
		if len(assertion.LargeBlobData) > 0 {
			out.Blob = contract.EncodeBase64URL(assertion.LargeBlobData)
		}
		if assertion.LargeBlobWritten != nil {
			out.Written = *assertion.LargeBlobWritten
		}
		result.ClientExtensionResults = &contract.AssertionExtensionOutputs{LargeBlob: out}
	}
	return result, nil
}
