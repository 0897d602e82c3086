package web

import (
	"github.com/go-webauthn/webauthn/protocol"

	"github.com/louisbranch/passkey-bridge/internal/bridge/contract"
)

// normalizeCreation converts the browser result into the contract shape,
// re-encoding every binary field as base64url. A result missing its response
// sub-structure is a native contract violation and surfaces as
// UNKNOWN_ERROR, never as a user-facing condition.
func normalizeCreation(response *protocol.CredentialCreationResponse) (*contract.CreationResult, error) {
	if response == nil ||
		len(response.AttestationResponse.AttestationObject) == 0 ||
		len(response.AttestationResponse.ClientDataJSON) == 0 {
		return nil, contract.New(contract.CodeUnknown, "native creation result is missing its response")
	}
	id, err := credentialID(&response.PublicKeyCredential)
	if err != nil {
		return nil, err
	}

	result := &contract.CreationResult{
		ID:                      id,
		RawID:                   id,
		Type:                    contract.CredentialTypePublicKey,
		AuthenticatorAttachment: response.AuthenticatorAttachment,
		Response: contract.AttestationResponse{
			AttestationObject: contract.EncodeBase64URL(response.AttestationResponse.AttestationObject),
			ClientDataJSON:    contract.EncodeBase64URL(response.AttestationResponse.ClientDataJSON),
		},
		ClientExtensionResults: largeBlobCreationOutputs(response.ClientExtensionResults),
	}
	return result, nil
}

// normalizeAssertion converts the browser assertion result into the contract
// shape.
func normalizeAssertion(response *protocol.CredentialAssertionResponse) (*contract.AssertionResult, error) {
	if response == nil ||
		len(response.AssertionResponse.AuthenticatorData) == 0 ||
		len(response.AssertionResponse.Signature) == 0 ||
		len(response.AssertionResponse.ClientDataJSON) == 0 {
		return nil, contract.New(contract.CodeUnknown, "native assertion result is missing its response")
	}
	id, err := credentialID(&response.PublicKeyCredential)
	if err != nil {
		return nil, err
	}

	result := &contract.AssertionResult{
		ID:                      id,
		RawID:                   id,
		Type:                    contract.CredentialTypePublicKey,
		AuthenticatorAttachment: response.AuthenticatorAttachment,
		Response: contract.AssertionResponse{
			AuthenticatorData: contract.EncodeBase64URL(response.AssertionResponse.AuthenticatorData),
			ClientDataJSON:    contract.EncodeBase64URL(response.AssertionResponse.ClientDataJSON),
			Signature:         contract.EncodeBase64URL(response.AssertionResponse.Signature),
		},
		ClientExtensionResults: largeBlobAssertionOutputs(response.ClientExtensionResults),
	}
	if len(response.AssertionResponse.UserHandle) > 0 {
		result.Response.UserHandle = contract.EncodeBase64URL(response.AssertionResponse.UserHandle)
	}
	return result, nil
}

// credentialID prefers the raw identifier bytes and falls back to decoding
// the string form. Both empty is a native contract violation.
func credentialID(credential *protocol.PublicKeyCredential) (string, error) {
	raw := []byte(credential.RawID)
	if len(raw) == 0 && credential.ID != "" {
		decoded, err := contract.DecodeBase64URL(credential.ID)
		if err != nil {
			return "", contract.Wrap(contract.CodeUnknown, "native result has a malformed credential id", err)
		}
		raw = decoded
	}
	if len(raw) == 0 {
		return "", contract.New(contract.CodeUnknown, "native result is missing its credential id")
	}
	return contract.EncodeBase64URL(raw), nil
}

func largeBlobCreationOutputs(outputs protocol.AuthenticationExtensionsClientOutputs) *contract.CreationExtensionOutputs {
	raw, ok := outputs["largeBlob"].(map[string]any)
	if !ok {
		return nil
	}
	supported, ok := raw["supported"].(bool)
	if !ok {
		return nil
	}
	return &contract.CreationExtensionOutputs{
		LargeBlob: &contract.LargeBlobCreationOutput{Supported: supported},
	}
}

// largeBlobAssertionOutputs reads the extension output map. Blob values are
// base64url strings, matching the W3C JSON serialization of extension
// results.
func largeBlobAssertionOutputs(outputs protocol.AuthenticationExtensionsClientOutputs) *contract.AssertionExtensionOutputs {
	raw, ok := outputs["largeBlob"].(map[string]any)
	if !ok {
		return nil
	}
	out := &contract.LargeBlobAssertionOutput{}
	found := false
	if blob, ok := raw["blob"].(string); ok {
		out.Blob = blob
		found = true
	}
	if written, ok := raw["written"].(bool); ok {
		out.Written = written
		found = true
	}
	if !found {
		return nil
	}
	return &contract.AssertionExtensionOutputs{LargeBlob: out}
}
