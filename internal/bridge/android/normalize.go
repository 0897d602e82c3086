package android

import (
	"encoding/json"

	"github.com/go-webauthn/webauthn/protocol"

	"github.com/louisbranch/passkey-bridge/internal/bridge/contract"
)

// normalizeCreation parses the provider's registration JSON and converts it
// into the contract shape, re-encoding every binary field as base64url. A
// result that does not parse or is missing its response sub-structure is a
// native contract violation and surfaces as UNKNOWN_ERROR.
func normalizeCreation(response *CreateResponse) (*contract.CreationResult, error) {
	if response == nil || response.RegistrationResponseJSON == "" {
		return nil, contract.New(contract.CodeUnknown, "native creation result is missing its response")
	}
	var parsed protocol.CredentialCreationResponse
	if err := json.Unmarshal([]byte(response.RegistrationResponseJSON), &parsed); err != nil {
		return nil, contract.Wrap(contract.CodeUnknown, "registration response is not valid JSON", err)
	}
	if len(parsed.AttestationResponse.AttestationObject) == 0 ||
		len(parsed.AttestationResponse.ClientDataJSON) == 0 {
		return nil, contract.New(contract.CodeUnknown, "native creation result is missing its response")
	}
	id, err := credentialID(&parsed.PublicKeyCredential)
	if err != nil {
		return nil, err
	}

	result := &contract.CreationResult{
		ID:                      id,
		RawID:                   id,
		Type:                    contract.CredentialTypePublicKey,
		AuthenticatorAttachment: parsed.AuthenticatorAttachment,
		Response: contract.AttestationResponse{
			AttestationObject: contract.EncodeBase64URL(parsed.AttestationResponse.AttestationObject),
			ClientDataJSON:    contract.EncodeBase64URL(parsed.AttestationResponse.ClientDataJSON),
		},
		ClientExtensionResults: largeBlobCreationOutputs(parsed.ClientExtensionResults),
	}
	return result, nil
}

// normalizeAssertion parses the provider's authentication JSON and converts
// it into the contract shape.
func normalizeAssertion(response *GetResponse) (*contract.AssertionResult, error) {
	if response == nil || response.AuthenticationResponseJSON == "" {
		return nil, contract.New(contract.CodeUnknown, "native assertion result is missing its response")
	}
	var parsed protocol.CredentialAssertionResponse
	if err := json.Unmarshal([]byte(response.AuthenticationResponseJSON), &parsed); err != nil {
		return nil, contract.Wrap(contract.CodeUnknown, "authentication response is not valid JSON", err)
	}
	if len(parsed.AssertionResponse.AuthenticatorData) == 0 ||
		len(parsed.AssertionResponse.Signature) == 0 ||
		len(parsed.AssertionResponse.ClientDataJSON) == 0 {
		return nil, contract.New(contract.CodeUnknown, "native assertion result is missing its response")
	}
	id, err := credentialID(&parsed.PublicKeyCredential)
	if err != nil {
		return nil, err
	}

	result := &contract.AssertionResult{
		ID:                      id,
		RawID:                   id,
		Type:                    contract.CredentialTypePublicKey,
		AuthenticatorAttachment: parsed.AuthenticatorAttachment,
		Response: contract.AssertionResponse{
			AuthenticatorData: contract.EncodeBase64URL(parsed.AssertionResponse.AuthenticatorData),
			ClientDataJSON:    contract.EncodeBase64URL(parsed.AssertionResponse.ClientDataJSON),
			Signature:         contract.EncodeBase64URL(parsed.AssertionResponse.Signature),
		},
		ClientExtensionResults: largeBlobAssertionOutputs(parsed.ClientExtensionResults),
	}
	if len(parsed.AssertionResponse.UserHandle) > 0 {
		result.Response.UserHandle = contract.EncodeBase64URL(parsed.AssertionResponse.UserHandle)
	}
	return result, nil
}

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
