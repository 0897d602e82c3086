package android

import (
	"encoding/json"

	"github.com/louisbranch/passkey-bridge/internal/bridge/contract"
)

// supportedTransports is every hint the Credential Manager accepts.
var supportedTransports = []string{
	contract.TransportUSB,
	contract.TransportNFC,
	contract.TransportBLE,
	contract.TransportHybrid,
	contract.TransportInternal,
}

// buildCreateRequest canonicalizes the creation request for the provider:
// binary fields are round-tripped through the codec so the JSON carries
// padding-free base64url, and the timeout default is applied. The provider
// is asked to prefer immediately available credentials only when the caller
// pinned the ceremony to the platform authenticator.
func buildCreateRequest(req *contract.CreationRequest) (*CreateRequest, error) {
	normalized := *req

	challenge, err := contract.DecodeBase64URL(req.Challenge)
	if err != nil {
		return nil, contract.Wrap(contract.CodeInvalidInput, "challenge is not valid base64url", err)
	}
	normalized.Challenge = contract.EncodeBase64URL(challenge)

	userID, err := contract.DecodeBase64URL(req.User.ID)
	if err != nil {
		return nil, contract.Wrap(contract.CodeInvalidInput, "user.id is not valid base64url", err)
	}
	normalized.User.ID = contract.EncodeBase64URL(userID)

	normalized.ExcludeCredentials, err = normalizeDescriptors(req.ExcludeCredentials)
	if err != nil {
		return nil, err
	}
	normalized.Timeout = int(contract.EffectiveTimeout(req.Timeout).Milliseconds())

	payload, err := json.Marshal(&normalized)
	if err != nil {
		return nil, contract.Wrap(contract.CodeUnknown, "could not serialize the native request", err)
	}

	preferImmediate := req.AuthenticatorSelection != nil &&
		req.AuthenticatorSelection.AuthenticatorAttachment == contract.AttachmentPlatform
	return &CreateRequest{
		RequestJSON:                           string(payload),
		PreferImmediatelyAvailableCredentials: preferImmediate,
	}, nil
}

// buildGetRequest canonicalizes the assertion request for the provider.
func buildGetRequest(req *contract.AssertionRequest) (*GetRequest, error) {
	normalized := *req

	challenge, err := contract.DecodeBase64URL(req.Challenge)
	if err != nil {
		return nil, contract.Wrap(contract.CodeInvalidInput, "challenge is not valid base64url", err)
	}
	normalized.Challenge = contract.EncodeBase64URL(challenge)

	normalized.AllowCredentials, err = normalizeDescriptors(req.AllowCredentials)
	if err != nil {
		return nil, err
	}
	normalized.Timeout = int(contract.EffectiveTimeout(req.Timeout).Milliseconds())

	payload, err := json.Marshal(&normalized)
	if err != nil {
		return nil, contract.Wrap(contract.CodeUnknown, "could not serialize the native request", err)
	}
	return &GetRequest{RequestJSON: string(payload)}, nil
}

func normalizeDescriptors(descriptors []contract.CredentialDescriptor) ([]contract.CredentialDescriptor, error) {
	if len(descriptors) == 0 {
		return nil, nil
	}
	out := make([]contract.CredentialDescriptor, 0, len(descriptors))
	for _, desc := range descriptors {
		id, err := contract.DecodeBase64URL(desc.ID)
		if err != nil {
			return nil, contract.Wrap(contract.CodeInvalidInput, "credential descriptor id is not valid base64url", err)
		}
		out = append(out, contract.CredentialDescriptor{
			Type:       contract.CredentialTypePublicKey,
			ID:         contract.EncodeBase64URL(id),
			Transports: filterTransports(desc.Transports),
		})
	}
	return out, nil
}

// filterTransports drops hints the Credential Manager cannot express.
// Filtering a non-empty hint list down to nothing would over-constrain the
// provider's picker, so that case falls back to the full supported set.
func filterTransports(hints []string) []string {
	if len(hints) == 0 {
		return nil
	}
	kept := make([]string, 0, len(hints))
	for _, hint := range hints {
		for _, supported := range supportedTransports {
			if hint == supported {
				kept = append(kept, supported)
				break
			}
		}
	}
	if len(kept) == 0 {
		return append([]string(nil), supportedTransports...)
	}
	return kept
}
