package web

import (
	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/protocol/webauthncose"

	"github.com/louisbranch/passkey-bridge/internal/bridge/contract"
)

// supportedTransports is every hint the browser credential API accepts.
var supportedTransports = []protocol.AuthenticatorTransport{
	protocol.USB,
	protocol.NFC,
	protocol.BLE,
	protocol.Hybrid,
	protocol.Internal,
}

func buildCreationOptions(req *contract.CreationRequest) (*protocol.CredentialCreation, error) {
	challenge, err := contract.DecodeBase64URL(req.Challenge)
	if err != nil {
		return nil, contract.Wrap(contract.CodeInvalidInput, "challenge is not valid base64url", err)
	}
	userID, err := contract.DecodeBase64URL(req.User.ID)
	if err != nil {
		return nil, contract.Wrap(contract.CodeInvalidInput, "user.id is not valid base64url", err)
	}
	exclude, err := buildDescriptors(req.ExcludeCredentials)
	if err != nil {
		return nil, err
	}

	params := make([]protocol.CredentialParameter, 0, len(req.PubKeyCredParams))
	for _, param := range req.PubKeyCredParams {
		params = append(params, protocol.CredentialParameter{
			Type:      protocol.PublicKeyCredentialType,
			Algorithm: webauthncose.COSEAlgorithmIdentifier(param.Alg),
		})
	}

	options := protocol.PublicKeyCredentialCreationOptions{
		RelyingParty: protocol.RelyingPartyEntity{
			CredentialEntity: protocol.CredentialEntity{Name: req.RP.Name},
			ID:               req.RP.ID,
		},
		User: protocol.UserEntity{
			CredentialEntity: protocol.CredentialEntity{Name: req.User.Name},
			DisplayName:      req.User.DisplayName,
			ID:               protocol.URLEncodedBase64(userID),
		},
		Challenge:             protocol.URLEncodedBase64(challenge),
		Parameters:            params,
		Timeout:               int(contract.EffectiveTimeout(req.Timeout).Milliseconds()),
		CredentialExcludeList: exclude,
		Attestation:           protocol.ConveyancePreference(req.Attestation),
	}
	if sel := req.AuthenticatorSelection; sel != nil {
		options.AuthenticatorSelection = protocol.AuthenticatorSelection{
			AuthenticatorAttachment: protocol.AuthenticatorAttachment(sel.AuthenticatorAttachment),
			ResidentKey:             protocol.ResidentKeyRequirement(sel.ResidentKey),
			UserVerification:        protocol.UserVerificationRequirement(sel.UserVerification),
		}
		if sel.ResidentKey == contract.PreferenceRequired {
			options.AuthenticatorSelection.RequireResidentKey = protocol.ResidentKeyRequired()
		}
	}
	if ext := req.Extensions; ext != nil && ext.LargeBlob != nil && ext.LargeBlob.Support != "" {
		options.Extensions = protocol.AuthenticationExtensions{
			"largeBlob": map[string]any{"support": ext.LargeBlob.Support},
		}
	}

	return &protocol.CredentialCreation{Response: options}, nil
}

func buildAssertionOptions(req *contract.AssertionRequest) (*protocol.CredentialAssertion, error) {
	challenge, err := contract.DecodeBase64URL(req.Challenge)
	if err != nil {
		return nil, contract.Wrap(contract.CodeInvalidInput, "challenge is not valid base64url", err)
	}
	allowed, err := buildDescriptors(req.AllowCredentials)
	if err != nil {
		return nil, err
	}

	options := protocol.PublicKeyCredentialRequestOptions{
		Challenge:          protocol.URLEncodedBase64(challenge),
		Timeout:            int(contract.EffectiveTimeout(req.Timeout).Milliseconds()),
		RelyingPartyID:     req.RPID,
		AllowedCredentials: allowed,
		UserVerification:   protocol.UserVerificationRequirement(req.UserVerification),
	}
	if ext := req.Extensions; ext != nil && ext.LargeBlob != nil {
		blob := map[string]any{}
		if ext.LargeBlob.Read {
			blob["read"] = true
		}
		if ext.LargeBlob.Write != "" {
			blob["write"] = ext.LargeBlob.Write
		}
		if len(blob) > 0 {
			options.Extensions = protocol.AuthenticationExtensions{"largeBlob": blob}
		}
	}

	return &protocol.CredentialAssertion{Response: options}, nil
}

func buildDescriptors(descriptors []contract.CredentialDescriptor) ([]protocol.CredentialDescriptor, error) {
	if len(descriptors) == 0 {
		return nil, nil
	}
	out := make([]protocol.CredentialDescriptor, 0, len(descriptors))
	for _, desc := range descriptors {
		id, err := contract.DecodeBase64URL(desc.ID)
		if err != nil {
			return nil, contract.Wrap(contract.CodeInvalidInput, "credential descriptor id is not valid base64url", err)
		}
		out = append(out, protocol.CredentialDescriptor{
			Type:         protocol.PublicKeyCredentialType,
			CredentialID: protocol.URLEncodedBase64(id),
			Transport:    filterTransports(desc.Transports),
		})
	}
	return out, nil
}

// filterTransports drops hints the browser cannot express. Filtering a
// non-empty hint list down to nothing would over-constrain the native
// picker, so that case falls back to the full supported set.
func filterTransports(hints []string) []protocol.AuthenticatorTransport {
	if len(hints) == 0 {
		return nil
	}
	kept := make([]protocol.AuthenticatorTransport, 0, len(hints))
	for _, hint := range hints {
		for _, supported := range supportedTransports {
			if hint == string(supported) {
				kept = append(kept, supported)
				break
			}
		}
	}
	if len(kept) == 0 {
		return append([]protocol.AuthenticatorTransport(nil), supportedTransports...)
	}
	return kept
}
