package ios

import (
	"github.com/louisbranch/passkey-bridge/internal/bridge/contract"
)

// securityKeyTransports is every transport an external security key can be
// reached over. Internal and hybrid hints have no security-key equivalent.
var securityKeyTransports = []string{
	contract.TransportUSB,
	contract.TransportNFC,
	contract.TransportBLE,
}

// buildRegistrationRequests maps the creation request onto native
// registration requests. An explicit attachment preference pins the
// ceremony to that single surface; an open attachment offers both and
// leaves the choice to the OS.
func buildRegistrationRequests(req *contract.CreationRequest) (*RegistrationRequests, error) {
	challenge, err := contract.DecodeBase64URL(req.Challenge)
	if err != nil {
		return nil, contract.Wrap(contract.CodeInvalidInput, "challenge is not valid base64url", err)
	}
	userID, err := contract.DecodeBase64URL(req.User.ID)
	if err != nil {
		return nil, contract.Wrap(contract.CodeInvalidInput, "user.id is not valid base64url", err)
	}

	attachment := ""
	userVerification := ""
	residentKey := ""
	if sel := req.AuthenticatorSelection; sel != nil {
		attachment = sel.AuthenticatorAttachment
		userVerification = sel.UserVerification
		residentKey = sel.ResidentKey
	}

	requests := &RegistrationRequests{}
	if attachment == "" || attachment == contract.AttachmentPlatform {
		platform := &PlatformRegistrationRequest{
			RelyingPartyID:   req.RP.ID,
			Challenge:        challenge,
			UserID:           userID,
			Name:             req.User.Name,
			UserVerification: userVerification,
		}
		platform.ExcludedCredentialIDs, err = decodeCredentialIDs(req.ExcludeCredentials)
		if err != nil {
			return nil, err
		}
		if ext := req.Extensions; ext != nil && ext.LargeBlob != nil {
			platform.LargeBlobSupport = ext.LargeBlob.Support
		}
		requests.Platform = platform
	}
	if attachment == "" || attachment == contract.AttachmentCrossPlatform {
		securityKey := &SecurityKeyRegistrationRequest{
			RelyingPartyID:   req.RP.ID,
			Challenge:        challenge,
			UserID:           userID,
			Name:             req.User.Name,
			DisplayName:      req.User.DisplayName,
			ResidentKey:      residentKey,
			UserVerification: userVerification,
			Attestation:      req.Attestation,
		}
		for _, param := range req.PubKeyCredParams {
			securityKey.Algorithms = append(securityKey.Algorithms, param.Alg)
		}
		securityKey.ExcludedCredentials, err = buildSecurityKeyDescriptors(req.ExcludeCredentials)
		if err != nil {
			return nil, err
		}
		requests.SecurityKey = securityKey
	}
	return requests, nil
}

// buildAssertionRequests maps the assertion request onto native assertion
// requests. Assertion requests carry no attachment preference, so both
// surfaces are always offered and the OS picks whichever holds a matching
// credential.
func buildAssertionRequests(req *contract.AssertionRequest) (*AssertionRequests, error) {
	challenge, err := contract.DecodeBase64URL(req.Challenge)
	if err != nil {
		return nil, contract.Wrap(contract.CodeInvalidInput, "challenge is not valid base64url", err)
	}

	platform := &PlatformAssertionRequest{
		RelyingPartyID:   req.RPID,
		Challenge:        challenge,
		UserVerification: req.UserVerification,
	}
	platform.AllowedCredentialIDs, err = decodeCredentialIDs(req.AllowCredentials)
	if err != nil {
		return nil, err
	}
	if ext := req.Extensions; ext != nil && ext.LargeBlob != nil {
		platform.LargeBlobRead = ext.LargeBlob.Read
		if ext.LargeBlob.Write != "" {
			platform.LargeBlobWrite, err = contract.DecodeBase64URL(ext.LargeBlob.Write)
			if err != nil {
				return nil, contract.Wrap(contract.CodeInvalidInput, "largeBlob.write is not valid base64url", err)
			}
		}
	}

	securityKey := &SecurityKeyAssertionRequest{
		RelyingPartyID:   req.RPID,
		Challenge:        challenge,
		UserVerification: req.UserVerification,
	}
	securityKey.AllowedCredentials, err = buildSecurityKeyDescriptors(req.AllowCredentials)
	if err != nil {
		return nil, err
	}

	return &AssertionRequests{Platform: platform, SecurityKey: securityKey}, nil
}

func decodeCredentialIDs(descriptors []contract.CredentialDescriptor) ([][]byte, error) {
	if len(descriptors) == 0 {
		return nil, nil
	}
	out := make([][]byte, 0, len(descriptors))
	for _, desc := range descriptors {
		id, err := contract.DecodeBase64URL(desc.ID)
		if err != nil {
			return nil, contract.Wrap(contract.CodeInvalidInput, "credential descriptor id is not valid base64url", err)
		}
		out = append(out, id)
	}
	return out, nil
}

func buildSecurityKeyDescriptors(descriptors []contract.CredentialDescriptor) ([]SecurityKeyDescriptor, error) {
	if len(descriptors) == 0 {
		return nil, nil
	}
	out := make([]SecurityKeyDescriptor, 0, len(descriptors))
	for _, desc := range descriptors {
		id, err := contract.DecodeBase64URL(desc.ID)
		if err != nil {
			return nil, contract.Wrap(contract.CodeInvalidInput, "credential descriptor id is not valid base64url", err)
		}
		out = append(out, SecurityKeyDescriptor{
			CredentialID: id,
			Transports:   filterTransports(desc.Transports),
		})
	}
	return out, nil
}

// filterTransports drops hints a security key cannot be reached over.
// Filtering a non-empty hint list down to nothing would over-constrain the
// native picker, so that case falls back to the full supported set.
func filterTransports(hints []string) []string {
	if len(hints) == 0 {
		return nil
	}
	kept := make([]string, 0, len(hints))
	for _, hint := range hints {
		for _, supported := range securityKeyTransports {
			if hint == supported {
				kept = append(kept, supported)
				break
			}
		}
	}
	if len(kept) == 0 {
		return append([]string(nil), securityKeyTransports...)
	}
	return kept
}
