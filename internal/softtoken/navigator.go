package softtoken

import (
	"context"
	"errors"

	"github.com/go-webauthn/webauthn/protocol"

	"github.com/louisbranch/passkey-bridge/internal/bridge/contract"
	"github.com/louisbranch/passkey-bridge/internal/bridge/web"
)

// Navigator fronts the token with the browser credential API, raising
// DOMExceptions the way a browser would.
type Navigator struct {
	token *Token
}

// NewNavigator wraps the token for use with the web adapter.
func NewNavigator(token *Token) *Navigator {
	return &Navigator{token: token}
}

// Create runs a creation ceremony against the token.
func (n *Navigator) Create(ctx context.Context, options *protocol.CredentialCreation) (*protocol.CredentialCreationResponse, error) {
	pk := options.Response

	userID, err := userIDBytes(pk.User.ID)
	if err != nil {
		return nil, &web.DOMException{Name: web.DOMErrNotSupported, Message: "user id is not binary"}
	}
	algorithms := make([]int, 0, len(pk.Parameters))
	for _, param := range pk.Parameters {
		algorithms = append(algorithms, int(param.Algorithm))
	}
	excludeIDs := make([][]byte, 0, len(pk.CredentialExcludeList))
	for _, descriptor := range pk.CredentialExcludeList {
		excludeIDs = append(excludeIDs, descriptor.CredentialID)
	}

	result, err := n.token.MakeCredential(ctx, MakeCredentialParams{
		RPID:             pk.RelyingParty.ID,
		Origin:           webOrigin(pk.RelyingParty.ID),
		Challenge:        pk.Challenge,
		UserID:           userID,
		UserName:         pk.User.Name,
		Algorithms:       algorithms,
		ExcludeIDs:       excludeIDs,
		LargeBlobSupport: creationBlobRequested(pk.Extensions),
	})
	if err != nil {
		return nil, domExceptionFor(err)
	}

	response := &protocol.CredentialCreationResponse{
		PublicKeyCredential: protocol.PublicKeyCredential{
			Credential: protocol.Credential{
				ID:   contract.EncodeBase64URL(result.CredentialID),
				Type: string(protocol.PublicKeyCredentialType),
			},
			RawID:                   protocol.URLEncodedBase64(result.CredentialID),
			AuthenticatorAttachment: string(protocol.Platform),
		},
		AttestationResponse: protocol.AuthenticatorAttestationResponse{
			AuthenticatorResponse: protocol.AuthenticatorResponse{
				ClientDataJSON: protocol.URLEncodedBase64(result.ClientDataJSON),
			},
			AttestationObject: protocol.URLEncodedBase64(result.AttestationObject),
			Transports:        []string{string(protocol.Internal), string(protocol.Hybrid)},
		},
	}
	if result.LargeBlobSupported {
		response.ClientExtensionResults = protocol.AuthenticationExtensionsClientOutputs{
			"largeBlob": map[string]any{"supported": true},
		}
	}
	return response, nil
}

// Get runs an assertion ceremony against the token.
func (n *Navigator) Get(ctx context.Context, options *protocol.CredentialAssertion) (*protocol.CredentialAssertionResponse, error) {
	pk := options.Response

	allowIDs := make([][]byte, 0, len(pk.AllowedCredentials))
	for _, descriptor := range pk.AllowedCredentials {
		allowIDs = append(allowIDs, descriptor.CredentialID)
	}
	read, write, err := assertionBlobOptions(pk.Extensions)
	if err != nil {
		return nil, err
	}

	result, err := n.token.GetAssertion(ctx, GetAssertionParams{
		RPID:           pk.RelyingPartyID,
		Origin:         webOrigin(pk.RelyingPartyID),
		Challenge:      pk.Challenge,
		AllowIDs:       allowIDs,
		LargeBlobRead:  read,
		LargeBlobWrite: write,
	})
	if err != nil {
		return nil, domExceptionFor(err)
	}

	response := &protocol.CredentialAssertionResponse{
		PublicKeyCredential: protocol.PublicKeyCredential{
			Credential: protocol.Credential{
				ID:   contract.EncodeBase64URL(result.CredentialID),
				Type: string(protocol.PublicKeyCredentialType),
			},
			RawID:                   protocol.URLEncodedBase64(result.CredentialID),
			AuthenticatorAttachment: string(protocol.Platform),
		},
		AssertionResponse: protocol.AuthenticatorAssertionResponse{
			AuthenticatorResponse: protocol.AuthenticatorResponse{
				ClientDataJSON: protocol.URLEncodedBase64(result.ClientDataJSON),
			},
			AuthenticatorData: protocol.URLEncodedBase64(result.AuthenticatorData),
			Signature:         protocol.URLEncodedBase64(result.Signature),
			UserHandle:        protocol.URLEncodedBase64(result.UserHandle),
		},
	}
	response.ClientExtensionResults = assertionBlobOutputs(result)
	return response, nil
}

// webOrigin derives the https origin a browser would report for a relying
// party.
func webOrigin(rpID string) string {
	return "https://" + rpID
}

// userIDBytes recovers the binary user handle from the options, which carry
// it either as decoded bytes or as a base64url string.
func userIDBytes(id any) ([]byte, error) {
	switch v := id.(type) {
	case protocol.URLEncodedBase64:
		return v, nil
	case []byte:
		return v, nil
	case string:
		return contract.DecodeBase64URL(v)
	default:
		return nil, errors.New("unsupported user id type")
	}
}

func creationBlobRequested(extensions protocol.AuthenticationExtensions) bool {
	raw, ok := extensions["largeBlob"].(map[string]any)
	if !ok {
		return false
	}
	support, ok := raw["support"].(string)
	return ok && support != ""
}

func assertionBlobOptions(extensions protocol.AuthenticationExtensions) (read bool, write []byte, err error) {
	raw, ok := extensions["largeBlob"].(map[string]any)
	if !ok {
		return false, nil, nil
	}
	if value, ok := raw["read"].(bool); ok {
		read = value
	}
	if value, ok := raw["write"].(string); ok {
		write, err = contract.DecodeBase64URL(value)
		if err != nil {
			return false, nil, &web.DOMException{Name: web.DOMErrNotSupported, Message: "large blob write is not valid base64url"}
		}
	}
	return read, write, nil
}

func assertionBlobOutputs(result *GetAssertionResult) protocol.AuthenticationExtensionsClientOutputs {
	blob := map[string]any{}
	if len(result.LargeBlob) > 0 {
		blob["blob"] = contract.EncodeBase64URL(result.LargeBlob)
	}
	if result.LargeBlobWritten != nil {
		blob["written"] = *result.LargeBlobWritten
	}
	if len(blob) == 0 {
		return nil
	}
	return protocol.AuthenticationExtensionsClientOutputs{"largeBlob": blob}
}

// domExceptionFor maps token failures onto the DOMException names a browser
// raises for the same conditions.
func domExceptionFor(err error) error {
	switch {
	case errors.Is(err, ErrCredentialExcluded):
		return &web.DOMException{Name: web.DOMErrInvalidState, Message: "a passkey already exists for this account"}
	case errors.Is(err, ErrUnsupportedAlgorithm):
		return &web.DOMException{Name: web.DOMErrNotSupported, Message: "no requested algorithm is available"}
	case errors.Is(err, ErrNoCredential):
		return &web.DOMException{Name: web.DOMErrNotAllowed, Message: "no passkey is available for this site"}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &web.DOMException{Name: web.DOMErrAbort, Message: "the ceremony was aborted"}
	default:
		return err
	}
}
