package softtoken

import (
	"context"
	"errors"

	"github.com/louisbranch/passkey-bridge/internal/bridge/contract"
	"github.com/louisbranch/passkey-bridge/internal/bridge/ios"
)

// AuthorizationController fronts the token with Authentication Services.
// Only the platform-authenticator surface is implemented; a ceremony that
// offers no platform request is not handled.
type AuthorizationController struct {
	token *Token
}

// NewAuthorizationController wraps the token for use with the ios adapter.
func NewAuthorizationController(token *Token) *AuthorizationController {
	return &AuthorizationController{token: token}
}

// PerformRegistration runs a creation ceremony against the token.
func (c *AuthorizationController) PerformRegistration(ctx context.Context, requests *ios.RegistrationRequests) (*ios.Registration, error) {
	if requests == nil || requests.Platform == nil {
		return nil, &ios.AuthorizationError{Code: ios.AuthErrorNotHandled, Message: "no platform authenticator request was provided"}
	}
	platform := requests.Platform

	result, err := c.token.MakeCredential(ctx, MakeCredentialParams{
		RPID:             platform.RelyingPartyID,
		Origin:           webOrigin(platform.RelyingPartyID),
		Challenge:        platform.Challenge,
		UserID:           platform.UserID,
		UserName:         platform.Name,
		ExcludeIDs:       platform.ExcludedCredentialIDs,
		LargeBlobSupport: platform.LargeBlobSupport != "",
	})
	if err != nil {
		return nil, authorizationError(err)
	}

	registration := &ios.Registration{
		CredentialID:         result.CredentialID,
		RawAttestationObject: result.AttestationObject,
		RawClientDataJSON:    result.ClientDataJSON,
		Attachment:           contract.AttachmentPlatform,
	}
	if result.LargeBlobSupported {
		supported := true
		registration.LargeBlobSupported = &supported
	}
	return registration, nil
}

// PerformAssertion runs an assertion ceremony against the token.
func (c *AuthorizationController) PerformAssertion(ctx context.Context, requests *ios.AssertionRequests) (*ios.Assertion, error) {
	if requests == nil || requests.Platform == nil {
		return nil, &ios.AuthorizationError{Code: ios.AuthErrorNotHandled, Message: "no platform authenticator request was provided"}
	}
	platform := requests.Platform

	result, err := c.token.GetAssertion(ctx, GetAssertionParams{
		RPID:           platform.RelyingPartyID,
		Origin:         webOrigin(platform.RelyingPartyID),
		Challenge:      platform.Challenge,
		AllowIDs:       platform.AllowedCredentialIDs,
		LargeBlobRead:  platform.LargeBlobRead,
		LargeBlobWrite: platform.LargeBlobWrite,
	})
	if err != nil {
		return nil, authorizationError(err)
	}

	return &ios.Assertion{
		CredentialID:         result.CredentialID,
		RawAuthenticatorData: result.AuthenticatorData,
		RawClientDataJSON:    result.ClientDataJSON,
		Signature:            result.Signature,
		UserID:               result.UserHandle,
		Attachment:           contract.AttachmentPlatform,
		LargeBlobData:        result.LargeBlob,
		LargeBlobWritten:     result.LargeBlobWritten,
	}, nil
}

// authorizationError maps token failures onto authorization error codes.
// The framework reports a missing credential as a dismissal, so that case
// carries the canceled code.
func authorizationError(err error) error {
	switch {
	case errors.Is(err, ErrCredentialExcluded):
		return &ios.AuthorizationError{Code: ios.AuthErrorMatchedExcludedCredential, Message: "an excluded credential already exists on this device"}
	case errors.Is(err, ErrNoCredential):
		return &ios.AuthorizationError{Code: ios.AuthErrorCanceled, Message: "the ceremony was dismissed"}
	case errors.Is(err, ErrUnsupportedAlgorithm):
		return &ios.AuthorizationError{Code: ios.AuthErrorNotHandled, Message: "no requested algorithm is available"}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &ios.AuthorizationError{Code: ios.AuthErrorCanceled, Message: "the ceremony was aborted"}
	default:
		return err
	}
}
