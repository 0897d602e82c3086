package ios

import (
	"errors"
	"fmt"

	"github.com/louisbranch/passkey-bridge/internal/bridge/contract"
)

// AuthorizationError mirrors an Authentication Services authorization
// error. Code carries the framework's numeric error code.
type AuthorizationError struct {
	Code    int
	Message string
}

func (e *AuthorizationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("authorization error %d", e.Code)
	}
	return fmt.Sprintf("authorization error %d: %s", e.Code, e.Message)
}

// Authorization error codes.
const (
	AuthErrorUnknown                   = 1000
	AuthErrorCanceled                  = 1001
	AuthErrorInvalidResponse           = 1002
	AuthErrorNotHandled                = 1003
	AuthErrorFailed                    = 1004
	AuthErrorNotInteractive            = 1005
	AuthErrorMatchedExcludedCredential = 1006
)

// mapNativeError translates an authorization failure into the contract
// vocabulary. The mapping is pure: the same error code always yields the
// same contract code.
func mapNativeError(err error) error {
	var authErr *AuthorizationError
	if !errors.As(err, &authErr) {
		return contract.Wrap(contract.CodeUnknown, "native ceremony failed", err)
	}
	switch authErr.Code {
	case AuthErrorCanceled:
		return contract.Wrap(contract.CodeCancelled, "ceremony was dismissed", err)
	case AuthErrorInvalidResponse:
		return contract.Wrap(contract.CodeDOM, "authorization produced an invalid credential response", err)
	case AuthErrorNotHandled:
		return contract.Wrap(contract.CodeUnsupported, "operation is not supported on this device", err)
	case AuthErrorMatchedExcludedCredential:
		return contract.Wrap(contract.CodeDOM, "an excluded credential already exists on this device", err)
	default:
		return contract.Wrap(contract.CodeUnknown, "native ceremony failed", err)
	}
}
