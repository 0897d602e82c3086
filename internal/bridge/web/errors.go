package web

import (
	"errors"

	"github.com/louisbranch/passkey-bridge/internal/bridge/contract"
)

// DOMException mirrors a browser DOMException raised by the credential API.
type DOMException struct {
	Name    string
	Message string
}

func (e *DOMException) Error() string {
	if e.Message == "" {
		return e.Name
	}
	return e.Name + ": " + e.Message
}

// DOMException names the credential API commonly raises.
const (
	DOMErrAbort        = "AbortError"
	DOMErrNotAllowed   = "NotAllowedError"
	DOMErrTimeout      = "TimeoutError"
	DOMErrNotSupported = "NotSupportedError"
	DOMErrInvalidState = "InvalidStateError"
	DOMErrSecurity     = "SecurityError"
)

// mapNativeError translates a navigator failure into the contract
// vocabulary. The mapping is pure: the same DOMException name always yields
// the same code. Browsers report both user dismissal and a missing
// credential as NotAllowedError, so no web failure maps to NO_CREDENTIAL.
func mapNativeError(err error) error {
	var domErr *DOMException
	if !errors.As(err, &domErr) {
		return contract.Wrap(contract.CodeUnknown, "native ceremony failed", err)
	}
	switch domErr.Name {
	case DOMErrAbort, DOMErrNotAllowed:
		return contract.Wrap(contract.CodeCancelled, "ceremony was dismissed", err)
	case DOMErrTimeout:
		return contract.Wrap(contract.CodeTimeout, "native ceremony timed out", err)
	case DOMErrNotSupported:
		return contract.Wrap(contract.CodeUnsupported, "operation is not supported on this device", err)
	default:
		return contract.WrapWithMetadata(contract.CodeDOM, "credential API raised "+domErr.Name,
			map[string]string{"dom_error": domErr.Name}, err)
	}
}
