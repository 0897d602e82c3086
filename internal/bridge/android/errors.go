package android

import (
	"errors"
	"strings"

	"github.com/louisbranch/passkey-bridge/internal/bridge/contract"
)

// Exception mirrors a Credential Manager exception. Type carries the
// framework type constant; WebAuthn-level failures append the DOM error name
// after a slash, e.g.
// "androidx.credentials.TYPE_GET_PUBLIC_KEY_CREDENTIAL_DOM_EXCEPTION/NotAllowedError".
type Exception struct {
	Type    string
	Message string
}

func (e *Exception) Error() string {
	if e.Message == "" {
		return e.Type
	}
	return e.Type + ": " + e.Message
}

// Credential Manager exception type constants.
const (
	TypeCreateCancelled             = "android.credentials.CreateCredentialException.TYPE_USER_CANCELED"
	TypeCreateInterrupted           = "android.credentials.CreateCredentialException.TYPE_INTERRUPTED"
	TypeCreateUnknown               = "android.credentials.CreateCredentialException.TYPE_UNKNOWN"
	TypeCreateProviderConfiguration = "androidx.credentials.TYPE_CREATE_CREDENTIAL_PROVIDER_CONFIGURATION_EXCEPTION"
	TypeCreateUnsupported           = "androidx.credentials.TYPE_CREATE_CREDENTIAL_UNSUPPORTED_EXCEPTION"
	TypeCreateDOM                   = "androidx.credentials.TYPE_CREATE_PUBLIC_KEY_CREDENTIAL_DOM_EXCEPTION"

	TypeGetCancelled             = "android.credentials.GetCredentialException.TYPE_USER_CANCELED"
	TypeGetInterrupted           = "android.credentials.GetCredentialException.TYPE_INTERRUPTED"
	TypeGetUnknown               = "android.credentials.GetCredentialException.TYPE_UNKNOWN"
	TypeGetProviderConfiguration = "androidx.credentials.TYPE_GET_CREDENTIAL_PROVIDER_CONFIGURATION_EXCEPTION"
	TypeGetUnsupported           = "androidx.credentials.TYPE_GET_CREDENTIAL_UNSUPPORTED_EXCEPTION"
	TypeGetDOM                   = "androidx.credentials.TYPE_GET_PUBLIC_KEY_CREDENTIAL_DOM_EXCEPTION"
	TypeNoCredential             = "android.credentials.GetCredentialException.TYPE_NO_CREDENTIAL"
)

// mapNativeError translates a Credential Manager failure into the contract
// vocabulary. The mapping is pure: the same exception type always yields the
// same code. Interrupted ceremonies have no contract equivalent and fall
// through to UNKNOWN_ERROR rather than masquerading as a dismissal.
func mapNativeError(err error) error {
	var exc *Exception
	if !errors.As(err, &exc) {
		return contract.Wrap(contract.CodeUnknown, "native ceremony failed", err)
	}
	base, domName, hasDOM := strings.Cut(exc.Type, "/")
	switch base {
	case TypeCreateCancelled, TypeGetCancelled:
		return contract.Wrap(contract.CodeCancelled, "ceremony was dismissed", err)
	case TypeNoCredential:
		return contract.Wrap(contract.CodeNoCredential, "no stored credential matches the request", err)
	case TypeCreateUnsupported, TypeGetUnsupported,
		TypeCreateProviderConfiguration, TypeGetProviderConfiguration:
		return contract.Wrap(contract.CodeUnsupported, "operation is not supported on this device", err)
	case TypeCreateDOM, TypeGetDOM:
		if hasDOM {
			return mapDOMName(domName, err)
		}
		return contract.Wrap(contract.CodeDOM, "credential provider raised a protocol error", err)
	default:
		return contract.Wrap(contract.CodeUnknown, "native ceremony failed", err)
	}
}

// mapDOMName classifies the DOM error the provider forwarded. The switch
// matches the web adapter's outcome for the same name, which keeps the
// contract meaningful across platforms.
func mapDOMName(name string, err error) error {
	switch name {
	case "AbortError", "NotAllowedError":
		return contract.Wrap(contract.CodeCancelled, "ceremony was dismissed", err)
	case "TimeoutError":
		return contract.Wrap(contract.CodeTimeout, "native ceremony timed out", err)
	case "NotSupportedError":
		return contract.Wrap(contract.CodeUnsupported, "operation is not supported on this device", err)
	default:
		return contract.WrapWithMetadata(contract.CodeDOM, "credential provider raised "+name,
			map[string]string{"dom_error": name}, err)
	}
}
