package contract

// Code is a machine-readable error code. The vocabulary is identical across
// the web, android, and ios adapters; each adapter maps its native failures
// into these codes and nothing else.
type Code string

const (
	// CodeUnknown represents an unclassified failure, including native
	// results that violate the platform contract.
	CodeUnknown Code = "UNKNOWN_ERROR"

	// CodeCancelled represents a user dismissing the credential ceremony,
	// or the caller abandoning it.
	CodeCancelled Code = "CANCELLED"

	// CodeDOM represents a WebAuthn protocol exception not otherwise
	// classified.
	CodeDOM Code = "DOM_ERROR"

	// CodeUnsupported represents an operation this device or OS version
	// cannot perform.
	CodeUnsupported Code = "UNSUPPORTED_ERROR"

	// CodeTimeout represents an expired ceremony, whether from the bridge's
	// own timer or a native timeout.
	CodeTimeout Code = "TIMEOUT"

	// CodeNoCredential represents an assertion for which no stored
	// credential matched.
	CodeNoCredential Code = "NO_CREDENTIAL"

	// CodeInvalidInput represents a request rejected by validation before
	// any native call was made.
	CodeInvalidInput Code = "INVALID_INPUT"

	// CodeRPIDValidation represents a relying-party identifier rejected by
	// the platform's associated-domain configuration.
	CodeRPIDValidation Code = "RPID_VALIDATION_ERROR"
)
