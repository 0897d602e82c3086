package i18n

// Error codes must match the codes defined in internal/bridge/contract.
// These are duplicated as strings to keep platform packages free of
// bridge imports.
const (
	CodeUnknown        = "UNKNOWN_ERROR"
	CodeCancelled      = "CANCELLED"
	CodeDOM            = "DOM_ERROR"
	CodeUnsupported    = "UNSUPPORTED_ERROR"
	CodeTimeout        = "TIMEOUT"
	CodeNoCredential   = "NO_CREDENTIAL"
	CodeInvalidInput   = "INVALID_INPUT"
	CodeRPIDValidation = "RPID_VALIDATION_ERROR"
)

var enUSCatalog = &Catalog{
	locale: "en-US",
	messages: map[Code]string{
		CodeUnknown:        "Something went wrong while talking to the authenticator",
		CodeCancelled:      "The passkey request was cancelled",
		CodeDOM:            "The authenticator rejected the request{{if .dom_error}} ({{.dom_error}}){{end}}",
		CodeUnsupported:    "Passkeys are not supported on this device",
		CodeTimeout:        "The passkey request timed out",
		CodeNoCredential:   "No passkey is available for this account",
		CodeInvalidInput:   "The request is missing required fields",
		CodeRPIDValidation: "This app is not authorized for the requested site",
	},
}
