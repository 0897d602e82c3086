// Package contract defines the wire contract shared by every platform
// adapter: the request and response entities for credential creation and
// assertion, the base64url codec used for binary fields, the standardized
// error-code vocabulary, and the request validator that runs before any
// native credential API is invoked.
//
// The contract is the only thing the platform adapters share. Cross-platform
// consistency comes from each adapter independently matching these shapes,
// not from shared runtime behavior.
package contract
