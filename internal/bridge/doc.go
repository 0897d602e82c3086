// Package bridge exposes native passkey operations through one unified
// facade. The facade validates contract requests, hands them to a platform
// adapter, and races each native ceremony against a timeout. All translation
// to and from native shapes lives in the adapter packages; the facade itself
// is platform-agnostic.
package bridge
