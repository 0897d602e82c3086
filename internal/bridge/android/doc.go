// Package android bridges contract operations onto Android's Credential
// Manager. Requests cross the native boundary as WebAuthn JSON strings and
// results come back the same way, so translation here is JSON
// canonicalization rather than struct mapping.
package android
