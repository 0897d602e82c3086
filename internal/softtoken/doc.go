// Package softtoken is a software authenticator for development and tests.
// One P-256 credential core backs fronts for all three native credential
// APIs, so every adapter has a real end-to-end path without platform
// hardware.
//
// The token is not a production authenticator. Keys live in a local store,
// user presence and verification are implied, and attestation is always
// "none".
package softtoken
