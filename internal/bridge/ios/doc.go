// Package ios bridges contract operations onto Authentication Services.
// A single ceremony may hand the authorization controller up to two native
// requests, one for the platform authenticator and one for security keys,
// and the OS decides which surface to present. The adapter also enforces
// the associated web-credential domains the host application declared.
package ios
