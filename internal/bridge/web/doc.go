// Package web adapts the contract operations onto the browser credential
// API. The native request and response shapes are go-webauthn's protocol
// types, which mirror navigator.credentials exactly; native failures arrive
// as DOMException values and are mapped into the shared error vocabulary.
package web
