// Package branding centralizes user-facing product naming.
package branding

// AppName is the product name shown in page titles and log banners.
const AppName = "Passkey Bridge"
