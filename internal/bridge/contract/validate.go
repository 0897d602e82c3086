package contract

import (
	"fmt"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// ValidateCreation rejects a malformed creation request before any native
// API is involved. Violations carry CodeInvalidInput and name the offending
// field without echoing its value.
func ValidateCreation(req *CreationRequest) error {
	if req == nil {
		return New(CodeInvalidInput, "creation request is required")
	}
	if err := validateRPID("rp.id", req.RP.ID); err != nil {
		return err
	}
	if req.User.ID == "" {
		return invalidInput("user.id", "user.id is required")
	}
	if err := validateBase64URLField("user.id", req.User.ID); err != nil {
		return err
	}
	if err := validateChallenge(req.Challenge); err != nil {
		return err
	}
	for i, param := range req.PubKeyCredParams {
		field := fmt.Sprintf("pubKeyCredParams[%d]", i)
		if param.Type != CredentialTypePublicKey {
			return invalidInput(field+".type", field+".type must be \"public-key\"")
		}
		if param.Alg == 0 {
			return invalidInput(field+".alg", field+".alg is required")
		}
	}
	if err := validateDescriptors("excludeCredentials", req.ExcludeCredentials); err != nil {
		return err
	}
	if sel := req.AuthenticatorSelection; sel != nil {
		if err := validateEnum("authenticatorSelection.authenticatorAttachment", sel.AuthenticatorAttachment,
			AttachmentPlatform, AttachmentCrossPlatform); err != nil {
			return err
		}
		if err := validateEnum("authenticatorSelection.residentKey", sel.ResidentKey,
			PreferenceDiscouraged, PreferencePreferred, PreferenceRequired); err != nil {
			return err
		}
		if err := validateEnum("authenticatorSelection.userVerification", sel.UserVerification,
			PreferenceDiscouraged, PreferencePreferred, PreferenceRequired); err != nil {
			return err
		}
	}
	if err := validateEnum("attestation", req.Attestation,
		AttestationNone, AttestationIndirect, AttestationDirect, AttestationEnterprise); err != nil {
		return err
	}
	if req.Timeout < 0 {
		return invalidInput("timeout", "timeout must not be negative")
	}
	if ext := req.Extensions; ext != nil && ext.LargeBlob != nil {
		if err := validateEnum("extensions.largeBlob.support", ext.LargeBlob.Support,
			PreferencePreferred, PreferenceRequired); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAssertion rejects a malformed assertion request before any native
// API is involved.
func ValidateAssertion(req *AssertionRequest) error {
	if req == nil {
		return New(CodeInvalidInput, "assertion request is required")
	}
	if err := validateRPID("rpId", req.RPID); err != nil {
		return err
	}
	if err := validateChallenge(req.Challenge); err != nil {
		return err
	}
	if err := validateDescriptors("allowCredentials", req.AllowCredentials); err != nil {
		return err
	}
	if err := validateEnum("userVerification", req.UserVerification,
		PreferenceDiscouraged, PreferencePreferred, PreferenceRequired); err != nil {
		return err
	}
	if req.Timeout < 0 {
		return invalidInput("timeout", "timeout must not be negative")
	}
	if ext := req.Extensions; ext != nil && ext.LargeBlob != nil {
		if ext.LargeBlob.Read && ext.LargeBlob.Write != "" {
			return invalidInput("extensions.largeBlob", "extensions.largeBlob.read and write are mutually exclusive")
		}
		if ext.LargeBlob.Write != "" {
			if err := validateBase64URLField("extensions.largeBlob.write", ext.LargeBlob.Write); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateChallenge(challenge string) error {
	if challenge == "" {
		return invalidInput("challenge", "challenge is required")
	}
	return validateBase64URLField("challenge", challenge)
}

// validateRPID checks that the relying-party identifier is a bare domain
// name. Identifiers that are themselves an ICANN public suffix ("com",
// "co.uk") are rejected; non-ICANN names like "localhost" stay usable for
// development.
func validateRPID(field, value string) error {
	if value == "" {
		return invalidInput(field, field+" is required")
	}
	if strings.ContainsAny(value, " \t/\\:?#@") {
		return invalidInput(field, field+" must be a bare domain name")
	}
	if strings.HasPrefix(value, ".") || strings.HasSuffix(value, ".") || strings.Contains(value, "..") {
		return invalidInput(field, field+" must be a bare domain name")
	}
	host := strings.ToLower(value)
	if suffix, icann := publicsuffix.PublicSuffix(host); icann && suffix == host {
		return invalidInput(field, field+" must be a registrable domain, not a public suffix")
	}
	return nil
}

func validateDescriptors(field string, descriptors []CredentialDescriptor) error {
	for i, desc := range descriptors {
		entry := fmt.Sprintf("%s[%d]", field, i)
		if desc.Type != CredentialTypePublicKey {
			return invalidInput(entry+".type", entry+".type must be \"public-key\"")
		}
		if desc.ID == "" {
			return invalidInput(entry+".id", entry+".id is required")
		}
		if err := validateBase64URLField(entry+".id", desc.ID); err != nil {
			return err
		}
	}
	return nil
}

func validateBase64URLField(field, value string) error {
	if _, err := DecodeBase64URL(value); err != nil {
		return WrapWithMetadata(CodeInvalidInput, field+" is not valid base64url",
			map[string]string{"field": field}, err)
	}
	return nil
}

// validateEnum accepts an empty value (the field was omitted) and otherwise
// requires one of the allowed spellings.
func validateEnum(field, value string, allowed ...string) error {
	if value == "" {
		return nil
	}
	for _, candidate := range allowed {
		if value == candidate {
			return nil
		}
	}
	return invalidInput(field, field+" has an unknown value")
}

func invalidInput(field, message string) *Error {
	return WithMetadata(CodeInvalidInput, message, map[string]string{"field": field})
}
