package contract

import "testing"

func validCreationRequest() *CreationRequest {
	return &CreationRequest{
		RP:        RelyingParty{ID: "example.com", Name: "Test RP"},
		User:      User{ID: "dXNlci1pZA", Name: "user@example.com", DisplayName: "Test User"},
		Challenge: "Y2hhbGxlbmdl",
		PubKeyCredParams: []CredentialParameter{
			{Type: CredentialTypePublicKey, Alg: AlgES256},
		},
	}
}

func validAssertionRequest() *AssertionRequest {
	return &AssertionRequest{
		RPID:      "example.com",
		Challenge: "Y2hhbGxlbmdl",
	}
}

func TestValidateCreation_Valid(t *testing.T) {
	if err := ValidateCreation(validCreationRequest()); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateCreation_MissingUserID(t *testing.T) {
	req := validCreationRequest()
	req.User.ID = ""

	err := ValidateCreation(req)
	if !IsCode(err, CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
	if GetMetadata(err)["field"] != "user.id" {
		t.Fatalf("expected user.id field metadata, got %v", GetMetadata(err))
	}
}

func TestValidateCreation_MissingChallenge(t *testing.T) {
	req := validCreationRequest()
	req.Challenge = ""

	if err := ValidateCreation(req); !IsCode(err, CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestValidateCreation_ChallengeOutsideAlphabet(t *testing.T) {
	req := validCreationRequest()
	req.Challenge = "!!!invalid!!!"

	if err := ValidateCreation(req); !IsCode(err, CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestValidateCreation_MissingRPID(t *testing.T) {
	req := validCreationRequest()
	req.RP.ID = ""

	if err := ValidateCreation(req); !IsCode(err, CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestValidateCreation_RPIDNotBareDomain(t *testing.T) {
	for _, rpID := range []string{
		"https://example.com",
		"example.com/path",
		"example.com:8080",
		"example com",
		".example.com",
		"example..com",
	} {
		req := validCreationRequest()
		req.RP.ID = rpID
		if err := ValidateCreation(req); !IsCode(err, CodeInvalidInput) {
			t.Fatalf("expected INVALID_INPUT for %q, got %v", rpID, err)
		}
	}
}

func TestValidateCreation_RPIDPublicSuffix(t *testing.T) {
	for _, rpID := range []string{"com", "co.uk"} {
		req := validCreationRequest()
		req.RP.ID = rpID
		if err := ValidateCreation(req); !IsCode(err, CodeInvalidInput) {
			t.Fatalf("expected INVALID_INPUT for %q, got %v", rpID, err)
		}
	}
}

func TestValidateCreation_RPIDLocalhost(t *testing.T) {
	req := validCreationRequest()
	req.RP.ID = "localhost"

	if err := ValidateCreation(req); err != nil {
		t.Fatalf("localhost should pass validation: %v", err)
	}
}

func TestValidateCreation_UnknownAttachment(t *testing.T) {
	req := validCreationRequest()
	req.AuthenticatorSelection = &AuthenticatorSelection{AuthenticatorAttachment: "hardware"}

	if err := ValidateCreation(req); !IsCode(err, CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestValidateCreation_UnknownUserVerification(t *testing.T) {
	req := validCreationRequest()
	req.AuthenticatorSelection = &AuthenticatorSelection{UserVerification: "mandatory"}

	if err := ValidateCreation(req); !IsCode(err, CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestValidateCreation_UnknownAttestation(t *testing.T) {
	req := validCreationRequest()
	req.Attestation = "full"

	if err := ValidateCreation(req); !IsCode(err, CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestValidateCreation_UnknownTransportsAllowed(t *testing.T) {
	req := validCreationRequest()
	req.ExcludeCredentials = []CredentialDescriptor{
		{Type: CredentialTypePublicKey, ID: "Y3JlZA", Transports: []string{"carrier-pigeon", "usb"}},
	}

	if err := ValidateCreation(req); err != nil {
		t.Fatalf("unknown transports are filtered by adapters, not rejected: %v", err)
	}
}

func TestValidateCreation_ExcludeCredentialBadID(t *testing.T) {
	req := validCreationRequest()
	req.ExcludeCredentials = []CredentialDescriptor{
		{Type: CredentialTypePublicKey, ID: "not valid!"},
	}

	if err := ValidateCreation(req); !IsCode(err, CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestValidateCreation_NegativeTimeout(t *testing.T) {
	req := validCreationRequest()
	req.Timeout = -1

	if err := ValidateCreation(req); !IsCode(err, CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestValidateAssertion_Valid(t *testing.T) {
	if err := ValidateAssertion(validAssertionRequest()); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateAssertion_MissingRPID(t *testing.T) {
	req := validAssertionRequest()
	req.RPID = ""

	if err := ValidateAssertion(req); !IsCode(err, CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestValidateAssertion_MissingChallenge(t *testing.T) {
	req := validAssertionRequest()
	req.Challenge = ""

	if err := ValidateAssertion(req); !IsCode(err, CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestValidateAssertion_LargeBlobReadWriteExclusive(t *testing.T) {
	req := validAssertionRequest()
	req.Extensions = &AssertionExtensions{
		LargeBlob: &LargeBlobAssertion{Read: true, Write: "YmxvYg"},
	}

	if err := ValidateAssertion(req); !IsCode(err, CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestValidateAssertion_LargeBlobWriteBadEncoding(t *testing.T) {
	req := validAssertionRequest()
	req.Extensions = &AssertionExtensions{
		LargeBlob: &LargeBlobAssertion{Write: "not base64url!"},
	}

	if err := ValidateAssertion(req); !IsCode(err, CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}
