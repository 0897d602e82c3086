package contract

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorWrapPreservesCause(t *testing.T) {
	cause := errors.New("native failure")
	err := Wrap(CodeUnknown, "ceremony failed", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable")
	}
	if err.Error() != "ceremony failed" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestErrorIsMatchesByCode(t *testing.T) {
	err := New(CodeTimeout, "ceremony expired")

	if !errors.Is(err, &Error{Code: CodeTimeout}) {
		t.Fatal("expected code match")
	}
	if errors.Is(err, &Error{Code: CodeCancelled}) {
		t.Fatal("expected code mismatch")
	}
}

func TestGetCodeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", New(CodeNoCredential, "no stored credential matched"))

	if got := GetCode(err); got != CodeNoCredential {
		t.Fatalf("expected NO_CREDENTIAL, got %s", got)
	}
	if !IsCode(err, CodeNoCredential) {
		t.Fatal("expected IsCode to match through wrapping")
	}
}

func TestGetCodeUnknownForPlainErrors(t *testing.T) {
	if got := GetCode(errors.New("plain")); got != CodeUnknown {
		t.Fatalf("expected UNKNOWN_ERROR, got %s", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeInvalidInput:   http.StatusBadRequest,
		CodeRPIDValidation: http.StatusBadRequest,
		CodeCancelled:      http.StatusBadRequest,
		CodeNoCredential:   http.StatusNotFound,
		CodeTimeout:        http.StatusRequestTimeout,
		CodeUnsupported:    http.StatusNotImplemented,
		CodeDOM:            http.StatusInternalServerError,
		CodeUnknown:        http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := code.HTTPStatus(); got != want {
			t.Fatalf("%s: expected %d, got %d", code, want, got)
		}
	}
}

func TestEffectiveTimeout(t *testing.T) {
	if got := EffectiveTimeout(0); got.Milliseconds() != DefaultTimeoutMillis {
		t.Fatalf("expected default timeout, got %v", got)
	}
	if got := EffectiveTimeout(1500); got.Milliseconds() != 1500 {
		t.Fatalf("expected 1500ms, got %v", got)
	}
}
