package requestctx

import (
	"context"
	"testing"
)

func TestRequestIDFromContextRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-42")
	got := RequestIDFromContext(ctx)
	if got != "req-42" {
		t.Fatalf("RequestIDFromContext = %q, want %q", got, "req-42")
	}
}

func TestRequestIDFromContextEmpty(t *testing.T) {
	got := RequestIDFromContext(context.Background())
	if got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestRequestIDFromContextNil(t *testing.T) {
	got := RequestIDFromContext(nil)
	if got != "" {
		t.Fatalf("expected empty string for nil context, got %q", got)
	}
}

func TestWithRequestIDNilContext(t *testing.T) {
	ctx := WithRequestID(nil, "req-99")
	if ctx == nil {
		t.Fatalf("expected non-nil context")
	}
	if got := RequestIDFromContext(ctx); got != "req-99" {
		t.Fatalf("RequestIDFromContext = %q, want %q", got, "req-99")
	}
}

func TestIsPrintableASCII(t *testing.T) {
	cases := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "plain id", value: "h4x9mz2kq", want: true},
		{name: "empty", value: "", want: false},
		{name: "control character", value: "req\nid", want: false},
		{name: "non ascii", value: "réq", want: false},
		{name: "spaces allowed", value: "req id", want: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsPrintableASCII(tc.value); got != tc.want {
				t.Fatalf("IsPrintableASCII(%q) = %v, want %v", tc.value, got, tc.want)
			}
		})
	}
}
