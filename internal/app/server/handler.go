package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/louisbranch/passkey-bridge/internal/bridge"
	"github.com/louisbranch/passkey-bridge/internal/bridge/contract"
	"github.com/louisbranch/passkey-bridge/internal/platform/branding"
	"github.com/louisbranch/passkey-bridge/internal/platform/i18n"
	"github.com/louisbranch/passkey-bridge/internal/platform/id"
	"github.com/louisbranch/passkey-bridge/internal/platform/requestctx"
)

// Bridges holds one configured bridge per platform adapter.
type Bridges struct {
	Web     *bridge.Bridge
	Android *bridge.Bridge
	IOS     *bridge.Bridge
}

// PlatformParam selects which platform adapter serves a credential request.
const PlatformParam = "platform"

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// NewHandler creates the JSON routes over the supplied bridges.
func NewHandler(bridges Bridges) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(indexHTML)
	})

	mux.HandleFunc("/up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"service": branding.AppName,
		})
	})

	mux.HandleFunc("/v1/credentials/create", func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}
		r = ensureRequestID(w, r)
		b, err := bridges.forRequest(r)
		if err != nil {
			writeJSONError(w, r, err)
			return
		}

		var req contract.CreationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, r, contract.New(contract.CodeInvalidInput, "request body is not valid JSON"))
			return
		}

		result, err := b.CreatePasskey(r.Context(), &req)
		if err != nil {
			writeJSONError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	})

	mux.HandleFunc("/v1/credentials/get", func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}
		r = ensureRequestID(w, r)
		b, err := bridges.forRequest(r)
		if err != nil {
			writeJSONError(w, r, err)
			return
		}

		var req contract.AssertionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, r, contract.New(contract.CodeInvalidInput, "request body is not valid JSON"))
			return
		}

		result, err := b.Authenticate(r.Context(), &req)
		if err != nil {
			writeJSONError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	})

	return mux
}

// forRequest picks the bridge named by the platform query parameter.
// An absent parameter selects the web bridge.
func (b Bridges) forRequest(r *http.Request) (*bridge.Bridge, error) {
	platform := strings.TrimSpace(r.URL.Query().Get(PlatformParam))
	switch platform {
	case "", "web":
		if b.Web == nil {
			return nil, contract.New(contract.CodeUnsupported, "web platform is not configured")
		}
		return b.Web, nil
	case "android":
		if b.Android == nil {
			return nil, contract.New(contract.CodeUnsupported, "android platform is not configured")
		}
		return b.Android, nil
	case "ios":
		if b.IOS == nil {
			return nil, contract.New(contract.CodeUnsupported, "ios platform is not configured")
		}
		return b.IOS, nil
	default:
		return nil, contract.WithMetadata(contract.CodeInvalidInput,
			"platform must be web, android, or ios",
			map[string]string{"platform": platform})
	}
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// ensureRequestID attaches a correlation ID to the request context and echoes
// it on the response. An inherited ID is kept when printable ASCII, otherwise
// a fresh one is generated so ceremony logs always correlate.
func ensureRequestID(w http.ResponseWriter, r *http.Request) *http.Request {
	requestID := r.Header.Get(requestctx.RequestIDHeader)
	if !requestctx.IsPrintableASCII(requestID) {
		generated, err := id.NewID()
		if err != nil {
			return r
		}
		requestID = generated
	}
	w.Header().Set(requestctx.RequestIDHeader, requestID)
	return r.WithContext(requestctx.WithRequestID(r.Context(), requestID))
}

// writeJSON writes JSON responses with a consistent content type.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	_ = encoder.Encode(payload)
}

// writeJSONError maps a bridge error to its HTTP status and writes the flat
// error body with a description localized from the Accept-Language header.
func writeJSONError(w http.ResponseWriter, r *http.Request, err error) {
	code := contract.GetCode(err)
	catalog := i18n.GetCatalog(i18n.ResolveLocale(r))
	writeJSON(w, code.HTTPStatus(), errorResponse{
		Error:            string(code),
		ErrorDescription: catalog.Format(string(code), contract.GetMetadata(err)),
	})
}
