package softtoken

import (
	"encoding/json"
	"fmt"

	"github.com/louisbranch/passkey-bridge/internal/bridge/contract"
)

// WebAuthn ceremony type markers.
const (
	ceremonyCreate = "webauthn.create"
	ceremonyGet    = "webauthn.get"
)

type clientData struct {
	Type        string `json:"type"`
	Challenge   string `json:"challenge"`
	Origin      string `json:"origin"`
	CrossOrigin bool   `json:"crossOrigin"`
}

// buildClientDataJSON serializes the client data a relying party verifies,
// with the challenge in base64url.
func buildClientDataJSON(ceremony string, challenge []byte, origin string) ([]byte, error) {
	raw, err := json.Marshal(clientData{
		Type:        ceremony,
		Challenge:   contract.EncodeBase64URL(challenge),
		Origin:      origin,
		CrossOrigin: false,
	})
	if err != nil {
		return nil, fmt.Errorf("encode client data: %w", err)
	}
	return raw, nil
}
