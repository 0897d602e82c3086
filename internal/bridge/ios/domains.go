package ios

import (
	"strings"

	"github.com/louisbranch/passkey-bridge/internal/bridge/contract"
)

// validateDomain checks the relying party against the associated
// web-credential domains. The relying party must equal a configured domain
// or be a subdomain of one. No configured domains means the check is
// disabled, so local development works without a site association file.
func (a *Adapter) validateDomain(rpID string) error {
	if len(a.domains) == 0 {
		return nil
	}
	for _, domain := range a.domains {
		if rpID == domain || strings.HasSuffix(rpID, "."+domain) {
			return nil
		}
	}
	return contract.WithMetadata(contract.CodeRPIDValidation,
		"relying party is not an associated web-credential domain",
		map[string]string{"rp_id": rpID})
}
