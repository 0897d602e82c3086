package softtoken

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"strings"

	"github.com/louisbranch/passkey-bridge/internal/bridge/android"
	"github.com/louisbranch/passkey-bridge/internal/bridge/contract"
)

// CredentialManager fronts the token with the Credential Manager API:
// WebAuthn JSON in, WebAuthn JSON out, exceptions typed the way the
// framework types them.
type CredentialManager struct {
	token  *Token
	origin string
}

// NewCredentialManager wraps the token for use with the android adapter.
// apkKeyHash is the base64url SHA-256 fingerprint of the calling app's
// signing certificate; when empty, a fingerprint derived from a fixed
// development certificate seed is used.
func NewCredentialManager(token *Token, apkKeyHash string) *CredentialManager {
	if strings.TrimSpace(apkKeyHash) == "" {
		sum := sha256.Sum256([]byte("passkey-bridge dev signing certificate"))
		apkKeyHash = contract.EncodeBase64URL(sum[:])
	}
	return &CredentialManager{token: token, origin: "android:apk-key-hash:" + apkKeyHash}
}

// CreateCredential runs a creation ceremony against the token.
func (m *CredentialManager) CreateCredential(ctx context.Context, req *android.CreateRequest) (*android.CreateResponse, error) {
	var options contract.CreationRequest
	if err := json.Unmarshal([]byte(req.RequestJSON), &options); err != nil {
		return nil, &android.Exception{Type: android.TypeCreateUnknown, Message: "request json did not parse"}
	}
	challenge, err := contract.DecodeBase64URL(options.Challenge)
	if err != nil {
		return nil, &android.Exception{Type: android.TypeCreateUnknown, Message: "challenge is not valid base64url"}
	}
	userID, err := contract.DecodeBase64URL(options.User.ID)
	if err != nil {
		return nil, &android.Exception{Type: android.TypeCreateUnknown, Message: "user id is not valid base64url"}
	}
	algorithms := make([]int, 0, len(options.PubKeyCredParams))
	for _, param := range options.PubKeyCredParams {
		algorithms = append(algorithms, param.Alg)
	}
	excludeIDs, err := decodeDescriptorIDs(options.ExcludeCredentials)
	if err != nil {
		return nil, &android.Exception{Type: android.TypeCreateUnknown, Message: "exclude list id is not valid base64url"}
	}
	largeBlob := options.Extensions != nil && options.Extensions.LargeBlob != nil && options.Extensions.LargeBlob.Support != ""

	result, err := m.token.MakeCredential(ctx, MakeCredentialParams{
		RPID:             options.RP.ID,
		Origin:           m.origin,
		Challenge:        challenge,
		UserID:           userID,
		UserName:         options.User.Name,
		Algorithms:       algorithms,
		ExcludeIDs:       excludeIDs,
		LargeBlobSupport: largeBlob,
	})
	if err != nil {
		return nil, createException(err)
	}

	id := contract.EncodeBase64URL(result.CredentialID)
	registration := contract.CreationResult{
		ID:                      id,
		RawID:                   id,
		Type:                    contract.CredentialTypePublicKey,
		AuthenticatorAttachment: contract.AttachmentPlatform,
		Response: contract.AttestationResponse{
			AttestationObject: contract.EncodeBase64URL(result.AttestationObject),
			ClientDataJSON:    contract.EncodeBase64URL(result.ClientDataJSON),
		},
	}
	if result.LargeBlobSupported {
		registration.ClientExtensionResults = &contract.CreationExtensionOutputs{
			LargeBlob: &contract.LargeBlobCreationOutput{Supported: true},
		}
	}
	raw, err := json.Marshal(registration)
	if err != nil {
		return nil, &android.Exception{Type: android.TypeCreateUnknown, Message: "registration response did not serialize"}
	}
	return &android.CreateResponse{RegistrationResponseJSON: string(raw)}, nil
}

// GetCredential runs an assertion ceremony against the token.
func (m *CredentialManager) GetCredential(ctx context.Context, req *android.GetRequest) (*android.GetResponse, error) {
	var options contract.AssertionRequest
	if err := json.Unmarshal([]byte(req.RequestJSON), &options); err != nil {
		return nil, &android.Exception{Type: android.TypeGetUnknown, Message: "request json did not parse"}
	}
	challenge, err := contract.DecodeBase64URL(options.Challenge)
	if err != nil {
		return nil, &android.Exception{Type: android.TypeGetUnknown, Message: "challenge is not valid base64url"}
	}
	allowIDs, err := decodeDescriptorIDs(options.AllowCredentials)
	if err != nil {
		return nil, &android.Exception{Type: android.TypeGetUnknown, Message: "allow list id is not valid base64url"}
	}
	var read bool
	var write []byte
	if options.Extensions != nil && options.Extensions.LargeBlob != nil {
		read = options.Extensions.LargeBlob.Read
		if options.Extensions.LargeBlob.Write != "" {
			write, err = contract.DecodeBase64URL(options.Extensions.LargeBlob.Write)
			if err != nil {
				return nil, &android.Exception{Type: android.TypeGetUnknown, Message: "large blob write is not valid base64url"}
			}
		}
	}

	result, err := m.token.GetAssertion(ctx, GetAssertionParams{
		RPID:           options.RPID,
		Origin:         m.origin,
		Challenge:      challenge,
		AllowIDs:       allowIDs,
		LargeBlobRead:  read,
		LargeBlobWrite: write,
	})
	if err != nil {
		return nil, getException(err)
	}

	id := contract.EncodeBase64URL(result.CredentialID)
	authentication := contract.AssertionResult{
		ID:                      id,
		RawID:                   id,
		Type:                    contract.CredentialTypePublicKey,
		AuthenticatorAttachment: contract.AttachmentPlatform,
		Response: contract.AssertionResponse{
			AuthenticatorData: contract.EncodeBase64URL(result.AuthenticatorData),
			ClientDataJSON:    contract.EncodeBase64URL(result.ClientDataJSON),
			Signature:         contract.EncodeBase64URL(result.Signature),
		},
	}
	if len(result.UserHandle) > 0 {
		authentication.Response.UserHandle = contract.EncodeBase64URL(result.UserHandle)
	}
	if output := contractBlobOutputs(result); output != nil {
		authentication.ClientExtensionResults = output
	}
	raw, err := json.Marshal(authentication)
	if err != nil {
		return nil, &android.Exception{Type: android.TypeGetUnknown, Message: "authentication response did not serialize"}
	}
	return &android.GetResponse{AuthenticationResponseJSON: string(raw)}, nil
}

func decodeDescriptorIDs(descriptors []contract.CredentialDescriptor) ([][]byte, error) {
	if len(descriptors) == 0 {
		return nil, nil
	}
	ids := make([][]byte, 0, len(descriptors))
	for _, descriptor := range descriptors {
		id, err := contract.DecodeBase64URL(descriptor.ID)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func contractBlobOutputs(result *GetAssertionResult) *contract.AssertionExtensionOutputs {
	output := &contract.LargeBlobAssertionOutput{}
	found := false
	if len(result.LargeBlob) > 0 {
		output.Blob = contract.EncodeBase64URL(result.LargeBlob)
		found = true
	}
	if result.LargeBlobWritten != nil {
		output.Written = *result.LargeBlobWritten
		found = true
	}
	if !found {
		return nil
	}
	return &contract.AssertionExtensionOutputs{LargeBlob: output}
}

// createException maps token failures onto create exception types, with
// WebAuthn-level failures carried as DOM exceptions.
func createException(err error) error {
	switch {
	case errors.Is(err, ErrCredentialExcluded):
		return &android.Exception{Type: android.TypeCreateDOM + "/InvalidStateError", Message: "a passkey already exists for this account"}
	case errors.Is(err, ErrUnsupportedAlgorithm):
		return &android.Exception{Type: android.TypeCreateDOM + "/NotSupportedError", Message: "no requested algorithm is available"}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &android.Exception{Type: android.TypeCreateCancelled, Message: "the ceremony was aborted"}
	default:
		return err
	}
}

// getException maps token failures onto get exception types. A missing
// credential is its own framework type rather than a DOM exception.
func getException(err error) error {
	switch {
	case errors.Is(err, ErrNoCredential):
		return &android.Exception{Type: android.TypeNoCredential, Message: "no passkey is available for this app"}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &android.Exception{Type: android.TypeGetCancelled, Message: "the ceremony was aborted"}
	default:
		return err
	}
}
