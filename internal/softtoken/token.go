package softtoken

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"errors"
	"fmt"
	"time"

	"github.com/louisbranch/passkey-bridge/internal/bridge/contract"
	"github.com/louisbranch/passkey-bridge/internal/softtoken/store"
)

// Failures the per-platform fronts translate into their native error
// vocabulary.
var (
	// ErrCredentialExcluded reports a creation whose exclude list matched a
	// credential the token already holds for that relying party.
	ErrCredentialExcluded = errors.New("credential already registered")

	// ErrNoCredential reports an assertion no stored credential can serve.
	ErrNoCredential = errors.New("no matching credential")

	// ErrUnsupportedAlgorithm reports a creation whose parameters exclude
	// ES256, the only algorithm the token implements.
	ErrUnsupportedAlgorithm = errors.New("no supported algorithm")
)

const credentialIDLength = 32

// Token is the authenticator core shared by the per-platform fronts.
type Token struct {
	store store.Store
	now   func() time.Time
}

// New creates a token over the given credential store.
func New(st store.Store) *Token {
	return &Token{store: st, now: time.Now}
}

// MakeCredentialParams describes one credential creation. Challenge and
// UserID are raw bytes; Origin is the platform-specific client data origin.
type MakeCredentialParams struct {
	RPID             string
	Origin           string
	Challenge        []byte
	UserID           []byte
	UserName         string
	Algorithms       []int
	ExcludeIDs       [][]byte
	LargeBlobSupport bool
}

// MakeCredentialResult carries the raw creation artifacts.
type MakeCredentialResult struct {
	CredentialID       []byte
	AttestationObject  []byte
	ClientDataJSON     []byte
	LargeBlobSupported bool
}

// MakeCredential registers a new resident P-256 credential and returns its
// attestation artifacts. An empty algorithm list accepts any algorithm.
func (t *Token) MakeCredential(ctx context.Context, params MakeCredentialParams) (*MakeCredentialResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if params.RPID == "" {
		return nil, fmt.Errorf("rp id is required")
	}
	if !supportsES256(params.Algorithms) {
		return nil, ErrUnsupportedAlgorithm
	}
	if err := t.checkExcluded(ctx, params.RPID, params.ExcludeIDs); err != nil {
		return nil, err
	}

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate credential key: %w", err)
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("encode credential key: %w", err)
	}

	credentialID := make([]byte, credentialIDLength)
	if _, err := rand.Read(credentialID); err != nil {
		return nil, fmt.Errorf("generate credential id: %w", err)
	}

	clientDataJSON, err := buildClientDataJSON(ceremonyCreate, params.Challenge, params.Origin)
	if err != nil {
		return nil, err
	}
	publicKey, err := encodeCOSEPublicKey(&key.PublicKey)
	if err != nil {
		return nil, err
	}
	authData := buildAuthenticatorData(params.RPID, creationFlags, 0, &attestedCredential{
		CredentialID: credentialID,
		PublicKey:    publicKey,
	})
	attestationObject, err := encodeNoneAttestation(authData)
	if err != nil {
		return nil, err
	}

	now := t.now().UTC()
	err = t.store.PutCredential(ctx, store.Credential{
		ID:        contract.EncodeBase64URL(credentialID),
		RPID:      params.RPID,
		UserID:    contract.EncodeBase64URL(params.UserID),
		UserName:  params.UserName,
		KeyDER:    keyDER,
		SignCount: 0,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("store credential: %w", err)
	}

	return &MakeCredentialResult{
		CredentialID:       credentialID,
		AttestationObject:  attestationObject,
		ClientDataJSON:     clientDataJSON,
		LargeBlobSupported: params.LargeBlobSupport,
	}, nil
}

// GetAssertionParams describes one assertion. An empty allow list makes the
// assertion discoverable: any credential for the relying party may serve it.
type GetAssertionParams struct {
	RPID           string
	Origin         string
	Challenge      []byte
	AllowIDs       [][]byte
	LargeBlobRead  bool
	LargeBlobWrite []byte
}

// GetAssertionResult carries the raw assertion artifacts. LargeBlobWritten
// is non-nil only when the assertion requested a blob write.
type GetAssertionResult struct {
	CredentialID      []byte
	AuthenticatorData []byte
	ClientDataJSON    []byte
	Signature         []byte
	UserHandle        []byte
	LargeBlob         []byte
	LargeBlobWritten  *bool
}

// GetAssertion signs the ceremony over sha256(authData || clientDataHash)
// with the selected credential, incrementing its signature counter first so
// a counter value is never reused.
func (t *Token) GetAssertion(ctx context.Context, params GetAssertionParams) (*GetAssertionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if params.RPID == "" {
		return nil, fmt.Errorf("rp id is required")
	}

	credential, err := t.pickCredential(ctx, params.RPID, params.AllowIDs)
	if err != nil {
		return nil, err
	}
	key, err := x509.ParseECPrivateKey(credential.KeyDER)
	if err != nil {
		return nil, fmt.Errorf("decode credential key: %w", err)
	}

	signCount := credential.SignCount + 1
	if err := t.store.UpdateSignCount(ctx, credential.ID, signCount); err != nil {
		return nil, fmt.Errorf("advance sign count: %w", err)
	}

	clientDataJSON, err := buildClientDataJSON(ceremonyGet, params.Challenge, params.Origin)
	if err != nil {
		return nil, err
	}
	authData := buildAuthenticatorData(params.RPID, assertionFlags, signCount, nil)

	clientDataHash := sha256.Sum256(clientDataJSON)
	digest := sha256.Sum256(append(append([]byte(nil), authData...), clientDataHash[:]...))
	signature, err := ecdsa.SignASN1(rand.Reader, key, digest[:])
	if err != nil {
		return nil, fmt.Errorf("sign assertion: %w", err)
	}

	credentialID, err := contract.DecodeBase64URL(credential.ID)
	if err != nil {
		return nil, fmt.Errorf("decode stored credential id: %w", err)
	}
	userHandle, err := contract.DecodeBase64URL(credential.UserID)
	if err != nil {
		return nil, fmt.Errorf("decode stored user id: %w", err)
	}

	result := &GetAssertionResult{
		CredentialID:      credentialID,
		AuthenticatorData: authData,
		ClientDataJSON:    clientDataJSON,
		Signature:         signature,
		UserHandle:        userHandle,
	}
	if params.LargeBlobRead && len(credential.LargeBlob) > 0 {
		result.LargeBlob = append([]byte(nil), credential.LargeBlob...)
	}
	if params.LargeBlobWrite != nil {
		// A failed write degrades to written:false, never to a failed assertion.
		written := t.store.UpdateLargeBlob(ctx, credential.ID, params.LargeBlobWrite) == nil
		result.LargeBlobWritten = &written
	}
	return result, nil
}

// supportsES256 reports whether the requested algorithms include ES256. An
// empty list accepts any algorithm.
func supportsES256(algorithms []int) bool {
	if len(algorithms) == 0 {
		return true
	}
	for _, alg := range algorithms {
		if alg == contract.AlgES256 {
			return true
		}
	}
	return false
}

func (t *Token) checkExcluded(ctx context.Context, rpID string, excludeIDs [][]byte) error {
	for _, id := range excludeIDs {
		credential, err := t.store.GetCredential(ctx, contract.EncodeBase64URL(id))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return fmt.Errorf("check excluded credential: %w", err)
		}
		if credential.RPID == rpID {
			return ErrCredentialExcluded
		}
	}
	return nil
}

// pickCredential resolves the credential an assertion should use: the first
// allow-list entry the token holds for this relying party, or the most
// recently created credential when the allow list is empty.
func (t *Token) pickCredential(ctx context.Context, rpID string, allowIDs [][]byte) (store.Credential, error) {
	if len(allowIDs) > 0 {
		for _, id := range allowIDs {
			credential, err := t.store.GetCredential(ctx, contract.EncodeBase64URL(id))
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					continue
				}
				return store.Credential{}, fmt.Errorf("look up allowed credential: %w", err)
			}
			if credential.RPID == rpID {
				return credential, nil
			}
		}
		return store.Credential{}, ErrNoCredential
	}

	credentials, err := t.store.ListCredentialsByRP(ctx, rpID)
	if err != nil {
		return store.Credential{}, fmt.Errorf("list credentials: %w", err)
	}
	if len(credentials) == 0 {
		return store.Credential{}, ErrNoCredential
	}
	return credentials[len(credentials)-1], nil
}
