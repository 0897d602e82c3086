package softtoken

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-webauthn/webauthn/protocol/webauthncose"
)

// Authenticator data flag bits.
const (
	flagUserPresent        = 0x01
	flagUserVerified       = 0x04
	flagBackupEligible     = 0x08
	flagBackupState        = 0x10
	flagAttestedCredential = 0x40
)

// The token implies presence and verification, and its credentials are
// syncable, so both ceremonies carry UP, UV, BE, and BS.
const (
	creationFlags  = flagUserPresent | flagUserVerified | flagBackupEligible | flagBackupState | flagAttestedCredential
	assertionFlags = flagUserPresent | flagUserVerified | flagBackupEligible | flagBackupState
)

// zeroAAGUID is the all-zero authenticator ID "none" attestation requires.
var zeroAAGUID [16]byte

// ctap2Encoding is the canonical CBOR mode attestation objects use.
var ctap2Encoding = mustEncMode()

func mustEncMode() cbor.EncMode {
	mode, err := cbor.CTAP2EncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return mode
}

type attestedCredential struct {
	CredentialID []byte
	PublicKey    []byte
}

// buildAuthenticatorData assembles rpIdHash | flags | signCount, plus
// attested credential data when a creation supplies it.
func buildAuthenticatorData(rpID string, flags byte, signCount uint32, attested *attestedCredential) []byte {
	rpIDHash := sha256.Sum256([]byte(rpID))

	data := make([]byte, 0, 37)
	data = append(data, rpIDHash[:]...)
	data = append(data, flags)
	data = binary.BigEndian.AppendUint32(data, signCount)

	if attested != nil {
		data = append(data, zeroAAGUID[:]...)
		data = binary.BigEndian.AppendUint16(data, uint16(len(attested.CredentialID)))
		data = append(data, attested.CredentialID...)
		data = append(data, attested.PublicKey...)
	}
	return data
}

type attestationObject struct {
	AuthData []byte         `cbor:"authData"`
	Fmt      string         `cbor:"fmt"`
	AttStmt  map[string]any `cbor:"attStmt"`
}

// encodeNoneAttestation wraps authenticator data in a "none" attestation
// object with an empty statement.
func encodeNoneAttestation(authData []byte) ([]byte, error) {
	raw, err := ctap2Encoding.Marshal(attestationObject{
		AuthData: authData,
		Fmt:      "none",
		AttStmt:  map[string]any{},
	})
	if err != nil {
		return nil, fmt.Errorf("encode attestation object: %w", err)
	}
	return raw, nil
}

// encodeCOSEPublicKey encodes a P-256 public key as a COSE_Key map.
// Coordinates are fixed-width 32 bytes.
func encodeCOSEPublicKey(key *ecdsa.PublicKey) ([]byte, error) {
	coseKey := webauthncose.EC2PublicKeyData{
		PublicKeyData: webauthncose.PublicKeyData{
			KeyType:   int64(webauthncose.EllipticKey),
			Algorithm: int64(webauthncose.AlgES256),
		},
		Curve:  int64(webauthncose.P256),
		XCoord: key.X.FillBytes(make([]byte, 32)),
		YCoord: key.Y.FillBytes(make([]byte, 32)),
	}
	raw, err := ctap2Encoding.Marshal(coseKey)
	if err != nil {
		return nil, fmt.Errorf("encode cose key: %w", err)
	}
	return raw, nil
}
