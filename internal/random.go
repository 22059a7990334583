package internal

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
)

// ChallengeID is the public half of a challenge pair. It keys the stored
// record and appears in verification links.
type ChallengeID [16]byte

const challengeSecretSize = 32

// NewChallengeID returns a fresh random challenge id.
func NewChallengeID() (ChallengeID, error) {
	var id ChallengeID
	_, err := rand.Read(id[:])
	return id, err
}

func (id ChallengeID) Bytes() []byte {
	return id[:]
}

func (id ChallengeID) String() string {
	// base64url, no padding, compact
	return base64.RawURLEncoding.EncodeToString(id[:])
}

// ParseChallengeID decodes the string form produced by String.
func ParseChallengeID(s string) (ChallengeID, error) {
	var id ChallengeID

	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return id, err
	}
	if len(raw) != len(id) {
		return id, errors.New("invalid challenge id size")
	}

	copy(id[:], raw)
	return id, nil
}

// NewChallengeSecret returns the private half of a challenge pair.
func NewChallengeSecret() ([challengeSecretSize]byte, error) {
	var secret [challengeSecretSize]byte
	_, err := rand.Read(secret[:])
	return secret, err
}

// EncodeChallengeSecret renders a secret in its wire form.
func EncodeChallengeSecret(secret [challengeSecretSize]byte) string {
	return base64.RawURLEncoding.EncodeToString(secret[:])
}

// DecodeChallengeSecret parses the wire form produced by
// EncodeChallengeSecret.
func DecodeChallengeSecret(s string) ([challengeSecretSize]byte, error) {
	var secret [challengeSecretSize]byte

	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return secret, err
	}
	if len(raw) != len(secret) {
		return secret, errors.New("invalid challenge secret size")
	}

	copy(secret[:], raw)
	return secret, nil
}

// HashChallengeSecret digests a secret for at-rest comparison. Orchestrators
// store the hash in challenge attrs and never the plaintext.
func HashChallengeSecret(secret []byte) [32]byte {
	return sha256.Sum256(secret)
}
