// Package auth implements the relay's passkey handshake. The client proves
// knowledge of a shared passkey with an HMAC over TLS exporter material, so
// a token captured from one connection is useless on another.
package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	PasskeySize = 32
	TokenSize   = 32

	// ExporterLabel is the TLS exporter label both ends derive material with.
	ExporterLabel = "clip-relay-auth-v1"
)

// Handshake status bytes sent by the relay after checking a token.
const (
	StatusOK     byte = 0
	StatusFailed byte = 1
)

var (
	ErrBadPasskey = errors.New("passkey must be 64 hex characters (32 bytes)")
	ErrRejected   = errors.New("relay rejected authentication")
	ErrBadToken   = errors.New("invalid auth token")
)

// GeneratePasskey returns a cryptographically random 32-byte passkey.
func GeneratePasskey() ([]byte, error) {
	key := make([]byte, PasskeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}

// ParsePasskey decodes a hex-encoded passkey.
func ParsePasskey(s string) ([]byte, error) {
	key, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil || len(key) != PasskeySize {
		return nil, ErrBadPasskey
	}
	return key, nil
}

// ComputeToken computes HMAC-SHA256(passkey, material).
func ComputeToken(passkey, material []byte) [TokenSize]byte {
	mac := hmac.New(sha256.New, passkey)
	mac.Write(material)
	var token [TokenSize]byte
	copy(token[:], mac.Sum(nil))
	return token
}

// VerifyToken checks token against HMAC-SHA256(passkey, material) in
// constant time.
func VerifyToken(passkey, material []byte, token [TokenSize]byte) bool {
	expected := ComputeToken(passkey, material)
	return hmac.Equal(token[:], expected[:])
}

// Authenticate runs the client side: send the token, wait for the status.
func Authenticate(rw io.ReadWriter, passkey, material []byte) error {
	token := ComputeToken(passkey, material)
	if _, err := rw.Write(token[:]); err != nil {
		return fmt.Errorf("write auth token: %w", err)
	}
	var status [1]byte
	if _, err := io.ReadFull(rw, status[:]); err != nil {
		return fmt.Errorf("read auth status: %w", err)
	}
	if status[0] != StatusOK {
		return fmt.Errorf("%w: status %d", ErrRejected, status[0])
	}
	return nil
}

// Verify runs the relay side: read the token, check it, reply with a
// status byte. A rejected client still gets StatusFailed before the error.
func Verify(rw io.ReadWriter, passkey, material []byte) error {
	var token [TokenSize]byte
	if _, err := io.ReadFull(rw, token[:]); err != nil {
		return fmt.Errorf("read auth token: %w", err)
	}
	if !VerifyToken(passkey, material, token) {
		rw.Write([]byte{StatusFailed})
		return ErrBadToken
	}
	if _, err := rw.Write([]byte{StatusOK}); err != nil {
		return fmt.Errorf("write auth status: %w", err)
	}
	return nil
}
