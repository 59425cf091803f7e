// Package vault encrypts source access tokens at rest. Tokens are decrypted
// transiently, server-side, for the duration of one fetch; plaintext never
// crosses the pipeline boundary.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 16
	keySize    = 32
	iterations = 64_000
)

// TokenCipher derives a per-encryption key from a server-held master secret
// and seals tokens with AES-GCM. It is an explicitly constructed service
// instance, injected where needed, not a process-wide singleton.
type TokenCipher struct {
	secret []byte
}

// NewTokenCipher constructs a cipher around one master secret.
func NewTokenCipher(masterSecret string) (*TokenCipher, error) {
	if masterSecret == "" {
		return nil, errors.New("vault: master secret required")
	}
	return &TokenCipher{secret: []byte(masterSecret)}, nil
}

// Encrypt seals a token. Each call uses a fresh random salt and nonce, so the
// same plaintext never yields the same ciphertext twice. Output layout is
// base64(salt || nonce || ciphertext).
func (c *TokenCipher) Encrypt(token string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("vault: generate salt: %w", err)
	}

	gcm, err := c.aead(salt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("vault: generate nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, []byte(token), nil)

	payload := make([]byte, 0, len(salt)+len(nonce)+len(sealed))
	payload = append(payload, salt...)
	payload = append(payload, nonce...)
	payload = append(payload, sealed...)
	return base64.StdEncoding.EncodeToString(payload), nil
}

// Decrypt opens a sealed token produced by Encrypt.
func (c *TokenCipher) Decrypt(encrypted string) (string, error) {
	payload, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", fmt.Errorf("vault: decode payload: %w", err)
	}
	if len(payload) < saltSize {
		return "", errors.New("vault: payload too short")
	}

	salt := payload[:saltSize]
	gcm, err := c.aead(salt)
	if err != nil {
		return "", err
	}

	rest := payload[saltSize:]
	if len(rest) < gcm.NonceSize() {
		return "", errors.New("vault: payload too short")
	}
	nonce, sealed := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]

	plain, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("vault: open payload: %w", err)
	}
	return string(plain), nil
}

// aead builds the AES-GCM cipher for one salt.
func (c *TokenCipher) aead(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key(c.secret, salt, iterations, keySize, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("vault: init cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("vault: init gcm: %w", err)
	}
	return gcm, nil
}
