package security

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// envelopePrefix marks a stored document as sealed by an Encryptor
var envelopePrefix = []byte("enc:v1:")

// ErrNotEncrypted is returned when Open is given a document without the envelope prefix
var ErrNotEncrypted = errors.New("document is not encrypted")

// Encryptor seals health snapshot documents with AES-256-GCM
type Encryptor struct {
	aead cipher.AEAD
}

// NewEncryptor creates a new encryptor with a 32-byte key for AES-256
func NewEncryptor(key []byte) (*Encryptor, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes for AES-256, got %d bytes", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Encryptor{aead: gcm}, nil
}

// NewEncryptorFromString accepts the key as configured: standard base64 of 32
// bytes, or 32 raw characters.
func NewEncryptorFromString(key string) (*Encryptor, error) {
	if decoded, err := base64.StdEncoding.DecodeString(key); err == nil && len(decoded) == 32 {
		return NewEncryptor(decoded)
	}
	return NewEncryptor([]byte(key))
}

// Seal encrypts a document. The result is printable so it can be stored in
// text columns and redis strings alike.
func (e *Encryptor) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := e.aead.Seal(nonce, nonce, plaintext, nil)

	out := make([]byte, len(envelopePrefix)+base64.StdEncoding.EncodedLen(len(sealed)))
	copy(out, envelopePrefix)
	base64.StdEncoding.Encode(out[len(envelopePrefix):], sealed)
	return out, nil
}

// Open decrypts a document produced by Seal
func (e *Encryptor) Open(document []byte) ([]byte, error) {
	if !IsSealed(document) {
		return nil, ErrNotEncrypted
	}

	data := make([]byte, base64.StdEncoding.DecodedLen(len(document)-len(envelopePrefix)))
	n, err := base64.StdEncoding.Decode(data, document[len(envelopePrefix):])
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	data = data[:n]

	nonceSize := e.aead.NonceSize()
	if len(data) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := e.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}

	return plaintext, nil
}

// IsSealed reports whether a stored document carries the envelope prefix
func IsSealed(document []byte) bool {
	return bytes.HasPrefix(document, envelopePrefix)
}
