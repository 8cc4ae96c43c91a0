// Package secure implements encryption at rest for stored credentials.
//
// A 32-byte master key (random, or derived from a passphrase) is expanded with
// HKDF-SHA256 into two independent subkeys: one seals values with AES-256-GCM,
// the other produces deterministic HMAC-SHA256 digests of entry names so that
// names are not stored in the clear either.
package secure

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the size of the master key and of each derived subkey.
	KeySize = 32

	// NonceSize is the AES-GCM nonce length.
	NonceSize = 12
)

var (
	ErrInvalidKeySize    = errors.New("invalid master key size")
	ErrInvalidCiphertext = errors.New("invalid ciphertext format")
	// ErrDecryptionFailed means the wrong key was used or the record was tampered with.
	ErrDecryptionFailed = errors.New("decryption failed: authentication tag mismatch")
)

const (
	valueKeyInfo = "coach-ai credential values v1"
	nameKeyInfo  = "coach-ai credential names v1"
)

// Cipher seals credential values and digests credential names.
type Cipher struct {
	aead    cipher.AEAD
	nameKey []byte
}

// NewCipher derives the value and name subkeys from master.
func NewCipher(master []byte) (*Cipher, error) {
	if len(master) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeySize, len(master), KeySize)
	}

	valueKey, err := deriveSubkey(master, valueKeyInfo)
	if err != nil {
		return nil, err
	}
	defer ZeroBytes(valueKey)

	nameKey, err := deriveSubkey(master, nameKeyInfo)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(valueKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM cipher: %w", err)
	}

	return &Cipher{aead: gcm, nameKey: nameKey}, nil
}

func deriveSubkey(master []byte, info string) ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, master, nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("failed to derive subkey: %w", err)
	}
	return key, nil
}

// Seal encrypts plaintext for the entry called name. The result is nonce || ciphertext || tag.
// The name is bound as additional data, so a sealed value only opens under the same name.
func (c *Cipher) Seal(name string, plaintext []byte) ([]byte, error) {
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return c.aead.Seal(nonce, nonce, plaintext, []byte(name)), nil
}

// Open reverses Seal.
func (c *Cipher) Open(name string, sealed []byte) ([]byte, error) {
	if len(sealed) < NonceSize+c.aead.Overhead() {
		return nil, ErrInvalidCiphertext
	}
	nonce, body := sealed[:NonceSize], sealed[NonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, body, []byte(name))
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// NameDigest returns the storage identifier for name.
func (c *Cipher) NameDigest(name string) string {
	mac := hmac.New(sha256.New, c.nameKey)
	mac.Write([]byte(name))
	return hex.EncodeToString(mac.Sum(nil))
}

// ZeroBytes overwrites key material once it is no longer needed.
func ZeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
