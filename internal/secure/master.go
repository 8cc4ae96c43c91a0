package secure

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the length of the salt kept in the key file in passphrase mode.
	SaltSize = 32

	// PBKDF2Iterations follows the OWASP 2023 recommendation for PBKDF2-SHA256.
	PBKDF2Iterations = 600000
)

// LoadOrCreateMasterKey returns the master key protecting stored credentials.
//
// Without a passphrase the key store holds the 32-byte key itself, generated on
// first use. With a passphrase the key store holds only a salt and the key is
// derived with PBKDF2-SHA256, so the file alone is not enough to decrypt.
func LoadOrCreateMasterKey(ks KeyStore, passphrase string) ([]byte, error) {
	material, err := loadOrCreate(ks, passphrase != "")
	if err != nil {
		return nil, err
	}
	if passphrase == "" {
		if len(material) != KeySize {
			return nil, fmt.Errorf("%w: key file holds %d bytes", ErrInvalidKeySize, len(material))
		}
		return material, nil
	}
	if len(material) != SaltSize {
		return nil, fmt.Errorf("%w: salt holds %d bytes", ErrInvalidKeySize, len(material))
	}
	return DeriveMasterKey(passphrase, material), nil
}

// DeriveMasterKey stretches a passphrase into a master key.
func DeriveMasterKey(passphrase string, salt []byte) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, PBKDF2Iterations, KeySize, sha256.New)
}

func loadOrCreate(ks KeyStore, isSalt bool) ([]byte, error) {
	if ks.Exists() {
		return ks.Retrieve()
	}

	size := KeySize
	if isSalt {
		size = SaltSize
	}
	material := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, material); err != nil {
		return nil, fmt.Errorf("failed to generate key material: %w", err)
	}
	if err := ks.Store(material); err != nil {
		return nil, err
	}
	slog.Info("Generated new credential key material.", "passphrase_mode", isSalt)
	return material, nil
}
