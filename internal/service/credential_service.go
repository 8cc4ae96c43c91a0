package service

import (
	"context"
	"errors"
	"log/slog"

	"coach-ai/backend/internal/model"
	"coach-ai/backend/internal/repository"
	"coach-ai/backend/internal/secure"
)

// Provider names a third-party service whose API key can be stored.
type Provider string

const (
	ProviderOpenAI  Provider = "openai"
	ProviderGoogle  Provider = "google"
	ProviderYouTube Provider = "youtube"
)

func (p Provider) Valid() bool {
	switch p {
	case ProviderOpenAI, ProviderGoogle, ProviderYouTube:
		return true
	}
	return false
}

func (p Provider) entryName() string {
	return string(p) + "_api_key"
}

// CredentialService stores provider API keys encrypted at rest.
//
// It never fails: when storage is unavailable (nil repository or cipher) or a
// backend call errors, reads return "" and writes are dropped with a warning.
// Callers treat "no key" as a normal state.
type CredentialService struct {
	repo   repository.SecretRepository
	cipher *secure.Cipher
}

func NewCredentialService(repo repository.SecretRepository, cipher *secure.Cipher) *CredentialService {
	if repo == nil || cipher == nil {
		slog.Warn("Credential storage is unavailable. API keys will not be persisted.")
	}
	return &CredentialService{repo: repo, cipher: cipher}
}

func (s *CredentialService) available() bool {
	return s.repo != nil && s.cipher != nil
}

// Save overwrites the chat provider key.
func (s *CredentialService) Save(ctx context.Context, key string) {
	s.SaveFor(ctx, ProviderOpenAI, key)
}

// Get returns the chat provider key, or "" when none is stored.
func (s *CredentialService) Get(ctx context.Context) string {
	return s.GetFor(ctx, ProviderOpenAI)
}

func (s *CredentialService) Clear(ctx context.Context) {
	s.ClearFor(ctx, ProviderOpenAI)
}

// HasValidKey reports whether a non-empty chat provider key is stored.
func (s *CredentialService) HasValidKey(ctx context.Context) bool {
	return s.Get(ctx) != ""
}

// Status returns the masked view of the chat provider key.
func (s *CredentialService) Status(ctx context.Context) model.KeyStatus {
	return s.StatusFor(ctx, ProviderOpenAI)
}

func (s *CredentialService) StatusFor(ctx context.Context, p Provider) model.KeyStatus {
	key := s.GetFor(ctx, p)
	if key == "" {
		return model.KeyStatus{}
	}
	return model.KeyStatus{Configured: true, MaskedKey: Mask(key)}
}

func (s *CredentialService) SaveFor(ctx context.Context, p Provider, key string) {
	if !p.Valid() {
		slog.Warn("Ignoring key for unknown provider", "provider", p)
		return
	}
	if !s.available() {
		slog.Warn("Credential storage unavailable, key not saved", "provider", p)
		return
	}

	name := p.entryName()
	sealed, err := s.cipher.Seal(name, []byte(key))
	if err != nil {
		slog.Warn("Failed to encrypt key, key not saved", "provider", p, "error", err)
		return
	}
	if err := s.repo.Put(ctx, s.cipher.NameDigest(name), sealed); err != nil {
		slog.Warn("Failed to store key", "provider", p, "error", err)
		return
	}
	slog.Info("Stored API key", "provider", p, "key", secure.Fingerprint(key))
}

func (s *CredentialService) GetFor(ctx context.Context, p Provider) string {
	if !p.Valid() || !s.available() {
		return ""
	}

	name := p.entryName()
	sealed, err := s.repo.Get(ctx, s.cipher.NameDigest(name))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			slog.Warn("Failed to read key", "provider", p, "error", err)
		}
		return ""
	}
	plain, err := s.cipher.Open(name, sealed)
	if err != nil {
		slog.Warn("Stored key could not be decrypted", "provider", p, "error", err)
		return ""
	}
	defer secure.ZeroBytes(plain)
	return string(plain)
}

func (s *CredentialService) ClearFor(ctx context.Context, p Provider) {
	if !p.Valid() || !s.available() {
		return
	}
	if err := s.repo.Delete(ctx, s.cipher.NameDigest(p.entryName())); err != nil {
		slog.Warn("Failed to clear key", "provider", p, "error", err)
		return
	}
	slog.Info("Cleared API key", "provider", p)
}

// ClearAll removes every stored key.
func (s *CredentialService) ClearAll(ctx context.Context) {
	if !s.available() {
		return
	}
	if err := s.repo.DeleteAll(ctx); err != nil {
		slog.Warn("Failed to clear keys", "error", err)
		return
	}
	slog.Info("Cleared all API keys")
}

// Mask returns the form of key that may be shown in a UI: keys longer than
// eight characters keep only their first and last four.
func Mask(key string) string {
	if len(key) <= 8 {
		return key
	}
	return key[:4] + "..." + key[len(key)-4:]
}
