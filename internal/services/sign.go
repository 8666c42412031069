package services

import (
	"context"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/Heidric/hmacsign/internal/crypto"
	"github.com/Heidric/hmacsign/internal/customerrors"
)

// SignService turns text into bytes and signs it with HMAC-SHA256. It holds
// only the configured default key and is safe for concurrent use.
type SignService struct {
	key string
}

func NewSignService(key string) *SignService {
	return &SignService{key: key}
}

// HasKey reports whether a non-empty default key is configured.
func (s *SignService) HasKey() bool {
	return s.key != ""
}

// Sign signs message with the default key.
func (s *SignService) Sign(ctx context.Context, message string) (string, error) {
	return s.SignWithKey(ctx, message, s.key)
}

// SignWithKey signs message with key. Both must be valid UTF-8.
func (s *SignService) SignWithKey(ctx context.Context, message, key string) (string, error) {
	if !utf8.ValidString(message) {
		return "", errors.Wrap(customerrors.ErrInvalidText, "message")
	}
	if !utf8.ValidString(key) {
		return "", errors.Wrap(customerrors.ErrInvalidText, "key")
	}

	digest := crypto.SHA256WithKey(message, key)

	zerolog.Ctx(ctx).Debug().
		Int("message_len", len(message)).
		Int("key_len", len(key)).
		Msg("message signed")

	return digest, nil
}
