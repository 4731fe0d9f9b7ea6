package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"github.com/declaro/taxsync/internal/adapter"
	"github.com/declaro/taxsync/internal/crypto"
	"github.com/declaro/taxsync/internal/logger"
	"github.com/declaro/taxsync/internal/store"
	"github.com/declaro/taxsync/models"
)

// metaKeyEncSalt stores the key-derivation salt in the vault's sync_meta
// table, base64-encoded. The salt is not secret; only the passphrase is.
const metaKeyEncSalt = "enc_salt"

// ErrNotAuthenticated is returned by encryption operations before a
// successful Register or Login has derived the session key.
var ErrNotAuthenticated = errors.New("client session is not authenticated")

// clientAuthService is the concrete [ClientAuthService]. It authenticates
// through the server adapter and derives the payload encryption key from the
// user's passphrase with a per-vault salt. The key lives only in process
// memory; the server never sees plaintext payloads or the passphrase-derived
// key.
type clientAuthService struct {
	adapter adapter.ServerAdapter
	meta    store.MetaRepository
	cipher  crypto.Cipher

	mu     sync.RWMutex
	userID int64
	key    []byte

	logger *logger.Logger
}

// NewClientAuthService constructs a [ClientAuthService].
func NewClientAuthService(serverAdapter adapter.ServerAdapter, meta store.MetaRepository, cipher crypto.Cipher, logger *logger.Logger) ClientAuthService {
	return &clientAuthService{
		adapter: serverAdapter,
		meta:    meta,
		cipher:  cipher,
		logger:  logger,
	}
}

// Register implements [ClientAuthService]. A fresh key-derivation salt is
// generated and persisted in the vault before the account is created
// remotely, so the encryption key can be re-derived on every later login.
func (s *clientAuthService) Register(ctx context.Context, login, password, name string) (models.User, error) {
	log := logger.FromContext(ctx)

	if login == "" || password == "" {
		return models.User{}, ErrInvalidDataProvided
	}

	salt, err := s.ensureSalt(ctx)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.adapter.Register(ctx, models.User{Login: login, Password: password, Name: name})
	if err != nil {
		log.Err(err).Str("login", login).Msg("registration failed")
		return models.User{}, mapAdapterError(err)
	}

	s.startSession(user.UserID, password, salt)
	return user, nil
}

// Login implements [ClientAuthService].
func (s *clientAuthService) Login(ctx context.Context, login, password string) (models.Token, error) {
	log := logger.FromContext(ctx)

	if login == "" || password == "" {
		return models.Token{}, ErrInvalidDataProvided
	}

	salt, err := s.ensureSalt(ctx)
	if err != nil {
		return models.Token{}, err
	}

	token, err := s.adapter.Login(ctx, models.User{Login: login, Password: password})
	if err != nil {
		log.Err(err).Str("login", login).Msg("login failed")
		return models.Token{}, mapAdapterError(err)
	}

	s.startSession(token.UserID, password, salt)
	return token, nil
}

// UserID implements [ClientAuthService].
func (s *clientAuthService) UserID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Encrypt implements [PayloadEncryptor].
func (s *clientAuthService) Encrypt(plain []byte) (string, error) {
	key, err := s.sessionKey()
	if err != nil {
		return "", err
	}
	return s.cipher.Encrypt(plain, key)
}

// Decrypt implements [PayloadEncryptor].
func (s *clientAuthService) Decrypt(encoded string) ([]byte, error) {
	key, err := s.sessionKey()
	if err != nil {
		return nil, err
	}
	return s.cipher.Decrypt(encoded, key)
}

func (s *clientAuthService) sessionKey() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.key) == 0 {
		return nil, ErrNotAuthenticated
	}
	return s.key, nil
}

func (s *clientAuthService) startSession(userID int64, password string, salt []byte) {
	key := s.cipher.DeriveKey(password, salt)

	s.mu.Lock()
	s.userID = userID
	s.key = key
	s.mu.Unlock()
}

// ensureSalt loads the vault's key-derivation salt, generating and
// persisting one on first use.
func (s *clientAuthService) ensureSalt(ctx context.Context) ([]byte, error) {
	stored, err := s.meta.GetMeta(ctx, metaKeyEncSalt)
	switch {
	case errors.Is(err, store.ErrMetaKeyNotFound):
		salt, genErr := s.cipher.GenerateSalt()
		if genErr != nil {
			return nil, fmt.Errorf("generate key derivation salt: %w", genErr)
		}
		if setErr := s.meta.SetMeta(ctx, metaKeyEncSalt, base64.StdEncoding.EncodeToString(salt)); setErr != nil {
			return nil, fmt.Errorf("persist key derivation salt: %w", setErr)
		}
		return salt, nil
	case err != nil:
		return nil, fmt.Errorf("load key derivation salt: %w", err)
	}

	salt, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return nil, fmt.Errorf("decode key derivation salt: %w", err)
	}
	return salt, nil
}
