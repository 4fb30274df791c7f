// Package session persists the single local login session.
//
// The record lives in the metadata table of the local SQLite database,
// sealed with AES-GCM under a key derived from the configured secret. It is
// kept for common.SessionRetention from the moment it was saved, regardless
// of the token's own exp claim; checking the token is the caller's job.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/admindash/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/admindash/internal/common"
	"github.com/dmitrijs2005/admindash/internal/cryptox"
	"github.com/dmitrijs2005/admindash/internal/dbx"
)

var (
	// ErrNoSession means nothing is stored or the retention window elapsed.
	ErrNoSession = errors.New("no session")
	// ErrCorruptSession means a record exists but cannot be opened.
	ErrCorruptSession = errors.New("session record cannot be read")
)

const (
	keyRecord = "session"
	keyNonce  = "session_nonce"
	keySalt   = "session_salt"
	saltSize  = 16
)

// Session is the persisted login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store saves, loads and clears the session. Safe for concurrent use;
// writes are last-write-wins.
type Store struct {
	db     *sql.DB
	secret []byte
	now    func() time.Time

	mu  sync.Mutex
	key []byte
}

type Option func(*Store)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(db *sql.DB, secret string, opts ...Option) *Store {
	s := &Store{db: db, secret: []byte(secret), now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) repo(q dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(q)
}

// Save persists token with a fresh retention window, replacing any previous
// session.
func (s *Store) Save(ctx context.Context, token string) error {
	key, err := s.sealingKey(ctx)
	if err != nil {
		return err
	}

	record := Session{Token: token, ExpiresAt: s.now().Add(common.SessionRetention).UTC()}
	ciphertext, nonce, err := cryptox.Seal(record, key)
	if err != nil {
		return fmt.Errorf("seal session: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Set(ctx, keyRecord, ciphertext); err != nil {
			return err
		}
		return repo.Set(ctx, keyNonce, nonce)
	})
}

// Load returns the stored session. A record past its retention window is
// evicted and reported as ErrNoSession.
func (s *Store) Load(ctx context.Context) (Session, error) {
	repo := s.repo(s.db)

	ciphertext, err := repo.Get(ctx, keyRecord)
	if errors.Is(err, common.ErrorNotFound) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, err
	}

	nonce, err := repo.Get(ctx, keyNonce)
	if errors.Is(err, common.ErrorNotFound) {
		return Session{}, fmt.Errorf("%w: nonce missing", ErrCorruptSession)
	}
	if err != nil {
		return Session{}, err
	}

	key, err := s.sealingKey(ctx)
	if err != nil {
		return Session{}, err
	}

	var record Session
	if err := cryptox.Open(ciphertext, nonce, key, &record); err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrCorruptSession, err)
	}

	if !s.now().Before(record.ExpiresAt) {
		if err := s.Clear(ctx); err != nil {
			return Session{}, err
		}
		return Session{}, ErrNoSession
	}

	return record, nil
}

// Clear removes the session. Clearing an empty store is not an error.
func (s *Store) Clear(ctx context.Context) error {
	return s.repo(s.db).Delete(ctx, keyRecord, keyNonce)
}

// sealingKey derives the record key once per Store, creating the salt on
// first use.
func (s *Store) sealingKey(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.key != nil {
		return s.key, nil
	}

	repo := s.repo(s.db)
	salt, err := repo.Get(ctx, keySalt)
	if errors.Is(err, common.ErrorNotFound) {
		salt = common.GenerateRandByteArray(saltSize)
		if err := repo.Set(ctx, keySalt, salt); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	s.key = cryptox.DeriveKey(s.secret, salt)
	return s.key, nil
}
