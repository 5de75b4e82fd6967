package session

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/pantryhub/pantry/internal/models"
)

var ErrNoSession = errors.New("not logged in")

const cookieName = "pantry_session"

type storedSession struct {
	User      models.User `json:"user"`
	Token     string      `json:"token"`
	CreatedAt time.Time   `json:"created_at"`
}

// FileStore keeps the session between CLI invocations in a single file,
// signed and encrypted with keys derived from a user secret.
type FileStore struct {
	path  string
	codec *securecookie.SecureCookie
}

func NewFileStore(path string, key string) *FileStore {
	hashKey := sha256.Sum256([]byte("hash:" + key))
	blockKey := sha256.Sum256([]byte("block:" + key))
	return &FileStore{
		path:  path,
		codec: securecookie.New(hashKey[:], blockKey[:]),
	}
}

func (store *FileStore) Save(session *Session) error {
	encoded, err := json.Marshal(storedSession{
		User:      session.User,
		Token:     session.Token,
		CreatedAt: session.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}

	value, err := store.codec.Encode(cookieName, string(encoded))
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(store.path), 0700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	if err := os.WriteFile(store.path, []byte(value), 0600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	return nil
}

// Load returns ErrNoSession when nothing was saved. A file that fails to
// decode, for example one written with another key, is an error.
func (store *FileStore) Load() (*Session, error) {
	value, err := os.ReadFile(store.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}

	var decoded string
	if err := store.codec.Decode(cookieName, string(value), &decoded); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}

	var stored storedSession
	if err := json.Unmarshal([]byte(decoded), &stored); err != nil {
		return nil, fmt.Errorf("unmarshaling session: %w", err)
	}

	return &Session{User: stored.User, Token: stored.Token, CreatedAt: stored.CreatedAt}, nil
}

func (store *FileStore) Clear() error {
	if err := os.Remove(store.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}
