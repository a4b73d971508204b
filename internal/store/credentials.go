package store

import (
	"database/sql"
	"errors"
	"fmt"
)

const (
	keyToken = "token"
	keyUser  = "user"
)

func (s *Store) get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM credentials WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get credential %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO credentials (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// Token returns the saved access token, or "" when signed out.
func (s *Store) Token() (string, error) {
	return s.get(keyToken)
}

func (s *Store) SetToken(token string) error {
	return s.set(keyToken, token)
}

// User returns the saved user profile as JSON, or nil when signed out.
func (s *Store) User() ([]byte, error) {
	v, err := s.get(keyUser)
	if err != nil || v == "" {
		return nil, err
	}
	return []byte(v), nil
}

func (s *Store) SetUser(profile []byte) error {
	return s.set(keyUser, string(profile))
}

// Clear removes both keys. Used on logout and on a 401 from the backend.
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM credentials WHERE key IN (?, ?)`, keyToken, keyUser)
	return err
}
