package store

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"time"

	"github.com/exampill/studyplanner/internal/model"
)

const sessionTTL = 24 * time.Hour

// CreateSession creates a new browser session token.
func (s *Store) CreateSession() (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	now := time.Now()
	_, err = s.db.Exec(
		`INSERT INTO browser_sessions (id, created_at, expires_at) VALUES (?, ?, ?)`,
		token, now, now.Add(sessionTTL),
	)
	if err != nil {
		return "", err
	}
	return token, nil
}

// GetSession returns the session for the given token, or nil if not
// found/expired. Expired sessions are removed on access.
func (s *Store) GetSession(token string) (*model.Session, error) {
	var sess model.Session
	err := s.db.QueryRow(
		`SELECT id, created_at, expires_at FROM browser_sessions WHERE id = ?`, token,
	).Scan(&sess.ID, &sess.CreatedAt, &sess.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if time.Now().After(sess.ExpiresAt) {
		_ = s.DeleteSession(token)
		return nil, nil
	}
	return &sess, nil
}

// DeleteSession removes a session and its plan.
func (s *Store) DeleteSession(token string) error {
	if _, err := s.db.Exec(
		`DELETE FROM plan_topics WHERE plan_id IN (SELECT id FROM plans WHERE session_id = ?)`, token,
	); err != nil {
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM plans WHERE session_id = ?`, token); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM browser_sessions WHERE id = ?`, token)
	return err
}

// CleanupExpiredSessions removes all expired sessions and their plans.
func (s *Store) CleanupExpiredSessions() error {
	rows, err := s.db.Query(
		`SELECT id FROM browser_sessions WHERE expires_at < ?`, time.Now(),
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	var expired []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		expired = append(expired, id)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, id := range expired {
		if err := s.DeleteSession(id); err != nil {
			return err
		}
	}
	return nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
