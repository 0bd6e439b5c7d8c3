package storage

import (
	"database/sql"
	"time"

	"kicks/internal/models"
)

const userColumns = "id, name, email, image_url, password_hash, session_token"

func scanUser(s scanner) (*models.User, error) {
	var u models.User
	if err := s.Scan(&u.ID, &u.Name, &u.Email, &u.ImageURL, &u.PasswordHash, &u.SessionToken); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// CreateUser creates a new user. The session token is stored but does not
// authenticate anyone until StartSession gives it an expiry.
func (db *DB) CreateUser(name, email, passwordHash, sessionToken string) (*models.User, error) {
	result, err := db.conn.Exec(
		`INSERT INTO users (name, email, image_url, password_hash, session_token, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		name, email, models.DefaultUserImageURL, passwordHash, sessionToken, time.Now().UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetUserByID(id)
}

// GetUserByID retrieves a user by ID.
func (db *DB) GetUserByID(id int64) (*models.User, error) {
	return scanUser(db.conn.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id))
}

// GetUserByEmail retrieves a user by email.
func (db *DB) GetUserByEmail(email string) (*models.User, error) {
	return scanUser(db.conn.QueryRow("SELECT "+userColumns+" FROM users WHERE email = ?", email))
}

// ListUsers retrieves every user ordered by ID.
func (db *DB) ListUsers() ([]models.User, error) {
	rows, err := db.conn.Query("SELECT " + userColumns + " FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// UserCount returns the number of users in the database.
func (db *DB) UserCount() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

// StartSession rotates the user's session token and makes it valid until
// expiresAt.
func (db *DB) StartSession(userID int64, token string, expiresAt time.Time) error {
	return db.execOne(
		"UPDATE users SET session_token = ?, session_expires_at = ? WHERE id = ?",
		token, expiresAt.UTC(), userID,
	)
}

// EndSession rotates the user's session token and clears its expiry, so no
// previously issued cookie authenticates anymore.
func (db *DB) EndSession(userID int64, token string) error {
	return db.execOne(
		"UPDATE users SET session_token = ?, session_expires_at = NULL WHERE id = ?",
		token, userID,
	)
}

// SessionInfo holds session validation data.
type SessionInfo struct {
	User      *models.User
	ExpiresAt time.Time
}

// ValidateSession checks if a session token is valid and returns the associated user.
func (db *DB) ValidateSession(token string) (*models.User, error) {
	info, err := db.ValidateSessionWithInfo(token)
	if err != nil {
		return nil, err
	}
	return info.User, nil
}

// ValidateSessionWithInfo checks if a session token is valid and returns session details.
func (db *DB) ValidateSessionWithInfo(token string) (*SessionInfo, error) {
	row := db.conn.QueryRow(
		"SELECT "+userColumns+", session_expires_at FROM users WHERE session_token = ?",
		token,
	)

	var u models.User
	var expiresAt sql.NullTime
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.ImageURL, &u.PasswordHash, &u.SessionToken, &expiresAt); err != nil {
		return nil, notFound(err)
	}
	if !expiresAt.Valid || !expiresAt.Time.After(time.Now()) {
		return nil, ErrNotFound
	}
	return &SessionInfo{User: &u, ExpiresAt: expiresAt.Time}, nil
}

// RenewSession pushes back the expiry of an active session.
func (db *DB) RenewSession(token string, newExpiresAt time.Time) error {
	return db.execOne(
		"UPDATE users SET session_expires_at = ? WHERE session_token = ?",
		newExpiresAt.UTC(), token,
	)
}

func (db *DB) execOne(query string, args ...any) error {
	result, err := db.conn.Exec(query, args...)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
