package storage

import (
	"time"

	"kicks/internal/models"
)

func (db *DB) queryBackings(query string, args ...any) ([]models.Backing, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	backings := []models.Backing{}
	for rows.Next() {
		var b models.Backing
		if err := rows.Scan(&b.ID, &b.UserID, &b.RewardID); err != nil {
			return nil, err
		}
		backings = append(backings, b)
	}
	return backings, rows.Err()
}

// CreateBacking records that a user pledged for a reward. Ownership and
// one-backing-per-project rules are the caller's responsibility; only the
// (user, reward) uniqueness is enforced here.
func (db *DB) CreateBacking(userID, rewardID int64) (*models.Backing, error) {
	result, err := db.conn.Exec(
		"INSERT INTO backings (user_id, reward_id, created_at) VALUES (?, ?, ?)",
		userID, rewardID, time.Now().UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateBacking
		}
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Backing{ID: id, UserID: userID, RewardID: rewardID}, nil
}

// BackingsByProject retrieves every backing of a project's rewards.
func (db *DB) BackingsByProject(projectID int64) ([]models.Backing, error) {
	return db.queryBackings(`
		SELECT b.id, b.user_id, b.reward_id
		FROM backings b
		JOIN rewards r ON r.id = b.reward_id
		WHERE r.project_id = ?
		ORDER BY b.id`, projectID)
}

// BackingsByUser retrieves every backing held by a user.
func (db *DB) BackingsByUser(userID int64) ([]models.Backing, error) {
	return db.queryBackings("SELECT id, user_id, reward_id FROM backings WHERE user_id = ? ORDER BY id", userID)
}

// HasBackedProject reports whether a user already backed any reward of a project.
func (db *DB) HasBackedProject(userID, projectID int64) (bool, error) {
	var exists bool
	err := db.conn.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM backings b
			JOIN rewards r ON r.id = b.reward_id
			WHERE b.user_id = ? AND r.project_id = ?
		)`, userID, projectID).Scan(&exists)
	return exists, err
}
