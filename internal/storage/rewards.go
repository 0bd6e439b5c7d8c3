package storage

import "kicks/internal/models"

const rewardColumns = "id, title, amount, description, project_id"

func scanReward(s scanner) (*models.Reward, error) {
	var r models.Reward
	if err := s.Scan(&r.ID, &r.Title, &r.Amount, &r.Description, &r.ProjectID); err != nil {
		return nil, notFound(err)
	}
	return &r, nil
}

func (db *DB) queryRewards(query string, args ...any) ([]models.Reward, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rewards := []models.Reward{}
	for rows.Next() {
		r, err := scanReward(rows)
		if err != nil {
			return nil, err
		}
		rewards = append(rewards, *r)
	}
	return rewards, rows.Err()
}

// CreateReward inserts r and returns the stored reward.
func (db *DB) CreateReward(r *models.Reward) (*models.Reward, error) {
	result, err := db.conn.Exec(
		"INSERT INTO rewards (project_id, title, amount, description) VALUES (?, ?, ?, ?)",
		r.ProjectID, r.Title, r.Amount, r.Description,
	)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return db.GetReward(id)
}

// GetReward retrieves a single reward by ID.
func (db *DB) GetReward(id int64) (*models.Reward, error) {
	return scanReward(db.conn.QueryRow("SELECT "+rewardColumns+" FROM rewards WHERE id = ?", id))
}

// UpdateReward writes the editable fields of r.
func (db *DB) UpdateReward(r *models.Reward) error {
	return db.execOne(
		"UPDATE rewards SET title = ?, amount = ?, description = ? WHERE id = ?",
		r.Title, r.Amount, r.Description, r.ID,
	)
}

// DeleteReward removes a reward together with its backings.
func (db *DB) DeleteReward(id int64) error {
	return db.execOne("DELETE FROM rewards WHERE id = ?", id)
}

// RewardsByProject retrieves the rewards of a project ordered by ID.
func (db *DB) RewardsByProject(projectID int64) ([]models.Reward, error) {
	return db.queryRewards("SELECT "+rewardColumns+" FROM rewards WHERE project_id = ? ORDER BY id", projectID)
}

// RewardsBackedByUser retrieves the rewards a user holds a backing for.
func (db *DB) RewardsBackedByUser(userID int64) ([]models.Reward, error) {
	return db.queryRewards(`
		SELECT r.id, r.title, r.amount, r.description, r.project_id
		FROM rewards r
		JOIN backings b ON b.reward_id = r.id
		WHERE b.user_id = ?
		ORDER BY r.id`, userID)
}
