package storage

import (
	"math"
	"strings"
	"time"

	"kicks/internal/models"
)

// Discovery sort orders.
const (
	SortFundingGoal = "Funding Goal"
	SortEndDate     = "End Date"
	SortNewest      = "Newest"
	SortRandom      = "Random"
)

// DefaultDiscoveryLimit is the number of projects returned by discovery
// when the caller does not ask for a specific amount.
const DefaultDiscoveryLimit = 9

// SearchLimit caps free-text search results.
const SearchLimit = 9

// projectSelect joins each project with the sum of the amounts of its backed
// rewards, from which the funded percentage is derived.
const projectSelect = `
	SELECT p.id, p.title, p.short_blurb, p.description, p.category, p.funding_amount,
		p.funding_end_date, p.image_url, p.user_id, p.created_at, COALESCE(f.funded, 0)
	FROM projects p
	LEFT JOIN (
		SELECT r.project_id, SUM(r.amount) AS funded
		FROM backings b
		JOIN rewards r ON r.id = b.reward_id
		GROUP BY r.project_id
	) f ON f.project_id = p.id`

func scanProject(s scanner) (*models.Project, error) {
	var p models.Project
	var funded int64
	if err := s.Scan(
		&p.ID, &p.Title, &p.ShortBlurb, &p.Description, &p.Category, &p.FundingAmount,
		&p.FundingEndDate, &p.ImageURL, &p.UserID, &p.CreatedAt, &funded,
	); err != nil {
		return nil, notFound(err)
	}
	p.PercentageFunded = percentageFunded(funded, p.FundingAmount)
	return &p, nil
}

func percentageFunded(funded, goal int64) float64 {
	if goal <= 0 || funded <= 0 {
		return 0
	}
	return math.Round(float64(funded)/float64(goal)*100*100) / 100
}

func (db *DB) queryProjects(query string, args ...any) ([]models.Project, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// CreateProject inserts p and returns the stored project.
func (db *DB) CreateProject(p *models.Project) (*models.Project, error) {
	result, err := db.conn.Exec(
		`INSERT INTO projects (user_id, title, short_blurb, description, category,
			funding_amount, funding_end_date, image_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.UserID, p.Title, p.ShortBlurb, p.Description, p.Category,
		p.FundingAmount, p.FundingEndDate.UTC(), p.ImageURL, time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return db.GetProject(id)
}

// GetProject retrieves a single project by ID.
func (db *DB) GetProject(id int64) (*models.Project, error) {
	return scanProject(db.conn.QueryRow(projectSelect+" WHERE p.id = ?", id))
}

// UpdateProject writes the editable fields of p.
func (db *DB) UpdateProject(p *models.Project) error {
	return db.execOne(
		`UPDATE projects SET title = ?, short_blurb = ?, description = ?, category = ?,
			funding_amount = ?, funding_end_date = ?, image_url = ?
		WHERE id = ?`,
		p.Title, p.ShortBlurb, p.Description, p.Category,
		p.FundingAmount, p.FundingEndDate.UTC(), p.ImageURL, p.ID,
	)
}

// DeleteProject removes a project together with its rewards and backings.
func (db *DB) DeleteProject(id int64) error {
	return db.execOne("DELETE FROM projects WHERE id = ?", id)
}

// ListProjects retrieves every project ordered by ID.
func (db *DB) ListProjects() ([]models.Project, error) {
	return db.queryProjects(projectSelect + " ORDER BY p.id")
}

// ProjectsByUser retrieves the projects created by a user.
func (db *DB) ProjectsByUser(userID int64) ([]models.Project, error) {
	return db.queryProjects(projectSelect+" WHERE p.user_id = ? ORDER BY p.id", userID)
}

// BackedProjects retrieves the distinct projects a user has backed.
func (db *DB) BackedProjects(userID int64) ([]models.Project, error) {
	return db.queryProjects(projectSelect+`
		WHERE p.id IN (
			SELECT r.project_id FROM backings b
			JOIN rewards r ON r.id = b.reward_id
			WHERE b.user_id = ?
		)
		ORDER BY p.id`, userID)
}

// DiscoveryResults lists up to limit projects of a category ("" or "All"
// for every category) in the requested sort order.
func (db *DB) DiscoveryResults(category, sort string, limit int) ([]models.Project, error) {
	if limit <= 0 {
		return []models.Project{}, nil
	}

	var (
		where string
		args  []any
	)
	if category != "" && category != "All" {
		where = " WHERE p.category = ?"
		args = append(args, category)
	}
	args = append(args, limit)

	return db.queryProjects(projectSelect+where+" ORDER BY "+discoveryOrder(sort)+" LIMIT ?", args...)
}

func discoveryOrder(sort string) string {
	switch sort {
	case SortFundingGoal:
		return "p.funding_amount ASC, p.id ASC"
	case SortEndDate:
		return "p.funding_end_date ASC, p.id ASC"
	case SortNewest:
		return "p.created_at DESC, p.id DESC"
	default:
		return "RANDOM()"
	}
}

// SearchResults lists up to SearchLimit projects whose title or short blurb
// contains query, ignoring case for any script.
func (db *DB) SearchResults(query string) ([]models.Project, error) {
	pattern := "%" + escapeLike(foldCase(strings.TrimSpace(query))) + "%"
	return db.queryProjects(projectSelect+`
		WHERE casefold(p.title) LIKE ? ESCAPE '\' OR casefold(p.short_blurb) LIKE ? ESCAPE '\'
		ORDER BY p.id
		LIMIT ?`, pattern, pattern, SearchLimit)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
