package models

import "time"

// DefaultUserImageURL is assigned to accounts created without an avatar.
const DefaultUserImageURL = "https://i.imgur.com/rfxjQeS.png"

// Project represents a crowdfunding campaign.
type Project struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	ShortBlurb       string    `json:"short_blurb"`
	Description      string    `json:"description"`
	Category         string    `json:"category"`
	FundingAmount    int64     `json:"funding_amount"`
	FundingEndDate   time.Time `json:"funding_end_date"`
	ImageURL         string    `json:"image_url"`
	UserID           int64     `json:"user_id"`
	PercentageFunded float64   `json:"percentage_funded"`
	CreatedAt        time.Time `json:"created_at"`
}

// EntityID returns the project's ID.
func (p Project) EntityID() int64 { return p.ID }

// Reward represents a pledge tier of a project.
type Reward struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	ProjectID   int64  `json:"project_id"`
}

// EntityID returns the reward's ID.
func (r Reward) EntityID() int64 { return r.ID }

// Backing links a user to a reward they pledged for.
type Backing struct {
	ID       int64 `json:"id"`
	UserID   int64 `json:"user_id"`
	RewardID int64 `json:"reward_id"`
}

// EntityID returns the backing's ID.
func (b Backing) EntityID() int64 { return b.ID }

// User represents a user account.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	ImageURL     string `json:"image_url"`
	PasswordHash string `json:"-"`
	SessionToken string `json:"-"`
}

// EntityID returns the user's ID.
func (u User) EntityID() int64 { return u.ID }

// Category is an entry of the static project category catalog.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// EntityID returns the category's ID.
func (c Category) EntityID() int64 { return c.ID }

// Categories is the catalog every project category must belong to.
var Categories = []Category{
	{ID: 1, Name: "Art"},
	{ID: 2, Name: "Fashion"},
	{ID: 3, Name: "Film"},
	{ID: 4, Name: "Food"},
	{ID: 5, Name: "Games"},
	{ID: 6, Name: "Technology"},
}

// IsCategory reports whether name is in the catalog.
func IsCategory(name string) bool {
	for _, c := range Categories {
		if c.Name == name {
			return true
		}
	}
	return false
}
