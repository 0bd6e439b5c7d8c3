package models

// ProjectsPayload is the body of GET /api/projects.
type ProjectsPayload struct {
	Projects map[int64]Project `json:"projects"`
	Users    map[int64]User    `json:"users"`
}

// ProjectPayload is the body of a project show or update.
type ProjectPayload struct {
	Project  Project           `json:"project"`
	Rewards  map[int64]Reward  `json:"rewards"`
	Backings map[int64]Backing `json:"backings"`
	User     User              `json:"user"`
}

// CreatedProjectPayload is the body returned after creating a project.
type CreatedProjectPayload struct {
	Project Project `json:"project"`
	User    User    `json:"user"`
}

// UserPayload is the body of GET /api/users/{id}.
type UserPayload struct {
	User            User              `json:"user"`
	BackedProjects  map[int64]Project `json:"backed_projects"`
	CreatedProjects map[int64]Project `json:"created_projects"`
	Rewards         map[int64]Reward  `json:"rewards"`
	Backings        map[int64]Backing `json:"backings"`
}

// SessionPayload carries the signed-in user, or null when signed out.
type SessionPayload struct {
	User *User `json:"user"`
}

// ProjectParams holds writable project fields. Nil fields are left
// untouched on update.
type ProjectParams struct {
	Title          *string `json:"title,omitempty"`
	ShortBlurb     *string `json:"short_blurb,omitempty"`
	Description    *string `json:"description,omitempty"`
	Category       *string `json:"category,omitempty"`
	FundingAmount  *int64  `json:"funding_amount,omitempty"`
	FundingEndDate *Time   `json:"funding_end_date,omitempty"`
	ImageURL       *string `json:"image_url,omitempty"`
}

// RewardParams holds writable reward fields. Nil fields are left untouched
// on update.
type RewardParams struct {
	Title       *string `json:"title,omitempty"`
	Amount      *int64  `json:"amount,omitempty"`
	Description *string `json:"description,omitempty"`
}

// SignUpParams is the body of POST /api/users.
type SignUpParams struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Credentials is the body of POST /api/session.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
