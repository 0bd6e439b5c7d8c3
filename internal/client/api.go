package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"kicks/internal/models"
)

// DiscoveryQuery selects discovery results.
type DiscoveryQuery struct {
	// Category is a catalog name; empty or "All" means every category.
	Category string
	// Sort is "Funding Goal", "End Date", "Newest", or anything else for
	// random order.
	Sort string
	// NumProjects caps the results. Zero asks for the server default.
	NumProjects int
}

type userEnvelope struct {
	User *models.User `json:"user"`
}

// Health checks that the server answers.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil, nil)
}

// GetCurrentUser returns the signed-in user, or nil.
func (c *Client) GetCurrentUser(ctx context.Context) (*models.User, error) {
	var out userEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/session", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// SignIn starts a session.
func (c *Client) SignIn(ctx context.Context, creds models.Credentials) (*models.User, error) {
	var out userEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/session", nil, map[string]any{"user": creds}, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// SignOut ends the session.
func (c *Client) SignOut(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/session", nil, nil, nil)
}

// SignUp creates an account and starts its session.
func (c *Client) SignUp(ctx context.Context, params models.SignUpParams) (*models.User, error) {
	var out userEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/users", nil, map[string]any{"user": params}, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// FetchUser returns a user's profile.
func (c *Client) FetchUser(ctx context.Context, id int64) (*models.UserPayload, error) {
	var out models.UserPayload
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchProjects returns every project and their creators.
func (c *Client) FetchProjects(ctx context.Context) (*models.ProjectsPayload, error) {
	var out models.ProjectsPayload
	if err := c.do(ctx, http.MethodGet, "/api/projects", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchProject returns a project with its rewards, backings and creator.
func (c *Client) FetchProject(ctx context.Context, id int64) (*models.ProjectPayload, error) {
	var out models.ProjectPayload
	if err := c.do(ctx, http.MethodGet, projectPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProject creates a project owned by the signed-in user.
func (c *Client) CreateProject(ctx context.Context, params models.ProjectParams) (*models.CreatedProjectPayload, error) {
	var out models.CreatedProjectPayload
	if err := c.do(ctx, http.MethodPost, "/api/projects", nil, map[string]any{"project": params}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProject changes the non-nil fields of params.
func (c *Client) UpdateProject(ctx context.Context, id int64, params models.ProjectParams) (*models.ProjectPayload, error) {
	var out models.ProjectPayload
	if err := c.do(ctx, http.MethodPatch, projectPath(id), nil, map[string]any{"project": params}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProject deletes a project and returns it.
func (c *Client) DeleteProject(ctx context.Context, id int64) (*models.Project, error) {
	var out struct {
		Project models.Project `json:"project"`
	}
	if err := c.do(ctx, http.MethodDelete, projectPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Project, nil
}

// FetchDiscoveryResults lists projects by category and sort order.
func (c *Client) FetchDiscoveryResults(ctx context.Context, q DiscoveryQuery) ([]models.Project, error) {
	query := url.Values{}
	if q.Category != "" {
		query.Set("discovery[category]", q.Category)
	}
	if q.Sort != "" {
		query.Set("discovery[sort]", q.Sort)
	}
	if q.NumProjects > 0 {
		query.Set("discovery[numProjects]", strconv.Itoa(q.NumProjects))
	}

	var out []models.Project
	if err := c.do(ctx, http.MethodGet, "/api/project_discovery", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchSearchResults lists at most nine projects matching text.
func (c *Client) FetchSearchResults(ctx context.Context, text string) ([]models.Project, error) {
	var out []models.Project
	query := url.Values{"search[query]": {text}}
	if err := c.do(ctx, http.MethodGet, "/api/project_searches", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchCategories returns the category catalog.
func (c *Client) FetchCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type rewardEnvelope struct {
	Reward models.Reward `json:"reward"`
}

// CreateReward adds a reward to a project.
func (c *Client) CreateReward(ctx context.Context, projectID int64, params models.RewardParams) (*models.Reward, error) {
	var out rewardEnvelope
	if err := c.do(ctx, http.MethodPost, projectPath(projectID)+"/rewards", nil, map[string]any{"reward": params}, &out); err != nil {
		return nil, err
	}
	return &out.Reward, nil
}

// UpdateReward changes the non-nil fields of params.
func (c *Client) UpdateReward(ctx context.Context, projectID, rewardID int64, params models.RewardParams) (*models.Reward, error) {
	var out rewardEnvelope
	if err := c.do(ctx, http.MethodPatch, rewardPath(projectID, rewardID), nil, map[string]any{"reward": params}, &out); err != nil {
		return nil, err
	}
	return &out.Reward, nil
}

// DeleteReward deletes a reward and returns it.
func (c *Client) DeleteReward(ctx context.Context, projectID, rewardID int64) (*models.Reward, error) {
	var out rewardEnvelope
	if err := c.do(ctx, http.MethodDelete, rewardPath(projectID, rewardID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Reward, nil
}

// CreateBacking pledges the signed-in user to a reward.
func (c *Client) CreateBacking(ctx context.Context, projectID, rewardID int64) (*models.Backing, error) {
	var out struct {
		Backing models.Backing `json:"backing"`
	}
	if err := c.do(ctx, http.MethodPost, rewardPath(projectID, rewardID)+"/backings", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Backing, nil
}

func projectPath(id int64) string {
	return fmt.Sprintf("/api/projects/%d", id)
}

func rewardPath(projectID, rewardID int64) string {
	return fmt.Sprintf("/api/projects/%d/rewards/%d", projectID, rewardID)
}
