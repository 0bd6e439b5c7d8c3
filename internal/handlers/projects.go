package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"kicks/internal/models"
	"kicks/internal/storage"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type projectRequest struct {
	Project models.ProjectParams `json:"project"`
}

// ListProjects returns every project together with their creators.
func (h *Handlers) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.db.ListProjects()
	if err != nil {
		h.serverError(w, "list projects", err)
		return
	}
	users, err := h.db.ListUsers()
	if err != nil {
		h.serverError(w, "list users", err)
		return
	}

	writeJSON(w, http.StatusOK, models.ProjectsPayload{
		Projects: byID(projects),
		Users:    byID(users),
	})
}

// ShowProject returns a project with its rewards, backings and creator.
func (h *Handlers) ShowProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeErrors(w, http.StatusNotFound, "Project not found")
		return
	}

	project, err := h.db.GetProject(id)
	if errors.Is(err, storage.ErrNotFound) {
		writeErrors(w, http.StatusNotFound, "Project not found")
		return
	}
	if err != nil {
		h.serverError(w, "get project", err)
		return
	}

	h.writeProjectPayload(w, project)
}

// CreateProject creates a project owned by the signed-in user.
func (h *Handlers) CreateProject(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	var req projectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrors(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	project := models.Project{UserID: user.ID}
	req.Project.Apply(&project)
	project.Category = normalizeCategory(project.Category)
	if errs := project.Validate(time.Now()); len(errs) > 0 {
		writeErrors(w, http.StatusUnprocessableEntity, errs...)
		return
	}

	created, err := h.db.CreateProject(&project)
	if err != nil {
		h.serverError(w, "create project", err)
		return
	}

	h.logger.Info("project created", zap.Int64("project_id", created.ID), zap.Int64("user_id", user.ID))
	writeJSON(w, http.StatusCreated, models.CreatedProjectPayload{Project: *created, User: *user})
}

// UpdateProject applies a partial update to a project of the signed-in user.
func (h *Handlers) UpdateProject(w http.ResponseWriter, r *http.Request) {
	project, ok := h.ownedProject(w, r, "Update failed. Project not found", "You can only edit your own projects")
	if !ok {
		return
	}

	var req projectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrors(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Project.Apply(project)
	project.Category = normalizeCategory(project.Category)
	if errs := project.Validate(time.Now()); len(errs) > 0 {
		writeErrors(w, http.StatusUnprocessableEntity, errs...)
		return
	}

	if err := h.db.UpdateProject(project); err != nil {
		h.serverError(w, "update project", err)
		return
	}

	updated, err := h.db.GetProject(project.ID)
	if err != nil {
		h.serverError(w, "get project", err)
		return
	}
	h.writeProjectPayload(w, updated)
}

// DeleteProject removes a project of the signed-in user along with its
// rewards and backings.
func (h *Handlers) DeleteProject(w http.ResponseWriter, r *http.Request) {
	project, ok := h.ownedProject(w, r, "Deletion failed. Project not found", "You can only delete your own projects")
	if !ok {
		return
	}

	if err := h.db.DeleteProject(project.ID); err != nil {
		h.serverError(w, "delete project", err)
		return
	}

	h.logger.Info("project deleted", zap.Int64("project_id", project.ID))
	writeJSON(w, http.StatusOK, map[string]models.Project{"project": *project})
}

// Discovery lists projects filtered by category and ordered by the requested
// sort.
func (h *Handlers) Discovery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := storage.DefaultDiscoveryLimit
	if raw := q.Get("discovery[numProjects]"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			limit = n
		}
	}

	projects, err := h.db.DiscoveryResults(
		normalizeCategory(q.Get("discovery[category]")),
		q.Get("discovery[sort]"),
		limit,
	)
	if err != nil {
		h.serverError(w, "discovery results", err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// Search lists the projects whose title or blurb matches the query.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	projects, err := h.db.SearchResults(r.URL.Query().Get("search[query]"))
	if err != nil {
		h.serverError(w, "search results", err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// ownedProject loads the {id} project and checks that the signed-in user
// created it. On failure the response has been written.
func (h *Handlers) ownedProject(w http.ResponseWriter, r *http.Request, notFoundMsg, forbiddenMsg string) (*models.Project, bool) {
	id, ok := pathID(r, "id")
	if !ok {
		writeErrors(w, http.StatusNotFound, notFoundMsg)
		return nil, false
	}

	project, err := h.db.GetProject(id)
	if errors.Is(err, storage.ErrNotFound) {
		writeErrors(w, http.StatusNotFound, notFoundMsg)
		return nil, false
	}
	if err != nil {
		h.serverError(w, "get project", err)
		return nil, false
	}

	if project.UserID != GetUserFromContext(r).ID {
		writeErrors(w, http.StatusForbidden, forbiddenMsg)
		return nil, false
	}
	return project, true
}

func (h *Handlers) writeProjectPayload(w http.ResponseWriter, project *models.Project) {
	rewards, err := h.db.RewardsByProject(project.ID)
	if err != nil {
		h.serverError(w, "list rewards", err)
		return
	}
	backings, err := h.db.BackingsByProject(project.ID)
	if err != nil {
		h.serverError(w, "list backings", err)
		return
	}
	creator, err := h.db.GetUserByID(project.UserID)
	if err != nil {
		h.serverError(w, "get project creator", err)
		return
	}

	writeJSON(w, http.StatusOK, models.ProjectPayload{
		Project:  *project,
		Rewards:  byID(rewards),
		Backings: byID(backings),
		User:     *creator,
	})
}

// normalizeCategory maps user input such as " technology " onto the
// catalog's spelling.
func normalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return ""
	}
	// Casers are stateful, one per call.
	return cases.Title(language.English).String(strings.ToLower(category))
}
