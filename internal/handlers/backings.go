package handlers

import (
	"errors"
	"net/http"

	"kicks/internal/models"
	"kicks/internal/storage"

	"go.uber.org/zap"
)

const (
	msgMissingReward  = "You must choose an existing reward to back a project"
	msgMissingProject = "You can't back a project that does not exist"
	msgOwnProject     = "You can't back your own projects"
	msgBackedTwice    = "You can't back a project again once you have already backed it"
)

type backingPayload struct {
	Backing models.Backing `json:"backing"`
}

// CreateBacking pledges the signed-in user to the {rid} reward of the {id}
// project. A user may back a project at most once and never their own.
func (h *Handlers) CreateBacking(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	rewardID, ok := pathID(r, "rid")
	if !ok {
		writeErrors(w, http.StatusNotFound, msgMissingReward)
		return
	}
	projectID, ok := pathID(r, "id")
	if !ok {
		writeErrors(w, http.StatusNotFound, msgMissingProject)
		return
	}

	reward, err := h.db.GetReward(rewardID)
	if errors.Is(err, storage.ErrNotFound) {
		writeErrors(w, http.StatusNotFound, msgMissingReward)
		return
	}
	if err != nil {
		h.serverError(w, "get reward", err)
		return
	}
	if reward.ProjectID != projectID {
		writeErrors(w, http.StatusNotFound, msgMissingProject)
		return
	}

	project, err := h.db.GetProject(projectID)
	if err != nil {
		h.serverError(w, "get project", err)
		return
	}
	if project.UserID == user.ID {
		writeErrors(w, http.StatusForbidden, msgOwnProject)
		return
	}

	backed, err := h.db.HasBackedProject(user.ID, projectID)
	if err != nil {
		h.serverError(w, "check backings", err)
		return
	}
	if backed {
		writeErrors(w, http.StatusForbidden, msgBackedTwice)
		return
	}

	backing, err := h.db.CreateBacking(user.ID, reward.ID)
	if errors.Is(err, storage.ErrDuplicateBacking) {
		writeErrors(w, http.StatusForbidden, msgBackedTwice)
		return
	}
	if err != nil {
		h.serverError(w, "create backing", err)
		return
	}

	h.logger.Info("project backed",
		zap.Int64("project_id", projectID),
		zap.Int64("reward_id", reward.ID),
		zap.Int64("user_id", user.ID),
	)
	writeJSON(w, http.StatusCreated, backingPayload{Backing: *backing})
}
