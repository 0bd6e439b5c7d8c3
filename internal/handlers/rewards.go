package handlers

import (
	"errors"
	"net/http"

	"kicks/internal/models"
	"kicks/internal/storage"

	"go.uber.org/zap"
)

type rewardRequest struct {
	Reward models.RewardParams `json:"reward"`
}

type rewardPayload struct {
	Reward models.Reward `json:"reward"`
}

// CreateReward adds a reward tier to a project of the signed-in user.
func (h *Handlers) CreateReward(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.ownedProject(w, r,
		"Cannot create rewards for projects that do not exist",
		"Cannot create rewards for projects that were not created by you",
	); !ok {
		return
	}
	projectID, _ := pathID(r, "id")

	var req rewardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrors(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	reward := models.Reward{ProjectID: projectID}
	req.Reward.Apply(&reward)
	if errs := reward.Validate(); len(errs) > 0 {
		writeErrors(w, http.StatusUnprocessableEntity, errs...)
		return
	}

	created, err := h.db.CreateReward(&reward)
	if err != nil {
		h.serverError(w, "create reward", err)
		return
	}

	h.logger.Info("reward created", zap.Int64("reward_id", created.ID), zap.Int64("project_id", projectID))
	writeJSON(w, http.StatusCreated, rewardPayload{Reward: *created})
}

// UpdateReward applies a partial update to a reward.
func (h *Handlers) UpdateReward(w http.ResponseWriter, r *http.Request) {
	reward, ok := h.ownedReward(w, r, "Update failed. Reward not found")
	if !ok {
		return
	}

	var req rewardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrors(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Reward.Apply(reward)
	if errs := reward.Validate(); len(errs) > 0 {
		writeErrors(w, http.StatusUnprocessableEntity, errs...)
		return
	}

	if err := h.db.UpdateReward(reward); err != nil {
		h.serverError(w, "update reward", err)
		return
	}
	writeJSON(w, http.StatusOK, rewardPayload{Reward: *reward})
}

// DeleteReward removes a reward and its backings.
func (h *Handlers) DeleteReward(w http.ResponseWriter, r *http.Request) {
	reward, ok := h.ownedReward(w, r, "Deletion failed. Reward not found")
	if !ok {
		return
	}

	if err := h.db.DeleteReward(reward.ID); err != nil {
		h.serverError(w, "delete reward", err)
		return
	}

	h.logger.Info("reward deleted", zap.Int64("reward_id", reward.ID))
	writeJSON(w, http.StatusOK, rewardPayload{Reward: *reward})
}

// ownedReward loads the {rid} reward of the {id} project and checks that the
// signed-in user created the project. On failure the response has been
// written.
func (h *Handlers) ownedReward(w http.ResponseWriter, r *http.Request, notFoundMsg string) (*models.Reward, bool) {
	projectID, ok := pathID(r, "id")
	if !ok {
		writeErrors(w, http.StatusNotFound, notFoundMsg)
		return nil, false
	}
	rewardID, ok := pathID(r, "rid")
	if !ok {
		writeErrors(w, http.StatusNotFound, notFoundMsg)
		return nil, false
	}

	reward, err := h.db.GetReward(rewardID)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && reward.ProjectID != projectID) {
		writeErrors(w, http.StatusNotFound, notFoundMsg)
		return nil, false
	}
	if err != nil {
		h.serverError(w, "get reward", err)
		return nil, false
	}

	project, err := h.db.GetProject(projectID)
	if err != nil {
		h.serverError(w, "get project", err)
		return nil, false
	}
	if project.UserID != GetUserFromContext(r).ID {
		writeErrors(w, http.StatusForbidden, "Cannot modify rewards for projects that were not created by you")
		return nil, false
	}
	return reward, true
}
