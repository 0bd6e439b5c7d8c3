// Package selectors derives views from the client store: rewards of a
// project, projects of a user, and what a project page lets the viewer do.
package selectors

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"kicks/internal/models"
	"kicks/internal/state"
)

// ProjectRewards returns the rewards of projectID sorted by ascending amount.
// Rewards with equal amounts keep ascending id order.
func ProjectRewards(rewards *state.Collection[models.Reward], projectID int64) []models.Reward {
	out := rewards.Filter(func(r models.Reward) bool { return r.ProjectID == projectID })
	slices.SortStableFunc(out, func(a, b models.Reward) int {
		return cmp.Compare(a.Amount, b.Amount)
	})
	return out
}

// AlreadyBacked reports whether user holds a backing of any of rewardIDs.
// It is false for a nil user.
func AlreadyBacked(backings *state.Collection[models.Backing], rewardIDs []int64, user *models.User) bool {
	if user == nil || len(rewardIDs) == 0 {
		return false
	}
	for _, b := range backings.Values() {
		if b.UserID == user.ID && slices.Contains(rewardIDs, b.RewardID) {
			return true
		}
	}
	return false
}

// BackedProjects returns the projects userID backed, in backing order,
// each project once. It is empty when the user is not loaded; backings whose
// reward or project is not loaded are skipped.
func BackedProjects(e state.Entities, userID int64) []models.Project {
	out := []models.Project{}
	if !e.Users.Has(userID) {
		return out
	}

	seen := make(map[int64]bool)
	for _, b := range e.Backings.Values() {
		if b.UserID != userID {
			continue
		}
		reward, ok := e.Rewards.Get(b.RewardID)
		if !ok {
			continue
		}
		project, ok := e.Projects.Get(reward.ProjectID)
		if !ok || seen[project.ID] {
			continue
		}
		seen[project.ID] = true
		out = append(out, project)
	}
	return out
}

// CreatedProjects returns the projects created by userID in id order. It is
// empty when the user is not loaded.
func CreatedProjects(e state.Entities, userID int64) []models.Project {
	if !e.Users.Has(userID) {
		return []models.Project{}
	}
	out := e.Projects.Filter(func(p models.Project) bool { return p.UserID == userID })
	if out == nil {
		out = []models.Project{}
	}
	return out
}

// RewardIDs returns the ids of rewards.
func RewardIDs(rewards []models.Reward) []int64 {
	ids := make([]int64, len(rewards))
	for i, r := range rewards {
		ids[i] = r.ID
	}
	return ids
}

func idsKey(ids []int64) string {
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(id, 10))
	}
	return b.String()
}

func parseIDsKey(key string) []int64 {
	if key == "" {
		return nil
	}
	parts := strings.Split(key, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(p, 10, 64)
		if err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
