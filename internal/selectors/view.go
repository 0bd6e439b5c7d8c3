package selectors

import (
	"slices"
	"time"

	"kicks/internal/models"
	"kicks/internal/state"
)

type rewardsKey struct {
	rewards   *state.Collection[models.Reward]
	projectID int64
}

type backedKey struct {
	backings  *state.Collection[models.Backing]
	rewardIDs string
	userID    int64
	signedIn  bool
}

type userProjectsKey struct {
	backings *state.Collection[models.Backing]
	rewards  *state.Collection[models.Reward]
	projects *state.Collection[models.Project]
	users    *state.Collection[models.User]
	userID   int64
}

// Selectors memoizes the derived views of one store. Each selector keeps
// the result for its latest inputs.
type Selectors struct {
	projectRewards  *Memo[rewardsKey, []models.Reward]
	alreadyBacked   *Memo[backedKey, bool]
	backedProjects  *Memo[userProjectsKey, []models.Project]
	createdProjects *Memo[userProjectsKey, []models.Project]
}

// New returns an empty set of memoized selectors.
func New() *Selectors {
	return &Selectors{
		projectRewards: NewMemo(func(k rewardsKey) []models.Reward {
			return ProjectRewards(k.rewards, k.projectID)
		}, slices.Equal[[]models.Reward]),
		alreadyBacked: NewMemo(func(k backedKey) bool {
			var user *models.User
			if k.signedIn {
				user = &models.User{ID: k.userID}
			}
			return AlreadyBacked(k.backings, parseIDsKey(k.rewardIDs), user)
		}, nil),
		backedProjects: NewMemo(func(k userProjectsKey) []models.Project {
			return BackedProjects(state.Entities{
				Backings: k.backings, Rewards: k.rewards, Projects: k.projects, Users: k.users,
			}, k.userID)
		}, slices.Equal[[]models.Project]),
		createdProjects: NewMemo(func(k userProjectsKey) []models.Project {
			return CreatedProjects(state.Entities{Projects: k.projects, Users: k.users}, k.userID)
		}, slices.Equal[[]models.Project]),
	}
}

// ProjectRewards is the memoized ProjectRewards.
func (s *Selectors) ProjectRewards(st state.State, projectID int64) []models.Reward {
	return s.projectRewards.Get(rewardsKey{rewards: st.Entities.Rewards, projectID: projectID})
}

// AlreadyBacked is the memoized AlreadyBacked.
func (s *Selectors) AlreadyBacked(st state.State, rewardIDs []int64, user *models.User) bool {
	key := backedKey{backings: st.Entities.Backings, rewardIDs: idsKey(rewardIDs)}
	if user != nil {
		key.userID, key.signedIn = user.ID, true
	}
	return s.alreadyBacked.Get(key)
}

// BackedProjects is the memoized BackedProjects.
func (s *Selectors) BackedProjects(st state.State, userID int64) []models.Project {
	e := st.Entities
	return s.backedProjects.Get(userProjectsKey{
		backings: e.Backings, rewards: e.Rewards, projects: e.Projects, users: e.Users, userID: userID,
	})
}

// CreatedProjects is the memoized CreatedProjects.
func (s *Selectors) CreatedProjects(st state.State, userID int64) []models.Project {
	e := st.Entities
	return s.createdProjects.Get(userProjectsKey{projects: e.Projects, users: e.Users, userID: userID})
}

// ProjectPage is everything a project page renders.
type ProjectPage struct {
	Project       models.Project
	Creator       *models.User
	Rewards       []models.Reward
	AlreadyBacked bool
	Display       PledgeDisplay
	Backers       int
	FundedAmount  int64
	DaysRemaining int
}

// ProjectPage assembles the page of projectID for the signed-in user. It
// reports false when the project is not loaded.
func (s *Selectors) ProjectPage(st state.State, projectID int64, now time.Time) (ProjectPage, bool) {
	project, ok := st.Entities.Projects.Get(projectID)
	if !ok {
		return ProjectPage{}, false
	}

	rewards := s.ProjectRewards(st, projectID)
	rewardIDs := RewardIDs(rewards)
	currentUser := st.Session.CurrentUser
	backed := s.AlreadyBacked(st, rewardIDs, currentUser)

	page := ProjectPage{
		Project:       project,
		Rewards:       rewards,
		AlreadyBacked: backed,
		Display:       DisplayFor(currentUser, project, backed),
		DaysRemaining: DaysRemaining(project.FundingEndDate, now),
	}
	if creator, ok := st.Entities.Users.Get(project.UserID); ok {
		page.Creator = &creator
	}

	amounts := make(map[int64]int64, len(rewards))
	for _, r := range rewards {
		amounts[r.ID] = r.Amount
	}
	for _, b := range st.Entities.Backings.Values() {
		if amount, ok := amounts[b.RewardID]; ok {
			page.Backers++
			page.FundedAmount += amount
		}
	}
	return page, true
}
