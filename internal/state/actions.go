package state

import "kicks/internal/models"

// Action is a state transition request. The set of actions is closed: only
// the types in this file implement it.
type Action interface {
	isAction()
}

// Domain names an error list.
type Domain int

const (
	DomainBackings Domain = iota
	DomainProjects
	DomainRewards
	DomainSession
)

func (d Domain) String() string {
	switch d {
	case DomainBackings:
		return "backings"
	case DomainProjects:
		return "projects"
	case DomainRewards:
		return "rewards"
	case DomainSession:
		return "session"
	default:
		return "unknown"
	}
}

// ReceiveAllProjects replaces the projects and users collections.
type ReceiveAllProjects struct {
	Projects map[int64]models.Project
	Users    map[int64]models.User
}

// ReceiveProject stores a project along with its rewards, backings and
// creator.
type ReceiveProject struct {
	Project  models.Project
	Rewards  map[int64]models.Reward
	Backings map[int64]models.Backing
	User     *models.User
}

// ReceiveProjects merges a list of projects, such as discovery or search
// results.
type ReceiveProjects struct {
	Projects []models.Project
}

// RemoveProject drops a deleted project.
type RemoveProject struct {
	ProjectID int64
}

// ReceiveProjectErrors replaces the project errors.
type ReceiveProjectErrors struct {
	Errors []string
}

// ReceiveReward stores a created or updated reward.
type ReceiveReward struct {
	Reward models.Reward
}

// RemoveReward drops a deleted reward.
type RemoveReward struct {
	RewardID int64
}

// ReceiveRewardErrors replaces the reward errors.
type ReceiveRewardErrors struct {
	Errors []string
}

// ReceiveBacking stores a new backing.
type ReceiveBacking struct {
	Backing models.Backing
}

// ReceiveBackings merges backings.
type ReceiveBackings struct {
	Backings map[int64]models.Backing
}

// ReceiveBackingErrors replaces the backing errors.
type ReceiveBackingErrors struct {
	Errors []string
}

// ReceiveUser stores a user profile with the projects they backed and
// created and the rewards and backings linking them.
type ReceiveUser struct {
	User            models.User
	BackedProjects  map[int64]models.Project
	CreatedProjects map[int64]models.Project
	Rewards         map[int64]models.Reward
	Backings        map[int64]models.Backing
}

// ReceiveCategories replaces the category catalog.
type ReceiveCategories struct {
	Categories []models.Category
}

// ClearErrors empties the errors of one domain.
type ClearErrors struct {
	Domain Domain
}

// Loading marks an auth request in flight.
type Loading struct{}

// ReceiveCurrentUser sets the signed-in user, nil after sign-out.
type ReceiveCurrentUser struct {
	User *models.User
}

// ReceiveSessionErrors replaces the session errors.
type ReceiveSessionErrors struct {
	Errors []string
}

func (ReceiveAllProjects) isAction()   {}
func (ReceiveProject) isAction()       {}
func (ReceiveProjects) isAction()      {}
func (RemoveProject) isAction()        {}
func (ReceiveProjectErrors) isAction() {}
func (ReceiveReward) isAction()        {}
func (RemoveReward) isAction()         {}
func (ReceiveRewardErrors) isAction()  {}
func (ReceiveBacking) isAction()       {}
func (ReceiveBackings) isAction()      {}
func (ReceiveBackingErrors) isAction() {}
func (ReceiveUser) isAction()          {}
func (ReceiveCategories) isAction()    {}
func (ClearErrors) isAction()          {}
func (Loading) isAction()              {}
func (ReceiveCurrentUser) isAction()   {}
func (ReceiveSessionErrors) isAction() {}
