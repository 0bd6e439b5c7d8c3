package state

import "kicks/internal/models"

// Entities is the normalized cache of server records.
type Entities struct {
	Backings   *Collection[models.Backing]
	Categories *Collection[models.Category]
	Projects   *Collection[models.Project]
	Rewards    *Collection[models.Reward]
	Users      *Collection[models.User]
}

// Errors holds the user-facing messages of the last failed request, per
// domain.
type Errors struct {
	Backings []string
	Projects []string
	Rewards  []string
	Session  []string
}

// Domain returns the messages of d.
func (e Errors) Domain(d Domain) []string {
	switch d {
	case DomainBackings:
		return e.Backings
	case DomainProjects:
		return e.Projects
	case DomainRewards:
		return e.Rewards
	case DomainSession:
		return e.Session
	default:
		return nil
	}
}

// Session tracks the signed-in user. Session error text lives in Errors.
type Session struct {
	CurrentUser *models.User
	Loading     bool
}

// State is the whole client store.
type State struct {
	Entities Entities
	Errors   Errors
	Session  Session
}

// NewState returns an empty state.
func NewState() State {
	return State{
		Entities: Entities{
			Backings:   NewCollection[models.Backing](),
			Categories: NewCollection[models.Category](),
			Projects:   NewCollection[models.Project](),
			Rewards:    NewCollection[models.Reward](),
			Users:      NewCollection[models.User](),
		},
		Errors: Errors{
			Backings: []string{},
			Projects: []string{},
			Rewards:  []string{},
			Session:  []string{},
		},
	}
}

// Reduce returns the state after applying a. It never modifies s; fields an
// action does not touch keep their identity.
func Reduce(s State, a Action) State {
	s.Entities = reduceEntities(s.Entities, a)
	s.Errors = reduceErrors(s.Errors, a)
	s.Session = reduceSession(s.Session, a)
	return s
}

func reduceEntities(e Entities, a Action) Entities {
	switch a := a.(type) {
	case ReceiveAllProjects:
		e.Projects = e.Projects.Replace(a.Projects)
		e.Users = e.Users.Replace(a.Users)
	case ReceiveProject:
		e.Projects = e.Projects.Upsert(a.Project)
		e.Rewards = e.Rewards.Merge(a.Rewards)
		e.Backings = e.Backings.Merge(a.Backings)
		if a.User != nil {
			e.Users = e.Users.Upsert(*a.User)
		}
	case ReceiveProjects:
		e.Projects = e.Projects.MergeSlice(a.Projects)
	case RemoveProject:
		e.Projects = e.Projects.Remove(a.ProjectID)
	case ReceiveReward:
		e.Rewards = e.Rewards.Upsert(a.Reward)
	case RemoveReward:
		e.Rewards = e.Rewards.Remove(a.RewardID)
	case ReceiveBacking:
		e.Backings = e.Backings.Upsert(a.Backing)
	case ReceiveBackings:
		e.Backings = e.Backings.Merge(a.Backings)
	case ReceiveUser:
		e.Projects = e.Projects.Merge(a.BackedProjects).Merge(a.CreatedProjects)
		e.Rewards = e.Rewards.Merge(a.Rewards)
		e.Backings = e.Backings.Merge(a.Backings)
		e.Users = e.Users.Upsert(a.User)
	case ReceiveCategories:
		e.Categories = NewCollection(a.Categories...)
	}
	return e
}

func reduceErrors(e Errors, a Action) Errors {
	switch a := a.(type) {
	case ReceiveProject:
		e.Projects = cleared(e.Projects)
	case RemoveProject:
		e.Projects = cleared(e.Projects)
	case ReceiveProjectErrors:
		e.Projects = a.Errors
	case ReceiveReward:
		e.Rewards = cleared(e.Rewards)
	case RemoveReward:
		e.Rewards = cleared(e.Rewards)
	case ReceiveRewardErrors:
		e.Rewards = a.Errors
	case ReceiveBacking:
		e.Backings = cleared(e.Backings)
	case ReceiveBackingErrors:
		e.Backings = a.Errors
	case ReceiveCurrentUser:
		e.Session = cleared(e.Session)
	case ReceiveSessionErrors:
		e.Session = a.Errors
	case ClearErrors:
		switch a.Domain {
		case DomainBackings:
			e.Backings = cleared(e.Backings)
		case DomainProjects:
			e.Projects = cleared(e.Projects)
		case DomainRewards:
			e.Rewards = cleared(e.Rewards)
		case DomainSession:
			e.Session = cleared(e.Session)
		}
	}
	return e
}

// cleared returns an empty list, reusing msgs when it already is one.
func cleared(msgs []string) []string {
	if msgs != nil && len(msgs) == 0 {
		return msgs
	}
	return []string{}
}

func reduceSession(s Session, a Action) Session {
	switch a := a.(type) {
	case Loading:
		s.Loading = true
	case ReceiveCurrentUser:
		s.CurrentUser = a.User
		s.Loading = false
	case ReceiveSessionErrors:
		s.Loading = false
	}
	return s
}
