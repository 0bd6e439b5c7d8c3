package state

import (
	"testing"

	"kicks/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	creator = models.User{ID: 1, Name: "Ada", Email: "ada@example.com"}
	backer  = models.User{ID: 2, Name: "Bob", Email: "bob@example.com"}
	kettle  = models.Project{ID: 10, Title: "Solar Kettle", FundingAmount: 50000, UserID: 1}
)

func TestReceiveProjectMergesNestedRecords(t *testing.T) {
	s := NewState()
	s = Reduce(s, ReceiveReward{Reward: models.Reward{ID: 99, ProjectID: 42, Amount: 5}})

	s = Reduce(s, ReceiveProject{
		Project:  kettle,
		Rewards:  map[int64]models.Reward{1: {ID: 1, ProjectID: 10, Amount: 50}},
		Backings: map[int64]models.Backing{5: {ID: 5, UserID: 2, RewardID: 1}},
		User:     &creator,
	})

	assert.True(t, s.Entities.Projects.Has(10))
	assert.Equal(t, []int64{1, 99}, s.Entities.Rewards.IDs(), "nested rewards merge, never replace")
	assert.True(t, s.Entities.Backings.Has(5))
	assert.True(t, s.Entities.Users.Has(1))
}

func TestReceiveAllProjectsReplaces(t *testing.T) {
	s := Reduce(NewState(), ReceiveProjects{Projects: []models.Project{{ID: 3, Title: "Old"}}})

	s = Reduce(s, ReceiveAllProjects{
		Projects: map[int64]models.Project{10: kettle},
		Users:    map[int64]models.User{1: creator},
	})

	assert.Equal(t, []int64{10}, s.Entities.Projects.IDs())
	assert.Equal(t, []int64{1}, s.Entities.Users.IDs())
}

func TestReceiveUserMergesEverything(t *testing.T) {
	s := Reduce(NewState(), ReceiveProject{Project: models.Project{ID: 3, Title: "Other"}, User: &creator})

	s = Reduce(s, ReceiveUser{
		User:            backer,
		BackedProjects:  map[int64]models.Project{10: kettle},
		CreatedProjects: map[int64]models.Project{11: {ID: 11, UserID: 2}},
		Rewards:         map[int64]models.Reward{1: {ID: 1, ProjectID: 10, Amount: 50}},
		Backings:        map[int64]models.Backing{5: {ID: 5, UserID: 2, RewardID: 1}},
	})

	assert.Equal(t, []int64{3, 10, 11}, s.Entities.Projects.IDs())
	assert.Equal(t, []int64{1, 2}, s.Entities.Users.IDs())
	assert.True(t, s.Entities.Rewards.Has(1))
	assert.True(t, s.Entities.Backings.Has(5))
}

func TestRemoveMissingIsNoOp(t *testing.T) {
	s := Reduce(NewState(), ReceiveProject{Project: kettle, User: &creator})
	before := s.Entities

	s = Reduce(s, RemoveReward{RewardID: 404})
	assert.Same(t, before.Rewards, s.Entities.Rewards)

	s = Reduce(s, RemoveProject{ProjectID: 404})
	assert.Same(t, before.Projects, s.Entities.Projects)
}

func TestProjectErrorsReset(t *testing.T) {
	s := Reduce(NewState(), ReceiveProjectErrors{Errors: []string{"Title required"}})
	assert.Equal(t, []string{"Title required"}, s.Errors.Projects)

	received := Reduce(s, ReceiveProject{Project: kettle, User: &creator})
	assert.Equal(t, []string{}, received.Errors.Projects)

	removed := Reduce(s, RemoveProject{ProjectID: kettle.ID})
	assert.Equal(t, []string{}, removed.Errors.Projects)
}

func TestErrorsStoredVerbatim(t *testing.T) {
	msgs := []string{"Title can't be blank", "Amount must be greater than or equal to 1"}
	s := Reduce(NewState(), ReceiveRewardErrors{Errors: msgs})
	assert.Equal(t, msgs, s.Errors.Rewards)

	s = Reduce(s, ReceiveReward{Reward: models.Reward{ID: 1, Amount: 5}})
	assert.Empty(t, s.Errors.Rewards)

	s = Reduce(s, ReceiveBackingErrors{Errors: []string{"You can't back your own projects"}})
	assert.Equal(t, []string{"You can't back your own projects"}, s.Errors.Backings)
	s = Reduce(s, ReceiveBacking{Backing: models.Backing{ID: 1, UserID: 2, RewardID: 1}})
	assert.Empty(t, s.Errors.Backings)
}

func TestUnrelatedActionsKeepErrorLists(t *testing.T) {
	s := NewState()
	s = Reduce(s, ReceiveProjectErrors{Errors: []string{"p"}})
	s = Reduce(s, ReceiveRewardErrors{Errors: []string{"r"}})
	s = Reduce(s, ReceiveBackingErrors{Errors: []string{"b"}})
	s = Reduce(s, ReceiveSessionErrors{Errors: []string{"s"}})
	before := s.Errors

	s = Reduce(s, ReceiveCategories{Categories: models.Categories})
	s = Reduce(s, Loading{})
	s = Reduce(s, ReceiveProjects{Projects: []models.Project{kettle}})

	assert.Same(t, &before.Projects[0], &s.Errors.Projects[0])
	assert.Same(t, &before.Rewards[0], &s.Errors.Rewards[0])
	assert.Same(t, &before.Backings[0], &s.Errors.Backings[0])
	assert.Same(t, &before.Session[0], &s.Errors.Session[0])
}

func TestClearErrors(t *testing.T) {
	s := Reduce(NewState(), ReceiveBackingErrors{Errors: []string{"You can't back your own projects"}})
	s = Reduce(s, ReceiveProjectErrors{Errors: []string{"p"}})

	s = Reduce(s, ClearErrors{Domain: DomainBackings})
	assert.Empty(t, s.Errors.Backings)
	assert.Equal(t, []string{"p"}, s.Errors.Projects)
	assert.Equal(t, []string{"p"}, s.Errors.Domain(DomainProjects))
}

func TestSessionFlow(t *testing.T) {
	s := NewState()
	s = Reduce(s, ReceiveCurrentUser{User: &creator})

	s = Reduce(s, Loading{})
	assert.True(t, s.Session.Loading)
	assert.Same(t, &creator, s.Session.CurrentUser, "loading leaves the user alone")

	s = Reduce(s, ReceiveCurrentUser{User: &backer})
	assert.False(t, s.Session.Loading)
	assert.Same(t, &backer, s.Session.CurrentUser)

	s = Reduce(s, Loading{})
	s = Reduce(s, ReceiveSessionErrors{Errors: []string{"bad"}})
	assert.False(t, s.Session.Loading)
	assert.Same(t, &backer, s.Session.CurrentUser)
	assert.Equal(t, []string{"bad"}, s.Errors.Session)

	s = Reduce(s, ReceiveCurrentUser{User: nil})
	assert.Nil(t, s.Session.CurrentUser)
	assert.Empty(t, s.Errors.Session)
}

func TestReduceDoesNotModifyInput(t *testing.T) {
	s := Reduce(NewState(), ReceiveProject{Project: kettle, User: &creator})
	snapshot := s.Entities.Projects.Values()

	next := Reduce(s, RemoveProject{ProjectID: kettle.ID})
	require.False(t, next.Entities.Projects.Has(kettle.ID))
	assert.Equal(t, snapshot, s.Entities.Projects.Values())
}
