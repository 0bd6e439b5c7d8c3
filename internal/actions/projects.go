package actions

import (
	"context"

	"kicks/internal/client"
	"kicks/internal/models"
	"kicks/internal/state"
)

// FetchProjects loads every project and their creators, replacing both
// collections.
func (a *Actions) FetchProjects(ctx context.Context) error {
	return a.store.Thunk(func(dispatch state.Dispatcher, _ func() state.State) error {
		p, err := a.api.FetchProjects(ctx)
		if err != nil {
			return rejected(dispatch, err, projectErrors)
		}
		dispatch(state.ReceiveAllProjects{Projects: p.Projects, Users: p.Users})
		return nil
	})
}

// FetchProject loads a project with its rewards, backings and creator.
func (a *Actions) FetchProject(ctx context.Context, id int64) (*models.Project, error) {
	var project *models.Project
	err := a.store.Thunk(func(dispatch state.Dispatcher, _ func() state.State) error {
		p, err := a.api.FetchProject(ctx, id)
		if err != nil {
			return rejected(dispatch, err, projectErrors)
		}
		project = &p.Project
		dispatch(receiveProjectPayload(p))
		return nil
	})
	return project, err
}

// CreateProject creates a project for the signed-in user.
func (a *Actions) CreateProject(ctx context.Context, params models.ProjectParams) (*models.Project, error) {
	var project *models.Project
	err := a.store.Thunk(func(dispatch state.Dispatcher, _ func() state.State) error {
		p, err := a.api.CreateProject(ctx, params)
		if err != nil {
			return rejected(dispatch, err, projectErrors)
		}
		project = &p.Project
		dispatch(state.ReceiveProject{Project: p.Project, User: &p.User})
		return nil
	})
	return project, err
}

// UpdateProject changes a project of the signed-in user.
func (a *Actions) UpdateProject(ctx context.Context, id int64, params models.ProjectParams) (*models.Project, error) {
	var project *models.Project
	err := a.store.Thunk(func(dispatch state.Dispatcher, _ func() state.State) error {
		p, err := a.api.UpdateProject(ctx, id, params)
		if err != nil {
			return rejected(dispatch, err, projectErrors)
		}
		project = &p.Project
		dispatch(receiveProjectPayload(p))
		return nil
	})
	return project, err
}

// DeleteProject deletes a project of the signed-in user.
func (a *Actions) DeleteProject(ctx context.Context, id int64) error {
	return a.store.Thunk(func(dispatch state.Dispatcher, _ func() state.State) error {
		p, err := a.api.DeleteProject(ctx, id)
		if err != nil {
			return rejected(dispatch, err, projectErrors)
		}
		dispatch(state.RemoveProject{ProjectID: p.ID})
		return nil
	})
}

// Discover loads discovery results into the store and returns them in
// server order.
func (a *Actions) Discover(ctx context.Context, q client.DiscoveryQuery) ([]models.Project, error) {
	var projects []models.Project
	err := a.store.Thunk(func(dispatch state.Dispatcher, _ func() state.State) error {
		p, err := a.api.FetchDiscoveryResults(ctx, q)
		if err != nil {
			return rejected(dispatch, err, projectErrors)
		}
		projects = p
		dispatch(state.ReceiveProjects{Projects: p})
		return nil
	})
	return projects, err
}

// Search loads search results into the store and returns them in server
// order.
func (a *Actions) Search(ctx context.Context, text string) ([]models.Project, error) {
	var projects []models.Project
	err := a.store.Thunk(func(dispatch state.Dispatcher, _ func() state.State) error {
		p, err := a.api.FetchSearchResults(ctx, text)
		if err != nil {
			return rejected(dispatch, err, projectErrors)
		}
		projects = p
		dispatch(state.ReceiveProjects{Projects: p})
		return nil
	})
	return projects, err
}

// FetchCategories loads the category catalog.
func (a *Actions) FetchCategories(ctx context.Context) error {
	return a.store.Thunk(func(dispatch state.Dispatcher, _ func() state.State) error {
		categories, err := a.api.FetchCategories(ctx)
		if err != nil {
			return err
		}
		dispatch(state.ReceiveCategories{Categories: categories})
		return nil
	})
}

func receiveProjectPayload(p *models.ProjectPayload) state.ReceiveProject {
	user := p.User
	return state.ReceiveProject{
		Project:  p.Project,
		Rewards:  p.Rewards,
		Backings: p.Backings,
		User:     &user,
	}
}
