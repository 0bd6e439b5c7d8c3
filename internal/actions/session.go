package actions

import (
	"context"

	"kicks/internal/models"
	"kicks/internal/state"
)

// GetCurrentUser loads the signed-in user, nil when signed out.
func (a *Actions) GetCurrentUser(ctx context.Context) (*models.User, error) {
	var user *models.User
	err := a.store.Thunk(func(dispatch state.Dispatcher, getState func() state.State) error {
		dispatch(state.Loading{})
		u, err := a.api.GetCurrentUser(ctx)
		if err != nil {
			return sessionRejected(dispatch, getState, err)
		}
		user = u
		dispatch(state.ReceiveCurrentUser{User: u})
		return nil
	})
	return user, err
}

// SignIn starts a session and records its user.
func (a *Actions) SignIn(ctx context.Context, creds models.Credentials) (*models.User, error) {
	var user *models.User
	err := a.store.Thunk(func(dispatch state.Dispatcher, getState func() state.State) error {
		dispatch(state.Loading{})
		u, err := a.api.SignIn(ctx, creds)
		if err != nil {
			return sessionRejected(dispatch, getState, err)
		}
		user = u
		dispatch(state.ReceiveCurrentUser{User: u})
		return nil
	})
	return user, err
}

// SignUp creates an account and records its user.
func (a *Actions) SignUp(ctx context.Context, params models.SignUpParams) (*models.User, error) {
	var user *models.User
	err := a.store.Thunk(func(dispatch state.Dispatcher, getState func() state.State) error {
		dispatch(state.Loading{})
		u, err := a.api.SignUp(ctx, params)
		if err != nil {
			return sessionRejected(dispatch, getState, err)
		}
		user = u
		dispatch(state.ReceiveCurrentUser{User: u})
		return nil
	})
	return user, err
}

// SignOut ends the session and forgets its user.
func (a *Actions) SignOut(ctx context.Context) error {
	return a.store.Thunk(func(dispatch state.Dispatcher, getState func() state.State) error {
		dispatch(state.Loading{})
		if err := a.api.SignOut(ctx); err != nil {
			return sessionRejected(dispatch, getState, err)
		}
		dispatch(state.ReceiveCurrentUser{User: nil})
		return nil
	})
}

// FetchUser loads a profile with the projects, rewards and backings it
// references. Failures have no error domain and are only returned.
func (a *Actions) FetchUser(ctx context.Context, id int64) (*models.UserPayload, error) {
	var payload *models.UserPayload
	err := a.store.Thunk(func(dispatch state.Dispatcher, _ func() state.State) error {
		p, err := a.api.FetchUser(ctx, id)
		if err != nil {
			return err
		}
		payload = p
		dispatch(state.ReceiveUser{
			User:            p.User,
			BackedProjects:  p.BackedProjects,
			CreatedProjects: p.CreatedProjects,
			Rewards:         p.Rewards,
			Backings:        p.Backings,
		})
		return nil
	})
	return payload, err
}
