// Package actions runs API calls against the client store: each operation
// calls the gateway and dispatches what came back, or the server's error
// messages when the call was rejected.
package actions

import (
	"context"
	"errors"
	"time"

	"kicks/internal/client"
	"kicks/internal/models"
	"kicks/internal/selectors"
	"kicks/internal/state"

	"golang.org/x/sync/errgroup"
)

// Gateway is the subset of the API client the actions use.
type Gateway interface {
	GetCurrentUser(ctx context.Context) (*models.User, error)
	SignIn(ctx context.Context, creds models.Credentials) (*models.User, error)
	SignOut(ctx context.Context) error
	SignUp(ctx context.Context, params models.SignUpParams) (*models.User, error)
	FetchUser(ctx context.Context, id int64) (*models.UserPayload, error)
	FetchProjects(ctx context.Context) (*models.ProjectsPayload, error)
	FetchProject(ctx context.Context, id int64) (*models.ProjectPayload, error)
	CreateProject(ctx context.Context, params models.ProjectParams) (*models.CreatedProjectPayload, error)
	UpdateProject(ctx context.Context, id int64, params models.ProjectParams) (*models.ProjectPayload, error)
	DeleteProject(ctx context.Context, id int64) (*models.Project, error)
	FetchDiscoveryResults(ctx context.Context, q client.DiscoveryQuery) ([]models.Project, error)
	FetchSearchResults(ctx context.Context, text string) ([]models.Project, error)
	FetchCategories(ctx context.Context) ([]models.Category, error)
	CreateReward(ctx context.Context, projectID int64, params models.RewardParams) (*models.Reward, error)
	UpdateReward(ctx context.Context, projectID, rewardID int64, params models.RewardParams) (*models.Reward, error)
	DeleteReward(ctx context.Context, projectID, rewardID int64) (*models.Reward, error)
	CreateBacking(ctx context.Context, projectID, rewardID int64) (*models.Backing, error)
}

// Actions binds a gateway to a store.
type Actions struct {
	api   Gateway
	store *state.Store
	sel   *selectors.Selectors
	now   func() time.Time
}

// New returns actions dispatching into store.
func New(api Gateway, store *state.Store) *Actions {
	return &Actions{
		api:   api,
		store: store,
		sel:   selectors.New(),
		now:   time.Now,
	}
}

// Store returns the store the actions dispatch into.
func (a *Actions) Store() *state.Store {
	return a.store
}

// Selectors returns the memoized selectors over the store.
func (a *Actions) Selectors() *selectors.Selectors {
	return a.sel
}

// rejected dispatches the messages of an API rejection through toAction and
// returns err. Transport failures are returned without touching the store.
func rejected(dispatch state.Dispatcher, err error, toAction func([]string) state.Action) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		msgs := apiErr.Messages
		if msgs == nil {
			msgs = []string{}
		}
		dispatch(toAction(msgs))
	}
	return err
}

// sessionRejected ends the loading state of a failed session call.
// Rejections replace the session errors; transport failures keep them.
func sessionRejected(dispatch state.Dispatcher, getState func() state.State, err error) error {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		dispatch(state.ReceiveSessionErrors{Errors: getState().Errors.Session})
		return err
	}
	return rejected(dispatch, err, sessionErrors)
}

func projectErrors(msgs []string) state.Action { return state.ReceiveProjectErrors{Errors: msgs} }
func rewardErrors(msgs []string) state.Action  { return state.ReceiveRewardErrors{Errors: msgs} }
func backingErrors(msgs []string) state.Action { return state.ReceiveBackingErrors{Errors: msgs} }
func sessionErrors(msgs []string) state.Action { return state.ReceiveSessionErrors{Errors: msgs} }

// LoadProjectPage fetches a project and the current user together and
// returns the page the store now describes.
func (a *Actions) LoadProjectPage(ctx context.Context, projectID int64) (selectors.ProjectPage, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := a.FetchProject(gctx, projectID)
		return err
	})
	g.Go(func() error {
		_, err := a.GetCurrentUser(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return selectors.ProjectPage{}, err
	}

	page, ok := a.sel.ProjectPage(a.store.State(), projectID, a.now())
	if !ok {
		return selectors.ProjectPage{}, errors.New("project missing from store after fetch")
	}
	return page, nil
}

// ClearErrors empties the error list of one domain.
func (a *Actions) ClearErrors(domain state.Domain) {
	a.store.Dispatch(state.ClearErrors{Domain: domain})
}

// ClearBackingErrors empties the backing errors, e.g. when a pledge form is
// reopened.
func (a *Actions) ClearBackingErrors() {
	a.ClearErrors(state.DomainBackings)
}
