package actions

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kicks/internal/client"
	"kicks/internal/handlers"
	"kicks/internal/models"
	"kicks/internal/selectors"
	"kicks/internal/state"
	"kicks/internal/storage"

	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ActionsTestSuite runs the actions against a real server backed by an
// in-memory database.
type ActionsTestSuite struct {
	suite.Suite
	db      *storage.DB
	server  *httptest.Server
	clients []*client.Client
	ctx     context.Context
}

func (suite *ActionsTestSuite) SetupTest() {
	db, err := storage.NewDB(":memory:")
	suite.Require().NoError(err)
	suite.db = db
	suite.server = httptest.NewServer(handlers.NewHandlers(db, zap.NewNop(), false).Routes())
	suite.ctx = context.Background()
}

func (suite *ActionsTestSuite) TearDownTest() {
	for _, c := range suite.clients {
		c.CloseIdleConnections()
	}
	suite.clients = nil
	suite.server.Close()
	suite.db.Close()
}

// newSession returns actions over a fresh store and cookie jar.
func (suite *ActionsTestSuite) newSession() *Actions {
	c, err := client.New(suite.server.URL)
	suite.Require().NoError(err)
	suite.clients = append(suite.clients, c)
	return New(c, state.NewStore(state.NewState(), zap.NewNop()))
}

func (suite *ActionsTestSuite) signUp(a *Actions, name string) *models.User {
	user, err := a.SignUp(suite.ctx, models.SignUpParams{
		Name:     name,
		Email:    strings.ToLower(name) + "@example.com",
		Password: "secret123",
	})
	suite.Require().NoError(err)
	return user
}

func ptr[T any](v T) *T { return &v }

func validProject(title string) models.ProjectParams {
	return models.ProjectParams{
		Title:          ptr(title),
		ShortBlurb:     ptr("A kettle that boils water using sunlight"),
		Description:    ptr(strings.Repeat("Long description of the campaign. ", 10)),
		Category:       ptr("Technology"),
		FundingAmount:  ptr(int64(50000)),
		FundingEndDate: &models.Time{Time: time.Now().Add(60 * 24 * time.Hour)},
		ImageURL:       ptr("https://example.com/kettle.png"),
	}
}

func (suite *ActionsTestSuite) TestSessionFlow() {
	a := suite.newSession()

	user, err := a.GetCurrentUser(suite.ctx)
	suite.Require().NoError(err)
	suite.Nil(user)

	_, err = a.SignIn(suite.ctx, models.Credentials{Email: "nobody@example.com", Password: "nope"})
	var apiErr *client.APIError
	suite.Require().ErrorAs(err, &apiErr)

	st := a.Store().State()
	suite.False(st.Session.Loading)
	suite.Nil(st.Session.CurrentUser)
	suite.Equal([]string{"Invalid email or password"}, st.Errors.Session)

	created := suite.signUp(a, "Ada")
	st = a.Store().State()
	suite.Require().NotNil(st.Session.CurrentUser)
	suite.Equal(created.ID, st.Session.CurrentUser.ID)
	suite.Empty(st.Errors.Session)

	suite.Require().NoError(a.SignOut(suite.ctx))
	suite.Nil(a.Store().State().Session.CurrentUser)

	user, err = a.SignIn(suite.ctx, models.Credentials{Email: "ada@example.com", Password: "secret123"})
	suite.Require().NoError(err)
	suite.Equal(created.ID, user.ID)
}

func (suite *ActionsTestSuite) TestProjectErrorsThenSuccess() {
	a := suite.newSession()
	suite.signUp(a, "Ada")

	bad := validProject("Sol")
	_, err := a.CreateProject(suite.ctx, bad)
	suite.Require().Error(err)
	suite.Equal([]string{"Title must be between 5 and 60 characters"}, a.Store().State().Errors.Projects)

	project, err := a.CreateProject(suite.ctx, validProject("Solar Kettle"))
	suite.Require().NoError(err)

	st := a.Store().State()
	suite.Empty(st.Errors.Projects)
	suite.True(st.Entities.Projects.Has(project.ID))
	suite.True(st.Entities.Users.Has(project.UserID))

	updated, err := a.UpdateProject(suite.ctx, project.ID, models.ProjectParams{Title: ptr("Solar Kettle Pro")})
	suite.Require().NoError(err)
	got, _ := a.Store().State().Entities.Projects.Get(project.ID)
	suite.Equal("Solar Kettle Pro", got.Title)
	suite.Equal(updated.Title, got.Title)

	suite.Require().NoError(a.DeleteProject(suite.ctx, project.ID))
	suite.False(a.Store().State().Entities.Projects.Has(project.ID))

	err = a.DeleteProject(suite.ctx, project.ID)
	suite.Require().Error(err)
	suite.Equal([]string{"Deletion failed. Project not found"}, a.Store().State().Errors.Projects)
}

func (suite *ActionsTestSuite) TestBackingScenario() {
	creator := suite.newSession()
	suite.signUp(creator, "Ada")
	project, err := creator.CreateProject(suite.ctx, validProject("Solar Kettle"))
	suite.Require().NoError(err)

	r2, err := creator.CreateReward(suite.ctx, project.ID, models.RewardParams{Title: ptr("R2"), Amount: ptr(int64(100))})
	suite.Require().NoError(err)
	r1, err := creator.CreateReward(suite.ctx, project.ID, models.RewardParams{Title: ptr("R1"), Amount: ptr(int64(50))})
	suite.Require().NoError(err)

	fan := suite.newSession()
	user := suite.signUp(fan, "Bob")

	page, err := fan.LoadProjectPage(suite.ctx, project.ID)
	suite.Require().NoError(err)
	suite.Equal(selectors.ShowPledgeForm, page.Display)
	suite.Equal([]int64{r1.ID, r2.ID}, selectors.RewardIDs(page.Rewards))

	backing, err := fan.Back(suite.ctx, project.ID, r1.ID)
	suite.Require().NoError(err)
	suite.Equal(user.ID, backing.UserID)

	st := fan.Store().State()
	suite.Equal([]models.Backing{{ID: backing.ID, UserID: user.ID, RewardID: r1.ID}}, st.Entities.Backings.Values())
	suite.True(fan.Selectors().AlreadyBacked(st, []int64{r1.ID, r2.ID}, user))
	suite.Equal([]int64{r1.ID, r2.ID}, selectors.RewardIDs(fan.Selectors().ProjectRewards(st, project.ID)))

	_, err = fan.Back(suite.ctx, project.ID, r2.ID)
	suite.Require().Error(err)
	suite.Equal([]string{"You can't back a project again once you have already backed it"},
		fan.Store().State().Errors.Backings)

	fan.ClearBackingErrors()
	suite.Empty(fan.Store().State().Errors.Backings)

	page, err = fan.LoadProjectPage(suite.ctx, project.ID)
	suite.Require().NoError(err)
	suite.Equal(selectors.ShowThankYou, page.Display)
	suite.Equal(int64(50), page.FundedAmount)

	page, err = creator.LoadProjectPage(suite.ctx, project.ID)
	suite.Require().NoError(err)
	suite.Equal(selectors.ShowNothing, page.Display)

	_, err = creator.Back(suite.ctx, project.ID, r1.ID)
	suite.Require().Error(err)
	suite.Equal([]string{"You can't back your own projects"}, creator.Store().State().Errors.Backings)
}

func (suite *ActionsTestSuite) TestRewardErrors() {
	creator := suite.newSession()
	suite.signUp(creator, "Ada")
	project, err := creator.CreateProject(suite.ctx, validProject("Solar Kettle"))
	suite.Require().NoError(err)

	_, err = creator.CreateReward(suite.ctx, project.ID, models.RewardParams{Title: ptr(""), Amount: ptr(int64(5))})
	suite.Require().Error(err)
	suite.Equal([]string{"Title can't be blank"}, creator.Store().State().Errors.Rewards)

	reward, err := creator.CreateReward(suite.ctx, project.ID, models.RewardParams{Title: ptr("Mug"), Amount: ptr(int64(5))})
	suite.Require().NoError(err)
	suite.Empty(creator.Store().State().Errors.Rewards)

	updated, err := creator.UpdateReward(suite.ctx, project.ID, reward.ID, models.RewardParams{Amount: ptr(int64(8))})
	suite.Require().NoError(err)
	suite.Equal(int64(8), updated.Amount)

	suite.Require().NoError(creator.DeleteReward(suite.ctx, project.ID, reward.ID))
	suite.False(creator.Store().State().Entities.Rewards.Has(reward.ID))
}

func (suite *ActionsTestSuite) TestFetchUserAndDiscovery() {
	creator := suite.newSession()
	ada := suite.signUp(creator, "Ada")
	kettle, err := creator.CreateProject(suite.ctx, validProject("Solar Kettle"))
	suite.Require().NoError(err)
	_, err = creator.CreateProject(suite.ctx, validProject("Wind Kettle"))
	suite.Require().NoError(err)

	visitor := suite.newSession()
	payload, err := visitor.FetchUser(suite.ctx, ada.ID)
	suite.Require().NoError(err)
	suite.Len(payload.CreatedProjects, 2)

	st := visitor.Store().State()
	created := visitor.Selectors().CreatedProjects(st, ada.ID)
	suite.Len(created, 2)
	suite.Empty(visitor.Selectors().BackedProjects(st, ada.ID))

	found, err := visitor.Search(suite.ctx, "solar")
	suite.Require().NoError(err)
	suite.Require().Len(found, 1)
	suite.Equal(kettle.ID, found[0].ID)

	discovered, err := visitor.Discover(suite.ctx, client.DiscoveryQuery{Category: "technology", Sort: "Newest"})
	suite.Require().NoError(err)
	suite.Len(discovered, 2)

	suite.Require().NoError(visitor.FetchCategories(suite.ctx))
	suite.Equal(len(models.Categories), visitor.Store().State().Entities.Categories.Len())

	suite.Require().NoError(visitor.FetchProjects(suite.ctx))
	suite.Equal(2, visitor.Store().State().Entities.Projects.Len())
}

func TestActionsSuite(t *testing.T) {
	suite.Run(t, new(ActionsTestSuite))
}

// offlineGateway fails every call as if the network were down.
type offlineGateway struct {
	Gateway
}

var errOffline = errors.New("connection refused")

func (offlineGateway) CreateBacking(context.Context, int64, int64) (*models.Backing, error) {
	return nil, errOffline
}

func (offlineGateway) FetchProject(context.Context, int64) (*models.ProjectPayload, error) {
	return nil, errOffline
}

func (offlineGateway) GetCurrentUser(context.Context) (*models.User, error) {
	return nil, errOffline
}

func (offlineGateway) SignIn(context.Context, models.Credentials) (*models.User, error) {
	return nil, errOffline
}

func TestTransportErrorsEndSessionLoading(t *testing.T) {
	signedIn := &models.User{ID: 7, Name: "Ada"}
	store := state.NewStore(state.NewState(), zap.NewNop())
	store.Dispatch(state.ReceiveCurrentUser{User: signedIn})
	store.Dispatch(state.ReceiveSessionErrors{Errors: []string{"earlier"}})

	a := New(offlineGateway{}, store)
	if _, err := a.GetCurrentUser(context.Background()); !errors.Is(err, errOffline) {
		t.Fatalf("GetCurrentUser() error = %v, want %v", err, errOffline)
	}

	st := store.State()
	if st.Session.Loading {
		t.Error("session still loading after GetCurrentUser failed")
	}
	if st.Session.CurrentUser != signedIn {
		t.Errorf("current user = %v, want %v", st.Session.CurrentUser, signedIn)
	}
	if len(st.Errors.Session) != 1 || st.Errors.Session[0] != "earlier" {
		t.Errorf("session errors = %v, want [earlier]", st.Errors.Session)
	}

	if _, err := a.SignIn(context.Background(), models.Credentials{Email: "ada@example.com"}); !errors.Is(err, errOffline) {
		t.Fatalf("SignIn() error = %v, want %v", err, errOffline)
	}
	if store.State().Session.Loading {
		t.Error("session still loading after SignIn failed")
	}
}

func TestTransportErrorsLeaveStoreAlone(t *testing.T) {
	store := state.NewStore(state.NewState(), zap.NewNop())
	store.Dispatch(state.ReceiveBackingErrors{Errors: []string{"earlier"}})
	before := store.State()

	a := New(offlineGateway{}, store)
	_, err := a.Back(context.Background(), 1, 1)
	if !errors.Is(err, errOffline) {
		t.Fatalf("Back() error = %v, want %v", err, errOffline)
	}
	_, err = a.FetchProject(context.Background(), 1)
	if !errors.Is(err, errOffline) {
		t.Fatalf("FetchProject() error = %v, want %v", err, errOffline)
	}

	after := store.State()
	if after.Entities != before.Entities {
		t.Error("entities changed after transport failure")
	}
	if len(after.Errors.Backings) != 1 || after.Errors.Backings[0] != "earlier" {
		t.Errorf("backing errors = %v, want [earlier]", after.Errors.Backings)
	}
}
