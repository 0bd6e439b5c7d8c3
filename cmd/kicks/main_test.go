package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"kicks/internal/auth"
	"kicks/internal/handlers"
	"kicks/internal/models"
	"kicks/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)

	path := filepath.Join(t.TempDir(), "kicks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"base_url: http://kicks.test\nemail: ada@example.com\npassword: secret123\ntimeout: 5s\n"), 0o600))

	cfg, err = loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://kicks.test", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.hasCredentials())

	require.NoError(t, os.WriteFile(path, []byte("base_url: [oops"), 0o600))
	_, err = loadConfig(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestPrintProjectsPercentFunded(t *testing.T) {
	var out bytes.Buffer
	err := printProjects(&out, []models.Project{
		{ID: 1, Title: "P", Category: "Art", FundingAmount: 100, PercentageFunded: 50},
		{ID: 2, Title: "Q", Category: "Art", FundingAmount: 300, PercentageFunded: 12.4},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[1], " 50%"), "got %q", lines[1])
	assert.True(t, strings.HasSuffix(lines[2], " 12%"), "got %q", lines[2])
	assert.NotContains(t, out.String(), "5000%")
}

func TestParseID(t *testing.T) {
	id, err := parseID("project", "12")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	for _, arg := range []string{"", "abc", "0", "-3"} {
		_, err := parseID("project", arg)
		assert.EqualError(t, err, "invalid project id "+strconv.Quote(arg))
	}
}

// CLITestSuite runs command lines against a live server.
type CLITestSuite struct {
	suite.Suite
	db      *storage.DB
	server  *httptest.Server
	creator *models.User
	project *models.Project
	cheap   *models.Reward
	pricey  *models.Reward
}

func (suite *CLITestSuite) SetupTest() {
	db, err := storage.NewDB(":memory:")
	suite.Require().NoError(err)
	suite.db = db
	suite.server = httptest.NewServer(handlers.NewHandlers(db, zap.NewNop(), false).Routes())

	suite.creator = suite.createUser("Ada", "ada@example.com")
	suite.createUser("Bob", "bob@example.com")

	suite.project, err = db.CreateProject(&models.Project{
		UserID:         suite.creator.ID,
		Title:          "Solar Kettle",
		ShortBlurb:     "A kettle that boils water using sunlight",
		Description:    strings.Repeat("Long description of the campaign. ", 10),
		Category:       "Technology",
		FundingAmount:  1000,
		FundingEndDate: time.Now().Add(10*24*time.Hour + time.Hour),
		ImageURL:       "https://example.com/kettle.png",
	})
	suite.Require().NoError(err)

	suite.pricey, err = db.CreateReward(&models.Reward{ProjectID: suite.project.ID, Title: "Kettle", Amount: 100})
	suite.Require().NoError(err)
	suite.cheap, err = db.CreateReward(&models.Reward{ProjectID: suite.project.ID, Title: "Sticker", Amount: 50})
	suite.Require().NoError(err)
}

func (suite *CLITestSuite) TearDownTest() {
	suite.server.Close()
	suite.db.Close()
}

func (suite *CLITestSuite) createUser(name, email string) *models.User {
	hash, err := auth.HashPassword("secret123")
	suite.Require().NoError(err)
	token, err := auth.GenerateSessionToken()
	suite.Require().NoError(err)
	user, err := suite.db.CreateUser(name, email, hash, token)
	suite.Require().NoError(err)
	return user
}

// kicks runs a command line against the test server and returns its output.
func (suite *CLITestSuite) kicks(args ...string) (string, error) {
	var out bytes.Buffer
	args = append([]string{"--url", suite.server.URL}, args...)
	err := run(context.Background(), args, &out)
	return out.String(), err
}

func (suite *CLITestSuite) as(email string, args ...string) (string, error) {
	return suite.kicks(append([]string{"--email", email, "--password", "secret123"}, args...)...)
}

func (suite *CLITestSuite) TestProjectAnonymous() {
	out, err := suite.kicks("project", strconv.FormatInt(suite.project.ID, 10))
	suite.Require().NoError(err)

	suite.Contains(out, "Solar Kettle")
	suite.Contains(out, "By Ada")
	suite.Contains(out, "$0 pledged of $1000 goal")
	suite.Contains(out, "11 days to go")
	suite.Contains(out, "Back it with: kicks back")
	suite.Less(strings.Index(out, "Sticker"), strings.LastIndex(out, "Kettle"))
}

func (suite *CLITestSuite) TestBackingFlow() {
	id := strconv.FormatInt(suite.project.ID, 10)

	out, err := suite.as("bob@example.com", "back", id, strconv.FormatInt(suite.cheap.ID, 10))
	suite.Require().NoError(err)
	suite.Contains(out, "Backed reward")

	_, err = suite.as("bob@example.com", "back", id, strconv.FormatInt(suite.pricey.ID, 10))
	suite.EqualError(err, "You can't back a project again once you have already backed it")

	out, err = suite.as("bob@example.com", "project", id)
	suite.Require().NoError(err)
	suite.Contains(out, "Thank you for backing this project!")
	suite.Contains(out, "$50 pledged of $1000 goal")
	suite.Contains(out, "1 backers")

	out, err = suite.as("ada@example.com", "project", id)
	suite.Require().NoError(err)
	suite.NotContains(out, "Back it with")
	suite.NotContains(out, "Thank you")

	_, err = suite.as("ada@example.com", "back", id, strconv.FormatInt(suite.cheap.ID, 10))
	suite.EqualError(err, "You can't back your own projects")
}

func (suite *CLITestSuite) TestBackRequiresCredentials() {
	_, err := suite.kicks("back", "1", "1")
	suite.EqualError(err, "backing a project requires an email and password")
}

func (suite *CLITestSuite) TestSignInFailure() {
	_, err := suite.kicks("--email", "bob@example.com", "--password", "wrong", "categories")
	suite.Require().Error(err)
	suite.Contains(err.Error(), "Invalid email or password")
}

func (suite *CLITestSuite) TestUnknownProject() {
	_, err := suite.kicks("project", "999")
	suite.EqualError(err, "Project not found")
}

func (suite *CLITestSuite) TestDiscoverAndSearch() {
	out, err := suite.kicks("discover", "--category", "technology", "--sort", "Newest")
	suite.Require().NoError(err)
	suite.Contains(out, "Solar Kettle")
	suite.Contains(out, "Technology")

	out, err = suite.kicks("discover", "--category", "Art")
	suite.Require().NoError(err)
	suite.Equal("No projects found\n", out)

	out, err = suite.kicks("search", "sunlight")
	suite.Require().NoError(err)
	suite.Contains(out, "Solar Kettle")
}

func (suite *CLITestSuite) TestListingShowsPercentFunded() {
	_, err := suite.as("bob@example.com", "back",
		strconv.FormatInt(suite.project.ID, 10), strconv.FormatInt(suite.cheap.ID, 10))
	suite.Require().NoError(err)

	out, err := suite.kicks("search", "solar")
	suite.Require().NoError(err)
	suite.Contains(out, "FUNDED")
	suite.Regexp(`Solar Kettle\s+Technology\s+\$1000\s+5%\n`, out)
}

func (suite *CLITestSuite) TestUser() {
	_, err := suite.as("bob@example.com", "back",
		strconv.FormatInt(suite.project.ID, 10), strconv.FormatInt(suite.cheap.ID, 10))
	suite.Require().NoError(err)

	out, err := suite.kicks("user", strconv.FormatInt(suite.creator.ID, 10))
	suite.Require().NoError(err)
	suite.Contains(out, "Ada (#")
	created := out[strings.Index(out, "Created projects:"):]
	suite.Contains(created, "Solar Kettle")

	_, err = suite.kicks("user", "999")
	suite.EqualError(err, "User not found")
}

func (suite *CLITestSuite) TestCategories() {
	out, err := suite.kicks("categories")
	suite.Require().NoError(err)
	for _, c := range models.Categories {
		suite.Contains(out, c.Name+"\n")
	}
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLITestSuite))
}
