package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"kicks/internal/client"
	"kicks/internal/models"
	"kicks/internal/selectors"
	"kicks/internal/state"

	"github.com/spf13/cobra"
)

// noDomain selects no error list; rejections keep the server's messages.
const noDomain state.Domain = -1

func signInCredentials(cfg cliConfig) models.Credentials {
	return models.Credentials{Email: cfg.Email, Password: cfg.Password}
}

func newDiscoverCmd(a *app) *cobra.Command {
	var q client.DiscoveryQuery
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List projects by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			projects, err := a.actions.Discover(cmd.Context(), q)
			if err != nil {
				return err
			}
			return printProjects(a.out, projects)
		},
	}
	cmd.Flags().StringVar(&q.Category, "category", "All", "category name, or All")
	cmd.Flags().StringVar(&q.Sort, "sort", "Random", `"Funding Goal", "End Date", "Newest" or "Random"`)
	cmd.Flags().IntVarP(&q.NumProjects, "limit", "n", 0, "maximum number of projects (server default when 0)")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "Find projects by title or blurb",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := a.actions.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return printProjects(a.out, projects)
		},
	}
}

func newProjectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "project <id>",
		Short: "Show a project with its rewards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("project", args[0])
			if err != nil {
				return err
			}
			page, err := a.actions.LoadProjectPage(cmd.Context(), id)
			if err != nil {
				return a.domainError(err, state.DomainProjects)
			}
			return printProjectPage(a.out, page)
		},
	}
}

func newBackCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "back <project-id> <reward-id>",
		Short: "Pledge to a reward of a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID("project", args[0])
			if err != nil {
				return err
			}
			rewardID, err := parseID("reward", args[1])
			if err != nil {
				return err
			}
			if a.actions.Store().State().Session.CurrentUser == nil {
				return errors.New("backing a project requires an email and password")
			}

			backing, err := a.actions.Back(cmd.Context(), projectID, rewardID)
			if err != nil {
				return a.domainError(err, state.DomainBackings)
			}
			fmt.Fprintf(a.out, "Backed reward %d of project %d (backing %d)\n", rewardID, projectID, backing.ID)
			return nil
		},
	}
}

func newUserCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "user <id>",
		Short: "Show a user with the projects they backed and created",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("user", args[0])
			if err != nil {
				return err
			}
			payload, err := a.actions.FetchUser(cmd.Context(), id)
			if err != nil {
				return a.domainError(err, noDomain)
			}

			st := a.actions.Store().State()
			sel := a.actions.Selectors()
			fmt.Fprintf(a.out, "%s (#%d)\n\nBacked projects:\n", payload.User.Name, payload.User.ID)
			if err := printProjects(a.out, sel.BackedProjects(st, id)); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "\nCreated projects:")
			return printProjects(a.out, sel.CreatedProjects(st, id))
		},
	}
}

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List project categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.actions.FetchCategories(cmd.Context()); err != nil {
				return err
			}
			for _, c := range a.actions.Store().State().Entities.Categories.Values() {
				fmt.Fprintln(a.out, c.Name)
			}
			return nil
		},
	}
}

// domainError replaces an API rejection with the messages the store now
// holds for domain. Other errors pass through.
func (a *app) domainError(err error, domain state.Domain) error {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	msgs := a.actions.Store().State().Errors.Domain(domain)
	if len(msgs) == 0 {
		msgs = apiErr.Messages
	}
	if len(msgs) == 0 {
		return err
	}
	return errors.New(strings.Join(msgs, "\n"))
}

func parseID(what, arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, arg)
	}
	return id, nil
}

func printProjects(out io.Writer, projects []models.Project) error {
	if len(projects) == 0 {
		_, err := fmt.Fprintln(out, "No projects found")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tGOAL\tFUNDED")
	for _, p := range projects {
		fmt.Fprintf(tw, "%d\t%s\t%s\t$%d\t%.0f%%\n", p.ID, p.Title, p.Category, p.FundingAmount, p.PercentageFunded)
	}
	return tw.Flush()
}

func printProjectPage(out io.Writer, page selectors.ProjectPage) error {
	p := page.Project
	fmt.Fprintf(out, "%s\n%s\n\n", p.Title, p.ShortBlurb)
	if page.Creator != nil {
		fmt.Fprintf(out, "By %s\n", page.Creator.Name)
	}
	fmt.Fprintf(out, "$%d pledged of $%d goal\n", page.FundedAmount, p.FundingAmount)
	fmt.Fprintf(out, "%d backers\n", page.Backers)
	fmt.Fprintf(out, "%d days to go\n\n", page.DaysRemaining)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "REWARD\tAMOUNT\tTITLE")
	for _, r := range page.Rewards {
		fmt.Fprintf(tw, "%d\t$%d\t%s\n", r.ID, r.Amount, r.Title)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	switch page.Display {
	case selectors.ShowThankYou:
		fmt.Fprintln(out, "\nThank you for backing this project!")
	case selectors.ShowPledgeForm:
		fmt.Fprintf(out, "\nBack it with: kicks back %d <reward-id>\n", p.ID)
	}
	return nil
}
