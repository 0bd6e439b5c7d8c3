// Command kicks is a terminal client for a kicks server. It browses
// projects and pledges through the same store and selectors a web client
// uses.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"kicks/internal/actions"
	"kicks/internal/client"
	"kicks/internal/logging"
	"kicks/internal/state"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes one command line and releases the client afterwards.
func run(ctx context.Context, args []string, out io.Writer) error {
	root, a := newRootCmd(out)
	defer a.close()

	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// app is the state shared by the subcommands of one invocation.
type app struct {
	out     io.Writer
	logger  *zap.Logger
	api     *client.Client
	actions *actions.Actions
}

type rootFlags struct {
	configPath string
	baseURL    string
	email      string
	password   string
}

func newRootCmd(out io.Writer) (*cobra.Command, *app) {
	var (
		flags rootFlags
		a     = &app{out: out}
	)

	root := &cobra.Command{
		Use:   "kicks",
		Short: "Browse and back kicks projects from the terminal",
		Long: `kicks talks to a kicks server.

Settings come from an optional YAML file (base_url, email, password,
timeout, log_level). Flags override the file. When an email and password
are known the client signs in before running the command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context(), flags)
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", os.Getenv("KICKS_CONFIG"), "path to the YAML config file")
	pf.StringVar(&flags.baseURL, "url", "", "server base URL")
	pf.StringVar(&flags.email, "email", "", "account email")
	pf.StringVar(&flags.password, "password", "", "account password")

	root.AddCommand(
		newDiscoverCmd(a),
		newSearchCmd(a),
		newProjectCmd(a),
		newBackCmd(a),
		newUserCmd(a),
		newCategoriesCmd(a),
	)
	return root, a
}

func (a *app) setup(ctx context.Context, flags rootFlags) error {
	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return err
	}
	if flags.baseURL != "" {
		cfg.BaseURL = flags.baseURL
	}
	if flags.email != "" {
		cfg.Email = flags.email
	}
	if flags.password != "" {
		cfg.Password = flags.password
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.logger = logger

	api, err := client.New(cfg.BaseURL, client.WithTimeout(cfg.Timeout))
	if err != nil {
		return err
	}
	a.api = api
	a.actions = actions.New(api, state.NewStore(state.NewState(), logger))

	if !cfg.hasCredentials() {
		return nil
	}
	if _, err := a.actions.SignIn(ctx, signInCredentials(cfg)); err != nil {
		return fmt.Errorf("sign in as %s: %w", cfg.Email, err)
	}
	logger.Debug("signed in", zap.String("email", cfg.Email))
	return nil
}

func (a *app) close() {
	if a.api != nil {
		a.api.CloseIdleConnections()
	}
	if a.logger != nil {
		a.logger.Sync()
	}
}
