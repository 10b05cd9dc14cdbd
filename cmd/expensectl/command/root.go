// Package command holds the expensectl commands. Every process run builds
// one session over the on-disk token and one API client bound to it.
package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/baechuer/expense-web/internal/downstream"
	"github.com/baechuer/expense-web/internal/guard"
	"github.com/baechuer/expense-web/internal/logger"
	"github.com/baechuer/expense-web/internal/session"
	"github.com/baechuer/expense-web/internal/tracing"
	"github.com/baechuer/expense-web/middleware"
)

// annotAuth marks commands that need a live session before running.
const annotAuth = "expensectl/auth"

type app struct {
	apiURL   string
	tokenDir string
	logLevel string

	client *downstream.Client
	sess   *session.Session
}

func NewRoot() *cobra.Command {
	_ = godotenv.Load()
	a := &app{}

	cmd := &cobra.Command{
		Use:           "expensectl [command]",
		Short:         "expense API from the terminal",
		Long:          `expensectl supports login, logout, whoami, funds and movements commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.start(cmd); err != nil {
				return err
			}
			if _, ok := cmd.Annotations[annotAuth]; ok {
				return a.require(cmd.CommandPath())
			}
			return nil
		},
	}

	fs := cmd.PersistentFlags()
	fs.StringVar(&a.apiURL, "api", os.Getenv("API_BASE_URL"), "base URL of the expenses API")
	fs.StringVar(&a.tokenDir, "token-dir", defaultTokenDir(), "directory holding the session token")
	fs.StringVar(&a.logLevel, "log-level", "warn", "log level written to stderr")

	cmd.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.fundsCmd(),
		a.movementsCmd(),
	)
	return cmd
}

func defaultTokenDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".expensectl"
	}
	return filepath.Join(dir, "expensectl")
}

// start wires the process session: token file, then a client hydrated
// from it.
func (a *app) start(cmd *cobra.Command) error {
	logger.InitWithWriter(cmd.ErrOrStderr(), a.logLevel, "console")

	if a.apiURL == "" {
		return fmt.Errorf("missing API base URL: set --api or API_BASE_URL")
	}
	a.client = downstream.NewClient(a.apiURL, downstream.DefaultClientConfig())
	a.sess = session.New(session.NewFileStore(a.tokenDir), a.client, downstream.NewAuthClient(a.client))
	return nil
}

// require runs the route guard for a command. The web shell redirects;
// here the outcome becomes an error naming the command.
func (a *app) require(name string, roles ...string) error {
	d := guard.Decide(a.sess, name, roles)
	err := d.Err()
	switch {
	case err == nil:
		return nil
	case d.Outcome == guard.RedirectLogin:
		return fmt.Errorf("%s: %w (run `expensectl login` first)", name, err)
	default:
		return fmt.Errorf("%s: %w", name, err)
	}
}

// traced runs fn inside a span named after the command. All API calls of
// the run share one request ID.
func traced(fn func(ctx context.Context, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := middleware.WithRequestID(cmd.Context(), uuid.NewString())
		ctx, span := tracing.StartSpan(ctx, cmd.CommandPath())
		defer span.End()
		if err := fn(ctx, cmd, args); err != nil {
			span.RecordError(err)
			return err
		}
		return nil
	}
}
