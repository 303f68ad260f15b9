// Package cli implements feedbackctl, an operator tool that works directly
// against the feedback store without going through the HTTP server.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"skinsense-backend/internal/config"
	"skinsense-backend/internal/export"
	"skinsense-backend/internal/repository"
	"skinsense-backend/internal/stats"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// CLI holds the command-line interface state.
type CLI struct {
	rootCmd *cobra.Command

	// Global flags
	databaseURL string
}

// New creates a new CLI instance.
func New() *CLI {
	c := &CLI{}
	c.rootCmd = c.newRootCmd()
	return c
}

// Execute runs the CLI with os.Args.
func (c *CLI) Execute() int {
	if err := c.rootCmd.Execute(); err != nil {
		fmt.Fprintf(c.rootCmd.ErrOrStderr(), "feedbackctl: %v\n", err)
		return ExitFailure
	}
	return ExitSuccess
}

// SetArgs and SetOutput exist for tests.
func (c *CLI) SetArgs(args []string) { c.rootCmd.SetArgs(args) }

func (c *CLI) SetOutput(out, errOut io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(errOut)
}

func (c *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedbackctl",
		Short: "Inspect and export skin-type feedback",
		Long: `feedbackctl works on the same database as the feedback server.

The database is taken from --database-url, then DATABASE_URL (a .env file is
honoured), and defaults to the SQLite file feedback.db.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&c.databaseURL, "database-url", "", "database connection string (overrides DATABASE_URL)")

	cmd.AddCommand(
		c.newInitDBCmd(),
		c.newStatsCmd(),
		c.newExportCmd(),
	)
	return cmd
}

func (c *CLI) newInitDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the feedback table if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(ctx context.Context, store repository.FeedbackStore) error {
				fmt.Fprintln(cmd.OutOrStdout(), "feedback table ready")
				return nil
			})
		},
	}
}

func (c *CLI) newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the admin dashboard summary as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(ctx context.Context, store repository.FeedbackStore) error {
				rows, err := store.List(ctx)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(stats.Aggregate(rows))
			})
		},
	}
}

func (c *CLI) newExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all feedback, newest first, to an .xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(ctx context.Context, store repository.FeedbackStore) error {
				rows, err := store.ListNewestFirst(ctx)
				if err != nil {
					return err
				}
				if err := export.WriteFile(out, rows); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d rows to %s\n", len(rows), out)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "feedback_export.xlsx", "output file")
	return cmd
}

// withStore opens and initialises the store for one command.
func (c *CLI) withStore(ctx context.Context, fn func(ctx context.Context, store repository.FeedbackStore) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	url := c.databaseURL
	if url == "" {
		var err error
		if url, err = config.LoadDatabaseURL(); err != nil {
			return err
		}
	}

	store, _, err := repository.Open(ctx, url)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	if err := store.Init(ctx); err != nil {
		return err
	}
	return fn(ctx, store)
}

// Main is the feedbackctl entrypoint.
func Main() {
	os.Exit(New().Execute())
}
