package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skein-lang/skein/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	Database string
	Limit    int
	RunID    string
}

// HistoryEntry is one run in the history listing.
type HistoryEntry struct {
	ID          string   `json:"id"`
	Seq         int64    `json:"seq"`
	Fingerprint string   `json:"fingerprint"`
	Valid       int      `json:"valid"`
	Invalid     int      `json:"invalid"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history <document>",
		Short: "List recorded checking runs for a document",
		Long: `List the checking runs recorded for a document, most recent first.
With --run, show the diagnostics of one run instead.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "history database path (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 10, "maximum number of runs to list (0 for all)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show diagnostics for one run ID")

	return cmd
}

func runHistory(rootOpts *RootOptions, opts *HistoryOptions, document string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	if opts.Database == "" {
		_ = formatter.Error(ErrCodeStore, "--db is required", nil)
		return NewExitError(ExitCommandError, "--db is required")
	}
	if _, err := os.Stat(opts.Database); err != nil {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.Database), nil)
		return WrapExitError(ExitCommandError, "database not found", err)
	}

	s, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening database failed", err)
	}
	defer s.Close()

	ctx := cmd.Context()

	if opts.RunID != "" {
		diags, err := s.RunDiagnostics(ctx, opts.RunID)
		if err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "reading run failed", err)
		}
		if formatter.Format == "json" {
			msgs := make([]string, 0, len(diags))
			for _, d := range diags {
				msgs = append(msgs, d.String())
			}
			return formatter.Success(msgs)
		}
		for _, d := range diags {
			fmt.Fprintln(formatter.Writer, d.String())
		}
		return nil
	}

	runs, err := s.ListRuns(ctx, document, opts.Limit)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "listing runs failed", err)
	}

	if formatter.Format == "json" {
		entries := make([]HistoryEntry, 0, len(runs))
		for _, r := range runs {
			entries = append(entries, HistoryEntry{
				ID:          r.ID,
				Seq:         r.Seq,
				Fingerprint: r.Fingerprint,
				Valid:       r.Valid,
				Invalid:     r.Invalid,
			})
		}
		return formatter.Success(entries)
	}

	if len(runs) == 0 {
		fmt.Fprintf(formatter.Writer, "no runs recorded for %s\n", document)
		return nil
	}
	for _, r := range runs {
		status := "ok"
		if r.Invalid > 0 {
			status = fmt.Sprintf("%d invalid", r.Invalid)
		}
		fmt.Fprintf(formatter.Writer, "%4d  %s  %d valid, %s\n", r.Seq, r.ID, r.Valid, status)
	}
	return nil
}
