package cli

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/skein-lang/skein/internal/checker"
	"github.com/skein-lang/skein/internal/store"
	"github.com/skein-lang/skein/internal/theory"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	Database string // optional path for recording run history
}

// PartReport is the per-part entry of a check report.
type PartReport struct {
	Line   int    `json:"line"`
	Kind   string `json:"kind"`
	Name   string `json:"name,omitempty"`
	Status string `json:"status"`
}

// CheckReport is the output of the check command.
type CheckReport struct {
	Document    string       `json:"document"`
	Ok          bool         `json:"ok"`
	Valid       int          `json:"valid"`
	Invalid     int          `json:"invalid"`
	Parts       []PartReport `json:"parts"`
	Diagnostics []string     `json:"diagnostics,omitempty"`
	RunID       string       `json:"run_id,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check <document.cue>",
		Short: "Check a theory document",
		Long: `Compile a CUE theory document and check every part: definitions,
rules, and the proofs of its theorems. Every problem in the document is
reported in one pass.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in a history database")

	return cmd
}

func runCheck(rootOpts *RootOptions, opts *CheckOptions, path string, cmd *cobra.Command) error {
	configureLogging(rootOpts.Verbose)

	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	th, err := LoadDocument(path)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
			return WrapExitError(ExitCommandError, "loading document failed", err)
		}
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading document failed", err)
	}
	formatter.VerboseLog("Compiled %s: %d part(s)", th.Name, len(th.Parts))

	result := checker.Check(th)
	report := buildReport(th, result)

	if opts.Database != "" {
		runID, err := recordRun(cmd.Context(), opts.Database, th, result)
		if err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "recording run failed", err)
		}
		report.RunID = runID
		formatter.VerboseLog("Recorded run %s in %s", runID, opts.Database)
	}

	return outputReport(formatter, report)
}

// configureLogging installs the default slog handler for CLI runs. Logs go
// to stderr so they never corrupt JSON output on stdout.
func configureLogging(verbose bool) {
	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

func buildReport(th *theory.Theory, result *checker.Result) *CheckReport {
	report := &CheckReport{
		Document: th.Name,
		Ok:       result.Ok(),
		Valid:    result.Valid,
		Invalid:  result.Invalid,
	}
	for _, p := range th.Parts {
		info := p.Info()
		report.Parts = append(report.Parts, PartReport{
			Line:   info.Line,
			Kind:   p.Kind(),
			Name:   info.Name,
			Status: info.Status.String(),
		})
	}
	for _, d := range th.Diagnostics {
		report.Diagnostics = append(report.Diagnostics, d.String())
	}
	return report
}

// recordRun appends the checking outcome to the history database.
func recordRun(ctx context.Context, dbPath string, th *theory.Theory, result *checker.Result) (string, error) {
	s, err := store.Open(dbPath)
	if err != nil {
		return "", err
	}
	defer s.Close()

	seq, err := s.NextSeq(ctx, th.Name)
	if err != nil {
		return "", err
	}

	run := store.Run{
		ID:          uuid.NewString(),
		Document:    th.Name,
		Fingerprint: theoryFingerprint(th),
		Seq:         seq,
		Valid:       result.Valid,
		Invalid:     result.Invalid,
	}
	var parts []store.PartStatus
	for _, p := range th.Parts {
		info := p.Info()
		parts = append(parts, store.PartStatus{
			Line:   info.Line,
			Name:   info.Name,
			Status: info.Status.String(),
		})
	}
	if err := s.WriteRun(ctx, run, th.Diagnostics, parts); err != nil {
		return "", err
	}
	return run.ID, nil
}

// theoryFingerprint hashes the document content in part order, so history
// can tell re-checks of identical documents from checks of edited ones.
func theoryFingerprint(th *theory.Theory) string {
	h := sha256.New()
	for _, p := range th.Parts {
		info := p.Info()
		fmt.Fprintf(h, "%s:%d:%s\n", p.Kind(), info.Line, info.Name)
		switch part := p.(type) {
		case *theory.GenPart:
			h.Write([]byte(part.Graph.Canonical()))
		case *theory.LetPart:
			h.Write([]byte(part.Graph.Canonical()))
		case *theory.RulePart:
			h.Write([]byte(part.Rule.LHS.Canonical()))
			h.Write([]byte(part.Rule.RHS.Canonical()))
		case *theory.TheoremPart:
			h.Write([]byte(part.Formula.LHS.Canonical()))
			h.Write([]byte(part.Formula.RHS.Canonical()))
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

func outputReport(formatter *OutputFormatter, report *CheckReport) error {
	if formatter.Format == "json" {
		if err := formatter.Success(report); err != nil {
			return err
		}
	} else {
		for _, p := range report.Parts {
			name := p.Name
			if name != "" {
				name = " " + name
			}
			fmt.Fprintf(formatter.Writer, "%4d  %s%s [%s]\n", p.Line, p.Kind, name, p.Status)
		}
		if len(report.Diagnostics) > 0 {
			fmt.Fprintln(formatter.Writer)
			for _, d := range report.Diagnostics {
				fmt.Fprintln(formatter.Writer, d)
			}
		}
		fmt.Fprintln(formatter.Writer)
		if report.Ok {
			fmt.Fprintf(formatter.Writer, "✓ %s: %d part(s) valid\n", report.Document, report.Valid)
		} else {
			fmt.Fprintf(formatter.Writer, "✗ %s: %d part(s) invalid\n", report.Document, report.Invalid)
		}
	}

	if !report.Ok {
		return NewExitError(ExitFailure, fmt.Sprintf("check failed with %d invalid part(s)", report.Invalid))
	}
	return nil
}
