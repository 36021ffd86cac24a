package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/wafy80/whatsapp-chat-transcriber/internal/adapter/journal"
)

var (
	batchSkipExisting bool
	batchHistory      int
)

var batchCmd = &cobra.Command{
	Use:   "batch <pattern>",
	Short: "Convert every export matching a glob pattern",
	Long: `Processes all chat export archives matching the given glob pattern
(e.g. "exports/*.zip"). Each run is recorded in a journal database so
--skip-existing can skip archives that already converted successfully.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().BoolVar(&batchSkipExisting, "skip-existing", false, "Skip archives with a previous successful run")
	batchCmd.Flags().IntVar(&batchHistory, "history", 0, "Print the N most recent journal entries and exit")
	rootCmd.AddCommand(batchCmd)
}

func openJournal() (*journal.Journal, error) {
	return journal.Open(filepath.Join(configDir(), "runs.db"))
}

func runBatch(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	if batchHistory > 0 {
		return printHistory(cmd, j, batchHistory)
	}

	if len(args) == 0 {
		return fmt.Errorf("glob pattern required (or use --history)")
	}

	matches, err := filepath.Glob(args[0])
	if err != nil {
		return fmt.Errorf("invalid pattern %q: %w", args[0], err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("no archives match %q", args[0])
	}

	svc, p, _, err := buildService()
	if err != nil {
		return err
	}
	defer p.Cleanup()

	var converted, skipped, failed int

	for _, archive := range matches {
		if batchSkipExisting {
			done, err := j.LastSuccess(archive)
			if err != nil {
				return err
			}
			if done {
				fmt.Fprintf(cmd.OutOrStdout(), "skip %s (already converted)\n", archive)
				skipped++
				_, _ = j.Record(journal.Entry{Archive: archive, Status: journal.StatusSkipped})
				continue
			}
		}

		start := time.Now()
		out, err := svc.Process(cmd.Context(), archive, nil, nil)
		p.Cleanup()
		entry := journal.Entry{Archive: archive, Duration: time.Since(start)}

		if err != nil {
			failed++
			entry.Status = journal.StatusFailed
			entry.Error = err.Error()
			fmt.Fprintf(cmd.ErrOrStderr(), "FAIL %s: %v\n", archive, err)
		} else {
			converted++
			entry.Status = journal.StatusOK
			entry.Output = out
			fmt.Fprintf(cmd.OutOrStdout(), "ok   %s -> %s\n", archive, out)
		}

		if _, err := j.Record(entry); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d converted, %d skipped, %d failed\n", converted, skipped, failed)

	if failed > 0 {
		return fmt.Errorf("%d archive(s) failed", failed)
	}
	return nil
}

func printHistory(cmd *cobra.Command, j *journal.Journal, limit int) error {
	entries, err := j.List(limit)
	if err != nil {
		return err
	}

	for _, e := range entries {
		line := fmt.Sprintf("%s  %-7s %s", e.CreatedAt.Format("2006-01-02 15:04:05"), e.Status, e.Archive)
		if e.Error != "" {
			line += "  (" + e.Error + ")"
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}
