package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/wafy80/whatsapp-chat-transcriber/internal/adapter/journal"
)

// settleDelay gives the OS time to finish writing a newly created archive
// before we open it.
var settleDelay = 2 * time.Second

var watchCmd = &cobra.Command{
	Use:   "watch <directory>",
	Short: "Watch a directory and convert new exports as they appear",
	Long: `Watches the given directory for new .zip chat exports and converts
each one as it arrives. Runs until interrupted; every conversion is
recorded in the journal database.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]

	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	svc, p, _, err := buildService()
	if err != nil {
		return err
	}
	defer p.Cleanup()

	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "watching %s for new exports (Ctrl+C to stop)\n", dir)

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(cmd.OutOrStdout(), "stopping")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".zip") {
				continue
			}

			time.Sleep(settleDelay)
			processWatched(ctx, cmd, svc, j, event.Name)
			p.Cleanup()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watcher error: %v\n", err)
		}
	}
}

type processor interface {
	Process(ctx context.Context, archivePath string, from, to *time.Time) (string, error)
}

func processWatched(ctx context.Context, cmd *cobra.Command, svc processor, j *journal.Journal, archive string) {
	start := time.Now()
	out, err := svc.Process(ctx, archive, nil, nil)
	entry := journal.Entry{Archive: archive, Duration: time.Since(start)}

	if err != nil {
		entry.Status = journal.StatusFailed
		entry.Error = err.Error()
		fmt.Fprintf(cmd.ErrOrStderr(), "FAIL %s: %v\n", archive, err)
	} else {
		entry.Status = journal.StatusOK
		entry.Output = out
		fmt.Fprintf(cmd.OutOrStdout(), "ok   %s -> %s\n", archive, out)
	}

	if _, err := j.Record(entry); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "journal error: %v\n", err)
	}
}
