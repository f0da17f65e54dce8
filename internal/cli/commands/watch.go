package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// DefaultDebounce coalesces the bursts of events editors emit on save.
const DefaultDebounce = 100 * time.Millisecond

// WatchOptions holds options for the watch command.
type WatchOptions struct {
	URL      string
	Debounce time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &WatchOptions{}

	cmd := &cobra.Command{
		Use:   "watch [url]",
		Short: "Lint the CI configuration every time it changes",
		Long: `Resolve the CI configuration file once, lint it, then lint it again
whenever it is written, created or replaced.

Each run prints its result the same way a single lint run does. Runs never
overlap. The command stops on Ctrl+C or SIGTERM.`,
		Example: `  # Watch the project's CI file
  gitlabci-lint watch https://gitlab.example.com/api/v4/projects/42

  # Emit one JSON report per run
  gitlabci-lint watch -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.URL = args[0]
			}
			return runWatch(cmd, opts)
		},
	}

	cmd.Flags().DurationVar(&opts.Debounce, "debounce", DefaultDebounce, "Quiet period before a change triggers a lint run")

	return cmd
}

func runWatch(cmd *cobra.Command, opts *WatchOptions) error {
	cmdCtx, err := NewCommandContext(cmd, opts.URL)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printer := newReportPrinter(cmdCtx.Renderer)
	runner := cmdCtx.Runner(cmdCtx.Client(), printer)
	path := runner.ResolveConfigPath(ctx)

	cmdCtx.Renderer.Errorf("Watching %s for changes (Ctrl+C to stop)\n", path)
	err = watchFile(ctx, path, opts.Debounce, cmdCtx.Logger, func(ctx context.Context) {
		report := runner.RunPath(ctx, path)
		cmdCtx.Logger.Debug("watch run finished", "exit_code", report.ExitCode)
	})
	if err != nil {
		return err
	}
	return printer.err
}

// watchFile calls lintFn once immediately and again after every burst of
// changes to path. Calls are serialized. It returns when ctx is done.
func watchFile(ctx context.Context, path string, debounce time.Duration, logger *slog.Logger, lintFn func(context.Context)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: editors often replace the file instead of writing it.
	dir := filepath.Dir(abs)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	triggers := make(chan struct{}, 1)
	trigger := func() {
		select {
		case triggers <- struct{}{}:
		default:
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-triggers:
				lintFn(gctx)
			}
		}
	})

	g.Go(func() error {
		var timer *time.Timer
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		for {
			select {
			case <-gctx.Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				logger.Debug("CI config changed", "path", event.Name, "op", event.Op.String())
				if timer == nil {
					timer = time.AfterFunc(debounce, trigger)
				} else {
					timer.Reset(debounce)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				logger.Warn("watcher error", "error", err)
			}
		}
	})

	trigger()
	return g.Wait()
}
