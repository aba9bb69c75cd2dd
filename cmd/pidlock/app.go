package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/marbeck/pidlock/internal/common"
	"github.com/marbeck/pidlock/internal/config"
	internalErrors "github.com/marbeck/pidlock/internal/errors"
	"github.com/marbeck/pidlock/internal/lock"
	"github.com/marbeck/pidlock/internal/logger"
)

// Exit codes. Contention and timeouts are distinguished from other failures
// so scripts can retry.
const (
	exitOK      = 0
	exitError   = 1
	exitTimeout = 2
)

// App is the main pidlock application
type App struct {
	Config *config.Config
	Logger common.Logger

	// I/O streams
	Stdout io.Writer
	Stderr io.Writer

	// System dependencies, injectable for tests
	newLocker  func(path string, opts ...lock.Option) (*lock.Locker, error)
	runCommand func(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error
}

// NewDefaultApp creates an App with standard dependencies
func NewDefaultApp(versionInfo config.VersionInfo) *App {
	cfg := config.New()
	cfg.VersionInfo = versionInfo

	return &App{
		Config:     cfg,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		newLocker:  lock.New,
		runCommand: runExec,
	}
}

// runExec runs a command with the caller's stdin and the given output streams.
func runExec(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// Run executes the CLI and maps errors to exit codes. A command run under
// the lock passes its own exit code through.
func (a *App) Run(ctx context.Context, args []string) int {
	root := a.newRootCommand()
	root.SetArgs(args)
	root.SetOut(a.Stdout)
	root.SetErr(a.Stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		var exitErr *exec.ExitError
		if internalErrors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}

		_, _ = fmt.Fprintf(a.Stderr, "error: %v\n", err)
		if internalErrors.Is(err, internalErrors.ErrLockTimeout) {
			return exitTimeout
		}
		return exitError
	}
	return exitOK
}

func (a *App) newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "pidlock",
		Short: "Cross-process locking over a shared filesystem path",
		Long: `pidlock serializes independent processes through a lock file whose atomic
creation is the mutual-exclusion primitive. The file records the owner's PID,
so a lock abandoned by a crashed process is detected and taken over
automatically.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "path to a pidlock.yaml config file")
	pf.Bool("debug", false, "enable debug logging")
	pf.String("log-file", "", "path to the debug log file")
	pf.Bool("verbose", false, "echo warnings to the user")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := a.Config.Load(configPath); err != nil {
			return err
		}

		// Flags outrank the config file and environment
		f := cmd.Flags()
		if f.Changed("debug") {
			a.Config.Debug, _ = f.GetBool("debug")
		}
		if f.Changed("log-file") {
			a.Config.LogFile, _ = f.GetString("log-file")
		}
		if f.Changed("verbose") {
			a.Config.Verbose, _ = f.GetBool("verbose")
		}

		if err := a.Config.Finalize(); err != nil {
			return err
		}

		if a.Logger == nil {
			a.Logger = logger.New(a.Config.Debug, a.Config.LogFile, a.Config.Verbose)
		}
		return nil
	}

	root.AddCommand(a.newRunCommand())
	root.AddCommand(a.newStatusCommand())
	root.AddCommand(a.newVersionCommand())

	return root
}

func (a *App) newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <lock-path> -- <command> [args...]",
		Short: "Run a command while holding the lock",
		Long: `run acquires the lock at <lock-path>, executes the command, and releases
the lock when the command finishes, whether it succeeds or fails.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.applyRunFlags(cmd); err != nil {
				return err
			}
			return a.runUnderLock(cmd.Context(), args[0], args[1], args[2:])
		},
	}

	f := cmd.Flags()
	f.Duration("timeout", 0, "give up acquiring after this long (0 waits forever)")
	f.Bool("verify", false, "verify ownership before releasing")
	f.Duration("min-backoff", lock.DefaultMinBackoff, "floor for retry delays")
	f.Duration("max-backoff", lock.DefaultMaxBackoff, "ceiling for retry delays")
	f.Duration("in-progress-timeout", lock.DefaultInProgressTimeout,
		"how long a partially written lock file is attributed to a live writer")

	return cmd
}

// applyRunFlags layers explicitly set run flags over the loaded config.
func (a *App) applyRunFlags(cmd *cobra.Command) error {
	f := cmd.Flags()
	if f.Changed("timeout") {
		a.Config.Timeout, _ = f.GetDuration("timeout")
	}
	if f.Changed("verify") {
		a.Config.Verify, _ = f.GetBool("verify")
	}
	if f.Changed("min-backoff") {
		a.Config.MinBackoff, _ = f.GetDuration("min-backoff")
	}
	if f.Changed("max-backoff") {
		a.Config.MaxBackoff, _ = f.GetDuration("max-backoff")
	}
	if f.Changed("in-progress-timeout") {
		a.Config.InProgressTimeout, _ = f.GetDuration("in-progress-timeout")
	}
	return a.Config.Finalize()
}

func (a *App) runUnderLock(ctx context.Context, lockPath, name string, args []string) error {
	opts := append(a.Config.LockerOptions(), lock.WithLogger(a.Logger))
	locker, err := a.newLocker(lockPath, opts...)
	if err != nil {
		return err
	}

	handle, err := locker.Lock(ctx, lock.LockOptions{
		Timeout: a.Config.Timeout,
		Verify:  a.Config.Verify,
	})
	if err != nil {
		return err
	}

	runErr := a.runCommand(ctx, name, args, a.Stdout, a.Stderr)

	if cerr := handle.Close(); cerr != nil {
		if runErr == nil {
			return cerr
		}
		a.Logger.Error("failed to release lock %s: %v", lockPath, cerr)
	}
	return runErr
}

func (a *App) newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status <lock-path>",
		Short: "Report who holds a lock, without touching it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			locker, err := a.newLocker(args[0])
			if err != nil {
				return err
			}

			state, pid, err := locker.Inspect()
			if err != nil {
				return err
			}

			switch state {
			case lock.StateFree:
				a.Logger.StatusMessage("%s: unlocked", args[0])
			case lock.StateWriteInProgress:
				a.Logger.StatusMessage("%s: write in progress", args[0])
			case lock.StateHeld:
				alive, err := lock.ProcessAlive(pid)
				if err != nil {
					return err
				}
				liveness := "alive"
				if !alive {
					liveness = "dead"
				}
				a.Logger.StatusMessage("%s: held by PID %d (%s)", args[0], pid, liveness)
			}
			return nil
		},
	}
}

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := a.Config.VersionInfo
			a.Logger.StatusMessage("pidlock %s (commit %s, built %s)", v.Version, v.Commit, v.Date)
			return nil
		},
	}
}
