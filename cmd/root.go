// Package cmd is the cobra-based command surface: plural's root command
// boots the TUI, with a prereqs subcommand for checking external tools.
// rootCmd follows the familiar cobra shape (RunE, PersistentFlags,
// Execute), generalized from a package-global context.Background() to an
// ExecuteContext call so main can cancel on SIGINT/SIGTERM.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/zhubert/plural-orchestrator/internal/app"
	_ "github.com/zhubert/plural-orchestrator/internal/backend/claude"
	_ "github.com/zhubert/plural-orchestrator/internal/backend/codex"
	_ "github.com/zhubert/plural-orchestrator/internal/backend/gemini"
	"github.com/zhubert/plural-orchestrator/internal/cli"
	"github.com/zhubert/plural-orchestrator/internal/config"
	"github.com/zhubert/plural-orchestrator/internal/errtax"
	"github.com/zhubert/plural-orchestrator/internal/instancelock"
	"github.com/zhubert/plural-orchestrator/internal/logger"
	"github.com/zhubert/plural-orchestrator/internal/manager"
	"github.com/zhubert/plural-orchestrator/internal/prdriver"
	"github.com/zhubert/plural-orchestrator/internal/store"
	"github.com/zhubert/plural-orchestrator/internal/worktree"
)

var debugMode bool

var version, commit, date = "dev", "none", "unknown"

// SetVersionInfo sets version information from ldflags at build time.
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "plural",
	Short: "TUI orchestrator for concurrent coding-agent sessions",
	Long: `Plural is a TUI for orchestrating multiple concurrent coding-agent
sessions. Each session runs in its own git worktree, so agents never
collide over the same working tree.`,
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging (verbose output to the log directory)")
	cobra.OnInitialize(func() {
		if debugMode {
			logger.SetDebug(true)
		}
	})
	rootCmd.AddCommand(prereqsCmd)
}

// Execute runs the root command against ctx, returning any error for main
// to report and translate into a process exit code.
func Execute(ctx context.Context) error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.ExecuteContext(ctx)
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("plural %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("plural %s\n", version)
}

func runTUI(cmd *cobra.Command, args []string) error {
	prereqs := cli.DefaultPrerequisites()
	if err := cli.ValidateRequired(prereqs); err != nil {
		return errtax.NewEnvironmental("cli", fmt.Errorf("%v\n\nRun 'plural prereqs' to see all prerequisites", err))
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	if err := logger.Init(logger.DefaultLogPath); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}
	defer logger.Close()

	dataDir, err := dataDirPath()
	if err != nil {
		return fmt.Errorf("error resolving data directory: %w", err)
	}

	lock, err := instancelock.Acquire(dataDir)
	if err != nil {
		return errtax.NewFatal("instancelock", err)
	}
	defer lock.Release()

	ctx := cmd.Context()

	st, err := store.Open(ctx, filepath.Join(dataDir, "db.sqlite"))
	if err != nil {
		return errtax.NewData("store", err)
	}
	defer st.Close()

	wt := worktree.NewManager()
	pr := prdriver.New(worktree.NewRealExecutor())

	var m *app.Model
	mgr := manager.New(st, wt, pr, cfg.DefaultAllowedTools, func(sessionID string) {
		if m != nil {
			m.OnUpdate(sessionID)
		}
	})

	if err := mgr.Recover(ctx); err != nil {
		logger.Error("recovery: %v", err)
	}
	go mgr.Run(ctx)

	m = app.New(ctx, cfg, st, mgr, version)

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}

func dataDirPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".plural")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
