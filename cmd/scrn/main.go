// Package main implements scrn, a session picker and attach client for
// GNU screen with differential rendering and unified scrollback.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags
var (
	debugMode       bool
	scrollbackLines int
	actionFile      string
	workspaceDir    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "scrn",
		Short: "Session picker and attach client for GNU screen",
		Long: `scrn - a fast attach client for GNU screen

Lists running screen sessions, lets you fuzzy-search, create, rename,
kill, and pin them, and attaches with truecolor rendering, unified
scrollback (including screen's own history), mouse selection, and an
optional side-by-side two-pane view.`,
		Example: `  # Pick a session interactively
  scrn

  # Pick from git repositories under a workspace
  scrn -w ~/code

  # Run with debug logging
  scrn --debug

  # List sessions without the UI
  scrn ls

  # Install the shell wrapper
  eval "$(scrn init zsh)"

  # Print the config file location
  scrn config path`,
		Version: version,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().IntVar(&scrollbackLines, "scrollback-lines", 0, "Lines to keep in each pane's scrollback (default: from config or 10000, min: 100, max: 1000000)")
	rootCmd.Flags().StringVar(&actionFile, "action-file", "", "File the shell wrapper reads an action from on exit (set by 'scrn init')")
	rootCmd.Flags().StringVarP(&workspaceDir, "workspace", "w", "", "Directory tree to scan for git repositories (overrides config)")

	initCmd := &cobra.Command{
		Use:   "init [shell]",
		Short: "Print shell integration script",
		Long: `Print the shell wrapper that hands actions back to the invoking
shell. Supported shells: zsh (default), bash.

Add to your shell rc file:
  eval "$(scrn init zsh)"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			shellName := "zsh"
			if len(args) == 1 {
				shellName = args[0]
			}
			return printInitScript(shellName)
		},
	}

	lsCmd := &cobra.Command{
		Use:   "ls",
		Short: "List running sessions",
		Long:  `Print the running screen sessions, one per line`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return listSessions()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage scrn configuration",
		Long:  `Manage the scrn configuration file`,
	}
	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		RunE: func(_ *cobra.Command, _ []string) error {
			return printConfigPath()
		},
	}
	configCmd.AddCommand(configPathCmd)

	rootCmd.AddCommand(lsCmd, configCmd, initCmd)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s", version, commit, date)),
	); err != nil {
		os.Exit(1)
	}
}
