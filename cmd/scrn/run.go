package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/Gaurav-Gosain/scrn/internal/app"
	"github.com/Gaurav-Gosain/scrn/internal/config"
	"github.com/Gaurav-Gosain/scrn/internal/screen"
	"github.com/Gaurav-Gosain/scrn/internal/shell"
)

func run() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("scrn needs an interactive terminal")
	}

	if err := config.SetupLogging(debugMode); err != nil {
		return err
	}
	if err := screen.CheckVersion(); err != nil {
		return err
	}

	cfg := config.Load()
	if scrollbackLines > 0 {
		cfg.Appearance.ScrollbackLines = scrollbackLines
		if cfg.Appearance.ScrollbackLines < 100 {
			cfg.Appearance.ScrollbackLines = 100
		}
		if cfg.Appearance.ScrollbackLines > 1000000 {
			cfg.Appearance.ScrollbackLines = 1000000
		}
	}
	if workspaceDir != "" {
		cfg.Workspace.Dir = workspaceDir
	}

	a := app.New(cfg)
	if actionFile != "" {
		a.SetActionFile(actionFile)
	}
	return a.Run()
}

func printInitScript(shellName string) error {
	script, err := shell.InitScript(shellName)
	if err != nil {
		return err
	}
	fmt.Print(script)
	return nil
}

func listSessions() error {
	sessions, err := screen.ListSessions()
	if err != nil {
		return err
	}
	for _, s := range sessions {
		state := "detached"
		if s.State == screen.StateAttached {
			state = "attached"
		}
		fmt.Printf("%s\t%s\t%s\n", s.Name, s.PidName, state)
	}
	return nil
}

func printConfigPath() error {
	fmt.Println(config.Path())
	return nil
}
