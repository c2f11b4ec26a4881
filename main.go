package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v2"

	"github.com/cbrewster/jj-prompt/internal/jj"
	"github.com/cbrewster/jj-prompt/internal/render"
	"github.com/cbrewster/jj-prompt/internal/status"
	"github.com/cbrewster/jj-prompt/internal/style"
	"github.com/cbrewster/jj-prompt/internal/tui/preview"
)

func main() {
	app := &cli.App{
		Name:           "jj-prompt",
		Usage:          "jj workspace status for shell prompts",
		DefaultCommand: "render",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "path",
				Usage: "directory to inspect (defaults to the working directory)",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "style config file (defaults to the user config dir)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log failures to stderr instead of staying silent",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "render",
				Usage:  "print the styled prompt segment",
				Action: renderAction,
			},
			{
				Name:   "status",
				Usage:  "print the raw repository state as JSON",
				Action: statusAction,
			},
			{
				Name:   "preview",
				Usage:  "interactively preview the configured prompt styles",
				Action: previewAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("jj-prompt", "error", err)
		os.Exit(1)
	}
}

func renderAction(c *cli.Context) error {
	state := readState(c)
	if state == nil {
		return nil
	}

	cfg := style.Load(c.String("config"))
	fmt.Print(render.Format(state, cfg, lipgloss.DefaultRenderer()))
	return nil
}

func statusAction(c *cli.Context) error {
	state := readState(c)
	if state == nil {
		return nil
	}

	return json.NewEncoder(os.Stdout).Encode(state)
}

func previewAction(c *cli.Context) error {
	cfg := style.Load(c.String("config"))

	model := preview.NewModel(cfg, readState(c))
	_, err := tea.NewProgram(model).Run()
	return err
}

// readState derives a snapshot of the surrounding workspace, or nil when
// there is nothing to show. Every failure is demoted to an absent result:
// a broken prompt segment is worse than a missing one, so the prompt
// never sees an error. Pass --verbose to see what went wrong.
func readState(c *cli.Context) *status.RepoState {
	path := c.String("path")
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			logFailure(c, "get working directory", err)
			return nil
		}
		path = cwd
	}

	workspace, err := jj.Open(path)
	if err != nil {
		logFailure(c, "open workspace", err)
		return nil
	}

	state, err := status.NewReader(workspace).Read(c.Context)
	if err != nil {
		logFailure(c, "read repository state", err)
		return nil
	}
	return state
}

func logFailure(c *cli.Context, msg string, err error) {
	if c.Bool("verbose") {
		slog.Error(msg, "error", err)
	}
}
