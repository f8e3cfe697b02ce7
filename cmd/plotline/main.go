package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kobzarvs/plotline/internal/app"
)

func newRootCmd(run func(app.Options) error) *cobra.Command {
	var opts app.Options
	cmd := &cobra.Command{
		Use:          "plotline [story.json]",
		Short:        "Organize a story into chapters, threads and beats",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Open (or start) a story file
  plotline novel.json

  # Start a new story with a title
  plotline draft.json --title "The Long Way Home"

  # Explore the sample story
  plotline --demo
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Path = args[0]
			}
			return run(opts)
		},
	}
	cmd.Flags().StringVar(&opts.Title, "title", "", "name of a newly created story")
	cmd.Flags().BoolVar(&opts.Demo, "demo", false, "open the built in sample story")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "write debug messages to the log file")
	cmd.Flags().StringVar(&opts.LogFile, "log-file", "", "log to this file instead of the configured one")
	return cmd
}

func main() {
	cmd := newRootCmd(func(opts app.Options) error {
		return app.New(opts).Run()
	})
	cmd.SilenceErrors = true
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "plotline:", err)
		os.Exit(1)
	}
}
