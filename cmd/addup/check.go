package main

import (
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/addup/internal/display"
	"github.com/fyrsmithlabs/addup/internal/numscan"
)

func newCheckCmd(a *app) *cobra.Command {
	var (
		jsonOut bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "check [flags] [--] <token>...",
		Short: "Explain how single tokens are parsed",
		Long: `Run each token through the parsing pipeline and report the value it
contributes, or the stage and reason that rejected it.

Tokens that start with "-" must follow "--" so they are not read as flags.

Examples:
  addup check -- '$1,000.--' '-[-[40]]' '12/31'
  addup check --json -- -5 '-$10'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser, err := numscan.NewParser(a.settings(cmd))
			if err != nil {
				return err
			}
			rows := make([]display.Check, len(args))
			for i, tok := range args {
				rows[i] = display.NewCheck(tok, parser.Parse(tok, nil))
			}
			return a.presenter(jsonOut, noColor).Checks(rows)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print results as JSON")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable styled output")
	addSettingsFlags(cmd)
	return cmd
}
