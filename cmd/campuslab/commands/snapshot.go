package commands

import (
	"github.com/spf13/cobra"

	"github.com/DrSkyle/campuslab/pkg/engine/report"
)

func newSnapshotCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Print a single dashboard frame",
		Long:  "Run one cycle and print the frame to stdout as text, csv, json, yaml or html.",
		Example: `  campuslab snapshot
  campuslab snapshot --format json --seed 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			logger, err := a.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			eng, err := a.newEngine(ctx, logger)
			if err != nil {
				return err
			}
			defer closeEngine(eng, logger)

			frame, err := eng.Cycle(ctx)
			if err != nil {
				return err
			}
			return report.Encode(cmd.OutOrStdout(), f, frame)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(report.FormatText), "Output format (text, csv, json, yaml, html)")
	return cmd
}
