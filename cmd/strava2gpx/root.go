package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)
	opts := &convertOptions{}

	rootCmd := &cobra.Command{
		Use:   "strava2gpx",
		Short: "Convert a Strava bulk export to GPX files",
		Long: `strava2gpx reads a Strava bulk export (zip archive or extracted
directory), filters the activity index, and converts the recorded tracks
to GPX files using gpsbabel.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, ctx, opts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.Flags().StringVarP(&opts.input, "input", "i", "", "Strava export archive or directory")
	rootCmd.Flags().StringVarP(&opts.output, "output", "o", "", "Directory for converted GPX files")
	rootCmd.Flags().StringArrayVarP(&opts.types, "filter-type", "f", nil, "Only convert activities of this type (repeatable)")
	rootCmd.Flags().IntVarP(&opts.year, "filter-year", "y", 0, "Only convert activities recorded in this year")
	rootCmd.Flags().BoolVarP(&opts.listTypes, "list-types", "l", false, "List activity types present in the export and exit")
	rootCmd.Flags().BoolVar(&opts.overwrite, "overwrite", false, "Re-convert activities whose output file already exists")
	rootCmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	_ = rootCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))

	return rootCmd
}
