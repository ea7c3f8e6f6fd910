package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"strava2gpx/internal/preflight"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"

	doctorLabelWidth = 24
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the environment for conversion runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := []preflight.Result{
				preflight.CheckDirectoryAccess("staging directory", cfg.Paths.StagingDir),
				preflight.CheckDirectoryAccess("data directory", cfg.Paths.DataDir),
				preflight.CheckFreeSpace("staging free space", cfg.Paths.StagingDir),
			}
			if cfg.Paths.OutputDir != "" {
				results = append(results,
					preflight.CheckDirectoryAccess("output directory", cfg.Paths.OutputDir),
					preflight.CheckFreeSpace("output free space", cfg.Paths.OutputDir),
				)
			}
			for _, status := range preflight.CheckSystemDeps(cfg) {
				detail := status.Detail
				if status.Available && detail == "" {
					detail = status.Command
				}
				results = append(results, preflight.Result{
					Name:   status.Name,
					Passed: status.Available,
					Detail: detail,
				})
			}

			out := cmd.OutOrStdout()
			colorize := isTerminal(out)
			failed := 0
			for _, result := range results {
				if !result.Passed {
					failed++
				}
				fmt.Fprintln(out, renderCheckLine(result, colorize))
			}
			if failed > 0 {
				return fmt.Errorf("doctor found %d problems", failed)
			}
			fmt.Fprintln(out, "All checks passed.")
			return nil
		},
	}
}

func renderCheckLine(result preflight.Result, colorize bool) string {
	label := "OK"
	color := ansiGreen
	if !result.Passed {
		label = "FAIL"
		color = ansiRed
	}
	line := fmt.Sprintf("  %-*s [%s]", doctorLabelWidth, result.Name+":", label)
	if strings.TrimSpace(result.Detail) != "" {
		line += " " + result.Detail
	}
	if colorize {
		return color + line + ansiReset
	}
	return line
}
