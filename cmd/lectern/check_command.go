package main

import (
	"github.com/spf13/cobra"

	"lectern/internal/config"
	"lectern/internal/report"
	"lectern/internal/store"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Inspect the scraper exports and the unified store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st store.Store) error {
				rep, err := report.BuildCheck(cmd.Context(), cfg, st)
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				report.RenderCheck(stdout, rep, report.ShouldColorize(stdout))
				return nil
			})
		},
	}
}
