package main

import (
	"github.com/spf13/cobra"

	"lectern/internal/config"
	"lectern/internal/report"
	"lectern/internal/store"
)

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Report on the unified store after a run",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st store.Store) error {
				rep, err := report.BuildVerify(cmd.Context(), st)
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				report.RenderVerify(stdout, rep, report.ShouldColorize(stdout))
				return nil
			})
		},
	}
}
