package cmd

import (
	"github.com/Farahprojects/repoaudit/core"
	"github.com/Farahprojects/repoaudit/internal/contract"
	"github.com/spf13/cobra"
)

// estimateCmd quotes an audit without dispatching any workers.
var estimateCmd = &cobra.Command{
	Use:   "estimate <owner/repo>",
	Short: "Quote the token cost of an audit without running it.",
	Long: `Derive a complexity fingerprint from the repository snapshot and
quote the token cost per audit tier. No LLM calls are made.

The quote is linear in the fingerprint: file counts by class, config and
SQL density, and an API endpoint estimate. The ceiling applies the tier
multiplier to absorb variance in model verbosity.

Examples:
  # Quote a standard audit
  repoaudit estimate acme/shop-backend

  # Quote a deep audit as JSON
  repoaudit estimate acme/shop-backend --tier deep --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteEstimate(rootCtx, cfg, deps); err != nil {
			contract.LogFatal(contract.UserFacingMessage(err), err)
		}
	},
}
