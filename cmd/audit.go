package cmd

import (
	"github.com/Farahprojects/repoaudit/core"
	"github.com/Farahprojects/repoaudit/internal/contract"
	"github.com/spf13/cobra"
)

// auditCmd runs the full audit pipeline for one repository.
var auditCmd = &cobra.Command{
	Use:   "audit <owner/repo>",
	Short: "Run a full LLM-backed audit and print the scored report.",
	Long: `Snapshot a repository, split it into token-budgeted chunks, fan the
chunks out to concurrent LLM analysis workers, and synthesize one
deduplicated, scored health report.

The first run downloads and caches a compressed snapshot; later runs
sync the cache incrementally against the remote tree.

Examples:
  # Standard audit of a public repository
  repoaudit audit acme/shop-backend

  # Deep audit of a specific branch with more workers
  repoaudit audit acme/shop-backend --ref release-2.4 --tier deep --workers 8

  # Audit a private repository with a vault-encrypted token
  repoaudit audit acme/internal-api --source-token-enc "$TOKEN_ENC" --vault-secret "$SECRET"

  # Export the report as JSON for downstream tooling
  repoaudit audit acme/shop-backend --output json --output-file report.json`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := sharedSetup(rootCtx, cmd, args); err != nil {
			return err
		}
		return requireLLMKey()
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAudit(rootCtx, cfg, deps); err != nil {
			contract.LogFatal(contract.UserFacingMessage(err), err)
		}
	},
}
