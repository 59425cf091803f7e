package cmd

import (
	"fmt"

	"github.com/Farahprojects/repoaudit/core"
	"github.com/Farahprojects/repoaudit/internal/contract"
	"github.com/Farahprojects/repoaudit/internal/parquet"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// reportCmd runs an audit and exports the report to Parquet files.
var reportCmd = &cobra.Command{
	Use:   "report <owner/repo>",
	Short: "Run an audit and export the report to Parquet files.",
	Long: `Run the full audit pipeline and export the result as two Parquet
files: one run-level record (score, summary, worker statistics) and one
row per deduplicated issue.

Parquet keeps reports queryable from analytics tooling (DuckDB, Spark,
pandas) without a database in between.

Examples:
  # Audit and export with default file names
  repoaudit report acme/shop-backend

  # Deep audit exported to custom paths
  repoaudit report acme/shop-backend --tier deep --runs-file runs.parquet --issues-file issues.parquet`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := sharedSetup(rootCtx, cmd, args); err != nil {
			return err
		}
		return requireLLMKey()
	},
	Run: func(_ *cobra.Command, _ []string) {
		result, err := core.GetAuditResults(rootCtx, cfg, deps)
		if err != nil {
			contract.LogFatal(contract.UserFacingMessage(err), err)
		}

		runsFile := viper.GetString("runs-file")
		issuesFile := viper.GetString("issues-file")

		run := parquet.BuildAuditRun(result, cfg.RepoID(), cfg.Ref, cfg.Tier)
		if err := parquet.WriteAuditRunsParquet([]parquet.AuditRun{run}, runsFile); err != nil {
			contract.LogFatal("Failed to write runs parquet", err)
		}
		if err := parquet.WriteAuditIssuesParquet(parquet.BuildAuditIssues(result, cfg.RepoID()), issuesFile); err != nil {
			contract.LogFatal("Failed to write issues parquet", err)
		}
		fmt.Printf("Exported report to %s and %s\n", runsFile, issuesFile)
	},
}
