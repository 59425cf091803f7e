// Package cmd defines the command-line interface for repoaudit.
package cmd

import (
	"github.com/Farahprojects/repoaudit/internal/contract"
	"github.com/Farahprojects/repoaudit/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(vaultCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the archive subcommands to the parent archive command
	archiveCmd.AddCommand(archivePopulateCmd)
	archiveCmd.AddCommand(archiveSyncCmd)
	archiveCmd.AddCommand(archiveStatusCmd)
	archiveCmd.AddCommand(archiveDeleteCmd)
	archiveCmd.AddCommand(archiveMigrateCmd)

	// Add the vault subcommands to the parent vault command
	vaultCmd.AddCommand(vaultEncryptCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("ref", "HEAD", "Git reference to audit")
	rootCmd.PersistentFlags().String("tier", string(schema.StandardTier), "Audit depth: quick or standard or deep")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent analysis workers")
	rootCmd.PersistentFlags().Int("max-chunk-tokens", contract.DefaultMaxChunkTokens, "Token budget per analysis chunk")
	rootCmd.PersistentFlags().Int("min-merge-tokens", contract.DefaultMinMergeTokens, "Folders below this token count are bundled together")
	rootCmd.PersistentFlags().Int("declared-tokens", 0, "Caller-declared token estimate, checked for deviation after the run")
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of path prefixes or patterns to ignore")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("model", contract.DefaultModel, "LLM model used for analysis")
	rootCmd.PersistentFlags().String("llm-base-url", "", "Override the LLM endpoint base URL")
	rootCmd.PersistentFlags().String("llm-api-key", "", "LLM API key (prefer REPOAUDIT_LLM_API_KEY)")
	rootCmd.PersistentFlags().String("source-base-url", "", "Override the source-hosting API base URL")
	rootCmd.PersistentFlags().String("source-token", "", "Source API bearer token for private repositories (prefer REPOAUDIT_SOURCE_TOKEN)")
	rootCmd.PersistentFlags().String("source-token-enc", "", "Vault-encrypted source token, decrypted with --vault-secret")
	rootCmd.PersistentFlags().String("vault-secret", "", "Master secret for token encryption (prefer REPOAUDIT_VAULT_SECRET)")
	rootCmd.PersistentFlags().Int("fetch-timeout", 0, "Per-file fetch timeout in seconds (0 = default)")
	rootCmd.PersistentFlags().Int("llm-timeout", 0, "Per-chunk LLM call timeout in seconds (0 = default)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Archive cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (prefer an env var, this is plaintext)")
	rootCmd.PersistentFlags().String("color", "on", "Enable colored labels in output (on/off)")
	rootCmd.PersistentFlags().String("emoji", "on", "Enable emojis in output headers (on/off)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of reportCmd to Viper
	reportCmd.Flags().String("runs-file", "audit_runs.parquet", "Output path for the run-level parquet file")
	reportCmd.Flags().String("issues-file", "audit_issues.parquet", "Output path for the issue-level parquet file")
	if err := viper.BindPFlags(reportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding report flags", err)
	}

	// Bind all flags of archiveMigrateCmd to Viper
	archiveMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(archiveMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding archive migrate flags", err)
	}
}
