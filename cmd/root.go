package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Farahprojects/repoaudit/core"
	"github.com/Farahprojects/repoaudit/internal/archive"
	"github.com/Farahprojects/repoaudit/internal/contract"
	"github.com/Farahprojects/repoaudit/internal/llmclient"
	"github.com/Farahprojects/repoaudit/internal/sourceclient"
	"github.com/Farahprojects/repoaudit/internal/vault"
	"github.com/Farahprojects/repoaudit/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations. It is cancelled on
// SIGINT/SIGTERM so in-flight audit runs degrade to partial reports.
var rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// deps holds the external collaborators wired during setup.
var deps *core.Deps

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "repoaudit",
	Short:              "Run LLM-backed audits over repository snapshots.",
	Long:               `Repoaudit chunks a repository, fans the chunks out to LLM analysis workers, and synthesizes one scored health report.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Set config file name and paths
		viper.SetConfigName(".repoaudit") // Name of config file (without extension)
		viper.SetConfigType("yaml")       // We'll use YAML format
		viper.AddConfigPath(".")          // Look in the current directory
		viper.AddConfigPath("$HOME")      // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("REPOAUDIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("ref", "HEAD")
	viper.SetDefault("tier", schema.StandardTier)
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("max-chunk-tokens", contract.DefaultMaxChunkTokens)
	viper.SetDefault("min-merge-tokens", contract.DefaultMinMergeTokens)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("model", contract.DefaultModel)
	viper.SetDefault("cache-backend", schema.SQLiteBackend)
	viper.SetDefault("cache-db-connect", "")
	viper.SetDefault("color", "on")
	viper.SetDefault("emoji", "on")
}

// sharedSetup unmarshals config, runs validation, and wires collaborators.
func sharedSetup(_ context.Context, _ *cobra.Command, args []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle the positional owner/repo argument (which Viper doesn't do).
	if len(args) == 1 {
		input.RepoArg = args[0]
	}

	// 4. Run all validation and complex parsing.
	resolved, err := contract.ResolveConfig(input)
	if err != nil {
		return err
	}
	*cfg = *resolved

	// 5. Decrypt a vault-encrypted source token, if one was supplied.
	// The plaintext lives only in this process, never on disk.
	if input.SourceTokenEnc != "" {
		cipher, err := vault.NewTokenCipher(cfg.VaultSecret)
		if err != nil {
			return fmt.Errorf("cannot decrypt source token: %w", err)
		}
		token, err := cipher.Decrypt(input.SourceTokenEnc)
		if err != nil {
			return fmt.Errorf("cannot decrypt source token: %w", err)
		}
		cfg.SourceToken = token
	}

	// 6. Wire the collaborators with validated config.
	return initDeps()
}

// initDeps constructs the source, archive and LLM collaborators.
func initDeps() error {
	store, err := archive.NewStore(cfg.CacheBackend, cfg.CacheDBConnect)
	if err != nil {
		return fmt.Errorf("failed to initialize archive store: %w", err)
	}

	var sourceOpts []sourceclient.Option
	if cfg.SourceBaseURL != "" {
		sourceOpts = append(sourceOpts, sourceclient.WithBaseURL(cfg.SourceBaseURL))
	}
	source := sourceclient.NewClient(sourceOpts...)

	var llmOpts []llmclient.Option
	if cfg.LLMBaseURL != "" {
		llmOpts = append(llmOpts, llmclient.WithBaseURL(cfg.LLMBaseURL))
	}
	llm := llmclient.NewClient(cfg.LLMAPIKey, cfg.Model, llmOpts...)

	deps = &core.Deps{
		Source:  source,
		LLM:     llm,
		Archive: archive.NewService(store, source),
	}
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// requireLLMKey guards commands that actually dispatch workers.
func requireLLMKey() error {
	if cfg.LLMAPIKey == "" {
		return &contract.ValidationError{Field: "llm-api-key", Reason: "required for audit runs; set REPOAUDIT_LLM_API_KEY"}
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	defer rootCancel()
	return rootCmd.Execute()
}
