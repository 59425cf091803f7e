package contract

import (
	"fmt"
	"os"
)

// LogWarn logs a non-fatal warning to stderr.
func LogWarn(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  %s: %v\n", msg, err)
		return
	}
	fmt.Fprintf(os.Stderr, "⚠️  %s\n", msg)
}

// LogAuditHeader prints the run banner before an audit starts.
func LogAuditHeader(cfg *Config) {
	if cfg.UseEmojis {
		fmt.Printf("🔎 Repo: %s@%s (Tier: %s)\n", cfg.RepoID(), cfg.Ref, cfg.Tier)
		fmt.Printf("⚙️  Workers: %d, chunk budget: %d tokens\n", cfg.Workers, cfg.MaxChunkTokens)
		return
	}
	fmt.Printf("Repo: %s@%s (Tier: %s)\n", cfg.RepoID(), cfg.Ref, cfg.Tier)
	fmt.Printf("Workers: %d, chunk budget: %d tokens\n", cfg.Workers, cfg.MaxChunkTokens)
}

// LogFatal logs an error and exits the program. CLI layer only.
func LogFatal(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "❌ %s\n", msg)
	}
	os.Exit(1)
}
