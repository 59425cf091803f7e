package cmd

import (
	"fmt"

	"github.com/Farahprojects/repoaudit/internal/archive"
	"github.com/Farahprojects/repoaudit/internal/contract"
	"github.com/Farahprojects/repoaudit/internal/outwriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// archiveCmd focused on archive cache management.
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Manage cached repository snapshots",
	Long: `Manage the compressed repository snapshots that audits read from.

Repoaudit stores one lz4-compressed tar blob per repository, plus a file
index, in the configured backend. Audits fetch file content from this
cache instead of hammering the source-hosting API.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (no cache)

Subcommands:
  populate - Download and cache a fresh snapshot
  sync     - Reconcile the cache against the remote tree
  status   - Show cache statistics and connection info
  delete   - Remove one cached snapshot
  migrate  - Run schema migrations on the cache database

Examples:
  # Cache a repository before the first audit
  repoaudit archive populate acme/shop-backend

  # Check cache status
  repoaudit archive status`,
}

// archivePopulateCmd downloads and stores a fresh snapshot.
var archivePopulateCmd = &cobra.Command{
	Use:   "populate <owner/repo>",
	Short: "Download and cache a fresh repository snapshot",
	Long: `Download the repository tarball at the configured ref, strip noise
directories, compress the result and store it with a per-file index.

Any existing snapshot for the repository is replaced atomically. A failed
populate leaves no partial archive behind.

Examples:
  # Cache the default branch
  repoaudit archive populate acme/shop-backend

  # Cache a specific tag of a private repository
  repoaudit archive populate acme/internal-api --ref v3.2.0 --source-token "$TOKEN"`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		meta, err := deps.Archive.Populate(rootCtx, cfg.RepoID(), cfg.Owner, cfg.Repo, cfg.Ref, cfg.SourceToken)
		if err != nil {
			contract.LogFatal(contract.UserFacingMessage(err), err)
		}
		fmt.Printf("Cached %s: %d files, %d compressed bytes\n", meta.RepoID, len(meta.FileIndex), meta.BlobSize)
	},
}

// archiveSyncCmd reconciles the cache against the remote tree.
var archiveSyncCmd = &cobra.Command{
	Use:   "sync <owner/repo>",
	Short: "Reconcile a cached snapshot against the remote tree",
	Long: `Compare the cached file index against the remote tree listing and
fetch only added or changed files. The blob is rewritten once, and only
when something actually changed.

Examples:
  # Refresh a cached repository
  repoaudit archive sync acme/shop-backend`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		res, err := deps.Archive.Sync(rootCtx, cfg.RepoID(), cfg.Owner, cfg.Repo, cfg.Ref, cfg.SourceToken)
		if err != nil {
			contract.LogFatal(contract.UserFacingMessage(err), err)
		}
		outwriter.PrintSyncResult(res, cfg)
	},
}

// archiveStatusCmd shows archive store status.
var archiveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display archive cache statistics and connection details",
	Long: `Show detailed information about the archive cache.

Displays:
- Backend type and connection status
- Total number of cached snapshots
- Total compressed blob size
- Oldest and newest access timestamps

Examples:
  # Check archive status
  repoaudit archive status`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := deps.Archive.Status()
		if err != nil {
			contract.LogFatal("Failed to get archive status", err)
		}
		if err := outwriter.PrintArchiveStatus(status, cfg); err != nil {
			contract.LogFatal("Failed to print archive status", err)
		}
	},
}

// archiveDeleteCmd removes one cached snapshot.
var archiveDeleteCmd = &cobra.Command{
	Use:   "delete <owner/repo>",
	Short: "Remove one cached repository snapshot",
	Long: `Delete the cached snapshot for a repository.

Use this when:
- The repository was re-created or its history rewritten
- The cache may be stale or corrupted
- Freeing storage for repositories no longer audited

Examples:
  # Drop a cached repository
  repoaudit archive delete acme/shop-backend`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := deps.Archive.Delete(cfg.RepoID()); err != nil {
			contract.LogFatal("Failed to delete archive", err)
		}
		fmt.Printf("Deleted archive for %s\n", cfg.RepoID())
	},
}

// archiveMigrateCmd runs schema migrations on the cache database.
var archiveMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run schema migrations on the archive cache database",
	Long: `Apply or roll back archive cache schema migrations.

By default migrates to the latest version. Use --target-version to pin a
specific version, or 0 to roll everything back.

Examples:
  # Migrate to the latest schema
  repoaudit archive migrate

  # Roll back all migrations
  repoaudit archive migrate --target-version 0`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		target := viper.GetInt("target-version")
		if err := archive.MigrateBackend(cfg.CacheBackend, cfg.CacheDBConnect, target); err != nil {
			contract.LogFatal("Migration failed", err)
		}
		fmt.Println("Migration complete.")
	},
}
