package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Farahprojects/repoaudit/internal/contract"
	"github.com/Farahprojects/repoaudit/schema"

	"github.com/olekukonko/tablewriter"
)

// PrintArchiveStatus outputs archive store information, dispatching based on the output format configured.
func PrintArchiveStatus(status schema.ArchiveStatus, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeArchiveStatusTable(w, status)
	}, "Wrote table")
}

// writeArchiveStatusTable renders the human-readable status view.
func writeArchiveStatusTable(w io.Writer, status schema.ArchiveStatus) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Field", "Value"})

	data := [][]string{
		{"Backend", status.Backend},
		{"Connected", strconv.FormatBool(status.Connected)},
		{"Archives", strconv.Itoa(status.TotalArchives)},
		{"Blob bytes", strconv.FormatInt(status.TotalBlobBytes, 10)},
		{"Oldest access", formatAccessTime(status.OldestAccess)},
		{"Newest access", formatAccessTime(status.NewestAccess)},
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// PrintSyncResult prints a one-line summary of an archive sync.
func PrintSyncResult(res schema.SyncResult, cfg *contract.Config) {
	if res.ChangeCount() == 0 {
		fmt.Println("Archive already up to date.")
		return
	}
	if cfg.UseEmojis {
		fmt.Printf("🔄 Sync complete: %d added, %d changed, %d removed\n", res.Added, res.Changed, res.Removed)
		return
	}
	fmt.Printf("Sync complete: %d added, %d changed, %d removed\n", res.Added, res.Changed, res.Removed)
}

func formatAccessTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.RFC3339)
}
