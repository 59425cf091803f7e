package contract

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Farahprojects/repoaudit/schema"
	"github.com/fatih/color"
)

// Color variables for console output.
var (
	CriticalColor = color.New(color.FgRed, color.Bold)     // standard danger
	WarningColor  = color.New(color.FgYellow)              // standard caution, not bold
	InfoColor     = color.New(color.FgCyan)                // informational signal
	GoodColor     = color.New(color.FgGreen)               // healthy score
	BadColor      = color.New(color.FgMagenta, color.Bold) // urgent score
)

// SeverityLabel returns the plain text label for an issue severity.
func SeverityLabel(sev schema.Severity) string {
	switch sev {
	case schema.SeverityCritical:
		return "Critical"
	case schema.SeverityWarning:
		return "Warning"
	default:
		return "Info"
	}
}

// SeverityColorLabel returns a colored severity label for table output.
func SeverityColorLabel(sev schema.Severity) string {
	text := SeverityLabel(sev)
	switch sev {
	case schema.SeverityCritical:
		return CriticalColor.Sprint(text)
	case schema.SeverityWarning:
		return WarningColor.Sprint(text)
	default:
		return InfoColor.Sprint(text)
	}
}

// HealthColorLabel colors a health score by its band.
func HealthColorLabel(score int, text string) string {
	switch {
	case score >= 80:
		return GoodColor.Sprint(text)
	case score >= 40:
		return WarningColor.Sprint(text)
	default:
		return BadColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. An empty path means stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// TruncatePath shortens a path to maxWidth runes, keeping the tail, which is
// the part users recognize.
func TruncatePath(path string, maxWidth int) string {
	if maxWidth <= 0 || len(path) <= maxWidth {
		return path
	}
	if maxWidth <= 3 {
		return path[len(path)-maxWidth:]
	}
	return "..." + path[len(path)-(maxWidth-3):]
}

// ShouldIgnore returns true if the given path matches any of the exclude patterns.
// It supports simple glob patterns (using filepath.Match) when the pattern
// contains wildcard characters (*, ?, [ ]). Patterns ending with '/' are treated
// as prefixes. Patterns starting with '.' are treated as suffix (extension) matches.
// A user can provide patterns like "vendor/", "node_modules/", "*.min.js".
func ShouldIgnore(path string, excludes []string) bool {
	for _, ex := range excludes {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}

		// If the pattern contains glob characters, try filepath.Match.
		if strings.ContainsAny(ex, "*?[") || strings.Contains(ex, "**") {
			pat := strings.ReplaceAll(ex, "**", "*")
			if ok, err := filepath.Match(pat, path); err == nil && ok {
				return true
			}
			// Also try matching against the base filename (e.g. *.min.js)
			if ok, err := filepath.Match(pat, filepath.Base(path)); err == nil && ok {
				return true
			}
			continue
		}

		// Handle prefix, suffix, or substring matches
		switch {
		case strings.HasSuffix(ex, "/"):
			if strings.HasPrefix(path, ex) {
				return true
			}
		case strings.HasPrefix(ex, "."):
			if strings.HasSuffix(path, ex) {
				return true
			}
		case strings.Contains(path, ex):
			return true
		}
	}
	return false
}
