package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Farahprojects/repoaudit/internal/contract"
	"github.com/Farahprojects/repoaudit/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintSynthesisResult outputs the audit report, dispatching based on the output format configured.
func PrintSynthesisResult(result *schema.SynthesisResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSynthesisCSV(w, result)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSynthesisTable(result, cfg, duration, w)
		}, "Wrote table")
	}
}

// writeSynthesisTable generates and writes the human-readable report.
func writeSynthesisTable(result *schema.SynthesisResult, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	// 1. Score banner
	scoreText := fmt.Sprintf("Health: %d/100", result.HealthScore)
	if cfg.UseColors {
		scoreText = contract.HealthColorLabel(result.HealthScore, scoreText)
	}
	if _, err := fmt.Fprintf(writer, "%s\n%s\n", scoreText, result.Summary); err != nil {
		return err
	}
	if result.Partial {
		if _, err := fmt.Fprintln(writer, "Partial report: the run was cancelled before all chunks completed."); err != nil {
			return err
		}
	}
	if result.RiskLevel != "" {
		if _, err := fmt.Fprintf(writer, "Risk level: %s\n", result.RiskLevel); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(writer); err != nil {
		return err
	}

	// 2. Issue table
	if len(result.Issues) > 0 {
		table := tablewriter.NewWriter(writer)
		table.Header([]string{"#", "Severity", "Category", "File", "Line", "Title"})
		table.Configure(func(tcfg *tablewriter.Config) {
			tcfg.Row.Alignment.Global = tw.AlignLeft
		})

		var data [][]string
		maxPath := getMaxTablePathWidth(cfg)
		for i, issue := range result.Issues {
			severity := contract.SeverityLabel(issue.Severity)
			if cfg.UseColors {
				severity = contract.SeverityColorLabel(issue.Severity)
			}
			line := ""
			if issue.Line > 0 {
				line = strconv.Itoa(issue.Line)
			}
			data = append(data, []string{
				strconv.Itoa(i + 1),
				severity,
				issue.Category,
				contract.TruncatePath(issue.File, maxPath),
				line,
				issue.Title,
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	// 3. Auxiliary sections
	if err := writeStringSection(writer, "Cross-file flags", result.CrossFileFlags); err != nil {
		return err
	}
	if err := writeStringSection(writer, "Uncertainties", result.Uncertainties); err != nil {
		return err
	}
	if err := writeStringSection(writer, "Strengths", result.Strengths); err != nil {
		return err
	}
	if err := writeStringSection(writer, "Weaknesses", result.Weaknesses); err != nil {
		return err
	}
	if err := writeStringSection(writer, "Suspicious files", result.SuspiciousFiles); err != nil {
		return err
	}

	// 4. Run stats footer
	stats := result.WorkerStats
	if _, err := fmt.Fprintf(writer, "Analyzed %d/%d chunks (%d failed), %d tokens, avg confidence %.2f\n",
		stats.CompletedChunks, stats.TotalChunks, stats.FailedChunks,
		stats.TotalTokensAnalyzed, stats.AvgConfidence); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Audit completed in %v with %d workers. Cache backend: %s\n",
		duration, cfg.Workers, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeStringSection prints a titled bullet list, skipping empty sections.
func writeStringSection(w io.Writer, title string, values []string) error {
	if len(values) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "%s:\n", title); err != nil {
		return err
	}
	for _, v := range values {
		if _, err := fmt.Fprintf(w, "  - %s\n", v); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// writeSynthesisCSV writes the issue list in CSV format. Run-level fields
// live in the JSON output; CSV carries the flat issue table.
func writeSynthesisCSV(w io.Writer, result *schema.SynthesisResult) error {
	header := []string{
		"rank",
		"severity",
		"category",
		"file",
		"line",
		"title",
		"description",
		"suggestion",
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for i, issue := range result.Issues {
			rec := []string{
				strconv.Itoa(i + 1),
				string(issue.Severity),
				issue.Category,
				issue.File,
				strconv.Itoa(issue.Line),
				issue.Title,
				issue.Description,
				issue.Suggestion,
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
