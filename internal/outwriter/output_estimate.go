package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Farahprojects/repoaudit/internal/contract"
	"github.com/Farahprojects/repoaudit/schema"

	"github.com/olekukonko/tablewriter"
)

// estimateView is the JSON shape of one cost quote.
type estimateView struct {
	Fingerprint schema.ComplexityFingerprint `json:"fingerprint"`
	Estimate    schema.CostEstimate          `json:"estimate"`
}

// PrintCostEstimate outputs the cost quote, dispatching based on the output format configured.
func PrintCostEstimate(fp schema.ComplexityFingerprint, estimate schema.CostEstimate, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, estimateView{Fingerprint: fp, Estimate: estimate})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeEstimateCSV(w, fp, estimate)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeEstimateTable(w, fp, estimate)
		}, "Wrote table")
	}
}

// writeEstimateTable renders the human-readable quote.
func writeEstimateTable(w io.Writer, fp schema.ComplexityFingerprint, estimate schema.CostEstimate) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Value"})

	data := [][]string{
		{"Files", strconv.Itoa(fp.FileCount)},
		{"Total bytes", strconv.FormatInt(fp.TotalBytes, 10)},
		{"Token estimate (content)", strconv.Itoa(fp.TokenEstimate)},
		{"Frontend files", strconv.Itoa(fp.FrontendFiles)},
		{"Backend files", strconv.Itoa(fp.BackendFiles)},
		{"Test files", strconv.Itoa(fp.TestFiles)},
		{"Config files", strconv.Itoa(fp.ConfigFiles)},
		{"SQL files", strconv.Itoa(fp.SQLFiles)},
		{"API endpoints (est.)", strconv.Itoa(fp.APIEndpointsEstimated)},
		{"Frameworks", strings.Join(fp.FrameworkFlags, ", ")},
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Tier %s: estimated %d tokens (ceiling %d)\n",
		estimate.Tier, estimate.EstimatedTokens, estimate.TokenCeiling)
	return err
}

// writeEstimateCSV writes the quote as one CSV record.
func writeEstimateCSV(w io.Writer, fp schema.ComplexityFingerprint, estimate schema.CostEstimate) error {
	header := []string{
		"tier",
		"estimated_tokens",
		"token_ceiling",
		"file_count",
		"total_bytes",
		"config_files",
		"backend_files",
		"frontend_files",
		"frameworks",
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		return csvWriter.Write([]string{
			string(estimate.Tier),
			strconv.Itoa(estimate.EstimatedTokens),
			strconv.Itoa(estimate.TokenCeiling),
			strconv.Itoa(fp.FileCount),
			strconv.FormatInt(fp.TotalBytes, 10),
			strconv.Itoa(fp.ConfigFiles),
			strconv.Itoa(fp.BackendFiles),
			strconv.Itoa(fp.FrontendFiles),
			strings.Join(fp.FrameworkFlags, "|"),
		})
	})
}
