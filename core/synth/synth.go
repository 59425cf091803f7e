// Package synth deduplicates and scores aggregated findings into the
// final audit report.
package synth

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Farahprojects/repoaudit/core/agg"
	"github.com/Farahprojects/repoaudit/schema"
)

// Penalty caps and thresholds for the health score.
const (
	crossFlagPenalty    = 2
	crossFlagPenaltyCap = 10
	uncertaintyPenalty  = 1
	uncertaintyCap      = 5
	confidenceThreshold = 0.8
	neutralScore        = 50
)

// Synthesize turns a run aggregate into the final SynthesisResult:
// issues deduplicated and sorted by severity, the weighted health score
// with penalties applied, and a deterministic banded summary.
func Synthesize(aggregate *agg.RunAggregate, stats schema.WorkerStats) *schema.SynthesisResult {
	issues := DedupIssues(aggregate.Issues)
	sortBySeverity(issues)

	crossFlags := distinct(aggregate.CrossFileFlags)
	uncertainties := distinct(aggregate.Uncertainties)

	score, avgConfidence := weightedScore(aggregate.Findings)
	if len(aggregate.Findings) > 0 {
		// Penalties measure doubt about findings; with none, the neutral
		// score stands as-is instead of absorbing the confidence deduction.
		score = applyPenalties(score, len(crossFlags), len(uncertainties), avgConfidence)
	}

	stats.AvgConfidence = avgConfidence
	result := &schema.SynthesisResult{
		HealthScore:     score,
		Issues:          issues,
		WorkerStats:     stats,
		CrossFileFlags:  crossFlags,
		Uncertainties:   uncertainties,
		Strengths:       distinct(aggregate.Strengths),
		Weaknesses:      distinct(aggregate.Weaknesses),
		SuspiciousFiles: distinct(aggregate.SuspiciousFiles),
		AppMap:          aggregate.AppMap,
		RiskLevel:       aggregate.RiskLevel,
		ProductionReady: aggregate.ProductionReady,
	}
	result.Summary = buildSummary(score, result.CriticalCount(), result.WarningCount())
	return result
}

// DedupIssues removes duplicate issues, keeping the first occurrence.
// Two issues are duplicates when their normalized title and file path
// match. Dedup is idempotent: applying it to its own output is a no-op.
func DedupIssues(issues []schema.Issue) []schema.Issue {
	seen := make(map[string]struct{}, len(issues))
	out := make([]schema.Issue, 0, len(issues))
	for _, issue := range issues {
		key := dedupKey(issue)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, issue)
	}
	return out
}

// dedupKey builds the similarity key: lowercase title with collapsed
// whitespace and punctuation stripped, joined with the file path.
func dedupKey(issue schema.Issue) string {
	return normalizeTitle(issue.Title) + "|" + issue.File
}

func normalizeTitle(title string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// weightedScore computes the confidence-weighted average of local scores
// and the plain average confidence. Each finding weighs
// tokensAnalyzed x confidence; zero total weight falls back to the
// neutral score.
func weightedScore(findings []schema.WorkerFinding) (int, float64) {
	var weightedSum, totalWeight, confidenceSum float64
	for _, f := range findings {
		weight := float64(f.TokensAnalyzed) * f.Confidence
		weightedSum += f.LocalScore * weight
		totalWeight += weight
		confidenceSum += f.Confidence
	}

	avgConfidence := 0.0
	if len(findings) > 0 {
		avgConfidence = confidenceSum / float64(len(findings))
	}
	if totalWeight == 0 {
		return neutralScore, avgConfidence
	}
	return int(math.Round(weightedSum / totalWeight)), avgConfidence
}

// applyPenalties deducts for cross-file flags, uncertainties and low
// confidence, then clamps the score to [0,100].
func applyPenalties(score, crossFlags, uncertainties int, avgConfidence float64) int {
	score -= min(crossFlags*crossFlagPenalty, crossFlagPenaltyCap)
	score -= min(uncertainties*uncertaintyPenalty, uncertaintyCap)
	if avgConfidence < confidenceThreshold {
		score -= int(math.Round((confidenceThreshold - avgConfidence) * 25))
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// buildSummary renders the deterministic score-band summary.
func buildSummary(score, criticalCount, warningCount int) string {
	var band string
	switch {
	case score >= 80:
		band = "Excellent health"
	case score >= 60:
		band = "Good health"
	case score >= 40:
		band = "Needs work"
	default:
		band = "Urgent attention required"
	}
	return fmt.Sprintf("%s (score %d/100): %d critical, %d warning issues found.",
		band, score, criticalCount, warningCount)
}

// sortBySeverity orders issues critical first, then warning, then info,
// preserving input order within a severity.
func sortBySeverity(issues []schema.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		return schema.SeverityRank(issues[i].Severity) < schema.SeverityRank(issues[j].Severity)
	})
}

// distinct removes duplicate strings, keeping first-seen order.
func distinct(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
