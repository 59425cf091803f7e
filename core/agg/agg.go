// Package agg merges per-worker findings into one run-level aggregate.
package agg

import (
	"sort"

	"github.com/Farahprojects/repoaudit/schema"
)

// RunAggregate is the merged view over all completed worker findings.
// List fields are plain concatenations in finding order; deduplication is
// the synthesizer's job. Single-valued fields take the first non-empty
// value except RiskLevel, which takes the maximum reported.
type RunAggregate struct {
	Findings        []schema.WorkerFinding
	Issues          []schema.Issue
	Strengths       []string
	Weaknesses      []string
	CrossFileFlags  []string
	Uncertainties   []string
	SuspiciousFiles []string
	AppMap          schema.AppMap
	RiskLevel       schema.RiskLevel
	ProductionReady string
	FetchFailures   []schema.FetchFailure

	// FallbackScore is the plain average of self-reported local scores,
	// kept only as a baseline. The synthesizer's weighted score is
	// authoritative.
	FallbackScore float64
}

// Merge combines worker findings in the order they are given. Callers
// that need deterministic output sort findings by TaskID first.
func Merge(findings []schema.WorkerFinding) *RunAggregate {
	out := &RunAggregate{Findings: findings}

	for _, f := range findings {
		out.Issues = append(out.Issues, f.Issues...)
		out.Strengths = append(out.Strengths, f.Strengths...)
		out.Weaknesses = append(out.Weaknesses, f.Weaknesses...)
		out.CrossFileFlags = append(out.CrossFileFlags, f.CrossFileFlags...)
		out.Uncertainties = append(out.Uncertainties, f.Uncertainties...)
		out.SuspiciousFiles = append(out.SuspiciousFiles, f.SuspiciousFiles...)
		out.FetchFailures = append(out.FetchFailures, f.FetchFailures...)

		out.AppMap = mergeAppMaps(out.AppMap, f.AppMap)
		out.RiskLevel = schema.MoreSevereRisk(out.RiskLevel, f.RiskLevel)
		if out.ProductionReady == "" {
			out.ProductionReady = f.ProductionReady
		}
	}

	if len(findings) > 0 {
		sum := 0.0
		for _, f := range findings {
			sum += f.LocalScore
		}
		out.FallbackScore = sum / float64(len(findings))
	}

	return out
}

// SortByTaskID orders findings deterministically before merging.
func SortByTaskID(findings []schema.WorkerFinding) {
	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].TaskID < findings[j].TaskID
	})
}

// mergeAppMaps set-unions every AppMap list field, preserving first-seen
// order within each list. APIEndpoints keeps the maximum count reported
// and TestingApproach keeps the first non-empty value.
func mergeAppMaps(a, b schema.AppMap) schema.AppMap {
	merged := schema.AppMap{
		Languages:            unionStrings(a.Languages, b.Languages),
		Frameworks:           unionStrings(a.Frameworks, b.Frameworks),
		KeyFiles:             unionStrings(a.KeyFiles, b.KeyFiles),
		ArchitecturePatterns: unionStrings(a.ArchitecturePatterns, b.ArchitecturePatterns),
		APIEndpoints:         max(a.APIEndpoints, b.APIEndpoints),
		TestingApproach:      a.TestingApproach,
	}
	if merged.TestingApproach == "" {
		merged.TestingApproach = b.TestingApproach
	}
	return merged
}

// unionStrings appends the members of b that a does not already contain.
func unionStrings(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	seen := make(map[string]struct{}, len(a))
	for _, s := range a {
		seen[s] = struct{}{}
	}
	out := a
	for _, s := range b {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
