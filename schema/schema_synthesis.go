package schema

// WorkerStats summarizes worker execution for one audit run.
type WorkerStats struct {
	TotalChunks         int     `json:"totalChunks"`
	CompletedChunks     int     `json:"completedChunks"`
	FailedChunks        int     `json:"failedChunks"`
	TotalTokensAnalyzed int     `json:"totalTokensAnalyzed"`
	AvgConfidence       float64 `json:"avgConfidence"`
}

// SynthesisResult is the terminal artifact of an audit run: the merged,
// deduplicated and scored report. Persisted by the caller.
type SynthesisResult struct {
	HealthScore     int         `json:"healthScore"` // 0-100
	Summary         string      `json:"summary"`
	Issues          []Issue     `json:"issues"` // deduped, severity-sorted
	WorkerStats     WorkerStats `json:"workerStats"`
	CrossFileFlags  []string    `json:"crossFileFlags"`
	Uncertainties   []string    `json:"uncertainties"`
	Strengths       []string    `json:"strengths"`
	Weaknesses      []string    `json:"weaknesses"`
	SuspiciousFiles []string    `json:"suspiciousFiles,omitempty"`
	AppMap          AppMap      `json:"appMap,omitzero"`
	RiskLevel       RiskLevel   `json:"riskLevel,omitempty"`
	ProductionReady string      `json:"productionReady,omitempty"`
	Partial         bool        `json:"partial,omitempty"` // true when the run was cancelled mid-flight
}

// CriticalCount returns the number of critical issues in the report.
func (r *SynthesisResult) CriticalCount() int {
	return countSeverity(r.Issues, SeverityCritical)
}

// WarningCount returns the number of warning issues in the report.
func (r *SynthesisResult) WarningCount() int {
	return countSeverity(r.Issues, SeverityWarning)
}

func countSeverity(issues []Issue, sev Severity) int {
	n := 0
	for _, issue := range issues {
		if issue.Severity == sev {
			n++
		}
	}
	return n
}
