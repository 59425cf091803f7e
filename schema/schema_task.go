package schema

// WorkerTask describes one unit of analysis work, derived from a chunk.
type WorkerTask struct {
	ID          string   `json:"id"`
	Role        string   `json:"role"`
	Instruction string   `json:"instruction"`
	TargetFiles []string `json:"targetFiles"`
}

// Issue is one problem reported by a worker. The JSON tags match the payload
// shape the LLM is instructed to return.
type Issue struct {
	ID          string   `json:"id"`
	Severity    Severity `json:"severity"`
	Category    string   `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	File        string   `json:"file"`
	Line        int      `json:"line,omitempty"`
	BadCode     string   `json:"badCode,omitempty"`
	FixedCode   string   `json:"fixedCode,omitempty"`
	Suggestion  string   `json:"suggestion,omitempty"`
}

// AppMap is the worker's derived view of what the analyzed application is.
// String slices are merged by set union across workers; numeric fields take
// the max seen; TestingApproach takes the first non-default value in
// dispatch order.
type AppMap struct {
	Languages            []string `json:"languages,omitempty"`
	Frameworks           []string `json:"frameworks,omitempty"`
	KeyFiles             []string `json:"keyFiles,omitempty"`
	ArchitecturePatterns []string `json:"architecturePatterns,omitempty"`
	APIEndpoints         int      `json:"apiEndpoints,omitempty"`
	TestingApproach      string   `json:"testingApproach,omitempty"`
}

// FetchFailure records one file that could not be retrieved for a task.
// Failures are chunk metadata, tolerated as long as at least one file in the
// chunk succeeds.
type FetchFailure struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// WorkerFinding is one worker's structured output for a single chunk.
// Fields with JSON tags are parsed from the LLM response; the remaining
// fields are filled in by the task executor itself.
//
// Invariant: TokensAnalyzed reflects only files actually fetched, never
// files merely requested.
type WorkerFinding struct {
	Issues          []Issue   `json:"issues"`
	Strengths       []string  `json:"strengths"`
	Weaknesses      []string  `json:"weaknesses"`
	CrossFileFlags  []string  `json:"crossFileFlags"`
	Uncertainties   []string  `json:"uncertainties"`
	SuspiciousFiles []string  `json:"suspiciousFiles,omitempty"`
	AppMap          AppMap    `json:"appMap,omitzero"`
	RiskLevel       RiskLevel `json:"riskLevel,omitempty"`
	ProductionReady string    `json:"productionReady,omitempty"`
	LocalScore      float64   `json:"localScore"`
	Confidence      float64   `json:"confidence"`

	TaskID         string         `json:"-"`
	TokensAnalyzed int            `json:"-"`
	AnalyzedPaths  []string       `json:"-"`
	FetchFailures  []FetchFailure `json:"-"`
	TokenUsage     TokenUsage     `json:"-"`
}

// TokenUsage records the billable token counts of one LLM call.
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
}

// CompletionRequest is the request contract for the LLM inference endpoint.
type CompletionRequest struct {
	System      string
	User        string
	Temperature float64
}

// CompletionResponse is the raw result of one LLM inference call.
type CompletionResponse struct {
	Content string
	Usage   TokenUsage
}
