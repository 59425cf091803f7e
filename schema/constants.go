package schema

// Custom string types for type safety.
type (
	// Severity represents the severity of a single issue.
	Severity string

	// RiskLevel represents the overall risk level reported by a worker.
	RiskLevel string

	// FileClass represents the coarse classification of a repository file.
	FileClass string

	// AuditTier represents the depth of an audit run.
	AuditTier string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the archive store.
	DatabaseBackend string
)

// All issue severities supported.
const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// All worker risk levels supported, from most to least severe.
const (
	RiskCritical RiskLevel = "critical"
	RiskHigh     RiskLevel = "high"
	RiskMedium   RiskLevel = "medium"
	RiskLow      RiskLevel = "low"
)

// All file classes supported.
const (
	ClassFrontend FileClass = "frontend"
	ClassBackend  FileClass = "backend"
	ClassTest     FileClass = "test"
	ClassConfig   FileClass = "config"
	ClassSQL      FileClass = "sql"
	ClassDoc      FileClass = "doc"
	ClassAsset    FileClass = "asset"
	ClassOther    FileClass = "other"
)

// All audit tiers supported.
const (
	QuickTier    AuditTier = "quick"
	StandardTier AuditTier = "standard" // default
	DeepTier     AuditTier = "deep"
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
	CSVOut  OutputMode = "csv"
)

// All archive store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidAuditTiers lists all valid audit tiers.
var ValidAuditTiers = map[AuditTier]struct{}{
	QuickTier:    {},
	StandardTier: {},
	DeepTier:     {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	JSONOut: {},
	CSVOut:  {},
}

// ValidDatabaseBackends lists all valid archive store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
