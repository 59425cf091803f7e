package contract

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/Farahprojects/repoaudit/schema"
)

// Default values for configuration.
const (
	DefaultMaxChunkTokens = 500_000
	DefaultMinMergeTokens = 50_000
	DefaultTemperature    = 0.1
	DefaultFetchTimeout   = 30 * time.Second
	DefaultLLMTimeout     = 2 * time.Minute
	DefaultPrecision      = 1
	DefaultModel          = "gpt-4o-mini"
)

// DefaultWorkers is the default bound on concurrent worker invocations.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for an audit run.
// This struct remains the "final, validated" config.
type Config struct {
	Owner string
	Repo  string
	Ref   string

	Tier           schema.AuditTier
	Workers        int
	MaxChunkTokens int
	MinMergeTokens int

	// DeclaredTokens is the caller-supplied cost estimate, compared against
	// the server-computed one after execution. Deviation flags, never blocks.
	DeclaredTokens int

	FetchTimeout time.Duration
	LLMTimeout   time.Duration

	Model       string
	LLMBaseURL  string
	LLMAPIKey   string
	Temperature float64

	SourceBaseURL string
	SourceToken   string // decrypted transiently, never persisted or logged

	VaultSecret string

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)

	Excludes []string

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// RepoID returns the canonical repository identity used as the archive key.
func (c *Config) RepoID() string {
	return c.Owner + "/" + c.Repo
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Excludes != nil {
		clone.Excludes = make([]string, len(c.Excludes))
		copy(clone.Excludes, c.Excludes)
	}
	return &clone
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from the positional owner/repo arg, so no tag
	RepoArg string

	// --- Fields from rootCmd.PersistentFlags() ---
	Ref              string `mapstructure:"ref"`
	Tier             string `mapstructure:"tier"`
	Workers          int    `mapstructure:"workers"`
	MaxChunkTokens   int    `mapstructure:"max-chunk-tokens"`
	MinMergeTokens   int    `mapstructure:"min-merge-tokens"`
	DeclaredTokens   int    `mapstructure:"declared-tokens"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Precision        int    `mapstructure:"precision"`
	Width            int    `mapstructure:"width"`
	Exclude          string `mapstructure:"exclude"`
	Emoji            string `mapstructure:"emoji"`
	Color            string `mapstructure:"color"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	Model            string `mapstructure:"model"`
	LLMBaseURL       string `mapstructure:"llm-base-url"`
	LLMAPIKey        string `mapstructure:"llm-api-key"`
	SourceBaseURL    string `mapstructure:"source-base-url"`
	SourceToken      string `mapstructure:"source-token"`
	SourceTokenEnc   string `mapstructure:"source-token-enc"`
	VaultSecret      string `mapstructure:"vault-secret"`
	FetchTimeoutSecs int    `mapstructure:"fetch-timeout"`
	LLMTimeoutSecs   int    `mapstructure:"llm-timeout"`
}

// ParseRepoArg splits an "owner/repo" positional argument.
func ParseRepoArg(arg string) (owner, repo string, err error) {
	parts := strings.Split(strings.TrimSpace(arg), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", &ValidationError{Field: "repository", Reason: "expected owner/repo"}
	}
	return parts[0], parts[1], nil
}

// ResolveConfig validates raw input and produces the final Config.
func ResolveConfig(input *ConfigRawInput) (*Config, error) {
	cfg := &Config{
		Ref:            input.Ref,
		Workers:        input.Workers,
		MaxChunkTokens: input.MaxChunkTokens,
		MinMergeTokens: input.MinMergeTokens,
		DeclaredTokens: input.DeclaredTokens,
		OutputFile:     input.OutputFile,
		Precision:      input.Precision,
		Width:          input.Width,
		Model:          input.Model,
		LLMBaseURL:     input.LLMBaseURL,
		LLMAPIKey:      input.LLMAPIKey,
		Temperature:    DefaultTemperature,
		SourceBaseURL:  input.SourceBaseURL,
		SourceToken:    input.SourceToken,
		VaultSecret:    input.VaultSecret,
		CacheDBConnect: input.CacheDBConnect,
		FetchTimeout:   DefaultFetchTimeout,
		LLMTimeout:     DefaultLLMTimeout,
		UseEmojis:      input.Emoji != "off",
		UseColors:      input.Color != "off",
	}

	if input.RepoArg != "" {
		owner, repo, err := ParseRepoArg(input.RepoArg)
		if err != nil {
			return nil, err
		}
		cfg.Owner = owner
		cfg.Repo = repo
	}

	if cfg.Ref == "" {
		cfg.Ref = "HEAD"
	}

	tier := schema.AuditTier(input.Tier)
	if tier == "" {
		tier = schema.StandardTier
	}
	if _, ok := schema.ValidAuditTiers[tier]; !ok {
		return nil, &ValidationError{Field: "tier", Reason: fmt.Sprintf("unknown tier %q", input.Tier)}
	}
	cfg.Tier = tier

	output := schema.OutputMode(input.Output)
	if output == "" {
		output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[output]; !ok {
		return nil, &ValidationError{Field: "output", Reason: fmt.Sprintf("unknown output mode %q", input.Output)}
	}
	cfg.Output = output

	backend := schema.DatabaseBackend(input.CacheBackend)
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return nil, &ValidationError{Field: "cache-backend", Reason: fmt.Sprintf("unknown backend %q", input.CacheBackend)}
	}
	cfg.CacheBackend = backend
	if err := ValidateDatabaseConnectionString(backend, input.CacheDBConnect); err != nil {
		return nil, err
	}

	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.MaxChunkTokens <= 0 {
		cfg.MaxChunkTokens = DefaultMaxChunkTokens
	}
	if cfg.MinMergeTokens <= 0 {
		cfg.MinMergeTokens = DefaultMinMergeTokens
	}
	if cfg.MinMergeTokens > cfg.MaxChunkTokens {
		return nil, &ValidationError{Field: "min-merge-tokens", Reason: "must not exceed max-chunk-tokens"}
	}
	if cfg.Precision < 0 {
		cfg.Precision = DefaultPrecision
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if input.FetchTimeoutSecs > 0 {
		cfg.FetchTimeout = time.Duration(input.FetchTimeoutSecs) * time.Second
	}
	if input.LLMTimeoutSecs > 0 {
		cfg.LLMTimeout = time.Duration(input.LLMTimeoutSecs) * time.Second
	}
	if input.Exclude != "" {
		for _, part := range strings.Split(input.Exclude, ",") {
			if part = strings.TrimSpace(part); part != "" {
				cfg.Excludes = append(cfg.Excludes, part)
			}
		}
	}

	return cfg, nil
}

// ValidateDatabaseConnectionString performs basic validation of a backend's
// connection string before any connection is attempted.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.MySQLBackend:
		if !strings.Contains(connStr, "@") {
			return &ValidationError{Field: "cache-db-connect", Reason: "MySQL expects user:password@tcp(host:port)/dbname"}
		}
	case schema.PostgreSQLBackend:
		if !strings.Contains(connStr, "host=") && !strings.HasPrefix(connStr, "postgres://") {
			return &ValidationError{Field: "cache-db-connect", Reason: "PostgreSQL expects host=... key/value pairs or a postgres:// URL"}
		}
	default:
		// SQLite accepts an empty string (default path); none ignores it.
	}
	return nil
}
