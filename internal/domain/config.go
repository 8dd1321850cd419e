package domain

import (
	"fmt"
	"time"
)

// Provider names accepted in ai.provider.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGroq      = "groq"
	ProviderOllama    = "ollama"
)

// ValidProviders enumerates all recognized completion providers.
var ValidProviders = []string{ProviderOpenAI, ProviderAnthropic, ProviderGroq, ProviderOllama}

// Config holds every tunable of the tool. It is loaded once by the config
// adapter and handed to constructors; nothing reads it from global state.
type Config struct {
	Linter    LinterConfig    `yaml:"linter"    toml:"linter"    json:"linter"`
	Analyzer  AnalyzerConfig  `yaml:"analyzer"  toml:"analyzer"  json:"analyzer"`
	AI        AIConfig        `yaml:"ai"        toml:"ai"        json:"ai"`
	Validator ValidatorConfig `yaml:"validator" toml:"validator" json:"validator"`
	Snapshot  SnapshotConfig  `yaml:"backup"    toml:"backup"    json:"backup"`
	Scan      ScanConfig      `yaml:"scan"      toml:"scan"      json:"scan"`
	History   HistoryConfig   `yaml:"history"   toml:"history"   json:"history"`
}

type LinterConfig struct {
	Enabled         bool `yaml:"enabled"          toml:"enabled"          json:"enabled"`
	AutoFix         bool `yaml:"auto_fix"         toml:"auto_fix"         json:"auto_fix"`
	MaxLineLength   int  `yaml:"max_line_length"  toml:"max_line_length"  json:"max_line_length"`
	BuiltinFallback bool `yaml:"builtin_fallback" toml:"builtin_fallback" json:"builtin_fallback"`
	// Timeout bounds each linter or formatter subprocess, in seconds.
	Timeout int `yaml:"timeout" toml:"timeout" json:"timeout"`
}

type AnalyzerConfig struct {
	MaxNestingDepth         int  `yaml:"max_nesting_depth"         toml:"max_nesting_depth"         json:"max_nesting_depth"`
	MaxFunctionLines        int  `yaml:"max_function_lines"        toml:"max_function_lines"        json:"max_function_lines"`
	MaxCyclomaticComplexity int  `yaml:"max_cyclomatic_complexity" toml:"max_cyclomatic_complexity" json:"max_cyclomatic_complexity"`
	SecurityChecks          bool `yaml:"security_checks"           toml:"security_checks"           json:"security_checks"`
	ComplexityChecks        bool `yaml:"complexity_checks"         toml:"complexity_checks"         json:"complexity_checks"`
	DeadCodeChecks          bool `yaml:"dead_code_checks"          toml:"dead_code_checks"          json:"dead_code_checks"`
	// ToolTimeout bounds radon and bandit, in seconds.
	ToolTimeout int `yaml:"tool_timeout" toml:"tool_timeout" json:"tool_timeout"`
}

type AIConfig struct {
	Provider          string  `yaml:"provider"           toml:"provider"           json:"provider"`
	Model             string  `yaml:"model"              toml:"model"              json:"model"`
	APIKey            string  `yaml:"api_key,omitempty"  toml:"api_key"            json:"-"`
	BaseURL           string  `yaml:"base_url,omitempty" toml:"base_url"           json:"base_url,omitempty"`
	MaxRetries        int     `yaml:"max_retries"        toml:"max_retries"        json:"max_retries"`
	RetryDelay        float64 `yaml:"retry_delay"        toml:"retry_delay"        json:"retry_delay"`
	Timeout           int     `yaml:"timeout"            toml:"timeout"            json:"timeout"`
	MaxTokens         int     `yaml:"max_tokens"         toml:"max_tokens"         json:"max_tokens"`
	Temperature       float64 `yaml:"temperature"        toml:"temperature"        json:"temperature"`
	RepairTemperature float64 `yaml:"repair_temperature" toml:"repair_temperature" json:"repair_temperature"`
	MaxLintInPrompt   int     `yaml:"max_lint_in_prompt" toml:"max_lint_in_prompt" json:"max_lint_in_prompt"`
	SystemPrompt      string  `yaml:"system_prompt"      toml:"system_prompt"      json:"system_prompt"`
}

// RetryBaseDelay is the wait before the second provider attempt. It doubles
// for every attempt after that.
func (c AIConfig) RetryBaseDelay() time.Duration {
	return time.Duration(c.RetryDelay * float64(time.Second))
}

// CallTimeout bounds one provider call.
func (c AIConfig) CallTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

type ValidatorConfig struct {
	RunLinterAfter       bool `yaml:"run_linter_after"        toml:"run_linter_after"        json:"run_linter_after"`
	RunStaticAnalysis    bool `yaml:"run_static_analysis"     toml:"run_static_analysis"     json:"run_static_analysis"`
	FailOnSecurityIssues bool `yaml:"fail_on_security_issues" toml:"fail_on_security_issues" json:"fail_on_security_issues"`
	MaxValidationRetries int  `yaml:"max_validation_retries"  toml:"max_validation_retries"  json:"max_validation_retries"`
}

type SnapshotConfig struct {
	Enabled    bool   `yaml:"enabled"     toml:"enabled"     json:"enabled"`
	Dir        string `yaml:"backup_dir"  toml:"backup_dir"  json:"backup_dir"`
	MaxBackups int    `yaml:"max_backups" toml:"max_backups" json:"max_backups"`
}

type ScanConfig struct {
	Extensions []string `yaml:"extensions" toml:"extensions" json:"extensions"`
	Exclude    []string `yaml:"exclude"    toml:"exclude"    json:"exclude"`
}

type HistoryConfig struct {
	Enabled    bool   `yaml:"enabled"     toml:"enabled"     json:"enabled"`
	Path       string `yaml:"path"        toml:"path"        json:"path"`
	MaxRecords int    `yaml:"max_records" toml:"max_records" json:"max_records"`
}

// DefaultSystemPrompt opens every refactor and repair prompt.
const DefaultSystemPrompt = `You are an expert Senior Developer and code quality specialist. Your task is to refactor the provided code.
Goals:
1. Fix all identified security vulnerabilities (SQL injection, hardcoded secrets, dangerous functions, etc.).
2. Resolve code smells (deep nesting, long functions, high complexity, dead code).
3. Improve performance where it does not change behaviour.
4. Add type hints and error handling where they are missing.
5. Follow PEP 8 style guidelines.

Constraints:
- Return ONLY the code block. No explanations outside the code.
- Preserve the imports of the original code.
- Do not change the logic intentionally, only clean it.
- Wrap the final code in a single fenced code block.
- If the intent of some code is unclear, keep it unchanged.
- Prioritize correctness and safety over cleverness.`

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Linter: LinterConfig{
			Enabled:       true,
			AutoFix:       true,
			MaxLineLength: 120,
			Timeout:       30,
		},
		Analyzer: AnalyzerConfig{
			MaxNestingDepth:         4,
			MaxFunctionLines:        50,
			MaxCyclomaticComplexity: 10,
			SecurityChecks:          true,
			ComplexityChecks:        true,
			DeadCodeChecks:          true,
			ToolTimeout:             30,
		},
		AI: AIConfig{
			Provider:          ProviderOpenAI,
			Model:             "gpt-4",
			MaxRetries:        3,
			RetryDelay:        2,
			Timeout:           60,
			MaxTokens:         4000,
			Temperature:       0.2,
			RepairTemperature: 0.1,
			MaxLintInPrompt:   10,
			SystemPrompt:      DefaultSystemPrompt,
		},
		Validator: ValidatorConfig{
			RunLinterAfter:       true,
			RunStaticAnalysis:    true,
			FailOnSecurityIssues: true,
			MaxValidationRetries: 2,
		},
		Snapshot: SnapshotConfig{
			Enabled:    true,
			Dir:        ".janitor_backups",
			MaxBackups: 5,
		},
		Scan: ScanConfig{
			Extensions: []string{".py"},
			Exclude: []string{
				"**/.git/**",
				"**/.venv/**",
				"**/venv/**",
				"**/__pycache__/**",
				"**/node_modules/**",
				"**/.janitor_backups/**",
			},
		},
		History: HistoryConfig{
			Enabled:    true,
			Path:       ".janitor/history/records.json",
			MaxRecords: 500,
		},
	}
}

// DefaultModel returns the model used for a provider when none is configured.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderAnthropic:
		return "claude-3-5-sonnet-latest"
	case ProviderGroq:
		return "llama-3.1-70b-versatile"
	case ProviderOllama:
		return "llama3"
	default:
		return "gpt-4"
	}
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c Config) Validate() error {
	if !isValidProvider(c.AI.Provider) {
		return fmt.Errorf("%w %q (valid: openai, anthropic, groq, ollama)", ErrUnknownProvider, c.AI.Provider)
	}

	positive := []struct {
		name  string
		value int
	}{
		{"analyzer.max_nesting_depth", c.Analyzer.MaxNestingDepth},
		{"analyzer.max_function_lines", c.Analyzer.MaxFunctionLines},
		{"analyzer.max_cyclomatic_complexity", c.Analyzer.MaxCyclomaticComplexity},
		{"linter.max_line_length", c.Linter.MaxLineLength},
		{"ai.max_retries", c.AI.MaxRetries},
		{"ai.max_tokens", c.AI.MaxTokens},
		{"ai.timeout", c.AI.Timeout},
		{"backup.max_backups", c.Snapshot.MaxBackups},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s = %d (must be positive)", p.name, p.value)
		}
	}

	if c.Validator.MaxValidationRetries < 0 {
		return fmt.Errorf("validator.max_validation_retries = %d (must not be negative)", c.Validator.MaxValidationRetries)
	}
	if c.AI.RetryDelay < 0 {
		return fmt.Errorf("ai.retry_delay = %g (must not be negative)", c.AI.RetryDelay)
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("ai.temperature = %g (must be between 0 and 2)", c.AI.Temperature)
	}
	if c.Snapshot.Dir == "" {
		return fmt.Errorf("backup.backup_dir must not be empty")
	}

	return nil
}

func isValidProvider(name string) bool {
	for _, p := range ValidProviders {
		if p == name {
			return true
		}
	}
	return false
}
