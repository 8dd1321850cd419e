package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/codejanitor/janitor/internal/domain"
)

// FileName is the config file written by `janitor init`.
const FileName = "janitor.yaml"

// projectFiles are tried in order in the project directory.
var projectFiles = []string{"janitor.yaml", "janitor.yml", ".janitor.yaml", ".janitor.yml"}

const pyproject = "pyproject.toml"

// Loader implements domain.ConfigLoader. File values are merged over
// DefaultConfig and environment overrides are applied last.
type Loader struct {
	home string
	env  *viper.Viper
}

type Option func(*Loader)

// WithHome overrides the directory searched for the user-level config.
func WithHome(dir string) Option {
	return func(l *Loader) { l.home = dir }
}

func New(opts ...Option) *Loader {
	l := &Loader{env: newEnv()}
	if home, err := os.UserHomeDir(); err == nil {
		l.home = home
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func newEnv() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("JANITOR")
	v.AutomaticEnv()
	_ = v.BindEnv("ai_provider")
	_ = v.BindEnv("ai_model")
	_ = v.BindEnv("api_key")
	_ = v.BindEnv("max_nesting")
	_ = v.BindEnv("openai_key", "OPENAI_API_KEY")
	_ = v.BindEnv("anthropic_key", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("groq_key", "GROQ_API_KEY")
	return v
}

// Load finds the config for projectPath. A project without any config file
// gets DefaultConfig with environment overrides.
func (l *Loader) Load(projectPath string) (domain.Config, error) {
	cfg, _, err := l.LoadWithSource(projectPath)
	return cfg, err
}

// LoadWithSource is Load that also reports which file was used, or "" when
// none was found.
func (l *Loader) LoadWithSource(projectPath string) (domain.Config, string, error) {
	for _, name := range projectFiles {
		path := filepath.Join(projectPath, name)
		if fileExists(path) {
			cfg, err := l.LoadFile(path)
			return cfg, path, err
		}
	}

	path := filepath.Join(projectPath, pyproject)
	if fileExists(path) {
		cfg, found, err := l.loadPyproject(path)
		if err != nil {
			return domain.Config{}, path, err
		}
		if found {
			return cfg, path, nil
		}
	}

	if l.home != "" {
		path := filepath.Join(l.home, ".config", "code-janitor", "config.yaml")
		if fileExists(path) {
			cfg, err := l.LoadFile(path)
			return cfg, path, err
		}
	}

	cfg, err := l.finish(domain.DefaultConfig(), "defaults")
	return cfg, "", err
}

// LoadFile reads a YAML config file explicitly.
func (l *Loader) LoadFile(path string) (domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Config{}, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := domain.DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return l.finish(cfg, filepath.Base(path))
}

func (l *Loader) loadPyproject(path string) (domain.Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Config{}, false, fmt.Errorf("reading %s: %w", path, err)
	}

	var doc struct {
		Tool struct {
			Janitor toml.Primitive `toml:"janitor"`
		} `toml:"tool"`
	}
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return domain.Config{}, false, fmt.Errorf("parsing %s: %w", pyproject, err)
	}
	if !md.IsDefined("tool", "janitor") {
		return domain.Config{}, false, nil
	}

	cfg := domain.DefaultConfig()
	if err := md.PrimitiveDecode(doc.Tool.Janitor, &cfg); err != nil {
		return domain.Config{}, false, fmt.Errorf("parsing [tool.janitor] in %s: %w", pyproject, err)
	}
	cfg, err = l.finish(cfg, pyproject)
	return cfg, true, err
}

// finish applies environment overrides and validates the result.
func (l *Loader) finish(cfg domain.Config, source string) (domain.Config, error) {
	if err := l.applyEnv(&cfg); err != nil {
		return domain.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, fmt.Errorf("invalid %s: %w", source, err)
	}
	return cfg, nil
}

func (l *Loader) applyEnv(cfg *domain.Config) error {
	if provider := l.env.GetString("ai_provider"); provider != "" {
		if cfg.AI.Model == domain.DefaultModel(cfg.AI.Provider) {
			cfg.AI.Model = domain.DefaultModel(provider)
		}
		cfg.AI.Provider = provider
	}
	if model := l.env.GetString("ai_model"); model != "" {
		cfg.AI.Model = model
	}
	if raw := l.env.GetString("max_nesting"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("JANITOR_MAX_NESTING=%q: %w", raw, err)
		}
		cfg.Analyzer.MaxNestingDepth = n
	}

	if key := l.env.GetString("api_key"); key != "" {
		cfg.AI.APIKey = key
	} else if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = l.providerKey(cfg.AI.Provider)
	}
	return nil
}

func (l *Loader) providerKey(provider string) string {
	switch provider {
	case domain.ProviderOpenAI:
		return l.env.GetString("openai_key")
	case domain.ProviderAnthropic:
		return l.env.GetString("anthropic_key")
	case domain.ProviderGroq:
		return l.env.GetString("groq_key")
	default:
		return ""
	}
}

// Write encodes cfg as YAML at path. The API key is never written.
func Write(path string, cfg domain.Config) error {
	cfg.AI.APIKey = ""
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
