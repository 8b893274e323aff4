// Package loader reads model registry config files and registers the
// described generators on a providers.Mux. Config files are YAML or JSON:
//
//	kind: openai
//	api_key: $OPENAI_API_KEY
//	base_url: https://api.openai.com/v1
//	models:
//	  - name: openai/gpt-4o
//	    model: gpt-4o
//	    params:
//	      temperature: 0.4
//
// API keys may reference environment variables with $VAR or ${VAR}.
// Configs whose key expands to empty are skipped, so a checked-in registry
// works on machines that only hold some of the credentials.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"google.golang.org/genai"

	"github.com/uismith/uismith/pkg/llm"
	"github.com/uismith/uismith/pkg/llm/providers"
)

// ConfigFile describes one provider and its registered models.
type ConfigFile struct {
	// Kind selects the provider implementation: "openai" or "gemini".
	Kind string `json:"kind" yaml:"kind"`

	// APIKey may be a literal or a $VAR environment reference.
	APIKey  string `json:"api_key,omitzero" yaml:"api_key,omitzero"`
	BaseURL string `json:"base_url,omitzero" yaml:"base_url,omitzero"`

	Models []Entry `json:"models" yaml:"models"`
}

// Entry maps a mux route to a concrete provider model.
type Entry struct {
	// Name is the route pattern, e.g. "openai/gpt-4o" or "openai/#".
	Name string `json:"name" yaml:"name"`

	// Model is the provider-side model identifier.
	Model string `json:"model" yaml:"model"`

	Params *llm.ModelParams `json:"params,omitzero" yaml:"params,omitzero"`
}

// skipError marks a config without credentials; callers walking a
// directory treat it as a non-error.
type skipError struct{ reason string }

func (e *skipError) Error() string { return "loader: skipped: " + e.reason }

// Load parses one config file and registers its models on mux.
// Returns the registered route names.
func Load(path string, mux *providers.Mux) ([]string, error) {
	cfg, err := parseFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: parse %s: %w", path, err)
	}
	names, err := Register(*cfg, mux)
	if err != nil {
		return nil, fmt.Errorf("loader: register %s: %w", path, err)
	}
	return names, nil
}

// LoadDir loads every .yaml/.yml/.json config under dir recursively.
// Configs with missing credentials are skipped with a log line.
func LoadDir(dir string, mux *providers.Mux) ([]string, error) {
	var names []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json", ".yaml", ".yml":
		default:
			return nil
		}
		cfg, err := parseFile(path)
		if err != nil {
			return fmt.Errorf("loader: parse %s: %w", path, err)
		}
		fileNames, err := Register(*cfg, mux)
		if err != nil {
			if _, ok := err.(*skipError); ok {
				slog.Info("loader: config skipped", "path", path, "reason", err)
				return nil
			}
			return fmt.Errorf("loader: register %s: %w", path, err)
		}
		names = append(names, fileNames...)
		return nil
	})
	return names, err
}

// Register registers the models of one parsed config on mux.
func Register(cfg ConfigFile, mux *providers.Mux) ([]string, error) {
	cfg.APIKey = expandEnv(cfg.APIKey)
	switch strings.ToLower(cfg.Kind) {
	case "openai":
		return registerOpenAI(cfg, mux)
	case "gemini":
		return registerGemini(cfg, mux)
	default:
		return nil, fmt.Errorf("unknown kind: %q", cfg.Kind)
	}
}

func registerOpenAI(cfg ConfigFile, mux *providers.Mux) ([]string, error) {
	if cfg.APIKey == "" {
		return nil, &skipError{reason: "api_key is empty"}
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)

	var names []string
	for _, m := range cfg.Models {
		if m.Name == "" || m.Model == "" {
			return nil, fmt.Errorf("model entry missing name or model")
		}
		if err := mux.Handle(m.Name, &llm.OpenAIGenerator{
			Client: &client,
			Model:  m.Model,
			Params: m.Params,
		}); err != nil {
			return nil, err
		}
		names = append(names, m.Name)
	}
	return names, nil
}

func registerGemini(cfg ConfigFile, mux *providers.Mux) ([]string, error) {
	if cfg.APIKey == "" {
		return nil, &skipError{reason: "api_key is empty"}
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, err
	}

	var names []string
	for _, m := range cfg.Models {
		if m.Name == "" || m.Model == "" {
			return nil, fmt.Errorf("model entry missing name or model")
		}
		if err := mux.Handle(m.Name, &llm.GeminiGenerator{
			Client: client,
			Model:  m.Model,
			Params: m.Params,
		}); err != nil {
			return nil, err
		}
		names = append(names, m.Name)
	}
	return names, nil
}

func parseFile(path string) (*ConfigFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg ConfigFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported extension: %s", filepath.Ext(path))
	}
	return &cfg, nil
}

// expandEnv resolves $VAR and ${VAR} references; literals pass through.
func expandEnv(s string) string {
	if strings.HasPrefix(s, "$") {
		return os.ExpandEnv(s)
	}
	return s
}
