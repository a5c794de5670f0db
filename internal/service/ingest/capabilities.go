package ingest

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// ModelCapabilities describes one summarization model
type ModelCapabilities struct {
	ID        string `yaml:"id"`
	MaxTokens int    `yaml:"max_tokens"`
	Default   bool   `yaml:"default"`
}

// ProviderCapabilities is the on-disk shape of a provider capability file
type ProviderCapabilities struct {
	Provider string              `yaml:"provider"`
	Models   []ModelCapabilities `yaml:"models"`
}

// CapabilityRegistry resolves model ids to their token limits, loaded from
// the embedded provider YAML files.
type CapabilityRegistry struct {
	models       map[string]ModelCapabilities
	defaultModel string
}

// NewCapabilityRegistry loads the embedded capability files
func NewCapabilityRegistry() (*CapabilityRegistry, error) {
	r := &CapabilityRegistry{models: make(map[string]ModelCapabilities)}

	if err := r.loadProviderFile("anthropic"); err != nil {
		return nil, fmt.Errorf("failed to load anthropic capabilities: %w", err)
	}

	if r.defaultModel == "" {
		return nil, fmt.Errorf("no default model configured")
	}
	return r, nil
}

func (r *CapabilityRegistry) loadProviderFile(provider string) error {
	filename := fmt.Sprintf("config/%s.yaml", provider)
	data, err := configFiles.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	var providerCaps ProviderCapabilities
	if err := yaml.Unmarshal(data, &providerCaps); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filename, err)
	}

	for _, m := range providerCaps.Models {
		r.models[m.ID] = m
		if m.Default {
			r.defaultModel = m.ID
		}
	}
	return nil
}

// DefaultModel returns the configured default model id
func (r *CapabilityRegistry) DefaultModel() string {
	return r.defaultModel
}

// SetDefaultModel overrides the default model. The model must exist in
// the registry; called once at startup before requests are served.
func (r *CapabilityRegistry) SetDefaultModel(model string) error {
	if _, ok := r.models[model]; !ok {
		return fmt.Errorf("unknown model: %s", model)
	}
	r.defaultModel = model
	return nil
}

// Lookup returns capabilities for a model id
func (r *CapabilityRegistry) Lookup(model string) (ModelCapabilities, error) {
	caps, ok := r.models[model]
	if !ok {
		return ModelCapabilities{}, fmt.Errorf("unknown model: %s", model)
	}
	return caps, nil
}
