package provider

import (
	"fmt"
	"sort"
	"strings"

	"horse.fit/lingonews/internal/config"
)

// Registry stores generators by name and resolves the configured default once at startup.
type Registry struct {
	generators      map[string]Generator
	defaultProvider string
}

func NewRegistry(defaultProvider string) *Registry {
	normalizedDefault := normalizeProviderName(defaultProvider)
	if normalizedDefault == "" {
		normalizedDefault = OpenAIName
	}

	return &Registry{
		generators:      make(map[string]Generator),
		defaultProvider: normalizedDefault,
	}
}

// NewRegistryFromConfig registers both backends and selects TRANSLATION_PROVIDER as the default.
func NewRegistryFromConfig(cfg *config.Config) (*Registry, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	registry := NewRegistry(cfg.TranslationProvider)
	if err := registry.Register(NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, cfg.ProviderTimeout)); err != nil {
		return nil, err
	}
	if err := registry.Register(NewGeminiProvider(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL, cfg.ProviderTimeout)); err != nil {
		return nil, err
	}
	if _, err := registry.Generator(""); err != nil {
		return nil, err
	}
	return registry, nil
}

// Register adds one generator.
func (r *Registry) Register(generator Generator) error {
	if r == nil {
		return fmt.Errorf("registry is nil")
	}
	if generator == nil {
		return fmt.Errorf("generator is nil")
	}
	name := normalizeProviderName(generator.Name())
	if name == "" {
		return fmt.Errorf("provider name is required")
	}
	r.generators[name] = generator
	return nil
}

// Generator resolves a generator by name. Empty names use the configured default.
func (r *Registry) Generator(name string) (Generator, error) {
	if r == nil {
		return nil, fmt.Errorf("registry is nil")
	}
	if len(r.generators) == 0 {
		return nil, fmt.Errorf("no providers are registered")
	}

	resolvedName := normalizeProviderName(name)
	if resolvedName == "" {
		resolvedName = r.defaultProvider
	}
	generator, ok := r.generators[resolvedName]
	if ok {
		return generator, nil
	}

	return nil, fmt.Errorf("provider %q is not registered (available: %s)", resolvedName, strings.Join(r.ProviderNames(), ", "))
}

func (r *Registry) DefaultProvider() string {
	if r == nil {
		return ""
	}
	return r.defaultProvider
}

func (r *Registry) ProviderNames() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close releases HTTP clients held by registered generators.
func (r *Registry) Close() error {
	if r == nil {
		return nil
	}
	for _, generator := range r.generators {
		closer, ok := generator.(interface{ Close() error })
		if !ok {
			continue
		}
		if err := closer.Close(); err != nil {
			return fmt.Errorf("close %s provider: %w", generator.Name(), err)
		}
	}
	return nil
}

func normalizeProviderName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
