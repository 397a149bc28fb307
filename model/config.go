package model

import (
	"encoding/json"
	"fmt"
	"os"
)

// RegistryConfig is the on-disk configuration format for the model registry.
// It lives under the "model_registry" key of the service config file so the
// registry can share a file with other subsystems.
type RegistryConfig struct {
	Capabilities map[string]*CapabilityConfig `json:"capabilities" yaml:"capabilities"`
	Endpoints    map[string]*EndpointConfig   `json:"endpoints" yaml:"endpoints"`
	Defaults     *DefaultsConfig              `json:"defaults,omitempty" yaml:"defaults,omitempty"`
}

// LoadFromFile loads registry configuration from a JSON file.
// The file may either be a bare RegistryConfig or a larger config
// document with a "model_registry" key.
func LoadFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry config: %w", err)
	}
	return LoadFromJSON(data)
}

// LoadFromJSON parses registry configuration from JSON bytes.
func LoadFromJSON(data []byte) (*Registry, error) {
	// Try the wrapped form first.
	var wrapper struct {
		ModelRegistry *RegistryConfig `json:"model_registry"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && wrapper.ModelRegistry != nil {
		return registryFromConfig(wrapper.ModelRegistry)
	}

	var cfg RegistryConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse registry config: %w", err)
	}
	if len(cfg.Capabilities) == 0 && len(cfg.Endpoints) == 0 {
		return nil, fmt.Errorf("registry config has no capabilities or endpoints")
	}
	return registryFromConfig(&cfg)
}

func registryFromConfig(cfg *RegistryConfig) (*Registry, error) {
	caps := make(map[Capability]*CapabilityConfig, len(cfg.Capabilities))
	for name, c := range cfg.Capabilities {
		cap := ParseCapability(name)
		if cap == "" {
			return nil, fmt.Errorf("unknown capability %q in registry config", name)
		}
		caps[cap] = c
	}

	r := NewRegistry(caps, cfg.Endpoints)
	if cfg.Defaults != nil && cfg.Defaults.Model != "" {
		r.SetDefault(cfg.Defaults.Model)
	}
	return r, nil
}

// ToConfig exports the registry's current state as a RegistryConfig.
func (r *Registry) ToConfig() *RegistryConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	caps := make(map[string]*CapabilityConfig, len(r.capabilities))
	for cap, c := range r.capabilities {
		caps[cap.String()] = c
	}
	endpoints := make(map[string]*EndpointConfig, len(r.endpoints))
	for name, e := range r.endpoints {
		endpoints[name] = e
	}

	return &RegistryConfig{
		Capabilities: caps,
		Endpoints:    endpoints,
		Defaults:     r.defaults,
	}
}

// MergeFromConfig overlays a partial RegistryConfig onto the registry.
// Capabilities and endpoints present in cfg replace existing entries;
// entries absent from cfg are untouched.
func (r *Registry) MergeFromConfig(cfg *RegistryConfig) error {
	for name, c := range cfg.Capabilities {
		cap := ParseCapability(name)
		if cap == "" {
			return fmt.Errorf("unknown capability %q in registry config", name)
		}
		r.SetCapability(cap, c)
	}
	for name, e := range cfg.Endpoints {
		r.SetEndpoint(name, e)
	}
	if cfg.Defaults != nil && cfg.Defaults.Model != "" {
		r.SetDefault(cfg.Defaults.Model)
	}
	return nil
}
