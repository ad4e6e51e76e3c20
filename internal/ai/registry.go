package ai

import (
	"fmt"
	"net/http"
	"sort"
	"time"
)

// Config selects and configures providers.
type Config struct {
	DefaultProvider string
	Model           string
	APIKey          string
	BaseURL         string
	Timeout         time.Duration
	Breaker         BreakerConfig
}

// Registry resolves an agent's provider name to a breaker-wrapped Provider.
type Registry struct {
	providers       map[string]Provider
	defaultProvider string
}

// NewRegistry builds every known provider. Credentials and base URL apply to
// whichever remote provider is the default; the others use their public
// endpoints.
func NewRegistry(cfg Config) (*Registry, error) {
	client := &http.Client{Timeout: cfg.Timeout}
	breakerCfg := cfg.Breaker
	if breakerCfg.CallTimeout == 0 {
		breakerCfg.CallTimeout = cfg.Timeout
	}

	urlFor := func(name string) string {
		if name == cfg.DefaultProvider {
			return cfg.BaseURL
		}
		return ""
	}
	modelFor := func(name string) string {
		if name == cfg.DefaultProvider {
			return cfg.Model
		}
		return ""
	}

	r := &Registry{providers: map[string]Provider{}, defaultProvider: cfg.DefaultProvider}
	r.Register(NewOpenAIProvider(urlFor("openai"), cfg.APIKey, modelFor("openai"), client), breakerCfg)
	r.Register(NewAnthropicProvider(urlFor("anthropic"), cfg.APIKey, modelFor("anthropic"), client), breakerCfg)
	r.Register(NewOllamaProvider(urlFor("ollama"), modelFor("ollama"), client), breakerCfg)
	r.Register(&MockProvider{}, breakerCfg)

	if r.defaultProvider == "" {
		r.defaultProvider = "mock"
	}
	if _, ok := r.providers[r.defaultProvider]; !ok {
		return nil, fmt.Errorf("unknown AI provider %q (known: %v)", r.defaultProvider, r.Names())
	}
	return r, nil
}

// NewStaticRegistry wraps already built providers, mostly for tests.
func NewStaticRegistry(defaultProvider string, providers ...Provider) *Registry {
	r := &Registry{providers: map[string]Provider{}, defaultProvider: defaultProvider}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

// Register adds p behind a circuit breaker.
func (r *Registry) Register(p Provider, cfg BreakerConfig) {
	r.providers[p.Name()] = WithBreaker(p, cfg)
}

// Get returns the named provider, or the default when name is empty.
func (r *Registry) Get(name string) (Provider, error) {
	if name == "" {
		name = r.defaultProvider
	}
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown AI provider %q", name)
	}
	return p, nil
}

// Names lists the registered providers.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for n := range r.providers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// BreakerStates reports the circuit breaker state of each provider.
func (r *Registry) BreakerStates() map[string]string {
	states := make(map[string]string, len(r.providers))
	for name, p := range r.providers {
		if b, ok := p.(*breakerProvider); ok {
			states[name] = b.State()
		}
	}
	return states
}
