// Package registry manages the catalog of NLP models the platform can use:
// which are enabled, which are warmed up, and how much of the memory budget
// they consume.
package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/healthsignal/symptom-ai-platform/pkg/logging"
)

// DefaultMemoryBudgetMB caps the combined footprint of loaded models.
const DefaultMemoryBudgetMB = 8000

const (
	// optimizeThreshold is the usage fraction that triggers memory optimization.
	optimizeThreshold = 0.8
	// optimizeTarget is the usage fraction optimization tries to reach.
	optimizeTarget = 0.6
	// evictablePriority marks the boundary; only models with a priority number
	// above it may be evicted to reclaim memory.
	evictablePriority = 5
)

// ModelConfig describes one model in the catalog. Priority runs 1 (highest)
// to 10 (lowest).
type ModelConfig struct {
	Name          string `json:"name"`
	ModelID       string `json:"model_id"`
	Task          string `json:"task"`
	Description   string `json:"description"`
	MemoryMB      int    `json:"memory_requirement_mb"`
	Priority      int    `json:"priority"`
	Enabled       bool   `json:"enabled"`
	LoadOnStartup bool   `json:"load_on_startup"`
}

// Loader prepares a model for use (typically a warm-up call against the
// hosted inference API) and returns an opaque handle.
type Loader func(ctx context.Context, cfg ModelConfig) (any, error)

// Manager tracks model load state against a memory budget.
type Manager struct {
	mu       sync.RWMutex
	configs  map[string]ModelConfig
	handles  map[string]any
	loaded   map[string]bool
	usageMB  int
	budgetMB int
	loader   Loader
	logger   *logging.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithMemoryBudgetMB overrides the memory budget.
func WithMemoryBudgetMB(mb int) ManagerOption {
	return func(m *Manager) {
		if mb > 0 {
			m.budgetMB = mb
		}
	}
}

// WithLoader sets the function used to prepare models.
func WithLoader(l Loader) ManagerOption {
	return func(m *Manager) { m.loader = l }
}

// WithCatalog replaces the default model catalog.
func WithCatalog(configs []ModelConfig) ManagerOption {
	return func(m *Manager) {
		m.configs = make(map[string]ModelConfig, len(configs))
		for _, cfg := range configs {
			m.configs[cfg.Name] = cfg
		}
	}
}

// NewManager creates a manager over the default catalog.
func NewManager(logger *logging.Logger, opts ...ManagerOption) *Manager {
	if logger == nil {
		logger = logging.Default()
	}
	m := &Manager{
		handles:  make(map[string]any),
		loaded:   make(map[string]bool),
		budgetMB: DefaultMemoryBudgetMB,
		logger:   logger,
		loader: func(ctx context.Context, cfg ModelConfig) (any, error) {
			// Without an explicit loader a model is tracked but has no handle.
			return cfg.ModelID, nil
		},
	}
	WithCatalog(DefaultCatalog())(m)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CanLoad reports whether loading the named model would stay within budget.
func (m *Manager) CanLoad(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.canLoadLocked(name)
}

func (m *Manager) canLoadLocked(name string) bool {
	cfg, ok := m.configs[name]
	if !ok {
		return false
	}
	return m.usageMB+cfg.MemoryMB < m.budgetMB
}

// Load prepares the named model. Loading an already-loaded model is a no-op.
func (m *Manager) Load(ctx context.Context, name string) error {
	m.mu.Lock()
	cfg, ok := m.configs[name]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("registry: unknown model %q", name)
	}
	if m.loaded[name] {
		m.mu.Unlock()
		return nil
	}
	if !m.canLoadLocked(name) {
		m.mu.Unlock()
		return fmt.Errorf("registry: cannot load %q, memory budget exceeded", name)
	}
	loader := m.loader
	m.mu.Unlock()

	// The loader may call out over the network; keep the lock released.
	handle, err := loader(ctx, cfg)
	if err != nil {
		m.logger.Error("model load failed", "model", name, "error", err)
		return fmt.Errorf("registry: loading %q: %w", name, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loaded[name] {
		return nil
	}
	m.handles[name] = handle
	m.loaded[name] = true
	m.usageMB += cfg.MemoryMB
	m.updateMetricsLocked()
	m.logger.Info("model loaded", "model", name, "memory_mb", cfg.MemoryMB, "usage_mb", m.usageMB)
	return nil
}

// Unload releases the named model and reclaims its memory accounting.
// Unloading a model that is not loaded is a no-op.
func (m *Manager) Unload(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unloadLocked(name)
}

func (m *Manager) unloadLocked(name string) {
	if !m.loaded[name] {
		return
	}
	delete(m.handles, name)
	m.loaded[name] = false
	if cfg, ok := m.configs[name]; ok {
		m.usageMB -= cfg.MemoryMB
		if m.usageMB < 0 {
			m.usageMB = 0
		}
	}
	m.updateMetricsLocked()
	m.logger.Info("model unloaded", "model", name, "usage_mb", m.usageMB)
}

func (m *Manager) updateMetricsLocked() {
	memoryUsageMB.Set(float64(m.usageMB))
	loaded := 0
	for _, ok := range m.loaded {
		if ok {
			loaded++
		}
	}
	modelsLoaded.Set(float64(loaded))
}

// LoadByPriority loads enabled startup models in priority order, skipping any
// that would exceed the budget. maxModels <= 0 means no limit. Returns the
// names loaded.
func (m *Manager) LoadByPriority(ctx context.Context, maxModels int) []string {
	m.mu.RLock()
	configs := make([]ModelConfig, 0, len(m.configs))
	for _, cfg := range m.configs {
		configs = append(configs, cfg)
	}
	m.mu.RUnlock()

	sort.Slice(configs, func(i, j int) bool {
		if configs[i].Priority != configs[j].Priority {
			return configs[i].Priority < configs[j].Priority
		}
		return configs[i].Name < configs[j].Name
	})

	var loaded []string
	for _, cfg := range configs {
		if !cfg.Enabled || !cfg.LoadOnStartup {
			continue
		}
		if maxModels > 0 && len(loaded) >= maxModels {
			break
		}
		if err := m.Load(ctx, cfg.Name); err != nil {
			m.logger.Warn("skipping model", "model", cfg.Name, "error", err)
			continue
		}
		loaded = append(loaded, cfg.Name)
	}
	return loaded
}

// Get returns the handle for a loaded model.
func (m *Manager) Get(name string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.handles[name]
	return h, ok && m.loaded[name]
}

// IsLoaded reports whether the named model is loaded.
func (m *Manager) IsLoaded(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loaded[name]
}

// ModelStatus is the externally visible state of one model.
type ModelStatus struct {
	Loaded bool        `json:"loaded"`
	Config ModelConfig `json:"config"`
}

// SystemStatus summarizes registry-wide memory accounting.
type SystemStatus struct {
	CurrentMemoryUsageMB int `json:"current_memory_usage_mb"`
	MaxMemoryUsageMB     int `json:"max_memory_usage_mb"`
	ModelsLoaded         int `json:"models_loaded"`
	TotalModels          int `json:"total_models"`
}

// Status is the full registry snapshot served on the models endpoint.
type Status struct {
	Models map[string]ModelStatus `json:"models"`
	System SystemStatus           `json:"system"`
}

// Status reports the state of every model plus system-level accounting.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	models := make(map[string]ModelStatus, len(m.configs))
	loadedCount := 0
	for name, cfg := range m.configs {
		loaded := m.loaded[name]
		if loaded {
			loadedCount++
		}
		models[name] = ModelStatus{Loaded: loaded, Config: cfg}
	}

	return Status{
		Models: models,
		System: SystemStatus{
			CurrentMemoryUsageMB: m.usageMB,
			MaxMemoryUsageMB:     m.budgetMB,
			ModelsLoaded:         loadedCount,
			TotalModels:          len(m.configs),
		},
	}
}

// OptimizeMemory evicts low-priority models when usage passes 80% of budget,
// until usage drops to 60% or no evictable models remain. Models at or above
// the protected priority band are never evicted. Returns the names unloaded.
func (m *Manager) OptimizeMemory() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var unloaded []string
	if float64(m.usageMB) <= float64(m.budgetMB)*optimizeThreshold {
		return unloaded
	}

	loaded := make([]ModelConfig, 0, len(m.configs))
	for name, cfg := range m.configs {
		if m.loaded[name] {
			loaded = append(loaded, cfg)
		}
	}
	// Lowest priority first.
	sort.Slice(loaded, func(i, j int) bool {
		if loaded[i].Priority != loaded[j].Priority {
			return loaded[i].Priority > loaded[j].Priority
		}
		return loaded[i].Name < loaded[j].Name
	})

	for _, cfg := range loaded {
		if float64(m.usageMB) <= float64(m.budgetMB)*optimizeTarget {
			break
		}
		if cfg.Priority <= evictablePriority {
			continue
		}
		m.unloadLocked(cfg.Name)
		unloaded = append(unloaded, cfg.Name)
	}
	return unloaded
}
